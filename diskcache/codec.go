package diskcache

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/s2"
	"github.com/pierrec/lz4/v4"
)

// Codec names accepted by NewCodec.
const (
	CodecNone = "none"
	CodecS2   = "s2"
	CodecLZ4  = "lz4"
)

// Codec compresses spilled entries on the way to disk. Spilled files
// are cold by definition, so trading CPU for disk footprint is usually
// a win; "none" opts out.
type Codec interface {
	// Ext is the filename suffix for files written with this codec.
	Ext() string
	Encode(data []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
}

// NewCodec constructs a Codec by its configuration name.
func NewCodec(name string) (Codec, error) {
	switch name {
	case CodecNone, "":
		return noneCodec{}, nil
	case CodecS2:
		return s2Codec{}, nil
	case CodecLZ4:
		return lz4Codec{}, nil
	default:
		return nil, fmt.Errorf("diskcache: unknown codec %q", name)
	}
}

type noneCodec struct{}

func (noneCodec) Ext() string                     { return ".blk" }
func (noneCodec) Encode(b []byte) ([]byte, error) { return b, nil }
func (noneCodec) Decode(b []byte) ([]byte, error) { return b, nil }

type s2Codec struct{}

func (s2Codec) Ext() string { return ".s2" }

func (s2Codec) Encode(b []byte) ([]byte, error) {
	return s2.Encode(nil, b), nil
}

func (s2Codec) Decode(b []byte) ([]byte, error) {
	out, err := s2.Decode(nil, b)
	if err != nil {
		return nil, fmt.Errorf("diskcache: s2 decode: %w", err)
	}
	return out, nil
}

type lz4Codec struct{}

func (lz4Codec) Ext() string { return ".lz4" }

func (lz4Codec) Encode(b []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if _, err := w.Write(b); err != nil {
		return nil, fmt.Errorf("diskcache: lz4 encode: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("diskcache: lz4 encode: %w", err)
	}
	return buf.Bytes(), nil
}

func (lz4Codec) Decode(b []byte) ([]byte, error) {
	out, err := io.ReadAll(lz4.NewReader(bytes.NewReader(b)))
	if err != nil {
		return nil, fmt.Errorf("diskcache: lz4 decode: %w", err)
	}
	return out, nil
}
