package filecache

import "strings"

// recognizedPrefix is the first path segment a key must carry to be
// attributed to an organization/stream in metrics. Keys look like
// files/{org}/{stream_type}/{stream_name}/.../{file}.
const recognizedPrefix = "files"

// Metrics receives cache-level signals. A NoopMetrics implementation is
// provided and used by default; metrics/prom exports to Prometheus.
type Metrics interface {
	Hit()
	Miss()
	// FileAdded/FileEvicted carry the admission size and the key's
	// metric labels. org and streamType are empty for keys outside the
	// recognized prefix.
	FileAdded(org, streamType string, bytes int64)
	FileEvicted(org, streamType string, bytes int64)
	SpillFailed()
	GCShortfall()
}

// NoopMetrics is the default Metrics implementation.
type NoopMetrics struct{}

func (NoopMetrics) Hit()                             {}
func (NoopMetrics) Miss()                            {}
func (NoopMetrics) FileAdded(_, _ string, _ int64)   {}
func (NoopMetrics) FileEvicted(_, _ string, _ int64) {}
func (NoopMetrics) SpillFailed()                     {}
func (NoopMetrics) GCShortfall()                     {}

var _ Metrics = NoopMetrics{}

// classifyKey extracts the metric labels from a cache key. Only keys
// under the recognized prefix are attributed; everything else is
// accounted without labels.
func classifyKey(key string) (org, streamType string) {
	parts := strings.SplitN(key, "/", 4)
	if len(parts) < 3 || parts[0] != recognizedPrefix {
		return "", ""
	}
	return parts[1], parts[2]
}
