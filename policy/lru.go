package policy

// lruNode is an intrusive doubly linked list element.
// head is the most-recently-inserted end, tail is the eviction end.
type lruNode struct {
	key  string
	size int64

	prev *lruNode
	next *lruNode
}

// lru is a classic move-to-front Least-Recently-Used strategy.
// Reads never touch it; only Insert promotes, so "recently used"
// here means "recently inserted or re-inserted".
type lru struct {
	m     map[string]*lruNode
	head  *lruNode
	tail  *lruNode
	total int64
}

func newLRU() *lru {
	return &lru{m: make(map[string]*lruNode)}
}

// Insert registers the key at MRU, or promotes it if already tracked.
func (p *lru) Insert(key string, size int64) {
	if n, ok := p.m[key]; ok {
		p.total += size - n.size
		n.size = size
		p.moveToFront(n)
		return
	}
	n := &lruNode{key: key, size: size}
	p.m[key] = n
	p.pushFront(n)
	p.total += size
}

// RemoveVictim pops the tail (least recently inserted).
func (p *lru) RemoveVictim() (string, int64, bool) {
	n := p.tail
	if n == nil {
		return "", 0, false
	}
	p.unlink(n)
	delete(p.m, n.key)
	p.total -= n.size
	return n.key, n.size, true
}

// Remove detaches a specific key from the list and index.
func (p *lru) Remove(key string) (int64, bool) {
	n, ok := p.m[key]
	if !ok {
		return 0, false
	}
	p.unlink(n)
	delete(p.m, key)
	p.total -= n.size
	return n.size, true
}

func (p *lru) Contains(key string) bool {
	_, ok := p.m[key]
	return ok
}

func (p *lru) Len() int      { return len(p.m) }
func (p *lru) IsEmpty() bool { return len(p.m) == 0 }
func (p *lru) Size() int64   { return p.total }

// ---- list ops (O(1)) ----

func (p *lru) pushFront(n *lruNode) {
	n.prev = nil
	n.next = p.head
	if p.head != nil {
		p.head.prev = n
	}
	p.head = n
	if p.tail == nil {
		p.tail = n
	}
}

func (p *lru) moveToFront(n *lruNode) {
	if n == p.head {
		return
	}
	p.unlink(n)
	p.pushFront(n)
}

func (p *lru) unlink(n *lruNode) {
	if n.prev != nil {
		n.prev.next = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	if p.head == n {
		p.head = n.next
	}
	if p.tail == n {
		p.tail = n.prev
	}
	n.prev, n.next = nil, nil
}

var _ Strategy = (*lru)(nil)
