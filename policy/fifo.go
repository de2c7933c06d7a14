package policy

// fifo evicts in insertion order. Unlike LRU, a repeated Insert for a
// tracked key only refreshes the accounted size; the queue position set
// by the first insert is permanent. This is what makes FIFO and LRU
// differ in eviction tie-breaking.
type fifo struct {
	m     map[string]*lruNode
	head  *lruNode // newest insertions
	tail  *lruNode // oldest insertion = next victim
	total int64
}

func newFIFO() *fifo {
	return &fifo{m: make(map[string]*lruNode)}
}

// Insert appends the key on first sight; re-inserts keep the order.
func (p *fifo) Insert(key string, size int64) {
	if n, ok := p.m[key]; ok {
		p.total += size - n.size
		n.size = size
		return
	}
	n := &lruNode{key: key, size: size}
	p.m[key] = n
	p.pushFront(n)
	p.total += size
}

// RemoveVictim pops the oldest insertion.
func (p *fifo) RemoveVictim() (string, int64, bool) {
	n := p.tail
	if n == nil {
		return "", 0, false
	}
	p.unlink(n)
	delete(p.m, n.key)
	p.total -= n.size
	return n.key, n.size, true
}

// Remove detaches a specific key, keeping queue order for the rest.
func (p *fifo) Remove(key string) (int64, bool) {
	n, ok := p.m[key]
	if !ok {
		return 0, false
	}
	p.unlink(n)
	delete(p.m, key)
	p.total -= n.size
	return n.size, true
}

func (p *fifo) Contains(key string) bool {
	_, ok := p.m[key]
	return ok
}

func (p *fifo) Len() int      { return len(p.m) }
func (p *fifo) IsEmpty() bool { return len(p.m) == 0 }
func (p *fifo) Size() int64   { return p.total }

// ---- list ops (O(1), shared node type with lru) ----

func (p *fifo) pushFront(n *lruNode) {
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

func (p *fifo) unlink(n *lruNode) {
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

var _ Strategy = (*fifo)(nil)
