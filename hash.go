package fsm

// Golden ratio bit mixer.
const phi64 = uint64(0x9e3779b97f4a7c15)

// mix32 is the 32-bit finalization step of MurmurHash3.
func mix32(v int) uint64 {
	k := uint32(v)
	k = (k ^ (k >> 16)) * 0x85ebca6b
	k = (k ^ (k >> 13)) * 0xc2b2ae35
	return uint64(k ^ (k >> 16))
}

// Hashable is implemented by values usable as hashMap keys: the superstates
// the construction procedure deduplicates and the state-set keys of the
// extraction algorithm. Equals must be structural equality, not merely hash
// equality.
type Hashable interface {
	Hash() uint64
	Equals(other Hashable) bool
}

// hashMap is a chained-bucket hash table keyed by Hashable values. Go's
// built-in map cannot key on slice-backed set values, which is exactly what
// superstates are. All uses are scratch state local to a single call, so the
// table is not safe for concurrent writers and does not try to be.
type hashMap[T any] struct {
	buckets    []*entry[T]
	size       int
	mask       uint64
	emptyValue T
}

type entry[T any] struct {
	key   Hashable
	value T
	next  *entry[T]
}

const loadFactor = 0.75

type hashMapOption func(*int)

// withCapacity sets the initial capacity, rounded up to a power of two.
func withCapacity(capacity int) hashMapOption {
	return func(c *int) {
		*c = capacity
	}
}

func newHashMap[T any](options ...hashMapOption) *hashMap[T] {
	capacity := 1
	for _, opt := range options {
		opt(&capacity)
	}
	realCap := 1
	for realCap < capacity {
		realCap <<= 1
	}

	return &hashMap[T]{
		buckets: make([]*entry[T], realCap),
		mask:    uint64(realCap - 1),
	}
}

// Set inserts or updates the value for key.
func (m *hashMap[T]) Set(key Hashable, value T) {
	index := key.Hash() & m.mask

	for e := m.buckets[index]; e != nil; e = e.next {
		if e.key.Equals(key) {
			e.value = value
			return
		}
	}

	m.buckets[index] = &entry[T]{
		key:   key,
		value: value,
		next:  m.buckets[index],
	}
	m.size++

	if float64(m.size)/float64(len(m.buckets)) > loadFactor {
		m.resize()
	}
}

// Get returns the value stored for key, if any.
func (m *hashMap[T]) Get(key Hashable) (T, bool) {
	index := key.Hash() & m.mask

	for e := m.buckets[index]; e != nil; e = e.next {
		if e.key.Equals(key) {
			return e.value, true
		}
	}
	return m.emptyValue, false
}

// Delete removes the entry for key if present.
func (m *hashMap[T]) Delete(key Hashable) {
	index := key.Hash() & m.mask

	var prev *entry[T]
	for e := m.buckets[index]; e != nil; prev, e = e, e.next {
		if e.key.Equals(key) {
			if prev == nil {
				m.buckets[index] = e.next
			} else {
				prev.next = e.next
			}
			m.size--
			return
		}
	}
}

func (m *hashMap[T]) resize() {
	newCap := len(m.buckets) << 1
	newBuckets := make([]*entry[T], newCap)
	newMask := uint64(newCap - 1)

	for _, head := range m.buckets {
		for e := head; e != nil; e = e.next {
			newIndex := e.key.Hash() & newMask
			newBuckets[newIndex] = &entry[T]{
				key:   e.key,
				value: e.value,
				next:  newBuckets[newIndex],
			}
		}
	}

	m.buckets = newBuckets
	m.mask = newMask
}

// Size returns the number of entries.
func (m *hashMap[T]) Size() int {
	return m.size
}
