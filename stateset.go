package fsm

import "slices"

// stateSet is a frozen, sorted, hashed set of states. It is the superstate
// type of the Kleene star construction and the equation key of the
// extraction algorithm. Values are never modified after newStateSet returns.
type stateSet struct {
	values []State // sorted, deduplicated
	hash   uint64
}

func newStateSet(values []State) *stateSet {
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	h := phi64
	for _, v := range sorted {
		h = h*31 + mix32(int(v))
	}
	return &stateSet{values: sorted, hash: h}
}

func (s *stateSet) Hash() uint64 {
	return s.hash
}

func (s *stateSet) Equals(other Hashable) bool {
	o, ok := other.(*stateSet)
	return ok && slices.Equal(s.values, o.values)
}

// Contains reports set membership by binary search.
func (s *stateSet) Contains(state State) bool {
	_, found := slices.BinarySearch(s.values, state)
	return found
}

func (s *stateSet) Values() []State {
	return s.values
}

func (s *stateSet) Size() int {
	return len(s.values)
}

// Operand tags identifying which side of a binary operator a tagged state
// belongs to.
const (
	tagLeft  = 0
	tagRight = 1
)

// taggedState is one member of a concatenation superstate: a state of either
// the left or the right operand, tagged with which.
type taggedState struct {
	tag   int
	state State
}

// taggedSet is a frozen, sorted, hashed set of tagged states, the
// concatenation operator's superstate: it simultaneously tracks every state
// the left operand may still be in and every state the right operand may
// already have reached.
type taggedSet struct {
	elems []taggedState // sorted by (tag, state), deduplicated
	hash  uint64
}

func compareTagged(a, b taggedState) int {
	if a.tag != b.tag {
		return a.tag - b.tag
	}
	return int(a.state - b.state)
}

func newTaggedSet(elems []taggedState) *taggedSet {
	sorted := slices.Clone(elems)
	slices.SortFunc(sorted, compareTagged)
	sorted = slices.Compact(sorted)

	h := phi64
	for _, e := range sorted {
		h = h*31 + mix32(e.tag)
		h = h*31 + mix32(int(e.state))
	}
	return &taggedSet{elems: sorted, hash: h}
}

func (s *taggedSet) Hash() uint64 {
	return s.hash
}

func (s *taggedSet) Equals(other Hashable) bool {
	o, ok := other.(*taggedSet)
	return ok && slices.Equal(s.elems, o.elems)
}

// statePair is the synchronous-product superstate used by alternation and
// intersection: one state of each operand, advanced in lockstep.
type statePair struct {
	left  State
	right State
}

func (p statePair) Hash() uint64 {
	return mix32(int(p.left))*31 + mix32(int(p.right))
}

func (p statePair) Equals(other Hashable) bool {
	o, ok := other.(statePair)
	return ok && p == o
}
