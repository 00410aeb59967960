package fsm

import (
	"fmt"
	"slices"

	"github.com/bits-and-blooms/bitset"
)

// Unbounded marks an open upper repetition bound in Repeat.
const Unbounded = -1

// Null returns the automaton over the given alphabet accepting nothing, not
// even the empty sequence. It is the absorbing element for concatenation and
// the identity for alternation.
func Null(alphabet []Symbol) *Fsm {
	norm := normalizeAlphabet(alphabet)

	row := make(map[Symbol]State, len(norm))
	for _, sym := range norm {
		row[sym] = 0
	}
	return build(
		norm,
		map[State]struct{}{0: {}},
		0,
		map[State]struct{}{},
		map[State]map[Symbol]State{0: row},
	)
}

// Epsilon returns the automaton over the given alphabet accepting only the
// empty sequence. It is the identity element for concatenation.
func Epsilon(alphabet []Symbol) *Fsm {
	norm := normalizeAlphabet(alphabet)

	sink := make(map[Symbol]State, len(norm))
	start := make(map[Symbol]State, len(norm))
	for _, sym := range norm {
		start[sym] = 1
		sink[sym] = 1
	}
	return build(
		norm,
		map[State]struct{}{0: {}, 1: {}},
		0,
		map[State]struct{}{0: {}},
		map[State]map[Symbol]State{0: start, 1: sink},
	)
}

// Literal returns the automaton accepting exactly the given sequence and
// nothing else. Every symbol of the sequence must be in the alphabet.
func Literal(alphabet []Symbol, seq []Symbol) (*Fsm, error) {
	norm := normalizeAlphabet(alphabet)

	sink := State(len(seq) + 1)
	states := make(map[State]struct{}, len(seq)+2)
	delta := make(map[State]map[Symbol]State, len(seq)+2)
	for i := 0; i <= int(sink); i++ {
		states[State(i)] = struct{}{}
	}

	for i, want := range seq {
		if !slices.Contains(norm, want) {
			return nil, fmt.Errorf("%w: %q", ErrBadLiteral, want.String())
		}
		row := make(map[Symbol]State, len(norm))
		for _, sym := range norm {
			if sym == want {
				row[sym] = State(i + 1)
			} else {
				row[sym] = sink
			}
		}
		delta[State(i)] = row
	}

	dead := make(map[Symbol]State, len(norm))
	for _, sym := range norm {
		dead[sym] = sink
	}
	delta[State(len(seq))] = dead
	delta[sink] = dead

	return build(
		norm,
		states,
		0,
		map[State]struct{}{State(len(seq)): {}},
		delta,
	), nil
}

// Concatenate returns the automaton accepting any sequence that splits into
// a prefix accepted by a followed by a suffix accepted by b. Both operands
// must range over the identical alphabet.
//
// Naively wiring a's final states to b's initial state is insufficient when
// b itself accepts the empty sequence; instead each superstate is a tagged
// set tracking every state a may still be in together with every state b
// may already have reached.
func Concatenate(a, b *Fsm) (*Fsm, error) {
	if !sameAlphabet(a, b) {
		return nil, fmt.Errorf("%w: %v vs %v", ErrAlphabetMismatch, a.alphabet, b.alphabet)
	}

	initial := []taggedState{{tagLeft, a.initial}}
	if a.IsFinal(a.initial) {
		// The empty prefix already completes a, so b starts immediately.
		initial = append(initial, taggedState{tagRight, b.initial})
	}

	isFinal := func(ss *taggedSet) bool {
		for _, e := range ss.elems {
			switch e.tag {
			case tagLeft:
				if a.IsFinal(e.state) && b.IsFinal(b.initial) {
					return true
				}
			case tagRight:
				if b.IsFinal(e.state) {
					return true
				}
			}
		}
		return false
	}

	next := func(ss *taggedSet, sym Symbol) *taggedSet {
		var out []taggedState
		for _, e := range ss.elems {
			switch e.tag {
			case tagLeft:
				to := a.delta[e.state][sym]
				out = append(out, taggedState{tagLeft, to})
				if a.IsFinal(to) {
					out = append(out, taggedState{tagRight, b.initial})
				}
			case tagRight:
				out = append(out, taggedState{tagRight, b.delta[e.state][sym]})
			}
		}
		return newTaggedSet(out)
	}

	return crawl(a.alphabet, newTaggedSet(initial), isFinal, next), nil
}

// Union returns the automaton accepting any sequence accepted by either
// operand. Both operands must range over the identical alphabet.
func Union(a, b *Fsm) (*Fsm, error) {
	return product(a, b, false)
}

// Intersect returns the automaton accepting any sequence accepted by both
// operands. Both operands must range over the identical alphabet.
func Intersect(a, b *Fsm) (*Fsm, error) {
	return product(a, b, true)
}

// product is the synchronous pair construction shared by Union and
// Intersect; only the finality rule differs.
func product(a, b *Fsm, both bool) (*Fsm, error) {
	if !sameAlphabet(a, b) {
		return nil, fmt.Errorf("%w: %v vs %v", ErrAlphabetMismatch, a.alphabet, b.alphabet)
	}

	isFinal := func(p statePair) bool {
		if both {
			return a.IsFinal(p.left) && b.IsFinal(p.right)
		}
		return a.IsFinal(p.left) || b.IsFinal(p.right)
	}

	next := func(p statePair, sym Symbol) statePair {
		return statePair{
			left:  a.delta[p.left][sym],
			right: b.delta[p.right][sym],
		}
	}

	return crawl(a.alphabet, statePair{a.initial, b.initial}, isFinal, next), nil
}

// Star returns the Kleene closure of a: the automaton accepting zero or
// more back-to-back sequences each accepted by a.
//
// Connecting a's final states straight back to its initial state is unsound
// (consider (b*ab)*, where that wiring would let a match reset mid-way), so
// the construction introduces a synthetic omega state, distinct from every
// state of a, as the sole start and the sole marker of acceptance. Omega
// behaves exactly like a's initial state when a symbol is consumed, and it
// is re-added whenever a final state of a is reached, closing the loop
// without collapsing it structurally.
func Star(a *Fsm) *Fsm {
	omega := State(0)
	for a.HasState(omega) {
		omega++
	}

	isFinal := func(ss *stateSet) bool {
		return ss.Contains(omega)
	}

	next := func(ss *stateSet, sym Symbol) *stateSet {
		var out []State
		for _, s := range ss.Values() {
			if s == omega {
				s = a.initial
			}
			to := a.delta[s][sym]
			out = append(out, to)
			if a.IsFinal(to) {
				out = append(out, omega)
			}
		}
		return newStateSet(out)
	}

	return crawl(a.alphabet, newStateSet([]State{omega}), isFinal, next)
}

// Repeat returns the automaton accepting between min and max back-to-back
// sequences each accepted by a. max may be Unbounded. The construction is
// compositional: min forced copies, then either one starred copy (unbounded
// max) or max-min optional copies.
func Repeat(a *Fsm, min, max int) (*Fsm, error) {
	if min < 0 {
		return nil, fmt.Errorf("%w: min %d is negative", ErrBadRepeat, min)
	}
	if max != Unbounded && max < min {
		return nil, fmt.Errorf("%w: max %d below min %d", ErrBadRepeat, max, min)
	}

	out := Epsilon(a.alphabet)

	for i := 0; i < min; i++ {
		next, err := Concatenate(out, a)
		if err != nil {
			return nil, err
		}
		out = next
	}

	if max == Unbounded {
		return Concatenate(out, Star(a))
	}

	optional, err := Union(a, Epsilon(a.alphabet))
	if err != nil {
		return nil, err
	}
	for i := min; i < max; i++ {
		next, err := Concatenate(out, optional)
		if err != nil {
			return nil, err
		}
		out = next
	}
	return out, nil
}

// IsEmpty reports whether the automaton accepts no sequences at all: no
// final state is reachable from the initial state.
func IsEmpty(f *Fsm) bool {
	states := f.sortedStates()
	index := make(map[State]uint, len(states))
	for i, s := range states {
		index[s] = uint(i)
	}

	seen := bitset.New(uint(len(states)))
	worklist := []State{f.initial}
	seen.Set(index[f.initial])

	for len(worklist) > 0 {
		s := worklist[0]
		worklist = worklist[1:]

		if f.IsFinal(s) {
			return false
		}
		for _, sym := range f.alphabet {
			to := f.delta[s][sym]
			if !seen.Test(index[to]) {
				seen.Set(index[to])
				worklist = append(worklist, to)
			}
		}
	}
	return true
}
