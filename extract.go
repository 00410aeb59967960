package fsm

// Algebra is the expression algebra the extraction algorithm emits into.
// Extract needs to build character classes, compose expressions and close
// them over repetition, nothing more; any symbolic-expression module
// providing these constructors can receive the result. E is whatever
// expression representation that module uses.
type Algebra[E any] interface {
	// Nothing is the empty-language constant.
	Nothing() E
	// EmptyString is the expression matching only the empty sequence.
	EmptyString() E
	// Symbols is the class matching any one of the given symbols.
	Symbols(symbols []Symbol) E
	// NotSymbols is the class matching any one symbol except the given
	// ones; it realizes the wildcard alphabet entry.
	NotSymbols(symbols []Symbol) E
	Alternate(x, y E) E
	Concatenate(x, y E) E
	Star(x E) E
}

// outsideKey is the synthetic left-hand marker representing "before any
// transition has been consumed". It differs from the empty state-set: from
// the empty state-set every transition leads back to the empty state-set,
// whereas from outside the empty sequence reaches the initial state.
type outsideKey struct{}

func (outsideKey) Hash() uint64 {
	return phi64
}

func (outsideKey) Equals(other Hashable) bool {
	_, ok := other.(outsideKey)
	return ok
}

// equation records every way to reach the state-set right in one step: a
// mapping from each left state-set (or the outside marker) to the
// expression of symbols realizing that step. Equations are scratch state
// local to one Extract call and are mutated in place during elimination.
// The insertion-ordered key slice keeps iteration deterministic.
type equation[E any] struct {
	right *stateSet
	order []Hashable
	lefts *hashMap[E]
}

func newEquation[E any](right *stateSet, f *Fsm, alg Algebra[E]) *equation[E] {
	eq := &equation[E]{
		right: right,
		lefts: newHashMap[E](withCapacity(4)),
	}

	for _, sym := range f.alphabet {
		var sources []State
		for _, s := range f.sortedStates() {
			if right.Contains(f.delta[s][sym]) {
				sources = append(sources, s)
			}
		}

		var expr E
		if sym == Other {
			expr = alg.NotSymbols(f.literals())
		} else {
			expr = alg.Symbols([]Symbol{sym})
		}
		eq.add(newStateSet(sources), expr, alg)
	}

	// The initial state alone is reachable via the empty sequence.
	if right.Contains(f.initial) {
		eq.add(outsideKey{}, alg.EmptyString(), alg)
	}

	return eq
}

// add records one more way to reach right from left, alternating with
// whatever was already known for that left.
func (eq *equation[E]) add(left Hashable, expr E, alg Algebra[E]) {
	if known, ok := eq.lefts.Get(left); ok {
		eq.lefts.Set(left, alg.Alternate(known, expr))
		return
	}
	eq.order = append(eq.order, left)
	eq.lefts.Set(left, expr)
}

func (eq *equation[E]) remove(left Hashable) {
	eq.lefts.Delete(left)
	for i, k := range eq.order {
		if k.Equals(left) {
			eq.order = append(eq.order[:i], eq.order[i+1:]...)
			return
		}
	}
}

// applyLoops folds the self-referential entry, if any, into a Kleene
// closure appended to every other left entry: "A·x | B·y = A" becomes
// "B·y·x* = A".
func (eq *equation[E]) applyLoops(alg Algebra[E]) {
	self, ok := eq.lefts.Get(eq.right)
	if !ok {
		return
	}

	loop := alg.Star(self)
	eq.remove(eq.right)

	for _, k := range eq.order {
		known, _ := eq.lefts.Get(k)
		eq.lefts.Set(k, alg.Concatenate(known, loop))
	}
}

// eliminate substitutes other into this equation, cancelling the reference
// to other.right: any way to reach other.right, composed with the known
// step from other.right to here, is a way to reach here. other must have
// had applyLoops applied already.
func (eq *equation[E]) eliminate(other *equation[E], alg Algebra[E]) {
	via, ok := eq.lefts.Get(other.right)
	if !ok {
		return
	}
	eq.remove(other.right)

	for _, k := range other.order {
		expr, _ := other.lefts.Get(k)
		eq.add(k, alg.Concatenate(expr, via), alg)
	}
}

// Extract solves the automaton for a symbolic expression describing exactly
// the sequences it accepts, leaving no residual automaton structure.
//
// The automaton is read as a system of equations over the expression
// algebra, one unknown per reachable state-set, starting from the set of
// all final states. Discovery closes transitively: an equation may
// reference state-sets not yet seen, and those are appended to the
// worklist. Elimination then runs from the most recently discovered
// equation backward: fold self-loops into closures, substitute into every
// earlier equation. What survives on the first equation's outside entry is
// the answer; if nothing survives, the automaton accepts no sequences and
// the result is Nothing.
//
// The automaton is never mutated. Alphabet symbols and states are visited
// in sorted order throughout, so structurally identical automata extract to
// identical expressions.
func Extract[E any](f *Fsm, alg Algebra[E]) E {
	finals := newStateSet(f.Finals())

	eqs := []*equation[E]{newEquation(finals, f, alg)}
	index := newHashMap[int](withCapacity(4))
	index.Set(finals, 0)

	for i := 0; i < len(eqs); i++ {
		for _, k := range eqs[i].order {
			right, ok := k.(*stateSet)
			if !ok {
				continue // outside
			}
			if _, seen := index.Get(right); seen {
				continue
			}
			index.Set(right, len(eqs))
			eqs = append(eqs, newEquation(right, f, alg))
		}
	}

	for i := len(eqs) - 1; i >= 0; i-- {
		eqs[i].applyLoops(alg)
		for j := i - 1; j >= 0; j-- {
			eqs[j].eliminate(eqs[i], alg)
		}
	}

	if expr, ok := eqs[0].lefts.Get(outsideKey{}); ok {
		return expr
	}
	return alg.Nothing()
}
