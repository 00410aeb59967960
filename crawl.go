package fsm

import (
	"github.com/bits-and-blooms/bitset"
)

// crawl materializes an automaton from an abstract superstate space. Every
// algebraic operator is a thin wrapper around it: the operator defines what
// a superstate is (a tagged-state set, a pair, a state set with an omega
// marker), where exploration starts, when a superstate accepts and how one
// superstate follows a symbol; crawl does the rest.
//
// Exploration is a breadth-first worklist over the sorted alphabet.
// Superstates are deduplicated by structural equality, first occurrence
// wins, and each one's dense handle is its discovery index, so two crawls
// over structurally identical inputs produce identical automata. The result
// is merged (Automerge) and canonically renumbered before it is returned.
//
// next must be pure and defined for every alphabet symbol, and the space of
// superstates it generates must be finite. crawl cannot check either
// obligation; violating them loops forever appending fresh superstates.
func crawl[S Hashable](alphabet []Symbol, initial S, isFinal func(S) bool, next func(S, Symbol) S) *Fsm {
	discovered := []S{initial}
	handles := newHashMap[int](withCapacity(4))
	handles.Set(initial, 0)

	finals := bitset.New(uint(len(alphabet) + 1))
	delta := make(map[State]map[Symbol]State)

	for i := 0; i < len(discovered); i++ {
		cur := discovered[i]

		if isFinal(cur) {
			finals.Set(uint(i))
		}

		row := make(map[Symbol]State, len(alphabet))
		for _, sym := range alphabet {
			succ := next(cur, sym)
			j, ok := handles.Get(succ)
			if !ok {
				j = len(discovered)
				discovered = append(discovered, succ)
				handles.Set(succ, j)
			}
			row[sym] = State(j)
		}
		delta[State(i)] = row
	}

	states := make(map[State]struct{}, len(discovered))
	finalSet := make(map[State]struct{})
	for i := range discovered {
		states[State(i)] = struct{}{}
		if finals.Test(uint(i)) {
			finalSet[State(i)] = struct{}{}
		}
	}

	out := build(normalizeAlphabet(alphabet), states, 0, finalSet, delta)
	return out.Automerge().renumber()
}
