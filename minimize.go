package fsm

import "slices"

// Equivalent reports whether two states of this automaton behave
// identically: they agree on finality and, for every alphabet symbol, on
// their transition target once b is identified with a (a transition into b
// counts as a transition into a for the comparison). This is a one-step
// test, not a full bisimulation closure; the closure emerges from repeated
// merging in Automerge. Reflexive by construction.
//
// Both arguments must be states of this automaton.
func (f *Fsm) Equivalent(a, b State) bool {
	if !f.HasState(a) || !f.HasState(b) {
		return false
	}
	if f.IsFinal(a) != f.IsFinal(b) {
		return false
	}

	for _, sym := range f.alphabet {
		nextA := f.delta[a][sym]
		nextB := f.delta[b][sym]
		if nextA == b {
			nextA = a
		}
		if nextB == b {
			nextB = a
		}
		if nextA != nextB {
			return false
		}
	}
	return true
}

// Replace returns a new automaton with every occurrence of old rewritten to
// neu: as the initial state, in the final set, and as transition source and
// target. old is dropped from the state set. This is both the merge
// primitive behind Automerge and a general renaming primitive (neu need not
// be an existing state).
func (f *Fsm) Replace(old, neu State) *Fsm {
	if old == neu {
		return f
	}

	sub := func(s State) State {
		if s == old {
			return neu
		}
		return s
	}

	_, keepRow := f.states[neu]

	states := make(map[State]struct{}, len(f.states))
	delta := make(map[State]map[Symbol]State, len(f.states))
	for s := range f.states {
		states[sub(s)] = struct{}{}
		if s == old && keepRow {
			// neu already has its own row; when the two states are being
			// merged those rows agree under the substitution anyway.
			continue
		}
		row := make(map[Symbol]State, len(f.alphabet))
		for sym, to := range f.delta[s] {
			row[sym] = sub(to)
		}
		delta[sub(s)] = row
	}

	finals := make(map[State]struct{}, len(f.finals))
	for s := range f.finals {
		finals[sub(s)] = struct{}{}
	}

	return build(f.alphabet, states, sub(f.initial), finals, delta)
}

// Automerge returns an automaton with no two distinct equivalent states
// left: it scans all pairs of distinct states, merges the first equivalent
// pair found and restarts the scan. Merging two states can newly equate two
// other states, so this is a fixpoint rather than a single pass; it
// terminates because every merge strictly shrinks the state set.
func (f *Fsm) Automerge() *Fsm {
	cur := f
	for {
		merged := false

	scan:
		for _, a := range cur.sortedStates() {
			for _, b := range cur.sortedStates() {
				if a == b {
					continue
				}
				if cur.Equivalent(a, b) {
					cur = cur.Replace(a, b)
					merged = true
					break scan
				}
			}
		}

		if !merged {
			return cur
		}
	}
}

// renumber returns an automaton with canonically renumbered states: the
// initial state becomes 0 and the remaining states take 1..n-1 in ascending
// order of their old handles. crawl applies this after merging so that
// structurally identical constructions come out byte-identical.
func (f *Fsm) renumber() *Fsm {
	mapping := make(map[State]State, len(f.states))
	mapping[f.initial] = 0
	next := State(1)
	for _, s := range f.sortedStates() {
		if s == f.initial {
			continue
		}
		mapping[s] = next
		next++
	}

	states := make(map[State]struct{}, len(f.states))
	delta := make(map[State]map[Symbol]State, len(f.states))
	for s := range f.states {
		states[mapping[s]] = struct{}{}
		row := make(map[Symbol]State, len(f.alphabet))
		for sym, to := range f.delta[s] {
			row[sym] = mapping[to]
		}
		delta[mapping[s]] = row
	}

	finals := make(map[State]struct{}, len(f.finals))
	for s := range f.finals {
		finals[mapping[s]] = struct{}{}
	}

	return build(slices.Clone(f.alphabet), states, 0, finals, delta)
}
