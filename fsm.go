package fsm

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"
)

// Symbol is a single member of an automaton's alphabet. Ordinary symbols are
// rune values; the reserved Other symbol stands for "any symbol not otherwise
// listed in the alphabet".
type Symbol int32

// Other is the wildcard alphabet symbol. An automaton whose alphabet contains
// Other has a defined transition for every conceivable input symbol: symbols
// listed explicitly follow their own edge, everything else follows the Other
// edge.
const Other Symbol = -1

func (s Symbol) String() string {
	if s == Other {
		return "else"
	}
	return string(rune(s))
}

// State identifies a single state of an Fsm. States are opaque integer
// handles; automata produced by the algebraic operators use dense handles
// starting at 0, but hand-built automata may number their states however
// they like.
type State int

// Construction and operator precondition errors.
var (
	ErrInitialNotState  = errors.New("initial state not in state set")
	ErrFinalsNotStates  = errors.New("final states not a subset of the state set")
	ErrBadTransition    = errors.New("transition table incomplete or target outside state set")
	ErrAlphabetMismatch = errors.New("operand alphabets differ")
	ErrBadRepeat        = errors.New("invalid repetition bounds")
	ErrBadLiteral       = errors.New("literal symbol not in alphabet")
)

// Fsm is a deterministic finite automaton: an alphabet, a set of states, one
// initial state, a set of final states and a total transition function.
// The value is immutable once constructed; every operation that would modify
// an Fsm (Replace, Automerge, the algebraic operators) returns a new one
// instead. Because of that, a single validation pass at construction time is
// enough, and concurrent readers never need locking.
type Fsm struct {
	alphabet []Symbol // sorted, deduplicated
	states   map[State]struct{}
	initial  State
	finals   map[State]struct{}
	delta    map[State]map[Symbol]State
}

// New builds a validated automaton. The transition table must carry an entry
// for every (state, alphabet symbol) pair, and every target must itself be a
// state. On any invariant violation the dedicated error is returned and no
// automaton is ever handed out half-built.
func New(alphabet []Symbol, states []State, initial State, finals []State, delta map[State]map[Symbol]State) (*Fsm, error) {
	norm := normalizeAlphabet(alphabet)

	stateSet := make(map[State]struct{}, len(states))
	for _, s := range states {
		stateSet[s] = struct{}{}
	}

	if _, ok := stateSet[initial]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrInitialNotState, initial)
	}

	finalSet := make(map[State]struct{}, len(finals))
	for _, s := range finals {
		if _, ok := stateSet[s]; !ok {
			return nil, fmt.Errorf("%w: %d", ErrFinalsNotStates, s)
		}
		finalSet[s] = struct{}{}
	}

	table := make(map[State]map[Symbol]State, len(stateSet))
	for s := range stateSet {
		row, ok := delta[s]
		if !ok {
			return nil, fmt.Errorf("%w: no transitions for state %d", ErrBadTransition, s)
		}
		copied := make(map[Symbol]State, len(norm))
		for _, sym := range norm {
			to, ok := row[sym]
			if !ok {
				return nil, fmt.Errorf("%w: state %d has no transition for %q", ErrBadTransition, s, sym.String())
			}
			if _, ok := stateSet[to]; !ok {
				return nil, fmt.Errorf("%w: state %d maps %q to unknown state %d", ErrBadTransition, s, sym.String(), to)
			}
			copied[sym] = to
		}
		table[s] = copied
	}

	return &Fsm{
		alphabet: norm,
		states:   stateSet,
		initial:  initial,
		finals:   finalSet,
		delta:    table,
	}, nil
}

// build assembles an Fsm from parts that are already known to satisfy the
// invariants. Internal construction paths (crawl, Replace, renumber, the
// fixed factories) use it to skip re-validation.
func build(alphabet []Symbol, states map[State]struct{}, initial State, finals map[State]struct{}, delta map[State]map[Symbol]State) *Fsm {
	return &Fsm{
		alphabet: alphabet,
		states:   states,
		initial:  initial,
		finals:   finals,
		delta:    delta,
	}
}

func normalizeAlphabet(alphabet []Symbol) []Symbol {
	norm := slices.Clone(alphabet)
	slices.Sort(norm)
	return slices.Compact(norm)
}

// Alphabet returns the automaton's alphabet in sorted order.
func (f *Fsm) Alphabet() []Symbol {
	return slices.Clone(f.alphabet)
}

// States returns the state handles in sorted order.
func (f *Fsm) States() []State {
	return f.sortedStates()
}

// Initial returns the initial state.
func (f *Fsm) Initial() State {
	return f.initial
}

// Finals returns the final states in sorted order.
func (f *Fsm) Finals() []State {
	finals := make([]State, 0, len(f.finals))
	for s := range f.finals {
		finals = append(finals, s)
	}
	slices.Sort(finals)
	return finals
}

// NumStates returns how many states this automaton has.
func (f *Fsm) NumStates() int {
	return len(f.states)
}

// HasState reports whether the given handle is a state of this automaton.
func (f *Fsm) HasState(s State) bool {
	_, ok := f.states[s]
	return ok
}

// IsFinal reports whether the given state is a final state.
func (f *Fsm) IsFinal(s State) bool {
	_, ok := f.finals[s]
	return ok
}

// Accepts walks the transition function from the initial state, consuming
// input left to right, and reports whether the automaton ends up in a final
// state. The empty input is accepted exactly when the initial state is final.
//
// An input symbol that is not listed in the alphabet follows the Other edge
// when the alphabet carries one; that is what the wildcard means. Feeding an
// unlisted symbol to an automaton without a wildcard violates the caller's
// side of the contract, and the input is rejected.
func (f *Fsm) Accepts(input []Symbol) bool {
	state := f.initial
	for _, sym := range input {
		next, ok := f.step(state, sym)
		if !ok {
			return false
		}
		state = next
	}
	return f.IsFinal(state)
}

func (f *Fsm) step(from State, sym Symbol) (State, bool) {
	row := f.delta[from]
	if to, ok := row[sym]; ok {
		return to, true
	}
	if to, ok := row[Other]; ok && sym != Other {
		return to, true
	}
	return 0, false
}

func (f *Fsm) sortedStates() []State {
	states := make([]State, 0, len(f.states))
	for s := range f.states {
		states = append(states, s)
	}
	slices.Sort(states)
	return states
}

// literals returns the alphabet without the wildcard.
func (f *Fsm) literals() []Symbol {
	out := make([]Symbol, 0, len(f.alphabet))
	for _, sym := range f.alphabet {
		if sym != Other {
			out = append(out, sym)
		}
	}
	return out
}

// sameAlphabet reports whether both operands range over the identical
// alphabet, the precondition of every binary operator.
func sameAlphabet(a, b *Fsm) bool {
	return slices.Equal(a.alphabet, b.alphabet)
}

// String renders the automaton as a transition table, one row per state with
// the initial state starred. Debugging aid only.
func (f *Fsm) String() string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 2, 0, 2, ' ', 0)

	fmt.Fprintf(w, "\tname\tfinal")
	for _, sym := range f.alphabet {
		fmt.Fprintf(w, "\t%s", sym)
	}
	fmt.Fprintln(w)

	for _, s := range f.sortedStates() {
		mark := ""
		if s == f.initial {
			mark = "*"
		}
		fmt.Fprintf(w, "%s\t%d\t%t", mark, s, f.IsFinal(s))
		for _, sym := range f.alphabet {
			fmt.Fprintf(w, "\t%d", f.delta[s][sym])
		}
		fmt.Fprintln(w)
	}

	w.Flush()
	return sb.String()
}
