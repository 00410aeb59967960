package fsm

// Run reports whether the automaton accepts the given string, reading each
// rune as one alphabet symbol. Convenience wrapper over Accepts.
func Run(f *Fsm, s string) bool {
	input := make([]Symbol, 0, len(s))
	for _, r := range s {
		input = append(input, Symbol(r))
	}
	return f.Accepts(input)
}
