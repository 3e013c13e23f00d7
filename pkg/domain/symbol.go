package domain

// Symbol is a single tape symbol.
// File and driver formats use one rune per symbol, the engine does not.
type Symbol string

// State is the name of a control state.
type State string

// Symbols splits a string into one symbol per rune.
func Symbols(s string) []Symbol {
	out := make([]Symbol, 0, len(s))
	for _, r := range s {
		out = append(out, Symbol(r))
	}
	return out
}

// Join concatenates symbols back into a string.
func Join(symbols []Symbol) string {
	n := 0
	for _, s := range symbols {
		n += len(s)
	}
	buf := make([]byte, 0, n)
	for _, s := range symbols {
		buf = append(buf, s...)
	}
	return string(buf)
}
