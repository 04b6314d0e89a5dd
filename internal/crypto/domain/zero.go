package domain

// Zero securely overwrites a byte slice with zeros to clear sensitive data from memory.
func Zero(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}

// ZeroWords overwrites a word slice, used for intermediate key schedule state.
func ZeroWords(w []uint32) {
	for i := range w {
		w[i] = 0
	}
}
