package domain

import "strings"

// Algorithm is the tag stored with every message that selects the block cipher
// and its pinned parameter set.
//
// Parameter sets are versioned. Changing any value in a set makes previously
// stored ciphertext undecryptable, so new parameters must get a new tag.
type Algorithm string

const (
	// RC5 is RC5-32/12/16: 32-bit words, 12 rounds, 16-byte keys, 8-byte blocks.
	RC5 Algorithm = "rc5"

	// RC6 is RC6-32/20/16: 32-bit words, 20 rounds, 16-byte keys, 16-byte blocks.
	RC6 Algorithm = "rc6"
)

// Params holds the pinned cipher parameters for an Algorithm.
type Params struct {
	// WordSize is the register width in bits.
	WordSize int
	// Rounds is the number of cipher rounds.
	Rounds int
	// KeyLength is the length in bytes of generated per-message keys.
	KeyLength int
	// MinKeyLength and MaxKeyLength bound the key lengths accepted by the key schedule.
	MinKeyLength int
	MaxKeyLength int
	// BlockSize is the cipher block size in bytes.
	BlockSize int
}

var params = map[Algorithm]Params{
	RC5: {WordSize: 32, Rounds: 12, KeyLength: 16, MinKeyLength: 1, MaxKeyLength: 255, BlockSize: 8},
	RC6: {WordSize: 32, Rounds: 20, KeyLength: 16, MinKeyLength: 16, MaxKeyLength: 255, BlockSize: 16},
}

// Params returns the pinned parameters for the algorithm.
// Returns ErrUnsupportedAlgorithm for unknown tags.
func (a Algorithm) Params() (Params, error) {
	p, ok := params[a]
	if !ok {
		return Params{}, ErrUnsupportedAlgorithm
	}
	return p, nil
}

// IsSupported reports whether the tag names a known algorithm.
func (a Algorithm) IsSupported() bool {
	_, ok := params[a]
	return ok
}

// ValidateKeyLength checks n against the accepted key length range.
func (p Params) ValidateKeyLength(n int) error {
	if n < p.MinKeyLength || n > p.MaxKeyLength {
		return ErrInvalidKeyLength
	}
	return nil
}

// ParseAlgorithm parses a tag case-insensitively.
func ParseAlgorithm(s string) (Algorithm, error) {
	alg := Algorithm(strings.ToLower(strings.TrimSpace(s)))
	if !alg.IsSupported() {
		return "", ErrUnsupportedAlgorithm
	}
	return alg, nil
}

// SupportedAlgorithms lists every known tag in a stable order.
func SupportedAlgorithms() []Algorithm {
	return []Algorithm{RC5, RC6}
}
