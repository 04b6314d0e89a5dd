package service

import (
	"encoding/binary"
	"math/bits"

	cryptoDomain "github.com/allisson/cipherchat/internal/crypto/domain"
)

// Magic constants for 32-bit words, shared by RC5 and RC6.
const (
	p32 uint32 = 0xB7E15163
	q32 uint32 = 0x9E3779B9
)

// RC5Cipher implements crypto/cipher.Block for RC5-32 with a configurable
// round count. Blocks are two little-endian 32-bit words.
//
// The expanded key table is read-only after construction, so a single
// instance is safe for concurrent use.
type RC5Cipher struct {
	rounds int
	s      []uint32
}

// NewRC5 expands key into an RC5-32 cipher with the given number of rounds.
// Key lengths are checked by the caller against the algorithm parameters.
func NewRC5(key []byte, rounds int) *RC5Cipher {
	t := 2*rounds + 2
	return &RC5Cipher{
		rounds: rounds,
		s:      expandKey(key, t),
	}
}

// BlockSize returns the RC5-32 block size in bytes.
func (c *RC5Cipher) BlockSize() int {
	return 8
}

// Encrypt encrypts the first block in src into dst.
func (c *RC5Cipher) Encrypt(dst, src []byte) {
	if len(src) < 8 || len(dst) < 8 {
		panic("rc5: input not full block")
	}

	a := binary.LittleEndian.Uint32(src[0:4]) + c.s[0]
	b := binary.LittleEndian.Uint32(src[4:8]) + c.s[1]

	for i := 1; i <= c.rounds; i++ {
		a = bits.RotateLeft32(a^b, int(b&31)) + c.s[2*i]
		b = bits.RotateLeft32(b^a, int(a&31)) + c.s[2*i+1]
	}

	binary.LittleEndian.PutUint32(dst[0:4], a)
	binary.LittleEndian.PutUint32(dst[4:8], b)
}

// Decrypt decrypts the first block in src into dst.
func (c *RC5Cipher) Decrypt(dst, src []byte) {
	if len(src) < 8 || len(dst) < 8 {
		panic("rc5: input not full block")
	}

	a := binary.LittleEndian.Uint32(src[0:4])
	b := binary.LittleEndian.Uint32(src[4:8])

	for i := c.rounds; i >= 1; i-- {
		b = bits.RotateLeft32(b-c.s[2*i+1], -int(a&31)) ^ a
		a = bits.RotateLeft32(a-c.s[2*i], -int(b&31)) ^ b
	}

	binary.LittleEndian.PutUint32(dst[0:4], a-c.s[0])
	binary.LittleEndian.PutUint32(dst[4:8], b-c.s[1])
}

// expandKey runs the RC5/RC6 key schedule and returns t subkeys.
//
// The key is loaded little-endian into c = max(1, ceil(len/4)) words and mixed
// into the magic-constant table over 3*max(t, c) passes.
func expandKey(key []byte, t int) []uint32 {
	c := (len(key) + 3) / 4
	if c == 0 {
		c = 1
	}

	l := make([]uint32, c)
	for i := len(key) - 1; i >= 0; i-- {
		l[i/4] = l[i/4]<<8 | uint32(key[i])
	}

	s := make([]uint32, t)
	s[0] = p32
	for i := 1; i < t; i++ {
		s[i] = s[i-1] + q32
	}

	var a, b uint32
	i, j := 0, 0
	n := 3 * max(t, c)
	for k := 0; k < n; k++ {
		a = bits.RotateLeft32(s[i]+a+b, 3)
		s[i] = a
		b = bits.RotateLeft32(l[j]+a+b, int((a+b)&31))
		l[j] = b
		i = (i + 1) % t
		j = (j + 1) % c
	}

	cryptoDomain.ZeroWords(l)

	return s
}
