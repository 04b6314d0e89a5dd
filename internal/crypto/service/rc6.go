package service

import (
	"encoding/binary"
	"math/bits"
)

// RC6Cipher implements crypto/cipher.Block for RC6-32 with a configurable
// round count. Blocks are four little-endian 32-bit words.
type RC6Cipher struct {
	rounds int
	s      []uint32
}

// NewRC6 expands key into an RC6-32 cipher with the given number of rounds.
func NewRC6(key []byte, rounds int) *RC6Cipher {
	t := 2*rounds + 4
	return &RC6Cipher{
		rounds: rounds,
		s:      expandKey(key, t),
	}
}

// BlockSize returns the RC6-32 block size in bytes.
func (c *RC6Cipher) BlockSize() int {
	return 16
}

// Encrypt encrypts the first block in src into dst.
func (c *RC6Cipher) Encrypt(dst, src []byte) {
	if len(src) < 16 || len(dst) < 16 {
		panic("rc6: input not full block")
	}

	a := binary.LittleEndian.Uint32(src[0:4])
	b := binary.LittleEndian.Uint32(src[4:8]) + c.s[0]
	cc := binary.LittleEndian.Uint32(src[8:12])
	d := binary.LittleEndian.Uint32(src[12:16]) + c.s[1]

	for i := 1; i <= c.rounds; i++ {
		t := bits.RotateLeft32(b*(2*b+1), 5)
		u := bits.RotateLeft32(d*(2*d+1), 5)
		a = bits.RotateLeft32(a^t, int(u&31)) + c.s[2*i]
		cc = bits.RotateLeft32(cc^u, int(t&31)) + c.s[2*i+1]
		a, b, cc, d = b, cc, d, a
	}

	a += c.s[2*c.rounds+2]
	cc += c.s[2*c.rounds+3]

	binary.LittleEndian.PutUint32(dst[0:4], a)
	binary.LittleEndian.PutUint32(dst[4:8], b)
	binary.LittleEndian.PutUint32(dst[8:12], cc)
	binary.LittleEndian.PutUint32(dst[12:16], d)
}

// Decrypt decrypts the first block in src into dst.
func (c *RC6Cipher) Decrypt(dst, src []byte) {
	if len(src) < 16 || len(dst) < 16 {
		panic("rc6: input not full block")
	}

	a := binary.LittleEndian.Uint32(src[0:4])
	b := binary.LittleEndian.Uint32(src[4:8])
	cc := binary.LittleEndian.Uint32(src[8:12])
	d := binary.LittleEndian.Uint32(src[12:16])

	cc -= c.s[2*c.rounds+3]
	a -= c.s[2*c.rounds+2]

	for i := c.rounds; i >= 1; i-- {
		a, b, cc, d = d, a, b, cc
		u := bits.RotateLeft32(d*(2*d+1), 5)
		t := bits.RotateLeft32(b*(2*b+1), 5)
		cc = bits.RotateLeft32(cc-c.s[2*i+1], -int(t&31)) ^ u
		a = bits.RotateLeft32(a-c.s[2*i], -int(u&31)) ^ t
	}

	binary.LittleEndian.PutUint32(dst[0:4], a)
	binary.LittleEndian.PutUint32(dst[4:8], b-c.s[0])
	binary.LittleEndian.PutUint32(dst[8:12], cc)
	binary.LittleEndian.PutUint32(dst[12:16], d-c.s[1])
}
