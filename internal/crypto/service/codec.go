package service

import (
	"crypto/cipher"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"

	cryptoDomain "github.com/allisson/cipherchat/internal/crypto/domain"
	apperrors "github.com/allisson/cipherchat/internal/errors"
)

// lengthTagSize is the size of the big-endian original-length prefix.
const lengthTagSize = 4

// Frame lays out plaintext for block encryption:
//
//	| uint32 big-endian length | plaintext | zero padding to a block multiple |
//
// The explicit length makes decoding exact for any content, including
// trailing zero bytes. Empty plaintext still produces one full block.
func Frame(plaintext []byte, blockSize int) ([]byte, error) {
	if uint64(len(plaintext)) > math.MaxUint32 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "message too large")
	}

	out := make([]byte, framedLen(len(plaintext), blockSize))
	binary.BigEndian.PutUint32(out[:lengthTagSize], uint32(len(plaintext)))
	copy(out[lengthTagSize:], plaintext)

	return out, nil
}

// Unframe reverses Frame. It rejects data whose length tag, block count or
// padding do not match what Frame would have produced.
func Unframe(data []byte, blockSize int) ([]byte, error) {
	if len(data) < lengthTagSize || len(data)%blockSize != 0 {
		return nil, cryptoDomain.ErrCorruptCiphertext
	}

	n := binary.BigEndian.Uint32(data[:lengthTagSize])
	if uint64(n) > uint64(len(data)-lengthTagSize) {
		return nil, fmt.Errorf("%w: length tag out of range", cryptoDomain.ErrCorruptCiphertext)
	}

	if framedLen(int(n), blockSize) != len(data) {
		return nil, fmt.Errorf("%w: unexpected block count", cryptoDomain.ErrCorruptCiphertext)
	}

	end := lengthTagSize + int(n)
	for _, b := range data[end:] {
		if b != 0 {
			return nil, fmt.Errorf("%w: non-zero padding", cryptoDomain.ErrCorruptCiphertext)
		}
	}

	plaintext := make([]byte, n)
	copy(plaintext, data[lengthTagSize:end])

	return plaintext, nil
}

// EncodeHex renders bytes in the lowercase hex transport form.
func EncodeHex(data []byte) string {
	return hex.EncodeToString(data)
}

// DecodeHex parses transport text into a whole number of cipher blocks.
func DecodeHex(text string, blockSize int) ([]byte, error) {
	if text == "" || len(text)%(2*blockSize) != 0 {
		return nil, fmt.Errorf("%w: invalid length %d", cryptoDomain.ErrCorruptCiphertext, len(text))
	}

	data, err := hex.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cryptoDomain.ErrCorruptCiphertext, err)
	}

	return data, nil
}

// encryptBlocks encrypts data in place, one block at a time.
func encryptBlocks(block cipher.Block, data []byte) {
	bs := block.BlockSize()
	for i := 0; i < len(data); i += bs {
		block.Encrypt(data[i:i+bs], data[i:i+bs])
	}
}

// decryptBlocks decrypts data in place, one block at a time.
func decryptBlocks(block cipher.Block, data []byte) {
	bs := block.BlockSize()
	for i := 0; i < len(data); i += bs {
		block.Decrypt(data[i:i+bs], data[i:i+bs])
	}
}

func framedLen(n, blockSize int) int {
	total := lengthTagSize + n
	return (total + blockSize - 1) / blockSize * blockSize
}
