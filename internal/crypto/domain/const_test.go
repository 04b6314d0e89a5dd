package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/cipherchat/internal/errors"
)

func TestAlgorithm_Params(t *testing.T) {
	t.Run("rc5 parameters are pinned", func(t *testing.T) {
		p, err := RC5.Params()
		require.NoError(t, err)
		assert.Equal(t, 32, p.WordSize)
		assert.Equal(t, 12, p.Rounds)
		assert.Equal(t, 16, p.KeyLength)
		assert.Equal(t, 8, p.BlockSize)
	})

	t.Run("rc6 parameters are pinned", func(t *testing.T) {
		p, err := RC6.Params()
		require.NoError(t, err)
		assert.Equal(t, 32, p.WordSize)
		assert.Equal(t, 20, p.Rounds)
		assert.Equal(t, 16, p.KeyLength)
		assert.Equal(t, 16, p.BlockSize)
	})

	t.Run("unknown tag", func(t *testing.T) {
		_, err := Algorithm("aes").Params()
		assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestParams_ValidateKeyLength(t *testing.T) {
	rc5, _ := RC5.Params()
	rc6, _ := RC6.Params()

	assert.NoError(t, rc5.ValidateKeyLength(1))
	assert.NoError(t, rc5.ValidateKeyLength(16))
	assert.NoError(t, rc5.ValidateKeyLength(255))
	assert.ErrorIs(t, rc5.ValidateKeyLength(0), ErrInvalidKeyLength)
	assert.ErrorIs(t, rc5.ValidateKeyLength(256), ErrInvalidKeyLength)

	assert.NoError(t, rc6.ValidateKeyLength(16))
	assert.NoError(t, rc6.ValidateKeyLength(32))
	assert.ErrorIs(t, rc6.ValidateKeyLength(15), ErrInvalidKeyLength)
	assert.ErrorIs(t, rc6.ValidateKeyLength(256), ErrInvalidKeyLength)
}

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		input    string
		expected Algorithm
		wantErr  bool
	}{
		{"rc5", RC5, false},
		{"RC6", RC6, false},
		{" rc6 ", RC6, false},
		{"", "", true},
		{"rc4", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			alg, err := ParseAlgorithm(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, alg)
		})
	}
}

func TestErrors_Taxonomy(t *testing.T) {
	for _, err := range []error{ErrInvalidKeyLength, ErrCorruptCiphertext, ErrDecryptionFailed, ErrEncryptionFailed} {
		assert.ErrorIs(t, err, apperrors.ErrCryptoFailure)
		assert.NotErrorIs(t, err, apperrors.ErrInvalidInput)
	}
}
