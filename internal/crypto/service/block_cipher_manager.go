package service

import (
	"crypto/cipher"
	"fmt"

	cryptoDomain "github.com/allisson/cipherchat/internal/crypto/domain"
)

// engineWordSize is the register width in bits of both RC5 and RC6 engines.
const engineWordSize = 32

// BlockCipherManagerService implements the BlockCipherManager interface.
type BlockCipherManagerService struct{}

// NewBlockCipherManager creates a new BlockCipherManagerService.
func NewBlockCipherManager() *BlockCipherManagerService {
	return &BlockCipherManagerService{}
}

// CreateCipher creates a block cipher for the specified algorithm using its pinned parameters.
// Returns ErrInvalidKeyLength if the key length is out of range or ErrUnsupportedAlgorithm
// if the algorithm is unknown or its parameter set does not match the engine.
func (m *BlockCipherManagerService) CreateCipher(
	key []byte,
	alg cryptoDomain.Algorithm,
) (cipher.Block, error) {
	params, err := alg.Params()
	if err != nil {
		return nil, err
	}

	if err := params.ValidateKeyLength(len(key)); err != nil {
		return nil, err
	}

	var block cipher.Block
	switch alg {
	case cryptoDomain.RC5:
		block = NewRC5(key, params.Rounds)
	case cryptoDomain.RC6:
		block = NewRC6(key, params.Rounds)
	default:
		return nil, cryptoDomain.ErrUnsupportedAlgorithm
	}

	if err := checkParams(block, params); err != nil {
		return nil, err
	}
	return block, nil
}

// checkParams rejects a parameter set the engine cannot honor.
func checkParams(block cipher.Block, params cryptoDomain.Params) error {
	if params.WordSize != engineWordSize {
		return fmt.Errorf("%w: word size %d not supported", cryptoDomain.ErrUnsupportedAlgorithm, params.WordSize)
	}
	if block.BlockSize() != params.BlockSize {
		return fmt.Errorf(
			"%w: block size %d does not match engine block size %d",
			cryptoDomain.ErrUnsupportedAlgorithm, params.BlockSize, block.BlockSize(),
		)
	}
	return nil
}
