package commands

import (
	"fmt"
	"log/slog"

	validation "github.com/jellydator/validation"

	cryptoDomain "github.com/allisson/cipherchat/internal/crypto/domain"
	cryptoService "github.com/allisson/cipherchat/internal/crypto/service"
	customValidation "github.com/allisson/cipherchat/internal/validation"
)

// cipherOutput is the JSON shape shared by encrypt and decrypt.
type cipherOutput struct {
	EncryptionType string `json:"encryptionType"`
	Key            string `json:"key"`
	Content        string `json:"content"`
	Plaintext      string `json:"plaintext,omitempty"`
}

// RunEncrypt encrypts plaintext offline with a fresh key and prints the key
// and ciphertext. Nothing is persisted.
func RunEncrypt(
	messageCipher cryptoService.MessageCipher,
	logger *slog.Logger,
	plaintext string,
	algorithm string,
	format string,
	io IOTuple,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	alg, err := cryptoDomain.ParseAlgorithm(algorithm)
	if err != nil {
		return err
	}

	key, ciphertext, err := messageCipher.Encrypt(plaintext, alg)
	if err != nil {
		return fmt.Errorf("failed to encrypt: %w", err)
	}

	logger.Debug("plaintext encrypted", slog.String("encryption_type", string(alg)))

	if format == "json" {
		return outputJSON(io.Writer, cipherOutput{EncryptionType: string(alg), Key: key, Content: ciphertext})
	}

	_, _ = fmt.Fprintf(io.Writer, "Encryption type: %s\n", alg)
	_, _ = fmt.Fprintf(io.Writer, "Key: %s\n", key)
	_, _ = fmt.Fprintf(io.Writer, "Ciphertext: %s\n", ciphertext)
	return nil
}

// RunDecrypt recovers plaintext from a hex ciphertext and key produced by
// RunEncrypt or read from the message store.
func RunDecrypt(
	messageCipher cryptoService.MessageCipher,
	logger *slog.Logger,
	ciphertext string,
	key string,
	algorithm string,
	format string,
	io IOTuple,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	err := validation.Errors{
		"ciphertext": validation.Validate(ciphertext, validation.Required, customValidation.Hex),
		"key":        validation.Validate(key, validation.Required, customValidation.Hex),
	}.Filter()
	if err != nil {
		return customValidation.WrapValidationError(err)
	}

	alg, err := cryptoDomain.ParseAlgorithm(algorithm)
	if err != nil {
		return err
	}

	plaintext, err := messageCipher.Decrypt(ciphertext, key, alg)
	if err != nil {
		return fmt.Errorf("failed to decrypt: %w", err)
	}

	logger.Debug("ciphertext decrypted", slog.String("encryption_type", string(alg)))

	if format == "json" {
		return outputJSON(io.Writer, cipherOutput{
			EncryptionType: string(alg),
			Key:            key,
			Content:        ciphertext,
			Plaintext:      plaintext,
		})
	}

	_, _ = fmt.Fprintln(io.Writer, plaintext)
	return nil
}
