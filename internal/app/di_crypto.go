package app

import (
	cryptoService "github.com/allisson/cipherchat/internal/crypto/service"
)

// MessageCipher returns the encryption gateway shared by every request.
func (c *Container) MessageCipher() cryptoService.MessageCipher {
	c.messageCipherInit.Do(func() {
		c.messageCipher = c.initMessageCipher()
	})
	return c.messageCipher
}

func (c *Container) initMessageCipher() cryptoService.MessageCipher {
	return cryptoService.NewGateway(cryptoService.NewBlockCipherManager())
}
