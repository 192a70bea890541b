package shared

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"

	"golang.org/x/crypto/nacl/secretbox"
)

// TokenCipher encrypts backend bearer tokens before they are written to
// the session store, so a leaked Redis dump does not expose live
// credentials. The key is derived from the session secret.
type TokenCipher struct {
	key [32]byte
}

// NewTokenCipher derives a cipher from the configured session secret.
func NewTokenCipher(secret string) *TokenCipher {
	c := &TokenCipher{}
	c.key = sha256.Sum256([]byte("stockfront-token|" + secret))
	return c
}

// Seal encrypts a token for storage.
func (c *TokenCipher) Seal(token string) (string, error) {
	var nonce [24]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", err
	}
	box := secretbox.Seal(nonce[:], []byte(token), &nonce, &c.key)
	return base64.RawURLEncoding.EncodeToString(box), nil
}

// Open decrypts a stored token.
func (c *TokenCipher) Open(sealed string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil {
		return "", err
	}
	if len(raw) < 24 {
		return "", errors.New("sealed token too short")
	}
	var nonce [24]byte
	copy(nonce[:], raw[:24])
	plain, ok := secretbox.Open(nil, raw[24:], &nonce, &c.key)
	if !ok {
		return "", errors.New("sealed token corrupt")
	}
	return string(plain), nil
}
