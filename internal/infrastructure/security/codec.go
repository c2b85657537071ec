package security

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/questrider/auth-service/internal/domain"
)

const tokenPrefix = "v1."

// Codec seals arbitrary claim payloads with XChaCha20-Poly1305 under a fixed
// symmetric key. The output is opaque: prefix + base64url(nonce || ciphertext).
//
// The codec is schema-agnostic on purpose; expiry and issuer checks belong to
// the caller, which lets the same codec carry different claim shapes.
type Codec struct {
	aead cipher.AEAD
}

func NewCodec(key []byte) (*Codec, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	return &Codec{aead: aead}, nil
}

func (c *Codec) Seal(claims any) (string, error) {
	plaintext, err := json.Marshal(claims)
	if err != nil {
		return "", domain.ErrTokenSealFailed(err)
	}

	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return "", domain.ErrTokenSealFailed(err)
	}

	// nonce || ciphertext, so Open can split without extra framing
	sealed := c.aead.Seal(nonce, nonce, plaintext, nil)
	return tokenPrefix + base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Open decrypts and authenticates token into `into`. Any failure (tampered,
// wrong key, malformed) is reported as the same invalid-token error.
func (c *Codec) Open(token string, into any) error {
	raw, ok := strings.CutPrefix(token, tokenPrefix)
	if !ok {
		return domain.ErrTokenInvalid()
	}

	sealed, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return domain.ErrTokenInvalid()
	}
	if len(sealed) < chacha20poly1305.NonceSizeX {
		return domain.ErrTokenInvalid()
	}

	nonce, ciphertext := sealed[:chacha20poly1305.NonceSizeX], sealed[chacha20poly1305.NonceSizeX:]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return domain.ErrTokenInvalid()
	}

	if err := json.Unmarshal(plaintext, into); err != nil {
		return domain.ErrTokenInvalid()
	}
	return nil
}
