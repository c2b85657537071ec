package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/questrider/auth-service/internal/domain"
)

// Argon2Hasher hashes passwords with Argon2id and encodes them as PHC
// strings ($argon2id$v=19$m=...,t=...,p=...$salt$key).
type Argon2Hasher struct {
	memoryKiB   uint32
	iterations  uint32
	parallelism uint8
	saltLen     uint32
	keyLen      uint32
}

func NewArgon2Hasher() *Argon2Hasher {
	return &Argon2Hasher{
		memoryKiB:   64 * 1024,
		iterations:  3,
		parallelism: 2,
		saltLen:     16,
		keyLen:      32,
	}
}

func (h *Argon2Hasher) Hash(password string) (string, error) {
	salt := make([]byte, h.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", domain.ErrHashFailed(err)
	}

	key := argon2.IDKey([]byte(password), salt, h.iterations, h.memoryKiB, h.parallelism, h.keyLen)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.memoryKiB,
		h.iterations,
		h.parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
	return encoded, nil
}

// Verify reports whether password matches the encoded hash. Malformed input
// is treated as a mismatch, never surfaced as an error.
func (h *Argon2Hasher) Verify(encoded, password string) bool {
	params, salt, key, err := decodePHC(encoded)
	if err != nil {
		return false
	}

	computed := argon2.IDKey([]byte(password), salt, params.iterations, params.memoryKiB, params.parallelism, uint32(len(key)))
	return subtle.ConstantTimeCompare(computed, key) == 1
}

type argon2Params struct {
	memoryKiB   uint32
	iterations  uint32
	parallelism uint8
}

// Verification refuses hashes with parameters far above our own maxima so a
// hostile hash can't turn Verify into a memory bomb.
const (
	maxVerifyMemoryKiB  = 1 << 21 // 2 GiB
	maxVerifyIterations = 64
)

func decodePHC(encoded string) (argon2Params, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return argon2Params{}, nil, nil, fmt.Errorf("malformed argon2id hash")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return argon2Params{}, nil, nil, err
	}
	if version != argon2.Version {
		return argon2Params{}, nil, nil, fmt.Errorf("unsupported argon2 version %d", version)
	}

	var p argon2Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memoryKiB, &p.iterations, &p.parallelism); err != nil {
		return argon2Params{}, nil, nil, err
	}
	if p.memoryKiB == 0 || p.memoryKiB > maxVerifyMemoryKiB || p.iterations == 0 || p.iterations > maxVerifyIterations || p.parallelism == 0 {
		return argon2Params{}, nil, nil, fmt.Errorf("argon2 parameters out of bounds")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return argon2Params{}, nil, nil, err
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return argon2Params{}, nil, nil, err
	}
	if len(salt) == 0 || len(key) == 0 {
		return argon2Params{}, nil, nil, fmt.Errorf("empty salt or key")
	}

	return p, salt, key, nil
}
