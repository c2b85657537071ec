package security

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/questrider/auth-service/internal/domain"
)

// OTPGenerator produces fixed-length numeric one-time codes from a
// cryptographically secure source. These codes gate account activation, so
// math/rand is not acceptable here.
type OTPGenerator struct {
	length int
}

func NewOTPGenerator(length int) *OTPGenerator {
	if length < 4 || length > 10 {
		length = 6
	}
	return &OTPGenerator{length: length}
}

// Generate returns a numeric string of the configured length, uniformly
// distributed over [10^(length-1), 10^length).
func (g *OTPGenerator) Generate() (string, error) {
	low := int64(1)
	for i := 1; i < g.length; i++ {
		low *= 10
	}
	span := big.NewInt(low * 9)

	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", domain.ErrRandomFailed(err)
	}

	return fmt.Sprintf("%0*d", g.length, n.Int64()+low), nil
}
