package auth

import (
	"time"

	"github.com/questrider/auth-service/internal/domain"
)

// Claims is the payload sealed inside both access and refresh tokens.
// Expiry and issuer live in the payload itself; the codec does not
// interpret them.
type Claims struct {
	UserID    string    `json:"uid"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
	Issuer    string    `json:"iss"`
}

// Validate checks expiry before issuer so an expired token from the right
// issuer reports "expired", not "wrong issuer".
func (c Claims) Validate(now time.Time, issuer string) error {
	if !now.Before(c.ExpiresAt) {
		return domain.ErrTokenExpired()
	}
	if c.Issuer != issuer {
		return domain.ErrTokenWrongIssuer()
	}
	return nil
}
