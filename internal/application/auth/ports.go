package auth

import (
	"context"
	"time"

	"github.com/questrider/auth-service/internal/domain"
)

/*
UserRepo
--------
Persistence port for activated users.
Only describes WHAT the auth engine needs, not HOW it's stored.
*/
type UserRepo interface {
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id string) (domain.User, error)
	Create(ctx context.Context, u domain.User) (domain.User, error)

	// SetRefreshToken unconditionally overwrites the stored refresh token
	// (login / OTP verification).
	SetRefreshToken(ctx context.Context, userID, token string) error

	// RotateRefreshToken swaps old -> new only if old is still the stored
	// value, as a single atomic update. Returns false when the stored value
	// no longer matches (already rotated away).
	RotateRefreshToken(ctx context.Context, userID, oldToken, newToken string) (bool, error)

	// ClearRefreshToken forces re-login. Idempotent: clearing an absent or
	// already-cleared token is not an error.
	ClearRefreshToken(ctx context.Context, userID string) error
}

/*
OnboardingStore
---------------
Pending-registration records keyed by email. At most one live record per
email; Put replaces any existing record (supersede).
*/
type OnboardingStore interface {
	Put(ctx context.Context, rec domain.PendingRegistration) error
	Get(ctx context.Context, email string) (domain.PendingRegistration, error)
	Delete(ctx context.Context, email string) error
}

/*
PasswordHasher
--------------
Memory-hard one-way hashing. Verify never errors: malformed hashes are a
mismatch.
*/
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

// CodeGenerator draws one-time codes from a cryptographically secure source.
type CodeGenerator interface {
	Generate() (string, error)
}

/*
TokenCodec
----------
Authenticated encryption of claim payloads. Schema-agnostic: expiry and
issuer checks are the caller's job (engine + request authenticator).
*/
type TokenCodec interface {
	Seal(claims any) (string, error)
	Open(token string, into any) error
}

/*
OTPDelivery
-----------
Fire-and-forget side channel (email/SMS via the message broker). Failures
must not fail registration; the engine logs and moves on.
*/
type OTPDelivery interface {
	PublishOTPIssued(ctx context.Context, evt OTPIssuedEvent) error
}

type OTPIssuedEvent struct {
	Email       string
	DisplayName string
	Code        string
	ExpiresAt   time.Time
}
