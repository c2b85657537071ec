package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/questrider/auth-service/internal/domain"
)

// VerifyOTP finishes registration: check the staged code, create the user
// row with the default role, drop the staged record and open a session.
//
// A missing record and a wrong code produce the same error so the endpoint
// cannot be used to probe which emails have a signup in flight.
func (s *Service) VerifyOTP(ctx context.Context, email, code string) (AuthResult, error) {
	email = normalizeEmail(email)

	rec, err := s.onboarding.Get(ctx, email)
	switch {
	case err == nil:
	case domain.Is(err, "pending_registration_not_found"):
		return AuthResult{}, domain.ErrInvalidOTP()
	default:
		return AuthResult{}, err
	}

	if rec.Code != code {
		return AuthResult{}, domain.ErrInvalidOTP()
	}
	if rec.Expired(s.now()) {
		return AuthResult{}, domain.ErrOTPExpired()
	}

	created, err := s.users.Create(ctx, domain.User{
		ID:           uuid.NewString(),
		Email:        rec.Email,
		DisplayName:  rec.DisplayName,
		PhoneNumber:  rec.PhoneNumber,
		PasswordHash: rec.PasswordHash,
		Role:         s.cfg.DefaultRole,
	})
	if err != nil {
		return AuthResult{}, err
	}

	// The staged record is spent. A failed delete is non-fatal: the record
	// expires on its own and a replayed code hits the unique email above.
	if err := s.onboarding.Delete(ctx, email); err != nil {
		s.audit("onboarding_cleanup_failed", map[string]any{"email": email, "error": err.Error()})
	}

	s.audit("registration_completed", map[string]any{"email": email, "user_id": created.ID})
	return s.issueSession(ctx, created)
}
