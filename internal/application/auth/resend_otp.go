package auth

import (
	"context"

	"github.com/questrider/auth-service/internal/domain"
)

// ResendOTP replaces the staged code with a fresh one and a fresh expiry.
// Only the latest code verifies. Emails that already belong to an
// activated user have nothing to resend.
func (s *Service) ResendOTP(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return domain.ErrPendingRegistrationNotFound()
	case domain.Is(err, "user_not_found"):
	default:
		return err
	}

	rec, err := s.onboarding.Get(ctx, email)
	if err != nil {
		return err
	}

	code, err := s.codes.Generate()
	if err != nil {
		return err
	}
	rec.Code = code
	rec.ExpiresAt = s.now().Add(s.cfg.OTPTTL)

	if err := s.onboarding.Put(ctx, rec); err != nil {
		return err
	}

	s.deliverCode(ctx, rec)
	s.audit("otp_resent", map[string]any{"email": email})
	return nil
}
