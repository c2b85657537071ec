package auth

import (
	"context"

	"github.com/questrider/auth-service/internal/domain"
)

// Register starts the two-phase signup: hash the password, stage the
// profile with a one-time code, and hand the code to the delivery channel.
// No user row is created until the code is verified.
//
// Registering again for the same email supersedes the previous attempt,
// invalidating its code.
func (s *Service) Register(ctx context.Context, email, password, displayName, phoneNumber string) error {
	email = normalizeEmail(email)

	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return domain.ErrEmailAlreadyExists()
	case domain.Is(err, "user_not_found"):
		// expected: email is free
	default:
		return err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}

	code, err := s.codes.Generate()
	if err != nil {
		return err
	}

	rec := domain.PendingRegistration{
		Email:        email,
		DisplayName:  displayName,
		PhoneNumber:  phoneNumber,
		PasswordHash: hash,
		Code:         code,
		ExpiresAt:    s.now().Add(s.cfg.OTPTTL),
	}
	if err := s.onboarding.Put(ctx, rec); err != nil {
		return err
	}

	s.deliverCode(ctx, rec)
	s.audit("registration_started", map[string]any{"email": email})
	return nil
}

// deliverCode is fire-and-forget: a broker outage must not fail signup,
// the user can always ask for a resend.
func (s *Service) deliverCode(ctx context.Context, rec domain.PendingRegistration) {
	err := s.delivery.PublishOTPIssued(ctx, OTPIssuedEvent{
		Email:       rec.Email,
		DisplayName: rec.DisplayName,
		Code:        rec.Code,
		ExpiresAt:   rec.ExpiresAt,
	})
	if err != nil {
		s.audit("otp_delivery_failed", map[string]any{"email": rec.Email, "error": err.Error()})
	}
}
