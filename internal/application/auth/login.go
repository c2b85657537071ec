package auth

import (
	"context"

	"github.com/questrider/auth-service/internal/domain"
)

// Login verifies credentials and opens a fresh session, replacing any
// refresh token from a previous device or login.
//
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (AuthResult, error) {
	email = normalizeEmail(email)

	u, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
	case domain.Is(err, "user_not_found"):
		return AuthResult{}, domain.ErrInvalidCredentials()
	default:
		return AuthResult{}, err
	}

	if !s.hasher.Verify(u.PasswordHash, password) {
		return AuthResult{}, domain.ErrInvalidCredentials()
	}

	res, err := s.issueSession(ctx, u)
	if err != nil {
		return AuthResult{}, err
	}
	s.audit("login", map[string]any{"user_id": u.ID})
	return res, nil
}
