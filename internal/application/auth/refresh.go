package auth

import (
	"context"

	"github.com/questrider/auth-service/internal/domain"
)

// Refresh rotates a session: the presented refresh token must decrypt,
// be unexpired, carry the right issuer AND be the exact token on record.
// Success invalidates the old pair; a stale or replayed token invalidates
// the whole session so a stolen token cannot be used quietly.
func (s *Service) Refresh(ctx context.Context, presented string) (AuthResult, error) {
	if presented == "" {
		return AuthResult{}, domain.ErrRefreshTokenInvalid()
	}

	var claims Claims
	if err := s.codec.Open(presented, &claims); err != nil {
		return AuthResult{}, domain.ErrRefreshTokenInvalid()
	}
	if err := claims.Validate(s.now(), s.cfg.Issuer); err != nil {
		if domain.Is(err, "token_expired") {
			return AuthResult{}, domain.ErrRefreshTokenExpired()
		}
		return AuthResult{}, err
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	switch {
	case err == nil:
	case domain.Is(err, "user_not_found"):
		return AuthResult{}, domain.ErrRefreshTokenInvalid()
	default:
		return AuthResult{}, err
	}

	// A well-formed token that is not the one on record means it was
	// already rotated away: someone is replaying it. Kill the session.
	if u.RefreshToken == "" || u.RefreshToken != presented {
		return AuthResult{}, s.revokeOnReuse(ctx, u.ID)
	}

	pair, err := s.sealPair(u)
	if err != nil {
		return AuthResult{}, err
	}

	swapped, err := s.users.RotateRefreshToken(ctx, u.ID, presented, pair.RefreshToken)
	if err != nil {
		return AuthResult{}, err
	}
	if !swapped {
		// Lost a race with a concurrent refresh of the same token.
		return AuthResult{}, s.revokeOnReuse(ctx, u.ID)
	}

	s.audit("session_rotated", map[string]any{"user_id": u.ID})
	return AuthResult{User: summarize(u), Tokens: pair}, nil
}

func (s *Service) revokeOnReuse(ctx context.Context, userID string) error {
	if err := s.users.ClearRefreshToken(ctx, userID); err != nil {
		s.audit("session_revoke_failed", map[string]any{"user_id": userID, "error": err.Error()})
	}
	s.audit("refresh_token_reused", map[string]any{"user_id": userID})
	return domain.ErrRefreshTokenReused()
}
