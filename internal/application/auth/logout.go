package auth

import "context"

// Logout drops the stored refresh token. Idempotent: logging out twice,
// or with no live session, still succeeds.
func (s *Service) Logout(ctx context.Context, userID string) error {
	if userID == "" {
		return nil
	}
	if err := s.users.ClearRefreshToken(ctx, userID); err != nil {
		return err
	}
	s.audit("logout", map[string]any{"user_id": userID})
	return nil
}
