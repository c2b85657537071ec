package auth

import "context"

// GetSession re-reads the caller's profile so /me reflects the row, not a
// possibly stale token payload.
func (s *Service) GetSession(ctx context.Context, userID string) (UserSummary, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return UserSummary{}, err
	}
	return summarize(u), nil
}
