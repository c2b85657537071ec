package auth

import (
	"context"

	"github.com/questrider/auth-service/internal/domain"
)

// UserSummary is the public-safe projection of a user. Password hashes
// and stored refresh tokens never cross this boundary.
type UserSummary struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	Role        string `json:"role"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResult is what a successful login / verification / refresh hands to
// the transport layer.
type AuthResult struct {
	User   UserSummary
	Tokens TokenPair
}

func summarize(u domain.User) UserSummary {
	return UserSummary{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		PhoneNumber: u.PhoneNumber,
		Role:        u.Role,
	}
}

// sealPair mints a fresh access+refresh pair for u. Nothing is persisted;
// callers decide between an unconditional write (login) and a compare-and-
// swap (refresh rotation).
func (s *Service) sealPair(u domain.User) (TokenPair, error) {
	now := s.now()

	access, err := s.codec.Seal(Claims{
		UserID:    u.ID,
		Email:     u.Email,
		Role:      u.Role,
		ExpiresAt: now.Add(s.cfg.AccessTokenTTL),
		Issuer:    s.cfg.Issuer,
	})
	if err != nil {
		return TokenPair{}, err
	}

	refresh, err := s.codec.Seal(Claims{
		UserID:    u.ID,
		Email:     u.Email,
		Role:      u.Role,
		ExpiresAt: now.Add(s.cfg.RefreshTokenTTL),
		Issuer:    s.cfg.Issuer,
	})
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// issueSession seals a pair and stores the refresh token as the user's one
// valid session, replacing whatever was there before.
func (s *Service) issueSession(ctx context.Context, u domain.User) (AuthResult, error) {
	pair, err := s.sealPair(u)
	if err != nil {
		return AuthResult{}, err
	}
	if err := s.users.SetRefreshToken(ctx, u.ID, pair.RefreshToken); err != nil {
		return AuthResult{}, err
	}
	return AuthResult{User: summarize(u), Tokens: pair}, nil
}
