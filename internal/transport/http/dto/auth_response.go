package dto

import "github.com/questrider/auth-service/internal/application/auth"

type UserView struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	Role        string `json:"role"`
}

type TokensView struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthView is the body for verify-otp / login / refresh. Tokens also ride
// in cookies; the body copy serves non-browser clients.
type AuthView struct {
	User   UserView   `json:"user"`
	Tokens TokensView `json:"tokens"`
}

type MessageView struct {
	Message string `json:"message"`
}

func ToUserView(u auth.UserSummary) UserView {
	return UserView{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.DisplayName,
		PhoneNumber: u.PhoneNumber,
		Role:        u.Role,
	}
}

func ToAuthView(res auth.AuthResult) AuthView {
	return AuthView{
		User: ToUserView(res.User),
		Tokens: TokensView{
			AccessToken:  res.Tokens.AccessToken,
			RefreshToken: res.Tokens.RefreshToken,
		},
	}
}
