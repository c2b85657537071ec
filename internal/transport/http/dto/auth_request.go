package dto

import "strings"

// -------- Registration --------

type RegisterRequest struct {
	Name        string `json:"name" validate:"required,min=2"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number" validate:"required,min=10"`
	Password    string `json:"password" validate:"required,min=8"`
}

func (r *RegisterRequest) Validate() error {
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	r.Name = strings.TrimSpace(r.Name)
	r.PhoneNumber = strings.TrimSpace(r.PhoneNumber)
	return checkStruct(r)
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

func (r *VerifyOTPRequest) Validate() error {
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	r.OTP = strings.TrimSpace(r.OTP)
	return checkStruct(r)
}

type ResendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (r *ResendOTPRequest) Validate() error {
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	return checkStruct(r)
}

// -------- Sessions --------

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	return checkStruct(r)
}

// The refresh token usually rides in the HttpOnly cookie; the body field
// is the fallback for non-browser clients.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token,omitempty"`
}

func (r *RefreshRequest) Validate() error { return nil }
