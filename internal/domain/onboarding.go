package domain

import "time"

// PendingRegistration is the single live onboarding record for an email.
// A new registration for the same email replaces it; successful verification
// destroys it and creates the User.
type PendingRegistration struct {
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	PhoneNumber  string    `json:"phone_number"`
	PasswordHash string    `json:"password_hash"`
	Code         string    `json:"code"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func (p PendingRegistration) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}
