package domain

// User is an activated account. RefreshToken holds the single currently
// valid refresh token for the user ("" means none); it is the source of
// truth for rotation, not the token's embedded expiry.
type User struct {
	ID           string
	Email        string
	DisplayName  string
	PhoneNumber  string
	PasswordHash string
	Role         string
	RefreshToken string
}
