package postgres

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/questrider/auth-service/internal/domain"
)

type SeederHasher interface {
	Hash(password string) (string, error)
}

type SeederRepo interface {
	Create(ctx context.Context, u domain.User) (domain.User, error)
}

// SeedUsers provisions one account per role for local development.
// Duplicates are ignored so restarts are safe. Never enabled outside dev.
func SeedUsers(ctx context.Context, repo SeederRepo, hasher SeederHasher) {
	type seedUser struct {
		Email string
		Name  string
		Role  string
		Pass  string
	}

	seeds := []seedUser{
		{Email: "admin@questrider.dev", Name: "Dev Admin", Role: domain.RoleAdmin, Pass: "AdminPassword123!"},
		{Email: "educator@questrider.dev", Name: "Dev Educator", Role: domain.RoleEducator, Pass: "EducatorPassword123!"},
		{Email: "student@questrider.dev", Name: "Dev Student", Role: domain.RoleStudent, Pass: "StudentPassword123!"},
	}

	for _, s := range seeds {
		hash, err := hasher.Hash(s.Pass)
		if err != nil {
			log.Printf("[seed] hash failed (%s): %v", s.Email, err)
			continue
		}

		_, err = repo.Create(ctx, domain.User{
			ID:           uuid.NewString(),
			Email:        s.Email,
			DisplayName:  s.Name,
			PhoneNumber:  "5550000000",
			PasswordHash: hash,
			Role:         s.Role,
		})
		if err != nil {
			// duplicate on restart
			continue
		}
	}

	log.Println("[seed] postgres users seeded")
}
