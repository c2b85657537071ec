package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/questrider/auth-service/internal/domain"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// ---------- helpers ----------

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

const userColumns = "id, email, display_name, phone_number, password_hash, role, refresh_token, created_at"

func (r *UserRepo) scanUserRow(row *sql.Row) (userRow, error) {
	var ur userRow
	err := row.Scan(
		&ur.ID,
		&ur.Email,
		&ur.DisplayName,
		&ur.PhoneNumber,
		&ur.PasswordHash,
		&ur.Role,
		&ur.RefreshToken,
		&ur.CreatedAt,
	)
	return ur, err
}

func toDomainUser(ur userRow) domain.User {
	return domain.User{
		ID:           ur.ID,
		Email:        ur.Email,
		DisplayName:  ur.DisplayName,
		PhoneNumber:  ur.PhoneNumber,
		PasswordHash: ur.PasswordHash,
		Role:         ur.Role,
		RefreshToken: ur.RefreshToken.String,
	}
}

// ---------- auth.UserRepo ----------

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}

	const q = `
SELECT ` + userColumns + `
FROM users
WHERE email = $1
LIMIT 1;
`
	ur, err := r.scanUserRow(r.db.QueryRowContext(ctx, q, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.User{}, domain.ErrMissingField("id")
	}

	const q = `
SELECT ` + userColumns + `
FROM users
WHERE id = $1
LIMIT 1;
`
	ur, err := r.scanUserRow(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	u.Email = normalizeEmail(u.Email)
	if u.ID == "" {
		return domain.User{}, domain.ErrMissingField("id")
	}
	if u.Email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	if u.PasswordHash == "" {
		return domain.User{}, domain.ErrMissingField("password_hash")
	}
	if u.Role == "" {
		u.Role = domain.RoleStudent
	}

	const q = `
INSERT INTO users (id, email, display_name, phone_number, password_hash, role)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING ` + userColumns + `;
`
	var ur userRow
	err := r.db.QueryRowContext(ctx, q,
		u.ID, u.Email, u.DisplayName, u.PhoneNumber, u.PasswordHash, u.Role,
	).Scan(
		&ur.ID,
		&ur.Email,
		&ur.DisplayName,
		&ur.PhoneNumber,
		&ur.PasswordHash,
		&ur.Role,
		&ur.RefreshToken,
		&ur.CreatedAt,
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "duplicate") {
			return domain.User{}, domain.ErrEmailAlreadyExists()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) SetRefreshToken(ctx context.Context, userID, token string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.ErrMissingField("user_id")
	}
	if token == "" {
		return domain.ErrMissingField("refresh_token")
	}

	const q = `
UPDATE users
SET refresh_token = $2
WHERE id = $1;
`
	res, err := r.db.ExecContext(ctx, q, userID, token)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}

// RotateRefreshToken swaps the stored token only when it still equals
// oldToken. The single conditional UPDATE is what makes concurrent
// refreshes safe: exactly one of them matches.
func (r *UserRepo) RotateRefreshToken(ctx context.Context, userID, oldToken, newToken string) (bool, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return false, domain.ErrMissingField("user_id")
	}
	if oldToken == "" || newToken == "" {
		return false, domain.ErrMissingField("refresh_token")
	}

	const q = `
UPDATE users
SET refresh_token = $3
WHERE id = $1
  AND refresh_token = $2;
`
	res, err := r.db.ExecContext(ctx, q, userID, oldToken, newToken)
	if err != nil {
		return false, domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	return n == 1, nil
}

func (r *UserRepo) ClearRefreshToken(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.ErrMissingField("user_id")
	}

	const q = `
UPDATE users
SET refresh_token = NULL
WHERE id = $1;
`
	// Zero rows affected is fine: clearing is idempotent and logout of a
	// deleted user is a no-op.
	if _, err := r.db.ExecContext(ctx, q, userID); err != nil {
		return domain.ErrDBUnavailable(err)
	}
	return nil
}
