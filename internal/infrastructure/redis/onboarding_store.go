package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/questrider/auth-service/internal/domain"
)

// OnboardingStore keeps pending registrations in Redis, one JSON record
// per email. The key TTL runs twice as long as the code itself so an
// expired code is reported as "expired" rather than "unknown email" until
// Redis garbage-collects it.
type OnboardingStore struct {
	rdb    *goredis.Client
	prefix string // e.g. "onb:"
	now    func() time.Time
}

func NewOnboardingStore(c *Client) *OnboardingStore {
	var rdb *goredis.Client
	if c != nil {
		rdb = c.rdb
	}
	return &OnboardingStore{
		rdb:    rdb,
		prefix: "onb:",
		now:    time.Now,
	}
}

func (s *OnboardingStore) Put(ctx context.Context, rec domain.PendingRegistration) error {
	rec.Email = strings.ToLower(strings.TrimSpace(rec.Email))
	if rec.Email == "" {
		return domain.ErrMissingField("email")
	}
	if s.rdb == nil {
		return errors.New("redis onboarding store not configured")
	}

	ttl := 2 * rec.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return domain.ErrInvalidField("expires_at", "must be in the future")
	}

	body, err := json.Marshal(rec)
	if err != nil {
		return domain.ErrInternal(err)
	}

	// overwrite is the supersede semantics: the previous attempt's code
	// dies with its record
	if err := s.rdb.Set(ctx, s.key(rec.Email), body, ttl).Err(); err != nil {
		return domain.ErrRedisUnavailable(err)
	}
	return nil
}

func (s *OnboardingStore) Get(ctx context.Context, email string) (domain.PendingRegistration, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return domain.PendingRegistration{}, domain.ErrMissingField("email")
	}
	if s.rdb == nil {
		return domain.PendingRegistration{}, errors.New("redis onboarding store not configured")
	}

	body, err := s.rdb.Get(ctx, s.key(email)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return domain.PendingRegistration{}, domain.ErrPendingRegistrationNotFound()
		}
		return domain.PendingRegistration{}, domain.ErrRedisUnavailable(err)
	}

	var rec domain.PendingRegistration
	if err := json.Unmarshal(body, &rec); err != nil {
		return domain.PendingRegistration{}, domain.ErrInternal(err)
	}
	return rec, nil
}

func (s *OnboardingStore) Delete(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return domain.ErrMissingField("email")
	}
	if s.rdb == nil {
		return errors.New("redis onboarding store not configured")
	}

	if err := s.rdb.Del(ctx, s.key(email)).Err(); err != nil {
		return domain.ErrRedisUnavailable(err)
	}
	return nil
}

func (s *OnboardingStore) key(email string) string {
	return s.prefix + email
}
