package memory

import (
	"context"
	"sync"

	"github.com/questrider/auth-service/internal/domain"
)

// OnboardingStore is the dev fallback when Redis is not reachable.
// Records are never garbage-collected; expiry is still enforced by the
// engine through ExpiresAt.
type OnboardingStore struct {
	mu   sync.RWMutex
	recs map[string]domain.PendingRegistration
}

func NewOnboardingStore() *OnboardingStore {
	return &OnboardingStore{recs: make(map[string]domain.PendingRegistration)}
}

func (s *OnboardingStore) Put(ctx context.Context, rec domain.PendingRegistration) error {
	if rec.Email == "" {
		return domain.ErrMissingField("email")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs[rec.Email] = rec
	return nil
}

func (s *OnboardingStore) Get(ctx context.Context, email string) (domain.PendingRegistration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.recs[email]
	if !ok {
		return domain.PendingRegistration{}, domain.ErrPendingRegistrationNotFound()
	}
	return rec, nil
}

func (s *OnboardingStore) Delete(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.recs, email)
	return nil
}
