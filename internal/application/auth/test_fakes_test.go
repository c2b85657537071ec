package auth

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/questrider/auth-service/internal/domain"
)

// Hand-rolled fakes keep the engine tests free of any real storage,
// crypto or broker. Each fake exposes simple failure knobs.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]domain.User // keyed by id

	failGetByEmail error
	failCreate     error
	failSet        error
	failRotate     error
	failClear      error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]domain.User{}}
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	if r.failGetByEmail != nil {
		return domain.User{}, r.failGetByEmail
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound()
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (r *fakeUserRepo) Create(_ context.Context, u domain.User) (domain.User, error) {
	if r.failCreate != nil {
		return domain.User{}, r.failCreate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return domain.User{}, domain.ErrEmailAlreadyExists()
		}
	}
	r.users[u.ID] = u
	return u, nil
}

func (r *fakeUserRepo) SetRefreshToken(_ context.Context, userID, token string) error {
	if r.failSet != nil {
		return r.failSet
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.RefreshToken = token
	r.users[userID] = u
	return nil
}

func (r *fakeUserRepo) RotateRefreshToken(_ context.Context, userID, oldToken, newToken string) (bool, error) {
	if r.failRotate != nil {
		return false, r.failRotate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok || u.RefreshToken != oldToken {
		return false, nil
	}
	u.RefreshToken = newToken
	r.users[userID] = u
	return true, nil
}

func (r *fakeUserRepo) ClearRefreshToken(_ context.Context, userID string) error {
	if r.failClear != nil {
		return r.failClear
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		u.RefreshToken = ""
		r.users[userID] = u
	}
	return nil
}

func (r *fakeUserRepo) stored(id string) domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id]
}

type fakeOnboardingStore struct {
	mu   sync.Mutex
	recs map[string]domain.PendingRegistration

	failPut    error
	failGet    error
	failDelete error
}

func newFakeOnboardingStore() *fakeOnboardingStore {
	return &fakeOnboardingStore{recs: map[string]domain.PendingRegistration{}}
}

func (s *fakeOnboardingStore) Put(_ context.Context, rec domain.PendingRegistration) error {
	if s.failPut != nil {
		return s.failPut
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs[rec.Email] = rec
	return nil
}

func (s *fakeOnboardingStore) Get(_ context.Context, email string) (domain.PendingRegistration, error) {
	if s.failGet != nil {
		return domain.PendingRegistration{}, s.failGet
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recs[email]
	if !ok {
		return domain.PendingRegistration{}, domain.ErrPendingRegistrationNotFound()
	}
	return rec, nil
}

func (s *fakeOnboardingStore) Delete(_ context.Context, email string) error {
	if s.failDelete != nil {
		return s.failDelete
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.recs, email)
	return nil
}

func (s *fakeOnboardingStore) record(email string) (domain.PendingRegistration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recs[email]
	return rec, ok
}

type fakeHasher struct {
	failHash error
}

func (h *fakeHasher) Hash(password string) (string, error) {
	if h.failHash != nil {
		return "", h.failHash
	}
	return "hashed:" + password, nil
}

func (h *fakeHasher) Verify(hash, password string) bool {
	return hash == "hashed:"+password
}

type fakeCodes struct {
	next []string
	fail error
}

func (c *fakeCodes) Generate() (string, error) {
	if c.fail != nil {
		return "", c.fail
	}
	if len(c.next) == 0 {
		return "123456", nil
	}
	code := c.next[0]
	c.next = c.next[1:]
	return code, nil
}

// fakeCodec does a real round trip through JSON so claim fields survive
// Seal/Open, without any actual encryption.
type fakeCodec struct {
	seq      int
	failSeal error
}

func (c *fakeCodec) Seal(claims any) (string, error) {
	if c.failSeal != nil {
		return "", c.failSeal
	}
	b, err := json.Marshal(claims)
	if err != nil {
		return "", domain.ErrTokenSealFailed(err)
	}
	c.seq++
	// The counter makes every token unique, like a real nonce would.
	return "tok." + string(b) + "." + strings.Repeat("x", c.seq), nil
}

func (c *fakeCodec) Open(token string, into any) error {
	if !strings.HasPrefix(token, "tok.") {
		return domain.ErrTokenInvalid()
	}
	body := strings.TrimPrefix(token, "tok.")
	if i := strings.LastIndex(body, "."); i >= 0 {
		body = body[:i]
	}
	if err := json.Unmarshal([]byte(body), into); err != nil {
		return domain.ErrTokenInvalid()
	}
	return nil
}

type fakeDelivery struct {
	mu     sync.Mutex
	events []OTPIssuedEvent
	fail   error
}

func (d *fakeDelivery) PublishOTPIssued(_ context.Context, evt OTPIssuedEvent) error {
	if d.fail != nil {
		return d.fail
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, evt)
	return nil
}

func (d *fakeDelivery) sent() []OTPIssuedEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]OTPIssuedEvent, len(d.events))
	copy(out, d.events)
	return out
}

type testEnv struct {
	svc        *Service
	users      *fakeUserRepo
	onboarding *fakeOnboardingStore
	hasher     *fakeHasher
	codes      *fakeCodes
	codec      *fakeCodec
	delivery   *fakeDelivery

	now    time.Time
	events []string
}

func newTestEnv() *testEnv {
	env := &testEnv{
		users:      newFakeUserRepo(),
		onboarding: newFakeOnboardingStore(),
		hasher:     &fakeHasher{},
		codes:      &fakeCodes{},
		codec:      &fakeCodec{},
		delivery:   &fakeDelivery{},
		now:        time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	env.svc = NewService(
		env.users,
		env.onboarding,
		env.hasher,
		env.codes,
		env.codec,
		env.delivery,
		Config{
			Issuer:          "QuestRider",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 720 * time.Hour,
			OTPTTL:          10 * time.Minute,
			DefaultRole:     domain.RoleStudent,
		},
	).WithClock(func() time.Time { return env.now }).
		WithAudit(func(event string, _ map[string]any) { env.events = append(env.events, event) })
	return env
}

func (e *testEnv) advance(d time.Duration) { e.now = e.now.Add(d) }

func (e *testEnv) audited(event string) bool {
	for _, got := range e.events {
		if got == event {
			return true
		}
	}
	return false
}
