package auth

import (
	"strings"
	"time"
)

// Config carries the tunables the engine needs from the environment.
type Config struct {
	Issuer          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	OTPTTL          time.Duration
	DefaultRole     string
}

// Service is the session-lifecycle engine: two-phase registration, login,
// refresh rotation and session introspection. All I/O goes through the
// ports; the engine itself is deterministic given now().
type Service struct {
	users      UserRepo
	onboarding OnboardingStore
	hasher     PasswordHasher
	codes      CodeGenerator
	codec      TokenCodec
	delivery   OTPDelivery
	cfg        Config

	now   func() time.Time
	audit func(event string, fields map[string]any)
}

func NewService(
	users UserRepo,
	onboarding OnboardingStore,
	hasher PasswordHasher,
	codes CodeGenerator,
	codec TokenCodec,
	delivery OTPDelivery,
	cfg Config,
) *Service {
	return &Service{
		users:      users,
		onboarding: onboarding,
		hasher:     hasher,
		codes:      codes,
		codec:      codec,
		delivery:   delivery,
		cfg:        cfg,
		now:        time.Now,
		audit:      func(string, map[string]any) {},
	}
}

// WithAudit installs an audit sink (wired to the structured logger in
// bootstrap). Events also cover non-fatal delivery failures.
func (s *Service) WithAudit(fn func(event string, fields map[string]any)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

// WithClock overrides the time source. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// Issuer exposes the configured token issuer for the request authenticator.
func (s *Service) Issuer() string { return s.cfg.Issuer }

// Now exposes the engine clock for the request authenticator.
func (s *Service) Now() time.Time { return s.now() }

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
