package http_handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/questrider/auth-service/internal/application/auth"
	"github.com/questrider/auth-service/internal/domain"
	"github.com/questrider/auth-service/internal/infrastructure/memory"
	"github.com/questrider/auth-service/internal/infrastructure/security"
)

// The handler tests run the real engine and codec over the in-memory
// adapters; only hashing, code generation and delivery are stubbed.

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "h:" + password, nil }
func (plainHasher) Verify(hash, password string) bool    { return hash == "h:"+password }

type fixedCodes struct{}

func (fixedCodes) Generate() (string, error) { return "123456", nil }

type dropDelivery struct{}

func (dropDelivery) PublishOTPIssued(context.Context, auth.OTPIssuedEvent) error { return nil }

func newTestHandler(t *testing.T) *AuthHandler {
	t.Helper()

	key := make([]byte, 32)
	for i := range key {
		key[i] = 42
	}
	codec, err := security.NewCodec(key)
	if err != nil {
		t.Fatalf("codec: %v", err)
	}

	svc := auth.NewService(
		memory.NewUserRepo(),
		memory.NewOnboardingStore(),
		plainHasher{},
		fixedCodes{},
		codec,
		dropDelivery{},
		auth.Config{
			Issuer:          "QuestRider",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 720 * time.Hour,
			OTPTTL:          10 * time.Minute,
			DefaultRole:     domain.RoleStudent,
		},
	)

	return NewAuthHandler(svc, 15*time.Minute, 720*time.Hour, false)
}

func postJSON(t *testing.T, h http.HandlerFunc, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, dst any) {
	t.Helper()
	dec := json.NewDecoder(bytes.NewReader(rr.Body.Bytes()))
	if err := dec.Decode(dst); err != nil {
		t.Fatalf("decode body: %v, body=%q", err, rr.Body.String())
	}
}

func errCodeFromBody(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decodeBody(t, rr, &body)
	return body.Error.Code
}

type authEnvelope struct {
	Data struct {
		User struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
		Tokens struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
		} `json:"tokens"`
	} `json:"data"`
}

// signup runs register + verify and returns the verified auth payload and
// the cookies set on verification.
func signup(t *testing.T, h *AuthHandler, email string) (authEnvelope, []*http.Cookie) {
	t.Helper()

	rr := postJSON(t, h.Register, "/auth/v1/register",
		`{"name":"Alice","email":"`+email+`","phone_number":"5551234567","password":"pw123456"}`, nil)
	if rr.Code != http.StatusAccepted {
		t.Fatalf("register: expected 202, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = postJSON(t, h.VerifyOTP, "/auth/v1/verify-otp",
		`{"email":"`+email+`","otp":"123456"}`, nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("verify: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var env authEnvelope
	decodeBody(t, rr, &env)
	return env, rr.Result().Cookies()
}

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}
