package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// ---------- fakes ----------

type fakeHealth struct{}

func (fakeHealth) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (fakeHealth) Readyz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

type fakeAuth struct{}

func (fakeAuth) write(w http.ResponseWriter, msg string) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(msg))
}

func (a fakeAuth) Register(w http.ResponseWriter, r *http.Request)  { a.write(w, "register") }
func (a fakeAuth) VerifyOTP(w http.ResponseWriter, r *http.Request) { a.write(w, "verify-otp") }
func (a fakeAuth) ResendOTP(w http.ResponseWriter, r *http.Request) { a.write(w, "resend-otp") }
func (a fakeAuth) Login(w http.ResponseWriter, r *http.Request)     { a.write(w, "login") }
func (a fakeAuth) Refresh(w http.ResponseWriter, r *http.Request)   { a.write(w, "refresh") }
func (a fakeAuth) Logout(w http.ResponseWriter, r *http.Request)    { a.write(w, "logout") }
func (a fakeAuth) Me(w http.ResponseWriter, r *http.Request)        { a.write(w, "me") }
func (a fakeAuth) AdminPing(w http.ResponseWriter, r *http.Request) { a.write(w, "admin") }

func passMW(next http.Handler) http.Handler { return next }

func denyMW(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
}

func newTestRouter(t *testing.T, authMW, adminMW func(http.Handler) http.Handler) http.Handler {
	t.Helper()
	h, err := New(Deps{
		Health:  fakeHealth{},
		Auth:    fakeAuth{},
		AuthMW:  authMW,
		AdminMW: adminMW,
	})
	if err != nil {
		t.Fatalf("router: %v", err)
	}
	return h
}

// ---------- tests ----------

func TestRouter_PublicRoutes(t *testing.T) {
	h := newTestRouter(t, passMW, passMW)

	cases := []struct {
		method, path, want string
	}{
		{http.MethodGet, "/healthz", "ok"},
		{http.MethodGet, "/readyz", "ready"},
		{http.MethodPost, "/auth/v1/register", "register"},
		{http.MethodPost, "/auth/v1/verify-otp", "verify-otp"},
		{http.MethodPost, "/auth/v1/resend-otp", "resend-otp"},
		{http.MethodPost, "/auth/v1/login", "login"},
		{http.MethodPost, "/auth/v1/refresh", "refresh"},
	}

	for _, tc := range cases {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, nil))
		if rr.Code != http.StatusOK || rr.Body.String() != tc.want {
			t.Fatalf("%s %s: got %d %q", tc.method, tc.path, rr.Code, rr.Body.String())
		}
	}
}

func TestRouter_ProtectedRoutesGoThroughAuthMW(t *testing.T) {
	h := newTestRouter(t, denyMW, passMW)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/auth/v1/me"},
		{http.MethodPost, "/auth/v1/logout"},
		{http.MethodGet, "/auth/v1/admin"},
	} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, nil))
		if rr.Code != http.StatusForbidden {
			t.Fatalf("%s %s must pass through the auth middleware, got %d", tc.method, tc.path, rr.Code)
		}
	}
}

func TestRouter_AdminRouteGoesThroughAdminMW(t *testing.T) {
	h := newTestRouter(t, passMW, denyMW)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/auth/v1/admin", nil))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("admin route must pass through the admin middleware, got %d", rr.Code)
	}

	// Non-admin routes are unaffected.
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/auth/v1/me", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("me route must not require admin, got %d", rr.Code)
	}
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	h := newTestRouter(t, passMW, passMW)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", rr.Code)
	}
}

func TestRouter_RejectsMissingDeps(t *testing.T) {
	if _, err := New(Deps{Auth: fakeAuth{}, AuthMW: passMW, AdminMW: passMW}); err == nil {
		t.Fatalf("expected error for nil health handler")
	}
	if _, err := New(Deps{Health: fakeHealth{}, AuthMW: passMW, AdminMW: passMW}); err == nil {
		t.Fatalf("expected error for nil auth handler")
	}
	if _, err := New(Deps{Health: fakeHealth{}, Auth: fakeAuth{}, AdminMW: passMW}); err == nil {
		t.Fatalf("expected error for nil auth middleware")
	}
	if _, err := New(Deps{Health: fakeHealth{}, Auth: fakeAuth{}, AuthMW: passMW}); err == nil {
		t.Fatalf("expected error for nil admin middleware")
	}
}
