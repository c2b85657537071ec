package domain

import (
	"errors"
	"testing"
)

func TestError_ErrorString_NoCause(t *testing.T) {
	err := New(KindAuth, "invalid_credentials", "invalid email or password")

	if err.Error() == "" {
		t.Fatal("expected non-empty error string")
	}
}

func TestError_WrapKeepsCause(t *testing.T) {
	root := errors.New("root cause")
	err := Wrap(KindInternal, "hash_failed", "hash failed", root)

	if !errors.Is(err, root) {
		t.Fatalf("expected errors.Is to match cause")
	}
	if errors.Unwrap(err) != root {
		t.Fatalf("unwrap did not return cause")
	}
}

func TestWithMeta_AttachesMeta(t *testing.T) {
	err := ErrMissingField("email")

	if err.Meta == nil {
		t.Fatalf("expected meta to be set")
	}
	if err.Meta["field"] != "email" {
		t.Fatalf("unexpected meta value: %+v", err.Meta)
	}
}

func TestIs_MatchesCode(t *testing.T) {
	err := ErrInvalidOTP()

	if !Is(err, "invalid_otp") {
		t.Fatalf("expected code match")
	}
	if Is(err, "something_else") {
		t.Fatalf("unexpected code match")
	}
}

func TestIs_NonDomainError(t *testing.T) {
	if Is(errors.New("plain error"), "invalid_otp") {
		t.Fatalf("plain errors must not match domain codes")
	}
}

func TestAuthErrors_AreAuthKind(t *testing.T) {
	for _, e := range []*Error{
		ErrInvalidCredentials(),
		ErrInvalidOTP(),
		ErrOTPExpired(),
		ErrTokenMissing(),
		ErrTokenInvalid(),
		ErrTokenExpired(),
		ErrTokenWrongIssuer(),
		ErrRefreshTokenInvalid(),
		ErrRefreshTokenExpired(),
		ErrRefreshTokenReused(),
	} {
		if e.Kind != KindAuth {
			t.Fatalf("expected auth kind for %s, got %s", e.Code, e.Kind)
		}
	}
}
