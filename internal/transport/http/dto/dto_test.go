package dto

import (
	"testing"

	"github.com/questrider/auth-service/internal/domain"
)

func TestRegisterRequest_Validate(t *testing.T) {
	cases := []struct {
		name string
		req  RegisterRequest
		code string // "" means valid
	}{
		{"valid", RegisterRequest{Name: "Alice", Email: "a@x.com", PhoneNumber: "5551234567", Password: "pw123456"}, ""},
		{"missing name", RegisterRequest{Email: "a@x.com", PhoneNumber: "5551234567", Password: "pw123456"}, "missing_field"},
		{"short name", RegisterRequest{Name: "A", Email: "a@x.com", PhoneNumber: "5551234567", Password: "pw123456"}, "invalid_field"},
		{"missing email", RegisterRequest{Name: "Alice", PhoneNumber: "5551234567", Password: "pw123456"}, "missing_field"},
		{"bad email", RegisterRequest{Name: "Alice", Email: "not-an-email", PhoneNumber: "5551234567", Password: "pw123456"}, "invalid_field"},
		{"short phone", RegisterRequest{Name: "Alice", Email: "a@x.com", PhoneNumber: "555", Password: "pw123456"}, "invalid_field"},
		{"short password", RegisterRequest{Name: "Alice", Email: "a@x.com", PhoneNumber: "5551234567", Password: "pw1234"}, "invalid_field"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			if tc.code == "" {
				if err != nil {
					t.Fatalf("expected nil, got %v", err)
				}
				return
			}
			if !domain.Is(err, tc.code) {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
		})
	}
}

func TestRegisterRequest_NormalizesEmail(t *testing.T) {
	req := RegisterRequest{Name: "Alice", Email: " Alice@X.COM ", PhoneNumber: "5551234567", Password: "pw123456"}
	if err := req.Validate(); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if req.Email != "alice@x.com" {
		t.Fatalf("expected normalized email, got %q", req.Email)
	}
}

func TestVerifyOTPRequest_Validate(t *testing.T) {
	cases := []struct {
		name string
		req  VerifyOTPRequest
		code string
	}{
		{"valid", VerifyOTPRequest{Email: "a@x.com", OTP: "123456"}, ""},
		{"missing otp", VerifyOTPRequest{Email: "a@x.com"}, "missing_field"},
		{"short otp", VerifyOTPRequest{Email: "a@x.com", OTP: "123"}, "invalid_field"},
		{"long otp", VerifyOTPRequest{Email: "a@x.com", OTP: "1234567"}, "invalid_field"},
		{"alpha otp", VerifyOTPRequest{Email: "a@x.com", OTP: "12a456"}, "invalid_field"},
		{"missing email", VerifyOTPRequest{OTP: "123456"}, "missing_field"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			if tc.code == "" {
				if err != nil {
					t.Fatalf("expected nil, got %v", err)
				}
				return
			}
			if !domain.Is(err, tc.code) {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
		})
	}
}

func TestLoginRequest_Validate(t *testing.T) {
	if err := (&LoginRequest{Email: "a@x.com", Password: "x"}).Validate(); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if err := (&LoginRequest{Password: "x"}).Validate(); !domain.Is(err, "missing_field") {
		t.Fatalf("expected missing_field, got %v", err)
	}
	if err := (&LoginRequest{Email: "a@x.com"}).Validate(); !domain.Is(err, "missing_field") {
		t.Fatalf("expected missing_field, got %v", err)
	}
}

func TestValidationErrors_NameTheWireField(t *testing.T) {
	err := (&RegisterRequest{Name: "Alice", Email: "a@x.com", Password: "pw123456"}).Validate()

	var de *domain.Error
	if !asDomain(err, &de) {
		t.Fatalf("expected a domain error, got %v", err)
	}
	if de.Meta["field"] != "phone_number" {
		t.Fatalf("expected wire name phone_number, got %+v", de.Meta)
	}
}

func asDomain(err error, dst **domain.Error) bool {
	de, ok := err.(*domain.Error)
	if ok {
		*dst = de
	}
	return ok
}
