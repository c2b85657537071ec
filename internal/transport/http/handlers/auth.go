package http_handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/questrider/auth-service/internal/application/auth"
	"github.com/questrider/auth-service/internal/domain"
	"github.com/questrider/auth-service/internal/infrastructure/security"
	"github.com/questrider/auth-service/internal/logger"
	"github.com/questrider/auth-service/internal/transport/http/dto"
	"github.com/questrider/auth-service/internal/transport/http/middleware"
	"github.com/questrider/auth-service/internal/transport/http/response"
)

type AuthHandler struct {
	svc           *auth.Service
	accessTTL     time.Duration
	refreshTTL    time.Duration
	secureCookies bool
}

func NewAuthHandler(svc *auth.Service, accessTTL, refreshTTL time.Duration, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		svc:           svc,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		secureCookies: secureCookies,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	if err := h.svc.Register(r.Context(), req.Email, req.Password, req.Name, req.PhoneNumber); err != nil {
		middleware.RegistrationsTotal.WithLabelValues("start", errCode(err)).Inc()
		response.WriteError(w, r, err)
		return
	}
	middleware.RegistrationsTotal.WithLabelValues("start", "success").Inc()

	logger.WithCtx(r.Context()).Info().
		Str("email", req.Email).
		Msg("registration_started")

	response.WriteJSON(w, http.StatusAccepted, response.Envelope{
		Data: dto.MessageView{Message: "verification code sent"},
	})
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyOTPRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.VerifyOTP(r.Context(), req.Email, req.OTP)
	if err != nil {
		middleware.RegistrationsTotal.WithLabelValues("verify", errCode(err)).Inc()
		response.WriteError(w, r, err)
		return
	}
	middleware.RegistrationsTotal.WithLabelValues("verify", "success").Inc()

	logger.WithCtx(r.Context()).Info().
		Str("user_id", res.User.ID).
		Msg("registration_completed")

	security.SetAuthCookies(w, res.Tokens.AccessToken, res.Tokens.RefreshToken, h.accessTTL, h.refreshTTL, h.secureCookies)
	response.Created(w, dto.ToAuthView(res))
}

func (h *AuthHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req dto.ResendOTPRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	if err := h.svc.ResendOTP(r.Context(), req.Email); err != nil {
		middleware.RegistrationsTotal.WithLabelValues("resend", errCode(err)).Inc()
		response.WriteError(w, r, err)
		return
	}
	middleware.RegistrationsTotal.WithLabelValues("resend", "success").Inc()

	response.OK(w, dto.MessageView{Message: "verification code sent"})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		middleware.LoginAttemptsTotal.WithLabelValues(errCode(err)).Inc()
		response.WriteError(w, r, err)
		return
	}
	middleware.LoginAttemptsTotal.WithLabelValues("success").Inc()

	logger.WithCtx(r.Context()).Info().
		Str("user_id", res.User.ID).
		Msg("user_logged_in")

	security.SetAuthCookies(w, res.Tokens.AccessToken, res.Tokens.RefreshToken, h.accessTTL, h.refreshTTL, h.secureCookies)
	response.OK(w, dto.ToAuthView(res))
}

// Refresh rotates the session. The token comes from the cookie when
// present, otherwise from the JSON body.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	presented, err := security.ReadRefreshToken(r)
	if err != nil || presented == "" {
		var req dto.RefreshRequest
		// Body is optional; cookie-only clients send none.
		_ = response.DecodeJSON(r, &req)
		presented = req.RefreshToken
	}
	if presented == "" {
		response.WriteError(w, r, domain.ErrRefreshTokenInvalid())
		return
	}

	res, err := h.svc.Refresh(r.Context(), presented)
	if err != nil {
		middleware.TokenRefreshTotal.WithLabelValues(errCode(err)).Inc()
		// A dead session must not leave usable cookies behind.
		if domain.Is(err, "refresh_token_reused") {
			security.ClearAuthCookies(w, h.secureCookies)
		}
		response.WriteError(w, r, err)
		return
	}
	middleware.TokenRefreshTotal.WithLabelValues("success").Inc()

	security.SetAuthCookies(w, res.Tokens.AccessToken, res.Tokens.RefreshToken, h.accessTTL, h.refreshTTL, h.secureCookies)
	response.OK(w, dto.ToAuthView(res))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	if err := h.svc.Logout(r.Context(), userID); err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("user_id", userID).
		Msg("user_logged_out")

	security.ClearAuthCookies(w, h.secureCookies)
	response.NoContent(w)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	u, err := h.svc.GetSession(r.Context(), userID)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.ToUserView(u))
}

// AdminPing is the smoke endpoint behind the admin role gate.
func (h *AuthHandler) AdminPing(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	response.OK(w, map[string]string{"status": "ok", "admin_id": userID})
}

func errCode(err error) string {
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Code
	}
	return "internal_error"
}
