package authhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"staffhub/internal/domain/auth"
	"staffhub/internal/domain/profile"
	cryptoutil "staffhub/internal/platform/crypto"
	"staffhub/internal/platform/federated"
	"staffhub/internal/requestctx"
	"staffhub/internal/transport/http/api"
	"staffhub/internal/transport/http/middleware"
)

type Handler struct {
	Store           *auth.Store
	Profiles        *profile.Store
	Verifier        *federated.Verifier
	Crypto          *cryptoutil.Service
	Secret          string
	SessionTTL      time.Duration
	AllowSelfSignup bool
}

func NewHandler(store *auth.Store, profiles *profile.Store, verifier *federated.Verifier, crypto *cryptoutil.Service, secret string, sessionTTL time.Duration, allowSelfSignup bool) *Handler {
	return &Handler{
		Store:           store,
		Profiles:        profiles,
		Verifier:        verifier,
		Crypto:          crypto,
		Secret:          secret,
		SessionTTL:      sessionTTL,
		AllowSelfSignup: allowSelfSignup,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.handleLogin)
		r.Post("/register", h.handleRegister)
		r.Post("/federated", h.handleFederated)
		r.Post("/logout", h.handleLogout)
		r.Get("/me", h.handleMe)
		r.Post("/request-reset", h.handleRequestReset)
		r.Post("/reset", h.handleResetPassword)
		r.Post("/mfa/setup", h.handleMFASetup)
		r.Post("/mfa/enable", h.handleMFAEnable)
		r.Post("/mfa/disable", h.handleMFADisable)
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	MFACode  string `json:"mfaCode"`
}

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type federatedRequest struct {
	IDToken string `json:"idToken"`
}

type resetRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type mfaCodeRequest struct {
	Code string `json:"code"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	user, err := h.Store.FindActiveUserByEmail(r.Context(), strings.ToLower(strings.TrimSpace(payload.Email)))
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", requestctx.GetRequestID(r.Context()))
		return
	}
	if user.PasswordHash == "" || auth.CheckPassword(user.PasswordHash, payload.Password) != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", requestctx.GetRequestID(r.Context()))
		return
	}

	if user.MFAEnabled {
		if payload.MFACode == "" {
			api.Fail(w, http.StatusUnauthorized, "mfa_required", "mfa code required", requestctx.GetRequestID(r.Context()))
			return
		}
		secret, err := h.Crypto.Open(user.MFASecretEnc)
		if err != nil || secret == "" || !totp.Validate(payload.MFACode, secret) {
			api.Fail(w, http.StatusUnauthorized, "mfa_invalid", "invalid mfa code", requestctx.GetRequestID(r.Context()))
			return
		}
	}

	h.finishLogin(w, r, user)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if !h.AllowSelfSignup {
		api.Fail(w, http.StatusForbidden, "signup_disabled", "self signup is disabled", requestctx.GetRequestID(r.Context()))
		return
	}
	var payload registerRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}
	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if email == "" || !strings.Contains(email, "@") {
		api.Fail(w, http.StatusBadRequest, "invalid_email", "a valid email is required", requestctx.GetRequestID(r.Context()))
		return
	}
	if len(payload.Password) < 8 {
		api.Fail(w, http.StatusBadRequest, "weak_password", "password must be at least 8 characters", requestctx.GetRequestID(r.Context()))
		return
	}

	hash, err := auth.HashPassword(payload.Password)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "hash_error", "failed to register", requestctx.GetRequestID(r.Context()))
		return
	}

	// New accounts always start as plain staff; an admin promotes later.
	userID, err := h.Store.CreateUser(r.Context(), email, hash, strings.TrimSpace(payload.DisplayName), auth.RoleStaff)
	if err != nil {
		api.Fail(w, http.StatusConflict, "email_taken", "email already registered", requestctx.GetRequestID(r.Context()))
		return
	}
	if err := h.Profiles.EnsureStaffRow(r.Context(), userID, strings.TrimSpace(payload.DisplayName)); err != nil {
		slog.Warn("staff profile bootstrap failed", "userId", userID, "err", err)
	}

	api.Created(w, map[string]string{"id": userID, "email": email, "role": auth.RoleStaff}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleFederated(w http.ResponseWriter, r *http.Request) {
	var payload federatedRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.IDToken == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "idToken is required", requestctx.GetRequestID(r.Context()))
		return
	}

	identity, err := h.Verifier.Verify(r.Context(), payload.IDToken)
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "federated_rejected", "identity provider rejected the token", requestctx.GetRequestID(r.Context()))
		return
	}

	user, err := h.Store.FindUserByFederatedSubject(r.Context(), identity.Subject)
	if errors.Is(err, pgx.ErrNoRows) {
		user, err = h.linkOrCreateFederated(r, identity)
	}
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "federated_rejected", "no account for this identity", requestctx.GetRequestID(r.Context()))
		return
	}

	h.finishLogin(w, r, user)
}

// linkOrCreateFederated attaches the provider subject to an existing account
// with the same email, or provisions a fresh staff account when self signup
// is allowed.
func (h *Handler) linkOrCreateFederated(r *http.Request, identity federated.Identity) (auth.AuthUser, error) {
	email := strings.ToLower(identity.Email)
	if _, err := h.Store.UserIDByEmail(r.Context(), email); err == nil {
		existing, err := h.Store.FindActiveUserByEmail(r.Context(), email)
		if err != nil {
			return auth.AuthUser{}, err
		}
		if err := h.Store.LinkFederatedSubject(r.Context(), existing.ID, identity.Subject); err != nil {
			return auth.AuthUser{}, err
		}
		return existing, nil
	}

	if !h.AllowSelfSignup {
		return auth.AuthUser{}, errors.New("unknown federated identity")
	}
	userID, err := h.Store.CreateFederatedUser(r.Context(), email, identity.Name, identity.Subject, auth.RoleStaff)
	if err != nil {
		return auth.AuthUser{}, err
	}
	if err := h.Profiles.EnsureStaffRow(r.Context(), userID, identity.Name); err != nil {
		slog.Warn("staff profile bootstrap failed", "userId", userID, "err", err)
	}
	return auth.AuthUser{ID: userID, Email: email, DisplayName: identity.Name, Role: auth.RoleStaff}, nil
}

func (h *Handler) finishLogin(w http.ResponseWriter, r *http.Request, user auth.AuthUser) {
	sessionID, err := auth.NewOpaqueToken()
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", requestctx.GetRequestID(r.Context()))
		return
	}
	if err := h.Store.CreateSession(r.Context(), user.ID, auth.HashToken(sessionID), time.Now().Add(h.SessionTTL)); err != nil {
		api.Fail(w, http.StatusInternalServerError, "session_error", "failed to start session", requestctx.GetRequestID(r.Context()))
		return
	}

	token, err := auth.GenerateToken(h.Secret, auth.Claims{UserID: user.ID, Role: user.Role, SessionID: sessionID}, h.SessionTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", requestctx.GetRequestID(r.Context()))
		return
	}

	if err := h.Store.UpdateLastLogin(r.Context(), user.ID); err != nil {
		slog.Warn("update last_login failed", "userId", user.ID, "err", err)
	}

	api.Success(w, map[string]any{
		"token": token,
		"user": map[string]any{
			"id":          user.ID,
			"email":       user.Email,
			"displayName": user.DisplayName,
			"role":        user.Role,
			"mfaEnabled":  user.MFAEnabled,
		},
	}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if user, ok := middleware.GetUser(r.Context()); ok && user.SessionID != "" {
		if err := h.Store.RevokeSession(r.Context(), user.UserID, auth.HashToken(user.SessionID)); err != nil {
			slog.Warn("logout session revoke failed", "userId", user.UserID, "err", err)
		}
	}
	api.Success(w, map[string]string{"status": "logged_out"}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestctx.GetRequestID(r.Context()))
		return
	}
	out, err := h.Profiles.UserByID(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "profile_error", "failed to load profile", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, out, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleRequestReset(w http.ResponseWriter, r *http.Request) {
	var payload resetRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	// Response is the same whether the email exists or not.
	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if userID, err := h.Store.UserIDByEmail(r.Context(), email); err == nil {
		token, err := auth.NewOpaqueToken()
		if err == nil {
			if err := h.Store.CreatePasswordReset(r.Context(), userID, auth.HashToken(token), time.Now().Add(2*time.Hour)); err != nil {
				slog.Warn("password reset insert failed", "userId", userID, "err", err)
			}
		} else {
			slog.Warn("password reset token generation failed", "userId", userID, "err", err)
		}
	}

	api.Success(w, map[string]string{"status": "reset_requested"}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var payload resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}
	if len(payload.NewPassword) < 8 {
		api.Fail(w, http.StatusBadRequest, "weak_password", "password must be at least 8 characters", requestctx.GetRequestID(r.Context()))
		return
	}

	hashed := auth.HashToken(payload.Token)
	userID, err := h.Store.PasswordResetUserID(r.Context(), hashed)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_token", "invalid or expired token", requestctx.GetRequestID(r.Context()))
		return
	}

	hash, err := auth.HashPassword(payload.NewPassword)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "hash_error", "failed to update password", requestctx.GetRequestID(r.Context()))
		return
	}
	if err := h.Store.UpdateUserPassword(r.Context(), userID, hash); err != nil {
		api.Fail(w, http.StatusInternalServerError, "update_failed", "failed to update password", requestctx.GetRequestID(r.Context()))
		return
	}
	if err := h.Store.MarkPasswordResetUsed(r.Context(), hashed); err != nil {
		slog.Warn("password reset mark used failed", "err", err)
	}

	api.Success(w, map[string]string{"status": "password_reset"}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleMFASetup(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestctx.GetRequestID(r.Context()))
		return
	}
	if !h.Crypto.Configured() {
		api.Fail(w, http.StatusBadRequest, "mfa_unavailable", "mfa requires an encryption key", requestctx.GetRequestID(r.Context()))
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "StaffHub",
		AccountName: user.UserID,
		Period:      30,
		Digits:      otp.DigitsSix,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "mfa_setup_failed", "failed to generate mfa secret", requestctx.GetRequestID(r.Context()))
		return
	}
	sealed, err := h.Crypto.Seal(key.Secret())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "mfa_setup_failed", "failed to store mfa secret", requestctx.GetRequestID(r.Context()))
		return
	}
	if err := h.Store.UpdateMFASecret(r.Context(), user.UserID, sealed); err != nil {
		api.Fail(w, http.StatusInternalServerError, "mfa_setup_failed", "failed to store mfa secret", requestctx.GetRequestID(r.Context()))
		return
	}

	api.Success(w, map[string]string{"secret": key.Secret(), "otpauthUrl": key.URL()}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleMFAEnable(w http.ResponseWriter, r *http.Request) {
	h.setMFA(w, r, true)
}

func (h *Handler) handleMFADisable(w http.ResponseWriter, r *http.Request) {
	h.setMFA(w, r, false)
}

func (h *Handler) setMFA(w http.ResponseWriter, r *http.Request, enable bool) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestctx.GetRequestID(r.Context()))
		return
	}
	var payload mfaCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	sealed, err := h.Store.MFASecret(r.Context(), user.UserID)
	if err != nil || len(sealed) == 0 {
		api.Fail(w, http.StatusBadRequest, "mfa_missing", "mfa setup required", requestctx.GetRequestID(r.Context()))
		return
	}
	secret, err := h.Crypto.Open(sealed)
	if err != nil || !totp.Validate(payload.Code, secret) {
		api.Fail(w, http.StatusBadRequest, "mfa_invalid", "invalid mfa code", requestctx.GetRequestID(r.Context()))
		return
	}

	if err := h.Store.SetMFAEnabled(r.Context(), user.UserID, enable); err != nil {
		api.Fail(w, http.StatusInternalServerError, "mfa_update_failed", "failed to update mfa", requestctx.GetRequestID(r.Context()))
		return
	}
	status := "disabled"
	if enable {
		status = "enabled"
	}
	api.Success(w, map[string]string{"status": status}, requestctx.GetRequestID(r.Context()))
}
