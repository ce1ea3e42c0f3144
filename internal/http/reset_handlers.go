package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"log/slog"

	"github.com/alaeddineatb/projet-techno-web-q2/internal/store"
)

// ResetAPI drives the forgot-password flow: a 6-digit code with a
// 15 minute TTL, kept in Redis.
type ResetAPI struct {
	DB    *store.Postgres
	Codes *store.ResetCodes
	Log   *slog.Logger
}

type forgotReq struct {
	Email string `json:"email"`
}
type validateCodeReq struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}
type resetPasswordReq struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
}

// Forgot issues a reset code. The response is identical whether or not
// the email exists, so the endpoint can't be used to enumerate accounts.
func (a *ResetAPI) Forgot(w http.ResponseWriter, r *http.Request) {
	var req forgotReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}
	email, err := validateEmail(req.Email)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := a.DB.GetUserByEmail(r.Context(), email); err == nil {
		code, err := a.Codes.Issue(r.Context(), email)
		if err != nil {
			http.Error(w, "could not issue code", http.StatusInternalServerError)
			return
		}
		// TODO: deliver by email; for now dev-mode logs the code.
		a.Log.Info("reset.code.issued", "email", email, "code", code)
	}

	writeJSON(w, map[string]string{"message": "If email exists, code has been sent"})
}

// ValidateCode checks the 6-digit code without consuming it
func (a *ResetAPI) ValidateCode(w http.ResponseWriter, r *http.Request) {
	var req validateCodeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}
	email, err := validateEmail(req.Email)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := a.Codes.Validate(r.Context(), email, req.Code); err != nil {
		if errors.Is(err, store.ErrCodeInvalid) {
			http.Error(w, "invalid or expired code", http.StatusBadRequest)
			return
		}
		http.Error(w, "validation failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"message": "Code valid"})
}

// ResetPassword replaces the password for an open reset session and
// consumes the code.
func (a *ResetAPI) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}
	email, err := validateEmail(req.Email)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	password, err := validatePassword(req.NewPassword)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	open, err := a.Codes.Exists(r.Context(), email)
	if err != nil {
		http.Error(w, "reset failed", http.StatusInternalServerError)
		return
	}
	if !open {
		http.Error(w, "invalid reset session", http.StatusBadRequest)
		return
	}

	if err := a.DB.UpdatePassword(r.Context(), email, password); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		http.Error(w, "reset failed", http.StatusInternalServerError)
		return
	}
	_ = a.Codes.Consume(r.Context(), email)
	writeJSON(w, map[string]string{"message": "Password reset successful"})
}
