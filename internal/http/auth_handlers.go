package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/alaeddineatb/projet-techno-web-q2/internal/store"
	"github.com/alaeddineatb/projet-techno-web-q2/pkg/auth"
)

const sessionTTL = 24 * time.Hour

type AuthAPI struct {
	DB  *store.Postgres
	JWT *auth.JWT
}

type signupReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
type loginResp struct {
	Success bool `json:"success"`
	IsAdmin bool `json:"isAdmin"`
}
type userDTO struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	PhotoURL string `json:"photoUrl"`
	IsAdmin  bool   `json:"isAdmin"`
}

// Signup handles user registration
func (a *AuthAPI) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}

	username, err := validateUsername(req.Username)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	email, err := validateEmail(req.Email)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	password, err := validatePassword(req.Password)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	u, err := a.DB.CreateUser(r.Context(), username, email, password)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateUser) {
			http.Error(w, "username or email already in use", http.StatusConflict)
			return
		}
		http.Error(w, "signup failed", http.StatusInternalServerError)
		return
	}

	writeJSONStatus(w, http.StatusCreated, userDTO{ID: u.ID, Username: u.Username, Email: u.Email, PhotoURL: u.PhotoURL})
}

// Login verifies credentials, rejects banned accounts, and sets the
// httponly session cookie.
func (a *AuthAPI) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}

	u, err := a.DB.VerifyUser(r.Context(), req.Username, req.Password)
	if err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if u.IsBanned {
		http.Error(w, "account is banned", http.StatusForbidden)
		return
	}

	tok, err := a.JWT.Sign(u.ID, u.IsAdmin, sessionTTL)
	if err != nil {
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}
	_ = a.DB.TouchLastLogin(r.Context(), u.ID)

	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    tok,
		Path:     "/",
		MaxAge:   int(sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, loginResp{Success: true, IsAdmin: u.IsAdmin})
}

// Logout clears the session cookie
func (a *AuthAPI) Logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, map[string]bool{"success": true})
}

// Me returns the authenticated user's profile
func (a *AuthAPI) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.From(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	u, err := a.DB.GetUser(r.Context(), id.UserID)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	writeJSON(w, userDTO{ID: u.ID, Username: u.Username, Email: u.Email, PhotoURL: u.PhotoURL, IsAdmin: u.IsAdmin})
}

// send JSON with proper headers
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
