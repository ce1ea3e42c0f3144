package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/cors"

	"github.com/alaeddineatb/projet-techno-web-q2/internal/app"
	"github.com/alaeddineatb/projet-techno-web-q2/internal/store"
	"github.com/alaeddineatb/projet-techno-web-q2/pkg/auth"
	"github.com/alaeddineatb/projet-techno-web-q2/pkg/ratelimit"
)

const tokenCookie = "token"

// userGetter is the slice of the store the auth middleware needs.
type userGetter interface {
	GetUser(ctx context.Context, id int64) (store.User, error)
}

type Middleware struct {
	cors   *cors.Cors
	auth   *auth.JWT
	rlimit *ratelimit.Limiter
	users  userGetter
}

// NewMiddleware builds the shared middleware stack from config
func NewMiddleware(cfg app.Config, users userGetter) *Middleware {
	return &Middleware{
		cors: cors.New(cors.Options{
			AllowedOrigins:   cfg.CORSAllow,
			AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: true,
		}),
		auth:   auth.New(cfg.JWTSecret),
		rlimit: ratelimit.New(60, time.Minute), // 60 req/min default
		users:  users,
	}
}

// Wrap applies CORS + rate limiting to a handler
func (m *Middleware) Wrap(h http.Handler) http.Handler {
	return m.cors.Handler(m.rlimit.Middleware(h))
}

// Auth enforces the session-cookie JWT, rejects banned accounts, and
// adds the caller's identity to the request context. The banned flag is
// checked against the store on every request so a ban takes effect
// before the token expires.
func (m *Middleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ck, err := r.Cookie(tokenCookie)
		if err != nil || ck.Value == "" {
			http.Error(w, "no token", http.StatusUnauthorized)
			return
		}
		id, err := m.auth.Verify(ck.Value)
		if err != nil {
			http.Error(w, "bad token", http.StatusUnauthorized)
			return
		}

		u, err := m.users.GetUser(r.Context(), id.UserID)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if u.IsBanned {
			http.Error(w, "account is banned", http.StatusForbidden)
			return
		}

		// Admin flag comes from the store, not the token, so demotions
		// apply immediately.
		ctx := auth.WithIdentity(r.Context(), auth.Identity{UserID: u.ID, Admin: u.IsAdmin})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Admin enforces Auth plus the admin flag
func (m *Middleware) Admin(next http.Handler) http.Handler {
	return m.Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := auth.From(r.Context())
		if !id.Admin {
			http.Error(w, "admin required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	}))
}
