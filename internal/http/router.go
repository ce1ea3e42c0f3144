package httpx

import (
	"net/http"

	"log/slog"

	"github.com/alaeddineatb/projet-techno-web-q2/internal/app"
	"github.com/alaeddineatb/projet-techno-web-q2/internal/chat"
	"github.com/alaeddineatb/projet-techno-web-q2/internal/store"
	"github.com/alaeddineatb/projet-techno-web-q2/pkg/auth"
	"github.com/alaeddineatb/projet-techno-web-q2/pkg/metrics"
)

// NewRouter wires up all HTTP routes, middleware, and handlers
func NewRouter(cfg app.Config, logger *slog.Logger, hub *chat.Hub, svc *chat.Service, db *store.Postgres, codes *store.ResetCodes) http.Handler {
	mw := NewMiddleware(cfg, db)

	j := auth.New(cfg.JWTSecret)
	authAPI := &AuthAPI{DB: db, JWT: j}
	gamesAPI := &GamesAPI{DB: db}
	msgAPI := &MessagesAPI{DB: db, Chat: svc}
	adminAPI := &AdminAPI{DB: db, Hub: hub}
	resetAPI := &ResetAPI{DB: db, Codes: codes, Log: logger}
	profileAPI := &ProfileAPI{DB: db, PhotosDir: cfg.PhotosDir}

	mux := http.NewServeMux()

	// Health / readiness / metrics
	mux.Handle("/healthz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(200) }))
	mux.Handle("/readyz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(200) }))
	mux.Handle("/metrics", metrics.Handler())

	// Per-game chat websocket
	mux.Handle("GET /ws/game/{gameId}", http.HandlerFunc(hub.ServeWS))

	// Auth + password reset
	mux.Handle("POST /signup", http.HandlerFunc(authAPI.Signup))
	mux.Handle("POST /login", http.HandlerFunc(authAPI.Login))
	mux.Handle("POST /logout", http.HandlerFunc(authAPI.Logout))
	mux.Handle("POST /forgot", http.HandlerFunc(resetAPI.Forgot))
	mux.Handle("POST /validate-code", http.HandlerFunc(resetAPI.ValidateCode))
	mux.Handle("POST /reset-password", http.HandlerFunc(resetAPI.ResetPassword))
	mux.Handle("GET /api/me", mw.Auth(http.HandlerFunc(authAPI.Me)))

	// Catalog (public reads, admin create)
	mux.Handle("GET /api/games", http.HandlerFunc(gamesAPI.List))
	mux.Handle("POST /api/games", mw.Admin(http.HandlerFunc(gamesAPI.Create)))
	mux.Handle("GET /api/games/{id}", http.HandlerFunc(gamesAPI.Get))

	// Purchases + ratings
	mux.Handle("POST /api/games/{id}/purchase", mw.Auth(http.HandlerFunc(gamesAPI.Purchase)))
	mux.Handle("POST /api/games/{id}/rate", mw.Auth(http.HandlerFunc(gamesAPI.Rate)))
	mux.Handle("GET /api/purchases", mw.Auth(http.HandlerFunc(gamesAPI.Purchases)))

	// Chat messages: public catch-up read, owner-gated submission
	mux.Handle("GET /api/games/{id}/messages", http.HandlerFunc(msgAPI.List))
	mux.Handle("POST /api/games/{id}/messages", mw.Auth(http.HandlerFunc(msgAPI.Post)))

	// Profile
	mux.Handle("POST /api/profile/photo", mw.Auth(http.HandlerFunc(profileAPI.UploadPhoto)))

	// Admin
	mux.Handle("POST /api/admin/ban/{userId}", mw.Admin(http.HandlerFunc(adminAPI.Ban)))
	mux.Handle("POST /api/admin/unban/{userId}", mw.Admin(http.HandlerFunc(adminAPI.Unban)))
	mux.Handle("GET /api/admin/chat", mw.Admin(http.HandlerFunc(adminAPI.ChatConnections)))

	// Uploaded profile photos
	mux.Handle("GET /static/photos/", http.StripPrefix("/static/photos/", http.FileServer(http.Dir(cfg.PhotosDir))))

	// CORS + rate limit applied globally
	return mw.Wrap(mux)
}
