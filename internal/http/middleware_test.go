package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alaeddineatb/projet-techno-web-q2/internal/app"
	"github.com/alaeddineatb/projet-techno-web-q2/internal/store"
	"github.com/alaeddineatb/projet-techno-web-q2/pkg/auth"
)

type fakeUsers struct {
	users map[int64]store.User
}

func (f *fakeUsers) GetUser(_ context.Context, id int64) (store.User, error) {
	u, ok := f.users[id]
	if !ok {
		return store.User{}, store.ErrNotFound
	}
	return u, nil
}

func testMiddleware(users *fakeUsers) (*Middleware, *auth.JWT) {
	cfg := app.Config{JWTSecret: "test-secret", CORSAllow: []string{"http://localhost"}}
	return NewMiddleware(cfg, users), auth.New(cfg.JWTSecret)
}

func authedHandler(t *testing.T, wantUID int64, wantAdmin bool) (http.Handler, *bool) {
	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		id, ok := auth.From(r.Context())
		require.True(t, ok)
		require.Equal(t, wantUID, id.UserID)
		require.Equal(t, wantAdmin, id.Admin)
		w.WriteHeader(http.StatusOK)
	}), &called
}

func TestAuthRejectsMissingCookie(t *testing.T) {
	mw, _ := testMiddleware(&fakeUsers{})
	h, called := authedHandler(t, 0, false)

	rec := httptest.NewRecorder()
	mw.Auth(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.False(t, *called)
}

func TestAuthRejectsBadToken(t *testing.T) {
	mw, _ := testMiddleware(&fakeUsers{})
	h, called := authedHandler(t, 0, false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: tokenCookie, Value: "garbage"})

	rec := httptest.NewRecorder()
	mw.Auth(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.False(t, *called)
}

func TestAuthRejectsBannedUser(t *testing.T) {
	users := &fakeUsers{users: map[int64]store.User{
		5: {ID: 5, Username: "mallory", IsBanned: true},
	}}
	mw, j := testMiddleware(users)
	h, called := authedHandler(t, 5, false)

	tok, err := j.Sign(5, false, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: tokenCookie, Value: tok})

	rec := httptest.NewRecorder()
	mw.Auth(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	require.False(t, *called)
}

func TestAuthPassesIdentityFromStore(t *testing.T) {
	users := &fakeUsers{users: map[int64]store.User{
		7: {ID: 7, Username: "alice", IsAdmin: true},
	}}
	mw, j := testMiddleware(users)
	h, called := authedHandler(t, 7, true)

	// The token says non-admin; the store's flag wins.
	tok, err := j.Sign(7, false, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: tokenCookie, Value: tok})

	rec := httptest.NewRecorder()
	mw.Auth(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, *called)
}

func TestAdminRejectsNonAdmin(t *testing.T) {
	users := &fakeUsers{users: map[int64]store.User{
		3: {ID: 3, Username: "bob"},
	}}
	mw, j := testMiddleware(users)

	tok, err := j.Sign(3, false, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.AddCookie(&http.Cookie{Name: tokenCookie, Value: tok})

	rec := httptest.NewRecorder()
	mw.Admin(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
}
