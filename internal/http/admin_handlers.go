package httpx

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/alaeddineatb/projet-techno-web-q2/internal/chat"
	"github.com/alaeddineatb/projet-techno-web-q2/internal/store"
	"github.com/alaeddineatb/projet-techno-web-q2/pkg/auth"
)

type AdminAPI struct {
	DB  *store.Postgres
	Hub *chat.Hub
}

func userID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("userId"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("bad user id")
	}
	return id, nil
}

// Ban flags a user as banned. Admins cannot ban themselves or other
// admins (the store refuses admin targets).
func (a *AdminAPI) Ban(w http.ResponseWriter, r *http.Request) {
	a.setBanned(w, r, true)
}

// Unban clears the banned flag
func (a *AdminAPI) Unban(w http.ResponseWriter, r *http.Request) {
	a.setBanned(w, r, false)
}

func (a *AdminAPI) setBanned(w http.ResponseWriter, r *http.Request, banned bool) {
	id, err := userID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	admin, _ := auth.From(r.Context())
	if id == admin.UserID {
		http.Error(w, "cannot ban yourself", http.StatusForbidden)
		return
	}
	if err := a.DB.SetBanned(r.Context(), id, banned); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "user not found or is an admin", http.StatusForbidden)
			return
		}
		http.Error(w, "update failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]bool{"success": true})
}

// ChatConnections reports the live websocket count per game room.
// Purely observational; nothing is mutated.
func (a *AdminAPI) ChatConnections(w http.ResponseWriter, _ *http.Request) {
	counts := a.Hub.Registry().Counts()
	out := make(map[string]int, len(counts))
	for id, n := range counts {
		out[strconv.FormatInt(id, 10)] = n
	}
	writeJSON(w, out)
}
