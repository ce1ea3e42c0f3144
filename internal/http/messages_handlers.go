package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/alaeddineatb/projet-techno-web-q2/internal/chat"
	"github.com/alaeddineatb/projet-techno-web-q2/internal/store"
	"github.com/alaeddineatb/projet-techno-web-q2/pkg/auth"
)

// MessagesAPI exposes the per-game chat: the catch-up read path and the
// authenticated submission path that feeds the broadcast engine.
type MessagesAPI struct {
	DB   *store.Postgres
	Chat *chat.Service
}

type postMessageReq struct {
	Content string `json:"content"`
}

type messageDTO struct {
	Content        string    `json:"content"`
	AuthorUsername string    `json:"authorUsername"`
	CreatedAt      time.Time `json:"createdAt"`
}

// List returns the game's chat history in chronological order. Clients
// use this to catch up; live pushes are best-effort only.
func (a *MessagesAPI) List(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	msgs, err := a.DB.ListMessages(r.Context(), id, 200)
	if err != nil {
		http.Error(w, "list failed", http.StatusInternalServerError)
		return
	}
	out := make([]messageDTO, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, messageDTO{Content: m.Content, AuthorUsername: m.Username, CreatedAt: m.CreatedAt})
	}
	writeJSON(w, out)
}

// Post submits a chat message. The submitter always learns whether the
// message was saved; how many peers received the live push is not
// reported.
func (a *MessagesAPI) Post(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var req postMessageReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}
	content, err := validateContent(req.Content)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	uid, _ := auth.From(r.Context())

	m, err := a.Chat.Post(r.Context(), uid.UserID, id, content)
	if err != nil {
		if errors.Is(err, chat.ErrOwnershipRequired) {
			http.Error(w, "game ownership required to post messages", http.StatusForbidden)
			return
		}
		// Persistence failed before any broadcast; the submission is
		// safe to retry as a whole.
		http.Error(w, "message failed to send", http.StatusInternalServerError)
		return
	}
	writeJSON(w, messageDTO{Content: m.Content, AuthorUsername: m.Username, CreatedAt: m.CreatedAt})
}
