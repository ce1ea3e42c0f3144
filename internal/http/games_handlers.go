package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/alaeddineatb/projet-techno-web-q2/internal/store"
	"github.com/alaeddineatb/projet-techno-web-q2/pkg/auth"
)

type GamesAPI struct{ DB *store.Postgres }

type createGameReq struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Publisher   string  `json:"publisher"`
	Category    string  `json:"category"`
	Platforms   string  `json:"platforms"`
	ReleaseDate string  `json:"releaseDate,omitempty"` // RFC3339, defaults to now
}

type rateReq struct {
	Rating int `json:"rating"`
}

type gameDTO struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Publisher   string    `json:"publisher"`
	Category    string    `json:"category"`
	Platforms   string    `json:"platforms"`
	RatingAvg   float64   `json:"ratingAvg"`
	Image       string    `json:"image"`
	ReleaseDate time.Time `json:"releaseDate"`
}

func toGameDTO(g store.Game) gameDTO {
	return gameDTO{
		ID: g.ID, Title: g.Title, Description: g.Description, Price: g.Price,
		Publisher: g.Publisher, Category: g.Category, Platforms: g.Platforms,
		RatingAvg: g.RatingAvg, Image: g.Image, ReleaseDate: g.ReleaseDate,
	}
}

// gameID parses the {id} path segment
func gameID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("bad game id")
	}
	return id, nil
}

// List returns up to 100 catalog entries
func (a *GamesAPI) List(w http.ResponseWriter, r *http.Request) {
	games, err := a.DB.ListGames(r.Context(), 100, 0)
	if err != nil {
		http.Error(w, "list failed", http.StatusInternalServerError)
		return
	}
	out := make([]gameDTO, 0, len(games))
	for _, g := range games {
		out = append(out, toGameDTO(g))
	}
	writeJSON(w, out)
}

// Get returns one game by ID
func (a *GamesAPI) Get(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	g, err := a.DB.GetGame(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "game not found", http.StatusNotFound)
			return
		}
		http.Error(w, "lookup failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, toGameDTO(g))
}

// Create adds a catalog entry (admin only, enforced by the router)
func (a *GamesAPI) Create(w http.ResponseWriter, r *http.Request) {
	var req createGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if err := validatePrice(req.Price); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	release := time.Now()
	if req.ReleaseDate != "" {
		t, err := time.Parse(time.RFC3339, req.ReleaseDate)
		if err != nil {
			http.Error(w, "bad release date", http.StatusBadRequest)
			return
		}
		release = t
	}

	g, err := a.DB.CreateGame(r.Context(), req.Title, req.Description, req.Price, req.Publisher, req.Category, req.Platforms, release)
	if err != nil {
		http.Error(w, "create failed", http.StatusInternalServerError)
		return
	}
	writeJSONStatus(w, http.StatusCreated, toGameDTO(g))
}

// Purchase buys the game for the authenticated user at the current price
func (a *GamesAPI) Purchase(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	uid, _ := auth.From(r.Context())

	pu, err := a.DB.CreatePurchase(r.Context(), uid.UserID, id)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			http.Error(w, "game not found", http.StatusNotFound)
		case errors.Is(err, store.ErrAlreadyPurchased):
			http.Error(w, "game already purchased", http.StatusConflict)
		default:
			http.Error(w, "purchase failed", http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, map[string]any{"success": true, "price": pu.Price})
}

// Rate stores a 1-5 star rating; only owners may rate. Returns the new
// denormalized average.
func (a *GamesAPI) Rate(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var req rateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}
	if err := validateRating(req.Rating); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	uid, _ := auth.From(r.Context())

	owns, err := a.DB.HasPurchase(r.Context(), uid.UserID, id)
	if err != nil {
		http.Error(w, "rating failed", http.StatusInternalServerError)
		return
	}
	if !owns {
		http.Error(w, "game ownership required", http.StatusForbidden)
		return
	}

	avg, err := a.DB.RateGame(r.Context(), uid.UserID, id, req.Rating)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "game not found", http.StatusNotFound)
			return
		}
		http.Error(w, "rating failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"success": true, "newAverage": avg})
}

// Purchases lists the authenticated user's purchase history
func (a *GamesAPI) Purchases(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.From(r.Context())
	list, err := a.DB.ListPurchases(r.Context(), uid.UserID)
	if err != nil {
		http.Error(w, "list failed", http.StatusInternalServerError)
		return
	}
	type dto struct {
		GameID       int64     `json:"gameId"`
		Price        float64   `json:"price"`
		PurchaseDate time.Time `json:"purchaseDate"`
	}
	out := make([]dto, 0, len(list))
	for _, p := range list {
		out = append(out, dto{GameID: p.GameID, Price: p.Price, PurchaseDate: p.PurchaseDate})
	}
	writeJSON(w, out)
}
