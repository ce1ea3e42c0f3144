package store

import "time"

type User struct {
	ID        int64
	Username  string
	Email     string
	IsAdmin   bool
	IsBanned  bool
	PhotoURL  string
	LastLogin *time.Time
	CreatedAt time.Time
}

type Game struct {
	ID          int64
	Title       string
	Description string
	Price       float64
	Publisher   string
	Category    string
	Platforms   string // CSV: "PC,PlayStation,Xbox"
	RatingAvg   float64
	Image       string
	ReleaseDate time.Time
	CreatedAt   time.Time
}

type Purchase struct {
	ID           int64
	UserID       int64
	GameID       int64
	Price        float64 // price at purchase time
	PurchaseDate time.Time
}

type Message struct {
	ID        int64
	UserID    int64
	GameID    int64
	Username  string // joined from users for display
	Content   string
	CreatedAt time.Time
}
