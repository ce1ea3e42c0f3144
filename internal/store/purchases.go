package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/alaeddineatb/projet-techno-web-q2/pkg/metrics"
)

// CreatePurchase records a purchase at the game's current price.
// The price is copied so later catalog changes don't rewrite history.
func (p *Postgres) CreatePurchase(ctx context.Context, userID, gameID int64) (Purchase, error) {
	row := p.pool.QueryRow(ctx, `
		INSERT INTO purchases (user_id, game_id, price)
		SELECT $1, game_id, price FROM games WHERE game_id = $2
		RETURNING purchase_id, user_id, game_id, price, purchase_date
	`, userID, gameID)

	var pu Purchase
	err := row.Scan(&pu.ID, &pu.UserID, &pu.GameID, &pu.Price, &pu.PurchaseDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Purchase{}, ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return Purchase{}, ErrAlreadyPurchased
		}
		return Purchase{}, err
	}
	metrics.PurchasesTotal.Inc()
	p.log.Info("purchase.created", "user", userID, "game", gameID, "price", pu.Price)
	return pu, nil
}

// HasPurchase reports whether the user owns the game. Backs the chat
// ownership gate and the rating check.
func (p *Postgres) HasPurchase(ctx context.Context, userID, gameID int64) (bool, error) {
	var ok bool
	err := p.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM purchases WHERE user_id = $1 AND game_id = $2)
	`, userID, gameID).Scan(&ok)
	return ok, err
}

// ListPurchases returns a user's purchase history, newest first
func (p *Postgres) ListPurchases(ctx context.Context, userID int64) ([]Purchase, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT purchase_id, user_id, game_id, price, purchase_date
		FROM purchases
		WHERE user_id = $1
		ORDER BY purchase_date DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Purchase
	for rows.Next() {
		var pu Purchase
		if err := rows.Scan(&pu.ID, &pu.UserID, &pu.GameID, &pu.Price, &pu.PurchaseDate); err != nil {
			return nil, err
		}
		out = append(out, pu)
	}
	return out, rows.Err()
}
