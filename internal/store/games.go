package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

const gameCols = `game_id, title, description, price, publisher, category, platforms, rating_avg, image, release_date, created_at`

func scanGame(row pgx.Row) (Game, error) {
	var g Game
	err := row.Scan(&g.ID, &g.Title, &g.Description, &g.Price, &g.Publisher, &g.Category, &g.Platforms, &g.RatingAvg, &g.Image, &g.ReleaseDate, &g.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Game{}, ErrNotFound
	}
	return g, err
}

// CreateGame inserts a new catalog entry (admin only, enforced upstream)
func (p *Postgres) CreateGame(ctx context.Context, title, description string, price float64, publisher, category, platforms string, release time.Time) (Game, error) {
	row := p.pool.QueryRow(ctx, `
		INSERT INTO games (title, description, price, publisher, category, platforms, release_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+gameCols, title, description, price, publisher, category, platforms, release)
	return scanGame(row)
}

// ListGames returns the catalog sorted by title
func (p *Postgres) ListGames(ctx context.Context, limit, offset int) ([]Game, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT `+gameCols+` FROM games ORDER BY title LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// GetGame fetches a game by ID
func (p *Postgres) GetGame(ctx context.Context, id int64) (Game, error) {
	row := p.pool.QueryRow(ctx, `SELECT `+gameCols+` FROM games WHERE game_id = $1`, id)
	return scanGame(row)
}

// RateGame upserts the (user, game) rating and recomputes the game's
// denormalized average in the same transaction. Returns the new average.
func (p *Postgres) RateGame(ctx context.Context, userID, gameID int64, value int) (float64, error) {
	if value < 1 || value > 5 {
		return 0, errors.New("rating must be between 1 and 5")
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO ratings (user_id, game_id, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, game_id) DO UPDATE SET value = EXCLUDED.value
	`, userID, gameID, value)
	if err != nil {
		return 0, err
	}

	var avg float64
	err = tx.QueryRow(ctx, `
		UPDATE games
		SET rating_avg = (SELECT AVG(value)::float8 FROM ratings WHERE game_id = $1)
		WHERE game_id = $1
		RETURNING rating_avg
	`, gameID).Scan(&avg)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	p.log.Info("game.rated", "game", gameID, "user", userID, "avg", avg)
	return avg, nil
}
