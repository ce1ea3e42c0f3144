package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// CreateMessage persists a chat message with a server-assigned timestamp
// and returns the stored row joined with the author's username.
func (p *Postgres) CreateMessage(ctx context.Context, userID, gameID int64, content string) (Message, error) {
	row := p.pool.QueryRow(ctx, `
		WITH inserted AS (
			INSERT INTO messages (user_id, game_id, content)
			VALUES ($1, $2, $3)
			RETURNING message_id, user_id, game_id, content, created_at
		)
		SELECT i.message_id, i.user_id, i.game_id, u.username, i.content, i.created_at
		FROM inserted i
		JOIN users u ON u.user_id = i.user_id
	`, userID, gameID, content)

	var m Message
	err := row.Scan(&m.ID, &m.UserID, &m.GameID, &m.Username, &m.Content, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Message{}, ErrNotFound
	}
	return m, err
}

// ListMessages returns a game's chat history in chronological order.
// This is the catch-up read path for clients joining a room.
func (p *Postgres) ListMessages(ctx context.Context, gameID int64, limit int) ([]Message, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT m.message_id, m.user_id, m.game_id, u.username, m.content, m.created_at
		FROM messages m
		JOIN users u ON u.user_id = m.user_id
		WHERE m.game_id = $1
		ORDER BY m.created_at, m.message_id
		LIMIT $2
	`, gameID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.UserID, &m.GameID, &m.Username, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
