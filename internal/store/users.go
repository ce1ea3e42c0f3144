package store

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

const userCols = `user_id, username, email, is_admin, is_banned, photo_url, last_login, created_at`

// normEmail trims and lowercases the email (needed if DB col isnt citext)
func normEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.IsAdmin, &u.IsBanned, &u.PhotoURL, &u.LastLogin, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

// CreateUser inserts a new user with a hashed password
func (p *Postgres) CreateUser(ctx context.Context, username, email, password string) (User, error) {
	email = normEmail(email)
	username = strings.TrimSpace(username)
	if username == "" || email == "" || password == "" {
		return User{}, errors.New("missing username, email or password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	row := p.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING `+userCols, username, email, string(hash))

	u, err := scanUser(row)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
		return User{}, ErrDuplicateUser
	}
	return u, err
}

// GetUser fetches a user by ID
func (p *Postgres) GetUser(ctx context.Context, id int64) (User, error) {
	row := p.pool.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE user_id = $1`, id)
	return scanUser(row)
}

// GetUserByEmail fetches a user by email
func (p *Postgres) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := p.pool.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE email = $1`, normEmail(email))
	return scanUser(row)
}

// VerifyUser checks username + password match for login
func (p *Postgres) VerifyUser(ctx context.Context, username, password string) (User, error) {
	row := p.pool.QueryRow(ctx, `
		SELECT `+userCols+`, password_hash FROM users WHERE username = $1
	`, strings.TrimSpace(username))

	var u User
	var hash string
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.IsAdmin, &u.IsBanned, &u.PhotoURL, &u.LastLogin, &u.CreatedAt, &hash)
	if err != nil {
		return User{}, errors.New("invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return User{}, errors.New("invalid credentials")
	}
	return u, nil
}

// TouchLastLogin records a successful login
func (p *Postgres) TouchLastLogin(ctx context.Context, id int64) error {
	_, err := p.pool.Exec(ctx, `UPDATE users SET last_login = NOW() WHERE user_id = $1`, id)
	return err
}

// UpdatePassword replaces a user's password hash (password-reset flow)
func (p *Postgres) UpdatePassword(ctx context.Context, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	ct, err := p.pool.Exec(ctx, `
		UPDATE users SET password_hash = $2 WHERE email = $1
	`, normEmail(email), string(hash))
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePhoto stores the profile photo URL for a user
func (p *Postgres) UpdatePhoto(ctx context.Context, id int64, url string) error {
	ct, err := p.pool.Exec(ctx, `UPDATE users SET photo_url = $2 WHERE user_id = $1`, id, url)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetBanned flips the banned flag. Admin accounts cannot be banned.
func (p *Postgres) SetBanned(ctx context.Context, id int64, banned bool) error {
	ct, err := p.pool.Exec(ctx, `
		UPDATE users SET is_banned = $2 WHERE user_id = $1 AND is_admin = FALSE
	`, id, banned)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	p.log.Info("user.ban", "id", id, "banned", banned)
	return nil
}
