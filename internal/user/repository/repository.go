package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/streamforge/backend/internal/user/domain"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user with email or username already exists")
)

// Repository is the credential store. ProfileByID is the sanitized read: it
// never selects password_hash or refresh_token.
type Repository interface {
	Create(ctx context.Context, user domain.User) error
	FindByUsernameOrEmail(ctx context.Context, username, email string) (domain.User, error)
	FindByID(ctx context.Context, id domain.ID) (domain.User, error)
	ProfileByID(ctx context.Context, id domain.ID) (domain.Profile, error)
	UpdateRefreshToken(ctx context.Context, id domain.ID, token string) error
	ClearRefreshToken(ctx context.Context, id domain.ID) error
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const userColumns = `id, username, email, full_name, password_hash, avatar_url,
	COALESCE(cover_image_url, ''), COALESCE(refresh_token, ''), watch_history, created_at, updated_at`

func (r *PgRepository) Create(ctx context.Context, user domain.User) error {
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO users (id, username, email, full_name, password_hash, avatar_url, cover_image_url, watch_history)
		 VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8)`,
		string(user.ID),
		user.Username,
		user.Email,
		user.FullName,
		user.PasswordHash,
		user.AvatarURL,
		user.CoverImageURL,
		user.WatchHistory,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *PgRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (domain.User, error) {
	row := r.pool.QueryRow(
		ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1 OR email = $2 LIMIT 1`,
		username,
		email,
	)
	return scanUser(row, "failed to find user by username or email")
}

func (r *PgRepository) FindByID(ctx context.Context, id domain.ID) (domain.User, error) {
	row := r.pool.QueryRow(
		ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		string(id),
	)
	return scanUser(row, "failed to find user by id")
}

func (r *PgRepository) ProfileByID(ctx context.Context, id domain.ID) (domain.Profile, error) {
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, username, email, full_name, avatar_url, COALESCE(cover_image_url, ''),
		        watch_history, created_at, updated_at
		 FROM users WHERE id = $1`,
		string(id),
	)

	var p domain.Profile
	err := row.Scan(
		&p.ID,
		&p.Username,
		&p.Email,
		&p.FullName,
		&p.AvatarURL,
		&p.CoverImage,
		&p.WatchHistory,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Profile{}, ErrUserNotFound
		}
		return domain.Profile{}, fmt.Errorf("failed to read user profile: %w", err)
	}

	return p, nil
}

func (r *PgRepository) UpdateRefreshToken(ctx context.Context, id domain.ID, token string) error {
	tag, err := r.pool.Exec(
		ctx,
		`UPDATE users SET refresh_token = $2, updated_at = now() WHERE id = $1`,
		string(id),
		token,
	)
	if err != nil {
		return fmt.Errorf("failed to update refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *PgRepository) ClearRefreshToken(ctx context.Context, id domain.ID) error {
	_, err := r.pool.Exec(
		ctx,
		`UPDATE users SET refresh_token = NULL, updated_at = now() WHERE id = $1`,
		string(id),
	)
	if err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	return nil
}

func scanUser(row pgx.Row, failMsg string) (domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FullName,
		&user.PasswordHash,
		&user.AvatarURL,
		&user.CoverImageURL,
		&user.RefreshToken,
		&user.WatchHistory,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("%s: %w", failMsg, err)
	}

	return user, nil
}
