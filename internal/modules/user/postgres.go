package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/harsshhit/vendors/internal/database"
)

const usersSchema = `
	CREATE TABLE IF NOT EXISTS users (
		id         UUID PRIMARY KEY,
		email      TEXT NOT NULL UNIQUE,
		name       TEXT NOT NULL DEFAULT '',
		image      TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

type postgresRepository struct {
	gw *database.Gateway
}

// NewPostgresRepository creates a new PostgreSQL user repository.
func NewPostgresRepository(gw *database.Gateway) Repository {
	return &postgresRepository{gw: gw}
}

func (r *postgresRepository) UpsertByEmail(ctx context.Context, user *User) error {
	db, err := r.gw.SQL()
	if err != nil {
		return err
	}
	query := `
		INSERT INTO users (id, email, name, image)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE
		SET name = EXCLUDED.name, image = EXCLUDED.image, updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	var id uuid.UUID
	err = db.QueryRowContext(ctx, query, uuid.New(), user.Email, user.Name, user.Image).Scan(
		&id,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("user: upsert: %w", err)
	}
	user.ID = id.String()
	user.CreatedAt = user.CreatedAt.UTC()
	user.UpdatedAt = user.UpdatedAt.UTC()
	return nil
}

func (r *postgresRepository) GetUserByID(ctx context.Context, id string) (*User, error) {
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	db, err := r.gw.SQL()
	if err != nil {
		return nil, err
	}

	user := &User{}
	var uid uuid.UUID
	query := `
		SELECT id, email, name, image, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	err = db.QueryRowContext(ctx, query, parsedID).Scan(
		&uid,
		&user.Email,
		&user.Name,
		&user.Image,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("user: get: %w", err)
	}
	user.ID = uid.String()
	user.CreatedAt = user.CreatedAt.UTC()
	user.UpdatedAt = user.UpdatedAt.UTC()
	return user, nil
}

func (r *postgresRepository) Migrate(ctx context.Context) error {
	db, err := r.gw.SQL()
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, usersSchema); err != nil {
		return fmt.Errorf("user/postgres: migrate: %w", err)
	}
	return nil
}
