package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/evgeniy-krivenko/notes-web/internal/entity"
)

func (r *Repo) CreateUser(ctx context.Context, email, name, passwordHash string) (entity.User, error) {
	const q = `
		INSERT INTO users (email, name, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, email, name, password_hash, created_at, updated_at`

	var u entity.User
	err := r.db.QueryRow(ctx, q, email, name, passwordHash).Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return entity.User{}, entity.ErrEmailTaken
		}
		return entity.User{}, fmt.Errorf("create user: %v", err)
	}

	return u, nil
}

func (r *Repo) GetUserByEmail(ctx context.Context, email string) (entity.User, error) {
	const q = `
		SELECT id, email, name, password_hash, created_at, updated_at
		FROM users
		WHERE email = $1`

	var u entity.User
	err := r.db.QueryRow(ctx, q, email).Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.User{}, entity.ErrUserNotFound
		}
		return entity.User{}, fmt.Errorf("get user by email: %v", err)
	}

	return u, nil
}

func (r *Repo) GetUser(ctx context.Context, id uuid.UUID) (entity.User, error) {
	const q = `
		SELECT id, email, name, password_hash, created_at, updated_at
		FROM users
		WHERE id = $1`

	var u entity.User
	err := r.db.QueryRow(ctx, q, id).Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.User{}, entity.ErrUserNotFound
		}
		return entity.User{}, fmt.Errorf("get user: %v", err)
	}

	return u, nil
}

func (r *Repo) UpdateUserName(ctx context.Context, id uuid.UUID, name string) (entity.User, error) {
	const q = `
		UPDATE users
		SET name = $1, updated_at = now()
		WHERE id = $2
		RETURNING id, email, name, password_hash, created_at, updated_at`

	var u entity.User
	err := r.db.QueryRow(ctx, q, name, id).Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.User{}, entity.ErrUserNotFound
		}
		return entity.User{}, fmt.Errorf("update user name: %v", err)
	}

	return u, nil
}
