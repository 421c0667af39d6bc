package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/edumentor/readiness/internal/types"
)

// CreateUser inserts a new user. The caller supplies a hashed password.
func (db *DB) CreateUser(ctx context.Context, user *types.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	skillsJSON, err := json.Marshal(user.Skills)
	if err != nil {
		return fmt.Errorf("failed to marshal user skills: %w", err)
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO users (id, name, email, password_hash, branch, year, target_role, skills)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at`,
		user.ID, user.Name, user.Email, user.PasswordHash,
		user.Branch, user.Year, user.TargetRole, skillsJSON,
	).Scan(&user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// UpdateUser persists profile changes for an existing user. Email and
// password hash are immutable here.
func (db *DB) UpdateUser(ctx context.Context, user *types.User) error {
	skillsJSON, err := json.Marshal(user.Skills)
	if err != nil {
		return fmt.Errorf("failed to marshal user skills: %w", err)
	}

	tag, err := db.pool.Exec(ctx,
		`UPDATE users SET name = $2, branch = $3, year = $4, target_role = $5, skills = $6
		 WHERE id = $1`,
		user.ID, user.Name, user.Branch, user.Year, user.TargetRole, skillsJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", user.ID)
	}
	return nil
}

// GetUserByEmail retrieves a user by email. Returns nil when no such user
// exists.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	return db.getUser(ctx, `SELECT id, name, email, password_hash, branch, year, target_role, skills, created_at
		FROM users WHERE email = $1`, email)
}

// GetUserByID retrieves a user by id. Returns nil when no such user exists.
func (db *DB) GetUserByID(ctx context.Context, id uuid.UUID) (*types.User, error) {
	return db.getUser(ctx, `SELECT id, name, email, password_hash, branch, year, target_role, skills, created_at
		FROM users WHERE id = $1`, id)
}

func (db *DB) getUser(ctx context.Context, query string, arg any) (*types.User, error) {
	var u types.User
	var skillsJSON []byte

	err := db.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash,
		&u.Branch, &u.Year, &u.TargetRole, &skillsJSON, &u.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if skillsJSON != nil {
		_ = json.Unmarshal(skillsJSON, &u.Skills)
	}
	return &u, nil
}
