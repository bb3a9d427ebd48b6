// Package storage implements the relational store on SQLite. All rows are
// scoped by user id; every read path returns entities with their joined
// relations populated.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"fintrack/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// SQLite allows one writer at a time; a single connection avoids
	// SQLITE_BUSY under concurrent handlers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping verifies the database connection, used by the readiness probe.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// GetUser returns the user with the given id, or core.ErrNotFound.
func (r *SQLiteRepository) GetUser(ctx context.Context, id string) (core.User, error) {
	var u core.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, name, avatar, created_at, updated_at FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Email, &u.Name, &u.Avatar, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// EnsureDefaultUser returns the built-in user, creating it on first access.
func (r *SQLiteRepository) EnsureDefaultUser(ctx context.Context) (core.User, error) {
	u, err := r.GetUser(ctx, core.DefaultUserID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return core.User{}, err
	}

	now := time.Now().UTC()
	u = core.User{
		ID:        core.DefaultUserID,
		Email:     "john.doe@example.com",
		Name:      "John Doe",
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, name, avatar, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Name, u.Avatar, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return core.User{}, fmt.Errorf("create default user: %w", err)
	}

	slog.InfoContext(ctx, "Created default user", "user_id", u.ID)
	return u, nil
}

// UpdateUserParams carries the optional profile fields; nil means unchanged.
type UpdateUserParams struct {
	Name   *string
	Email  *string
	Avatar *string
}

func (r *SQLiteRepository) UpdateUser(ctx context.Context, id string, p UpdateUserParams) (core.User, error) {
	u, err := r.GetUser(ctx, id)
	if err != nil {
		return core.User{}, err
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	u.UpdatedAt = time.Now().UTC()

	_, err = r.db.ExecContext(ctx,
		`UPDATE users SET name = ?, email = ?, avatar = ?, updated_at = ? WHERE id = ?`,
		u.Name, u.Email, u.Avatar, u.UpdatedAt, u.ID)
	if err != nil {
		return core.User{}, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}
