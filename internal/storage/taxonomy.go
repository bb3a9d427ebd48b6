package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
)

// ListCategories returns the user's categories ordered by name. An empty
// typeFilter returns both expense and income categories.
func (r *SQLiteRepository) ListCategories(ctx context.Context, userID string, typeFilter core.CategoryType) ([]core.Category, error) {
	query := `SELECT id, name, type, color, user_id, created_at, updated_at
		 FROM categories WHERE user_id = ?`
	args := []any{userID}
	if typeFilter != "" {
		query += ` AND type = ?`
		args = append(args, string(typeFilter))
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Type, &c.Color, &c.UserID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

func (r *SQLiteRepository) GetCategory(ctx context.Context, id string) (core.Category, error) {
	var c core.Category
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, type, color, user_id, created_at, updated_at FROM categories WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Type, &c.Color, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, core.ErrNotFound
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Color == "" {
		c.Color = "#3B82F6"
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, type, color, user_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, string(c.Type), c.Color, c.UserID, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

// UpdateCategoryParams carries optional fields; nil means unchanged.
type UpdateCategoryParams struct {
	Name  *string
	Type  *core.CategoryType
	Color *string
}

func (r *SQLiteRepository) UpdateCategory(ctx context.Context, id string, p UpdateCategoryParams) (core.Category, error) {
	c, err := r.GetCategory(ctx, id)
	if err != nil {
		return core.Category{}, err
	}
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Type != nil {
		c.Type = *p.Type
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
	c.UpdatedAt = time.Now().UTC()

	_, err = r.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, type = ?, color = ?, updated_at = ? WHERE id = ?`,
		c.Name, string(c.Type), c.Color, c.UpdatedAt, c.ID)
	if err != nil {
		return core.Category{}, fmt.Errorf("update category: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// ListSources returns the user's income sources ordered by name.
func (r *SQLiteRepository) ListSources(ctx context.Context, userID string) ([]core.Source, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, color, user_id, created_at, updated_at
		 FROM sources WHERE user_id = ? ORDER BY name ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	defer rows.Close()

	var sources []core.Source
	for rows.Next() {
		var s core.Source
		if err := rows.Scan(&s.ID, &s.Name, &s.Color, &s.UserID, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		sources = append(sources, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sources: %w", err)
	}
	return sources, nil
}

func (r *SQLiteRepository) CreateSource(ctx context.Context, s core.Source) (core.Source, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Color == "" {
		s.Color = "#3B82F6"
	}
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sources (id, name, color, user_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		s.ID, s.Name, s.Color, s.UserID, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return core.Source{}, fmt.Errorf("create source: %w", err)
	}
	return s, nil
}

// UpdateSourceParams carries optional fields; nil means unchanged.
type UpdateSourceParams struct {
	Name  *string
	Color *string
}

func (r *SQLiteRepository) UpdateSource(ctx context.Context, id string, p UpdateSourceParams) (core.Source, error) {
	var s core.Source
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, color, user_id, created_at, updated_at FROM sources WHERE id = ?`, id).
		Scan(&s.ID, &s.Name, &s.Color, &s.UserID, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Source{}, core.ErrNotFound
	}
	if err != nil {
		return core.Source{}, fmt.Errorf("get source: %w", err)
	}
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Color != nil {
		s.Color = *p.Color
	}
	s.UpdatedAt = time.Now().UTC()

	_, err = r.db.ExecContext(ctx,
		`UPDATE sources SET name = ?, color = ?, updated_at = ? WHERE id = ?`,
		s.Name, s.Color, s.UpdatedAt, s.ID)
	if err != nil {
		return core.Source{}, fmt.Errorf("update source: %w", err)
	}
	return s, nil
}

func (r *SQLiteRepository) DeleteSource(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sources WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete source: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}
