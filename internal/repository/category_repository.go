package repository

import (
	"context"
	"database/sql"

	"github.com/ferrylane/reviewly/internal/model"
)

type CategoryRepo struct{ DB *sql.DB }

func NewCategoryRepo(db *sql.DB) *CategoryRepo { return &CategoryRepo{DB: db} }

// Create inserts a category and returns its ID.
func (r *CategoryRepo) Create(ctx context.Context, name, slug string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO categories (name, slug) VALUES (?,?)", name, slug)
	if err != nil {
		if isDup(err) {
			return 0, ErrSlugExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	return uint64(id), err
}

// GetBySlug fetches a category by its slug.
func (r *CategoryRepo) GetBySlug(ctx context.Context, slug string) (model.Category, error) {
	var c model.Category
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,slug FROM categories WHERE slug=? LIMIT 1", slug).
		Scan(&c.ID, &c.Name, &c.Slug)
	return c, err
}

// List returns categories ordered by name.  A non-empty search matches
// the name exactly.
func (r *CategoryRepo) List(ctx context.Context, search string, page, pageSize int) ([]model.Category, int64, error) {
	where := ""
	args := []any{}
	if search != "" {
		where = " WHERE name = ?"
		args = append(args, search)
	}

	var total int64
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, pageSize, (page-1)*pageSize)
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,name,slug FROM categories"+where+" ORDER BY name ASC LIMIT ? OFFSET ?", args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

// DeleteBySlug removes a category and clears the reference on any work
// pointing at it.  Works survive with a null category.
func (r *CategoryRepo) DeleteBySlug(ctx context.Context, slug string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"UPDATE works SET category_id = NULL WHERE category_id = (SELECT id FROM categories WHERE slug = ?)",
		slug); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM categories WHERE slug = ?", slug)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return tx.Commit()
}
