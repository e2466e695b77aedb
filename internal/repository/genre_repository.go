package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/ferrylane/reviewly/internal/model"
)

type GenreRepo struct{ DB *sql.DB }

func NewGenreRepo(db *sql.DB) *GenreRepo { return &GenreRepo{DB: db} }

// Create inserts a genre and returns its ID.
func (r *GenreRepo) Create(ctx context.Context, name, slug string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO genres (name, slug) VALUES (?,?)", name, slug)
	if err != nil {
		if isDup(err) {
			return 0, ErrSlugExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	return uint64(id), err
}

// GetBySlugs resolves a set of slugs to genres, preserving input order.
// Any unknown slug yields sql.ErrNoRows so callers can reject the input.
func (r *GenreRepo) GetBySlugs(ctx context.Context, slugs []string) ([]model.Genre, error) {
	if len(slugs) == 0 {
		return nil, nil
	}
	ph := strings.Repeat("?,", len(slugs))
	args := make([]any, len(slugs))
	for i, s := range slugs {
		args[i] = s
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,name,slug FROM genres WHERE slug IN ("+ph[:len(ph)-1]+")", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bySlug := map[string]model.Genre{}
	for rows.Next() {
		var g model.Genre
		if err := rows.Scan(&g.ID, &g.Name, &g.Slug); err != nil {
			return nil, err
		}
		bySlug[g.Slug] = g
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]model.Genre, 0, len(slugs))
	for _, s := range slugs {
		g, ok := bySlug[s]
		if !ok {
			return nil, sql.ErrNoRows
		}
		out = append(out, g)
	}
	return out, nil
}

// List returns genres ordered by name.  A non-empty search matches the
// name exactly.
func (r *GenreRepo) List(ctx context.Context, search string, page, pageSize int) ([]model.Genre, int64, error) {
	where := ""
	args := []any{}
	if search != "" {
		where = " WHERE name = ?"
		args = append(args, search)
	}

	var total int64
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM genres"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, pageSize, (page-1)*pageSize)
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,name,slug FROM genres"+where+" ORDER BY name ASC LIMIT ? OFFSET ?", args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []model.Genre
	for rows.Next() {
		var g model.Genre
		if err := rows.Scan(&g.ID, &g.Name, &g.Slug); err != nil {
			return nil, 0, err
		}
		out = append(out, g)
	}
	return out, total, rows.Err()
}

// DeleteBySlug removes a genre and its join rows.  Works keep their other
// genres; nothing cascades to the works themselves.
func (r *GenreRepo) DeleteBySlug(ctx context.Context, slug string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM work_genres WHERE genre_id = (SELECT id FROM genres WHERE slug = ?)",
		slug); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM genres WHERE slug = ?", slug)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return tx.Commit()
}
