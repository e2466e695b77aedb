package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/ferrylane/reviewly/internal/model"
)

type WorkRepo struct{ DB *sql.DB }

func NewWorkRepo(db *sql.DB) *WorkRepo { return &WorkRepo{DB: db} }

// WorkRow is the read shape of a work: the row itself plus its resolved
// category, genres, and the rating derived from review scores at query
// time.  Rating is nil for works without reviews.
type WorkRow struct {
	model.Work
	Category *model.Category
	Genres   []model.Genre
	Rating   *float64
}

// Create inserts a work and its genre links in one transaction.
func (r *WorkRepo) Create(ctx context.Context, w *model.Work, genreIDs []uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO works (name, year, description, category_id) VALUES (?,?,?,?)",
		w.Name, w.Year, w.Description, w.CategoryID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	w.ID = uint64(id)

	for _, gid := range genreIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO work_genres (work_id, genre_id) VALUES (?,?)", w.ID, gid); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetByID fetches a work with category, genres and query-time rating.
func (r *WorkRepo) GetByID(ctx context.Context, id uint64) (WorkRow, error) {
	var (
		row     WorkRow
		catID   sql.NullInt64
		catName sql.NullString
		catSlug sql.NullString
		rating  sql.NullFloat64
	)
	err := r.DB.QueryRowContext(ctx, `
        SELECT w.id, w.name, w.year, w.description,
               c.id, c.name, c.slug,
               AVG(r.score)
        FROM works w
        LEFT JOIN categories c ON c.id = w.category_id
        LEFT JOIN reviews r ON r.work_id = w.id
        WHERE w.id = ?
        GROUP BY w.id, w.name, w.year, w.description, c.id, c.name, c.slug`,
		id).Scan(&row.ID, &row.Name, &row.Year, &row.Description,
		&catID, &catName, &catSlug, &rating)
	if err != nil {
		return WorkRow{}, err
	}
	if catID.Valid {
		cid := uint64(catID.Int64)
		row.CategoryID = &cid
		row.Category = &model.Category{ID: cid, Name: catName.String, Slug: catSlug.String}
	}
	if rating.Valid {
		v := rating.Float64
		row.Rating = &v
	}
	genres, err := r.genresFor(ctx, []uint64{row.ID})
	if err != nil {
		return WorkRow{}, err
	}
	row.Genres = genres[row.ID]
	return row, nil
}

// Update persists work fields and, when genreIDs is non-nil, replaces the
// genre links.
func (r *WorkRepo) Update(ctx context.Context, w model.Work, genreIDs []uint64, replaceGenres bool) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"UPDATE works SET name=?, year=?, description=?, category_id=? WHERE id=?",
		w.Name, w.Year, w.Description, w.CategoryID, w.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Distinguish "no change" from "no row".
		var one int
		if err := tx.QueryRowContext(ctx, "SELECT 1 FROM works WHERE id=?", w.ID).Scan(&one); err != nil {
			return err
		}
	}

	if replaceGenres {
		if _, err := tx.ExecContext(ctx, "DELETE FROM work_genres WHERE work_id=?", w.ID); err != nil {
			return err
		}
		for _, gid := range genreIDs {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO work_genres (work_id, genre_id) VALUES (?,?)", w.ID, gid); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// Delete removes a work and cascades through its reviews and their
// comments in one transaction.
func (r *WorkRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	steps := []string{
		"DELETE c FROM comments c JOIN reviews r ON c.review_id = r.id WHERE r.work_id = ?",
		"DELETE FROM reviews WHERE work_id = ?",
		"DELETE FROM work_genres WHERE work_id = ?",
	}
	for _, q := range steps {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM works WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return tx.Commit()
}

// genresFor loads genres for a batch of work IDs in one query.
func (r *WorkRepo) genresFor(ctx context.Context, workIDs []uint64) (map[uint64][]model.Genre, error) {
	if len(workIDs) == 0 {
		return map[uint64][]model.Genre{}, nil
	}
	ph := strings.Repeat("?,", len(workIDs))
	args := make([]any, len(workIDs))
	for i, id := range workIDs {
		args[i] = id
	}
	rows, err := r.DB.QueryContext(ctx, `
        SELECT wg.work_id, g.id, g.name, g.slug
        FROM work_genres wg
        JOIN genres g ON g.id = wg.genre_id
        WHERE wg.work_id IN (`+ph[:len(ph)-1]+`)
        ORDER BY g.name ASC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[uint64][]model.Genre{}
	for rows.Next() {
		var wid uint64
		var g model.Genre
		if err := rows.Scan(&wid, &g.ID, &g.Name, &g.Slug); err != nil {
			return nil, err
		}
		out[wid] = append(out[wid], g)
	}
	return out, rows.Err()
}
