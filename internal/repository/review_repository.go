package repository

import (
	"context"
	"database/sql"

	"github.com/ferrylane/reviewly/internal/model"
)

type ReviewRepo struct{ DB *sql.DB }

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{DB: db} }

// ReviewRow is a review joined with its author's username for responses.
type ReviewRow struct {
	model.Review
	Author string
}

// Create inserts a review.  The (work, author) uniqueness constraint is
// the concurrency safety net: of two simultaneous submissions exactly one
// insert succeeds and the other maps to ErrDuplicateReview.
func (r *ReviewRepo) Create(ctx context.Context, rev *model.Review) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO reviews (work_id, author_id, text, score, pub_date) VALUES (?,?,?,?,?)",
		rev.WorkID, rev.AuthorID, rev.Text, rev.Score, rev.PubDate)
	if err != nil {
		if isDup(err) {
			return ErrDuplicateReview
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rev.ID = uint64(id)
	return nil
}

// ListByWork returns a work's reviews ordered by publication date.
func (r *ReviewRepo) ListByWork(ctx context.Context, workID uint64, page, pageSize int) ([]ReviewRow, int64, error) {
	var total int64
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM reviews WHERE work_id=?", workID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.DB.QueryContext(ctx, `
        SELECT r.id, r.work_id, r.author_id, r.text, r.score, r.pub_date, u.username
        FROM reviews r
        JOIN users u ON u.id = r.author_id
        WHERE r.work_id = ?
        ORDER BY r.pub_date ASC, r.id ASC
        LIMIT ? OFFSET ?`, workID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []ReviewRow
	for rows.Next() {
		var row ReviewRow
		if err := rows.Scan(&row.ID, &row.WorkID, &row.AuthorID, &row.Text,
			&row.Score, &row.PubDate, &row.Author); err != nil {
			return nil, 0, err
		}
		out = append(out, row)
	}
	return out, total, rows.Err()
}

// GetForWork fetches a review only when it belongs to the given work;
// a review under a different work yields sql.ErrNoRows, never the row.
func (r *ReviewRepo) GetForWork(ctx context.Context, workID, reviewID uint64) (ReviewRow, error) {
	var row ReviewRow
	err := r.DB.QueryRowContext(ctx, `
        SELECT r.id, r.work_id, r.author_id, r.text, r.score, r.pub_date, u.username
        FROM reviews r
        JOIN users u ON u.id = r.author_id
        WHERE r.id = ? AND r.work_id = ?
        LIMIT 1`, reviewID, workID).
		Scan(&row.ID, &row.WorkID, &row.AuthorID, &row.Text, &row.Score, &row.PubDate, &row.Author)
	return row, err
}

// Update persists a review's text and score.
func (r *ReviewRepo) Update(ctx context.Context, id uint64, text string, score int) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE reviews SET text=?, score=? WHERE id=?", text, score, id)
	return err
}

// Delete removes a review and its comments in one transaction.
func (r *ReviewRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM comments WHERE review_id = ?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM reviews WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return tx.Commit()
}
