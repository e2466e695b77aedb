package repository

import (
	"context"
	"database/sql"

	"github.com/ferrylane/reviewly/internal/model"
)

type CommentRepo struct{ DB *sql.DB }

func NewCommentRepo(db *sql.DB) *CommentRepo { return &CommentRepo{DB: db} }

// CommentRow is a comment joined with its author's username.
type CommentRow struct {
	model.Comment
	Author string
}

// Create inserts a comment and fills in its ID.
func (r *CommentRepo) Create(ctx context.Context, cm *model.Comment) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO comments (review_id, author_id, text, pub_date) VALUES (?,?,?,?)",
		cm.ReviewID, cm.AuthorID, cm.Text, cm.PubDate)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	cm.ID = uint64(id)
	return nil
}

// ListByReview returns a review's comments ordered by publication date.
func (r *CommentRepo) ListByReview(ctx context.Context, reviewID uint64, page, pageSize int) ([]CommentRow, int64, error) {
	var total int64
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM comments WHERE review_id=?", reviewID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.DB.QueryContext(ctx, `
        SELECT c.id, c.review_id, c.author_id, c.text, c.pub_date, u.username
        FROM comments c
        JOIN users u ON u.id = c.author_id
        WHERE c.review_id = ?
        ORDER BY c.pub_date ASC, c.id ASC
        LIMIT ? OFFSET ?`, reviewID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []CommentRow
	for rows.Next() {
		var row CommentRow
		if err := rows.Scan(&row.ID, &row.ReviewID, &row.AuthorID, &row.Text,
			&row.PubDate, &row.Author); err != nil {
			return nil, 0, err
		}
		out = append(out, row)
	}
	return out, total, rows.Err()
}

// GetForReview fetches a comment only when it belongs to the given review.
func (r *CommentRepo) GetForReview(ctx context.Context, reviewID, commentID uint64) (CommentRow, error) {
	var row CommentRow
	err := r.DB.QueryRowContext(ctx, `
        SELECT c.id, c.review_id, c.author_id, c.text, c.pub_date, u.username
        FROM comments c
        JOIN users u ON u.id = c.author_id
        WHERE c.id = ? AND c.review_id = ?
        LIMIT 1`, commentID, reviewID).
		Scan(&row.ID, &row.ReviewID, &row.AuthorID, &row.Text, &row.PubDate, &row.Author)
	return row, err
}

// Update persists a comment's text.
func (r *CommentRepo) Update(ctx context.Context, id uint64, text string) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE comments SET text=? WHERE id=?", text, id)
	return err
}

// Delete removes a comment.
func (r *CommentRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM comments WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
