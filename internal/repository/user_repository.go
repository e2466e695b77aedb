package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/ferrylane/reviewly/internal/model"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = "id,username,email,first_name,last_name,bio,role,confirmation_code_hash,is_active,created_at,updated_at"

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName,
		&u.Bio, &u.Role, &u.ConfirmationCodeHash, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Create inserts a user and fills in its ID.  Uniqueness collisions on
// username or email are mapped to the matching sentinel error.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username,email,first_name,last_name,bio,role,confirmation_code_hash,is_active) VALUES (?,?,?,?,?,?,?,?)",
		u.Username, u.Email, u.FirstName, u.LastName, u.Bio, u.Role, u.ConfirmationCodeHash, u.IsActive)
	if err != nil {
		switch {
		case dupOn(err, "username"):
			return ErrUsernameExists
		case dupOn(err, "email"):
			return ErrEmailExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	return nil
}

// GetByUsername fetches a user by exact username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE username=? LIMIT 1", username))
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id))
}

// List returns users ordered by username with an optional substring
// search on the username, plus the total count for pagination.
func (r *UserRepo) List(ctx context.Context, search string, page, pageSize int) ([]model.User, int64, error) {
	where := ""
	args := []any{}
	if search != "" {
		where = " WHERE username LIKE ?"
		args = append(args, "%"+search+"%")
	}

	var total int64
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, pageSize, (page-1)*pageSize)
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userCols+" FROM users"+where+" ORDER BY username ASC LIMIT ? OFFSET ?", args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName,
			&u.Bio, &u.Role, &u.ConfirmationCodeHash, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}

// Update persists the mutable profile fields and role of a user.
func (r *UserRepo) Update(ctx context.Context, u model.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET username=?, email=?, first_name=?, last_name=?, bio=?, role=? WHERE id=?",
		u.Username, u.Email, u.FirstName, u.LastName, u.Bio, u.Role, u.ID)
	if err != nil {
		switch {
		case dupOn(err, "username"):
			return ErrUsernameExists
		case dupOn(err, "email"):
			return ErrEmailExists
		}
	}
	return err
}

// UpdateConfirmationCode replaces the stored code hash.  Re-signup with
// the same (username, email) pair lands here; it is the only operation
// that rotates the code.
func (r *UserRepo) UpdateConfirmationCode(ctx context.Context, id uint64, hash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET confirmation_code_hash=? WHERE id=?", hash, id)
	return err
}

// Delete removes a user and everything authored by them: their comments,
// comments under their reviews, and their reviews.  Done in one
// transaction so a partial cascade never becomes visible.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	steps := []string{
		"DELETE c FROM comments c JOIN reviews r ON c.review_id = r.id WHERE r.author_id = ?",
		"DELETE FROM comments WHERE author_id = ?",
		"DELETE FROM reviews WHERE author_id = ?",
	}
	for _, q := range steps {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return tx.Commit()
}
