package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/ferrylane/reviewly/internal/model"
)

// WorkSearchQuery defines the structured filters and pagination for the
// works listing.  Zero values mean "no filter".
type WorkSearchQuery struct {
	Name     string // substring match on work name
	Genre    string // exact genre slug
	Category string // exact category slug
	Year     int    // exact release year
	Page     int
	PageSize int
}

// buildWorkFilter translates a query into a WHERE clause and its args.
// Split out from Search so the clause construction is testable without a
// database.
func buildWorkFilter(q WorkSearchQuery) (string, []any) {
	where := []string{}
	args := []any{}

	if q.Name != "" {
		where = append(where, "LOWER(w.name) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Name)+"%")
	}
	if q.Category != "" {
		where = append(where, "c.slug = ?")
		args = append(args, q.Category)
	}
	if q.Genre != "" {
		where = append(where,
			"EXISTS (SELECT 1 FROM work_genres wg JOIN genres g ON g.id = wg.genre_id WHERE wg.work_id = w.id AND g.slug = ?)")
		args = append(args, q.Genre)
	}
	if q.Year != 0 {
		where = append(where, "w.year = ?")
		args = append(args, q.Year)
	}

	if len(where) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

// Search lists works matching the filters, ordered by name, with
// query-time ratings, categories and genres attached.  Returns the page
// of rows and the total match count.
func (r *WorkRepo) Search(ctx context.Context, q WorkSearchQuery) ([]WorkRow, int64, error) {
	where, args := buildWorkFilter(q)

	var total int64
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM works w LEFT JOIN categories c ON c.id = w.category_id"+where,
		args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	pageArgs := append(append([]any{}, args...), q.PageSize, (q.Page-1)*q.PageSize)
	rows, err := r.DB.QueryContext(ctx, `
        SELECT w.id, w.name, w.year, w.description,
               c.id, c.name, c.slug,
               AVG(r.score)
        FROM works w
        LEFT JOIN categories c ON c.id = w.category_id
        LEFT JOIN reviews r ON r.work_id = w.id`+
		where+`
        GROUP BY w.id, w.name, w.year, w.description, c.id, c.name, c.slug
        ORDER BY w.name ASC
        LIMIT ? OFFSET ?`, pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []WorkRow
	var ids []uint64
	for rows.Next() {
		var (
			row     WorkRow
			catID   sql.NullInt64
			catName sql.NullString
			catSlug sql.NullString
			rating  sql.NullFloat64
		)
		if err := rows.Scan(&row.ID, &row.Name, &row.Year, &row.Description,
			&catID, &catName, &catSlug, &rating); err != nil {
			return nil, 0, err
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
		out = append(out, row)
		ids = append(ids, row.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	genres, err := r.genresFor(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range out {
		out[i].Genres = genres[out[i].ID]
	}
	return out, total, nil
}
