package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var workDetailColumns = []string{"id", "name", "year", "description", "cid", "cname", "cslug", "rating"}

func workRepoWithMock(t *testing.T) (*WorkRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewWorkRepo(db), mock
}

func TestGetByIDRatingIsMeanOfScores(t *testing.T) {
	repo, mock := workRepoWithMock(t)

	mock.ExpectQuery("FROM works w").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(workDetailColumns).
			AddRow(7, "Dune", 1965, "desert planet", nil, nil, nil, 7.5))
	mock.ExpectQuery("FROM work_genres wg").
		WillReturnRows(sqlmock.NewRows([]string{"work_id", "id", "name", "slug"}))

	row, err := repo.GetByID(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, row.Rating)
	assert.InDelta(t, 7.5, *row.Rating, 1e-9, "AVG over review scores comes back as the rating")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDRatingNullWithoutReviews(t *testing.T) {
	repo, mock := workRepoWithMock(t)

	mock.ExpectQuery("FROM works w").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(workDetailColumns).
			AddRow(7, "Dune", 1965, "desert planet", nil, nil, nil, nil))
	mock.ExpectQuery("FROM work_genres wg").
		WillReturnRows(sqlmock.NewRows([]string{"work_id", "id", "name", "slug"}))

	row, err := repo.GetByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Nil(t, row.Rating, "no reviews means no rating, not zero")
	require.NoError(t, mock.ExpectationsWereMet())
}
