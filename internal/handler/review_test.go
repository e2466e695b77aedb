package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrylane/reviewly/internal/middleware"
	"github.com/ferrylane/reviewly/internal/model"
	"github.com/ferrylane/reviewly/internal/permission"
	"github.com/ferrylane/reviewly/internal/repository"
)

func TestValidScore(t *testing.T) {
	assert.True(t, validScore(1))
	assert.True(t, validScore(5))
	assert.True(t, validScore(10))
	assert.False(t, validScore(0))
	assert.False(t, validScore(11))
	assert.False(t, validScore(-4))
}

var workDetailColumns = []string{"id", "name", "year", "description", "cid", "cname", "cslug", "rating"}

func TestCreateReviewDuplicateIs400(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	h := &ReviewHandler{
		Works:   repository.NewWorkRepo(db),
		Reviews: repository.NewReviewRepo(db),
	}

	mock.ExpectQuery("FROM works w").
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows(workDetailColumns).
			AddRow(4, "Dune", 1965, "", nil, nil, nil, nil))
	mock.ExpectQuery("FROM work_genres wg").
		WillReturnRows(sqlmock.NewRows([]string{"work_id", "id", "name", "slug"}))
	mock.ExpectExec("INSERT INTO reviews").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry '4-9' for key 'reviews.uq_reviews_work_author'"))

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/works/4/reviews",
		strings.NewReader(`{"text":"once more","score":8}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("work_id")
	c.SetParamValues("4")
	c.Set(middleware.ContextIdentityKey,
		permission.Identity{ID: 9, Username: "alice", Role: model.RoleUser, Authenticated: true})

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "already reviewed")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewResponseTimestamp(t *testing.T) {
	ts := time.Date(2026, 5, 4, 12, 30, 0, 0, time.UTC)
	resp := toReviewResp(repository.ReviewRow{
		Review: model.Review{ID: 1, Text: "x", Score: 5, PubDate: ts},
		Author: "alice",
	})
	assert.Equal(t, "2026-05-04T12:30:00Z", resp.PubDate, "pub_date keeps time-of-day precision")
}
