package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ferrylane/reviewly/internal/model"
	"github.com/ferrylane/reviewly/internal/permission"
	"github.com/ferrylane/reviewly/internal/repository"
)

// ReviewHandler exposes reviews nested under their work.  Reads are open
// to anyone including guests; creating requires authentication; editing
// or deleting an existing review requires being its author, an admin, or
// a moderator.
type ReviewHandler struct {
	Works   *repository.WorkRepo
	Reviews *repository.ReviewRepo
}

func NewReviewHandler(w *repository.WorkRepo, r *repository.ReviewRepo) *ReviewHandler {
	return &ReviewHandler{Works: w, Reviews: r}
}

// ----- DTOs -----

type reviewReq struct {
	Text  string `json:"text"`
	Score int    `json:"score"`
}

type reviewPatch struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

type reviewResp struct {
	ID      uint64 `json:"id"`
	Text    string `json:"text"`
	Author  string `json:"author"`
	Score   int    `json:"score"`
	PubDate string `json:"pub_date"`
}

func toReviewResp(row repository.ReviewRow) reviewResp {
	return reviewResp{
		ID:      row.ID,
		Text:    row.Text,
		Author:  row.Author,
		Score:   row.Score,
		PubDate: row.PubDate.Format(time.RFC3339),
	}
}

func validScore(score int) bool {
	return score >= model.ScoreMin && score <= model.ScoreMax
}

// workFromPath resolves the parent work or reports 404.  The bool result
// is false when the response has already been written.
func (h *ReviewHandler) workFromPath(c echo.Context) (uint64, bool, error) {
	workID, ok := pathID(c, "work_id")
	if !ok {
		return 0, false, c.JSON(http.StatusNotFound, echo.Map{"error": "work not found"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if _, err := h.Works.GetByID(ctx, workID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, c.JSON(http.StatusNotFound, echo.Map{"error": "work not found"})
		}
		return 0, false, c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return workID, true, nil
}

func (h *ReviewHandler) List(c echo.Context) error {
	id := identity(c)
	if ok, reason := permission.ReadOnlyOrOwner(id, c.Request().Method); !ok {
		return deny(c, id, reason)
	}
	workID, ok, err := h.workFromPath(c)
	if !ok {
		return err
	}

	page, pageSize := pageParams(c)
	ctx, cancel := dbCtx(c)
	defer cancel()

	rows, total, err := h.Reviews.ListByWork(ctx, workID, page, pageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]reviewResp, 0, len(rows))
	for _, row := range rows {
		out = append(out, toReviewResp(row))
	}
	return listResp(c, total, page, pageSize, out)
}

func (h *ReviewHandler) Create(c echo.Context) error {
	id := identity(c)
	if ok, reason := permission.ReadOnlyOrOwner(id, c.Request().Method); !ok {
		return deny(c, id, reason)
	}
	workID, ok, err := h.workFromPath(c)
	if !ok {
		return err
	}

	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Text == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "text required"})
	}
	if !validScore(req.Score) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "score must be between 1 and 10"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	// Author comes from the token, never from the body.
	rev := model.Review{
		WorkID:   workID,
		AuthorID: id.ID,
		Text:     req.Text,
		Score:    req.Score,
		PubDate:  time.Now().UTC(),
	}
	if err := h.Reviews.Create(ctx, &rev); err != nil {
		if errors.Is(err, repository.ErrDuplicateReview) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "you have already reviewed this work"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create review failed"})
	}
	return c.JSON(http.StatusCreated, toReviewResp(repository.ReviewRow{Review: rev, Author: id.Username}))
}

// reviewFromPath resolves the review under the matched work; a review
// that exists but hangs off a different work is a 404, not a leak.
func (h *ReviewHandler) reviewFromPath(c echo.Context, workID uint64) (repository.ReviewRow, bool, error) {
	reviewID, ok := pathID(c, "review_id")
	if !ok {
		return repository.ReviewRow{}, false, c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	row, err := h.Reviews.GetForWork(ctx, workID, reviewID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ReviewRow{}, false, c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
		}
		return repository.ReviewRow{}, false, c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return row, true, nil
}

func (h *ReviewHandler) Retrieve(c echo.Context) error {
	id := identity(c)
	if ok, reason := permission.ReadOnlyOrOwner(id, c.Request().Method); !ok {
		return deny(c, id, reason)
	}
	workID, ok, err := h.workFromPath(c)
	if !ok {
		return err
	}
	row, ok, err := h.reviewFromPath(c, workID)
	if !ok {
		return err
	}
	return c.JSON(http.StatusOK, toReviewResp(row))
}

func (h *ReviewHandler) Update(c echo.Context) error {
	id := identity(c)
	if ok, reason := permission.ReadOnlyOrOwner(id, c.Request().Method); !ok {
		return deny(c, id, reason)
	}
	workID, ok, err := h.workFromPath(c)
	if !ok {
		return err
	}
	row, ok, err := h.reviewFromPath(c, workID)
	if !ok {
		return err
	}
	if ok, reason := permission.ReadOnlyOrOwnerObject(id, c.Request().Method, row.AuthorID); !ok {
		return deny(c, id, reason)
	}

	var p reviewPatch
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if p.Text != nil {
		if *p.Text == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "text must not be empty"})
		}
		row.Text = *p.Text
	}
	if p.Score != nil {
		if !validScore(*p.Score) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "score must be between 1 and 10"})
		}
		row.Score = *p.Score
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Reviews.Update(ctx, row.ID, row.Text, row.Score); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, toReviewResp(row))
}

func (h *ReviewHandler) Delete(c echo.Context) error {
	id := identity(c)
	if ok, reason := permission.ReadOnlyOrOwner(id, c.Request().Method); !ok {
		return deny(c, id, reason)
	}
	workID, ok, err := h.workFromPath(c)
	if !ok {
		return err
	}
	row, ok, err := h.reviewFromPath(c, workID)
	if !ok {
		return err
	}
	if ok, reason := permission.ReadOnlyOrOwnerObject(id, c.Request().Method, row.AuthorID); !ok {
		return deny(c, id, reason)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Reviews.Delete(ctx, row.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
