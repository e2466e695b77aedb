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

// CommentHandler exposes comments nested two levels deep:
// /works/:work_id/reviews/:review_id/comments.  Both parents must match,
// otherwise the comment is treated as absent.
type CommentHandler struct {
	Works    *repository.WorkRepo
	Reviews  *repository.ReviewRepo
	Comments *repository.CommentRepo
}

func NewCommentHandler(w *repository.WorkRepo, r *repository.ReviewRepo, cm *repository.CommentRepo) *CommentHandler {
	return &CommentHandler{Works: w, Reviews: r, Comments: cm}
}

// ----- DTOs -----

type commentReq struct {
	Text string `json:"text"`
}

type commentPatch struct {
	Text *string `json:"text"`
}

type commentResp struct {
	ID      uint64 `json:"id"`
	Text    string `json:"text"`
	Author  string `json:"author"`
	PubDate string `json:"pub_date"`
}

func toCommentResp(row repository.CommentRow) commentResp {
	return commentResp{
		ID:      row.ID,
		Text:    row.Text,
		Author:  row.Author,
		PubDate: row.PubDate.Format(time.RFC3339),
	}
}

// reviewFromPath walks the full parent chain: the work must exist and the
// review must belong to it.
func (h *CommentHandler) reviewFromPath(c echo.Context) (repository.ReviewRow, bool, error) {
	workID, ok := pathID(c, "work_id")
	if !ok {
		return repository.ReviewRow{}, false, c.JSON(http.StatusNotFound, echo.Map{"error": "work not found"})
	}
	reviewID, ok := pathID(c, "review_id")
	if !ok {
		return repository.ReviewRow{}, false, c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if _, err := h.Works.GetByID(ctx, workID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ReviewRow{}, false, c.JSON(http.StatusNotFound, echo.Map{"error": "work not found"})
		}
		return repository.ReviewRow{}, false, c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	row, err := h.Reviews.GetForWork(ctx, workID, reviewID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ReviewRow{}, false, c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
		}
		return repository.ReviewRow{}, false, c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return row, true, nil
}

func (h *CommentHandler) List(c echo.Context) error {
	id := identity(c)
	if ok, reason := permission.ReadOnlyOrOwner(id, c.Request().Method); !ok {
		return deny(c, id, reason)
	}
	review, ok, err := h.reviewFromPath(c)
	if !ok {
		return err
	}

	page, pageSize := pageParams(c)
	ctx, cancel := dbCtx(c)
	defer cancel()

	rows, total, err := h.Comments.ListByReview(ctx, review.ID, page, pageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]commentResp, 0, len(rows))
	for _, row := range rows {
		out = append(out, toCommentResp(row))
	}
	return listResp(c, total, page, pageSize, out)
}

func (h *CommentHandler) Create(c echo.Context) error {
	id := identity(c)
	if ok, reason := permission.ReadOnlyOrOwner(id, c.Request().Method); !ok {
		return deny(c, id, reason)
	}
	review, ok, err := h.reviewFromPath(c)
	if !ok {
		return err
	}

	var req commentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Text == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "text required"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	cm := model.Comment{
		ReviewID: review.ID,
		AuthorID: id.ID,
		Text:     req.Text,
		PubDate:  time.Now().UTC(),
	}
	if err := h.Comments.Create(ctx, &cm); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create comment failed"})
	}
	return c.JSON(http.StatusCreated, toCommentResp(repository.CommentRow{Comment: cm, Author: id.Username}))
}

func (h *CommentHandler) commentFromPath(c echo.Context, reviewID uint64) (repository.CommentRow, bool, error) {
	commentID, ok := pathID(c, "comment_id")
	if !ok {
		return repository.CommentRow{}, false, c.JSON(http.StatusNotFound, echo.Map{"error": "comment not found"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	row, err := h.Comments.GetForReview(ctx, reviewID, commentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return repository.CommentRow{}, false, c.JSON(http.StatusNotFound, echo.Map{"error": "comment not found"})
		}
		return repository.CommentRow{}, false, c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return row, true, nil
}

func (h *CommentHandler) Retrieve(c echo.Context) error {
	id := identity(c)
	if ok, reason := permission.ReadOnlyOrOwner(id, c.Request().Method); !ok {
		return deny(c, id, reason)
	}
	review, ok, err := h.reviewFromPath(c)
	if !ok {
		return err
	}
	row, ok, err := h.commentFromPath(c, review.ID)
	if !ok {
		return err
	}
	return c.JSON(http.StatusOK, toCommentResp(row))
}

func (h *CommentHandler) Update(c echo.Context) error {
	id := identity(c)
	if ok, reason := permission.ReadOnlyOrOwner(id, c.Request().Method); !ok {
		return deny(c, id, reason)
	}
	review, ok, err := h.reviewFromPath(c)
	if !ok {
		return err
	}
	row, ok, err := h.commentFromPath(c, review.ID)
	if !ok {
		return err
	}
	if ok, reason := permission.ReadOnlyOrOwnerObject(id, c.Request().Method, row.AuthorID); !ok {
		return deny(c, id, reason)
	}

	var p commentPatch
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if p.Text != nil {
		if *p.Text == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "text must not be empty"})
		}
		row.Text = *p.Text
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Comments.Update(ctx, row.ID, row.Text); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, toCommentResp(row))
}

func (h *CommentHandler) Delete(c echo.Context) error {
	id := identity(c)
	if ok, reason := permission.ReadOnlyOrOwner(id, c.Request().Method); !ok {
		return deny(c, id, reason)
	}
	review, ok, err := h.reviewFromPath(c)
	if !ok {
		return err
	}
	row, ok, err := h.commentFromPath(c, review.ID)
	if !ok {
		return err
	}
	if ok, reason := permission.ReadOnlyOrOwnerObject(id, c.Request().Method, row.AuthorID); !ok {
		return deny(c, id, reason)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Comments.Delete(ctx, row.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
