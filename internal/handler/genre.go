package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ferrylane/reviewly/internal/repository"
)

// GenreHandler mirrors CategoryHandler for the genre collection.
type GenreHandler struct {
	Genres *repository.GenreRepo
}

func NewGenreHandler(r *repository.GenreRepo) *GenreHandler {
	return &GenreHandler{Genres: r}
}

func (h *GenreHandler) Create(c echo.Context) error {
	var req slugEntityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := validateSlugEntity(&req); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if _, err := h.Genres.Create(ctx, req.Name, req.Slug); err != nil {
		if errors.Is(err, repository.ErrSlugExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "slug already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create genre failed"})
	}
	return c.JSON(http.StatusCreated, slugEntityResp{Name: req.Name, Slug: req.Slug})
}

func (h *GenreHandler) List(c echo.Context) error {
	page, pageSize := pageParams(c)
	ctx, cancel := dbCtx(c)
	defer cancel()

	genres, total, err := h.Genres.List(ctx, c.QueryParam("search"), page, pageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]slugEntityResp, 0, len(genres))
	for _, g := range genres {
		out = append(out, slugEntityResp{Name: g.Name, Slug: g.Slug})
	}
	return listResp(c, total, page, pageSize, out)
}

func (h *GenreHandler) Delete(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Genres.DeleteBySlug(ctx, c.Param("slug")); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "genre not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
