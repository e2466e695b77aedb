package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ferrylane/reviewly/internal/repository"
)

// CategoryHandler exposes the category collection: create, list and
// delete only.  AdminOrReadOnly is enforced by the routes.
type CategoryHandler struct {
	Cats *repository.CategoryRepo
}

func NewCategoryHandler(r *repository.CategoryRepo) *CategoryHandler {
	return &CategoryHandler{Cats: r}
}

type slugEntityReq struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}
type slugEntityResp struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func validateSlugEntity(req *slugEntityReq) string {
	req.Name = strings.TrimSpace(req.Name)
	req.Slug = strings.TrimSpace(req.Slug)
	if req.Name == "" {
		return "name required"
	}
	if !validSlug(req.Slug) {
		return "invalid slug"
	}
	return ""
}

func (h *CategoryHandler) Create(c echo.Context) error {
	var req slugEntityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := validateSlugEntity(&req); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if _, err := h.Cats.Create(ctx, req.Name, req.Slug); err != nil {
		if errors.Is(err, repository.ErrSlugExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "slug already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create category failed"})
	}
	return c.JSON(http.StatusCreated, slugEntityResp{Name: req.Name, Slug: req.Slug})
}

func (h *CategoryHandler) List(c echo.Context) error {
	page, pageSize := pageParams(c)
	ctx, cancel := dbCtx(c)
	defer cancel()

	cats, total, err := h.Cats.List(ctx, c.QueryParam("search"), page, pageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]slugEntityResp, 0, len(cats))
	for _, cat := range cats {
		out = append(out, slugEntityResp{Name: cat.Name, Slug: cat.Slug})
	}
	return listResp(c, total, page, pageSize, out)
}

func (h *CategoryHandler) Delete(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Cats.DeleteBySlug(ctx, c.Param("slug")); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
