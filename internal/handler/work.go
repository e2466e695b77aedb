package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ferrylane/reviewly/internal/model"
	"github.com/ferrylane/reviewly/internal/repository"
)

// WorkHandler exposes the works collection with full CRUD.  Reads are
// public; writes are admin-gated by the routes.
type WorkHandler struct {
	Works  *repository.WorkRepo
	Cats   *repository.CategoryRepo
	Genres *repository.GenreRepo
}

func NewWorkHandler(w *repository.WorkRepo, c *repository.CategoryRepo, g *repository.GenreRepo) *WorkHandler {
	return &WorkHandler{Works: w, Cats: c, Genres: g}
}

// ----- DTOs -----

type workReq struct {
	Name        string   `json:"name"`
	Year        int      `json:"year"`
	Description string   `json:"description"`
	Category    *string  `json:"category"` // category slug, optional
	Genre       []string `json:"genre"`    // genre slugs
}

type workPatch struct {
	Name        *string   `json:"name"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Genre       *[]string `json:"genre"`
}

type workResp struct {
	ID          uint64           `json:"id"`
	Name        string           `json:"name"`
	Year        int              `json:"year"`
	Description string           `json:"description"`
	Category    *slugEntityResp  `json:"category"`
	Genre       []slugEntityResp `json:"genre"`
	Rating      *float64         `json:"rating"`
}

func toWorkResp(row repository.WorkRow) workResp {
	resp := workResp{
		ID:          row.ID,
		Name:        row.Name,
		Year:        row.Year,
		Description: row.Description,
		Rating:      row.Rating,
		Genre:       make([]slugEntityResp, 0, len(row.Genres)),
	}
	if row.Category != nil {
		resp.Category = &slugEntityResp{Name: row.Category.Name, Slug: row.Category.Slug}
	}
	for _, g := range row.Genres {
		resp.Genre = append(resp.Genre, slugEntityResp{Name: g.Name, Slug: g.Slug})
	}
	return resp
}

// validYear checks the release year against the current year, computed at
// validation time so a long-running process never pins a stale year.
func validYear(year int) bool {
	return year >= 1 && year <= time.Now().UTC().Year()
}

// resolveRefs turns category/genre slugs into row IDs.  Unknown slugs are
// a validation failure, reported with the offending kind.
func (h *WorkHandler) resolveRefs(c echo.Context, category *string, genreSlugs []string) (catID *uint64, genreIDs []uint64, errMsg string) {
	ctx, cancel := dbCtx(c)
	defer cancel()

	if category != nil && *category != "" {
		cat, err := h.Cats.GetBySlug(ctx, *category)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, nil, "unknown category"
			}
			return nil, nil, "query failed"
		}
		catID = &cat.ID
	}
	genres, err := h.Genres.GetBySlugs(ctx, genreSlugs)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, "unknown genre"
		}
		return nil, nil, "query failed"
	}
	for _, g := range genres {
		genreIDs = append(genreIDs, g.ID)
	}
	return catID, genreIDs, ""
}

func (h *WorkHandler) Create(c echo.Context) error {
	var req workReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	if !validYear(req.Year) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "year must not be in the future"})
	}

	catID, genreIDs, msg := h.resolveRefs(c, req.Category, req.Genre)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	w := model.Work{Name: req.Name, Year: req.Year, Description: req.Description, CategoryID: catID}
	if err := h.Works.Create(ctx, &w, genreIDs); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create work failed"})
	}
	row, err := h.Works.GetByID(ctx, w.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load work failed"})
	}
	return c.JSON(http.StatusCreated, toWorkResp(row))
}

// List returns works ordered by name with structured filters:
// ?name= substring, ?genre= slug, ?category= slug, ?year= exact.
func (h *WorkHandler) List(c echo.Context) error {
	page, pageSize := pageParams(c)
	q := repository.WorkSearchQuery{
		Name:     c.QueryParam("name"),
		Genre:    c.QueryParam("genre"),
		Category: c.QueryParam("category"),
		Page:     page,
		PageSize: pageSize,
	}
	if y, err := strconv.Atoi(c.QueryParam("year")); err == nil {
		q.Year = y
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	rows, total, err := h.Works.Search(ctx, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]workResp, 0, len(rows))
	for _, row := range rows {
		out = append(out, toWorkResp(row))
	}
	return listResp(c, total, page, pageSize, out)
}

func (h *WorkHandler) Retrieve(c echo.Context) error {
	id, ok := pathID(c, "work_id")
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "work not found"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	row, err := h.Works.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "work not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toWorkResp(row))
}

func (h *WorkHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "work_id")
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "work not found"})
	}
	var p workPatch
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	row, err := h.Works.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "work not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	w := row.Work
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "name must not be empty"})
		}
		w.Name = name
	}
	if p.Year != nil {
		if !validYear(*p.Year) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "year must not be in the future"})
		}
		w.Year = *p.Year
	}
	if p.Description != nil {
		w.Description = *p.Description
	}

	var genreIDs []uint64
	replaceGenres := false
	if p.Category != nil || p.Genre != nil {
		var slugs []string
		if p.Genre != nil {
			slugs = *p.Genre
			replaceGenres = true
		}
		catID, ids, msg := h.resolveRefs(c, p.Category, slugs)
		if msg != "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
		}
		if p.Category != nil {
			w.CategoryID = catID // nil clears the category
		}
		genreIDs = ids
	}

	if err := h.Works.Update(ctx, w, genreIDs, replaceGenres); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "work not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	row, err = h.Works.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load work failed"})
	}
	return c.JSON(http.StatusOK, toWorkResp(row))
}

func (h *WorkHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "work_id")
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "work not found"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Works.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "work not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
