package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ferrylane/reviewly/internal/config"
	"github.com/ferrylane/reviewly/internal/model"
	"github.com/ferrylane/reviewly/internal/permission"
	"github.com/ferrylane/reviewly/internal/repository"
)

// UserHandler implements admin user management and the self-profile
// endpoint.
type UserHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewUserHandler(cfg config.Config, u *repository.UserRepo) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: u}
}

// ----- DTOs -----

type userResp struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	Role      string `json:"role"`
}

func toUserResp(u model.User) userResp {
	return userResp{
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Bio:       u.Bio,
		Role:      u.Role,
	}
}

type userCreateReq struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	Role      string `json:"role"`
}

// userPatch uses pointer fields so absent keys and explicit zero values
// can be told apart during partial updates.
type userPatch struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role"`
}

// applyUserPatch merges a partial update into a user record.  When the
// actor's current role is exactly "user" the role field is silently
// dropped: a plain user cannot self-promote no matter what the payload
// says.  Returns a validation message for rejected values, empty on
// success.
func applyUserPatch(u *model.User, p userPatch, actorRole string) string {
	if p.Username != nil {
		name := strings.TrimSpace(*p.Username)
		if name == "" {
			return "username must not be empty"
		}
		if reservedUsername(name) {
			return `username "me" is reserved`
		}
		u.Username = name
	}
	if p.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*p.Email))
		if email == "" {
			return "email must not be empty"
		}
		u.Email = email
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	if p.Role != nil && actorRole != model.RoleUser {
		if !model.ValidRole(*p.Role) {
			return "unknown role"
		}
		u.Role = *p.Role
	}
	return ""
}

// List returns all users, ordered by username, with an optional
// ?search= substring filter.  AdminOnly is enforced by the route group.
func (h *UserHandler) List(c echo.Context) error {
	page, pageSize := pageParams(c)
	ctx, cancel := dbCtx(c)
	defer cancel()

	users, total, err := h.Users.List(ctx, c.QueryParam("search"), page, pageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]userResp, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResp(u))
	}
	return listResp(c, total, page, pageSize, out)
}

// Create lets an admin add a user directly, role included.  The account
// still needs a signup to obtain a confirmation code before it can log in.
func (h *UserHandler) Create(c echo.Context) error {
	var req userCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Username == "" || req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/email required"})
	}
	if reservedUsername(req.Username) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": `username "me" is reserved`})
	}
	if req.Role == "" {
		req.Role = model.RoleUser
	}
	if !model.ValidRole(req.Role) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	u := model.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      req.Role,
		IsActive:  true,
	}
	if err := h.Users.Create(ctx, &u); err != nil {
		switch err {
		case repository.ErrUsernameExists:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "username already taken"})
		case repository.ErrEmailExists:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already taken"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	return c.JSON(http.StatusCreated, toUserResp(u))
}

// Get returns a single user by username.
func (h *UserHandler) Get(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, c.Param("username"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toUserResp(u))
}

// Patch applies a partial update to any user.  Admin actors may change
// roles; the route group already guarantees the actor is an admin.
func (h *UserHandler) Patch(c echo.Context) error {
	var p userPatch
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, c.Param("username"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if msg := applyUserPatch(&u, p, identity(c).Role); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if err := h.Users.Update(ctx, u); err != nil {
		return h.updateError(c, err)
	}
	return c.JSON(http.StatusOK, toUserResp(u))
}

// Delete removes a user and cascades through their reviews and comments.
func (h *UserHandler) Delete(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, c.Param("username"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := h.Users.Delete(ctx, u.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the caller's own profile.  SelfOrAdmin at the collection
// level reduces to "any authenticated user", which the route group's JWT
// middleware already guarantees; the object is always the caller.
func (h *UserHandler) Me(c echo.Context) error {
	id := identity(c)
	if ok, reason := permission.SelfOrAdminObject(id, id.ID); !ok {
		return deny(c, id, reason)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	return c.JSON(http.StatusOK, toUserResp(u))
}

// PatchMe partially updates the caller's own profile.  The role field is
// dropped from the payload when the caller's stored role is "user".
func (h *UserHandler) PatchMe(c echo.Context) error {
	id := identity(c)
	if ok, reason := permission.SelfOrAdminObject(id, id.ID); !ok {
		return deny(c, id, reason)
	}

	var p userPatch
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	// The privilege guard keys off the stored role, not the token claim.
	if msg := applyUserPatch(&u, p, u.Role); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if err := h.Users.Update(ctx, u); err != nil {
		return h.updateError(c, err)
	}
	return c.JSON(http.StatusOK, toUserResp(u))
}

func (h *UserHandler) updateError(c echo.Context, err error) error {
	switch err {
	case repository.ErrUsernameExists:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username already taken"})
	case repository.ErrEmailExists:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already taken"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
}
