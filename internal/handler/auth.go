package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ferrylane/reviewly/internal/config"
	"github.com/ferrylane/reviewly/internal/model"
	"github.com/ferrylane/reviewly/internal/queue"
	"github.com/ferrylane/reviewly/internal/repository"
	"github.com/ferrylane/reviewly/internal/utils"
)

// AuthHandler implements signup and the code-for-token exchange.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u}
}

// ----- DTOs -----

type signupReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}
type signupResp struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}
type tokenReq struct {
	Username         string `json:"username"`
	ConfirmationCode string `json:"confirmation_code"`
}

// Signup registers a user (or re-registers an existing one with the same
// username/email pair) and mails out a fresh confirmation code.  The code
// itself is never part of the response.
//
// The same (username, email) pair may sign up repeatedly: each call
// rotates the code.  A username or email that is already bound to a
// different counterpart is rejected.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
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

	code, err := utils.NewConfirmationCode()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "code generation failed"})
	}
	hash, err := utils.HashCode(code, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "code hash failed"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	existing, err := h.Users.GetByUsername(ctx, req.Username)
	switch {
	case err == nil:
		if existing.Email != req.Email {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "username already taken"})
		}
		// Same pair again: rotate the code, keep the account as is.
		if err := h.Users.UpdateConfirmationCode(ctx, existing.ID, hash); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "signup failed"})
		}
	case errors.Is(err, sql.ErrNoRows):
		if _, err := h.Users.GetByEmail(ctx, req.Email); err == nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already taken"})
		} else if !errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		u := model.User{
			Username:             req.Username,
			Email:                req.Email,
			Role:                 model.RoleUser,
			ConfirmationCodeHash: hash,
			IsActive:             true,
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
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	// Best-effort dispatch; the publisher logs its own failures and signup
	// succeeds regardless.
	_ = queue.PublishEmailRequested(ctx, queue.EmailRequestedEvent{
		Subject: "Verify your email",
		Body: fmt.Sprintf("Hello %s. Use the code below to verify your email:\n%s",
			req.Username, code),
		From: h.Cfg.EmailFrom,
		To:   req.Email,
	})

	return c.JSON(http.StatusOK, signupResp{Username: req.Username, Email: req.Email})
}

// Token exchanges a confirmation code for a signed access token.  An
// unknown username is a 404; a known username with the wrong code is a
// 400.  The stored code is left untouched by a successful exchange.
func (h *AuthHandler) Token(c echo.Context) error {
	var req tokenReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.ConfirmationCode == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/confirmation_code required"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyCode(u.ConfirmationCodeHash, req.ConfirmationCode) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "wrong confirmation code"})
	}
	if !u.IsActive {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "no active account"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Username, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"token": access.Token})
}
