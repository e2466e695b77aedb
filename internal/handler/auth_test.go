package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ferrylane/reviewly/internal/config"
	"github.com/ferrylane/reviewly/internal/repository"
	"github.com/ferrylane/reviewly/internal/utils"
)

var userColumns = []string{
	"id", "username", "email", "first_name", "last_name", "bio",
	"role", "confirmation_code_hash", "is_active", "created_at", "updated_at",
}

func authHandlerWithMock(t *testing.T) (*AuthHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	h := &AuthHandler{
		Cfg:   config.Config{JWTSecret: "test-secret", AccessTTLMin: 15, BcryptCost: bcrypt.MinCost},
		Users: repository.NewUserRepo(db),
	}
	return h, mock
}

func postJSON(target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func userRow(t *testing.T, code string, active bool) *sqlmock.Rows {
	t.Helper()
	hash, err := utils.HashCode(code, bcrypt.MinCost)
	require.NoError(t, err)
	now := time.Now().UTC()
	return sqlmock.NewRows(userColumns).
		AddRow(1, "alice", "alice@example.com", "", "", "", "user", hash, active, now, now)
}

func TestTokenUnknownUsernameIs404(t *testing.T) {
	h, mock := authHandlerWithMock(t)
	mock.ExpectQuery("FROM users WHERE username=").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(userColumns))

	c, rec := postJSON("/v1/auth/token", `{"username":"ghost","confirmation_code":"whatever"}`)
	require.NoError(t, h.Token(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "user not found")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenWrongCodeIs400(t *testing.T) {
	h, mock := authHandlerWithMock(t)
	mock.ExpectQuery("FROM users WHERE username=").
		WithArgs("alice").
		WillReturnRows(userRow(t, "right-code", true))

	c, rec := postJSON("/v1/auth/token", `{"username":"alice","confirmation_code":"wrong-code"}`)
	require.NoError(t, h.Token(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code, "a known username with a bad code is a validation error, not a 404")
	assert.Contains(t, rec.Body.String(), "wrong confirmation code")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenInactiveAccountIs401(t *testing.T) {
	h, mock := authHandlerWithMock(t)
	mock.ExpectQuery("FROM users WHERE username=").
		WithArgs("alice").
		WillReturnRows(userRow(t, "right-code", false))

	c, rec := postJSON("/v1/auth/token", `{"username":"alice","confirmation_code":"right-code"}`)
	require.NoError(t, h.Token(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "no active account")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenSuccess(t *testing.T) {
	h, mock := authHandlerWithMock(t)
	mock.ExpectQuery("FROM users WHERE username=").
		WithArgs("alice").
		WillReturnRows(userRow(t, "right-code", true))

	c, rec := postJSON("/v1/auth/token", `{"username":"alice","confirmation_code":"right-code"}`)
	require.NoError(t, h.Token(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "token")
	require.NoError(t, mock.ExpectationsWereMet())
}
