package router

import (
	"github.com/labstack/echo/v4"

	"github.com/ferrylane/reviewly/internal/handler"
	"github.com/ferrylane/reviewly/internal/middleware"
	"github.com/ferrylane/reviewly/internal/permission"
)

// RegisterCatalog registers the categories, genres and works endpoints.
// Reads are public; writes require an admin token.  Authentication is
// optional so that anonymous reads pass through, and the response cache
// sits behind the permission check so only permitted reads are served
// from cache.
func RegisterCatalog(e *echo.Echo, ch *handler.CategoryHandler, gh *handler.GenreHandler, wh *handler.WorkHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	mw := []echo.MiddlewareFunc{
		middleware.JWTOptional(jwtSecret),
		middleware.Permit(permission.AdminOrReadOnly),
	}
	if cache != nil {
		mw = append(mw, cache)
	}

	categories := e.Group("/v1/categories", mw...)
	mountResource(categories, "slug", CreateListDelete, ResourceHandlers{
		Create: ch.Create,
		List:   ch.List,
		Delete: ch.Delete,
	})

	genres := e.Group("/v1/genres", mw...)
	mountResource(genres, "slug", CreateListDelete, ResourceHandlers{
		Create: gh.Create,
		List:   gh.List,
		Delete: gh.Delete,
	})

	works := e.Group("/v1/works", mw...)
	mountResource(works, "work_id", FullCRUD, ResourceHandlers{
		Create:   wh.Create,
		List:     wh.List,
		Retrieve: wh.Retrieve,
		Update:   wh.Update,
		Delete:   wh.Delete,
	})
}
