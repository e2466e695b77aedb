package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/ferrylane/reviewly/internal/handler"
)

// RegisterRoutes registers routes that need neither authentication nor
// versioning.  Currently that is only the health check used by load
// balancers and monitoring.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// Capabilities lists which of the five standard operations a resource
// exposes.  Resources opt into operations through configuration here
// instead of inheriting them.
type Capabilities struct {
	Create   bool
	List     bool
	Retrieve bool
	Update   bool
	Delete   bool
}

// The two capability sets used by this API: catalog taxonomies support
// create/list/delete only, everything else is full CRUD.
var (
	CreateListDelete = Capabilities{Create: true, List: true, Delete: true}
	FullCRUD         = Capabilities{Create: true, List: true, Retrieve: true, Update: true, Delete: true}
)

// ResourceHandlers carries the handler funcs for the standard operations.
// Slots for disabled capabilities may be nil.
type ResourceHandlers struct {
	Create   echo.HandlerFunc
	List     echo.HandlerFunc
	Retrieve echo.HandlerFunc
	Update   echo.HandlerFunc
	Delete   echo.HandlerFunc
}

// mountResource registers the enabled operations of a resource on a
// group.  Detail routes use the given path parameter name.  Update is
// PATCH only: the handlers merge pointer-field payloads, so a PUT alias
// would keep omitted fields instead of replacing the resource.
func mountResource(g *echo.Group, idParam string, ops Capabilities, h ResourceHandlers) {
	if ops.Create {
		g.POST("", h.Create)
	}
	if ops.List {
		g.GET("", h.List)
	}
	detail := "/:" + idParam
	if ops.Retrieve {
		g.GET(detail, h.Retrieve)
	}
	if ops.Update {
		g.PATCH(detail, h.Update)
	}
	if ops.Delete {
		g.DELETE(detail, h.Delete)
	}
}
