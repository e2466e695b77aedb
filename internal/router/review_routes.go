package router

import (
	"github.com/labstack/echo/v4"

	"github.com/ferrylane/reviewly/internal/handler"
	"github.com/ferrylane/reviewly/internal/middleware"
)

// RegisterReviews registers the review and comment endpoints nested under
// works.  Authentication is optional: reads are public, writes need a
// token.  The permission checks live in the handlers because the access
// decision depends on who authored the addressed object, which is only
// known after the nested path has been resolved.
func RegisterReviews(e *echo.Echo, rh *handler.ReviewHandler, ch *handler.CommentHandler, jwtSecret string) {
	reviews := e.Group("/v1/works/:work_id/reviews", middleware.JWTOptional(jwtSecret))
	mountResource(reviews, "review_id", FullCRUD, ResourceHandlers{
		Create:   rh.Create,
		List:     rh.List,
		Retrieve: rh.Retrieve,
		Update:   rh.Update,
		Delete:   rh.Delete,
	})

	comments := e.Group("/v1/works/:work_id/reviews/:review_id/comments", middleware.JWTOptional(jwtSecret))
	mountResource(comments, "comment_id", FullCRUD, ResourceHandlers{
		Create:   ch.Create,
		List:     ch.List,
		Retrieve: ch.Retrieve,
		Update:   ch.Update,
		Delete:   ch.Delete,
	})
}
