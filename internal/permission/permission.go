// Package permission holds the authorization predicates applied before any
// handler business logic runs.  Each predicate is a pure function over the
// request identity, the HTTP method and, for object-level checks, the
// target; handlers call the collection-level check first and run the
// object-level check only after it passed.  Every denial carries a fixed
// human-readable reason that handlers return verbatim to the client.
package permission

import (
	"net/http"

	"github.com/ferrylane/reviewly/internal/model"
)

// Identity describes the acting user of a request.  Anonymous requests
// carry the zero value with Authenticated=false.
type Identity struct {
	ID            uint64
	Username      string
	Role          string
	Authenticated bool
}

// Guest is the identity of an unauthenticated request.
var Guest = Identity{}

// Denial reasons returned to clients.
const (
	ReasonNotAdmin         = "admin access required"
	ReasonNotSelf          = "owner access only"
	ReasonNotAuthenticated = "authentication required"
	ReasonNotOwner         = "you may only modify your own content"
)

// SafeMethod reports whether the HTTP method is read-only and therefore
// exempt from mutation checks.
func SafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// IsAdmin reports whether the identity carries the admin role.
func IsAdmin(id Identity) bool {
	return id.Authenticated && id.Role == model.RoleAdmin
}

// IsStaff reports whether the identity may moderate other users' content.
func IsStaff(id Identity) bool {
	return id.Authenticated && (id.Role == model.RoleAdmin || id.Role == model.RoleModerator)
}

// AdminOnly permits only authenticated admins.  Used for the user
// management collection.
func AdminOnly(id Identity) (bool, string) {
	if !id.Authenticated {
		return false, ReasonNotAuthenticated
	}
	if id.Role != model.RoleAdmin {
		return false, ReasonNotAdmin
	}
	return true, ""
}

// AdminOnlyObject is the object-level companion of AdminOnly.  Admin
// access does not depend on the target, so it applies the same rule.
func AdminOnlyObject(id Identity) (bool, string) {
	return AdminOnly(id)
}

// SelfOrAdmin permits any authenticated request at the collection level;
// object-level access goes through SelfOrAdminObject.
func SelfOrAdmin(id Identity) (bool, string) {
	if !id.Authenticated {
		return false, ReasonNotAuthenticated
	}
	return true, ""
}

// SelfOrAdminObject permits acting on a user object only when the actor
// is that user or an admin.
func SelfOrAdminObject(id Identity, targetUserID uint64) (bool, string) {
	if !id.Authenticated {
		return false, ReasonNotAuthenticated
	}
	if id.ID == targetUserID || id.Role == model.RoleAdmin {
		return true, ""
	}
	return false, ReasonNotSelf
}

// AdminOrReadOnly permits safe methods to anyone and mutations to admins
// only.  Used for the catalog collections (categories, genres, works).
func AdminOrReadOnly(id Identity, method string) (bool, string) {
	if SafeMethod(method) {
		return true, ""
	}
	if !id.Authenticated {
		return false, ReasonNotAuthenticated
	}
	if id.Role != model.RoleAdmin {
		return false, ReasonNotAdmin
	}
	return true, ""
}

// ReadOnlyOrOwner is the collection-level check for reviews and comments:
// safe methods are open to anyone, mutations require authentication.
func ReadOnlyOrOwner(id Identity, method string) (bool, string) {
	if SafeMethod(method) {
		return true, ""
	}
	if !id.Authenticated {
		return false, ReasonNotAuthenticated
	}
	return true, ""
}

// ReadOnlyOrOwnerObject is the object-level check for reviews and
// comments: mutating an existing object requires being its author or
// holding a moderating role.
func ReadOnlyOrOwnerObject(id Identity, method string, authorID uint64) (bool, string) {
	if SafeMethod(method) {
		return true, ""
	}
	if !id.Authenticated {
		return false, ReasonNotAuthenticated
	}
	if id.ID == authorID || IsStaff(id) {
		return true, ""
	}
	return false, ReasonNotOwner
}
