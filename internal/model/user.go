package model

import "time"

// Role values stored in users.role.  All authorization decisions are
// derived from this single column.
const (
	RoleUser      = "user"
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
)

// ValidRole reports whether s is one of the three known role names.
func ValidRole(s string) bool {
	return s == RoleUser || s == RoleAdmin || s == RoleModerator
}

// User represents a row of the `users` table.  The confirmation code
// issued at signup is stored only as a bcrypt hash; the plaintext value
// leaves the system exclusively through the signup email.
//
// Fields:
//  ID                   – primary key identifier of the user.
//  Username             – unique login name ("me" is reserved for the self-profile route).
//  Email                – unique email address.
//  FirstName, LastName  – optional profile fields.
//  Bio                  – optional free-text profile field.
//  Role                 – one of user/admin/moderator, default user.
//  ConfirmationCodeHash – bcrypt hash of the current confirmation code.
//  IsActive             – whether the account may exchange its code for a token.
//  CreatedAt, UpdatedAt – row timestamps.
type User struct {
	ID                   uint64    // users.id
	Username             string    // users.username
	Email                string    // users.email
	FirstName            string    // users.first_name
	LastName             string    // users.last_name
	Bio                  string    // users.bio
	Role                 string    // users.role
	ConfirmationCodeHash string    // users.confirmation_code_hash
	IsActive             bool      // users.is_active
	CreatedAt            time.Time // users.created_at
	UpdatedAt            time.Time // users.updated_at
}
