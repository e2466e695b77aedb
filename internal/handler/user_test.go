package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ferrylane/reviewly/internal/model"
)

func strPtr(s string) *string { return &s }

func TestApplyUserPatchDropsRoleForPlainUsers(t *testing.T) {
	u := model.User{Username: "alice", Email: "alice@example.com", Role: model.RoleUser}

	msg := applyUserPatch(&u, userPatch{Role: strPtr(model.RoleAdmin)}, model.RoleUser)
	assert.Empty(t, msg, "the field is ignored, not rejected")
	assert.Equal(t, model.RoleUser, u.Role, "a plain user cannot self-promote")
}

func TestApplyUserPatchAllowsRoleChangeForAdmins(t *testing.T) {
	u := model.User{Username: "alice", Role: model.RoleUser}

	msg := applyUserPatch(&u, userPatch{Role: strPtr(model.RoleModerator)}, model.RoleAdmin)
	assert.Empty(t, msg)
	assert.Equal(t, model.RoleModerator, u.Role)

	msg = applyUserPatch(&u, userPatch{Role: strPtr("superuser")}, model.RoleAdmin)
	assert.Equal(t, "unknown role", msg)
	assert.Equal(t, model.RoleModerator, u.Role, "invalid value leaves the record untouched")
}

func TestApplyUserPatchValidation(t *testing.T) {
	u := model.User{Username: "alice", Email: "alice@example.com"}

	assert.Equal(t, "username must not be empty", applyUserPatch(&u, userPatch{Username: strPtr("   ")}, model.RoleAdmin))
	assert.Equal(t, `username "me" is reserved`, applyUserPatch(&u, userPatch{Username: strPtr("ME")}, model.RoleAdmin))
	assert.Equal(t, "email must not be empty", applyUserPatch(&u, userPatch{Email: strPtr("")}, model.RoleAdmin))

	msg := applyUserPatch(&u, userPatch{
		Username: strPtr("  bob  "),
		Email:    strPtr("Bob@Example.COM"),
		Bio:      strPtr("hi"),
	}, model.RoleUser)
	assert.Empty(t, msg)
	assert.Equal(t, "bob", u.Username, "usernames are trimmed")
	assert.Equal(t, "bob@example.com", u.Email, "emails are lower-cased")
	assert.Equal(t, "hi", u.Bio)
}

func TestApplyUserPatchAbsentFieldsUntouched(t *testing.T) {
	u := model.User{Username: "alice", Email: "a@b.c", FirstName: "Alice", Bio: "old"}
	before := u

	msg := applyUserPatch(&u, userPatch{}, model.RoleAdmin)
	assert.Empty(t, msg)
	assert.Equal(t, before, u)
}

func TestReservedUsername(t *testing.T) {
	assert.True(t, reservedUsername("me"))
	assert.True(t, reservedUsername("Me"))
	assert.True(t, reservedUsername("ME"))
	assert.False(t, reservedUsername("mee"))
	assert.False(t, reservedUsername("home"))
}
