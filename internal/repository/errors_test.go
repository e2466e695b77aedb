package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsDup(t *testing.T) {
	dup := errors.New("Error 1062 (23000): Duplicate entry 'alice' for key 'users.uq_users_username'")
	assert.True(t, isDup(dup))
	assert.False(t, isDup(errors.New("Error 1452: foreign key constraint fails")))
	assert.False(t, isDup(nil))
}

func TestDupOn(t *testing.T) {
	dup := errors.New("Error 1062 (23000): Duplicate entry 'a@b.c' for key 'users.uq_users_email'")
	assert.True(t, dupOn(dup, "email"))
	assert.False(t, dupOn(dup, "username"))
	assert.False(t, dupOn(errors.New("Error 1062 duplicate for key 'uq_users_email'"), "slug"))
	assert.False(t, dupOn(nil, "email"))
}
