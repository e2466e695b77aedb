package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidYear(t *testing.T) {
	current := time.Now().UTC().Year()

	assert.True(t, validYear(current))
	assert.True(t, validYear(current-1))
	assert.True(t, validYear(1888))
	assert.True(t, validYear(1))
	assert.False(t, validYear(current+1), "unpublished works are rejected")
	assert.False(t, validYear(0))
	assert.False(t, validYear(-300))
}
