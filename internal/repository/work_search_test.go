package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildWorkFilterEmpty(t *testing.T) {
	where, args := buildWorkFilter(WorkSearchQuery{})
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestBuildWorkFilterName(t *testing.T) {
	where, args := buildWorkFilter(WorkSearchQuery{Name: "Dune"})
	assert.Equal(t, " WHERE LOWER(w.name) LIKE ?", where)
	assert.Equal(t, []any{"%dune%"}, args, "name matching is case-insensitive substring")
}

func TestBuildWorkFilterCombined(t *testing.T) {
	where, args := buildWorkFilter(WorkSearchQuery{
		Name:     "ring",
		Genre:    "fantasy",
		Category: "books",
		Year:     1954,
	})
	assert.Contains(t, where, "LOWER(w.name) LIKE ?")
	assert.Contains(t, where, "c.slug = ?")
	assert.Contains(t, where, "g.slug = ?")
	assert.Contains(t, where, "w.year = ?")
	assert.Len(t, args, 4)
	assert.Equal(t, "%ring%", args[0])
	assert.Equal(t, "books", args[1])
	assert.Equal(t, "fantasy", args[2])
	assert.Equal(t, 1954, args[3])
}

func TestBuildWorkFilterYearOnly(t *testing.T) {
	where, args := buildWorkFilter(WorkSearchQuery{Year: 2020})
	assert.Equal(t, " WHERE w.year = ?", where)
	assert.Equal(t, []any{2020}, args)
}
