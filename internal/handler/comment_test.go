package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ferrylane/reviewly/internal/model"
	"github.com/ferrylane/reviewly/internal/repository"
)

func TestCommentResponseTimestamp(t *testing.T) {
	ts := time.Date(2026, 5, 4, 8, 15, 42, 0, time.UTC)
	resp := toCommentResp(repository.CommentRow{
		Comment: model.Comment{ID: 2, Text: "agreed", PubDate: ts},
		Author:  "bob",
	})
	assert.Equal(t, "2026-05-04T08:15:42Z", resp.PubDate, "pub_date keeps time-of-day precision")
}
