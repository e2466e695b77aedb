package model

import "time"

// Comment is free text attached to a review.  It cascades away with its
// review or its author.
//
// Fields:
//  ID       – primary key identifier.
//  ReviewID – owning review.
//  AuthorID – authoring user.
//  Text     – comment body.
//  PubDate  – publication date, assigned by the server at creation.
type Comment struct {
	ID       uint64    // comments.id
	ReviewID uint64    // comments.review_id
	AuthorID uint64    // comments.author_id
	Text     string    // comments.text
	PubDate  time.Time // comments.pub_date
}
