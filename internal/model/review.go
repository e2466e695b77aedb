package model

import "time"

// Score bounds for reviews.
const (
	ScoreMin = 1
	ScoreMax = 10
)

// Review is a scored text opinion on a work.  The (WorkID, AuthorID)
// pair is unique: a user reviews a given work at most once.  Deleting
// the work or the author deletes the review and its comments.
//
// Fields:
//  ID       – primary key identifier.
//  WorkID   – owning work.
//  AuthorID – authoring user (taken from the request identity, never the body).
//  Text     – review body.
//  Score    – integer 1..10.
//  PubDate  – publication date, assigned by the server at creation.
type Review struct {
	ID       uint64    // reviews.id
	WorkID   uint64    // reviews.work_id
	AuthorID uint64    // reviews.author_id
	Text     string    // reviews.text
	Score    int       // reviews.score
	PubDate  time.Time // reviews.pub_date
}
