package model

// Work is a catalogued creative item users review.  CategoryID is
// nullable: a deleted category leaves its works behind with no category.
// Genres are attached via the work_genres join table and loaded
// separately by the repository.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – title of the work.
//  Year        – release year, validated against the current year at write time.
//  Description – optional free text.
//  CategoryID  – nullable reference into categories.
type Work struct {
	ID          uint64  // works.id
	Name        string  // works.name
	Year        int     // works.year
	Description string  // works.description
	CategoryID  *uint64 // works.category_id (nullable)
}
