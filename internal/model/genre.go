package model

// Genre tags works; a work may carry any number of genres through the
// work_genres join table.
//
// Fields:
//  ID   – primary key identifier.
//  Name – display name.
//  Slug – unique URL identifier; genres are addressed by slug.
type Genre struct {
	ID   uint64 // genres.id
	Name string // genres.name
	Slug string // genres.slug
}
