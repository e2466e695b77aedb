package model

// Category groups works by kind (book, film, ...).  Works reference a
// category through a nullable foreign key; deleting a category clears
// that reference but never deletes the works themselves.
//
// Fields:
//  ID   – primary key identifier.
//  Name – display name.
//  Slug – unique URL identifier; categories are addressed by slug.
type Category struct {
	ID   uint64 // categories.id
	Name string // categories.name
	Slug string // categories.slug
}
