package models

// CategoryDB represents a category row in the database
type CategoryDB struct {
	ID   int64  `json:"id" db:"id"`     // Primary key
	Name string `json:"name" db:"name"` // Display name, not unique
}

// CategoryView is the serialized form nested into item responses
// swagger:model CategoryView
type CategoryView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
