package models

// Subject is a taught subject. Inactive subjects are never offered for new
// enrollments.
type Subject struct {
	ID     string  `db:"id" json:"id"`
	Name   string  `db:"name" json:"name"`
	Color  *string `db:"color" json:"color,omitempty"`
	Active bool    `db:"active" json:"active"`
}

// SubjectRef is the embedded projection of a subject.
type SubjectRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}
