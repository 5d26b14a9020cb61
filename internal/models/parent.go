package models

import "github.com/noah-isme/korepetycje-admin/internal/relation"

// ParentRelation enumerates how a parent is related to a student.
type ParentRelation string

const (
	RelationMother   ParentRelation = "mother"
	RelationFather   ParentRelation = "father"
	RelationGuardian ParentRelation = "guardian"
	RelationOther    ParentRelation = "other"
)

// Parent is a paying client, linked to one or more students.
type Parent struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// StudentParentRecord is one student_parents link with both sides embedded.
type StudentParentRecord struct {
	StudentID string                   `json:"student_id"`
	ParentID  string                   `json:"parent_id"`
	IsPrimary bool                     `json:"is_primary"`
	Relation  ParentRelation           `json:"relation"`
	Parent    relation.One[Parent]     `json:"parents"`
	Student   relation.One[StudentRef] `json:"students"`
}
