package viewmodel

import (
	"errors"
	"fmt"
)

// CellState is the state of a row's tutor assignment control.
type CellState string

const (
	CellUnassigned CellState = "unassigned"
	CellAssigning  CellState = "assigning"
	CellAssigned   CellState = "assigned"
)

// ErrIllegalTransition is returned for transitions the cell does not allow.
var ErrIllegalTransition = errors.New("illegal assignment transition")

// AssignmentCell tracks one row's assignment control:
// Unassigned -> Assigning -> Assigned. A failed write returns the cell to
// where it was. An assigned cell may start a reassignment.
type AssignmentCell struct {
	State     CellState `json:"state"`
	TutorID   string    `json:"tutor_id,omitempty"`
	TutorName string    `json:"tutor_name"`
	Pending   string    `json:"pending_tutor_id,omitempty"`
}

// NewAssignmentCell returns an Assigned cell when tutorID is set and an
// Unassigned one otherwise.
func NewAssignmentCell(tutorID, tutorName string) AssignmentCell {
	if tutorID == "" {
		return AssignmentCell{State: CellUnassigned, TutorName: Sentinel}
	}
	return AssignmentCell{State: CellAssigned, TutorID: tutorID, TutorName: Display(tutorName)}
}

// Begin records an in-flight assignment of tutorID.
func (c *AssignmentCell) Begin(tutorID string) error {
	if c.State == CellAssigning {
		return fmt.Errorf("%w: assignment already in flight", ErrIllegalTransition)
	}
	if tutorID == "" {
		return fmt.Errorf("%w: no tutor chosen", ErrIllegalTransition)
	}
	c.State = CellAssigning
	c.Pending = tutorID
	return nil
}

// Succeed completes the in-flight assignment.
func (c *AssignmentCell) Succeed(tutorName string) error {
	if c.State != CellAssigning {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, c.State, CellAssigned)
	}
	c.State = CellAssigned
	c.TutorID = c.Pending
	c.TutorName = Display(tutorName)
	c.Pending = ""
	return nil
}

// Fail abandons the in-flight assignment and restores the previous state.
// Nothing was changed locally before the write so there is nothing to undo.
func (c *AssignmentCell) Fail() error {
	if c.State != CellAssigning {
		return fmt.Errorf("%w: %s -> failed", ErrIllegalTransition, c.State)
	}
	c.Pending = ""
	if c.TutorID == "" {
		c.State = CellUnassigned
		return nil
	}
	c.State = CellAssigned
	return nil
}

// Placeholder reports whether the cell renders the "choose a tutor" prompt.
func (c AssignmentCell) Placeholder() bool {
	return c.State == CellUnassigned
}
