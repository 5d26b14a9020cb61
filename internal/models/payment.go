package models

// PaymentStatus is the settlement state of a payment item.
type PaymentStatus string

const (
	PaymentPaid      PaymentStatus = "paid"
	PaymentPending   PaymentStatus = "pending"
	PaymentOverdue   PaymentStatus = "overdue"
	PaymentCancelled PaymentStatus = "cancelled"
)

// PaymentItem is the monthly settlement line of one student.
type PaymentItem struct {
	StudentID    string        `json:"student_id"`
	Name         string        `json:"name"`
	Subject      string        `json:"subject"`
	Tutor        string        `json:"tutor"`
	Status       PaymentStatus `json:"status"`
	Amount       int           `json:"amount"`
	DueDate      string        `json:"due_date"`
	LastReminder string        `json:"last_reminder,omitempty"`
}

// PaymentCounts tallies payment items per status.
type PaymentCounts struct {
	Total     int `json:"total"`
	Paid      int `json:"paid"`
	Pending   int `json:"pending"`
	Overdue   int `json:"overdue"`
	Cancelled int `json:"cancelled"`
}

// PaymentAction is a stubbed operation on payment items.
type PaymentAction string

const (
	PaymentRemind  PaymentAction = "remind"
	PaymentInvoice PaymentAction = "invoice"
	PaymentSend    PaymentAction = "send"
)

// PaymentActionRequest triggers Action for the given students.
type PaymentActionRequest struct {
	Action     PaymentAction `json:"action" form:"action" validate:"required,oneof=remind invoice send"`
	StudentIDs []string      `json:"student_ids" form:"student_ids" validate:"dive,required"`
}
