package dto

import "github.com/noah-isme/korepetycje-admin/internal/models"

// PaymentList is the payments page payload. Counts cover every item, Items
// only those of the selected tab.
type PaymentList struct {
	Items  []models.PaymentItem `json:"items"`
	Counts models.PaymentCounts `json:"counts"`
	Tab    string               `json:"tab"`
}

// PaymentActionOutcome reports a stubbed payment action.
type PaymentActionOutcome struct {
	Action   models.PaymentAction `json:"action"`
	Affected int                  `json:"affected"`
	Message  string               `json:"message"`
}
