package viewmodel

import "github.com/noah-isme/korepetycje-admin/internal/models"

// TutorStatusLabel renders the tutor active flag.
func TutorStatusLabel(active bool) string {
	if active {
		return "Aktywny"
	}
	return "Archiwalny"
}

// PaymentStatusLabel renders a payment status in Polish.
func PaymentStatusLabel(status models.PaymentStatus) string {
	switch status {
	case models.PaymentPaid:
		return "Opłacone"
	case models.PaymentPending:
		return "Oczekujące"
	case models.PaymentOverdue:
		return "Zaległe"
	case models.PaymentCancelled:
		return "Anulowane"
	default:
		return Sentinel
	}
}
