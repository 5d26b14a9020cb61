package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/korepetycje-admin/internal/dto"
	"github.com/noah-isme/korepetycje-admin/internal/models"
	"github.com/noah-isme/korepetycje-admin/internal/viewmodel"
	appErrors "github.com/noah-isme/korepetycje-admin/pkg/errors"
	"github.com/noah-isme/korepetycje-admin/pkg/export"
)

// Monthly fee per active enrollment, and the flat fee of a student without
// one, in złoty.
const (
	feePerEnrollment = 320
	feeBase          = 100
	paymentDueDay    = 10
)

var paymentCycle = []models.PaymentStatus{models.PaymentPaid, models.PaymentPending, models.PaymentOverdue, models.PaymentCancelled}

// PaymentReportHeaders fixes the column order of the payments report.
var PaymentReportHeaders = []string{"Uczeń", "Przedmiot", "Korepetytor", "Status", "Kwota (zł)", "Termin płatności", "Ostatnie przypomnienie"}

type rosterLister interface {
	ListRoster(ctx context.Context, filter models.StudentFilter) ([]models.StudentRecord, error)
}

// PaymentService derives the monthly payment overview from the student
// roster. No money moves: actions are logged only.
type PaymentService struct {
	roster    rosterLister
	csv       csvRenderer
	pdf       pdfRenderer
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewPaymentService constructs a PaymentService.
func NewPaymentService(roster rosterLister, validate *validator.Validate, logger *zap.Logger) *PaymentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{
		roster:    roster,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// Items returns one payment item per student in roster order. Status cycles
// paid, pending, overdue, cancelled by position; the amount follows the
// number of active enrollments.
func (s *PaymentService) Items(ctx context.Context) ([]models.PaymentItem, error) {
	records, err := s.roster.ListRoster(ctx, models.StudentFilter{})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}

	now := s.now().UTC()
	thisMonth := time.Date(now.Year(), now.Month(), paymentDueDay, 0, 0, 0, 0, time.UTC)
	nextMonth := thisMonth.AddDate(0, 1, 0)

	rows := viewmodel.StudentRows(records)
	items := make([]models.PaymentItem, 0, len(rows))
	for i, row := range rows {
		status := paymentCycle[i%len(paymentCycle)]
		due := nextMonth
		if status == models.PaymentOverdue {
			due = thisMonth
		}
		item := models.PaymentItem{
			StudentID: row.ID,
			Name:      row.Name,
			Subject:   row.Subject,
			Tutor:     row.Cell.TutorName,
			Status:    status,
			Amount:    paymentAmount(records[i]),
			DueDate:   due.Format("2006-01-02"),
		}
		if i%3 == 0 {
			item.LastReminder = now.AddDate(0, 0, -3).Format("2006-01-02")
		}
		items = append(items, item)
	}
	return items, nil
}

func paymentAmount(rec models.StudentRecord) int {
	active := 0
	for _, e := range rec.Enrollments {
		if e.Status == models.EnrollmentStatusActive {
			active++
		}
	}
	if active == 0 {
		return feeBase
	}
	return active * feePerEnrollment
}

// List returns the items of tab ("all" or a payment status) and the counts
// of every status.
func (s *PaymentService) List(ctx context.Context, tab string) (*dto.PaymentList, error) {
	if tab == "" {
		tab = "all"
	}
	switch models.PaymentStatus(tab) {
	case models.PaymentPaid, models.PaymentPending, models.PaymentOverdue, models.PaymentCancelled, "all":
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "nieznana zakładka płatności")
	}

	items, err := s.Items(ctx)
	if err != nil {
		return nil, err
	}
	list := &dto.PaymentList{Counts: PaymentCountsOf(items), Tab: tab, Items: make([]models.PaymentItem, 0, len(items))}
	for _, item := range items {
		if tab == "all" || string(item.Status) == tab {
			list.Items = append(list.Items, item)
		}
	}
	return list, nil
}

// PaymentCountsOf tallies items per status.
func PaymentCountsOf(items []models.PaymentItem) models.PaymentCounts {
	counts := models.PaymentCounts{Total: len(items)}
	for _, item := range items {
		switch item.Status {
		case models.PaymentPaid:
			counts.Paid++
		case models.PaymentPending:
			counts.Pending++
		case models.PaymentOverdue:
			counts.Overdue++
		case models.PaymentCancelled:
			counts.Cancelled++
		}
	}
	return counts
}

// Action performs a stubbed payment action on the listed students.
func (s *PaymentService) Action(ctx context.Context, req models.PaymentActionRequest) (*dto.PaymentActionOutcome, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "nieprawidłowa akcja")
	}
	items, err := s.Items(ctx)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]struct{}, len(req.StudentIDs))
	for _, id := range req.StudentIDs {
		wanted[id] = struct{}{}
	}
	var targets []models.PaymentItem
	for _, item := range items {
		if _, ok := wanted[item.StudentID]; ok {
			targets = append(targets, item)
		}
	}
	if len(targets) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "nie wybrano żadnej płatności")
	}

	for _, item := range targets {
		s.logger.Info("payment action requested",
			zap.String("action", string(req.Action)),
			zap.String("student_id", item.StudentID),
			zap.Int("amount", item.Amount),
		)
	}

	var message string
	switch req.Action {
	case models.PaymentRemind:
		message = fmt.Sprintf("Wysłano przypomnienia: %d", len(targets))
	case models.PaymentInvoice:
		message = fmt.Sprintf("Wygenerowano faktury: %d", len(targets))
	case models.PaymentSend:
		message = fmt.Sprintf("Wysłano faktury: %d", len(targets))
	}
	return &dto.PaymentActionOutcome{Action: req.Action, Affected: len(targets), Message: message}, nil
}

// Report renders the payments of tab.
func (s *PaymentService) Report(ctx context.Context, tab, format string) (*dto.FileExport, error) {
	list, err := s.List(ctx, tab)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{Headers: PaymentReportHeaders}
	for _, item := range list.Items {
		reminder := item.LastReminder
		if reminder == "" {
			reminder = viewmodel.Sentinel
		}
		data.Append(item.Name, item.Subject, item.Tutor, viewmodel.PaymentStatusLabel(item.Status), strconv.Itoa(item.Amount), item.DueDate, reminder)
	}

	switch format {
	case "", dto.FormatCSV:
		body, err := s.csv.Render(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "nie udało się wygenerować raportu")
		}
		return &dto.FileExport{Filename: "raport_platnosci.csv", ContentType: "text/csv; charset=utf-8", Body: body}, nil
	case dto.FormatPDF:
		body, err := s.pdf.Render(data, "Raport płatności")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "nie udało się wygenerować raportu")
		}
		return &dto.FileExport{Filename: "raport_platnosci.pdf", ContentType: "application/pdf", Body: body}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "nieobsługiwany format raportu")
	}
}
