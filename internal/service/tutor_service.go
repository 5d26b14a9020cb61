package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/korepetycje-admin/internal/dto"
	"github.com/noah-isme/korepetycje-admin/internal/models"
	"github.com/noah-isme/korepetycje-admin/internal/viewmodel"
	appErrors "github.com/noah-isme/korepetycje-admin/pkg/errors"
	"github.com/noah-isme/korepetycje-admin/pkg/export"
)

// TutorLevels are the teaching levels offered by every tutor.
var TutorLevels = []string{"Podstawowy", "Średni", "Rozszerzony"}

// TutorExportHeaders fixes the column order of tutor exports.
var TutorExportHeaders = []string{"Imię i nazwisko", "Przedmioty", "Poziomy", "Liczba uczniów", "Godziny w miesiącu", "Status"}

const defaultTutorPageSize = 25

type tutorStore interface {
	List(ctx context.Context) ([]models.Tutor, error)
	FindByID(ctx context.Context, id string) (*models.Tutor, error)
	SetActive(ctx context.Context, ids []string, active bool) (int64, error)
}

type tutorEnrollmentLister interface {
	ListAssigned(ctx context.Context) ([]models.EnrollmentRecord, error)
	ListByTutor(ctx context.Context, tutorID string) ([]models.EnrollmentRecord, error)
}

type tutorHoursSource interface {
	HoursByTutor(ctx context.Context) (map[string]float64, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// TutorServiceParams groups TutorService dependencies.
type TutorServiceParams struct {
	Tutors      tutorStore
	Enrollments tutorEnrollmentLister
	Hours       tutorHoursSource
	CSV         csvRenderer
	PDF         pdfRenderer
	Cache       *CacheService
	Validator   *validator.Validate
	Logger      *zap.Logger
}

// TutorService serves the tutors list, bulk actions, exports and detail page.
type TutorService struct {
	tutors      tutorStore
	enrollments tutorEnrollmentLister
	hours       tutorHoursSource
	csv         csvRenderer
	pdf         pdfRenderer
	cache       *CacheService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewTutorService constructs a TutorService.
func NewTutorService(params TutorServiceParams) *TutorService {
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	var csvOut csvRenderer = export.NewCSVExporter()
	if params.CSV != nil {
		csvOut = params.CSV
	}
	var pdfOut pdfRenderer = export.NewPDFExporter()
	if params.PDF != nil {
		pdfOut = params.PDF
	}
	return &TutorService{
		tutors:      params.Tutors,
		enrollments: params.Enrollments,
		hours:       params.Hours,
		csv:         csvOut,
		pdf:         pdfOut,
		cache:       params.Cache,
		validator:   validate,
		logger:      logger,
	}
}

// List returns one page of the tutors matching filter.
func (s *TutorService) List(ctx context.Context, filter models.TutorFilter) (*dto.TutorList, error) {
	if err := s.validator.Struct(filter); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "nieprawidłowe filtry")
	}
	rows, err := s.rows(ctx)
	if err != nil {
		return nil, err
	}

	table := s.table(rows, filter)
	size := filter.PageSize
	if size <= 0 {
		size = defaultTutorPageSize
	}
	table.Paginate(filter.Page, size)
	page, info := table.Page()

	return &dto.TutorList{
		Rows:       page,
		Pagination: &models.Pagination{Page: info.Page, PageSize: info.PageSize, TotalCount: info.TotalRows},
		TotalPages: info.TotalPages,
		Subjects:   subjectOptions(rows),
		Levels:     TutorLevels,
		Filter:     filter,
	}, nil
}

// BulkAction applies req.Action to the selected tutors. With req.All the
// selection is every tutor matching req.Filter; unknown ids are ignored.
func (s *TutorService) BulkAction(ctx context.Context, req models.BulkTutorRequest) (*dto.BulkOutcome, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "nieprawidłowa akcja zbiorcza")
	}
	rows, err := s.rows(ctx)
	if err != nil {
		return nil, err
	}

	table := s.table(rows, req.Filter)
	if req.All {
		table.SelectAll()
	} else {
		table.Select(req.IDs...)
	}
	selected := table.Selected()
	if len(selected) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "nie wybrano żadnego korepetytora")
	}
	ids := table.SelectedIDs()

	outcome := &dto.BulkOutcome{Result: models.BulkResult{Action: req.Action, Affected: len(selected)}}
	switch req.Action {
	case models.BulkActivate, models.BulkDeactivate:
		active := req.Action == models.BulkActivate
		affected, err := s.tutors.SetActive(ctx, ids, active)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "nie udało się zmienić statusu")
		}
		outcome.Result.Affected = int(affected)
		if active {
			outcome.Message = fmt.Sprintf("Aktywowano korepetytorów: %d", affected)
		} else {
			outcome.Message = fmt.Sprintf("Dezaktywowano korepetytorów: %d", affected)
		}
		_ = s.cache.Invalidate(ctx, CacheKeyDashboard+"*")
		_ = s.cache.Invalidate(ctx, CacheKeyRoster+"*")
	case models.BulkExport:
		body, err := s.csv.Render(tutorDataset(selected))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "nie udało się wyeksportować danych")
		}
		outcome.File = &dto.FileExport{Filename: "zaznaczeni_korepetytorzy.csv", ContentType: "text/csv; charset=utf-8", Body: body}
		outcome.Message = fmt.Sprintf("Wyeksportowano korepetytorów: %d", len(selected))
	case models.BulkMessage:
		s.logger.Info("bulk message requested",
			zap.Strings("tutor_ids", ids),
			zap.Int("message_length", len(req.Message)),
		)
		outcome.Message = fmt.Sprintf("Wiadomość zostanie wysłana do %d korepetytorów", len(selected))
	}

	s.logger.Info("bulk tutor action", zap.String("action", string(req.Action)), zap.Int("selected", len(selected)))
	return outcome, nil
}

// Export renders every tutor matching filter, ignoring pagination.
func (s *TutorService) Export(ctx context.Context, filter models.TutorFilter, format string) (*dto.FileExport, error) {
	if err := s.validator.Struct(filter); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "nieprawidłowe filtry")
	}
	rows, err := s.rows(ctx)
	if err != nil {
		return nil, err
	}
	data := tutorDataset(s.table(rows, filter).Visible())

	switch format {
	case "", dto.FormatCSV:
		body, err := s.csv.Render(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "nie udało się wyeksportować danych")
		}
		return &dto.FileExport{Filename: "korepetytorzy.csv", ContentType: "text/csv; charset=utf-8", Body: body}, nil
	case dto.FormatPDF:
		body, err := s.pdf.Render(data, "Korepetytorzy")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "nie udało się wyeksportować danych")
		}
		return &dto.FileExport{Filename: "korepetytorzy.pdf", ContentType: "application/pdf", Body: body}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "nieobsługiwany format eksportu")
	}
}

// Detail returns a tutor with the students assigned to them.
func (s *TutorService) Detail(ctx context.Context, id string) (*dto.TutorDetail, error) {
	tutor, err := s.tutors.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "nie znaleziono korepetytora")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tutor")
	}
	enrollments, err := s.enrollments.ListByTutor(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list tutor students")
	}
	hours, err := s.hours.HoursByTutor(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.TutorDetail{
		Tutor:    *tutor,
		Row:      buildTutorRow(*tutor, enrollments, hours),
		Students: viewmodel.TutorStudentRows(enrollments),
	}, nil
}

func (s *TutorService) rows(ctx context.Context) ([]dto.TutorRow, error) {
	tutors, err := s.tutors.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list tutors")
	}
	assigned, err := s.enrollments.ListAssigned(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	hours, err := s.hours.HoursByTutor(ctx)
	if err != nil {
		return nil, err
	}

	byTutor := make(map[string][]models.EnrollmentRecord)
	for _, e := range assigned {
		if e.TutorID == nil {
			continue
		}
		byTutor[*e.TutorID] = append(byTutor[*e.TutorID], e)
	}

	rows := make([]dto.TutorRow, 0, len(tutors))
	for _, t := range tutors {
		rows = append(rows, buildTutorRow(t, byTutor[t.ID], hours))
	}
	return rows, nil
}

// Subjects come from the tutor's enrollments, deduplicated in first-seen
// order. Students counts active enrollments only.
func buildTutorRow(t models.Tutor, enrollments []models.EnrollmentRecord, hours map[string]float64) dto.TutorRow {
	name := viewmodel.Display(t.FirstName, t.LastName)
	row := dto.TutorRow{
		ID:           t.ID,
		Name:         name,
		Email:        viewmodel.Sentinel,
		Phone:        viewmodel.Sentinel,
		Subjects:     []string{},
		Levels:       TutorLevels,
		MonthlyHours: hours[name],
		Active:       t.Active,
		Status:       viewmodel.TutorStatusLabel(t.Active),
	}
	if t.Email != nil {
		row.Email = viewmodel.Display(*t.Email)
	}
	if t.Phone != nil {
		row.Phone = viewmodel.Display(*t.Phone)
	}
	seen := make(map[string]struct{})
	for _, e := range enrollments {
		if e.Status == models.EnrollmentStatusActive {
			row.Students++
		}
		subject, ok := e.Subject.Get()
		if !ok || subject.Name == "" {
			continue
		}
		if _, dup := seen[subject.Name]; dup {
			continue
		}
		seen[subject.Name] = struct{}{}
		row.Subjects = append(row.Subjects, subject.Name)
	}
	return row
}

func (s *TutorService) table(rows []dto.TutorRow, filter models.TutorFilter) *viewmodel.Table[dto.TutorRow] {
	table := viewmodel.NewTable(rows, func(r dto.TutorRow) string { return r.ID })

	if term := strings.ToLower(strings.TrimSpace(filter.Search)); term != "" {
		table.SetFilter("search", func(r dto.TutorRow) bool {
			return strings.Contains(strings.ToLower(r.Name), term) || strings.Contains(strings.ToLower(r.Email), term)
		})
	}
	if filter.Subject != "" {
		table.SetFilter("subject", func(r dto.TutorRow) bool { return containsString(r.Subjects, filter.Subject) })
	}
	if filter.Level != "" {
		table.SetFilter("level", func(r dto.TutorRow) bool { return containsString(r.Levels, filter.Level) })
	}
	switch filter.Status {
	case "active":
		table.SetFilter("status", func(r dto.TutorRow) bool { return r.Active })
	case "inactive":
		table.SetFilter("status", func(r dto.TutorRow) bool { return !r.Active })
	}
	if filter.MinHours != nil {
		lo := *filter.MinHours
		table.SetFilter("min_hours", func(r dto.TutorRow) bool { return r.MonthlyHours >= lo })
	}
	if filter.MaxHours != nil {
		hi := *filter.MaxHours
		table.SetFilter("max_hours", func(r dto.TutorRow) bool { return r.MonthlyHours <= hi })
	}

	table.RegisterSort("name", func(a, b dto.TutorRow) int { return strings.Compare(a.Name, b.Name) })
	table.RegisterSort("subjects", func(a, b dto.TutorRow) int { return len(a.Subjects) - len(b.Subjects) })
	table.RegisterSort("students", func(a, b dto.TutorRow) int { return a.Students - b.Students })
	table.RegisterSort("hours", func(a, b dto.TutorRow) int { return compareFloat(a.MonthlyHours, b.MonthlyHours) })
	table.RegisterSort("status", func(a, b dto.TutorRow) int { return compareBool(a.Active, b.Active) })

	sortKey := filter.SortBy
	if sortKey == "" {
		sortKey = "name"
	}
	_ = table.SortBy(sortKey, filter.Order == "desc")
	return table
}

func tutorDataset(rows []dto.TutorRow) export.Dataset {
	data := export.Dataset{Headers: TutorExportHeaders}
	for _, r := range rows {
		subjects := viewmodel.Sentinel
		if len(r.Subjects) > 0 {
			subjects = strings.Join(r.Subjects, ", ")
		}
		data.Append(
			r.Name,
			subjects,
			strings.Join(r.Levels, ", "),
			strconv.Itoa(r.Students),
			strconv.FormatFloat(r.MonthlyHours, 'f', -1, 64),
			r.Status,
		)
	}
	return data
}

func subjectOptions(rows []dto.TutorRow) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range rows {
		for _, subject := range r.Subjects {
			if _, dup := seen[subject]; dup {
				continue
			}
			seen[subject] = struct{}{}
			out = append(out, subject)
		}
	}
	sort.Strings(out)
	return out
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return -1
	default:
		return 1
	}
}
