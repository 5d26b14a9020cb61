package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/korepetycje-admin/internal/dto"
	"github.com/noah-isme/korepetycje-admin/internal/models"
	"github.com/noah-isme/korepetycje-admin/internal/service"
	"github.com/noah-isme/korepetycje-admin/internal/viewmodel"
	appErrors "github.com/noah-isme/korepetycje-admin/pkg/errors"
	"github.com/noah-isme/korepetycje-admin/pkg/webhook"
)

type fakeStudents struct {
	roster    *dto.StudentRoster
	err       error
	lastQuery models.StudentFilter
	notesErr  error
}

func (f *fakeStudents) Roster(_ context.Context, filter models.StudentFilter) (*dto.StudentRoster, error) {
	f.lastQuery = filter
	return f.roster, f.err
}

func (f *fakeStudents) Row(_ context.Context, id string) (*viewmodel.StudentRow, error) {
	return &viewmodel.StudentRow{ID: id, Name: "Anna Kowalska", Cell: viewmodel.NewAssignmentCell("t1", "Piotr Nowak")}, nil
}

func (f *fakeStudents) UpdateNotes(context.Context, string, models.UpdateStudentNotesRequest) error {
	return f.notesErr
}

type fakeAssignments struct {
	err     error
	student string
	tutor   string
}

func (f *fakeAssignments) AssignToStudent(_ context.Context, studentID string, req models.AssignTutorRequest) (*dto.AssignmentOutcome, error) {
	f.student, f.tutor = studentID, req.TutorID
	if f.err != nil {
		return nil, f.err
	}
	return &dto.AssignmentOutcome{Created: true, Cell: viewmodel.NewAssignmentCell(req.TutorID, "Piotr Nowak")}, nil
}

func (f *fakeAssignments) AssignToEnrollment(_ context.Context, enrollmentID string, req models.AssignEnrollmentTutorRequest) (*dto.AssignmentOutcome, error) {
	f.student, f.tutor = enrollmentID, req.TutorID
	if f.err != nil {
		return nil, f.err
	}
	return &dto.AssignmentOutcome{Cell: viewmodel.NewAssignmentCell(req.TutorID, "Maria Wiśniewska")}, nil
}

func studentRoster() *dto.StudentRoster {
	return &dto.StudentRoster{
		Rows: []viewmodel.StudentRow{
			{ID: "s1", Name: "Anna Kowalska", Active: true, Subject: "Matematyka", Status: "Aktywny", Enrollments: 1, Cell: viewmodel.NewAssignmentCell("t1", "Piotr Nowak")},
			{ID: "s3", Name: "Kasia Zielińska", Active: true, Subject: "—", Status: "—", Cell: viewmodel.NewAssignmentCell("", "")},
		},
		Tutors:   []models.TutorOption{{ID: "t1", FirstName: "Piotr", LastName: "Nowak"}},
		Subjects: []models.Subject{{ID: "m", Name: "Matematyka"}},
	}
}

func TestStudentsPageRendersRoster(t *testing.T) {
	students := &fakeStudents{roster: studentRoster()}
	r := newEngine(t)
	h := NewStudentHandler(students, &fakeAssignments{})
	r.GET("/uczniowie", h.Page)

	rec := do(r, http.MethodGet, "/uczniowie?q=+anna+&active=true", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "2 uczniów")
	assert.Contains(t, body, "Kasia Zielińska")
	assert.Contains(t, body, "Wybierz korepetytora")
	assert.Contains(t, body, `action="/uczniowie/s3/assign"`)
	assert.Contains(t, body, "Anna Admin")
	assert.Equal(t, "anna", students.lastQuery.Search)
	require.NotNil(t, students.lastQuery.Active)
	assert.True(t, *students.lastQuery.Active)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestStudentsPageDistinguishesFailureFromEmpty(t *testing.T) {
	r := newEngine(t)
	r.GET("/failed", NewStudentHandler(&fakeStudents{err: errors.New("db down")}, nil).Page)
	r.GET("/empty", NewStudentHandler(&fakeStudents{roster: &dto.StudentRoster{}}, nil).Page)

	failed := do(r, http.MethodGet, "/failed", "").Body.String()
	assert.Contains(t, failed, "Nie udało się pobrać listy uczniów.")
	assert.NotContains(t, failed, "Brak danych")

	empty := do(r, http.MethodGet, "/empty", "").Body.String()
	assert.Contains(t, empty, "Brak danych")
	assert.NotContains(t, empty, "Nie udało się")
}

func TestStudentAssignFormRedirectsWithFlash(t *testing.T) {
	assignments := &fakeAssignments{}
	r := newEngine(t)
	h := NewStudentHandler(&fakeStudents{}, assignments)
	r.POST("/uczniowie/:id/assign", h.AssignForm)

	rec := do(r, http.MethodPost, "/uczniowie/s3/assign", "tutor_id=t1&subject_id=m")

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/uczniowie", rec.Header().Get("Location"))
	assert.Equal(t, "success|Przypisano korepetytora: Piotr Nowak", flashOf(rec))
	assert.Equal(t, "s3", assignments.student)
	assert.Equal(t, "t1", assignments.tutor)
}

func TestStudentAssignFormSurfacesFailure(t *testing.T) {
	r := newEngine(t)
	h := NewStudentHandler(&fakeStudents{}, &fakeAssignments{err: appErrors.ErrNoSubjects})
	r.POST("/uczniowie/:id/assign", h.AssignForm)

	rec := do(r, http.MethodPost, "/uczniowie/s3/assign", "tutor_id=t1")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "error|brak dostępnych przedmiotów", flashOf(rec))

	h = NewStudentHandler(&fakeStudents{}, &fakeAssignments{err: appErrors.Wrap(errors.New("boom"), appErrors.ErrInternal.Code, 500, "failed to update enrollment")})
	r = newEngine(t)
	r.POST("/uczniowie/:id/assign", h.AssignForm)
	rec = do(r, http.MethodPost, "/uczniowie/s3/assign", "tutor_id=t1")
	assert.Equal(t, "error|"+genericFailure, flashOf(rec))
}

func TestFlashRendersOnNextPage(t *testing.T) {
	r := newEngine(t)
	r.GET("/uczniowie", NewStudentHandler(&fakeStudents{roster: studentRoster()}, nil).Page)

	req := do(r, http.MethodGet, "/uczniowie", "")
	assert.NotContains(t, req.Body.String(), `class="toast`)

	recReq := newRequestWithCookie(http.MethodGet, "/uczniowie", "flash", "success|Zapisano")
	rec := serveRequest(r, recReq)
	assert.Contains(t, rec.Body.String(), `<div class="toast success" role="status">Zapisano</div>`)
}

func TestStudentAPIAssignReturnsFreshRow(t *testing.T) {
	r := newEngine(t)
	h := NewStudentHandler(&fakeStudents{}, &fakeAssignments{})
	r.POST("/api/students/:id/assign", h.Assign)

	rec := do(r, http.MethodPost, "/api/students/s1/assign", `{"tutor_id":"t1"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	data := string(decodeEnvelope(t, rec).Data)
	assert.Contains(t, data, `"created":true`)
	assert.Contains(t, data, `"row":{"id":"s1"`)
	assert.Contains(t, data, `"state":"assigned"`)
}

func TestStudentAPIAssignMapsErrors(t *testing.T) {
	r := newEngine(t)
	h := NewStudentHandler(&fakeStudents{}, &fakeAssignments{err: appErrors.Clone(appErrors.ErrNotFound, "nie znaleziono ucznia")})
	r.POST("/api/students/:id/assign", h.Assign)

	rec := do(r, http.MethodPost, "/api/students/ghost/assign", `{"tutor_id":"t1"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, appErrors.ErrNotFound.Code, decodeEnvelope(t, rec).Error.Code)
}

func TestStudentAPIAssignFailureRestoresCell(t *testing.T) {
	r := newEngine(t)
	h := NewStudentHandler(&fakeStudents{}, &fakeAssignments{err: appErrors.ErrNoSubjects})
	r.POST("/api/students/:id/assign", h.Assign)

	rec := do(r, http.MethodPost, "/api/students/s1/assign", `{"tutor_id":"t2"}`)

	assert.Equal(t, appErrors.ErrNoSubjects.Status, rec.Code)
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, appErrors.ErrNoSubjects.Code, env.Error.Code)
	data := string(env.Data)
	assert.Contains(t, data, `"state":"assigned"`)
	assert.Contains(t, data, `"tutor_id":"t1"`)
	assert.NotContains(t, data, "pending_tutor_id")
}

func TestStudentAPIAssignRejectsEmptyTutor(t *testing.T) {
	assignments := &fakeAssignments{}
	r := newEngine(t)
	h := NewStudentHandler(&fakeStudents{}, assignments)
	r.POST("/api/students/:id/assign", h.Assign)

	rec := do(r, http.MethodPost, "/api/students/s1/assign", `{"tutor_id":""}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, assignments.student)
}

type fakeClients struct {
	roster *dto.ClientRoster
	err    error
}

func (f *fakeClients) Roster(context.Context) (*dto.ClientRoster, error) {
	return f.roster, f.err
}

func TestClientsPageHidesAssignOnPlaceholder(t *testing.T) {
	roster := &dto.ClientRoster{
		Rows: []viewmodel.ClientRow{
			{ID: "p1:e1", EnrollmentID: "e1", StudentName: "Anna Kowalska", ParentName: "Ewa Kowalska", Subject: "Matematyka", Cell: viewmodel.NewAssignmentCell("", "")},
			{ID: "p2:s3", StudentName: "Kasia Zielińska", ParentName: "Jan Zieliński", Subject: "—", Placeholder: true, Cell: viewmodel.NewAssignmentCell("", "")},
		},
		Tutors: []models.TutorOption{{ID: "t2", FirstName: "Maria", LastName: "Wiśniewska"}},
	}
	r := newEngine(t)
	r.GET("/klienci", NewClientHandler(&fakeClients{roster: roster}, nil).Page)

	body := do(r, http.MethodGet, "/klienci", "").Body.String()

	assert.Contains(t, body, "2 klientów")
	assert.Contains(t, body, `action="/enrollments/e1/assign"`)
	assert.Equal(t, 1, strings.Count(body, "/assign\""))
}

func TestClientAssignEnrollment(t *testing.T) {
	assignments := &fakeAssignments{}
	r := newEngine(t)
	h := NewClientHandler(&fakeClients{}, assignments)
	r.POST("/enrollments/:id/assign", h.AssignForm)
	r.PUT("/api/enrollments/:id/tutor", h.AssignEnrollment)

	rec := do(r, http.MethodPost, "/enrollments/e1/assign", "tutor_id=t2")
	assert.Equal(t, "/klienci", rec.Header().Get("Location"))
	assert.Equal(t, "success|Przypisano korepetytora: Maria Wiśniewska", flashOf(rec))

	rec = do(r, http.MethodPut, "/api/enrollments/e1/tutor", `{"tutor_id":"t2"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "e1", assignments.student)
}

type fakeTutors struct {
	list      *dto.TutorList
	err       error
	filter    models.TutorFilter
	bulk      models.BulkTutorRequest
	outcome   *dto.BulkOutcome
	detailErr error
}

func (f *fakeTutors) List(_ context.Context, filter models.TutorFilter) (*dto.TutorList, error) {
	f.filter = filter
	return f.list, f.err
}

func (f *fakeTutors) BulkAction(_ context.Context, req models.BulkTutorRequest) (*dto.BulkOutcome, error) {
	f.bulk = req
	return f.outcome, f.err
}

func (f *fakeTutors) Export(_ context.Context, filter models.TutorFilter, format string) (*dto.FileExport, error) {
	f.filter = filter
	if format == "xlsx" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "nieobsługiwany format eksportu")
	}
	return &dto.FileExport{Filename: "korepetytorzy.csv", ContentType: "text/csv; charset=utf-8", Body: []byte("a,b\n")}, nil
}

func (f *fakeTutors) Detail(_ context.Context, id string) (*dto.TutorDetail, error) {
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	return &dto.TutorDetail{
		Tutor:    models.Tutor{ID: id, FirstName: "Piotr", LastName: "Nowak"},
		Row:      dto.TutorRow{ID: id, Name: "Piotr Nowak", Subjects: []string{"Matematyka"}, Students: 1, Status: "Aktywny"},
		Students: []viewmodel.TutorStudentRow{{Name: "Anna Kowalska", Subject: "Matematyka", Status: "Aktywny"}},
	}, nil
}

func tutorList() *dto.TutorList {
	return &dto.TutorList{
		Rows: []dto.TutorRow{
			{ID: "t1", Name: "Piotr Nowak", Email: "piotr@example.com", Subjects: []string{"Matematyka", "Fizyka"}, Levels: service.TutorLevels, Students: 2, MonthlyHours: 2.5, Active: true, Status: "Aktywny"},
		},
		Pagination: &models.Pagination{Page: 1, PageSize: 25, TotalCount: 1},
		TotalPages: 1,
		Subjects:   []string{"Fizyka", "Matematyka"},
		Levels:     service.TutorLevels,
	}
}

func TestTutorsPageBindsFilters(t *testing.T) {
	tutors := &fakeTutors{list: tutorList()}
	r := newEngine(t)
	r.GET("/korepetytorzy", NewTutorHandler(tutors).Page)

	rec := do(r, http.MethodGet, "/korepetytorzy?subject=Fizyka&status=active&min_hours=1.5&max_hours=", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Matematyka, Fizyka")
	assert.Contains(t, body, "2.5")
	assert.Contains(t, body, "1 korepetytorów")
	assert.Contains(t, body, `/korepetytorzy/export?min_hours=1.5&amp;status=active&amp;subject=Fizyka&format=csv`)
	assert.Equal(t, "Fizyka", tutors.filter.Subject)
	require.NotNil(t, tutors.filter.MinHours)
	assert.Equal(t, 1.5, *tutors.filter.MinHours)
	assert.Nil(t, tutors.filter.MaxHours)
}

func TestTutorBulkFormExportStreamsFile(t *testing.T) {
	tutors := &fakeTutors{outcome: &dto.BulkOutcome{
		Result: models.BulkResult{Action: models.BulkExport, Affected: 1},
		File:   &dto.FileExport{Filename: "zaznaczeni_korepetytorzy.csv", ContentType: "text/csv; charset=utf-8", Body: []byte("x\n")},
	}}
	r := newEngine(t)
	r.POST("/korepetytorzy/bulk", NewTutorHandler(tutors).BulkForm)

	rec := do(r, http.MethodPost, "/korepetytorzy/bulk", "action=export&ids=t1&ids=t2&status=active&min_hours=")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="zaznaczeni_korepetytorzy.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, []string{"t1", "t2"}, tutors.bulk.IDs)
	assert.Equal(t, "active", tutors.bulk.Filter.Status)
	assert.Nil(t, tutors.bulk.Filter.MinHours)
}

func TestTutorBulkFormSelectAllRedirectsToFilteredList(t *testing.T) {
	tutors := &fakeTutors{outcome: &dto.BulkOutcome{Message: "Dezaktywowano korepetytorów: 3"}}
	r := newEngine(t)
	r.POST("/korepetytorzy/bulk", NewTutorHandler(tutors).BulkForm)

	rec := do(r, http.MethodPost, "/korepetytorzy/bulk", "action=deactivate&all=true&subject=Chemia")

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/korepetytorzy?subject=Chemia", rec.Header().Get("Location"))
	assert.True(t, tutors.bulk.All)
	assert.Equal(t, "success|Dezaktywowano korepetytorów: 3", flashOf(rec))
}

func TestTutorExportAndDetail(t *testing.T) {
	tutors := &fakeTutors{}
	r := newEngine(t)
	h := NewTutorHandler(tutors)
	r.GET("/korepetytorzy/export", h.ExportFile)
	r.GET("/korepetytorzy/:id", h.DetailPage)

	rec := do(r, http.MethodGet, "/korepetytorzy/export?status=inactive", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "inactive", tutors.filter.Status)

	rec = do(r, http.MethodGet, "/korepetytorzy/export?format=xlsx", "")
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	rec = do(r, http.MethodGet, "/korepetytorzy/t1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Anna Kowalska")

	tutors.detailErr = appErrors.Clone(appErrors.ErrNotFound, "nie znaleziono korepetytora")
	rec = do(r, http.MethodGet, "/korepetytorzy/ghost", "")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/korepetytorzy", rec.Header().Get("Location"))
	assert.Equal(t, "error|nie znaleziono korepetytora", flashOf(rec))
}

type fakeReservations struct {
	items     []models.Reservation
	createErr error
	cancelErr error
	cancelled string
}

func (f *fakeReservations) List(_ context.Context, filter service.ReservationFilter) ([]models.Reservation, models.ReservationStats, error) {
	return f.items, service.ReservationStatsOf(f.items), nil
}

func (f *fakeReservations) Create(_ context.Context, req models.CreateReservationRequest) (*models.Reservation, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Reservation{ID: "r9", StudentName: req.StudentName, Date: req.Date, Time: req.StartTime + "-10:00"}, nil
}

func (f *fakeReservations) Cancel(_ context.Context, id string, _ models.CancelReservationRequest) (*models.Reservation, error) {
	f.cancelled = id
	if f.cancelErr != nil {
		return nil, f.cancelErr
	}
	return &models.Reservation{ID: id, Status: models.ReservationCancelled}, nil
}

func TestReservationsPageAndForms(t *testing.T) {
	reservations := &fakeReservations{items: []models.Reservation{
		{ID: "r1", StudentName: "Anna Kowalska", Subject: "Matematyka", Status: models.ReservationCompleted, Price: 80},
		{ID: "r2", StudentName: "Jan Wiśniewski", Subject: "Chemia", Status: models.ReservationCancelled, Price: 90},
	}}
	r := newEngine(t)
	h := NewReservationHandler(reservations)
	r.GET("/rezerwacje", h.Page)
	r.POST("/rezerwacje", h.CreateForm)
	r.POST("/rezerwacje/:id/cancel", h.CancelForm)

	body := do(r, http.MethodGet, "/rezerwacje", "").Body.String()
	assert.Contains(t, body, "2 rezerwacji")
	assert.Contains(t, body, "Przychód 80.00 zł")
	assert.Contains(t, body, `action="/rezerwacje/r1/cancel"`)
	assert.NotContains(t, body, `action="/rezerwacje/r2/cancel"`)

	rec := do(r, http.MethodPost, "/rezerwacje", "student_name=Ola&date=2026-10-20&start_time=09:00")
	assert.Equal(t, "/rezerwacje", rec.Header().Get("Location"))
	assert.Equal(t, "success|Dodano rezerwację: Ola, 2026-10-20 09:00-10:00", flashOf(rec))

	reservations.cancelErr = appErrors.Clone(appErrors.ErrConflict, "rezerwacja jest już anulowana")
	rec = do(r, http.MethodPost, "/rezerwacje/r2/cancel", "reason=choroba")
	assert.Equal(t, "error|rezerwacja jest już anulowana", flashOf(rec))
	assert.Equal(t, "r2", reservations.cancelled)
}

type fakePayments struct {
	list   *dto.PaymentList
	action models.PaymentActionRequest
}

func (f *fakePayments) List(_ context.Context, tab string) (*dto.PaymentList, error) {
	if tab == "refunded" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "nieznana zakładka płatności")
	}
	return f.list, nil
}

func (f *fakePayments) Action(_ context.Context, req models.PaymentActionRequest) (*dto.PaymentActionOutcome, error) {
	f.action = req
	return &dto.PaymentActionOutcome{Action: req.Action, Affected: len(req.StudentIDs), Message: "Wysłano przypomnienia: 2"}, nil
}

func (f *fakePayments) Report(_ context.Context, tab, format string) (*dto.FileExport, error) {
	return &dto.FileExport{Filename: "raport_platnosci." + format, ContentType: "application/pdf", Body: []byte("%PDF")}, nil
}

func TestPaymentsPageActionsAndReport(t *testing.T) {
	payments := &fakePayments{list: &dto.PaymentList{
		Tab:    "overdue",
		Counts: models.PaymentCounts{Total: 4, Overdue: 1},
		Items:  []models.PaymentItem{{StudentID: "s3", Name: "Kasia Zielińska", Status: models.PaymentOverdue, Amount: 100, DueDate: "2026-10-10"}},
	}}
	r := newEngine(t)
	h := NewPaymentHandler(payments)
	r.GET("/platnosci", h.Page)
	r.POST("/platnosci/actions", h.ActionForm)
	r.GET("/platnosci/report", h.ReportFile)

	body := do(r, http.MethodGet, "/platnosci?tab=overdue", "").Body.String()
	assert.Contains(t, body, "Zaległe (1)")
	assert.Contains(t, body, "100 zł")
	assert.Contains(t, body, "Zaległe</td>")

	failed := do(r, http.MethodGet, "/platnosci?tab=refunded", "").Body.String()
	assert.Contains(t, failed, "Nie udało się pobrać płatności.")

	rec := do(r, http.MethodPost, "/platnosci/actions", "action=remind&student_ids=s1&student_ids=s3&tab=overdue")
	assert.Equal(t, "/platnosci?tab=overdue", rec.Header().Get("Location"))
	assert.Equal(t, []string{"s1", "s3"}, payments.action.StudentIDs)

	rec = do(r, http.MethodGet, "/platnosci/report?tab=all&format=pdf", "")
	assert.Equal(t, `attachment; filename="raport_platnosci.pdf"`, rec.Header().Get("Content-Disposition"))
}

type fakeWebhooks struct {
	enabled bool
	result  webhook.Result
	err     error
}

func (f *fakeWebhooks) Enabled() bool { return f.enabled }

func (f *fakeWebhooks) SendTest(context.Context, dto.WebhookTestRequest) (webhook.Result, error) {
	return f.result, f.err
}

func TestWebhookPage(t *testing.T) {
	hooks := &fakeWebhooks{enabled: false}
	r := newEngine(t)
	h := NewWebhookHandler(hooks)
	r.GET("/webhook-test", h.Page)
	r.POST("/webhook-test", h.Submit)

	assert.Contains(t, do(r, http.MethodGet, "/webhook-test", "").Body.String(), "Wysyłka jest wyłączona")

	hooks.enabled = true
	hooks.result = webhook.Result{Success: false, Error: "status 502"}
	body := do(r, http.MethodPost, "/webhook-test", "kind=cancellation&reservation_id=r1").Body.String()
	assert.Contains(t, body, "Wysyłka webhooka nie powiodła się: status 502")

	hooks.result = webhook.Result{Success: true}
	body = do(r, http.MethodPost, "/webhook-test", "kind=cancellation&reservation_id=r1").Body.String()
	assert.Contains(t, body, `toast success`)
}

type fakeDashboard struct {
	summary *models.DashboardSummary
	hit     bool
	err     error
}

func (f *fakeDashboard) Summary(context.Context) (*models.DashboardSummary, bool, error) {
	return f.summary, f.hit, f.err
}

func TestDashboardSummaryAPIReportsCacheHit(t *testing.T) {
	r := newEngine(t)
	h := NewDashboardHandler(&fakeDashboard{summary: &models.DashboardSummary{Students: 4, ActiveTutors: 2}, hit: true})
	r.GET("/api/dashboard", h.Summary)
	r.GET("/dashboard", h.Page)

	rec := do(r, http.MethodGet, "/api/dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, true, env.Meta["cache_hit"])
	assert.Contains(t, string(env.Data), `"students":4`)

	assert.Contains(t, do(r, http.MethodGet, "/dashboard", "").Body.String(), "4 uczniów")
}

func TestDashboardPageShowsBannerOnFailure(t *testing.T) {
	r := newEngine(t)
	r.GET("/dashboard", NewDashboardHandler(&fakeDashboard{err: errors.New("db down")}).Page)

	assert.Contains(t, do(r, http.MethodGet, "/dashboard", "").Body.String(), "Nie udało się pobrać podsumowania.")
}
