package handler

import (
	"context"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/noah-isme/korepetycje-admin/internal/dto"
	"github.com/noah-isme/korepetycje-admin/internal/middleware"
	"github.com/noah-isme/korepetycje-admin/internal/models"
	"github.com/noah-isme/korepetycje-admin/internal/viewmodel"
	appErrors "github.com/noah-isme/korepetycje-admin/pkg/errors"
	"github.com/noah-isme/korepetycje-admin/pkg/response"
)

const tutorsPath = "/korepetytorzy"

type tutorService interface {
	List(ctx context.Context, filter models.TutorFilter) (*dto.TutorList, error)
	BulkAction(ctx context.Context, req models.BulkTutorRequest) (*dto.BulkOutcome, error)
	Export(ctx context.Context, filter models.TutorFilter, format string) (*dto.FileExport, error)
	Detail(ctx context.Context, id string) (*dto.TutorDetail, error)
}

// TutorHandler exposes the tutors table, bulk actions, exports and the
// tutor detail page.
type TutorHandler struct {
	tutors tutorService
}

// NewTutorHandler constructs TutorHandler.
func NewTutorHandler(tutors tutorService) *TutorHandler {
	return &TutorHandler{tutors: tutors}
}

type tutorsVM struct {
	BaseVM
	Load     viewmodel.Load
	List     *dto.TutorList
	Filter   models.TutorFilter
	MinHours string
	MaxHours string
	Query    template.URL
}

type tutorDetailVM struct {
	BaseVM
	Detail *dto.TutorDetail
}

// tutorFilter reads the filter from the query string or a posted form.
// Blank hour bounds mean unbounded.
func tutorFilter(c *gin.Context) models.TutorFilter {
	var filter models.TutorFilter
	_ = c.ShouldBindWith(&filter, binding.Form)
	filter.Search = strings.TrimSpace(filter.Search)
	if strings.TrimSpace(formValue(c, "min_hours")) == "" {
		filter.MinHours = nil
	}
	if strings.TrimSpace(formValue(c, "max_hours")) == "" {
		filter.MaxHours = nil
	}
	return filter
}

func formValue(c *gin.Context, key string) string {
	if v, ok := c.GetQuery(key); ok {
		return v
	}
	return c.PostForm(key)
}

func formatBound(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// filterQuery encodes filter without its page so links can append one.
func filterQuery(filter models.TutorFilter) url.Values {
	values := url.Values{}
	set := func(key, value string) {
		if value != "" {
			values.Set(key, value)
		}
	}
	set("q", filter.Search)
	set("subject", filter.Subject)
	set("level", filter.Level)
	set("status", filter.Status)
	set("min_hours", formatBound(filter.MinHours))
	set("max_hours", formatBound(filter.MaxHours))
	set("sort", filter.SortBy)
	set("order", filter.Order)
	return values
}

// Page renders the filtered tutors table.
func (h *TutorHandler) Page(c *gin.Context) {
	filter := tutorFilter(c)
	list, err := h.tutors.List(c.Request.Context(), filter)
	count := 0
	if list == nil {
		list = &dto.TutorList{}
	} else if list.Pagination != nil {
		count = list.Pagination.TotalCount
	}
	response.Page(c, http.StatusOK, "tutors.html", tutorsVM{
		BaseVM:   newBaseVM(c, "Korepetytorzy", "tutors"),
		Load:     viewmodel.NewLoad(count, err, "Nie udało się pobrać listy korepetytorów."),
		List:     list,
		Filter:   filter,
		MinHours: formatBound(filter.MinHours),
		MaxHours: formatBound(filter.MaxHours),
		Query:    template.URL(filterQuery(filter).Encode()),
	})
}

// BulkForm applies a bulk action to the checked tutors, or to every tutor
// matching the posted filter when "all" is checked.
func (h *TutorHandler) BulkForm(c *gin.Context) {
	var req models.BulkTutorRequest
	_ = c.ShouldBind(&req)
	req.Filter = tutorFilter(c)
	back := tutorsPath
	if q := filterQuery(req.Filter).Encode(); q != "" {
		back += "?" + q
	}

	outcome, err := h.tutors.BulkAction(c.Request.Context(), req)
	if err != nil {
		redirectWithError(c, back, err)
		return
	}
	if outcome.File != nil {
		response.Attachment(c, outcome.File.Filename, outcome.File.ContentType, outcome.File.Body)
		return
	}
	redirectWithFlash(c, back, middleware.FlashSuccess, outcome.Message)
}

// ExportFile downloads the filtered table as CSV or PDF.
func (h *TutorHandler) ExportFile(c *gin.Context) {
	file, err := h.tutors.Export(c.Request.Context(), tutorFilter(c), c.DefaultQuery("format", dto.FormatCSV))
	if err != nil {
		redirectWithError(c, tutorsPath, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

// DetailPage renders one tutor. Unknown ids go back to the list.
func (h *TutorHandler) DetailPage(c *gin.Context) {
	detail, err := h.tutors.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		if appErrors.FromError(err).Code == appErrors.ErrNotFound.Code {
			redirectWithError(c, tutorsPath, err)
			return
		}
		renderError(c, http.StatusInternalServerError, "Nie udało się pobrać danych korepetytora.")
		return
	}
	response.Page(c, http.StatusOK, "tutor_detail.html", tutorDetailVM{
		BaseVM: newBaseVM(c, detail.Row.Name, "tutors"),
		Detail: detail,
	})
}

// List godoc
// @Summary List tutors
// @Tags Tutors
// @Produce json
// @Param q query string false "Search by name or e-mail"
// @Param subject query string false "Subject name"
// @Param level query string false "Level"
// @Param status query string false "active or inactive"
// @Param min_hours query number false "Minimum monthly hours"
// @Param max_hours query number false "Maximum monthly hours"
// @Param sort query string false "name, subjects, students, hours or status"
// @Param order query string false "asc or desc"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /tutors [get]
func (h *TutorHandler) List(c *gin.Context) {
	list, err := h.tutors.List(c.Request.Context(), tutorFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list, list.Pagination)
}

// Bulk godoc
// @Summary Apply a bulk action to tutors
// @Description Export returns the CSV file instead of the JSON envelope
// @Tags Tutors
// @Accept json
// @Produce json
// @Param payload body models.BulkTutorRequest true "Bulk action"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /tutors/bulk [post]
func (h *TutorHandler) Bulk(c *gin.Context) {
	var req models.BulkTutorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.Filter = tutorFilter(c)

	outcome, err := h.tutors.BulkAction(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if outcome.File != nil {
		response.Attachment(c, outcome.File.Filename, outcome.File.ContentType, outcome.File.Body)
		return
	}
	response.JSON(c, http.StatusOK, outcome, nil)
}

// Detail godoc
// @Summary Tutor detail with assigned students
// @Tags Tutors
// @Produce json
// @Param id path string true "Tutor ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /tutors/{id} [get]
func (h *TutorHandler) Detail(c *gin.Context) {
	detail, err := h.tutors.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}
