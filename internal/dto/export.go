package dto

// Export formats accepted by the export endpoints.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

// FileExport is a rendered download.
type FileExport struct {
	Filename    string
	ContentType string
	Body        []byte
}
