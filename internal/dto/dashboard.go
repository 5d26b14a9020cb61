package dto

import "github.com/noah-isme/korepetycje-admin/internal/models"

// DashboardResponse wraps the summary with its cache provenance.
type DashboardResponse struct {
	Summary  models.DashboardSummary `json:"summary"`
	CacheHit bool                    `json:"cache_hit"`
}
