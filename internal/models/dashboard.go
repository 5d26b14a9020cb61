package models

import "time"

// DashboardSummary aggregates headline counts for the landing page.
type DashboardSummary struct {
	Students          int              `json:"students"`
	ActiveTutors      int              `json:"active_tutors"`
	ActiveEnrollments int              `json:"active_enrollments"`
	Unassigned        int              `json:"unassigned_enrollments"`
	Reservations      ReservationStats `json:"reservations"`
	GeneratedAt       time.Time        `json:"generated_at"`
}

// DashboardCounts is the database part of the summary.
type DashboardCounts struct {
	Students          int `db:"students"`
	ActiveTutors      int `db:"active_tutors"`
	ActiveEnrollments int `db:"active_enrollments"`
	Unassigned        int `db:"unassigned"`
}

// SystemMetrics represents runtime metrics captured from instrumentation.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"avg_request_duration_ms"`
	DBQueryCount             uint64    `json:"db_query_count"`
	AverageDBQueryDurationMs float64   `json:"avg_db_query_duration_ms"`
	WebhooksDelivered        uint64    `json:"webhooks_delivered"`
	WebhooksFailed           uint64    `json:"webhooks_failed"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
