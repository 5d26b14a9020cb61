package repository

import (
	"context"
	"fmt"

	"github.com/noah-isme/korepetycje-admin/internal/models"
)

// ParentRepository reads parent to student links.
type ParentRepository struct {
	fetcher *RecordFetcher
}

// NewParentRepository constructs a ParentRepository.
func NewParentRepository(fetcher *RecordFetcher) *ParentRepository {
	return &ParentRepository{fetcher: fetcher}
}

// ListLinks returns every student_parents row with the parent and student
// embedded, primary contacts first.
func (r *ParentRepository) ListLinks(ctx context.Context) ([]models.StudentParentRecord, error) {
	q := Query{
		Label:   "student_parents.links",
		Table:   "student_parents",
		Columns: []string{"student_id", "parent_id", "is_primary", "relation"},
		Embeds:  []Embed{parentEmbed(), studentEmbed()},
		Order:   []Order{Desc("is_primary"), Asc("parent_id")},
	}
	var links []models.StudentParentRecord
	if _, err := r.fetcher.Fetch(ctx, q, &links); err != nil {
		return nil, fmt.Errorf("list parent links: %w", err)
	}
	return links, nil
}
