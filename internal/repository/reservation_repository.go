package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/noah-isme/korepetycje-admin/internal/models"
)

// ReservationRepository is an in-memory reservation catalogue seeded with
// sample lessons. Reservations are not persisted.
type ReservationRepository struct {
	mu    sync.RWMutex
	items []models.Reservation
}

// NewReservationRepository returns a catalogue holding the sample lessons.
func NewReservationRepository() *ReservationRepository {
	return NewReservationRepositoryWith(SampleReservations())
}

// NewReservationRepositoryWith returns a catalogue holding items.
func NewReservationRepositoryWith(items []models.Reservation) *ReservationRepository {
	copied := make([]models.Reservation, len(items))
	copy(copied, items)
	return &ReservationRepository{items: copied}
}

// List returns a snapshot of all reservations in booking order.
func (r *ReservationRepository) List(_ context.Context) ([]models.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Reservation, len(r.items))
	copy(out, r.items)
	return out, nil
}

// Create appends a reservation, assigning an ID when missing.
func (r *ReservationRepository) Create(_ context.Context, reservation *models.Reservation) error {
	if reservation.ID == "" {
		reservation.ID = uuid.NewString()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, *reservation)
	return nil
}

// UpdateStatus changes the status of one reservation and returns the
// updated copy, or nil when absent. guard sees the stored record under the
// write lock; a non-nil error from it leaves the record untouched.
func (r *ReservationRepository) UpdateStatus(_ context.Context, id string, status models.ReservationStatus, guard func(models.Reservation) error) (*models.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID != id {
			continue
		}
		if guard != nil {
			if err := guard(r.items[i]); err != nil {
				return nil, err
			}
		}
		r.items[i].Status = status
		updated := r.items[i]
		return &updated, nil
	}
	return nil, nil
}

// SampleReservations returns the demo lessons shown on the reservations page.
func SampleReservations() []models.Reservation {
	return []models.Reservation{
		{ID: "1", StudentName: "Anna Kowalska", Subject: "Matematyka", Level: "Liceum", TutorName: "Piotr Nowak", Date: "2024-01-15", Time: "14:00-15:00", Duration: 60, Status: models.ReservationConfirmed, Price: 80, Location: "Online", Notes: "Przygotowanie do matury"},
		{ID: "2", StudentName: "Jan Wiśniewski", Subject: "Fizyka", Level: "Studia", TutorName: "Maria Wiśniewska", Date: "2024-01-16", Time: "16:00-17:30", Duration: 90, Status: models.ReservationInProgress, Price: 120, Location: "Stacjonarnie", Notes: "Mechanika kwantowa"},
		{ID: "3", StudentName: "Katarzyna Zielińska", Subject: "Chemia", Level: "Matura", TutorName: "Tomasz Kaczmarek", Date: "2024-01-17", Time: "10:00-11:00", Duration: 60, Status: models.ReservationScheduled, Price: 80, Location: "Online", Notes: "Chemia organiczna"},
		{ID: "4", StudentName: "Michał Nowak", Subject: "Język angielski", Level: "Gimnazjum", TutorName: "Aleksandra Kaczmarek", Date: "2024-01-18", Time: "15:00-16:00", Duration: 60, Status: models.ReservationCompleted, Price: 70, Location: "Online", Notes: "Gramatyka i słownictwo"},
		{ID: "5", StudentName: "Aleksandra Kaczmarek", Subject: "Biologia", Level: "Liceum", TutorName: "Katarzyna Zielińska", Date: "2024-01-19", Time: "13:00-14:00", Duration: 60, Status: models.ReservationCancelled, Price: 80, Location: "Stacjonarnie", Notes: "Genetyka - odwołana przez ucznia"},
		{ID: "6", StudentName: "Piotr Kowalski", Subject: "Historia", Level: "Szkoła podstawowa", TutorName: "Anna Kowalska", Date: "2024-01-20", Time: "11:00-12:00", Duration: 60, Status: models.ReservationConfirmed, Price: 60, Location: "Stacjonarnie", Notes: "Historia Polski"},
	}
}
