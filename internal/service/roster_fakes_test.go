package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/korepetycje-admin/internal/models"
)

type fakeRoster struct {
	records []models.StudentRecord
	err     error
	filters []models.StudentFilter
}

func (f *fakeRoster) ListRoster(_ context.Context, filter models.StudentFilter) ([]models.StudentRecord, error) {
	f.filters = append(f.filters, filter)
	if f.err != nil {
		return nil, f.err
	}
	if filter.ID == "" {
		return f.records, nil
	}
	for _, rec := range f.records {
		if rec.ID == filter.ID {
			return []models.StudentRecord{rec}, nil
		}
	}
	return nil, nil
}

func (f *fakeRoster) FindByID(_ context.Context, id string) (*models.Student, error) {
	for _, rec := range f.records {
		if rec.ID == id {
			student := rec.Student
			return &student, nil
		}
	}
	return nil, sql.ErrNoRows
}

type fakeTutorOptions struct {
	options []models.TutorOption
}

func (f *fakeTutorOptions) ListActiveOptions(context.Context) ([]models.TutorOption, error) {
	return f.options, nil
}

type fakeSubjects struct {
	subjects []models.Subject
}

func (f *fakeSubjects) ListActive(context.Context) ([]models.Subject, error) {
	return f.subjects, nil
}

// rosterFixture holds four students: two with an active assigned
// enrollment, one with an unassigned one and one without enrollments.
func rosterFixture(t *testing.T) []models.StudentRecord {
	t.Helper()
	var records []models.StudentRecord
	require.NoError(t, json.Unmarshal([]byte(`[
		{"id":"s1","first_name":"Anna","last_name":"Kowalska","active":true,"enrollments":[
			{"id":"e1","student_id":"s1","subject_id":"m","tutor_id":"t1","status":"active",
				"subjects":{"id":"m","name":"Matematyka"},"tutors":{"id":"t1","first_name":"Piotr","last_name":"Nowak"}},
			{"id":"e2","student_id":"s1","subject_id":"f","tutor_id":"t1","status":"active",
				"subjects":{"id":"f","name":"Fizyka"},"tutors":{"id":"t1","first_name":"Piotr","last_name":"Nowak"}}]},
		{"id":"s2","first_name":"Jan","last_name":"Wiśniewski","active":true,"enrollments":[
			{"id":"e3","student_id":"s2","subject_id":"c","tutor_id":null,"status":"active",
				"subjects":[{"id":"c","name":"Chemia"}],"tutors":[]}]},
		{"id":"s3","first_name":"Kasia","last_name":"Zielińska","active":true,"enrollments":[]},
		{"id":"s4","first_name":"Michał","last_name":"Nowak","active":false,"enrollments":[
			{"id":"e4","student_id":"s4","subject_id":"m","tutor_id":"t2","status":"ended",
				"subjects":{"id":"m","name":"Matematyka"},"tutors":{"id":"t2","first_name":"Maria","last_name":"Wiśniewska"}}]}
	]`), &records))
	return records
}
