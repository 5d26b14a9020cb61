package viewmodel

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/korepetycje-admin/internal/models"
)

func decodeStudents(t *testing.T, raw string) []models.StudentRecord {
	t.Helper()
	var out []models.StudentRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	return out
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, "Anna Nowak", Display("Anna", "Nowak"))
	assert.Equal(t, "Anna", Display(" Anna ", ""))
	assert.Equal(t, Sentinel, Display())
	assert.Equal(t, Sentinel, Display("", "  "))
}

func TestStudentRowsEmptyRelationsRenderSentinel(t *testing.T) {
	records := decodeStudents(t, `[
		{"id":"s1","first_name":"Jan","last_name":"Kowalski","active":true,"enrollments":[]},
		{"id":"s2","first_name":"","last_name":"","active":true,"enrollments":null}
	]`)

	rows := StudentRows(records)
	require.Len(t, rows, 2)

	assert.Equal(t, "Jan Kowalski", rows[0].Name)
	assert.Equal(t, Sentinel, rows[0].Subject)
	assert.Equal(t, Sentinel, rows[0].Status)
	assert.Equal(t, Sentinel, rows[0].Cell.TutorName)
	assert.Equal(t, CellUnassigned, rows[0].Cell.State)
	assert.Equal(t, 0, rows[0].Enrollments)

	assert.Equal(t, Sentinel, rows[1].Name)
}

func TestStudentRowsObjectAndListAreIdentical(t *testing.T) {
	asObject := decodeStudents(t, `[{"id":"s1","first_name":"Ola","last_name":"Lis","active":true,
		"enrollments":{"id":"e1","student_id":"s1","subject_id":"m","tutor_id":"t1","status":"active",
			"subjects":{"id":"m","name":"Matematyka","color":"#f00"},
			"tutors":{"id":"t1","first_name":"Piotr","last_name":"Zieliński"}}}]`)
	asList := decodeStudents(t, `[{"id":"s1","first_name":"Ola","last_name":"Lis","active":true,
		"enrollments":[{"id":"e1","student_id":"s1","subject_id":"m","tutor_id":"t1","status":"active",
			"subjects":[{"id":"m","name":"Matematyka","color":"#f00"}],
			"tutors":[{"id":"t1","first_name":"Piotr","last_name":"Zieliński"}]}]}]`)

	left, err := json.Marshal(StudentRows(asObject))
	require.NoError(t, err)
	right, err := json.Marshal(StudentRows(asList))
	require.NoError(t, err)
	assert.Equal(t, string(left), string(right))

	rows := StudentRows(asObject)
	assert.Equal(t, "Matematyka", rows[0].Subject)
	assert.Equal(t, "W trakcie", rows[0].Status)
	assert.Equal(t, CellAssigned, rows[0].Cell.State)
	assert.Equal(t, "Piotr Zieliński", rows[0].Cell.TutorName)
}

func TestStudentRowsPrefersActiveEnrollment(t *testing.T) {
	records := decodeStudents(t, `[{"id":"s1","first_name":"Ola","last_name":"Lis","active":true,
		"enrollments":[
			{"id":"e1","student_id":"s1","status":"ended","subjects":{"id":"f","name":"Fizyka"}},
			{"id":"e2","student_id":"s1","status":"active","subjects":{"id":"m","name":"Matematyka"}}
		]}]`)

	rows := StudentRows(records)
	require.Len(t, rows, 1)
	assert.Equal(t, "e2", rows[0].EnrollmentID)
	assert.Equal(t, "Matematyka", rows[0].Subject)
	assert.Equal(t, 2, rows[0].Enrollments)
}

func TestClientRows(t *testing.T) {
	var links []models.StudentParentRecord
	require.NoError(t, json.Unmarshal([]byte(`[
		{"student_id":"s1","parent_id":"p1","is_primary":true,"relation":"mother",
			"parents":{"id":"p1","first_name":"Ewa","last_name":"Lis","email":"ewa@example.com","phone":""},
			"students":{"id":"s1","first_name":"Ola","last_name":"Lis"}},
		{"student_id":"s2","parent_id":"p2","is_primary":false,"relation":"father",
			"parents":[{"id":"p2","first_name":"Adam","last_name":"Nowak","email":"","phone":"600100200"}],
			"students":[{"id":"s2","first_name":"Kuba","last_name":"Nowak"}]},
		{"student_id":"s3","parent_id":"p3","is_primary":false,"relation":"other",
			"parents":null,"students":{"id":"s3","first_name":"X","last_name":"Y"}}
	]`), &links))

	var enrollments []models.EnrollmentRecord
	require.NoError(t, json.Unmarshal([]byte(`[
		{"id":"e1","student_id":"s1","status":"active","subjects":{"id":"m","name":"Matematyka"},"tutors":null},
		{"id":"e2","student_id":"s1","status":"paused","tutor_id":"t1","subjects":{"id":"f","name":"Fizyka"},
			"tutors":{"id":"t1","first_name":"Piotr","last_name":"Zieliński"}}
	]`), &enrollments))

	rows := ClientRows(links, enrollments)
	require.Len(t, rows, 3)

	assert.Equal(t, "p1:e1", rows[0].ID)
	assert.Equal(t, "Matka", rows[0].Relation)
	assert.Equal(t, Sentinel, rows[0].Phone)
	assert.Equal(t, Sentinel, rows[0].PaymentStatus)
	assert.Equal(t, CellUnassigned, rows[0].Cell.State)
	assert.False(t, rows[0].Placeholder)

	assert.Equal(t, "p1:e2", rows[1].ID)
	assert.Equal(t, CellAssigned, rows[1].Cell.State)
	assert.Equal(t, "Piotr Zieliński", rows[1].Cell.TutorName)

	assert.Equal(t, "p2:s2", rows[2].ID)
	assert.True(t, rows[2].Placeholder)
	assert.Empty(t, rows[2].EnrollmentID)
	assert.Equal(t, Sentinel, rows[2].Subject)
	assert.Equal(t, Sentinel, rows[2].Email)
	assert.Equal(t, "Ojciec", rows[2].Relation)
}

func TestTutorStudentRows(t *testing.T) {
	var records []models.EnrollmentRecord
	require.NoError(t, json.Unmarshal([]byte(`[
		{"id":"e1","student_id":"s1","status":"ended","students":{"id":"s1","first_name":"Ola","last_name":"Lis"},"subjects":[]}
	]`), &records))

	rows := TutorStudentRows(records)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ola Lis", rows[0].Name)
	assert.Equal(t, Sentinel, rows[0].Subject)
	assert.Equal(t, "Zakończone", rows[0].Status)
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Wstrzymane", EnrollmentStatusLabel(models.EnrollmentStatusPaused))
	assert.Equal(t, Sentinel, EnrollmentStatusLabel("unknown"))
	assert.Equal(t, "Opiekun", RelationLabel(models.RelationGuardian))
	assert.Equal(t, Sentinel, RelationLabel(""))
}
