package repository

// Column sets and embeds shared by the roster queries.
var (
	studentColumns    = []string{"id", "first_name", "last_name", "active", "notes", "created_at"}
	enrollmentColumns = []string{"id", "student_id", "subject_id", "tutor_id", "status", "created_at"}
)

func subjectEmbed() Embed {
	return Embed{
		Alias:       "subjects",
		Table:       "subjects",
		Columns:     []string{"id", "name", "color"},
		LocalKey:    "subject_id",
		ForeignKey:  "id",
		Cardinality: ToOne,
	}
}

func tutorEmbed() Embed {
	return Embed{
		Alias:       "tutors",
		Table:       "tutors",
		Columns:     []string{"id", "first_name", "last_name"},
		LocalKey:    "tutor_id",
		ForeignKey:  "id",
		Cardinality: ToOne,
	}
}

func studentEmbed() Embed {
	return Embed{
		Alias:       "students",
		Table:       "students",
		Columns:     []string{"id", "first_name", "last_name"},
		LocalKey:    "student_id",
		ForeignKey:  "id",
		Cardinality: ToOne,
	}
}

func parentEmbed() Embed {
	return Embed{
		Alias:       "parents",
		Table:       "parents",
		Columns:     []string{"id", "first_name", "last_name", "email", "phone"},
		LocalKey:    "parent_id",
		ForeignKey:  "id",
		Cardinality: ToOne,
	}
}
