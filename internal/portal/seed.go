package portal

import (
	"context"

	"github.com/mind-engage/mindengage-portal/internal/quiz"
)

type demoCourse struct {
	course quiz.Course
	stubs  []quiz.Stub
}

var demoCourses = []demoCourse{
	{quiz.Course{ID: "c-data-structures", Title: "Data Structures"}, weekly("ds")},
	{quiz.Course{ID: "c-algorithms", Title: "Design and Analysis of Algorithms"}, weekly("alg")},
	{quiz.Course{ID: "c-databases", Title: "Database Systems"}, weekly("db")},
	{quiz.Course{ID: "c-operating-systems", Title: "Operating Systems"}, weekly("os")},
	{quiz.Course{ID: "c-computer-networks", Title: "Computer Networks"}, weekly("net")},
	{quiz.Course{ID: "c-software-engineering", Title: "Software Engineering"}, weekly("se")},
	// no authored bank: served from the fallback set
	{quiz.Course{ID: "c-academic-skills", Title: "Academic Skills"}, weekly("as")},
}

func weekly(prefix string) []quiz.Stub {
	return []quiz.Stub{
		{ID: prefix + "-q1", Title: "Week 2 self-check", Category: "Self-check", Date: "2026-09-14", Status: "closed"},
		{ID: prefix + "-q2", Title: "Week 6 self-check", Category: "Self-check", Date: "2026-10-12", Status: "open"},
		{ID: prefix + "-q3", Title: "Midterm practice", Category: "Practice", Date: "2026-10-26", Status: "upcoming"},
	}
}

// Seed installs the demo courses used in offline mode. Existing rows are
// updated in place.
func Seed(ctx context.Context, src *SQLSource) error {
	for _, d := range demoCourses {
		if err := src.PutCourse(ctx, d.course, d.stubs); err != nil {
			return err
		}
	}
	return nil
}
