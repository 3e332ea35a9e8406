package quiz

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-portal/internal/quizbank"
)

func dsCourse() Course { return Course{ID: "c-data-structures", Title: "Data Structures"} }

func stub(id string) Stub {
	return Stub{ID: id, Title: "Week 1 check", Category: "Self-check", Date: "2026-10-19", Status: "open"}
}

func TestBuildDataStructuresQuiz(t *testing.T) {
	c := Build(dsCourse(), stub("q1"), quizbank.Builtin())

	require.Len(t, c.Questions, 4)
	for i, q := range c.Questions {
		assert.Equal(t, fmt.Sprintf("q1-q%d", i+1), q.ID)
		require.Len(t, q.Options, 4)
		for j, o := range q.Options {
			assert.Equal(t, fmt.Sprintf("%s-opt-%d", q.ID, j), o.ID)
			assert.Equal(t, string(rune('A'+j)), o.Label)
		}
	}
	assert.Equal(t, "q1", c.QuizID)
	assert.Equal(t, "Week 1 check", c.Title)
	assert.Equal(t, "Self-check", c.Category)
	assert.Equal(t, "2026-10-19", c.Date)
	assert.Contains(t, c.Description, "Data Structures")
	assert.Equal(t, 15, c.TimeLimitMinutes)
	assert.Equal(t, "q1-q1-opt-1", c.Questions[0].CorrectOptionID)
}

func TestBuildEveryBuiltinCourseHasUniqueIDs(t *testing.T) {
	reg := quizbank.Builtin()
	for _, id := range reg.CourseIDs() {
		t.Run(id, func(t *testing.T) {
			c := Build(Course{ID: id, Title: id}, stub("qz"), reg)
			require.Len(t, c.Questions, len(reg.Templates(id)))

			seen := map[string]bool{}
			for _, q := range c.Questions {
				require.False(t, seen[q.ID], "duplicate question id %s", q.ID)
				seen[q.ID] = true
				found := false
				for _, o := range q.Options {
					require.False(t, seen[o.ID], "duplicate option id %s", o.ID)
					seen[o.ID] = true
					if o.ID == q.CorrectOptionID {
						found = true
					}
				}
				assert.True(t, found, "correct option of %s not among its options", q.ID)
			}
		})
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	reg := quizbank.Builtin()
	a := Build(dsCourse(), stub("q7"), reg)
	b := Build(dsCourse(), stub("q7"), reg)
	assert.Equal(t, a, b)
}

func TestBuildClampsAnswerIndex(t *testing.T) {
	reg := quizbank.NewStaticRegistry(map[string]quizbank.Entry{
		"c-x": {Templates: []quizbank.QuestionTemplate{
			{Text: "high", Options: []string{"a", "b", "c"}, AnswerIndex: 99},
			{Text: "low", Options: []string{"a", "b", "c"}, AnswerIndex: -4},
			{Text: "empty", Options: nil, AnswerIndex: 2},
		}},
	}, quizbank.FallbackEntry())

	c := Build(Course{ID: "c-x", Title: "X"}, stub("q1"), reg)
	require.Len(t, c.Questions, 3)
	assert.Equal(t, "q1-q1-opt-2", c.Questions[0].CorrectOptionID)
	assert.Equal(t, "q1-q2-opt-0", c.Questions[1].CorrectOptionID)
	assert.Empty(t, c.Questions[2].Options)
	assert.Empty(t, c.Questions[2].CorrectOptionID)
	// nil description generator
	assert.Equal(t, "", c.Description)
}

func TestBuildUnknownCourseUsesFallback(t *testing.T) {
	c := Build(Course{ID: "c-unknown", Title: "Basket Weaving"}, stub("q3"), quizbank.Builtin())

	fb := quizbank.FallbackEntry()
	require.Len(t, c.Questions, 3)
	assert.Equal(t, fb.Meta.TimeLimitMinutes, c.TimeLimitMinutes)
	assert.Equal(t, fb.Meta.FocusAreas, c.FocusAreas)
	assert.Equal(t, fb.Meta.Describe("Basket Weaving"), c.Description)
}

func TestOptionLabel(t *testing.T) {
	cases := map[int]string{0: "A", 1: "B", 25: "Z", 26: "AA", 27: "AB", 51: "AZ", 52: "BA", -1: ""}
	for in, want := range cases {
		assert.Equal(t, want, OptionLabel(in), "index %d", in)
	}
}

func TestStudentViewHidesAnswers(t *testing.T) {
	c := Build(dsCourse(), stub("q1"), quizbank.Builtin())
	v := c.StudentView()
	for _, q := range v.Questions {
		assert.Empty(t, q.CorrectOptionID)
	}
	assert.NotEmpty(t, c.Questions[0].CorrectOptionID, "built content must be untouched")
}
