package quiz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-portal/internal/quizbank"
)

var t0 = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func allCorrect(c Content) map[string]string {
	out := map[string]string{}
	for _, q := range c.Questions {
		out[q.ID] = q.CorrectOptionID
	}
	return out
}

func TestScoreNoAnswers(t *testing.T) {
	c := Build(dsCourse(), stub("q1"), quizbank.Builtin())
	r := Score(c, map[string]string{}, t0, t0.Add(3*time.Minute))

	assert.Equal(t, 0, r.ScorePercent)
	assert.Equal(t, 0, r.AnsweredCount)
	assert.Equal(t, 4, r.TotalQuestions)
	assert.Equal(t, Stat{Label: "Completion", Value: "0%"}, r.SummaryStats[2])
}

func TestScoreAllCorrect(t *testing.T) {
	c := Build(dsCourse(), stub("q1"), quizbank.Builtin())
	r := Score(c, allCorrect(c), t0, t0.Add(3*time.Minute))

	assert.Equal(t, 100, r.ScorePercent)
	assert.Equal(t, 4, r.CorrectCount)
	assert.Equal(t, 3, r.TimeSpentMinutes)
}

func TestScoreHalfAnswered(t *testing.T) {
	c := Build(dsCourse(), stub("q1"), quizbank.Builtin())
	answers := map[string]string{
		c.Questions[0].ID: c.Questions[0].CorrectOptionID,
		c.Questions[1].ID: c.Questions[1].CorrectOptionID,
	}
	r := Score(c, answers, t0, t0.Add(90*time.Second))

	assert.Equal(t, 2, r.CorrectCount)
	assert.Equal(t, 2, r.AnsweredCount)
	assert.Equal(t, 50, r.ScorePercent)
	assert.Equal(t, 2, r.TimeSpentMinutes) // 1.5 rounds up
	assert.Equal(t, []Stat{
		{Label: "Correct", Value: "2/4"},
		{Label: "Accuracy", Value: "50%"},
		{Label: "Completion", Value: "50%"},
		{Label: "Time Spent", Value: "2 min"},
	}, r.SummaryStats)
	assert.Equal(t, c.FocusAreas, r.FocusAreas)
}

func TestScoreWrongAnswersCountAsAnswered(t *testing.T) {
	c := Build(dsCourse(), stub("q1"), quizbank.Builtin())
	answers := map[string]string{c.Questions[0].ID: "q1-q1-opt-3"}
	r := Score(c, answers, t0, t0)

	assert.Equal(t, 0, r.CorrectCount)
	assert.Equal(t, 1, r.AnsweredCount)
	assert.Equal(t, "25%", r.SummaryStats[2].Value)
}

func TestScoreRoundsPercent(t *testing.T) {
	c := Build(Course{ID: "c-unknown"}, stub("q1"), quizbank.Builtin()) // 3 questions
	answers := map[string]string{
		c.Questions[0].ID: c.Questions[0].CorrectOptionID,
		c.Questions[1].ID: c.Questions[1].CorrectOptionID,
	}
	r := Score(c, answers, t0, t0)
	assert.Equal(t, 67, r.ScorePercent)
}

func TestScoreNoQuestions(t *testing.T) {
	r := Score(Content{TimeLimitMinutes: 5}, map[string]string{"x": "y"}, time.Time{}, t0)

	assert.Equal(t, 0, r.ScorePercent)
	assert.Equal(t, 0, r.TotalQuestions)
	assert.Equal(t, 0, r.AnsweredCount)
	assert.Equal(t, 5, r.TimeSpentMinutes)
}

func TestScoreTimeSpentAtLeastOne(t *testing.T) {
	c := Build(dsCourse(), stub("q1"), quizbank.Builtin())

	cases := []struct {
		name    string
		start   time.Time
		now     time.Time
		limit   int
		minutes int
	}{
		{"instant", t0, t0, 15, 1},
		{"twenty seconds", t0, t0.Add(20 * time.Second), 15, 1},
		{"clock went backwards", t0, t0.Add(-5 * time.Minute), 15, 1},
		{"no start uses budget", time.Time{}, t0, 15, 15},
		{"no start zero budget", time.Time{}, t0, 0, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cc := c
			cc.TimeLimitMinutes = tc.limit
			r := Score(cc, nil, tc.start, tc.now)
			require.GreaterOrEqual(t, r.TimeSpentMinutes, 1)
			assert.Equal(t, tc.minutes, r.TimeSpentMinutes)
		})
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		score int
		want  Verdict
	}{
		{100, Excellent}, {82, Excellent}, {80, Excellent},
		{79, KeepPracticing}, {65, KeepPracticing}, {60, KeepPracticing},
		{59, ScheduleReview}, {40, ScheduleReview}, {0, ScheduleReview},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.score), "score %d", tc.score)
	}
}

func TestPresent(t *testing.T) {
	fb := Present(ResultSummary{ScorePercent: 65, FocusAreas: []string{"Heaps"}})
	assert.Equal(t, KeepPracticing, fb.Verdict)
	assert.Equal(t, "Keep practicing", fb.Headline)
	assert.Equal(t, []string{"Heaps"}, fb.FocusAreas)

	raw, err := fb.Verdict.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"keep_practicing"`, string(raw))

	var back Verdict
	require.NoError(t, back.UnmarshalJSON(raw))
	assert.Equal(t, KeepPracticing, back)
	assert.Error(t, back.UnmarshalJSON([]byte(`"great"`)))
}
