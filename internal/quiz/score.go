package quiz

import (
	"fmt"
	"math"
	"time"
)

// Score grades answers (question id -> option id) against c. A zero
// startedAt means no start time was recorded and the time budget is reported
// instead of the elapsed time.
func Score(c Content, answers map[string]string, startedAt, now time.Time) ResultSummary {
	total := len(c.Questions)
	correct, answered := 0, 0
	for _, q := range c.Questions {
		got, ok := answers[q.ID]
		if !ok {
			continue
		}
		answered++
		if q.CorrectOptionID != "" && got == q.CorrectOptionID {
			correct++
		}
	}

	score := percent(correct, total)
	completion := percent(answered, total)

	var minutes int
	if startedAt.IsZero() {
		minutes = max(c.TimeLimitMinutes, 1)
	} else {
		minutes = max(1, int(math.Round(now.Sub(startedAt).Minutes())))
	}

	return ResultSummary{
		ScorePercent:     score,
		CorrectCount:     correct,
		TotalQuestions:   total,
		AnsweredCount:    answered,
		TimeSpentMinutes: minutes,
		SummaryStats: []Stat{
			{Label: "Correct", Value: fmt.Sprintf("%d/%d", correct, total)},
			{Label: "Accuracy", Value: fmt.Sprintf("%d%%", score)},
			{Label: "Completion", Value: fmt.Sprintf("%d%%", completion)},
			{Label: "Time Spent", Value: fmt.Sprintf("%d min", minutes)},
		},
		FocusAreas: append([]string(nil), c.FocusAreas...),
	}
}

func percent(n, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(n) / float64(total) * 100))
}
