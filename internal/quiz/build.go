package quiz

import (
	"fmt"

	"github.com/mind-engage/mindengage-portal/internal/quizbank"
)

// Build turns a course's templates into quiz content. Ids are derived only
// from the stub id and positions, so the same inputs always produce the same
// content.
func Build(course Course, stub Stub, reg quizbank.Registry) Content {
	templates := reg.Templates(course.ID)
	meta := reg.Meta(course.ID)

	questions := make([]Question, 0, len(templates))
	for i, t := range templates {
		qid := fmt.Sprintf("%s-q%d", stub.ID, i+1)
		opts := make([]Option, len(t.Options))
		for j, v := range t.Options {
			opts[j] = Option{
				ID:    fmt.Sprintf("%s-opt-%d", qid, j),
				Label: OptionLabel(j),
				Value: v,
			}
		}
		q := Question{ID: qid, Text: t.Text, Options: opts}
		if len(opts) > 0 {
			q.CorrectOptionID = opts[clamp(t.AnswerIndex, 0, len(opts)-1)].ID
		}
		questions = append(questions, q)
	}

	return Content{
		QuizID:           stub.ID,
		Title:            stub.Title,
		Category:         stub.Category,
		Date:             stub.Date,
		Description:      meta.Describe(course.Title),
		TimeLimitMinutes: meta.TimeLimitMinutes,
		DurationLabel:    meta.DurationLabel,
		Weight:           meta.Weight,
		FocusAreas:       append([]string(nil), meta.FocusAreas...),
		Questions:        questions,
	}
}

// OptionLabel returns the letter for position i: A..Z, then AA, AB, ...
func OptionLabel(i int) string {
	if i < 0 {
		return ""
	}
	var buf []byte
	for n := i + 1; n > 0; n = (n - 1) / 26 {
		buf = append([]byte{byte('A' + (n-1)%26)}, buf...)
	}
	return string(buf)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
