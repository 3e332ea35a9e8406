package quiz

import (
	"encoding/json"
	"fmt"
)

type Verdict int

const (
	ScheduleReview Verdict = iota
	KeepPracticing
	Excellent
)

func (v Verdict) String() string {
	switch v {
	case Excellent:
		return "excellent"
	case KeepPracticing:
		return "keep_practicing"
	default:
		return "schedule_review"
	}
}

func (v Verdict) MarshalJSON() ([]byte, error) { return json.Marshal(v.String()) }

func (v *Verdict) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	for _, x := range []Verdict{ScheduleReview, KeepPracticing, Excellent} {
		if x.String() == name {
			*v = x
			return nil
		}
	}
	return fmt.Errorf("quiz: unknown verdict %q", name)
}

const (
	excellentThreshold = 80
	practiceThreshold  = 60
)

// Classify buckets a score percentage.
func Classify(scorePercent int) Verdict {
	switch {
	case scorePercent >= excellentThreshold:
		return Excellent
	case scorePercent >= practiceThreshold:
		return KeepPracticing
	default:
		return ScheduleReview
	}
}

// Feedback is the user-facing reading of a result.
type Feedback struct {
	Verdict    Verdict  `json:"verdict"`
	Headline   string   `json:"headline"`
	Message    string   `json:"message"`
	FocusAreas []string `json:"focus_areas"`
}

func Present(s ResultSummary) Feedback {
	v := Classify(s.ScorePercent)
	fb := Feedback{Verdict: v, FocusAreas: append([]string(nil), s.FocusAreas...)}
	switch v {
	case Excellent:
		fb.Headline = "Excellent work"
		fb.Message = "You have a strong command of this material. Keep it fresh with an occasional review."
	case KeepPracticing:
		fb.Headline = "Keep practicing"
		fb.Message = "You are close. Revisit the focus areas below and try the quiz again."
	default:
		fb.Headline = "Schedule a review"
		fb.Message = "Book time with your tutor or revisit the course notes before retaking this quiz."
	}
	return fb
}
