package quizbank

import "slices"

// QuestionTemplate is one authored multiple-choice question.
// AnswerIndex is clamped into the option range when a quiz is built, so an
// authoring mistake never breaks content generation.
type QuestionTemplate struct {
	Text        string   `json:"text" validate:"required,max=2000"`
	Options     []string `json:"options" validate:"min=2,max=26,dive,required,max=500"`
	AnswerIndex int      `json:"answer_index"`
}

// CourseMeta carries the per-course quiz settings shown next to the questions.
type CourseMeta struct {
	TimeLimitMinutes int
	DurationLabel    string
	Weight           string
	FocusAreas       []string
	Description      func(courseTitle string) string
}

// Describe renders the course description, tolerating a nil generator.
func (m CourseMeta) Describe(courseTitle string) string {
	if m.Description == nil {
		return ""
	}
	return m.Description(courseTitle)
}

// Entry is everything the registry knows about one course.
type Entry struct {
	Templates []QuestionTemplate
	Meta      CourseMeta
}

// Registry resolves course identifiers to question templates and metadata.
// Unknown identifiers resolve to a fallback; lookups never fail.
type Registry interface {
	Templates(courseID string) []QuestionTemplate
	Meta(courseID string) CourseMeta
}

func cloneTemplates(in []QuestionTemplate) []QuestionTemplate {
	out := make([]QuestionTemplate, len(in))
	for i, t := range in {
		out[i] = QuestionTemplate{Text: t.Text, Options: slices.Clone(t.Options), AnswerIndex: t.AnswerIndex}
	}
	return out
}

func cloneMeta(m CourseMeta) CourseMeta {
	m.FocusAreas = slices.Clone(m.FocusAreas)
	return m
}
