package quizbank

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// CoursePlaceholder is replaced by the course title in a stored description.
const CoursePlaceholder = "{course}"

// Bank is the wire and storage form of a course's question bank.
type Bank struct {
	CourseID  string             `json:"course_id" validate:"required,max=128"`
	Meta      BankMeta           `json:"meta"`
	Templates []QuestionTemplate `json:"templates" validate:"min=1,max=200,dive"`
}

type BankMeta struct {
	TimeLimitMinutes int      `json:"time_limit_minutes" validate:"gte=0,lte=600"`
	DurationLabel    string   `json:"duration_label" validate:"max=64"`
	Weight           string   `json:"weight" validate:"max=64"`
	FocusAreas       []string `json:"focus_areas" validate:"max=32,dive,required,max=128"`
	Description      string   `json:"description" validate:"max=1000"`
}

// ValidationError lists every problem found in a submitted bank.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid bank: " + strings.Join(e.Problems, "; ")
}

var validate = validator.New()

// Validate checks field constraints and reports them as a *ValidationError.
func (b Bank) Validate() error {
	err := validate.Struct(b)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return errors.Wrap(err, "validate bank")
	}
	out := &ValidationError{}
	for _, fe := range ve {
		out.Problems = append(out.Problems, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
	}
	return out
}

// DecodeBank reads a JSON bank and validates it.
func DecodeBank(r io.Reader) (Bank, error) {
	var b Bank
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&b); err != nil {
		return Bank{}, &ValidationError{Problems: []string{"bad json: " + err.Error()}}
	}
	b.CourseID = strings.TrimSpace(b.CourseID)
	if err := b.Validate(); err != nil {
		return Bank{}, err
	}
	return b, nil
}

// Entry converts the bank into a registry entry.
func (b Bank) Entry() Entry {
	tpl := b.Meta.Description
	return Entry{
		Templates: cloneTemplates(b.Templates),
		Meta: CourseMeta{
			TimeLimitMinutes: b.Meta.TimeLimitMinutes,
			DurationLabel:    b.Meta.DurationLabel,
			Weight:           b.Meta.Weight,
			FocusAreas:       append([]string(nil), b.Meta.FocusAreas...),
			Description: func(title string) string {
				return strings.ReplaceAll(tpl, CoursePlaceholder, title)
			},
		},
	}
}

// BankFromRegistry renders what reg serves for courseID as a Bank. The
// description is rendered with the placeholder as the title, so a stored
// generator round-trips as a template.
func BankFromRegistry(reg Registry, courseID string) Bank {
	m := reg.Meta(courseID)
	return Bank{
		CourseID: courseID,
		Meta: BankMeta{
			TimeLimitMinutes: m.TimeLimitMinutes,
			DurationLabel:    m.DurationLabel,
			Weight:           m.Weight,
			FocusAreas:       m.FocusAreas,
			Description:      m.Describe(CoursePlaceholder),
		},
		Templates: reg.Templates(courseID),
	}
}
