package quiz

import (
	"encoding/json"
	"fmt"
	"maps"
	"time"
)

// State is the lifecycle position of an attempt.
type State int

const (
	Idle State = iota
	InProgress
	Submitted
	Reviewing
)

func (s State) String() string {
	switch s {
	case InProgress:
		return "in_progress"
	case Submitted:
		return "submitted"
	case Reviewing:
		return "reviewing"
	default:
		return "idle"
	}
}

func (s State) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

func (s *State) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	for _, st := range []State{Idle, InProgress, Submitted, Reviewing} {
		if st.String() == name {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("quiz: unknown attempt state %q", name)
}

// Attempt is one user's run through a quiz.
//
// Operations that are not valid in the current state leave the attempt
// untouched and return false. An Attempt is not safe for concurrent use.
type Attempt struct {
	now func() time.Time

	state     State
	content   *Content
	index     int
	answers   map[string]string
	startedAt time.Time
	result    *ResultSummary
}

type AttemptOption func(*Attempt)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) AttemptOption {
	return func(a *Attempt) {
		if now != nil {
			a.now = now
		}
	}
}

func NewAttempt(opts ...AttemptOption) *Attempt {
	a := &Attempt{now: time.Now, answers: map[string]string{}}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Open loads c and starts a fresh attempt. Reopening the quiz that is
// already loaded is ignored; use Restart for that.
func (a *Attempt) Open(c Content) bool {
	if a.state != Idle && a.content != nil && a.content.QuizID == c.QuizID {
		return false
	}
	a.reset(c)
	return true
}

// SelectAnswer records optionID for questionID without moving the pointer.
func (a *Attempt) SelectAnswer(questionID, optionID string) bool {
	if a.state != InProgress && a.state != Reviewing {
		return false
	}
	q, ok := a.content.Question(questionID)
	if !ok || !hasOption(q, optionID) {
		return false
	}
	a.answers[questionID] = optionID
	return true
}

// GoToQuestion moves the pointer, clamping index into the question range.
func (a *Attempt) GoToQuestion(index int) bool {
	if a.state != InProgress && a.state != Reviewing {
		return false
	}
	n := len(a.content.Questions)
	if n == 0 {
		return false
	}
	a.index = clamp(index, 0, n-1)
	return true
}

// Submit scores the attempt.
func (a *Attempt) Submit() bool {
	if a.state != InProgress || len(a.content.Questions) == 0 {
		return false
	}
	res := Score(*a.content, a.answers, a.startedAt, a.now())
	a.result = &res
	a.state = Submitted
	return true
}

// ToggleReview hides or shows the result summary.
func (a *Attempt) ToggleReview() bool {
	switch a.state {
	case Submitted:
		a.state = Reviewing
	case Reviewing:
		a.state = Submitted
	default:
		return false
	}
	return true
}

// Restart clears answers and the result and starts the clock again.
func (a *Attempt) Restart() bool {
	if a.state != Submitted && a.state != Reviewing {
		return false
	}
	a.reset(*a.content)
	return true
}

// Close discards the attempt. Safe to call in any state.
func (a *Attempt) Close() {
	a.state = Idle
	a.content = nil
	a.index = 0
	a.answers = map[string]string{}
	a.startedAt = time.Time{}
	a.result = nil
}

func (a *Attempt) reset(c Content) {
	start := a.now()
	// a restart must never reuse or precede the previous start time
	if !a.startedAt.IsZero() && !start.After(a.startedAt) {
		start = a.startedAt.Add(time.Nanosecond)
	}
	a.content = &c
	a.state = InProgress
	a.index = 0
	a.answers = map[string]string{}
	a.startedAt = start
	a.result = nil
}

func hasOption(q Question, optionID string) bool {
	for _, o := range q.Options {
		if o.ID == optionID {
			return true
		}
	}
	return false
}

func (a *Attempt) State() State { return a.state }

func (a *Attempt) CurrentQuestionIndex() int { return a.index }

func (a *Attempt) StartTime() time.Time { return a.startedAt }

// Content returns the loaded content; false when idle.
func (a *Attempt) Content() (Content, bool) {
	if a.content == nil {
		return Content{}, false
	}
	return *a.content, true
}

func (a *Attempt) CurrentQuestion() (Question, bool) {
	if a.content == nil || a.index >= len(a.content.Questions) {
		return Question{}, false
	}
	return a.content.Questions[a.index], true
}

// Answers returns a copy of the selected answers.
func (a *Attempt) Answers() map[string]string { return maps.Clone(a.answers) }

func (a *Attempt) Result() (ResultSummary, bool) {
	if a.result == nil {
		return ResultSummary{}, false
	}
	return *a.result, true
}

// Snapshot is a serialisable copy of the attempt state.
type Snapshot struct {
	State                State             `json:"state"`
	QuizID               string            `json:"quiz_id,omitempty"`
	QuestionCount        int               `json:"question_count"`
	CurrentQuestionIndex int               `json:"current_question_index"`
	SelectedAnswers      map[string]string `json:"selected_answers"`
	StartTime            *time.Time        `json:"start_time,omitempty"`
	Result               *ResultSummary    `json:"result,omitempty"`
}

func (a *Attempt) Snapshot() Snapshot {
	s := Snapshot{
		State:                a.state,
		CurrentQuestionIndex: a.index,
		SelectedAnswers:      maps.Clone(a.answers),
	}
	if a.content != nil {
		s.QuizID = a.content.QuizID
		s.QuestionCount = len(a.content.Questions)
	}
	if !a.startedAt.IsZero() {
		t := a.startedAt
		s.StartTime = &t
	}
	if a.result != nil {
		r := *a.result
		s.Result = &r
	}
	return s
}
