package attempts

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mind-engage/mindengage-portal/internal/quiz"
)

// ErrNoAttempt is returned when the user has nothing open.
var ErrNoAttempt = errors.New("no open attempt")

// ContentSource builds quiz content for a course/quiz pair.
type ContentSource interface {
	Content(ctx context.Context, courseID, quizID string) (quiz.Content, error)
}

// View is what a client sees of its attempt after an operation.
type View struct {
	AttemptID string         `json:"attempt_id,omitempty"`
	CourseID  string         `json:"course_id,omitempty"`
	Changed   bool           `json:"changed"`
	Attempt   quiz.Snapshot  `json:"attempt"`
	Content   *quiz.Content  `json:"content,omitempty"`
	Feedback  *quiz.Feedback `json:"feedback,omitempty"`
}

type slot struct {
	id       string
	courseID string
	attempt  *quiz.Attempt
}

// Hub keeps the single open attempt of each user in process memory. Nothing
// is persisted; a restart of the service drops every attempt.
type Hub struct {
	src   ContentSource
	now   func() time.Time
	newID func() string

	mu    sync.Mutex
	slots map[string]*slot
}

type Option func(*Hub)

func WithClock(now func() time.Time) Option { return func(h *Hub) { h.now = now } }

func WithIDs(newID func() string) Option { return func(h *Hub) { h.newID = newID } }

func NewHub(src ContentSource, opts ...Option) *Hub {
	h := &Hub{
		src:   src,
		now:   time.Now,
		newID: uuid.NewString,
		slots: map[string]*slot{},
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Open loads a quiz for userID, replacing whatever the user had open. Opening
// the quiz that is already loaded keeps the running attempt.
func (h *Hub) Open(ctx context.Context, userID, courseID, quizID string, reveal bool) (View, error) {
	content, err := h.src.Content(ctx, courseID, quizID)
	if err != nil {
		return View{}, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.slots[userID]
	if !ok {
		s = &slot{attempt: quiz.NewAttempt(quiz.WithClock(h.now))}
		h.slots[userID] = s
	}
	if s.courseID != courseID && s.attempt.State() != quiz.Idle {
		// same quiz id in another course is a different quiz
		s.attempt.Close()
	}
	changed := s.attempt.Open(content)
	if changed {
		s.id = h.newID()
		s.courseID = courseID
	}
	return s.view(changed, reveal), nil
}

// Current returns the user's attempt without changing it.
func (h *Hub) Current(userID string, reveal bool) (View, error) {
	return h.apply(userID, reveal, func(*quiz.Attempt) bool { return false })
}

func (h *Hub) SelectAnswer(userID, questionID, optionID string, reveal bool) (View, error) {
	return h.apply(userID, reveal, func(a *quiz.Attempt) bool { return a.SelectAnswer(questionID, optionID) })
}

func (h *Hub) GoToQuestion(userID string, index int, reveal bool) (View, error) {
	return h.apply(userID, reveal, func(a *quiz.Attempt) bool { return a.GoToQuestion(index) })
}

func (h *Hub) Submit(userID string, reveal bool) (View, error) {
	return h.apply(userID, reveal, (*quiz.Attempt).Submit)
}

func (h *Hub) ToggleReview(userID string, reveal bool) (View, error) {
	return h.apply(userID, reveal, (*quiz.Attempt).ToggleReview)
}

// Restart starts the same quiz over under a new attempt id.
func (h *Hub) Restart(userID string, reveal bool) (View, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.slots[userID]
	if !ok || s.attempt.State() == quiz.Idle {
		return View{}, ErrNoAttempt
	}
	changed := s.attempt.Restart()
	if changed {
		s.id = h.newID()
	}
	return s.view(changed, reveal), nil
}

// Close discards the user's attempt. Closing twice is not an error.
func (h *Hub) Close(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s, ok := h.slots[userID]; ok {
		s.attempt.Close()
		delete(h.slots, userID)
	}
}

func (h *Hub) apply(userID string, reveal bool, op func(*quiz.Attempt) bool) (View, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.slots[userID]
	if !ok || s.attempt.State() == quiz.Idle {
		return View{}, ErrNoAttempt
	}
	changed := op(s.attempt)
	return s.view(changed, reveal), nil
}

// view renders the slot. Correct answers are shown to learners only once the
// attempt has a result.
func (s *slot) view(changed, reveal bool) View {
	v := View{
		AttemptID: s.id,
		CourseID:  s.courseID,
		Changed:   changed,
		Attempt:   s.attempt.Snapshot(),
	}
	if c, ok := s.attempt.Content(); ok {
		st := s.attempt.State()
		if !reveal && st != quiz.Submitted && st != quiz.Reviewing {
			c = c.StudentView()
		}
		v.Content = &c
	}
	switch s.attempt.State() {
	case quiz.Submitted:
		if res, ok := s.attempt.Result(); ok {
			fb := quiz.Present(res)
			v.Feedback = &fb
		}
	case quiz.Reviewing:
		// summary is hidden while reviewing; the attempt still holds it
		v.Attempt.Result = nil
	}
	return v
}
