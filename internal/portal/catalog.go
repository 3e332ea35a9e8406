package portal

import (
	"context"
	"errors"
	"sync"

	"github.com/mind-engage/mindengage-portal/internal/quiz"
	"github.com/mind-engage/mindengage-portal/internal/quizbank"
)

// ErrContentUnavailable means the course or quiz stub does not exist.
var ErrContentUnavailable = errors.New("content unavailable")

// StubSource is the portal-bundle view the quiz engine needs.
type StubSource interface {
	Courses(ctx context.Context) ([]quiz.Course, error)
	// Course returns ErrContentUnavailable for unknown ids.
	Course(ctx context.Context, id string) (quiz.Course, error)
	Stubs(ctx context.Context, courseID string) ([]quiz.Stub, error)
}

type contentKey struct {
	course quiz.Course
	stub   quiz.Stub
}

// Catalog resolves (course, quiz) pairs into built content. Built content is
// cached per course and stub so repeated opens reuse the same value.
type Catalog struct {
	src StubSource
	reg quizbank.Registry

	mu    sync.Mutex
	cache map[contentKey]quiz.Content
}

func NewCatalog(src StubSource, reg quizbank.Registry) *Catalog {
	return &Catalog{src: src, reg: reg, cache: map[contentKey]quiz.Content{}}
}

func (c *Catalog) Courses(ctx context.Context) ([]quiz.Course, error) {
	return c.src.Courses(ctx)
}

// Stubs lists the quizzes of a course; unknown courses are unavailable.
func (c *Catalog) Stubs(ctx context.Context, courseID string) ([]quiz.Stub, error) {
	if _, err := c.src.Course(ctx, courseID); err != nil {
		return nil, err
	}
	return c.src.Stubs(ctx, courseID)
}

// Content builds (or reuses) the quiz content for quizID in courseID.
func (c *Catalog) Content(ctx context.Context, courseID, quizID string) (quiz.Content, error) {
	course, err := c.src.Course(ctx, courseID)
	if err != nil {
		return quiz.Content{}, err
	}
	stubs, err := c.src.Stubs(ctx, courseID)
	if err != nil {
		return quiz.Content{}, err
	}
	var stub quiz.Stub
	found := false
	for _, s := range stubs {
		if s.ID == quizID {
			stub, found = s, true
			break
		}
	}
	if !found {
		return quiz.Content{}, ErrContentUnavailable
	}

	k := contentKey{course: course, stub: stub}
	c.mu.Lock()
	defer c.mu.Unlock()
	if qc, ok := c.cache[k]; ok {
		return qc, nil
	}
	qc := quiz.Build(course, stub, c.reg)
	c.cache[k] = qc
	return qc, nil
}

// Invalidate drops cached content of a course, e.g. after its bank changed.
func (c *Catalog) Invalidate(courseID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.cache {
		if k.course.ID == courseID {
			delete(c.cache, k)
		}
	}
}
