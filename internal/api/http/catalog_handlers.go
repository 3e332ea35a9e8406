package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-portal/internal/quiz"
	"github.com/mind-engage/mindengage-portal/internal/rbac"
)

// Catalog is the read side of the portal the handlers need.
type Catalog interface {
	Courses(ctx context.Context) ([]quiz.Course, error)
	Stubs(ctx context.Context, courseID string) ([]quiz.Stub, error)
	Content(ctx context.Context, courseID, quizID string) (quiz.Content, error)
}

// canSeeAnswers reports whether the caller may see correct options outside
// of a submitted attempt.
func canSeeAnswers(r *http.Request) bool {
	return rbac.Allowed(r.Context(), "quiz:view-answers")
}

// GET /courses
func ListCoursesHandler(cat Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cs, err := cat.Courses(r.Context())
		if err != nil {
			respondError(w, r, err)
			return
		}
		if cs == nil {
			cs = []quiz.Course{}
		}
		respondJSON(w, http.StatusOK, map[string]any{"items": cs})
	}
}

// GET /courses/{courseID}/quizzes
func ListQuizzesHandler(cat Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stubs, err := cat.Stubs(r.Context(), chi.URLParam(r, "courseID"))
		if err != nil {
			respondError(w, r, err)
			return
		}
		if st := r.URL.Query().Get("status"); st != "" {
			kept := make([]quiz.Stub, 0, len(stubs))
			for _, s := range stubs {
				if s.Status == st {
					kept = append(kept, s)
				}
			}
			stubs = kept
		}
		if stubs == nil {
			stubs = []quiz.Stub{}
		}
		respondJSON(w, http.StatusOK, map[string]any{"items": stubs})
	}
}

// GET /courses/{courseID}/quizzes/{quizID}
func GetQuizHandler(cat Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := cat.Content(r.Context(), chi.URLParam(r, "courseID"), chi.URLParam(r, "quizID"))
		if err != nil {
			respondError(w, r, err)
			return
		}
		if !canSeeAnswers(r) {
			c = c.StudentView()
		}
		respondJSON(w, http.StatusOK, c)
	}
}

// POST /courses/{courseID}/quizzes/{quizID}/score
// { "answers": {"<questionID>": "<optionID>"}, "started_at": "RFC3339" }
// Scores a set of answers without touching any open attempt.
func ScoreQuizHandler(cat Catalog, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Answers   map[string]string `json:"answers"`
			StartedAt *time.Time        `json:"started_at"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		c, err := cat.Content(r.Context(), chi.URLParam(r, "courseID"), chi.URLParam(r, "quizID"))
		if err != nil {
			respondError(w, r, err)
			return
		}
		var started time.Time
		if req.StartedAt != nil {
			started = *req.StartedAt
		}
		sum := quiz.Score(c, req.Answers, started, now())
		respondJSON(w, http.StatusOK, map[string]any{
			"summary":  sum,
			"feedback": quiz.Present(sum),
		})
	}
}
