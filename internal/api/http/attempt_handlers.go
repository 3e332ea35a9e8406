package http

import (
	"encoding/json"
	"net/http"

	"github.com/mind-engage/mindengage-portal/internal/attempts"
	auth "github.com/mind-engage/mindengage-portal/internal/auth/middleware"
)

// Attempt routes act on the caller's single open attempt; the user is the
// token subject, never a path parameter.

func withUser(h func(w http.ResponseWriter, r *http.Request, userID string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := auth.SubjectFromContext(r.Context())
		if sub == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		h(w, r, sub)
	}
}

func respondView(w http.ResponseWriter, r *http.Request, v attempts.View, err error) {
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, v)
}

// GET /attempt
func GetAttemptHandler(hub *attempts.Hub) http.HandlerFunc {
	return withUser(func(w http.ResponseWriter, r *http.Request, uid string) {
		v, err := hub.Current(uid, canSeeAnswers(r))
		respondView(w, r, v, err)
	})
}

// POST /attempt/open  { "course_id": "...", "quiz_id": "..." }
func OpenAttemptHandler(hub *attempts.Hub) http.HandlerFunc {
	return withUser(func(w http.ResponseWriter, r *http.Request, uid string) {
		var req struct {
			CourseID string `json:"course_id"`
			QuizID   string `json:"quiz_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CourseID == "" || req.QuizID == "" {
			http.Error(w, "course_id and quiz_id required", http.StatusBadRequest)
			return
		}
		v, err := hub.Open(r.Context(), uid, req.CourseID, req.QuizID, canSeeAnswers(r))
		respondView(w, r, v, err)
	})
}

// POST /attempt/answers  { "question_id": "...", "option_id": "..." }
// An unknown question or option, or a submitted attempt, leaves the attempt
// unchanged and reports changed=false.
func SelectAnswerHandler(hub *attempts.Hub) http.HandlerFunc {
	return withUser(func(w http.ResponseWriter, r *http.Request, uid string) {
		var req struct {
			QuestionID string `json:"question_id"`
			OptionID   string `json:"option_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		v, err := hub.SelectAnswer(uid, req.QuestionID, req.OptionID, canSeeAnswers(r))
		respondView(w, r, v, err)
	})
}

// POST /attempt/goto?index=N  (out-of-range indexes are clamped)
func GoToQuestionHandler(hub *attempts.Hub) http.HandlerFunc {
	return withUser(func(w http.ResponseWriter, r *http.Request, uid string) {
		idx := parseIntDefault(r.URL.Query().Get("index"), 0)
		v, err := hub.GoToQuestion(uid, idx, canSeeAnswers(r))
		respondView(w, r, v, err)
	})
}

// POST /attempt/submit
func SubmitAttemptHandler(hub *attempts.Hub) http.HandlerFunc {
	return withUser(func(w http.ResponseWriter, r *http.Request, uid string) {
		v, err := hub.Submit(uid, canSeeAnswers(r))
		respondView(w, r, v, err)
	})
}

// POST /attempt/review
func ToggleReviewHandler(hub *attempts.Hub) http.HandlerFunc {
	return withUser(func(w http.ResponseWriter, r *http.Request, uid string) {
		v, err := hub.ToggleReview(uid, canSeeAnswers(r))
		respondView(w, r, v, err)
	})
}

// POST /attempt/restart
func RestartAttemptHandler(hub *attempts.Hub) http.HandlerFunc {
	return withUser(func(w http.ResponseWriter, r *http.Request, uid string) {
		v, err := hub.Restart(uid, canSeeAnswers(r))
		respondView(w, r, v, err)
	})
}

// DELETE /attempt
func CloseAttemptHandler(hub *attempts.Hub) http.HandlerFunc {
	return withUser(func(w http.ResponseWriter, r *http.Request, uid string) {
		hub.Close(uid)
		w.WriteHeader(http.StatusNoContent)
	})
}
