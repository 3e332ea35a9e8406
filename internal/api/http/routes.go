package http

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-portal/internal/attempts"
	"github.com/mind-engage/mindengage-portal/internal/rbac"
)

type Deps struct {
	Catalog Catalog
	Hub     *attempts.Hub
	Banks   BankDeps
	Users   UserDirectory
	Events  EventReader
	Now     func() time.Time
}

// MountPortal registers the portal API on r. Callers put authentication in
// front of r so that subject and role are in the request context.
func MountPortal(r chi.Router, d Deps) {
	now := d.Now
	if now == nil {
		now = time.Now
	}

	r.With(rbac.Require("course:view")).Get("/courses", ListCoursesHandler(d.Catalog))
	r.Route("/courses/{courseID}/quizzes", func(cr chi.Router) {
		cr.Use(rbac.Require("quiz:view"))
		cr.Get("/", ListQuizzesHandler(d.Catalog))
		cr.Get("/{quizID}", GetQuizHandler(d.Catalog))
		cr.With(rbac.Require("quiz:attempt")).
			Post("/{quizID}/score", ScoreQuizHandler(d.Catalog, now))
	})

	r.Route("/attempt", func(ar chi.Router) {
		ar.Use(rbac.Require("quiz:attempt"))
		ar.Get("/", GetAttemptHandler(d.Hub))
		ar.Delete("/", CloseAttemptHandler(d.Hub))
		ar.Post("/open", OpenAttemptHandler(d.Hub))
		ar.Post("/answers", SelectAnswerHandler(d.Hub))
		ar.Post("/goto", GoToQuestionHandler(d.Hub))
		ar.Post("/submit", SubmitAttemptHandler(d.Hub))
		ar.Post("/review", ToggleReviewHandler(d.Hub))
		ar.Post("/restart", RestartAttemptHandler(d.Hub))
	})

	r.Route("/banks/{courseID}", func(br chi.Router) {
		br.With(rbac.Require("bank:view")).Get("/", GetBankHandler(d.Banks.Store))
		br.With(rbac.Require("bank:edit")).Put("/", PutBankHandler(d.Banks))
		br.With(rbac.Require("bank:edit")).Post("/qti", ImportQTIHandler(d.Banks))
	})

	if d.Banks.Blobs != nil {
		r.With(rbac.Require("bank:edit")).Get("/archive/*", GetArchiveHandler(d.Banks.Blobs))
	}

	if d.Events != nil {
		r.With(rbac.Require("events:view")).Get("/events", ListEventsHandler(d.Events))
	}

	if d.Users != nil {
		r.With(rbac.Require("users:manage")).Post("/users/bulk", BulkUpsertUsersHandler(d.Users))
		r.With(rbac.Require("users:list")).Get("/users", ListUsersHandler(d.Users))
		r.With(rbac.Require("users:manage")).Patch("/users/{userID}/role", UpdateUserRoleHandler(d.Users))
		r.Post("/users/change-password", ChangePasswordHandler(d.Users))
	}
}
