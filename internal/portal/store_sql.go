package portal

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/mind-engage/mindengage-portal/internal/quiz"
)

// SQLSource reads courses and quiz stubs from the portal tables.
type SQLSource struct {
	db *sql.DB
}

func NewSQLSource(db *sql.DB) *SQLSource { return &SQLSource{db: db} }

func (s *SQLSource) Courses(ctx context.Context) ([]quiz.Course, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title FROM courses ORDER BY title, id`)
	if err != nil {
		return nil, errors.Wrap(err, "query courses")
	}
	defer rows.Close()
	out := []quiz.Course{}
	for rows.Next() {
		var c quiz.Course
		if err := rows.Scan(&c.ID, &c.Title); err != nil {
			return nil, errors.Wrap(err, "scan course")
		}
		out = append(out, c)
	}
	return out, errors.Wrap(rows.Err(), "iterate courses")
}

func (s *SQLSource) Course(ctx context.Context, id string) (quiz.Course, error) {
	var c quiz.Course
	err := s.db.QueryRowContext(ctx, `SELECT id, title FROM courses WHERE id=$1`, id).Scan(&c.ID, &c.Title)
	if errors.Is(err, sql.ErrNoRows) {
		return quiz.Course{}, ErrContentUnavailable
	}
	if err != nil {
		return quiz.Course{}, errors.Wrapf(err, "get course %s", id)
	}
	return c, nil
}

func (s *SQLSource) Stubs(ctx context.Context, courseID string) ([]quiz.Stub, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, category, date, status FROM quiz_stubs WHERE course_id=$1 ORDER BY position, id`, courseID)
	if err != nil {
		return nil, errors.Wrap(err, "query quiz_stubs")
	}
	defer rows.Close()
	out := []quiz.Stub{}
	for rows.Next() {
		var st quiz.Stub
		if err := rows.Scan(&st.ID, &st.Title, &st.Category, &st.Date, &st.Status); err != nil {
			return nil, errors.Wrap(err, "scan quiz_stub")
		}
		out = append(out, st)
	}
	return out, errors.Wrap(rows.Err(), "iterate quiz_stubs")
}

// PutCourse upserts a course with its quiz stubs in the given order.
func (s *SQLSource) PutCourse(ctx context.Context, c quiz.Course, stubs []quiz.Stub) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT INTO courses (id, title) VALUES ($1,$2)
		ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title`, c.ID, c.Title); err != nil {
		return errors.Wrap(err, "upsert course")
	}
	for i, st := range stubs {
		status := st.Status
		if status == "" {
			status = "open"
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO quiz_stubs (course_id, id, title, category, date, status, position)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
			ON CONFLICT (course_id, id) DO UPDATE SET title=EXCLUDED.title, category=EXCLUDED.category,
			  date=EXCLUDED.date, status=EXCLUDED.status, position=EXCLUDED.position`,
			c.ID, st.ID, st.Title, st.Category, st.Date, status, i); err != nil {
			return errors.Wrapf(err, "upsert stub %s", st.ID)
		}
	}
	return errors.Wrap(tx.Commit(), "commit")
}
