package quizbank

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// SQLRegistry overlays banks stored in course_meta/question_templates on a
// base registry. Lookups read an immutable snapshot; Reload and Put swap it.
type SQLRegistry struct {
	db   *sql.DB
	base *StaticRegistry

	mu   sync.RWMutex
	snap *StaticRegistry
}

func NewSQLRegistry(db *sql.DB, base *StaticRegistry) *SQLRegistry {
	if base == nil {
		base = NewStaticRegistry(nil, FallbackEntry())
	}
	return &SQLRegistry{db: db, base: base, snap: base}
}

func (r *SQLRegistry) current() *StaticRegistry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap
}

func (r *SQLRegistry) Templates(courseID string) []QuestionTemplate {
	return r.current().Templates(courseID)
}

func (r *SQLRegistry) Meta(courseID string) CourseMeta {
	return r.current().Meta(courseID)
}

// Has reports whether courseID resolves to its own entry (stored or base).
func (r *SQLRegistry) Has(courseID string) bool {
	return r.current().Has(courseID)
}

// Reload rebuilds the snapshot from the database.
func (r *SQLRegistry) Reload(ctx context.Context) error {
	banks, err := r.loadBanks(ctx)
	if err != nil {
		return err
	}
	entries, fallback := r.base.Entries()
	for id, b := range banks {
		entries[id] = b.Entry()
	}
	next := NewStaticRegistry(entries, fallback)

	r.mu.Lock()
	r.snap = next
	r.mu.Unlock()
	return nil
}

func (r *SQLRegistry) loadBanks(ctx context.Context) (map[string]Bank, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT course_id, time_limit_minutes, duration_label, weight, focus_areas_json, description FROM course_meta`)
	if err != nil {
		return nil, errors.Wrap(err, "query course_meta")
	}
	banks := map[string]Bank{}
	for rows.Next() {
		var b Bank
		var focus string
		if err := rows.Scan(&b.CourseID, &b.Meta.TimeLimitMinutes, &b.Meta.DurationLabel, &b.Meta.Weight, &focus, &b.Meta.Description); err != nil {
			rows.Close()
			return nil, errors.Wrap(err, "scan course_meta")
		}
		if err := json.Unmarshal([]byte(focus), &b.Meta.FocusAreas); err != nil {
			b.Meta.FocusAreas = nil
		}
		banks[b.CourseID] = b
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate course_meta")
	}

	trows, err := r.db.QueryContext(ctx,
		`SELECT course_id, text, options_json, answer_index FROM question_templates ORDER BY course_id, position`)
	if err != nil {
		return nil, errors.Wrap(err, "query question_templates")
	}
	defer trows.Close()
	for trows.Next() {
		var courseID, opts string
		var t QuestionTemplate
		if err := trows.Scan(&courseID, &t.Text, &opts, &t.AnswerIndex); err != nil {
			return nil, errors.Wrap(err, "scan question_templates")
		}
		if err := json.Unmarshal([]byte(opts), &t.Options); err != nil {
			return nil, errors.Wrapf(err, "options of %s", courseID)
		}
		b, ok := banks[courseID]
		if !ok {
			continue
		}
		b.Templates = append(b.Templates, t)
		banks[courseID] = b
	}
	if err := trows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate question_templates")
	}
	for id, b := range banks {
		if len(b.Templates) == 0 {
			delete(banks, id)
		}
	}
	return banks, nil
}

// Put validates and stores a bank, replacing any previous one for the same
// course, then reloads the snapshot.
func (r *SQLRegistry) Put(ctx context.Context, b Bank) error {
	b.CourseID = strings.TrimSpace(b.CourseID)
	if err := b.Validate(); err != nil {
		return err
	}
	focus, err := json.Marshal(b.Meta.FocusAreas)
	if err != nil {
		return errors.Wrap(err, "marshal focus areas")
	}
	if b.Meta.FocusAreas == nil {
		focus = []byte("[]")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT INTO course_meta
		(course_id, time_limit_minutes, duration_label, weight, focus_areas_json, description, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (course_id) DO UPDATE SET
		  time_limit_minutes=EXCLUDED.time_limit_minutes,
		  duration_label=EXCLUDED.duration_label,
		  weight=EXCLUDED.weight,
		  focus_areas_json=EXCLUDED.focus_areas_json,
		  description=EXCLUDED.description,
		  updated_at=EXCLUDED.updated_at`,
		b.CourseID, b.Meta.TimeLimitMinutes, b.Meta.DurationLabel, b.Meta.Weight, string(focus), b.Meta.Description, time.Now().Unix()); err != nil {
		return errors.Wrap(err, "upsert course_meta")
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM question_templates WHERE course_id=$1`, b.CourseID); err != nil {
		return errors.Wrap(err, "clear question_templates")
	}
	for i, t := range b.Templates {
		opts, err := json.Marshal(t.Options)
		if err != nil {
			return errors.Wrap(err, "marshal options")
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO question_templates (course_id, position, text, options_json, answer_index)
			VALUES ($1,$2,$3,$4,$5)`, b.CourseID, i, t.Text, string(opts), t.AnswerIndex); err != nil {
			return errors.Wrapf(err, "insert template %d", i)
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit")
	}
	return r.Reload(ctx)
}

// Append adds templates to the course's current bank (stored, builtin or
// fallback, whichever it resolves to) and stores the result.
func (r *SQLRegistry) Append(ctx context.Context, courseID string, tpls ...QuestionTemplate) (Bank, error) {
	b := BankFromRegistry(r, courseID)
	b.Templates = append(b.Templates, tpls...)
	if err := r.Put(ctx, b); err != nil {
		return Bank{}, err
	}
	return b, nil
}
