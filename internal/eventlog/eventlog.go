package eventlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// Event types.
const (
	TypeBankUpdated  = "BankUpdated"
	TypeBankImported = "BankImported"
)

type Event struct {
	Seq       int64     `json:"seq"`
	SiteID    string    `json:"site_id"`
	Type      string    `json:"type"`
	Key       string    `json:"key"`
	DataJSON  string    `json:"data"`
	CreatedAt time.Time `json:"created_at"`
}

// Repo appends to and reads from the event_log table.
type Repo struct {
	db     *sql.DB
	siteID string
	now    func() time.Time
}

func NewRepo(db *sql.DB, siteID string) *Repo {
	return &Repo{db: db, siteID: siteID, now: time.Now}
}

func (r *Repo) Append(ctx context.Context, typ, key string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return errors.Wrapf(err, "marshal %s event", typ)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO event_log (site_id, typ, key, data, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		r.siteID, typ, key, string(raw), r.now().Unix())
	return errors.Wrap(err, "append event")
}

// Since returns up to limit events with seq > after, oldest first.
func (r *Repo) Since(ctx context.Context, after int64, limit int) ([]Event, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT seq, site_id, typ, key, data, created_at
		   FROM event_log WHERE seq > $1 ORDER BY seq LIMIT $2`, after, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query events")
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		var ts int64
		if err := rows.Scan(&e.Seq, &e.SiteID, &e.Type, &e.Key, &e.DataJSON, &ts); err != nil {
			return nil, errors.Wrap(err, "scan event")
		}
		e.CreatedAt = time.Unix(ts, 0).UTC()
		out = append(out, e)
	}
	return out, errors.Wrap(rows.Err(), "iterate events")
}
