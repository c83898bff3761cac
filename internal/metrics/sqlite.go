package metrics

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/marketsense/jobbrief/internal/common"
)

const eventsSchema = `
CREATE TABLE IF NOT EXISTS events (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	event      TEXT NOT NULL,
	fields     TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_event ON events(event);
`

// SQLiteSink persists events to a local SQLite database so batch runs can be
// analyzed after the fact. Insert failures are logged and dropped, keeping
// the fire-and-forget contract.
type SQLiteSink struct {
	db  *sql.DB
	log *slog.Logger
}

func NewSQLiteSink(path string, logger *slog.Logger) (*SQLiteSink, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, common.NewAppError("metrics_store", "open sqlite", err)
	}
	if _, err := db.Exec(eventsSchema); err != nil {
		_ = db.Close()
		return nil, common.NewAppError("metrics_store", "create events table", err)
	}
	return &SQLiteSink{db: db, log: logger}, nil
}

func (s *SQLiteSink) Log(event string, fields map[string]any) {
	payload, err := json.Marshal(fields)
	if err != nil {
		s.log.Warn("metrics.sqlite.encode_error", "event", event, "error", err)
		payload = []byte("{}")
	}
	_, err = s.db.Exec(
		`INSERT INTO events (event, fields, created_at) VALUES (?, ?, ?)`,
		event, string(payload), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		s.log.Warn("metrics.sqlite.insert_error", "event", event, "error", err)
	}
}

func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
