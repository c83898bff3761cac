package metrics

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteSinkPersistsEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	sink, err := NewSQLiteSink(path, nil)
	require.NoError(t, err)
	defer func() { require.NoError(t, sink.Close()) }()

	sink.Log("chunks_created", map[string]any{"count": 3})
	sink.Log("gpt_calls", map[string]any{"count": 3})
	sink.Log("chunks_created", map[string]any{"count": 1})

	var total int
	require.NoError(t, sink.db.QueryRow(`SELECT COUNT(*) FROM events`).Scan(&total))
	assert.Equal(t, 3, total)

	var created int
	var fields string
	require.NoError(t, sink.db.QueryRow(
		`SELECT COUNT(*) FROM events WHERE event = ?`, "chunks_created").Scan(&created))
	assert.Equal(t, 2, created)

	require.NoError(t, sink.db.QueryRow(
		`SELECT fields FROM events WHERE event = ? ORDER BY id LIMIT 1`, "gpt_calls").Scan(&fields))
	assert.JSONEq(t, `{"count": 3}`, fields)
}

func TestSQLiteSinkSwallowsBadFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	sink, err := NewSQLiteSink(path, nil)
	require.NoError(t, err)
	defer func() { _ = sink.Close() }()

	// functions are not JSON-serializable; the sink must not panic or error
	sink.Log("weird", map[string]any{"fn": func() {}})

	var total int
	require.NoError(t, sink.db.QueryRow(`SELECT COUNT(*) FROM events`).Scan(&total))
	assert.Equal(t, 1, total, "event still recorded with empty fields")
}
