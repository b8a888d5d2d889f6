package catalog

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/edtf/db"
	"github.com/teranos/edtf/edtf"
	"github.com/teranos/edtf/errors"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		conn.Close()
	})

	s := NewStore(conn, zaptest.NewLogger(t).Sugar())
	s.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
	s.newID = func() string { return "fixed-id" }
	return s, mock
}

func TestStore_AddStatement(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO expressions (id, raw, normalized, mode, item_count, label, created_at)")).
		WithArgs("fixed-id", "2004-(06)?-11", "2004-(06)?-11", "one-of-a-set", 1, "label", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	entry, err := s.Add(context.Background(), "2004-(06)?-11", "label")
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", entry.ID)
}

func TestStore_ListStatement(t *testing.T) {
	s, mock := newMockStore(t)

	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, raw, normalized, mode, item_count, label, created_at FROM expressions WHERE label = ? AND (instr(raw, ?) > 0 OR instr(normalized, ?) > 0) ORDER BY created_at DESC, id LIMIT ?")).
		WithArgs("birth", "1984", "1984", 5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "raw", "normalized", "mode", "item_count", "label", "created_at"}).
			AddRow("a", "{1984}", "{1984}", "multiple", 1, "birth", created))

	entries, err := s.List(context.Background(), Filter{Label: "birth", Search: "1984", Limit: 5})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, edtf.Multiple, entries[0].Mode)
}

func TestStore_GetNoRows(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT .* FROM expressions WHERE id = ?").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := s.Get(context.Background(), "missing")
	assert.True(t, errors.IsNotFoundError(err))
}

func TestStore_ClosedDatabase(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM expressions")).
		WillReturnError(errors.New("sql: database is closed"))

	_, err := s.Count(context.Background())
	require.Error(t, err)
	assert.True(t, db.IsDatabaseClosed(err))
	assert.True(t, errors.Is(err, db.ErrDatabaseClosed))
}

func TestStore_BadModeColumn(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT .* FROM expressions WHERE id = ?").
		WithArgs("x").
		WillReturnRows(sqlmock.NewRows([]string{"id", "raw", "normalized", "mode", "item_count", "label", "created_at"}).
			AddRow("x", "1984", "1984", "several", 1, "", time.Now()))

	_, err := s.Get(context.Background(), "x")
	require.Error(t, err)
	assert.False(t, errors.IsNotFoundError(err))
}
