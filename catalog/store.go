// Package catalog stores named EDTF expressions in SQLite.
//
// Every entry keeps the text as supplied and its canonical rendering, so a
// catalog can be searched by either form.
package catalog

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/edtf/db"
	"github.com/teranos/edtf/edtf"
	"github.com/teranos/edtf/errors"
	"github.com/teranos/edtf/logger"
)

// Entry is one stored expression
type Entry struct {
	ID         string        `json:"id" yaml:"id"`
	Raw        string        `json:"raw" yaml:"raw"`
	Normalized string        `json:"normalized" yaml:"normalized"`
	Mode       edtf.ListMode `json:"mode" yaml:"mode"`
	ItemCount  int           `json:"item_count" yaml:"item_count"`
	Label      string        `json:"label,omitempty" yaml:"label,omitempty"`
	CreatedAt  time.Time     `json:"created_at" yaml:"created_at"`
}

// Expression re-parses the normalized text.
func (e Entry) Expression() (edtf.DatePairList, error) {
	return edtf.Parse(e.Normalized)
}

// Filter narrows List. Zero values match everything.
type Filter struct {
	Label  string // exact label
	Search string // substring of raw or normalized text
	Limit  int
}

// Store handles catalog persistence
type Store struct {
	db     *sql.DB
	logger *zap.SugaredLogger
	now    func() time.Time
	newID  func() string
}

// NewStore creates a catalog over a migrated database. A nil logger
// falls back to the global logger.
func NewStore(conn *sql.DB, log *zap.SugaredLogger) *Store {
	if log == nil {
		log = logger.ComponentLogger("catalog")
	}
	return &Store{
		db:     conn,
		logger: logger.AddDBSymbol(log),
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

const entryColumns = `id, raw, normalized, mode, item_count, label, created_at`

// Add validates raw and stores it under label.
func (s *Store) Add(ctx context.Context, raw, label string) (*Entry, error) {
	list, err := edtf.Parse(raw)
	if err != nil {
		var pe *edtf.ParseError
		if errors.As(err, &pe) {
			return nil, errors.WithHint(errors.Wrapf(err, "catalog add"), strings.Join(pe.Suggestions, "; "))
		}
		return nil, errors.Wrap(err, "catalog add")
	}

	entry := &Entry{
		ID:         s.newID(),
		Raw:        raw,
		Normalized: list.String(),
		Mode:       list.Mode,
		ItemCount:  list.Len(),
		Label:      strings.TrimSpace(label),
		CreatedAt:  s.now().UTC(),
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO expressions (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Raw, entry.Normalized, entry.Mode.String(), entry.ItemCount, entry.Label, entry.CreatedAt)
	if err != nil {
		return nil, wrapDB(err, "failed to insert expression %s", entry.ID)
	}

	s.logger.Infow("Expression stored",
		logger.FieldCatalogID, entry.ID,
		logger.FieldExpression, entry.Raw,
		logger.FieldNormalized, entry.Normalized,
		logger.FieldLabel, entry.Label)
	return entry, nil
}

// Get returns the entry with the given id.
func (s *Store) Get(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM expressions WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("catalog entry %s", id)
	}
	if err != nil {
		return nil, wrapDB(err, "failed to get expression %s", id)
	}
	return entry, nil
}

// List returns entries matching f, newest first.
func (s *Store) List(ctx context.Context, f Filter) ([]*Entry, error) {
	var (
		where []string
		args  []interface{}
	)
	if f.Label != "" {
		where = append(where, "label = ?")
		args = append(args, f.Label)
	}
	if f.Search != "" {
		where = append(where, "(instr(raw, ?) > 0 OR instr(normalized, ?) > 0)")
		args = append(args, f.Search, f.Search)
	}

	query := `SELECT ` + entryColumns + ` FROM expressions`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	s.logger.Debugw("Listing expressions", "query", query)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapDB(err, "failed to list expressions")
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan expression")
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Delete removes the entry with the given id.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expressions WHERE id = ?`, id)
	if err != nil {
		return wrapDB(err, "failed to delete expression %s", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read affected rows")
	}
	if n == 0 {
		return errors.NewNotFoundError("catalog entry %s", id)
	}
	s.logger.Infow("Expression deleted", logger.FieldCatalogID, id)
	return nil
}

// Count returns the number of stored entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM expressions`).Scan(&n); err != nil {
		return 0, wrapDB(err, "failed to count expressions")
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row scanner) (*Entry, error) {
	var (
		e    Entry
		mode string
	)
	if err := row.Scan(&e.ID, &e.Raw, &e.Normalized, &mode, &e.ItemCount, &e.Label, &e.CreatedAt); err != nil {
		return nil, err
	}
	if err := e.Mode.UnmarshalText([]byte(mode)); err != nil {
		return nil, errors.Wrapf(err, "expression %s", e.ID)
	}
	return &e, nil
}

func wrapDB(err error, format string, args ...interface{}) error {
	if db.IsDatabaseClosed(err) {
		err = errors.WithSecondaryError(db.ErrDatabaseClosed, err)
	}
	return errors.Wrapf(err, format, args...)
}
