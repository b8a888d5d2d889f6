package db

import (
	"database/sql"
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/edtf/errors"
	"github.com/teranos/edtf/sym"
)

//go:embed sqlite/migrations/*.sql
var migrations embed.FS

const migrationDir = "sqlite/migrations"

// migration is one embedded NNN_description.sql file.
type migration struct {
	version string
	file    string
}

// listMigrations returns the embedded migrations in version order.
func listMigrations(fsys fs.FS) ([]migration, error) {
	entries, err := fs.ReadDir(fsys, migrationDir)
	if err != nil {
		return nil, errors.Wrap(err, "read migrations")
	}

	var out []migration
	seen := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || path.Ext(name) != ".sql" {
			continue
		}
		version, _, ok := strings.Cut(name, "_")
		if !ok || len(version) != 3 || strings.Trim(version, "0123456789") != "" {
			return nil, errors.Newf("migration %s is not named NNN_description.sql", name)
		}
		if prev, dup := seen[version]; dup {
			return nil, errors.Newf("migrations %s and %s share version %s", prev, name, version)
		}
		seen[version] = name
		out = append(out, migration{version: version, file: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })
	return out, nil
}

// appliedVersions reads schema_migrations. Before migration 000 has run the
// table does not exist and nothing is applied.
func appliedVersions(db *sql.DB) (map[string]bool, error) {
	var table string
	err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'schema_migrations'`).Scan(&table)
	if errors.Is(err, sql.ErrNoRows) {
		return map[string]bool{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "look up schema_migrations")
	}

	rows, err := db.Query(`SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, errors.Wrap(err, "read schema_migrations")
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, errors.Wrap(err, "scan schema_migrations")
		}
		applied[v] = true
	}
	return applied, errors.Wrap(rows.Err(), "read schema_migrations")
}

// apply runs m and records it in one transaction.
func apply(db *sql.DB, fsys fs.FS, m migration) error {
	body, err := fs.ReadFile(fsys, path.Join(migrationDir, m.file))
	if err != nil {
		return errors.Wrapf(err, "read %s", m.file)
	}

	tx, err := db.Begin()
	if err != nil {
		return errors.Wrapf(err, "begin %s", m.file)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(string(body)); err != nil {
		return errors.Wrapf(err, "execute %s", m.file)
	}
	if _, err := tx.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, m.version); err != nil {
		return errors.Wrapf(err, "record %s", m.file)
	}
	return errors.Wrapf(tx.Commit(), "commit %s", m.file)
}

// Migrate applies the embedded migrations missing from schema_migrations
// and returns how many ran. A nil logger is silent.
func Migrate(db *sql.DB, logger *zap.SugaredLogger) (int, error) {
	return migrate(db, migrations, logger)
}

func migrate(db *sql.DB, fsys fs.FS, logger *zap.SugaredLogger) (int, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	all, err := listMigrations(fsys)
	if err != nil {
		return 0, err
	}
	done, err := appliedVersions(db)
	if err != nil {
		return 0, err
	}
	if len(done) == 0 && len(all) > 0 && all[0].version != "000" {
		return 0, errors.Newf("first migration must be 000, found %s", all[0].file)
	}

	count := 0
	for _, m := range all {
		if done[m.version] {
			continue
		}
		logger.Infow("Applying migration", "migration", m.file, "version", m.version)
		if err := apply(db, fsys, m); err != nil {
			return count, err
		}
		count++
	}

	logger.Infow("Schema up to date",
		"symbol", sym.DB,
		"migrations", len(all),
		"applied", count)
	return count, nil
}
