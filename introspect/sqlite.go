package introspect

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aarondl/opt/omit"
	"github.com/stephenafamo/scan"
	"github.com/stephenafamo/scan/stdscan"
	"github.com/volatiletech/strmangle"

	"github.com/jvanasco/sqlschema"
)

// SQLite reads index names from a SQLite database. SQLite names primary
// keys, unique constraints and foreign keys internally, so indexes
// created with CREATE INDEX are the only names worth auditing.
type SQLite struct {
	// Schema is the database to inspect, "main" unless attached otherwise.
	Schema string
	// Only restricts reading to the named tables.
	Only []string
}

func (s SQLite) schema() string {
	if s.Schema == "" {
		return "main"
	}

	return s.Schema
}

// Read returns every named index in the schema, table by table.
func (s SQLite) Read(ctx context.Context, db *sql.DB) ([]Entry, error) {
	tables, err := s.tables(ctx, db)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, table := range tables {
		indexes, err := s.indexes(ctx, db, table)
		if err != nil {
			return nil, err
		}
		entries = append(entries, indexes...)
	}

	return entries, nil
}

func (s SQLite) tables(ctx context.Context, db *sql.DB) ([]string, error) {
	var args []any
	query := fmt.Sprintf(`SELECT name FROM %q.sqlite_schema WHERE name NOT LIKE 'sqlite_%%' AND type = 'table'`, s.schema())

	if len(s.Only) > 0 {
		query += fmt.Sprintf(" AND name IN (%s)", strmangle.Placeholders(false, len(s.Only), 1, 1))
		for _, name := range s.Only {
			args = append(args, name)
		}
	}

	query += ` ORDER BY name`

	return stdscan.All(ctx, db, scan.SingleColumnMapper[string], query, args...)
}

func (s SQLite) indexes(ctx context.Context, db *sql.DB, table string) ([]Entry, error) {
	query := fmt.Sprintf(`SELECT name, "unique", origin FROM pragma_index_list('%s', '%s') ORDER BY seq ASC`, table, s.schema())

	list, err := stdscan.All(ctx, db, scan.StructMapper[struct {
		Name   string
		Unique bool
		Origin string
	}](), query)
	if err != nil {
		return nil, fmt.Errorf("listing indexes of %q: %w", table, err)
	}

	var entries []Entry
	for _, ix := range list {
		// pk and u entries are automatic indexes with internal names.
		if ix.Origin != "c" {
			continue
		}

		columns, err := s.indexColumns(ctx, db, ix.Name)
		if err != nil {
			return nil, err
		}

		entry := Entry{
			Schema:  s.schema(),
			Table:   table,
			Kind:    sqlschema.KindIndex,
			Name:    ix.Name,
			Columns: columns,
		}

		ddl, err := s.indexDDL(ctx, db, table, ix.Name)
		if err != nil {
			return nil, err
		}
		if ddl.Valid {
			entry.Definition = omit.From(ddl.String)
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// indexColumns returns the key columns of an index. Expression columns
// have no name and are skipped.
func (s SQLite) indexColumns(ctx context.Context, db *sql.DB, index string) ([]string, error) {
	query := fmt.Sprintf(`SELECT name FROM pragma_index_xinfo('%s', '%s') WHERE key = 1 ORDER BY seqno ASC`, index, s.schema())

	var columns []string
	for name, err := range stdscan.Each(ctx, db, scan.SingleColumnMapper[sql.NullString], query) {
		if err != nil {
			return nil, fmt.Errorf("reading columns of index %q: %w", index, err)
		}
		if name.Valid {
			columns = append(columns, name.String)
		}
	}

	return columns, nil
}

func (s SQLite) indexDDL(ctx context.Context, db *sql.DB, table, index string) (sql.NullString, error) {
	var ddl sql.NullString

	query := fmt.Sprintf(`SELECT sql FROM %q.sqlite_schema WHERE type = 'index' AND name = ? AND tbl_name = ?`, s.schema())
	err := db.QueryRowContext(ctx, query, index, table).Scan(&ddl)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return ddl, fmt.Errorf("reading DDL of index %q: %w", index, err)
	}

	return ddl, nil
}
