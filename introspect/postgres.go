package introspect

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aarondl/opt/omit"
	"github.com/lib/pq"
	"github.com/stephenafamo/scan"
	"github.com/stephenafamo/scan/stdscan"
	"golang.org/x/sync/errgroup"

	"github.com/jvanasco/sqlschema"
)

// Postgres reads constraint and index names from the PostgreSQL system
// catalogs.
type Postgres struct {
	// The database schemas to read names from. Reads public when empty.
	Schemas pq.StringArray
}

func (p Postgres) schemas() pq.StringArray {
	if len(p.Schemas) == 0 {
		return pq.StringArray{"public"}
	}

	return p.Schemas
}

// Read returns every named constraint and index in the configured
// schemas. Constraints and standalone indexes live in different catalogs
// and are read in parallel.
func (p Postgres) Read(ctx context.Context, db *sql.DB) ([]Entry, error) {
	var constraints, indexes []Entry

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		constraints, err = p.constraints(ctx, db)
		return err
	})
	eg.Go(func() error {
		var err error
		indexes, err = p.indexes(ctx, db)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return append(constraints, indexes...), nil
}

func (p Postgres) constraints(ctx context.Context, db *sql.DB) ([]Entry, error) {
	query := `SELECT
		nsp.nspname as schema
		, rel.relname as table_name
		, con.conname as name
		, con.contype as contype
		, pg_get_constraintdef(con.oid) as definition
		, array_remove(array_agg(local_cols.column_name), NULL) as columns
	FROM pg_catalog.pg_constraint con

	INNER JOIN pg_catalog.pg_class rel
		ON rel.oid = con.conrelid

	INNER JOIN pg_catalog.pg_namespace nsp
		ON nsp.oid = rel.relnamespace

	LEFT JOIN information_schema.columns local_cols
		ON local_cols.table_schema = nsp.nspname
		AND local_cols.table_name = rel.relname
		AND local_cols.ordinal_position = ANY(con.conkey)

	WHERE nsp.nspname = ANY($1)
	AND con.contype IN ('p', 'f', 'u', 'c')
	GROUP BY nsp.nspname, rel.relname, con.conname, con.contype, con.oid
	ORDER BY nsp.nspname, rel.relname, con.conname`

	rows, err := stdscan.All(ctx, db, scan.StructMapper[struct {
		Schema     string
		TableName  string
		Name       string
		Contype    string
		Definition string
		Columns    pq.StringArray
	}](), query, p.schemas())
	if err != nil {
		return nil, fmt.Errorf("reading constraints: %w", err)
	}

	entries := make([]Entry, len(rows))
	for i, row := range rows {
		entries[i] = Entry{
			Schema:     row.Schema,
			Table:      row.TableName,
			Kind:       contypeKind(row.Contype),
			Name:       row.Name,
			Columns:    row.Columns,
			Definition: omit.From(row.Definition),
		}
	}

	return entries, nil
}

// contypeKind maps a pg_constraint.contype to a constraint category.
func contypeKind(contype string) sqlschema.Kind {
	switch contype {
	case "p":
		return sqlschema.KindPrimaryKey
	case "f":
		return sqlschema.KindForeignKey
	case "u":
		return sqlschema.KindUnique
	default:
		return sqlschema.KindCheck
	}
}

func (p Postgres) indexes(ctx context.Context, db *sql.DB) ([]Entry, error) {
	// Indexes backing a constraint carry the constraint's name and are
	// reported with it instead.
	query := `SELECT
		n.nspname as schema
		, t.relname as table_name
		, i.relname as name
		, pg_get_indexdef(x.indexrelid) as definition
		, cols.cols[:x.indnkeyatts] as columns
	FROM pg_index x
	JOIN pg_class t ON t.oid = x.indrelid
	JOIN pg_class i ON i.oid = x.indexrelid
	JOIN pg_namespace n ON n.oid = t.relnamespace
	JOIN (
		SELECT x.indexrelid, array_agg(cols.cols) cols
		FROM pg_index x
		LEFT JOIN (SELECT a.attrelid, pg_get_indexdef(a.attrelid, a.attnum, TRUE) AS cols
			FROM pg_attribute a) cols ON cols.attrelid = x.indexrelid
		WHERE cols IS NOT NULL
		GROUP BY x.indexrelid
	) cols ON cols.indexrelid = x.indexrelid
	WHERE n.nspname = ANY($1)
	AND x.indisvalid AND x.indislive
	AND NOT EXISTS (
		SELECT 1 FROM pg_catalog.pg_constraint con
		WHERE con.conindid = x.indexrelid
	)
	ORDER BY n.nspname, t.relname, i.relname`

	rows, err := stdscan.All(ctx, db, scan.StructMapper[struct {
		Schema     string
		TableName  string
		Name       string
		Definition string
		Columns    pq.StringArray
	}](), query, p.schemas())
	if err != nil {
		return nil, fmt.Errorf("reading indexes: %w", err)
	}

	entries := make([]Entry, len(rows))
	for i, row := range rows {
		entries[i] = Entry{
			Schema:     row.Schema,
			Table:      row.TableName,
			Kind:       sqlschema.KindIndex,
			Name:       row.Name,
			Columns:    row.Columns,
			Definition: omit.From(row.Definition),
		}
	}

	return entries, nil
}
