package introspect_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/aarondl/opt/omit"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	_ "modernc.org/sqlite"

	"github.com/jvanasco/sqlschema"
	"github.com/jvanasco/sqlschema/introspect"
)

// byName keeps comparisons stable: index_list reports newest first.
var byName = cmpopts.SortSlices(func(a, b introspect.Entry) bool {
	return a.Name < b.Name
})

func openSQLite(t *testing.T, ddl ...string) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	// An in-memory database exists per connection.
	db.SetMaxOpenConns(1)

	for _, stmt := range ddl {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("executing %q: %v", stmt, err)
		}
	}

	return db
}

func TestSQLiteRead(t *testing.T) {
	t.Parallel()

	db := openSQLite(t,
		`CREATE TABLE orgs (id integer PRIMARY KEY, slug text UNIQUE)`,
		`CREATE TABLE users (id integer PRIMARY KEY, org_id integer, email text)`,
		`CREATE UNIQUE INDEX ix_users_email ON users (email)`,
		`CREATE INDEX ix_users_org_id ON users (org_id)`,
	)

	entries, err := introspect.SQLite{}.Read(context.Background(), db)
	if err != nil {
		t.Fatal(err)
	}

	// The automatic index behind orgs.slug has an internal name and is
	// not reported.
	want := []introspect.Entry{
		{
			Schema:     "main",
			Table:      "users",
			Kind:       sqlschema.KindIndex,
			Name:       "ix_users_email",
			Columns:    []string{"email"},
			Definition: omit.From("CREATE UNIQUE INDEX ix_users_email ON users (email)"),
		},
		{
			Schema:     "main",
			Table:      "users",
			Kind:       sqlschema.KindIndex,
			Name:       "ix_users_org_id",
			Columns:    []string{"org_id"},
			Definition: omit.From("CREATE INDEX ix_users_org_id ON users (org_id)"),
		},
	}

	if diff := cmp.Diff(want, entries, byName, omitCmp); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLiteReadOnly(t *testing.T) {
	t.Parallel()

	db := openSQLite(t,
		`CREATE TABLE users (id integer PRIMARY KEY, email text)`,
		`CREATE TABLE posts (id integer PRIMARY KEY, title text)`,
		`CREATE INDEX ix_users_email ON users (email)`,
		`CREATE INDEX ix_posts_title ON posts (title)`,
	)

	entries, err := introspect.SQLite{Only: []string{"users"}}.Read(context.Background(), db)
	if err != nil {
		t.Fatal(err)
	}

	if len(entries) != 1 || entries[0].Name != "ix_users_email" {
		t.Errorf("expected only the users index, got %v", entries)
	}
}

func TestSQLiteAudit(t *testing.T) {
	t.Parallel()

	db := openSQLite(t,
		`CREATE TABLE users (id integer PRIMARY KEY, org_id integer, email text)`,
		`CREATE INDEX users_email_idx ON users (email)`,
		`CREATE INDEX ix_users_org_id ON users (org_id)`,
	)

	m := sqlschema.NewMetadata(nil)
	id := sqlschema.NewColumn("id", sqlschema.Integer())
	orgID := sqlschema.NewColumn("org_id", sqlschema.Integer())
	email := sqlschema.NewColumn("email", sqlschema.Text())
	tbl, err := sqlschema.NewTable(m, "users", id, orgID, email)
	if err != nil {
		t.Fatal(err)
	}
	if err := tbl.AddConstraints(sqlschema.NewIndex(email), sqlschema.NewIndex(orgID)); err != nil {
		t.Fatal(err)
	}

	live, err := introspect.SQLite{}.Read(context.Background(), db)
	if err != nil {
		t.Fatal(err)
	}

	drifts, err := introspect.Audit(live, m)
	if err != nil {
		t.Fatal(err)
	}

	if len(drifts) != 1 {
		t.Fatalf("expected one drift, got %v", drifts)
	}
	if drifts[0].Name != "users_email_idx" || drifts[0].Want != "ix_users_email" {
		t.Errorf("unexpected drift: %+v", drifts[0])
	}
}
