package schemafile_test

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jvanasco/sqlschema/schemafile"
)

func ptr[T any](v T) *T {
	return &v
}

func TestLoad(t *testing.T) {
	spec, err := schemafile.Load(filepath.Join("testdata", "schema.yaml"))
	if err != nil {
		t.Fatalf("loading schema: %v", err)
	}

	want := schemafile.Spec{
		Naming: map[string]string{
			"ix":      "ix_%(column_0_label)s",
			"pk":      "pk_%(table_name)s",
			"uq":      "uq_%(table_name)s_%(column_0_N_name)s",
			"ck":      "ck_%(table_name)s_%(constraint_name)s",
			"fk":      "fk_%(table_name)s_%(column_0_name)s_%(referred_table_name)s",
			"type_ck": "ck_%(table_name)s_%(column_0_name)s_type",
		},
		Tables: []schemafile.TableSpec{
			{
				Name: "orgs",
				Columns: []schemafile.ColumnSpec{
					{Name: "id", Type: "integer", Nullable: ptr(false)},
					{Name: "slug", Type: "text", Unique: true},
				},
				PrimaryKey: &schemafile.KeySpec{Columns: []string{"id"}},
			},
			{
				Name: "users",
				Columns: []schemafile.ColumnSpec{
					{Name: "id", Type: "integer", Nullable: ptr(false)},
					{Name: "org_id", Type: "integer", Nullable: ptr(false)},
					{Name: "email", Type: "text", Index: true},
					{Name: "state", Type: "enum", Values: []string{"active", "disabled"}},
					{Name: "admin", Type: "boolean"},
				},
				PrimaryKey: &schemafile.KeySpec{Columns: []string{"id"}},
				Uniques:    []schemafile.KeySpec{{Columns: []string{"org_id", "email"}}},
				Checks: []schemafile.CheckSpec{{
					Name:       "sane_email",
					Expression: "email LIKE '%@%'",
					Columns:    []string{"email"},
				}},
				ForeignKeys: []schemafile.ForeignKeySpec{{
					References: []schemafile.RefSpec{{Column: "org_id", Target: "orgs.id"}},
				}},
				Indexes: []schemafile.IndexSpec{{
					Columns: []string{"org_id", "email"},
					Unique:  true,
				}},
			},
		},
	}

	if diff := cmp.Diff(want, spec); diff != "" {
		t.Fatalf("loaded spec mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadJSON(t *testing.T) {
	spec, err := schemafile.Load(filepath.Join("testdata", "schema.json"))
	if err != nil {
		t.Fatalf("loading schema: %v", err)
	}

	if got := spec.Naming["ix"]; got != "ix_%(column_0_label)s" {
		t.Errorf("default index naming not applied, got %q", got)
	}
	if len(spec.Tables) != 1 || spec.Tables[0].Name != "widgets" {
		t.Fatalf("unexpected tables: %#v", spec.Tables)
	}
	if nullable := spec.Tables[0].Columns[0].Nullable; nullable == nil || *nullable {
		t.Errorf("widgets.id should load as not nullable, got %v", nullable)
	}
}

func TestLoadDefaultPathMissing(t *testing.T) {
	spec, err := schemafile.Load("")
	if err != nil {
		t.Fatalf("missing default file should not error, got %v", err)
	}

	want := map[string]string{"ix": "ix_%(column_0_label)s"}
	if diff := cmp.Diff(want, spec.Naming); diff != "" {
		t.Errorf("naming mismatch (-want +got):\n%s", diff)
	}
	if len(spec.Tables) != 0 {
		t.Errorf("expected no tables, got %d", len(spec.Tables))
	}
}

func TestLoadExplicitPathMissing(t *testing.T) {
	_, err := schemafile.Load(filepath.Join("testdata", "absent.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing explicit path")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SQLSCHEMA_NAMING_UQ", "uq_custom_%(table_name)s")
	t.Setenv("SQLSCHEMA_NAMING_IX", "ix_custom_%(column_0_name)s")

	spec, err := schemafile.Load(filepath.Join("testdata", "schema.yaml"))
	if err != nil {
		t.Fatalf("loading schema: %v", err)
	}

	if got := spec.Naming["uq"]; got != "uq_custom_%(table_name)s" {
		t.Errorf("environment should override the file entry, got %q", got)
	}
	if got := spec.Naming["ix"]; got != "ix_custom_%(column_0_name)s" {
		t.Errorf("environment should override the default entry, got %q", got)
	}
	if got := spec.Naming["pk"]; got != "pk_%(table_name)s" {
		t.Errorf("untouched entries should survive, got %q", got)
	}
}

func TestWithNaming(t *testing.T) {
	t.Parallel()

	spec := schemafile.Spec{
		Naming: map[string]string{"pk": "pk_%(table_name)s"},
		Tables: []schemafile.TableSpec{{Name: "t"}},
	}

	got := spec.WithNaming(map[string]string{
		"pk": "primary_%(table_name)s",
		"uq": "uq_%(table_name)s",
	})

	if got.Naming["pk"] != "primary_%(table_name)s" || got.Naming["uq"] != "uq_%(table_name)s" {
		t.Errorf("overrides not applied: %#v", got.Naming)
	}
	if spec.Naming["pk"] != "pk_%(table_name)s" {
		t.Errorf("receiver was mutated: %#v", spec.Naming)
	}
	if len(spec.Naming) != 1 {
		t.Errorf("receiver gained entries: %#v", spec.Naming)
	}
}

func TestCloneIsDeep(t *testing.T) {
	t.Parallel()

	spec := schemafile.Spec{
		Naming: map[string]string{"pk": "pk_%(table_name)s"},
		Tables: []schemafile.TableSpec{{
			Name:    "t",
			Columns: []schemafile.ColumnSpec{{Name: "a", Nullable: ptr(false)}},
		}},
	}

	clone := spec.Clone()
	clone.Naming["pk"] = "changed"
	clone.Tables[0].Columns[0].Name = "b"
	*clone.Tables[0].Columns[0].Nullable = true

	if spec.Naming["pk"] != "pk_%(table_name)s" {
		t.Error("clone shares the naming map")
	}
	if spec.Tables[0].Columns[0].Name != "a" {
		t.Error("clone shares the column slice")
	}
	if *spec.Tables[0].Columns[0].Nullable {
		t.Error("clone shares the nullable pointer")
	}
}
