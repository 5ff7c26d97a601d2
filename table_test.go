package sqlschema

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTwoStepAttachment(t *testing.T) {
	t.Parallel()

	m := NewMetadata(Convention{
		"ck": Pattern("ck_%(table_name)s_%(column_0_name)s"),
	})

	ck := NewCheck("qty > 0")
	col := NewColumn("qty", Integer(), WithCheck(ck))

	// nothing resolves while the column is detached
	if !ck.Name().IsUnset() {
		t.Fatalf("check named before any table was known: %#v", ck.Name())
	}

	tbl, err := NewTable(m, "orders", col)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff("ck_orders_qty", ck.Name().String()); diff != "" {
		t.Fatal(diff)
	}
	if ck.Table() != tbl {
		t.Error("check is not bound to the table")
	}

	found := false
	for _, c := range tbl.Constraints() {
		if c == Constraint(ck) {
			found = true
		}
	}
	if !found {
		t.Error("check did not move onto the table")
	}
}

func TestColumnFlagsCreateConstraints(t *testing.T) {
	t.Parallel()

	m := NewMetadata(Convention{
		"ix": Pattern("ix_%(column_0_label)s"),
		"uq": Pattern("uq_%(table_name)s_%(column_0_name)s"),
	})

	tbl, err := NewTable(m, "users",
		NewColumn("email", Text(), WithIndex(), WithUnique()),
	)
	if err != nil {
		t.Fatal(err)
	}

	var names []string
	for _, c := range tbl.Constraints() {
		names = append(names, c.Name().String())
	}
	if diff := cmp.Diff([]string{"ix_users_email", "uq_users_email"}, names); diff != "" {
		t.Fatal(diff)
	}
}

func TestBooleanTypeGeneratesCheck(t *testing.T) {
	t.Parallel()

	m := NewMetadata(nil)
	tbl, err := NewTable(m, "accounts", NewColumn("active", Boolean()))
	if err != nil {
		t.Fatal(err)
	}

	check := typeCheckOf(t, tbl)
	if diff := cmp.Diff("active IN (0, 1)", check.Expression()); diff != "" {
		t.Fatal(diff)
	}
	if !check.Name().IsDeferredNone() {
		t.Errorf("generated checks should defer naming, got %#v", check.Name())
	}
	if got := check.Columns(); len(got) != 1 || got[0] != tbl.Column("active") {
		t.Error("generated check is not bound to its column")
	}
}

func TestEnumTypeGeneratesCheck(t *testing.T) {
	t.Parallel()

	m := NewMetadata(nil)
	tbl, err := NewTable(m, "tickets", NewColumn("state", Enum("new", "done")))
	if err != nil {
		t.Fatal(err)
	}

	check := typeCheckOf(t, tbl)
	if diff := cmp.Diff("state IN ('new', 'done')", check.Expression()); diff != "" {
		t.Fatal(diff)
	}
	if !check.TypeBound() {
		t.Error("enum checks are type bound")
	}
}

func TestDuplicateTable(t *testing.T) {
	t.Parallel()

	m := NewMetadata(nil)
	if _, err := NewTable(m, "users"); err != nil {
		t.Fatal(err)
	}

	_, err := NewTable(m, "users")
	var dup *DuplicateTableError
	if !errors.As(err, &dup) {
		t.Fatalf("expected a DuplicateTableError, got %v", err)
	}
	if dup.Name != "users" {
		t.Errorf("wrong table in error: %q", dup.Name)
	}
}

func TestColumnCannotAttachTwice(t *testing.T) {
	t.Parallel()

	m := NewMetadata(nil)
	col := NewColumn("id", Integer())
	if _, err := NewTable(m, "one", col); err != nil {
		t.Fatal(err)
	}

	if _, err := NewTable(m, "two", col); err == nil {
		t.Fatal("expected an error reattaching the column")
	}
}

func TestTableLookups(t *testing.T) {
	t.Parallel()

	m := NewMetadata(nil)
	tbl, err := NewTable(m, "users",
		NewColumn("id", Integer()),
		NewColumn("email", Text()),
	)
	if err != nil {
		t.Fatal(err)
	}

	if tbl.Column("email") == nil {
		t.Error("missing column")
	}
	if tbl.Column("absent") != nil {
		t.Error("phantom column")
	}

	pk := NewPrimaryKey(tbl.Column("id"))
	if err := tbl.AddConstraints(pk); err != nil {
		t.Fatal(err)
	}
	if tbl.PrimaryKey() != pk {
		t.Error("primary key lookup failed")
	}

	if m.Table("users") != tbl {
		t.Error("metadata lookup failed")
	}

	_, err = NewTable(m, "audit")
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, table := range m.Tables() {
		names = append(names, table.Name())
	}
	if diff := cmp.Diff([]string{"users", "audit"}, names); diff != "" {
		t.Fatal(diff)
	}
}

func TestLabelQualification(t *testing.T) {
	t.Parallel()

	col := NewColumn("email", Text())
	if diff := cmp.Diff("email", col.Label()); diff != "" {
		t.Fatal(diff)
	}

	m := NewMetadata(nil)
	if _, err := NewTable(m, "users", col); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff("users_email", col.Label()); diff != "" {
		t.Fatal(diff)
	}
}
