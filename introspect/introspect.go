// Package introspect reads the constraint and index names present in a
// live database and compares them against the names a naming convention
// produces.
package introspect

import (
	"fmt"
	"slices"

	"github.com/aarondl/opt/omit"

	"github.com/jvanasco/sqlschema"
)

// Entry is one named constraint or index as it exists in a database.
// Definition carries the backend's rendering of the constraint when the
// backend exposes one.
type Entry struct {
	Schema     string           `json:"schema,omitempty" yaml:"schema,omitempty"`
	Table      string           `json:"table" yaml:"table"`
	Kind       sqlschema.Kind   `json:"kind" yaml:"kind"`
	Name       string           `json:"name" yaml:"name"`
	Columns    []string         `json:"columns" yaml:"columns"`
	Definition omit.Val[string] `json:"definition" yaml:"definition"`
}

// Expected returns the entries a database built from the metadata should
// contain, resolving deferred names on the way. Constraints that end up
// unnamed, such as suppressed ones, are left out.
func Expected(m *sqlschema.Metadata) ([]Entry, error) {
	var entries []Entry
	for _, tbl := range m.Tables() {
		for _, con := range tbl.Constraints() {
			name, ok, err := sqlschema.EffectiveName(con, tbl, m.Convention())
			if err != nil {
				return nil, fmt.Errorf("table %q: %w", tbl.Name(), err)
			}
			if !ok {
				continue
			}

			entry := Entry{
				Table:   tbl.Name(),
				Kind:    con.Kind(),
				Name:    name,
				Columns: constraintColumns(con),
			}
			if check, isCheck := con.(*sqlschema.CheckConstraint); isCheck {
				entry.Definition = omit.From(check.Expression())
			}

			entries = append(entries, entry)
		}
	}

	return entries, nil
}

// Drift is a live entry whose name does not match what the naming
// convention produces.
type Drift struct {
	Entry
	Want string `json:"want" yaml:"want"`
}

// Audit matches live entries against the metadata's constraints and
// reports every name that differs from what the convention produces.
//
// Entries pair up by table, kind and column set. Live entries with no
// counterpart are ignored: the metadata only speaks for the constraints
// it declares, and a check constraint is only found if its columns are
// declared too.
func Audit(live []Entry, m *sqlschema.Metadata) ([]Drift, error) {
	expected, err := Expected(m)
	if err != nil {
		return nil, err
	}

	var drifts []Drift
	for _, have := range live {
		want, ok := matchEntry(expected, have)
		if !ok {
			continue
		}
		if have.Name != want.Name {
			drifts = append(drifts, Drift{Entry: have, Want: want.Name})
		}
	}

	return drifts, nil
}

func matchEntry(expected []Entry, have Entry) (Entry, bool) {
	for _, want := range expected {
		if want.Table != have.Table || want.Kind != have.Kind {
			continue
		}
		if !sameColumns(want.Columns, have.Columns) {
			continue
		}

		return want, true
	}

	return Entry{}, false
}

// sameColumns compares column sets ignoring order, since backends do not
// always report constraint columns in declaration order.
func sameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	as, bs := slices.Clone(a), slices.Clone(b)
	slices.Sort(as)
	slices.Sort(bs)

	return slices.Equal(as, bs)
}

func constraintColumns(c sqlschema.Constraint) []string {
	cols := c.Columns()
	names := make([]string, len(cols))
	for i, col := range cols {
		names[i] = col.Name()
	}

	return names
}
