package sqlschema

import "fmt"

// Table is a named, ordered collection of columns and constraints bound
// to a metadata collection. Constraints and indexes receive their
// convention names at the moment they attach to the table.
type Table struct {
	name        string
	meta        *Metadata
	columns     []*Column
	constraints []Constraint
}

// NewTable registers a table with the metadata collection and attaches
// the given columns. Attaching columns can fire naming, so construction
// fails if a convention cannot be applied.
func NewTable(m *Metadata, name string, columns ...*Column) (*Table, error) {
	t := &Table{name: name, meta: m}
	if err := m.addTable(t); err != nil {
		return nil, err
	}

	if err := t.AddColumns(columns...); err != nil {
		return nil, err
	}

	return t, nil
}

// Name returns the table name.
func (t *Table) Name() string {
	return t.name
}

// Metadata returns the metadata collection the table belongs to.
func (t *Table) Metadata() *Metadata {
	return t.meta
}

// Columns returns the table's columns in attachment order.
func (t *Table) Columns() []*Column {
	return t.columns
}

// Column returns the column with the given name, or nil.
func (t *Table) Column(name string) *Column {
	for _, c := range t.columns {
		if c.name == name {
			return c
		}
	}

	return nil
}

// Constraints returns the table's constraints and indexes in attachment
// order, including ones the library generated itself.
func (t *Table) Constraints() []Constraint {
	return t.constraints
}

// PrimaryKey returns the table's primary key constraint, or nil.
func (t *Table) PrimaryKey() *PrimaryKeyConstraint {
	for _, c := range t.constraints {
		if pk, ok := c.(*PrimaryKeyConstraint); ok {
			return pk
		}
	}

	return nil
}

// AddColumns attaches columns to the table. Constraints that were waiting
// on a column attach to the table in the same call.
func (t *Table) AddColumns(columns ...*Column) error {
	for _, col := range columns {
		if col.table != nil {
			return fmt.Errorf("sqlschema: column %q is already attached to table %q", col.name, col.table.name)
		}

		t.columns = append(t.columns, col)
		if err := col.attachTo(t); err != nil {
			return err
		}
	}

	return nil
}

// AddConstraints attaches constraints or indexes to the table, firing
// naming for each.
func (t *Table) AddConstraints(constraints ...Constraint) error {
	for _, c := range constraints {
		if err := t.attachConstraint(c); err != nil {
			return err
		}
	}

	return nil
}

func (t *Table) attachConstraint(c Constraint) error {
	if tb, ok := c.(tableBound); ok {
		tb.bindTable(t)
	}
	t.constraints = append(t.constraints, c)

	return t.meta.constraintHooks.RunHooks(ConstraintAttach{Constraint: c, Table: t})
}
