package sqlschema

import (
	"fmt"
	"strings"
)

// Type describes the database type of a column. Types created by Boolean
// and Enum enforce their value set with a generated check constraint on
// backends without a native representation, which is why the naming
// machinery has to deal with constraints nobody wrote.
type Type struct {
	DBType string
	Values []string

	constrained bool
}

// Typed returns a plain column type with no generated constraints.
func Typed(dbType string) Type {
	return Type{DBType: dbType}
}

// Integer returns an integer column type.
func Integer() Type {
	return Typed("integer")
}

// Text returns a text column type.
func Text() Type {
	return Typed("text")
}

// Varchar returns a varchar column type.
func Varchar(limit int) Type {
	return Typed(fmt.Sprintf("varchar(%d)", limit))
}

// Boolean returns a boolean column type backed by a generated check
// constraint restricting the column to 0 and 1.
func Boolean() Type {
	return Type{DBType: "boolean", constrained: true}
}

// Enum returns an enumeration column type backed by a generated check
// constraint restricting the column to the given values.
func Enum(values ...string) Type {
	return Type{DBType: "enum", Values: values, constrained: true}
}

// checkExpression renders the generated constraint expression for
// constrained types.
func (t Type) checkExpression(column string) string {
	if len(t.Values) == 0 {
		return fmt.Sprintf("%s IN (0, 1)", column)
	}

	quoted := make([]string, len(t.Values))
	for i, v := range t.Values {
		quoted[i] = "'" + strings.ReplaceAll(v, "'", "''") + "'"
	}

	return fmt.Sprintf("%s IN (%s)", column, strings.Join(quoted, ", "))
}

// Column holds information about a table column. Columns begin life
// detached; constraints declared against a detached column wait in a
// pending list until the column joins a table, at which point they attach
// to that table as if they had been added to it directly.
type Column struct {
	name    string
	key     string
	typ     Type
	notNull bool

	table      *Table
	pending    []Constraint
	autoIndex  bool
	autoUnique bool
}

// ColumnOption configures a column at construction.
type ColumnOption func(*Column)

// WithKey overrides the column's programmatic key, which otherwise
// defaults to the column name.
func WithKey(key string) ColumnOption {
	return func(c *Column) {
		c.key = key
	}
}

// WithCheck declares a check constraint against the column. The constraint
// attaches to the column's table once the column joins one.
func WithCheck(check *CheckConstraint) ColumnOption {
	return func(c *Column) {
		check.columns = append(check.columns, c)
		c.pending = append(c.pending, check)
	}
}

// WithIndex declares an unnamed single-column index, created when the
// column joins a table.
func WithIndex() ColumnOption {
	return func(c *Column) {
		c.autoIndex = true
	}
}

// WithUnique declares an unnamed single-column unique constraint, created
// when the column joins a table.
func WithUnique() ColumnOption {
	return func(c *Column) {
		c.autoUnique = true
	}
}

// WithNotNull disallows NULL values in the column.
func WithNotNull() ColumnOption {
	return func(c *Column) {
		c.notNull = true
	}
}

// NewColumn returns a detached column.
func NewColumn(name string, typ Type, opts ...ColumnOption) *Column {
	c := &Column{name: name, key: name, typ: typ}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Name returns the database-visible column name.
func (c *Column) Name() string {
	return c.name
}

// Key returns the programmatic key of the column.
func (c *Column) Key() string {
	return c.key
}

// Type returns the column type.
func (c *Column) Type() Type {
	return c.typ
}

// Nullable reports whether the column accepts NULL values.
func (c *Column) Nullable() bool {
	return !c.notNull
}

// Table returns the owning table, or nil while the column is detached.
func (c *Column) Table() *Table {
	return c.table
}

// Label returns the display label of the column, qualified with the table
// name once the column is attached.
func (c *Column) Label() string {
	if c.table != nil {
		return c.table.name + "_" + c.name
	}

	return c.name
}

// Copy returns a detached column with the same definition. Constraints
// pending against the original are not carried over.
func (c *Column) Copy() *Column {
	return &Column{
		name:       c.name,
		key:        c.key,
		typ:        c.typ,
		notNull:    c.notNull,
		autoIndex:  c.autoIndex,
		autoUnique: c.autoUnique,
	}
}

// attachTo joins the column to a table and settles everything that was
// waiting on the table being known: pending checks, declared single-column
// indexes and unique constraints, and the generated check for constrained
// types.
func (c *Column) attachTo(t *Table) error {
	c.table = t

	if err := t.meta.columnHooks.RunHooks(ColumnAttach{Column: c, Table: t}); err != nil {
		return err
	}

	pending := c.pending
	c.pending = nil
	for _, con := range pending {
		if err := t.attachConstraint(con); err != nil {
			return err
		}
	}

	if c.autoIndex {
		ix := NewIndex(c)
		ix.columnFlag = true
		if err := t.attachConstraint(ix); err != nil {
			return err
		}
	}

	if c.autoUnique {
		uq := NewUnique(c)
		uq.columnFlag = true
		if err := t.attachConstraint(uq); err != nil {
			return err
		}
	}

	if c.typ.constrained {
		check := newTypeCheck(c)
		if err := t.attachConstraint(check); err != nil {
			return err
		}
	}

	return nil
}
