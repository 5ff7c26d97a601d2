package sqlschema

// Constraint is what the naming machinery needs from a constraint or
// index. The concrete types in this package implement it; anything else
// that does is named the same way.
type Constraint interface {
	// Name returns the current name value.
	Name() Name
	// SetName replaces the name value.
	SetName(Name)
	// Kind returns the constraint category.
	Kind() Kind
	// TypeBound reports whether the constraint was generated to enforce a
	// column type rather than authored by the schema user.
	TypeBound() bool
	// Columns returns the participating columns in order. For foreign keys
	// these are the local columns.
	Columns() []*Column
}

// Referencing is implemented by constraints that point at columns of
// another table.
type Referencing interface {
	Constraint
	References() []Reference
}

// Reference pairs a local column with the dotted target it points at,
// in "table.column" or "schema.table.column" form.
type Reference struct {
	Column *Column
	Target string
}

// Ref builds a Reference.
func Ref(column *Column, target string) Reference {
	return Reference{Column: column, Target: target}
}

// tableBound is implemented by constraints that keep a backreference to
// their owning table.
type tableBound interface {
	bindTable(*Table)
}

// constraint carries the state shared by every concrete constraint type.
type constraint struct {
	name      Name
	table     *Table
	typeBound bool
}

// Name returns the current name value.
func (c *constraint) Name() Name {
	return c.name
}

// SetName replaces the name value.
func (c *constraint) SetName(n Name) {
	c.name = n
}

// Table returns the owning table, or nil while detached.
func (c *constraint) Table() *Table {
	return c.table
}

// TypeBound reports whether the constraint enforces a column type.
func (c *constraint) TypeBound() bool {
	return c.typeBound
}

func (c *constraint) bindTable(t *Table) {
	c.table = t
}

// PrimaryKeyConstraint is a table primary key.
type PrimaryKeyConstraint struct {
	constraint
	columns []*Column
}

// NewPrimaryKey returns a detached primary key constraint over the given
// columns.
func NewPrimaryKey(columns ...*Column) *PrimaryKeyConstraint {
	return &PrimaryKeyConstraint{columns: columns}
}

// Kind returns KindPrimaryKey.
func (c *PrimaryKeyConstraint) Kind() Kind {
	return KindPrimaryKey
}

// Columns returns the key columns in order.
func (c *PrimaryKeyConstraint) Columns() []*Column {
	return c.columns
}

// UniqueConstraint is a table unique constraint.
type UniqueConstraint struct {
	constraint
	columns    []*Column
	columnFlag bool
}

// NewUnique returns a detached unique constraint over the given columns.
func NewUnique(columns ...*Column) *UniqueConstraint {
	return &UniqueConstraint{columns: columns}
}

// Kind returns KindUnique.
func (c *UniqueConstraint) Kind() Kind {
	return KindUnique
}

// Columns returns the constrained columns in order.
func (c *UniqueConstraint) Columns() []*Column {
	return c.columns
}

// CheckConstraint is a table or column check constraint.
type CheckConstraint struct {
	constraint
	expression string
	columns    []*Column
}

// NewCheck returns a detached check constraint with the given expression.
// Columns are optional; column-level checks get theirs through
// [WithCheck].
func NewCheck(expression string, columns ...*Column) *CheckConstraint {
	return &CheckConstraint{expression: expression, columns: columns}
}

// newTypeCheck builds the generated check constraint for a constrained
// column type. Its name starts deferred with no fallback so that only a
// convention can name it.
func newTypeCheck(col *Column) *CheckConstraint {
	return &CheckConstraint{
		constraint: constraint{name: DeferredNone(), typeBound: true},
		expression: col.typ.checkExpression(col.name),
		columns:    []*Column{col},
	}
}

// Kind returns KindCheck.
func (c *CheckConstraint) Kind() Kind {
	return KindCheck
}

// Columns returns the columns the check was declared against, if any.
func (c *CheckConstraint) Columns() []*Column {
	return c.columns
}

// Expression returns the check expression.
func (c *CheckConstraint) Expression() string {
	return c.expression
}

// ForeignKeyConstraint is a table foreign key.
type ForeignKeyConstraint struct {
	constraint
	refs []Reference
}

// NewForeignKey returns a detached foreign key constraint from the given
// column references.
func NewForeignKey(refs ...Reference) *ForeignKeyConstraint {
	return &ForeignKeyConstraint{refs: refs}
}

// Kind returns KindForeignKey.
func (c *ForeignKeyConstraint) Kind() Kind {
	return KindForeignKey
}

// Columns returns the local columns in order.
func (c *ForeignKeyConstraint) Columns() []*Column {
	cols := make([]*Column, len(c.refs))
	for i, ref := range c.refs {
		cols[i] = ref.Column
	}

	return cols
}

// References returns the column reference pairs in order.
func (c *ForeignKeyConstraint) References() []Reference {
	return c.refs
}

// Index is a table index. It is not a constraint in the SQL sense but
// participates in naming the same way.
type Index struct {
	constraint
	columns    []*Column
	unique     bool
	columnFlag bool
}

// NewIndex returns a detached index over the given columns.
func NewIndex(columns ...*Column) *Index {
	return &Index{columns: columns}
}

// NewUniqueIndex returns a detached unique index over the given columns.
func NewUniqueIndex(columns ...*Column) *Index {
	return &Index{columns: columns, unique: true}
}

// Kind returns KindIndex.
func (i *Index) Kind() Kind {
	return KindIndex
}

// Columns returns the indexed columns in order.
func (i *Index) Columns() []*Column {
	return i.columns
}

// Unique reports whether the index is unique.
func (i *Index) Unique() bool {
	return i.unique
}

// columnNames extracts the names of the given columns, for error context.
func columnNames(cols []*Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name()
	}

	return names
}
