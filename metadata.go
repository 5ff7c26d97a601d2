package sqlschema

// Metadata is a collection of tables sharing one naming convention.
type Metadata struct {
	convention Convention
	tables     map[string]*Table
	order      []string

	constraintHooks Hooks[ConstraintAttach]
	columnHooks     Hooks[ColumnAttach]
}

// NewMetadata returns an empty metadata collection using the given naming
// convention. Passing nil selects [DefaultConvention]. The automatic
// naming hook is always registered first, so user hooks observe
// constraints after their names were resolved.
func NewMetadata(convention Convention) *Metadata {
	if convention == nil {
		convention = DefaultConvention
	}

	m := &Metadata{
		convention: convention,
		tables:     map[string]*Table{},
	}
	m.constraintHooks.AppendHooks(m.nameOnAttach)

	return m
}

// Convention returns the active naming convention.
func (m *Metadata) Convention() Convention {
	return m.convention
}

// Table returns the table with the given name, or nil.
func (m *Metadata) Table(name string) *Table {
	return m.tables[name]
}

// Tables returns all tables in registration order.
func (m *Metadata) Tables() []*Table {
	tables := make([]*Table, len(m.order))
	for i, name := range m.order {
		tables[i] = m.tables[name]
	}

	return tables
}

// OnConstraintAttach registers hooks observing constraints as they attach
// to tables.
func (m *Metadata) OnConstraintAttach(hooks ...Hook[ConstraintAttach]) {
	m.constraintHooks.AppendHooks(hooks...)
}

// OnColumnAttach registers hooks observing columns as they attach to
// tables.
func (m *Metadata) OnColumnAttach(hooks ...Hook[ColumnAttach]) {
	m.columnHooks.AppendHooks(hooks...)
}

func (m *Metadata) addTable(t *Table) error {
	if _, ok := m.tables[t.name]; ok {
		return &DuplicateTableError{Name: t.name}
	}

	m.tables[t.name] = t
	m.order = append(m.order, t.name)

	return nil
}
