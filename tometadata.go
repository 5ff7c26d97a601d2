package sqlschema

import "fmt"

// ToMetadata copies the table into another metadata collection and
// returns the copy. Constraints the library generated on its own, such as
// checks enforcing a column type, are not copied: the copied columns
// regenerate them on attachment. Names already computed under the source
// convention are final and carry over unchanged, while names still unset
// are resolved under the target's convention.
func (t *Table) ToMetadata(target *Metadata) (*Table, error) {
	remap := make(map[*Column]*Column, len(t.columns))
	columns := make([]*Column, len(t.columns))
	for i, col := range t.columns {
		copied := col.Copy()
		remap[col] = copied
		columns[i] = copied
	}

	copied, err := NewTable(target, t.name, columns...)
	if err != nil {
		return nil, err
	}

	for _, c := range t.constraints {
		if c.TypeBound() || isColumnGenerated(c) {
			continue
		}

		dup, err := copyConstraint(c, remap)
		if err != nil {
			return nil, err
		}
		if err := copied.AddConstraints(dup); err != nil {
			return nil, err
		}
	}

	return copied, nil
}

// isColumnGenerated reports whether a constraint was created from a
// column's index or unique flag. The flags travel with the copied column,
// which recreates the constraint itself.
func isColumnGenerated(c Constraint) bool {
	switch cc := c.(type) {
	case *Index:
		return cc.columnFlag
	case *UniqueConstraint:
		return cc.columnFlag
	}

	return false
}

func copyConstraint(c Constraint, remap map[*Column]*Column) (Constraint, error) {
	switch cc := c.(type) {
	case *PrimaryKeyConstraint:
		dup := NewPrimaryKey(remapColumns(cc.columns, remap)...)
		dup.name = cc.name
		return dup, nil
	case *UniqueConstraint:
		dup := NewUnique(remapColumns(cc.columns, remap)...)
		dup.name = cc.name
		return dup, nil
	case *CheckConstraint:
		dup := NewCheck(cc.expression, remapColumns(cc.columns, remap)...)
		dup.name = cc.name
		return dup, nil
	case *Index:
		dup := NewIndex(remapColumns(cc.columns, remap)...)
		dup.unique = cc.unique
		dup.name = cc.name
		return dup, nil
	case *ForeignKeyConstraint:
		refs := make([]Reference, len(cc.refs))
		for i, ref := range cc.refs {
			refs[i] = Reference{Column: remapColumn(ref.Column, remap), Target: ref.Target}
		}
		dup := NewForeignKey(refs...)
		dup.name = cc.name
		return dup, nil
	default:
		return nil, fmt.Errorf("sqlschema: cannot copy constraint of type %T", c)
	}
}

func remapColumns(cols []*Column, remap map[*Column]*Column) []*Column {
	out := make([]*Column, len(cols))
	for i, col := range cols {
		out[i] = remapColumn(col, remap)
	}

	return out
}

// remapColumn translates a column pointer to its copy. Columns belonging
// to other tables pass through unchanged.
func remapColumn(col *Column, remap map[*Column]*Column) *Column {
	if copied, ok := remap[col]; ok {
		return copied
	}

	return col
}
