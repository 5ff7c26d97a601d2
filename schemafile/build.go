package schemafile

import (
	"fmt"
	"strings"

	"github.com/jvanasco/sqlschema"
)

// Convention converts the naming entries of a spec into an engine
// convention. An empty template suppresses naming for its key. Templates
// are checked up front so that a typo fails here instead of halfway
// through building tables.
func Convention(naming map[string]string) (sqlschema.Convention, error) {
	conv := make(sqlschema.Convention, len(naming))
	for key, tmpl := range naming {
		if tmpl == "" {
			conv[key] = sqlschema.Suppress
			continue
		}

		p := sqlschema.Pattern(tmpl)
		if _, err := p.Tokens(); err != nil {
			return nil, fmt.Errorf("naming entry %q: %w", key, err)
		}
		conv[key] = p
	}

	return conv, nil
}

// Build constructs metadata from the spec, resolving every constraint and
// index name the convention covers on the way.
func Build(spec Spec) (*sqlschema.Metadata, error) {
	conv, err := Convention(spec.Naming)
	if err != nil {
		return nil, err
	}

	m := sqlschema.NewMetadata(conv)
	for _, table := range spec.Tables {
		if err := buildTable(m, table); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func buildTable(m *sqlschema.Metadata, spec TableSpec) error {
	columns := make([]*sqlschema.Column, len(spec.Columns))
	for i, cs := range spec.Columns {
		columns[i] = buildColumn(cs)
	}

	tbl, err := sqlschema.NewTable(m, spec.Name, columns...)
	if err != nil {
		return fmt.Errorf("table %q: %w", spec.Name, err)
	}

	constraints, err := buildConstraints(tbl, spec)
	if err != nil {
		return err
	}

	if err := tbl.AddConstraints(constraints...); err != nil {
		return fmt.Errorf("table %q: %w", spec.Name, err)
	}

	return nil
}

func buildColumn(spec ColumnSpec) *sqlschema.Column {
	var opts []sqlschema.ColumnOption
	if spec.Key != "" {
		opts = append(opts, sqlschema.WithKey(spec.Key))
	}
	if spec.Nullable != nil && !*spec.Nullable {
		opts = append(opts, sqlschema.WithNotNull())
	}
	if spec.Index {
		opts = append(opts, sqlschema.WithIndex())
	}
	if spec.Unique {
		opts = append(opts, sqlschema.WithUnique())
	}
	if spec.Check != "" {
		opts = append(opts, sqlschema.WithCheck(sqlschema.NewCheck(spec.Check)))
	}

	return sqlschema.NewColumn(spec.Name, columnType(spec), opts...)
}

// columnType maps the written type to an engine type. Unknown names pass
// through as literal database types.
func columnType(spec ColumnSpec) sqlschema.Type {
	switch strings.ToLower(spec.Type) {
	case "integer", "int":
		return sqlschema.Integer()
	case "text", "":
		return sqlschema.Text()
	case "boolean", "bool":
		return sqlschema.Boolean()
	case "enum":
		return sqlschema.Enum(spec.Values...)
	default:
		return sqlschema.Typed(spec.Type)
	}
}

func buildConstraints(tbl *sqlschema.Table, spec TableSpec) ([]sqlschema.Constraint, error) {
	var constraints []sqlschema.Constraint

	if pk := spec.PrimaryKey; pk != nil {
		cols, err := tableColumns(tbl, pk.Columns)
		if err != nil {
			return nil, err
		}

		con := sqlschema.NewPrimaryKey(cols...)
		setSpecName(con, pk.Name)
		constraints = append(constraints, con)
	}

	for _, uq := range spec.Uniques {
		cols, err := tableColumns(tbl, uq.Columns)
		if err != nil {
			return nil, err
		}

		con := sqlschema.NewUnique(cols...)
		setSpecName(con, uq.Name)
		constraints = append(constraints, con)
	}

	for _, ck := range spec.Checks {
		cols, err := tableColumns(tbl, ck.Columns)
		if err != nil {
			return nil, err
		}

		con := sqlschema.NewCheck(ck.Expression, cols...)
		setSpecName(con, ck.Name)
		constraints = append(constraints, con)
	}

	for _, fk := range spec.ForeignKeys {
		refs := make([]sqlschema.Reference, len(fk.References))
		for i, ref := range fk.References {
			col := tbl.Column(ref.Column)
			if col == nil {
				return nil, fmt.Errorf("table %q has no column %q", tbl.Name(), ref.Column)
			}
			refs[i] = sqlschema.Ref(col, ref.Target)
		}

		con := sqlschema.NewForeignKey(refs...)
		setSpecName(con, fk.Name)
		constraints = append(constraints, con)
	}

	for _, ix := range spec.Indexes {
		cols, err := tableColumns(tbl, ix.Columns)
		if err != nil {
			return nil, err
		}

		var con *sqlschema.Index
		if ix.Unique {
			con = sqlschema.NewUniqueIndex(cols...)
		} else {
			con = sqlschema.NewIndex(cols...)
		}
		setSpecName(con, ix.Name)
		constraints = append(constraints, con)
	}

	return constraints, nil
}

func tableColumns(tbl *sqlschema.Table, names []string) ([]*sqlschema.Column, error) {
	cols := make([]*sqlschema.Column, len(names))
	for i, name := range names {
		col := tbl.Column(name)
		if col == nil {
			return nil, fmt.Errorf("table %q has no column %q", tbl.Name(), name)
		}
		cols[i] = col
	}

	return cols, nil
}

// setSpecName marks explicitly written names as literal so the convention
// leaves them alone.
func setSpecName(c sqlschema.Constraint, name string) {
	if name != "" {
		c.SetName(sqlschema.Literal(name))
	}
}
