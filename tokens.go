package sqlschema

import (
	"regexp"
	"strconv"
	"strings"
)

// columnToken matches the positional column token family, such as
// column_0_name, column_0N_key or referred_column_2_name. The first group
// captures the position, the second the multi-column marker.
var columnToken = regexp.MustCompile(`^.*_?column_(\d+)(_?N)?_.+`)

// resolution is the ephemeral lookup context for one naming attempt. It
// captures the constraint's name up front because resolving the
// constraint_name token clears the live name as a side effect.
type resolution struct {
	constraint Constraint
	table      *Table
	held       Name
	refs       []Reference
	isFK       bool
}

func newResolution(c Constraint, t *Table) *resolution {
	r := &resolution{constraint: c, table: t, held: c.Name()}
	if rc, ok := c.(Referencing); ok {
		r.isFK = true
		r.refs = rc.References()
	}

	return r
}

// plainTokens handles tokens with a fixed spelling.
var plainTokens = map[string]func(*resolution) (string, error){
	"table_name":          (*resolution).tableName,
	"constraint_name":     (*resolution).constraintName,
	"referred_table_name": (*resolution).referredTableName,
}

// columnTokens handles the positional family, keyed by the token with its
// position replaced by X.
var columnTokens = map[string]func(*resolution, int) (string, error){
	"column_X_key":           (*resolution).columnKey,
	"column_X_name":          (*resolution).columnName,
	"column_X_label":         (*resolution).columnLabel,
	"referred_column_X_name": (*resolution).referredColumnName,
}

// lookup resolves a single template token to its value.
func (r *resolution) lookup(key string) (string, error) {
	if handler, ok := plainTokens[key]; ok {
		return handler(r)
	}

	if m := columnToken.FindStringSubmatch(key); m != nil {
		position, marker := m[1], m[2]

		if marker != "" {
			return r.joinColumns(key, marker)
		}

		if handler, ok := columnTokens[strings.ReplaceAll(key, position, "X")]; ok {
			idx, err := strconv.Atoi(position)
			if err == nil {
				return handler(r, idx)
			}
		}
	}

	return "", &TokenNotFoundError{Token: key}
}

// joinColumns expands a multi-column token over every participating
// column, or every reference for foreign keys. The marker decides the
// separator: tokens written column_0_N_x join with underscores, tokens
// written column_0N_x join bare.
func (r *resolution) joinColumns(key, marker string) (string, error) {
	handler, ok := columnTokens[strings.ReplaceAll(key, "0"+marker, "X")]
	if !ok {
		return "", &TokenNotFoundError{Token: key}
	}

	count := len(r.constraint.Columns())
	if r.isFK {
		count = len(r.refs)
	}
	if count == 0 {
		return "", &ColumnIndexError{Table: r.table.Name(), Index: 0}
	}

	parts := make([]string, count)
	for i := range parts {
		part, err := handler(r, i)
		if err != nil {
			return "", err
		}
		parts[i] = part
	}

	sep := ""
	if strings.HasPrefix(marker, "_") {
		sep = "_"
	}

	return strings.Join(parts, sep), nil
}

func (r *resolution) tableName() (string, error) {
	return r.table.Name(), nil
}

// constraintName yields the name captured when resolution began. A name
// that is not computed is cleared from the constraint so the rendered
// result replaces it instead of wrapping it again on a later pass.
func (r *resolution) constraintName() (string, error) {
	if r.held.IsUnset() || r.held.IsDeferredNone() {
		return "", &UnnamedConstraintError{
			Table:   r.table.Name(),
			Columns: columnNames(r.constraint.Columns()),
		}
	}

	if !r.held.IsComputed() {
		r.constraint.SetName(Name{})
	}

	return r.held.String(), nil
}

// column returns the idx-th participating column, the local side for
// foreign keys.
func (r *resolution) column(idx int) (*Column, error) {
	if r.isFK {
		if idx >= len(r.refs) {
			return nil, &ColumnIndexError{
				Table:   r.table.Name(),
				Columns: columnNames(r.constraint.Columns()),
				Index:   idx,
			}
		}

		return r.refs[idx].Column, nil
	}

	cols := r.constraint.Columns()
	if idx >= len(cols) {
		return nil, &ColumnIndexError{
			Table:   r.table.Name(),
			Columns: columnNames(cols),
			Index:   idx,
		}
	}

	return cols[idx], nil
}

func (r *resolution) columnKey(idx int) (string, error) {
	col, err := r.column(idx)
	if err != nil {
		return "", err
	}

	return col.Key(), nil
}

func (r *resolution) columnName(idx int) (string, error) {
	col, err := r.column(idx)
	if err != nil {
		return "", err
	}

	return col.Name(), nil
}

func (r *resolution) columnLabel(idx int) (string, error) {
	col, err := r.column(idx)
	if err != nil {
		return "", err
	}

	return col.Label(), nil
}

func (r *resolution) referredTableName() (string, error) {
	if !r.isFK {
		return "", &NotReferencingError{Token: "referred_table_name", Table: r.table.Name()}
	}
	if len(r.refs) == 0 {
		return "", &ColumnIndexError{Table: r.table.Name(), Index: 0}
	}

	table, _, err := splitTarget(r.refs[0].Target)
	if err != nil {
		return "", err
	}

	return table, nil
}

func (r *resolution) referredColumnName(idx int) (string, error) {
	if !r.isFK {
		return "", &NotReferencingError{Token: "referred_column_name", Table: r.table.Name()}
	}
	if idx >= len(r.refs) {
		return "", &ColumnIndexError{
			Table:   r.table.Name(),
			Columns: columnNames(r.constraint.Columns()),
			Index:   idx,
		}
	}

	_, column, err := splitTarget(r.refs[idx].Target)
	if err != nil {
		return "", err
	}

	return column, nil
}

// splitTarget splits a dotted reference target into its table and column,
// discarding a leading schema segment.
func splitTarget(target string) (table, column string, err error) {
	switch parts := strings.Split(target, "."); len(parts) {
	case 2:
		return parts[0], parts[1], nil
	case 3:
		return parts[1], parts[2], nil
	default:
		return "", "", &TargetError{Target: target}
	}
}
