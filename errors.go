package sqlschema

import (
	"errors"
	"fmt"
	"strings"
)

// Category sentinels. Every typed error in this package matches one of
// these through errors.Is, so callers can branch on the category without
// caring which concrete failure occurred.
var (
	// ErrInvalidRequest is returned when a convention demands something the
	// constraint cannot provide, such as an explicit name or a column at a
	// position that does not exist.
	ErrInvalidRequest = errors.New("sqlschema: invalid request")

	// ErrTokenNotFound is returned when a naming template references a token
	// that matches no recognized pattern.
	ErrTokenNotFound = errors.New("sqlschema: token not found")
)

// UnnamedConstraintError is returned when a template uses the
// constraint_name token but the constraint was never explicitly named.
type UnnamedConstraintError struct {
	Table   string
	Columns []string
}

// Error returns the error string.
func (e *UnnamedConstraintError) Error() string {
	return fmt.Sprintf(
		"sqlschema: naming convention including %%(constraint_name)s token requires that constraint is explicitly named (%s)",
		constraintContext(e.Table, e.Columns),
	)
}

// Is reports whether the target error matches UnnamedConstraintError.
// This allows errors.Is(err, ErrInvalidRequest) to return true.
func (e *UnnamedConstraintError) Is(err error) bool {
	return err == ErrInvalidRequest
}

// ColumnIndexError is returned when a template asks for a column position
// the constraint does not have.
type ColumnIndexError struct {
	Table   string
	Columns []string
	Index   int
}

// Error returns the error string.
func (e *ColumnIndexError) Error() string {
	return fmt.Sprintf(
		"sqlschema: naming convention requires column %d for a constraint, however the constraint does not have that number of columns (%s)",
		e.Index, constraintContext(e.Table, e.Columns),
	)
}

// Is reports whether the target error matches ColumnIndexError.
func (e *ColumnIndexError) Is(err error) bool {
	return err == ErrInvalidRequest
}

// NotReferencingError is returned when a referred_* token is used with a
// constraint that holds no foreign references.
type NotReferencingError struct {
	Token string
	Table string
}

// Error returns the error string.
func (e *NotReferencingError) Error() string {
	return fmt.Sprintf(
		"sqlschema: naming convention token %%(%s)s is only valid for foreign key constraints (table %q)",
		e.Token, e.Table,
	)
}

// Is reports whether the target error matches NotReferencingError.
func (e *NotReferencingError) Is(err error) bool {
	return err == ErrInvalidRequest
}

// TargetError is returned when a foreign reference target is not in
// "table.column" or "schema.table.column" form.
type TargetError struct {
	Target string
}

// Error returns the error string.
func (e *TargetError) Error() string {
	return fmt.Sprintf("sqlschema: malformed foreign reference target %q", e.Target)
}

// Is reports whether the target error matches TargetError.
func (e *TargetError) Is(err error) bool {
	return err == ErrInvalidRequest
}

// PatternError is returned when a naming template itself cannot be parsed,
// for example an unterminated %( token or an unsupported format verb.
type PatternError struct {
	Pattern string
	Reason  string
}

// Error returns the error string.
func (e *PatternError) Error() string {
	return fmt.Sprintf("sqlschema: invalid naming template %q: %s", e.Pattern, e.Reason)
}

// Is reports whether the target error matches PatternError.
func (e *PatternError) Is(err error) bool {
	return err == ErrInvalidRequest
}

// TokenNotFoundError is returned when a template token matches no
// recognized token pattern.
type TokenNotFoundError struct {
	Token string
}

// Error returns the error string.
func (e *TokenNotFoundError) Error() string {
	return fmt.Sprintf("sqlschema: unknown naming template token %q", e.Token)
}

// Is reports whether the target error matches TokenNotFoundError.
// This allows errors.Is(err, ErrTokenNotFound) to return true.
func (e *TokenNotFoundError) Is(err error) bool {
	return err == ErrTokenNotFound
}

// DuplicateTableError is returned when a table is added to a metadata
// collection that already holds a table with the same name.
type DuplicateTableError struct {
	Name string
}

// Error returns the error string.
func (e *DuplicateTableError) Error() string {
	return fmt.Sprintf("sqlschema: table %q is already present in this metadata", e.Name)
}

// IsInvalidRequest returns true if the error belongs to the invalid
// request category.
func IsInvalidRequest(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrInvalidRequest)
}

// IsTokenNotFound returns true if the error belongs to the unknown token
// category.
func IsTokenNotFound(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrTokenNotFound)
}

// constraintContext formats the identifiers used in error messages so a
// failing constraint can be located in a large schema definition.
func constraintContext(table string, columns []string) string {
	if len(columns) == 0 {
		return fmt.Sprintf("table %q", table)
	}

	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = fmt.Sprintf("%q", c)
	}

	return fmt.Sprintf("table %q, columns %s", table, strings.Join(quoted, ", "))
}
