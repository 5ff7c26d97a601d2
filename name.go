package sqlschema

import "fmt"

type nameState uint8

const (
	nameUnset nameState = iota
	nameLiteral
	nameDeferred
	nameDeferredNone
	nameComputed
)

// Name is the value of a constraint or index name field. Besides holding
// the text of the name it records how the name came to be, which is what
// the naming machinery dispatches on:
//
//   - unset: no name was ever given. The zero Name.
//   - literal: supplied by the schema author. Never overwritten.
//   - deferred: naming was postponed, with a fallback value to use when no
//     convention claims the constraint.
//   - deferred-none: naming was postponed and there is no fallback, as with
//     constraints the library generates on its own.
//   - computed: produced by a naming convention. Final.
type Name struct {
	value string
	state nameState
}

// Literal returns a name supplied by the schema author.
func Literal(value string) Name {
	return Name{value: value, state: nameLiteral}
}

// Deferred returns a name whose resolution is postponed until the owning
// table is known. The value stands in when no convention applies.
func Deferred(value string) Name {
	return Name{value: value, state: nameDeferred}
}

// DeferredNone returns a postponed name with no fallback value. Constraints
// generated to enforce a column type carry this state until a convention
// names them.
func DeferredNone() Name {
	return Name{state: nameDeferredNone}
}

// Computed marks a name as already produced by a naming convention.
// Computed names are final: the naming machinery will not touch them again.
// Use this to hand-assign a name that conventions should leave alone.
func Computed(value string) Name {
	return Name{value: value, state: nameComputed}
}

// String returns the text of the name, or "" when there is none.
func (n Name) String() string {
	return n.value
}

// IsUnset reports whether no name was ever given.
func (n Name) IsUnset() bool {
	return n.state == nameUnset
}

// IsLiteral reports whether the name was supplied by the schema author.
func (n Name) IsLiteral() bool {
	return n.state == nameLiteral
}

// IsDeferred reports whether resolution of the name was postponed. It is
// true for both the deferred and deferred-none states.
func (n Name) IsDeferred() bool {
	return n.state == nameDeferred || n.state == nameDeferredNone
}

// IsDeferredNone reports whether the name was postponed with no fallback.
func (n Name) IsDeferredNone() bool {
	return n.state == nameDeferredNone
}

// IsComputed reports whether the name was produced by a naming convention.
func (n Name) IsComputed() bool {
	return n.state == nameComputed
}

// Equal reports whether two names hold the same value in the same state.
func (n Name) Equal(o Name) bool {
	return n == o
}

// GoString makes failed test output readable.
func (n Name) GoString() string {
	switch n.state {
	case nameUnset:
		return "sqlschema.Name{}"
	case nameLiteral:
		return fmt.Sprintf("sqlschema.Literal(%q)", n.value)
	case nameDeferred:
		return fmt.Sprintf("sqlschema.Deferred(%q)", n.value)
	case nameDeferredNone:
		return "sqlschema.DeferredNone()"
	default:
		return fmt.Sprintf("sqlschema.Computed(%q)", n.value)
	}
}
