package sqlschema

import "fmt"

// Kind is the category of a constraint or index. The naming machinery
// dispatches on kinds instead of concrete types so that convention entries
// can address whole categories.
type Kind string

const (
	KindIndex      Kind = "index"
	KindPrimaryKey Kind = "primary_key"
	KindForeignKey Kind = "foreign_key"
	KindUnique     Kind = "unique"
	KindCheck      Kind = "check"

	// Ancestor categories. They carry no prefix of their own and exist so
	// that the chains below spell out the full hierarchy.
	KindColumnCollection Kind = "column_collection"
	KindConstraint       Kind = "constraint"
)

// kindChains records each category's ancestry from most specific to most
// general. The convention selector walks a chain in order, but only chain
// entries with a base prefix yield candidate convention keys.
var kindChains = map[Kind][]Kind{
	KindIndex:      {KindIndex},
	KindPrimaryKey: {KindPrimaryKey, KindColumnCollection, KindConstraint},
	KindForeignKey: {KindForeignKey, KindColumnCollection, KindConstraint},
	KindUnique:     {KindUnique, KindColumnCollection, KindConstraint},
	KindCheck:      {KindCheck, KindColumnCollection, KindConstraint},
}

// basePrefixes maps each concrete category to the short prefix used as a
// convention key. Type-bound constraints may have these augmented with a
// "type_" variant by the selector.
var basePrefixes = map[Kind]string{
	KindIndex:      "ix",
	KindPrimaryKey: "pk",
	KindForeignKey: "fk",
	KindUnique:     "uq",
	KindCheck:      "ck",
}

// String returns the kind as its convention key.
func (k Kind) String() string {
	return string(k)
}

// Prefix returns the short convention prefix for the kind, if it has one.
func (k Kind) Prefix() (string, bool) {
	p, ok := basePrefixes[k]
	return p, ok
}

// Chain returns the kind's ancestry from most specific to most general,
// starting with the kind itself. The result is shared; callers must not
// modify it.
func (k Kind) Chain() []Kind {
	return kindChains[k]
}

// ParseKind converts a string into one of the concrete constraint
// categories. Ancestor categories are not valid parse results since no
// constraint is of an ancestor category directly.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindIndex, KindPrimaryKey, KindForeignKey, KindUnique, KindCheck:
		return k, nil
	default:
		return "", fmt.Errorf("sqlschema: unknown constraint kind %q", s)
	}
}
