package sqlschema

import (
	"slices"
	"strings"
)

// Template is a naming convention value. It is one of [Pattern], [Namer]
// or the [Suppress] sentinel.
type Template interface {
	template()
}

// Pattern is a naming template containing %(token)s placeholders, for
// example "uq_%(table_name)s_%(column_0_name)s". A literal percent sign is
// written %%.
type Pattern string

func (Pattern) template() {}

// Tokens returns the tokens the pattern references, in order of
// appearance.
func (p Pattern) Tokens() ([]string, error) {
	var tokens []string
	_, err := renderPattern(string(p), func(token string) (string, error) {
		tokens = append(tokens, token)
		return "", nil
	})
	if err != nil {
		return nil, err
	}

	return tokens, nil
}

// references reports whether the pattern uses the given token. Malformed
// patterns reference nothing; rendering them reports the real error.
func (p Pattern) references(token string) bool {
	tokens, err := p.Tokens()
	if err != nil {
		return false
	}

	return slices.Contains(tokens, token)
}

// Namer generates a complete name for a constraint directly.
type Namer func(Constraint, *Table) (string, error)

func (Namer) template() {}

type suppress struct{}

func (suppress) template() {}

// Suppress directs that constraints matched by its convention entry
// receive no generated name.
var Suppress Template = suppress{}

// Convention maps constraint categories and prefixes to naming templates.
// Recognized keys are the short prefixes ("pk", "fk", "uq", "ck", "ix"),
// their "type_" variants for constraints generated from column types, and
// the category names ("primary_key", "foreign_key", "unique", "check",
// "index").
type Convention map[string]Template

// DefaultConvention names otherwise unnamed indexes after their first
// column.
var DefaultConvention = Convention{
	"ix": Pattern("ix_%(column_0_label)s"),
}

// conventionKey is one candidate lookup: a prefix consulted first, then
// the category itself.
type conventionKey struct {
	prefix string
	kind   Kind
}

// candidateKeys lists the convention keys consulted for a constraint in
// priority order. Only chain entries with a base prefix participate. A
// type-bound constraint that was never explicitly named gets a "type_"
// candidate ahead of each plain prefix, so conventions can single out
// generated constraints without claiming hand-written ones.
func candidateKeys(c Constraint) []conventionKey {
	var keys []conventionKey
	for _, kind := range c.Kind().Chain() {
		prefix, ok := kind.Prefix()
		if !ok {
			continue
		}

		if c.TypeBound() {
			if n := c.Name(); n.IsUnset() || n.IsDeferredNone() {
				keys = append(keys, conventionKey{prefix: "type_" + prefix, kind: kind})
			}
		}
		keys = append(keys, conventionKey{prefix: prefix, kind: kind})
	}

	return keys
}

// SelectTemplate returns the convention entry that applies to the
// constraint, or nil when no entry matches.
func SelectTemplate(convention Convention, c Constraint) Template {
	for _, key := range candidateKeys(c) {
		if tmpl, ok := convention[key.prefix]; ok {
			return tmpl
		}
		if tmpl, ok := convention[key.kind.String()]; ok {
			return tmpl
		}
	}

	return nil
}

// NameFor resolves the name the convention assigns to a constraint
// attached to the given table. A name already computed by a convention is
// returned unchanged. The zero Name is returned when the convention has
// nothing to say: no entry matches, the matching entry is [Suppress], or
// the constraint carries a name the convention must not replace.
//
// Rendering a pattern that uses the constraint_name token consumes a
// plain user-supplied name: it is cleared from the constraint so the
// computed result replaces it rather than wrapping it again on a later
// pass.
func NameFor(c Constraint, t *Table, convention Convention) (Name, error) {
	current := c.Name()
	if current.IsComputed() {
		return current, nil
	}

	tmpl := SelectTemplate(convention, c)
	if tmpl == nil || tmpl == Suppress {
		return Name{}, nil
	}

	applies := current.IsUnset() || current.IsDeferred()
	if p, ok := tmpl.(Pattern); ok && !applies {
		applies = p.references("constraint_name")
	}
	if !applies {
		return Name{}, nil
	}

	switch tm := tmpl.(type) {
	case Pattern:
		rendered, err := renderPattern(string(tm), newResolution(c, t).lookup)
		if err != nil {
			return Name{}, err
		}

		return Computed(rendered), nil
	case Namer:
		rendered, err := tm(c, t)
		if err != nil {
			return Name{}, err
		}

		return Computed(rendered), nil
	}

	return Name{}, nil
}

// EffectiveName returns the name a constraint would carry in emitted DDL:
// the convention result when one applies, otherwise whatever name the
// constraint already holds. ok is false when the constraint ends up
// unnamed, as with suppressed or never-named generated constraints.
func EffectiveName(c Constraint, t *Table, convention Convention) (name string, ok bool, err error) {
	n, err := NameFor(c, t, convention)
	if err != nil {
		return "", false, err
	}
	if !n.IsUnset() {
		return n.String(), true, nil
	}

	switch current := c.Name(); {
	case current.IsUnset(), current.IsDeferredNone():
		return "", false, nil
	default:
		return current.String(), true, nil
	}
}

// nameOnAttach applies the metadata's convention when a constraint
// attaches to a table. Computed names are final and deferred names wait
// for on-demand resolution, so both are left alone.
func (m *Metadata) nameOnAttach(e ConstraintAttach) error {
	if n := e.Constraint.Name(); n.IsComputed() || n.IsDeferred() {
		return nil
	}

	name, err := NameFor(e.Constraint, e.Table, m.convention)
	if err != nil {
		return err
	}
	if !name.IsUnset() {
		e.Constraint.SetName(name)
	}

	return nil
}

// renderPattern walks a %(token)s pattern, substituting each token with
// the lookup result. %% renders a literal percent.
func renderPattern(pattern string, lookup func(string) (string, error)) (string, error) {
	var b strings.Builder
	for i := 0; i < len(pattern); {
		if pattern[i] != '%' {
			b.WriteByte(pattern[i])
			i++
			continue
		}

		if i+1 >= len(pattern) {
			return "", &PatternError{Pattern: pattern, Reason: "dangling % at end of template"}
		}

		switch pattern[i+1] {
		case '%':
			b.WriteByte('%')
			i += 2
		case '(':
			end := strings.IndexByte(pattern[i+2:], ')')
			if end < 0 {
				return "", &PatternError{Pattern: pattern, Reason: "unterminated %( token"}
			}

			token := pattern[i+2 : i+2+end]
			verb := i + 2 + end + 1
			if verb >= len(pattern) || pattern[verb] != 's' {
				return "", &PatternError{Pattern: pattern, Reason: "tokens must use the s format verb"}
			}

			value, err := lookup(token)
			if err != nil {
				return "", err
			}
			b.WriteString(value)
			i = verb + 1
		default:
			return "", &PatternError{Pattern: pattern, Reason: "tokens must be written as %(name)s"}
		}
	}

	return b.String(), nil
}
