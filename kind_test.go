package sqlschema

import "testing"

func TestParseKind(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"index", "primary_key", "foreign_key", "unique", "check"} {
		k, err := ParseKind(s)
		if err != nil {
			t.Errorf("%s: %v", s, err)
			continue
		}
		if k.String() != s {
			t.Errorf("%s: round trip gave %q", s, k.String())
		}
	}

	for _, s := range []string{"", "constraint", "column_collection", "pk", "bogus"} {
		if _, err := ParseKind(s); err == nil {
			t.Errorf("%q: expected an error", s)
		}
	}
}

func TestKindPrefixes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind   Kind
		prefix string
	}{
		{KindIndex, "ix"},
		{KindPrimaryKey, "pk"},
		{KindForeignKey, "fk"},
		{KindUnique, "uq"},
		{KindCheck, "ck"},
	}

	for i, test := range tests {
		p, ok := test.kind.Prefix()
		if !ok || p != test.prefix {
			t.Errorf("%d) got %q, %t", i, p, ok)
		}
	}

	if _, ok := KindConstraint.Prefix(); ok {
		t.Error("ancestor categories have no prefix")
	}
}

func TestKindChains(t *testing.T) {
	t.Parallel()

	for _, k := range []Kind{KindIndex, KindPrimaryKey, KindForeignKey, KindUnique, KindCheck} {
		chain := k.Chain()
		if len(chain) == 0 || chain[0] != k {
			t.Errorf("%s: chain must start with the kind itself, got %v", k, chain)
		}
	}

	chain := KindCheck.Chain()
	if chain[len(chain)-1] != KindConstraint {
		t.Errorf("constraint chains should end at the generic category, got %v", chain)
	}
}
