package directive_test

import (
	"testing"

	"github.com/always-cache/cache-directive/directive"
)

func TestIsValidToken(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want bool
	}{
		{"Set-Cookie", true},
		{"X-Private", true},
		{"x_custom.header~1", true},
		{"!#$%&'*+-.^_`|~", true},
		{"", false},
		{"X Private", false},
		{`X"Private`, false},
		{"a,b", false},
		{"a;b", false},
		{"a=b", false},
		{"a/b", false},
		{`a\b`, false},
		{"a\tb", false},
		{"a\x7fb", false},
		{"{a}", false},
		{"[a]", false},
		{"<a>", false},
		{"(a)", false},
		{"a@b", false},
		{"a:b", false},
		{"a?b", false},
	}

	for _, c := range cases {
		if got := directive.IsValidToken(c.in); got != c.want {
			t.Errorf("IsValidToken(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
