package directive_test

import (
	"errors"
	"testing"

	"github.com/always-cache/cache-directive/directive"
)

func TestParseDuration(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want int64
	}{
		{"300s", 300},
		{"300 s", 300},
		{"300 sec", 300},
		{"1 second", 1},
		{"300 seconds", 300},
		{"300 SECONDS", 300},
		{"5 minutes", 300},
		{"5 min", 300},
		{"1 minute", 60},
		{"1h", 3600},
		{"1 hour", 3600},
		{"2 Hours", 7200},
		{"1d", 86400},
		{"2 days", 172800},
		{"1w", 604800},
		{"1wk", 604800},
		{"1 WK", 604800},
		{"2 weeks", 1209600},
		{"1 month", 2592000},
		{"2 months", 5184000},
		{"1 year", 31556926},
		{"1y", 31556926},
		{"2 years", 63113852},
		{"0s", 0},
	}

	for _, c := range cases {
		c := c
		t.Run(c.in, func(t *testing.T) {
			t.Parallel()

			got, err := directive.ParseDuration(c.in, directive.MaxAge)
			if err != nil {
				t.Fatalf("ParseDuration(%q) error = %v", c.in, err)
			}
			if got != c.want {
				t.Errorf("ParseDuration(%q) = %d, want %d", c.in, got, c.want)
			}
		})
	}
}

func TestParseDurationInvalid(t *testing.T) {
	t.Parallel()

	for _, in := range []string{
		"",
		"5",
		"-5s",
		"1.5h",
		"5 fortnights",
		"h",
		" 5s",
		"5s ",
		"5 mins",
		"1 w\u212a",
		"1 \u017fec",
		"99999999999999999999s",
		"9999999999999999 years",
	} {
		_, err := directive.ParseDuration(in, directive.SMaxAge)
		if !errors.Is(err, directive.ErrInvalidDuration) {
			t.Errorf("ParseDuration(%q) error = %v, want %v", in, err, directive.ErrInvalidDuration)
		}
	}
}

func TestParseDurationErrorNamesDirective(t *testing.T) {
	_, err := directive.ParseDuration("soon", directive.StaleIfError)
	var derr *directive.Error
	if !errors.As(err, &derr) {
		t.Fatalf("error is %T, want *directive.Error", err)
	}
	if derr.Directive != directive.StaleIfError || derr.Value != "soon" {
		t.Fatalf("error is %+v", derr)
	}
	if msg := err.Error(); msg != "Cache-Control: Invalid time string `soon` for the stale-if-error delta directive" {
		t.Fatalf("message is %s", msg)
	}
}
