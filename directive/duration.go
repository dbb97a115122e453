package directive

import (
	"math"
	"regexp"
	"strconv"

	"github.com/rs/zerolog/log"
)

const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	secondsPerDay    = 24 * secondsPerHour
	secondsPerWeek   = 7 * secondsPerDay
	// a month is always 30 days
	secondsPerMonth = 30 * secondsPerDay
	// length of a year in seconds, rounded
	secondsPerYear = 31556926
)

type durationUnit struct {
	re      *regexp.Regexp
	seconds int64
	months  bool
}

// units are tried in order, the first match wins.
var units = []durationUnit{
	{re: regexp.MustCompile(`^(\d+)\s*(s|sec|seconds?)$`), seconds: 1},
	{re: regexp.MustCompile(`^(\d+)\s*(min|minutes?)$`), seconds: secondsPerMinute},
	{re: regexp.MustCompile(`^(\d+)\s*(h|hours?)$`), seconds: secondsPerHour},
	{re: regexp.MustCompile(`^(\d+)\s*(d|days?)$`), seconds: secondsPerDay},
	{re: regexp.MustCompile(`^(\d+)\s*(w|wk|weeks?)$`), seconds: secondsPerWeek},
	{re: regexp.MustCompile(`^(\d+)\s*(months?)$`), seconds: secondsPerMonth, months: true},
	{re: regexp.MustCompile(`^(\d+)\s*(y|years?)$`), seconds: secondsPerYear},
}

// ParseDuration converts a human readable duration such as "5 minutes" or
// "1h" into seconds. The directive name is only used for error reporting.
func ParseDuration(value string, name Name) (int64, error) {
	folded := asciiLower(value)
	for _, u := range units {
		m := u.re.FindStringSubmatch(folded)
		if m == nil {
			continue
		}
		qty, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil || qty > math.MaxInt64/u.seconds {
			return 0, &Error{Kind: ErrInvalidDuration, Directive: name, Value: value}
		}
		if u.months {
			log.Trace().Msgf("treating %d month(s) as %d days for %s", qty, qty*30, name)
		}
		return qty * u.seconds, nil
	}
	return 0, &Error{Kind: ErrInvalidDuration, Directive: name, Value: value}
}

// asciiLower lowercases ASCII letters only, so unit words never match
// through Unicode case folding (e.g. the Kelvin sign for "k").
func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
