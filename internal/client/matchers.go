package client

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/lgtm-cli/lgtm/internal/errors"
)

// Matcher is an Alertmanager label matcher.
type Matcher struct {
	Name    string `json:"name"`
	Value   string `json:"value"`
	IsRegex bool   `json:"isRegex"`
	IsEqual bool   `json:"isEqual"`
}

// The shortest-name match picks the first operator, so "a=b=c" has value "b=c".
var matcherPattern = regexp.MustCompile(`^([^=!~]+?)(=~|!~|!=|=)(.*)$`)

// ParseMatcher parses name=value, name!=value, name=~regex or name!~regex.
// A value wrapped in double quotes is unquoted.
func ParseMatcher(s string) (Matcher, error) {
	m := matcherPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Matcher{}, errors.Parameter("invalid matcher %q: expected name=value, name!=value, name=~regex or name!~regex", s)
	}

	name := strings.TrimSpace(m[1])
	if name == "" || strings.ContainsAny(name, " \t") {
		return Matcher{}, errors.Parameter("invalid matcher %q: bad label name %q", s, name)
	}

	value := strings.TrimSpace(m[3])
	if len(value) >= 2 && strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) {
		unquoted, err := strconv.Unquote(value)
		if err != nil {
			return Matcher{}, errors.Parameter("invalid matcher %q: bad quoted value", s).WithCause(err)
		}
		value = unquoted
	}

	op := m[2]
	return Matcher{
		Name:    name,
		Value:   value,
		IsRegex: op == "=~" || op == "!~",
		IsEqual: op == "=" || op == "=~",
	}, nil
}

// ParseMatchers parses each string with ParseMatcher.
func ParseMatchers(ss []string) ([]Matcher, error) {
	matchers := make([]Matcher, 0, len(ss))
	for _, s := range ss {
		m, err := ParseMatcher(s)
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, m)
	}
	return matchers, nil
}

var durationPattern = regexp.MustCompile(`^(\d+)([smhd])$`)

// ParseDuration parses an integer followed by one of s, m, h or d.
func ParseDuration(s string) (time.Duration, error) {
	m := durationPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, errors.Parameter("invalid duration %q: expected an integer followed by s, m, h or d (e.g. 30m, 2h, 1d)", s)
	}

	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, errors.Parameter("invalid duration %q", s).WithCause(err)
	}

	var unit time.Duration
	switch m[2] {
	case "s":
		unit = time.Second
	case "m":
		unit = time.Minute
	case "h":
		unit = time.Hour
	case "d":
		unit = 24 * time.Hour
	}

	if n > int64(1<<63-1)/int64(unit) {
		return 0, errors.Parameter("invalid duration %q: too large", s)
	}
	return time.Duration(n) * unit, nil
}
