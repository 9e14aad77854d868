package manifest

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Constraint is a parsed dependency version constraint: the original
// expression, a range matcher, and the closed interval form used for
// satisfiability and intersection checks.
type Constraint struct {
	raw string
	rng *semver.Constraints
	iv  interval
}

// interval is the half-line intersection of every unit in a constraint.
// Nil bounds mean unbounded.
type interval struct {
	lower     *semver.Version
	lowerIncl bool
	upper     *semver.Version
	upperIncl bool
}

// ParseConstraint parses a poetry-style constraint expression: exact
// versions, caret and tilde shorthands, comparator sets separated by commas,
// and the wildcard "*".
func ParseConstraint(expr string) (*Constraint, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return nil, fmt.Errorf("empty version constraint")
	}

	iv := interval{}
	for _, unit := range strings.Split(trimmed, ",") {
		unit = strings.TrimSpace(unit)
		if unit == "" {
			return nil, fmt.Errorf("constraint %q: empty unit", expr)
		}
		u, err := parseUnit(unit)
		if err != nil {
			return nil, fmt.Errorf("constraint %q: %w", expr, err)
		}
		iv = iv.intersect(u)
	}

	// Masterminds understands the same units once "==" is collapsed to "="
	// and commas become spaced separators.
	normalized := strings.ReplaceAll(trimmed, "==", "=")
	rng, err := semver.NewConstraint(strings.ReplaceAll(normalized, ",", ", "))
	if err != nil {
		return nil, fmt.Errorf("constraint %q: %w", expr, err)
	}

	return &Constraint{raw: trimmed, rng: rng, iv: iv}, nil
}

func (c *Constraint) String() string { return c.raw }

// Allows reports whether the version satisfies the constraint.
func (c *Constraint) Allows(v *semver.Version) bool { return c.rng.Check(v) }

// Satisfiable reports whether any version at all can satisfy the
// constraint.
func (c *Constraint) Satisfiable() bool { return !c.iv.empty() }

// Intersects reports whether some version satisfies both constraints.
func (c *Constraint) Intersects(other *Constraint) bool {
	return !c.iv.intersect(other.iv).empty()
}

// parseUnit converts one constraint unit into an interval.
func parseUnit(unit string) (interval, error) {
	switch {
	case unit == "*":
		return interval{}, nil

	case strings.HasPrefix(unit, "^"):
		v, _, err := parsePartial(unit[1:])
		if err != nil {
			return interval{}, err
		}
		return interval{lower: v, lowerIncl: true, upper: caretUpper(v)}, nil

	case strings.HasPrefix(unit, "~"):
		v, parts, err := parsePartial(unit[1:])
		if err != nil {
			return interval{}, err
		}
		return interval{lower: v, lowerIncl: true, upper: tildeUpper(v, parts)}, nil

	case strings.HasPrefix(unit, ">="):
		v, _, err := parsePartial(unit[2:])
		return interval{lower: v, lowerIncl: true}, err

	case strings.HasPrefix(unit, "<="):
		v, _, err := parsePartial(unit[2:])
		return interval{upper: v, upperIncl: true}, err

	case strings.HasPrefix(unit, ">"):
		v, _, err := parsePartial(unit[1:])
		return interval{lower: v, lowerIncl: false}, err

	case strings.HasPrefix(unit, "<"):
		v, _, err := parsePartial(unit[1:])
		return interval{upper: v, upperIncl: false}, err

	case strings.HasPrefix(unit, "=="):
		v, _, err := parsePartial(unit[2:])
		return interval{lower: v, lowerIncl: true, upper: v, upperIncl: true}, err

	case strings.HasPrefix(unit, "="):
		v, _, err := parsePartial(unit[1:])
		return interval{lower: v, lowerIncl: true, upper: v, upperIncl: true}, err

	default:
		v, _, err := parsePartial(unit)
		return interval{lower: v, lowerIncl: true, upper: v, upperIncl: true}, err
	}
}

// parsePartial parses a possibly partial version ("1", "1.2", "1.2.3"),
// returning the coerced version and how many components were written.
func parsePartial(s string) (*semver.Version, int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, 0, fmt.Errorf("missing version")
	}
	v, err := semver.NewVersion(s)
	if err != nil {
		return nil, 0, fmt.Errorf("version %q: %w", s, err)
	}
	return v, strings.Count(s, ".") + 1, nil
}

// caretUpper is the exclusive upper bound of a caret constraint with poetry
// semantics: the next release of the leftmost non-zero component.
func caretUpper(v *semver.Version) *semver.Version {
	switch {
	case v.Major() > 0:
		return semver.New(v.Major()+1, 0, 0, "", "")
	case v.Minor() > 0:
		return semver.New(0, v.Minor()+1, 0, "", "")
	default:
		return semver.New(0, 0, v.Patch()+1, "", "")
	}
}

// tildeUpper is the exclusive upper bound of a tilde constraint: the next
// minor when a minor was written, the next major otherwise.
func tildeUpper(v *semver.Version, parts int) *semver.Version {
	if parts >= 2 {
		return semver.New(v.Major(), v.Minor()+1, 0, "", "")
	}
	return semver.New(v.Major()+1, 0, 0, "", "")
}

func (a interval) intersect(b interval) interval {
	out := a
	if b.lower != nil {
		switch {
		case out.lower == nil || b.lower.GreaterThan(out.lower):
			out.lower, out.lowerIncl = b.lower, b.lowerIncl
		case b.lower.Equal(out.lower):
			out.lowerIncl = out.lowerIncl && b.lowerIncl
		}
	}
	if b.upper != nil {
		switch {
		case out.upper == nil || b.upper.LessThan(out.upper):
			out.upper, out.upperIncl = b.upper, b.upperIncl
		case b.upper.Equal(out.upper):
			out.upperIncl = out.upperIncl && b.upperIncl
		}
	}
	return out
}

func (a interval) empty() bool {
	if a.lower == nil || a.upper == nil {
		return false
	}
	if a.lower.GreaterThan(a.upper) {
		return true
	}
	if a.lower.Equal(a.upper) {
		return !(a.lowerIncl && a.upperIncl)
	}
	return false
}
