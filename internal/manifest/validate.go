package manifest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Issue is one validation finding. Validation collects every issue it can
// find rather than stopping at the first.
type Issue struct {
	Path    string
	Field   string
	Message string
}

func (i Issue) String() string {
	if i.Path == "" {
		return fmt.Sprintf("%s: %s", i.Field, i.Message)
	}
	return fmt.Sprintf("%s: %s: %s", i.Path, i.Field, i.Message)
}

var (
	namePattern = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9._-]*[a-zA-Z0-9])?$`)
	separators  = regexp.MustCompile(`[-_.]+`)
)

// NormalizeName lowercases a package name and collapses runs of separator
// characters to a single hyphen, so "Neutone_SDK" and "neutone-sdk" compare
// equal.
func NormalizeName(name string) string {
	return separators.ReplaceAllString(strings.ToLower(name), "-")
}

// Validate checks a single manifest: the package name is well formed, the
// version parses as semver, every dependency constraint parses and is
// satisfiable, and a build backend is declared.
func Validate(m *Manifest) []Issue {
	var issues []Issue
	add := func(field, format string, args ...any) {
		issues = append(issues, Issue{Path: m.Path, Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if m.Package.Name == "" {
		add("name", "package name is required")
	} else if !namePattern.MatchString(m.Package.Name) {
		add("name", "%q is not a valid package name", m.Package.Name)
	}

	if m.Package.Version == "" {
		add("version", "package version is required")
	} else if _, err := semver.NewVersion(m.Package.Version); err != nil {
		add("version", "%q is not a semantic version", m.Package.Version)
	}

	issues = append(issues, checkDeps(m.Path, "dependencies", m.Dependencies)...)
	issues = append(issues, checkDeps(m.Path, "dev-dependencies", m.DevDependencies)...)

	if m.BuildSystem.Backend == "" {
		add("build-system.build-backend", "build backend is required")
	}
	if len(m.BuildSystem.Requires) == 0 {
		add("build-system.requires", "build requirements are required")
	}

	// A dependency shared by the runtime and dev groups must be installable
	// once, so the two constraints have to overlap.
	for name, expr := range m.Dependencies {
		devExpr, ok := m.DevDependencies[name]
		if !ok {
			continue
		}
		a, errA := ParseConstraint(expr)
		b, errB := ParseConstraint(devExpr)
		if errA != nil || errB != nil {
			continue // already reported by checkDeps
		}
		if !a.Intersects(b) {
			add("dependencies."+name, "runtime constraint %q and dev constraint %q have no common version", expr, devExpr)
		}
	}

	return issues
}

func checkDeps(path, field string, deps map[string]string) []Issue {
	var issues []Issue
	for name, expr := range deps {
		c, err := ParseConstraint(expr)
		if err != nil {
			issues = append(issues, Issue{Path: path, Field: field + "." + name, Message: err.Error()})
			continue
		}
		if !c.Satisfiable() {
			issues = append(issues, Issue{Path: path, Field: field + "." + name, Message: fmt.Sprintf("constraint %q matches no version", expr)})
		}
	}
	return issues
}

// Consistent checks that two sibling manifests describe the same package:
// same normalized name, same version, same build backend, and overlapping
// constraints for every dependency they share.
func Consistent(a, b *Manifest) []Issue {
	var issues []Issue
	add := func(field, format string, args ...any) {
		issues = append(issues, Issue{Path: b.Path, Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if NormalizeName(a.Package.Name) != NormalizeName(b.Package.Name) {
		add("name", "package names differ: %q vs %q", a.Package.Name, b.Package.Name)
	}
	if a.Package.Version != b.Package.Version {
		add("version", "package versions differ: %q vs %q", a.Package.Version, b.Package.Version)
	}
	if a.BuildSystem.Backend != b.BuildSystem.Backend {
		add("build-system.build-backend", "build backends differ: %q vs %q", a.BuildSystem.Backend, b.BuildSystem.Backend)
	}

	for name, exprA := range a.Dependencies {
		exprB, ok := b.Dependencies[name]
		if !ok {
			continue
		}
		ca, errA := ParseConstraint(exprA)
		cb, errB := ParseConstraint(exprB)
		if errA != nil || errB != nil {
			continue
		}
		if !ca.Intersects(cb) {
			add("dependencies."+name, "constraints %q and %q have no common version", exprA, exprB)
		}
	}

	return issues
}
