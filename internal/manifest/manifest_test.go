package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleManifest = `
[tool.poetry]
name = "neutone_sdk"
version = "1.4.1"
description = "SDK for wrapping deep learning models for audio plugins"
license = "LGPL-3.0"
authors = ["Qosmo <info@qosmo.jp>"]
homepage = "https://neutone.space"
repository = "https://github.com/QosmoInc/neutone_sdk"

[tool.poetry.dependencies]
python = "^3.9"
torch = ">=1.11.0,<2"
torchaudio = "*"
numpy = { version = "^1.21.6", python = "<3.11" }

[tool.poetry.group.dev.dependencies]
pytest = "^7.1.2"
jupyter = "^1.0.0"

[build-system]
requires = ["poetry-core>=1.0.0"]
build-backend = "poetry.core.masonry.api"
`

func TestParse(t *testing.T) {
	m, err := Parse([]byte(sampleManifest))
	require.NoError(t, err)

	assert.Equal(t, "neutone_sdk", m.Package.Name)
	assert.Equal(t, "1.4.1", m.Package.Version)
	assert.Equal(t, []string{"Qosmo <info@qosmo.jp>"}, m.Package.Authors)
	assert.Equal(t, "poetry.core.masonry.api", m.BuildSystem.Backend)

	assert.Equal(t, "^3.9", m.Dependencies["python"])
	assert.Equal(t, ">=1.11.0,<2", m.Dependencies["torch"])
	assert.Equal(t, "*", m.Dependencies["torchaudio"])
	assert.Equal(t, "^1.21.6", m.Dependencies["numpy"], "table form should contribute its version key")

	assert.Equal(t, "^7.1.2", m.DevDependencies["pytest"])
}

func TestParse_LegacyDevGroup(t *testing.T) {
	doc := `
[tool.poetry]
name = "pkg"
version = "0.1.0"

[tool.poetry.dev-dependencies]
pytest = "^7.0"
`
	m, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "^7.0", m.DevDependencies["pytest"])
}

func TestParse_BadDependencyTable(t *testing.T) {
	doc := `
[tool.poetry]
name = "pkg"
version = "0.1.0"

[tool.poetry.dependencies]
numpy = { python = "<3.11" }
`
	_, err := Parse([]byte(doc))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pyproject.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleManifest), 0o644))

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, m.Path)
	assert.Equal(t, "neutone_sdk", m.Package.Name)
}

func TestParseConstraint_Allows(t *testing.T) {
	cases := []struct {
		expr    string
		version string
		want    bool
	}{
		{"*", "0.0.1", true},
		{"^1.2.3", "1.9.0", true},
		{"^1.2.3", "2.0.0", false},
		{"^0.2.3", "0.2.9", true},
		{"^0.2.3", "0.3.0", false},
		{"^0.0.3", "0.0.3", true},
		{"^0.0.3", "0.0.4", false},
		{"~1.2.3", "1.2.9", true},
		{"~1.2.3", "1.3.0", false},
		{"~1.2", "1.2.9", true},
		{"~1.2", "1.3.0", false},
		{"~1", "1.9.0", true},
		{"~1", "2.0.0", false},
		{">=1.11.0,<2", "1.13.1", true},
		{">=1.11.0,<2", "2.0.0", false},
		{"==1.4.1", "1.4.1", true},
		{"==1.4.1", "1.4.2", false},
		{"1.4.1", "1.4.1", true},
		{">1.0", "1.0.0", false},
		{"<=1.0", "1.0.0", true},
	}
	for _, tc := range cases {
		c, err := ParseConstraint(tc.expr)
		require.NoErrorf(t, err, "parse %q", tc.expr)
		v := semver.MustParse(tc.version)
		assert.Equalf(t, tc.want, c.Allows(v), "%q allows %q", tc.expr, tc.version)
	}
}

func TestParseConstraint_Errors(t *testing.T) {
	for _, expr := range []string{"", "  ", "^", ">=", "one.two", ">=1.0,,<2"} {
		_, err := ParseConstraint(expr)
		assert.Errorf(t, err, "expected error for %q", expr)
	}
}

func TestConstraint_Satisfiable(t *testing.T) {
	sat, err := ParseConstraint(">=1.0,<2.0")
	require.NoError(t, err)
	assert.True(t, sat.Satisfiable())

	unsat, err := ParseConstraint(">=2.0,<1.0")
	require.NoError(t, err)
	assert.False(t, unsat.Satisfiable())

	point, err := ParseConstraint(">=1.0,<=1.0")
	require.NoError(t, err)
	assert.True(t, point.Satisfiable())

	empty, err := ParseConstraint(">1.0,<=1.0")
	require.NoError(t, err)
	assert.False(t, empty.Satisfiable())
}

func TestConstraint_Intersects(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"^1.2", "~1.4", true},
		{"^1.2", "^2.0", false},
		{">=1.11.0,<2", "==1.13.1", true},
		{"*", "^0.0.1", true},
		{"<1.0", ">=1.0", false},
		{"<=1.0", ">=1.0", true},
	}
	for _, tc := range cases {
		a, err := ParseConstraint(tc.a)
		require.NoError(t, err)
		b, err := ParseConstraint(tc.b)
		require.NoError(t, err)
		assert.Equalf(t, tc.want, a.Intersects(b), "%q vs %q", tc.a, tc.b)
		assert.Equalf(t, tc.want, b.Intersects(a), "%q vs %q (reversed)", tc.b, tc.a)
	}
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "neutone-sdk", NormalizeName("Neutone_SDK"))
	assert.Equal(t, "a-b-c", NormalizeName("a-_.b...c"))
}

func TestValidate(t *testing.T) {
	m, err := Parse([]byte(sampleManifest))
	require.NoError(t, err)
	assert.Empty(t, Validate(m))
}

func TestValidate_Issues(t *testing.T) {
	m := &Manifest{
		Path: "pyproject.toml",
		Package: Package{
			Name:    "-bad-",
			Version: "one.two",
		},
		Dependencies: map[string]string{
			"torch": ">=2.0,<1.0",
			"numpy": "not a constraint $",
			"tqdm":  "^4.0",
		},
		DevDependencies: map[string]string{
			"tqdm": "^5.0",
		},
	}

	issues := Validate(m)
	fields := make(map[string]bool, len(issues))
	for _, is := range issues {
		fields[is.Field] = true
		assert.Equal(t, "pyproject.toml", is.Path)
	}

	assert.True(t, fields["name"])
	assert.True(t, fields["version"])
	assert.True(t, fields["dependencies.torch"])
	assert.True(t, fields["dependencies.numpy"])
	assert.True(t, fields["dependencies.tqdm"], "runtime and dev constraints for tqdm cannot overlap")
	assert.True(t, fields["build-system.build-backend"])
	assert.True(t, fields["build-system.requires"])
}

func TestConsistent(t *testing.T) {
	a, err := Parse([]byte(sampleManifest))
	require.NoError(t, err)
	b, err := Parse([]byte(sampleManifest))
	require.NoError(t, err)
	b.Package.Name = "Neutone-SDK" // normalizes to the same name

	assert.Empty(t, Consistent(a, b))
}

func TestConsistent_Mismatches(t *testing.T) {
	a, err := Parse([]byte(sampleManifest))
	require.NoError(t, err)
	b, err := Parse([]byte(sampleManifest))
	require.NoError(t, err)

	b.Package.Name = "other-pkg"
	b.Package.Version = "2.0.0"
	b.BuildSystem.Backend = "setuptools.build_meta"
	b.Dependencies["torch"] = "^2.1"

	issues := Consistent(a, b)
	fields := make(map[string]bool, len(issues))
	for _, is := range issues {
		fields[is.Field] = true
	}

	assert.True(t, fields["name"])
	assert.True(t, fields["version"])
	assert.True(t, fields["build-system.build-backend"])
	assert.True(t, fields["dependencies.torch"])
}
