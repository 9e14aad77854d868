package wrapper

import (
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ParameterSpec describes one of the knobs a wrapped model exposes to the
// host. Defaults are normalized to [0, 1]; the model maps them to whatever
// range it needs internally.
type ParameterSpec struct {
	Name        string  `json:"name" yaml:"name" validate:"required,max=30"`
	Description string  `json:"description" yaml:"description" validate:"max=150"`
	Default     float32 `json:"default" yaml:"default" validate:"gte=0,lte=1"`
	Used        bool    `json:"used" yaml:"used"`
}

// Metadata is the model card attached to a wrapped model. The descriptive
// half is authored by the model's developer (usually in a YAML file next to
// the model); the audio half is filled in by the wrapper via FillMetadata.
type Metadata struct {
	Name                 string            `json:"name" yaml:"name" validate:"required,max=30"`
	Authors              []string          `json:"authors" yaml:"authors" validate:"required,min=1,dive,required"`
	Version              string            `json:"version" yaml:"version" validate:"required"`
	ShortDescription     string            `json:"short_description" yaml:"short_description" validate:"required,max=150"`
	LongDescription      string            `json:"long_description" yaml:"long_description"`
	TechnicalDescription string            `json:"technical_description" yaml:"technical_description"`
	TechnicalLinks       map[string]string `json:"technical_links" yaml:"technical_links" validate:"dive,url"`
	Tags                 []string          `json:"tags" yaml:"tags"`
	Citation             string            `json:"citation" yaml:"citation"`
	IsExperimental       bool              `json:"is_experimental" yaml:"is_experimental"`

	Parameters []ParameterSpec `json:"parameters" yaml:"parameters" validate:"max=4,dive"`

	IsInputMono       bool  `json:"is_input_mono" yaml:"is_input_mono"`
	IsOutputMono      bool  `json:"is_output_mono" yaml:"is_output_mono"`
	NativeSampleRates []int `json:"native_sample_rates" yaml:"native_sample_rates" validate:"dive,gt=0"`
	NativeBufferSizes []int `json:"native_buffer_sizes" yaml:"native_buffer_sizes" validate:"dive,gte=2"`
	MinDelaySamples   int   `json:"min_delay_samples" yaml:"min_delay_samples" validate:"gte=0"`

	SDKVersion string `json:"sdk_version" yaml:"sdk_version"`
}

var validate = validator.New()

// Validate checks the card against the schema: struct constraints plus
// semantic versioning of the version fields.
func (m *Metadata) Validate() error {
	if err := validate.Struct(m); err != nil {
		return fmt.Errorf("invalid model card: %w", err)
	}
	if _, err := semver.NewVersion(m.Version); err != nil {
		return fmt.Errorf("model version %q: %w", m.Version, err)
	}
	if m.SDKVersion != "" {
		if _, err := semver.NewVersion(m.SDKVersion); err != nil {
			return fmt.Errorf("sdk version %q: %w", m.SDKVersion, err)
		}
	}
	return nil
}

// LoadMetadata reads and validates a YAML model card.
func LoadMetadata(path string) (*Metadata, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model card: %w", err)
	}
	var m Metadata
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse model card: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}
