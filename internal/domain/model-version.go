package domain

import (
	"time"

	"github.com/google/uuid"
)

type VersionStatus string

const (
	VersionStatusPending VersionStatus = "PENDING"
	VersionStatusReady   VersionStatus = "READY"
	VersionStatusFailed  VersionStatus = "FAILED"
)

// ParamSpec describes one of the knobs a wrapped model exposes to the
// plugin host.
type ParamSpec struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Default     float32 `json:"default"`
	Used        bool    `json:"used"`
}

type ModelVersion struct {
	ID         uuid.UUID     `json:"id"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
	ModelID    uuid.UUID     `json:"model_id"`
	Version    string        `json:"version"`
	SDKVersion string        `json:"sdk_version"`
	Status     VersionStatus `json:"status"`
	IsDefault  bool          `json:"is_default"`

	// Runtime profile reported by the wrapper at export time.
	IsInputMono       bool        `json:"is_input_mono"`
	IsOutputMono      bool        `json:"is_output_mono"`
	NativeSampleRates []int       `json:"native_sample_rates"`
	NativeBufferSizes []int       `json:"native_buffer_sizes"`
	MinDelaySamples   int         `json:"min_delay_samples"`
	Parameters        []ParamSpec `json:"parameters"`

	// Artifact fields, empty until a model file is attached.
	FileURI  string `json:"file_uri,omitempty"`
	Checksum string `json:"checksum,omitempty"`
	FileSize int64  `json:"file_size,omitempty"`
}
