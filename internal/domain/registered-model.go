package domain

import (
	"time"

	"github.com/google/uuid"
)

type ModelState string

const (
	ModelStateLive     ModelState = "LIVE"
	ModelStateArchived ModelState = "ARCHIVED"
)

type Model struct {
	ID               uuid.UUID  `json:"id"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	Name             string     `json:"name"`
	Slug             string     `json:"slug"`
	Authors          []string   `json:"authors"`
	ShortDescription string     `json:"short_description"`
	LongDescription  string     `json:"long_description"`
	Tags             []string   `json:"tags"`
	IsExperimental   bool       `json:"is_experimental"`
	State            ModelState `json:"state"`

	// Computed fields (populated by repository)
	VersionCount   int           `json:"version_count"`
	LatestVersion  *ModelVersion `json:"latest_version,omitempty"`
	DefaultVersion *ModelVersion `json:"default_version,omitempty"`
}
