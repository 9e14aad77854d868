package dto

import (
	"github.com/google/uuid"
)

type CreateModelRequest struct {
	Name             string   `json:"name" binding:"required,max=100"`
	Authors          []string `json:"authors"`
	ShortDescription string   `json:"short_description" binding:"max=150"`
	LongDescription  string   `json:"long_description"`
	Tags             []string `json:"tags"`
	IsExperimental   bool     `json:"is_experimental"`
}

type UpdateModelRequest struct {
	Name             *string  `json:"name"`
	Authors          []string `json:"authors"`
	ShortDescription *string  `json:"short_description"`
	LongDescription  *string  `json:"long_description"`
	Tags             []string `json:"tags"`
	IsExperimental   *bool    `json:"is_experimental"`
	State            *string  `json:"state"`
}

type ModelResponse struct {
	ID               uuid.UUID `json:"id"`
	CreatedAt        string    `json:"created_at"`
	UpdatedAt        string    `json:"updated_at"`
	Name             string    `json:"name"`
	Slug             string    `json:"slug"`
	Authors          []string  `json:"authors"`
	ShortDescription string    `json:"short_description"`
	LongDescription  string    `json:"long_description"`
	Tags             []string  `json:"tags"`
	IsExperimental   bool      `json:"is_experimental"`
	State            string    `json:"state"`
	VersionCount     int       `json:"version_count"`

	LatestVersion  *ModelVersionResponse `json:"latest_version,omitempty"`
	DefaultVersion *ModelVersionResponse `json:"default_version,omitempty"`
}

type ListModelsResponse struct {
	Items      []ModelResponse `json:"items"`
	Total      int             `json:"total"`
	PageSize   int             `json:"page_size"`
	NextOffset int             `json:"next_offset"`
}
