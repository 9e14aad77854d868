package dto

import (
	"github.com/google/uuid"
)

type ParamSpecDTO struct {
	Name        string  `json:"name" binding:"required,max=30"`
	Description string  `json:"description" binding:"max=150"`
	Default     float32 `json:"default" binding:"gte=0,lte=1"`
	Used        bool    `json:"used"`
}

type CreateModelVersionRequest struct {
	Version           string         `json:"version" binding:"required"`
	SDKVersion        string         `json:"sdk_version"`
	IsDefault         *bool          `json:"is_default"`
	IsInputMono       bool           `json:"is_input_mono"`
	IsOutputMono      bool           `json:"is_output_mono"`
	NativeSampleRates []int          `json:"native_sample_rates"`
	NativeBufferSizes []int          `json:"native_buffer_sizes"`
	MinDelaySamples   int            `json:"min_delay_samples" binding:"gte=0"`
	Parameters        []ParamSpecDTO `json:"parameters" binding:"max=4,dive"`
}

type UpdateModelVersionRequest struct {
	SDKVersion *string `json:"sdk_version"`
	Status     *string `json:"status"`
	IsDefault  *bool   `json:"is_default"`
}

type ModelVersionResponse struct {
	ID                uuid.UUID      `json:"id"`
	CreatedAt         string         `json:"created_at"`
	UpdatedAt         string         `json:"updated_at"`
	ModelID           uuid.UUID      `json:"model_id"`
	Version           string         `json:"version"`
	SDKVersion        string         `json:"sdk_version"`
	Status            string         `json:"status"`
	IsDefault         bool           `json:"is_default"`
	IsInputMono       bool           `json:"is_input_mono"`
	IsOutputMono      bool           `json:"is_output_mono"`
	NativeSampleRates []int          `json:"native_sample_rates"`
	NativeBufferSizes []int          `json:"native_buffer_sizes"`
	MinDelaySamples   int            `json:"min_delay_samples"`
	Parameters        []ParamSpecDTO `json:"parameters"`
	FileURI           string         `json:"file_uri,omitempty"`
	Checksum          string         `json:"checksum,omitempty"`
	FileSize          int64          `json:"file_size,omitempty"`
}

type ListModelVersionsResponse struct {
	Items      []ModelVersionResponse `json:"items"`
	Total      int                    `json:"total"`
	PageSize   int                    `json:"page_size"`
	NextOffset int                    `json:"next_offset"`
}
