package dto

import (
	"time"

	"neutone-sdk/internal/domain"
)

const timeFormat = time.RFC3339

func ToModelResponse(m *domain.Model) ModelResponse {
	resp := ModelResponse{
		ID:               m.ID,
		CreatedAt:        m.CreatedAt.Format(timeFormat),
		UpdatedAt:        m.UpdatedAt.Format(timeFormat),
		Name:             m.Name,
		Slug:             m.Slug,
		Authors:          m.Authors,
		ShortDescription: m.ShortDescription,
		LongDescription:  m.LongDescription,
		Tags:             m.Tags,
		IsExperimental:   m.IsExperimental,
		State:            string(m.State),
		VersionCount:     m.VersionCount,
	}

	if m.LatestVersion != nil {
		lv := ToModelVersionResponse(m.LatestVersion)
		resp.LatestVersion = &lv
	}
	if m.DefaultVersion != nil {
		dv := ToModelVersionResponse(m.DefaultVersion)
		resp.DefaultVersion = &dv
	}

	return resp
}

func ToModelVersionResponse(v *domain.ModelVersion) ModelVersionResponse {
	params := make([]ParamSpecDTO, 0, len(v.Parameters))
	for _, p := range v.Parameters {
		params = append(params, ParamSpecDTO{
			Name:        p.Name,
			Description: p.Description,
			Default:     p.Default,
			Used:        p.Used,
		})
	}

	return ModelVersionResponse{
		ID:                v.ID,
		CreatedAt:         v.CreatedAt.Format(timeFormat),
		UpdatedAt:         v.UpdatedAt.Format(timeFormat),
		ModelID:           v.ModelID,
		Version:           v.Version,
		SDKVersion:        v.SDKVersion,
		Status:            string(v.Status),
		IsDefault:         v.IsDefault,
		IsInputMono:       v.IsInputMono,
		IsOutputMono:      v.IsOutputMono,
		NativeSampleRates: v.NativeSampleRates,
		NativeBufferSizes: v.NativeBufferSizes,
		MinDelaySamples:   v.MinDelaySamples,
		Parameters:        params,
		FileURI:           v.FileURI,
		Checksum:          v.Checksum,
		FileSize:          v.FileSize,
	}
}

func ToParamSpecs(params []ParamSpecDTO) []domain.ParamSpec {
	out := make([]domain.ParamSpec, 0, len(params))
	for _, p := range params {
		out = append(out, domain.ParamSpec{
			Name:        p.Name,
			Description: p.Description,
			Default:     p.Default,
			Used:        p.Used,
		})
	}
	return out
}
