package handler

import (
	"github.com/gin-gonic/gin"

	"neutone-sdk/internal/usecase"
)

type Handler struct {
	modelUC    *usecase.ModelUseCase
	versionUC  *usecase.ModelVersionUseCase
	artifactUC *usecase.ModelArtifactUseCase
}

func New(modelUC *usecase.ModelUseCase, versionUC *usecase.ModelVersionUseCase, artifactUC *usecase.ModelArtifactUseCase) *Handler {
	return &Handler{modelUC: modelUC, versionUC: versionUC, artifactUC: artifactUC}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	// Models
	r.GET("/models", h.ListModels)
	r.GET("/models/:id", h.GetModel)
	r.GET("/model", h.GetModelByParams)
	r.POST("/models", h.CreateModel)
	r.PATCH("/models/:id", h.UpdateModel)
	r.DELETE("/models/:id", h.DeleteModel)

	// Model Versions
	r.GET("/models/:id/versions", h.ListModelVersions)
	r.GET("/models/:id/versions/:ver", h.GetModelVersion)
	r.POST("/models/:id/versions", h.CreateModelVersion)
	r.PATCH("/models/:id/versions/:ver", h.UpdateModelVersion)
	r.POST("/models/:id/versions/:ver/default", h.SetDefaultVersion)

	// Model Artifacts
	r.POST("/models/:id/versions/:ver/artifact", h.UploadModelArtifact)
	r.GET("/models/:id/versions/:ver/artifact", h.DownloadModelArtifact)
}
