package handler

import (
	"net/http"
	"strconv"

	"neutone-sdk/internal/domain"
	"neutone-sdk/internal/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) ListModelVersions(c *gin.Context) {
	modelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid model id"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := domain.VersionListFilter{
		ModelID: modelID,
		Status:  c.Query("status"),
		SortBy:  c.Query("sort_by"),
		Order:   c.Query("order"),
		Limit:   limit,
		Offset:  offset,
	}

	versions, total, err := h.versionUC.List(c.Request.Context(), filter)
	if err != nil {
		log.WithError(err).Error("list model versions failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.ModelVersionResponse, 0, len(versions))
	for _, v := range versions {
		items = append(items, dto.ToModelVersionResponse(v))
	}

	c.JSON(http.StatusOK, dto.ListModelVersionsResponse{
		Items:      items,
		Total:      total,
		PageSize:   limit,
		NextOffset: offset + len(items),
	})
}

func (h *Handler) GetModelVersion(c *gin.Context) {
	modelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid model id"})
		return
	}

	version, err := h.versionUC.GetByModelAndVersion(c.Request.Context(), modelID, c.Param("ver"))
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToModelVersionResponse(version))
}

func (h *Handler) CreateModelVersion(c *gin.Context) {
	modelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid model id"})
		return
	}

	var req dto.CreateModelVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	isDefault := false
	if req.IsDefault != nil {
		isDefault = *req.IsDefault
	}

	version, err := h.versionUC.Create(
		c.Request.Context(), modelID, req.Version, req.SDKVersion, isDefault,
		domain.ModelVersion{
			IsInputMono:       req.IsInputMono,
			IsOutputMono:      req.IsOutputMono,
			NativeSampleRates: req.NativeSampleRates,
			NativeBufferSizes: req.NativeBufferSizes,
			MinDelaySamples:   req.MinDelaySamples,
			Parameters:        dto.ToParamSpecs(req.Parameters),
		},
	)
	if err != nil {
		log.WithError(err).Error("create model version failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToModelVersionResponse(version))
}

func (h *Handler) UpdateModelVersion(c *gin.Context) {
	version, ok := h.resolveVersion(c)
	if !ok {
		return
	}

	var req dto.UpdateModelVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := make(map[string]interface{})
	if req.SDKVersion != nil {
		updates["sdk_version"] = *req.SDKVersion
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.IsDefault != nil {
		updates["is_default"] = *req.IsDefault
	}

	updated, err := h.versionUC.Update(c.Request.Context(), version.ID, updates)
	if err != nil {
		log.WithError(err).Error("update model version failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToModelVersionResponse(updated))
}

func (h *Handler) SetDefaultVersion(c *gin.Context) {
	version, ok := h.resolveVersion(c)
	if !ok {
		return
	}

	updated, err := h.versionUC.SetDefault(c.Request.Context(), version.ID)
	if err != nil {
		log.WithError(err).Error("set default version failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToModelVersionResponse(updated))
}

// resolveVersion looks up a version from the :id/:ver route params, writing
// the error response itself when the lookup fails.
func (h *Handler) resolveVersion(c *gin.Context) (*domain.ModelVersion, bool) {
	modelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid model id"})
		return nil, false
	}

	version, err := h.versionUC.GetByModelAndVersion(c.Request.Context(), modelID, c.Param("ver"))
	if err != nil {
		mapDomainError(c, err)
		return nil, false
	}
	return version, true
}
