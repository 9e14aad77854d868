package handler

import (
	"fmt"
	"net/http"

	"neutone-sdk/internal/dto"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// UploadModelArtifact accepts a multipart upload under the "file" field and
// attaches it to a version, moving the version to READY.
func (h *Handler) UploadModelArtifact(c *gin.Context) {
	version, ok := h.resolveVersion(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'file' is required"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	updated, err := h.artifactUC.Attach(c.Request.Context(), version.ID, f)
	if err != nil {
		log.WithError(err).Error("attach model artifact failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToModelVersionResponse(updated))
}

func (h *Handler) DownloadModelArtifact(c *gin.Context) {
	version, ok := h.resolveVersion(c)
	if !ok {
		return
	}

	version, rc, err := h.artifactUC.Open(c.Request.Context(), version.ID)
	if err != nil {
		log.WithError(err).Error("open model artifact failed")
		mapDomainError(c, err)
		return
	}
	defer rc.Close()

	filename := fmt.Sprintf("%s-%s.nm", version.ModelID, version.Version)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("X-Checksum-SHA256", version.Checksum)
	c.DataFromReader(http.StatusOK, version.FileSize, "application/octet-stream", rc, nil)
}
