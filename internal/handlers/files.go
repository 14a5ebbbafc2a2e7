package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noisevisionproductions/Vitema-sub001/internal/logger"
	"github.com/noisevisionproductions/Vitema-sub001/internal/models"
)

// FileLister lists the stored diet files of an account.
type FileLister interface {
	ListByOwner(ctx context.Context, ownerID string) ([]models.FileMetadata, error)
}

type FilesHandler struct {
	files FileLister
}

func NewFilesHandler(files FileLister) *FilesHandler {
	return &FilesHandler{
		files: files,
	}
}

// GetFiles godoc
// @Summary     List diet files of an account
// @Description Returns the uploaded diet files stored for an account, newest first
// @Tags        files
// @Produce     json
// @Security    Bearer
// @Param       owner query string true "Account ID"
// @Success     200 {object} models.FilesResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/v1/files [get]
func (h *FilesHandler) GetFiles(c *gin.Context) {
	if h.files == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "file store not available"})
		return
	}

	owner := c.Query("owner")
	if owner == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "owner is required"})
		return
	}

	files, err := h.files.ListByOwner(c.Request.Context(), owner)
	if err != nil {
		logger.Error("failed to list files", "owner", owner, "err", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to get files",
			Message: err.Error(),
		})
		return
	}

	fileResponses := make([]models.FileResponse, len(files))
	for i, file := range files {
		fileResponses[i] = models.FileResponse{
			ID:         file.ID,
			OwnerID:    file.OwnerID,
			FileName:   file.FileName,
			FileURL:    file.FileURL,
			FileType:   file.FileType,
			Status:     string(file.Status),
			UploadedAt: file.UploadedAt,
		}
	}

	c.JSON(http.StatusOK, models.FilesResponse{Files: fileResponses})
}
