package handlers

import (
	"context"
	"io"

	"github.com/gin-gonic/gin"

	"checkup-server/internal/logger"
	"checkup-server/internal/media"
	"checkup-server/internal/utils"
)

// MediaStore is the slice of the media service the upload handler needs.
type MediaStore interface {
	Upload(ctx context.Context, name, contentType string, data []byte) (*media.Asset, error)
	Delete(ctx context.Context, publicID string) error
}

// UploadHandler proxies multipart uploads to the media store and deletes
// orphaned assets by public id.
type UploadHandler struct {
	Media MediaStore
	Log   *logger.Logger
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(mediaStore MediaStore, log *logger.Logger) *UploadHandler {
	return &UploadHandler{Media: mediaStore, Log: log}
}

// Upload accepts multipart files under the "files" field and returns one
// {url, public_id} per uploaded file.
func (h *UploadHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		utils.BadRequest(c, "Invalid multipart form: "+err.Error())
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		utils.BadRequest(c, "No files provided.")
		return
	}

	results := make([]media.Asset, 0, len(files))
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			utils.BadRequest(c, "Error retrieving file from form: "+err.Error())
			return
		}

		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			h.Log.WithComponent("uploads").WithError(err).Error("file read failed")
			utils.InternalServerError(c, "Error reading file content")
			return
		}

		asset, err := h.Media.Upload(c.Request.Context(), header.Filename, header.Header.Get("Content-Type"), data)
		if err != nil {
			h.Log.WithComponent("uploads").WithError(err).Error("media upload failed")
			utils.InternalServerError(c, "Upload failed")
			return
		}
		results = append(results, *asset)
	}

	utils.Success(c, gin.H{
		"success": true,
		"result":  results,
	})
}

// DeleteRequest represents the request body for deleting an uploaded asset.
type DeleteRequest struct {
	PublicID string `json:"public_id" binding:"required"`
}

// Delete removes an uploaded asset by its public id. Used to clean up
// audio whose checkup submission failed after the upload step.
func (h *UploadHandler) Delete(c *gin.Context) {
	var req DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.PublicID == "" {
		utils.BadRequest(c, "Public ID is required for deletion.")
		return
	}

	if err := h.Media.Delete(c.Request.Context(), req.PublicID); err != nil {
		h.Log.WithComponent("uploads").WithError(err).Error("media delete failed")
		utils.InternalServerError(c, "Delete failed")
		return
	}

	utils.Success(c, gin.H{"success": true})
}
