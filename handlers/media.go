package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/blogsystem/blog-api/internal/storage"
	"github.com/blogsystem/blog-api/pkg/logger"
	"github.com/gin-gonic/gin"
)

// maxUploadSize bounds post media uploads (rich-text images)
const maxUploadSize = 10 << 20

// MediaHandler accepts file uploads for post content and stores them in
// object storage, returning a presigned URL the editor can embed.
type MediaHandler struct {
	store *storage.MinIOStorage
}

func NewMediaHandler(store *storage.MinIOStorage) *MediaHandler {
	return &MediaHandler{store: store}
}

// Register wires the upload route behind the provided auth middleware
func (h *MediaHandler) Register(r *gin.Engine, auth gin.HandlerFunc) {
	r.POST("/api/media", auth, h.Upload)
}

func (h *MediaHandler) Upload(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "media storage not configured"})
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "file field is required"})
		return
	}
	if file.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"message": "file too large"})
		return
	}
	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error reading upload"})
		return
	}
	defer src.Close()

	key := fmt.Sprintf("media/%d%s", time.Now().UnixNano(), filepath.Ext(file.Filename))
	contentType := file.Header.Get("Content-Type")
	if err := h.store.UploadFile(c.Request.Context(), key, src, file.Size, contentType); err != nil {
		logger.Errorf("media upload failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error storing upload"})
		return
	}
	url, err := h.store.GetPresignedURL(c.Request.Context(), key, 24*time.Hour)
	if err != nil {
		logger.Errorf("presign failed for %s: %v", key, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error generating URL"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"key": key, "url": url})
}
