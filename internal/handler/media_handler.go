package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"Octo_Social/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MediaStore 附件对象存储
type MediaStore interface {
	Upload(ctx context.Context, ownerID, fileName, contentType string, file io.Reader, size int64) (*storage.Uploaded, error)
}

type MediaHandler struct {
	store    MediaStore
	maxBytes int64
	log      *zap.Logger
}

func NewMediaHandler(store MediaStore, maxBytes int64, log *zap.Logger) *MediaHandler {
	return &MediaHandler{store: store, maxBytes: maxBytes, log: log}
}

// Upload 上传评论图片或语音，表单字段 file，返回可访问的 url
func (h *MediaHandler) Upload(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"msg": "media storage disabled"})
		return
	}
	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"msg": "file too large"})
			return
		}
		badRequest(c, "file is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		badRequest(c, "cannot read file")
		return
	}
	defer f.Close()

	out, err := h.store.Upload(c.Request.Context(), userIDFromCtx(c), fh.Filename, fh.Header.Get("Content-Type"), f, fh.Size)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedType) {
			badRequest(c, "only image and audio files are allowed")
			return
		}
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
