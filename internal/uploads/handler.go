// Package uploads serves the public binary upload endpoint backing the
// editor's image picker.
package uploads

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/studioform/portfolio-admin-backend/internal/objectstore"
)

type Handler struct {
	objects  objectstore.Store
	prefix   string
	maxBytes int64
	limiter  *rate.Limiter
}

// NewHandler caps bodies at maxBytes and throttles to perMinute requests.
func NewHandler(objects objectstore.Store, prefix string, maxBytes int64, perMinute int) *Handler {
	return &Handler{
		objects:  objects,
		prefix:   prefix,
		maxBytes: maxBytes,
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
	}
}

// Register attaches the upload route.
func (h *Handler) Register(r *gin.Engine) {
	r.POST("/api/upload", h.upload)
}

func (h *Handler) upload(c *gin.Context) {
	if !h.limiter.Allow() {
		c.JSON(http.StatusTooManyRequests, gin.H{"ok": false, "error": "too many uploads"})
		return
	}

	filename := strings.TrimSpace(c.Query("filename"))
	if filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "filename required"})
		return
	}

	body := http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)
	data, err := io.ReadAll(body)
	if err != nil {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"ok": false, "error": "body too large"})
		return
	}
	if len(data) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "empty body"})
		return
	}

	key := fmt.Sprintf("%s%d-%s", h.prefix, time.Now().UnixMilli(), filename)
	contentType := http.DetectContentType(data)
	url, err := h.objects.Upload(c.Request.Context(), key, bytes.NewReader(data), contentType)
	if err != nil {
		log.Printf("upload %s: %v", key, err)
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": "upload failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "url": url})
}
