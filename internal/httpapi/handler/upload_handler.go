package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
)

// maxUploadSize caps extraction uploads at 5MB.
const maxUploadSize = 5 * 1024 * 1024

var errUnsupportedFileType = errors.New("Unsupported file type")

type UploadHandler struct{}

func NewUploadHandler() *UploadHandler {
	return &UploadHandler{}
}

func (h *UploadHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/uploads", h.Extract)
}

// Extract pulls plain text out of an uploaded file so the editor can prefill
// a draft. Rich document formats are rejected rather than half-parsed.
func (h *UploadHandler) Extract(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	if fileHeader.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large (max 5MB)"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error processing file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error processing file"})
		return
	}

	text, err := extractText(data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"text": text})
}

// extractText accepts text-like payloads only; anything that sniffs as a
// binary format is unsupported.
func extractText(data []byte) (string, error) {
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "text/") && !strings.HasPrefix(contentType, "application/json") {
		return "", errUnsupportedFileType
	}
	if !utf8.Valid(data) {
		return "", errUnsupportedFileType
	}
	return string(data), nil
}
