package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/qr-table-order/apperror"
	"github.com/yeremiapane/qr-table-order/storage"
	"github.com/yeremiapane/qr-table-order/utils"
)

const maxUploadSize = 10 << 20

var whitespace = regexp.MustCompile(`\s`)

type UploadController struct {
	Storage storage.Storage
	now     func() time.Time
}

func NewUploadController(store storage.Storage) *UploadController {
	return &UploadController{Storage: store, now: time.Now}
}

// UploadFile stores the multipart "file" field as {unix-millis}-{name} and
// returns the stored name.
func (uc *UploadController) UploadFile(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)
	if err := c.Request.ParseMultipartForm(maxUploadSize); err != nil {
		utils.RespondAppError(c, apperror.Store("upload failed", err))
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			utils.RespondAppError(c, apperror.Validation("file is required"))
			return
		}
		utils.RespondAppError(c, apperror.Store("upload failed", err))
		return
	}

	file, err := header.Open()
	if err != nil {
		utils.RespondAppError(c, apperror.Store("upload failed", err))
		return
	}
	defer file.Close()

	fileName := StoredFileName(uc.now(), header.Filename)
	contentType := header.Header.Get("Content-Type")
	if err := uc.Storage.Save(c.Request.Context(), fileName, file, header.Size, contentType); err != nil {
		utils.RespondAppError(c, apperror.Store("upload failed", err))
		return
	}

	utils.InfoLogger.Printf("File uploaded: %s (%d bytes)", fileName, header.Size)
	utils.RespondJSON(c, http.StatusOK, "File uploaded successfully", gin.H{"fileName": fileName})
}

// ServeFile streams a stored upload from the configured backend.
func (uc *UploadController) ServeFile(c *gin.Context) {
	name := strings.TrimPrefix(c.Param("filepath"), "/")
	obj, err := uc.Storage.Open(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			utils.RespondAppError(c, apperror.NotFound("file not found"))
			return
		}
		utils.RespondAppError(c, apperror.Store("failed to read file", err))
		return
	}
	defer obj.Close()

	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, obj.Size, contentType, obj, nil)
}

// StoredFileName prefixes the original base name with the upload time in
// milliseconds and replaces whitespace with '-'.
func StoredFileName(at time.Time, original string) string {
	base := filepath.Base(filepath.ToSlash(original))
	if base == "." || base == "/" {
		base = "file"
	}
	return fmt.Sprintf("%d-%s", at.UnixMilli(), whitespace.ReplaceAllString(base, "-"))
}
