package handlers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"proprental/internal/common"
	"proprental/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// UploadHandlers handles the CSV batch product upload
type UploadHandlers struct {
	ingestService services.IngestService
	uploadDir     string
}

func NewUploadHandlers(ingestService services.IngestService, uploadDir string) *UploadHandlers {
	return &UploadHandlers{ingestService: ingestService, uploadDir: uploadDir}
}

// UploadProducts accepts a multipart CSV upload and runs the ingestion
// pipeline. The whole batch succeeds or fails as a unit; the response is
// either the number of products created or the error that stopped the batch.
func (h *UploadHandlers) UploadProducts(c echo.Context) error {
	ctx := c.Request().Context()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return common.SendClientError(c, "CSV file is required")
	}
	useRembg := c.FormValue("useRembg") == "true"

	src, err := fileHeader.Open()
	if err != nil {
		return common.SendServerError(c, "Failed to read uploaded file")
	}
	defer src.Close()

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return common.SendServerError(c, "Failed to prepare upload directory")
	}
	tmpPath := filepath.Join(h.uploadDir, fmt.Sprintf("upload-%s.csv", uuid.NewString()))
	dst, err := os.Create(tmpPath)
	if err != nil {
		return common.SendServerError(c, "Failed to store uploaded file")
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(tmpPath)
		return common.SendServerError(c, "Failed to store uploaded file")
	}
	if err := dst.Close(); err != nil {
		os.Remove(tmpPath)
		return common.SendServerError(c, "Failed to store uploaded file")
	}

	result, err := h.ingestService.IngestFile(ctx, tmpPath, useRembg)
	if err != nil {
		return common.SendClientErrorDetails(c, "Failed to process CSV file", err.Error())
	}
	return c.JSON(http.StatusOK, result)
}
