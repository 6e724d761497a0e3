package handler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"feedgen/internal/export"
	"feedgen/internal/service"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ExportHandler handles output feed export endpoints.
type ExportHandler struct {
	exports service.ExportService
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(exports service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Create handles POST /api/v1/exports
// @Summary      Export approved rows
// @Description  Rewrites the output sheet from approved rows, uploads CSV and XLSX when configured and sends the export-ready email
// @Tags         exports
// @Produce      json
// @Success      201 {object} APIResponse{data=domain.ExportResult}
// @Failure      422 {object} APIResponse
// @Failure      502 {object} APIResponse
// @Failure      500 {object} APIResponse
// @Router       /exports [post]
func (h *ExportHandler) Create(c *gin.Context) {
	result, err := h.exports.Export(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, result)
}

// DownloadCSV handles GET /api/v1/exports/csv
// @Summary      Download export as CSV
// @Description  Streams approved rows as UTF-8 CSV with a byte order mark
// @Tags         exports
// @Produce      text/csv
// @Success      200 {file} file
// @Failure      422 {object} APIResponse
// @Failure      500 {object} APIResponse
// @Router       /exports/csv [get]
func (h *ExportHandler) DownloadCSV(c *gin.Context) {
	h.download(c, "csv", contentTypeCSV, h.exports.WriteCSV)
}

// DownloadXLSX handles GET /api/v1/exports/xlsx
// @Summary      Download export as XLSX
// @Description  Streams approved rows as a single-sheet workbook
// @Tags         exports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200 {file} file
// @Failure      422 {object} APIResponse
// @Failure      500 {object} APIResponse
// @Router       /exports/xlsx [get]
func (h *ExportHandler) DownloadXLSX(c *gin.Context) {
	h.download(c, "xlsx", contentTypeXLSX, h.exports.WriteXLSX)
}

// download renders into a buffer first so a failure can still produce a JSON error.
func (h *ExportHandler) download(c *gin.Context, ext, contentType string, write func(context.Context, io.Writer) error) {
	var buf bytes.Buffer
	if err := write(c.Request.Context(), &buf); err != nil {
		HandleError(c, err)
		return
	}

	filename := export.BuildFilename("feedgen_export", ext, time.Now())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
