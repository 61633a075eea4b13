package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sheet-analytics/internal/api/dto"
	"github.com/spec-kit/sheet-analytics/internal/auth"
	"github.com/spec-kit/sheet-analytics/internal/config"
	"github.com/spec-kit/sheet-analytics/internal/service"
	apperrors "github.com/spec-kit/sheet-analytics/pkg/util"
)

// DatasetsHandler exposes upload and history endpoints.
type DatasetsHandler struct {
	datasets *service.DatasetService
	upload   config.UploadConfig
}

// NewDatasetsHandler constructs the handler.
func NewDatasetsHandler(datasetService *service.DatasetService, uploadCfg config.UploadConfig) *DatasetsHandler {
	return &DatasetsHandler{datasets: datasetService, upload: uploadCfg}
}

// Upload handles POST /upload/excel. The multipart field name matches the
// dashboard client: excelFile.
func (h *DatasetsHandler) Upload(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	fileHeader, err := c.FormFile("excelFile")
	if err != nil {
		return apperrors.NewValidationError("file field 'excelFile' is required", nil)
	}
	if fileHeader.Size > h.upload.MaxFileSizeBytes() {
		return apperrors.NewValidationError("file exceeds the size limit", map[string]any{
			"max_bytes": h.upload.MaxFileSizeBytes(),
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return apperrors.MapError(err)
	}
	defer file.Close()

	dataset, rows, err := h.datasets.Ingest(c.UserContext(), service.IngestInput{
		UserID:    principal.ID,
		FileName:  fileHeader.Filename,
		ChartType: c.FormValue("chartType"),
		XAxis:     c.FormValue("xAxis"),
		YAxis:     c.FormValue("yAxis"),
		File:      file,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"msg":     "file processed successfully",
		"dataset": dto.NewDatasetResponse(dataset),
		"data":    rows,
	})
}

// History handles GET /history.
func (h *DatasetsHandler) History(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	datasets, err := h.datasets.History(c.UserContext(), principal.ID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    dto.NewDatasetResponses(datasets),
	})
}

// Get handles GET /history/:id.
func (h *DatasetsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	dataset, err := h.datasets.Get(c.UserContext(), principal.ID, c.Params("id"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    dto.NewDatasetResponse(dataset),
	})
}

// Delete handles DELETE /history/:id.
func (h *DatasetsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	if err := h.datasets.Delete(c.UserContext(), principal.ID, c.Params("id")); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"msg":     "dataset deleted",
	})
}
