package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/realapp/realapp-api/internal/repository"
	"github.com/realapp/realapp-api/internal/services"
)

type ReportHandler struct {
	collectionService *services.CollectionReportService
	exportService     *services.ExportService
}

func NewReportHandler(collectionService *services.CollectionReportService, exportService *services.ExportService) *ReportHandler {
	return &ReportHandler{collectionService: collectionService, exportService: exportService}
}

func collectionFilter(c *gin.Context) repository.CollectionFilter {
	filter := repository.CollectionFilter{}

	if v, err := strconv.ParseUint(c.Query("project_id"), 10, 32); err == nil {
		id := uint(v)
		filter.ProjectID = &id
	}
	if v, err := strconv.ParseUint(c.Query("block_id"), 10, 32); err == nil {
		id := uint(v)
		filter.BlockID = &id
	}
	if v, err := strconv.ParseUint(c.Query("unit_id"), 10, 32); err == nil {
		id := uint(v)
		filter.UnitID = &id
	}
	if v, err := strconv.ParseUint(c.Query("customer_id"), 10, 32); err == nil {
		id := uint(v)
		filter.CustomerID = &id
	}
	if code := c.Query("milestone"); code != "" {
		filter.MilestoneCode = &code
	}
	if t, err := time.Parse("2006-01-02", c.Query("from_date")); err == nil {
		filter.FromDate = &t
	}
	if t, err := time.Parse("2006-01-02", c.Query("to_date")); err == nil {
		filter.ToDate = &t
	}

	return filter
}

// @Summary Collection Report
// @Description Dues and collections per invoice with summary KPIs
// @Tags Reports
// @Produce json
// @Param project_id query int false "Filter by project"
// @Param block_id query int false "Filter by block"
// @Param unit_id query int false "Filter by unit"
// @Param customer_id query int false "Filter by customer"
// @Param milestone query string false "Filter by milestone scheme code"
// @Param from_date query string false "Posting date from (YYYY-MM-DD)"
// @Param to_date query string false "Posting date to (YYYY-MM-DD)"
// @Success 200 {object} models.CollectionReport
// @Security BearerAuth
// @Router /reports/collection [get]
func (h *ReportHandler) Collection(c *gin.Context) {
	report, err := h.collectionService.Generate(c.Request.Context(), collectionFilter(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

// @Summary Export Collection Report
// @Description Download the collection report as csv, xlsx or pdf
// @Tags Reports
// @Produce octet-stream
// @Param format path string true "Export format" Enums(csv, xlsx, pdf)
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /reports/collection/export/{format} [get]
func (h *ReportHandler) CollectionExport(c *gin.Context) {
	report, err := h.collectionService.Generate(c.Request.Context(), collectionFilter(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var (
		data        []byte
		filename    string
		contentType string
	)

	switch c.Param("format") {
	case "csv":
		data, filename, err = h.exportService.ExportCSV(c.Request.Context(), report)
		contentType = "text/csv"
	case "xlsx":
		data, filename, err = h.exportService.ExportXLSX(c.Request.Context(), report)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "pdf":
		data, filename, err = h.exportService.ExportPDF(c.Request.Context(), report)
		contentType = "application/pdf"
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported format, use csv, xlsx or pdf"})
		return
	}

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, data)
}
