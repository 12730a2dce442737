package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/realapp/realapp-api/internal/middleware"
	"github.com/realapp/realapp-api/internal/repository"
	"github.com/realapp/realapp-api/internal/services"
)

type CostSheetHandler struct {
	costSheetService *services.CostSheetService
}

func NewCostSheetHandler(costSheetService *services.CostSheetService) *CostSheetHandler {
	return &CostSheetHandler{costSheetService: costSheetService}
}

// @Summary List Cost Sheets
// @Description Get a paginated list of cost sheets
// @Tags CostSheets
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param unit_id query int false "Filter by unit"
// @Param project_id query int false "Filter by project"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /cost_sheets [get]
func (h *CostSheetHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Filters = map[string]string{
		"unit_id":         c.Query("unit_id"),
		"project_id":      c.Query("project_id"),
		"cost_sheet_type": c.Query("cost_sheet_type"),
	}

	sheets, total, err := h.costSheetService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"cost_sheets": sheets, "pagination": gin.H{"total": total}})
}

// @Summary Get Cost Sheet
// @Description Get a cost sheet with its payment schedule
// @Tags CostSheets
// @Produce json
// @Param cost_sheet_id path int true "Cost Sheet ID"
// @Success 200 {object} models.CostSheet
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /cost_sheets/{cost_sheet_id} [get]
func (h *CostSheetHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("cost_sheet_id"), 10, 32)
	sheet, err := h.costSheetService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cost sheet not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cost_sheet": sheet})
}

// @Summary Create Cost Sheet
// @Description Create a cost sheet for an available unit; booked, blocked and sold units are rejected
// @Tags CostSheets
// @Accept json
// @Produce json
// @Param request body services.CreateCostSheetInput true "Cost Sheet Data"
// @Success 201 {object} models.CostSheet
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /cost_sheets [post]
func (h *CostSheetHandler) Create(c *gin.Context) {
	var in services.CreateCostSheetInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sheet, err := h.costSheetService.Create(c.Request.Context(), in, middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, services.ErrUnitNotAvailable) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"cost_sheet": sheet})
}

// @Summary Update Cost Sheet
// @Description Rebuild a cost sheet from its unit and new inputs
// @Tags CostSheets
// @Accept json
// @Produce json
// @Param cost_sheet_id path int true "Cost Sheet ID"
// @Param request body services.CreateCostSheetInput true "Cost Sheet Data"
// @Success 200 {object} models.CostSheet
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /cost_sheets/{cost_sheet_id} [put]
func (h *CostSheetHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("cost_sheet_id"), 10, 32)
	var in services.CreateCostSheetInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sheet, err := h.costSheetService.Update(c.Request.Context(), uint(id), in, middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"cost_sheet": sheet})
}

// @Summary Delete Cost Sheet
// @Description Delete a cost sheet and its schedule
// @Tags CostSheets
// @Produce json
// @Param cost_sheet_id path int true "Cost Sheet ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /cost_sheets/{cost_sheet_id} [delete]
func (h *CostSheetHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("cost_sheet_id"), 10, 32)
	if err := h.costSheetService.Delete(c.Request.Context(), uint(id), middleware.GetUserID(c)); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cost sheet deleted"})
}

// @Summary Preview Cost Sheet
// @Description Compute a full cost sheet preview without persisting it
// @Tags CostSheets
// @Accept json
// @Produce json
// @Param request body services.CreateCostSheetInput true "Cost Sheet Data"
// @Success 200 {object} services.CostSheetPreview
// @Security BearerAuth
// @Router /cost_sheets/preview [post]
func (h *CostSheetHandler) Preview(c *gin.Context) {
	var in services.CreateCostSheetInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	preview, err := h.costSheetService.Preview(c.Request.Context(), in)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"preview": preview})
}

// @Summary Cost Sheet Quotation PDF
// @Description Download the cost sheet as a printable quotation
// @Tags CostSheets
// @Produce application/pdf
// @Param cost_sheet_id path int true "Cost Sheet ID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /cost_sheets/{cost_sheet_id}/pdf [get]
func (h *CostSheetHandler) PDF(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("cost_sheet_id"), 10, 32)
	buf, err := h.costSheetService.QuotationPDF(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("cost_sheet_%d_%s.pdf", id, time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// @Summary Download Archived Quotation
// @Description Download the last archived quotation PDF for a cost sheet
// @Tags CostSheets
// @Produce application/pdf
// @Param cost_sheet_id path int true "Cost Sheet ID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /cost_sheets/{cost_sheet_id}/quotation [get]
func (h *CostSheetHandler) Quotation(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("cost_sheet_id"), 10, 32)
	reader, size, filename, err := h.costSheetService.QuotationDownload(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No archived quotation for this cost sheet"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer reader.Close()

	c.DataFromReader(http.StatusOK, size, "application/pdf",
		reader, map[string]string{"Content-Disposition": "attachment; filename=" + filename})
}
