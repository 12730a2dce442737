package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/realapp/realapp-api/internal/middleware"
	"github.com/realapp/realapp-api/internal/models"
	"github.com/realapp/realapp-api/internal/repository"
	"github.com/realapp/realapp-api/internal/services"
	"github.com/realapp/realapp-api/internal/statemachine"
	"github.com/realapp/realapp-api/internal/storage"
	"github.com/realapp/realapp-api/pkg/logger"
)

type UnitHandler struct {
	unitService *services.UnitService
	store       *storage.LocalStorage
}

func NewUnitHandler(unitService *services.UnitService, store *storage.LocalStorage) *UnitHandler {
	return &UnitHandler{unitService: unitService, store: store}
}

// @Summary List Units
// @Description Get a paginated list of units
// @Tags Units
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Search term"
// @Param project_id query int false "Filter by project"
// @Param block_id query int false "Filter by block"
// @Param status query string false "Filter by status"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /units [get]
func (h *UnitHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")
	query.Filters = map[string]string{
		"project_id": c.Query("project_id"),
		"block_id":   c.Query("block_id"),
		"floor_id":   c.Query("floor_id"),
		"status":     c.Query("status"),
	}

	units, total, err := h.unitService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []interface{}
	for _, u := range units {
		responses = append(responses, u.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"units": responses, "pagination": gin.H{"total": total}})
}

// @Summary Get Unit
// @Description Get a unit with its computed pricing snapshot
// @Tags Units
// @Produce json
// @Param unit_id path int true "Unit ID"
// @Success 200 {object} models.UnitResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /units/{unit_id} [get]
func (h *UnitHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("unit_id"), 10, 32)
	unit, err := h.unitService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unit not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"unit": unit})
}

// @Summary Create Unit
// @Description Create a unit; missing rates default from Settings and the pricing snapshot is computed
// @Tags Units
// @Accept json
// @Produce json
// @Param request body models.Unit true "Unit Data"
// @Success 201 {object} models.UnitResponse
// @Security BearerAuth
// @Router /units [post]
func (h *UnitHandler) Create(c *gin.Context) {
	var unit models.Unit
	if err := c.ShouldBindJSON(&unit); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.unitService.Create(c.Request.Context(), &unit, middleware.GetUserID(c)); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"unit": unit})
}

// @Summary Update Unit
// @Description Update a unit; the pricing snapshot is recomputed on every save
// @Tags Units
// @Accept json
// @Produce json
// @Param unit_id path int true "Unit ID"
// @Param request body models.Unit true "Unit Data"
// @Success 200 {object} models.UnitResponse
// @Security BearerAuth
// @Router /units/{unit_id} [put]
func (h *UnitHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("unit_id"), 10, 32)
	var unit models.Unit
	if err := c.ShouldBindJSON(&unit); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	unit.ID = uint(id)

	if err := h.unitService.Update(c.Request.Context(), &unit, middleware.GetUserID(c)); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"unit": unit})
}

// @Summary Delete Unit
// @Description Delete an available unit
// @Tags Units
// @Produce json
// @Param unit_id path int true "Unit ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /units/{unit_id} [delete]
func (h *UnitHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("unit_id"), 10, 32)
	if err := h.unitService.Delete(c.Request.Context(), uint(id), middleware.GetUserID(c)); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Unit deleted"})
}

// @Summary Block Unit
// @Description Take an available unit off the market
// @Tags Units
// @Produce json
// @Param unit_id path int true "Unit ID"
// @Success 200 {object} models.UnitResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /units/{unit_id}/block [post]
func (h *UnitHandler) Block(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("unit_id"), 10, 32)
	unit, err := h.unitService.Block(c.Request.Context(), uint(id), middleware.GetUserID(c))
	if err != nil {
		respondTransitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unit": unit})
}

// @Summary Unblock Unit
// @Description Return a blocked unit to the market
// @Tags Units
// @Produce json
// @Param unit_id path int true "Unit ID"
// @Success 200 {object} models.UnitResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /units/{unit_id}/unblock [post]
func (h *UnitHandler) Unblock(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("unit_id"), 10, 32)
	unit, err := h.unitService.Unblock(c.Request.Context(), uint(id), middleware.GetUserID(c))
	if err != nil {
		respondTransitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unit": unit})
}

// @Summary Unit Status Summary
// @Description Counts of units per status for a project
// @Tags Units
// @Produce json
// @Param project_id query int true "Project ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /units/status_summary [get]
func (h *UnitHandler) StatusSummary(c *gin.Context) {
	projectID, _ := strconv.ParseUint(c.Query("project_id"), 10, 32)
	counts, err := h.unitService.CountByStatus(c.Request.Context(), uint(projectID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": counts})
}

// @Summary Import Units
// @Description Bulk create units from an XLSX file
// @Tags Units
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "XLSX file"
// @Success 201 {object} map[string]interface{}
// @Security BearerAuth
// @Router /units/import [post]
func (h *UnitHandler) Import(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}
	defer file.Close()

	if header.Size > storage.MaxFileSize() {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File exceeds the upload size limit"})
		return
	}
	if ct := header.Header.Get("Content-Type"); ct != "" && !storage.IsValidContentType(ct) {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": fmt.Sprintf("Unsupported content type %s", ct)})
		return
	}

	count, err := h.unitService.ImportXLSX(c.Request.Context(), file, middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	// Keep the source spreadsheet for traceability
	if h.store != nil {
		if _, err := file.Seek(0, io.SeekStart); err == nil {
			if _, err := h.store.Upload(file, header, "imports"); err != nil {
				logger.Warn(fmt.Sprintf("[Units] failed to archive import file: %v", err))
			}
		}
	}

	c.JSON(http.StatusCreated, gin.H{"message": fmt.Sprintf("%d units imported", count)})
}

// respondTransitionError maps disallowed state transitions to 422 with the
// transition detail, other errors to 500.
func respondTransitionError(c *gin.Context, err error) {
	var te *statemachine.TransitionError
	if errors.As(err, &te) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": te.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
