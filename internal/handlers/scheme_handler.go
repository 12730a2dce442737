package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/realapp/realapp-api/internal/middleware"
	"github.com/realapp/realapp-api/internal/models"
	"github.com/realapp/realapp-api/internal/repository"
	"github.com/realapp/realapp-api/internal/services"
)

type SchemeHandler struct {
	schemeService *services.SchemeService
}

func NewSchemeHandler(schemeService *services.SchemeService) *SchemeHandler {
	return &SchemeHandler{schemeService: schemeService}
}

// @Summary List Payment Scheme Templates
// @Description Get a paginated list of payment scheme templates
// @Tags Schemes
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /schemes [get]
func (h *SchemeHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")

	templates, total, err := h.schemeService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"schemes": templates, "pagination": gin.H{"total": total}})
}

// @Summary Get Payment Scheme Template
// @Description Get a payment scheme template with its milestone rows
// @Tags Schemes
// @Produce json
// @Param scheme_id path int true "Scheme Template ID"
// @Success 200 {object} models.PaymentSchemeTemplate
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /schemes/{scheme_id} [get]
func (h *SchemeHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("scheme_id"), 10, 32)
	template, err := h.schemeService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Scheme template not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"scheme": template})
}

// @Summary Create Payment Scheme Template
// @Description Create a template; codes must be unique and percentages must not exceed 100
// @Tags Schemes
// @Accept json
// @Produce json
// @Param request body models.PaymentSchemeTemplate true "Template Data"
// @Success 201 {object} models.PaymentSchemeTemplate
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /schemes [post]
func (h *SchemeHandler) Create(c *gin.Context) {
	var template models.PaymentSchemeTemplate
	if err := c.ShouldBindJSON(&template); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.schemeService.Create(c.Request.Context(), &template, middleware.GetUserID(c)); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"scheme": template})
}

// @Summary Update Payment Scheme Template
// @Description Replace a template and its milestone rows
// @Tags Schemes
// @Accept json
// @Produce json
// @Param scheme_id path int true "Scheme Template ID"
// @Param request body models.PaymentSchemeTemplate true "Template Data"
// @Success 200 {object} models.PaymentSchemeTemplate
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /schemes/{scheme_id} [put]
func (h *SchemeHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("scheme_id"), 10, 32)
	var template models.PaymentSchemeTemplate
	if err := c.ShouldBindJSON(&template); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	template.ID = uint(id)

	if err := h.schemeService.Update(c.Request.Context(), &template, middleware.GetUserID(c)); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"scheme": template})
}

// @Summary Delete Payment Scheme Template
// @Description Delete a template and its milestone rows
// @Tags Schemes
// @Produce json
// @Param scheme_id path int true "Scheme Template ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /schemes/{scheme_id} [delete]
func (h *SchemeHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("scheme_id"), 10, 32)
	if err := h.schemeService.Delete(c.Request.Context(), uint(id), middleware.GetUserID(c)); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Scheme template deleted"})
}

// @Summary Get Scheme Rows
// @Description Get template rows, optionally merged with a block's tower milestone dates
// @Tags Schemes
// @Produce json
// @Param scheme_id path int true "Scheme Template ID"
// @Param block_id query int false "Block ID for milestone dates"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /schemes/{scheme_id}/rows [get]
func (h *SchemeHandler) Rows(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("scheme_id"), 10, 32)
	blockID, _ := strconv.ParseUint(c.Query("block_id"), 10, 32)

	rows, err := h.schemeService.SchemeRows(c.Request.Context(), uint(id), uint(blockID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rows": rows})
}
