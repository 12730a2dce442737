package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/realapp/realapp-api/internal/middleware"
	"github.com/realapp/realapp-api/internal/models"
	"github.com/realapp/realapp-api/internal/services"
)

type SettingsHandler struct {
	settingsService *services.SettingsService
}

func NewSettingsHandler(settingsService *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// @Summary Get Settings
// @Description Get the global rate and charge settings
// @Tags Settings
// @Produce json
// @Success 200 {object} models.Settings
// @Security BearerAuth
// @Router /settings [get]
func (h *SettingsHandler) Show(c *gin.Context) {
	settings, err := h.settingsService.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// @Summary Update Settings
// @Description Update the global rate and charge settings
// @Tags Settings
// @Accept json
// @Produce json
// @Param request body models.Settings true "Settings Data"
// @Success 200 {object} models.Settings
// @Security BearerAuth
// @Router /settings [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	var settings models.Settings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.settingsService.Update(c.Request.Context(), &settings, middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": updated})
}
