package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/realapp/realapp-api/internal/pricing"
	"github.com/realapp/realapp-api/internal/services"
)

// PricingHandler serves stateless pricing previews. Nothing is persisted;
// the same rate card the save paths use is applied to caller-supplied inputs.
type PricingHandler struct {
	settingsService *services.SettingsService
}

func NewPricingHandler(settingsService *services.SettingsService) *PricingHandler {
	return &PricingHandler{settingsService: settingsService}
}

// HeaderPreviewRequest carries raw calculator inputs. Omitted rates default
// from Settings; explicit zeros are kept.
type HeaderPreviewRequest struct {
	Area          float64  `json:"area" binding:"required"`
	BaseRate      *float64 `json:"base_rate"`
	RiseRate      *float64 `json:"rise_rate"`
	FacingRate    *float64 `json:"facing_rate"`
	CornerRate    *float64 `json:"corner_rate"`
	AmenitiesRate *float64 `json:"amenities_rate"`
	InfraRate     *float64 `json:"infra_rate"`
	CarParking    *float64 `json:"car_parking"`
	DocCharges    *float64 `json:"doc_charges"`
}

// @Summary Pricing Header Preview
// @Description Compute the monetary breakdown for raw inputs without saving anything
// @Tags Pricing
// @Accept json
// @Produce json
// @Param request body HeaderPreviewRequest true "Pricing Inputs"
// @Success 200 {object} pricing.Breakdown
// @Security BearerAuth
// @Router /pricing/header [post]
func (h *PricingHandler) HeaderPreview(c *gin.Context) {
	var req HeaderPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rates, err := h.settingsService.RateCard(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	in := pricing.Inputs{
		Area:          req.Area,
		BaseRate:      orDefault(req.BaseRate, rates.BasicPricePerSFT),
		RiseRate:      orDefault(req.RiseRate, rates.FloorRiseRate),
		FacingRate:    orDefault(req.FacingRate, rates.FacingPremiumCharges),
		CornerRate:    orDefault(req.CornerRate, rates.CornerPremiumCharges),
		AmenitiesRate: orDefault(req.AmenitiesRate, rates.AmenitiesChargesPerSF),
		InfraRate:     orDefault(req.InfraRate, rates.InfraChargesPerSF),
		CarParking:    orDefault(req.CarParking, rates.CarParkingAmount),
		DocCharges:    orDefault(req.DocCharges, rates.DocumentationCharges),
	}

	breakdown := pricing.Compute(pricing.StagePreview, in, rates)
	c.JSON(http.StatusOK, gin.H{"breakdown": breakdown})
}

type BeforeRegistrationRequest struct {
	Area float64 `json:"area" binding:"required"`
}

// @Summary Before-Registration Preview
// @Description Compute before-registration charges for an area without saving anything
// @Tags Pricing
// @Accept json
// @Produce json
// @Param request body BeforeRegistrationRequest true "Area"
// @Success 200 {object} pricing.BeforeRegistration
// @Security BearerAuth
// @Router /pricing/before_registration [post]
func (h *PricingHandler) BeforeRegistrationPreview(c *gin.Context) {
	var req BeforeRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rates, err := h.settingsService.RateCard(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	charges := pricing.ComputeBeforeRegistration(req.Area, rates)
	c.JSON(http.StatusOK, gin.H{"charges": charges})
}

func orDefault(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
