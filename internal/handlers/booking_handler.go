package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/realapp/realapp-api/internal/middleware"
	"github.com/realapp/realapp-api/internal/repository"
	"github.com/realapp/realapp-api/internal/services"
)

type BookingHandler struct {
	bookingService *services.BookingService
	invoiceService *services.InvoiceService
}

func NewBookingHandler(bookingService *services.BookingService, invoiceService *services.InvoiceService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService, invoiceService: invoiceService}
}

// @Summary List Booking Orders
// @Description Get a paginated list of booking orders
// @Tags Bookings
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param status query string false "Filter by status"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /booking_orders [get]
func (h *BookingHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Filters = map[string]string{
		"status":     c.Query("status"),
		"unit_id":    c.Query("unit_id"),
		"project_id": c.Query("project_id"),
		"party_type": c.Query("party_type"),
	}

	bookings, total, err := h.bookingService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking_orders": bookings, "pagination": gin.H{"total": total}})
}

// @Summary Get Booking Order
// @Description Get a booking order with its snapshot and schedule
// @Tags Bookings
// @Produce json
// @Param booking_id path int true "Booking Order ID"
// @Success 200 {object} models.BookingOrderResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /booking_orders/{booking_id} [get]
func (h *BookingHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("booking_id"), 10, 32)
	booking, err := h.bookingService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking order not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking_order": booking.ToResponse()})
}

// @Summary Create Booking Order
// @Description Draft a booking order from a cost sheet, copying its totals and schedule
// @Tags Bookings
// @Accept json
// @Produce json
// @Param cost_sheet_id path int true "Cost Sheet ID"
// @Param request body services.CreateBookingInput true "Booking Data"
// @Success 201 {object} models.BookingOrderResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /cost_sheets/{cost_sheet_id}/booking_orders [post]
func (h *BookingHandler) Create(c *gin.Context) {
	costSheetID, _ := strconv.ParseUint(c.Param("cost_sheet_id"), 10, 32)

	var in services.CreateBookingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in.CostSheetID = uint(costSheetID)

	booking, err := h.bookingService.CreateFromCostSheet(c.Request.Context(), in, middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, services.ErrUnitNotAvailable) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"booking_order": booking.ToResponse()})
}

// @Summary Submit Booking Order
// @Description Submit a draft booking; the unit moves to booked in the same transaction
// @Tags Bookings
// @Produce json
// @Param booking_id path int true "Booking Order ID"
// @Success 200 {object} models.BookingOrderResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /booking_orders/{booking_id}/submit [post]
func (h *BookingHandler) Submit(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("booking_id"), 10, 32)
	booking, err := h.bookingService.Submit(c.Request.Context(), uint(id), middleware.GetUserID(c))
	if err != nil {
		respondTransitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking_order": booking.ToResponse()})
}

// @Summary Cancel Booking Order
// @Description Cancel a submitted booking; a booked unit returns to available
// @Tags Bookings
// @Produce json
// @Param booking_id path int true "Booking Order ID"
// @Success 200 {object} models.BookingOrderResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /booking_orders/{booking_id}/cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("booking_id"), 10, 32)
	booking, err := h.bookingService.Cancel(c.Request.Context(), uint(id), middleware.GetUserID(c))
	if err != nil {
		respondTransitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking_order": booking.ToResponse()})
}

// @Summary Create Invoices
// @Description Raise draft sales invoices for selected schedule rows of a booking
// @Tags Bookings
// @Accept json
// @Produce json
// @Param booking_id path int true "Booking Order ID"
// @Param request body services.CreateInvoicesInput true "Selected Rows"
// @Success 201 {object} map[string]interface{}
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /booking_orders/{booking_id}/invoices [post]
func (h *BookingHandler) CreateInvoices(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("booking_id"), 10, 32)

	var in services.CreateInvoicesInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invoices, err := h.invoiceService.CreateFromBooking(c.Request.Context(), uint(id), in, middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, services.ErrInvalidState) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"invoices": invoices})
}

// @Summary List Booking Invoices
// @Description Get the invoices raised from a booking order
// @Tags Bookings
// @Produce json
// @Param booking_id path int true "Booking Order ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /booking_orders/{booking_id}/invoices [get]
func (h *BookingHandler) Invoices(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("booking_id"), 10, 32)
	invoices, err := h.invoiceService.FindByBooking(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoices": invoices})
}

// @Summary List Invoices
// @Description Get a paginated list of sales invoices
// @Tags Invoices
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param status query string false "Filter by status"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /invoices [get]
func (h *BookingHandler) IndexInvoices(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Filters = map[string]string{
		"status":      c.Query("status"),
		"customer_id": c.Query("customer_id"),
	}

	invoices, total, err := h.invoiceService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoices": invoices, "pagination": gin.H{"total": total}})
}

// @Summary Get Invoice
// @Description Get a sales invoice with its items
// @Tags Invoices
// @Produce json
// @Param invoice_id path int true "Invoice ID"
// @Success 200 {object} models.SalesInvoice
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /invoices/{invoice_id} [get]
func (h *BookingHandler) ShowInvoice(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("invoice_id"), 10, 32)
	invoice, err := h.invoiceService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoice": invoice})
}
