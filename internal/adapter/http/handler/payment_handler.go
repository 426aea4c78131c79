package handler

import (
	"strconv"

	"easypay/internal/adapter/http/dto"
	"easypay/internal/core/domain"
	"easypay/internal/core/ports"
	"easypay/pkg/apperror"
	"easypay/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PaymentHandler serves the /api/v1/payments surface over PaymentEngine and
// ReportingService.
type PaymentHandler struct {
	engine    ports.PaymentEngine
	reporting ports.ReportingService
	obs       ports.PaymentObservability
}

// NewPaymentHandler constructs a PaymentHandler.
func NewPaymentHandler(engine ports.PaymentEngine, reporting ports.ReportingService, obs ports.PaymentObservability) *PaymentHandler {
	return &PaymentHandler{engine: engine, reporting: reporting, obs: obs}
}

// Create handles POST /api/v1/payments.
func (h *PaymentHandler) Create(c *gin.Context) {
	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrValidation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	amount, err := domain.ParseAmount(req.Amount)
	if err != nil {
		response.Error(c, apperror.ErrInvalidAmount(err.Error()))
		return
	}

	input := ports.CreatePaymentInput{
		ExternalID:    req.ExternalID,
		Amount:        amount,
		Currency:      req.Currency,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		CustomerID:    req.CustomerID,
		CustomerEmail: req.CustomerEmail,
		CustomerName:  req.CustomerName,
		CardToken:     req.CardToken,
		Description:   req.Description,
		Metadata:      req.Metadata,
		IsTest:        req.IsTest,
		CorrelationID: h.obs.NewCorrelationID(),
	}

	p, err := h.engine.Create(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	if req.Capture {
		if p, err = h.engine.Charge(c.Request.Context(), p.ID, input.CorrelationID); err != nil {
			response.Error(c, err)
			return
		}
	}

	response.Created(c, dto.ToPaymentResponse(p))
}

// Get handles GET /api/v1/payments/{id_or_external}.
func (h *PaymentHandler) Get(c *gin.Context) {
	p, err := h.engine.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToPaymentResponse(p))
}

// Update handles PUT /api/v1/payments/{id}.
func (h *PaymentHandler) Update(c *gin.Context) {
	id, err := parsePaymentID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrValidation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	p, err := h.engine.Update(c.Request.Context(), id, req.Description, req.Metadata)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToPaymentResponse(p))
}

// Capture handles POST /api/v1/payments/{id}/capture. A pending payment is
// charged (authorize+capture in one processor call); an authorized payment
// is captured against its existing authorization.
func (h *PaymentHandler) Capture(c *gin.Context) {
	id, err := parsePaymentID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.CapturePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.Error(c, apperror.ErrValidation(err.Error()))
		return
	}

	correlationID := h.obs.NewCorrelationID()

	p, err := h.engine.Get(c.Request.Context(), id.String())
	if err != nil {
		response.Error(c, err)
		return
	}

	if p.Status == domain.StatusPending {
		p, err = h.engine.Charge(c.Request.Context(), id, correlationID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, dto.ToPaymentResponse(p))
		return
	}

	var amount *int64
	if req.Amount != nil {
		minor, err := domain.ParseAmount(*req.Amount)
		if err != nil {
			response.Error(c, apperror.ErrInvalidAmount(err.Error()))
			return
		}
		amount = &minor
	}

	p, err = h.engine.Capture(c.Request.Context(), id, amount, correlationID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToPaymentResponse(p))
}

// Refund handles POST /api/v1/payments/{id}/refund.
func (h *PaymentHandler) Refund(c *gin.Context) {
	id, err := parsePaymentID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.RefundPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrValidation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	var amount *int64
	if req.Amount != nil {
		minor, err := domain.ParseAmount(*req.Amount)
		if err != nil {
			response.Error(c, apperror.ErrInvalidAmount(err.Error()))
			return
		}
		amount = &minor
	}

	p, err := h.engine.Refund(c.Request.Context(), id, amount, req.Reason, req.Metadata, h.obs.NewCorrelationID())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToPaymentResponse(p))
}

// Cancel handles POST /api/v1/payments/{id}/cancel, mapped to PaymentEngine.Void.
func (h *PaymentHandler) Cancel(c *gin.Context) {
	id, err := parsePaymentID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.CancelPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrValidation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	p, err := h.engine.Void(c.Request.Context(), id, req.Reason, req.Metadata, h.obs.NewCorrelationID())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToPaymentResponse(p))
}

// List handles GET /api/v1/payments.
func (h *PaymentHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	params := ports.PaymentListParams{Page: page, PageSize: perPage}
	if customerID := c.Query("customer_id"); customerID != "" {
		params.CustomerID = &customerID
	}
	if status := c.Query("status"); status != "" {
		s := domain.Status(status)
		params.Status = &s
	}

	payments, total, err := h.reporting.ListPayments(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.PaymentResponse, len(payments))
	for i := range payments {
		items[i] = dto.ToPaymentResponse(&payments[i])
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	response.OK(c, dto.PaymentListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   perPage,
		TotalPages: totalPages,
	})
}

func parsePaymentID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperror.ErrValidation("id must be a valid UUID")
	}
	return id, nil
}
