package handlers

import (
	"strings"

	"carefoundation/internal/services"
	"carefoundation/internal/utils"
	"carefoundation/internal/validators"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentService services.PaymentService
}

func NewPaymentHandler(paymentService services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	var request validators.CreateOrderRequest
	if !bindJSON(c, &request) {
		return
	}

	order, err := h.paymentService.CreateOrder(c.Request.Context(), &request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Order created successfully", order)
}

func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	var request validators.VerifyPaymentRequest
	if !bindJSON(c, &request) {
		return
	}

	result, err := h.paymentService.VerifyPayment(c.Request.Context(), optionalCaller(c), &request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Payment verified and donation recorded", result)
}

func (h *PaymentHandler) PaymentStatus(c *gin.Context) {
	paymentID := strings.TrimSpace(c.Param("paymentId"))
	if paymentID == "" {
		utils.BadRequestResponse(c, "Payment ID is required")
		return
	}

	status, err := h.paymentService.PaymentStatus(c.Request.Context(), paymentID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Payment retrieved successfully", status)
}

func (h *PaymentHandler) Refund(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var request validators.RefundRequest
	if !bindJSON(c, &request) {
		return
	}

	donation, err := h.paymentService.Refund(c.Request.Context(), caller.ID, &request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Refund processed successfully", donation)
}
