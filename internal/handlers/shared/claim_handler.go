package handlers

import (
	"carefoundation/internal/models"
	"carefoundation/internal/services"
	"carefoundation/internal/utils"
	"carefoundation/internal/validators"

	"github.com/gin-gonic/gin"
)

type ClaimHandler struct {
	claimService services.ClaimService
}

func NewClaimHandler(claimService services.ClaimService) *ClaimHandler {
	return &ClaimHandler{claimService: claimService}
}

func (h *ClaimHandler) Claim(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var request validators.ClaimCouponRequest
	if !bindJSON(c, &request) {
		return
	}
	if err := validators.ValidateClaimCoupon(&request).AppError(); err != nil {
		utils.HandleError(c, err)
		return
	}

	claim, err := h.claimService.ClaimCoupon(c.Request.Context(), caller.ID, request.CouponCode)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.CreatedResponse(c, "Coupon claim request submitted. Waiting for admin approval.", claim)
}

func (h *ClaimHandler) MyClaims(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	claims, total, err := h.claimService.MyClaims(c.Request.Context(), caller.ID, params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Claims retrieved successfully", claims, listMeta(params, total, len(claims)))
}

func (h *ClaimHandler) Pending(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	claims, total, err := h.claimService.PendingClaims(c.Request.Context(), params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Pending claims retrieved successfully", claims, listMeta(params, total, len(claims)))
}

// List supports ?status=pending|approved|rejected|paid.
func (h *ClaimHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	claims, total, err := h.claimService.ListClaims(c.Request.Context(), models.ClaimStatus(c.Query("status")), params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Claims retrieved successfully", claims, listMeta(params, total, len(claims)))
}

func (h *ClaimHandler) Approve(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "claim")
	if !ok {
		return
	}

	claim, err := h.claimService.ApproveClaim(c.Request.Context(), id, caller.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Coupon claim approved successfully", claim)
}

// Reject takes an optional JSON body with rejection_reason.
func (h *ClaimHandler) Reject(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "claim")
	if !ok {
		return
	}

	var request validators.RejectClaimRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &request) {
		return
	}
	if err := validators.ValidateRejectClaim(&request).AppError(); err != nil {
		utils.HandleError(c, err)
		return
	}

	claim, err := h.claimService.RejectClaim(c.Request.Context(), id, caller.ID, request.Reason)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Coupon claim rejected", claim)
}

func (h *ClaimHandler) MarkPaid(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "claim")
	if !ok {
		return
	}

	claim, err := h.claimService.MarkAsPaid(c.Request.Context(), id, caller.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Coupon claim marked as paid", claim)
}
