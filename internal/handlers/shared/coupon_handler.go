package handlers

import (
	"carefoundation/internal/models"
	"carefoundation/internal/services"
	"carefoundation/internal/utils"
	"carefoundation/internal/validators"

	"github.com/gin-gonic/gin"
)

// CouponHandler serves generic discount coupons.
type CouponHandler struct {
	couponService services.CouponService
}

func NewCouponHandler(couponService services.CouponService) *CouponHandler {
	return &CouponHandler{couponService: couponService}
}

func (h *CouponHandler) Create(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var request validators.CouponCreateRequest
	if !bindJSON(c, &request) {
		return
	}

	coupon, err := h.couponService.Create(c.Request.Context(), caller.ID, &request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.CreatedResponse(c, "Coupon created successfully", coupon)
}

func (h *CouponHandler) List(c *gin.Context) {
	filter := models.CouponFilter{ActiveOnly: c.Query("active") == "true"}

	params := utils.GetPaginationParams(c)
	coupons, total, err := h.couponService.List(c.Request.Context(), filter, params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Coupons retrieved successfully", coupons, listMeta(params, total, len(coupons)))
}

func (h *CouponHandler) Validate(c *gin.Context) {
	var request validators.CouponApplyRequest
	if !bindJSON(c, &request) {
		return
	}

	quote, err := h.couponService.Validate(c.Request.Context(), &request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Coupon is valid", quote)
}

func (h *CouponHandler) Redeem(c *gin.Context) {
	if _, ok := requireCaller(c); !ok {
		return
	}

	var request validators.CouponApplyRequest
	if !bindJSON(c, &request) {
		return
	}

	quote, err := h.couponService.Redeem(c.Request.Context(), &request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Coupon redeemed successfully", quote)
}
