package handlers

import (
	"carefoundation/internal/services"
	"carefoundation/internal/utils"

	"github.com/gin-gonic/gin"
)

type DonationCouponHandler struct {
	couponService services.DonationCouponService
}

func NewDonationCouponHandler(couponService services.DonationCouponService) *DonationCouponHandler {
	return &DonationCouponHandler{couponService: couponService}
}

func (h *DonationCouponHandler) MyCoupons(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	coupons, err := h.couponService.MyCoupons(c.Request.Context(), caller.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Coupons retrieved successfully", coupons, &utils.Meta{Count: len(coupons)})
}

func (h *DonationCouponHandler) Get(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "coupon")
	if !ok {
		return
	}

	coupon, err := h.couponService.GetCoupon(c.Request.Context(), caller.ID, id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Coupon retrieved successfully", coupon)
}
