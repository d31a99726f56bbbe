package handlers

import (
	"carefoundation/internal/models"
	"carefoundation/internal/services"
	"carefoundation/internal/utils"
	"carefoundation/internal/validators"

	"github.com/gin-gonic/gin"
)

type DonationHandler struct {
	donationService services.DonationService
}

func NewDonationHandler(donationService services.DonationService) *DonationHandler {
	return &DonationHandler{donationService: donationService}
}

// Create records a donation. Anonymous donors are allowed; donations to a partner
// mint a coupon only for signed-in donors.
func (h *DonationHandler) Create(c *gin.Context) {
	var request validators.DonationCreateRequest
	if !bindJSON(c, &request) {
		return
	}

	result, err := h.donationService.Create(c.Request.Context(), optionalCaller(c), &request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	message := "Donation created successfully"
	if result.Coupon != nil {
		message = "Donation created successfully. Your coupon has been generated."
	}
	utils.CreatedResponse(c, message, result)
}

func (h *DonationHandler) MyDonations(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	donations, total, err := h.donationService.MyDonations(c.Request.Context(), caller.ID, params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Donations retrieved successfully", donations, listMeta(params, total, len(donations)))
}

func (h *DonationHandler) List(c *gin.Context) {
	filter := models.DonationFilter{PaymentStatus: models.PaymentStatus(c.Query("status"))}

	params := utils.GetPaginationParams(c)
	donations, total, err := h.donationService.List(c.Request.Context(), filter, params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Donations retrieved successfully", donations, listMeta(params, total, len(donations)))
}

func (h *DonationHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id", "donation")
	if !ok {
		return
	}

	donation, err := h.donationService.Get(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Donation retrieved successfully", donation)
}
