package handlers

import (
	"carefoundation/internal/models"
	"carefoundation/internal/services"
	"carefoundation/internal/utils"
	"carefoundation/internal/validators"

	"github.com/gin-gonic/gin"
)

type CampaignHandler struct {
	campaignService services.CampaignService
}

func NewCampaignHandler(campaignService services.CampaignService) *CampaignHandler {
	return &CampaignHandler{campaignService: campaignService}
}

func (h *CampaignHandler) Create(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var request validators.CampaignCreateRequest
	if !bindJSON(c, &request) {
		return
	}

	campaign, err := h.campaignService.Create(c.Request.Context(), caller.ID, &request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.CreatedResponse(c, "Campaign created successfully", campaign)
}

func (h *CampaignHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id", "campaign")
	if !ok {
		return
	}

	campaign, err := h.campaignService.Get(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Campaign retrieved successfully", campaign)
}

func (h *CampaignHandler) List(c *gin.Context) {
	filter := models.CampaignFilter{
		Status:   models.CampaignStatus(c.Query("status")),
		Category: c.Query("category"),
	}

	params := utils.GetPaginationParams(c)
	campaigns, total, err := h.campaignService.List(c.Request.Context(), filter, params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Campaigns retrieved successfully", campaigns, listMeta(params, total, len(campaigns)))
}
