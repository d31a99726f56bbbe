package handlers

import (
	"io"

	"carefoundation/internal/models"
	"carefoundation/internal/services"
	"carefoundation/internal/utils"
	"carefoundation/internal/validators"

	"github.com/gin-gonic/gin"
)

type PartnerHandler struct {
	partnerService services.PartnerService
	maxImageSize   int64
}

func NewPartnerHandler(partnerService services.PartnerService, maxImageSize int64) *PartnerHandler {
	if maxImageSize <= 0 {
		maxImageSize = utils.MaxImageSize
	}
	return &PartnerHandler{
		partnerService: partnerService,
		maxImageSize:   maxImageSize,
	}
}

func (h *PartnerHandler) Create(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var request validators.PartnerCreateRequest
	if !bindJSON(c, &request) {
		return
	}

	partner, err := h.partnerService.Create(c.Request.Context(), caller.ID, &request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.CreatedResponse(c, "Partner request submitted. Waiting for admin approval.", partner)
}

func (h *PartnerHandler) GetMine(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	partner, err := h.partnerService.GetMine(c.Request.Context(), caller.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Partner retrieved successfully", partner)
}

func (h *PartnerHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id", "partner")
	if !ok {
		return
	}

	partner, err := h.partnerService.Get(c.Request.Context(), optionalCaller(c), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Partner retrieved successfully", partner)
}

func (h *PartnerHandler) List(c *gin.Context) {
	filter := models.PartnerFilter{
		Type:   models.PartnerType(c.Query("type")),
		Status: models.PartnerStatus(c.Query("status")),
		City:   c.Query("city"),
	}

	params := utils.GetPaginationParams(c)
	partners, total, err := h.partnerService.List(c.Request.Context(), optionalCaller(c), filter, params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Partners retrieved successfully", partners, listMeta(params, total, len(partners)))
}

func (h *PartnerHandler) UpdateStatus(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "partner")
	if !ok {
		return
	}

	var request validators.PartnerStatusRequest
	if !bindJSON(c, &request) {
		return
	}
	if err := validators.ValidatePartnerStatus(&request).AppError(); err != nil {
		utils.HandleError(c, err)
		return
	}

	partner, err := h.partnerService.UpdateStatus(c.Request.Context(), id, caller.ID, models.PartnerStatus(request.Status))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Partner status updated successfully", partner)
}

// UploadPhoto accepts a multipart "photo" field.
func (h *PartnerHandler) UploadPhoto(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "partner")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		utils.BadRequestResponse(c, "Photo file is required")
		return
	}
	if fileHeader.Size > h.maxImageSize {
		utils.BadRequestResponse(c, "Photo exceeds the maximum upload size")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.BadRequestResponse(c, "Failed to read photo")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxImageSize+1))
	if err != nil {
		utils.BadRequestResponse(c, "Failed to read photo")
		return
	}

	partner, err := h.partnerService.UploadPhoto(c.Request.Context(), caller, id, &services.PhotoUpload{
		Filename: fileHeader.Filename,
		Data:     data,
	})
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Partner photo uploaded successfully", partner)
}
