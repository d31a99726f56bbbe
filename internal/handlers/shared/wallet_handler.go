package handlers

import (
	"carefoundation/internal/services"
	"carefoundation/internal/utils"
	"carefoundation/internal/validators"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	walletService services.WalletService
}

func NewWalletHandler(walletService services.WalletService) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

func (h *WalletHandler) GetMine(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	wallet, err := h.walletService.GetMine(c.Request.Context(), caller.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Wallet retrieved successfully", wallet)
}

func (h *WalletHandler) Withdraw(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var request validators.WithdrawRequest
	if !bindJSON(c, &request) {
		return
	}

	wallet, err := h.walletService.Withdraw(c.Request.Context(), caller, &request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Withdrawal processed successfully", wallet)
}
