package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
	"github.com/prepforge/prepforge/internal/controller"
	"github.com/prepforge/prepforge/internal/dto"
	"github.com/prepforge/prepforge/internal/model"
	"github.com/prepforge/prepforge/internal/service"
	"github.com/rs/zerolog/log"
)

type AdminCreditController struct {
	creditService service.CreditService
}

func NewAdminCreditController(creditService service.CreditService) *AdminCreditController {
	return &AdminCreditController{creditService: creditService}
}

// AdjustCredits godoc
// @Summary (Admin) Manually add or deduct a user's credits
// @Description Positive credits add, negative deduct. The balance change and the ledger row commit together; a deduction below zero is rejected.
// @Tags Admin - Credits
// @Accept json
// @Produce json
// @Param adjustment body dto.ManualCreditDTO true "User and signed credit delta"
// @Success 200 {object} dto.TransactionResponse
// @Failure 402 {object} dto.ErrorResponse "Deduction exceeds balance"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /admin/credits [post]
func (c *AdminCreditController) AdjustCredits(ctx *gin.Context) {
	var req dto.ManualCreditDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	txType := model.TransactionTypeAdminCredit
	if req.Credits < 0 {
		txType = model.TransactionTypeAdminDebit
	}

	txn, err := c.creditService.ApplyDelta(req.UserID, 0, req.Credits, txType, "")
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	log.Info().Uint("userID", req.UserID).Int("credits", req.Credits).Str("note", req.Note).Msg("Admin credit adjustment applied")

	var resp dto.TransactionResponse
	copier.Copy(&resp, txn)
	ctx.JSON(http.StatusOK, resp)
}
