package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
	"github.com/prepforge/prepforge/internal/controller"
	"github.com/prepforge/prepforge/internal/dto"
	"github.com/prepforge/prepforge/internal/middleware"
	"github.com/prepforge/prepforge/internal/service"
)

type ProfileController struct {
	userService   service.UserService
	creditService service.CreditService
}

func NewProfileController(userService service.UserService, creditService service.CreditService) *ProfileController {
	return &ProfileController{userService: userService, creditService: creditService}
}

// GetProfile godoc
// @Summary Get the caller's profile and credit balance
// @Tags Profile
// @Produce json
// @Success 200 {object} dto.ProfileResponse
// @Router /me [get]
func (c *ProfileController) GetProfile(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	profile, err := c.userService.GetProfile(user.ID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, profile)
}

// GetTransactions godoc
// @Summary List the caller's credit transactions, newest first
// @Tags Profile
// @Produce json
// @Success 200 {array} dto.TransactionResponse
// @Router /me/transactions [get]
func (c *ProfileController) GetTransactions(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	txns, err := c.creditService.History(user.ID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	resp := make([]dto.TransactionResponse, 0, len(txns))
	for _, txn := range txns {
		var item dto.TransactionResponse
		copier.Copy(&item, &txn)
		resp = append(resp, item)
	}
	ctx.JSON(http.StatusOK, resp)
}
