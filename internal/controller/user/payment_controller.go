package user

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prepforge/prepforge/internal/controller"
	"github.com/prepforge/prepforge/internal/dto"
	"github.com/prepforge/prepforge/internal/middleware"
	"github.com/prepforge/prepforge/internal/service"
	"github.com/rs/zerolog/log"
)

type PaymentController struct {
	paymentService service.PaymentService
}

func NewPaymentController(paymentService service.PaymentService) *PaymentController {
	return &PaymentController{paymentService: paymentService}
}

// ListPackages godoc
// @Summary List purchasable credit packages
// @Tags Payments
// @Produce json
// @Success 200 {array} dto.CreditPackage
// @Router /payments/packages [get]
func (c *PaymentController) ListPackages(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, c.paymentService.ListPackages())
}

// CreateOrder godoc
// @Summary Create a payment order for a credit package
// @Description Creates a PENDING credit transaction and a gateway order/checkout session.
// @Tags Payments
// @Accept json
// @Produce json
// @Param order body dto.CreateOrderRequest true "Package and gateway"
// @Success 201 {object} dto.OrderResponse
// @Failure 400 {object} dto.ErrorResponse "Unknown package or gateway"
// @Router /payments/orders [post]
func (c *PaymentController) CreateOrder(ctx *gin.Context) {
	var req dto.CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	user := middleware.CurrentUser(ctx)

	order, err := c.paymentService.CreateOrder(user.ID, req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, order)
}

// ConfirmRazorpayPayment godoc
// @Summary Confirm a razorpay checkout
// @Description Verifies the checkout signature and credits the purchase. Replays are rejected without double-crediting.
// @Tags Payments
// @Accept json
// @Produce json
// @Param callback body dto.RazorpayCallbackRequest true "Razorpay checkout result"
// @Success 200 {object} dto.PaymentCompletedResponse
// @Failure 400 {object} dto.ErrorResponse "Signature mismatch"
// @Failure 404 {object} dto.ErrorResponse "No pending transaction for order"
// @Router /payments/razorpay/confirm [post]
func (c *PaymentController) ConfirmRazorpayPayment(ctx *gin.Context) {
	var req dto.RazorpayCallbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.paymentService.ConfirmRazorpayPayment(req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// StripeWebhook receives gateway events directly; stripe authenticates itself
// through the signature header, not the user session.
func (c *PaymentController) StripeWebhook(ctx *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(ctx.Request.Body, 1<<16))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Unreadable payload"})
		return
	}
	if err := c.paymentService.HandleStripeWebhook(payload, ctx.GetHeader("Stripe-Signature")); err != nil {
		log.Warn().Err(err).Msg("Stripe webhook rejected")
		controller.RespondError(ctx, err)
		return
	}
	ctx.Status(http.StatusOK)
}

// CancelPayment godoc
// @Summary Record a cancelled payment
// @Tags Payments
// @Accept json
// @Produce json
// @Param cancel body dto.PaymentCancelRequest true "Order reference and reason"
// @Success 200 {object} gin.H
// @Failure 404 {object} dto.ErrorResponse "No pending transaction for order"
// @Router /payments/cancel [post]
func (c *PaymentController) CancelPayment(ctx *gin.Context) {
	var req dto.PaymentCancelRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	if err := c.paymentService.CancelPayment(req); err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "recorded"})
}
