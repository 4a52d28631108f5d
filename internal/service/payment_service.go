package service

import (
	"encoding/json"
	"fmt"

	"github.com/prepforge/prepforge/config"
	"github.com/prepforge/prepforge/internal/dto"
	"github.com/prepforge/prepforge/internal/model"
	razorpay "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"
	"github.com/rs/zerolog/log"
	stripe "github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/checkout/session"
	"github.com/stripe/stripe-go/v78/webhook"
)

// creditPackages is the purchasable catalog. Amounts are in the gateway's major
// unit; both gateways are charged the same figures.
var creditPackages = []dto.CreditPackage{
	{ID: 1, Name: "Starter", Credits: 5, Amount: 99, Currency: "INR"},
	{ID: 2, Name: "Regular", Credits: 15, Amount: 249, Currency: "INR"},
	{ID: 3, Name: "Serious", Credits: 40, Amount: 549, Currency: "INR"},
}

// PaymentService is the boundary to both gateways: order creation at intent
// time, signature verification on completion, then delegation to the credit
// ledger. The gateways own capture; we only consume their outcome.
type PaymentService interface {
	ListPackages() []dto.CreditPackage
	CreateOrder(userID uint, req dto.CreateOrderRequest) (*dto.OrderResponse, error)
	ConfirmRazorpayPayment(req dto.RazorpayCallbackRequest) (*dto.PaymentCompletedResponse, error)
	HandleStripeWebhook(payload []byte, sigHeader string) error
	CancelPayment(req dto.PaymentCancelRequest) error
}

type paymentService struct {
	creditSvc CreditService
	razorpay  *razorpay.Client
	cfg       *config.Config
}

func NewPaymentService(creditSvc CreditService, cfg *config.Config) PaymentService {
	stripe.Key = cfg.Stripe.SecretKey
	return &paymentService{
		creditSvc: creditSvc,
		razorpay:  razorpay.NewClient(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret),
		cfg:       cfg,
	}
}

func findPackage(id uint) (dto.CreditPackage, bool) {
	for _, pkg := range creditPackages {
		if pkg.ID == id {
			return pkg, true
		}
	}
	return dto.CreditPackage{}, false
}

func (s *paymentService) ListPackages() []dto.CreditPackage {
	return creditPackages
}

func (s *paymentService) CreateOrder(userID uint, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	pkg, ok := findPackage(req.PackageID)
	if !ok {
		return nil, fmt.Errorf("%w: unknown credit package %d", ErrValidation, req.PackageID)
	}

	switch req.Gateway {
	case model.GatewayRazorpay:
		return s.createRazorpayOrder(userID, pkg)
	case model.GatewayStripe:
		return s.createStripeOrder(userID, pkg)
	default:
		return nil, fmt.Errorf("%w: unsupported gateway %q", ErrValidation, req.Gateway)
	}
}

func (s *paymentService) createRazorpayOrder(userID uint, pkg dto.CreditPackage) (*dto.OrderResponse, error) {
	data := map[string]interface{}{
		"amount":   int64(pkg.Amount * 100), // paise
		"currency": pkg.Currency,
		"notes": map[string]interface{}{
			"user_id":    userID,
			"package_id": pkg.ID,
		},
	}
	order, err := s.razorpay.Order.Create(data, nil)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("Razorpay order creation failed")
		return nil, fmt.Errorf("creating razorpay order: %w", err)
	}
	orderID, _ := order["id"].(string)
	if orderID == "" {
		return nil, fmt.Errorf("razorpay order response missing id")
	}

	txn, err := s.creditSvc.CreatePendingPurchase(userID, pkg.Amount, pkg.Credits, model.GatewayRazorpay, orderID)
	if err != nil {
		return nil, err
	}

	return &dto.OrderResponse{
		TransactionID:  txn.ID,
		Gateway:        model.GatewayRazorpay,
		GatewayOrderID: orderID,
		Amount:         pkg.Amount,
		Currency:       pkg.Currency,
		Credits:        pkg.Credits,
		KeyID:          s.cfg.Razorpay.KeyID,
	}, nil
}

func (s *paymentService) createStripeOrder(userID uint, pkg dto.CreditPackage) (*dto.OrderResponse, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String("inr"),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(fmt.Sprintf("%s credit pack (%d credits)", pkg.Name, pkg.Credits)),
					},
					UnitAmount: stripe.Int64(int64(pkg.Amount * 100)),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(s.cfg.Stripe.SuccessURL),
		CancelURL:  stripe.String(s.cfg.Stripe.CancelURL),
	}
	sess, err := session.New(params)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("Stripe checkout session creation failed")
		return nil, fmt.Errorf("creating stripe checkout session: %w", err)
	}

	txn, err := s.creditSvc.CreatePendingPurchase(userID, pkg.Amount, pkg.Credits, model.GatewayStripe, sess.ID)
	if err != nil {
		return nil, err
	}

	return &dto.OrderResponse{
		TransactionID:  txn.ID,
		Gateway:        model.GatewayStripe,
		GatewayOrderID: sess.ID,
		Amount:         pkg.Amount,
		Currency:       pkg.Currency,
		Credits:        pkg.Credits,
		CheckoutURL:    sess.URL,
	}, nil
}

// ConfirmRazorpayPayment verifies the checkout signature, then hands the order
// to the credit ledger. A replayed callback fails on the missing PENDING row,
// never on a second credit.
func (s *paymentService) ConfirmRazorpayPayment(req dto.RazorpayCallbackRequest) (*dto.PaymentCompletedResponse, error) {
	params := map[string]interface{}{
		"razorpay_order_id":   req.RazorpayOrderID,
		"razorpay_payment_id": req.RazorpayPaymentID,
	}
	if !utils.VerifyPaymentSignature(params, req.RazorpaySignature, s.cfg.Razorpay.KeySecret) {
		log.Warn().Str("orderID", req.RazorpayOrderID).Msg("Razorpay signature verification failed")
		return nil, fmt.Errorf("%w: payment signature mismatch", ErrValidation)
	}

	txn, err := s.creditSvc.CompletePendingTransaction(req.RazorpayOrderID, req.RazorpayPaymentID)
	if err != nil {
		return nil, err
	}
	return &dto.PaymentCompletedResponse{
		TransactionID: txn.ID,
		Credits:       txn.Credits,
		Status:        txn.Status,
	}, nil
}

// HandleStripeWebhook verifies the event signature and settles completed
// checkout sessions. Unhandled event types are acknowledged and dropped.
func (s *paymentService) HandleStripeWebhook(payload []byte, sigHeader string) error {
	event, err := webhook.ConstructEvent(payload, sigHeader, s.cfg.Stripe.WebhookSecret)
	if err != nil {
		log.Warn().Err(err).Msg("Stripe webhook signature verification failed")
		return fmt.Errorf("%w: webhook signature mismatch", ErrValidation)
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return fmt.Errorf("%w: malformed checkout session payload", ErrValidation)
		}
		paymentID := ""
		if sess.PaymentIntent != nil {
			paymentID = sess.PaymentIntent.ID
		}
		if _, err := s.creditSvc.CompletePendingTransaction(sess.ID, paymentID); err != nil {
			return err
		}
	case "checkout.session.expired":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return fmt.Errorf("%w: malformed checkout session payload", ErrValidation)
		}
		return s.creditSvc.RecordFailure(sess.ID, model.GatewayStripe, "checkout session expired")
	default:
		log.Debug().Str("type", string(event.Type)).Msg("Ignoring stripe event")
	}
	return nil
}

// CancelPayment records a user-side cancellation against the PENDING row.
func (s *paymentService) CancelPayment(req dto.PaymentCancelRequest) error {
	reason := req.Reason
	if reason == "" {
		reason = "cancelled by user"
	}
	return s.creditSvc.RecordFailure(req.GatewayOrderID, req.Gateway, reason)
}
