package dto

// SubmitAttemptRequest carries the full answer sheet for the caller's open
// attempt. Answers maps question id to the selected option letter; questions
// absent from the map are scored as unanswered.
type SubmitAttemptRequest struct {
	Answers          map[uint]string `json:"answers" binding:"required"`
	TimeSpentSeconds int             `json:"time_spent_seconds" binding:"min=0"`
}

type CreateOrderRequest struct {
	PackageID uint   `json:"package_id" binding:"required"`
	Gateway   string `json:"gateway" binding:"required,oneof=razorpay stripe"`
}

// RazorpayCallbackRequest is the checkout callback payload the frontend relays
// after a successful capture.
type RazorpayCallbackRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
}

type PaymentCancelRequest struct {
	GatewayOrderID string `json:"gateway_order_id" binding:"required"`
	Gateway        string `json:"gateway" binding:"required,oneof=razorpay stripe"`
	Reason         string `json:"reason"`
}
