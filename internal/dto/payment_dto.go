package dto

// CreditPackage is a purchasable bundle of credits. Packages are configuration,
// not user data, so they live in code rather than the database.
type CreditPackage struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Credits  int     `json:"credits"`
	Amount   float64 `json:"amount"` // price in the gateway's major unit
	Currency string  `json:"currency"`
}

// OrderResponse is returned at payment-intent time; the frontend hands it to
// the gateway's checkout flow.
type OrderResponse struct {
	TransactionID  uint    `json:"transaction_id"`
	Gateway        string  `json:"gateway"`
	GatewayOrderID string  `json:"gateway_order_id"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	Credits        int     `json:"credits"`
	CheckoutURL    string  `json:"checkout_url,omitempty"` // stripe only
	KeyID          string  `json:"key_id,omitempty"`       // razorpay only
}

type PaymentCompletedResponse struct {
	TransactionID uint   `json:"transaction_id"`
	Credits       int    `json:"credits"`
	Status        string `json:"status"`
}
