package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	TransactionStatusPending   = "PENDING"
	TransactionStatusCompleted = "COMPLETED"
	TransactionStatusFailed    = "FAILED"

	TransactionTypePurchase    = "PURCHASE"
	TransactionTypeExamDebit   = "EXAM_DEBIT"
	TransactionTypeAdminCredit = "ADMIN_CREDIT"
	TransactionTypeAdminDebit  = "ADMIN_DEBIT"

	GatewayRazorpay = "razorpay"
	GatewayStripe   = "stripe"
)

// CreditTransaction is an append-only ledger row. A purchase row is created
// PENDING at order time and moves to exactly one terminal state exactly once;
// debit and admin rows are written COMPLETED together with the balance change.
// Metadata carries a structured history of failure attempts, appended to and
// never overwritten.
type CreditTransaction struct {
	ID               uint           `gorm:"primarykey" json:"id"`
	UserID           uint           `json:"user_id" gorm:"not null;index"`
	User             User           `json:"-" gorm:"foreignKey:UserID"`
	Type             string         `json:"type" gorm:"not null;index"`
	Amount           float64        `json:"amount" gorm:"not null"`  // money, signed
	Credits          int            `json:"credits" gorm:"not null"` // balance delta, signed
	Status           string         `json:"status" gorm:"not null;default:'PENDING';index"`
	Gateway          string         `json:"gateway,omitempty"`
	GatewayOrderID   *string        `json:"gateway_order_id,omitempty" gorm:"uniqueIndex"`
	GatewayPaymentID *string        `json:"gateway_payment_id,omitempty"`
	ReceiptID        string         `json:"receipt_id" gorm:"not null;uniqueIndex"`
	Metadata         datatypes.JSON `json:"metadata,omitempty" gorm:"type:jsonb"`
	AttemptCount     int            `json:"attempt_count" gorm:"not null;default:0"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// FailureRecord is one entry of the append-only failure history kept in Metadata.
type FailureRecord struct {
	Gateway   string    `json:"gateway"`
	Error     string    `json:"error"`
	Attempt   int       `json:"attempt"`
	Timestamp time.Time `json:"timestamp"`
}
