package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prepforge/prepforge/internal/model"
	"github.com/prepforge/prepforge/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CreditService owns every mutation of a user's credit balance. Each mutation
// writes the new balance and a ledger row in one atomic unit; the balance
// read-modify-write is a single guarded UPDATE so concurrent deltas cannot
// lose each other's writes.
type CreditService interface {
	ApplyDelta(userID uint, amount float64, credits int, txType, gateway string) (*model.CreditTransaction, error)
	ApplyDeltaTx(tx *gorm.DB, userID uint, amount float64, credits int, txType, gateway string) (*model.CreditTransaction, error)
	CreatePendingPurchase(userID uint, amount float64, credits int, gateway, gatewayOrderID string) (*model.CreditTransaction, error)
	CompletePendingTransaction(gatewayOrderID, gatewayPaymentID string) (*model.CreditTransaction, error)
	RecordFailure(gatewayOrderID, gateway, reason string) error
	Balance(userID uint) (int, error)
	History(userID uint) ([]model.CreditTransaction, error)
}

type creditService struct {
	userRepo        repository.UserRepository
	transactionRepo repository.TransactionRepository
	db              *gorm.DB
}

func NewCreditService(userRepo repository.UserRepository, transactionRepo repository.TransactionRepository, db *gorm.DB) CreditService {
	return &creditService{userRepo: userRepo, transactionRepo: transactionRepo, db: db}
}

// adjustBalanceTx applies the signed credit delta as one guarded statement:
// a debit that would drive the balance negative matches zero rows and leaves
// the balance untouched.
func adjustBalanceTx(tx *gorm.DB, userID uint, credits int) error {
	res := tx.Model(&model.User{}).
		Where("id = ? AND credits + ? >= 0", userID, credits).
		Update("credits", gorm.Expr("credits + ?", credits))
	if res.Error != nil {
		return fmt.Errorf("updating balance for user %d: %w", userID, res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&model.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			return fmt.Errorf("checking user %d: %w", userID, err)
		}
		if count == 0 {
			return fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return fmt.Errorf("%w: user %d cannot be debited %d credits", ErrInsufficientCredits, userID, -credits)
	}
	return nil
}

func (s *creditService) ApplyDelta(userID uint, amount float64, credits int, txType, gateway string) (*model.CreditTransaction, error) {
	var txn *model.CreditTransaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		txn, txErr = s.ApplyDeltaTx(tx, userID, amount, credits, txType, gateway)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// ApplyDeltaTx runs the delta inside a caller-owned transaction so callers such
// as attempt creation can commit the debit together with their own rows.
func (s *creditService) ApplyDeltaTx(tx *gorm.DB, userID uint, amount float64, credits int, txType, gateway string) (*model.CreditTransaction, error) {
	if err := adjustBalanceTx(tx, userID, credits); err != nil {
		return nil, err
	}
	txn := model.CreditTransaction{
		UserID:    userID,
		Type:      txType,
		Amount:    amount,
		Credits:   credits,
		Status:    model.TransactionStatusCompleted,
		Gateway:   gateway,
		ReceiptID: uuid.NewString(),
	}
	if err := tx.Create(&txn).Error; err != nil {
		return nil, fmt.Errorf("recording credit transaction: %w", err)
	}
	return &txn, nil
}

// CreatePendingPurchase records the ledger row at payment-intent time. The
// balance is untouched until the gateway confirms.
func (s *creditService) CreatePendingPurchase(userID uint, amount float64, credits int, gateway, gatewayOrderID string) (*model.CreditTransaction, error) {
	if credits <= 0 {
		return nil, fmt.Errorf("%w: purchase must credit a positive amount", ErrValidation)
	}
	txn := model.CreditTransaction{
		UserID:         userID,
		Type:           model.TransactionTypePurchase,
		Amount:         amount,
		Credits:        credits,
		Status:         model.TransactionStatusPending,
		Gateway:        gateway,
		GatewayOrderID: &gatewayOrderID,
		ReceiptID:      uuid.NewString(),
	}
	if err := s.db.Create(&txn).Error; err != nil {
		return nil, fmt.Errorf("creating pending purchase: %w", err)
	}
	return &txn, nil
}

// CompletePendingTransaction flips the unique PENDING row for the gateway order
// to COMPLETED and credits the user, in one commit. A duplicate gateway callback
// finds no PENDING row and fails with ErrNotFound instead of double-crediting.
func (s *creditService) CompletePendingTransaction(gatewayOrderID, gatewayPaymentID string) (*model.CreditTransaction, error) {
	var txn model.CreditTransaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("gateway_order_id = ? AND status = ?", gatewayOrderID, model.TransactionStatusPending).
			First(&txn).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: no pending transaction for order %s", ErrNotFound, gatewayOrderID)
			}
			return fmt.Errorf("loading pending transaction: %w", err)
		}

		// First-committer-wins: a concurrent completion already moved the row on.
		res := tx.Model(&model.CreditTransaction{}).
			Where("id = ? AND status = ?", txn.ID, model.TransactionStatusPending).
			Updates(map[string]interface{}{
				"status":             model.TransactionStatusCompleted,
				"gateway_payment_id": gatewayPaymentID,
			})
		if res.Error != nil {
			return fmt.Errorf("completing transaction %d: %w", txn.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: transaction for order %s already settled", ErrConflict, gatewayOrderID)
		}

		if err := adjustBalanceTx(tx, txn.UserID, txn.Credits); err != nil {
			return err
		}

		txn.Status = model.TransactionStatusCompleted
		txn.GatewayPaymentID = &gatewayPaymentID
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().Uint("userID", txn.UserID).Int("credits", txn.Credits).Str("orderID", gatewayOrderID).Msg("Payment completed, credits applied")
	return &txn, nil
}

type failureHistory struct {
	Failures []model.FailureRecord `json:"failures"`
}

// RecordFailure moves the PENDING row to FAILED and appends one entry to the
// failure history in its metadata. History is append-only; prior entries
// survive every call.
func (s *creditService) RecordFailure(gatewayOrderID, gateway, reason string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var txn model.CreditTransaction
		err := tx.Where("gateway_order_id = ? AND status = ?", gatewayOrderID, model.TransactionStatusPending).
			First(&txn).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: no pending transaction for order %s", ErrNotFound, gatewayOrderID)
			}
			return fmt.Errorf("loading pending transaction: %w", err)
		}

		var history failureHistory
		if len(txn.Metadata) > 0 {
			if err := json.Unmarshal(txn.Metadata, &history); err != nil {
				log.Warn().Err(err).Uint("transactionID", txn.ID).Msg("Unreadable failure history, starting fresh")
			}
		}
		history.Failures = append(history.Failures, model.FailureRecord{
			Gateway:   gateway,
			Error:     reason,
			Attempt:   txn.AttemptCount + 1,
			Timestamp: time.Now().UTC(),
		})
		raw, err := json.Marshal(history)
		if err != nil {
			return fmt.Errorf("encoding failure history: %w", err)
		}

		res := tx.Model(&model.CreditTransaction{}).
			Where("id = ? AND status = ?", txn.ID, model.TransactionStatusPending).
			Updates(map[string]interface{}{
				"status":        model.TransactionStatusFailed,
				"metadata":      datatypes.JSON(raw),
				"attempt_count": txn.AttemptCount + 1,
			})
		if res.Error != nil {
			return fmt.Errorf("failing transaction %d: %w", txn.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: transaction for order %s already settled", ErrConflict, gatewayOrderID)
		}
		return nil
	})
}

func (s *creditService) Balance(userID uint) (int, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return 0, fmt.Errorf("loading user %d: %w", userID, err)
	}
	return user.Credits, nil
}

func (s *creditService) History(userID uint) ([]model.CreditTransaction, error) {
	txns, err := s.transactionRepo.FindAllByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("loading transactions for user %d: %w", userID, err)
	}
	return txns, nil
}
