package service

import (
	"encoding/json"
	"testing"

	"github.com/prepforge/prepforge/internal/model"
	"github.com/prepforge/prepforge/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newCreditService(db *gorm.DB) CreditService {
	return NewCreditService(repository.NewUserRepository(db), repository.NewTransactionRepository(db), db)
}

func TestApplyDelta_CreditWritesBalanceAndLedgerTogether(t *testing.T) {
	db := setupTestDB(t)
	svc := newCreditService(db)
	user := seedUser(t, db, 0)

	txn, err := svc.ApplyDelta(user.ID, 0, 10, model.TransactionTypeAdminCredit, "")
	require.NoError(t, err)

	assert.Equal(t, model.TransactionStatusCompleted, txn.Status)
	assert.Equal(t, 10, txn.Credits)
	assert.NotEmpty(t, txn.ReceiptID)

	balance, err := svc.Balance(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, balance)

	txns, err := svc.History(user.ID)
	require.NoError(t, err)
	assert.Len(t, txns, 1)
}

func TestApplyDelta_DebitBelowZeroLeavesEverythingUntouched(t *testing.T) {
	db := setupTestDB(t)
	svc := newCreditService(db)
	user := seedUser(t, db, 5)

	_, err := svc.ApplyDelta(user.ID, 0, -8, model.TransactionTypeAdminDebit, "")
	assert.ErrorIs(t, err, ErrInsufficientCredits)

	balance, err := svc.Balance(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, balance)

	txns, err := svc.History(user.ID)
	require.NoError(t, err)
	assert.Empty(t, txns, "a rejected debit must not leave a ledger row")
}

func TestApplyDelta_UnknownUser(t *testing.T) {
	db := setupTestDB(t)
	svc := newCreditService(db)

	_, err := svc.ApplyDelta(42, 0, 10, model.TransactionTypeAdminCredit, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCompletePendingTransaction_CreditsExactlyOnce(t *testing.T) {
	db := setupTestDB(t)
	svc := newCreditService(db)
	user := seedUser(t, db, 0)

	_, err := svc.CreatePendingPurchase(user.ID, 249, 15, model.GatewayRazorpay, "order_100")
	require.NoError(t, err)

	balance, err := svc.Balance(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, balance, "a pending purchase must not touch the balance")

	txn, err := svc.CompletePendingTransaction("order_100", "pay_abc")
	require.NoError(t, err)
	assert.Equal(t, model.TransactionStatusCompleted, txn.Status)
	require.NotNil(t, txn.GatewayPaymentID)
	assert.Equal(t, "pay_abc", *txn.GatewayPaymentID)

	balance, err = svc.Balance(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, balance)

	// The gateway retries the callback.
	_, err = svc.CompletePendingTransaction("order_100", "pay_abc")
	assert.ErrorIs(t, err, ErrNotFound)

	balance, err = svc.Balance(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, balance, "a replayed callback must not credit twice")
}

func TestCompletePendingTransaction_UnknownOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := newCreditService(db)

	_, err := svc.CompletePendingTransaction("order_missing", "pay_x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordFailure_MovesToFailedAndAppendsHistory(t *testing.T) {
	db := setupTestDB(t)
	svc := newCreditService(db)
	user := seedUser(t, db, 0)

	// Simulate an earlier failed attempt already recorded on the pending row.
	prior, err := json.Marshal(failureHistory{Failures: []model.FailureRecord{
		{Gateway: model.GatewayRazorpay, Error: "card declined", Attempt: 1},
	}})
	require.NoError(t, err)
	orderID := "order_200"
	txn := model.CreditTransaction{
		UserID:         user.ID,
		Type:           model.TransactionTypePurchase,
		Amount:         99,
		Credits:        5,
		Status:         model.TransactionStatusPending,
		Gateway:        model.GatewayRazorpay,
		GatewayOrderID: &orderID,
		ReceiptID:      "rcpt-" + t.Name(),
		Metadata:       datatypes.JSON(prior),
		AttemptCount:   1,
	}
	require.NoError(t, db.Create(&txn).Error)

	require.NoError(t, svc.RecordFailure("order_200", model.GatewayRazorpay, "user abandoned checkout"))

	var reloaded model.CreditTransaction
	require.NoError(t, db.First(&reloaded, txn.ID).Error)
	assert.Equal(t, model.TransactionStatusFailed, reloaded.Status)
	assert.Equal(t, 2, reloaded.AttemptCount)

	var history failureHistory
	require.NoError(t, json.Unmarshal(reloaded.Metadata, &history))
	require.Len(t, history.Failures, 2, "failure history is append-only")
	assert.Equal(t, "card declined", history.Failures[0].Error)
	assert.Equal(t, "user abandoned checkout", history.Failures[1].Error)
	assert.Equal(t, 2, history.Failures[1].Attempt)

	// The row is terminal now; a second failure report has nothing to act on.
	err = svc.RecordFailure("order_200", model.GatewayRazorpay, "again")
	assert.ErrorIs(t, err, ErrNotFound)

	balance, err := svc.Balance(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, balance)
}
