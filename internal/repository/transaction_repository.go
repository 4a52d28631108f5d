package repository

import (
	"github.com/prepforge/prepforge/internal/model"
	"gorm.io/gorm"
)

type TransactionRepository interface {
	Create(txn *model.CreditTransaction) error
	FindByID(id uint) (*model.CreditTransaction, error)
	FindByGatewayOrderID(orderID string) (*model.CreditTransaction, error)
	FindAllByUser(userID uint) ([]model.CreditTransaction, error)
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(txn *model.CreditTransaction) error {
	return r.db.Create(txn).Error
}

func (r *transactionRepository) FindByID(id uint) (*model.CreditTransaction, error) {
	var txn model.CreditTransaction
	if err := r.db.First(&txn, id).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *transactionRepository) FindByGatewayOrderID(orderID string) (*model.CreditTransaction, error) {
	var txn model.CreditTransaction
	if err := r.db.Where("gateway_order_id = ?", orderID).First(&txn).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *transactionRepository) FindAllByUser(userID uint) ([]model.CreditTransaction, error) {
	var txns []model.CreditTransaction
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&txns).Error
	return txns, err
}
