package repositories

import (
	"errors"
	"fmt"
	"time"

	"smart-budget/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
)

// transactionStore implements TransactionStoreInterface
type transactionStore struct {
	db *gorm.DB
}

// NewTransactionStore creates a new transaction store
func NewTransactionStore(db *gorm.DB) TransactionStoreInterface {
	return &transactionStore{
		db: db,
	}
}

// Create creates a new transaction record
func (s *transactionStore) Create(transaction *models.TransactionRecord) error {
	if err := s.db.Create(transaction).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// CreateBatch creates multiple transaction records in a single database transaction
func (s *transactionStore) CreateBatch(transactions []models.TransactionRecord) error {
	if len(transactions) == 0 {
		return nil
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&transactions).Error; err != nil {
			return fmt.Errorf("failed to create batch transactions: %w", err)
		}
		return nil
	})
}

// GetByUserAndDateRange retrieves a user's transactions within a date range,
// sorted ascending by processed date
func (s *transactionStore) GetByUserAndDateRange(userID uuid.UUID, startDate, endDate time.Time) ([]models.TransactionRecord, error) {
	var transactions []models.TransactionRecord
	if err := s.db.Where("user_id = ? AND processed_at BETWEEN ? AND ?", userID, startDate, endDate).
		Order("processed_at ASC").
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to get transactions by date range: %w", err)
	}
	return transactions, nil
}

// GetByUserAndCategory retrieves a user's transactions for one category within a date range
func (s *transactionStore) GetByUserAndCategory(userID uuid.UUID, categoryID string, startDate, endDate time.Time) ([]models.TransactionRecord, error) {
	var transactions []models.TransactionRecord
	if err := s.db.Where("user_id = ? AND category_id = ? AND processed_at BETWEEN ? AND ?",
		userID, categoryID, startDate, endDate).
		Order("processed_at ASC").
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to get transactions by category: %w", err)
	}
	return transactions, nil
}

// CountByUser counts all transactions stored for a user
func (s *transactionStore) CountByUser(userID uuid.UUID) (int64, error) {
	var total int64
	if err := s.db.Model(&models.TransactionRecord{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return total, nil
}
