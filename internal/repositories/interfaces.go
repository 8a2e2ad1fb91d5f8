package repositories

import (
	"time"

	"smart-budget/internal/models"

	"github.com/google/uuid"
)

// TransactionStoreInterface defines the contract for transaction retrieval.
// The engine only reads transactions; ingestion belongs to an upstream system.
type TransactionStoreInterface interface {
	Create(transaction *models.TransactionRecord) error
	CreateBatch(transactions []models.TransactionRecord) error
	GetByUserAndDateRange(userID uuid.UUID, startDate, endDate time.Time) ([]models.TransactionRecord, error)
	GetByUserAndCategory(userID uuid.UUID, categoryID string, startDate, endDate time.Time) ([]models.TransactionRecord, error)
	CountByUser(userID uuid.UUID) (int64, error)
}

// PatternRepositoryInterface defines the contract for detected-pattern persistence
type PatternRepositoryInterface interface {
	FindByPatternID(userID uuid.UUID, patternID string) (*models.DetectedPattern, error)
	Save(pattern *models.DetectedPattern) error
	GetByUser(userID uuid.UUID) ([]models.DetectedPattern, error)
	GetPendingPatterns(userID uuid.UUID) ([]models.DetectedPattern, error)
	GetActivePatterns(userID uuid.UUID) ([]models.DetectedPattern, error)
	GetPatternsForMonth(userID uuid.UUID, month int) ([]models.DetectedPattern, error)
	UpdateApprovalStatus(userID uuid.UUID, patternID string, status string) error
	BulkUpdateApprovalStatus(userID uuid.UUID, patternIDs []string, status string) (int64, error)
	RejectAllPending(userID uuid.UUID) (int64, error)
}
