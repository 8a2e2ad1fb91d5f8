package repositories

import (
	"errors"
	"fmt"
	"time"

	"smart-budget/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

var (
	ErrPatternNotFound = errors.New("detected pattern not found")
)

// patternRepository implements PatternRepositoryInterface
type patternRepository struct {
	db *gorm.DB
}

// NewPatternRepository creates a new pattern repository
func NewPatternRepository(db *gorm.DB) PatternRepositoryInterface {
	return &patternRepository{
		db: db,
	}
}

// FindByPatternID retrieves a pattern by its deterministic pattern id
func (r *patternRepository) FindByPatternID(userID uuid.UUID, patternID string) (*models.DetectedPattern, error) {
	var pattern models.DetectedPattern
	if err := r.db.Where("user_id = ? AND pattern_id = ?", userID, patternID).
		First(&pattern).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPatternNotFound
		}
		return nil, fmt.Errorf("failed to find pattern: %w", err)
	}
	return &pattern, nil
}

// Save upserts a pattern by its deterministic pattern id. New patterns insert
// as pending; existing rows get their mutable detection fields overwritten
// while the user's approval decision is preserved. Last writer wins when
// concurrent detection passes race on the same key.
func (r *patternRepository) Save(pattern *models.DetectedPattern) error {
	existing, err := r.FindByPatternID(pattern.UserID, pattern.PatternID)
	if err != nil {
		if !errors.Is(err, ErrPatternNotFound) {
			return err
		}

		if pattern.ApprovalStatus == "" {
			pattern.ApprovalStatus = models.ApprovalStatusPending
		}
		if err := r.db.Create(pattern).Error; err != nil {
			// Concurrent detection passes can race on the unique
			// (user_id, pattern_id) index; the loser retries as an update.
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
				return r.Save(pattern)
			}
			return fmt.Errorf("failed to create pattern: %w", err)
		}
		return nil
	}

	updates := map[string]interface{}{
		"recurrence_pattern": pattern.RecurrencePattern,
		"scheduled_months":   pattern.ScheduledMonths,
		"average_amount":     pattern.AverageAmount,
		"min_amount":         pattern.MinAmount,
		"max_amount":         pattern.MaxAmount,
		"confidence":         pattern.Confidence,
		"detection_data":     pattern.DetectionData,
		"updated_at":         time.Now(),
	}

	if err := r.db.Model(&models.DetectedPattern{}).
		Where("user_id = ? AND pattern_id = ?", pattern.UserID, pattern.PatternID).
		Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update pattern: %w", err)
	}

	pattern.ID = existing.ID
	pattern.ApprovalStatus = existing.ApprovalStatus
	return nil
}

// GetByUser retrieves all patterns for a user
func (r *patternRepository) GetByUser(userID uuid.UUID) ([]models.DetectedPattern, error) {
	var patterns []models.DetectedPattern
	if err := r.db.Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&patterns).Error; err != nil {
		return nil, fmt.Errorf("failed to get patterns: %w", err)
	}
	return patterns, nil
}

// GetPendingPatterns retrieves patterns still awaiting a user decision
func (r *patternRepository) GetPendingPatterns(userID uuid.UUID) ([]models.DetectedPattern, error) {
	return r.getByStatus(userID, models.ApprovalStatusPending)
}

// GetActivePatterns retrieves approved patterns
func (r *patternRepository) GetActivePatterns(userID uuid.UUID) ([]models.DetectedPattern, error) {
	return r.getByStatus(userID, models.ApprovalStatusApproved)
}

func (r *patternRepository) getByStatus(userID uuid.UUID, status string) ([]models.DetectedPattern, error) {
	var patterns []models.DetectedPattern
	if err := r.db.Where("user_id = ? AND approval_status = ?", userID, status).
		Order("created_at ASC").
		Find(&patterns).Error; err != nil {
		return nil, fmt.Errorf("failed to get %s patterns: %w", status, err)
	}
	return patterns, nil
}

// GetPatternsForMonth retrieves approved patterns scheduled to occur in the
// given calendar month, including modular projections past the observed months
func (r *patternRepository) GetPatternsForMonth(userID uuid.UUID, month int) ([]models.DetectedPattern, error) {
	active, err := r.GetActivePatterns(userID)
	if err != nil {
		return nil, err
	}

	patterns := make([]models.DetectedPattern, 0, len(active))
	for _, pattern := range active {
		if pattern.OccursInMonth(month) {
			patterns = append(patterns, pattern)
		}
	}
	return patterns, nil
}

// UpdateApprovalStatus records a user decision on a single pattern
func (r *patternRepository) UpdateApprovalStatus(userID uuid.UUID, patternID string, status string) error {
	if !models.IsValidApprovalStatus(status) {
		return models.ErrInvalidApprovalStatus
	}

	result := r.db.Model(&models.DetectedPattern{}).
		Where("user_id = ? AND pattern_id = ?", userID, patternID).
		Updates(map[string]interface{}{
			"approval_status": status,
			"updated_at":      time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update approval status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPatternNotFound
	}
	return nil
}

// BulkUpdateApprovalStatus records one decision across multiple patterns
func (r *patternRepository) BulkUpdateApprovalStatus(userID uuid.UUID, patternIDs []string, status string) (int64, error) {
	if !models.IsValidApprovalStatus(status) {
		return 0, models.ErrInvalidApprovalStatus
	}
	if len(patternIDs) == 0 {
		return 0, nil
	}

	result := r.db.Model(&models.DetectedPattern{}).
		Where("user_id = ? AND pattern_id IN ?", userID, patternIDs).
		Updates(map[string]interface{}{
			"approval_status": status,
			"updated_at":      time.Now(),
		})

	if result.Error != nil {
		return 0, fmt.Errorf("failed to bulk update approval status: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// RejectAllPending force-rejects every pending pattern for a user, returning
// the number of patterns affected
func (r *patternRepository) RejectAllPending(userID uuid.UUID) (int64, error) {
	result := r.db.Model(&models.DetectedPattern{}).
		Where("user_id = ? AND approval_status = ?", userID, models.ApprovalStatusPending).
		Updates(map[string]interface{}{
			"approval_status": models.ApprovalStatusRejected,
			"updated_at":      time.Now(),
		})

	if result.Error != nil {
		return 0, fmt.Errorf("failed to reject pending patterns: %w", result.Error)
	}
	return result.RowsAffected, nil
}
