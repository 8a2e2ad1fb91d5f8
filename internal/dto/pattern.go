package dto

import (
	"smart-budget/internal/models"

	"github.com/google/uuid"
)

// DetectPatternsRequest triggers a detection pass for a user
type DetectPatternsRequest struct {
	UserID          uuid.UUID `json:"user_id" validate:"required"`
	MonthsToAnalyze int       `json:"months_to_analyze" validate:"omitempty,months_window"`
}

// DetectionResult is the outcome of a detection pass
type DetectionResult struct {
	Success              bool                     `json:"success"`
	Patterns             []models.DetectedPattern `json:"patterns"`
	TotalDetected        int                      `json:"total_detected"`
	RequiresUserApproval bool                     `json:"requires_user_approval"`
}

// PendingPatternsResult reports patterns awaiting a user decision
type PendingPatternsResult struct {
	HasPending   bool                     `json:"has_pending"`
	PendingCount int                      `json:"pending_count"`
	Patterns     []models.DetectedPattern `json:"patterns"`
	Message      string                   `json:"message"`
}

// PatternDecisionRequest records a single approval decision
type PatternDecisionRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
}

// BulkPatternDecisionRequest records one decision across multiple patterns
type BulkPatternDecisionRequest struct {
	UserID     uuid.UUID `json:"user_id" validate:"required"`
	PatternIDs []string  `json:"pattern_ids" validate:"required,min=1,dive,pattern_hash"`
	Decision   string    `json:"decision" validate:"required,pattern_decision"`
}

// PatternDecisionResult reports how many patterns a decision touched
type PatternDecisionResult struct {
	Updated int64  `json:"updated"`
	Status  string `json:"status"`
}
