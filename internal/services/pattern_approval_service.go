package services

import (
	"fmt"

	"smart-budget/internal/models"
	"smart-budget/internal/repositories"

	"github.com/google/uuid"
)

type patternApprovalService struct {
	patternRepo     repositories.PatternRepositoryInterface
	detectionLogger DetectionLoggerInterface
	metrics         MetricsRecorderInterface
}

// NewPatternApprovalService creates the approval decision service
func NewPatternApprovalService(
	patternRepo repositories.PatternRepositoryInterface,
	detectionLogger DetectionLoggerInterface,
	metrics MetricsRecorderInterface,
) PatternApprovalServiceInterface {
	return &patternApprovalService{
		patternRepo:     patternRepo,
		detectionLogger: detectionLogger,
		metrics:         metrics,
	}
}

func (s *patternApprovalService) ApprovePattern(userID uuid.UUID, patternID string) error {
	return s.decide(userID, patternID, models.ApprovalStatusApproved)
}

func (s *patternApprovalService) RejectPattern(userID uuid.UUID, patternID string) error {
	return s.decide(userID, patternID, models.ApprovalStatusRejected)
}

func (s *patternApprovalService) decide(userID uuid.UUID, patternID, decision string) error {
	if err := s.patternRepo.UpdateApprovalStatus(userID, patternID, decision); err != nil {
		return fmt.Errorf("failed to record %s decision: %w", decision, err)
	}
	s.detectionLogger.LogApprovalDecision(userID, patternID, decision)
	s.metrics.RecordApprovalDecision(decision, 1)
	return nil
}

// BulkDecide applies one decision across multiple patterns and returns the
// number of patterns updated
func (s *patternApprovalService) BulkDecide(userID uuid.UUID, patternIDs []string, decision string) (int64, error) {
	if !models.IsValidApprovalStatus(decision) || decision == models.ApprovalStatusPending {
		return 0, fmt.Errorf("invalid approval decision %q", decision)
	}
	if len(patternIDs) == 0 {
		return 0, nil
	}

	updated, err := s.patternRepo.BulkUpdateApprovalStatus(userID, patternIDs, decision)
	if err != nil {
		return 0, fmt.Errorf("failed to record bulk %s decision: %w", decision, err)
	}
	for _, patternID := range patternIDs {
		s.detectionLogger.LogApprovalDecision(userID, patternID, decision)
	}
	s.metrics.RecordApprovalDecision(decision, updated)
	return updated, nil
}

// RejectRemaining rejects every pattern still pending for the user
func (s *patternApprovalService) RejectRemaining(userID uuid.UUID) (int64, error) {
	rejected, err := s.patternRepo.RejectAllPending(userID)
	if err != nil {
		return 0, fmt.Errorf("failed to reject remaining patterns: %w", err)
	}
	if rejected > 0 {
		s.metrics.RecordApprovalDecision(models.ApprovalStatusRejected, rejected)
	}
	s.metrics.SetPendingPatterns(userID.String(), 0)
	return rejected, nil
}
