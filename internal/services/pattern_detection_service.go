package services

import (
	"fmt"
	"time"

	"smart-budget/internal/dto"
	"smart-budget/internal/models"
	"smart-budget/internal/repositories"

	"github.com/google/uuid"
)

const (
	// DefaultMonthsToAnalyze is the detection window when the caller does not
	// specify one.
	DefaultMonthsToAnalyze = 12

	// maxSampleTransactions caps the occurrence snapshots kept on a pattern
	// for user review.
	maxSampleTransactions = 3
)

type patternDetectionService struct {
	transactionStore repositories.TransactionStoreInterface
	patternRepo      repositories.PatternRepositoryInterface
	grouper          TransactionGrouperInterface
	classifier       PeriodicityClassifierInterface
	detectionLogger  DetectionLoggerInterface
	metrics          MetricsRecorderInterface
}

// NewPatternDetectionService creates the detection pipeline service
func NewPatternDetectionService(
	transactionStore repositories.TransactionStoreInterface,
	patternRepo repositories.PatternRepositoryInterface,
	grouper TransactionGrouperInterface,
	classifier PeriodicityClassifierInterface,
	detectionLogger DetectionLoggerInterface,
	metrics MetricsRecorderInterface,
) PatternDetectionServiceInterface {
	return &patternDetectionService{
		transactionStore: transactionStore,
		patternRepo:      patternRepo,
		grouper:          grouper,
		classifier:       classifier,
		detectionLogger:  detectionLogger,
		metrics:          metrics,
	}
}

// DetectPatterns runs a full detection pass: fetch the analysis window from
// the transaction store, group by similarity, classify each group's calendar
// periodicity and upsert the resulting patterns.
func (s *patternDetectionService) DetectPatterns(userID uuid.UUID, monthsToAnalyze int) (*dto.DetectionResult, error) {
	if monthsToAnalyze <= 0 {
		monthsToAnalyze = DefaultMonthsToAnalyze
	}

	start := time.Now()
	s.detectionLogger.LogDetectionStarted(userID, monthsToAnalyze)

	endDate := time.Now()
	startDate := endDate.AddDate(0, -monthsToAnalyze, 0)

	transactions, err := s.transactionStore.GetByUserAndDateRange(userID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions for detection: %w", err)
	}

	groups := s.grouper.GroupTransactions(transactions)

	patterns := make([]models.DetectedPattern, 0, len(groups))
	for i := range groups {
		group := &groups[i]
		match := s.classifier.Classify(group, monthsToAnalyze)
		if match == nil {
			continue
		}
		patterns = append(patterns, s.buildPattern(userID, group, match))
	}

	if err := s.StoreDetectedPatterns(patterns); err != nil {
		return nil, err
	}

	duration := time.Since(start)
	s.detectionLogger.LogDetectionCompleted(userID, len(transactions), len(groups), len(patterns), duration.Milliseconds())
	s.metrics.RecordDetectionPass(len(patterns), duration)
	for i := range patterns {
		s.metrics.RecordPatternDetected(patterns[i].RecurrencePattern)
	}

	return &dto.DetectionResult{
		Success:              true,
		Patterns:             patterns,
		TotalDetected:        len(patterns),
		RequiresUserApproval: len(patterns) > 0,
	}, nil
}

// CheckPendingPatterns reports patterns still awaiting a user decision
func (s *patternDetectionService) CheckPendingPatterns(userID uuid.UUID) (*dto.PendingPatternsResult, error) {
	pending, err := s.patternRepo.GetPendingPatterns(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pending patterns: %w", err)
	}

	s.metrics.SetPendingPatterns(userID.String(), float64(len(pending)))

	result := &dto.PendingPatternsResult{
		HasPending:   len(pending) > 0,
		PendingCount: len(pending),
		Patterns:     pending,
	}
	if result.HasPending {
		result.Message = fmt.Sprintf("%d detected patterns require approval before budget calculation", len(pending))
	} else {
		result.Message = "No patterns pending approval"
	}
	return result, nil
}

// StoreDetectedPatterns upserts detected patterns by their deterministic
// pattern id. Empty input is a no-op with no repository calls.
func (s *patternDetectionService) StoreDetectedPatterns(patterns []models.DetectedPattern) error {
	if len(patterns) == 0 {
		return nil
	}

	for i := range patterns {
		pattern := &patterns[i]
		if err := s.patternRepo.Save(pattern); err != nil {
			return fmt.Errorf("failed to store pattern %s: %w", pattern.PatternID, err)
		}
		s.detectionLogger.LogPatternStored(pattern.UserID, pattern.PatternID, pattern.RecurrencePattern, pattern.Confidence)
	}
	return nil
}

func (s *patternDetectionService) buildPattern(userID uuid.UUID, group *models.TransactionGroup, match *models.RecurrenceMatch) models.DetectedPattern {
	samples := make([]models.SampleTransaction, 0, maxSampleTransactions)
	for i := range group.Transactions {
		if len(samples) == maxSampleTransactions {
			break
		}
		t := &group.Transactions[i]
		samples = append(samples, models.SampleTransaction{
			Description: t.Description,
			Amount:      t.Amount,
			ProcessedAt: t.ProcessedAt,
		})
	}

	return models.DetectedPattern{
		UserID:                userID,
		PatternID:             models.ComputePatternID(group.CommonDescription, group.CategoryID, group.SubCategoryID),
		NormalizedDescription: group.CommonDescription,
		CategoryID:            group.CategoryID,
		SubCategoryID:         group.SubCategoryID,
		RecurrencePattern:     match.RecurrencePattern,
		ScheduledMonths:       match.ScheduledMonths,
		AverageAmount:         group.AverageAmount,
		MinAmount:             group.MinAmount,
		MaxAmount:             group.MaxAmount,
		Confidence:            match.Confidence,
		ApprovalStatus:        models.ApprovalStatusPending,
		DetectionData: models.DetectionData{
			Confidence:         match.Confidence,
			LastDetected:       time.Now(),
			SampleTransactions: samples,
		},
	}
}
