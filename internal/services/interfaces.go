package services

import (
	"time"

	"smart-budget/internal/dto"
	"smart-budget/internal/models"

	"github.com/google/uuid"
)

// TransactionGrouperInterface partitions raw transactions into similarity groups
type TransactionGrouperInterface interface {
	// GroupTransactions partitions transactions by category and description
	// similarity. Pure and total: empty input yields empty output, groups of
	// size one are discarded, amount is never a grouping key.
	GroupTransactions(transactions []models.TransactionRecord) []models.TransactionGroup

	// NormalizeDescription reduces a raw description to its grouping identity
	NormalizeDescription(description string) string
}

// PeriodicityClassifierInterface turns a group's occurrences into a typed
// recurrence verdict, or nil when no calendar pattern fits
type PeriodicityClassifierInterface interface {
	Classify(group *models.TransactionGroup, windowMonths int) *models.RecurrenceMatch
	CheckBiMonthlyPattern(months []int, windowMonths int) *models.RecurrenceMatch
	CheckQuarterlyPattern(months []int, windowMonths int) *models.RecurrenceMatch
	CheckYearlyPattern(occurrences []time.Time) *models.RecurrenceMatch
}

// PatternDetectionServiceInterface runs detection passes and persists the results
type PatternDetectionServiceInterface interface {
	DetectPatterns(userID uuid.UUID, monthsToAnalyze int) (*dto.DetectionResult, error)
	CheckPendingPatterns(userID uuid.UUID) (*dto.PendingPatternsResult, error)
	StoreDetectedPatterns(patterns []models.DetectedPattern) error
}

// PatternApprovalServiceInterface records user decisions on detected patterns
type PatternApprovalServiceInterface interface {
	ApprovePattern(userID uuid.UUID, patternID string) error
	RejectPattern(userID uuid.UUID, patternID string) error
	BulkDecide(userID uuid.UUID, patternIDs []string, decision string) (int64, error)
	RejectRemaining(userID uuid.UUID) (int64, error)
}

// SpendingAnalyzerInterface classifies category coverage and chooses averaging
// divisors for non-recurring spend
type SpendingAnalyzerInterface interface {
	// AnalyzeSpendingPattern classifies coverage of categoryMonths over
	// allDataMonths. Returned month slices are sorted regardless of input order.
	AnalyzeSpendingPattern(categoryMonths, allDataMonths []int) models.SpendingPatternAnalysis

	// GetAveragingDenominator is the count-only legacy policy: it never
	// inflates past the observed month count, even at full coverage.
	GetAveragingDenominator(categoryMonths []int) int

	// GetAveragingDenominatorEnhanced is the full-set policy: full coverage is
	// treated as "predates the data window" and inflates to requestedMonths;
	// any observed absence falls back to the observed count.
	GetAveragingDenominatorEnhanced(categoryMonths, allDataMonths []int, requestedMonths int) int

	// GetAveragingStrategy composes analysis and the enhanced policy with a
	// caller-facing reasoning string.
	GetAveragingStrategy(categoryMonths, allDataMonths []int, requestedMonths int) models.AveragingStrategy
}

// BudgetOrchestratorInterface sequences detection, the approval gate and
// budget synthesis
type BudgetOrchestratorInterface interface {
	// CalculateSmartBudget synthesizes the monthly budget. It fails with
	// *PendingPatternsError before touching the transaction store whenever any
	// pattern is still pending.
	CalculateSmartBudget(userID uuid.UUID, targetMonth, monthsToAnalyze int) (*dto.MonthlyBudget, error)

	// ExecuteSmartBudgetWorkflow is the single public entry point implementing
	// the three-outcome contract.
	ExecuteSmartBudgetWorkflow(userID uuid.UUID, targetMonth, monthsToAnalyze int) (*dto.WorkflowResult, error)

	// CalculateWithRejection force-rejects all pending patterns and re-enters
	// the workflow, guaranteeing a budget-calculated outcome.
	CalculateWithRejection(userID uuid.UUID, targetMonth, monthsToAnalyze int) (*dto.WorkflowResult, error)
}

// DetectionLoggerInterface provides structured logging for detection and
// budget events
type DetectionLoggerInterface interface {
	LogDetectionStarted(userID uuid.UUID, monthsToAnalyze int)
	LogDetectionCompleted(userID uuid.UUID, transactionCount, groupCount, patternCount int, durationMs int64)
	LogPatternStored(userID uuid.UUID, patternID, recurrencePattern string, confidence float64)
	LogApprovalDecision(userID uuid.UUID, patternID, decision string)
	LogWorkflowOutcome(userID uuid.UUID, step string, pendingCount int)
	LogBudgetCalculated(userID uuid.UUID, targetMonth, lineCount int, total string, durationMs int64)
}

// MetricsRecorderInterface abstracts metric emission for the engine
type MetricsRecorderInterface interface {
	RecordDetectionPass(patternCount int, duration time.Duration)
	RecordPatternDetected(recurrencePattern string)
	RecordApprovalDecision(decision string, count int64)
	RecordWorkflowOutcome(step string)
	RecordBudgetCalculation(lineCount int, duration time.Duration)
	SetPendingPatterns(userID string, count float64)
}
