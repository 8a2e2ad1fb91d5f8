package services

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// DetectionLogger provides structured logging for detection and budget events
type DetectionLogger struct {
	logger *slog.Logger
}

// NewDetectionLogger creates a new detection event logger
func NewDetectionLogger(logger *slog.Logger) DetectionLoggerInterface {
	return &DetectionLogger{
		logger: logger,
	}
}

// LogDetectionStarted logs the start of a pattern detection pass
func (dl *DetectionLogger) LogDetectionStarted(userID uuid.UUID, monthsToAnalyze int) {
	dl.logger.Info("pattern detection started",
		slog.String("event_type", "pattern_detection_started"),
		slog.String("user_id", userID.String()),
		slog.Int("months_to_analyze", monthsToAnalyze),
		slog.Time("timestamp", time.Now()),
	)
}

// LogDetectionCompleted logs the result of a pattern detection pass
func (dl *DetectionLogger) LogDetectionCompleted(userID uuid.UUID, transactionCount, groupCount, patternCount int, durationMs int64) {
	dl.logger.Info("pattern detection completed",
		slog.String("event_type", "pattern_detection_completed"),
		slog.String("user_id", userID.String()),
		slog.Int("transaction_count", transactionCount),
		slog.Int("group_count", groupCount),
		slog.Int("pattern_count", patternCount),
		slog.Int64("duration_ms", durationMs),
		slog.Time("timestamp", time.Now()),
	)
}

// LogPatternStored logs a pattern upsert
func (dl *DetectionLogger) LogPatternStored(userID uuid.UUID, patternID, recurrencePattern string, confidence float64) {
	dl.logger.Info("pattern stored",
		slog.String("event_type", "pattern_stored"),
		slog.String("user_id", userID.String()),
		slog.String("pattern_id", patternID),
		slog.String("recurrence_pattern", recurrencePattern),
		slog.Float64("confidence", confidence),
		slog.Time("timestamp", time.Now()),
	)
}

// LogApprovalDecision logs a user decision on a detected pattern
func (dl *DetectionLogger) LogApprovalDecision(userID uuid.UUID, patternID, decision string) {
	dl.logger.Info("pattern approval decision",
		slog.String("event_type", "pattern_approval_decision"),
		slog.String("user_id", userID.String()),
		slog.String("pattern_id", patternID),
		slog.String("decision", decision),
		slog.Time("timestamp", time.Now()),
	)
}

// LogWorkflowOutcome logs the resulting step of a budget workflow run
func (dl *DetectionLogger) LogWorkflowOutcome(userID uuid.UUID, step string, pendingCount int) {
	dl.logger.Info("budget workflow outcome",
		slog.String("event_type", "budget_workflow_outcome"),
		slog.String("user_id", userID.String()),
		slog.String("step", step),
		slog.Int("pending_count", pendingCount),
		slog.Time("timestamp", time.Now()),
	)
}

// LogBudgetCalculated logs a completed budget synthesis
func (dl *DetectionLogger) LogBudgetCalculated(userID uuid.UUID, targetMonth, lineCount int, total string, durationMs int64) {
	dl.logger.Info("budget calculated",
		slog.String("event_type", "budget_calculated"),
		slog.String("user_id", userID.String()),
		slog.Int("target_month", targetMonth),
		slog.Int("line_count", lineCount),
		slog.String("total", total),
		slog.Int64("duration_ms", durationMs),
		slog.Time("timestamp", time.Now()),
	)
}
