package services

import (
	"fmt"
	"strings"
	"time"

	"smart-budget/internal/dto"
	"smart-budget/internal/models"
	"smart-budget/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PendingPatternsError is returned by CalculateSmartBudget when undecided
// patterns exist. Proceeding silently would risk double-counting a
// transaction under both an unapproved pattern and the non-recurring average,
// so the gate fails fast and carries the pending set for the caller.
type PendingPatternsError struct {
	PendingCount int
	Patterns     []models.DetectedPattern
}

func (e *PendingPatternsError) Error() string {
	return fmt.Sprintf("Cannot calculate budget with %d pending patterns", e.PendingCount)
}

type budgetOrchestrator struct {
	transactionStore repositories.TransactionStoreInterface
	patternRepo      repositories.PatternRepositoryInterface
	detection        PatternDetectionServiceInterface
	approval         PatternApprovalServiceInterface
	analyzer         SpendingAnalyzerInterface
	grouper          TransactionGrouperInterface
	detectionLogger  DetectionLoggerInterface
	metrics          MetricsRecorderInterface
}

// NewBudgetOrchestrator creates the smart-budget workflow orchestrator
func NewBudgetOrchestrator(
	transactionStore repositories.TransactionStoreInterface,
	patternRepo repositories.PatternRepositoryInterface,
	detection PatternDetectionServiceInterface,
	approval PatternApprovalServiceInterface,
	analyzer SpendingAnalyzerInterface,
	grouper TransactionGrouperInterface,
	detectionLogger DetectionLoggerInterface,
	metrics MetricsRecorderInterface,
) BudgetOrchestratorInterface {
	return &budgetOrchestrator{
		transactionStore: transactionStore,
		patternRepo:      patternRepo,
		detection:        detection,
		approval:         approval,
		analyzer:         analyzer,
		grouper:          grouper,
		detectionLogger:  detectionLogger,
		metrics:          metrics,
	}
}

// CalculateSmartBudget synthesizes the monthly budget for targetMonth. The
// pending-pattern gate runs first, before any transaction store access.
func (o *budgetOrchestrator) CalculateSmartBudget(userID uuid.UUID, targetMonth, monthsToAnalyze int) (*dto.MonthlyBudget, error) {
	if targetMonth < 1 || targetMonth > 12 {
		return nil, fmt.Errorf("target month %d out of range", targetMonth)
	}
	if monthsToAnalyze <= 0 {
		monthsToAnalyze = DefaultMonthsToAnalyze
	}

	start := time.Now()

	pending, err := o.patternRepo.GetPendingPatterns(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check pending patterns: %w", err)
	}
	if len(pending) > 0 {
		return nil, &PendingPatternsError{PendingCount: len(pending), Patterns: pending}
	}

	endDate := time.Now()
	startDate := endDate.AddDate(0, -monthsToAnalyze, 0)
	transactions, err := o.transactionStore.GetByUserAndDateRange(userID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions for budget: %w", err)
	}

	active, err := o.patternRepo.GetActivePatterns(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active patterns: %w", err)
	}

	remainder := o.separateRecurringTransactions(transactions, active)

	nonRecurring := o.buildNonRecurringLines(remainder, transactions, monthsToAnalyze)
	recurring := o.buildRecurringLines(active, targetMonth)
	lines := mergeBudgetComponents(nonRecurring, recurring)

	total := decimal.Zero
	for i := range lines {
		total = total.Add(lines[i].BudgetedAmount)
	}

	budget := &dto.MonthlyBudget{
		UserID:      userID,
		TargetMonth: targetMonth,
		Lines:       lines,
		Total:       total,
	}

	duration := time.Since(start)
	o.detectionLogger.LogBudgetCalculated(userID, targetMonth, len(lines), total.String(), duration.Milliseconds())
	o.metrics.RecordBudgetCalculation(len(lines), duration)

	return budget, nil
}

// ExecuteSmartBudgetWorkflow is the single public entry point. Exactly one of
// three steps comes back: pending patterns block with pattern-approval-required,
// a detection pass that leaves new undecided patterns returns
// pattern-detection-complete, and only a fully decided pattern set proceeds to
// budget-calculated.
func (o *budgetOrchestrator) ExecuteSmartBudgetWorkflow(userID uuid.UUID, targetMonth, monthsToAnalyze int) (*dto.WorkflowResult, error) {
	pendingResult, err := o.detection.CheckPendingPatterns(userID)
	if err != nil {
		return nil, err
	}
	if pendingResult.HasPending {
		return o.finishWorkflow(userID, &dto.WorkflowResult{
			Step:            models.WorkflowStepApprovalRequired,
			Success:         true,
			State:           models.WorkflowStateApprovalRequired,
			Message:         pendingResult.Message,
			PendingPatterns: pendingResult.Patterns,
			PendingCount:    pendingResult.PendingCount,
		}), nil
	}

	detectionResult, err := o.detection.DetectPatterns(userID, monthsToAnalyze)
	if err != nil {
		return nil, err
	}

	// Upserts preserve earlier decisions, so only patterns first seen by this
	// pass are pending now.
	newPending, err := o.detection.CheckPendingPatterns(userID)
	if err != nil {
		return nil, err
	}
	if newPending.HasPending {
		return o.finishWorkflow(userID, &dto.WorkflowResult{
			Step:            models.WorkflowStepDetectionComplete,
			Success:         true,
			State:           models.WorkflowStatePatternsDetected,
			Message:         fmt.Sprintf("%d recurring patterns detected; review them before the budget can be calculated", newPending.PendingCount),
			PendingPatterns: newPending.Patterns,
			PendingCount:    newPending.PendingCount,
			DetectedCount:   detectionResult.TotalDetected,
		}), nil
	}

	budget, err := o.CalculateSmartBudget(userID, targetMonth, monthsToAnalyze)
	if err != nil {
		return nil, err
	}

	return o.finishWorkflow(userID, &dto.WorkflowResult{
		Step:          models.WorkflowStepBudgetCalculated,
		Success:       true,
		State:         models.WorkflowStateBudgetCalculated,
		Message:       fmt.Sprintf("Budget calculated for month %d", targetMonth),
		DetectedCount: detectionResult.TotalDetected,
		Budget:        budget,
	}), nil
}

// CalculateWithRejection force-rejects every pending pattern and re-enters the
// workflow until it reaches budget-calculated.
func (o *budgetOrchestrator) CalculateWithRejection(userID uuid.UUID, targetMonth, monthsToAnalyze int) (*dto.WorkflowResult, error) {
	rejected, err := o.approval.RejectRemaining(userID)
	if err != nil {
		return nil, err
	}

	result, err := o.ExecuteSmartBudgetWorkflow(userID, targetMonth, monthsToAnalyze)
	if err != nil {
		return nil, err
	}

	// The detection pass inside the workflow can surface patterns never seen
	// before; reject those too and re-enter. Pattern ids are deterministic,
	// so the second pass cannot find anything new.
	if result.Step == models.WorkflowStepDetectionComplete {
		more, err := o.approval.RejectRemaining(userID)
		if err != nil {
			return nil, err
		}
		rejected += more

		result, err = o.ExecuteSmartBudgetWorkflow(userID, targetMonth, monthsToAnalyze)
		if err != nil {
			return nil, err
		}
	}

	result.RejectedCount = rejected
	return result, nil
}

func (o *budgetOrchestrator) finishWorkflow(userID uuid.UUID, result *dto.WorkflowResult) *dto.WorkflowResult {
	o.detectionLogger.LogWorkflowOutcome(userID, result.Step, result.PendingCount)
	o.metrics.RecordWorkflowOutcome(result.Step)
	return result
}

// separateRecurringTransactions returns the transactions not claimed by any
// active pattern. Claimed spend is budgeted through the pattern's average
// instead of the historical mean.
func (o *budgetOrchestrator) separateRecurringTransactions(transactions []models.TransactionRecord, active []models.DetectedPattern) []models.TransactionRecord {
	remainder := make([]models.TransactionRecord, 0, len(transactions))
	for i := range transactions {
		t := &transactions[i]
		claimed := false
		for j := range active {
			if active[j].MatchesTransaction(t, o.grouper.NormalizeDescription) {
				claimed = true
				break
			}
		}
		if !claimed {
			remainder = append(remainder, *t)
		}
	}
	return remainder
}

func (o *budgetOrchestrator) buildNonRecurringLines(remainder, all []models.TransactionRecord, monthsToAnalyze int) []models.BudgetLine {
	allDataMonths := make([]int, 0, len(all))
	for i := range all {
		allDataMonths = append(allDataMonths, all[i].MonthKey())
	}

	byCategory := make(map[string][]models.TransactionRecord)
	keys := make([]string, 0)
	for i := range remainder {
		key := remainder[i].CategoryKey()
		if _, ok := byCategory[key]; !ok {
			keys = append(keys, key)
		}
		byCategory[key] = append(byCategory[key], remainder[i])
	}

	lines := make([]models.BudgetLine, 0, len(keys))
	for _, key := range keys {
		group := byCategory[key]

		categoryMonths := make([]int, 0, len(group))
		total := decimal.Zero
		for i := range group {
			categoryMonths = append(categoryMonths, group[i].MonthKey())
			total = total.Add(group[i].AbsAmount())
		}

		strategy := o.analyzer.GetAveragingStrategy(categoryMonths, allDataMonths, monthsToAnalyze)
		amount := total.Div(decimal.NewFromInt(int64(strategy.Denominator))).Round(2)

		categoryID, subCategoryID := splitCategoryKey(key)
		lines = append(lines, models.BudgetLine{
			CategoryID:     categoryID,
			SubCategoryID:  subCategoryID,
			BudgetedAmount: amount,
			Source:         models.BudgetSourceNonRecurring,
			Reasoning:      strings.Join(strategy.Reasoning, "; "),
		})
	}
	return lines
}

func (o *budgetOrchestrator) buildRecurringLines(active []models.DetectedPattern, targetMonth int) []models.BudgetLine {
	lines := make([]models.BudgetLine, 0, len(active))
	for i := range active {
		p := &active[i]
		if !p.OccursInMonth(targetMonth) {
			continue
		}
		// Key with the same defaults the transaction aggregation uses, so a
		// pattern over uncategorized spend merges with its averaged line.
		categoryID := p.CategoryID
		if categoryID == "" {
			categoryID = models.CategoryUnknown
		}
		subCategoryID := p.SubCategoryID
		if subCategoryID == "" {
			subCategoryID = models.SubCategoryGeneral
		}
		lines = append(lines, models.BudgetLine{
			CategoryID:     categoryID,
			SubCategoryID:  subCategoryID,
			BudgetedAmount: p.AverageAmount,
			Source:         models.BudgetSourcePattern,
			PatternInfo: &models.PatternInfo{
				PatternID:         p.PatternID,
				RecurrencePattern: p.RecurrencePattern,
				ScheduledMonths:   p.ScheduledMonths,
				Confidence:        p.Confidence,
			},
		})
	}
	return lines
}

// mergeBudgetComponents folds recurring lines into the non-recurring set.
// A shared category key sums the amounts into a combined line carrying the
// pattern provenance; unmatched recurring lines append as-is.
func mergeBudgetComponents(nonRecurring, recurring []models.BudgetLine) []models.BudgetLine {
	merged := make([]models.BudgetLine, len(nonRecurring))
	copy(merged, nonRecurring)

	index := make(map[string]int, len(merged))
	for i := range merged {
		index[merged[i].Key()] = i
	}

	for i := range recurring {
		r := &recurring[i]
		if j, ok := index[r.Key()]; ok {
			merged[j].BudgetedAmount = merged[j].BudgetedAmount.Add(r.BudgetedAmount)
			merged[j].Source = models.BudgetSourceCombined
			merged[j].PatternInfo = r.PatternInfo
			continue
		}
		merged = append(merged, *r)
	}
	return merged
}

func splitCategoryKey(key string) (string, string) {
	if i := strings.Index(key, "|"); i >= 0 {
		return key[:i], key[i+1:]
	}
	return key, models.SubCategoryGeneral
}
