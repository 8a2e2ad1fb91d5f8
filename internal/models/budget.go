package models

import (
	"github.com/shopspring/decimal"
)

const (
	BudgetSourceNonRecurring = "non-recurring-average"
	BudgetSourcePattern      = "recurring-pattern"
	BudgetSourceCombined     = "combined-average-and-pattern"
)

// Workflow steps returned by the smart-budget orchestrator. Callers must
// branch on the step: only WorkflowStepBudgetCalculated carries a budget.
const (
	WorkflowStepApprovalRequired  = "pattern-approval-required"
	WorkflowStepDetectionComplete = "pattern-detection-complete"
	WorkflowStepBudgetCalculated  = "budget-calculated"
)

// Internal orchestrator states
const (
	WorkflowStateInitial          = "INITIAL"
	WorkflowStateDetecting        = "DETECTING"
	WorkflowStateApprovalRequired = "PATTERN_APPROVAL_REQUIRED"
	WorkflowStatePatternsDetected = "PATTERNS_DETECTED"
	WorkflowStateBudgetCalculated = "BUDGET_CALCULATED"
)

// PatternInfo attaches the pattern provenance to a budget line
type PatternInfo struct {
	PatternID         string   `json:"pattern_id"`
	RecurrencePattern string   `json:"recurrence_pattern"`
	ScheduledMonths   IntSlice `json:"scheduled_months"`
	Confidence        float64  `json:"confidence"`
}

// BudgetLine is one category row of a synthesized monthly budget
type BudgetLine struct {
	CategoryID     string          `json:"category_id"`
	SubCategoryID  string          `json:"sub_category_id"`
	BudgetedAmount decimal.Decimal `json:"budgeted_amount"`
	Source         string          `json:"source"`
	PatternInfo    *PatternInfo    `json:"pattern_info,omitempty"`
	Reasoning      string          `json:"reasoning,omitempty"`
}

// Key returns the merge key used when combining recurring and non-recurring
// budget components
func (l *BudgetLine) Key() string {
	return l.CategoryID + "|" + l.SubCategoryID
}

// IsValidBudgetSource checks if the budget source is valid
func IsValidBudgetSource(source string) bool {
	switch source {
	case BudgetSourceNonRecurring, BudgetSourcePattern, BudgetSourceCombined:
		return true
	default:
		return false
	}
}
