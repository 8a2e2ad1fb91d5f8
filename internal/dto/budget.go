package dto

import (
	"smart-budget/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetWorkflowRequest drives the smart-budget workflow for a user and target month
type BudgetWorkflowRequest struct {
	UserID          uuid.UUID `json:"user_id" validate:"required"`
	TargetMonth     int       `json:"target_month" validate:"required,target_month"`
	MonthsToAnalyze int       `json:"months_to_analyze" validate:"omitempty,months_window"`
}

// WorkflowResult is the three-outcome workflow contract. Step tells the caller
// what happened; Budget is populated only for the budget-calculated step.
type WorkflowResult struct {
	Step            string                   `json:"step"`
	Success         bool                     `json:"success"`
	State           string                   `json:"state"`
	Message         string                   `json:"message,omitempty"`
	PendingPatterns []models.DetectedPattern `json:"pending_patterns,omitempty"`
	PendingCount    int                      `json:"pending_count,omitempty"`
	DetectedCount   int                      `json:"detected_count,omitempty"`
	RejectedCount   int64                    `json:"rejected_count,omitempty"`
	Budget          *MonthlyBudget           `json:"budget,omitempty"`
}

// MonthlyBudget is the synthesized budget for one target month
type MonthlyBudget struct {
	UserID      uuid.UUID           `json:"user_id"`
	TargetMonth int                 `json:"target_month"`
	Lines       []models.BudgetLine `json:"lines"`
	Total       decimal.Decimal     `json:"total"`
}

// AveragingStrategyRequest asks for the divisor policy verdict on one category's months
type AveragingStrategyRequest struct {
	CategoryMonths  []int `json:"category_months" validate:"required"`
	AllDataMonths   []int `json:"all_data_months"`
	RequestedMonths int   `json:"requested_months" validate:"omitempty,months_window"`
}
