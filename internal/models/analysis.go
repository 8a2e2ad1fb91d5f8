package models

import (
	"github.com/shopspring/decimal"
)

const (
	SpendingPatternRegular       = "REGULAR"
	SpendingPatternMostlyRegular = "MOSTLY_REGULAR"
	SpendingPatternSemiRegular   = "SEMI_REGULAR"
	SpendingPatternIrregular     = "IRREGULAR"
)

// TransactionGroup is a transient similarity group produced by the grouper.
// Groups with fewer than two members are discarded before they reach callers.
type TransactionGroup struct {
	CommonDescription string              `json:"common_description"`
	Transactions      []TransactionRecord `json:"transactions"`
	AverageAmount     decimal.Decimal     `json:"average_amount"`
	MinAmount         decimal.Decimal     `json:"min_amount"`
	MaxAmount         decimal.Decimal     `json:"max_amount"`
	CategoryID        string              `json:"category_id"`
	SubCategoryID     string              `json:"sub_category_id"`
}

// Size returns the number of member transactions
func (g *TransactionGroup) Size() int {
	return len(g.Transactions)
}

// RecurrenceMatch is the classifier's verdict for a transaction group
type RecurrenceMatch struct {
	RecurrencePattern string   `json:"recurrence_pattern"`
	ScheduledMonths   IntSlice `json:"scheduled_months"`
	Confidence        float64  `json:"confidence"`
}

// SpendingPatternAnalysis classifies how regularly a category produced spend
// across the available data months
type SpendingPatternAnalysis struct {
	PatternType        string  `json:"pattern_type"`
	Confidence         float64 `json:"confidence"`
	CoveragePercentage int     `json:"coverage_percentage"`
	MonthsPresent      []int   `json:"months_present"`
	AllDataMonths      []int   `json:"all_data_months"`
}

// AveragingStrategy bundles the chosen divisor with the analysis that
// justifies it
type AveragingStrategy struct {
	Denominator int                     `json:"denominator"`
	Analysis    SpendingPatternAnalysis `json:"analysis"`
	Reasoning   []string                `json:"reasoning"`
}
