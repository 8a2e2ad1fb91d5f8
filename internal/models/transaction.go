package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	// CategoryUnknown is substituted when a transaction arrives without a category id
	CategoryUnknown = "unknown"
	// SubCategoryGeneral is substituted when a transaction arrives without a subcategory id
	SubCategoryGeneral = "general"
)

var (
	ErrUserIDRequired      = errors.New("user ID is required")
	ErrDescriptionRequired = errors.New("transaction description is required")
	ErrZeroAmount          = errors.New("transaction amount cannot be zero")
	ErrProcessedAtRequired = errors.New("transaction processed date is required")
)

// TransactionRecord represents a single bank transaction as delivered by the
// transaction store. Amounts are signed: expenses are negative, income positive.
type TransactionRecord struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Description   string          `gorm:"type:text;not null" json:"description"`
	Amount        decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	ProcessedAt   time.Time       `gorm:"not null;index" json:"processed_at"`
	CategoryID    string          `gorm:"type:varchar(100);index" json:"category_id,omitempty"`
	SubCategoryID string          `gorm:"type:varchar(100)" json:"sub_category_id,omitempty"`
	CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null" json:"updated_at"`
}

// BeforeCreate hook for TransactionRecord
func (t *TransactionRecord) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}

	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}

	return t.Validate()
}

// Validate validates the transaction record fields
func (t *TransactionRecord) Validate() error {
	if t.UserID == uuid.Nil {
		return ErrUserIDRequired
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrDescriptionRequired
	}
	if t.Amount.IsZero() {
		return ErrZeroAmount
	}
	if t.ProcessedAt.IsZero() {
		return ErrProcessedAtRequired
	}
	return nil
}

// IsExpense returns true for outgoing transactions
func (t *TransactionRecord) IsExpense() bool {
	return t.Amount.IsNegative()
}

// AbsAmount returns the unsigned magnitude of the transaction
func (t *TransactionRecord) AbsAmount() decimal.Decimal {
	return t.Amount.Abs()
}

// Month returns the calendar month (1-12) the transaction was processed in
func (t *TransactionRecord) Month() int {
	return int(t.ProcessedAt.Month())
}

// MonthKey returns a sortable year-month key (year*100 + month), the unit the
// spending analyzer counts coverage in
func (t *TransactionRecord) MonthKey() int {
	return t.ProcessedAt.Year()*100 + int(t.ProcessedAt.Month())
}

// CategoryKey returns the category grouping key, substituting defaults for
// transactions that arrived without category ids
func (t *TransactionRecord) CategoryKey() string {
	category := t.CategoryID
	if category == "" {
		category = CategoryUnknown
	}
	subCategory := t.SubCategoryID
	if subCategory == "" {
		subCategory = SubCategoryGeneral
	}
	return category + "|" + subCategory
}

// TableName returns the table name for TransactionRecord
func (t *TransactionRecord) TableName() string {
	return "transactions"
}
