package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validTransaction() TransactionRecord {
	return TransactionRecord{
		UserID:      uuid.New(),
		Description: "Supermarket",
		Amount:      decimal.NewFromInt(-100),
		ProcessedAt: time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestTransactionValidate(t *testing.T) {
	transaction := validTransaction()
	assert.NoError(t, transaction.Validate())

	missingUser := validTransaction()
	missingUser.UserID = uuid.Nil
	assert.ErrorIs(t, missingUser.Validate(), ErrUserIDRequired)

	blankDescription := validTransaction()
	blankDescription.Description = "   "
	assert.ErrorIs(t, blankDescription.Validate(), ErrDescriptionRequired)

	zeroAmount := validTransaction()
	zeroAmount.Amount = decimal.Zero
	assert.ErrorIs(t, zeroAmount.Validate(), ErrZeroAmount)

	noDate := validTransaction()
	noDate.ProcessedAt = time.Time{}
	assert.ErrorIs(t, noDate.Validate(), ErrProcessedAtRequired)
}

func TestTransactionAmountHelpers(t *testing.T) {
	expense := validTransaction()
	assert.True(t, expense.IsExpense())
	assert.True(t, expense.AbsAmount().Equal(decimal.NewFromInt(100)))

	income := validTransaction()
	income.Amount = decimal.NewFromInt(2500)
	assert.False(t, income.IsExpense())
	assert.True(t, income.AbsAmount().Equal(decimal.NewFromInt(2500)))
}

func TestTransactionMonthKey(t *testing.T) {
	transaction := validTransaction()
	assert.Equal(t, 3, transaction.Month())
	assert.Equal(t, 202503, transaction.MonthKey())

	// December and January of consecutive years stay distinct.
	december := validTransaction()
	december.ProcessedAt = time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	january := validTransaction()
	january.ProcessedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.NotEqual(t, december.MonthKey(), january.MonthKey())
	assert.Equal(t, 202412, december.MonthKey())
}

func TestTransactionCategoryKey(t *testing.T) {
	transaction := validTransaction()
	transaction.CategoryID = "groceries"
	assert.Equal(t, "groceries|general", transaction.CategoryKey())

	transaction.SubCategoryID = "organic"
	assert.Equal(t, "groceries|organic", transaction.CategoryKey())

	uncategorized := validTransaction()
	assert.Equal(t, "unknown|general", uncategorized.CategoryKey())
}
