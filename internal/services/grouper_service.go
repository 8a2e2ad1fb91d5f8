package services

import (
	"regexp"
	"strings"

	"smart-budget/internal/models"

	"github.com/shopspring/decimal"
)

// DefaultWordOverlapThreshold is the minimum shared-word ratio for two
// descriptions to be considered the same obligation
const DefaultWordOverlapThreshold = 0.5

var whitespaceRegex = regexp.MustCompile(`\s+`)

// transactionGrouper implements TransactionGrouperInterface
type transactionGrouper struct {
	wordOverlapThreshold float64
}

// NewTransactionGrouper creates a new transaction grouper
func NewTransactionGrouper(wordOverlapThreshold float64) TransactionGrouperInterface {
	if wordOverlapThreshold <= 0 || wordOverlapThreshold > 1 {
		wordOverlapThreshold = DefaultWordOverlapThreshold
	}
	return &transactionGrouper{
		wordOverlapThreshold: wordOverlapThreshold,
	}
}

// GroupTransactions partitions transactions into similarity groups. Two
// transactions share a group iff they carry the same category and subcategory
// AND their descriptions are similar. Amount is never a grouping key: bills
// fluctuate. Groups with fewer than two members are dropped.
func (g *transactionGrouper) GroupTransactions(transactions []models.TransactionRecord) []models.TransactionGroup {
	if len(transactions) == 0 {
		return []models.TransactionGroup{}
	}

	var groups []*models.TransactionGroup

	for _, txn := range transactions {
		normalized := g.NormalizeDescription(txn.Description)
		if normalized == "" {
			continue
		}

		matched := false
		for _, group := range groups {
			if group.CategoryID != txn.CategoryID || group.SubCategoryID != txn.SubCategoryID {
				continue
			}
			if g.descriptionsSimilar(normalized, group.CommonDescription) {
				group.Transactions = append(group.Transactions, txn)
				// Keep the shortest member as the common description so that
				// suffixed variants ("Municipal Tax - City Hall") collapse
				// onto the base obligation.
				if len(normalized) < len(group.CommonDescription) {
					group.CommonDescription = normalized
				}
				matched = true
				break
			}
		}

		if !matched {
			groups = append(groups, &models.TransactionGroup{
				CommonDescription: normalized,
				Transactions:      []models.TransactionRecord{txn},
				CategoryID:        txn.CategoryID,
				SubCategoryID:     txn.SubCategoryID,
			})
		}
	}

	result := make([]models.TransactionGroup, 0, len(groups))
	for _, group := range groups {
		if group.Size() < 2 {
			continue
		}
		computeGroupAmounts(group)
		result = append(result, *group)
	}
	return result
}

// NormalizeDescription lowercases, trims and collapses whitespace so that
// cosmetic variations of the same obligation compare equal
func (g *transactionGrouper) NormalizeDescription(description string) string {
	normalized := strings.ToLower(strings.TrimSpace(description))
	return whitespaceRegex.ReplaceAllString(normalized, " ")
}

// descriptionsSimilar applies the three similarity checks in order of cost:
// exact match, substring/prefix containment, then word overlap
func (g *transactionGrouper) descriptionsSimilar(a, b string) bool {
	if a == b {
		return true
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}
	return g.wordOverlap(a, b) >= g.wordOverlapThreshold
}

// wordOverlap returns the ratio of shared words to the smaller word set
func (g *transactionGrouper) wordOverlap(a, b string) float64 {
	setA := wordSet(a)
	setB := wordSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	shared := 0
	for word := range setA {
		if setB[word] {
			shared++
		}
	}

	smaller := len(setA)
	if len(setB) < smaller {
		smaller = len(setB)
	}

	return float64(shared) / float64(smaller)
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, word := range strings.Fields(s) {
		set[word] = true
	}
	return set
}

func computeGroupAmounts(group *models.TransactionGroup) {
	total := decimal.Zero
	min := group.Transactions[0].AbsAmount()
	max := min

	for _, txn := range group.Transactions {
		amount := txn.AbsAmount()
		total = total.Add(amount)
		if amount.LessThan(min) {
			min = amount
		}
		if amount.GreaterThan(max) {
			max = amount
		}
	}

	count := decimal.NewFromInt(int64(len(group.Transactions)))
	group.AverageAmount = total.Div(count).Round(2)
	group.MinAmount = min
	group.MaxAmount = max
}
