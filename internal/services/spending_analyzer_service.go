package services

import (
	"fmt"
	"sort"

	"smart-budget/internal/models"
)

// Coverage thresholds, in percent of available months a category appears in.
const (
	fullCoverage       = 100
	mostlyRegularFloor = 80
	semiRegularFloor   = 50
)

type spendingAnalyzer struct{}

// NewSpendingAnalyzer creates the coverage-based spending pattern analyzer.
func NewSpendingAnalyzer() SpendingAnalyzerInterface {
	return &spendingAnalyzer{}
}

func (a *spendingAnalyzer) AnalyzeSpendingPattern(categoryMonths, allDataMonths []int) models.SpendingPatternAnalysis {
	present := dedupeSorted(categoryMonths)
	available := dedupeSorted(allDataMonths)

	coverage := 0
	if len(available) > 0 {
		coverage = int(float64(len(present))/float64(len(available))*100 + 0.5)
	}

	analysis := models.SpendingPatternAnalysis{
		CoveragePercentage: coverage,
		MonthsPresent:      present,
		AllDataMonths:      available,
	}

	switch {
	case coverage == fullCoverage:
		analysis.PatternType = models.SpendingPatternRegular
		analysis.Confidence = 0.95
	case coverage >= mostlyRegularFloor:
		analysis.PatternType = models.SpendingPatternMostlyRegular
		analysis.Confidence = 0.80
	case coverage >= semiRegularFloor:
		analysis.PatternType = models.SpendingPatternSemiRegular
		analysis.Confidence = 0.60
	default:
		analysis.PatternType = models.SpendingPatternIrregular
		analysis.Confidence = 0.40
	}

	return analysis
}

func (a *spendingAnalyzer) GetAveragingDenominator(categoryMonths []int) int {
	months := dedupeSorted(categoryMonths)
	if len(months) == 0 {
		return 1
	}
	return len(months)
}

// GetAveragingDenominatorEnhanced stretches the denominator to the requested
// analysis window when the category appears in every available month. Full
// coverage means the expense predates the data window, so dividing by the
// window gives the truer monthly figure.
func (a *spendingAnalyzer) GetAveragingDenominatorEnhanced(categoryMonths, allDataMonths []int, requestedMonths int) int {
	months := dedupeSorted(categoryMonths)
	if len(months) == 0 {
		return 1
	}
	if len(dedupeSorted(allDataMonths)) == 0 {
		return len(months)
	}

	analysis := a.AnalyzeSpendingPattern(categoryMonths, allDataMonths)
	if analysis.PatternType == models.SpendingPatternRegular && requestedMonths > 0 {
		return requestedMonths
	}
	return len(months)
}

func (a *spendingAnalyzer) GetAveragingStrategy(categoryMonths, allDataMonths []int, requestedMonths int) models.AveragingStrategy {
	analysis := a.AnalyzeSpendingPattern(categoryMonths, allDataMonths)
	denominator := a.GetAveragingDenominatorEnhanced(categoryMonths, allDataMonths, requestedMonths)

	strategy := models.AveragingStrategy{
		Denominator: denominator,
		Analysis:    analysis,
	}

	switch analysis.PatternType {
	case models.SpendingPatternRegular:
		strategy.Reasoning = []string{
			fmt.Sprintf("Regular expense appearing in all %d available months", len(analysis.AllDataMonths)),
		}
	case models.SpendingPatternMostlyRegular:
		strategy.Reasoning = []string{
			fmt.Sprintf("Mostly regular expense (%d%% coverage)", analysis.CoveragePercentage),
			"Missing months likely due to limited data history",
		}
	case models.SpendingPatternSemiRegular:
		strategy.Reasoning = []string{
			fmt.Sprintf("Semi-regular expense (%d%% coverage)", analysis.CoveragePercentage),
		}
	case models.SpendingPatternIrregular:
		strategy.Reasoning = []string{
			fmt.Sprintf("Irregular expense (%d%% coverage)", analysis.CoveragePercentage),
		}
	default:
		strategy.Reasoning = []string{
			fmt.Sprintf("Using %d months for averaging", denominator),
		}
	}

	return strategy
}

func dedupeSorted(months []int) []int {
	seen := make(map[int]bool, len(months))
	out := make([]int, 0, len(months))
	for _, m := range months {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	sort.Ints(out)
	return out
}
