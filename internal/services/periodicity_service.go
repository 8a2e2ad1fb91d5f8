package services

import (
	"sort"
	"time"

	"smart-budget/internal/models"
)

const (
	biMonthlyStep = 2
	quarterlyStep = 3

	// Confidence is anchored at 0.5 and scaled by how many of the expected
	// occurrences were actually observed, capped below certainty.
	confidenceBase  = 0.5
	confidenceScale = 0.4
	confidenceCap   = 0.95
)

// periodicityClassifier implements PeriodicityClassifierInterface
type periodicityClassifier struct{}

// NewPeriodicityClassifier creates a new periodicity classifier
func NewPeriodicityClassifier() PeriodicityClassifierInterface {
	return &periodicityClassifier{}
}

// Classify runs the detection pipeline over a group's occurrences, first match
// wins: single-per-period guard, bi-monthly, quarterly, yearly. A nil result
// means the spend folds into the non-recurring path; Classify never fails.
func (c *periodicityClassifier) Classify(group *models.TransactionGroup, windowMonths int) *models.RecurrenceMatch {
	if group == nil || group.Size() < 2 {
		return nil
	}

	occurrences := make([]time.Time, 0, group.Size())
	for _, txn := range group.Transactions {
		occurrences = append(occurrences, txn.ProcessedAt)
	}
	sort.Slice(occurrences, func(i, j int) bool {
		return occurrences[i].Before(occurrences[j])
	})

	// Recurring obligations bill once per period. Two hits inside the same
	// calendar month mean this is ordinary repeated spending, not a schedule.
	seen := make(map[int]bool, len(occurrences))
	for _, occurrence := range occurrences {
		key := occurrence.Year()*100 + int(occurrence.Month())
		if seen[key] {
			return nil
		}
		seen[key] = true
	}

	months := make([]int, 0, len(occurrences))
	for _, occurrence := range occurrences {
		months = append(months, int(occurrence.Month()))
	}

	if match := c.CheckBiMonthlyPattern(months, windowMonths); match != nil {
		return match
	}
	if match := c.CheckQuarterlyPattern(months, windowMonths); match != nil {
		return match
	}
	return c.CheckYearlyPattern(occurrences)
}

// CheckBiMonthlyPattern matches occurrences spaced two months apart. Months
// must be in chronological occurrence order; year wrap is handled circularly.
// The stored schedule is the observed months only; future bi-monthly slots are
// resolved at lookup time by modular projection.
func (c *periodicityClassifier) CheckBiMonthlyPattern(months []int, windowMonths int) *models.RecurrenceMatch {
	return c.checkSteppedPattern(months, windowMonths, biMonthlyStep, models.RecurrenceBiMonthly, false)
}

// CheckQuarterlyPattern matches occurrences spaced three months apart. The
// stored schedule is extended through the end of the calendar year.
func (c *periodicityClassifier) CheckQuarterlyPattern(months []int, windowMonths int) *models.RecurrenceMatch {
	return c.checkSteppedPattern(months, windowMonths, quarterlyStep, models.RecurrenceQuarterly, true)
}

func (c *periodicityClassifier) checkSteppedPattern(months []int, windowMonths, step int, pattern string, projectForward bool) *models.RecurrenceMatch {
	if len(months) < 2 || windowMonths < step {
		return nil
	}

	gaps := circularGaps(months)
	if !validateSpacing(gaps, step) {
		return nil
	}

	scheduled := uniqueSortedMonths(months)
	if projectForward {
		scheduled = projectThroughYearEnd(scheduled, step)
	}

	return &models.RecurrenceMatch{
		RecurrencePattern: pattern,
		ScheduledMonths:   scheduled,
		Confidence:        occurrenceConfidence(len(months), windowMonths/step),
	}
}

// CheckYearlyPattern matches one occurrence per year, always the same calendar
// month, across at least two distinct years
func (c *periodicityClassifier) CheckYearlyPattern(occurrences []time.Time) *models.RecurrenceMatch {
	if len(occurrences) < 2 {
		return nil
	}

	month := int(occurrences[0].Month())
	years := make(map[int]bool, len(occurrences))
	for _, occurrence := range occurrences {
		if int(occurrence.Month()) != month {
			return nil
		}
		year := occurrence.Year()
		if years[year] {
			return nil
		}
		years[year] = true
	}

	if len(years) < 2 {
		return nil
	}

	firstYear := occurrences[0].Year()
	lastYear := occurrences[len(occurrences)-1].Year()
	expected := lastYear - firstYear + 1

	return &models.RecurrenceMatch{
		RecurrencePattern: models.RecurrenceYearly,
		ScheduledMonths:   models.IntSlice{month},
		Confidence:        occurrenceConfidence(len(occurrences), expected),
	}
}

// circularGaps returns the month distance between consecutive occurrences,
// wrapping across the year boundary. A repeat of the same month a year later
// counts as a full 12-month gap, not zero.
func circularGaps(months []int) []int {
	gaps := make([]int, 0, len(months)-1)
	for i := 1; i < len(months); i++ {
		gap := (months[i] - months[i-1] + 12) % 12
		if gap == 0 {
			gap = 12
		}
		gaps = append(gaps, gap)
	}
	return gaps
}

// validateSpacing requires every gap to resolve to the dominant step, allowing
// exactly one gap to deviate by a single month. Billing dates drifting across
// a month boundary once is tolerated; twice is not a schedule.
func validateSpacing(gaps []int, step int) bool {
	deviations := 0
	exactMatches := 0
	for _, gap := range gaps {
		switch {
		case gap == step:
			exactMatches++
		case gap == step-1 || gap == step+1:
			deviations++
			if deviations > 1 {
				return false
			}
		default:
			return false
		}
	}
	// A deviant gap needs an on-step gap to deviate from; a lone off-step
	// gap establishes no dominant step.
	return deviations == 0 || exactMatches >= 1
}

func uniqueSortedMonths(months []int) models.IntSlice {
	seen := make(map[int]bool, len(months))
	scheduled := make(models.IntSlice, 0, len(months))
	for _, month := range months {
		if !seen[month] {
			seen[month] = true
			scheduled = append(scheduled, month)
		}
	}
	sort.Ints(scheduled)
	return scheduled
}

// projectThroughYearEnd extends a sorted schedule forward by the step from the
// numerically largest month, stopping at month 12. Projection past the year
// boundary is handled at lookup time via modular matching.
func projectThroughYearEnd(scheduled models.IntSlice, step int) models.IntSlice {
	for next := scheduled[len(scheduled)-1] + step; next <= 12; next += step {
		scheduled = append(scheduled, next)
	}
	return scheduled
}

// occurrenceConfidence maps observed/expected occurrence coverage onto
// (0, 0.95]
func occurrenceConfidence(observed, expected int) float64 {
	if expected < 1 {
		expected = 1
	}
	ratio := float64(observed) / float64(expected)
	confidence := confidenceBase + confidenceScale*ratio
	if confidence > confidenceCap {
		confidence = confidenceCap
	}
	return confidence
}
