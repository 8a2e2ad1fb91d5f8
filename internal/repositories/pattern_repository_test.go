package repositories

import (
	"errors"
	"testing"
	"time"

	"smart-budget/internal/database"
	"smart-budget/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type PatternRepositoryTestSuite struct {
	suite.Suite
	db     *database.DB
	repo   PatternRepositoryInterface
	userID uuid.UUID
}

func TestPatternRepositorySuite(t *testing.T) {
	suite.Run(t, new(PatternRepositoryTestSuite))
}

func (s *PatternRepositoryTestSuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewPatternRepository(s.db.DB)
	s.userID = uuid.New()
}

func (s *PatternRepositoryTestSuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *PatternRepositoryTestSuite) makePattern(description string, months ...int) models.DetectedPattern {
	if len(months) == 0 {
		months = []int{1, 3, 5}
	}
	return models.DetectedPattern{
		UserID:                s.userID,
		PatternID:             models.ComputePatternID(description, "taxes", "city"),
		NormalizedDescription: description,
		CategoryID:            "taxes",
		SubCategoryID:         "city",
		RecurrencePattern:     models.RecurrenceBiMonthly,
		ScheduledMonths:       models.IntSlice(months),
		AverageAmount:         decimal.NewFromInt(450),
		MinAmount:             decimal.NewFromInt(440),
		MaxAmount:             decimal.NewFromInt(460),
		Confidence:            0.9,
		ApprovalStatus:        models.ApprovalStatusPending,
		DetectionData: models.DetectionData{
			Confidence:   0.9,
			LastDetected: time.Now(),
			SampleTransactions: []models.SampleTransaction{
				{Description: "Municipal Tax", Amount: decimal.NewFromInt(-450), ProcessedAt: time.Now()},
			},
		},
	}
}

func (s *PatternRepositoryTestSuite) TestSaveAndFind() {
	pattern := s.makePattern("municipal tax")
	s.Require().NoError(s.repo.Save(&pattern))
	s.NotEqual(uuid.Nil, pattern.ID)

	found, err := s.repo.FindByPatternID(s.userID, pattern.PatternID)
	s.Require().NoError(err)
	s.Equal(pattern.PatternID, found.PatternID)
	s.Equal("municipal tax", found.NormalizedDescription)
	s.Equal(models.IntSlice{1, 3, 5}, found.ScheduledMonths)
	s.Equal(models.ApprovalStatusPending, found.ApprovalStatus)
	s.True(found.AverageAmount.Equal(decimal.NewFromInt(450)))
	s.Len(found.DetectionData.SampleTransactions, 1)
}

func (s *PatternRepositoryTestSuite) TestFindByPatternID_NotFound() {
	_, err := s.repo.FindByPatternID(s.userID, models.ComputePatternID("unknown", "", ""))
	s.True(errors.Is(err, ErrPatternNotFound))
}

func (s *PatternRepositoryTestSuite) TestSave_UpsertPreservesDecision() {
	pattern := s.makePattern("municipal tax")
	s.Require().NoError(s.repo.Save(&pattern))
	s.Require().NoError(s.repo.UpdateApprovalStatus(s.userID, pattern.PatternID, models.ApprovalStatusApproved))

	redetected := s.makePattern("municipal tax")
	redetected.Confidence = 0.95
	redetected.AverageAmount = decimal.NewFromInt(475)
	s.Require().NoError(s.repo.Save(&redetected))

	// The caller's copy reflects the stored decision after the upsert.
	s.Equal(models.ApprovalStatusApproved, redetected.ApprovalStatus)
	s.Equal(pattern.ID, redetected.ID)

	found, err := s.repo.FindByPatternID(s.userID, pattern.PatternID)
	s.Require().NoError(err)
	s.Equal(models.ApprovalStatusApproved, found.ApprovalStatus)
	s.InDelta(0.95, found.Confidence, 1e-9)
	s.True(found.AverageAmount.Equal(decimal.NewFromInt(475)))

	all, err := s.repo.GetByUser(s.userID)
	s.Require().NoError(err)
	s.Len(all, 1)
}

func (s *PatternRepositoryTestSuite) TestGetByStatus() {
	pending := s.makePattern("municipal tax")
	approved := s.makePattern("water board")
	rejected := s.makePattern("road levy")
	s.Require().NoError(s.repo.Save(&pending))
	s.Require().NoError(s.repo.Save(&approved))
	s.Require().NoError(s.repo.Save(&rejected))
	s.Require().NoError(s.repo.UpdateApprovalStatus(s.userID, approved.PatternID, models.ApprovalStatusApproved))
	s.Require().NoError(s.repo.UpdateApprovalStatus(s.userID, rejected.PatternID, models.ApprovalStatusRejected))

	pendingSet, err := s.repo.GetPendingPatterns(s.userID)
	s.Require().NoError(err)
	s.Require().Len(pendingSet, 1)
	s.Equal(pending.PatternID, pendingSet[0].PatternID)

	activeSet, err := s.repo.GetActivePatterns(s.userID)
	s.Require().NoError(err)
	s.Require().Len(activeSet, 1)
	s.Equal(approved.PatternID, activeSet[0].PatternID)
}

func (s *PatternRepositoryTestSuite) TestGetPendingPatterns_UserIsolation() {
	pattern := s.makePattern("municipal tax")
	s.Require().NoError(s.repo.Save(&pattern))

	other, err := s.repo.GetPendingPatterns(uuid.New())
	s.Require().NoError(err)
	s.Empty(other)
}

func (s *PatternRepositoryTestSuite) TestGetPatternsForMonth() {
	pattern := s.makePattern("municipal tax", 1, 3, 5)
	s.Require().NoError(s.repo.Save(&pattern))
	s.Require().NoError(s.repo.UpdateApprovalStatus(s.userID, pattern.PatternID, models.ApprovalStatusApproved))

	// Scheduled month.
	forMarch, err := s.repo.GetPatternsForMonth(s.userID, 3)
	s.Require().NoError(err)
	s.Len(forMarch, 1)

	// Modular projection past the observed months.
	forJuly, err := s.repo.GetPatternsForMonth(s.userID, 7)
	s.Require().NoError(err)
	s.Len(forJuly, 1)

	// Off-cadence month.
	forFebruary, err := s.repo.GetPatternsForMonth(s.userID, 2)
	s.Require().NoError(err)
	s.Empty(forFebruary)
}

func (s *PatternRepositoryTestSuite) TestGetPatternsForMonth_ExcludesPending() {
	pattern := s.makePattern("municipal tax", 1, 3, 5)
	s.Require().NoError(s.repo.Save(&pattern))

	forMarch, err := s.repo.GetPatternsForMonth(s.userID, 3)
	s.Require().NoError(err)
	s.Empty(forMarch)
}

func (s *PatternRepositoryTestSuite) TestUpdateApprovalStatus() {
	pattern := s.makePattern("municipal tax")
	s.Require().NoError(s.repo.Save(&pattern))

	s.Require().NoError(s.repo.UpdateApprovalStatus(s.userID, pattern.PatternID, models.ApprovalStatusApproved))

	found, err := s.repo.FindByPatternID(s.userID, pattern.PatternID)
	s.Require().NoError(err)
	s.Equal(models.ApprovalStatusApproved, found.ApprovalStatus)
}

func (s *PatternRepositoryTestSuite) TestUpdateApprovalStatus_InvalidStatus() {
	err := s.repo.UpdateApprovalStatus(s.userID, "whatever", "undecided")
	s.True(errors.Is(err, models.ErrInvalidApprovalStatus))
}

func (s *PatternRepositoryTestSuite) TestUpdateApprovalStatus_NotFound() {
	err := s.repo.UpdateApprovalStatus(s.userID, models.ComputePatternID("unknown", "", ""), models.ApprovalStatusApproved)
	s.True(errors.Is(err, ErrPatternNotFound))
}

func (s *PatternRepositoryTestSuite) TestBulkUpdateApprovalStatus() {
	first := s.makePattern("municipal tax")
	second := s.makePattern("water board")
	s.Require().NoError(s.repo.Save(&first))
	s.Require().NoError(s.repo.Save(&second))

	updated, err := s.repo.BulkUpdateApprovalStatus(s.userID,
		[]string{first.PatternID, second.PatternID, "missing"}, models.ApprovalStatusRejected)
	s.Require().NoError(err)
	s.Equal(int64(2), updated)

	pending, err := s.repo.GetPendingPatterns(s.userID)
	s.Require().NoError(err)
	s.Empty(pending)
}

func (s *PatternRepositoryTestSuite) TestBulkUpdateApprovalStatus_EmptyIDs() {
	updated, err := s.repo.BulkUpdateApprovalStatus(s.userID, nil, models.ApprovalStatusRejected)
	s.Require().NoError(err)
	s.Equal(int64(0), updated)
}

func (s *PatternRepositoryTestSuite) TestRejectAllPending() {
	pending := s.makePattern("municipal tax")
	approved := s.makePattern("water board")
	s.Require().NoError(s.repo.Save(&pending))
	s.Require().NoError(s.repo.Save(&approved))
	s.Require().NoError(s.repo.UpdateApprovalStatus(s.userID, approved.PatternID, models.ApprovalStatusApproved))

	rejected, err := s.repo.RejectAllPending(s.userID)
	s.Require().NoError(err)
	s.Equal(int64(1), rejected)

	// Approved patterns are untouched.
	active, err := s.repo.GetActivePatterns(s.userID)
	s.Require().NoError(err)
	s.Len(active, 1)

	again, err := s.repo.RejectAllPending(s.userID)
	s.Require().NoError(err)
	s.Equal(int64(0), again)
}
