package services

import (
	"sync"
	"time"

	"smart-budget/internal/models"
	"smart-budget/internal/repositories"

	"github.com/google/uuid"
)

// stubTransactionStore serves a fixed transaction slice and records how often
// the date-range query ran.
type stubTransactionStore struct {
	transactions []models.TransactionRecord
	err          error
	rangeCalls   int
}

func (s *stubTransactionStore) Create(*models.TransactionRecord) error       { return nil }
func (s *stubTransactionStore) CreateBatch([]models.TransactionRecord) error { return nil }

func (s *stubTransactionStore) GetByUserAndDateRange(userID uuid.UUID, startDate, endDate time.Time) ([]models.TransactionRecord, error) {
	s.rangeCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.transactions, nil
}

func (s *stubTransactionStore) GetByUserAndCategory(userID uuid.UUID, categoryID string, startDate, endDate time.Time) ([]models.TransactionRecord, error) {
	return s.transactions, s.err
}

func (s *stubTransactionStore) CountByUser(uuid.UUID) (int64, error) {
	return int64(len(s.transactions)), s.err
}

// fakePatternRepo is an in-memory PatternRepositoryInterface mirroring the
// real repository's upsert semantics: saving an existing pattern id refreshes
// the detection fields but preserves the recorded approval decision.
type fakePatternRepo struct {
	patterns  map[string]*models.DetectedPattern
	order     []string
	saveCalls int
	err       error
}

func newFakePatternRepo() *fakePatternRepo {
	return &fakePatternRepo{patterns: make(map[string]*models.DetectedPattern)}
}

func repoKey(userID uuid.UUID, patternID string) string {
	return userID.String() + "|" + patternID
}

func (r *fakePatternRepo) seed(pattern models.DetectedPattern) {
	key := repoKey(pattern.UserID, pattern.PatternID)
	if _, ok := r.patterns[key]; !ok {
		r.order = append(r.order, key)
	}
	stored := pattern
	r.patterns[key] = &stored
}

func (r *fakePatternRepo) FindByPatternID(userID uuid.UUID, patternID string) (*models.DetectedPattern, error) {
	if r.err != nil {
		return nil, r.err
	}
	if p, ok := r.patterns[repoKey(userID, patternID)]; ok {
		found := *p
		return &found, nil
	}
	return nil, repositories.ErrPatternNotFound
}

func (r *fakePatternRepo) Save(pattern *models.DetectedPattern) error {
	r.saveCalls++
	if r.err != nil {
		return r.err
	}
	key := repoKey(pattern.UserID, pattern.PatternID)
	if existing, ok := r.patterns[key]; ok {
		pattern.ApprovalStatus = existing.ApprovalStatus
	} else {
		r.order = append(r.order, key)
	}
	stored := *pattern
	r.patterns[key] = &stored
	return nil
}

func (r *fakePatternRepo) GetByUser(userID uuid.UUID) ([]models.DetectedPattern, error) {
	return r.filter(userID, func(*models.DetectedPattern) bool { return true })
}

func (r *fakePatternRepo) GetPendingPatterns(userID uuid.UUID) ([]models.DetectedPattern, error) {
	return r.filter(userID, func(p *models.DetectedPattern) bool { return p.IsPending() })
}

func (r *fakePatternRepo) GetActivePatterns(userID uuid.UUID) ([]models.DetectedPattern, error) {
	return r.filter(userID, func(p *models.DetectedPattern) bool { return p.IsApproved() })
}

func (r *fakePatternRepo) GetPatternsForMonth(userID uuid.UUID, month int) ([]models.DetectedPattern, error) {
	return r.filter(userID, func(p *models.DetectedPattern) bool {
		return p.IsApproved() && p.OccursInMonth(month)
	})
}

func (r *fakePatternRepo) filter(userID uuid.UUID, keep func(*models.DetectedPattern) bool) ([]models.DetectedPattern, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := make([]models.DetectedPattern, 0)
	for _, key := range r.order {
		p := r.patterns[key]
		if p.UserID == userID && keep(p) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePatternRepo) UpdateApprovalStatus(userID uuid.UUID, patternID, status string) error {
	if r.err != nil {
		return r.err
	}
	p, ok := r.patterns[repoKey(userID, patternID)]
	if !ok {
		return repositories.ErrPatternNotFound
	}
	p.ApprovalStatus = status
	return nil
}

func (r *fakePatternRepo) BulkUpdateApprovalStatus(userID uuid.UUID, patternIDs []string, status string) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	var updated int64
	for _, patternID := range patternIDs {
		if p, ok := r.patterns[repoKey(userID, patternID)]; ok {
			p.ApprovalStatus = status
			updated++
		}
	}
	return updated, nil
}

func (r *fakePatternRepo) RejectAllPending(userID uuid.UUID) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	var rejected int64
	for _, key := range r.order {
		p := r.patterns[key]
		if p.UserID == userID && p.IsPending() {
			p.ApprovalStatus = models.ApprovalStatusRejected
			rejected++
		}
	}
	return rejected, nil
}

// recordingDetectionLogger counts structured log events per type.
type recordingDetectionLogger struct {
	started    int
	completed  int
	stored     int
	decisions  []string
	outcomes   []string
	calculated int
}

func (l *recordingDetectionLogger) LogDetectionStarted(uuid.UUID, int) { l.started++ }
func (l *recordingDetectionLogger) LogDetectionCompleted(_ uuid.UUID, _, _, _ int, _ int64) {
	l.completed++
}
func (l *recordingDetectionLogger) LogPatternStored(_ uuid.UUID, _, _ string, _ float64) { l.stored++ }
func (l *recordingDetectionLogger) LogApprovalDecision(_ uuid.UUID, _, decision string) {
	l.decisions = append(l.decisions, decision)
}
func (l *recordingDetectionLogger) LogWorkflowOutcome(_ uuid.UUID, step string, _ int) {
	l.outcomes = append(l.outcomes, step)
}
func (l *recordingDetectionLogger) LogBudgetCalculated(_ uuid.UUID, _, _ int, _ string, _ int64) {
	l.calculated++
}

// recordingMetrics captures metric emissions for assertions.
type recordingMetrics struct {
	mu              sync.Mutex
	detectionPasses int
	detected        []string
	decisions       map[string]int64
	outcomes        []string
	budgets         int
	pendingByUser   map[string]float64
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		decisions:     make(map[string]int64),
		pendingByUser: make(map[string]float64),
	}
}

func (m *recordingMetrics) RecordDetectionPass(int, time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.detectionPasses++
}

func (m *recordingMetrics) RecordPatternDetected(recurrencePattern string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.detected = append(m.detected, recurrencePattern)
}

func (m *recordingMetrics) RecordApprovalDecision(decision string, count int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decisions[decision] += count
}

func (m *recordingMetrics) RecordWorkflowOutcome(step string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, step)
}

func (m *recordingMetrics) RecordBudgetCalculation(int, time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.budgets++
}

func (m *recordingMetrics) SetPendingPatterns(userID string, count float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pendingByUser[userID] = count
}
