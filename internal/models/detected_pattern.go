package models

import (
	"crypto/sha256"
	"database/sql/driver"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	RecurrenceBiMonthly = "bi-monthly"
	RecurrenceQuarterly = "quarterly"
	RecurrenceYearly    = "yearly"

	ApprovalStatusPending  = "pending"
	ApprovalStatusApproved = "approved"
	ApprovalStatusRejected = "rejected"
)

var (
	ErrInvalidRecurrencePattern = errors.New("invalid recurrence pattern")
	ErrInvalidApprovalStatus    = errors.New("invalid approval status")
	ErrInvalidScheduledMonths   = errors.New("scheduled months must be unique values in range 1-12")
	ErrInvalidConfidence        = errors.New("confidence must be in range (0, 1]")
)

// DetectedPattern is a persisted recurring-transaction pattern produced by a
// detection pass. PatternID is deterministic over the pattern identity so that
// repeated passes upsert instead of duplicating; ID is a regular record id.
type DetectedPattern struct {
	ID                    uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID                uuid.UUID       `gorm:"type:uuid;not null;index:idx_patterns_user_pattern,unique" json:"user_id"`
	PatternID             string          `gorm:"type:varchar(64);not null;index:idx_patterns_user_pattern,unique" json:"pattern_id"`
	NormalizedDescription string          `gorm:"type:text;not null" json:"normalized_description"`
	CategoryID            string          `gorm:"type:varchar(100)" json:"category_id,omitempty"`
	SubCategoryID         string          `gorm:"type:varchar(100)" json:"sub_category_id,omitempty"`
	RecurrencePattern     string          `gorm:"type:varchar(20);not null" json:"recurrence_pattern"`
	ScheduledMonths       IntSlice        `gorm:"type:text;not null" json:"scheduled_months"`
	AverageAmount         decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"average_amount"`
	MinAmount             decimal.Decimal `gorm:"type:decimal(15,2)" json:"min_amount"`
	MaxAmount             decimal.Decimal `gorm:"type:decimal(15,2)" json:"max_amount"`
	Confidence            float64         `gorm:"not null" json:"confidence"`
	ApprovalStatus        string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"approval_status"`
	DetectionData         DetectionData   `gorm:"type:text" json:"detection_data"`
	CreatedAt             time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt             time.Time       `gorm:"not null" json:"updated_at"`
}

// DetectionData carries per-pass diagnostic information for a pattern
type DetectionData struct {
	Confidence         float64             `json:"confidence"`
	LastDetected       time.Time           `json:"last_detected"`
	SampleTransactions []SampleTransaction `json:"sample_transactions,omitempty"`
}

// SampleTransaction is a compact snapshot of an occurrence that contributed to
// a detection, kept for user review during approval
type SampleTransaction struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	ProcessedAt time.Time       `json:"processed_at"`
}

// ComputePatternID derives the deterministic pattern identifier from the
// normalized description and category ids. Never random: the same recurring
// obligation always hashes to the same key across detection passes.
func ComputePatternID(normalizedDescription, categoryID, subCategoryID string) string {
	identity := strings.Join([]string{normalizedDescription, categoryID, subCategoryID}, "|")
	sum := sha256.Sum256([]byte(identity))
	return hex.EncodeToString(sum[:])
}

// BeforeCreate hook for DetectedPattern
func (p *DetectedPattern) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}

	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now
	}

	if p.ApprovalStatus == "" {
		p.ApprovalStatus = ApprovalStatusPending
	}

	return p.Validate()
}

// BeforeUpdate hook for DetectedPattern
func (p *DetectedPattern) BeforeUpdate(tx *gorm.DB) error {
	p.UpdatedAt = time.Now()
	return nil
}

// Validate validates the detected pattern fields
func (p *DetectedPattern) Validate() error {
	if p.UserID == uuid.Nil {
		return ErrUserIDRequired
	}
	if p.PatternID == "" {
		return errors.New("pattern ID is required")
	}
	if !IsValidRecurrencePattern(p.RecurrencePattern) {
		return ErrInvalidRecurrencePattern
	}
	if !IsValidApprovalStatus(p.ApprovalStatus) {
		return ErrInvalidApprovalStatus
	}
	if len(p.ScheduledMonths) == 0 {
		return ErrInvalidScheduledMonths
	}
	seen := make(map[int]bool, len(p.ScheduledMonths))
	for _, month := range p.ScheduledMonths {
		if month < 1 || month > 12 || seen[month] {
			return ErrInvalidScheduledMonths
		}
		seen[month] = true
	}
	if p.Confidence <= 0 || p.Confidence > 1 {
		return ErrInvalidConfidence
	}
	return nil
}

// IsPending returns true while the pattern awaits a user decision
func (p *DetectedPattern) IsPending() bool {
	return p.ApprovalStatus == ApprovalStatusPending
}

// IsApproved returns true once the user has confirmed the pattern
func (p *DetectedPattern) IsApproved() bool {
	return p.ApprovalStatus == ApprovalStatusApproved
}

// OccursInMonth reports whether the pattern is scheduled for the given calendar
// month. Membership in ScheduledMonths matches directly; bi-monthly and
// quarterly patterns additionally project past the stored months
// by their step so a pattern seen in months 1,3,5 still fires in 7, 9 and 11.
func (p *DetectedPattern) OccursInMonth(month int) bool {
	if month < 1 || month > 12 {
		return false
	}

	for _, scheduled := range p.ScheduledMonths {
		if scheduled == month {
			return true
		}
	}

	step := p.recurrenceStep()
	if step == 0 || len(p.ScheduledMonths) == 0 {
		return false
	}

	anchor := p.ScheduledMonths[0]
	for _, scheduled := range p.ScheduledMonths {
		if scheduled < anchor {
			anchor = scheduled
		}
	}

	return ((month-anchor)%step+step)%step == 0
}

func (p *DetectedPattern) recurrenceStep() int {
	switch p.RecurrencePattern {
	case RecurrenceBiMonthly:
		return 2
	case RecurrenceQuarterly:
		return 3
	default:
		return 0
	}
}

// MatchesTransaction reports whether a transaction belongs to this pattern:
// same category and subcategory, and the normalized description resolves to the
// same identity or contains the pattern description (store suffixes vary)
func (p *DetectedPattern) MatchesTransaction(t *TransactionRecord, normalize func(string) string) bool {
	if t.CategoryID != p.CategoryID || t.SubCategoryID != p.SubCategoryID {
		return false
	}
	normalized := normalize(t.Description)
	if normalized == p.NormalizedDescription {
		return true
	}
	return strings.Contains(normalized, p.NormalizedDescription) ||
		strings.Contains(p.NormalizedDescription, normalized)
}

// TableName returns the table name for DetectedPattern
func (p *DetectedPattern) TableName() string {
	return "detected_patterns"
}

// IsValidRecurrencePattern checks if the recurrence pattern is valid
func IsValidRecurrencePattern(pattern string) bool {
	switch pattern {
	case RecurrenceBiMonthly, RecurrenceQuarterly, RecurrenceYearly:
		return true
	default:
		return false
	}
}

// IsValidApprovalStatus checks if the approval status is valid
func IsValidApprovalStatus(status string) bool {
	switch status {
	case ApprovalStatusPending, ApprovalStatusApproved, ApprovalStatusRejected:
		return true
	default:
		return false
	}
}

// IntSlice stores an ordered list of ints as JSON text, compatible with both
// PostgreSQL and the SQLite test database
type IntSlice []int

// Sorted returns an ascending copy of the slice
func (s IntSlice) Sorted() IntSlice {
	out := make(IntSlice, len(s))
	copy(out, s)
	sort.Ints(out)
	return out
}

// Value implements driver.Valuer interface
func (s IntSlice) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	bytes, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(bytes), nil
}

// Scan implements sql.Scanner interface
func (s *IntSlice) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into IntSlice", value)
	}

	if len(bytes) == 0 {
		*s = nil
		return nil
	}

	return json.Unmarshal(bytes, s)
}

// Value implements driver.Valuer interface
func (d DetectionData) Value() (driver.Value, error) {
	bytes, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(bytes), nil
}

// Scan implements sql.Scanner interface
func (d *DetectionData) Scan(value interface{}) error {
	if value == nil {
		*d = DetectionData{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into DetectionData", value)
	}

	if len(bytes) == 0 {
		*d = DetectionData{}
		return nil
	}

	return json.Unmarshal(bytes, d)
}
