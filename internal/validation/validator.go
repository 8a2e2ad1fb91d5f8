package validation

import (
	"reflect"
	"regexp"
	"strings"

	"smart-budget/internal/models"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the go-playground validator with custom rules and error formatting
type Validator struct {
	validate *validator.Validate
}

// GetValidate returns the underlying validator.Validate instance for use with Echo
func (v *Validator) GetValidate() *validator.Validate {
	return v.validate
}

// singleton instance of the validator
var instance *Validator

// GetValidator returns the singleton validator instance
func GetValidator() *Validator {
	if instance == nil {
		instance = NewValidator()
	}
	return instance
}

// NewValidator creates a new validator instance with custom rules and configuration
func NewValidator() *Validator {
	v := validator.New()

	_ = v.RegisterValidation("target_month", validateTargetMonth)
	_ = v.RegisterValidation("months_window", validateMonthsWindow)
	_ = v.RegisterValidation("pattern_decision", validatePatternDecision)
	_ = v.RegisterValidation("pattern_hash", validatePatternHash)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

// Custom validation functions

// validateTargetMonth validates that a month is a calendar month in [1,12]
func validateTargetMonth(fl validator.FieldLevel) bool {
	month := fl.Field().Int()
	return month >= 1 && month <= 12
}

// validateMonthsWindow validates the analysis window size in months
func validateMonthsWindow(fl validator.FieldLevel) bool {
	months := fl.Field().Int()
	return months >= 1 && months <= 36
}

// validatePatternDecision validates that a decision is a terminal approval status
func validatePatternDecision(fl validator.FieldLevel) bool {
	decision := strings.ToLower(fl.Field().String())
	return decision == models.ApprovalStatusApproved || decision == models.ApprovalStatusRejected
}

// validatePatternHash validates the deterministic pattern id format (hex sha256)
func validatePatternHash(fl validator.FieldLevel) bool {
	patternID := fl.Field().String()
	if patternID == "" {
		return false
	}

	matched, _ := regexp.MatchString(`^[0-9a-f]{64}$`, patternID)
	return matched
}
