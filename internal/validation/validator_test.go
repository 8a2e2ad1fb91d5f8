package validation

import (
	"strings"
	"testing"

	"smart-budget/internal/models"

	"github.com/stretchr/testify/assert"
)

type budgetRequest struct {
	TargetMonth int    `json:"target_month" validate:"target_month"`
	Window      int    `json:"months_window" validate:"months_window"`
	Decision    string `json:"decision" validate:"pattern_decision"`
	PatternID   string `json:"pattern_id" validate:"pattern_hash"`
}

func validRequest() budgetRequest {
	return budgetRequest{
		TargetMonth: 5,
		Window:      12,
		Decision:    models.ApprovalStatusApproved,
		PatternID:   models.ComputePatternID("municipal tax", "taxes", "city"),
	}
}

func TestCustomRules(t *testing.T) {
	v := GetValidator().GetValidate()

	assert.NoError(t, v.Struct(validRequest()))

	testCases := []struct {
		name      string
		mutate    func(*budgetRequest)
		wantField string
	}{
		{"month zero", func(r *budgetRequest) { r.TargetMonth = 0 }, "target_month"},
		{"month thirteen", func(r *budgetRequest) { r.TargetMonth = 13 }, "target_month"},
		{"window zero", func(r *budgetRequest) { r.Window = 0 }, "months_window"},
		{"window too wide", func(r *budgetRequest) { r.Window = 37 }, "months_window"},
		{"pending is not a decision", func(r *budgetRequest) { r.Decision = models.ApprovalStatusPending }, "decision"},
		{"unknown decision", func(r *budgetRequest) { r.Decision = "maybe" }, "decision"},
		{"short pattern id", func(r *budgetRequest) { r.PatternID = "abc123" }, "pattern_id"},
		{"uppercase pattern id", func(r *budgetRequest) { r.PatternID = strings.ToUpper(validRequest().PatternID) }, "pattern_id"},
		{"empty pattern id", func(r *budgetRequest) { r.PatternID = "" }, "pattern_id"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)
			err := v.Struct(req)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantField, "error should name the json field")
		})
	}
}

func TestDecisionIsCaseInsensitive(t *testing.T) {
	v := GetValidator().GetValidate()

	req := validRequest()
	req.Decision = "Approved"
	assert.NoError(t, v.Struct(req))
}

func TestGetValidatorIsSingleton(t *testing.T) {
	assert.Same(t, GetValidator(), GetValidator())
}
