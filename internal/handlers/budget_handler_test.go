package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"smart-budget/internal/dto"
	"smart-budget/internal/models"
	"smart-budget/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type stubOrchestrator struct {
	calculateFn func(userID uuid.UUID, targetMonth, monthsToAnalyze int) (*dto.MonthlyBudget, error)
	workflowFn  func(userID uuid.UUID, targetMonth, monthsToAnalyze int) (*dto.WorkflowResult, error)
	rejectionFn func(userID uuid.UUID, targetMonth, monthsToAnalyze int) (*dto.WorkflowResult, error)
}

func (s *stubOrchestrator) CalculateSmartBudget(userID uuid.UUID, targetMonth, monthsToAnalyze int) (*dto.MonthlyBudget, error) {
	return s.calculateFn(userID, targetMonth, monthsToAnalyze)
}

func (s *stubOrchestrator) ExecuteSmartBudgetWorkflow(userID uuid.UUID, targetMonth, monthsToAnalyze int) (*dto.WorkflowResult, error) {
	return s.workflowFn(userID, targetMonth, monthsToAnalyze)
}

func (s *stubOrchestrator) CalculateWithRejection(userID uuid.UUID, targetMonth, monthsToAnalyze int) (*dto.WorkflowResult, error) {
	return s.rejectionFn(userID, targetMonth, monthsToAnalyze)
}

type BudgetHandlerTestSuite struct {
	suite.Suite
	echo         *echo.Echo
	orchestrator *stubOrchestrator
	handler      *BudgetHandler
	userID       uuid.UUID
}

func TestBudgetHandlerSuite(t *testing.T) {
	suite.Run(t, new(BudgetHandlerTestSuite))
}

func (s *BudgetHandlerTestSuite) SetupTest() {
	s.echo = echo.New()
	s.echo.Validator = NewValidator()
	s.orchestrator = &stubOrchestrator{}
	s.handler = NewBudgetHandler(s.orchestrator, services.NewSpendingAnalyzer())
	s.userID = uuid.New()
}

func (s *BudgetHandlerTestSuite) request(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return s.echo.NewContext(req, rec), rec
}

func (s *BudgetHandlerTestSuite) TestExecuteWorkflow_BudgetCalculated() {
	s.orchestrator.workflowFn = func(userID uuid.UUID, targetMonth, monthsToAnalyze int) (*dto.WorkflowResult, error) {
		s.Equal(s.userID, userID)
		s.Equal(5, targetMonth)
		s.Equal(12, monthsToAnalyze)
		return &dto.WorkflowResult{
			Step:    models.WorkflowStepBudgetCalculated,
			Success: true,
			State:   models.WorkflowStateBudgetCalculated,
			Budget: &dto.MonthlyBudget{
				UserID:      userID,
				TargetMonth: targetMonth,
				Total:       decimal.NewFromInt(550),
			},
		}, nil
	}

	body := fmt.Sprintf(`{"user_id":%q,"target_month":5,"months_to_analyze":12}`, s.userID)
	c, rec := s.request(http.MethodPost, "/api/v1/budget/workflow", body)

	s.Require().NoError(s.handler.ExecuteWorkflow(c))
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"step":"budget-calculated"`)
	s.Contains(rec.Body.String(), `"total":"550"`)
}

func (s *BudgetHandlerTestSuite) TestExecuteWorkflow_TargetMonthValidation() {
	for _, month := range []int{0, 13} {
		body := fmt.Sprintf(`{"user_id":%q,"target_month":%d}`, s.userID, month)
		c, _ := s.request(http.MethodPost, "/api/v1/budget/workflow", body)

		err := s.handler.ExecuteWorkflow(c)
		s.Require().Error(err, "target month %d must be rejected", month)

		var validationErrs validator.ValidationErrors
		s.Require().ErrorAs(err, &validationErrs)
		if month != 0 {
			// Month zero trips required before the range rule.
			s.Equal("target_month", validationErrs[0].Tag())
		}
	}
}

func (s *BudgetHandlerTestSuite) TestExecuteWorkflow_PendingPatternsConflict() {
	s.orchestrator.workflowFn = func(uuid.UUID, int, int) (*dto.WorkflowResult, error) {
		return nil, &services.PendingPatternsError{PendingCount: 2}
	}

	body := fmt.Sprintf(`{"user_id":%q,"target_month":5}`, s.userID)
	c, rec := s.request(http.MethodPost, "/api/v1/budget/workflow", body)

	s.Require().NoError(s.handler.ExecuteWorkflow(c))
	s.Equal(http.StatusConflict, rec.Code)

	var response ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	s.Equal("BUDGET_001", response.Error.Code)
	s.Equal("Cannot calculate budget with 2 pending patterns", response.Error.Message)
}

func (s *BudgetHandlerTestSuite) TestCalculateWithRejection() {
	s.orchestrator.rejectionFn = func(userID uuid.UUID, targetMonth, monthsToAnalyze int) (*dto.WorkflowResult, error) {
		return &dto.WorkflowResult{
			Step:          models.WorkflowStepBudgetCalculated,
			Success:       true,
			RejectedCount: 3,
			Budget:        &dto.MonthlyBudget{UserID: userID, TargetMonth: targetMonth},
		}, nil
	}

	body := fmt.Sprintf(`{"user_id":%q,"target_month":5}`, s.userID)
	c, rec := s.request(http.MethodPost, "/api/v1/budget/calculate-with-rejection", body)

	s.Require().NoError(s.handler.CalculateWithRejection(c))
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"rejected_count":3`)
}

func (s *BudgetHandlerTestSuite) TestGetAveragingStrategy() {
	target := "/api/v1/budget/averaging-strategy" +
		"?categoryMonths=202501&categoryMonths=202502" +
		"&allDataMonths=202501&allDataMonths=202502&allDataMonths=202503&allDataMonths=202504" +
		"&requestedMonths=6"
	c, rec := s.request(http.MethodGet, target, "")

	s.Require().NoError(s.handler.GetAveragingStrategy(c))
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"denominator":2`)
	s.Contains(rec.Body.String(), "Semi-regular expense (50% coverage)")
}

func (s *BudgetHandlerTestSuite) TestGetAveragingStrategy_BadMonthValue() {
	c, rec := s.request(http.MethodGet, "/api/v1/budget/averaging-strategy?categoryMonths=abc", "")

	s.Require().NoError(s.handler.GetAveragingStrategy(c))
	s.Equal(http.StatusBadRequest, rec.Code)
}
