package handlers

import (
	"errors"
	"net/http"

	"smart-budget/internal/dto"
	apierrors "smart-budget/internal/errors"
	"smart-budget/internal/services"

	"github.com/labstack/echo/v4"
)

type BudgetHandler struct {
	orchestrator services.BudgetOrchestratorInterface
	analyzer     services.SpendingAnalyzerInterface
}

func NewBudgetHandler(
	orchestrator services.BudgetOrchestratorInterface,
	analyzer services.SpendingAnalyzerInterface,
) *BudgetHandler {
	return &BudgetHandler{
		orchestrator: orchestrator,
		analyzer:     analyzer,
	}
}

// ExecuteWorkflow runs the smart-budget workflow for a user and target month
//
// Method: POST /api/v1/budget/workflow
//
// Request body:
//   - user_id: UUID (required)
//   - target_month: int 1-12 (required)
//   - months_to_analyze: int (optional, defaults to 12)
//
// The response step is one of pattern-approval-required,
// pattern-detection-complete or budget-calculated; only the last carries a
// budget.
func (h *BudgetHandler) ExecuteWorkflow(c echo.Context) error {
	var req dto.BudgetWorkflowRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, apierrors.ValidationGeneral, apierrors.WithDetails("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.orchestrator.ExecuteSmartBudgetWorkflow(req.UserID, req.TargetMonth, req.MonthsToAnalyze)
	if err != nil {
		return h.handleWorkflowError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: result,
	})
}

// CalculateWithRejection force-rejects all pending patterns and recalculates
//
// Method: POST /api/v1/budget/calculate-with-rejection
func (h *BudgetHandler) CalculateWithRejection(c echo.Context) error {
	var req dto.BudgetWorkflowRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, apierrors.ValidationGeneral, apierrors.WithDetails("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.orchestrator.CalculateWithRejection(req.UserID, req.TargetMonth, req.MonthsToAnalyze)
	if err != nil {
		return h.handleWorkflowError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: result,
	})
}

// GetAveragingStrategy returns the divisor policy verdict for one category
//
// Method: GET /api/v1/budget/averaging-strategy
//
// Query parameters:
//   - categoryMonths: repeated int month keys
//   - allDataMonths: repeated int month keys
//   - requestedMonths: int (optional)
func (h *BudgetHandler) GetAveragingStrategy(c echo.Context) error {
	categoryMonths, err := parseMonthList(c, "categoryMonths")
	if err != nil {
		return SendError(c, apierrors.ValidationGeneral, apierrors.WithDetails(err.Error()))
	}
	allDataMonths, err := parseMonthList(c, "allDataMonths")
	if err != nil {
		return SendError(c, apierrors.ValidationGeneral, apierrors.WithDetails(err.Error()))
	}
	requestedMonths := getIntParam(c, "requestedMonths", 0)

	strategy := h.analyzer.GetAveragingStrategy(categoryMonths, allDataMonths, requestedMonths)

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: strategy,
	})
}

func (h *BudgetHandler) handleWorkflowError(c echo.Context, err error) error {
	var pendingErr *services.PendingPatternsError
	if errors.As(err, &pendingErr) {
		return SendError(c, apierrors.BudgetPendingPatterns, apierrors.WithMessage(pendingErr.Error()))
	}
	return SendSystemError(c, err)
}
