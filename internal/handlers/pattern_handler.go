package handlers

import (
	"errors"
	"net/http"

	"smart-budget/internal/dto"
	apierrors "smart-budget/internal/errors"
	"smart-budget/internal/models"
	"smart-budget/internal/repositories"
	"smart-budget/internal/services"

	"github.com/labstack/echo/v4"
)

type PatternHandler struct {
	detectionService services.PatternDetectionServiceInterface
	approvalService  services.PatternApprovalServiceInterface
}

func NewPatternHandler(
	detectionService services.PatternDetectionServiceInterface,
	approvalService services.PatternApprovalServiceInterface,
) *PatternHandler {
	return &PatternHandler{
		detectionService: detectionService,
		approvalService:  approvalService,
	}
}

// DetectPatterns runs a detection pass over the user's transaction history
//
// Method: POST /api/v1/patterns/detect
//
// Request body:
//   - user_id: UUID (required)
//   - months_to_analyze: int (optional, defaults to 12)
//
// Success Response: 200 OK with {success, patterns, total_detected, requires_user_approval}
func (h *PatternHandler) DetectPatterns(c echo.Context) error {
	var req dto.DetectPatternsRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, apierrors.ValidationGeneral, apierrors.WithDetails("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.detectionService.DetectPatterns(req.UserID, req.MonthsToAnalyze)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: result,
	})
}

// GetPendingPatterns lists patterns awaiting a user decision
//
// Method: GET /api/v1/patterns/pending
//
// Query parameters:
//   - userId: UUID (required)
func (h *PatternHandler) GetPendingPatterns(c echo.Context) error {
	userID, err := parseUserIDParam(c, "userId")
	if err != nil {
		return SendError(c, apierrors.ValidationGeneral, apierrors.WithDetails(err.Error()))
	}

	result, err := h.detectionService.CheckPendingPatterns(userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: result,
	})
}

// ApprovePattern records an approval decision for one pattern
//
// Method: POST /api/v1/patterns/:patternId/approve
func (h *PatternHandler) ApprovePattern(c echo.Context) error {
	return h.decide(c, models.ApprovalStatusApproved)
}

// RejectPattern records a rejection decision for one pattern
//
// Method: POST /api/v1/patterns/:patternId/reject
func (h *PatternHandler) RejectPattern(c echo.Context) error {
	return h.decide(c, models.ApprovalStatusRejected)
}

func (h *PatternHandler) decide(c echo.Context, decision string) error {
	patternID := c.Param("patternId")

	var req dto.PatternDecisionRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, apierrors.ValidationGeneral, apierrors.WithDetails("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var err error
	if decision == models.ApprovalStatusApproved {
		err = h.approvalService.ApprovePattern(req.UserID, patternID)
	} else {
		err = h.approvalService.RejectPattern(req.UserID, patternID)
	}
	if err != nil {
		if errors.Is(err, repositories.ErrPatternNotFound) {
			return SendError(c, apierrors.PatternNotFound)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: dto.PatternDecisionResult{
			Updated: 1,
			Status:  decision,
		},
	})
}

// BulkDecide applies one decision across multiple patterns
//
// Method: POST /api/v1/patterns/decisions
//
// Request body:
//   - user_id: UUID (required)
//   - pattern_ids: []string (required, hex pattern ids)
//   - decision: approved | rejected
func (h *PatternHandler) BulkDecide(c echo.Context) error {
	var req dto.BulkPatternDecisionRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, apierrors.ValidationGeneral, apierrors.WithDetails("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	updated, err := h.approvalService.BulkDecide(req.UserID, req.PatternIDs, req.Decision)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: dto.PatternDecisionResult{
			Updated: updated,
			Status:  req.Decision,
		},
	})
}
