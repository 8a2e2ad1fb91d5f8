package errors

// ErrorCode represents a standardized error code used throughout the API
type ErrorCode string

// Validation error codes (VALIDATION_*)
const (
	ValidationGeneral       ErrorCode = "VALIDATION_001"
	ValidationRequiredField ErrorCode = "VALIDATION_002"
	ValidationInvalidFormat ErrorCode = "VALIDATION_003"
	ValidationOutOfRange    ErrorCode = "VALIDATION_004"
	ValidationInvalidDate   ErrorCode = "VALIDATION_005"
	ValidationInvalidMonth  ErrorCode = "VALIDATION_006"
)

// Pattern error codes (PATTERN_*)
const (
	PatternNotFound        ErrorCode = "PATTERN_001"
	PatternInvalidID       ErrorCode = "PATTERN_002"
	PatternInvalidDecision ErrorCode = "PATTERN_003"
	PatternAlreadyDecided  ErrorCode = "PATTERN_004"
	PatternDetectionFailed ErrorCode = "PATTERN_005"
)

// Budget error codes (BUDGET_*)
const (
	BudgetPendingPatterns    ErrorCode = "BUDGET_001"
	BudgetInvalidTargetMonth ErrorCode = "BUDGET_002"
	BudgetCalculationFailed  ErrorCode = "BUDGET_003"
	BudgetNoTransactionData  ErrorCode = "BUDGET_004"
)

// Transaction error codes (TRANSACTION_*)
const (
	TransactionNotFound      ErrorCode = "TRANSACTION_001"
	TransactionInvalidAmount ErrorCode = "TRANSACTION_002"
	TransactionInvalidUser   ErrorCode = "TRANSACTION_003"
)

// System error codes (SYSTEM_*)
const (
	SystemInternalError      ErrorCode = "SYSTEM_001"
	SystemDatabaseError      ErrorCode = "SYSTEM_002"
	SystemServiceUnavailable ErrorCode = "SYSTEM_003"
	SystemConfigurationError ErrorCode = "SYSTEM_004"
	SystemUnexpectedError    ErrorCode = "SYSTEM_005"
	SystemRateLimitExceeded  ErrorCode = "SYSTEM_006"
)

// errorMessages maps error codes to their default human-readable messages
var errorMessages = map[ErrorCode]string{
	// Validation errors
	ValidationGeneral:       "Validation failed",
	ValidationRequiredField: "Required field is missing",
	ValidationInvalidFormat: "Invalid field format",
	ValidationOutOfRange:    "Field value is out of allowed range",
	ValidationInvalidDate:   "Invalid date format or range",
	ValidationInvalidMonth:  "Month must be between 1 and 12",

	// Pattern errors
	PatternNotFound:        "Detected pattern not found",
	PatternInvalidID:       "Invalid pattern ID format",
	PatternInvalidDecision: "Decision must be approved or rejected",
	PatternAlreadyDecided:  "Pattern has already been decided",
	PatternDetectionFailed: "Pattern detection failed",

	// Budget errors
	BudgetPendingPatterns:    "Budget cannot be calculated while patterns are pending approval",
	BudgetInvalidTargetMonth: "Target month must be between 1 and 12",
	BudgetCalculationFailed:  "Budget calculation failed",
	BudgetNoTransactionData:  "No transaction data available for the requested window",

	// Transaction errors
	TransactionNotFound:      "Transaction not found",
	TransactionInvalidAmount: "Invalid transaction amount",
	TransactionInvalidUser:   "Invalid user ID format",

	// System errors
	SystemInternalError:      "An unexpected error occurred. Please contact support with trace ID",
	SystemDatabaseError:      "Database connection error",
	SystemServiceUnavailable: "Service temporarily unavailable",
	SystemConfigurationError: "System configuration error",
	SystemUnexpectedError:    "An unexpected error occurred",
	SystemRateLimitExceeded:  "Rate limit exceeded. Please try again later",
}

// GetErrorMessage returns the default message for a given error code
// If the error code is not found, it returns a generic error message
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return "An error occurred"
}

// IsValidErrorCode checks if the provided error code is a valid registered code
func IsValidErrorCode(code ErrorCode) bool {
	_, ok := errorMessages[code]
	return ok
}
