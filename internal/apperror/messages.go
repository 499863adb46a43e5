package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidFormat:   "Invalid data format",
	CodeInvalidState:    "Invalid state for this operation",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	CodeConfigurationError: "Configuration error",

	CodeServiceTimeout:     "Service request timeout",
	CodeServiceUnavailable: "Service temporarily unavailable",
	CodeRateLimitExceeded:  "Rate limit exceeded",

	CodeInternalError: "Internal server error",
	CodeUnknownError:  "An unknown error occurred",

	CodeProviderUnavailable:  "No wallet provider available",
	CodeUserRejected:         "Wallet connection was declined",
	CodeConnectionFailed:     "Wallet connection failed",
	CodeAttemptsExhausted:    "Wallet connection attempts exhausted",
	CodeConnectionInProgress: "A wallet connection is already in progress",
	CodeNoAccounts:           "Wallet returned no accounts",
	CodeChainSwitchFailed:    "Failed to switch wallet network",
	CodeUnknownChain:         "Wallet does not know the requested network",

	CodeBridgeClosed:   "Wallet bridge connection closed",
	CodeBridgeRPCError: "Wallet bridge call failed",
	CodeBridgeSendFail: "Failed to send to wallet bridge",

	CodeStorageFailure: "Local storage failure",

	CodeContentRejected: "Submission rejected by moderation",
	CodeInvalidKind:     "Unknown contribution kind",

	CodeCircuitOpen:     "Circuit breaker is open",
	CodeCircuitHalfOpen: "Circuit breaker is half-open",
}
