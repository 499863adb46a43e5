package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	CodeRequiredField   Code = "REQUIRED_FIELD"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidFormat   Code = "INVALID_FORMAT"
	CodeInvalidState    Code = "INVALID_STATE"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	CodeServiceTimeout     Code = "SERVICE_TIMEOUT"
	CodeServiceUnavailable Code = "SERVICE_UNAVAILABLE"
	CodeRateLimitExceeded  Code = "RATE_LIMIT_EXCEEDED"

	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Wallet session error codes
const (
	CodeProviderUnavailable  Code = "PROVIDER_UNAVAILABLE"
	CodeUserRejected         Code = "USER_REJECTED"
	CodeConnectionFailed     Code = "CONNECTION_FAILED"
	CodeAttemptsExhausted    Code = "ATTEMPTS_EXHAUSTED"
	CodeConnectionInProgress Code = "CONNECTION_IN_PROGRESS"
	CodeNoAccounts           Code = "NO_ACCOUNTS"
	CodeChainSwitchFailed    Code = "CHAIN_SWITCH_FAILED"
	CodeUnknownChain         Code = "UNKNOWN_CHAIN"

	// Bridge transport
	CodeBridgeClosed   Code = "BRIDGE_CLOSED"
	CodeBridgeRPCError Code = "BRIDGE_RPC_ERROR"
	CodeBridgeSendFail Code = "BRIDGE_SEND_FAILED"

	// Persistence
	CodeStorageFailure Code = "STORAGE_FAILURE"

	// Feedback flow
	CodeContentRejected Code = "CONTENT_REJECTED"
	CodeInvalidKind     Code = "INVALID_CONTRIBUTION_KIND"

	// Circuit breaker
	CodeCircuitOpen     Code = "CIRCUIT_OPEN"
	CodeCircuitHalfOpen Code = "CIRCUIT_HALF_OPEN"
)
