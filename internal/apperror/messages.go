package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	// General validation
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidFormat:   "Invalid data format",
	CodeInvalidState:    "Invalid state for this operation",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	// Configuration
	CodeConfigurationError: "Configuration error",

	// External service errors
	CodeExternalServiceError: "External service error",
	CodeServiceTimeout:       "Service request timeout",
	CodeServiceUnavailable:   "Service temporarily unavailable",
	CodeRateLimitExceeded:    "Rate limit exceeded",

	// System errors
	CodeInternalError: "Internal server error",
	CodeUnknownError:  "An unknown error occurred",

	// CEX orderbook errors
	CodeExchangeAPIError:     "Exchange API error",
	CodeExchangeRateLimited:  "Exchange rate limit exceeded",
	CodeExchangeNotFound:     "Exchange not configured",
	CodeOrderbookFetchFailed: "Failed to fetch orderbook",
	CodeInvalidOrderbook:     "Invalid orderbook data",
	CodeInvalidPrice:         "Resolved price is zero or negative",
	CodeInvalidFee:           "Computed withdrawal fee is invalid",
	CodeMissingFXRate:        "FX conversion rate unavailable",

	// DEX aggregator errors
	CodeAggregatorNotFound:    "Aggregator not supported",
	CodeAggregatorAPIError:    "Aggregator API error",
	CodeQuoteTimeout:          "Quote request timed out",
	CodeQuoteParseError:       "Failed to parse quote response",
	CodeQuoteSchemaInvalid:    "Quote response missing required fields",
	CodeQuoteRejected:         "Quote rejected by provider",
	CodeFallbackFailed:        "Fallback provider failed",
	CodeSigningKeyUnavailable: "No signing key available",

	// Spread/profit errors
	CodeSpreadCalculationError: "Spread calculation error",
	CodeInsufficientLiquidity:  "Insufficient liquidity for trade size",

	// Gas estimation errors
	CodeGasEstimationFailed: "Gas estimation failed",
	CodeRPCError:            "RPC call failed",

	// WebSocket errors
	CodeWebSocketConnectionError: "WebSocket connection error",
	CodeWebSocketClosed:          "WebSocket connection closed",

	// Cache errors
	CodeCacheMiss:    "Cache miss",
	CodeCacheExpired: "Cache entry expired",

	// Circuit breaker errors
	CodeCircuitOpen: "Circuit breaker is open",
}
