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

	// Configuration
	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	// External service errors
	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"
	CodeServiceTimeout       Code = "SERVICE_TIMEOUT"
	CodeServiceUnavailable   Code = "SERVICE_UNAVAILABLE"
	CodeRateLimitExceeded    Code = "RATE_LIMIT_EXCEEDED"

	// System errors
	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Scanner-specific error codes
const (
	// CEX orderbook errors
	CodeExchangeAPIError     Code = "EXCHANGE_API_ERROR"
	CodeExchangeRateLimited  Code = "EXCHANGE_RATE_LIMITED"
	CodeExchangeNotFound     Code = "EXCHANGE_NOT_FOUND"
	CodeOrderbookFetchFailed Code = "ORDERBOOK_FETCH_FAILED"
	CodeInvalidOrderbook     Code = "INVALID_ORDERBOOK"
	CodeInvalidPrice         Code = "INVALID_PRICE"
	CodeInvalidFee           Code = "INVALID_FEE"
	CodeMissingFXRate        Code = "MISSING_FX_RATE"

	// DEX aggregator errors
	CodeAggregatorNotFound    Code = "AGGREGATOR_NOT_FOUND"
	CodeAggregatorAPIError    Code = "AGGREGATOR_API_ERROR"
	CodeQuoteTimeout          Code = "QUOTE_TIMEOUT"
	CodeQuoteParseError       Code = "QUOTE_PARSE_ERROR"
	CodeQuoteSchemaInvalid    Code = "QUOTE_SCHEMA_INVALID"
	CodeQuoteRejected         Code = "QUOTE_REJECTED"
	CodeFallbackFailed        Code = "FALLBACK_FAILED"
	CodeSigningKeyUnavailable Code = "SIGNING_KEY_UNAVAILABLE"

	// Spread/profit errors
	CodeSpreadCalculationError Code = "SPREAD_CALCULATION_ERROR"
	CodeInsufficientLiquidity  Code = "INSUFFICIENT_LIQUIDITY"

	// Gas estimation errors
	CodeGasEstimationFailed Code = "GAS_ESTIMATION_FAILED"
	CodeRPCError            Code = "RPC_ERROR"

	// WebSocket errors
	CodeWebSocketConnectionError Code = "WEBSOCKET_CONNECTION_ERROR"
	CodeWebSocketClosed          Code = "WEBSOCKET_CLOSED"

	// Cache errors
	CodeCacheMiss    Code = "CACHE_MISS"
	CodeCacheExpired Code = "CACHE_EXPIRED"

	// Circuit breaker errors
	CodeCircuitOpen Code = "CIRCUIT_OPEN"
)
