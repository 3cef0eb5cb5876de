// Package httpstatus maps HTTP status codes to the human-readable
// descriptions shown in quote errors.
package httpstatus

import "fmt"

var descriptions = map[int]string{
	300: "Multiple choices — ambiguous redirect from server",
	301: "Moved permanently — endpoint has been relocated",
	302: "Temporary redirect from server",
	304: "Not modified — cached response still valid",

	400: "Bad request — malformed quote parameters",
	401: "Unauthorized — missing or invalid API credentials",
	403: "Forbidden — access to this endpoint is blocked",
	404: "Not found — endpoint or pair does not exist",
	405: "Method not allowed",
	408: "Request timeout on the server side",
	409: "Conflict — request clashed with server state",
	410: "Gone — endpoint has been retired",
	418: "Request refused by server (teapot)",
	422: "Unprocessable entity — request understood but rejected",
	429: "Rate limit exceeded — too many requests",
	451: "Unavailable for legal reasons",

	500: "Internal server error at the provider",
	501: "Not implemented by the provider",
	502: "Bad gateway — upstream returned an invalid response",
	503: "Service unavailable — provider down or in maintenance",
	504: "Gateway timeout — upstream did not respond in time",
	507: "Insufficient storage at the provider",
	508: "Loop detected at the provider",
}

// Describe returns a human-readable description for an HTTP status code.
// Unmapped codes fall back to a generic server-error message.
func Describe(code int) string {
	if msg, ok := descriptions[code]; ok {
		return msg
	}
	return fmt.Sprintf("HTTP %d — server-side error", code)
}

// IsRateLimited reports whether the status indicates throttling.
func IsRateLimited(code int) bool {
	return code == 429
}

// IsServerError reports whether the status is in the 5xx range.
func IsServerError(code int) bool {
	return code >= 500 && code <= 599
}
