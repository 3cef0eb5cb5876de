package domain

import "fmt"

// Reason classifies why a quote attempt failed. The set is closed:
// every QuoteError carries exactly one of these.
type Reason string

const (
	// ReasonTimeout covers transport timeouts and aborted requests.
	ReasonTimeout Reason = "timeout"
	// ReasonHTTPStatus covers non-2xx responses from the aggregator.
	ReasonHTTPStatus Reason = "http_status"
	// ReasonParse covers bodies that are not valid JSON.
	ReasonParse Reason = "parse"
	// ReasonSchema covers valid JSON missing required fields.
	ReasonSchema Reason = "schema"
	// ReasonUpstream covers error payloads embedded in a 200 response
	// by a proxy or the aggregator's own gateway.
	ReasonUpstream Reason = "upstream"
)

// QuoteError is the structured failure of one quote attempt.
type QuoteError struct {
	Reason     Reason
	StatusCode int
	Message    string
	DexKey     string
	// DexURL is a deep link into the aggregator's own UI for manual
	// inspection. Only set when a link builder knows the DEX.
	DexURL string
	Cause  error
}

// Error implements the error interface.
func (e *QuoteError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s quote failed (%s, HTTP %d): %s", e.DexKey, e.Reason, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s quote failed (%s): %s", e.DexKey, e.Reason, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *QuoteError) Unwrap() error { return e.Cause }

// IsRateLimited reports whether the attempt was rejected with HTTP 429.
func (e *QuoteError) IsRateLimited() bool { return e.StatusCode == 429 }

// NoResponse reports whether no HTTP response was received at all.
func (e *QuoteError) NoResponse() bool {
	return e.StatusCode == 0 && (e.Reason == ReasonTimeout || e.Reason == ReasonHTTPStatus)
}
