package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"

	"github.com/ardika/scanarb/business/dexquote/domain"
	"github.com/ardika/scanarb/internal/apperror"
	"github.com/ardika/scanarb/internal/httpclient"
	"github.com/ardika/scanarb/internal/httpstatus"
)

// classifyTransport turns a failed send (no usable response) into a
// QuoteError. Timeouts and context expiry classify as timeout with
// status 0; everything else is a status-0 transport failure.
func classifyTransport(err error, dexKey string) *domain.QuoteError {
	reason := domain.ReasonHTTPStatus
	message := "no response from aggregator"

	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		reason = domain.ReasonTimeout
		message = "request timed out"
	case errors.As(err, &netErr) && netErr.Timeout():
		reason = domain.ReasonTimeout
		message = "request timed out"
	}

	return &domain.QuoteError{
		Reason:     reason,
		StatusCode: 0,
		Message:    message,
		DexKey:     dexKey,
		Cause:      err,
	}
}

// classifyStatus turns a non-2xx response into a QuoteError using the
// status describer for the human message.
func classifyStatus(status int, dexKey string) *domain.QuoteError {
	return &domain.QuoteError{
		Reason:     domain.ReasonHTTPStatus,
		StatusCode: status,
		Message:    httpstatus.Describe(status),
		DexKey:     dexKey,
	}
}

// upstreamProbe is the superset of error envelopes observed from
// proxies that answer 200 with an error payload inside.
type upstreamProbe struct {
	StatusCode *int            `json:"statusCode"`
	Status     *int            `json:"status"`
	Code       json.RawMessage `json:"code"`
	Error      json.RawMessage `json:"error"`
	Message    string          `json:"message"`
	Msg        string          `json:"msg"`
}

// sniffUpstreamStatus probes a 200 body for an embedded upstream error
// code >= 400. This is a heuristic over undocumented proxy behavior,
// not a contract: a body without a recognizable envelope sniffs clean.
func sniffUpstreamStatus(body []byte, dexKey string) *domain.QuoteError {
	var probe upstreamProbe
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil
	}

	status := 0
	switch {
	case probe.StatusCode != nil && *probe.StatusCode >= 400:
		status = *probe.StatusCode
	case probe.Status != nil && *probe.Status >= 400:
		status = *probe.Status
	case len(probe.Code) > 0:
		// code may arrive as a number or a numeric string
		var n int
		if err := json.Unmarshal(probe.Code, &n); err != nil {
			var s string
			if err := json.Unmarshal(probe.Code, &s); err == nil {
				fmt.Sscanf(s, "%d", &n)
			}
		}
		if n >= 400 {
			status = n
		}
	}
	if status == 0 {
		return nil
	}

	message := probe.Message
	if message == "" {
		message = probe.Msg
	}
	if message == "" {
		message = httpstatus.Describe(status)
	}
	return &domain.QuoteError{
		Reason:     domain.ReasonUpstream,
		StatusCode: status,
		Message:    message,
		DexKey:     dexKey,
	}
}

// classifyParse turns a ParseResponse failure into a QuoteError,
// distinguishing malformed JSON from schema mismatches.
func classifyParse(err error, dexKey string) *domain.QuoteError {
	reason := domain.ReasonSchema
	if apperror.GetCode(err) == apperror.CodeQuoteParseError {
		reason = domain.ReasonParse
	}
	return &domain.QuoteError{
		Reason:  reason,
		Message: err.Error(),
		DexKey:  dexKey,
		Cause:   err,
	}
}

// classifyResponse inspects a received response end to end: HTTP
// status first, then the embedded-error sniff. nil means the body is
// worth parsing.
func classifyResponse(resp *httpclient.Response, dexKey string) *domain.QuoteError {
	if resp.IsError() {
		return classifyStatus(resp.StatusCode, dexKey)
	}
	return sniffUpstreamStatus(resp.Body(), dexKey)
}
