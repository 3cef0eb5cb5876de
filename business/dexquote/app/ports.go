// Package app orchestrates DEX quote resolution across aggregator
// strategies and fallback providers.
package app

import (
	"github.com/ardika/scanarb/business/dexquote/domain"
	"github.com/ardika/scanarb/business/dexquote/infra/aggregators"
)

// Attempter is one quotable path: a primary aggregator strategy or a
// fallback provider. Both build a request spec and parse the body.
type Attempter interface {
	BuildRequest(p domain.QuoteParams) (aggregators.RequestSpec, error)
	ParseResponse(body []byte, p domain.QuoteParams) (*domain.DexQuote, error)
}

// Plan names the primary strategy and the optional alternative for one
// (aggregator, direction) combination.
type Plan struct {
	Primary     string
	Alternative string
}

// PlanResolver resolves the fetch plan for an aggregator and direction.
// When nothing is configured the primary defaults to the aggregator
// itself with no alternative.
type PlanResolver interface {
	Resolve(aggregator string, dir domain.Direction) Plan
}

// ProxyPolicy decides whether requests for an aggregator go through
// the configured proxy prefix.
type ProxyPolicy interface {
	ProxyPrefix() string
	WantsProxy(aggregator string) bool
}

// LinkBuilder produces a deep link into a DEX's own UI, used in error
// payloads for manual inspection. Empty string when the DEX is unknown.
type LinkBuilder interface {
	DeepLink(dexKey string, p domain.QuoteParams) string
}
