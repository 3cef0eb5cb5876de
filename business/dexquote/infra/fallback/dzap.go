package fallback

import (
	"strings"

	"github.com/ardika/scanarb/business/dexquote/domain"
	"github.com/ardika/scanarb/business/dexquote/infra/aggregators"
)

// dzapSlugs maps canonical aggregator keys to LiFi's internal exchange
// slug naming for the allow filter.
var dzapSlugs = map[string]string{
	"1inch":    "1inch",
	"kyber":    "kyberswap",
	"0x":       "0x",
	"odos":     "odos",
	"okx":      "okx",
	"paraswap": "paraswap",
}

// DZAP quotes the same LiFi backend but pins the route to the
// originally requested aggregator via an exchanges.allow filter, so the
// result is still that aggregator's price, just fetched sideways.
type DZAP struct {
	LiFi *LiFi
}

// Name returns the plan key this provider answers to.
func (d *DZAP) Name() string { return "dzap" }

// BuildRequest assembles the filtered routes POST.
func (d *DZAP) BuildRequest(p domain.QuoteParams) (aggregators.RequestSpec, error) {
	slug := dzapSlugs[strings.ToLower(p.Aggregator)]
	if slug == "" {
		slug = strings.ToLower(p.Aggregator)
	}
	return d.LiFi.buildRequest(p, []string{slug}), nil
}

// ParseResponse keeps the requested aggregator's display title; no
// route attribution since the filter already pinned the venue.
func (d *DZAP) ParseResponse(body []byte, p domain.QuoteParams) (*domain.DexQuote, error) {
	return d.LiFi.parse(body, p, strings.ToUpper(p.Aggregator), false)
}
