package app

import (
	"context"

	"github.com/shopspring/decimal"

	cexapp "github.com/ardika/scanarb/business/cexprice/app"
	cexdomain "github.com/ardika/scanarb/business/cexprice/domain"
	dexdomain "github.com/ardika/scanarb/business/dexquote/domain"
	"github.com/ardika/scanarb/business/scanner/domain"
)

// CEXFetcher fetches orderbook quotes with retry semantics; a failed
// fetch settles into the Result rather than erroring.
type CEXFetcher interface {
	FetchCEXWithRetry(ctx context.Context, req cexdomain.PairRequest) cexapp.Result
}

// DEXQuoter resolves aggregator quotes with fallback escalation.
type DEXQuoter interface {
	GetPriceDEX(ctx context.Context, p dexdomain.QuoteParams) (*dexdomain.DexQuote, error)
}

// TickerSource is the warm top-of-book feed used to skip pairs whose
// market has not moved since the last cycle.
type TickerSource interface {
	Top(symbol string) (bid, ask decimal.Decimal, ok bool)
}

// Reporter receives every computed opportunity; the implementation
// decides what to surface.
type Reporter interface {
	Start(ctx context.Context) error
	Report(opp *domain.Opportunity)
	Stop() error
}
