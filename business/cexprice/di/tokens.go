// Package di contains dependency injection tokens for the CEX pricing context.
package di

import (
	"github.com/ardika/scanarb/business/cexprice/app"
	"github.com/ardika/scanarb/business/cexprice/infra/stream"
	"github.com/ardika/scanarb/internal/di"
)

// Public service tokens - exposed to other modules
var (
	PriceService = di.NewToken[*app.PriceService]("cexprice.PriceService")
	RetryFetcher = di.NewToken[*app.RetryFetcher]("cexprice.RetryFetcher")
	TickerFeed   = di.NewToken[*stream.Feed]("cexprice.TickerFeed")
)

// Private dependency tokens - internal to the cexprice module
var (
	BookProvider = di.NewToken[app.BookProvider]("cexprice:bookProvider")
	FeeSource    = di.NewToken[app.FeeSource]("cexprice:feeSource")
)

// Helper functions for type-safe access
func GetPriceService(c di.ServiceRegistry) *app.PriceService {
	return di.GetToken(c, PriceService)
}

func GetRetryFetcher(c di.ServiceRegistry) *app.RetryFetcher {
	return di.GetToken(c, RetryFetcher)
}

func GetBookProvider(c di.ServiceRegistry) app.BookProvider {
	return di.GetToken(c, BookProvider)
}

func GetTickerFeed(c di.ServiceRegistry) *stream.Feed {
	return di.GetToken(c, TickerFeed)
}
