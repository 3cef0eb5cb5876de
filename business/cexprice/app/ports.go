// Package app contains the application services of the CEX pricing context.
package app

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ardika/scanarb/business/cexprice/domain"
	"github.com/ardika/scanarb/internal/config"
)

// BookProvider fetches raw orderbook payloads per exchange.
type BookProvider interface {
	Endpoint(exchange string) (config.ExchangeConfig, error)
	FetchRaw(ctx context.Context, exchange, base, quote string) ([]byte, error)
}

// NormalizerFactory resolves the parser for a configured kind.
type NormalizerFactory func(kind string) (Normalizer, error)

// Normalizer turns a raw payload into a normalized book.
type Normalizer interface {
	Normalize(ctx context.Context, raw []byte, depth int) (domain.NormalizedOrderbook, error)
}

// FeeSource resolves an exchange's withdrawal fee in raw token units.
type FeeSource interface {
	WithdrawFeeRaw(exchange, symbol string) decimal.Decimal
}

// ResultSink is notified with every successful quote, e.g. to refresh the
// results table.
type ResultSink func(result *domain.CexQuoteResult)
