package domain

import (
	"github.com/shopspring/decimal"

	"github.com/ardika/scanarb/internal/apperror"
)

// PairRequest describes one CEX quote request: a token leg and a pair leg
// on a single exchange.
type PairRequest struct {
	Token     string // base asset of the token leg, e.g. "ETH"
	Pair      string // quote-side asset, e.g. "USDT"
	Exchange  string // uppercase exchange key, e.g. "BINANCE"
	ScIn      string // input contract address (carried through for the UI)
	ScOut     string // output contract address
	ChainName string
}

// CexQuoteResult aggregates both orderbook legs of one exchange quote.
// Constructed once per fetch and never mutated afterwards.
type CexQuoteResult struct {
	Token     string
	Pair      string
	Cex       string
	ScIn      string
	ScOut     string
	ChainName string

	PriceSellToken decimal.Decimal
	PriceBuyToken  decimal.Decimal
	PriceSellPair  decimal.Decimal
	PriceBuyPair   decimal.Decimal

	VolumesSellToken []decimal.Decimal
	VolumesBuyToken  []decimal.Decimal
	VolumesSellPair  []decimal.Decimal
	VolumesBuyPair   []decimal.Decimal

	FeeWDToken decimal.Decimal
	FeeWDPair  decimal.Decimal
}

// Validate rejects results any caller would mis-trade on: all four prices
// must be positive and the withdrawal fees non-negative.
func (r *CexQuoteResult) Validate() error {
	prices := []struct {
		name  string
		value decimal.Decimal
	}{
		{"priceSellToken", r.PriceSellToken},
		{"priceBuyToken", r.PriceBuyToken},
		{"priceSellPair", r.PriceSellPair},
		{"priceBuyPair", r.PriceBuyPair},
	}
	for _, p := range prices {
		if p.value.Sign() <= 0 {
			return apperror.New(apperror.CodeInvalidPrice,
				apperror.WithContext("field", p.name),
				apperror.WithContext("exchange", r.Cex),
			)
		}
	}

	if r.FeeWDToken.Sign() < 0 || r.FeeWDPair.Sign() < 0 {
		return apperror.New(apperror.CodeInvalidFee,
			apperror.WithContext("exchange", r.Cex),
		)
	}
	return nil
}

// LegQuote is the outcome of a single orderbook leg.
type LegQuote struct {
	PriceSell   decimal.Decimal
	PriceBuy    decimal.Decimal
	VolumesSell []decimal.Decimal
	VolumesBuy  []decimal.Decimal
	FeeWD       decimal.Decimal
}
