// Package domain contains the core types of the CEX pricing context.
package domain

import "github.com/shopspring/decimal"

// OrderbookLevel is one price level. Volume is quote-currency notional
// (price × base volume), not base volume.
type OrderbookLevel struct {
	Price  decimal.Decimal
	Volume decimal.Decimal
}

// NormalizedOrderbook holds both sides of a book after exchange-specific
// parsing. BuyLevels (bids) are sorted descending by price, SellLevels
// (asks) ascending, each truncated to the configured depth.
type NormalizedOrderbook struct {
	BuyLevels  []OrderbookLevel
	SellLevels []OrderbookLevel
}

// IsEmpty reports whether neither side has liquidity. Callers treat an
// empty book as "no liquidity", not as an error.
func (b NormalizedOrderbook) IsEmpty() bool {
	return len(b.BuyLevels) == 0 && len(b.SellLevels) == 0
}

// BestBid returns the highest buy price, zero when the side is empty.
func (b NormalizedOrderbook) BestBid() decimal.Decimal {
	if len(b.BuyLevels) == 0 {
		return decimal.Zero
	}
	return b.BuyLevels[0].Price
}

// BestAsk returns the lowest sell price, zero when the side is empty.
func (b NormalizedOrderbook) BestAsk() decimal.Decimal {
	if len(b.SellLevels) == 0 {
		return decimal.Zero
	}
	return b.SellLevels[0].Price
}

// Volumes returns the notional volume of each level on the given side.
func Volumes(levels []OrderbookLevel) []decimal.Decimal {
	out := make([]decimal.Decimal, len(levels))
	for i, l := range levels {
		out[i] = l.Volume
	}
	return out
}
