// Package infra contains infrastructure adapters for the scanner context.
package infra

import (
	"github.com/shopspring/decimal"

	"github.com/ardika/scanarb/business/cexprice/infra/stream"
)

// FeedTicker adapts the warm bookticker feed to the scan loop's
// top-of-book source.
type FeedTicker struct {
	feed *stream.Feed
}

// NewFeedTicker wraps a connected feed.
func NewFeedTicker(feed *stream.Feed) *FeedTicker {
	return &FeedTicker{feed: feed}
}

// Top returns the latest best bid/ask for the symbol.
func (t *FeedTicker) Top(symbol string) (bid, ask decimal.Decimal, ok bool) {
	top, ok := t.feed.Top(symbol)
	if !ok {
		return decimal.Zero, decimal.Zero, false
	}
	return top.Bid, top.Ask, true
}
