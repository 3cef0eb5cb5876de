package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ardika/scanarb/internal/apperror"
)

// Pair is a scanned trading pair, base token against a quote asset.
type Pair struct {
	Base  string
	Quote string
}

// ParsePair parses "ETH-USDT" style pair keys.
func ParsePair(s string) (Pair, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Pair{}, apperror.New(apperror.CodeInvalidFormat,
			apperror.WithContext("pair", s))
	}
	return Pair{
		Base:  strings.ToUpper(parts[0]),
		Quote: strings.ToUpper(parts[1]),
	}, nil
}

// String returns the canonical "BASE-QUOTE" form.
func (p Pair) String() string {
	return p.Base + "-" + p.Quote
}

// StreamSymbol returns the combined ticker symbol, e.g. "ETHUSDT".
func (p Pair) StreamSymbol() string {
	return p.Base + p.Quote
}

// Direction represents the arbitrage trade direction.
type Direction string

const (
	// DirectionCEXToDEX means buy on the CEX, sell on the DEX.
	DirectionCEXToDEX Direction = "CEX_TO_DEX"
	// DirectionDEXToCEX means buy on the DEX, sell on the CEX.
	DirectionDEXToCEX Direction = "DEX_TO_CEX"
)

// ProfitResult contains the calculated profit for an opportunity.
type ProfitResult struct {
	GrossProfit  decimal.Decimal
	WithdrawFee  decimal.Decimal
	SwapFee      decimal.Decimal
	NetProfit    decimal.Decimal
	NetProfitPct decimal.Decimal
	IsProfitable bool
}

// Opportunity is one scanned CEX/DEX spread for one trade size.
type Opportunity struct {
	Timestamp  time.Time
	Pair       Pair
	Exchange   string
	Aggregator string
	DexTitle   string
	Chain      string
	Direction  Direction
	TradeSize  decimal.Decimal // in quote currency
	Spread     Spread
	Profit     *ProfitResult
}

// IsProfitable returns true if this opportunity clears both thresholds.
func (o *Opportunity) IsProfitable() bool {
	return o.Profit != nil && o.Profit.IsProfitable
}

// ID keys the opportunity for display rows.
func (o *Opportunity) ID() string {
	return fmt.Sprintf("%s/%s/%s/%s/%s",
		o.Pair, o.Exchange, o.Aggregator, o.Direction, o.TradeSize.StringFixed(0))
}
