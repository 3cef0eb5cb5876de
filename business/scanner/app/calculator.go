// Package app contains the scan loop and profitability services.
package app

import (
	"github.com/shopspring/decimal"

	"github.com/ardika/scanarb/business/scanner/domain"
)

var hundred = decimal.NewFromInt(100)

// ProfitCalculator computes arbitrage profitability against configured
// thresholds.
type ProfitCalculator struct {
	minProfitBps decimal.Decimal
	minProfitUSD decimal.Decimal
}

// NewProfitCalculator creates a ProfitCalculator with thresholds.
func NewProfitCalculator(minProfitBps, minProfitUSD decimal.Decimal) *ProfitCalculator {
	return &ProfitCalculator{
		minProfitBps: minProfitBps,
		minProfitUSD: minProfitUSD,
	}
}

// Calculate computes the profit of trading tradeSize (quote currency)
// across the spread in the given direction, net of the CEX withdrawal
// fee and the DEX swap fee (both already in quote-currency terms).
func (c *ProfitCalculator) Calculate(
	spread domain.Spread,
	direction domain.Direction,
	tradeSize decimal.Decimal,
	withdrawFee decimal.Decimal,
	swapFee decimal.Decimal,
) *domain.ProfitResult {
	if spread.CEXPrice.IsZero() {
		return &domain.ProfitResult{}
	}

	// Gross is signed by direction: a CEX→DEX trade earns when the DEX
	// pays more, a DEX→CEX trade when the DEX charges less.
	relative := spread.Absolute.Div(spread.CEXPrice)
	if direction == domain.DirectionDEXToCEX {
		relative = relative.Neg()
	}
	grossProfit := relative.Mul(tradeSize)

	netProfit := grossProfit.Sub(withdrawFee).Sub(swapFee)

	netProfitPct := decimal.Zero
	if !tradeSize.IsZero() {
		netProfitPct = netProfit.Div(tradeSize).Mul(hundred)
	}

	isProfitable := grossProfit.IsPositive() &&
		spread.BasisPoints.Abs().GreaterThanOrEqual(c.minProfitBps) &&
		netProfit.GreaterThanOrEqual(c.minProfitUSD)

	return &domain.ProfitResult{
		GrossProfit:  grossProfit,
		WithdrawFee:  withdrawFee,
		SwapFee:      swapFee,
		NetProfit:    netProfit,
		NetProfitPct: netProfitPct,
		IsProfitable: isProfitable,
	}
}
