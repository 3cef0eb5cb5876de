package app

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ardika/scanarb/business/scanner/domain"
)

// Helper to create a Spread
func makeSpread(cexPrice, dexPrice string) domain.Spread {
	cex := decimal.RequireFromString(cexPrice)
	dex := decimal.RequireFromString(dexPrice)
	return domain.CalculateSpread(cex, dex)
}

func TestProfitCalculator_Calculate(t *testing.T) {
	tests := []struct {
		name           string
		minProfitBps   string
		minProfitUSD   string
		cexPrice       string
		dexPrice       string
		direction      domain.Direction
		tradeSize      string
		withdrawFee    string
		swapFee        string
		wantGross      string
		wantNet        string
		wantProfitable bool
	}{
		{
			name:           "profitable_cex_to_dex",
			minProfitBps:   "10",
			minProfitUSD:   "1",
			cexPrice:       "3400",
			dexPrice:       "3417", // DEX pays $17 more per token, 50bps
			direction:      domain.DirectionCEXToDEX,
			tradeSize:      "1000",
			withdrawFee:    "1",
			swapFee:        "0.5",
			wantGross:      "5",   // 17/3400 * 1000
			wantNet:        "3.5", // 5 - 1 - 0.5
			wantProfitable: true,
		},
		{
			name:           "profitable_dex_to_cex",
			minProfitBps:   "10",
			minProfitUSD:   "1",
			cexPrice:       "3400",
			dexPrice:       "3383", // DEX sells $17 cheaper, 50bps
			direction:      domain.DirectionDEXToCEX,
			tradeSize:      "1000",
			withdrawFee:    "1",
			swapFee:        "0.5",
			wantGross:      "5", // negated negative spread
			wantNet:        "3.5",
			wantProfitable: true,
		},
		{
			name:           "spread_below_bps_threshold",
			minProfitBps:   "100",
			minProfitUSD:   "0",
			cexPrice:       "3400",
			dexPrice:       "3417", // 50bps, under the 100bps floor
			direction:      domain.DirectionCEXToDEX,
			tradeSize:      "1000",
			withdrawFee:    "0",
			swapFee:        "0",
			wantGross:      "5",
			wantNet:        "5",
			wantProfitable: false,
		},
		{
			name:           "fees_eat_the_edge",
			minProfitBps:   "10",
			minProfitUSD:   "1",
			cexPrice:       "3400",
			dexPrice:       "3417",
			direction:      domain.DirectionCEXToDEX,
			tradeSize:      "1000",
			withdrawFee:    "4",
			swapFee:        "2",
			wantGross:      "5",
			wantNet:        "-1",
			wantProfitable: false,
		},
		{
			name:           "wrong_direction_negative_gross",
			minProfitBps:   "10",
			minProfitUSD:   "0",
			cexPrice:       "3400",
			dexPrice:       "3383", // DEX cheaper, but trading CEX→DEX
			direction:      domain.DirectionCEXToDEX,
			tradeSize:      "1000",
			withdrawFee:    "0",
			swapFee:        "0",
			wantGross:      "-5",
			wantNet:        "-5",
			wantProfitable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := NewProfitCalculator(
				decimal.RequireFromString(tt.minProfitBps),
				decimal.RequireFromString(tt.minProfitUSD),
			)

			result := calc.Calculate(
				makeSpread(tt.cexPrice, tt.dexPrice),
				tt.direction,
				decimal.RequireFromString(tt.tradeSize),
				decimal.RequireFromString(tt.withdrawFee),
				decimal.RequireFromString(tt.swapFee),
			)

			if !result.GrossProfit.Equal(decimal.RequireFromString(tt.wantGross)) {
				t.Errorf("GrossProfit = %s, want %s", result.GrossProfit, tt.wantGross)
			}
			if !result.NetProfit.Equal(decimal.RequireFromString(tt.wantNet)) {
				t.Errorf("NetProfit = %s, want %s", result.NetProfit, tt.wantNet)
			}
			if result.IsProfitable != tt.wantProfitable {
				t.Errorf("IsProfitable = %v, want %v", result.IsProfitable, tt.wantProfitable)
			}
		})
	}
}

func TestProfitCalculator_ZeroCEXPrice(t *testing.T) {
	calc := NewProfitCalculator(decimal.Zero, decimal.Zero)
	result := calc.Calculate(
		domain.Spread{},
		domain.DirectionCEXToDEX,
		decimal.NewFromInt(1000),
		decimal.Zero,
		decimal.Zero,
	)
	if result.IsProfitable {
		t.Error("zero CEX price must not be profitable")
	}
	if !result.GrossProfit.IsZero() {
		t.Errorf("GrossProfit = %s, want 0", result.GrossProfit)
	}
}
