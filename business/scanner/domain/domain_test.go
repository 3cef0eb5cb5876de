package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParsePair(t *testing.T) {
	tests := []struct {
		input     string
		wantBase  string
		wantQuote string
		wantErr   bool
	}{
		{"ETH-USDT", "ETH", "USDT", false},
		{"eth-usdt", "ETH", "USDT", false},
		{"  BTC-USDC  ", "BTC", "USDC", false},
		{"ETHUSDT", "", "", true},
		{"ETH-", "", "", true},
		{"-USDT", "", "", true},
		{"", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, err := ParsePair(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParsePair(%q) expected error, got %v", tt.input, p)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePair(%q) unexpected error: %v", tt.input, err)
			}
			if p.Base != tt.wantBase || p.Quote != tt.wantQuote {
				t.Errorf("ParsePair(%q) = %s-%s, want %s-%s", tt.input, p.Base, p.Quote, tt.wantBase, tt.wantQuote)
			}
		})
	}
}

func TestPairStreamSymbol(t *testing.T) {
	p := Pair{Base: "ETH", Quote: "USDT"}
	if got := p.StreamSymbol(); got != "ETHUSDT" {
		t.Errorf("StreamSymbol() = %q, want ETHUSDT", got)
	}
	if got := p.String(); got != "ETH-USDT" {
		t.Errorf("String() = %q, want ETH-USDT", got)
	}
}

func TestCalculateSpread(t *testing.T) {
	tests := []struct {
		name          string
		cexPrice      string
		dexPrice      string
		wantAbsolute  string
		wantBps       string
		wantDirection SpreadDirection
	}{
		{
			name:          "dex_higher",
			cexPrice:      "3400",
			dexPrice:      "3417",
			wantAbsolute:  "17",
			wantBps:       "50",
			wantDirection: SpreadCEXToDEX,
		},
		{
			name:          "dex_lower",
			cexPrice:      "3400",
			dexPrice:      "3383",
			wantAbsolute:  "-17",
			wantBps:       "-50",
			wantDirection: SpreadDEXToCEX,
		},
		{
			name:          "equal",
			cexPrice:      "100",
			dexPrice:      "100",
			wantAbsolute:  "0",
			wantBps:       "0",
			wantDirection: SpreadNone,
		},
		{
			name:          "zero_cex_price",
			cexPrice:      "0",
			dexPrice:      "100",
			wantAbsolute:  "100",
			wantBps:       "0",
			wantDirection: SpreadCEXToDEX,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := CalculateSpread(
				decimal.RequireFromString(tt.cexPrice),
				decimal.RequireFromString(tt.dexPrice),
			)
			if !s.Absolute.Equal(decimal.RequireFromString(tt.wantAbsolute)) {
				t.Errorf("Absolute = %s, want %s", s.Absolute, tt.wantAbsolute)
			}
			if !s.BasisPoints.Equal(decimal.RequireFromString(tt.wantBps)) {
				t.Errorf("BasisPoints = %s, want %s", s.BasisPoints, tt.wantBps)
			}
			if s.Direction != tt.wantDirection {
				t.Errorf("Direction = %s, want %s", s.Direction, tt.wantDirection)
			}
		})
	}
}

func TestOpportunityIsProfitable(t *testing.T) {
	opp := &Opportunity{}
	if opp.IsProfitable() {
		t.Error("opportunity without profit result should not be profitable")
	}

	opp.Profit = &ProfitResult{IsProfitable: false}
	if opp.IsProfitable() {
		t.Error("unprofitable result should not be profitable")
	}

	opp.Profit = &ProfitResult{IsProfitable: true}
	if !opp.IsProfitable() {
		t.Error("profitable result should be profitable")
	}
}
