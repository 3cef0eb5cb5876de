package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    Direction
		wantErr bool
	}{
		{"token_to_pair", TokenToPair, false},
		{"TOKEN_TO_PAIR", TokenToPair, false},
		{"TokenToPair", TokenToPair, false},
		{"pair-to-token", PairToToken, false},
		{"pairtotoken", PairToToken, false},
		{"  PAIR_TO_TOKEN  ", PairToToken, false},
		{"sideways", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseDirection(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseDirection(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDirection(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDirection(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAmountInRaw(t *testing.T) {
	tests := []struct {
		amount   string
		decimals int
		want     string
	}{
		{"100", 18, "100000000000000000000"},
		{"1.5", 6, "1500000"},
		{"0.000001", 6, "1"},
		// Rounding, not truncation, for amounts finer than the token.
		{"0.0000015", 6, "2"},
		{"123456.789", 18, "123456789000000000000000"},
	}

	for _, tt := range tests {
		p := QuoteParams{
			AmountIn:   decimal.RequireFromString(tt.amount),
			DecimalsIn: tt.decimals,
		}
		if got := p.AmountInRaw().String(); got != tt.want {
			t.Errorf("AmountInRaw(%s, d=%d) = %s, want %s", tt.amount, tt.decimals, got, tt.want)
		}
	}
}

func TestDivideRaw(t *testing.T) {
	got, err := DivideRaw("1500000", 6)
	if err != nil {
		t.Fatalf("DivideRaw: %v", err)
	}
	if !got.Equal(decimal.RequireFromString("1.5")) {
		t.Errorf("DivideRaw(1500000, 6) = %s, want 1.5", got)
	}

	if _, err := DivideRaw("not-a-number", 6); err == nil {
		t.Error("expected error for non-numeric raw amount")
	}
}

func TestQuoteErrorMessage(t *testing.T) {
	qe := &QuoteError{
		Reason:     ReasonHTTPStatus,
		StatusCode: 429,
		Message:    "rate limited",
		DexKey:     "kyber",
	}
	msg := qe.Error()
	if msg == "" {
		t.Fatal("empty error message")
	}
	if !qe.IsRateLimited() {
		t.Error("429 should classify as rate limited")
	}

	noResp := &QuoteError{Reason: ReasonTimeout, StatusCode: 0, DexKey: "kyber"}
	if !noResp.NoResponse() {
		t.Error("status 0 timeout should report NoResponse")
	}
	schema := &QuoteError{Reason: ReasonSchema, StatusCode: 0, DexKey: "kyber"}
	if schema.NoResponse() {
		t.Error("schema failure is not a missing response")
	}
}
