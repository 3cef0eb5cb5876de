package books

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ardika/scanarb/internal/logger"
)

type fixedRate struct {
	rate decimal.Decimal
	err  error
}

func (f fixedRate) IDRPerUSDT(ctx context.Context) (decimal.Decimal, error) {
	return f.rate, f.err
}

func TestStandard_SortsAndTruncates(t *testing.T) {
	n, err := ForKind("standard", nil, logger.NewNop())
	if err != nil {
		t.Fatalf("ForKind failed: %v", err)
	}

	// Bids out of order, asks out of order, 5 levels each with depth 4.
	raw := []byte(`{
		"bids": [["99","1"],["101","1"],["100","1"],["98","1"],["97","1"]],
		"asks": [["104","1"],["102","1"],["103","1"],["105","1"],["106","1"]]
	}`)

	book, err := n.Normalize(context.Background(), raw, 4)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if len(book.BuyLevels) != 4 || len(book.SellLevels) != 4 {
		t.Fatalf("expected 4 levels per side, got %d/%d", len(book.BuyLevels), len(book.SellLevels))
	}
	if !book.BestBid().Equal(decimal.NewFromInt(101)) {
		t.Errorf("best bid = %s, want 101", book.BestBid())
	}
	if !book.BestAsk().Equal(decimal.NewFromInt(102)) {
		t.Errorf("best ask = %s, want 102", book.BestAsk())
	}
	for i := 1; i < len(book.BuyLevels); i++ {
		if book.BuyLevels[i].Price.GreaterThan(book.BuyLevels[i-1].Price) {
			t.Error("buy levels not descending")
		}
	}
	for i := 1; i < len(book.SellLevels); i++ {
		if book.SellLevels[i].Price.LessThan(book.SellLevels[i-1].Price) {
			t.Error("sell levels not ascending")
		}
	}
}

func TestStandard_VolumeIsQuoteNotional(t *testing.T) {
	n, _ := ForKind("standard", nil, logger.NewNop())

	raw := []byte(`{"bids": [["2000","0.5"]], "asks": [["2010","2"]]}`)
	book, err := n.Normalize(context.Background(), raw, 4)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if !book.BuyLevels[0].Volume.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("bid volume = %s, want 1000 (2000*0.5)", book.BuyLevels[0].Volume)
	}
	if !book.SellLevels[0].Volume.Equal(decimal.NewFromInt(4020)) {
		t.Errorf("ask volume = %s, want 4020 (2010*2)", book.SellLevels[0].Volume)
	}
}

func TestStandard_MissingKeysReturnsEmptyBook(t *testing.T) {
	n, _ := ForKind("standard", nil, logger.NewNop())

	book, err := n.Normalize(context.Background(), []byte(`{"code":"500","msg":"oops"}`), 4)
	if err != nil {
		t.Fatalf("expected no error for missing keys, got %v", err)
	}
	if !book.IsEmpty() {
		t.Error("expected empty book for payload without bids/asks")
	}
}

func TestStandard_MalformedJSONIsError(t *testing.T) {
	n, _ := ForKind("standard", nil, logger.NewNop())

	if _, err := n.Normalize(context.Background(), []byte(`<html>`), 4); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestKucoin_UnwrapsDataEnvelope(t *testing.T) {
	n, _ := ForKind("kucoin", nil, logger.NewNop())

	raw := []byte(`{"code":"200000","data":{"bids":[["10","1"]],"asks":[["11","1"]]}}`)
	book, err := n.Normalize(context.Background(), raw, 4)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if !book.BestBid().Equal(decimal.NewFromInt(10)) || !book.BestAsk().Equal(decimal.NewFromInt(11)) {
		t.Errorf("got bid=%s ask=%s", book.BestBid(), book.BestAsk())
	}
}

func TestBybit_RemapsResultSides(t *testing.T) {
	n, _ := ForKind("bybit", nil, logger.NewNop())

	raw := []byte(`{"retCode":0,"result":{"a":[["11","1"],["12","1"]],"b":[["9","1"],["10","1"]]}}`)
	book, err := n.Normalize(context.Background(), raw, 4)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if !book.BestBid().Equal(decimal.NewFromInt(10)) {
		t.Errorf("best bid = %s, want 10", book.BestBid())
	}
	if !book.BestAsk().Equal(decimal.NewFromInt(11)) {
		t.Errorf("best ask = %s, want 11", book.BestAsk())
	}
}

func TestIndodax_ConvertsIDRToUSDT(t *testing.T) {
	// 16000 IDR per USDT; price 32_000_000 IDR -> 2000 USDT.
	n, _ := ForKind("indodax", fixedRate{rate: decimal.NewFromInt(16000)}, logger.NewNop())

	raw := []byte(`{"buy":[["32000000","0.5"]],"sell":[["32160000","1"]]}`)
	book, err := n.Normalize(context.Background(), raw, 4)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if !book.BestBid().Equal(decimal.NewFromInt(2000)) {
		t.Errorf("best bid = %s, want 2000", book.BestBid())
	}
	if !book.BestAsk().Equal(decimal.NewFromInt(2010)) {
		t.Errorf("best ask = %s, want 2010", book.BestAsk())
	}
	// Notional converted too: 32000000 * 0.5 / 16000 = 1000 USDT.
	if !book.BuyLevels[0].Volume.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("bid volume = %s, want 1000", book.BuyLevels[0].Volume)
	}
}

func TestIndodax_MissingRateDropsBook(t *testing.T) {
	n, _ := ForKind("indodax", fixedRate{rate: decimal.Zero}, logger.NewNop())

	raw := []byte(`{"buy":[["32000000","0.5"]],"sell":[["32160000","1"]]}`)
	book, err := n.Normalize(context.Background(), raw, 4)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !book.IsEmpty() {
		t.Error("expected empty book when the FX rate is unavailable")
	}
}

func TestForKind_UnknownParser(t *testing.T) {
	if _, err := ForKind("kraken", nil, logger.NewNop()); err == nil {
		t.Error("expected error for unknown parser kind")
	}
}

func TestSymbolFor(t *testing.T) {
	cases := []struct {
		exchange, base, quote, want string
	}{
		{"BINANCE", "eth", "usdt", "ETHUSDT"},
		{"BYBIT", "ETH", "USDT", "ETHUSDT"},
		{"KUCOIN", "ETH", "USDT", "ETH-USDT"},
		{"INDODAX", "ETH", "USDT", "ethidr"},
	}
	for _, tc := range cases {
		if got := SymbolFor(tc.exchange, tc.base, tc.quote); got != tc.want {
			t.Errorf("SymbolFor(%s, %s, %s) = %q, want %q", tc.exchange, tc.base, tc.quote, got, tc.want)
		}
	}
}
