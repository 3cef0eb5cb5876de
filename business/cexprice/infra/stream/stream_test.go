package stream

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ardika/scanarb/internal/logger"
)

func newTestFeed(t *testing.T, stale time.Duration) *Feed {
	t.Helper()
	f, err := NewFeed(Config{
		BaseURL:      "wss://example.invalid",
		Symbols:      []string{"ETHUSDT"},
		StaleTimeout: stale,
	}, logger.NewNop())
	if err != nil {
		t.Fatalf("NewFeed failed: %v", err)
	}
	return f
}

func TestHandleMessage_UpdatesTop(t *testing.T) {
	f := newTestFeed(t, time.Minute)

	f.handleMessage(context.Background(), []byte(
		`{"stream":"ethusdt@bookTicker","data":{"s":"ETHUSDT","b":"1999.5","a":"2000.5"}}`,
	))

	top, ok := f.Top("ethusdt")
	if !ok {
		t.Fatal("expected top of book after update")
	}
	if !top.Bid.Equal(decimal.NewFromFloat(1999.5)) || !top.Ask.Equal(decimal.NewFromFloat(2000.5)) {
		t.Errorf("got bid=%s ask=%s", top.Bid, top.Ask)
	}
}

func TestTop_StaleEntryHidden(t *testing.T) {
	f := newTestFeed(t, 10*time.Millisecond)

	f.handleMessage(context.Background(), []byte(
		`{"data":{"s":"ETHUSDT","b":"1999.5","a":"2000.5"}}`,
	))
	time.Sleep(30 * time.Millisecond)

	if _, ok := f.Top("ETHUSDT"); ok {
		t.Error("expected stale entry to be hidden")
	}
}

func TestHandleMessage_IgnoresGarbage(t *testing.T) {
	f := newTestFeed(t, time.Minute)

	f.handleMessage(context.Background(), []byte(`not json`))
	f.handleMessage(context.Background(), []byte(`{"data":{"s":"ETHUSDT","b":"x","a":"y"}}`))

	if _, ok := f.Top("ETHUSDT"); ok {
		t.Error("garbage messages must not populate the book")
	}
}

func TestNewFeed_RequiresSymbols(t *testing.T) {
	if _, err := NewFeed(Config{BaseURL: "wss://x"}, logger.NewNop()); err == nil {
		t.Error("expected error with no symbols")
	}
}
