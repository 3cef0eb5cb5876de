// Package stream keeps a warm top-of-book feed from Binance bookTicker
// streams. The scan loop reads it to skip pairs whose spread cannot
// possibly clear before paying for full orderbook fetches.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/ardika/scanarb/internal/apperror"
	"github.com/ardika/scanarb/internal/logger"
	"github.com/ardika/scanarb/internal/wsconn"
)

const meterName = "binance_stream"

// TopOfBook is the latest best bid/ask for one symbol.
type TopOfBook struct {
	Symbol    string
	Bid       decimal.Decimal
	Ask       decimal.Decimal
	UpdatedAt time.Time
}

// Config holds the feed settings.
type Config struct {
	BaseURL      string
	Symbols      []string
	StaleTimeout time.Duration
}

// bookTickerEvent is the Binance combined-stream payload.
type bookTickerEvent struct {
	Data struct {
		Symbol string `json:"s"`
		Bid    string `json:"b"`
		Ask    string `json:"a"`
	} `json:"data"`
}

// Feed subscribes to bookTicker streams and caches the latest top of book.
type Feed struct {
	config Config
	log    logger.LoggerInterface

	conn *wsconn.Client

	mu    sync.RWMutex
	books map[string]TopOfBook

	messages    metric.Int64Counter
	parseErrors metric.Int64Counter
}

// NewFeed creates the feed; Connect starts it.
func NewFeed(cfg Config, log logger.LoggerInterface) (*Feed, error) {
	if len(cfg.Symbols) == 0 {
		return nil, fmt.Errorf("stream: no symbols configured")
	}
	if cfg.StaleTimeout <= 0 {
		cfg.StaleTimeout = 5 * time.Second
	}

	meter := otel.Meter(meterName)
	messages, err := meter.Int64Counter("binance_stream_messages_total",
		metric.WithDescription("bookTicker messages received"))
	if err != nil {
		return nil, err
	}
	parseErrors, err := meter.Int64Counter("binance_stream_parse_errors_total",
		metric.WithDescription("bookTicker messages that failed to parse"))
	if err != nil {
		return nil, err
	}

	return &Feed{
		config:      cfg,
		log:         log,
		books:       make(map[string]TopOfBook),
		messages:    messages,
		parseErrors: parseErrors,
	}, nil
}

// Connect dials the combined stream and starts consuming updates.
func (f *Feed) Connect(ctx context.Context) error {
	streams := make([]string, len(f.config.Symbols))
	for i, s := range f.config.Symbols {
		streams[i] = strings.ToLower(s) + "@bookTicker"
	}
	url := fmt.Sprintf("%s/stream?streams=%s",
		strings.TrimSuffix(f.config.BaseURL, "/"), strings.Join(streams, "/"))

	conn, err := wsconn.New(wsconn.DefaultConfig(url, "binance-bookticker"))
	if err != nil {
		return err
	}
	conn.OnMessage(f.handleMessage)
	conn.OnStateChange(func(state wsconn.State, cause error) {
		if state == wsconn.StateReconnecting {
			f.log.Warn(context.Background(), "bookticker feed reconnecting", "error", cause)
		}
	})

	if err := conn.Connect(ctx); err != nil {
		return apperror.New(apperror.CodeWebSocketConnectionError, apperror.WithCause(err))
	}
	f.conn = conn
	f.log.Info(ctx, "bookticker feed connected", "symbols", len(f.config.Symbols))
	return nil
}

// Close shuts the feed down.
func (f *Feed) Close() error {
	if f.conn == nil {
		return nil
	}
	return f.conn.Close()
}

// Top returns the latest top of book for symbol. ok is false when the
// symbol was never seen or the entry has gone stale.
func (f *Feed) Top(symbol string) (TopOfBook, bool) {
	f.mu.RLock()
	top, ok := f.books[strings.ToUpper(symbol)]
	f.mu.RUnlock()

	if !ok || time.Since(top.UpdatedAt) > f.config.StaleTimeout {
		return TopOfBook{}, false
	}
	return top, true
}

// LastUpdate returns the newest update time across all symbols, used by
// the health freshness check.
func (f *Feed) LastUpdate() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var newest time.Time
	for _, top := range f.books {
		if top.UpdatedAt.After(newest) {
			newest = top.UpdatedAt
		}
	}
	return newest
}

func (f *Feed) handleMessage(ctx context.Context, msg []byte) {
	f.messages.Add(ctx, 1)

	var event bookTickerEvent
	if err := json.Unmarshal(msg, &event); err != nil || event.Data.Symbol == "" {
		f.parseErrors.Add(ctx, 1)
		return
	}

	bid, err := decimal.NewFromString(event.Data.Bid)
	if err != nil {
		f.parseErrors.Add(ctx, 1)
		return
	}
	ask, err := decimal.NewFromString(event.Data.Ask)
	if err != nil {
		f.parseErrors.Add(ctx, 1)
		return
	}

	f.mu.Lock()
	f.books[strings.ToUpper(event.Data.Symbol)] = TopOfBook{
		Symbol:    strings.ToUpper(event.Data.Symbol),
		Bid:       bid,
		Ask:       ask,
		UpdatedAt: time.Now(),
	}
	f.mu.Unlock()
}
