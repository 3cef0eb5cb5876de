// Package ui provides the Bubble Tea dashboard for the scanner.
package ui

import (
	"time"

	"github.com/ardika/scanarb/business/scanner/domain"
)

// OpportunityMsg carries one priced scan cell into the dashboard.
type OpportunityMsg struct {
	Opportunity *domain.Opportunity
}

// TickerMsg is a warm-feed top-of-book update.
type TickerMsg struct {
	Symbol string
	Bid    string
	Ask    string
}

// ConnectionStatusMsg is sent when an upstream connection changes state.
type ConnectionStatusMsg struct {
	Name      string
	Connected bool
	Latency   time.Duration
}

// CycleMsg is sent after each completed scan cycle.
type CycleMsg struct {
	Count    uint64
	Duration time.Duration
}

// LogMsg surfaces a log line in the dashboard footer.
type LogMsg struct {
	Level   string // "info", "warn", "error"
	Message string
}

// TickMsg drives periodic redraws.
type TickMsg struct{}
