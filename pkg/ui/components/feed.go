// Package components provides reusable dashboard components.
package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// FeedEntry is one profitable hit in the opportunity feed.
type FeedEntry struct {
	Timestamp  time.Time
	Pair       string
	Exchange   string
	DexTitle   string
	Direction  string
	TradeSize  decimal.Decimal
	SpreadBps  decimal.Decimal
	NetProfit  decimal.Decimal
	NetProfitP decimal.Decimal
}

// OpportunityFeed renders the newest profitable hits first.
type OpportunityFeed struct {
	entries []FeedEntry
	maxRows int
}

// NewOpportunityFeed creates a feed keeping at most maxRows entries.
func NewOpportunityFeed(maxRows int) *OpportunityFeed {
	return &OpportunityFeed{maxRows: maxRows}
}

// Add prepends an entry, trimming the oldest past maxRows.
func (f *OpportunityFeed) Add(e FeedEntry) {
	f.entries = append([]FeedEntry{e}, f.entries...)
	if len(f.entries) > f.maxRows {
		f.entries = f.entries[:f.maxRows]
	}
}

// Clear drops all entries.
func (f *OpportunityFeed) Clear() {
	f.entries = nil
}

// Len reports how many entries the feed holds.
func (f *OpportunityFeed) Len() int {
	return len(f.entries)
}

// View renders the feed.
func (f *OpportunityFeed) View() string {
	if len(f.entries) == 0 {
		return MutedValue.Render("No profitable opportunities yet.")
	}

	var b strings.Builder
	for _, e := range f.entries {
		line := fmt.Sprintf("%s  %-9s %s→%s %-11s size %s  %s  net %s (%s%%)",
			e.Timestamp.Format("15:04:05"),
			e.Pair,
			e.Exchange,
			e.DexTitle,
			e.Direction,
			e.TradeSize.StringFixed(0),
			fmt.Sprintf("%+.1fbp", e.SpreadBps.InexactFloat64()),
			ProfitValue.Render("$"+e.NetProfit.StringFixed(2)),
			e.NetProfitP.StringFixed(2),
		)
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Shared value styles for components.
var (
	ProfitValue = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	MutedValue  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)
