// Package components provides reusable dashboard components.
package components

import (
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// QuoteRow is the latest priced cell for one scan coordinate.
type QuoteRow struct {
	Pair       string
	Exchange   string
	Aggregator string
	DexTitle   string
	Direction  string
	TradeSize  decimal.Decimal
	CEXPrice   decimal.Decimal
	DEXPrice   decimal.Decimal
	SpreadBps  decimal.Decimal
	NetProfit  decimal.Decimal
	Profitable bool
	UpdatedAt  time.Time
}

func (r QuoteRow) key() string {
	return r.Pair + "|" + r.Exchange + "|" + r.Aggregator + "|" + r.Direction + "|" + r.TradeSize.String()
}

// QuoteGrid renders the live quote table, keeping only the newest row
// per scan coordinate.
type QuoteGrid struct {
	rows       map[string]QuoteRow
	table      table.Model
	profitOnly bool
}

// NewQuoteGrid creates the grid with its column layout.
func NewQuoteGrid(height int) *QuoteGrid {
	columns := []table.Column{
		{Title: "Pair", Width: 10},
		{Title: "CEX", Width: 9},
		{Title: "DEX", Width: 9},
		{Title: "Dir", Width: 9},
		{Title: "Size", Width: 8},
		{Title: "CEX Px", Width: 12},
		{Title: "DEX Px", Width: 12},
		{Title: "Spread", Width: 9},
		{Title: "Net $", Width: 9},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(height),
		table.WithFocused(false),
	)
	st := table.DefaultStyles()
	st.Header = st.Header.
		Bold(true).
		Foreground(lipgloss.Color("#38BDF8")).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true)
	st.Selected = lipgloss.NewStyle()
	t.SetStyles(st)

	return &QuoteGrid{
		rows:  make(map[string]QuoteRow),
		table: t,
	}
}

// Upsert replaces the row for the same scan coordinate.
func (g *QuoteGrid) Upsert(row QuoteRow) {
	g.rows[row.key()] = row
	g.rebuild()
}

// Clear drops all rows.
func (g *QuoteGrid) Clear() {
	g.rows = make(map[string]QuoteRow)
	g.rebuild()
}

// SetProfitOnly toggles the profitable-only filter.
func (g *QuoteGrid) SetProfitOnly(on bool) {
	g.profitOnly = on
	g.rebuild()
}

// SetHeight resizes the table viewport.
func (g *QuoteGrid) SetHeight(h int) {
	if h < 3 {
		h = 3
	}
	g.table.SetHeight(h)
}

// Len reports how many rows pass the current filter.
func (g *QuoteGrid) Len() int {
	n := 0
	for _, r := range g.rows {
		if !g.profitOnly || r.Profitable {
			n++
		}
	}
	return n
}

func (g *QuoteGrid) rebuild() {
	rows := make([]QuoteRow, 0, len(g.rows))
	for _, r := range g.rows {
		if g.profitOnly && !r.Profitable {
			continue
		}
		rows = append(rows, r)
	}
	// Best spreads first, ties by coordinate for a stable layout.
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].NetProfit.Equal(rows[j].NetProfit) {
			return rows[i].NetProfit.GreaterThan(rows[j].NetProfit)
		}
		return rows[i].key() < rows[j].key()
	})

	out := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		dex := r.DexTitle
		if dex == "" {
			dex = r.Aggregator
		}
		out = append(out, table.Row{
			r.Pair,
			r.Exchange,
			dex,
			r.Direction,
			r.TradeSize.StringFixed(0),
			r.CEXPrice.StringFixed(4),
			r.DEXPrice.StringFixed(4),
			fmt.Sprintf("%+.1fbp", r.SpreadBps.InexactFloat64()),
			fmt.Sprintf("%+.2f", r.NetProfit.InexactFloat64()),
		})
	}
	g.table.SetRows(out)
}

// View renders the grid.
func (g *QuoteGrid) View() string {
	if len(g.rows) == 0 {
		return "Waiting for first scan cycle..."
	}
	return g.table.View()
}
