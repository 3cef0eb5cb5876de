// Package ui provides the Bubble Tea dashboard for the scanner.
package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardika/scanarb/business/scanner/domain"
	"github.com/ardika/scanarb/pkg/ui/components"
)

// ConnectionInfo holds connection state and latency for one upstream.
type ConnectionInfo struct {
	Connected bool
	Latency   time.Duration
	LastSeen  time.Time
}

const (
	feedRows = 8
	logRows  = 3
)

// Model is the main Bubble Tea model for the scanner dashboard.
type Model struct {
	grid *components.QuoteGrid
	feed *components.OpportunityFeed
	keys KeyMap
	help help.Model

	chain       string
	quitting    bool
	paused      bool
	profitOnly  bool
	width       int
	height      int
	connections map[string]*ConnectionInfo
	tickers     map[string][2]string // symbol -> bid, ask
	cycles      uint64
	cycleTook   time.Duration
	lastUpdate  time.Time
	logs        []string
}

// New creates the dashboard model.
func New(chain string) Model {
	return Model{
		grid:        components.NewQuoteGrid(12),
		feed:        components.NewOpportunityFeed(feedRows),
		keys:        DefaultKeyMap(),
		help:        help.New(),
		chain:       chain,
		connections: make(map[string]*ConnectionInfo),
		tickers:     make(map[string][2]string),
	}
}

// Init starts the redraw ticker.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
		case key.Matches(msg, m.keys.Clear):
			m.grid.Clear()
			m.feed.Clear()
			m.logs = nil
		case key.Matches(msg, m.keys.ProfitOnly):
			m.profitOnly = !m.profitOnly
			m.grid.SetProfitOnly(m.profitOnly)
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.grid.SetHeight(m.gridHeight())

	case OpportunityMsg:
		if !m.paused && msg.Opportunity != nil {
			m.absorb(msg.Opportunity)
		}

	case TickerMsg:
		m.tickers[msg.Symbol] = [2]string{msg.Bid, msg.Ask}

	case ConnectionStatusMsg:
		m.connections[msg.Name] = &ConnectionInfo{
			Connected: msg.Connected,
			Latency:   msg.Latency,
			LastSeen:  time.Now(),
		}

	case CycleMsg:
		m.cycles = msg.Count
		m.cycleTook = msg.Duration
		m.lastUpdate = time.Now()

	case LogMsg:
		line := fmt.Sprintf("%s [%s] %s", time.Now().Format("15:04:05"), msg.Level, msg.Message)
		m.logs = append(m.logs, line)
		if len(m.logs) > logRows {
			m.logs = m.logs[len(m.logs)-logRows:]
		}

	case TickMsg:
		return m, tickCmd()
	}

	return m, nil
}

func (m *Model) absorb(opp *domain.Opportunity) {
	row := components.QuoteRow{
		Pair:       opp.Pair.String(),
		Exchange:   opp.Exchange,
		Aggregator: opp.Aggregator,
		DexTitle:   opp.DexTitle,
		Direction:  shortDirection(opp.Direction),
		TradeSize:  opp.TradeSize,
		CEXPrice:   opp.Spread.CEXPrice,
		DEXPrice:   opp.Spread.DEXPrice,
		SpreadBps:  opp.Spread.BasisPoints,
		Profitable: opp.IsProfitable(),
		UpdatedAt:  opp.Timestamp,
	}
	if opp.Profit != nil {
		row.NetProfit = opp.Profit.NetProfit
	}
	m.grid.Upsert(row)

	if opp.IsProfitable() {
		m.feed.Add(components.FeedEntry{
			Timestamp:  opp.Timestamp,
			Pair:       opp.Pair.String(),
			Exchange:   opp.Exchange,
			DexTitle:   opp.DexTitle,
			Direction:  shortDirection(opp.Direction),
			TradeSize:  opp.TradeSize,
			SpreadBps:  opp.Spread.BasisPoints,
			NetProfit:  opp.Profit.NetProfit,
			NetProfitP: opp.Profit.NetProfitPct,
		})
	}
}

func shortDirection(d domain.Direction) string {
	switch d {
	case domain.DirectionCEXToDEX:
		return "CEX→DEX"
	case domain.DirectionDEXToCEX:
		return "DEX→CEX"
	default:
		return string(d)
	}
}

func (m Model) gridHeight() int {
	h := m.height - feedRows - logRows - 10
	if h < 4 {
		h = 4
	}
	if h > 20 {
		h = 20
	}
	return h
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return "Scanner stopped.\n"
	}

	var b strings.Builder

	title := fmt.Sprintf(" SCANARB — %s ", strings.ToUpper(m.chain))
	b.WriteString(TitleStyle.Render(title))
	if m.paused {
		b.WriteString("  " + StatusDisconnected.Render("PAUSED"))
	}
	if m.profitOnly {
		b.WriteString("  " + HeaderStyle.Render("[profitable only]"))
	}
	b.WriteString("\n")

	b.WriteString(m.statusLine())
	b.WriteString("\n")

	if strip := m.tickerStrip(); strip != "" {
		b.WriteString(MutedValue.Render(strip))
		b.WriteString("\n")
	}

	b.WriteString(BoxStyle.Render(HeaderStyle.Render("LIVE QUOTES") + "\n" + m.grid.View()))
	b.WriteString("\n")
	b.WriteString(BoxStyle.Render(HeaderStyle.Render("OPPORTUNITIES") + "\n" + m.feed.View()))
	b.WriteString("\n")

	for _, line := range m.logs {
		b.WriteString(MutedValue.Render(line))
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render(m.help.View(m.keys)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) statusLine() string {
	parts := make([]string, 0, len(m.connections)+2)

	names := make([]string, 0, len(m.connections))
	for name := range m.connections {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		info := m.connections[name]
		if info.Connected {
			parts = append(parts, StatusConnected.Render("● "+name))
		} else {
			parts = append(parts, StatusDisconnected.Render("○ "+name))
		}
	}

	parts = append(parts, fmt.Sprintf("cycles: %d", m.cycles))
	if m.cycleTook > 0 {
		parts = append(parts, fmt.Sprintf("last: %s", m.cycleTook.Round(time.Millisecond)))
	}
	if !m.lastUpdate.IsZero() {
		parts = append(parts, "updated "+m.lastUpdate.Format("15:04:05"))
	}

	return HelpStyle.Render(strings.Join(parts, "  "))
}

func (m Model) tickerStrip() string {
	if len(m.tickers) == 0 {
		return ""
	}
	symbols := make([]string, 0, len(m.tickers))
	for s := range m.tickers {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	parts := make([]string, 0, len(symbols))
	for _, s := range symbols {
		t := m.tickers[s]
		parts = append(parts, fmt.Sprintf("%s %s/%s", s, t[0], t[1]))
	}
	return " " + strings.Join(parts, "   ")
}
