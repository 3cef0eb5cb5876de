// Package infra contains infrastructure adapters for the scanner context.
package infra

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ardika/scanarb/business/scanner/domain"
)

// ConsoleReporter writes profitable opportunities to the terminal.
type ConsoleReporter struct {
	out io.Writer
	// ShowAll also prints unprofitable rows, one line each.
	ShowAll bool
}

// NewConsoleReporter creates a ConsoleReporter on stdout.
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{out: os.Stdout}
}

// Start prints the banner.
func (r *ConsoleReporter) Start(ctx context.Context) error {
	fmt.Fprintln(r.out, "Scanner Started")
	fmt.Fprintln(r.out, "===============")
	return nil
}

// Report prints an opportunity. Unprofitable rows get a compact single
// line only when ShowAll is set.
func (r *ConsoleReporter) Report(opp *domain.Opportunity) {
	if !opp.IsProfitable() {
		if r.ShowAll {
			fmt.Fprintf(r.out, "[%s] %-9s %s/%s %s size=%s spread=%sbps net=$%s\n",
				opp.Timestamp.Format("15:04:05"),
				opp.Pair.String(),
				opp.Exchange,
				opp.DexTitle,
				opp.Direction,
				opp.TradeSize.StringFixed(0),
				opp.Spread.BasisPoints.StringFixed(1),
				netProfit(opp).StringFixed(2),
			)
		}
		return
	}

	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, "================================================================================")
	fmt.Fprintln(r.out, "OPPORTUNITY DETECTED")
	fmt.Fprintln(r.out, "================================================================================")
	fmt.Fprintf(r.out, "Timestamp:      %s\n", opp.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(r.out, "Pair:           %s\n", opp.Pair.String())
	fmt.Fprintf(r.out, "Route:          %s / %s (%s)\n", opp.Exchange, opp.DexTitle, opp.Chain)
	fmt.Fprintf(r.out, "Direction:      %s\n", opp.Direction)
	fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
	fmt.Fprintln(r.out, "PRICES")
	fmt.Fprintf(r.out, "  CEX:            %s\n", opp.Spread.CEXPrice.StringFixed(6))
	fmt.Fprintf(r.out, "  DEX:            %s\n", opp.Spread.DEXPrice.StringFixed(6))
	fmt.Fprintf(r.out, "  Spread:         %s bps\n", opp.Spread.BasisPoints.StringFixed(2))
	fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
	fmt.Fprintln(r.out, "PROFIT")
	fmt.Fprintf(r.out, "  Size:           %s\n", opp.TradeSize.StringFixed(2))
	fmt.Fprintf(r.out, "  Gross:          $%s\n", opp.Profit.GrossProfit.StringFixed(2))
	fmt.Fprintf(r.out, "  Withdraw fee:   $%s\n", opp.Profit.WithdrawFee.StringFixed(2))
	fmt.Fprintf(r.out, "  Swap fee:       $%s\n", opp.Profit.SwapFee.StringFixed(2))
	fmt.Fprintf(r.out, "  Net:            $%s (%s%%)\n", opp.Profit.NetProfit.StringFixed(2), opp.Profit.NetProfitPct.StringFixed(2))
	fmt.Fprintln(r.out, "================================================================================")
}

// Stop prints the shutdown line.
func (r *ConsoleReporter) Stop() error {
	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, "Scanner Stopped")
	return nil
}

func netProfit(opp *domain.Opportunity) decimal.Decimal {
	if opp.Profit != nil {
		return opp.Profit.NetProfit
	}
	return decimal.Zero
}
