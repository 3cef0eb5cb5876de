package books

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ardika/scanarb/internal/config"
)

// ConfigFeeSource resolves withdrawal fees from the static per-exchange
// tables in config. Unknown symbols cost zero.
type ConfigFeeSource struct {
	endpoints map[string]config.ExchangeConfig
}

// NewConfigFeeSource creates a fee source over the configured endpoints.
func NewConfigFeeSource(endpoints map[string]config.ExchangeConfig) *ConfigFeeSource {
	return &ConfigFeeSource{endpoints: endpoints}
}

// WithdrawFeeRaw returns the fee in raw token units for symbol on exchange.
func (s *ConfigFeeSource) WithdrawFeeRaw(exchange, symbol string) decimal.Decimal {
	ex, ok := s.endpoints[strings.ToUpper(exchange)]
	if !ok {
		return decimal.Zero
	}
	fee, ok := ex.WithdrawFees[strings.ToUpper(symbol)]
	if !ok {
		return decimal.Zero
	}
	return decimal.NewFromFloat(fee)
}
