// Package domain holds the DEX quoting domain types.
package domain

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ardika/scanarb/internal/apperror"
	"github.com/ardika/scanarb/internal/asset"
)

// Direction describes which way a quote leg swaps.
type Direction string

const (
	// TokenToPair swaps the scanned token into its pair asset.
	TokenToPair Direction = "token_to_pair"
	// PairToToken swaps the pair asset back into the scanned token.
	PairToToken Direction = "pair_to_token"
)

// ParseDirection normalizes a direction string case-insensitively.
// Accepts both the canonical snake_case form and the compact form
// ("tokentopair") used by older configs.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")) {
	case "token_to_pair", "tokentopair":
		return TokenToPair, nil
	case "pair_to_token", "pairtotoken":
		return PairToToken, nil
	default:
		return "", apperror.New(apperror.CodeInvalidInput,
			apperror.WithContext("direction", s))
	}
}

// String implements fmt.Stringer.
func (d Direction) String() string { return string(d) }

// QuoteParams describes one DEX quote request. It is immutable per call
// so that a retried or escalated attempt builds the exact same request.
type QuoteParams struct {
	SymbolIn    string
	SymbolOut   string
	ContractIn  string // hex address on EVM chains, base58 on Solana
	ContractOut string
	DecimalsIn  int
	DecimalsOut int
	ChainName   string // registry key, e.g. "bsc"
	ChainCode   string // numeric chain id as string, e.g. "56"
	AmountIn    decimal.Decimal
	Direction   Direction
	ExchangeKey string // CEX this leg is scanned against, for reporting only
	Aggregator  string // requested aggregator key, lowercase
}

// AmountInRaw scales AmountIn to the token's smallest unit, rounding to
// the nearest integer.
func (p QuoteParams) AmountInRaw() *big.Int {
	return asset.ToRaw(p.AmountIn, p.DecimalsIn)
}

// DexQuote is one successfully resolved aggregator quote. AmountOut is
// always in whole output-token units; parsers divide the raw integer
// amount by 10^DecimalsOut before constructing a DexQuote.
type DexQuote struct {
	DexTitle    string
	ScIn        string
	DecimalsIn  int
	ScOut       string
	DecimalsOut int
	FeeSwapUSD  decimal.Decimal
	AmountOut   decimal.Decimal
	APIURL      string
	// RouteTool is the identifier of the venue that actually filled the
	// route when a router (LiFi) picked it. Empty for direct quotes.
	RouteTool string
	// RouteOverrideDex is RouteTool mapped back to a canonical aggregator
	// key, when the mapping is known.
	RouteOverrideDex string
}

// DivideRaw converts a raw integer amount string into whole token units.
func DivideRaw(raw string, decimals int) (decimal.Decimal, error) {
	d, err := asset.FromRaw(raw, decimals)
	if err != nil {
		return decimal.Zero, apperror.New(apperror.CodeQuoteSchemaInvalid,
			apperror.WithCause(err),
			apperror.WithContext("raw_amount", raw))
	}
	return d, nil
}
