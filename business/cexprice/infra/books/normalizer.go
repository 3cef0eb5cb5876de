// Package books fetches and normalizes exchange orderbooks into the
// domain shape.
package books

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ardika/scanarb/business/cexprice/domain"
	"github.com/ardika/scanarb/internal/apperror"
	"github.com/ardika/scanarb/internal/logger"
)

// Normalizer turns a raw exchange payload into a NormalizedOrderbook.
// A payload missing its required top-level keys yields an empty book and
// no error; only malformed JSON is an error.
type Normalizer interface {
	Normalize(ctx context.Context, raw []byte, depth int) (domain.NormalizedOrderbook, error)
}

// ForKind returns the normalizer for a configured parser kind.
func ForKind(kind string, fx RateSource, log logger.LoggerInterface) (Normalizer, error) {
	switch kind {
	case "standard":
		return &standardNormalizer{log: log}, nil
	case "kucoin":
		return &envelopeNormalizer{field: "data", log: log}, nil
	case "bitget":
		return &envelopeNormalizer{field: "data", log: log}, nil
	case "bybit":
		return &bybitNormalizer{log: log}, nil
	case "indodax":
		return &indodaxNormalizer{fx: fx, log: log}, nil
	default:
		return nil, apperror.New(apperror.CodeInvalidOrderbook,
			apperror.WithContext("parser", kind),
		)
	}
}

// rawBook is the standard shape: bids/asks as [price, volume] tuples.
// Tuples arrive as strings on some exchanges and numbers on others.
type rawBook struct {
	Bids []json.RawMessage `json:"bids"`
	Asks []json.RawMessage `json:"asks"`
}

type standardNormalizer struct {
	log logger.LoggerInterface
}

func (n *standardNormalizer) Normalize(ctx context.Context, raw []byte, depth int) (domain.NormalizedOrderbook, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return domain.NormalizedOrderbook{}, apperror.New(apperror.CodeInvalidOrderbook, apperror.WithCause(err))
	}

	bids, hasBids := keys["bids"]
	asks, hasAsks := keys["asks"]
	if !hasBids || !hasAsks {
		n.log.Warn(ctx, "orderbook payload missing bids/asks, treating as no liquidity")
		return domain.NormalizedOrderbook{}, nil
	}

	return buildBook(bids, asks, depth)
}

// envelopeNormalizer unwraps a single field (Kucoin/Bitget style) and
// delegates to the standard shape.
type envelopeNormalizer struct {
	field string
	log   logger.LoggerInterface
}

func (n *envelopeNormalizer) Normalize(ctx context.Context, raw []byte, depth int) (domain.NormalizedOrderbook, error) {
	var outer map[string]json.RawMessage
	if err := json.Unmarshal(raw, &outer); err != nil {
		return domain.NormalizedOrderbook{}, apperror.New(apperror.CodeInvalidOrderbook, apperror.WithCause(err))
	}

	inner, ok := outer[n.field]
	if !ok || string(inner) == "null" {
		n.log.Warn(ctx, "orderbook envelope missing data field, treating as no liquidity", "field", n.field)
		return domain.NormalizedOrderbook{}, nil
	}

	std := standardNormalizer{log: n.log}
	return std.Normalize(ctx, inner, depth)
}

// bybitNormalizer remaps {result:{a: asks, b: bids}} into the standard
// shape before delegating.
type bybitNormalizer struct {
	log logger.LoggerInterface
}

func (n *bybitNormalizer) Normalize(ctx context.Context, raw []byte, depth int) (domain.NormalizedOrderbook, error) {
	var payload struct {
		Result map[string]json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return domain.NormalizedOrderbook{}, apperror.New(apperror.CodeInvalidOrderbook, apperror.WithCause(err))
	}

	asks, hasAsks := payload.Result["a"]
	bids, hasBids := payload.Result["b"]
	if !hasAsks || !hasBids {
		n.log.Warn(ctx, "bybit orderbook missing a/b sides, treating as no liquidity")
		return domain.NormalizedOrderbook{}, nil
	}

	var bidTuples, askTuples []json.RawMessage
	if err := json.Unmarshal(bids, &bidTuples); err != nil {
		return domain.NormalizedOrderbook{}, apperror.New(apperror.CodeInvalidOrderbook, apperror.WithCause(err))
	}
	if err := json.Unmarshal(asks, &askTuples); err != nil {
		return domain.NormalizedOrderbook{}, apperror.New(apperror.CodeInvalidOrderbook, apperror.WithCause(err))
	}

	return assemble(bidTuples, askTuples, depth, decimal.NewFromInt(1))
}

// buildBook parses both sides from raw tuple arrays.
func buildBook(bids, asks json.RawMessage, depth int) (domain.NormalizedOrderbook, error) {
	var bidTuples, askTuples []json.RawMessage
	if err := json.Unmarshal(bids, &bidTuples); err != nil {
		return domain.NormalizedOrderbook{}, apperror.New(apperror.CodeInvalidOrderbook, apperror.WithCause(err))
	}
	if err := json.Unmarshal(asks, &askTuples); err != nil {
		return domain.NormalizedOrderbook{}, apperror.New(apperror.CodeInvalidOrderbook, apperror.WithCause(err))
	}
	return assemble(bidTuples, askTuples, depth, decimal.NewFromInt(1))
}

// assemble converts tuples to levels, sorts both sides and truncates to
// depth. divisor converts prices and notionals into USDT terms (1 for
// books already quoted in USDT).
func assemble(bidTuples, askTuples []json.RawMessage, depth int, divisor decimal.Decimal) (domain.NormalizedOrderbook, error) {
	buyLevels, err := parseLevels(bidTuples, divisor)
	if err != nil {
		return domain.NormalizedOrderbook{}, err
	}
	sellLevels, err := parseLevels(askTuples, divisor)
	if err != nil {
		return domain.NormalizedOrderbook{}, err
	}

	// Best bid first, best ask first.
	sort.Slice(buyLevels, func(i, j int) bool {
		return buyLevels[i].Price.GreaterThan(buyLevels[j].Price)
	})
	sort.Slice(sellLevels, func(i, j int) bool {
		return sellLevels[i].Price.LessThan(sellLevels[j].Price)
	})

	if len(buyLevels) > depth {
		buyLevels = buyLevels[:depth]
	}
	if len(sellLevels) > depth {
		sellLevels = sellLevels[:depth]
	}

	return domain.NormalizedOrderbook{BuyLevels: buyLevels, SellLevels: sellLevels}, nil
}

func parseLevels(tuples []json.RawMessage, divisor decimal.Decimal) ([]domain.OrderbookLevel, error) {
	levels := make([]domain.OrderbookLevel, 0, len(tuples))
	for _, t := range tuples {
		var tuple []any
		if err := json.Unmarshal(t, &tuple); err != nil || len(tuple) < 2 {
			return nil, apperror.New(apperror.CodeInvalidOrderbook,
				apperror.WithContext("tuple", string(t)),
			)
		}

		price, err := toDecimal(tuple[0])
		if err != nil {
			return nil, err
		}
		baseVol, err := toDecimal(tuple[1])
		if err != nil {
			return nil, err
		}

		levels = append(levels, domain.OrderbookLevel{
			Price:  price.Div(divisor),
			Volume: price.Mul(baseVol).Div(divisor),
		})
	}
	return levels, nil
}

// toDecimal accepts the string and numeric encodings exchanges use
// interchangeably for prices and volumes.
func toDecimal(v any) (decimal.Decimal, error) {
	switch val := v.(type) {
	case string:
		d, err := decimal.NewFromString(val)
		if err != nil {
			return decimal.Zero, apperror.New(apperror.CodeInvalidOrderbook, apperror.WithCause(err))
		}
		return d, nil
	case float64:
		return decimal.NewFromFloat(val), nil
	case json.Number:
		d, err := decimal.NewFromString(val.String())
		if err != nil {
			return decimal.Zero, apperror.New(apperror.CodeInvalidOrderbook, apperror.WithCause(err))
		}
		return d, nil
	default:
		return decimal.Zero, apperror.New(apperror.CodeInvalidOrderbook,
			apperror.WithContext("value", fmt.Sprintf("%T", v)),
		)
	}
}
