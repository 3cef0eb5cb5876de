package books

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/ardika/scanarb/business/cexprice/domain"
	"github.com/ardika/scanarb/internal/apperror"
	"github.com/ardika/scanarb/internal/logger"
)

// RateSource provides the IDR-per-USDT rate used to convert Indodax books
// into USDT terms.
type RateSource interface {
	IDRPerUSDT(ctx context.Context) (decimal.Decimal, error)
}

// indodaxNormalizer parses {buy, sell} tuple arrays quoted in IDR and
// converts every price and notional to USDT.
type indodaxNormalizer struct {
	fx  RateSource
	log logger.LoggerInterface
}

func (n *indodaxNormalizer) Normalize(ctx context.Context, raw []byte, depth int) (domain.NormalizedOrderbook, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return domain.NormalizedOrderbook{}, apperror.New(apperror.CodeInvalidOrderbook, apperror.WithCause(err))
	}

	buy, hasBuy := keys["buy"]
	sell, hasSell := keys["sell"]
	if !hasBuy || !hasSell {
		n.log.Warn(ctx, "indodax orderbook missing buy/sell, treating as no liquidity")
		return domain.NormalizedOrderbook{}, nil
	}

	rate, err := n.fx.IDRPerUSDT(ctx)
	if err != nil || rate.Sign() <= 0 {
		// Without a usable rate the book cannot be priced; empty means
		// "no liquidity" downstream instead of poisoning prices with IDR.
		n.log.Warn(ctx, "usdt/idr rate unavailable, dropping indodax book", "error", err)
		return domain.NormalizedOrderbook{}, nil
	}

	var bidTuples, askTuples []json.RawMessage
	if err := json.Unmarshal(buy, &bidTuples); err != nil {
		return domain.NormalizedOrderbook{}, apperror.New(apperror.CodeInvalidOrderbook, apperror.WithCause(err))
	}
	if err := json.Unmarshal(sell, &askTuples); err != nil {
		return domain.NormalizedOrderbook{}, apperror.New(apperror.CodeInvalidOrderbook, apperror.WithCause(err))
	}

	return assemble(bidTuples, askTuples, depth, rate)
}
