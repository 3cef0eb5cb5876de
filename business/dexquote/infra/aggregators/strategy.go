package aggregators

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ardika/scanarb/business/dexquote/domain"
	"github.com/ardika/scanarb/internal/apperror"
	"github.com/ardika/scanarb/internal/signer"
)

// RequestSpec is the HTTP request a strategy wants issued. Building the
// spec never performs I/O; the orchestrator owns sending.
type RequestSpec struct {
	Method  string
	URL     string
	Body    any // JSON-encoded when non-nil
	Headers map[string]string
}

// FeeEstimator supplies the chain-level USD swap fee used when an
// aggregator does not report gas cost.
type FeeEstimator interface {
	FeeSwapUSD(chain string) decimal.Decimal
}

// Strategy is one aggregator's request/parse contract. BuildRequest is
// a pure function of its params so an escalated retry is deterministic.
type Strategy interface {
	Kind() Kind
	BuildRequest(p domain.QuoteParams) (RequestSpec, error)
	ParseResponse(body []byte, p domain.QuoteParams) (*domain.DexQuote, error)
	// AllowsProxy is false for strategies that must hit the aggregator
	// directly, e.g. signed requests where a proxy would break the HMAC.
	AllowsProxy() bool
}

// Deps carries the cross-strategy collaborators.
type Deps struct {
	Wallet string
	Keys   *signer.KeyPool
	Fees   FeeEstimator
	// BaseURLs maps canonical aggregator keys to endpoint overrides.
	BaseURLs map[string]string
	// APIKeys maps canonical aggregator keys to credentials for the
	// providers that want a key header (0x, 1inch).
	APIKeys map[string]string
}

func (d Deps) baseURL(k Kind, def string) string {
	if url, ok := d.BaseURLs[k.String()]; ok && url != "" {
		return url
	}
	return def
}

func (d Deps) apiKey(k Kind) string {
	return d.APIKeys[k.String()]
}

// For returns the strategy for a kind. The switch is exhaustive over
// the Kind constants; an unhandled kind is a programming error.
func For(kind Kind, deps Deps) (Strategy, error) {
	switch kind {
	case KindKyber:
		return &kyberStrategy{deps: deps}, nil
	case KindOneInch:
		return &oneInchStrategy{deps: deps}, nil
	case KindOdos:
		return &odosStrategy{deps: deps, kind: KindOdos}, nil
	case KindHinkal:
		return &odosStrategy{deps: deps, kind: KindHinkal}, nil
	case KindZeroX:
		return &zeroXStrategy{deps: deps, kind: KindZeroX}, nil
	case KindZeroOneInch:
		return &zeroXStrategy{deps: deps, kind: KindZeroOneInch, sources: "1inch"}, nil
	case KindZeroKyber:
		return &zeroXStrategy{deps: deps, kind: KindZeroKyber, sources: "KyberSwap"}, nil
	case KindOKX:
		return &okxStrategy{deps: deps}, nil
	case KindParaswap:
		return &paraswapStrategy{deps: deps}, nil
	case KindFly:
		return &flyStrategy{deps: deps}, nil
	case KindUnknown:
		return nil, apperror.New(apperror.CodeAggregatorNotFound)
	default:
		return nil, apperror.New(apperror.CodeInternalError,
			apperror.WithContext("kind", fmt.Sprintf("%d", int(kind))))
	}
}

// schemaErr flags a response that decoded but is missing a field the
// contract requires.
func schemaErr(kind Kind, field string) error {
	return apperror.New(apperror.CodeQuoteSchemaInvalid,
		apperror.WithContext("aggregator", kind.String()),
		apperror.WithContext("missing_field", field))
}

// parseErr flags a body that is not valid JSON at all.
func parseErr(kind Kind, cause error) error {
	return apperror.New(apperror.CodeQuoteParseError,
		apperror.WithCause(cause),
		apperror.WithContext("aggregator", kind.String()))
}

// quoteFromRaw assembles the common DexQuote fields, dividing the raw
// output amount by 10^DecimalsOut.
func quoteFromRaw(kind Kind, rawOut string, feeUSD decimal.Decimal, p domain.QuoteParams) (*domain.DexQuote, error) {
	out, err := domain.DivideRaw(rawOut, p.DecimalsOut)
	if err != nil {
		return nil, err
	}
	return &domain.DexQuote{
		DexTitle:    kind.Title(),
		ScIn:        p.ContractIn,
		DecimalsIn:  p.DecimalsIn,
		ScOut:       p.ContractOut,
		DecimalsOut: p.DecimalsOut,
		FeeSwapUSD:  feeUSD,
		AmountOut:   out,
	}, nil
}

// feeOrFallback parses a provider-reported USD gas cost, falling back
// to the chain estimate when the field is absent or unreadable.
func feeOrFallback(fees FeeEstimator, chain, reported string) decimal.Decimal {
	if reported != "" {
		if fee, err := decimal.NewFromString(reported); err == nil && !fee.IsNegative() {
			return fee
		}
	}
	return fees.FeeSwapUSD(chain)
}
