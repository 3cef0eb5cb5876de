// Package aggregators implements the per-aggregator quote strategies.
package aggregators

import (
	"strings"

	"github.com/ardika/scanarb/internal/apperror"
)

// Kind identifies one supported aggregator. The set is closed so a
// missing strategy is caught by the exhaustive switch in For, not by a
// runtime string miss.
type Kind int

const (
	KindUnknown Kind = iota
	KindKyber
	KindOneInch
	KindOdos
	KindHinkal
	KindZeroX
	KindOKX
	KindParaswap
	KindFly
	KindZeroOneInch
	KindZeroKyber
)

var kindNames = map[Kind]string{
	KindKyber:       "kyber",
	KindOneInch:     "1inch",
	KindOdos:        "odos",
	KindHinkal:      "hinkal",
	KindZeroX:       "0x",
	KindOKX:         "okx",
	KindParaswap:    "paraswap",
	KindFly:         "fly",
	KindZeroOneInch: "zero-1inch",
	KindZeroKyber:   "zero-kyber",
}

// String returns the canonical lowercase key.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Title returns the uppercase display name used in quote results.
func (k Kind) Title() string {
	return strings.ToUpper(k.String())
}

// IsOdosFamily reports whether k escalates on any error, not just 429.
func (k Kind) IsOdosFamily() bool {
	return k == KindOdos || k == KindHinkal
}

// ParseKind resolves an aggregator key, folding known aliases onto
// their canonical kinds.
func ParseKind(key string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "kyber", "kyberswap":
		return KindKyber, nil
	case "1inch", "oneinch", "lifi":
		return KindOneInch, nil
	case "odos":
		return KindOdos, nil
	case "hinkal":
		return KindHinkal, nil
	case "0x", "matcha", "zerox":
		return KindZeroX, nil
	case "okx":
		return KindOKX, nil
	case "paraswap":
		return KindParaswap, nil
	case "fly":
		return KindFly, nil
	case "zero-1inch":
		return KindZeroOneInch, nil
	case "zero-kyber":
		return KindZeroKyber, nil
	default:
		return KindUnknown, apperror.New(apperror.CodeAggregatorNotFound,
			apperror.WithContext("aggregator", key))
	}
}
