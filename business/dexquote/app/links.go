package app

import (
	"fmt"
	"strings"

	"github.com/ardika/scanarb/business/dexquote/domain"
)

// DexLinks builds deep links into aggregator front-ends, used in error
// payloads so a rejected quote can be checked by hand. Extra maps in
// config extend the built-in set.
type DexLinks struct {
	overrides map[string]string // dexKey -> URL template
}

// NewDexLinks creates a link builder. Override templates may use the
// placeholders {chain}, {chainCode}, {in} and {out}.
func NewDexLinks(overrides map[string]string) *DexLinks {
	return &DexLinks{overrides: overrides}
}

// DeepLink returns the aggregator's own UI URL for the swap, or ""
// when the DEX has no known front-end.
func (b *DexLinks) DeepLink(dexKey string, p domain.QuoteParams) string {
	key := strings.ToLower(dexKey)
	if tmpl, ok := b.overrides[key]; ok {
		return expandLink(tmpl, p)
	}

	switch key {
	case "kyber", "kyberswap", "zero-kyber":
		return fmt.Sprintf("https://kyberswap.com/swap/%s/%s-to-%s",
			p.ChainName, strings.ToLower(p.SymbolIn), strings.ToLower(p.SymbolOut))
	case "1inch", "zero-1inch":
		return fmt.Sprintf("https://app.1inch.io/#/%s/simple/swap/%s/%s",
			p.ChainCode, p.ContractIn, p.ContractOut)
	case "odos", "hinkal":
		return fmt.Sprintf("https://app.odos.xyz/?chain=%s&inputToken=%s&outputToken=%s",
			p.ChainName, p.ContractIn, p.ContractOut)
	case "0x", "matcha":
		return fmt.Sprintf("https://matcha.xyz/tokens/%s/%s",
			p.ChainName, strings.ToLower(p.ContractOut))
	case "okx":
		return fmt.Sprintf("https://www.okx.com/web3/dex-swap?inputChain=%s&inputCurrency=%s&outputCurrency=%s",
			p.ChainCode, p.ContractIn, p.ContractOut)
	case "paraswap":
		return fmt.Sprintf("https://app.paraswap.io/#/%s-%s?network=%s",
			p.ContractIn, p.ContractOut, p.ChainName)
	default:
		return ""
	}
}

func expandLink(tmpl string, p domain.QuoteParams) string {
	r := strings.NewReplacer(
		"{chain}", p.ChainName,
		"{chainCode}", p.ChainCode,
		"{in}", p.ContractIn,
		"{out}", p.ContractOut,
	)
	return r.Replace(tmpl)
}
