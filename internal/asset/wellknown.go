package asset

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Chain IDs
const (
	ChainIDEthereum = 1
	ChainIDBSC      = 56
	ChainIDPolygon  = 137
	ChainIDArbitrum = 42161
	ChainIDBase     = 8453
	ChainIDOptimism = 10
	ChainIDFiat     = 0 // Off-chain / fiat
)

// Well-known token addresses on Ethereum Mainnet
var (
	// Stablecoins
	AddrUSDCEthereum  = common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	AddrUSDTEthereum  = common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7")
	AddrDAIEthereum   = common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F")
	AddrFDUSDEthereum = common.HexToAddress("0xc5f0f7b66764F6ec8C8Dff7BA683102295E16409")

	// Wrapped
	AddrWETHEthereum = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	AddrWBTCEthereum = common.HexToAddress("0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599")
)

// Well-known token addresses on other chains
var (
	AddrUSDTBSC      = common.HexToAddress("0x55d398326f99059fF775485246999027B3197955")
	AddrUSDCBSC      = common.HexToAddress("0x8AC76a51cc950d9822D68b83fE1Ad97B32Cd580d")
	AddrUSDTPolygon  = common.HexToAddress("0xc2132D05D31c914a87C6611C10748AEb04B58e8F")
	AddrUSDCPolygon  = common.HexToAddress("0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359")
	AddrUSDTArbitrum = common.HexToAddress("0xFd086bC7CD5C481DCC9C85ebE478A1C0b69FCbb9")
	AddrUSDCArbitrum = common.HexToAddress("0xaf88d065e77c8cC2239327C5EDb3A432268e5831")
	AddrUSDCBase     = common.HexToAddress("0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913")
)

// Well-known AssetIDs
var (
	IDEthereumETH   = NewNativeAssetID(ChainIDEthereum)
	IDEthereumUSDC  = NewTokenAssetID(ChainIDEthereum, AddrUSDCEthereum)
	IDEthereumUSDT  = NewTokenAssetID(ChainIDEthereum, AddrUSDTEthereum)
	IDEthereumDAI   = NewTokenAssetID(ChainIDEthereum, AddrDAIEthereum)
	IDEthereumFDUSD = NewTokenAssetID(ChainIDEthereum, AddrFDUSDEthereum)
	IDEthereumWETH  = NewTokenAssetID(ChainIDEthereum, AddrWETHEthereum)
	IDEthereumWBTC  = NewTokenAssetID(ChainIDEthereum, AddrWBTCEthereum)

	IDBSCBNB      = NewNativeAssetID(ChainIDBSC)
	IDBSCUSDT     = NewTokenAssetID(ChainIDBSC, AddrUSDTBSC)
	IDBSCUSDC     = NewTokenAssetID(ChainIDBSC, AddrUSDCBSC)
	IDPolygonPOL  = NewNativeAssetID(ChainIDPolygon)
	IDPolygonUSDT = NewTokenAssetID(ChainIDPolygon, AddrUSDTPolygon)
	IDArbitrumETH = NewNativeAssetID(ChainIDArbitrum)
	IDBaseETH     = NewNativeAssetID(ChainIDBase)
	IDBaseUSDC    = NewTokenAssetID(ChainIDBase, AddrUSDCBase)

	// Fiat
	IDUSD = NewFiatAssetID("USD")
	IDIDR = NewFiatAssetID("IDR")
)

// Well-known Assets (pre-created instances)
var (
	ETH   = NewAssetWithName(IDEthereumETH, "ETH", "Ethereum", 18)
	USDC  = NewAssetWithName(IDEthereumUSDC, "USDC", "USD Coin", 6)
	USDT  = NewAssetWithName(IDEthereumUSDT, "USDT", "Tether USD", 6)
	DAI   = NewAssetWithName(IDEthereumDAI, "DAI", "Dai Stablecoin", 18)
	FDUSD = NewAssetWithName(IDEthereumFDUSD, "FDUSD", "First Digital USD", 18)
	WETH  = NewAssetWithName(IDEthereumWETH, "WETH", "Wrapped Ether", 18)
	WBTC  = NewAssetWithName(IDEthereumWBTC, "WBTC", "Wrapped Bitcoin", 8)

	BNB         = NewAssetWithName(IDBSCBNB, "BNB", "BNB", 18)
	USDTBSC     = NewAssetWithName(IDBSCUSDT, "USDT", "Tether USD (BSC)", 18)
	USDCBSC     = NewAssetWithName(IDBSCUSDC, "USDC", "USD Coin (BSC)", 18)
	POL         = NewAssetWithName(IDPolygonPOL, "POL", "Polygon Ecosystem Token", 18)
	USDTPolygon = NewAssetWithName(IDPolygonUSDT, "USDT", "Tether USD (Polygon)", 6)
	ETHArbitrum = NewAssetWithName(IDArbitrumETH, "ETH", "Ethereum (Arbitrum)", 18)
	ETHBase     = NewAssetWithName(IDBaseETH, "ETH", "Ethereum (Base)", 18)
	USDCBase    = NewAssetWithName(IDBaseUSDC, "USDC", "USD Coin (Base)", 6)

	// Fiat
	USD = NewAssetWithName(IDUSD, "USD", "US Dollar", 2)
	IDR = NewAssetWithName(IDIDR, "IDR", "Indonesian Rupiah", 0)
)

// stableSymbols are quote-pegged assets that always price at 1 against
// USDT, so orderbook fetches for them are skipped.
var stableSymbols = map[string]bool{
	"USDT":  true,
	"DAI":   true,
	"USDC":  true,
	"FDUSD": true,
}

// IsStableSymbol reports whether symbol is treated as a USD-pegged
// stablecoin. Comparison is case-insensitive.
func IsStableSymbol(symbol string) bool {
	return stableSymbols[strings.ToUpper(strings.TrimSpace(symbol))]
}

// DefaultRegistry returns a registry pre-populated with well-known assets.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	for _, a := range []*Asset{
		ETH, USDC, USDT, DAI, FDUSD, WETH, WBTC,
		BNB, USDTBSC, USDCBSC,
		POL, USDTPolygon,
		ETHArbitrum,
		ETHBase, USDCBase,
		USD, IDR,
	} {
		r.Register(a)
	}

	return r
}

// MustNewToken creates a new ERC20 token asset with the given parameters.
// This is a convenience function for registering custom tokens.
func MustNewToken(chainID uint64, address common.Address, symbol, name string, decimals uint8) *Asset {
	id := NewTokenAssetID(chainID, address)
	return NewAssetWithName(id, symbol, name, decimals)
}

// MustNewNative creates a new native coin asset.
func MustNewNative(chainID uint64, symbol, name string, decimals uint8) *Asset {
	id := NewNativeAssetID(chainID)
	return NewAssetWithName(id, symbol, name, decimals)
}
