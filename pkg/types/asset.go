package types

// Asset is one of the three units profit is tracked in.
type Asset string

const (
	AssetSOL  Asset = "SOL"
	AssetUSDC Asset = "USDC"
	AssetUSDT Asset = "USDT"
)

// TrackedAssets lists every asset in a stable order, used when iterating
// per-asset totals deterministically.
//
//nolint:gochecknoglobals // Fixed asset universe
var TrackedAssets = []Asset{AssetSOL, AssetUSDC, AssetUSDT}

// Mint addresses of the tracked SPL tokens on Solana mainnet.
const (
	MintSOL  = "So11111111111111111111111111111111111111112"
	MintUSDC = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	MintUSDT = "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB"
)

//nolint:gochecknoglobals // Fixed mint lookup table
var mintToAsset = map[string]Asset{
	MintSOL:  AssetSOL,
	MintUSDC: AssetUSDC,
	MintUSDT: AssetUSDT,
}

// AssetForMint resolves a token mint address to a tracked asset.
// Unrecognized mints return false; transfers of those tokens are ignored
// because profit is only tracked in SOL, USDC and USDT.
func AssetForMint(mint string) (Asset, bool) {
	asset, ok := mintToAsset[mint]
	return asset, ok
}

// IsStablecoin reports whether the asset is pegged 1:1 to USD.
func (a Asset) IsStablecoin() bool {
	return a == AssetUSDC || a == AssetUSDT
}
