package wallet

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/chatcheckout/checkout-daemon/internal/core/ports"
)

type staticService struct {
	assets []ports.HeldAsset
}

// NewStaticAssetDetector returns an AssetDetector that reports the same asset
// list for every wallet address. Intended for development and demos.
func NewStaticAssetDetector(assets []ports.HeldAsset) ports.AssetDetector {
	if assets == nil {
		assets = DefaultAssets()
	}
	return &staticService{assets}
}

// DefaultAssets is the demo wallet content.
func DefaultAssets() []ports.HeldAsset {
	return []ports.HeldAsset{
		{Asset: "AQUA", Balance: decimal.NewFromInt(5000)},
		{Asset: "XLM", Balance: decimal.NewFromInt(50)},
		{Asset: "USDC", Balance: decimal.NewFromInt(120)},
	}
}

func (s *staticService) ListAssets(
	_ context.Context, _ string,
) ([]ports.HeldAsset, error) {
	return s.assets, nil
}
