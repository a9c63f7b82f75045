package swaprouter

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/chatcheckout/checkout-daemon/internal/core/ports"
	"github.com/chatcheckout/checkout-daemon/pkg/checkoutmath"
)

type staticService struct {
	// rates maps "SOURCE_TARGET" pairs to the source/target conversion rate.
	rates       map[string]decimal.Decimal
	slippagePct decimal.Decimal
}

// NewStaticSwapRouter returns a SwapRouter backed by a fixed conversion table
// with a constant slippage bound. Intended for development and demos.
func NewStaticSwapRouter(
	rates map[string]decimal.Decimal, slippagePct decimal.Decimal,
) ports.SwapRouter {
	if rates == nil {
		rates = DefaultRoutes()
	}
	return &staticService{rates, slippagePct}
}

// DefaultRoutes is the demo conversion table.
func DefaultRoutes() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"AQUA_USDC": decimal.RequireFromString("0.08"),
		"XLM_USDC":  decimal.RequireFromString("0.11"),
	}
}

func (s *staticService) SimulateSwap(
	_ context.Context,
	sourceAsset, settlementAsset string, targetAmount decimal.Decimal,
) (*ports.SwapResult, error) {
	if sourceAsset == settlementAsset {
		return &ports.SwapResult{
			RequiredSourceAmount: targetAmount,
			SlippageBoundPct:     decimal.Zero,
		}, nil
	}

	rate, ok := s.rates[fmt.Sprintf("%s_%s", sourceAsset, settlementAsset)]
	if !ok {
		return nil, ports.ErrNoRouteAvailable
	}

	return &ports.SwapResult{
		RequiredSourceAmount: checkoutmath.RequiredSourceAmount(targetAmount, rate),
		SlippageBoundPct:     s.slippagePct,
	}, nil
}
