package ports

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrRateUnavailable is returned when the price oracle has no rate for
	// the requested fiat/asset pair or cannot be reached.
	ErrRateUnavailable = errors.New("conversion rate unavailable")
	// ErrNoRouteAvailable is returned when the swap router has no conversion
	// path between the requested assets or cannot be reached.
	ErrNoRouteAvailable = errors.New("no swap route available")
)

// QuoteResult is the fixed result shape of a fiat to settlement asset quote.
type QuoteResult struct {
	Rate             decimal.Decimal
	SettlementAmount decimal.Decimal
}

// PriceSource is the boundary towards the external price oracle providing
// fiat to settlement asset quotes. Implementations must return an error when
// no rate is available, never a defaulted one.
type PriceSource interface {
	GetQuote(
		ctx context.Context,
		fiatAmount decimal.Decimal, fiatCurrency, settlementAsset string,
	) (*QuoteResult, error)
}

// SwapResult is the fixed result shape of a source to settlement asset
// conversion preview.
type SwapResult struct {
	RequiredSourceAmount decimal.Decimal
	SlippageBoundPct     decimal.Decimal
}

// SwapRouter is the boundary towards the external swap simulator used to
// preview a source asset conversion with its slippage bound.
type SwapRouter interface {
	SimulateSwap(
		ctx context.Context,
		sourceAsset, settlementAsset string, targetAmount decimal.Decimal,
	) (*SwapResult, error)
}
