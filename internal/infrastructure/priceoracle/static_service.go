package priceoracle

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/chatcheckout/checkout-daemon/internal/core/ports"
	"github.com/chatcheckout/checkout-daemon/pkg/checkoutmath"
)

type staticService struct {
	rates map[string]decimal.Decimal
}

// NewStaticPriceSource returns a PriceSource backed by a fixed rate table
// keyed by "FIAT_ASSET" pairs. Intended for development and demos.
func NewStaticPriceSource(rates map[string]decimal.Decimal) ports.PriceSource {
	if rates == nil {
		rates = DefaultRates()
	}
	return &staticService{rates}
}

// DefaultRates is the demo rate table.
func DefaultRates() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"BRL_USDC": decimal.RequireFromString("0.19"),
		"BRL_XLM":  decimal.RequireFromString("8.5"),
	}
}

func (s *staticService) GetQuote(
	_ context.Context,
	fiatAmount decimal.Decimal, fiatCurrency, settlementAsset string,
) (*ports.QuoteResult, error) {
	rate, ok := s.rates[fmt.Sprintf("%s_%s", fiatCurrency, settlementAsset)]
	if !ok {
		return nil, ports.ErrRateUnavailable
	}

	return &ports.QuoteResult{
		Rate:             rate,
		SettlementAmount: checkoutmath.SettlementAmount(fiatAmount, rate),
	}, nil
}
