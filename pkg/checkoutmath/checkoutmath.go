package checkoutmath

import (
	"github.com/shopspring/decimal"
)

const (
	// FiatDisplayPrecision is the number of decimal places used when
	// rendering fiat amounts to the buyer.
	FiatDisplayPrecision = 2
	// CryptoDisplayPrecision is the maximum number of decimal places used
	// when rendering crypto amounts to the buyer. Internal values keep full
	// precision until submission.
	CryptoDisplayPrecision = 7
)

func init() {
	decimal.DivisionPrecision = 16
}

// SettlementAmount converts a fiat amount into the settlement asset by
// applying the given fiat rate.
func SettlementAmount(fiatAmount, rate decimal.Decimal) decimal.Decimal {
	return fiatAmount.Mul(rate)
}

// RequiredSourceAmount returns the source asset amount needed to obtain the
// given target amount at the given source/target conversion rate.
func RequiredSourceAmount(targetAmount, rate decimal.Decimal) decimal.Decimal {
	return targetAmount.Div(rate)
}

// WithinSlippageCeiling returns whether a simulator-reported slippage bound
// is acceptable for the given ceiling, both expressed as percentages.
func WithinSlippageCeiling(boundPct, ceilingPct decimal.Decimal) bool {
	return boundPct.LessThanOrEqual(ceilingPct)
}

// FormatFiat renders a fiat amount with exactly FiatDisplayPrecision decimal
// places.
func FormatFiat(amount decimal.Decimal) string {
	return amount.StringFixed(FiatDisplayPrecision)
}

// FormatCrypto renders a crypto amount with up to CryptoDisplayPrecision
// decimal places.
func FormatCrypto(amount decimal.Decimal) string {
	return amount.Round(CryptoDisplayPrecision).String()
}

// FormatPct renders a percentage with up to two decimal places.
func FormatPct(pct decimal.Decimal) string {
	return pct.Round(2).String()
}
