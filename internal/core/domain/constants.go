package domain

const (
	CheckoutStatusCodeIdle = iota
	CheckoutStatusCodeDetectingAssets
	CheckoutStatusCodeQuoting
	CheckoutStatusCodePreviewingSwap
	CheckoutStatusCodeAwaitingConfirmation
	CheckoutStatusCodeSubmitting
	CheckoutStatusCodeUnresolved
	CheckoutStatusCodeSettled
	CheckoutStatusCodeFailed
)

// FailureReason qualifies a Failed checkout. It mirrors the error returned to
// the buyer when the session reached its terminal failed status.
type FailureReason string

const (
	FailureReasonNone              FailureReason = ""
	FailureReasonWalletUnavailable FailureReason = "wallet_unavailable"
	FailureReasonRateUnavailable   FailureReason = "rate_unavailable"
	FailureReasonNoRouteAvailable  FailureReason = "no_route_available"
	FailureReasonSlippageExceeded  FailureReason = "slippage_exceeded"
	FailureReasonQuoteExpired      FailureReason = "quote_expired"
	FailureReasonUnknown           FailureReason = "unknown_failure"
)

const (
	// EventTypeInteraction is recorded when a buyer coming from a shared
	// product link starts interacting with the checkout.
	EventTypeInteraction = "interaction"
	// EventTypeConversion is recorded exactly once per settled purchase.
	EventTypeConversion = "conversion"
)
