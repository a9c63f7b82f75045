package domain

import (
	"fmt"
	"time"

	"github.com/chatcheckout/checkout-daemon/pkg/checkoutmath"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/thanhpk/randstr"
)

// CheckoutStatus represents the different statuses a checkout session can
// assume during its lifecycle.
type CheckoutStatus struct {
	Code   int
	Failed bool
}

// AssetBalance is an asset held by the buyer's wallet at detection time.
type AssetBalance struct {
	Asset   string
	Balance decimal.Decimal
}

// Quote is a fiat to settlement asset conversion returned by the price
// source. It is stored as a whole, never partially updated.
type Quote struct {
	Rate             decimal.Decimal
	SettlementAmount decimal.Decimal
}

// SwapPreview is a source to settlement asset conversion preview returned by
// the swap router.
type SwapPreview struct {
	RequiredSourceAmount decimal.Decimal
	SlippageBoundPct     decimal.Decimal
}

// StatusUpdate is a human-readable status message rendered to the buyer at a
// transition, carrying the literal amounts computed at that step.
type StatusUpdate struct {
	Stage     string
	Message   string
	Timestamp int64
}

// CheckoutSession is the data structure representing a single crypto checkout
// attempt driven by one chat conversation.
type CheckoutSession struct {
	Id               string
	ConversationId   string
	ProductReference string
	LinkId           string
	FiatAmount       decimal.Decimal
	FiatCurrency     string
	SettlementAsset  string
	SourceAsset      string
	DetectedAssets   []AssetBalance
	Quote            *Quote
	SwapPreview      *SwapPreview
	Status           CheckoutStatus
	FailureReason    FailureReason
	FailureMessage   string
	TransactionId    string
	IdempotencyKey   string
	QuoteExpiryTime  int64
	SettlementTime   int64
	CreatedAt        int64
	Events           []StatusUpdate
}

// NewCheckoutSession returns an Idle checkout session for the given product
// and fiat price after validating the monetary arguments.
func NewCheckoutSession(
	conversationId, productRef, linkId string,
	fiatAmount decimal.Decimal, fiatCurrency, settlementAsset string,
) (*CheckoutSession, error) {
	if !fiatAmount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if len(settlementAsset) <= 0 {
		return nil, ErrInvalidAsset
	}

	return &CheckoutSession{
		Id:               uuid.New().String(),
		ConversationId:   conversationId,
		ProductReference: productRef,
		LinkId:           linkId,
		FiatAmount:       fiatAmount,
		FiatCurrency:     fiatCurrency,
		SettlementAsset:  settlementAsset,
		Status:           CheckoutStatus{Code: CheckoutStatusCodeIdle},
		CreatedAt:        time.Now().Unix(),
		Events:           make([]StatusUpdate, 0),
	}, nil
}

// StartDetection brings an Idle checkout to the DetectingAssets status.
func (c *CheckoutSession) StartDetection() error {
	if c.Status.Code >= CheckoutStatusCodeDetectingAssets {
		return nil
	}

	c.Status.Code = CheckoutStatusCodeDetectingAssets
	c.pushEvent("detecting", "connecting to your wallet and detecting tokens")
	return nil
}

// CompleteDetection stores the detected asset list and the selected source
// asset, bringing the checkout from DetectingAssets to Quoting. An empty
// asset list is valid at this stage; source asset selection failures are the
// caller's concern.
func (c *CheckoutSession) CompleteDetection(
	assets []AssetBalance, sourceAsset string,
) error {
	if c.Status.Code >= CheckoutStatusCodeQuoting {
		return nil
	}
	if c.Status.Code != CheckoutStatusCodeDetectingAssets {
		return ErrCheckoutMustBeDetecting
	}
	if len(sourceAsset) <= 0 {
		return ErrInvalidAsset
	}

	c.DetectedAssets = assets
	c.SourceAsset = sourceAsset
	c.Status.Code = CheckoutStatusCodeQuoting
	c.pushEvent("detected", fmt.Sprintf(
		"%d tokens detected, paying with %s", len(assets), sourceAsset,
	))
	return nil
}

// ApplyQuote stores a fresh quote and brings the checkout from Quoting to
// PreviewingSwap. A non-positive rate or settlement amount is rejected as an
// invalid quote, never silently defaulted.
func (c *CheckoutSession) ApplyQuote(
	rate, settlementAmount decimal.Decimal, ttl time.Duration,
) error {
	if c.Status.Code >= CheckoutStatusCodePreviewingSwap {
		return nil
	}
	if c.Status.Code != CheckoutStatusCodeQuoting {
		return ErrCheckoutMustBeQuoting
	}
	if !rate.IsPositive() || !settlementAmount.IsPositive() {
		return ErrInvalidQuote
	}

	c.Quote = &Quote{Rate: rate, SettlementAmount: settlementAmount}
	c.QuoteExpiryTime = time.Now().Add(ttl).Unix()
	c.Status.Code = CheckoutStatusCodePreviewingSwap
	c.pushEvent("quoted", fmt.Sprintf(
		"%s %s is about %s %s (rate %s)",
		c.FiatCurrency, checkoutmath.FormatFiat(c.FiatAmount),
		checkoutmath.FormatCrypto(settlementAmount), c.SettlementAsset,
		rate.String(),
	))
	return nil
}

// ApplyPreview stores the swap preview and brings the checkout from
// PreviewingSwap to AwaitingConfirmation, rendering the confirmation summary.
// A preview whose slippage bound exceeds the given ceiling is rejected with
// ErrSlippageExceeded and never shown to the buyer.
func (c *CheckoutSession) ApplyPreview(
	requiredSourceAmount, slippageBoundPct, ceilingPct decimal.Decimal,
) error {
	if c.Status.Code >= CheckoutStatusCodeAwaitingConfirmation {
		return nil
	}
	if c.Status.Code != CheckoutStatusCodePreviewingSwap {
		return ErrCheckoutMustBePreviewing
	}
	if !requiredSourceAmount.IsPositive() {
		return ErrInvalidPreview
	}
	if slippageBoundPct.IsNegative() ||
		slippageBoundPct.GreaterThanOrEqual(decimal.NewFromInt(100)) {
		return ErrInvalidSlippageBound
	}
	if !checkoutmath.WithinSlippageCeiling(slippageBoundPct, ceilingPct) {
		return ErrSlippageExceeded
	}

	c.SwapPreview = &SwapPreview{
		RequiredSourceAmount: requiredSourceAmount,
		SlippageBoundPct:     slippageBoundPct,
	}
	c.Status.Code = CheckoutStatusCodeAwaitingConfirmation
	c.pushEvent("awaiting_confirmation", fmt.Sprintf(
		"to pay %s %s (~%s %s) you need ~%s %s (slippage <= %s%%), confirm to submit",
		c.FiatCurrency, checkoutmath.FormatFiat(c.FiatAmount),
		checkoutmath.FormatCrypto(c.Quote.SettlementAmount), c.SettlementAsset,
		checkoutmath.FormatCrypto(requiredSourceAmount), c.SourceAsset,
		checkoutmath.FormatPct(slippageBoundPct),
	))
	return nil
}

// Confirm brings the checkout from AwaitingConfirmation to Submitting. This
// is the at-most-once gate: a checkout already Submitting cannot be confirmed
// again, independently of any UI control. The idempotency key is assigned on
// the first confirmation and reused by any retried submission.
func (c *CheckoutSession) Confirm() error {
	if c.Status.Code != CheckoutStatusCodeAwaitingConfirmation || c.Status.Failed {
		return ErrCheckoutMustBeAwaitingConfirmation
	}
	if c.IsQuoteExpired() {
		return ErrQuoteExpired
	}

	if len(c.IdempotencyKey) <= 0 {
		c.IdempotencyKey = fmt.Sprintf("chk-%s-%s", c.Id, randstr.Hex(8))
	}
	c.Status.Code = CheckoutStatusCodeSubmitting
	c.pushEvent("submitting", fmt.Sprintf(
		"confirmation received, submitting %s %s on-chain",
		checkoutmath.FormatCrypto(c.SwapPreview.RequiredSourceAmount),
		c.SourceAsset,
	))
	return nil
}

// Settle brings the checkout from Submitting (or from Unresolved, once
// reconciliation proved the submission went through) to the terminal Settled
// status and stores the transaction id assigned by the settlement service.
func (c *CheckoutSession) Settle(txId string, settlementTime int64) error {
	if c.Status.Code == CheckoutStatusCodeSettled {
		return nil
	}
	if c.Status.Code != CheckoutStatusCodeSubmitting &&
		c.Status.Code != CheckoutStatusCodeUnresolved {
		return ErrCheckoutMustBeSubmitting
	}
	if len(c.TransactionId) > 0 {
		return ErrTxIdAlreadySet
	}

	c.TransactionId = txId
	c.SettlementTime = settlementTime
	c.QuoteExpiryTime = 0
	c.Status.Code = CheckoutStatusCodeSettled
	c.pushEvent("settled", fmt.Sprintf(
		"payment confirmed on-chain, transaction %s", txId,
	))
	return nil
}

// RejectSubmission brings the checkout from Submitting back to
// AwaitingConfirmation after the settlement service rejected the submission.
// Quote and preview are retained so the buyer can retry the same confirmed
// amounts without re-fetching, as long as the quote has not expired.
func (c *CheckoutSession) RejectSubmission(reason string) error {
	if c.Status.Code != CheckoutStatusCodeSubmitting {
		return ErrCheckoutMustBeSubmitting
	}

	c.Status.Code = CheckoutStatusCodeAwaitingConfirmation
	c.pushEvent("submission_rejected", fmt.Sprintf(
		"submission rejected (%s), you can confirm again to retry", reason,
	))
	return nil
}

// MarkUnresolved brings the checkout from Submitting to Unresolved after the
// settlement outcome could not be determined. The session blocks any further
// submission until reconciled, since retrying blindly could charge the buyer
// twice.
func (c *CheckoutSession) MarkUnresolved() error {
	if c.Status.Code == CheckoutStatusCodeUnresolved {
		return nil
	}
	if c.Status.Code != CheckoutStatusCodeSubmitting {
		return ErrCheckoutMustBeSubmitting
	}

	c.Status.Code = CheckoutStatusCodeUnresolved
	c.pushEvent("unresolved",
		"settlement status unknown, do not pay twice before checking the transaction status",
	)
	return nil
}

// ResolveRejected brings an Unresolved checkout back to AwaitingConfirmation
// once reconciliation proved the submission was never processed.
func (c *CheckoutSession) ResolveRejected() error {
	if c.Status.Code != CheckoutStatusCodeUnresolved {
		return ErrCheckoutMustBeUnresolved
	}

	c.Status.Code = CheckoutStatusCodeAwaitingConfirmation
	c.pushEvent("submission_rejected",
		"submission was not processed, you can confirm again to retry",
	)
	return nil
}

// Fail marks the checkout as terminally Failed with the given reason.
func (c *CheckoutSession) Fail(reason FailureReason, message string) {
	if c.IsTerminal() {
		return
	}

	c.Status.Code = CheckoutStatusCodeFailed
	c.Status.Failed = true
	c.FailureReason = reason
	c.FailureMessage = message
	c.pushEvent("failed", message)
}

// IsIdle returns whether the checkout is in Idle status.
func (c *CheckoutSession) IsIdle() bool {
	return c.Status.Code == CheckoutStatusCodeIdle
}

// IsAwaitingConfirmation returns whether the checkout is awaiting the buyer's
// confirmation.
func (c *CheckoutSession) IsAwaitingConfirmation() bool {
	return c.Status.Code == CheckoutStatusCodeAwaitingConfirmation
}

// IsSubmitting returns whether the checkout has a submission in flight.
func (c *CheckoutSession) IsSubmitting() bool {
	return c.Status.Code == CheckoutStatusCodeSubmitting
}

// IsUnresolved returns whether the checkout has a submission with unknown
// outcome pending reconciliation.
func (c *CheckoutSession) IsUnresolved() bool {
	return c.Status.Code == CheckoutStatusCodeUnresolved
}

// IsSettled returns whether the checkout is in the terminal Settled status.
func (c *CheckoutSession) IsSettled() bool {
	return c.Status.Code == CheckoutStatusCodeSettled
}

// IsFailed returns whether the checkout is in the terminal Failed status.
func (c *CheckoutSession) IsFailed() bool {
	return c.Status.Code == CheckoutStatusCodeFailed
}

// IsTerminal returns whether the checkout reached Settled or Failed.
func (c *CheckoutSession) IsTerminal() bool {
	return c.IsSettled() || c.IsFailed()
}

// IsQuoteExpired returns whether the stored quote has passed its TTL.
func (c *CheckoutSession) IsQuoteExpired() bool {
	return c.QuoteExpiryTime > 0 &&
		time.Now().After(time.Unix(c.QuoteExpiryTime, 0))
}

// ConfirmationSummary returns the quote and preview to be confirmed. Both
// must have been produced within this session, which is guaranteed by the
// status machine: a session only reaches AwaitingConfirmation after storing
// both in order.
func (c *CheckoutSession) ConfirmationSummary() (*Quote, *SwapPreview, error) {
	if c.Status.Code < CheckoutStatusCodeAwaitingConfirmation || c.IsFailed() {
		return nil, nil, ErrCheckoutMustBeAwaitingConfirmation
	}
	return c.Quote, c.SwapPreview, nil
}

func (c *CheckoutSession) pushEvent(stage, message string) {
	c.Events = append(c.Events, StatusUpdate{
		Stage:     stage,
		Message:   message,
		Timestamp: time.Now().Unix(),
	})
}
