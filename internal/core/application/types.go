package application

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	"github.com/chatcheckout/checkout-daemon/internal/core/domain"
	"github.com/chatcheckout/checkout-daemon/pkg/checkoutmath"
)

// CheckoutConfig groups the tunables of the orchestrator.
type CheckoutConfig struct {
	// SlippageCeilingPct is the maximum acceptable simulator-reported
	// slippage bound, as a percentage.
	SlippageCeilingPct decimal.Decimal
	// QuoteTTL is how long a stored quote stays valid for confirmation.
	QuoteTTL time.Duration
	// CollaboratorTimeout bounds every outbound collaborator call.
	CollaboratorTimeout time.Duration
	// FiatCurrency is the merchant's pricing currency.
	FiatCurrency string
	// PreferredSourceAssets is the ordered list of assets to pay with when
	// the wallet holds more than one.
	PreferredSourceAssets []string
}

// StartCheckoutRequest carries the inbound data of a buyer selecting the
// crypto checkout for a product.
type StartCheckoutRequest struct {
	ConversationId   string
	ProductReference string
	LinkId           string
	WalletAddress    string
	FiatAmount       decimal.Decimal
	SettlementAsset  string
}

func (r StartCheckoutRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ConversationId, validation.Required),
		validation.Field(&r.ProductReference, validation.Required),
		validation.Field(
			&r.SettlementAsset,
			validation.Required, validation.By(validateAssetSymbol),
		),
	)
}

// QuoteInfo is the portable view of a stored quote.
type QuoteInfo struct {
	Rate             string `json:"rate"`
	SettlementAmount string `json:"settlementAmount"`
}

// SwapPreviewInfo is the portable view of a stored swap preview.
type SwapPreviewInfo struct {
	RequiredSourceAmount string `json:"requiredSourceAmount"`
	SlippageBoundPct     string `json:"slippageBoundPct"`
}

// StatusMessage is a rendered status update for the chat UI.
type StatusMessage struct {
	Stage     string `json:"stage"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// CheckoutInfo is the portable view of a checkout session returned to the
// interfaces layer. Displayed amounts are rounded, internal state keeps full
// precision.
type CheckoutInfo struct {
	Id               string           `json:"id"`
	ConversationId   string           `json:"conversationId"`
	ProductReference string           `json:"productReference"`
	LinkId           string           `json:"linkId,omitempty"`
	Status           string           `json:"status"`
	FiatAmount       string           `json:"fiatAmount"`
	FiatCurrency     string           `json:"fiatCurrency"`
	SettlementAsset  string           `json:"settlementAsset"`
	SourceAsset      string           `json:"sourceAsset,omitempty"`
	Quote            *QuoteInfo       `json:"quote,omitempty"`
	SwapPreview      *SwapPreviewInfo `json:"swapPreview,omitempty"`
	TransactionId    string           `json:"transactionId,omitempty"`
	FailureReason    string           `json:"failureReason,omitempty"`
	Messages         []StatusMessage  `json:"messages"`
}

var statusNames = map[int]string{
	domain.CheckoutStatusCodeIdle:                 "idle",
	domain.CheckoutStatusCodeDetectingAssets:      "detecting_assets",
	domain.CheckoutStatusCodeQuoting:              "quoting",
	domain.CheckoutStatusCodePreviewingSwap:       "previewing_swap",
	domain.CheckoutStatusCodeAwaitingConfirmation: "awaiting_confirmation",
	domain.CheckoutStatusCodeSubmitting:           "submitting",
	domain.CheckoutStatusCodeUnresolved:           "unresolved",
	domain.CheckoutStatusCodeSettled:              "settled",
	domain.CheckoutStatusCodeFailed:               "failed",
}

func checkoutInfo(c *domain.CheckoutSession) *CheckoutInfo {
	info := &CheckoutInfo{
		Id:               c.Id,
		ConversationId:   c.ConversationId,
		ProductReference: c.ProductReference,
		LinkId:           c.LinkId,
		Status:           statusNames[c.Status.Code],
		FiatAmount:       checkoutmath.FormatFiat(c.FiatAmount),
		FiatCurrency:     c.FiatCurrency,
		SettlementAsset:  c.SettlementAsset,
		SourceAsset:      c.SourceAsset,
		TransactionId:    c.TransactionId,
		FailureReason:    string(c.FailureReason),
		Messages:         make([]StatusMessage, 0, len(c.Events)),
	}
	if c.Quote != nil {
		info.Quote = &QuoteInfo{
			Rate:             c.Quote.Rate.String(),
			SettlementAmount: checkoutmath.FormatCrypto(c.Quote.SettlementAmount),
		}
	}
	if c.SwapPreview != nil {
		info.SwapPreview = &SwapPreviewInfo{
			RequiredSourceAmount: checkoutmath.FormatCrypto(
				c.SwapPreview.RequiredSourceAmount,
			),
			SlippageBoundPct: checkoutmath.FormatPct(c.SwapPreview.SlippageBoundPct),
		}
	}
	for _, ev := range c.Events {
		info.Messages = append(info.Messages, StatusMessage(ev))
	}
	return info
}
