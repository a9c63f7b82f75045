package ports

import "github.com/shopspring/decimal"

// PurchaseEvent is the terminal notification of a completed purchase,
// intended for the analytics collaborator and any downstream ledger.
type PurchaseEvent struct {
	ProductReference string
	LinkId           string
	TransactionId    string
	FiatAmount       decimal.Decimal
	FiatCurrency     string
	Timestamp        int64
}

// ConversionTracker records interaction and conversion counters against a
// product-link identifier. Implementations are fire-and-forget: they must
// never block the orchestrator's terminal transitions.
type ConversionTracker interface {
	RecordEvent(linkId, eventType string)
	// PublishPurchaseCompleted notifies subscribers of a settled purchase.
	PublishPurchaseCompleted(event PurchaseEvent)
}
