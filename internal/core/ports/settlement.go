package ports

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrSubmissionRejected is returned when the settlement service refused
	// the submission for network or validation reasons. The submission did
	// not go through and can be retried.
	ErrSubmissionRejected = errors.New("submission rejected by settlement service")
	// ErrSubmissionTimeout is returned when the settlement outcome is
	// unknown. Callers must not treat it as either success or failure: the
	// submission has to be reconciled by idempotency key before retrying.
	ErrSubmissionTimeout = errors.New("settlement outcome unknown")
)

// SubmissionStatus is the reconciliation answer of the settlement service for
// a previously submitted idempotency key.
type SubmissionStatus int

const (
	// SubmissionStatusUnknown means the service has no final outcome yet.
	SubmissionStatusUnknown SubmissionStatus = iota
	// SubmissionStatusSettled means the transfer went through.
	SubmissionStatusSettled
	// SubmissionStatusRejected means the transfer was never processed.
	SubmissionStatusRejected
)

// PaymentInstruction is the finalized transfer the settlement service is
// asked to perform.
type PaymentInstruction struct {
	SourceAsset      string
	SourceAmount     decimal.Decimal
	SettlementAsset  string
	FiatAmount       decimal.Decimal
	FiatCurrency     string
	ProductReference string
}

// SubmissionResult carries the transaction identifier assigned by the
// settlement service on success.
type SubmissionResult struct {
	TransactionId string
}

// SettlementService is the boundary towards the external service performing
// the actual transfer. Submit must be called with an idempotency key unique
// to the checkout session so a retried submission is not double-processed.
type SettlementService interface {
	Submit(
		ctx context.Context,
		idempotencyKey string, instruction PaymentInstruction,
	) (*SubmissionResult, error)
	// GetSubmissionStatus queries the final outcome of a previous submission
	// by its idempotency key. Used for out-of-band reconciliation after a
	// timeout.
	GetSubmissionStatus(
		ctx context.Context, idempotencyKey string,
	) (SubmissionStatus, string, error)
}
