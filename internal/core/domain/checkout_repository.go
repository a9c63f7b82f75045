package domain

import (
	"context"
	"errors"
)

// ErrCheckoutNotFound is returned when the requested checkout session does
// not exist, either because it was never created or because it was discarded
// by a cancellation.
var ErrCheckoutNotFound = errors.New("checkout not found")

// CheckoutRepository is the abstraction for any kind of database intended to
// persist checkout sessions.
type CheckoutRepository interface {
	// AddCheckout persists a newly created checkout session.
	AddCheckout(ctx context.Context, checkout *CheckoutSession) error
	// GetCheckout returns the checkout with the given id, or
	// ErrCheckoutNotFound.
	GetCheckout(ctx context.Context, id string) (*CheckoutSession, error)
	// GetAllCheckouts returns all the checkouts stored in the repository.
	GetAllCheckouts(ctx context.Context) ([]*CheckoutSession, error)
	// GetCheckoutsForConversation returns all the checkouts belonging to the
	// given chat conversation.
	GetCheckoutsForConversation(
		ctx context.Context, conversationId string,
	) ([]*CheckoutSession, error)
	// GetCheckoutWithTxId returns the settled checkout whose transaction
	// matches the given id, or ErrCheckoutNotFound.
	GetCheckoutWithTxId(ctx context.Context, txId string) (*CheckoutSession, error)
	// UpdateCheckout allows to commit multiple changes to the same checkout
	// in a transactional way. The update function observes and mutates the
	// session atomically with respect to any other caller, which is what
	// makes the confirm transition an effective at-most-once gate.
	UpdateCheckout(
		ctx context.Context,
		id string,
		updateFn func(c *CheckoutSession) (*CheckoutSession, error),
	) error
	// DeleteCheckout discards the checkout with the given id. Deleting an
	// unknown id returns ErrCheckoutNotFound.
	DeleteCheckout(ctx context.Context, id string) error
}
