package dbbadger

import (
	"context"
	"errors"
	"sync"

	"github.com/timshannon/badgerhold/v4"

	"github.com/chatcheckout/checkout-daemon/internal/core/domain"
)

type checkoutRepositoryImpl struct {
	store *badgerhold.Store
	// updateLock serializes read-modify-write cycles so that the update
	// function observes and mutates a checkout atomically with respect to
	// other callers.
	updateLock *sync.Mutex
}

func NewCheckoutRepositoryImpl(store *badgerhold.Store) domain.CheckoutRepository {
	return checkoutRepositoryImpl{
		store:      store,
		updateLock: &sync.Mutex{},
	}
}

func (r checkoutRepositoryImpl) AddCheckout(
	_ context.Context, checkout *domain.CheckoutSession,
) error {
	return r.store.Insert(checkout.Id, *checkout)
}

func (r checkoutRepositoryImpl) GetCheckout(
	_ context.Context, id string,
) (*domain.CheckoutSession, error) {
	return r.getCheckout(id)
}

func (r checkoutRepositoryImpl) GetAllCheckouts(
	_ context.Context,
) ([]*domain.CheckoutSession, error) {
	return r.findCheckouts(&badgerhold.Query{})
}

func (r checkoutRepositoryImpl) GetCheckoutsForConversation(
	_ context.Context, conversationId string,
) ([]*domain.CheckoutSession, error) {
	query := badgerhold.Where("ConversationId").Eq(conversationId)
	return r.findCheckouts(query)
}

func (r checkoutRepositoryImpl) GetCheckoutWithTxId(
	_ context.Context, txId string,
) (*domain.CheckoutSession, error) {
	query := badgerhold.Where("TransactionId").Eq(txId)
	checkouts, err := r.findCheckouts(query)
	if err != nil {
		return nil, err
	}
	if len(checkouts) <= 0 {
		return nil, domain.ErrCheckoutNotFound
	}
	return checkouts[0], nil
}

func (r checkoutRepositoryImpl) UpdateCheckout(
	_ context.Context,
	id string,
	updateFn func(c *domain.CheckoutSession) (*domain.CheckoutSession, error),
) error {
	r.updateLock.Lock()
	defer r.updateLock.Unlock()

	currentCheckout, err := r.getCheckout(id)
	if err != nil {
		return err
	}

	updatedCheckout, err := updateFn(currentCheckout)
	if err != nil {
		return err
	}

	return r.store.Update(id, *updatedCheckout)
}

func (r checkoutRepositoryImpl) DeleteCheckout(
	_ context.Context, id string,
) error {
	err := r.store.Delete(id, domain.CheckoutSession{})
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return domain.ErrCheckoutNotFound
		}
		return err
	}
	return nil
}

func (r checkoutRepositoryImpl) getCheckout(
	id string,
) (*domain.CheckoutSession, error) {
	var checkout domain.CheckoutSession
	if err := r.store.Get(id, &checkout); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrCheckoutNotFound
		}
		return nil, err
	}
	return &checkout, nil
}

func (r checkoutRepositoryImpl) findCheckouts(
	query *badgerhold.Query,
) ([]*domain.CheckoutSession, error) {
	var found []domain.CheckoutSession
	if err := r.store.Find(&found, query); err != nil {
		return nil, err
	}
	checkouts := make([]*domain.CheckoutSession, 0, len(found))
	for i := range found {
		checkouts = append(checkouts, &found[i])
	}
	return checkouts, nil
}
