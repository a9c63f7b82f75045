package inmemory

import (
	"context"
	"sync"

	"github.com/chatcheckout/checkout-daemon/internal/core/domain"
)

type checkoutInmemoryStore struct {
	checkouts map[string]*domain.CheckoutSession
	locker    *sync.Mutex
}

type checkoutRepositoryImpl struct {
	store *checkoutInmemoryStore
}

// NewCheckoutRepositoryImpl returns a new inmemory CheckoutRepository
// implementation.
func NewCheckoutRepositoryImpl(
	store *checkoutInmemoryStore,
) domain.CheckoutRepository {
	return &checkoutRepositoryImpl{store}
}

func (r checkoutRepositoryImpl) AddCheckout(
	_ context.Context, checkout *domain.CheckoutSession,
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	r.store.checkouts[checkout.Id] = checkout
	return nil
}

func (r checkoutRepositoryImpl) GetCheckout(
	_ context.Context, id string,
) (*domain.CheckoutSession, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	return r.getCheckout(id)
}

func (r checkoutRepositoryImpl) GetAllCheckouts(
	_ context.Context,
) ([]*domain.CheckoutSession, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	checkouts := make([]*domain.CheckoutSession, 0, len(r.store.checkouts))
	for _, c := range r.store.checkouts {
		checkouts = append(checkouts, c)
	}
	return checkouts, nil
}

func (r checkoutRepositoryImpl) GetCheckoutsForConversation(
	_ context.Context, conversationId string,
) ([]*domain.CheckoutSession, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	checkouts := make([]*domain.CheckoutSession, 0)
	for _, c := range r.store.checkouts {
		if c.ConversationId == conversationId {
			checkouts = append(checkouts, c)
		}
	}
	return checkouts, nil
}

func (r checkoutRepositoryImpl) GetCheckoutWithTxId(
	_ context.Context, txId string,
) (*domain.CheckoutSession, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	for _, c := range r.store.checkouts {
		if c.TransactionId == txId {
			return c, nil
		}
	}
	return nil, domain.ErrCheckoutNotFound
}

func (r checkoutRepositoryImpl) UpdateCheckout(
	_ context.Context,
	id string,
	updateFn func(c *domain.CheckoutSession) (*domain.CheckoutSession, error),
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	currentCheckout, err := r.getCheckout(id)
	if err != nil {
		return err
	}

	updatedCheckout, err := updateFn(currentCheckout)
	if err != nil {
		return err
	}

	r.store.checkouts[id] = updatedCheckout
	return nil
}

func (r checkoutRepositoryImpl) DeleteCheckout(
	_ context.Context, id string,
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	if _, ok := r.store.checkouts[id]; !ok {
		return domain.ErrCheckoutNotFound
	}
	delete(r.store.checkouts, id)
	return nil
}

func (r checkoutRepositoryImpl) getCheckout(
	id string,
) (*domain.CheckoutSession, error) {
	checkout, ok := r.store.checkouts[id]
	if !ok {
		return nil, domain.ErrCheckoutNotFound
	}
	return checkout, nil
}
