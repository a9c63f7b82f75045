package inmemory

import (
	"sync"

	"github.com/chatcheckout/checkout-daemon/internal/core/domain"
	"github.com/chatcheckout/checkout-daemon/internal/core/ports"
)

type RepoManager struct {
	checkoutRepository domain.CheckoutRepository
}

func NewRepoManager() ports.RepoManager {
	checkoutStore := &checkoutInmemoryStore{
		checkouts: map[string]*domain.CheckoutSession{},
		locker:    &sync.Mutex{},
	}

	return &RepoManager{
		checkoutRepository: NewCheckoutRepositoryImpl(checkoutStore),
	}
}

func (d *RepoManager) CheckoutRepository() domain.CheckoutRepository {
	return d.checkoutRepository
}

func (d *RepoManager) Close() {}
