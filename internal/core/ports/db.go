package ports

import "github.com/chatcheckout/checkout-daemon/internal/core/domain"

// RepoManager gives access to the repositories of the storage layer and
// manages their lifecycle as a whole.
type RepoManager interface {
	CheckoutRepository() domain.CheckoutRepository
	Close()
}
