package ports

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrWalletUnavailable is returned when the buyer's wallet cannot be reached
// or its asset list cannot be read.
var ErrWalletUnavailable = errors.New("wallet unavailable")

// HeldAsset is an asset held by a wallet with its current balance.
type HeldAsset struct {
	Asset   string
	Balance decimal.Decimal
}

// AssetDetector is the boundary towards the wallet used to list the assets
// the buyer can pay with. An empty list is a valid answer.
type AssetDetector interface {
	ListAssets(ctx context.Context, walletAddress string) ([]HeldAsset, error)
}
