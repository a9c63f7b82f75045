package inmemory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/chatcheckout/checkout-daemon/internal/core/domain"
	"github.com/chatcheckout/checkout-daemon/internal/infrastructure/storage/db/inmemory"
)

var ctx = context.Background()

func TestCheckoutRepository(t *testing.T) {
	repo := inmemory.NewRepoManager().CheckoutRepository()

	checkout := newTestCheckout(t, "conv-1")
	require.NoError(t, repo.AddCheckout(ctx, checkout))

	found, err := repo.GetCheckout(ctx, checkout.Id)
	require.NoError(t, err)
	require.Equal(t, checkout.Id, found.Id)

	_, err = repo.GetCheckout(ctx, "unknown-id")
	require.EqualError(t, err, domain.ErrCheckoutNotFound.Error())

	other := newTestCheckout(t, "conv-2")
	require.NoError(t, repo.AddCheckout(ctx, other))

	all, err := repo.GetAllCheckouts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	forConversation, err := repo.GetCheckoutsForConversation(ctx, "conv-1")
	require.NoError(t, err)
	require.Len(t, forConversation, 1)
	require.Equal(t, checkout.Id, forConversation[0].Id)
}

func TestUpdateCheckout(t *testing.T) {
	repo := inmemory.NewRepoManager().CheckoutRepository()

	checkout := newTestCheckout(t, "conv-1")
	require.NoError(t, repo.AddCheckout(ctx, checkout))

	err := repo.UpdateCheckout(ctx, checkout.Id,
		func(c *domain.CheckoutSession) (*domain.CheckoutSession, error) {
			return c, c.StartDetection()
		},
	)
	require.NoError(t, err)

	found, err := repo.GetCheckout(ctx, checkout.Id)
	require.NoError(t, err)
	require.Equal(t, domain.CheckoutStatusCodeDetectingAssets, found.Status.Code)

	// an error inside the update function leaves the checkout untouched
	err = repo.UpdateCheckout(ctx, checkout.Id,
		func(c *domain.CheckoutSession) (*domain.CheckoutSession, error) {
			return nil, c.Confirm()
		},
	)
	require.Error(t, err)

	err = repo.UpdateCheckout(ctx, "unknown-id",
		func(c *domain.CheckoutSession) (*domain.CheckoutSession, error) {
			return c, nil
		},
	)
	require.EqualError(t, err, domain.ErrCheckoutNotFound.Error())
}

func TestGetCheckoutWithTxId(t *testing.T) {
	repo := inmemory.NewRepoManager().CheckoutRepository()

	checkout := newTestCheckout(t, "conv-1")
	require.NoError(t, checkout.StartDetection())
	require.NoError(t, checkout.CompleteDetection(
		[]domain.AssetBalance{
			{Asset: "AQUA", Balance: decimal.NewFromInt(5000)},
		}, "AQUA",
	))
	require.NoError(t, checkout.ApplyQuote(
		decimal.RequireFromString("0.19"),
		decimal.RequireFromString("56.43"),
		2*time.Minute,
	))
	require.NoError(t, checkout.ApplyPreview(
		decimal.RequireFromString("705.375"),
		decimal.RequireFromString("0.3"),
		decimal.RequireFromString("0.4"),
	))
	require.NoError(t, checkout.Confirm())
	require.NoError(t, checkout.Settle("tx-final-1", time.Now().Unix()))
	require.NoError(t, repo.AddCheckout(ctx, checkout))

	found, err := repo.GetCheckoutWithTxId(ctx, "tx-final-1")
	require.NoError(t, err)
	require.Equal(t, checkout.Id, found.Id)

	_, err = repo.GetCheckoutWithTxId(ctx, "tx-unknown")
	require.EqualError(t, err, domain.ErrCheckoutNotFound.Error())
}

func TestDeleteCheckout(t *testing.T) {
	repo := inmemory.NewRepoManager().CheckoutRepository()

	checkout := newTestCheckout(t, "conv-1")
	require.NoError(t, repo.AddCheckout(ctx, checkout))

	require.NoError(t, repo.DeleteCheckout(ctx, checkout.Id))

	_, err := repo.GetCheckout(ctx, checkout.Id)
	require.EqualError(t, err, domain.ErrCheckoutNotFound.Error())

	err = repo.DeleteCheckout(ctx, checkout.Id)
	require.EqualError(t, err, domain.ErrCheckoutNotFound.Error())
}

func newTestCheckout(t *testing.T, conversationId string) *domain.CheckoutSession {
	checkout, err := domain.NewCheckoutSession(
		conversationId, "handmade-mug", "link-1",
		decimal.NewFromInt(297), "BRL", "USDC",
	)
	require.NoError(t, err)
	return checkout
}
