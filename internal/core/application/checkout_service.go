package application

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/chatcheckout/checkout-daemon/internal/core/domain"
	"github.com/chatcheckout/checkout-daemon/internal/core/ports"
)

// CheckoutService is the orchestrator of the crypto checkout flow. It owns
// all the transition logic of a checkout session and sequences the external
// collaborators: asset detection, price quote, swap preview, settlement
// submission and conversion tracking.
type CheckoutService interface {
	StartCheckout(
		ctx context.Context, req StartCheckoutRequest,
	) (*CheckoutInfo, error)
	ConfirmCheckout(ctx context.Context, checkoutId string) (*CheckoutInfo, error)
	CancelCheckout(ctx context.Context, checkoutId string) error
	ReconcileCheckout(ctx context.Context, checkoutId string) (*CheckoutInfo, error)
	GetCheckout(ctx context.Context, checkoutId string) (*CheckoutInfo, error)
	GetCheckoutWithTxId(ctx context.Context, txId string) (*CheckoutInfo, error)
	ListCheckouts(ctx context.Context) ([]*CheckoutInfo, error)
}

type checkoutService struct {
	repoManager   ports.RepoManager
	assetDetector ports.AssetDetector
	priceSource   ports.PriceSource
	swapRouter    ports.SwapRouter
	settlementSvc ports.SettlementService
	tracker       ports.ConversionTracker
	config        CheckoutConfig
}

func NewCheckoutService(
	repoManager ports.RepoManager,
	assetDetector ports.AssetDetector,
	priceSource ports.PriceSource,
	swapRouter ports.SwapRouter,
	settlementSvc ports.SettlementService,
	tracker ports.ConversionTracker,
	config CheckoutConfig,
) CheckoutService {
	return &checkoutService{
		repoManager:   repoManager,
		assetDetector: assetDetector,
		priceSource:   priceSource,
		swapRouter:    swapRouter,
		settlementSvc: settlementSvc,
		tracker:       tracker,
		config:        config,
	}
}

// StartCheckout creates a checkout session for the conversation and runs it
// through asset detection, quoting and swap preview, ending in
// AwaitingConfirmation. Validation failures are returned before any
// collaborator is called.
func (s *checkoutService) StartCheckout(
	ctx context.Context, req StartCheckoutRequest,
) (*CheckoutInfo, error) {
	if !req.FiatAmount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	repo := s.repoManager.CheckoutRepository()

	siblings, err := repo.GetCheckoutsForConversation(ctx, req.ConversationId)
	if err != nil {
		return nil, err
	}
	for _, sibling := range siblings {
		if sibling.IsSubmitting() || sibling.IsUnresolved() {
			return nil, ErrSessionBusy
		}
	}
	// A new attempt supersedes any stale non-terminal session of the same
	// conversation, whose quote and preview must not be reused.
	for _, sibling := range siblings {
		if !sibling.IsTerminal() {
			if err := repo.DeleteCheckout(ctx, sibling.Id); err != nil &&
				!errors.Is(err, domain.ErrCheckoutNotFound) {
				return nil, err
			}
		}
	}

	checkout, err := domain.NewCheckoutSession(
		req.ConversationId, req.ProductReference, req.LinkId,
		req.FiatAmount, s.config.FiatCurrency, req.SettlementAsset,
	)
	if err != nil {
		return nil, err
	}
	if err := checkout.StartDetection(); err != nil {
		return nil, err
	}
	if err := repo.AddCheckout(ctx, checkout); err != nil {
		return nil, err
	}
	checkoutsStartedCounter.Inc()

	if len(req.LinkId) > 0 {
		s.tracker.RecordEvent(req.LinkId, domain.EventTypeInteraction)
	}

	checkoutId := checkout.Id

	assets, err := s.detectAssets(ctx, req.WalletAddress)
	if err != nil {
		return nil, s.failCheckout(
			ctx, checkoutId,
			domain.FailureReasonWalletUnavailable, ports.ErrWalletUnavailable,
		)
	}
	sourceAsset := s.selectSourceAsset(assets, req.SettlementAsset)
	if err := repo.UpdateCheckout(ctx, checkoutId,
		func(c *domain.CheckoutSession) (*domain.CheckoutSession, error) {
			return c, c.CompleteDetection(assets, sourceAsset)
		},
	); err != nil {
		return nil, err
	}

	quote, err := s.fetchQuote(ctx, req.FiatAmount, req.SettlementAsset)
	if err != nil {
		return nil, s.failCheckout(
			ctx, checkoutId,
			domain.FailureReasonRateUnavailable, ports.ErrRateUnavailable,
		)
	}
	if err := repo.UpdateCheckout(ctx, checkoutId,
		func(c *domain.CheckoutSession) (*domain.CheckoutSession, error) {
			return c, c.ApplyQuote(
				quote.Rate, quote.SettlementAmount, s.config.QuoteTTL,
			)
		},
	); err != nil {
		if errors.Is(err, domain.ErrInvalidQuote) {
			return nil, s.failCheckout(
				ctx, checkoutId,
				domain.FailureReasonRateUnavailable, ports.ErrRateUnavailable,
			)
		}
		return nil, err
	}

	preview, err := s.simulateSwap(
		ctx, sourceAsset, req.SettlementAsset, quote.SettlementAmount,
	)
	if err != nil {
		return nil, s.failCheckout(
			ctx, checkoutId,
			domain.FailureReasonNoRouteAvailable, ports.ErrNoRouteAvailable,
		)
	}
	if err := repo.UpdateCheckout(ctx, checkoutId,
		func(c *domain.CheckoutSession) (*domain.CheckoutSession, error) {
			return c, c.ApplyPreview(
				preview.RequiredSourceAmount, preview.SlippageBoundPct,
				s.config.SlippageCeilingPct,
			)
		},
	); err != nil {
		switch {
		case errors.Is(err, domain.ErrSlippageExceeded):
			return nil, s.failCheckout(
				ctx, checkoutId,
				domain.FailureReasonSlippageExceeded, domain.ErrSlippageExceeded,
			)
		case errors.Is(err, domain.ErrInvalidPreview),
			errors.Is(err, domain.ErrInvalidSlippageBound):
			return nil, s.failCheckout(
				ctx, checkoutId,
				domain.FailureReasonNoRouteAvailable, ports.ErrNoRouteAvailable,
			)
		}
		return nil, err
	}

	return s.GetCheckout(ctx, checkoutId)
}

// ConfirmCheckout flips the session from AwaitingConfirmation to Submitting
// atomically and submits the payment instruction with the session's
// idempotency key. A duplicate confirmation finds the session already
// Submitting and never reaches the settlement service.
func (s *checkoutService) ConfirmCheckout(
	ctx context.Context, checkoutId string,
) (*CheckoutInfo, error) {
	repo := s.repoManager.CheckoutRepository()

	var instruction ports.PaymentInstruction
	var idempotencyKey string
	if err := repo.UpdateCheckout(ctx, checkoutId,
		func(c *domain.CheckoutSession) (*domain.CheckoutSession, error) {
			if err := c.Confirm(); err != nil {
				return nil, err
			}
			idempotencyKey = c.IdempotencyKey
			instruction = ports.PaymentInstruction{
				SourceAsset:      c.SourceAsset,
				SourceAmount:     c.SwapPreview.RequiredSourceAmount,
				SettlementAsset:  c.SettlementAsset,
				FiatAmount:       c.FiatAmount,
				FiatCurrency:     c.FiatCurrency,
				ProductReference: c.ProductReference,
			}
			return c, nil
		},
	); err != nil {
		if errors.Is(err, domain.ErrQuoteExpired) {
			return nil, s.failCheckout(
				ctx, checkoutId,
				domain.FailureReasonQuoteExpired, domain.ErrQuoteExpired,
			)
		}
		return nil, err
	}

	cctx, cancel := context.WithTimeout(ctx, s.config.CollaboratorTimeout)
	defer cancel()
	result, err := s.settlementSvc.Submit(cctx, idempotencyKey, instruction)
	if err != nil {
		return s.handleSubmissionFailure(ctx, checkoutId, err)
	}

	if err := s.settleCheckout(ctx, checkoutId, result.TransactionId); err != nil {
		return nil, err
	}
	return s.GetCheckout(ctx, checkoutId)
}

// CancelCheckout discards a non-terminal session. Cancelling a settled or
// failed checkout has no effect; a session pending reconciliation cannot be
// cancelled, otherwise a new attempt could double-pay.
func (s *checkoutService) CancelCheckout(
	ctx context.Context, checkoutId string,
) error {
	repo := s.repoManager.CheckoutRepository()

	checkout, err := repo.GetCheckout(ctx, checkoutId)
	if err != nil {
		if errors.Is(err, domain.ErrCheckoutNotFound) {
			return nil
		}
		return err
	}
	if checkout.IsUnresolved() {
		return domain.ErrCheckoutUnresolved
	}
	if checkout.IsTerminal() {
		return nil
	}

	if err := repo.DeleteCheckout(ctx, checkoutId); err != nil &&
		!errors.Is(err, domain.ErrCheckoutNotFound) {
		return err
	}
	log.Debugf("checkout %s cancelled by buyer", checkoutId)
	return nil
}

// ReconcileCheckout queries the settlement service by idempotency key to
// resolve a submission with unknown outcome. The session stays Unresolved
// until the service reports a final state.
func (s *checkoutService) ReconcileCheckout(
	ctx context.Context, checkoutId string,
) (*CheckoutInfo, error) {
	repo := s.repoManager.CheckoutRepository()

	checkout, err := repo.GetCheckout(ctx, checkoutId)
	if err != nil {
		return nil, err
	}
	if !checkout.IsUnresolved() {
		return nil, domain.ErrCheckoutMustBeUnresolved
	}

	cctx, cancel := context.WithTimeout(ctx, s.config.CollaboratorTimeout)
	defer cancel()
	status, txId, err := s.settlementSvc.GetSubmissionStatus(
		cctx, checkout.IdempotencyKey,
	)
	if err != nil {
		return nil, ErrStillUnresolved
	}

	switch status {
	case ports.SubmissionStatusSettled:
		if err := s.settleCheckout(ctx, checkoutId, txId); err != nil {
			return nil, err
		}
	case ports.SubmissionStatusRejected:
		if err := repo.UpdateCheckout(ctx, checkoutId,
			func(c *domain.CheckoutSession) (*domain.CheckoutSession, error) {
				return c, c.ResolveRejected()
			},
		); err != nil {
			return nil, err
		}
	default:
		return nil, ErrStillUnresolved
	}

	return s.GetCheckout(ctx, checkoutId)
}

func (s *checkoutService) GetCheckout(
	ctx context.Context, checkoutId string,
) (*CheckoutInfo, error) {
	checkout, err := s.repoManager.CheckoutRepository().GetCheckout(ctx, checkoutId)
	if err != nil {
		return nil, err
	}
	return checkoutInfo(checkout), nil
}

// GetCheckoutWithTxId looks up the settled checkout behind an on-chain
// transaction id, for support lookups after the buyer shares a receipt.
func (s *checkoutService) GetCheckoutWithTxId(
	ctx context.Context, txId string,
) (*CheckoutInfo, error) {
	checkout, err := s.repoManager.CheckoutRepository().GetCheckoutWithTxId(ctx, txId)
	if err != nil {
		return nil, err
	}
	return checkoutInfo(checkout), nil
}

func (s *checkoutService) ListCheckouts(
	ctx context.Context,
) ([]*CheckoutInfo, error) {
	checkouts, err := s.repoManager.CheckoutRepository().GetAllCheckouts(ctx)
	if err != nil {
		return nil, err
	}
	infos := make([]*CheckoutInfo, 0, len(checkouts))
	for _, c := range checkouts {
		infos = append(infos, checkoutInfo(c))
	}
	return infos, nil
}

func (s *checkoutService) detectAssets(
	ctx context.Context, walletAddress string,
) ([]domain.AssetBalance, error) {
	cctx, cancel := context.WithTimeout(ctx, s.config.CollaboratorTimeout)
	defer cancel()

	held, err := s.assetDetector.ListAssets(cctx, walletAddress)
	if err != nil {
		return nil, err
	}
	assets := make([]domain.AssetBalance, 0, len(held))
	for _, h := range held {
		assets = append(assets, domain.AssetBalance{
			Asset: h.Asset, Balance: h.Balance,
		})
	}
	return assets, nil
}

// selectSourceAsset picks the asset the buyer pays with: the first preferred
// asset held with a positive balance, then any other funded asset, falling
// back to the settlement asset itself for a direct transfer.
func (s *checkoutService) selectSourceAsset(
	assets []domain.AssetBalance, settlementAsset string,
) string {
	for _, preferred := range s.config.PreferredSourceAssets {
		for _, a := range assets {
			if a.Asset == preferred && a.Balance.IsPositive() {
				return preferred
			}
		}
	}
	for _, a := range assets {
		if a.Asset != settlementAsset && a.Balance.IsPositive() {
			return a.Asset
		}
	}
	return settlementAsset
}

func (s *checkoutService) fetchQuote(
	ctx context.Context, fiatAmount decimal.Decimal, settlementAsset string,
) (*ports.QuoteResult, error) {
	cctx, cancel := context.WithTimeout(ctx, s.config.CollaboratorTimeout)
	defer cancel()
	return s.priceSource.GetQuote(
		cctx, fiatAmount, s.config.FiatCurrency, settlementAsset,
	)
}

func (s *checkoutService) simulateSwap(
	ctx context.Context,
	sourceAsset, settlementAsset string, targetAmount decimal.Decimal,
) (*ports.SwapResult, error) {
	cctx, cancel := context.WithTimeout(ctx, s.config.CollaboratorTimeout)
	defer cancel()
	return s.swapRouter.SimulateSwap(cctx, sourceAsset, settlementAsset, targetAmount)
}

// handleSubmissionFailure routes a failed submission: an explicit rejection
// re-enables confirmation with the retained quote, anything whose outcome is
// unknown parks the session in Unresolved. An unknown transport error is
// conservatively treated as unknown outcome, never as a plain failure.
func (s *checkoutService) handleSubmissionFailure(
	ctx context.Context, checkoutId string, submitErr error,
) (*CheckoutInfo, error) {
	repo := s.repoManager.CheckoutRepository()

	if errors.Is(submitErr, ports.ErrSubmissionRejected) {
		if err := repo.UpdateCheckout(ctx, checkoutId,
			func(c *domain.CheckoutSession) (*domain.CheckoutSession, error) {
				return c, c.RejectSubmission(submitErr.Error())
			},
		); err != nil {
			if errors.Is(err, domain.ErrCheckoutNotFound) {
				log.Debugf(
					"discarding rejection for cancelled checkout %s", checkoutId,
				)
				return nil, ports.ErrSubmissionRejected
			}
			return nil, err
		}
		return nil, ports.ErrSubmissionRejected
	}

	if err := repo.UpdateCheckout(ctx, checkoutId,
		func(c *domain.CheckoutSession) (*domain.CheckoutSession, error) {
			return c, c.MarkUnresolved()
		},
	); err != nil && !errors.Is(err, domain.ErrCheckoutNotFound) {
		return nil, err
	}
	log.Warnf(
		"checkout %s has a submission with unknown outcome, reconciliation required",
		checkoutId,
	)
	return nil, ports.ErrSubmissionTimeout
}

// settleCheckout performs the terminal settle transition and records the
// conversion exactly once. The already-settled check runs inside the update
// closure: two callers racing towards the same settlement serialize on the
// repository and only the one that actually flips the status tracks the
// conversion.
func (s *checkoutService) settleCheckout(
	ctx context.Context, checkoutId, txId string,
) error {
	repo := s.repoManager.CheckoutRepository()

	var settled *domain.CheckoutSession
	var alreadySettled bool
	if err := repo.UpdateCheckout(ctx, checkoutId,
		func(c *domain.CheckoutSession) (*domain.CheckoutSession, error) {
			if c.IsSettled() {
				alreadySettled = true
				return c, nil
			}
			if err := c.Settle(txId, time.Now().Unix()); err != nil {
				return nil, err
			}
			settled = c
			return c, nil
		},
	); err != nil {
		if errors.Is(err, domain.ErrCheckoutNotFound) {
			log.Warnf(
				"settlement %s arrived for cancelled checkout %s, response discarded",
				txId, checkoutId,
			)
			return err
		}
		return err
	}
	if alreadySettled {
		return nil
	}

	checkoutsSettledCounter.Inc()
	log.Infof("checkout %s settled with transaction %s", checkoutId, txId)

	if len(settled.LinkId) > 0 {
		s.tracker.RecordEvent(settled.LinkId, domain.EventTypeConversion)
	}
	s.tracker.PublishPurchaseCompleted(ports.PurchaseEvent{
		ProductReference: settled.ProductReference,
		LinkId:           settled.LinkId,
		TransactionId:    txId,
		FiatAmount:       settled.FiatAmount,
		FiatCurrency:     settled.FiatCurrency,
		Timestamp:        settled.SettlementTime,
	})
	return nil
}

// failCheckout marks the session terminally failed with the given reason and
// returns the buyer-facing error. A session discarded by a cancellation in
// the meantime is left alone.
func (s *checkoutService) failCheckout(
	ctx context.Context, checkoutId string,
	reason domain.FailureReason, cause error,
) error {
	repo := s.repoManager.CheckoutRepository()

	if err := repo.UpdateCheckout(ctx, checkoutId,
		func(c *domain.CheckoutSession) (*domain.CheckoutSession, error) {
			c.Fail(reason, cause.Error())
			return c, nil
		},
	); err != nil {
		if errors.Is(err, domain.ErrCheckoutNotFound) {
			return cause
		}
		return err
	}

	checkoutsFailedCounter.WithLabelValues(string(reason)).Inc()
	log.Debugf("checkout %s failed: %s", checkoutId, reason)
	return cause
}
