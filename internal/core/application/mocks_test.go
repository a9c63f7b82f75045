package application_test

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/chatcheckout/checkout-daemon/internal/core/ports"
)

// **** AssetDetector ****

type mockAssetDetector struct {
	mock.Mock
}

func (m *mockAssetDetector) ListAssets(
	ctx context.Context, walletAddress string,
) ([]ports.HeldAsset, error) {
	args := m.Called(ctx, walletAddress)

	var res []ports.HeldAsset
	if a := args.Get(0); a != nil {
		res = a.([]ports.HeldAsset)
	}
	return res, args.Error(1)
}

// **** PriceSource ****

type mockPriceSource struct {
	mock.Mock
}

func (m *mockPriceSource) GetQuote(
	ctx context.Context,
	fiatAmount decimal.Decimal, fiatCurrency, settlementAsset string,
) (*ports.QuoteResult, error) {
	args := m.Called(ctx, fiatAmount, fiatCurrency, settlementAsset)

	var res *ports.QuoteResult
	if a := args.Get(0); a != nil {
		res = a.(*ports.QuoteResult)
	}
	return res, args.Error(1)
}

// **** SwapRouter ****

type mockSwapRouter struct {
	mock.Mock
}

func (m *mockSwapRouter) SimulateSwap(
	ctx context.Context,
	sourceAsset, settlementAsset string, targetAmount decimal.Decimal,
) (*ports.SwapResult, error) {
	args := m.Called(ctx, sourceAsset, settlementAsset, targetAmount)

	var res *ports.SwapResult
	if a := args.Get(0); a != nil {
		res = a.(*ports.SwapResult)
	}
	return res, args.Error(1)
}

// **** SettlementService ****

type mockSettlementService struct {
	mock.Mock
}

func (m *mockSettlementService) Submit(
	ctx context.Context,
	idempotencyKey string, instruction ports.PaymentInstruction,
) (*ports.SubmissionResult, error) {
	args := m.Called(ctx, idempotencyKey, instruction)

	var res *ports.SubmissionResult
	if a := args.Get(0); a != nil {
		res = a.(*ports.SubmissionResult)
	}
	return res, args.Error(1)
}

func (m *mockSettlementService) GetSubmissionStatus(
	ctx context.Context, idempotencyKey string,
) (ports.SubmissionStatus, string, error) {
	args := m.Called(ctx, idempotencyKey)

	var status ports.SubmissionStatus
	if a := args.Get(0); a != nil {
		status = a.(ports.SubmissionStatus)
	}
	var txId string
	if a := args.Get(1); a != nil {
		txId = a.(string)
	}
	return status, txId, args.Error(2)
}

// **** ConversionTracker ****

// mockTracker counts events per link instead of using mock.Mock since the
// tracker boundary is fire-and-forget and asserting exact counts is the whole
// point for conversion tracking.
type mockTracker struct {
	lock      sync.Mutex
	events    map[string]map[string]int
	published []ports.PurchaseEvent
}

func newMockTracker() *mockTracker {
	return &mockTracker{events: map[string]map[string]int{}}
}

func (m *mockTracker) RecordEvent(linkId, eventType string) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if _, ok := m.events[linkId]; !ok {
		m.events[linkId] = map[string]int{}
	}
	m.events[linkId][eventType]++
}

func (m *mockTracker) PublishPurchaseCompleted(event ports.PurchaseEvent) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.published = append(m.published, event)
}

func (m *mockTracker) countEvents(linkId, eventType string) int {
	m.lock.Lock()
	defer m.lock.Unlock()

	return m.events[linkId][eventType]
}

func (m *mockTracker) publishedEvents() []ports.PurchaseEvent {
	m.lock.Lock()
	defer m.lock.Unlock()

	return m.published
}
