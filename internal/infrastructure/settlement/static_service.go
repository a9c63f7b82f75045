package settlement

import (
	"context"
	"sync"

	"github.com/thanhpk/randstr"

	"github.com/chatcheckout/checkout-daemon/internal/core/ports"
)

type staticService struct {
	lock      sync.Mutex
	submitted map[string]string
}

// NewStaticSettlementService returns a SettlementService that accepts every
// submission and assigns a random transaction id. Repeated submissions with
// the same idempotency key return the transaction of the first. Intended for
// development and demos.
func NewStaticSettlementService() ports.SettlementService {
	return &staticService{submitted: map[string]string{}}
}

func (s *staticService) Submit(
	_ context.Context,
	idempotencyKey string, _ ports.PaymentInstruction,
) (*ports.SubmissionResult, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if txId, ok := s.submitted[idempotencyKey]; ok {
		return &ports.SubmissionResult{TransactionId: txId}, nil
	}

	txId := randstr.Hex(32)
	s.submitted[idempotencyKey] = txId
	return &ports.SubmissionResult{TransactionId: txId}, nil
}

func (s *staticService) GetSubmissionStatus(
	_ context.Context, idempotencyKey string,
) (ports.SubmissionStatus, string, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if txId, ok := s.submitted[idempotencyKey]; ok {
		return ports.SubmissionStatusSettled, txId, nil
	}
	return ports.SubmissionStatusRejected, "", nil
}
