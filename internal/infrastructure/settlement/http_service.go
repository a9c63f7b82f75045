package settlement

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/chatcheckout/checkout-daemon/internal/core/ports"
)

type httpService struct {
	endpoint   string
	httpClient *http.Client
}

// NewHTTPSettlementService returns a SettlementService backed by an external
// settlement gateway exposing POST {endpoint}/payments and
// GET {endpoint}/payments/{idempotencyKey}.
//
// The circuit breaker is deliberately not applied here: a short-circuited
// submission would be indistinguishable from a timed out one and would park
// sessions in reconciliation for no reason.
func NewHTTPSettlementService(
	endpoint string, requestTimeout time.Duration,
) ports.SettlementService {
	return &httpService{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

type submitRequest struct {
	SourceAsset      string `json:"sourceAsset"`
	SourceAmount     string `json:"sourceAmount"`
	SettlementAsset  string `json:"settlementAsset"`
	FiatAmount       string `json:"fiatAmount"`
	FiatCurrency     string `json:"fiatCurrency"`
	ProductReference string `json:"productReference"`
}

type submitResponse struct {
	TransactionId string `json:"transactionId"`
	Error         string `json:"error"`
}

type statusResponse struct {
	Status        string `json:"status"`
	TransactionId string `json:"transactionId"`
}

func (s *httpService) Submit(
	ctx context.Context,
	idempotencyKey string, instruction ports.PaymentInstruction,
) (*ports.SubmissionResult, error) {
	body, _ := json.Marshal(submitRequest{
		SourceAsset:      instruction.SourceAsset,
		SourceAmount:     instruction.SourceAmount.String(),
		SettlementAsset:  instruction.SettlementAsset,
		FiatAmount:       instruction.FiatAmount.String(),
		FiatCurrency:     instruction.FiatCurrency,
		ProductReference: instruction.ProductReference,
	})

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, s.endpoint+"/payments", bytes.NewReader(body),
	)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", idempotencyKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		// the request may or may not have reached the gateway, the outcome
		// is unknown either way
		log.WithError(err).Warn("settlement submission outcome unknown")
		return nil, ports.ErrSubmissionTimeout
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var payload submitResponse
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, ports.ErrSubmissionTimeout
		}
		return &ports.SubmissionResult{TransactionId: payload.TransactionId}, nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		var payload submitResponse
		json.NewDecoder(resp.Body).Decode(&payload)
		return nil, fmt.Errorf("%w: %s", ports.ErrSubmissionRejected, payload.Error)
	default:
		return nil, ports.ErrSubmissionTimeout
	}
}

func (s *httpService) GetSubmissionStatus(
	ctx context.Context, idempotencyKey string,
) (ports.SubmissionStatus, string, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, s.endpoint+"/payments/"+idempotencyKey, nil,
	)
	if err != nil {
		return ports.SubmissionStatusUnknown, "", err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return ports.SubmissionStatusUnknown, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// the gateway never saw the key, the submission was not processed
		return ports.SubmissionStatusRejected, "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return ports.SubmissionStatusUnknown, "", fmt.Errorf(
			"settlement gateway replied with status %d", resp.StatusCode,
		)
	}

	var payload statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ports.SubmissionStatusUnknown, "", err
	}

	switch payload.Status {
	case "settled":
		return ports.SubmissionStatusSettled, payload.TransactionId, nil
	case "rejected":
		return ports.SubmissionStatusRejected, "", nil
	default:
		return ports.SubmissionStatusUnknown, "", nil
	}
}
