package swaprouter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"

	"github.com/chatcheckout/checkout-daemon/internal/core/ports"
	"github.com/chatcheckout/checkout-daemon/pkg/circuitbreaker"
)

type httpService struct {
	endpoint   string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker
}

// NewHTTPSwapRouter returns a SwapRouter backed by an external swap simulator
// exposing GET {endpoint}/simulate?source={asset}&target={asset}&amount={n}.
func NewHTTPSwapRouter(endpoint string, requestTimeout time.Duration) ports.SwapRouter {
	return &httpService{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: requestTimeout},
		cb:         circuitbreaker.NewCircuitBreaker("swaprouter"),
	}
}

type simulateResponse struct {
	SourceAmount string `json:"sourceAmount"`
	SlippagePct  string `json:"slippagePct"`
}

func (s *httpService) SimulateSwap(
	ctx context.Context,
	sourceAsset, settlementAsset string, targetAmount decimal.Decimal,
) (*ports.SwapResult, error) {
	res, err := s.cb.Execute(func() (interface{}, error) {
		return s.simulate(ctx, sourceAsset, settlementAsset, targetAmount)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ports.ErrNoRouteAvailable, err)
	}
	return res.(*ports.SwapResult), nil
}

func (s *httpService) simulate(
	ctx context.Context,
	sourceAsset, settlementAsset string, targetAmount decimal.Decimal,
) (*ports.SwapResult, error) {
	reqUrl := fmt.Sprintf(
		"%s/simulate?source=%s&target=%s&amount=%s",
		s.endpoint,
		url.QueryEscape(sourceAsset), url.QueryEscape(settlementAsset),
		url.QueryEscape(targetAmount.String()),
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqUrl, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf(
			"no path between %s and %s", sourceAsset, settlementAsset,
		)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"swap simulator replied with status %d", resp.StatusCode,
		)
	}

	var payload simulateResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	sourceAmount, err := decimal.NewFromString(payload.SourceAmount)
	if err != nil {
		return nil, err
	}
	slippage, err := decimal.NewFromString(payload.SlippagePct)
	if err != nil {
		return nil, err
	}
	if !sourceAmount.IsPositive() {
		return nil, fmt.Errorf("simulator returned a non-positive source amount")
	}

	return &ports.SwapResult{
		RequiredSourceAmount: sourceAmount,
		SlippageBoundPct:     slippage,
	}, nil
}
