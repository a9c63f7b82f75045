package priceoracle

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
	"github.com/chatcheckout/checkout-daemon/pkg/checkoutmath"
	"github.com/chatcheckout/checkout-daemon/pkg/circuitbreaker"
)

type httpService struct {
	endpoint   string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker
}

// NewHTTPPriceSource returns a PriceSource backed by an external rate oracle
// exposing GET {endpoint}/rates?base={fiat}&quote={asset}.
func NewHTTPPriceSource(endpoint string, requestTimeout time.Duration) ports.PriceSource {
	return &httpService{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: requestTimeout},
		cb:         circuitbreaker.NewCircuitBreaker("priceoracle"),
	}
}

type rateResponse struct {
	Rate string `json:"rate"`
}

func (s *httpService) GetQuote(
	ctx context.Context,
	fiatAmount decimal.Decimal, fiatCurrency, settlementAsset string,
) (*ports.QuoteResult, error) {
	rawRate, err := s.cb.Execute(func() (interface{}, error) {
		return s.fetchRate(ctx, fiatCurrency, settlementAsset)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ports.ErrRateUnavailable, err)
	}

	rate := rawRate.(decimal.Decimal)
	if !rate.IsPositive() {
		return nil, ports.ErrRateUnavailable
	}

	return &ports.QuoteResult{
		Rate:             rate,
		SettlementAmount: checkoutmath.SettlementAmount(fiatAmount, rate),
	}, nil
}

func (s *httpService) fetchRate(
	ctx context.Context, fiatCurrency, settlementAsset string,
) (decimal.Decimal, error) {
	reqUrl := fmt.Sprintf(
		"%s/rates?base=%s&quote=%s",
		s.endpoint, url.QueryEscape(fiatCurrency), url.QueryEscape(settlementAsset),
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqUrl, nil)
	if err != nil {
		return decimal.Zero, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf(
			"rate oracle replied with status %d", resp.StatusCode,
		)
	}

	var payload rateResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(payload.Rate)
}
