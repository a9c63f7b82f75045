package wallet

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

// NewHTTPAssetDetector returns an AssetDetector backed by a wallet horizon
// exposing GET {endpoint}/accounts/{address}/balances.
func NewHTTPAssetDetector(endpoint string, requestTimeout time.Duration) ports.AssetDetector {
	return &httpService{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: requestTimeout},
		cb:         circuitbreaker.NewCircuitBreaker("wallet"),
	}
}

type balancesResponse struct {
	Balances []struct {
		Asset   string `json:"asset"`
		Balance string `json:"balance"`
	} `json:"balances"`
}

func (s *httpService) ListAssets(
	ctx context.Context, walletAddress string,
) ([]ports.HeldAsset, error) {
	res, err := s.cb.Execute(func() (interface{}, error) {
		return s.fetchBalances(ctx, walletAddress)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ports.ErrWalletUnavailable, err)
	}
	return res.([]ports.HeldAsset), nil
}

func (s *httpService) fetchBalances(
	ctx context.Context, walletAddress string,
) ([]ports.HeldAsset, error) {
	reqUrl := fmt.Sprintf(
		"%s/accounts/%s/balances", s.endpoint, url.PathEscape(walletAddress),
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

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wallet replied with status %d", resp.StatusCode)
	}

	var payload balancesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	assets := make([]ports.HeldAsset, 0, len(payload.Balances))
	for _, b := range payload.Balances {
		balance, err := decimal.NewFromString(b.Balance)
		if err != nil {
			return nil, err
		}
		assets = append(assets, ports.HeldAsset{Asset: b.Asset, Balance: balance})
	}
	return assets, nil
}
