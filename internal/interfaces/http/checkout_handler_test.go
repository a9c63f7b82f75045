package httpinterface_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/chatcheckout/checkout-daemon/internal/core/application"
	"github.com/chatcheckout/checkout-daemon/internal/infrastructure/priceoracle"
	"github.com/chatcheckout/checkout-daemon/internal/infrastructure/settlement"
	"github.com/chatcheckout/checkout-daemon/internal/infrastructure/storage/db/inmemory"
	"github.com/chatcheckout/checkout-daemon/internal/infrastructure/swaprouter"
	"github.com/chatcheckout/checkout-daemon/internal/infrastructure/tracker"
	"github.com/chatcheckout/checkout-daemon/internal/infrastructure/wallet"
	httpinterface "github.com/chatcheckout/checkout-daemon/internal/interfaces/http"
)

func newTestRouter() http.Handler {
	svc := application.NewCheckoutService(
		inmemory.NewRepoManager(),
		wallet.NewStaticAssetDetector(nil),
		priceoracle.NewStaticPriceSource(nil),
		swaprouter.NewStaticSwapRouter(nil, decimal.RequireFromString("0.3")),
		settlement.NewStaticSettlementService(),
		tracker.NewService(nil, time.Second),
		application.CheckoutConfig{
			SlippageCeilingPct:    decimal.RequireFromString("0.4"),
			QuoteTTL:              2 * time.Minute,
			CollaboratorTimeout:   time.Second,
			FiatCurrency:          "BRL",
			PreferredSourceAssets: []string{"AQUA", "XLM"},
		},
	)
	return httpinterface.NewRouter(svc)
}

func doRequest(
	t *testing.T, router http.Handler, method, path string, body interface{},
) (int, map[string]interface{}) {
	var reqBody *bytes.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(buf)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var payload map[string]interface{}
	if len(w.Body.Bytes()) > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	}
	return w.Code, payload
}

func startPayload() map[string]interface{} {
	return map[string]interface{}{
		"conversationId":   "conv-1",
		"productReference": "handmade-mug",
		"linkId":           "link-1",
		"walletAddress":    "GABCDWALLET",
		"fiatAmount":       "297",
		"settlementAsset":  "USDC",
	}
}

func TestCheckoutRoundTrip(t *testing.T) {
	router := newTestRouter()

	code, body := doRequest(
		t, router, http.MethodPost, "/v1/checkouts", startPayload(),
	)
	require.Equal(t, http.StatusCreated, code)
	require.Equal(t, "awaiting_confirmation", body["status"])
	checkoutId := body["id"].(string)
	require.NotEmpty(t, checkoutId)

	code, body = doRequest(
		t, router, http.MethodGet, "/v1/checkouts/"+checkoutId, nil,
	)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "297.00", body["fiatAmount"])

	code, body = doRequest(
		t, router, http.MethodPost, "/v1/checkouts/"+checkoutId+"/confirm", nil,
	)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "settled", body["status"])
	require.NotEmpty(t, body["transactionId"])

	// a second confirmation is refused without a second settlement
	code, body = doRequest(
		t, router, http.MethodPost, "/v1/checkouts/"+checkoutId+"/confirm", nil,
	)
	require.Equal(t, http.StatusConflict, code)
	require.NotEmpty(t, body["error"])
}

func TestStartCheckoutWithBadPayload(t *testing.T) {
	router := newTestRouter()

	payload := startPayload()
	payload["fiatAmount"] = "not-a-number"
	code, body := doRequest(t, router, http.MethodPost, "/v1/checkouts", payload)
	require.Equal(t, http.StatusBadRequest, code)
	require.NotEmpty(t, body["error"])

	payload = startPayload()
	payload["fiatAmount"] = "-10"
	code, _ = doRequest(t, router, http.MethodPost, "/v1/checkouts", payload)
	require.Equal(t, http.StatusBadRequest, code)
}

func TestCancelCheckout(t *testing.T) {
	router := newTestRouter()

	code, body := doRequest(
		t, router, http.MethodPost, "/v1/checkouts", startPayload(),
	)
	require.Equal(t, http.StatusCreated, code)
	checkoutId := body["id"].(string)

	code, _ = doRequest(
		t, router, http.MethodPost, "/v1/checkouts/"+checkoutId+"/cancel", nil,
	)
	require.Equal(t, http.StatusOK, code)

	code, _ = doRequest(
		t, router, http.MethodGet, "/v1/checkouts/"+checkoutId, nil,
	)
	require.Equal(t, http.StatusNotFound, code)
}

func TestGetCheckoutWithTxId(t *testing.T) {
	router := newTestRouter()

	code, body := doRequest(
		t, router, http.MethodPost, "/v1/checkouts", startPayload(),
	)
	require.Equal(t, http.StatusCreated, code)
	checkoutId := body["id"].(string)

	code, body = doRequest(
		t, router, http.MethodPost, "/v1/checkouts/"+checkoutId+"/confirm", nil,
	)
	require.Equal(t, http.StatusOK, code)
	txId := body["transactionId"].(string)
	require.NotEmpty(t, txId)

	code, body = doRequest(
		t, router, http.MethodGet, "/v1/transactions/"+txId+"/checkout", nil,
	)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, checkoutId, body["id"])
	require.Equal(t, "settled", body["status"])

	code, body = doRequest(
		t, router, http.MethodGet, "/v1/transactions/unknown-tx/checkout", nil,
	)
	require.Equal(t, http.StatusNotFound, code)
	require.NotEmpty(t, body["error"])
}

func TestGetUnknownCheckout(t *testing.T) {
	router := newTestRouter()

	code, body := doRequest(
		t, router, http.MethodGet, "/v1/checkouts/unknown-id", nil,
	)
	require.Equal(t, http.StatusNotFound, code)
	require.NotEmpty(t, body["error"])
}

func TestHealthz(t *testing.T) {
	router := newTestRouter()

	code, body := doRequest(t, router, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "ok", body["status"])
}
