package tracker_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/chatcheckout/checkout-daemon/internal/core/ports"
	"github.com/chatcheckout/checkout-daemon/internal/infrastructure/tracker"
)

func TestRecordEvent(t *testing.T) {
	svc := tracker.NewService(nil, time.Second)

	svc.RecordEvent("link-1", "interaction")
	svc.RecordEvent("link-1", "interaction")
	svc.RecordEvent("link-1", "conversion")
	svc.RecordEvent("link-2", "interaction")

	stats := svc.StatsForLink("link-1")
	require.Equal(t, 2, stats.Interactions)
	require.Equal(t, 1, stats.Conversions)

	stats = svc.StatsForLink("link-2")
	require.Equal(t, 1, stats.Interactions)
	require.Equal(t, 0, stats.Conversions)

	require.Equal(t, tracker.LinkStats{}, svc.StatsForLink("link-unknown"))
}

func TestPublishPurchaseCompleted(t *testing.T) {
	received := make(chan map[string]interface{}, 1)
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			var payload map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			received <- payload
		},
	))
	defer server.Close()

	svc := tracker.NewService([]string{server.URL}, time.Second)
	svc.PublishPurchaseCompleted(ports.PurchaseEvent{
		ProductReference: "handmade-mug",
		LinkId:           "link-1",
		TransactionId:    "tx-final-1",
		FiatAmount:       decimal.NewFromInt(297),
		FiatCurrency:     "BRL",
		Timestamp:        time.Now().Unix(),
	})

	select {
	case payload := <-received:
		require.Equal(t, "handmade-mug", payload["productReference"])
		require.Equal(t, "tx-final-1", payload["transactionId"])
		require.Equal(t, "297", payload["fiatAmount"])
	case <-time.After(2 * time.Second):
		t.Fatal("webhook endpoint was not notified")
	}
}
