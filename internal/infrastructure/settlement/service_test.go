package settlement_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/chatcheckout/checkout-daemon/internal/core/ports"
	"github.com/chatcheckout/checkout-daemon/internal/infrastructure/settlement"
)

var testInstruction = ports.PaymentInstruction{
	SourceAsset:      "AQUA",
	SourceAmount:     decimal.RequireFromString("705.375"),
	SettlementAsset:  "USDC",
	FiatAmount:       decimal.NewFromInt(297),
	FiatCurrency:     "BRL",
	ProductReference: "handmade-mug",
}

func TestSubmit(t *testing.T) {
	var receivedKey string
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			receivedKey = r.Header.Get("Idempotency-Key")
			fmt.Fprint(w, `{"transactionId": "tx-final-1"}`)
		},
	))
	defer server.Close()

	svc := settlement.NewHTTPSettlementService(server.URL, time.Second)
	res, err := svc.Submit(context.Background(), "chk-abc-123", testInstruction)
	require.NoError(t, err)
	require.Equal(t, "tx-final-1", res.TransactionId)
	require.Equal(t, "chk-abc-123", receivedKey)
}

func TestSubmitRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			fmt.Fprint(w, `{"error": "insufficient fee"}`)
		},
	))
	defer server.Close()

	svc := settlement.NewHTTPSettlementService(server.URL, time.Second)
	res, err := svc.Submit(context.Background(), "chk-abc-123", testInstruction)
	require.ErrorIs(t, err, ports.ErrSubmissionRejected)
	require.Nil(t, res)
}

func TestSubmitWithUnknownOutcome(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
		))
		defer server.Close()

		svc := settlement.NewHTTPSettlementService(server.URL, time.Second)
		res, err := svc.Submit(context.Background(), "chk-abc-123", testInstruction)
		require.ErrorIs(t, err, ports.ErrSubmissionTimeout)
		require.Nil(t, res)
	})

	t.Run("timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(200 * time.Millisecond)
			},
		))
		defer server.Close()

		svc := settlement.NewHTTPSettlementService(server.URL, 50*time.Millisecond)
		res, err := svc.Submit(context.Background(), "chk-abc-123", testInstruction)
		require.ErrorIs(t, err, ports.ErrSubmissionTimeout)
		require.Nil(t, res)
	})
}

func TestGetSubmissionStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/payments/chk-settled":
				fmt.Fprint(w, `{"status": "settled", "transactionId": "tx-final-1"}`)
			case "/payments/chk-rejected":
				fmt.Fprint(w, `{"status": "rejected"}`)
			case "/payments/chk-pending":
				fmt.Fprint(w, `{"status": "pending"}`)
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		},
	))
	defer server.Close()

	svc := settlement.NewHTTPSettlementService(server.URL, time.Second)

	status, txId, err := svc.GetSubmissionStatus(context.Background(), "chk-settled")
	require.NoError(t, err)
	require.Equal(t, ports.SubmissionStatusSettled, status)
	require.Equal(t, "tx-final-1", txId)

	status, _, err = svc.GetSubmissionStatus(context.Background(), "chk-rejected")
	require.NoError(t, err)
	require.Equal(t, ports.SubmissionStatusRejected, status)

	status, _, err = svc.GetSubmissionStatus(context.Background(), "chk-pending")
	require.NoError(t, err)
	require.Equal(t, ports.SubmissionStatusUnknown, status)

	status, _, err = svc.GetSubmissionStatus(context.Background(), "chk-never-seen")
	require.NoError(t, err)
	require.Equal(t, ports.SubmissionStatusRejected, status)
}

func TestStaticSubmitIsIdempotent(t *testing.T) {
	svc := settlement.NewStaticSettlementService()

	first, err := svc.Submit(context.Background(), "chk-abc-123", testInstruction)
	require.NoError(t, err)
	require.NotEmpty(t, first.TransactionId)

	second, err := svc.Submit(context.Background(), "chk-abc-123", testInstruction)
	require.NoError(t, err)
	require.Equal(t, first.TransactionId, second.TransactionId)

	status, txId, err := svc.GetSubmissionStatus(context.Background(), "chk-abc-123")
	require.NoError(t, err)
	require.Equal(t, ports.SubmissionStatusSettled, status)
	require.Equal(t, first.TransactionId, txId)
}
