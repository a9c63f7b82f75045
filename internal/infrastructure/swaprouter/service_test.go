package swaprouter_test

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
	"github.com/chatcheckout/checkout-daemon/internal/infrastructure/swaprouter"
)

func TestStaticSimulateSwap(t *testing.T) {
	svc := swaprouter.NewStaticSwapRouter(nil, decimal.RequireFromString("0.3"))

	res, err := svc.SimulateSwap(
		context.Background(), "AQUA", "USDC", decimal.RequireFromString("56.43"),
	)
	require.NoError(t, err)
	require.Equal(t, "705.375", res.RequiredSourceAmount.String())
	require.Equal(t, "0.3", res.SlippageBoundPct.String())
}

func TestStaticSimulateSwapWithSameAsset(t *testing.T) {
	svc := swaprouter.NewStaticSwapRouter(nil, decimal.RequireFromString("0.3"))

	res, err := svc.SimulateSwap(
		context.Background(), "USDC", "USDC", decimal.RequireFromString("56.43"),
	)
	require.NoError(t, err)
	require.Equal(t, "56.43", res.RequiredSourceAmount.String())
	require.True(t, res.SlippageBoundPct.IsZero())
}

func TestStaticSimulateSwapWithoutRoute(t *testing.T) {
	svc := swaprouter.NewStaticSwapRouter(nil, decimal.RequireFromString("0.3"))

	res, err := svc.SimulateSwap(
		context.Background(), "DOGE", "USDC", decimal.RequireFromString("56.43"),
	)
	require.EqualError(t, err, ports.ErrNoRouteAvailable.Error())
	require.Nil(t, res)
}

func TestHTTPSimulateSwap(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "AQUA", r.URL.Query().Get("source"))
			require.Equal(t, "USDC", r.URL.Query().Get("target"))
			fmt.Fprint(w, `{"sourceAmount": "705.375", "slippagePct": "0.3"}`)
		},
	))
	defer server.Close()

	svc := swaprouter.NewHTTPSwapRouter(server.URL, time.Second)
	res, err := svc.SimulateSwap(
		context.Background(), "AQUA", "USDC", decimal.RequireFromString("56.43"),
	)
	require.NoError(t, err)
	require.Equal(t, "705.375", res.RequiredSourceAmount.String())
}

func TestHTTPSimulateSwapWithoutRoute(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		},
	))
	defer server.Close()

	svc := swaprouter.NewHTTPSwapRouter(server.URL, time.Second)
	res, err := svc.SimulateSwap(
		context.Background(), "AQUA", "USDC", decimal.RequireFromString("56.43"),
	)
	require.Error(t, err)
	require.ErrorIs(t, err, ports.ErrNoRouteAvailable)
	require.Nil(t, res)
}
