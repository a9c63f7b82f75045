package tracker

import (
	"bytes"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/errgroup"

	"github.com/chatcheckout/checkout-daemon/internal/core/ports"
	"github.com/chatcheckout/checkout-daemon/pkg/circuitbreaker"
)

// LinkStats are the per-link counters kept by the tracker.
type LinkStats struct {
	Interactions int `json:"interactions"`
	Conversions  int `json:"conversions"`
}

// Service counts interaction and conversion events per product link and
// notifies the configured webhook endpoints of every settled purchase. All
// its methods are fire-and-forget, failures are logged and never propagated
// to the checkout flow.
type Service struct {
	lock       sync.Mutex
	stats      map[string]*LinkStats
	endpoints  []string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker
}

func NewService(webhookEndpoints []string, requestTimeout time.Duration) *Service {
	return &Service{
		stats:      map[string]*LinkStats{},
		endpoints:  webhookEndpoints,
		httpClient: &http.Client{Timeout: requestTimeout},
		cb:         circuitbreaker.NewCircuitBreaker("tracker"),
	}
}

func (s *Service) RecordEvent(linkId, eventType string) {
	s.lock.Lock()
	defer s.lock.Unlock()

	stats, ok := s.stats[linkId]
	if !ok {
		stats = &LinkStats{}
		s.stats[linkId] = stats
	}

	switch eventType {
	case "interaction":
		stats.Interactions++
	case "conversion":
		stats.Conversions++
	default:
		log.Warnf("tracker: unknown event type %s for link %s", eventType, linkId)
		return
	}
	log.Debugf(
		"tracker: link %s now at %d interactions, %d conversions",
		linkId, stats.Interactions, stats.Conversions,
	)
}

// StatsForLink returns a copy of the counters of the given link.
func (s *Service) StatsForLink(linkId string) LinkStats {
	s.lock.Lock()
	defer s.lock.Unlock()

	if stats, ok := s.stats[linkId]; ok {
		return *stats
	}
	return LinkStats{}
}

type purchasePayload struct {
	ProductReference string `json:"productReference"`
	LinkId           string `json:"linkId,omitempty"`
	TransactionId    string `json:"transactionId"`
	FiatAmount       string `json:"fiatAmount"`
	FiatCurrency     string `json:"fiatCurrency"`
	Timestamp        int64  `json:"timestamp"`
}

// PublishPurchaseCompleted posts the purchase event to every configured
// endpoint from a dedicated go routine.
func (s *Service) PublishPurchaseCompleted(event ports.PurchaseEvent) {
	if len(s.endpoints) <= 0 {
		return
	}

	payload, _ := json.Marshal(purchasePayload{
		ProductReference: event.ProductReference,
		LinkId:           event.LinkId,
		TransactionId:    event.TransactionId,
		FiatAmount:       event.FiatAmount.String(),
		FiatCurrency:     event.FiatCurrency,
		Timestamp:        event.Timestamp,
	})

	go func() {
		eg := &errgroup.Group{}
		for i := range s.endpoints {
			endpoint := s.endpoints[i]
			eg.Go(func() error { return s.doRequest(endpoint, payload) })
		}
		if err := eg.Wait(); err != nil {
			log.WithError(err).Warnf(
				"tracker: failed to notify purchase %s", event.TransactionId,
			)
		}
	}()
}

func (s *Service) doRequest(endpoint string, payload []byte) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		resp, err := s.httpClient.Post(
			endpoint, "application/json", bytes.NewReader(payload),
		)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			return nil, &statusError{resp.StatusCode}
		}
		return nil, nil
	})
	return err
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return http.StatusText(e.code)
}
