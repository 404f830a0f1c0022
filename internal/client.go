package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Resource names in the debt-tracking API, as they appear in config URL maps.
const (
	ResourceDebts        = "Debts"
	ResourcePaymentPlans = "PaymentPlans"
	ResourcePayments     = "Payments"
)

// session is one HTTP connection to a single API resource. Transient network
// failures are retried with exponential backoff; a non-2xx response or a
// malformed body fails immediately.
type session struct {
	resource string
	endpoint string
	hc       *http.Client
	cb       *gobreaker.CircuitBreaker
	retries  int
	backoff  time.Duration
	logger   *zap.Logger
}

func newSession(resource, endpoint string, hc *http.Client, retries int, logger *zap.Logger) *session {
	return &session{
		resource: resource,
		endpoint: endpoint,
		hc:       hc,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:     resource,
			Interval: 30 * time.Second,
			Timeout:  10 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 5 && failureRatio >= 0.6
			},
		}),
		retries: retries,
		backoff: 250 * time.Millisecond,
		logger:  logger,
	}
}

// get issues one filtered GET, retrying only transport-level failures.
func (s *session) get(ctx context.Context, filter map[string]string) ([]byte, error) {
	reqURL := s.endpoint
	if len(filter) > 0 {
		q := url.Values{}
		for k, v := range filter {
			q.Set(k, v)
		}
		reqURL += "?" + q.Encode()
	}

	attempts := s.retries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, &TransportError{Resource: s.resource, Filter: filter, Err: err}
		}

		body, retryable, err := s.doOnce(ctx, reqURL)
		if err == nil {
			return body, nil
		}
		if !retryable {
			s.logger.Warn("fetch failed",
				zap.String("resource", s.resource),
				zap.String("url", reqURL),
				zap.Error(err))
			return nil, &TransportError{Resource: s.resource, Filter: filter, Err: err}
		}

		lastErr = err
		s.logger.Debug("fetch attempt failed, retrying",
			zap.String("resource", s.resource),
			zap.Int("attempt", attempt),
			zap.Error(err))

		if attempt < attempts {
			wait := time.Duration(math.Pow(2, float64(attempt-1))) * s.backoff
			wait += time.Duration(rand.Int63n(int64(wait/2) + 1))
			select {
			case <-ctx.Done():
				return nil, &TransportError{Resource: s.resource, Filter: filter, Err: ctx.Err()}
			case <-time.After(wait):
			}
		}
	}

	return nil, &TransportError{Resource: s.resource, Filter: filter, Err: lastErr}
}

// doOnce performs a single breaker-guarded request. The bool reports whether
// the failure is transient (connection/timeout) and worth retrying.
func (s *session) doOnce(ctx context.Context, reqURL string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Accept", "application/json")

	result, err := s.cb.Execute(func() (any, error) {
		return s.hc.Do(req)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, false, err
		}
		return nil, true, err
	}

	resp := result.(*http.Response)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, false, fmt.Errorf("unexpected http status %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return body, false, nil
}

// fetchList fetches and decodes a filtered record list from a resource.
// A JSON object body of the shape {"error": ...} is the API's error envelope.
func fetchList[T any](ctx context.Context, s *session, filter map[string]string) ([]T, error) {
	body, err := s.get(ctx, filter)
	if err != nil {
		return nil, err
	}

	var records []T
	if err := json.Unmarshal(body, &records); err == nil {
		return records, nil
	}

	var envelope map[string]any
	if err := json.Unmarshal(body, &envelope); err == nil {
		if msg, ok := envelope["error"]; ok {
			return nil, &TransportError{
				Resource: s.resource,
				Filter:   filter,
				Err:      fmt.Errorf("http response error: %v", msg),
			}
		}
	}
	return nil, &TransportError{
		Resource: s.resource,
		Filter:   filter,
		Err:      fmt.Errorf("invalid http response %s", strings.TrimSpace(string(body))),
	}
}

// Client queries the debt-tracking API. It holds one session per resource and
// is constructed explicitly; pass it to whatever needs it rather than sharing
// process-wide state.
type Client struct {
	debts    *session
	plans    *session
	payments *session
}

// NewClient builds a Client from config, using a default HTTP client.
func NewClient(cfg *Config, logger *zap.Logger) *Client {
	return NewClientWithHTTP(cfg, &http.Client{Timeout: 30 * time.Second}, logger)
}

// NewClientWithHTTP builds a Client with a caller-supplied HTTP client.
func NewClientWithHTTP(cfg *Config, hc *http.Client, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		debts:    newSession(ResourceDebts, cfg.URL[ResourceDebts], hc, cfg.RetryConnection, logger),
		plans:    newSession(ResourcePaymentPlans, cfg.URL[ResourcePaymentPlans], hc, cfg.RetryConnection, logger),
		payments: newSession(ResourcePayments, cfg.URL[ResourcePayments], hc, cfg.RetryConnection, logger),
	}
}

// FetchDebts returns every record in the Debts resource.
func (c *Client) FetchDebts(ctx context.Context) ([]Debt, error) {
	return fetchList[Debt](ctx, c.debts, nil)
}

// FetchDebt fetches a single debt by id. The boolean reports whether the id
// exists; sequential-id iteration uses it as the stop signal, so a missing
// debt is an ordinary result, not an error.
func (c *Client) FetchDebt(ctx context.Context, id int) (Debt, bool, error) {
	debts, err := fetchList[Debt](ctx, c.debts, map[string]string{"id": strconv.Itoa(id)})
	if err != nil {
		return Debt{}, false, err
	}
	switch len(debts) {
	case 0:
		return Debt{}, false, nil
	case 1:
		return debts[0], true, nil
	default:
		return Debt{}, false, &CorruptDataError{Kind: "debt", DebtID: id}
	}
}

// FetchPaymentPlans returns the payment plans owned by a debt.
func (c *Client) FetchPaymentPlans(ctx context.Context, debtID int) ([]PaymentPlan, error) {
	return fetchList[PaymentPlan](ctx, c.plans, map[string]string{"debt_id": strconv.Itoa(debtID)})
}

// FetchPayments returns the payments recorded against a payment plan.
func (c *Client) FetchPayments(ctx context.Context, planID int) ([]Payment, error) {
	return fetchList[Payment](ctx, c.payments, map[string]string{"payment_plan_id": strconv.Itoa(planID)})
}
