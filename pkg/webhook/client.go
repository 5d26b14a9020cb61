package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// ErrDisabled is reported when no endpoint URL is configured.
var ErrDisabled = errors.New("webhook endpoint not configured")

// Result mirrors the only contract callers consume: a success flag plus a
// human readable message or error.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Config configures a Client.
type Config struct {
	URL        string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client posts JSON payloads to the workflow automation endpoint. Calls go
// through a circuit breaker so an unreachable endpoint fails fast.
type Client struct {
	url    string
	http   *http.Client
	cb     *gobreaker.CircuitBreaker
	logger *zap.Logger
}

// NewClient constructs a Client.
func NewClient(cfg Config) *Client {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		url:    cfg.URL,
		http:   httpClient,
		cb:     newBreaker("Booking-Webhook", cfg.Logger),
		logger: cfg.Logger,
	}
}

func newBreaker(name string, logger *zap.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}

// Enabled reports whether an endpoint is configured.
func (c *Client) Enabled() bool {
	return c.url != ""
}

// SendBooking posts a booking payload.
func (c *Client) SendBooking(ctx context.Context, payload Booking) Result {
	if err := c.post(ctx, payload); err != nil {
		c.logger.Error("booking webhook failed", zap.String("reservation_id", payload.ReservationID), zap.Error(err))
		return Result{Success: false, Error: err.Error()}
	}
	c.logger.Info("booking webhook delivered", zap.String("reservation_id", payload.ReservationID))
	return Result{Success: true, Message: "Dane rezerwacji zostały wysłane do n8n"}
}

// SendCancellation posts a cancellation payload.
func (c *Client) SendCancellation(ctx context.Context, payload Cancellation) Result {
	if err := c.post(ctx, payload); err != nil {
		c.logger.Error("cancellation webhook failed", zap.String("reservation_id", payload.ReservationID), zap.Error(err))
		return Result{Success: false, Error: err.Error()}
	}
	c.logger.Info("cancellation webhook delivered", zap.String("reservation_id", payload.ReservationID))
	return Result{Success: true, Message: "Dane anulowania zostały wysłane do n8n"}
}

func (c *Client) post(ctx context.Context, payload interface{}) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	_, err = c.cb.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("HTTP error! status: %d", resp.StatusCode)
		}
		return nil, nil
	})
	return err
}
