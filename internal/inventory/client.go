// Package inventory implements the stock reservation boundary: an HTTP
// client against the platform inventory API and an in-memory store for local
// runs and tests.
package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	d "github.com/maptiva/tienda-online-mvp-sub000/domain"

	"github.com/sony/gobreaker/v2"
)

// Client calls the remote inventory API. The circuit breaker only sees
// transport faults; a reservation that comes back with failed lines is a
// normal response and does not trip it.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*d.ReservationOutcome]
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker[*d.ReservationOutcome](gobreaker.Settings{
			Name: "inventory-reserve",
		}),
	}
}

type reserveRequest struct {
	StoreID string                     `json:"store_id"`
	Note    string                     `json:"note,omitempty"`
	Items   []d.ReservationRequestLine `json:"items"`
}

func (c *Client) Reserve(ctx context.Context, storeID string, lines []d.ReservationRequestLine, note string) (*d.ReservationOutcome, error) {
	return c.breaker.Execute(func() (*d.ReservationOutcome, error) {
		body, err := json.Marshal(reserveRequest{StoreID: storeID, Note: note, Items: lines})
		if err != nil {
			return nil, fmt.Errorf("marshal reserve request: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.baseURL+"/api/v1/reservations", bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("build reserve request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("reserve call failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("reserve call returned status %d", resp.StatusCode)
		}

		var outcome d.ReservationOutcome
		if err := json.NewDecoder(resp.Body).Decode(&outcome); err != nil {
			return nil, fmt.Errorf("decode reserve response: %w", err)
		}
		return &outcome, nil
	})
}
