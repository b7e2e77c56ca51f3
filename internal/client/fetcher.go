package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"table-reservation-service/internal/model"
)

// ErrStaleResponse marks an availability response that arrived after
// the guest had already switched to a different date. The response is
// discarded and never cached.
var ErrStaleResponse = errors.New("availability response for a stale date")

// Fetcher retrieves availability snapshots from the reservation
// service. It remembers which date the guest is currently looking at;
// a slow response for a date the guest has navigated away from is
// thrown away, so the calendar can never flash an old evening's seats
// over the current one.
type Fetcher struct {
	baseURL string
	httpc   *http.Client
	caches  *Caches

	mu          sync.Mutex
	currentDate string
}

// NewFetcher returns a fetcher against the given service base URL,
// caching into caches.
func NewFetcher(baseURL string, caches *Caches) *Fetcher {
	return &Fetcher{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 10 * time.Second},
		caches:  caches,
	}
}

// SetDate records the date the guest is currently viewing. In-flight
// fetches for any other date become stale.
func (f *Fetcher) SetDate(date string) {
	f.mu.Lock()
	f.currentDate = date
	f.mu.Unlock()
}

// Fetch returns the availability snapshot for a date, from cache when
// fresh, otherwise from the service. ErrStaleResponse is returned when
// the guest switched dates while the request was in flight.
func (f *Fetcher) Fetch(ctx context.Context, date string) (*model.VenueSnapshot, error) {
	if snap, ok := f.caches.Snapshot(date); ok {
		return snap, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		f.baseURL+"/v1/availability?date="+url.QueryEscape(date), nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("availability fetch: unexpected status %d", resp.StatusCode)
	}

	var snap model.VenueSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return nil, fmt.Errorf("availability fetch: decode: %w", err)
	}

	f.mu.Lock()
	stale := f.currentDate != "" && f.currentDate != date
	f.mu.Unlock()
	if stale {
		return nil, ErrStaleResponse
	}

	f.caches.SaveSnapshot(&snap)
	return &snap, nil
}
