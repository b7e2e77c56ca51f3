package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"table-reservation-service/internal/model"
)

func availabilityServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		date := r.URL.Query().Get("date")
		require.NotEmpty(t, date)
		_ = json.NewEncoder(w).Encode(sampleSnapshot(date))
	}))
}

func TestFetchCachesSnapshot(t *testing.T) {
	var hits atomic.Int32
	srv := availabilityServer(t, &hits)
	defer srv.Close()

	caches, _ := newTestCaches()
	f := NewFetcher(srv.URL, caches)
	f.SetDate("2026-02-14")

	snap, err := f.Fetch(context.Background(), "2026-02-14")
	require.NoError(t, err)
	assert.Equal(t, "2026-02-14", snap.Date)

	// Second fetch is served from cache.
	_, err = f.Fetch(context.Background(), "2026-02-14")
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestFetchDiscardsStaleDate(t *testing.T) {
	srv := availabilityServer(t, nil)
	defer srv.Close()

	caches, _ := newTestCaches()
	f := NewFetcher(srv.URL, caches)

	// The guest navigated to the 15th while the fetch for the 14th was
	// still in flight.
	f.SetDate("2026-02-14")
	f.SetDate("2026-02-15")

	_, err := f.Fetch(context.Background(), "2026-02-14")
	assert.ErrorIs(t, err, ErrStaleResponse)

	// The stale response must not have been cached.
	_, ok := caches.Snapshot("2026-02-14")
	assert.False(t, ok)
}

func TestFetchErrorOnBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	caches, _ := newTestCaches()
	f := NewFetcher(srv.URL, caches)
	_, err := f.Fetch(context.Background(), "2026-02-14")
	assert.Error(t, err)
}

func TestListenerRechecksDraftOnPush(t *testing.T) {
	srv := availabilityServer(t, nil)
	defer srv.Close()

	caches, _ := newTestCaches()
	f := NewFetcher(srv.URL, caches)
	f.SetDate("2026-02-14")
	listener := NewListener(caches, f, model.DefaultAreas())

	caches.SaveSnapshot(sampleSnapshot("2026-02-14"))
	caches.SaveDraft(model.Draft{
		Name:          "Jane",
		Guests:        2,
		PreferredArea: model.AreaTerrace,
		StartsAt:      mustLocalTime(t, "2026-02-14 19:00"),
	})

	recheck, err := listener.HandleInvalidation(context.Background(), "2026-02-14")
	require.NoError(t, err)
	require.NotNil(t, recheck)
	assert.True(t, recheck.Result.OK)
	assert.Empty(t, recheck.Suggestions)
}

func TestListenerIgnoresUnrelatedDate(t *testing.T) {
	srv := availabilityServer(t, nil)
	defer srv.Close()

	caches, _ := newTestCaches()
	f := NewFetcher(srv.URL, caches)
	listener := NewListener(caches, f, model.DefaultAreas())

	caches.SaveDraft(model.Draft{
		Name:          "Jane",
		Guests:        2,
		PreferredArea: model.AreaTerrace,
		StartsAt:      mustLocalTime(t, "2026-02-14 19:00"),
	})

	recheck, err := listener.HandleInvalidation(context.Background(), "2026-02-15")
	require.NoError(t, err)
	assert.Nil(t, recheck)
}
