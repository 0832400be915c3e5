package handler_test

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/product-registry/internal/events"
	"github.com/pkordes/product-registry/internal/handler"
)

func TestStreamEvents_DeliversPublishedEvents(t *testing.T) {
	hub := events.NewHub()
	t.Cleanup(hub.Close)
	srv := httptest.NewServer(newHTTPHandler(handler.Deps{Events: hub, KeepAlive: time.Hour}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewScanner(resp.Body)
	require.True(t, lines.Scan())
	require.Equal(t, ": connected", lines.Text())

	// The subscription exists once the greeting has been flushed.
	hub.Publish(events.Event{Topic: events.TopicReference, Kind: "users", At: time.Now()})

	var got []string
	for lines.Scan() {
		if lines.Text() == "" {
			if len(got) > 0 {
				break
			}
			continue
		}
		got = append(got, lines.Text())
	}
	require.Len(t, got, 2)
	assert.Equal(t, "event: reference", got[0])
	assert.True(t, strings.HasPrefix(got[1], "data: "))
	assert.Contains(t, got[1], `"kind":"users"`)
}

func TestStreamEvents_EndsWhenHubCloses(t *testing.T) {
	hub := events.NewHub()
	h := newHTTPHandler(handler.Deps{Events: hub, KeepAlive: time.Hour})

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		h.ServeHTTP(rec, req)
		close(done)
	}()

	require.Eventually(t, func() bool { return hub.Subscribers() == 1 }, time.Second, 5*time.Millisecond)
	hub.Close()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not end after the hub closed")
	}
}
