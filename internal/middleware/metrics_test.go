package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/product-registry/internal/middleware"
)

type observation struct {
	method, route string
	status        int
}

type recordingObserver struct{ got []observation }

func (o *recordingObserver) ObserveRequest(method, route string, status int, _ time.Duration) {
	o.got = append(o.got, observation{method, route, status})
}

var _ middleware.RequestObserver = (*recordingObserver)(nil)

func TestMetricsHandler_UsesRoutePattern(t *testing.T) {
	obs := &recordingObserver{}
	r := chi.NewRouter()
	r.Use(middleware.NewMetricsHandler(obs))
	r.Delete("/reference/{kind}/{name}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok")) // implicit 200
	})

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodDelete, "/reference/users/Alice", nil),
		httptest.NewRequest(http.MethodGet, "/healthz", nil),
		httptest.NewRequest(http.MethodGet, "/nope", nil),
	} {
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	require.Len(t, obs.got, 3)
	assert.Equal(t, observation{"DELETE", "/reference/{kind}/{name}", http.StatusNoContent}, obs.got[0])
	assert.Equal(t, observation{"GET", "/healthz", http.StatusOK}, obs.got[1])
	assert.Equal(t, http.StatusNotFound, obs.got[2].status)
}
