package metrics

import (
	"errors"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/api/episodes/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/episodes/{id}", "418"))
	for _, id := range []string{"a", "b", "c"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/episodes/"+id, nil))
		assert.Equal(t, http.StatusTeapot, rec.Code)
	}
	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/episodes/{id}", "418"))

	assert.Equal(t, 3.0, after-before)
	assert.Equal(t, 0.0, testutil.ToFloat64(HTTPRequestsInFlight))
}

func TestObserveRebuild(t *testing.T) {
	okBefore := testutil.ToFloat64(RebuildsTotal.WithLabelValues(SourceCache, ResultOK))
	errBefore := testutil.ToFloat64(RebuildsTotal.WithLabelValues(SourceIngest, ResultError))

	ObserveRebuild(SourceCache, 20*time.Millisecond, 42, nil)
	assert.Equal(t, 42.0, testutil.ToFloat64(Episodes))

	ObserveRebuild(SourceIngest, time.Millisecond, 7, errors.New("boom"))
	assert.Equal(t, 42.0, testutil.ToFloat64(Episodes), "failed rebuilds keep the last count")

	assert.Equal(t, 1.0, testutil.ToFloat64(RebuildsTotal.WithLabelValues(SourceCache, ResultOK))-okBefore)
	assert.Equal(t, 1.0, testutil.ToFloat64(RebuildsTotal.WithLabelValues(SourceIngest, ResultError))-errBefore)
}
