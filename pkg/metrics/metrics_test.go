package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.TokenIssued(TokenAccess)
	m.TokenIssued(TokenAccess)
	m.TokenIssued(TokenRefresh)
	m.TokenRejected("expired")
	m.SessionReplaced()
	m.SessionRevoked()
	m.SessionRefreshed()

	require.InDelta(t, 2, testutil.ToFloat64(m.tokensIssued.WithLabelValues(TokenAccess)), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.tokensIssued.WithLabelValues(TokenRefresh)), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.tokenFailures.WithLabelValues("expired")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.sessionsReplaced), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.sessionsRevoked), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.sessionsRefreshed), 0)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	require.NotPanics(t, func() {
		m.TokenIssued(TokenAccess)
		m.TokenRejected("expired")
		m.SessionReplaced()
		m.SessionRevoked()
		m.SessionRefreshed()
	})

	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) })
	rec := httptest.NewRecorder()
	m.Instrument(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)
}

func TestInstrumentUsesRoutePattern(t *testing.T) {
	m := New()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/users/id/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := m.Instrument(mux)

	for _, p := range []string{"/v1/users/id/a", "/v1/users/id/b", "/nope"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	require.InDelta(t, 2, testutil.ToFloat64(
		m.httpRequestsTotal.WithLabelValues(http.MethodGet, "GET /v1/users/id/{id}", "204")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(
		m.httpRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404")), 0)
	require.InDelta(t, 0, testutil.ToFloat64(m.httpInFlight), 0)
}

func TestHandlerServesRegistry(t *testing.T) {
	m := New()
	m.TokenIssued(TokenAccess)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `accounts_tokens_issued_total{type="access"} 1`)
}
