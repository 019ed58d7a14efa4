package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/articles/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b", "c"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/articles/"+id, nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/articles/{id}", "404"))
	assert.Equal(t, 3.0, got)
}

func TestRecordAuthAndHandler(t *testing.T) {
	m := New()
	m.RecordAuth("local", "success")
	m.RecordAuth("local", "rejected")
	m.RecordAuth("local", "rejected")
	m.ArticlesCreatedTotal.Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AuthAttemptsTotal.WithLabelValues("local", "rejected")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "inkwell_auth_attempts_total"))
	assert.True(t, strings.Contains(body, "inkwell_articles_created_total 1"))
}
