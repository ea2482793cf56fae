package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserveLayout(t *testing.T) {
	okBefore := testutil.ToFloat64(layoutTotal.WithLabelValues("month", "ok"))
	errBefore := testutil.ToFloat64(layoutTotal.WithLabelValues("month", "error"))

	ObserveLayout("month", 12, time.Millisecond, nil)
	ObserveLayout("month", 0, time.Millisecond, errors.New("boom"))

	require.Equal(t, okBefore+1, testutil.ToFloat64(layoutTotal.WithLabelValues("month", "ok")))
	require.Equal(t, errBefore+1, testutil.ToFloat64(layoutTotal.WithLabelValues("month", "error")))
}

func TestCacheCounters(t *testing.T) {
	hits := testutil.ToFloat64(layoutCache.WithLabelValues("hit"))
	misses := testutil.ToFloat64(layoutCache.WithLabelValues("miss"))
	warnings := testutil.ToFloat64(spanWarnings)

	CacheHit()
	CacheMiss()
	CacheMiss()
	SpanWarning()

	require.Equal(t, hits+1, testutil.ToFloat64(layoutCache.WithLabelValues("hit")))
	require.Equal(t, misses+2, testutil.ToFloat64(layoutCache.WithLabelValues("miss")))
	require.Equal(t, warnings+1, testutil.ToFloat64(spanWarnings))
}

func TestHandler(t *testing.T) {
	ObserveLayout("week", 20, time.Millisecond, nil)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "ganttline_layout_total")
}
