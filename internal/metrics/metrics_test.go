package metrics

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/ifctree/pkg/observability"
)

func TestMaterializeMetrics(t *testing.T) {
	m := New()
	ctx := context.Background()

	m.OnMaterializeStart(ctx, 1, 3)
	m.OnMaterializeComplete(ctx, 3, 10*time.Millisecond, nil)
	m.OnMaterializeComplete(ctx, 0, time.Millisecond, errors.New("boom"))
	m.OnMemoHit(ctx, "m")
	m.OnMemoMiss(ctx, "m")
	m.OnMemoMiss(ctx, "m")
	m.OnMemoReset(ctx)
	m.OnCycleDetected(ctx, "m", 1)
	m.OnEntityMissing(ctx, "m", 2)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.materializations.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.materializations.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.memo.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.memo.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.memoResets))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.anomalies.WithLabelValues("cycle")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.anomalies.WithLabelValues("missing_entity")))
}

func TestCacheAndHTTPMetrics(t *testing.T) {
	m := New()
	ctx := context.Background()

	m.OnCacheHit(ctx, "index")
	m.OnCacheMiss(ctx, "index")
	m.OnCacheSet(ctx, "index", 128)
	m.OnResponse(ctx, "GET", "/api/models", 200, time.Millisecond)
	m.SetSessions(3)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.cache.WithLabelValues("index", "hit")))
	assert.Equal(t, 128.0, testutil.ToFloat64(m.cacheBytes.WithLabelValues("index")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/models", "200")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.sessions))
}

func TestRegisterAndHandler(t *testing.T) {
	t.Cleanup(observability.Reset)
	m := New()
	m.Register()
	observability.Materialize().OnMemoHit(context.Background(), "m")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.True(t, strings.Contains(string(body), `ifctree_memo_lookups_total{result="hit"} 1`), string(body))
	assert.Contains(t, string(body), "go_goroutines")
}
