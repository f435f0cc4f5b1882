package metric

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.ObserveClaim("gift", "success")
	r.ObserveClaim("gift", "already_taken")
	r.ObserveClaim("gift", "already_taken")
	r.ObserveStoreOp("mark_gifted", 3*time.Millisecond)

	if got := testutil.ToFloat64(r.claims.WithLabelValues("gift", "already_taken")); got != 2 {
		t.Errorf("expected 2 already_taken claims, got %v", got)
	}
	if got := testutil.ToFloat64(r.claims.WithLabelValues("gift", "success")); got != 1 {
		t.Errorf("expected 1 successful claim, got %v", got)
	}
	if n := testutil.CollectAndCount(r.storeOp); n != 1 {
		t.Errorf("expected 1 store op series, got %d", n)
	}
}
