package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestCollectorsRegistered(t *testing.T) {
	TicksTotal.WithLabelValues("dca").Inc()
	DecisionsTotal.WithLabelValues("hold").Inc()

	mfs, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	found := map[string]bool{}
	for _, mf := range mfs {
		found[mf.GetName()] = true
	}
	for _, name := range []string{"soltrader_ticks_total", "soltrader_decisions_total"} {
		if !found[name] {
			t.Fatalf("%s metric not found", name)
		}
	}
}

func TestHandlerServesText(t *testing.T) {
	LastPrice.Set(150)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "soltrader_last_price_usd 150") {
		t.Fatalf("expected gauge in output, got %s", body)
	}
}
