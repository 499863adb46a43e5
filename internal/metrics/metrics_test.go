package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/fd1az/campus-rewards/internal/logger"
)

func TestPrometheusExposesMeters(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()

	mp, err := NewMetricProvider(ctx, WithServiceName("campus-rewards-test"), WithPrometheus(reg))
	if err != nil {
		t.Fatalf("NewMetricProvider() error = %v", err)
	}
	defer mp.Shutdown(ctx)

	counter, err := mp.Meter("test").Int64Counter("wallet_rewards_total")
	if err != nil {
		t.Fatal(err)
	}
	counter.Add(ctx, 3)

	srv := httptest.NewServer(NewServer(0, reg, logger.NewNop()).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "wallet_rewards_total") {
		t.Errorf("metrics output missing counter:\n%s", body)
	}
}
