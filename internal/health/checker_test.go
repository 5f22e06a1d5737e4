package health_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/ErlanBelekov/art-marketplace/internal/health"
	"github.com/prometheus/client_golang/prometheus"
)

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

func newTestChecker(deps map[string]health.Pinger) (*health.Checker, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	logger := slog.Default()
	return health.NewChecker(deps, logger, reg), reg
}

func TestLiveness_AlwaysUp(t *testing.T) {
	c, _ := newTestChecker(map[string]health.Pinger{"postgres": &mockPinger{err: errors.New("db down")}})

	result := c.Liveness(context.Background())
	if result.Status != "up" {
		t.Fatalf("expected status up, got %s", result.Status)
	}
	if result.Checks != nil {
		t.Fatalf("expected no checks, got %v", result.Checks)
	}
}

func TestReadiness(t *testing.T) {
	refused := errors.New("connection refused")
	tests := []struct {
		name       string
		mongo      error
		redis      error
		wantStatus string
		wantGauges map[string]float64
	}{
		{"all up", nil, nil, "up", map[string]float64{"mongo": 1, "redis": 1}},
		{"store down", refused, nil, "down", map[string]float64{"mongo": 0, "redis": 1}},
		{"cache down", nil, refused, "down", map[string]float64{"mongo": 1, "redis": 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, reg := newTestChecker(map[string]health.Pinger{
				"mongo": &mockPinger{err: tt.mongo},
				"redis": health.PingFunc(func(context.Context) error { return tt.redis }),
			})

			result := c.Readiness(context.Background())
			if result.Status != tt.wantStatus {
				t.Fatalf("status = %s, want %s", result.Status, tt.wantStatus)
			}
			for dep, want := range tt.wantGauges {
				check := result.Checks[dep]
				if (want == 1) != (check.Status == "up") {
					t.Errorf("%s check = %+v", dep, check)
				}
				if want == 0 && check.Error == "" {
					t.Errorf("%s down without error message", dep)
				}
				if got := testGauge(t, reg, "artmarket_health_check_up", dep); got != want {
					t.Errorf("%s gauge = %v, want %v", dep, got, want)
				}
			}
		})
	}
}

func TestReadiness_PingsCarryDeadline(t *testing.T) {
	var hasDeadline bool
	c, _ := newTestChecker(map[string]health.Pinger{
		"postgres": health.PingFunc(func(ctx context.Context) error {
			_, hasDeadline = ctx.Deadline()
			return nil
		}),
	})

	c.Readiness(context.Background())
	if !hasDeadline {
		t.Error("ping context has no deadline")
	}
}

func testGauge(t *testing.T, reg *prometheus.Registry, name, depLabel string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "dependency" && lp.GetValue() == depLabel {
					return m.GetGauge().GetValue()
				}
			}
		}
	}
	t.Fatalf("metric %s{dependency=%q} not found", name, depLabel)
	return 0
}
