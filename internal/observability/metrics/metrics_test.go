package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestPlatformMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPlatformMetrics(reg)
	m.ObserveLogin("success")
	m.ObserveRegistration("duplicate")
	m.ObserveInteraction("Heloisa Capistrano")
	m.ObserveFinalized()
	m.SetQueuePending(2)
}

func TestPlatformMetricsNilSafe(t *testing.T) {
	var m *PlatformMetrics
	m.ObserveLogin("success")
	m.ObserveRegistration("invalid")
	m.ObserveInteraction("agent")
	m.ObserveFinalized()
	m.SetQueuePending(0)
}
