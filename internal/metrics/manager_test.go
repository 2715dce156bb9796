package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewManager("ridecoach", "daemon", reg)

	m.CounterSyncs.WithLabelValues(StatusOK).Inc()
	m.CounterActivitiesUpserted.Add(12)
	m.GaugeFTP.Set(251)
	m.HistSyncDuration.Observe(1.5)

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	assert.Contains(t, text, `ridecoach_daemon_syncs_total{status="ok"} 1`)
	assert.Contains(t, text, `ridecoach_daemon_activities_upserted_total 12`)
	assert.Contains(t, text, `ridecoach_daemon_ftp_watts 251`)
	assert.Contains(t, text, `ridecoach_daemon_sync_duration_seconds_count 1`)
}

func TestNewTestManagerIsolated(t *testing.T) {
	// Separate registries mean no duplicate registration panic.
	assert.NotPanics(t, func() {
		NewTestManager()
		NewTestManager()
	})

	m, reg := NewTestManagerAndRegistry()
	m.GaugeChronicLoad.Set(42)
	families, err := reg.Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "ridecoach_test_chronic_training_load")
}
