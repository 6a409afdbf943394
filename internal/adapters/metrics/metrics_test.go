package metrics_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/herd/internal/adapters/metrics"
	"go.trai.ch/herd/internal/core/domain"
)

func TestCollector_WritesTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "herd.prom")
	c := metrics.NewCollector(path)

	c.ObserveResult(domain.Result{
		State:         domain.StateSuccess,
		Attempts:      2,
		Duration:      3 * time.Second,
		ArtifactBytes: 1024,
	})
	c.ObserveResult(domain.Result{
		State:    domain.StateFatal,
		Attempts: 1,
		Duration: time.Second,
	})
	c.ObserveRun(domain.Summary{Succeeded: 1, Failed: 1, Skipped: 3, WallTime: 4 * time.Second})

	require.NoError(t, c.Flush())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, `herd_units_total{result="success"} 1`)
	assert.Contains(t, content, `herd_units_total{result="fatal"} 1`)
	assert.Contains(t, content, `herd_units_total{result="skipped"} 3`)
	assert.Contains(t, content, "herd_attempts_total 3")
	assert.Contains(t, content, "herd_artifact_bytes_total 1024")
	assert.Contains(t, content, "herd_run_duration_seconds 4")
}

func TestCollector_NoPathIsNoOp(t *testing.T) {
	c := metrics.NewCollector("")
	c.ObserveResult(domain.Result{State: domain.StateSuccess, Attempts: 1})
	assert.NoError(t, c.Flush())
}
