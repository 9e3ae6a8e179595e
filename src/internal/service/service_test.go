// FILE: logfan/src/internal/service/service_test.go
package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"logfan/src/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, environment string) *config.Config {
	t.Helper()
	cfg := config.Defaults()
	cfg.Environment = environment
	cfg.Directory = t.TempDir()
	cfg.Console.Silent = true
	cfg.Fault.Directory = cfg.Directory
	return cfg
}

func artifact(t *testing.T, dir, family string) string {
	t.Helper()
	name := family + "-" + time.Now().Format("2006-01-02") + ".log"
	data, err := os.ReadFile(filepath.Join(dir, name))
	if os.IsNotExist(err) {
		return ""
	}
	require.NoError(t, err)
	return string(data)
}

func TestServiceRoutesByFamily(t *testing.T) {
	cfg := testConfig(t, "development")
	svc, err := New(cfg, newTestLogger())
	require.NoError(t, err)

	require.NoError(t, svc.Start(context.Background()))

	lg := svc.Logger()
	lg.Error("disk failure", map[string]any{"device": "sda"})
	lg.Warn("cache miss spike")
	lg.Info("request served")
	lg.HTTP("GET /health 200 - 1 ms")
	lg.Debug("resolver state dump")

	svc.Shutdown()

	dir := cfg.Directory

	errorLog := artifact(t, dir, "error")
	assert.Contains(t, errorLog, "disk failure")
	assert.Contains(t, errorLog, `"device":"sda"`)
	assert.NotContains(t, errorLog, "cache miss spike")

	warnLog := artifact(t, dir, "warn")
	assert.Contains(t, warnLog, "cache miss spike")
	assert.NotContains(t, warnLog, "disk failure")

	combined := artifact(t, dir, "combined")
	assert.Contains(t, combined, "disk failure")
	assert.Contains(t, combined, "cache miss spike")
	assert.Contains(t, combined, "request served")
	assert.NotContains(t, combined, "GET /health")
	assert.NotContains(t, combined, "resolver state dump")

	httpLog := artifact(t, dir, "http")
	assert.Contains(t, httpLog, "GET /health 200 - 1 ms")
	assert.NotContains(t, httpLog, "request served")

	debugLog := artifact(t, dir, "debug")
	assert.Contains(t, debugLog, "disk failure")
	assert.Contains(t, debugLog, "resolver state dump")
}

func TestServiceProductionSuppressesVerboseLevels(t *testing.T) {
	cfg := testConfig(t, config.EnvProduction)
	svc, err := New(cfg, newTestLogger())
	require.NoError(t, err)

	require.NoError(t, svc.Start(context.Background()))

	lg := svc.Logger()
	lg.Info("request served")
	lg.HTTP("GET / 200 - 1 ms")
	lg.Debug("resolver state dump")

	svc.Shutdown()

	dir := cfg.Directory
	assert.Contains(t, artifact(t, dir, "combined"), "request served")
	assert.Empty(t, artifact(t, dir, "http"))
	assert.NotContains(t, artifact(t, dir, "debug"), "resolver state dump")

	stats := svc.Stats()
	assert.Equal(t, uint64(1), stats.TotalDispatched)
	assert.Equal(t, uint64(2), stats.TotalBelowFloor)
}

func TestServiceStats(t *testing.T) {
	cfg := testConfig(t, "development")
	svc, err := New(cfg, newTestLogger())
	require.NoError(t, err)

	require.NoError(t, svc.Start(context.Background()))
	svc.Logger().Info("one")
	svc.Logger().Info("two")
	svc.Shutdown()

	stats := svc.Stats()
	assert.Equal(t, uint64(2), stats.TotalDispatched)
	// Console plus the five default families.
	assert.Len(t, stats.Sinks, 6)
	assert.Equal(t, "console", stats.Sinks[0].Name)
}

func TestServiceFaultCaptureWired(t *testing.T) {
	cfg := testConfig(t, "development")
	svc, err := New(cfg, newTestLogger())
	require.NoError(t, err)
	require.NotNil(t, svc.Faults())

	require.NoError(t, svc.Start(context.Background()))
	svc.Faults().RecordRejection(assert.AnError)
	svc.Shutdown()

	data, err := os.ReadFile(filepath.Join(cfg.Directory, "unhandled-rejections.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), assert.AnError.Error())
}

func TestServiceRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t, "development")
	cfg.Files[0].Family = cfg.Files[1].Family

	_, err := New(cfg, newTestLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate family")
}

func TestEnsureDirectory(t *testing.T) {
	cfg := testConfig(t, "development")
	cfg.Directory = filepath.Join(t.TempDir(), "nested", "logs")
	cfg.Fault.Directory = filepath.Join(cfg.Directory, "faults")

	require.NoError(t, EnsureDirectory(cfg))
	assert.DirExists(t, cfg.Directory)
	assert.DirExists(t, cfg.Fault.Directory)
}
