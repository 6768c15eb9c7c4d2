package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediator/internal/backend"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, configFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_DefaultOnly(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, GetDefaultConfig(), cfg)
	assert.Equal(t, DefaultStatusPath, cfg.Status.Path)
	assert.Equal(t, "/status", cfg.Status.RootSegment)
	assert.Equal(t, 5*time.Second, cfg.Status.RefreshInterval)
}

func TestLoadConfig_Overrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
status:
  path: /var/lib/mediator/status.xml
  rootSegment: /mw-status
  refreshInterval: 750ms
  watch: true
metrics:
  enabled: true
  address: 127.0.0.1:9100
logging:
  level: debug
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "fs", cfg.Status.Driver, "unset fields keep their defaults")
	assert.Equal(t, "/var/lib/mediator/status.xml", cfg.Status.Path)
	assert.Equal(t, "/mw-status", cfg.Status.RootSegment)
	assert.Equal(t, 750*time.Millisecond, cfg.Status.RefreshInterval)
	assert.True(t, cfg.Status.Watch)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "127.0.0.1:9100", cfg.Metrics.Address)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfig_FilePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("status:\n  driver: memory\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Status.Driver)
}

func TestLoadConfig_S3(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
status:
  driver: s3
  s3:
    bucket: element-status
    key: mw/status.xml
    region: eu-central-1
    endpoint: http://minio:9000
    pathStyle: true
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	bc := cfg.Status.BackendConfig()
	assert.Equal(t, backend.DriverS3, bc.Driver)
	assert.Equal(t, "element-status", bc.S3.Bucket)
	assert.Equal(t, "mw/status.xml", bc.S3.Key)
	assert.Equal(t, "eu-central-1", bc.S3.Region)
	assert.Equal(t, "http://minio:9000", bc.S3.Endpoint)
	assert.True(t, bc.S3.PathStyle)
}

func TestLoadConfig_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "status: [unterminated\n")

	_, err := LoadConfig(dir)
	require.Error(t, err)

	var ce ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "parse", ce.ErrorType)
	assert.Equal(t, path, ce.FilePath)
	assert.NotEmpty(t, ce.Suggestions)
}

func TestLoadConfig_Invalid(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "status:\n  driver: ftp\n  refreshInterval: 0s\n")

	_, err := LoadConfig(dir)
	require.Error(t, err)

	var coll ConfigurationErrorCollection
	require.True(t, errors.As(err, &coll))
	var fields []string
	for _, ce := range coll.Errors {
		fields = append(fields, ce.Field)
	}
	assert.Equal(t, []string{"status.driver", "status.refreshInterval"}, fields)
}

func TestLoadConfig_Unreadable(t *testing.T) {
	dir := t.TempDir()
	// A directory where the file should be cannot be read as a file.
	require.NoError(t, os.Mkdir(filepath.Join(dir, configFileName), 0755))

	_, err := LoadConfig(dir)
	require.Error(t, err)

	var ce ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, ErrorTypeIO, ce.ErrorType)
}

func TestConfigFilePath(t *testing.T) {
	assert.Equal(t, filepath.Join("/etc/mediator", "mediator.yaml"), ConfigFilePath("/etc/mediator"))
	assert.Equal(t, "/etc/mediator/other.yml", ConfigFilePath("/etc/mediator/other.yml"))
}
