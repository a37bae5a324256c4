package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("CIMREPO_ADDR", "")
	t.Setenv("CIMREPO_NAMESPACE", "")
	t.Setenv("CIMREPO_LOG_LEVEL", "")

	cfg := FromEnv()
	require.Equal(t, ":8080", cfg.Addr)
	require.Equal(t, "root/cimv2", cfg.DefaultNamespace)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("CIMREPO_ADDR", "127.0.0.1:9090")
	t.Setenv("CIMREPO_NAMESPACE", "root/interop")
	t.Setenv("CIMREPO_LOG_LEVEL", "debug")

	cfg := FromEnv()
	require.Equal(t, "127.0.0.1:9090", cfg.Addr)
	require.Equal(t, "root/interop", cfg.DefaultNamespace)
	require.Equal(t, "debug", cfg.LogLevel)
}
