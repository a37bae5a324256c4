// Package config reads server configuration from the environment.
package config

import (
	"os"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr             string
	DefaultNamespace string
	LogLevel         string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("CIMREPO_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	namespace := os.Getenv("CIMREPO_NAMESPACE")
	if namespace == "" {
		namespace = "root/cimv2"
	}
	level := os.Getenv("CIMREPO_LOG_LEVEL")
	if level == "" {
		level = "info"
	}
	return Server{
		Addr:             addr,
		DefaultNamespace: namespace,
		LogLevel:         level,
	}
}
