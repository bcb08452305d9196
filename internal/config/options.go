package config

import (
	"strings"
	"time"
)

// Option describes a single configuration entry: its viper key, the
// corresponding CLI flag name, the compiled default, and a
// human-readable description shown in --help output.
type Option struct {
	Key         string
	Flag        string
	Default     any
	Description string
}

// ClientOptions defines the configuration entries available to the
// watch command. Each entry is registered as a viper default and a CLI
// flag.
var ClientOptions = []Option{
	{Key: keyClientServerURL, Flag: toFlag(keyClientServerURL), Default: "http://127.0.0.1:8299", Description: "Hub server base URL"},
	{Key: keyClientAPIPrefix, Flag: toFlag(keyClientAPIPrefix), Default: "api/v1", Description: "Hub API path prefix"},
	{Key: keyClientDebounce, Flag: toFlag(keyClientDebounce), Default: 500 * time.Millisecond, Description: "Quiet window applied to interest changes before reconnecting"},
	{Key: keyClientRetryBudget, Flag: toFlag(keyClientRetryBudget), Default: 5, Description: "Automatic reconnect attempts allowed before going dormant"},
	{Key: keyClientRetryDelay, Flag: toFlag(keyClientRetryDelay), Default: 2 * time.Second, Description: "Fixed delay between automatic reconnect attempts"},
	{Key: keyClientRefreshRetryDelay, Flag: toFlag(keyClientRefreshRetryDelay), Default: time.Second, Description: "Fixed delay before retrying a failed resource-version refresh"},
	{Key: keyClientHandshakeTimeout, Flag: toFlag(keyClientHandshakeTimeout), Default: 10 * time.Second, Description: "Websocket handshake timeout"},
	{Key: keyClientMetricsAddress, Flag: toFlag(keyClientMetricsAddress), Default: ":9290", Description: "Metrics listen address"},
	{Key: keyClientKinds, Flag: toFlag(keyClientKinds), Default: []string{}, Description: "Resource kinds to watch (e.g. pods,deployments)"},
	{Key: keyClientNamespaces, Flag: toFlag(keyClientNamespaces), Default: []string{}, Description: "Static namespace list; empty means resolve from the cluster"},
}

// toFlag converts a viper key like "client.refresh_retry_delay" into a
// CLI flag like "refresh-retry-delay" by lower-casing, replacing dots
// and underscores with hyphens, and stripping the "client-" prefix.
func toFlag(key string) string {
	flag := strings.ToLower(key)
	flag = strings.ReplaceAll(flag, ".", "-")
	flag = strings.ReplaceAll(flag, "_", "-")
	flag = strings.TrimPrefix(flag, "client-")
	return flag
}
