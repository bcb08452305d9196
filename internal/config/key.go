// Package config provides unified configuration loading from files,
// environment variables, and CLI flags using viper and pflag.
//
// Resolution order (highest wins):
//  1. CLI flags
//  2. Environment variables (prefix WATCHMUX_)
//  3. Config file (config.yaml in . or /etc/watchmux/)
//  4. Compiled defaults
package config

// Viper keys for the watch client.
const (
	keyClientServerURL         = "client.server_url"
	keyClientAPIPrefix         = "client.api_prefix"
	keyClientDebounce          = "client.debounce"
	keyClientRetryBudget       = "client.retry_budget"
	keyClientRetryDelay        = "client.retry_delay"
	keyClientRefreshRetryDelay = "client.refresh_retry_delay"
	keyClientHandshakeTimeout  = "client.handshake_timeout"
	keyClientMetricsAddress    = "client.metrics_address"
	keyClientKinds             = "client.kinds"
	keyClientNamespaces        = "client.namespaces"
)
