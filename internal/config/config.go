package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config wraps a viper instance preloaded with defaults, the optional
// config file, and environment variables.
type Config struct {
	v *viper.Viper
}

func New() (*Config, error) {
	v := viper.New()

	// default values
	for _, o := range ClientOptions {
		v.SetDefault(o.Key, o.Default)
	}

	// load config from file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/watchmux/")

	if err := v.ReadInConfig(); err != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !(errors.As(err, &notFoundErr) || errors.Is(err, os.ErrNotExist)) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// load config from environment variables
	v.SetEnvPrefix("WATCHMUX")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return &Config{v: v}, nil
}

// BindFlags registers the given options as pflag flags and binds them
// to their viper keys so flag values take precedence.
func (c *Config) BindFlags(fs *pflag.FlagSet, options []Option) error {
	for _, o := range options {
		switch v := o.Default.(type) {
		case string:
			fs.String(o.Flag, v, o.Description)
		case int:
			fs.Int(o.Flag, v, o.Description)
		case bool:
			fs.Bool(o.Flag, v, o.Description)
		case []string:
			fs.StringSlice(o.Flag, v, o.Description)
		case time.Duration:
			fs.Duration(o.Flag, v, o.Description)
		default:
			return fmt.Errorf("unsupported flag type for key: %s", o.Key)
		}

		if err := c.v.BindPFlag(o.Key, fs.Lookup(o.Flag)); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", o.Flag, err)
		}
	}

	return nil
}

func (c *Config) ClientServerURL() string {
	return c.v.GetString(keyClientServerURL) // WATCHMUX_CLIENT_SERVER_URL
}

func (c *Config) ClientAPIPrefix() string {
	return c.v.GetString(keyClientAPIPrefix) // WATCHMUX_CLIENT_API_PREFIX
}

func (c *Config) ClientDebounce() time.Duration {
	return c.v.GetDuration(keyClientDebounce) // WATCHMUX_CLIENT_DEBOUNCE
}

func (c *Config) ClientRetryBudget() int {
	return c.v.GetInt(keyClientRetryBudget) // WATCHMUX_CLIENT_RETRY_BUDGET
}

func (c *Config) ClientRetryDelay() time.Duration {
	return c.v.GetDuration(keyClientRetryDelay) // WATCHMUX_CLIENT_RETRY_DELAY
}

func (c *Config) ClientRefreshRetryDelay() time.Duration {
	return c.v.GetDuration(keyClientRefreshRetryDelay) // WATCHMUX_CLIENT_REFRESH_RETRY_DELAY
}

func (c *Config) ClientHandshakeTimeout() time.Duration {
	return c.v.GetDuration(keyClientHandshakeTimeout) // WATCHMUX_CLIENT_HANDSHAKE_TIMEOUT
}

func (c *Config) ClientMetricsAddress() string {
	return c.v.GetString(keyClientMetricsAddress) // WATCHMUX_CLIENT_METRICS_ADDRESS
}

func (c *Config) ClientKinds() []string {
	return c.v.GetStringSlice(keyClientKinds) // WATCHMUX_CLIENT_KINDS
}

func (c *Config) ClientNamespaces() []string {
	return c.v.GetStringSlice(keyClientNamespaces) // WATCHMUX_CLIENT_NAMESPACES
}
