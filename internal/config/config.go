package config

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/lnbridge/go-webln/provider/nwc"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Supported values of Config.Backend.
const (
	BackendBridge = "bridge"
	BackendNWC    = "nwc"
)

// Config is the command-line tool's configuration, read from WEBLN_*
// environment variables.
type Config struct {
	Backend        string `mapstructure:"BACKEND" envDefault:"bridge" envInfo:"Wallet backend: bridge | nwc"`
	BridgeAddr     string `mapstructure:"BRIDGE_ADDR" envDefault:"127.0.0.1:8089" envInfo:"Listen address of the browser bridge"`
	NwcURI         string `mapstructure:"NWC_URI" envDefault:"" envInfo:"Nostr Wallet Connect URI (required for the nwc backend)"`
	LogLevel       uint32 `mapstructure:"LOG_LEVEL" envDefault:"4" envInfo:"Log verbosity (higher = more verbose)"`
	SentryDSN      string `mapstructure:"SENTRY_DSN" envDefault:"" envInfo:"Sentry DSN for error reporting"`
	Environment    string `mapstructure:"ENVIRONMENT" envDefault:"production" envInfo:"Environment reported to Sentry"`
	MetricsAddr    string `mapstructure:"METRICS" envDefault:"" envInfo:"Listen address for Prometheus /metrics (empty disables)"`
	ConnectTimeout uint32 `mapstructure:"CONNECT_TIMEOUT" envDefault:"120" envInfo:"Seconds to wait for a wallet to connect"`
	ShowQR         bool   `mapstructure:"SHOW_QR" envDefault:"true" envInfo:"Print the bridge URL as a QR code"`
}

// LoadConfig reads the environment into a Config and fills in defaults. It
// does not validate: callers apply their own overrides first and then call
// Validate.
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix("WEBLN")
	v.AutomaticEnv()

	if err := setDefaultConfig(v); err != nil {
		return nil, fmt.Errorf("error setting default config: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %v", err)
	}

	return &config, nil
}

// Validate checks the backend selection and normalises Backend.
func (c *Config) Validate() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))

	switch c.Backend {
	case BackendBridge:
		if c.BridgeAddr == "" {
			return fmt.Errorf("BRIDGE_ADDR is required for the bridge backend")
		}
	case BackendNWC:
		if c.NwcURI == "" {
			return fmt.Errorf("NWC_URI is required for the nwc backend")
		}
		if _, err := nwc.ParseURI(c.NwcURI); err != nil {
			return fmt.Errorf("invalid NWC_URI: %w", err)
		}
	default:
		return fmt.Errorf("unsupported backend: %s", c.Backend)
	}

	if c.LogLevel > uint32(log.TraceLevel) {
		return fmt.Errorf("LOG_LEVEL must be between 0 and %d", log.TraceLevel)
	}
	return nil
}

// Level is LogLevel as a logrus level.
func (c *Config) Level() log.Level {
	return log.Level(c.LogLevel)
}

// ConnectTimeoutDuration is ConnectTimeout in seconds as a time.Duration.
func (c *Config) ConnectTimeoutDuration() time.Duration {
	return time.Duration(c.ConnectTimeout) * time.Second
}

// EnvVar documents one WEBLN_ environment variable.
type EnvVar struct {
	FullName    string
	Default     string
	Description string
}

// EnvSpecs lists the supported environment variables, in field order.
func EnvSpecs() []EnvVar {
	t := reflect.TypeOf(Config{})
	specs := make([]EnvVar, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		specs = append(specs, EnvVar{
			FullName:    "WEBLN_" + f.Tag.Get("mapstructure"),
			Default:     f.Tag.Get("envDefault"),
			Description: f.Tag.Get("envInfo"),
		})
	}
	return specs
}

func setDefaultConfig(v *viper.Viper) error {
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		key := f.Tag.Get("mapstructure")
		def := f.Tag.Get("envDefault")
		if def != "" {
			v.SetDefault(key, def)
		}
		err := v.BindEnv(key)
		if err != nil {
			return fmt.Errorf("error binding env variable for key %s: %w", key, err)
		}
	}
	return nil
}
