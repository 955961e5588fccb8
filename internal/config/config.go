// Package config loads the demo CLI's settings with viper: flags,
// environment variables (ANCSC_ prefixed), and an optional config file,
// in that order of precedence.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config is everything cmd/ancsc needs to stand up a Session.
type Config struct {
	LogLevel    string
	LogFile     string
	Transport   string // "simulated" or "tinygoble"
	DeviceAddr  string
	CPBufferLen int
	MetricsAddr string
}

// Load reads configFile (may be empty) plus environment and flag
// overrides already registered on v, and returns the resolved Config.
func Load(v *viper.Viper, configFile string) (Config, error) {
	v.SetEnvPrefix("ancsc")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("log-level", "info")
	v.SetDefault("log-file", "")
	v.SetDefault("transport", "simulated")
	v.SetDefault("device-addr", "")
	v.SetDefault("cp-buffer-len", 64)
	v.SetDefault("metrics-addr", ":9464")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	return Config{
		LogLevel:    v.GetString("log-level"),
		LogFile:     v.GetString("log-file"),
		Transport:   v.GetString("transport"),
		DeviceAddr:  v.GetString("device-addr"),
		CPBufferLen: v.GetInt("cp-buffer-len"),
		MetricsAddr: v.GetString("metrics-addr"),
	}, nil
}
