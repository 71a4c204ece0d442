// SPDX-License-Identifier: EPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ik5/audpeaks/waveform"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	LogLevel string         `mapstructure:"log_level"`
	Server   ServerConfig   `mapstructure:"server"`
	Waveform WaveformConfig `mapstructure:"waveform"`
}

type ServerConfig struct {
	ListenAddr      string `mapstructure:"listen_addr"`
	BaseDir         string `mapstructure:"base_dir"`
	Workers         int    `mapstructure:"workers"`
	RequestTimeout  int    `mapstructure:"request_timeout"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
}

// RequestTimeoutDuration returns RequestTimeout, given in seconds.
func (s ServerConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(s.RequestTimeout) * time.Second
}

// ShutdownTimeoutDuration returns ShutdownTimeout, given in seconds.
func (s ServerConfig) ShutdownTimeoutDuration() time.Duration {
	return time.Duration(s.ShutdownTimeout) * time.Second
}

type WaveformConfig struct {
	SamplesPerPixel int  `mapstructure:"samples_per_pixel"`
	Bits            int  `mapstructure:"bits"`
	SplitChannels   bool `mapstructure:"split_channels"`
}

// Params converts the configured defaults to encoding parameters.
func (w WaveformConfig) Params() waveform.Params {
	return waveform.Params{
		SamplesPerPixel: w.SamplesPerPixel,
		SplitChannels:   w.SplitChannels,
		Bits:            w.Bits,
	}
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Server: ServerConfig{
			ListenAddr:      ":3000",
			BaseDir:         "public",
			Workers:         4,
			RequestTimeout:  60,
			ShutdownTimeout: 30,
		},
		Waveform: WaveformConfig{
			SamplesPerPixel: waveform.DefaultSamplesPerPixel,
			Bits:            waveform.DefaultBits,
			SplitChannels:   true,
		},
	}
}

// flagKeys maps config keys to the flags that override them.
var flagKeys = map[string]string{
	"log_level":                  "log-level",
	"server.listen_addr":         "listen-addr",
	"server.base_dir":            "base-dir",
	"server.workers":             "workers",
	"server.request_timeout":     "request-timeout",
	"server.shutdown_timeout":    "shutdown-timeout",
	"waveform.samples_per_pixel": "samples-per-pixel",
	"waveform.bits":              "bits",
	"waveform.split_channels":    "split-channels",
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("log-level", defaults.LogLevel, "Log level (debug|info|warn|error)")
	fs.String("listen-addr", defaults.Server.ListenAddr, "HTTP listen address")
	fs.String("base-dir", defaults.Server.BaseDir, "Directory audio file names are resolved against")
	fs.Int("workers", defaults.Server.Workers, "Max concurrent waveform requests")
	fs.Int("request-timeout", defaults.Server.RequestTimeout, "Per-request timeout in seconds")
	fs.Int("shutdown-timeout", defaults.Server.ShutdownTimeout, "Graceful shutdown timeout in seconds")
	fs.Int("samples-per-pixel", defaults.Waveform.SamplesPerPixel, "Audio frames per output pixel")
	fs.Int("bits", defaults.Waveform.Bits, "Output sample width (8|16)")
	fs.Bool("split-channels", defaults.Waveform.SplitChannels, "One envelope per input channel")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := bindFlags(v, opts.Cmd.Flags()); err != nil {
			return Config{}, err
		}
	}

	v.SetEnvPrefix("AUDPEAKS")
	replacer := strings.NewReplacer("-", "_", ".", "_")
	v.SetEnvKeyReplacer(replacer)
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("audpeaks")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate rejects values no command can run with.
func (c Config) Validate() error {
	if err := c.Waveform.Params().Validate(); err != nil {
		return fmt.Errorf("waveform config: %w", err)
	}

	if c.Server.Workers < 0 {
		return fmt.Errorf("server.workers must not be negative, got %d", c.Server.Workers)
	}

	if c.Server.RequestTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		return errors.New("server timeouts must not be negative")
	}

	return nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("log_level", c.LogLevel)
	v.SetDefault("server.listen_addr", c.Server.ListenAddr)
	v.SetDefault("server.base_dir", c.Server.BaseDir)
	v.SetDefault("server.workers", c.Server.Workers)
	v.SetDefault("server.request_timeout", c.Server.RequestTimeout)
	v.SetDefault("server.shutdown_timeout", c.Server.ShutdownTimeout)
	v.SetDefault("waveform.samples_per_pixel", c.Waveform.SamplesPerPixel)
	v.SetDefault("waveform.bits", c.Waveform.Bits)
	v.SetDefault("waveform.split_channels", c.Waveform.SplitChannels)
}

// bindFlags binds each registered flag to its nested key, so a flag only
// wins over the config file and environment when it was set explicitly.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for key, name := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}

		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %q: %w", name, err)
		}
	}

	return nil
}
