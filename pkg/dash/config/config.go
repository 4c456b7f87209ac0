package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/komsit37/tickerdash/pkg/dash/render"
	"github.com/komsit37/tickerdash/pkg/dash/types"
)

// EnvPrefix prefixes every environment override, e.g. TICKERDASH_PERIOD or
// TICKERDASH_LOG_LEVEL.
const EnvPrefix = "TICKERDASH"

// Keys shared by flags, env and config file.
const (
	KeyPeriod      = "period"
	KeyInterval    = "interval"
	KeySMA         = "sma"
	KeySMAWindow   = "sma_window"
	KeyTables      = "tables"
	KeyFormat      = "format"
	KeyOutput      = "output"
	KeyFixture     = "fixture"
	KeyTimeout     = "timeout"
	KeyColor       = "color"
	KeyMaxColWidth = "max_col_width"
	KeyLogLevel    = "log.level"
	KeyLogFormat   = "log.format"
	KeyServeAddr   = "serve.addr"
)

type Config struct {
	Period      types.Period
	Interval    types.Interval
	ShowSMA     bool
	SMAWindow   int
	Tables      []string
	Format      string
	Output      string
	Fixture     string
	Timeout     time.Duration
	Color       bool
	MaxColWidth int
	Log         LogConfig
	Serve       ServeConfig
}

type LogConfig struct {
	Level  string
	Format string
}

type ServeConfig struct {
	Addr string
}

// New returns a viper instance with defaults and env overrides wired.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyPeriod, string(types.DefaultPeriod))
	v.SetDefault(KeyInterval, string(types.DefaultInterval))
	v.SetDefault(KeySMA, types.DefaultShowSMA)
	v.SetDefault(KeySMAWindow, types.DefaultSMAWindow)
	v.SetDefault(KeyTables, []string{})
	v.SetDefault(KeyFormat, render.FormatTable)
	v.SetDefault(KeyOutput, "")
	v.SetDefault(KeyFixture, "")
	v.SetDefault(KeyTimeout, 15*time.Second)
	v.SetDefault(KeyColor, true)
	v.SetDefault(KeyMaxColWidth, 40)
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyServeAddr, ":8080")
}

// ReadFile merges a YAML/TOML/JSON config file into v. An empty path is a
// no-op.
func ReadFile(v *viper.Viper, path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

// Load resolves and validates the effective configuration.
func Load(v *viper.Viper) (Config, error) {
	c := Config{
		ShowSMA:     v.GetBool(KeySMA),
		SMAWindow:   v.GetInt(KeySMAWindow),
		Tables:      splitList(v.GetStringSlice(KeyTables)),
		Format:      strings.ToLower(strings.TrimSpace(v.GetString(KeyFormat))),
		Output:      v.GetString(KeyOutput),
		Fixture:     v.GetString(KeyFixture),
		Timeout:     v.GetDuration(KeyTimeout),
		Color:       v.GetBool(KeyColor),
		MaxColWidth: v.GetInt(KeyMaxColWidth),
		Log: LogConfig{
			Level:  v.GetString(KeyLogLevel),
			Format: v.GetString(KeyLogFormat),
		},
		Serve: ServeConfig{Addr: v.GetString(KeyServeAddr)},
	}

	var err error
	if c.Period, err = types.ParsePeriod(v.GetString(KeyPeriod)); err != nil {
		return c, err
	}
	if c.Interval, err = types.ParseInterval(v.GetString(KeyInterval)); err != nil {
		return c, err
	}
	if c.SMAWindow < 1 {
		return c, fmt.Errorf("%s must be at least 1, got %d", KeySMAWindow, c.SMAWindow)
	}
	if _, err := render.New(c.Format); err != nil {
		return c, err
	}
	if c.Timeout <= 0 {
		return c, fmt.Errorf("%s must be positive, got %s", KeyTimeout, c.Timeout)
	}
	return c, nil
}

// splitList accepts both repeated values and comma-separated ones.
func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
