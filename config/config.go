// Package config loads runtime settings for the catalog from an optional file
// and CATALOG_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goliatone/go-catalog"
	"github.com/goliatone/go-catalog/form"
	"github.com/goliatone/go-catalog/pages"
	"github.com/goliatone/go-catalog/pkg/activity"
	"github.com/goliatone/go-catalog/pkg/database"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. CATALOG_RULES_ENGINE.
const EnvPrefix = "CATALOG"

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the full set of catalog settings. Zero fields fall back to the
// defaults registered in setDefaults.
type Config struct {
	Log      LogConfig       `mapstructure:"log"`
	Rules    RulesConfig     `mapstructure:"rules"`
	Catalog  CatalogConfig   `mapstructure:"catalog"`
	Defaults DefaultsConfig  `mapstructure:"defaults"`
	Activity ActivityConfig  `mapstructure:"activity"`
	Database database.Config `mapstructure:"database"`
}

// LogConfig selects the slog level (debug, info, warn, error) and handler
// format (text or json).
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RulesConfig names the expression engine validators compile rules with.
type RulesConfig struct {
	Engine string `mapstructure:"engine"`
}

// CatalogConfig tunes product editor behavior.
type CatalogConfig struct {
	PreserveSelections bool `mapstructure:"preserve_selections"`
}

// DefaultsConfig seeds creation forms. Values are text so files stay
// readable; Resolve parses them.
type DefaultsConfig struct {
	ProductPrice  string `mapstructure:"product_price"`
	ProductListed bool   `mapstructure:"product_listed"`
	VariantSize   string `mapstructure:"variant_size"`
	VariantColor  string `mapstructure:"variant_color"`
}

// ActivityConfig controls whether store mutations reach activity hooks and
// which channel and actor they carry by default.
type ActivityConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Channel string `mapstructure:"channel"`
	ActorID string `mapstructure:"actor_id"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("rules.engine", string(form.EngineExpr))
	v.SetDefault("catalog.preserve_selections", false)
	v.SetDefault("defaults.product_price", "20.99")
	v.SetDefault("defaults.product_listed", true)
	v.SetDefault("defaults.variant_size", catalog.SizeM.String())
	v.SetDefault("defaults.variant_color", catalog.White.Hex())
	v.SetDefault("activity.enabled", false)
	v.SetDefault("activity.channel", activity.DefaultChannel)
	v.SetDefault("activity.actor_id", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 0)
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "")
}

// Load reads path when it is not empty, applies environment overrides and
// validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.Log.level(); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q must be text or json", c.Log.Format))
	}
	if _, err := form.ParseEngine(c.Rules.Engine); err != nil {
		errs = append(errs, fmt.Errorf("rules.engine: %w", err))
	}
	if _, err := c.Defaults.Resolve(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

func (l LogConfig) level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// NewLogger builds a text or JSON slog logger writing to w.
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level, err := l.level()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(l.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Resolve parses the defaults into page defaults.
func (d DefaultsConfig) Resolve() (pages.Defaults, error) {
	price, err := decimal.NewFromString(d.ProductPrice)
	if err != nil {
		return pages.Defaults{}, fmt.Errorf("defaults.product_price: %w", err)
	}
	if price.IsNegative() {
		return pages.Defaults{}, fmt.Errorf("defaults.product_price %s is negative", price)
	}
	size, err := catalog.ParseSize(d.VariantSize)
	if err != nil {
		return pages.Defaults{}, fmt.Errorf("defaults.variant_size: %w", err)
	}
	color, err := catalog.ParseHexColor(d.VariantColor)
	if err != nil {
		return pages.Defaults{}, fmt.Errorf("defaults.variant_color: %w", err)
	}
	return pages.Defaults{
		ProductPrice:  price,
		ProductListed: d.ProductListed,
		VariantSize:   size,
		VariantColor:  color,
	}, nil
}

// Emitter builds an activity emitter over hooks.
func (a ActivityConfig) Emitter(hooks ...activity.ActivityHook) *activity.Emitter {
	return activity.NewEmitter(activity.Hooks(hooks), activity.Config{
		Enabled: a.Enabled,
		Channel: a.Channel,
		ActorID: a.ActorID,
	})
}

// AppOptions translates the config into page app options.
func (c *Config) AppOptions(logger *slog.Logger) ([]pages.Option, error) {
	defaults, err := c.Defaults.Resolve()
	if err != nil {
		return nil, err
	}
	engine, err := form.ParseEngine(c.Rules.Engine)
	if err != nil {
		return nil, err
	}
	return []pages.Option{
		pages.WithDefaults(defaults),
		pages.WithLogger(logger),
		pages.WithFormOptions(form.WithEngine(engine)),
		pages.WithPreserveSelections(c.Catalog.PreserveSelections),
	}, nil
}
