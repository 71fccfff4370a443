// Package config loads the workspace configuration from .engage/config.yaml,
// ENGAGE_* environment variables and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/felixgeelhaar/engage/internal/infrastructure/webhook"
	"github.com/felixgeelhaar/engage/pkg/feed"
	"github.com/felixgeelhaar/engage/pkg/storage"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	envPrefix       = "ENGAGE"
	defaultGroupKey = "default"
	DefaultPageSize = 30
	DefaultDebounce = 500 * time.Millisecond
	DefaultCopyMode = "hashtags"
	configName      = "config"
	configType      = "yaml"
)

// Config is the workspace configuration.
type Config struct {
	Groups   []feed.Group       `mapstructure:"groups" validate:"required,min=1,unique=Key,dive"`
	Timeout  time.Duration      `mapstructure:"timeout" validate:"gte=0"`
	Language string             `mapstructure:"language" validate:"omitempty,oneof=th en"`
	PageSize int                `mapstructure:"page_size" validate:"gte=1"`
	CopyMode string             `mapstructure:"copy_mode" validate:"oneof=hashtags message both"`
	Sheets   SheetsConfig       `mapstructure:"sheets"`
	Watch    WatchConfig        `mapstructure:"watch"`
	Webhooks []webhook.Endpoint `mapstructure:"webhooks" validate:"omitempty,unique=Name,dive"`
}

// SheetsConfig configures sheets:// groups.
type SheetsConfig struct {
	APIKey   string `mapstructure:"api_key"`
	Endpoint string `mapstructure:"endpoint" validate:"omitempty,url"`
}

// WatchConfig tunes `engage watch`. A zero Interval disables polling of
// remote feeds; local files are always watched.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce" validate:"gte=0"`
	Interval time.Duration `mapstructure:"interval" validate:"gte=0"`
}

// GroupKeys returns the configured group keys in order.
func (c *Config) GroupKeys() []string {
	keys := make([]string, 0, len(c.Groups))
	for _, g := range c.Groups {
		keys = append(keys, g.Key)
	}
	return keys
}

// ErrNoGroups is returned when neither the config file nor ENGAGE_FEED_URL
// names a feed.
var ErrNoGroups = errors.New("no task groups configured")

var validate = validator.New()

func setDefaults(v *viper.Viper) {
	v.SetDefault("timeout", feed.DefaultTimeout)
	v.SetDefault("page_size", DefaultPageSize)
	v.SetDefault("copy_mode", DefaultCopyMode)
	v.SetDefault("watch.debounce", DefaultDebounce)
	v.SetDefault("watch.interval", time.Duration(0))
	v.SetDefault("sheets.api_key", "")
	v.SetDefault("sheets.endpoint", "")
	v.SetDefault("language", "")
	v.SetDefault("feed_url", "")
}

// Load reads the configuration for the workspace at root. A missing config
// file is not an error when ENGAGE_FEED_URL provides a single feed.
func Load(root string) (*Config, error) {
	// A missing .env is fine.
	_ = godotenv.Load(filepath.Join(root, ".env"))

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	v.AddConfigPath(filepath.Join(root, storage.EngageDir))
	v.SetConfigName(configName)
	v.SetConfigType(configType)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if len(cfg.Groups) == 0 {
		if u := v.GetString("feed_url"); u != "" {
			cfg.Groups = []feed.Group{{Key: defaultGroupKey, URL: u}}
		}
	}
	if len(cfg.Groups) == 0 {
		return nil, ErrNoGroups
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// fileConfig is the on-disk shape written by Save. Durations are kept as
// strings so the file stays hand-editable.
type fileConfig struct {
	Groups   []feed.Group  `yaml:"groups"`
	Timeout  string        `yaml:"timeout,omitempty"`
	Language string        `yaml:"language,omitempty"`
	PageSize int           `yaml:"page_size,omitempty"`
	CopyMode string        `yaml:"copy_mode,omitempty"`
	Sheets   *fileSheets   `yaml:"sheets,omitempty"`
	Watch    *fileWatch    `yaml:"watch,omitempty"`
	Webhooks []fileWebhook `yaml:"webhooks,omitempty"`
}

type fileSheets struct {
	APIKey   string `yaml:"api_key,omitempty"`
	Endpoint string `yaml:"endpoint,omitempty"`
}

type fileWatch struct {
	Debounce string `yaml:"debounce,omitempty"`
	Interval string `yaml:"interval,omitempty"`
}

type fileWebhook struct {
	Name       string   `yaml:"name"`
	URL        string   `yaml:"url"`
	Secret     string   `yaml:"secret,omitempty"`
	Events     []string `yaml:"events,omitempty"`
	MaxRetries int      `yaml:"max_retries,omitempty"`
	RetryDelay string   `yaml:"retry_delay,omitempty"`
	Format     string   `yaml:"format,omitempty"`
}

func durationString(d time.Duration) string {
	if d == 0 {
		return ""
	}
	return d.String()
}

// Save writes cfg to .engage/config.yaml.
func Save(root string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	repo := storage.NewFilesystemRepository(root)
	path, err := repo.ResolvePath(storage.ConfigFile)
	if err != nil {
		return err
	}

	out := fileConfig{
		Groups:   cfg.Groups,
		Timeout:  durationString(cfg.Timeout),
		Language: cfg.Language,
		PageSize: cfg.PageSize,
		CopyMode: cfg.CopyMode,
	}
	if cfg.Sheets.APIKey != "" || cfg.Sheets.Endpoint != "" {
		out.Sheets = &fileSheets{APIKey: cfg.Sheets.APIKey, Endpoint: cfg.Sheets.Endpoint}
	}
	if cfg.Watch.Debounce != 0 || cfg.Watch.Interval != 0 {
		out.Watch = &fileWatch{Debounce: durationString(cfg.Watch.Debounce), Interval: durationString(cfg.Watch.Interval)}
	}
	for _, ep := range cfg.Webhooks {
		out.Webhooks = append(out.Webhooks, fileWebhook{
			Name:       ep.Name,
			URL:        ep.URL,
			Secret:     ep.Secret,
			Events:     ep.Events,
			MaxRetries: ep.MaxRetries,
			RetryDelay: durationString(ep.RetryDelay),
			Format:     ep.Format,
		})
	}

	data, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// Default returns a config with a single group and default settings.
func Default(groupKey, url string) *Config {
	if groupKey == "" {
		groupKey = defaultGroupKey
	}
	return &Config{
		Groups:   []feed.Group{{Key: groupKey, URL: url}},
		Timeout:  feed.DefaultTimeout,
		PageSize: DefaultPageSize,
		CopyMode: DefaultCopyMode,
		Watch:    WatchConfig{Debounce: DefaultDebounce},
	}
}
