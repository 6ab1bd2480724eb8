package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/dropDatabas3/hellosocial/internal/social"
	"github.com/dropDatabas3/hellosocial/internal/validation"
)

type Config struct {
	App struct {
		// dev | staging | prod
		Env      string `yaml:"env" env:"APP_ENV"`
		LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`
	} `yaml:"app"`

	Server struct {
		Addr         string        `yaml:"addr" env:"SERVER_ADDR"`
		BaseURL      string        `yaml:"base_url" env:"SERVER_BASE_URL"`
		ReadTimeout  time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
		WriteTimeout time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	} `yaml:"server"`

	Session struct {
		CookieName string        `yaml:"cookie_name" env:"SESSION_COOKIE_NAME"`
		Secure     bool          `yaml:"secure" env:"SESSION_SECURE"`
		TTL        time.Duration `yaml:"ttl" env:"SESSION_TTL"`
		// vacío: cookie host-only
		Domain string `yaml:"domain" env:"SESSION_DOMAIN"`
		// lax | strict | none
		SameSite string `yaml:"same_site" env:"SESSION_SAME_SITE"`
	} `yaml:"session"`

	Social struct {
		HomeProvider string        `yaml:"home_provider" env:"SOCIAL_HOME_PROVIDER"`
		StateSecret  string        `yaml:"state_secret" env:"SOCIAL_STATE_SECRET"`
		StateTTL     time.Duration `yaml:"state_ttl" env:"SOCIAL_STATE_TTL"`
		HTTPTimeout  time.Duration `yaml:"http_timeout" env:"SOCIAL_HTTP_TIMEOUT"`
		// OIDCDiscovery lee los endpoints de Google del discovery document al arrancar.
		OIDCDiscovery bool   `yaml:"oidc_discovery" env:"SOCIAL_OIDC_DISCOVERY"`
		GoogleIssuer  string `yaml:"google_issuer" env:"SOCIAL_GOOGLE_ISSUER"`
		Providers     struct {
			Google   ProviderConfig `yaml:"google" envPrefix:"GOOGLE_"`
			Facebook ProviderConfig `yaml:"facebook" envPrefix:"FACEBOOK_"`
			GitHub   ProviderConfig `yaml:"github" envPrefix:"GITHUB_"`
		} `yaml:"providers"`
	} `yaml:"social"`

	Store struct {
		Driver string `yaml:"driver" env:"STORE_DRIVER"`
		Redis  struct {
			Addr     string `yaml:"addr" env:"ADDR"`
			Password string `yaml:"password" env:"PASSWORD"`
			DB       int    `yaml:"db" env:"DB"`
			Prefix   string `yaml:"prefix" env:"PREFIX"`
		} `yaml:"redis" envPrefix:"REDIS_"`
		Postgres struct {
			DSN      string `yaml:"dsn" env:"DSN"`
			MaxConns int    `yaml:"max_conns" env:"MAX_CONNS"`
			Migrate  bool   `yaml:"migrate" env:"MIGRATE"`
		} `yaml:"postgres" envPrefix:"PG_"`
	} `yaml:"store"`

	Security struct {
		// base64 o hex de 32 bytes; vacío deshabilita el cifrado de tokens
		TokenKey string `yaml:"token_key" env:"SECURITY_TOKEN_KEY"`
	} `yaml:"security"`

	// Rate limita /connect/{provider} por sesión. Usa redis cuando store.driver es redis.
	Rate struct {
		Enabled *bool         `yaml:"enabled" env:"RATE_ENABLED"`
		Max     int           `yaml:"max" env:"RATE_MAX"`
		Window  time.Duration `yaml:"window" env:"RATE_WINDOW"`
	} `yaml:"rate"`

	Metrics struct {
		Enabled bool `yaml:"enabled" env:"METRICS_ENABLED"`
	} `yaml:"metrics"`
}

// ProviderConfig holds the registration values of one provider.
// Enabled is optional: when omitted a provider with an app id is enabled.
type ProviderConfig struct {
	Enabled   *bool  `yaml:"enabled" env:"ENABLED"`
	AppID     string `yaml:"app_id" env:"APP_ID"`
	AppSecret string `yaml:"app_secret" env:"APP_SECRET"`
	Scope     string `yaml:"scope" env:"SCOPE"`
}

func (p ProviderConfig) IsEnabled() bool {
	if p.Enabled != nil {
		return *p.Enabled
	}
	return p.AppID != ""
}

// Provider returns the registration block of id.
func (c *Config) Provider(id social.ProviderID) (ProviderConfig, bool) {
	switch id {
	case social.Google:
		return c.Social.Providers.Google, true
	case social.Facebook:
		return c.Social.Providers.Facebook, true
	case social.GitHub:
		return c.Social.Providers.GitHub, true
	}
	return ProviderConfig{}, false
}

// EnabledProviders lists the enabled providers in KnownProviders order.
func (c *Config) EnabledProviders() []social.ProviderID {
	var out []social.ProviderID
	for _, id := range social.KnownProviders {
		if p, ok := c.Provider(id); ok && p.IsEnabled() {
			out = append(out, id)
		}
	}
	return out
}

// Load lee el YAML en path (opcional) y aplica overrides de entorno y defaults.
// A missing file is not an error so the service can run from env alone.
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(b, &c); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	if err := env.Parse(&c); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}

	c.applyDefaults()
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = "http://localhost" + c.Server.Addr
	}
	c.Server.BaseURL = strings.TrimRight(c.Server.BaseURL, "/")
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = "hellosocial_sid"
	}
	if c.Session.TTL == 0 {
		c.Session.TTL = 30 * 24 * time.Hour
	}
	c.Session.SameSite = strings.ToLower(strings.TrimSpace(c.Session.SameSite))
	if c.Session.SameSite == "" {
		c.Session.SameSite = "lax"
	}
	if c.Social.HomeProvider == "" {
		c.Social.HomeProvider = string(social.Google)
	}
	c.Social.HomeProvider = strings.ToLower(strings.TrimSpace(c.Social.HomeProvider))
	if c.Social.StateTTL == 0 {
		c.Social.StateTTL = 10 * time.Minute
	}
	if c.Social.HTTPTimeout == 0 {
		c.Social.HTTPTimeout = 10 * time.Second
	}
	if c.Store.Driver == "" {
		c.Store.Driver = "memory"
	}
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	if c.Store.Redis.Addr == "" {
		c.Store.Redis.Addr = "localhost:6379"
	}
	if c.Store.Redis.Prefix == "" {
		c.Store.Redis.Prefix = "hellosocial"
	}
	if c.Rate.Enabled == nil {
		on := true
		c.Rate.Enabled = &on
	}
	if c.Rate.Max <= 0 {
		c.Rate.Max = 30
	}
	if c.Rate.Window <= 0 {
		c.Rate.Window = time.Minute
	}
}

// Validate checks the settings serve depends on.
func (c *Config) Validate() error {
	var errs []error

	switch c.Store.Driver {
	case "memory", "redis":
	case "postgres":
		if c.Store.Postgres.DSN == "" {
			errs = append(errs, errors.New("store.postgres.dsn is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.driver: unknown driver %q", c.Store.Driver))
	}

	home, err := social.ParseProviderID(c.Social.HomeProvider)
	if err != nil {
		errs = append(errs, fmt.Errorf("social.home_provider: %w", err))
	} else if p, _ := c.Provider(home); !p.IsEnabled() {
		errs = append(errs, fmt.Errorf("social.home_provider: %s: %w", home, social.ErrProviderDisabled))
	}

	for _, id := range c.EnabledProviders() {
		p, _ := c.Provider(id)
		if p.AppID == "" || p.AppSecret == "" {
			errs = append(errs, fmt.Errorf("social.providers.%s: %w", id, social.ErrMissingCredentials))
		}
		if err := validation.ValidateScopeList(p.Scope); err != nil {
			errs = append(errs, fmt.Errorf("social.providers.%s.scope: %w", id, err))
		}
	}

	switch c.Session.SameSite {
	case "lax", "strict":
	case "none":
		// los browsers descartan SameSite=None sin Secure
		if !c.Session.Secure {
			errs = append(errs, errors.New("session.same_site none requires session.secure"))
		}
	default:
		errs = append(errs, fmt.Errorf("session.same_site: unknown value %q", c.Session.SameSite))
	}

	if c.Social.StateSecret == "" {
		errs = append(errs, errors.New("social.state_secret is required"))
	}

	return errors.Join(errs...)
}
