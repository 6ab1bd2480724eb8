// Package server arma el handler HTTP V2 con todas sus dependencias.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	rdb "github.com/redis/go-redis/v9"

	"github.com/dropDatabas3/hellosocial/internal/config"
	"github.com/dropDatabas3/hellosocial/internal/http/v2/controllers"
	"github.com/dropDatabas3/hellosocial/internal/http/v2/router"
	"github.com/dropDatabas3/hellosocial/internal/http/v2/services"
	healthsvc "github.com/dropDatabas3/hellosocial/internal/http/v2/services/health"
	socialsvc "github.com/dropDatabas3/hellosocial/internal/http/v2/services/social"
	"github.com/dropDatabas3/hellosocial/internal/metrics"
	"github.com/dropDatabas3/hellosocial/internal/observability/logger"
	"github.com/dropDatabas3/hellosocial/internal/rate"
	"github.com/dropDatabas3/hellosocial/internal/security/secretbox"
	"github.com/dropDatabas3/hellosocial/internal/session"
	"github.com/dropDatabas3/hellosocial/internal/social"
	"github.com/dropDatabas3/hellosocial/internal/social/providers/facebook"
	"github.com/dropDatabas3/hellosocial/internal/social/providers/github"
	"github.com/dropDatabas3/hellosocial/internal/social/providers/google"
	"github.com/dropDatabas3/hellosocial/internal/social/store"
	"github.com/dropDatabas3/hellosocial/internal/util"
)

// Options ajusta el wiring. The zero value uses production provider APIs
// and the store from config.
type Options struct {
	Version string

	// APIs reemplaza la API de un provider (tests contra un fake).
	APIs map[social.ProviderID]social.ProviderAPI

	// Repo reemplaza el store configurado. BuildHandler no lo cierra.
	Repo social.ConnectionRepository
}

// ProductionAPIs devuelve las APIs reales de cada provider conocido.
// Con social.oidc_discovery los endpoints de Google salen del issuer.
func ProductionAPIs(ctx context.Context, cfg *config.Config) (map[social.ProviderID]social.ProviderAPI, error) {
	apis := map[social.ProviderID]social.ProviderAPI{
		social.Google:   google.New(),
		social.Facebook: facebook.New(),
		social.GitHub:   github.New(),
	}
	if !cfg.Social.OIDCDiscovery || !cfg.Social.Providers.Google.IsEnabled() {
		return apis, nil
	}
	issuer := cfg.Social.GoogleIssuer
	if issuer == "" {
		issuer = google.Issuer
	}
	api, err := google.Discover(ctx, issuer, &http.Client{Timeout: cfg.Social.HTTPTimeout})
	if err != nil {
		return nil, err
	}
	logger.L().Info("oidc discovery", logger.Provider(social.Google.String()), logger.String("issuer", issuer))
	apis[social.Google] = api
	return apis, nil
}

// OpenStore abre el ConnectionRepository de cfg.Store, sellando los tokens
// cuando security.token_key está configurada.
func OpenStore(ctx context.Context, cfg *config.Config) (social.ConnectionRepository, error) {
	repo, err := store.New(ctx, store.Config{
		Driver: cfg.Store.Driver,
		Redis: store.RedisConfig{
			Addr:     cfg.Store.Redis.Addr,
			Password: cfg.Store.Redis.Password,
			DB:       cfg.Store.Redis.DB,
			Prefix:   cfg.Store.Redis.Prefix,
		},
		Postgres: store.PostgresConfig{
			DSN:      cfg.Store.Postgres.DSN,
			MaxConns: cfg.Store.Postgres.MaxConns,
			Migrate:  cfg.Store.Postgres.Migrate,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if cfg.Security.TokenKey == "" {
		return repo, nil
	}
	box, err := secretbox.New(cfg.Security.TokenKey)
	if err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("security.token_key: %w", err)
	}
	return store.Encrypted(repo, box), nil
}

// BuildRegistry registra un ConnectionFactory por cada provider habilitado.
func BuildRegistry(cfg *config.Config, apis map[social.ProviderID]social.ProviderAPI) (*social.Registry, error) {
	hc := &http.Client{Timeout: cfg.Social.HTTPTimeout}
	reg := social.NewRegistry()
	for _, id := range cfg.EnabledProviders() {
		api, ok := apis[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", social.ErrUnknownProvider, id)
		}
		p, _ := cfg.Provider(id)
		f, err := social.RegisterProvider(api, p.AppID, p.AppSecret, p.Scope,
			cfg.Server.BaseURL+id.ConnectPath(), social.WithHTTPClient(hc))
		if err != nil {
			return nil, err
		}
		reg.Add(f)
		logger.L().Info("provider registered",
			logger.Provider(id.String()),
			logger.String("app_id", util.Mask(p.AppID)),
			logger.String("scope", f.Scope()),
		)
	}
	return reg, nil
}

// BuildHandler builds the HTTP V2 handler with all dependencies wired.
// The returned cleanup closes the store and the rate limiter client.
func BuildHandler(ctx context.Context, cfg *config.Config, opts Options) (http.Handler, func() error, error) {
	apis, err := ProductionAPIs(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	for id, api := range opts.APIs {
		apis[id] = api
	}

	registry, err := BuildRegistry(cfg, apis)
	if err != nil {
		return nil, nil, fmt.Errorf("register providers: %w", err)
	}

	home, err := social.ParseProviderID(cfg.Social.HomeProvider)
	if err != nil {
		return nil, nil, fmt.Errorf("social.home_provider: %w", err)
	}

	// 1. Store
	repo := opts.Repo
	cleanup := func() error { return nil }
	if repo == nil {
		if repo, err = OpenStore(ctx, cfg); err != nil {
			return nil, nil, err
		}
		cleanup = repo.Close
	}

	// 2. Métricas
	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		mcfg := metrics.Config{}
		if pg := unwrapPostgres(repo); pg != nil {
			mcfg.Pool = func() *pgxpool.Pool { return pg.Pool() }
		}
		if metricsHandler, err = metrics.Register(mcfg); err != nil {
			_ = cleanup()
			return nil, nil, fmt.Errorf("register metrics: %w", err)
		}
	}

	// 3. Rate limit de /connect/{provider}
	limiter, closeLimiter := buildLimiter(cfg)
	storeCleanup := cleanup
	cleanup = func() error {
		return errors.Join(closeLimiter(), storeCleanup())
	}

	// 4. Services → controllers → router
	state := social.NewStateSigner(cfg.Social.StateSecret, cfg.Social.StateTTL)
	svcs := services.New(services.Deps{
		Social: socialsvc.Deps{
			Registry:     registry,
			Repo:         repo,
			State:        state,
			HomeProvider: home,
		},
		HealthDeps: healthsvc.Deps{
			StoreDriver: cfg.Store.Driver,
			StoreCheck:  repo.Ping,
			State:       state,
			Registry:    registry,
			Version:     opts.Version,
		},
	})

	sessions := session.NewManager(cfg.Session.CookieName, cfg.Session.Secure, cfg.Session.TTL)
	sessions.Domain = cfg.Session.Domain
	sessions.SameSite = cfg.Session.SameSite

	handler := router.New(router.Deps{
		Controllers: controllers.New(svcs),
		Session:     sessions,
		Metrics:     metricsHandler,
		RateLimiter: limiter,
	})
	return handler, cleanup, nil
}

// buildLimiter usa redis cuando el store es redis, para compartir el límite
// entre réplicas; si no, un limiter en memoria.
func buildLimiter(cfg *config.Config) (rate.Limiter, func() error) {
	if on := cfg.Rate.Enabled; on != nil && !*on {
		return nil, func() error { return nil }
	}
	if cfg.Store.Driver == store.DriverRedis {
		c := rdb.NewClient(&rdb.Options{
			Addr:     cfg.Store.Redis.Addr,
			Password: cfg.Store.Redis.Password,
			DB:       cfg.Store.Redis.DB,
		})
		return rate.NewRedisLimiter(c, cfg.Store.Redis.Prefix+":rl:", cfg.Rate.Max, cfg.Rate.Window), c.Close
	}
	return rate.NewMemoryLimiter(cfg.Rate.Max, cfg.Rate.Window), func() error { return nil }
}

// unwrapPostgres devuelve el backend postgres detrás de repo, si lo hay.
func unwrapPostgres(repo social.ConnectionRepository) *store.Postgres {
	for {
		switch r := repo.(type) {
		case *store.Postgres:
			return r
		case interface {
			Unwrap() social.ConnectionRepository
		}:
			repo = r.Unwrap()
		default:
			return nil
		}
	}
}
