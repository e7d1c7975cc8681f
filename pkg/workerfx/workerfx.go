// pkg/workerfx/workerfx.go
package workerfx

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/joeydtaylor/steeze-worker/pkg/config"
	"github.com/joeydtaylor/steeze-worker/pkg/logging"
	"github.com/joeydtaylor/steeze-worker/pkg/metrics"
	"github.com/joeydtaylor/steeze-worker/pkg/ops"
	"github.com/joeydtaylor/steeze-worker/pkg/registry"
	"github.com/joeydtaylor/steeze-worker/pkg/worker"
)

// ---------- Options ----------

type Config struct {
	Service         string // for logs/metrics tags only
	ManifestEnv     string // e.g., WORKER_MANIFEST
	DefaultManifest string // e.g., "worker.toml"
}

type Option func(*Config)

func WithService(s string) Option            { return func(c *Config) { c.Service = s } }
func WithManifestEnv(k string) Option        { return func(c *Config) { c.ManifestEnv = k } }
func WithDefaultManifest(path string) Option { return func(c *Config) { c.DefaultManifest = path } }

func defaultConfig() Config {
	return Config{
		Service:         "worker",
		ManifestEnv:     "WORKER_MANIFEST",
		DefaultManifest: "worker.toml",
	}
}

// Module returns a complete Fx option set; register task providers with
// ProvideTaskProvider alongside.
func Module(opts ...Option) fx.Option {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return fx.Options(
		logging.Module,
		metrics.Module,
		// Config into DI
		fx.Provide(func() Config { return cfg }),
		fx.Provide(provideManifest),
		// Coordinator + producer side
		fx.Provide(fx.Annotate(
			provideController,
			fx.ParamTags(``, ``, `group:"task_providers"`),
		)),
		fx.Provide(worker.NewEnqueuer),
		// Ops surface (named "ops")
		fx.Provide(fx.Annotate(
			provideOpsHandler,
			fx.ParamTags(``, `name:"metrics"`),
			fx.ResultTags(`name:"ops"`),
		)),
		// Lifecycle: configure at module init, arm the deferred start once
		// the app is fully up, ops server alongside.
		fx.Invoke(registerInitHooks),
		fx.Invoke(registerStartHooks),
		fx.Invoke(registerOpsHooks),
	)
}

// ProvideTaskProvider registers a handler-bearing component constructor into
// the task_providers group the controller scans.
func ProvideTaskProvider(ctor any) fx.Option {
	return fx.Provide(fx.Annotate(
		ctor,
		fx.As(new(registry.Provider)),
		fx.ResultTags(`group:"task_providers"`),
	))
}

// ---------- Providers ----------

func provideManifest(cfg Config, zl *zap.Logger) (config.Config, error) {
	path := envOr(cfg.ManifestEnv, cfg.DefaultManifest)
	man, err := config.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// No manifest is the recognized degraded state: the worker is
			// simply never constructed.
			zl.Warn("worker manifest not found; worker disabled", zap.String("path", path))
			return config.Config{}, nil
		}
		return config.Config{}, err
	}
	return man, nil
}

func provideController(man config.Config, zl *zap.Logger, providers []registry.Provider) *worker.Controller {
	return worker.NewController(man, zl, providers)
}

func provideOpsHandler(c *worker.Controller, m http.Handler) http.Handler {
	return ops.BuildHandler(c, m)
}

// ---------- Lifecycle ----------

func registerInitHooks(lc fx.Lifecycle, c *worker.Controller) {
	lc.Append(fx.Hook{
		OnStart: c.Configure,
		OnStop:  c.Stop,
	})
}

func registerStartHooks(lc fx.Lifecycle, c *worker.Controller) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			c.Start()
			return nil
		},
	})
}

type opsDeps struct {
	fx.In
	Cfg     Config
	Man     config.Config
	Logger  *zap.Logger
	Handler http.Handler `name:"ops"`
}

func registerOpsHooks(lc fx.Lifecycle, d opsDeps) {
	if d.Man.Runtime == nil || d.Man.Runtime.OpsListenAddress == "" {
		return
	}

	srv := &http.Server{
		Addr:         d.Man.Runtime.OpsListenAddress,
		Handler:      d.Handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			d.Logger.Info("ops server starting",
				zap.String("service", d.Cfg.Service),
				zap.String("addr", srv.Addr),
			)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					d.Logger.Error("ops server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			d.Logger.Info("ops server stopping", zap.String("service", d.Cfg.Service))
			return srv.Shutdown(ctx)
		},
	})
}

// ---------- tiny helpers ----------

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
