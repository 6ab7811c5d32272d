package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tatweel/pkg/cache"
	"github.com/matzehuels/tatweel/pkg/config"
	"github.com/matzehuels/tatweel/pkg/pipeline"
	"github.com/matzehuels/tatweel/pkg/server"
	"github.com/matzehuels/tatweel/pkg/store"
)

// serverKeyPrefix keeps server cache entries apart from CLI entries in a
// shared backend.
const serverKeyPrefix = "srv:"

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		backend  string
		mongoURI string
		noCache  bool
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the justification HTTP API",
		Long: `Serve the justification HTTP API.

Endpoints:
  POST /v1/justify                      justify a text, returns the job
  GET  /v1/jobs                         recent jobs
  GET  /v1/jobs/{id}                    one job with its lines
  GET  /v1/jobs/{id}/artifacts/{format} a rendered output
  GET  /healthz                         liveness

Requests start from the configuration file's settings and font. Jobs are
kept in memory unless --store mongo is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("addr") {
				cfg.Server.Addr = addr
			}
			if flags.Changed("store") {
				cfg.Server.Store = backend
			}
			if flags.Changed("mongo-uri") {
				cfg.Server.MongoURI = mongoURI
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return c.runServe(cmd.Context(), cfg, noCache, timeout)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&backend, "store", store.BackendMemory, "job store: memory, mongo")
	cmd.RegisterFlagCompletionFunc("store", completeValues(store.BackendMemory, store.BackendMongo))
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "", "MongoDB connection string")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().DurationVar(&timeout, "timeout", server.DefaultRequestTimeout, "per-request timeout")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg *config.Config, noCache bool, timeout time.Duration) error {
	ch, err := newCache(ctx, cfg, noCache)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(ch, cache.NewScopedKeyer(nil, serverKeyPrefix), c.Logger)
	runner.TTL = cfg.Cache.TTL.Std()
	defer runner.Close()

	defaults := pipeline.FromConfig(cfg, "")
	f, err := runner.LoadFont(ctx, defaults)
	if err != nil {
		return fmt.Errorf("font: %w", err)
	}

	st, err := store.Open(ctx, store.Options{
		Backend:  cfg.Server.Store,
		URI:      cfg.Server.MongoURI,
		Database: cfg.Server.MongoDatabase,
	})
	if err != nil {
		return fmt.Errorf("open job store: %w", err)
	}
	defer st.Close(context.Background())

	srv := server.New(runner, st,
		server.WithLogger(c.Logger),
		server.WithDefaults(defaults),
		server.WithRequestTimeout(timeout),
	)
	printInfo("Serving on %s", StyleLink.Render(cfg.Server.Addr))
	printKeyValue("store", cfg.Server.Store)
	printKeyValue("cache", cacheBackend(cfg, noCache))
	printKeyValue("goal", fmt.Sprintf("%d units", defaults.GoalWidth(f.Upem())))
	if cfg.Server.Store == store.BackendMemory {
		printWarning("jobs are kept in memory and lost on exit")
	}
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}

func cacheBackend(cfg *config.Config, noCache bool) string {
	if noCache {
		return cache.BackendNone
	}
	return cfg.Cache.Backend
}
