package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/justnchxn/musictoart/internal/server"
	"github.com/justnchxn/musictoart/pkg/config"
	"github.com/justnchxn/musictoart/pkg/httputil"
	"github.com/justnchxn/musictoart/pkg/integrations/spotify"
	"github.com/justnchxn/musictoart/pkg/observability"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	config  string // TOML config file
	env     string // .env file, skipped when missing
	addr    string // overrides the configured listen address
	noAuth  bool   // serve the local session without Spotify login
	noCache bool   // fetch Spotify data on every request
}

// serveCommand creates the serve command that runs the web app.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{env: ".env"}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		Long: `Serve runs the web app: Spotify login, the /api/preview parameters,
server-side PNG rendering and Stability image generation.

Settings come from built-in defaults, then the optional --config TOML file,
then the .env file, then the environment.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(withLogger(cmd.Context(), c.Logger), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "TOML config file")
	cmd.Flags().StringVar(&opts.env, "env", opts.env, "dotenv file (ignored when missing)")
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().BoolVar(&opts.noAuth, "no-auth", false, "skip Spotify login and use a local session")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the Spotify response cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := config.Load(opts.config, opts.env)
	if err != nil {
		return err
	}
	if opts.addr != "" {
		cfg.Addr = opts.addr
	}
	if opts.noAuth {
		cfg.NoAuth = true
	}
	if cfg.InsecureSecret() {
		printWarning("SESSION_SECRET is not set; cookies are signed with the development secret")
	}
	if !cfg.SpotifyEnabled() && !cfg.NoAuth {
		printWarning("SPOTIFY_CLIENT_ID is not set; /login is disabled")
	}

	sessions, states, closer, err := server.OpenStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	var cache *httputil.Cache
	if !opts.noCache {
		if cache, err = openCache(cfg.Cache.Dir, cfg.Cache.TTL); err != nil {
			logger.Warn("response cache disabled", "error", err)
			cache = nil
		}
	}

	metrics := server.NewMetrics(nil)
	metrics.Install()
	defer observability.Reset()

	srv, err := server.New(server.Options{
		Config:   cfg,
		Logger:   logger,
		Sessions: sessions,
		States:   states,
		Spotify:  spotify.NewClient(cache),
		Metrics:  metrics,
	})
	if err != nil {
		return err
	}

	printInfo("Serving on %s", StyleLink.Render(displayURL(cfg.Addr)))
	printKeyValue("sessions", cfg.Session.Backend)
	if cache != nil {
		printKeyValue("cache", cache.Dir())
	}
	return srv.ListenAndServe(ctx)
}

// displayURL turns a listen address into a clickable local URL.
func displayURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
