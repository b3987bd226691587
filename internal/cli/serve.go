package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartlabels/internal/server"
	"github.com/matzehuels/chartlabels/pkg/buildinfo"
	"github.com/matzehuels/chartlabels/pkg/cache"
	"github.com/matzehuels/chartlabels/pkg/pipeline"
)

const defaultAddr = "127.0.0.1:8080"

type serveOpts struct {
	addr    string
	logFile string
	noCache bool
	timeout time.Duration
}

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout pipeline over HTTP",
		Example: `  chartlabels serve --addr :8080
  CHARTLABELS_REDIS_ADDR=localhost:6379 chartlabels serve --log-file /var/log/chartlabels.log`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "also write logs to this file, rotated by size")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", server.DefaultRequestTimeout, "per-request timeout")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	logger := c.Logger
	if opts.logFile != "" {
		fileLogger, closer := newFileLogger(c.logOut, opts.logFile, c.Logger.GetLevel())
		defer closer.Close()
		logger = fileLogger
	}

	ch, err := c.newCache(ctx, opts.noCache)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(cache.Instrument(ch), cache.NewVersionedKeyer(buildinfo.Version), logger)
	defer runner.Close()

	srv := server.New(runner, logger, server.WithRequestTimeout(opts.timeout))
	printInfo("Serving on http://%s", opts.addr)
	printNextStep("Try", "curl http://"+opts.addr+"/healthz")

	err = srv.ListenAndServe(ctx, opts.addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
