package cli

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/justnchxn/musictoart/pkg/canvas"
	"github.com/justnchxn/musictoart/pkg/preview"
	"github.com/justnchxn/musictoart/pkg/render"
)

// sessionEnv supplies --cookie when the flag is not given.
const sessionEnv = "MUSICTOART_SESSION"

// previewOpts holds the flags shared by the preview and watch commands.
type previewOpts struct {
	server string        // base URL of a running musictoart server
	cookie string        // value of the server's "session" cookie
	output string        // PNG path rewritten on every successful refresh
	width  int           // image width in pixels
	height int           // image height in pixels
	every  time.Duration // watch only: automatic refresh interval, 0 disables
}

func defaultPreviewOpts() previewOpts {
	return previewOpts{
		server: defaultServer,
		output: "preview.png",
		width:  defaultWidth,
		height: defaultHeight,
	}
}

func addPreviewFlags(cmd *cobra.Command, opts *previewOpts) {
	cmd.Flags().StringVar(&opts.server, "server", opts.server, "musictoart server URL")
	cmd.Flags().StringVar(&opts.cookie, "cookie", "", "session cookie value (default $"+sessionEnv+")")
	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output PNG path")
	cmd.Flags().IntVar(&opts.width, "width", opts.width, "image width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", opts.height, "image height in pixels")
}

func (o *previewOpts) resolveCookie() {
	if o.cookie == "" {
		o.cookie = os.Getenv(sessionEnv)
	}
}

// previewCommand creates the preview command: one fetch and render against
// a running server.
func (c *CLI) previewCommand() *cobra.Command {
	opts := defaultPreviewOpts()

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Fetch parameters from a server and render them once",
		Long: `Preview calls GET /api/preview on a running server, validates the
parameters and renders them to a PNG.

Pass the browser's "session" cookie with --cookie (or $MUSICTOART_SESSION) to
preview a logged-in user; servers started with --no-auth need no cookie.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.resolveCookie()
			ctx := withLogger(cmd.Context(), c.Logger)

			spin := newSpinnerWithContext(ctx, preview.StatusFetching)
			var last string
			status := preview.StatusFunc(func(text string) {
				last = text
				if text != "" {
					spin.SetMessage(text)
				}
			})

			spin.Start()
			st, err := runPreview(ctx, opts, status)
			if err != nil {
				spin.Stop()
				if last != "" && last != preview.StatusFetching {
					printError("%s", last)
				}
				return err
			}
			spin.StopWithSuccess("Rendered preview")
			printStats(st)
			printFile(opts.output)
			return nil
		},
	}

	addPreviewFlags(cmd, &opts)
	return cmd
}

// newOrchestrator wires a fetcher for opts to img. Every successful render
// is written to opts.output before the surface is released.
func newOrchestrator(ctx context.Context, opts previewOpts, img *canvas.Image, status preview.Status) *preview.Orchestrator {
	return &preview.Orchestrator{
		Fetcher: preview.NewHTTPFetcher(opts.server, opts.cookie),
		Surface: img,
		Status:  status,
		Logger:  loggerFromContext(ctx),
		Rendered: func(render.Stats) error {
			return img.WritePNG(opts.output)
		},
	}
}

// runPreview performs a single refresh and reports status through status.
func runPreview(ctx context.Context, opts previewOpts, status preview.Status) (render.Stats, error) {
	if err := checkSize(opts.width, opts.height); err != nil {
		return render.Stats{}, err
	}
	img := canvas.NewImage(opts.width, opts.height)
	return newOrchestrator(ctx, opts, img, status).Refresh(ctx)
}
