package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/justnchxn/musictoart/internal/server"
	"github.com/justnchxn/musictoart/pkg/canvas"
	apperrors "github.com/justnchxn/musictoart/pkg/errors"
	"github.com/justnchxn/musictoart/pkg/params"
	"github.com/justnchxn/musictoart/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output string // PNG path
	width  int    // image width in pixels
	height int    // image height in pixels
	seed   string // overrides the seed in the params file when set
}

// renderCommand creates the render command for drawing a params file to PNG.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{
		output: "art.png",
		width:  defaultWidth,
		height: defaultHeight,
	}

	cmd := &cobra.Command{
		Use:   "render [params.json]",
		Short: "Render a parameter file to PNG",
		Long: `Render reads render parameters as JSON and draws them to a PNG.

The input is a file, or stdin when the argument is omitted or "-". Both a
bare parameter object and the {"params": {...}} body served by /api/preview
are accepted.`,
		Example: `  musictoart render params.json -o art.png
  curl -s localhost:8000/api/preview | musictoart render --seed demo`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := "-"
			if len(args) == 1 {
				input = args[0]
			}
			ctx := withLogger(cmd.Context(), c.Logger)
			p, err := readParams(input, cmd.InOrStdin())
			if err != nil {
				return err
			}
			st, err := runRender(ctx, p, opts)
			if err != nil {
				return err
			}
			printSuccess("Rendered %s", swatches(p.Palette))
			printStats(st)
			printFile(opts.output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output PNG path")
	cmd.Flags().IntVar(&opts.width, "width", opts.width, "image width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", opts.height, "image height in pixels")
	cmd.Flags().StringVar(&opts.seed, "seed", "", "override the seed from the params")

	return cmd
}

// readParams decodes params from path, or from stdin when path is "-".
func readParams(path string, stdin io.Reader) (params.RenderParams, error) {
	if path == "-" {
		return params.Decode(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return params.RenderParams{}, fmt.Errorf("open params: %w", err)
	}
	defer f.Close()
	return params.Decode(f)
}

// runRender draws p onto a new image and writes it to opts.output.
func runRender(ctx context.Context, p params.RenderParams, opts renderOpts) (render.Stats, error) {
	logger := loggerFromContext(ctx)
	if err := checkSize(opts.width, opts.height); err != nil {
		return render.Stats{}, err
	}

	var ropts []render.Option
	if opts.seed != "" {
		ropts = append(ropts, render.WithSeed(opts.seed))
	}

	prog := newProgress(logger)
	img := canvas.NewImage(opts.width, opts.height)
	st, err := render.DrawContext(ctx, img, p, ropts...)
	if err != nil {
		return st, err
	}
	if err := img.WritePNG(opts.output); err != nil {
		return st, fmt.Errorf("write %s: %w", opts.output, err)
	}
	prog.done("Rendered "+opts.output, "seed", seedOf(p, opts.seed), "primitives", st.Primitives)
	return st, nil
}

func seedOf(p params.RenderParams, override string) string {
	if override != "" {
		return override
	}
	return p.Seed
}

// checkSize applies the server's image size limits.
func checkSize(w, h int) error {
	if err := apperrors.ValidateSize("width", w, server.MaxDimension); err != nil {
		return err
	}
	return apperrors.ValidateSize("height", h, server.MaxDimension)
}
