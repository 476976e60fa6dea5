package preview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/justnchxn/musictoart/pkg/canvas"
	apperrors "github.com/justnchxn/musictoart/pkg/errors"
	"github.com/justnchxn/musictoart/pkg/observability"
	"github.com/justnchxn/musictoart/pkg/render"
)

// Status texts shown to the user.
const (
	StatusFetching = "Fetching taste…"
	StatusConnect  = "Please connect Spotify."
	invalidPrefix  = "Invalid render parameters: "
)

// ErrSuperseded is returned by a refresh that a newer refresh overtook.
var ErrSuperseded = errors.New("superseded by a newer refresh")

// Status receives user-visible status text. An empty string clears it.
type Status interface {
	SetStatus(text string)
}

// StatusFunc adapts a function to Status.
type StatusFunc func(text string)

func (f StatusFunc) SetStatus(text string) { f(text) }

// Orchestrator drives fetch, validate and render for one surface.
type Orchestrator struct {
	Fetcher Fetcher
	Surface canvas.Surface
	Status  Status
	Logger  *log.Logger
	Options []render.Option

	// Rendered, when set, runs after a successful draw while the surface is
	// still held, so callers can encode it without racing a newer refresh.
	Rendered func(render.Stats) error

	gen      atomic.Uint64
	mu       sync.Mutex
	statusMu sync.Mutex
}

// Refresh runs one fetch-and-render cycle. It returns ErrNotAuthenticated
// when the fetch fails, the validation error when the parameters are
// rejected, and ErrSuperseded when a newer refresh started while this one
// was fetching.
func (o *Orchestrator) Refresh(ctx context.Context) (render.Stats, error) {
	g := o.gen.Add(1)
	logger := o.logger().With("refresh", g)

	o.report(ctx, g, StatusFetching, "fetching")
	logger.Debug("fetching parameters")

	p, err := o.Fetcher.Fetch(ctx)
	if o.superseded(g) {
		logger.Debug("dropping superseded refresh")
		observability.Render().OnPreviewStatus(ctx, "superseded")
		return render.Stats{}, ErrSuperseded
	}
	if err == nil {
		err = p.Validate()
	}
	if err != nil {
		if apperrors.HTTPStatus(err) == http.StatusBadRequest {
			o.report(ctx, g, invalidPrefix+apperrors.UserMessage(err), "invalid")
			logger.Warn("invalid render parameters", "error", err)
			return render.Stats{}, err
		}
		o.report(ctx, g, StatusConnect, "unauthenticated")
		logger.Info("preview fetch failed", "error", err)
		if !errors.Is(err, ErrNotAuthenticated) {
			err = fmt.Errorf("%w: %v", ErrNotAuthenticated, err)
		}
		return render.Stats{}, err
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.superseded(g) {
		observability.Render().OnPreviewStatus(ctx, "superseded")
		return render.Stats{}, ErrSuperseded
	}

	o.report(ctx, g, "", "rendered")
	st, err := render.DrawContext(ctx, o.Surface, p, o.Options...)
	if err != nil {
		return st, err
	}
	if o.Rendered != nil {
		if err := o.Rendered(st); err != nil {
			return st, err
		}
	}
	logger.Debug("rendered", "seed", p.Seed, "bias", p.GeometryBias, "primitives", st.Primitives, "mirrored", st.Mirrored)
	return st, nil
}

// Generation returns the number of refreshes started so far.
func (o *Orchestrator) Generation() uint64 { return o.gen.Load() }

func (o *Orchestrator) superseded(g uint64) bool {
	return o.gen.Load() != g
}

// report sets the status if g is still the newest refresh. The check and
// the write happen under statusMu so a stale refresh cannot overwrite text
// set by a newer one.
func (o *Orchestrator) report(ctx context.Context, g uint64, text, event string) {
	o.statusMu.Lock()
	defer o.statusMu.Unlock()
	if o.superseded(g) {
		return
	}
	if o.Status != nil {
		o.Status.SetStatus(text)
	}
	observability.Render().OnPreviewStatus(ctx, event)
}

func (o *Orchestrator) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.New(io.Discard)
}
