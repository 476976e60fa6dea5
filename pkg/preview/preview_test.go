package preview

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/justnchxn/musictoart/pkg/canvas"
	apperrors "github.com/justnchxn/musictoart/pkg/errors"
	"github.com/justnchxn/musictoart/pkg/params"
	"github.com/justnchxn/musictoart/pkg/render"
)

const okBody = `{"params":{"palette":["#ff0000","#00ff00"],"density":0.1,"blur":0.2,"motion":0.5,"geometryBias":"dots","symmetry":0.3,"noiseScale":0.4,"seed":"x"}}`

// statusLog records every status update in order.
type statusLog struct {
	mu    sync.Mutex
	texts []string
}

func (s *statusLog) SetStatus(text string) {
	s.mu.Lock()
	s.texts = append(s.texts, text)
	s.mu.Unlock()
}

func (s *statusLog) all() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.texts...)
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != Path {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRefresh(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		statuses []string
		wantErr  func(error) bool
		drawn    bool
	}{
		{
			name:     "success",
			status:   200,
			body:     okBody,
			statuses: []string{StatusFetching, ""},
			drawn:    true,
		},
		{
			name:     "unauthorized",
			status:   401,
			body:     `{"error":"not_authed"}`,
			statuses: []string{StatusFetching, StatusConnect},
			wantErr:  func(err error) bool { return errors.Is(err, ErrNotAuthenticated) },
		},
		{
			name:     "server error",
			status:   500,
			body:     "boom",
			statuses: []string{StatusFetching, StatusConnect},
			wantErr:  func(err error) bool { return errors.Is(err, ErrNotAuthenticated) },
		},
		{
			name:     "empty palette",
			status:   200,
			body:     `{"params":{"palette":[],"density":0.5,"symmetry":0.5,"seed":"x"}}`,
			statuses: []string{StatusFetching, "Invalid render parameters: palette must not be empty"},
			wantErr:  func(err error) bool { return apperrors.Is(err, apperrors.ErrCodeInvalidPalette) },
		},
		{
			name:     "malformed json",
			status:   200,
			body:     `{"params":`,
			statuses: []string{StatusFetching, "Invalid render parameters: decode preview response"},
			wantErr:  func(err error) bool { return apperrors.Is(err, apperrors.ErrCodeInvalidParams) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serve(t, tt.status, tt.body)
			rec := canvas.NewRecorder(200, 100)
			status := &statusLog{}
			o := &Orchestrator{Fetcher: NewHTTPFetcher(srv.URL, ""), Surface: rec, Status: status}

			st, err := o.Refresh(context.Background())
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Refresh() error = %v", err)
			}
			if tt.wantErr != nil && !tt.wantErr(err) {
				t.Fatalf("Refresh() error = %v", err)
			}
			if got := status.all(); !equal(got, tt.statuses) {
				t.Errorf("statuses = %q, want %q", got, tt.statuses)
			}
			if tt.drawn != (len(rec.Ops) > 0) {
				t.Errorf("drawn = %v, ops = %d", !tt.drawn, len(rec.Ops))
			}
			if tt.drawn && st.Primitives != 350 {
				t.Errorf("Primitives = %d, want 350", st.Primitives)
			}
		})
	}
}

func TestRefreshTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	rec := canvas.NewRecorder(10, 10)
	status := &statusLog{}
	o := &Orchestrator{Fetcher: NewHTTPFetcher(url, ""), Surface: rec, Status: status}
	if _, err := o.Refresh(context.Background()); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("err = %v, want ErrNotAuthenticated", err)
	}
	if got := status.all(); got[len(got)-1] != StatusConnect {
		t.Errorf("statuses = %q", got)
	}
	if len(rec.Ops) != 0 {
		t.Error("nothing should be drawn")
	}
}

func TestHTTPFetcherCookie(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("session"); err == nil {
			got = c.Value
		}
		w.Write([]byte(okBody))
	}))
	defer srv.Close()

	p, err := NewHTTPFetcher(srv.URL+"/", "signed-value").Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got != "signed-value" {
		t.Errorf("cookie = %q", got)
	}
	if p.Seed != "x" || p.GeometryBias != params.Dots || len(p.Palette) != 2 {
		t.Errorf("params = %+v", p)
	}
}

func TestFetchErrorFromFetcher(t *testing.T) {
	status := &statusLog{}
	o := &Orchestrator{
		Fetcher: FetcherFunc(func(context.Context) (params.RenderParams, error) {
			return params.RenderParams{}, errors.New("dial tcp: refused")
		}),
		Surface: canvas.NewRecorder(10, 10),
		Status:  status,
	}
	_, err := o.Refresh(context.Background())
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("err = %v, want wrapped ErrNotAuthenticated", err)
	}
}

func TestSupersede(t *testing.T) {
	valid := params.RenderParams{
		Palette: []string{"#fff"}, Density: 0.01, GeometryBias: params.Dots, NoiseScale: 1, Seed: "s",
	}

	entered := make(chan struct{})
	release := make(chan struct{})
	var calls int
	var mu sync.Mutex
	fetcher := FetcherFunc(func(ctx context.Context) (params.RenderParams, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			close(entered)
			<-release
		}
		return valid, nil
	})

	rec := canvas.NewRecorder(50, 50)
	status := &statusLog{}
	o := &Orchestrator{Fetcher: fetcher, Surface: rec, Status: status}

	firstErr := make(chan error, 1)
	go func() {
		_, err := o.Refresh(context.Background())
		firstErr <- err
	}()
	<-entered

	st, err := o.Refresh(context.Background())
	if err != nil {
		t.Fatalf("second Refresh() error = %v", err)
	}
	opsAfterSecond := len(rec.Ops)
	if opsAfterSecond != 1+st.DrawCalls() {
		t.Errorf("ops = %d, want %d", opsAfterSecond, 1+st.DrawCalls())
	}

	close(release)
	if err := <-firstErr; !errors.Is(err, ErrSuperseded) {
		t.Errorf("first Refresh() error = %v, want ErrSuperseded", err)
	}
	if len(rec.Ops) != opsAfterSecond {
		t.Error("superseded refresh drew onto the surface")
	}
	want := []string{StatusFetching, StatusFetching, ""}
	if got := status.all(); !equal(got, want) {
		t.Errorf("statuses = %q, want %q", got, want)
	}
	if o.Generation() != 2 {
		t.Errorf("Generation() = %d", o.Generation())
	}
}

func TestStatusFunc(t *testing.T) {
	var got string
	StatusFunc(func(s string) { got = s }).SetStatus("hi")
	if got != "hi" {
		t.Errorf("got %q", got)
	}
}

func TestInvalidStatusPrefix(t *testing.T) {
	status := &statusLog{}
	o := &Orchestrator{
		Fetcher: FetcherFunc(func(context.Context) (params.RenderParams, error) {
			return params.RenderParams{Palette: []string{"red"}, Seed: "x"}, nil
		}),
		Surface: canvas.NewRecorder(10, 10),
		Status:  status,
	}
	o.Refresh(context.Background())
	got := status.all()
	if !strings.HasPrefix(got[len(got)-1], "Invalid render parameters: palette[0]") {
		t.Errorf("status = %q", got[len(got)-1])
	}
}

func TestRenderedHook(t *testing.T) {
	srv := serve(t, 200, okBody)
	rec := canvas.NewRecorder(100, 50)

	var got []int
	o := &Orchestrator{
		Fetcher: NewHTTPFetcher(srv.URL, ""),
		Surface: rec,
		Rendered: func(st render.Stats) error {
			got = append(got, rec.Count(canvas.OpRect))
			return nil
		},
	}
	if _, err := o.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}
	if len(got) != 1 || got[0] == 0 {
		t.Errorf("Rendered saw rect counts %v, want one non-zero entry", got)
	}

	boom := errors.New("disk full")
	o.Rendered = func(render.Stats) error { return boom }
	if _, err := o.Refresh(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Refresh() error = %v, want %v", err, boom)
	}
}

// slowStatus records a status only after onSet returns, widening the window
// between the generation check and the write.
type slowStatus struct {
	statusLog
	onSet func(text string)
}

func (s *slowStatus) SetStatus(text string) {
	if s.onSet != nil {
		s.onSet(text)
	}
	s.statusLog.SetStatus(text)
}

func TestStaleStatusCannotOverwriteNewer(t *testing.T) {
	release := make(chan struct{})
	var calls int
	var mu sync.Mutex
	fetcher := FetcherFunc(func(ctx context.Context) (params.RenderParams, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 2 {
			<-release
		}
		return params.RenderParams{}, errors.New("dial tcp: refused")
	})

	status := &slowStatus{}
	o := &Orchestrator{Fetcher: fetcher, Surface: canvas.NewRecorder(10, 10), Status: status}

	second := make(chan error, 1)
	var once sync.Once
	status.onSet = func(text string) {
		if text != StatusConnect {
			return
		}
		// The first refresh is writing its failure; start a newer refresh
		// and give it time to try to report before the write lands.
		once.Do(func() {
			go func() {
				_, err := o.Refresh(context.Background())
				second <- err
			}()
			time.Sleep(50 * time.Millisecond)
		})
	}

	if _, err := o.Refresh(context.Background()); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("first Refresh() error = %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		got := status.all()
		if len(got) >= 3 {
			want := []string{StatusFetching, StatusConnect, StatusFetching}
			if !equal(got[:3], want) {
				t.Errorf("statuses = %q, want prefix %q", got, want)
			}
			break
		}
		select {
		case <-deadline:
			t.Fatalf("newer refresh never reported; statuses = %q", got)
		case <-time.After(5 * time.Millisecond):
		}
	}

	close(release)
	if err := <-second; !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("second Refresh() error = %v", err)
	}
}
