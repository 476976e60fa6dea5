package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/justnchxn/musictoart/pkg/buildinfo"
	"github.com/justnchxn/musictoart/pkg/canvas"
	apperrors "github.com/justnchxn/musictoart/pkg/errors"
	"github.com/justnchxn/musictoart/pkg/integrations"
	"github.com/justnchxn/musictoart/pkg/params"
	"github.com/justnchxn/musictoart/pkg/render"
	"github.com/justnchxn/musictoart/pkg/rng"
	"github.com/justnchxn/musictoart/pkg/session"
	"github.com/justnchxn/musictoart/pkg/taste"
)

// Server-side render bounds.
const (
	DefaultWidth  = 1024
	DefaultHeight = 640
	MaxDimension  = 4096
)

const generatedDir = "generated"

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"stability_key_present": s.cfg.Stability.APIKey != "",
		"model":                 s.cfg.Stability.Model,
		"version":               buildinfo.Version,
	})
}

type indexData struct {
	Authed         bool
	SpotifyEnabled bool
	User           string
	Themes         []string
	Version        string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := indexData{
		SpotifyEnabled: s.cfg.SpotifyEnabled(),
		Themes:         taste.Themes,
		Version:        buildinfo.Version,
	}
	if sess := s.currentSession(r.Context(), r); sess != nil {
		data.Authed = true
		if sess.User != nil {
			data.User = sess.User.DisplayName
		}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, data); err != nil {
		s.logger.Error("render index", "error", err)
	}
}

// tasteFor loads the listener's top artists and tracks and builds a taste
// vector. Sessions without a Spotify token get the empty vector.
func (s *Server) tasteFor(ctx context.Context, sess *session.Session) (taste.Vector, error) {
	if sess.Token.AccessToken == "" {
		return taste.BuildVector(nil, nil), nil
	}
	top, err := s.spotify.FetchTop(ctx, sess.Token.AccessToken, sess.UserID(), false)
	if err != nil {
		return taste.Vector{}, err
	}
	return taste.BuildVector(top.Artists, top.Tracks), nil
}

func spotifyID(sess *session.Session) string {
	if sess.User == nil {
		return ""
	}
	return sess.User.ID
}

// paramsFor answers the request itself on failure and reports ok=false.
func (s *Server) paramsFor(w http.ResponseWriter, r *http.Request) (params.RenderParams, bool) {
	ctx := r.Context()
	sess := s.currentSession(ctx, r)
	if sess == nil {
		writeNotAuthed(w)
		return params.RenderParams{}, false
	}
	v, err := s.tasteFor(ctx, sess)
	if err != nil {
		s.upstreamFailed(w, r, err)
		return params.RenderParams{}, false
	}
	return taste.MapToVisuals(v, spotifyID(sess)), true
}

func (s *Server) upstreamFailed(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, integrations.ErrUnauthorized) {
		writeNotAuthed(w)
		return
	}
	s.logger.Warn("spotify fetch failed", "error", err, "id", RequestID(r.Context()))
	writeError(w, apperrors.Wrap(apperrors.ErrCodeNetwork, err, "could not load listening history"))
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	p, ok := s.paramsFor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, params.Envelope{Params: p})
}

func (s *Server) handlePreviewPNG(w http.ResponseWriter, r *http.Request) {
	width, err := dimension(r, "width", DefaultWidth)
	if err != nil {
		writeError(w, err)
		return
	}
	height, err := dimension(r, "height", DefaultHeight)
	if err != nil {
		writeError(w, err)
		return
	}

	p, ok := s.paramsFor(w, r)
	if !ok {
		return
	}
	img := canvas.NewImage(width, height)
	if _, err := render.DrawContext(r.Context(), img, p); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := img.EncodePNG(w); err != nil {
		s.logger.Warn("encode png", "error", err)
	}
}

func dimension(r *http.Request, field string, def int) (int, error) {
	raw := r.URL.Query().Get(field)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.New(apperrors.ErrCodeInvalidSize, "%s must be an integer", field)
	}
	if err := apperrors.ValidateSize(field, v, MaxDimension); err != nil {
		return 0, err
	}
	return v, nil
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if s.stability == nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "missing_api_key",
			"hint":  "Set STABILITY_API_KEY in .env",
		})
		return
	}

	ctx := r.Context()
	sess := s.currentSession(ctx, r)
	if sess == nil {
		writeNotAuthed(w)
		return
	}
	v, err := s.tasteFor(ctx, sess)
	if err != nil {
		s.upstreamFailed(w, r, err)
		return
	}

	theme := taste.NormalizeTheme(r.URL.Query().Get("theme"))
	g, pop, era := taste.ThreeWords(v, rng.New(uint32(time.Now().UnixNano())))
	prompt := taste.Prompt(g, pop, era, theme)

	png, err := s.stability.Generate(ctx, prompt)
	if err != nil {
		s.logger.Warn("generation failed", "error", err, "id", RequestID(ctx))
		body := map[string]any{"error": "generation_failed"}
		var serr *integrations.StatusError
		if errors.As(err, &serr) {
			body["status"] = serr.StatusCode
			body["details"] = serr.Body
		} else {
			body["details"] = err.Error()
		}
		writeJSON(w, http.StatusInternalServerError, body)
		return
	}

	name := uuid.NewString() + ".png"
	if err := s.saveGenerated(name, png); err != nil {
		s.logger.Error("save generated image", "error", err)
		writeError(w, apperrors.Wrap(apperrors.ErrCodeInternal, err, "could not save image"))
		return
	}
	s.logger.Info("generated", "theme", theme, "words", g+" "+pop+" "+era, "file", name)

	writeJSON(w, http.StatusOK, map[string]string{
		"image_url":   "/static/generated/" + name,
		"prompt":      prompt,
		"theme":       theme,
		"three_words": fmt.Sprintf("%s %s %s", g, pop, era),
	})
}

func (s *Server) saveGenerated(name string, data []byte) error {
	dir := filepath.Join(s.cfg.StaticDir, generatedDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(dir, name))
}

func (s *Server) handleGenerated(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "file")
	if err := apperrors.ValidateFilename(name); err != nil {
		writeError(w, err)
		return
	}
	path := filepath.Join(s.cfg.StaticDir, generatedDir, name)
	if _, err := os.Stat(path); err != nil {
		writeError(w, apperrors.New(apperrors.ErrCodeFileNotFound, "image not found"))
		return
	}
	http.ServeFile(w, r, path)
}
