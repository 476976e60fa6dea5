package server

import (
	"context"
	"net/http"

	"github.com/justnchxn/musictoart/pkg/integrations/spotify"
	"github.com/justnchxn/musictoart/pkg/session"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.cfg.SpotifyEnabled() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "spotify_not_configured",
			"hint":  "Set SPOTIFY_CLIENT_ID in .env",
		})
		return
	}

	verifier, challenge, err := spotify.NewPKCE()
	if err != nil {
		http.Error(w, "could not start login", http.StatusInternalServerError)
		return
	}
	state, err := s.states.Generate(r.Context(), verifier, session.DefaultStateTTL)
	if err != nil {
		s.logger.Error("store oauth state", "error", err)
		http.Error(w, "could not start login", http.StatusInternalServerError)
		return
	}
	if err := s.codec.SetCookie(w, session.StateCookieName, state, session.DefaultStateTTL); err != nil {
		http.Error(w, "could not start login", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, s.oauth.AuthorizationURL(challenge, state), http.StatusFound)
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if e := q.Get("error"); e != "" {
		http.Error(w, "Spotify error: "+e, http.StatusBadRequest)
		return
	}

	state := q.Get("state")
	if state == "" || state != s.codec.ReadCookie(r, session.StateCookieName) {
		http.Error(w, "Missing or mismatched login state", http.StatusBadRequest)
		return
	}
	session.ClearCookie(w, session.StateCookieName)

	verifier, err := s.states.Consume(r.Context(), state)
	if err != nil {
		http.Error(w, "Login expired, please try again", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	tok, err := s.oauth.ExchangeCode(ctx, q.Get("code"), verifier)
	if err != nil {
		s.logger.Warn("token exchange failed", "error", err, "id", RequestID(ctx))
		http.Error(w, "Spotify token exchange failed", http.StatusBadRequest)
		return
	}
	user, err := s.spotify.CurrentUser(ctx, tok.AccessToken)
	if err != nil {
		s.logger.Warn("fetch profile failed", "error", err, "id", RequestID(ctx))
		http.Error(w, "Could not load Spotify profile", http.StatusBadGateway)
		return
	}

	sess, err := session.New(*tok, user, s.cfg.SessionTTL)
	if err == nil {
		err = s.sessions.Set(ctx, sess)
	}
	if err == nil {
		err = s.codec.SetCookie(w, session.CookieName, sess.ID, s.cfg.SessionTTL)
	}
	if err != nil {
		s.logger.Error("create session", "error", err)
		http.Error(w, "could not create session", http.StatusInternalServerError)
		return
	}
	s.logger.Info("signed in", "user", user.ID)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if id := s.codec.ReadCookie(r, session.CookieName); id != "" {
		if err := s.sessions.Delete(r.Context(), id); err != nil {
			s.logger.Warn("delete session", "error", err)
		}
	}
	session.ClearCookie(w, session.CookieName)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// currentSession resolves the request's session, refreshing an expired
// Spotify token when possible. It returns nil for anonymous requests.
func (s *Server) currentSession(ctx context.Context, r *http.Request) *session.Session {
	if s.cfg.NoAuth {
		return session.MockLocal()
	}
	id := s.codec.ReadCookie(r, session.CookieName)
	if id == "" {
		return nil
	}
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		s.logger.Warn("load session", "error", err)
		return nil
	}
	if sess == nil {
		return nil
	}
	if sess.Token.Expired() {
		if sess.Token.RefreshToken == "" {
			return nil
		}
		tok, err := s.oauth.Refresh(ctx, sess.Token.RefreshToken)
		if err != nil {
			s.logger.Info("token refresh failed", "error", err)
			return nil
		}
		sess.Token = *tok
		if err := s.sessions.Set(ctx, sess); err != nil {
			s.logger.Warn("save refreshed session", "error", err)
		}
	}
	return sess
}
