// Package spotify provides the Spotify Web API client used to derive a
// listener's taste.
//
// Authentication uses the authorization-code flow with PKCE ([NewPKCE],
// [OAuthClient]); no client secret is needed. With an access token,
// [Client.FetchTop] loads the user's top artists and top tracks concurrently
// and caches them per user.
//
//	oauth := spotify.NewOAuthClient(spotify.OAuthConfig{ClientID: id, RedirectURI: cb})
//	verifier, challenge, _ := spotify.NewPKCE()
//	redirect := oauth.AuthorizationURL(challenge, state)
//	// ... user returns with ?code=
//	tok, err := oauth.ExchangeCode(ctx, code, verifier)
//
//	top, err := spotify.NewClient(cache).FetchTop(ctx, tok.AccessToken, userID, false)
package spotify
