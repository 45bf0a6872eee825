package cli

import (
	"context"
	"fmt"
	"os"

	"cueplay/internal/errors"
	"cueplay/internal/media"
	"cueplay/internal/spotify/auth"
	"cueplay/internal/spotify/client"
	"cueplay/internal/spotify/player"
)

// newSpotifyClient builds an authenticated Spotify client. A missing
// token triggers the interactive login flow unless browser use is
// suppressed, in which case authentication fails immediately; a deferred
// job must never block on a browser that has nobody in front of it.
func newSpotifyClient(ctx context.Context) (*client.Client, error) {
	if cfg.Spotify.ClientID == "" {
		return nil, errors.WithSuggestion(
			fmt.Errorf("%w: spotify.client_id not configured", errors.ErrInvalidConfig),
			"Set it in ~/.cueplayrc or via CUEPLAY_SPOTIFY_CLIENT_ID")
	}

	storage, err := auth.NewTokenStorage("")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token storage: %w", err)
	}

	spotifyClient := client.New(cfg.Spotify.ClientID, storage)
	if Verbose() {
		spotifyClient.SetVerbose(true, func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		})
	}
	if err := spotifyClient.LoadToken(); err != nil {
		return nil, fmt.Errorf("failed to load token: %w", err)
	}

	if !spotifyClient.HasToken() {
		if flagNoBrowser {
			return nil, errors.ErrNotAuthenticated
		}
		if err := loginFlow(ctx, true); err != nil {
			return nil, fmt.Errorf("%w: %s", errors.ErrAuthFailure, err)
		}
		if err := spotifyClient.LoadToken(); err != nil {
			return nil, fmt.Errorf("failed to load token: %w", err)
		}
	}

	return spotifyClient, nil
}

// quietMediaService builds the playback service without ever starting an
// interactive login. It returns nil when no usable credentials exist;
// callers treat the service as optional enrichment.
func quietMediaService() media.Service {
	if cfg.Spotify.ClientID == "" {
		return nil
	}
	storage, err := auth.NewTokenStorage("")
	if err != nil {
		return nil
	}
	spotifyClient := client.New(cfg.Spotify.ClientID, storage)
	if err := spotifyClient.LoadToken(); err != nil || !spotifyClient.HasToken() {
		return nil
	}
	return player.New(spotifyClient)
}

// newMediaService builds the playback service used by the executor, the
// registry, and the web server.
func newMediaService(ctx context.Context) (media.Service, error) {
	spotifyClient, err := newSpotifyClient(ctx)
	if err != nil {
		return nil, err
	}
	return player.New(spotifyClient), nil
}
