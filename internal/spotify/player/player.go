package player

import (
	"context"
	"fmt"
	"time"

	"cueplay/internal/media"
	"cueplay/internal/spotify/client"
)

// Player implements media.Service on top of the Spotify Web API.
type Player struct {
	client *client.Client
}

// New creates a new Spotify player.
func New(c *client.Client) *Player {
	return &Player{client: c}
}

// Describe fetches catalog metadata for a reference using the endpoint
// matching its kind.
func (p *Player) Describe(ctx context.Context, ref media.Reference) (*media.Description, error) {
	switch ref.Kind {
	case media.KindTrack:
		track, err := p.client.GetTrack(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		return describeTrack(track), nil
	case media.KindAlbum:
		album, err := p.client.GetAlbum(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		return &media.Description{
			Kind:   media.KindAlbum,
			Name:   album.Name,
			Artist: firstArtist(album.Artists),
		}, nil
	case media.KindPlaylist:
		playlist, err := p.client.GetPlaylist(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		return &media.Description{
			Kind:   media.KindPlaylist,
			Name:   playlist.Name,
			Artist: playlist.Owner.DisplayName,
		}, nil
	case media.KindArtist:
		artist, err := p.client.GetArtist(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		return &media.Description{
			Kind: media.KindArtist,
			Name: artist.Name,
		}, nil
	}
	return nil, fmt.Errorf("unknown media kind %q", ref.Kind)
}

// Devices returns the user's available playback devices.
func (p *Player) Devices(ctx context.Context) ([]media.Device, error) {
	devices, err := p.client.GetDevices(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]media.Device, len(devices))
	for i, d := range devices {
		result[i] = convertDevice(&d)
	}
	return result, nil
}

// TransferPlayback moves the playback session without forcing playback
// to start; the subsequent StartPlayback call owns that.
func (p *Player) TransferPlayback(ctx context.Context, deviceID string) error {
	return p.client.TransferPlayback(ctx, deviceID, false)
}

// StartPlayback begins playing a reference on a device. Tracks play
// directly; albums, playlists, and artists play as a context.
func (p *Player) StartPlayback(ctx context.Context, deviceID string, ref media.Reference) error {
	opts := &client.PlayOptions{}
	if ref.IsContext() {
		opts.ContextURI = ref.URI()
	} else {
		opts.URIs = []string{ref.URI()}
	}
	return p.client.Play(ctx, deviceID, opts)
}

// CurrentVolume reports the active device's volume percent.
func (p *Player) CurrentVolume(ctx context.Context) (int, error) {
	state, err := p.client.GetPlaybackState(ctx)
	if err != nil {
		return 0, err
	}
	if state == nil || state.Device.VolumePercent == nil {
		return 0, fmt.Errorf("no active device reports a volume")
	}
	return *state.Device.VolumePercent, nil
}

// SetVolume sets a device's volume percent.
func (p *Player) SetVolume(ctx context.Context, deviceID string, percent int) error {
	return p.client.SetVolume(ctx, percent, deviceID)
}

func firstArtist(artists []client.Artist) string {
	if len(artists) == 0 {
		return ""
	}
	return artists[0].Name
}

func describeTrack(t *client.Track) *media.Description {
	return &media.Description{
		Kind:     media.KindTrack,
		Name:     t.Name,
		Artist:   firstArtist(t.Artists),
		Duration: time.Duration(t.DurationMS) * time.Millisecond,
	}
}

// convertDevice converts a Spotify device to the service-neutral shape.
func convertDevice(d *client.Device) media.Device {
	return media.Device{
		ID:               d.ID,
		Name:             d.Name,
		Type:             d.Type,
		IsActive:         d.IsActive,
		IsPrivateSession: d.IsPrivateSession,
		VolumePercent:    d.VolumePercent,
	}
}

// Ensure Player implements media.Service
var _ media.Service = (*Player)(nil)
