package media

import (
	"context"
	"time"
)

// Device represents a Spotify Connect playback device.
type Device struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Type             string `json:"type"`
	IsActive         bool   `json:"is_active"`
	IsPrivateSession bool   `json:"is_private_session"`
	VolumePercent    *int   `json:"volume_percent"`
}

// Description is display metadata for a reference, fetched from the
// catalog endpoint matching the reference's kind.
type Description struct {
	Kind     Kind
	Name     string
	Artist   string // artist for tracks/albums, owner for playlists
	Duration time.Duration
}

// Label renders a short human-readable description.
func (d Description) Label() string {
	if d.Artist == "" {
		return d.Name
	}
	return d.Name + " — " + d.Artist
}

// Service is the remote media collaborator. Token lifecycle and HTTP
// details are entirely the implementation's concern.
type Service interface {
	// Describe fetches display metadata for a reference.
	Describe(ctx context.Context, ref Reference) (*Description, error)

	// Devices lists the user's available playback devices.
	Devices(ctx context.Context) ([]Device, error)

	// TransferPlayback moves the playback session to a device without
	// forcing playback to start.
	TransferPlayback(ctx context.Context, deviceID string) error

	// StartPlayback begins playing the reference on a device.
	StartPlayback(ctx context.Context, deviceID string, ref Reference) error

	// CurrentVolume reports the active device's volume percent.
	CurrentVolume(ctx context.Context) (int, error)

	// SetVolume sets a device's volume percent.
	SetVolume(ctx context.Context, deviceID string, percent int) error
}
