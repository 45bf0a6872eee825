package media

import (
	"context"
	"fmt"
	"strings"

	"cueplay/internal/errors"
)

// Executor starts playback immediately on a selected device.
type Executor struct {
	svc Service
}

// NewExecutor creates an executor backed by the given service.
func NewExecutor(svc Service) *Executor {
	return &Executor{svc: svc}
}

// SelectDevice picks a playback device. A preferred name must match
// case-insensitively and exactly; otherwise the active device wins, then
// the first listed one.
func SelectDevice(devices []Device, preferred string) (Device, error) {
	if len(devices) == 0 {
		return Device{}, errors.WithSuggestion(errors.ErrNoDevice,
			"Open Spotify on your target device and try again")
	}

	if preferred != "" {
		lower := strings.ToLower(preferred)
		for _, d := range devices {
			if strings.ToLower(d.Name) == lower {
				return d, nil
			}
		}
		names := make([]string, len(devices))
		for i, d := range devices {
			names[i] = d.Name
		}
		return Device{}, fmt.Errorf("%w: no device named %q (available: %s)",
			errors.ErrDeviceNotFound, preferred, strings.Join(names, ", "))
	}

	for _, d := range devices {
		if d.IsActive {
			return d, nil
		}
	}
	return devices[0], nil
}

// Play transfers playback to a device matching the preference policy,
// applies the optional volume, and starts the reference.
func (e *Executor) Play(ctx context.Context, ref Reference, deviceName string, volume *int) (Device, error) {
	devices, err := e.svc.Devices(ctx)
	if err != nil {
		return Device{}, fmt.Errorf("failed to list devices: %w", err)
	}

	device, err := SelectDevice(devices, deviceName)
	if err != nil {
		return Device{}, err
	}

	if err := e.svc.TransferPlayback(ctx, device.ID); err != nil {
		return device, fmt.Errorf("failed to transfer playback to %s: %w", device.Name, err)
	}

	if volume != nil {
		if err := e.svc.SetVolume(ctx, device.ID, *volume); err != nil {
			return device, fmt.Errorf("failed to set volume on %s: %w", device.Name, err)
		}
	}

	if err := e.svc.StartPlayback(ctx, device.ID, ref); err != nil {
		return device, fmt.Errorf("failed to start playback: %w", err)
	}

	return device, nil
}
