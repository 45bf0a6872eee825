package config

// Config is the root configuration structure.
type Config struct {
	Spotify  SpotifyConfig  `toml:"spotify"`
	Playback PlaybackConfig `toml:"playback"`
	Schedule ScheduleConfig `toml:"schedule"`
	Web      WebConfig      `toml:"web"`
	Log      LogConfig      `toml:"log"`
}

// SpotifyConfig holds Spotify API settings.
type SpotifyConfig struct {
	ClientID    string `toml:"client_id"`
	RedirectURI string `toml:"redirect_uri"`
}

// PlaybackConfig holds default playback settings.
type PlaybackConfig struct {
	Device string `toml:"device"`
}

// ScheduleConfig holds deferred-job settings.
type ScheduleConfig struct {
	// Activate is an environment-activation script to source inside job
	// payloads. When empty, the conventional venv/.venv locations are
	// probed instead.
	Activate string `toml:"activate"`
}

// WebConfig holds web form server settings.
type WebConfig struct {
	Addr string `toml:"addr"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}
