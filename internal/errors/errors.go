package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for common failure scenarios.
var (
	ErrInvalidSpec      = errors.New("no time specification given")
	ErrParse            = errors.New("invalid input")
	ErrPastTime         = errors.New("time is in the past")
	ErrToolMissing      = errors.New("scheduling tool not found")
	ErrSubmissionFailed = errors.New("job submission failed")
	ErrAuthFailure      = errors.New("authentication failed")
	ErrNotFound         = errors.New("job not found")
	ErrUnsupported      = errors.New("not supported on this platform")
	ErrInterrupted      = errors.New("interrupted")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNoDevice         = errors.New("no available playback device")
	ErrDeviceNotFound   = errors.New("device not found")
	ErrInvalidConfig    = errors.New("invalid configuration")
)

// CueError wraps an error with a user-friendly suggestion.
type CueError struct {
	Err        error
	Suggestion string
}

func (e *CueError) Error() string {
	return e.Err.Error()
}

func (e *CueError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &CueError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// GetSuggestion returns a suggestion for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	// Check if it's already a CueError with suggestion
	var cueErr *CueError
	if errors.As(err, &cueErr) && cueErr.Suggestion != "" {
		return cueErr.Suggestion
	}

	errStr := strings.ToLower(err.Error())

	// Authentication errors
	if errors.Is(err, ErrNotAuthenticated) || errors.Is(err, ErrAuthFailure) ||
		strings.Contains(errStr, "not authenticated") ||
		strings.Contains(errStr, "invalid access token") || strings.Contains(errStr, "token expired") {
		return "Run 'cueplay auth login' to authenticate with Spotify"
	}

	// Time specification errors
	if errors.Is(err, ErrInvalidSpec) {
		return "Pass --at for an absolute timestamp, or --time (with optional --date) for a clock time"
	}
	if errors.Is(err, ErrPastTime) {
		return "Pick a date/time that is still in the future"
	}

	// Scheduling facility errors
	if errors.Is(err, ErrToolMissing) {
		return "Install the 'at' package (or enable the atd service) to schedule system jobs"
	}

	// Device errors
	if errors.Is(err, ErrNoDevice) || strings.Contains(errStr, "no active device") {
		return "Open Spotify on a device and try again, or use --device to specify one"
	}
	if errors.Is(err, ErrDeviceNotFound) || strings.Contains(errStr, "device not found") {
		return "Run 'cueplay devices' to see available devices"
	}

	// Rate limiting
	if strings.Contains(errStr, "rate limit") || strings.Contains(errStr, "429") {
		return "Too many requests. Wait a moment and try again"
	}

	// Network errors
	if strings.Contains(errStr, "network") || strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "connection refused") {
		return "Check your internet connection and try again"
	}

	// Config errors
	if errors.Is(err, ErrInvalidConfig) || strings.Contains(errStr, "config") {
		return "Run 'cueplay config init' to set up your configuration"
	}

	// Server errors
	if strings.Contains(errStr, "500") || strings.Contains(errStr, "server error") {
		return "Spotify is having issues. Try again in a moment"
	}

	return ""
}

// Format returns a formatted error message with suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}

	suggestion := GetSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}

	return fmt.Sprintf("Error: %s", err.Error())
}
