package media

import (
	"fmt"
	"strings"

	"cueplay/internal/errors"
)

// Kind identifies the type of Spotify content a reference points at.
type Kind string

const (
	KindTrack    Kind = "track"
	KindAlbum    Kind = "album"
	KindPlaylist Kind = "playlist"
	KindArtist   Kind = "artist"
)

// idLength is the length of a Spotify base62 ID.
const idLength = 22

// Reference is a normalized pointer to a track, album, playlist, or artist.
// Raw preserves the user's original input so it can be embedded verbatim in
// a deferred job command line and re-parsed later.
type Reference struct {
	Kind Kind
	ID   string
	Raw  string
}

// URI returns the canonical spotify:<kind>:<id> form.
func (r Reference) URI() string {
	return fmt.Sprintf("spotify:%s:%s", r.Kind, r.ID)
}

func (r Reference) String() string {
	return r.URI()
}

// IsContext reports whether the reference plays as a context (album,
// playlist, artist) rather than as a single track.
func (r Reference) IsContext() bool {
	return r.Kind != KindTrack
}

func validKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindTrack, KindAlbum, KindPlaylist, KindArtist:
		return Kind(s), true
	}
	return "", false
}

func validID(s string) bool {
	if len(s) != idLength {
		return false
	}
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}

// ParseReference normalizes a user-supplied media reference. It accepts a
// canonical URI (spotify:track:...), an open.spotify.com share link, or a
// bare 22-character ID (treated as a track).
func ParseReference(raw string) (Reference, error) {
	text := strings.TrimSpace(raw)

	if rest, ok := strings.CutPrefix(text, "spotify:"); ok {
		kindStr, id, found := strings.Cut(rest, ":")
		kind, kindOK := validKind(kindStr)
		if !found || !kindOK || !validID(id) {
			return Reference{}, fmt.Errorf("%w: unsupported media reference %q", errors.ErrParse, raw)
		}
		return Reference{Kind: kind, ID: id, Raw: text}, nil
	}

	if idx := strings.Index(text, "open.spotify.com/"); idx >= 0 {
		path := text[idx+len("open.spotify.com/"):]
		// Strip query string and fragment from share links.
		if i := strings.IndexAny(path, "?#"); i >= 0 {
			path = path[:i]
		}
		segments := strings.Split(strings.Trim(path, "/"), "/")
		// Locale-prefixed links look like intl-de/track/<id>.
		if len(segments) > 0 && strings.HasPrefix(segments[0], "intl-") {
			segments = segments[1:]
		}
		if len(segments) == 2 {
			if kind, ok := validKind(segments[0]); ok && validID(segments[1]) {
				return Reference{Kind: kind, ID: segments[1], Raw: text}, nil
			}
		}
		return Reference{}, fmt.Errorf("%w: unsupported share link %q", errors.ErrParse, raw)
	}

	if validID(text) {
		return Reference{Kind: KindTrack, ID: text, Raw: text}, nil
	}

	return Reference{}, fmt.Errorf(
		"%w: unsupported media reference %q (provide a Spotify URI, share link, or 22-character ID)",
		errors.ErrParse, raw)
}
