// Package video resolves user-supplied YouTube URLs into canonical video
// identifiers. Resolution is pure string matching; no network access.
package video

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidReference indicates the supplied URL matches no known
// YouTube URL shape. This is a normal outcome the caller must branch on,
// not an internal failure.
var ErrInvalidReference = errors.New("not a recognized YouTube URL")

// IDLength is the fixed width of a YouTube video identifier.
const IDLength = 11

// idPatterns lists the supported URL shapes in priority order.
// The first pattern that yields an 11-character token wins.
var idPatterns = []*regexp.Regexp{
	// watch?v=ID, youtu.be/ID, embed/ID
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([A-Za-z0-9_-]{11})`),
	// v=ID appearing after other query parameters
	regexp.MustCompile(`youtube\.com/watch\?.*?v=([A-Za-z0-9_-]{11})`),
}

// ID is a validated 11-character YouTube video identifier.
// Zero value is invalid; use Resolve or ParseID to construct one.
type ID struct {
	id string
}

// Compile-time interface compliance check.
var _ fmt.Stringer = ID{}

// idAlphabet validates a raw identifier string.
var idAlphabet = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ParseID validates a raw identifier string (already extracted from a URL
// or supplied directly by the user).
func ParseID(s string) (ID, error) {
	if !idAlphabet.MatchString(s) {
		return ID{}, fmt.Errorf("invalid video id %q: %w", s, ErrInvalidReference)
	}
	return ID{id: s}, nil
}

// MustParseID parses a video identifier, panicking if invalid.
// Use only for compile-time constants and tests.
func MustParseID(s string) ID {
	id, err := ParseID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the raw identifier. Returns empty string for zero value.
func (v ID) String() string {
	return v.id
}

// IsZero returns true if this is the zero value (no id resolved).
func (v ID) IsZero() bool {
	return v.id == ""
}

// WatchURL returns the canonical watch URL for the identifier.
func (v ID) WatchURL() string {
	return "https://www.youtube.com/watch?v=" + v.id
}

// Resolve extracts the video identifier from a YouTube URL.
//
// Supported shapes: youtube.com/watch?v=ID, youtu.be/ID,
// youtube.com/embed/ID, and watch URLs where v= appears after other
// query parameters. Patterns are applied in that order; the first match
// wins. Returns ErrInvalidReference if no pattern matches.
func Resolve(rawURL string) (ID, error) {
	for _, pattern := range idPatterns {
		if m := pattern.FindStringSubmatch(rawURL); m != nil {
			return ID{id: m[1]}, nil
		}
	}
	return ID{}, fmt.Errorf("no video id in %q (expected youtube.com/watch?v=..., youtu.be/..., or youtube.com/embed/...): %w",
		rawURL, ErrInvalidReference)
}
