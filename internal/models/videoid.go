package models

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/desertthunder/babytube/internal/shared"
)

// VideoIDLength is the length of a canonical YouTube video ID.
const VideoIDLength = 11

var (
	canonicalID = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

	// Recognized URL shapes: youtu.be/<id>, .../v/<id>, .../u/<x>/<id>, .../embed/<id>, ...watch?v=<id>,
	// and a v=<id> parameter anywhere in the query string. The leading .* is greedy, so when several
	// markers appear the last one that yields an ID wins.
	videoURL = regexp.MustCompile(`^.*(?:youtu\.be/|v/|/u/\w/|embed/|watch\?|[?&]v=)\??v?=?([A-Za-z0-9_-]{11})`)
)

// NormalizeVideoID converts user input into a canonical 11-character video ID.
//
// Bare IDs are returned unchanged. For URLs, the first 11 ID characters after the recognized
// marker are taken and anything after them (extra query parameters, fragments) is ignored.
// Input that matches neither form returns [shared.ErrInvalidVideoID].
func NormalizeVideoID(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", fmt.Errorf("%w: empty input", shared.ErrInvalidVideoID)
	}

	if canonicalID.MatchString(s) {
		return s, nil
	}

	if m := videoURL.FindStringSubmatch(s); m != nil {
		return m[1], nil
	}

	return "", fmt.Errorf("%w: %q", shared.ErrInvalidVideoID, input)
}

// IsCanonicalVideoID reports whether s is already in canonical form.
func IsCanonicalVideoID(s string) bool {
	return canonicalID.MatchString(s)
}
