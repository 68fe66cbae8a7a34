package curriculum

import "fmt"

// TrackID identifies a learning track. The set of valid tracks is the
// closed list returned by KnownTracks; membership is never inferred from
// the shape of a string.
type TrackID string

const (
	TrackBeginner101 TrackID = "beginner101"
)

// CatalogVersion is bumped whenever the set of known tracks changes.
const CatalogVersion = 3

var knownTracks = []TrackID{TrackBeginner101}

// KnownTracks returns every valid track ID in catalog order.
func KnownTracks() []TrackID {
	out := make([]TrackID, len(knownTracks))
	copy(out, knownTracks)
	return out
}

// IsKnown reports whether id is a member of the track catalog.
func (id TrackID) IsKnown() bool {
	for _, t := range knownTracks {
		if t == id {
			return true
		}
	}
	return false
}

// ParseTrackID converts s into a known TrackID.
func ParseTrackID(s string) (TrackID, error) {
	id := TrackID(s)
	if !id.IsKnown() {
		return "", fmt.Errorf("track %q: %w", s, ErrNotFound)
	}
	return id, nil
}

// Track is the display metadata for a learning path.
type Track struct {
	ID       TrackID `yaml:"id"`
	Title    string  `yaml:"title"`
	Subtitle string  `yaml:"subtitle"`
}
