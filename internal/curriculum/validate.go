package curriculum

import (
	"fmt"
	"strings"
)

// Validate performs structural checks on a catalog. Returns a combined error
// describing all problems found, or nil if valid.
func Validate(tracks []Track, lessons []Lesson) error {
	var errs []string

	trackSet := make(map[TrackID]bool, len(tracks))
	for _, t := range tracks {
		if !t.ID.IsKnown() {
			errs = append(errs, fmt.Sprintf("track %q is not in the track catalog", t.ID))
		}
		if trackSet[t.ID] {
			errs = append(errs, fmt.Sprintf("duplicate track: %q", t.ID))
		}
		trackSet[t.ID] = true
	}

	seen := make(map[string]bool, len(lessons))
	for _, l := range lessons {
		prefix := fmt.Sprintf("lesson %s:%s", l.Track, l.ID)

		if l.ID == "" {
			errs = append(errs, fmt.Sprintf("%s: empty lesson ID", prefix))
		}
		if !trackSet[l.Track] {
			errs = append(errs, fmt.Sprintf("%s: unknown track %q", prefix, l.Track))
		}
		key := string(l.Track) + ":" + l.ID
		if seen[key] {
			errs = append(errs, fmt.Sprintf("%s: duplicate lesson ID", prefix))
		}
		seen[key] = true
		if l.Minutes < 0 {
			errs = append(errs, fmt.Sprintf("%s: minutes must be >= 0, got %d", prefix, l.Minutes))
		}

		qids := make(map[string]bool, len(l.Quiz))
		for _, q := range l.Quiz {
			qprefix := fmt.Sprintf("%s question %q", prefix, q.ID)
			if qids[q.ID] {
				errs = append(errs, fmt.Sprintf("%s: duplicate question ID", qprefix))
			}
			qids[q.ID] = true

			cids := make(map[string]bool, len(q.Choices))
			matches := 0
			for _, c := range q.Choices {
				if cids[c.ID] {
					errs = append(errs, fmt.Sprintf("%s: duplicate choice ID %q", qprefix, c.ID))
				}
				cids[c.ID] = true
				if c.ID == q.CorrectChoiceID {
					matches++
				}
			}
			if matches != 1 {
				errs = append(errs, fmt.Sprintf("%s: correctChoiceId %q matches %d choices, want exactly 1", qprefix, q.CorrectChoiceID, matches))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("curriculum validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
