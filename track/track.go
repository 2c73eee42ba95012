// Package track picks the instrument line most likely to carry the melody.
package track

import "github.com/chorusmith/chorusmith/model"

// ScoreFunc rates how melody-like a track is. Higher wins. The selector only
// calls it for non-percussive tracks with at least one note.
type ScoreFunc func(t model.Track) float64

// DefaultScore favors dense tracks in a high register: melodies in pop
// arrangements tend to have more notes and sit above the accompaniment.
func DefaultScore(t model.Track) float64 {
	var sum float64
	for _, n := range t.Notes {
		sum += float64(n.Pitch)
	}
	avgPitch := sum / float64(len(t.Notes))
	return float64(len(t.Notes)) * (avgPitch / 127.0)
}

// Select returns the eligible track with the highest score. Ties keep the
// first track encountered, so selection is stable across runs. The second
// return is false when no non-percussive, non-empty track exists.
func Select(tracks []model.Track, score ScoreFunc) (model.Track, bool) {
	if score == nil {
		score = DefaultScore
	}

	var best model.Track
	bestScore := -1.0
	found := false

	for _, t := range tracks {
		if t.IsPercussive || len(t.Notes) == 0 {
			continue
		}
		s := score(t)
		if s > bestScore {
			best = t
			bestScore = s
			found = true
		}
	}

	return best, found
}
