package constants

import "os"

func GetOutputDir() string {
	path := os.Getenv("OUTPUT_PATH")
	if path != "" {
		return path
	}
	return "./out"
}

// Tunable analysis defaults. The heuristics were tuned for pop songs at a
// moderate tempo; all of them can be overridden through pipeline.Config.
const (
	// DefaultSegmentSeconds is the repetition-detection window length.
	DefaultSegmentSeconds = 4.0

	// DefaultMeasureSeconds is the chord-estimation window length,
	// roughly one 4/4 bar at 120 BPM.
	DefaultMeasureSeconds = 2.0

	// DefaultMinChorusFraction guards against a "chorus" that would throw
	// away the bulk of the song.
	DefaultMinChorusFraction = 0.2

	// DefaultBaseOctave anchors the accompaniment register: chords land one
	// octave below this octave.
	DefaultBaseOctave = 4

	// AccompanimentVelocity is slightly softer than a typical melody.
	AccompanimentVelocity = 70
)
