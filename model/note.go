package model

// Note is a single transcribed note. Times are in seconds from the start of
// the song. Notes are produced by the upstream transcriber and never mutated.
type Note struct {
	Pitch    uint8
	Start    float64
	End      float64
	Velocity uint8
	TrackID  int
}

// PitchClass returns the note's pitch reduced modulo 12, ignoring octave.
func (n Note) PitchClass() uint8 {
	return n.Pitch % 12
}

// Track is one instrument line from the transcription. Notes are ordered by
// start time. Percussive tracks never carry the melody.
type Track struct {
	ID           int
	Name         string
	Program      uint8
	IsPercussive bool
	Notes        []Note
}

// Duration returns the largest note end time, or 0 for an empty collection.
func Duration(notes []Note) float64 {
	var max float64
	for _, n := range notes {
		if n.End > max {
			max = n.End
		}
	}
	return max
}

// Segment is one fixed-length window of a track's timeline. A note belongs to
// the segment its start time falls in; it may ring past the segment's end.
type Segment struct {
	Index int
	Start float64
	End   float64
	Notes []Note
}

// ChordEstimate is a per-measure chord guess derived from melody pitch content.
type ChordEstimate struct {
	RootPitchClass uint8
	IsMajor        bool
}
