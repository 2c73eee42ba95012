// Package segment partitions a note timeline into fixed windows and reduces
// each window to a comparable melodic fingerprint.
package segment

import (
	"math"
	"sort"

	"github.com/chorusmith/chorusmith/model"
)

// Split partitions [0, max(note.End)) into consecutive windows of
// segmentSeconds and assigns each note to the window its start time falls in.
// Notes are not split: a note may ring past its window's end. An empty note
// collection yields no segments.
func Split(notes []model.Note, segmentSeconds float64) []model.Segment {
	if len(notes) == 0 || segmentSeconds <= 0 {
		return nil
	}

	duration := model.Duration(notes)
	if duration == 0 {
		return nil
	}

	numSegments := int(math.Ceil(duration / segmentSeconds))
	segments := make([]model.Segment, numSegments)
	for i := range segments {
		segments[i] = model.Segment{
			Index: i,
			Start: float64(i) * segmentSeconds,
			End:   float64(i+1) * segmentSeconds,
		}
	}

	sorted := make([]model.Note, len(notes))
	copy(sorted, notes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	for _, n := range sorted {
		idx := int(n.Start / segmentSeconds)
		if idx >= numSegments {
			idx = numSegments - 1
		}
		if idx < 0 {
			idx = 0
		}
		segments[idx].Notes = append(segments[idx].Notes, n)
	}

	return segments
}
