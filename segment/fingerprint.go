package segment

import (
	"encoding/binary"
	"hash/fnv"
	"sort"

	"github.com/chorusmith/chorusmith/model"
)

// Fingerprint is a comparable signature of a segment's melodic shape. It is
// derived from consecutive pitch differences, so repeating a phrase an octave
// up or down still matches. The zero value is the sentinel for segments that
// carry no shape (fewer than two notes) and never wins a majority vote.
type Fingerprint struct {
	Sum uint64
	OK  bool
}

// EmptyFingerprint is the sentinel assigned to segments with fewer than two
// notes. A single note has no pitch-diff sequence to compare.
var EmptyFingerprint = Fingerprint{}

// FingerprintOf reduces a segment to its fingerprint: notes ordered by start
// time, pitches taken in that order, consecutive differences hashed into one
// value.
func FingerprintOf(seg model.Segment) Fingerprint {
	if len(seg.Notes) < 2 {
		return EmptyFingerprint
	}

	notes := make([]model.Note, len(seg.Notes))
	copy(notes, seg.Notes)
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].Start < notes[j].Start
	})

	h := fnv.New64a()
	buf := make([]byte, 4)
	for i := 1; i < len(notes); i++ {
		diff := int32(notes[i].Pitch) - int32(notes[i-1].Pitch)
		binary.LittleEndian.PutUint32(buf, uint32(diff))
		h.Write(buf)
	}

	return Fingerprint{Sum: h.Sum64(), OK: true}
}
