package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chorusmith/chorusmith/model"
)

func segmentOf(pitches ...uint8) model.Segment {
	var seg model.Segment
	for i, p := range pitches {
		start := float64(i) * 0.5
		seg.Notes = append(seg.Notes, model.Note{Pitch: p, Start: start, End: start + 0.5})
	}
	seg.End = float64(len(pitches)) * 0.5
	return seg
}

func TestFingerprintIsDeterministic(t *testing.T) {
	seg := segmentOf(60, 62, 64, 62, 60)
	assert.Equal(t, FingerprintOf(seg), FingerprintOf(seg))
}

func TestFingerprintIsInvariantUnderTransposition(t *testing.T) {
	seg := segmentOf(60, 62, 64, 67, 64)

	transposed := segmentOf(60, 62, 64, 67, 64)
	for i := range transposed.Notes {
		transposed.Notes[i].Pitch += 12
	}

	assert.Equal(t, FingerprintOf(seg), FingerprintOf(transposed))
}

func TestFingerprintDistinguishesDifferentShapes(t *testing.T) {
	up := segmentOf(60, 62, 64)
	down := segmentOf(64, 62, 60)
	assert.NotEqual(t, FingerprintOf(up), FingerprintOf(down))
}

func TestFingerprintOrdersNotesByStartTime(t *testing.T) {
	ordered := segmentOf(60, 64, 67)

	shuffled := model.Segment{Notes: []model.Note{
		{Pitch: 67, Start: 1.0, End: 1.5},
		{Pitch: 60, Start: 0.0, End: 0.5},
		{Pitch: 64, Start: 0.5, End: 1.0},
	}}

	assert.Equal(t, FingerprintOf(ordered), FingerprintOf(shuffled))
}

func TestFingerprintSentinelForSparseSegments(t *testing.T) {
	assert := assert.New(t)

	empty := model.Segment{}
	single := segmentOf(60)

	assert.Equal(EmptyFingerprint, FingerprintOf(empty))
	assert.Equal(EmptyFingerprint, FingerprintOf(single))
	assert.False(FingerprintOf(single).OK)

	real := FingerprintOf(segmentOf(60, 62))
	assert.True(real.OK)
	assert.NotEqual(EmptyFingerprint, real)
}
