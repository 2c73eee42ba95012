package midi

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chorusmith/chorusmith/model"
)

func TestWriteAndReadArrangement(t *testing.T) {
	melody := []model.Note{
		{Pitch: 72, Start: 0.0, End: 0.5, Velocity: 90},
		{Pitch: 74, Start: 0.5, End: 1.0, Velocity: 90},
		{Pitch: 76, Start: 1.0, End: 2.0, Velocity: 90},
	}
	accompaniment := []model.Note{
		{Pitch: 36, Start: 0.0, End: 2.0, Velocity: 70},
		{Pitch: 40, Start: 0.0, End: 2.0, Velocity: 70},
		{Pitch: 43, Start: 0.0, End: 2.0, Velocity: 70},
	}

	path := filepath.Join(t.TempDir(), "arrangement.mid")
	err := WriteArrangementFile(path, melody, accompaniment)

	assert := assert.New(t)
	assert.NoError(err)

	tracks, err := ReadTracksFromFile(path)
	assert.NoError(err)

	// tempo track + right hand + left hand
	assert.Len(tracks, 3)

	right := tracks[1]
	assert.Equal("Right Hand", right.Name)
	assert.Len(right.Notes, len(melody))
	for i, n := range right.Notes {
		assert.Equal(melody[i].Pitch, n.Pitch)
		assert.InDelta(melody[i].Start, n.Start, 0.01)
		assert.InDelta(melody[i].End, n.End, 0.01)
		assert.Equal(melody[i].Velocity, n.Velocity)
	}

	left := tracks[2]
	assert.Equal("Left Hand", left.Name)
	assert.Len(left.Notes, len(accompaniment))
	assert.False(left.IsPercussive)
}

func TestWriteAndReadMelody(t *testing.T) {
	melody := []model.Note{
		{Pitch: 60, Start: 0.0, End: 1.0, Velocity: 80},
		{Pitch: 64, Start: 1.0, End: 1.5, Velocity: 85},
	}

	path := filepath.Join(t.TempDir(), "melody.mid")
	err := WriteMelodyFile(path, 73, melody)

	assert := assert.New(t)
	assert.NoError(err)

	tracks, err := ReadTracksFromFile(path)
	assert.NoError(err)
	assert.Len(tracks, 2)

	lead := tracks[1]
	assert.Equal("Melody", lead.Name)
	assert.Equal(uint8(73), lead.Program)
	assert.Len(lead.Notes, 2)
	assert.Equal(uint8(60), lead.Notes[0].Pitch)
	assert.Equal(uint8(64), lead.Notes[1].Pitch)
}

func TestReadMidiFileMissing(t *testing.T) {
	_, err := ReadMidiFile(filepath.Join(t.TempDir(), "nope.mid"))
	assert.Error(t, err)
}

func TestReadTracksPairsOverlappingNotes(t *testing.T) {
	// a held chord: three simultaneous notes on one track
	chord := []model.Note{
		{Pitch: 60, Start: 0.0, End: 2.0, Velocity: 70},
		{Pitch: 64, Start: 0.0, End: 2.0, Velocity: 70},
		{Pitch: 67, Start: 0.0, End: 2.0, Velocity: 70},
	}

	path := filepath.Join(t.TempDir(), "chord.mid")
	assert.NoError(t, WriteMelodyFile(path, 0, chord))

	tracks, err := ReadTracksFromFile(path)
	assert.NoError(t, err)
	assert.Len(t, tracks[1].Notes, 3)
	for _, n := range tracks[1].Notes {
		assert.InDelta(t, 0.0, n.Start, 0.01)
		assert.InDelta(t, 2.0, n.End, 0.01)
	}
}
