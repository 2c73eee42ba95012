package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chorusmith/chorusmith/accomp"
	"github.com/chorusmith/chorusmith/model"
)

func melodyTrack(id int) model.Track {
	t := model.Track{ID: id, Name: "Lead", Program: 73}
	hook := []uint8{72, 74, 76, 77, 79, 77, 76, 74}
	for _, offset := range []float64{0, 4} {
		for i, p := range hook {
			start := offset + float64(i)*0.5
			t.Notes = append(t.Notes, model.Note{
				Pitch: p, Start: start, End: start + 0.4, Velocity: 90, TrackID: id,
			})
		}
	}
	return t
}

func bassTrack(id int) model.Track {
	t := model.Track{ID: id, Name: "Bass", Program: 33}
	for i := 0; i < 4; i++ {
		start := float64(i) * 2.0
		t.Notes = append(t.Notes, model.Note{
			Pitch: 36, Start: start, End: start + 1.5, Velocity: 100, TrackID: id,
		})
	}
	return t
}

func drumTrack(id int) model.Track {
	t := model.Track{ID: id, Name: "Drums", IsPercussive: true}
	for i := 0; i < 16; i++ {
		start := float64(i) * 0.5
		t.Notes = append(t.Notes, model.Note{
			Pitch: 38, Start: start, End: start + 0.1, Velocity: 110, TrackID: id,
		})
	}
	return t
}

func TestRunSelectsMelodyAndDetectsChorus(t *testing.T) {
	tracks := []model.Track{drumTrack(0), bassTrack(1), melodyTrack(2)}

	res, err := Run(tracks, DefaultConfig())

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(2, res.TrackID)
	assert.Equal("Lead", res.TrackName)
	assert.Equal(uint8(73), res.Program)
	assert.Equal(16, res.TotalNoteCount)
	assert.Equal(len(res.Melody), res.ChorusNoteCount)
	assert.True(res.ChorusMatched)
	assert.NotEmpty(res.Accompaniment)
	assert.Greater(res.Duration, 0.0)
}

func TestRunWithoutAccompaniment(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WithAccompaniment = false

	res, err := Run([]model.Track{melodyTrack(0)}, cfg)

	assert := assert.New(t)
	assert.NoError(err)
	assert.NotEmpty(res.Melody)
	assert.Empty(res.Accompaniment)
}

func TestRunEmptyInput(t *testing.T) {
	assert := assert.New(t)

	_, err := Run(nil, DefaultConfig())
	assert.ErrorIs(err, ErrEmptyInput)

	_, err = Run([]model.Track{{ID: 0}, {ID: 1}}, DefaultConfig())
	assert.ErrorIs(err, ErrEmptyInput)
}

func TestRunAllPercussive(t *testing.T) {
	_, err := Run([]model.Track{drumTrack(0), drumTrack(1)}, DefaultConfig())
	assert.ErrorIs(t, err, ErrNoMelodyTrack)
}

func TestRunIsIdempotent(t *testing.T) {
	tracks := []model.Track{bassTrack(0), melodyTrack(1)}

	first, err1 := Run(tracks, DefaultConfig())
	second, err2 := Run(tracks, DefaultConfig())

	assert := assert.New(t)
	assert.NoError(err1)
	assert.NoError(err2)
	assert.Equal(first, second)
}

func TestRunDoesNotMutateInput(t *testing.T) {
	tracks := []model.Track{bassTrack(0), melodyTrack(1)}

	var before []model.Note
	before = append(before, tracks[1].Notes...)

	_, err := Run(tracks, DefaultConfig())

	assert.NoError(t, err)
	assert.Equal(t, before, tracks[1].Notes)
}

func TestRunAccompanimentStaysSoftAndLow(t *testing.T) {
	res, err := Run([]model.Track{melodyTrack(0)}, DefaultConfig())

	assert := assert.New(t)
	assert.NoError(err)
	for _, n := range res.Accompaniment {
		assert.Equal(uint8(70), n.Velocity)
		assert.Equal(accomp.AccompanimentTrackID, n.TrackID)
		assert.Less(n.Pitch, uint8(60))
	}
}

func TestConfigZeroValuesFallBackToDefaults(t *testing.T) {
	cfg := Config{WithAccompaniment: true}.withDefaults()

	assert := assert.New(t)
	assert.Equal(4.0, cfg.SegmentSeconds)
	assert.Equal(2.0, cfg.MeasureSeconds)
	assert.Equal(0.2, cfg.MinChorusFraction)
	assert.Equal(4, cfg.BaseOctave)
	assert.Equal(uint8(70), cfg.AccompVelocity)
}
