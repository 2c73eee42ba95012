// Package pipeline sequences track selection, chorus detection and
// accompaniment synthesis over an in-memory transcription. A run is a pure
// computation: it reads its input tracks, allocates its own outputs and keeps
// no state between runs, so any number of runs can execute in parallel.
package pipeline

import (
	"errors"

	"github.com/chorusmith/chorusmith/accomp"
	"github.com/chorusmith/chorusmith/chorus"
	"github.com/chorusmith/chorusmith/constants"
	"github.com/chorusmith/chorusmith/model"
	"github.com/chorusmith/chorusmith/track"
)

// Sentinel errors for expected failure modes.
var (
	// ErrEmptyInput: zero tracks, or no notes anywhere.
	ErrEmptyInput = errors.New("no notes in input")

	// ErrNoMelodyTrack: every track is percussive or empty.
	ErrNoMelodyTrack = errors.New("no suitable melody track found")
)

// Config holds the numeric knobs of one run. Zero-value fields are replaced
// by the defaults in constants/.
type Config struct {
	SegmentSeconds    float64
	MeasureSeconds    float64
	MinChorusFraction float64
	BaseOctave        int
	AccompVelocity    uint8

	// Score overrides the melody-track scoring heuristic.
	Score track.ScoreFunc

	// MinorFallback flips the chord-quality default for measures with no
	// identifiable third.
	MinorFallback bool

	// WithAccompaniment enables left-hand chord synthesis.
	WithAccompaniment bool
}

// DefaultConfig returns the documented defaults with accompaniment enabled.
func DefaultConfig() Config {
	return Config{
		SegmentSeconds:    constants.DefaultSegmentSeconds,
		MeasureSeconds:    constants.DefaultMeasureSeconds,
		MinChorusFraction: constants.DefaultMinChorusFraction,
		BaseOctave:        constants.DefaultBaseOctave,
		AccompVelocity:    constants.AccompanimentVelocity,
		WithAccompaniment: true,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.SegmentSeconds <= 0 {
		c.SegmentSeconds = d.SegmentSeconds
	}
	if c.MeasureSeconds <= 0 {
		c.MeasureSeconds = d.MeasureSeconds
	}
	if c.MinChorusFraction <= 0 {
		c.MinChorusFraction = d.MinChorusFraction
	}
	if c.BaseOctave <= 0 {
		c.BaseOctave = d.BaseOctave
	}
	if c.AccompVelocity == 0 {
		c.AccompVelocity = d.AccompVelocity
	}
	return c
}

// Result is the output of one run.
type Result struct {
	TrackID   int
	TrackName string
	Program   uint8

	Melody        []model.Note
	Accompaniment []model.Note

	ChorusNoteCount int
	TotalNoteCount  int
	ChorusMatched   bool
	Duration        float64
}

// Run extracts the melody/chorus line from tracks and optionally synthesizes
// a chordal left hand. Input is never mutated; every stage works on copies.
func Run(tracks []model.Track, cfg Config) (Result, error) {
	cfg = cfg.withDefaults()

	totalNotes := 0
	for _, t := range tracks {
		totalNotes += len(t.Notes)
	}
	if totalNotes == 0 {
		return Result{}, ErrEmptyInput
	}

	selected, ok := track.Select(tracks, cfg.Score)
	if !ok {
		return Result{}, ErrNoMelodyTrack
	}

	detected := chorus.Detect(selected.Notes, cfg.SegmentSeconds, cfg.MinChorusFraction)
	if len(detected.Notes) == 0 {
		return Result{}, ErrEmptyInput
	}

	res := Result{
		TrackID:         selected.ID,
		TrackName:       selected.Name,
		Program:         selected.Program,
		Melody:          detected.Notes,
		ChorusNoteCount: len(detected.Notes),
		TotalNoteCount:  len(selected.Notes),
		ChorusMatched:   detected.Matched,
		Duration:        model.Duration(detected.Notes),
	}

	if cfg.WithAccompaniment {
		res.Accompaniment = accomp.Generate(detected.Notes, accomp.Options{
			MeasureSeconds: cfg.MeasureSeconds,
			BaseOctave:     cfg.BaseOctave,
			Velocity:       cfg.AccompVelocity,
			MinorFallback:  cfg.MinorFallback,
		})
		if d := model.Duration(res.Accompaniment); d > res.Duration {
			res.Duration = d
		}
	}

	return res, nil
}
