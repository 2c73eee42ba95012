// Package accomp synthesizes a block-chord left hand for a melody line.
package accomp

import (
	"math"
	"sort"

	"github.com/chorusmith/chorusmith/model"
)

// AccompanimentTrackID marks synthesized notes; they belong to no source track.
const AccompanimentTrackID = -1

// Options control chord placement. Zero values are not usable; callers go
// through pipeline.Config which fills in the documented defaults.
type Options struct {
	// MeasureSeconds is the chord window length.
	MeasureSeconds float64

	// BaseOctave anchors the register: chords are voiced one octave below it.
	BaseOctave int

	// Velocity for every emitted chord note.
	Velocity uint8

	// MinorFallback flips the quality default: normally a measure with
	// neither a major nor a minor third above the root comes out major.
	MinorFallback bool
}

// EstimateChord derives a root and quality from the pitch-class content of
// the notes in one measure. The root is the most frequent pitch class, ties
// going to the class heard first. Quality follows the thirds present above
// the root: minor only when the minor third is there and the major third is
// not (unless MinorFallback inverts the no-third default). The second return
// is false when there are no notes to estimate from.
func EstimateChord(notes []model.Note, minorFallback bool) (model.ChordEstimate, bool) {
	if len(notes) == 0 {
		return model.ChordEstimate{}, false
	}

	var histogram [12]int
	firstSeen := [12]int{}
	for i := range firstSeen {
		firstSeen[i] = len(notes)
	}
	for i, n := range notes {
		pc := n.PitchClass()
		histogram[pc]++
		if firstSeen[pc] == len(notes) {
			firstSeen[pc] = i
		}
	}

	root := uint8(0)
	for pc := 1; pc < 12; pc++ {
		better := histogram[pc] > histogram[root] ||
			(histogram[pc] == histogram[root] && firstSeen[pc] < firstSeen[root])
		if better {
			root = uint8(pc)
		}
	}

	hasMajorThird := histogram[(root+4)%12] > 0
	hasMinorThird := histogram[(root+3)%12] > 0

	isMajor := !minorFallback
	switch {
	case hasMajorThird:
		isMajor = true
	case hasMinorThird:
		isMajor = false
	}

	return model.ChordEstimate{RootPitchClass: root, IsMajor: isMajor}, true
}

// Generate emits a three-voice chord (root, third, fifth) per measure,
// spanning the full measure in a lower register at a fixed soft velocity.
// Measures with no melody notes stay silent.
func Generate(melody []model.Note, opts Options) []model.Note {
	if len(melody) == 0 || opts.MeasureSeconds <= 0 {
		return nil
	}

	duration := model.Duration(melody)
	numMeasures := int(math.Ceil(duration / opts.MeasureSeconds))
	if numMeasures == 0 {
		return nil
	}

	measures := make([][]model.Note, numMeasures)
	sorted := make([]model.Note, len(melody))
	copy(sorted, melody)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})
	for _, n := range sorted {
		idx := int(n.Start / opts.MeasureSeconds)
		if idx >= numMeasures {
			idx = numMeasures - 1
		}
		measures[idx] = append(measures[idx], n)
	}

	var res []model.Note
	for i, measureNotes := range measures {
		est, ok := EstimateChord(measureNotes, opts.MinorFallback)
		if !ok {
			continue
		}

		rootPitch := int(est.RootPitchClass) + (opts.BaseOctave-1)*12
		thirdInterval := 3
		if est.IsMajor {
			thirdInterval = 4
		}
		pitches := [3]int{rootPitch, rootPitch + thirdInterval, rootPitch + 7}

		start := float64(i) * opts.MeasureSeconds
		end := float64(i+1) * opts.MeasureSeconds
		for _, p := range pitches {
			res = append(res, model.Note{
				Pitch:    uint8(p),
				Start:    start,
				End:      end,
				Velocity: opts.Velocity,
				TrackID:  AccompanimentTrackID,
			})
		}
	}

	return res
}
