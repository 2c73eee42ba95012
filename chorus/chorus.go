// Package chorus finds the most repeated section of a melody line.
package chorus

import (
	"sort"

	"github.com/chorusmith/chorusmith/model"
	"github.com/chorusmith/chorusmith/segment"
)

// Result is the detected chorus. When no clear repetition exists, or the
// winning repetition would cover too little of the song, Notes is the full
// melody and Matched is false.
type Result struct {
	Notes        []model.Note
	SegmentCount int
	Matched      bool
}

// Detect splits the melody into fixed windows, tallies each window's
// fingerprint across the song and returns the union of notes from every
// window sharing the most frequent one, in chronological order. Sentinel
// fingerprints never enter the tally. Ties go to the fingerprint first
// encountered in segment order.
//
// Guardrail: if the winning group holds fewer than minFraction of all melody
// notes, the full melody is returned instead. A degenerate vote must not
// discard the bulk of the song.
func Detect(notes []model.Note, segmentSeconds, minFraction float64) Result {
	if len(notes) == 0 {
		return Result{}
	}

	segments := segment.Split(notes, segmentSeconds)
	if len(segments) == 0 {
		return Result{Notes: copyNotes(notes)}
	}

	prints := make([]segment.Fingerprint, len(segments))
	counts := make(map[segment.Fingerprint]int)
	for i, seg := range segments {
		fp := segment.FingerprintOf(seg)
		prints[i] = fp
		if fp.OK {
			counts[fp]++
		}
	}

	// Scan in segment order so the first fingerprint to reach the winning
	// count takes the tie.
	var winner segment.Fingerprint
	maxCount := 0
	for _, fp := range prints {
		if fp.OK && counts[fp] > maxCount {
			winner = fp
			maxCount = counts[fp]
		}
	}

	if maxCount == 0 {
		return Result{Notes: copyNotes(notes)}
	}

	var chorusNotes []model.Note
	segmentCount := 0
	for i, fp := range prints {
		if fp == winner {
			chorusNotes = append(chorusNotes, segments[i].Notes...)
			segmentCount++
		}
	}

	if float64(len(chorusNotes)) < float64(len(notes))*minFraction {
		return Result{Notes: copyNotes(notes)}
	}

	sort.SliceStable(chorusNotes, func(i, j int) bool {
		return chorusNotes[i].Start < chorusNotes[j].Start
	})

	return Result{Notes: chorusNotes, SegmentCount: segmentCount, Matched: true}
}

func copyNotes(notes []model.Note) []model.Note {
	res := make([]model.Note, len(notes))
	copy(res, notes)
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Start < res[j].Start
	})
	return res
}
