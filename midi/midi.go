// Package midi converts between Standard MIDI Files and the in-memory note
// model the pipeline works on.
package midi

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/chorusmith/chorusmith/model"
)

// percussionChannel is channel 10 in 1-based MIDI terms.
const percussionChannel = 9

func ReadMidiFile(filepath string) (s *smf.SMF, e error) {
	var blank smf.SMF

	// smf.ReadFrom panics on some malformed files
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r, ok := recover().(string); ok {
			e = errors.New(r)
		}
	}()

	dat, err := os.ReadFile(filepath)
	if err != nil {
		return &blank, fmt.Errorf("reading midi file: %w", err)
	}

	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return &blank, fmt.Errorf("parsing midi file: %w", err)
	}

	return res, nil
}

// ReadTracks flattens an SMF into the pipeline's track model. Note on/off
// events are paired per track over absolute ticks and converted to seconds
// with the file's tempo map. A track that only plays on channel 10 is marked
// percussive.
func ReadTracks(s *smf.SMF) []model.Track {
	var res []model.Track

	for trackNum, events := range s.Tracks {
		t := model.Track{ID: trackNum}

		type pressedNote struct {
			start    float64
			velocity uint8
		}
		pressed := make(map[uint8]pressedNote)
		sawMelodic := false

		var absTicks int64
		endNote := func(key uint8) {
			p, ok := pressed[key]
			if !ok {
				return
			}
			delete(pressed, key)
			seconds := float64(s.TimeAt(absTicks)) / 1e6
			if seconds <= p.start {
				return
			}
			t.Notes = append(t.Notes, model.Note{
				Pitch:    key,
				Start:    p.start,
				End:      seconds,
				Velocity: p.velocity,
				TrackID:  trackNum,
			})
		}

		for _, event := range events {
			absTicks += int64(event.Delta)

			var text string
			if event.Message.GetMetaTrackName(&text) {
				t.Name = text
				continue
			}

			var channel, key, velocity uint8
			switch {
			case event.Message.GetProgramChange(&channel, &t.Program):
			case event.Message.GetNoteOn(&channel, &key, &velocity):
				// velocity 0 note-on is a note-off in disguise
				if velocity == 0 {
					endNote(key)
					continue
				}
				if channel != percussionChannel {
					sawMelodic = true
				}
				seconds := float64(s.TimeAt(absTicks)) / 1e6
				pressed[key] = pressedNote{start: seconds, velocity: velocity}
			case event.Message.GetNoteOff(&channel, &key, &velocity):
				endNote(key)
			}
		}

		t.IsPercussive = len(t.Notes) > 0 && !sawMelodic
		sort.SliceStable(t.Notes, func(i, j int) bool {
			return t.Notes[i].Start < t.Notes[j].Start
		})
		res = append(res, t)
	}

	return res
}

// ReadTracksFromFile is the one-call form of ReadMidiFile + ReadTracks.
func ReadTracksFromFile(filepath string) ([]model.Track, error) {
	s, err := ReadMidiFile(filepath)
	if err != nil {
		return nil, err
	}
	return ReadTracks(s), nil
}
