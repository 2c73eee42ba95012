package midi

import (
	"fmt"
	"math"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/chorusmith/chorusmith/model"
)

// Output files are written on a fixed 120 BPM grid; note times are already
// absolute seconds so the tempo only affects tick resolution.
const (
	writeBPM             = 120.0
	writeTicksPerQuarter = 960
)

func secondsToTicks(seconds float64) int64 {
	quarterSeconds := 60.0 / writeBPM
	return int64(math.Round(seconds / quarterSeconds * writeTicksPerQuarter))
}

type noteEvent struct {
	absTicks int64
	isOff    bool
	key      uint8
	velocity uint8
}

func notesToTrack(name string, program uint8, channel uint8, notes []model.Note) smf.Track {
	var events []noteEvent
	for _, n := range notes {
		events = append(events, noteEvent{
			absTicks: secondsToTicks(n.Start),
			key:      n.Pitch,
			velocity: n.Velocity,
		})
		events = append(events, noteEvent{
			absTicks: secondsToTicks(n.End),
			isOff:    true,
			key:      n.Pitch,
		})
	}

	// offs before ons at the same tick so repeated pitches don't stick
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].absTicks != events[j].absTicks {
			return events[i].absTicks < events[j].absTicks
		}
		return events[i].isOff && !events[j].isOff
	})

	var tr smf.Track
	tr = append(tr, smf.Event{Delta: 0, Message: smf.Message(smf.MetaTrackSequenceName(name))})
	tr = append(tr, smf.Event{Delta: 0, Message: smf.Message(midi.ProgramChange(channel, program))})

	var prevTicks int64
	for _, evt := range events {
		delta := uint32(evt.absTicks - prevTicks)
		prevTicks = evt.absTicks

		var msg smf.Message
		if evt.isOff {
			msg = smf.Message(midi.NoteOff(channel, evt.key))
		} else {
			msg = smf.Message(midi.NoteOn(channel, evt.key, evt.velocity))
		}
		tr = append(tr, smf.Event{Delta: delta, Message: msg})
	}

	tr.Close(0)
	return tr
}

// WriteMelodyFile writes the extracted melody as a single-track SMF.
func WriteMelodyFile(filepath string, program uint8, melody []model.Note) error {
	return writeFile(filepath, []smf.Track{
		notesToTrack("Melody", program, 0, melody),
	})
}

// WriteArrangementFile writes a two-hand piano arrangement: melody on one
// track, synthesized chords on another, both on Acoustic Grand Piano.
func WriteArrangementFile(filepath string, melody, accompaniment []model.Note) error {
	return writeFile(filepath, []smf.Track{
		notesToTrack("Right Hand", 0, 0, melody),
		notesToTrack("Left Hand", 0, 1, accompaniment),
	})
}

func writeFile(filepath string, tracks []smf.Track) error {
	var res smf.SMF
	res.TimeFormat = smf.MetricTicks(writeTicksPerQuarter)

	var tempoTrack smf.Track
	tempoTrack = append(tempoTrack, smf.Event{Delta: 0, Message: smf.Message(smf.MetaTempo(writeBPM))})
	tempoTrack = append(tempoTrack, smf.Event{Delta: 0, Message: smf.Message(smf.MetaMeter(4, 4))})
	tempoTrack.Close(0)

	res.Tracks = append(res.Tracks, tempoTrack)
	res.Tracks = append(res.Tracks, tracks...)

	if err := res.WriteFile(filepath); err != nil {
		return fmt.Errorf("writing midi file: %w", err)
	}
	return nil
}
