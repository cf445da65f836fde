// Package midifile converts between note events and Standard MIDI Files.
package midifile

import (
	"bytes"
	"math"
	"sort"

	"github.com/cockroachdb/errors"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	DefaultBPM        = 120.0
	ticksPerQuarter   = 480
	channel           = 0
	maxVelocity       = 127
	minOnVelocity     = 1
	secondsPerMinute  = 60.0
	defaultResolution = smf.MetricTicks(ticksPerQuarter)
)

// NoteEvent is a pitched sound as a detector reports it. Amplitude is in
// [0, 1].
type NoteEvent struct {
	Start     float64
	End       float64
	Pitch     int
	Amplitude float64
}

type timedMessage struct {
	tick uint32
	off  bool
	msg  midi.Message
}

// Encode writes the events as a single-track SMF at a fixed tempo
func Encode(events []NoteEvent) ([]byte, error) {
	messages := make([]timedMessage, 0, len(events)*2)
	for _, event := range events {
		if event.End <= event.Start || event.Pitch < 0 || event.Pitch > 127 {
			continue
		}

		key := uint8(event.Pitch)
		velocity := uint8(math.Max(minOnVelocity, math.Round(clamp01(event.Amplitude)*maxVelocity)))

		messages = append(messages,
			timedMessage{tick: secondsToTicks(event.Start), msg: midi.NoteOn(channel, key, velocity)},
			timedMessage{tick: secondsToTicks(event.End), off: true, msg: midi.NoteOff(channel, key)},
		)
	}

	// note offs go first on a shared tick so a repeated pitch retriggers
	sort.SliceStable(messages, func(i, j int) bool {
		if messages[i].tick != messages[j].tick {
			return messages[i].tick < messages[j].tick
		}
		return messages[i].off && !messages[j].off
	})

	var track smf.Track
	track.Add(0, smf.MetaTempo(DefaultBPM))
	track.Add(0, midi.ProgramChange(channel, 0))

	var last uint32
	for _, message := range messages {
		track.Add(message.tick-last, message.msg)
		last = message.tick
	}
	track.Close(0)

	file := smf.New()
	file.TimeFormat = defaultResolution
	if err := file.Add(track); err != nil {
		return nil, errors.Wrap(err, "Failed to add track to MIDI file")
	}

	var out bytes.Buffer
	if _, err := file.WriteTo(&out); err != nil {
		return nil, errors.Wrap(err, "Failed to serialize MIDI file")
	}

	return out.Bytes(), nil
}

type tempoChange struct {
	tick uint64
	bpm  float64
}

type noteKey struct {
	channel uint8
	key     uint8
}

type openNote struct {
	start    float64
	velocity uint8
}

// Decode extracts note events from every track of an SMF, in order of note
// start
func Decode(data []byte) ([]NoteEvent, error) {
	file, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "Failed to parse MIDI file")
	}

	resolution, ok := file.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, errors.New("Only metric time MIDI files are supported")
	}

	tempos := collectTempos(file)
	toSeconds := func(tick uint64) float64 {
		return ticksToSeconds(tick, tempos, float64(resolution.Resolution()))
	}

	events := []NoteEvent{}
	for _, track := range file.Tracks {
		open := map[noteKey][]openNote{}
		var tick uint64

		for _, event := range track {
			tick += uint64(event.Delta)

			message := midi.Message(event.Message)

			var ch, key, velocity uint8
			switch {
			case message.GetNoteStart(&ch, &key, &velocity):
				k := noteKey{channel: ch, key: key}
				open[k] = append(open[k], openNote{start: toSeconds(tick), velocity: velocity})

			case message.GetNoteEnd(&ch, &key):
				k := noteKey{channel: ch, key: key}
				pending := open[k]
				if len(pending) == 0 {
					continue
				}

				started := pending[0]
				open[k] = pending[1:]
				events = append(events, NoteEvent{
					Start:     started.start,
					End:       toSeconds(tick),
					Pitch:     int(key),
					Amplitude: float64(started.velocity) / maxVelocity,
				})
			}
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start < events[j].Start
	})

	return events, nil
}

func collectTempos(file *smf.SMF) []tempoChange {
	tempos := []tempoChange{}
	for _, track := range file.Tracks {
		var tick uint64
		for _, event := range track {
			tick += uint64(event.Delta)

			var bpm float64
			if event.Message.GetMetaTempo(&bpm) && bpm > 0 {
				tempos = append(tempos, tempoChange{tick: tick, bpm: bpm})
			}
		}
	}

	sort.SliceStable(tempos, func(i, j int) bool {
		return tempos[i].tick < tempos[j].tick
	})

	if len(tempos) == 0 || tempos[0].tick != 0 {
		tempos = append([]tempoChange{{tick: 0, bpm: DefaultBPM}}, tempos...)
	}

	return tempos
}

func ticksToSeconds(tick uint64, tempos []tempoChange, resolution float64) float64 {
	seconds := 0.0
	for i, tempo := range tempos {
		if tempo.tick >= tick {
			break
		}

		end := tick
		if i+1 < len(tempos) && tempos[i+1].tick < tick {
			end = tempos[i+1].tick
		}

		seconds += float64(end-tempo.tick) / resolution * secondsPerMinute / tempo.bpm
	}

	return seconds
}

func secondsToTicks(seconds float64) uint32 {
	if seconds <= 0 {
		return 0
	}

	return uint32(math.Round(seconds * ticksPerQuarter * DefaultBPM / secondsPerMinute))
}

func clamp01(value float64) float64 {
	return math.Max(0, math.Min(1, value))
}
