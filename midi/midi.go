package midi

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/jsphweid/rhythmdex/chord"
	"github.com/jsphweid/rhythmdex/constants"
	"github.com/jsphweid/rhythmdex/model"
	"github.com/jsphweid/rhythmdex/util"
)

const velocity = 90

type event struct {
	tick    int64
	off     bool
	channel uint8
	key     uint8
}

type track struct {
	name   string
	events []event
}

func (t *track) add(m *model.Measure, c *model.Chord, base int64) {
	if !c.HasStart || !c.HasDuration || c.Duration.IsZero() {
		return
	}
	channel := uint8(0)
	if c.Voice > 0 {
		channel = uint8((c.Voice - 1) % 16)
	}
	start := base + c.Start.Ticks()
	end := base + c.End().Ticks()
	for _, key := range chord.Pitches(m, c) {
		t.events = append(t.events,
			event{tick: start, channel: channel, key: key},
			event{tick: end, off: true, channel: channel, key: key})
	}
}

func (t *track) toSMF() smf.Track {
	// earlier ticks first, then note offs
	sort.SliceStable(t.events, func(i, j int) bool {
		if t.events[i].tick != t.events[j].tick {
			return t.events[i].tick < t.events[j].tick
		}
		return t.events[i].off && !t.events[j].off
	})

	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName(t.name))
	var last int64
	for _, e := range t.events {
		delta := uint32(e.tick - last)
		last = e.tick
		if e.off {
			tr.Add(delta, midi.NoteOff(e.channel, e.key))
		} else {
			tr.Add(delta, midi.NoteOn(e.channel, e.key, velocity))
		}
	}
	tr.Close(0)
	return tr
}

// Build lays the transcribed stacks of pages end to end, one track per part
// ordered by part id, and one channel per voice. Pages must have been
// numbered.
func Build(pages []*model.Page) (*smf.SMF, error) {
	tracks := make(map[int]*track)

	var base int64
	for _, page := range pages {
		for _, sys := range page.Systems {
			for _, part := range sys.Parts {
				if _, ok := tracks[part.ID]; !ok {
					name := part.Name
					if name == "" {
						name = fmt.Sprintf("Part %d", part.ID)
					}
					tracks[part.ID] = &track{name: name}
				}
			}
			for _, st := range sys.Stacks {
				for _, m := range st.Measures {
					t := tracks[m.Context.PartID]
					if t == nil {
						continue
					}
					for _, c := range m.Chords {
						t.add(m, c, base)
					}
				}
				base += st.Actual.Ticks()
			}
		}
	}

	if len(tracks) == 0 {
		return nil, errors.New("nothing to export")
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(constants.QuarterTicks)
	for _, id := range util.SortedKeys(tracks) {
		if err := s.Add(tracks[id].toSMF()); err != nil {
			return nil, fmt.Errorf("adding track for part %d: %w", id, err)
		}
	}
	return s, nil
}

// Write exports pages as a standard MIDI file.
func Write(w io.Writer, pages []*model.Page) error {
	s, err := Build(pages)
	if err != nil {
		return err
	}
	_, err = s.WriteTo(w)
	return err
}

func WriteFile(path string, pages []*model.Page) error {
	var buf bytes.Buffer
	if err := Write(&buf, pages); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// ReadFile reads back a standard MIDI file.
func ReadFile(filepath string) (s *smf.SMF, e error) {
	var blank smf.SMF

	// handle panics
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
