package beam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsphweid/rhythmdex/config"
	"github.com/jsphweid/rhythmdex/model"
	"github.com/jsphweid/rhythmdex/slot"
)

var scale = model.Scale{Interline: 20}

// beamedPair is two stem-up black heads joined by a pack of card beams.
func beamedPair(card int) *model.Measure {
	return &model.Measure{
		ID: 1,
		Symbols: []model.Symbol{
			{ID: 1, Shape: model.NoteheadBlack, Box: model.Box{X: 100, Y: 200, W: 20, H: 16}, RightStem: 10},
			{ID: 2, Shape: model.NoteheadBlack, Box: model.Box{X: 200, Y: 190, W: 20, H: 16}, RightStem: 11},
			{ID: 10, Shape: model.Stem, Box: model.Box{X: 119, Y: 135, W: 2, H: 73}},
			{ID: 11, Shape: model.Stem, Box: model.Box{X: 219, Y: 135, W: 2, H: 63}},
			{ID: 20, Shape: model.BeamStroke, Box: model.Box{X: 119, Y: 135, W: 102, H: 12 * float64(card)}, PackCard: card},
		},
	}
}

func build(m *model.Measure) {
	p := config.DefaultParams()
	slot.Build(m, scale, p)
	slot.AssembleChords(m)
	BuildBeams(m, scale, p)
	LinkChords(m, scale, p)
	Group(m)
}

func TestBuildsSingleBeamLinkedToBothChords(t *testing.T) {
	m := beamedPair(1)
	build(m)

	assert := assert.New(t)
	require.Len(t, m.Beams, 1)
	require.Len(t, m.Chords, 2)
	assert.Equal([]model.ChordID{1, 2}, m.Beams[0].Chords)
	assert.Equal([]model.BeamID{1}, m.Chords[0].Beams)
	assert.Equal([]model.BeamID{1}, m.Chords[1].Beams)

	require.Len(t, m.Groups, 1)
	assert.Equal(model.GroupID(1), m.Chords[0].Group)
	assert.Equal(model.GroupID(1), m.Chords[1].Group)
	assert.Nil(Check(m))
}

func TestSlicesBeamPackIntoLevels(t *testing.T) {
	m := beamedPair(2)
	build(m)

	assert := assert.New(t)
	require.Len(t, m.Beams, 2)
	require.Len(t, m.Groups, 1)
	g := m.Groups[0]
	// the upper slice is farther from the heads
	assert.Equal([]model.BeamID{1, 2}, g.Beams)
	assert.Equal(1, g.Level(1))
	assert.Equal(2, g.Level(2))
	assert.Equal(0, g.Level(3))
	for _, c := range m.Chords {
		assert.Equal([]model.BeamID{1, 2}, c.Beams)
	}
}

func TestPackIndexSelectsOneSlice(t *testing.T) {
	m := beamedPair(2)
	m.Symbols[4].PackIndex = 2
	build(m)

	assert.Len(t, m.Beams, 1)
}

func TestExtendsFirstCompatibleBeam(t *testing.T) {
	m := &model.Measure{
		Symbols: []model.Symbol{
			{ID: 1, Shape: model.BeamStroke, Box: model.Box{X: 0, Y: 100, W: 50, H: 10}},
			{ID: 2, Shape: model.BeamStroke, Box: model.Box{X: 60, Y: 100, W: 50, H: 10}},
			{ID: 3, Shape: model.BeamStroke, Box: model.Box{X: 300, Y: 100, W: 50, H: 10}},
			{ID: 4, Shape: model.BeamStroke, Box: model.Box{X: 0, Y: 160, W: 50, H: 10}},
		},
	}
	BuildBeams(m, scale, config.DefaultParams())

	assert := assert.New(t)
	require.Len(t, m.Beams, 3)
	assert.Equal([]int{1, 2}, m.Beams[0].Symbols)
	assert.Equal(0.0, m.Beams[0].Left.X)
	assert.Equal(110.0, m.Beams[0].Right.X)
	assert.Equal([]int{3}, m.Beams[1].Symbols)
	assert.Equal([]int{4}, m.Beams[2].Symbols)
}

func link(b *model.Beam, chords ...*model.Chord) {
	for _, c := range chords {
		b.Chords = append(b.Chords, c.ID)
		c.Beams = append(c.Beams, b.ID)
	}
}

// bridged builds a group whose two beams share a middle chord while their
// first chords sit in the same slot.
func bridged() (*model.Measure, map[string]*model.Chord) {
	m := &model.Measure{}
	s1, s2 := m.NewSlot(), m.NewSlot()
	a := m.NewChord(s1.ID)
	b := m.NewChord(s1.ID)
	x := m.NewChord(s2.ID)
	link(m.NewBeam(), a, x)
	link(m.NewBeam(), b, x)
	Group(m)
	return m, map[string]*model.Chord{"a": a, "b": b, "x": x}
}

func TestCheckFindsTwoChordsInOneSlot(t *testing.T) {
	m, chords := bridged()

	assert := assert.New(t)
	require.Len(t, m.Groups, 1)
	order := Check(m)
	require.NotNil(t, order)
	assert.Equal(model.GroupID(1), order.Group)
	assert.Equal(model.BeamID(2), order.AlienBeam)
	assert.Equal(chords["a"].ID, order.FirstChord)
	assert.Equal(chords["b"].ID, order.AlienChord)
}

func TestSplitConservesBeamsAndChords(t *testing.T) {
	m, chords := bridged()
	x := chords["x"]
	originalBeams := append([]model.BeamID(nil), x.Beams...)
	originalChords := m.GroupChords(m.Groups[0])

	splits := Split(m, config.DefaultParams())

	assert := assert.New(t)
	assert.Equal(1, splits)
	assert.Nil(Check(m))
	require.Len(t, m.Groups, 2)

	total := 0
	var combined []model.ChordID
	for _, g := range m.Groups {
		total += len(g.Beams)
		for _, cid := range m.GroupChords(g) {
			c := m.Chord(cid)
			if c.DuplicateOf != 0 {
				cid = c.DuplicateOf
			}
			if !containsChord(combined, cid) {
				combined = append(combined, cid)
			}
		}
	}
	assert.Equal(2, total)
	assert.ElementsMatch(originalChords, combined)

	require.Len(t, m.Chords, 4)
	dup := m.Chords[3]
	assert.Equal(x.ID, dup.DuplicateOf)
	assert.Equal(x.Slot, dup.Slot)
	assert.Empty(intersect(x.Beams, dup.Beams))
	assert.ElementsMatch(originalBeams, append(append([]model.BeamID(nil), x.Beams...), dup.Beams...))
	assert.NotEqual(x.Group, dup.Group)
	assert.Contains(m.Slot(x.Slot).Chords, dup.ID)
}

func TestSplitMovesBeamsContinuingTheAlienVoice(t *testing.T) {
	m := &model.Measure{}
	s1, s2, s3, s4 := m.NewSlot(), m.NewSlot(), m.NewSlot(), m.NewSlot()
	a := m.NewChord(s1.ID)
	b := m.NewChord(s1.ID)
	x := m.NewChord(s2.ID)
	y := m.NewChord(s3.ID)
	w := m.NewChord(s4.ID)
	link(m.NewBeam(), a, x)
	link(m.NewBeam(), b, x, y)
	link(m.NewBeam(), y, w)
	Group(m)
	require.Len(t, m.Groups, 1)

	splits := Split(m, config.DefaultParams())

	assert := assert.New(t)
	assert.Equal(1, splits)
	assert.Nil(Check(m))
	require.Len(t, m.Groups, 2)
	assert.Equal([]model.BeamID{1}, m.Groups[0].Beams)
	assert.ElementsMatch([]model.BeamID{2, 3}, m.Groups[1].Beams)

	var dups []*model.Chord
	for _, c := range m.Chords {
		if c.DuplicateOf != 0 {
			dups = append(dups, c)
		}
	}
	require.Len(t, dups, 1)
	assert.Equal(x.ID, dups[0].DuplicateOf)
	assert.Equal(model.GroupID(1), x.Group)
	assert.Equal(model.GroupID(2), dups[0].Group)
	assert.Equal(model.GroupID(2), y.Group)
	assert.Equal(model.GroupID(2), w.Group)
	assert.Equal([]model.BeamID{3}, w.Beams)
}

func TestSplitDetachesBeamReachingTwoChordsOfOneSlot(t *testing.T) {
	m := &model.Measure{}
	s1, s2 := m.NewSlot(), m.NewSlot()
	a := m.NewChord(s1.ID)
	b := m.NewChord(s1.ID)
	c := m.NewChord(s2.ID)
	link(m.NewBeam(), a, b, c)
	Group(m)

	Split(m, config.DefaultParams())

	assert := assert.New(t)
	assert.Nil(Check(m))
	assert.Len(m.Groups, 1)
	assert.Empty(b.Beams)
	assert.Equal(model.GroupID(0), b.Group)
	assert.Equal([]model.ChordID{a.ID, c.ID}, m.Beams[0].Chords)
	require.NotEmpty(t, m.Advisories)
	assert.Equal(model.InconsistentGrouping, m.Advisories[0].Kind)
}

func TestGroupJoinsBeamsThroughChords(t *testing.T) {
	m := &model.Measure{}
	s1, s2, s3 := m.NewSlot(), m.NewSlot(), m.NewSlot()
	a := m.NewChord(s1.ID)
	b := m.NewChord(s2.ID)
	c := m.NewChord(s3.ID)
	d := m.NewChord(s3.ID)
	link(m.NewBeam(), a, b)
	link(m.NewBeam(), b, c)
	link(m.NewBeam(), d)

	Group(m)

	assert := assert.New(t)
	require.Len(t, m.Groups, 2)
	assert.Equal([]model.BeamID{1, 2}, m.Groups[0].Beams)
	assert.Equal([]model.BeamID{3}, m.Groups[1].Beams)
	assert.Equal(model.GroupID(1), c.Group)
	assert.Equal(model.GroupID(2), d.Group)
}

func containsChord(ids []model.ChordID, id model.ChordID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

func intersect(a, b []model.BeamID) []model.BeamID {
	var res []model.BeamID
	for _, x := range a {
		for _, y := range b {
			if x == y {
				res = append(res, x)
			}
		}
	}
	return res
}
