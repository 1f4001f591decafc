package beam

import (
	"sort"

	"github.com/jsphweid/rhythmdex/config"
	"github.com/jsphweid/rhythmdex/logger"
	"github.com/jsphweid/rhythmdex/model"
	"github.com/jsphweid/rhythmdex/slot"
	"github.com/jsphweid/rhythmdex/util"
)

// Group gathers the beams of m that are transitively connected through
// chords. Previous groups are discarded.
func Group(m *model.Measure) {
	m.Groups = nil
	for _, b := range m.Beams {
		b.Group = 0
	}
	for _, c := range m.Chords {
		c.Group = 0
	}

	parent := make([]model.BeamID, len(m.Beams)+1)
	for i := range parent {
		parent[i] = model.BeamID(i)
	}
	var find func(b model.BeamID) model.BeamID
	find = func(b model.BeamID) model.BeamID {
		if parent[b] != b {
			parent[b] = find(parent[b])
		}
		return parent[b]
	}
	for _, c := range m.Chords {
		for i := 1; i < len(c.Beams); i++ {
			r1, r2 := find(c.Beams[0]), find(c.Beams[i])
			if r1 != r2 {
				parent[util.Max(r1, r2)] = util.Min(r1, r2)
			}
		}
	}

	byRoot := make(map[model.BeamID]*model.BeamGroup)
	for _, b := range m.Beams {
		root := find(b.ID)
		g := byRoot[root]
		if g == nil {
			g = m.NewGroup()
			byRoot[root] = g
		}
		g.Beams = append(g.Beams, b.ID)
		b.Group = g.ID
	}

	for _, g := range m.Groups {
		refresh(m, g)
	}
}

// refresh orders the beams of g by level and binds its chords to it.
func refresh(m *model.Measure, g *model.BeamGroup) {
	chords := m.GroupChords(g)
	var ys []float64
	for _, cid := range chords {
		ys = append(ys, m.Chord(cid).Head(m).Y)
	}
	headY, _ := util.Mean(ys)

	distance := func(id model.BeamID) float64 {
		b := m.Beam(id)
		return util.Abs(b.Line.YAt((b.Left.X+b.Right.X)/2) - headY)
	}
	// the beam farthest from the heads is the primary one
	sort.SliceStable(g.Beams, func(i, j int) bool {
		d1, d2 := distance(g.Beams[i]), distance(g.Beams[j])
		if d1 != d2 {
			return d1 > d2
		}
		return g.Beams[i] < g.Beams[j]
	})

	for _, cid := range chords {
		c := m.Chord(cid)
		c.Group = g.ID
		sort.SliceStable(c.Beams, func(i, j int) bool {
			return beamRank(m, c.Beams[i]) < beamRank(m, c.Beams[j])
		})
	}
}

func beamRank(m *model.Measure, id model.BeamID) int {
	b := m.Beam(id)
	return int(b.Group)*(len(m.Beams)+1) + m.Group(b.Group).Level(id)
}

// SplitOrder describes a group found to span two chords of one slot.
type SplitOrder struct {
	Group      model.GroupID
	AlienBeam  model.BeamID
	FirstChord model.ChordID
	AlienChord model.ChordID
}

// Check returns the first inconsistency of the measure groups: a slot
// holding two distinct chords of the same group. It returns nil when every
// group is consistent.
func Check(m *model.Measure) *SplitOrder {
	for _, g := range m.Groups {
		for _, s := range m.Slots {
			var first model.ChordID
			for _, bid := range g.Beams {
				for _, cid := range m.Beam(bid).Chords {
					if m.Chord(cid).Slot != s.ID {
						continue
					}
					if first == 0 {
						first = cid
					} else if first != cid {
						return &SplitOrder{Group: g.ID, AlienBeam: bid, FirstChord: first, AlienChord: cid}
					}
				}
			}
		}
	}
	return nil
}

// Split repairs the measure groups until Check finds nothing, bounded by
// the split loop limit. It returns the number of splits performed.
func Split(m *model.Measure, p config.Params) int {
	splits, err := util.Fixpoint(p.MaxSplitLoops, func() (bool, error) {
		order := Check(m)
		if order == nil {
			return false, nil
		}
		apply(m, *order)
		return true, nil
	})
	if err != nil {
		m.Advise(model.InconsistentGrouping, "beam group split loop stopped: %v", err)
	}
	if splits > 0 {
		logger.Debug("split beam groups",
			logger.Stringer("context", m.Context), logger.Int("splits", splits))
	}
	return splits
}

// apply moves the alien beam, and every beam linked to it away from the
// first chord, into a new group. Chords still shared by both groups are
// duplicated, the duplicate taking the beams of the new group.
func apply(m *model.Measure, o SplitOrder) {
	g := m.Group(o.Group)

	if m.Beam(o.AlienBeam).HasChord(o.FirstChord) {
		// one beam reaches both chords, give up the weakest link
		detach(m, o.AlienBeam, o.AlienChord)
		m.Advise(model.InconsistentGrouping,
			"beam #%d reaches chords #%d and #%d of one slot, detaching #%d",
			o.AlienBeam, o.FirstChord, o.AlienChord, o.AlienChord)
		refresh(m, g)
		return
	}

	alien := alienBeams(m, g, o)
	ng := m.NewGroup()
	for _, bid := range alien {
		g.Beams = util.Remove(g.Beams, bid)
		ng.Beams = append(ng.Beams, bid)
		m.Beam(bid).Group = ng.ID
	}
	m.Advise(model.InconsistentGrouping,
		"beam group #%d spans chords #%d and #%d of one slot, moving %d beams to group #%d",
		g.ID, o.FirstChord, o.AlienChord, len(alien), ng.ID)

	kept := m.GroupChords(g)
	for _, cid := range m.GroupChords(ng) {
		if util.Contains(kept, cid) {
			duplicate(m, m.Chord(cid), ng)
		}
	}

	refresh(m, g)
	refresh(m, ng)
}

// alienBeams returns the beams of g connected to the alien beam without
// going through the first chord's beams or the chords they reach.
func alienBeams(m *model.Measure, g *model.BeamGroup, o SplitOrder) []model.BeamID {
	var first []model.BeamID
	var bridges []model.ChordID
	for _, bid := range g.Beams {
		if b := m.Beam(bid); b.HasChord(o.FirstChord) {
			first = append(first, bid)
			bridges = append(bridges, b.Chords...)
		}
	}

	alien := []model.BeamID{o.AlienBeam}
	for i := 0; i < len(alien); i++ {
		for _, cid := range m.Beam(alien[i]).Chords {
			if util.Contains(bridges, cid) {
				continue
			}
			for _, bid := range g.Beams {
				if util.Contains(first, bid) || util.Contains(alien, bid) {
					continue
				}
				if m.Beam(bid).HasChord(cid) {
					alien = append(alien, bid)
				}
			}
		}
	}
	sort.Slice(alien, func(i, j int) bool { return alien[i] < alien[j] })
	return alien
}

func duplicate(m *model.Measure, c *model.Chord, ng *model.BeamGroup) {
	dup := m.DuplicateChord(c)
	var kept []model.BeamID
	for _, bid := range c.Beams {
		b := m.Beam(bid)
		if b.Group != ng.ID {
			kept = append(kept, bid)
			continue
		}
		for i, id := range b.Chords {
			if id == c.ID {
				b.Chords[i] = dup.ID
			}
		}
		dup.Beams = append(dup.Beams, bid)
	}
	c.Beams = kept
	dup.Group = ng.ID

	if s := m.Slot(c.Slot); s != nil {
		slot.SortChords(m, s.Chords)
	}
	logger.Debug("duplicated shared chord",
		logger.Stringer("context", m.Context),
		logger.Int("chord", int(c.ID)), logger.Int("duplicate", int(dup.ID)))
}

func detach(m *model.Measure, bid model.BeamID, cid model.ChordID) {
	b := m.Beam(bid)
	c := m.Chord(cid)
	b.Chords = util.Remove(b.Chords, cid)
	c.Beams = util.Remove(c.Beams, bid)
	if len(c.Beams) == 0 {
		c.Group = 0
	}
}
