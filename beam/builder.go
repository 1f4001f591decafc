package beam

import (
	"sort"

	"github.com/jsphweid/rhythmdex/config"
	"github.com/jsphweid/rhythmdex/model"
	"github.com/jsphweid/rhythmdex/util"
)

// slice is one stroke of a beam glyph. A glyph made of a pack of stacked
// beams gives one slice per beam.
type slice struct {
	symbol int
	box    model.Box
	points []model.Point
}

func slices(sym *model.Symbol) []slice {
	card := sym.PackCard
	if card < 1 {
		card = 1
	}
	first, last := 1, card
	if sym.PackIndex > 0 && sym.PackIndex <= card {
		// the upstream stage already isolated one beam of the pack
		first, last = sym.PackIndex, sym.PackIndex
	}

	h := sym.Box.H / float64(card)
	res := make([]slice, 0, last-first+1)
	for k := first; k <= last; k++ {
		box := model.Box{X: sym.Box.X, Y: sym.Box.Y + float64(k-1)*h, W: sym.Box.W, H: h}
		if first == last {
			box = sym.Box
		}
		res = append(res, slice{symbol: sym.ID, box: box, points: pointsIn(sym.Points, box)})
	}
	return res
}

// pointsIn keeps the points that fall in the vertical band of box. With
// fewer than two of them the band axis is used instead.
func pointsIn(points []model.Point, box model.Box) []model.Point {
	var res []model.Point
	for _, p := range points {
		if p.Y >= box.Top() && p.Y <= box.Bottom() {
			res = append(res, p)
		}
	}
	if len(res) >= 2 {
		return res
	}
	mid := box.Center().Y
	return []model.Point{{X: box.Left(), Y: mid}, {X: box.Right(), Y: mid}}
}

// compatible tells whether the slice can extend b.
func compatible(b *model.Beam, s slice, maxGap, maxDistance float64) bool {
	if b.Line.Distance(s.box.Center()) > maxDistance {
		return false
	}
	// negative when overlapping on that side
	rightGap := s.box.Left() - b.Right.X
	leftGap := b.Left.X - s.box.Right()
	return util.Max(rightGap, leftGap) <= maxGap
}

// BuildBeams links the beam symbols of m into beams. Each slice extends the
// first compatible beam, in creation order, or starts a new one.
func BuildBeams(m *model.Measure, sc model.Scale, p config.Params) {
	maxGap := sc.ToUnits(p.MaxBeamGap)
	maxDistance := sc.ToUnits(p.MaxBeamDistance)

	for _, id := range m.SymbolsOf(model.KindBeam) {
		for _, s := range slices(m.Symbol(id)) {
			extended := false
			for _, b := range m.Beams {
				if compatible(b, s, maxGap, maxDistance) {
					b.Extend(s.symbol, s.points)
					extended = true
					break
				}
			}
			if !extended {
				m.NewBeam().Extend(s.symbol, s.points)
			}
		}
	}
}

// LinkChords attaches every stemmed chord to the beams its stem reaches.
func LinkChords(m *model.Measure, sc model.Scale, p config.Params) {
	maxGap := sc.ToUnits(p.MaxBeamGap)
	maxDistance := sc.ToUnits(p.MaxBeamDistance)

	for _, c := range m.Chords {
		stem := m.Symbol(c.Stem)
		if stem == nil {
			continue
		}
		x := stem.Box.Center().X
		for _, b := range m.Beams {
			if x < b.Left.X-maxGap || x > b.Right.X+maxGap {
				continue
			}
			y := b.Line.YAt(x)
			if y < stem.Box.Top()-maxDistance || y > stem.Box.Bottom()+maxDistance {
				continue
			}
			b.Chords = append(b.Chords, c.ID)
			c.Beams = append(c.Beams, b.ID)
		}
	}

	for _, b := range m.Beams {
		sortBySlot(m, b.Chords)
	}
}

func sortBySlot(m *model.Measure, ids []model.ChordID) {
	sort.SliceStable(ids, func(i, j int) bool {
		c1, c2 := m.Chord(ids[i]), m.Chord(ids[j])
		if c1.Slot != c2.Slot {
			return c1.Slot < c2.Slot
		}
		return c1.ID < c2.ID
	})
}
