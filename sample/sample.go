package sample

import (
	"fmt"

	"github.com/jsphweid/rhythmdex/model"
	"github.com/jsphweid/rhythmdex/rational"
)

// Options shape a generated page.
type Options struct {
	Systems  int
	Parts    int
	Measures int
	// Pickup makes the first measure of the page hold a single quarter note.
	Pickup bool
}

const (
	interline    = 20.0
	measureWidth = 400.0
	partHeight   = 200.0
)

type builder struct {
	next int
}

func (b *builder) id() int {
	b.next++
	return b.next
}

// stemmed returns a head with a stem going up from its right side.
func (b *builder) stemmed(shape model.Shape, x, y float64, pitch int) (model.Symbol, model.Symbol) {
	stem := model.Symbol{ID: b.id(), Shape: model.Stem, Box: model.Box{X: x + 9, Y: y - 60, W: 2, H: 60}}
	head := model.Symbol{
		ID:        b.id(),
		Shape:     shape,
		Box:       model.Box{X: x - 10, Y: y - 8, W: 20, H: 16},
		RightStem: stem.ID,
		Pitch:     pitch,
	}
	return head, stem
}

func (b *builder) quarters(x0, y float64, count int) []model.Symbol {
	var res []model.Symbol
	for i := 0; i < count; i++ {
		head, stem := b.stemmed(model.NoteheadBlack, x0+50+float64(i)*90, y, 60+2*i)
		res = append(res, head, stem)
	}
	return res
}

// mixed is a half note, two beamed eighths and a quarter rest.
func (b *builder) mixed(x0, y float64) []model.Symbol {
	half, halfStem := b.stemmed(model.NoteheadVoid, x0+50, y, 67)
	e1, s1 := b.stemmed(model.NoteheadBlack, x0+140, y, 65)
	e2, s2 := b.stemmed(model.NoteheadBlack, x0+230, y, 64)
	beam := model.Symbol{ID: b.id(), Shape: model.BeamStroke, Box: model.Box{X: x0 + 149, Y: y - 60, W: 92, H: 8}}
	rest := model.Symbol{ID: b.id(), Shape: model.QuarterRest, Box: model.Box{X: x0 + 315, Y: y - 15, W: 10, H: 30}}
	return []model.Symbol{half, halfStem, e1, s1, e2, s2, beam, rest}
}

func (b *builder) whole(x0, y float64, rest bool) []model.Symbol {
	if rest {
		return []model.Symbol{{ID: b.id(), Shape: model.WholeRest, Box: model.Box{X: x0 + 190, Y: y - 20, W: 20, H: 10}}}
	}
	return []model.Symbol{{ID: b.id(), Shape: model.WholeNote, Box: model.Box{X: x0 + 190, Y: y - 8, W: 22, H: 16}, Pitch: 60}}
}

func (b *builder) barline(x0, y float64) model.Symbol {
	return model.Symbol{ID: b.id(), Shape: model.Barline, Box: model.Box{X: x0 + measureWidth - 2, Y: y - 40, W: 2, H: 80}}
}

// Page generates a synthetic, already classified page in 4/4. Measure
// contents cycle through four quarters, a mixed measure with a beam and a
// whole measure, a whole rest in all parts but the first one.
func Page(index int, opts Options) *model.Page {
	b := &builder{}
	page := &model.Page{ID: fmt.Sprintf("sample-%d", index), Index: index, Interline: interline}

	for s := 0; s < opts.Systems; s++ {
		sys := &model.System{ID: s + 1}
		for p := 0; p < opts.Parts; p++ {
			part := &model.Part{ID: p + 1, Name: fmt.Sprintf("Part %d", p+1)}
			y := float64(p)*partHeight + 100
			for k := 0; k < opts.Measures; k++ {
				x0 := float64(k) * measureWidth
				expected := rational.One
				m := &model.Measure{ID: s*opts.Measures + k + 1, Expected: &expected}

				switch {
				case opts.Pickup && s == 0 && k == 0:
					m.Symbols = b.quarters(x0, y, 1)
				case (k+p)%3 == 0:
					m.Symbols = b.quarters(x0, y, 4)
				case (k+p)%3 == 1:
					m.Symbols = b.mixed(x0, y)
				default:
					m.Symbols = b.whole(x0, y, p > 0)
				}
				m.Symbols = append(m.Symbols, b.barline(x0, y))
				part.Measures = append(part.Measures, m)
			}
			sys.Parts = append(sys.Parts, part)
		}
		page.Systems = append(page.Systems, sys)
	}
	return page
}
