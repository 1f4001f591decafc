package rhythm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsphweid/rhythmdex/config"
	"github.com/jsphweid/rhythmdex/measure"
	"github.com/jsphweid/rhythmdex/model"
	"github.com/jsphweid/rhythmdex/rational"
	"github.com/jsphweid/rhythmdex/sample"
)

func quarterHead(id int, x float64) model.Symbol {
	return model.Symbol{ID: id, Shape: model.NoteheadBlack, Box: model.Box{X: x - 10, Y: 92, W: 20, H: 16}}
}

func fourQuarters() *model.Page {
	expected := rational.One
	return &model.Page{
		ID:        "scenario-a",
		Interline: 20,
		Systems: []*model.System{{
			ID: 1,
			Parts: []*model.Part{{
				ID: 1,
				Measures: []*model.Measure{{
					ID:       1,
					Expected: &expected,
					Symbols: []model.Symbol{
						quarterHead(1, 100),
						quarterHead(2, 200),
						quarterHead(3, 300),
						quarterHead(4, 400),
					},
				}},
			}},
		}},
	}
}

func TestFourQuartersScenario(t *testing.T) {
	res, acc, err := TranscribePage(fourQuarters(), config.DefaultParams(), measure.IDState{}, "run")

	assert := assert.New(t)
	require.NoError(t, err)
	require.Len(t, res.Stacks, 1)
	st := res.Stacks[0]
	assert.Equal(1, st.PageID)
	assert.False(st.Implicit)
	assert.Equal(int64(384), st.Actual.Ticks())
	require.NotNil(t, st.Termination)
	assert.True(st.Termination.IsZero())

	require.Len(t, st.Measures, 1)
	mr := st.Measures[0]
	require.Len(t, mr.Slots, 4)
	var offsets []int64
	for _, s := range mr.Slots {
		assert.Len(s.Chords, 1)
		offsets = append(offsets, s.Offset.Ticks())
	}
	assert.Equal([]int64{0, 96, 192, 288}, offsets)
	for _, c := range mr.Chords {
		assert.Equal(1, c.Voice)
		assert.Equal(int64(96), c.Duration.Ticks())
		assert.Equal("60", c.Key)
	}
	assert.Equal(int64(384), mr.Actual.Ticks())
	assert.Empty(res.Advisories)
	assert.Equal(measure.IDState{LastID: 1, HasLast: true}, acc)
}

func TestRerunGivesSameResult(t *testing.T) {
	page := fourQuarters()
	p := config.DefaultParams()
	first, _, err := TranscribePage(page, p, measure.IDState{}, "run")
	require.NoError(t, err)
	second, _, err := TranscribePage(page, p, measure.IDState{}, "run")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPageWithoutSystems(t *testing.T) {
	_, _, err := TranscribePage(&model.Page{ID: "blank"}, config.DefaultParams(), measure.IDState{}, "run")

	assert.True(t, errors.Is(err, ErrNoSystems))
}

func TestMissingInterlineFallsBackToDefault(t *testing.T) {
	page := fourQuarters()
	page.Interline = 0
	res, _, err := TranscribePage(page, config.DefaultParams(), measure.IDState{}, "run")

	require.NoError(t, err)
	assert.Len(t, res.Stacks[0].Measures[0].Slots, 4)
}

func samplePages(n int) []*model.Page {
	var pages []*model.Page
	for i := 0; i < n; i++ {
		pages = append(pages, sample.Page(i, sample.Options{Systems: 2, Parts: 2, Measures: 3, Pickup: i == 0}))
	}
	return pages
}

func pageIDs(res *model.PageResult) []int {
	var ids []int
	for _, st := range res.Stacks {
		ids = append(ids, st.PageID)
	}
	return ids
}

func TestSamplePageNumbering(t *testing.T) {
	res, acc, err := TranscribePage(samplePages(1)[0], config.DefaultParams(), measure.IDState{}, "run")

	assert := assert.New(t)
	require.NoError(t, err)
	assert.Equal([]int{0, 1, 2, 3, 4, 5}, pageIDs(res))
	assert.True(res.Stacks[0].Pickup)
	assert.Equal(5, acc.LastID)
	for _, st := range res.Stacks[1:] {
		assert.Equal(rational.One, st.Actual)
	}
	assert.Empty(res.Advisories)
}

func TestPoolNumbersLikeSequentialRun(t *testing.T) {
	p := config.DefaultParams()

	var sequential [][]int
	acc := measure.IDState{}
	for _, page := range samplePages(4) {
		res, next, err := TranscribePage(page, p, acc, "run")
		require.NoError(t, err)
		sequential = append(sequential, pageIDs(res))
		acc = next
	}

	results, poolAcc, err := NewPool(p, 3).Run(context.Background(), samplePages(4), measure.IDState{})
	require.NoError(t, err)
	require.Len(t, results, 4)

	var pooled [][]int
	for _, res := range results {
		pooled = append(pooled, pageIDs(res))
		assert.Equal(t, results[0].RunID, res.RunID)
	}
	assert.Equal(t, sequential, pooled)
	assert.Equal(t, acc, poolAcc)
}

func TestPoolKeepsGoingPastFailingPage(t *testing.T) {
	pages := samplePages(3)
	pages[1] = &model.Page{ID: "blank"}

	results, acc, err := NewPool(config.DefaultParams(), 2).Run(context.Background(), pages, measure.IDState{})

	assert := assert.New(t)
	assert.True(errors.Is(err, ErrNoSystems))
	require.Len(t, results, 2)
	assert.Equal("sample-0", results[0].PageID)
	assert.Equal("sample-2", results[1].PageID)
	assert.Equal([]int{6, 7, 8, 9, 10, 11}, pageIDs(results[1]))
	assert.Equal(11, acc.LastID)
}

func TestPoolHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, _, err := NewPool(config.DefaultParams(), 2).Run(ctx, samplePages(2), measure.IDState{})

	assert.Empty(t, results)
	assert.True(t, errors.Is(err, context.Canceled))
}
