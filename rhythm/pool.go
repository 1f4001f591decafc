package rhythm

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/jsphweid/rhythmdex/config"
	"github.com/jsphweid/rhythmdex/logger"
	"github.com/jsphweid/rhythmdex/measure"
	"github.com/jsphweid/rhythmdex/model"
)

// Pool transcribes independent pages in parallel. Pages share nothing
// while they are processed; measure numbering happens afterwards, in page
// order, so the worker count never changes the ids.
type Pool struct {
	params  config.Params
	workers int
}

func NewPool(p config.Params, workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{params: p, workers: workers}
}

// Run transcribes pages and numbers their measures after acc. A page that
// fails is skipped, its error joined to the returned one, and the other
// pages are still transcribed.
func (pl *Pool) Run(ctx context.Context, pages []*model.Page, acc measure.IDState) ([]*model.PageResult, measure.IDState, error) {
	runID := uuid.NewString()
	start := time.Now()
	logger.Info("transcribing pages",
		logger.String("run", runID), logger.Int("pages", len(pages)), logger.Int("workers", pl.workers))

	errs := make([]error, len(pages))
	var g errgroup.Group
	g.SetLimit(pl.workers)
	for i, page := range pages {
		i, page := i, page
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			errs[i] = Prepare(page, pl.params)
			return nil
		})
	}
	// workers report through errs
	_ = g.Wait()

	var err error
	results := make([]*model.PageResult, 0, len(pages))
	for i, page := range pages {
		if errs[i] != nil {
			err = multierr.Append(err, fmt.Errorf("page %d: %w", i, errs[i]))
			continue
		}
		acc = measure.AssignIDs(page, acc)
		results = append(results, Result(page, runID))
	}

	logger.Info("transcription done",
		logger.String("run", runID),
		logger.Int("pages", len(results)),
		logger.Int("failed", len(multierr.Errors(err))),
		logger.String("elapsed", time.Since(start).String()))
	return results, acc, err
}
