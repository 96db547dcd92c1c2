package discovery

import (
	"context"
	"errors"
	"fmt"

	"github.com/pfrederiksen/matchday-index/internal/logger"
	"github.com/pfrederiksen/matchday-index/internal/matchday"
	"github.com/pfrederiksen/matchday-index/internal/page"
)

// Level names a navigation level in Skipped entries.
type Level string

const (
	LevelRegion   Level = "region"
	LevelDistrict Level = "district"
	LevelLeague   Level = "league"
	LevelSeason   Level = "season"
)

// Skipped describes a node that failed while Options.KeepGoing was set.
type Skipped struct {
	Level Level  `json:"level"`
	URL   string `json:"url"`
	Err   error  `json:"-"`
}

// Result is the outcome of a discovery run
type Result struct {
	Regions []string
	Table   *matchday.Table
	Skipped []Skipped
}

// Run walks every region depth-first and returns one record per discovered season.
// Without KeepGoing the first error aborts the run and no result is returned.
func (c *Crawler) Run(ctx context.Context, regions []string) (*Result, error) {
	res := &Result{
		Regions: regions,
		Table:   matchday.NewTable(),
	}

	for _, region := range regions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := c.runRegion(ctx, res, region); err != nil {
			return nil, err
		}
	}

	logger.SetGauge("table.rows", float64(res.Table.Len()))
	c.log.Info("Discovery finished", logger.Fields{
		"regions": len(regions),
		"rows":    res.Table.Len(),
		"skipped": len(res.Skipped),
	})

	return res, nil
}

func (c *Crawler) runRegion(ctx context.Context, res *Result, region string) error {
	log := c.log.With(logger.Fields{"region": region})

	path, districts, err := c.Districts(ctx, region)
	if err != nil {
		return c.skip(ctx, res, LevelRegion, c.RegionURL(region), err)
	}
	log.Info("Discovered districts", logger.Fields{"count": len(districts)})

	for _, districtURL := range districts {
		if err := c.runDistrict(ctx, res, path, districtURL, log); err != nil {
			return err
		}
	}
	return nil
}

func (c *Crawler) runDistrict(ctx context.Context, res *Result, parent Path, districtURL string, log *logger.Logger) error {
	path, leagues, err := c.Leagues(ctx, parent, districtURL)
	if err != nil {
		return c.skip(ctx, res, LevelDistrict, districtURL, err)
	}
	log = log.With(logger.Fields{"district": path.District})
	log.Debug("Discovered leagues", logger.Fields{"count": len(leagues), "url": districtURL})

	for _, leagueURL := range leagues {
		if err := c.runLeague(ctx, res, path, leagueURL, log); err != nil {
			return err
		}
	}
	return nil
}

func (c *Crawler) runLeague(ctx context.Context, res *Result, parent Path, leagueURL string, log *logger.Logger) error {
	path, seasons, err := c.Seasons(ctx, parent, leagueURL)
	if err != nil {
		return c.skip(ctx, res, LevelLeague, leagueURL, err)
	}
	log.Debug("Discovered seasons", logger.Fields{"league": path.League, "count": len(seasons)})

	for _, anchor := range seasons {
		rec, err := BuildRecord(path, anchor)
		if err == nil {
			if dup := res.Table.Append(rec); dup != nil {
				err = &DataQualityError{
					URL:    rec.MatchdayURL,
					ID:     rec.ID,
					Reason: "matchday id already used by another season",
					Err:    dup,
				}
			}
		}
		if err != nil {
			url := anchor.URL
			if url == "" {
				url = leagueURL
			}
			if err := c.skip(ctx, res, LevelSeason, url, err); err != nil {
				return err
			}
			continue
		}
		logger.IncrCounter("records.built")
	}
	return nil
}

// skip returns err unchanged unless the run keeps going, in which case the node is
// recorded and nil is returned. Cancellation always aborts.
func (c *Crawler) skip(ctx context.Context, res *Result, level Level, url string, err error) error {
	if !c.opts.KeepGoing || ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s %s: %w", level, url, err)
	}

	res.Skipped = append(res.Skipped, Skipped{Level: level, URL: url, Err: err})
	logger.IncrCounter("nodes.skipped")
	c.log.Warn("Skipping node", logger.Fields{
		"level": string(level),
		"url":   url,
		"kind":  Kind(err),
		"error": err.Error(),
	})
	return nil
}

// Kind classifies err as "fetch", "structural", "data_quality" or "other".
func Kind(err error) string {
	var fetchErr *page.FetchError
	var structErr *StructuralError
	var dataErr *DataQualityError

	switch {
	case errors.As(err, &fetchErr):
		return "fetch"
	case errors.As(err, &structErr):
		return "structural"
	case errors.As(err, &dataErr):
		return "data_quality"
	default:
		return "other"
	}
}
