package analytics

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/atelier-hq/workplane/dao/model"
	"github.com/atelier-hq/workplane/pkg/domain"
)

// BurndownPoint is one day of the burndown series.
type BurndownPoint struct {
	Day   string `json:"day"` // YYYY-MM-DD
	Ideal int    `json:"ideal"`
	Real  int    `json:"real"`
}

const dayLayout = "2006-01-02"

// ComputeBurndown returns the burndown series for a sprint. Precomputed
// SprintMetric snapshots are authoritative once they exist; otherwise
// the series is synthesized from the sprint's current task state, with
// updated_at standing in for the completion date.
func (a *Aggregator) ComputeBurndown(ctx context.Context, sprintID uint, today time.Time) ([]BurndownPoint, error) {
	sprint, err := a.sprints.GetWithMetrics(ctx, sprintID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("sprint %d: %w", sprintID, domain.ErrNotFound)
		}
		return nil, err
	}

	if len(sprint.Metrics) > 0 {
		series := make([]BurndownPoint, len(sprint.Metrics))
		for i := range sprint.Metrics {
			m := &sprint.Metrics[i]
			series[i] = BurndownPoint{
				Day:   m.Date.Format(dayLayout),
				Ideal: m.IdealRemaining,
				Real:  m.RemainingTasks,
			}
		}
		return series, nil
	}

	if sprint.StartDate == nil || sprint.EndDate == nil {
		return nil, fmt.Errorf("sprint %d has no metrics and no date range: %w",
			sprintID, domain.ErrBadRequest)
	}
	return a.synthesizeBurndown(ctx, sprint, today)
}

// ComputeActiveBurndown resolves the project's active sprint and
// computes its burndown. NotFound when no sprint is active.
func (a *Aggregator) ComputeActiveBurndown(ctx context.Context, projectID uint, today time.Time) ([]BurndownPoint, error) {
	sprint, err := a.sprints.GetActiveForProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("project %d has no active sprint: %w", projectID, domain.ErrNotFound)
		}
		return nil, err
	}
	return a.ComputeBurndown(ctx, sprint.ID, today)
}

func (a *Aggregator) synthesizeBurndown(ctx context.Context, sprint *model.Sprint, today time.Time) ([]BurndownPoint, error) {
	start, end := *sprint.StartDate, *sprint.EndDate
	totalDays := int(math.Ceil(end.Sub(start).Hours() / 24))
	if totalDays < 1 {
		totalDays = 1
	}

	total, err := a.tasks.CountBySprint(ctx, sprint.ID)
	if err != nil {
		return nil, err
	}

	daysPassed := int(today.Sub(start).Hours() / 24)
	if daysPassed < 0 {
		daysPassed = 0
	}
	lastDay := daysPassed
	if lastDay > totalDays {
		lastDay = totalDays
	}

	series := make([]BurndownPoint, 0, lastDay+1)
	for i := 0; i <= lastDay; i++ {
		date := start.AddDate(0, 0, i)
		completed, err := a.tasks.CountCompletedBySprintAsOf(ctx, sprint.ID, date)
		if err != nil {
			return nil, err
		}

		ideal := int(total) - int(math.Round(float64(total)/float64(totalDays)*float64(i)))
		if ideal < 0 {
			ideal = 0
		}
		real := int(total - completed)
		if real < 0 {
			real = 0
		}
		series = append(series, BurndownPoint{
			Day:   date.Format(dayLayout),
			Ideal: ideal,
			Real:  real,
		})
	}
	return series, nil
}
