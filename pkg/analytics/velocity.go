package analytics

import (
	"context"
	"time"
)

// VelocityPoint is planned versus completed task counts for one sprint.
// JSON keys keep the legacy dashboard contract.
type VelocityPoint struct {
	SprintID  uint       `json:"sprintId"`
	Sprint    string     `json:"sprint"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	Planned   int        `json:"planificadas"`
	Completed int        `json:"completadas"`
}

// ComputeVelocity returns up to limit recent sprints (active or
// completed) in chronological order. Only tasks currently in the sprint
// are counted: a task moved out after planning is invisible here.
func (a *Aggregator) ComputeVelocity(ctx context.Context, projectID uint, limit int) ([]VelocityPoint, error) {
	if limit <= 0 {
		limit = 6
	}
	sprints, err := a.sprints.ListRecentFinished(ctx, projectID, limit)
	if err != nil {
		return nil, err
	}

	// ListRecentFinished is newest-first; charts want oldest-first.
	series := make([]VelocityPoint, len(sprints))
	for i := range sprints {
		s := &sprints[i]
		planned, err := a.tasks.CountBySprint(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		completed, err := a.tasks.CountCompletedBySprint(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		series[len(sprints)-1-i] = VelocityPoint{
			SprintID:  s.ID,
			Sprint:    s.Name,
			EndDate:   s.EndDate,
			Planned:   int(planned),
			Completed: int(completed),
		}
	}
	return series, nil
}
