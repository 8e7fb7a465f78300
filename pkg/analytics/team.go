package analytics

import (
	"context"
	"math"
	"time"
)

// TeamAnalytics is the organization-wide rollup.
type TeamAnalytics struct {
	TotalUsers          int    `json:"totalUsers"`
	TotalProjects       int    `json:"totalProjects"`
	TotalTasks          int    `json:"totalTasks"`
	CompletedInPeriod   int    `json:"completedTasksInPeriod"`
	CompletionRate      int    `json:"completionRate"`      // all-time completed / all-time total
	AverageTasksPerUser int    `json:"averageTasksPerUser"`
	ProductivityTrend   string `json:"productivityTrend"`
}

// teamTrendThreshold is looser than the per-user one; small org-wide
// swings are noise.
const teamTrendThreshold = 2

// ComputeTeamAnalytics aggregates all-time totals plus a windowed
// completion comparison for the whole organization.
func (a *Aggregator) ComputeTeamAnalytics(
	ctx context.Context, orgID uint, period Period, now time.Time,
) (*TeamAnalytics, error) {
	window, err := period.Duration()
	if err != nil {
		return nil, err
	}
	start := now.Add(-window)
	previousStart := start.Add(-now.Sub(start))

	totalUsers, err := a.users.CountByOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}
	totalProjects, err := a.projects.CountByOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}
	totalTasks, err := a.tasks.CountByOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}
	totalCompleted, err := a.tasks.CountCompletedByOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}
	completedInPeriod, err := a.tasks.CountCompletedByOrganizationBetween(ctx, orgID, start, now)
	if err != nil {
		return nil, err
	}
	completedPrevious, err := a.tasks.CountCompletedByOrganizationBetween(ctx, orgID, previousStart, start)
	if err != nil {
		return nil, err
	}

	averagePerUser := 0
	if totalUsers > 0 {
		averagePerUser = int(math.Round(float64(totalTasks) / float64(totalUsers)))
	}

	return &TeamAnalytics{
		TotalUsers:          int(totalUsers),
		TotalProjects:       int(totalProjects),
		TotalTasks:          int(totalTasks),
		CompletedInPeriod:   int(completedInPeriod),
		CompletionRate:      percent(totalCompleted, totalTasks),
		AverageTasksPerUser: averagePerUser,
		ProductivityTrend:   trendOf(completedInPeriod, completedPrevious, teamTrendThreshold),
	}, nil
}
