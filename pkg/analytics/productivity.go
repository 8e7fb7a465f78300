package analytics

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

// UserProductivity is one organization member's productivity summary.
type UserProductivity struct {
	UserID            uint   `json:"userId"`
	Name              string `json:"name"`
	TasksCompleted    int    `json:"tasksCompleted"`  // completed inside the window
	TasksInProgress   int    `json:"tasksInProgress"` // current, unwindowed
	TotalAssigned     int    `json:"totalAssigned"`   // all-time
	ProductivityScore int    `json:"productivityScore"`
	Trend             string `json:"trend"`
}

// productivityTrendThreshold treats a one-task swing as noise.
const productivityTrendThreshold = 1

// ComputeProductivity aggregates every organization user's completion
// stats over the trailing window, optionally scoped to one project.
// Per-user reads are independent and fanned out concurrently; the final
// ordering (score descending, user id ascending on ties) is
// deterministic regardless of completion order.
func (a *Aggregator) ComputeProductivity(
	ctx context.Context, orgID uint, period Period, projectID *uint, now time.Time,
) ([]UserProductivity, error) {
	window, err := period.Duration()
	if err != nil {
		return nil, err
	}
	start := now.Add(-window)
	// The previous period is the equal-length window immediately before
	// start, not a calendar period.
	previousStart := start.Add(-now.Sub(start))

	users, err := a.users.ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}

	results := make([]UserProductivity, len(users))
	g, gctx := errgroup.WithContext(ctx)
	for i := range users {
		g.Go(func() error {
			u := &users[i]

			completed, err := a.tasks.CountCompletedForUserBetween(gctx, u.ID, projectID, start, now)
			if err != nil {
				return err
			}
			previous, err := a.tasks.CountCompletedForUserBetween(gctx, u.ID, projectID, previousStart, start)
			if err != nil {
				return err
			}
			inProgress, err := a.tasks.CountInProgressForUser(gctx, u.ID, projectID)
			if err != nil {
				return err
			}
			assigned, err := a.tasks.CountAssignedToUser(gctx, u.ID, projectID)
			if err != nil {
				return err
			}

			results[i] = UserProductivity{
				UserID:            u.ID,
				Name:              u.Name,
				TasksCompleted:    int(completed),
				TasksInProgress:   int(inProgress),
				TotalAssigned:     int(assigned),
				ProductivityScore: percent(completed, assigned),
				Trend:             trendOf(completed, previous, productivityTrendThreshold),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].ProductivityScore != results[j].ProductivityScore {
			return results[i].ProductivityScore > results[j].ProductivityScore
		}
		return results[i].UserID < results[j].UserID
	})
	return results, nil
}
