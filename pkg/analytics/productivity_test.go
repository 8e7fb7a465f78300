package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier-hq/workplane/dao/model"
	"github.com/atelier-hq/workplane/pkg/domain"
)

func TestComputeProductivity(t *testing.T) {
	ctx := context.Background()
	now := day(100)
	agg, _, tasks, users, _ := newTestAggregator()

	users.add(1, "ana")
	users.add(2, "bo")
	users.add(3, "idle")

	// ana: 4 of 5 assigned tasks completed inside the 7d window.
	for i := 0; i < 4; i++ {
		tasks.addUserTask(1, 1, model.TaskCompleted, now.AddDate(0, 0, -2))
	}
	tasks.addUserTask(1, 1, model.TaskInProgress, now.AddDate(0, 0, -1))

	// bo: 1 completed in window, 3 in the previous window, 4 assigned.
	tasks.addUserTask(1, 2, model.TaskCompleted, now.AddDate(0, 0, -3))
	for i := 0; i < 3; i++ {
		tasks.addUserTask(1, 2, model.TaskCompleted, now.AddDate(0, 0, -10))
	}

	result, err := agg.ComputeProductivity(ctx, 1, PeriodWeek, nil, now)
	require.NoError(t, err)
	require.Len(t, result, 3)

	// Sorted by score descending: the score uses the windowed completed
	// count over the all-time assigned count.
	assert.Equal(t, "ana", result[0].Name)
	assert.Equal(t, 80, result[0].ProductivityScore) // 4 of 5
	assert.Equal(t, 4, result[0].TasksCompleted)
	assert.Equal(t, 1, result[0].TasksInProgress)
	assert.Equal(t, TrendUp, result[0].Trend) // 4 now vs 0 before

	assert.Equal(t, "bo", result[1].Name)
	assert.Equal(t, 25, result[1].ProductivityScore) // 1 of 4
	assert.Equal(t, 1, result[1].TasksCompleted)
	assert.Equal(t, TrendDown, result[1].Trend) // 1 now vs 3 before

	// Zero assignments: score 0, no division by zero, stable trend.
	assert.Equal(t, "idle", result[2].Name)
	assert.Equal(t, 0, result[2].ProductivityScore)
	assert.Equal(t, TrendStable, result[2].Trend)
}

func TestComputeProductivityTrendThreshold(t *testing.T) {
	ctx := context.Background()
	now := day(100)
	agg, _, tasks, users, _ := newTestAggregator()
	users.add(1, "ana")

	// One-task swing is noise: 1 completed now, 0 before.
	tasks.addUserTask(1, 1, model.TaskCompleted, now.AddDate(0, 0, -1))

	result, err := agg.ComputeProductivity(ctx, 1, PeriodWeek, nil, now)
	require.NoError(t, err)
	assert.Equal(t, TrendStable, result[0].Trend)
}

func TestComputeProductivityProjectScope(t *testing.T) {
	ctx := context.Background()
	now := day(100)
	agg, _, tasks, users, _ := newTestAggregator()
	users.add(1, "ana")

	tasks.addUserTask(1, 1, model.TaskCompleted, now.AddDate(0, 0, -1))
	tasks.addUserTask(2, 1, model.TaskCompleted, now.AddDate(0, 0, -1))

	projectID := uint(1)
	result, err := agg.ComputeProductivity(ctx, 1, PeriodWeek, &projectID, now)
	require.NoError(t, err)
	assert.Equal(t, 1, result[0].TasksCompleted)
	assert.Equal(t, 1, result[0].TotalAssigned)
}

func TestComputeProductivityBadPeriod(t *testing.T) {
	agg, _, _, _, _ := newTestAggregator()
	_, err := agg.ComputeProductivity(context.Background(), 1, Period("14d"), nil, time.Now())
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestComputeTeamAnalytics(t *testing.T) {
	ctx := context.Background()
	now := day(100)
	agg, _, tasks, users, projects := newTestAggregator()
	projects.count = 2
	users.add(1, "ana")
	users.add(2, "bo")

	// 6 tasks all-time, 3 completed; all 3 completions in the window.
	for i := 0; i < 3; i++ {
		tasks.addUserTask(1, 1, model.TaskCompleted, now.AddDate(0, 0, -2))
	}
	for i := 0; i < 3; i++ {
		tasks.addUserTask(1, 2, model.TaskPending, now.AddDate(0, 0, -40))
	}

	team, err := agg.ComputeTeamAnalytics(ctx, 1, PeriodMonth, now)
	require.NoError(t, err)
	assert.Equal(t, 2, team.TotalUsers)
	assert.Equal(t, 2, team.TotalProjects)
	assert.Equal(t, 6, team.TotalTasks)
	assert.Equal(t, 3, team.CompletedInPeriod)
	assert.Equal(t, 50, team.CompletionRate)
	assert.Equal(t, 3, team.AverageTasksPerUser)
	// 3 now vs 0 before exceeds the +-2 team threshold.
	assert.Equal(t, TrendUp, team.ProductivityTrend)
}

func TestComputeTeamAnalyticsEmptyOrg(t *testing.T) {
	agg, _, _, _, _ := newTestAggregator()
	team, err := agg.ComputeTeamAnalytics(context.Background(), 1, PeriodWeek, day(10))
	require.NoError(t, err)
	assert.Equal(t, 0, team.CompletionRate)
	assert.Equal(t, 0, team.AverageTasksPerUser)
	assert.Equal(t, TrendStable, team.ProductivityTrend)
}
