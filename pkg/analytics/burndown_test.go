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

func day(n int) time.Time {
	return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func newTestAggregator() (*Aggregator, *fakeSprintDB, *fakeTaskDB, *fakeUserDB, *fakeProjectCountDB) {
	sprints := newFakeSprintDB()
	tasks := &fakeTaskDB{}
	users := &fakeUserDB{}
	projects := &fakeProjectCountDB{}
	return NewAggregator(sprints, tasks, users, projects), sprints, tasks, users, projects
}

func activeSprint(id uint, start, end time.Time) *model.Sprint {
	s := &model.Sprint{ProjectID: 1, Name: "sprint", Status: model.SprintActive,
		StartDate: &start, EndDate: &end}
	s.ID = id
	return s
}

func TestComputeBurndownSynthesized(t *testing.T) {
	ctx := context.Background()
	agg, sprints, tasks, _, _ := newTestAggregator()

	// Ten-day sprint with ten tasks, three of them completed by day 5.
	sprints.add(activeSprint(1, day(0), day(10)))
	for i := 0; i < 3; i++ {
		tasks.addSprintTask(1, model.TaskCompleted, day(3))
	}
	for i := 0; i < 7; i++ {
		tasks.addSprintTask(1, model.TaskPending, day(0))
	}

	series, err := agg.ComputeBurndown(ctx, 1, day(5))
	require.NoError(t, err)
	require.Len(t, series, 6) // days 0..5

	assert.Equal(t, 5, series[5].Ideal)
	assert.Equal(t, 7, series[5].Real)
	assert.Equal(t, day(5).Format("2006-01-02"), series[5].Day)

	// Ideal burn is linear from the full task count and never negative.
	assert.Equal(t, 10, series[0].Ideal)
	for i := 1; i < len(series); i++ {
		assert.LessOrEqual(t, series[i].Ideal, series[i-1].Ideal)
		assert.GreaterOrEqual(t, series[i].Ideal, 0)
		assert.GreaterOrEqual(t, series[i].Real, 0)
	}
}

func TestComputeBurndownIdempotent(t *testing.T) {
	ctx := context.Background()
	agg, sprints, tasks, _, _ := newTestAggregator()
	sprints.add(activeSprint(1, day(0), day(10)))
	tasks.addSprintTask(1, model.TaskCompleted, day(2))
	tasks.addSprintTask(1, model.TaskPending, day(0))

	first, err := agg.ComputeBurndown(ctx, 1, day(4))
	require.NoError(t, err)
	second, err := agg.ComputeBurndown(ctx, 1, day(4))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestComputeBurndownSnapshotsWin(t *testing.T) {
	ctx := context.Background()
	agg, sprints, tasks, _, _ := newTestAggregator()
	s := sprints.add(activeSprint(1, day(0), day(10)))
	s.Metrics = []model.SprintMetric{
		{SprintID: 1, Date: day(0), IdealRemaining: 4, RemainingTasks: 4},
		{SprintID: 1, Date: day(1), IdealRemaining: 2, RemainingTasks: 3},
	}
	// Task state would disagree with the snapshots; snapshots must win.
	tasks.addSprintTask(1, model.TaskPending, day(0))

	series, err := agg.ComputeBurndown(ctx, 1, day(5))
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, BurndownPoint{Day: day(1).Format("2006-01-02"), Ideal: 2, Real: 3}, series[1])
}

func TestComputeBurndownErrors(t *testing.T) {
	ctx := context.Background()
	agg, sprints, _, _, _ := newTestAggregator()

	t.Run("missing sprint", func(t *testing.T) {
		_, err := agg.ComputeBurndown(ctx, 9, day(1))
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("no metrics and no dates", func(t *testing.T) {
		s := &model.Sprint{ProjectID: 1, Name: "bare", Status: model.SprintPlanning}
		s.ID = 2
		sprints.add(s)
		_, err := agg.ComputeBurndown(ctx, 2, day(1))
		assert.ErrorIs(t, err, domain.ErrBadRequest)
	})
}

func TestComputeActiveBurndown(t *testing.T) {
	ctx := context.Background()
	agg, sprints, tasks, _, _ := newTestAggregator()

	_, err := agg.ComputeActiveBurndown(ctx, 1, day(1))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	sprints.add(activeSprint(3, day(0), day(5)))
	tasks.addSprintTask(3, model.TaskPending, day(0))
	series, err := agg.ComputeActiveBurndown(ctx, 1, day(1))
	require.NoError(t, err)
	assert.NotEmpty(t, series)
}
