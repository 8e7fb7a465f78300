// Package cronjob runs the scheduled maintenance jobs. The only job at
// the moment is the nightly burndown snapshot, which freezes the
// remaining-task counts of every active sprint into SprintMetric rows
// so the burndown endpoint stops depending on live task state.
package cronjob

import (
	"context"
	"math"
	"time"

	"github.com/robfig/cron/v3"
	"k8s.io/klog/v2"

	"github.com/atelier-hq/workplane/dao/model"
	sprintdb "github.com/atelier-hq/workplane/pkg/db/sprint"
	taskdb "github.com/atelier-hq/workplane/pkg/db/task"
)

type Manager struct {
	cron    *cron.Cron
	sprints sprintdb.DBService
	tasks   taskdb.DBService
}

func NewManager(sprints sprintdb.DBService, tasks taskdb.DBService) *Manager {
	return &Manager{
		cron:    cron.New(),
		sprints: sprints,
		tasks:   tasks,
	}
}

// Start registers the sprint snapshot job and starts the scheduler.
func (m *Manager) Start(spec string) error {
	if _, err := m.cron.AddFunc(spec, m.snapshotAll); err != nil {
		return err
	}
	m.cron.Start()
	klog.Infof("cron started, sprint snapshot spec %q", spec)
	return nil
}

func (m *Manager) Stop() {
	m.cron.Stop()
}

func (m *Manager) snapshotAll() {
	ctx := context.Background()
	if err := m.SnapshotSprintMetrics(ctx, time.Now()); err != nil {
		klog.Error("sprint snapshot run failed: ", err)
	}
}

// SnapshotSprintMetrics upserts today's burndown point for every active
// sprint that has a date range. Re-running on the same day overwrites
// the same row, so the job is idempotent per day.
func (m *Manager) SnapshotSprintMetrics(ctx context.Context, now time.Time) error {
	sprints, err := m.sprints.ListAllActive(ctx)
	if err != nil {
		return err
	}

	day := now.Truncate(24 * time.Hour)
	for i := range sprints {
		s := &sprints[i]
		if s.StartDate == nil || s.EndDate == nil {
			continue
		}

		total, err := m.tasks.CountBySprint(ctx, s.ID)
		if err != nil {
			klog.Errorf("sprint %d: count tasks: %v", s.ID, err)
			continue
		}
		completed, err := m.tasks.CountCompletedBySprint(ctx, s.ID)
		if err != nil {
			klog.Errorf("sprint %d: count completed: %v", s.ID, err)
			continue
		}

		metric := &model.SprintMetric{
			SprintID:       s.ID,
			Date:           day,
			IdealRemaining: IdealRemaining(total, *s.StartDate, *s.EndDate, day),
			RemainingTasks: int(total - completed),
		}
		if err := m.sprints.UpsertMetric(ctx, metric); err != nil {
			klog.Errorf("sprint %d: upsert metric: %v", s.ID, err)
		}
	}
	return nil
}

// IdealRemaining is the linear ideal burn for the given day: the full
// task count at the start, zero at the end, never negative.
func IdealRemaining(total int64, start, end, day time.Time) int {
	totalDays := int(math.Ceil(end.Sub(start).Hours() / 24))
	if totalDays < 1 {
		totalDays = 1
	}
	elapsed := int(day.Sub(start).Hours() / 24)
	if elapsed < 0 {
		elapsed = 0
	}

	ideal := int(total) - int(math.Round(float64(total)/float64(totalDays)*float64(elapsed)))
	if ideal < 0 {
		ideal = 0
	}
	return ideal
}
