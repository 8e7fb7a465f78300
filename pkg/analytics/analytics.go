// Package analytics derives burndown, velocity, productivity and team
// metrics from task and sprint state. Every computation is a
// deterministic read; the nightly sprint snapshots in pkg/cronjob are
// the only writes related to analytics.
package analytics

import (
	"fmt"
	"math"
	"time"

	projectdb "github.com/atelier-hq/workplane/pkg/db/project"
	sprintdb "github.com/atelier-hq/workplane/pkg/db/sprint"
	taskdb "github.com/atelier-hq/workplane/pkg/db/task"
	userdb "github.com/atelier-hq/workplane/pkg/db/user"
	"github.com/atelier-hq/workplane/pkg/domain"
)

// Period is a trailing analytics window.
type Period string

const (
	PeriodWeek    Period = "7d"
	PeriodMonth   Period = "30d"
	PeriodQuarter Period = "90d"
)

// Duration returns the window length, or ErrBadRequest for an unknown
// period.
func (p Period) Duration() (time.Duration, error) {
	switch p {
	case PeriodWeek:
		return 7 * 24 * time.Hour, nil
	case PeriodMonth:
		return 30 * 24 * time.Hour, nil
	case PeriodQuarter:
		return 90 * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("period %q: %w", p, domain.ErrBadRequest)
	}
}

// Trend labels for windowed comparisons.
const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
)

// trendOf compares the current window against the immediately preceding
// equal-length window. Swings within the threshold count as noise.
func trendOf(current, previous, threshold int64) string {
	diff := current - previous
	switch {
	case diff > threshold:
		return TrendUp
	case diff < -threshold:
		return TrendDown
	default:
		return TrendStable
	}
}

// percent is round(part/total*100), 0 when total is zero.
func percent(part, total int64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

type Aggregator struct {
	sprints  sprintdb.DBService
	tasks    taskdb.DBService
	users    userdb.DBService
	projects projectdb.DBService
}

func NewAggregator(
	sprints sprintdb.DBService,
	tasks taskdb.DBService,
	users userdb.DBService,
	projects projectdb.DBService,
) *Aggregator {
	return &Aggregator{sprints: sprints, tasks: tasks, users: users, projects: projects}
}
