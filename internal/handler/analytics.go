package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/atelier-hq/workplane/internal/resputil"
	"github.com/atelier-hq/workplane/internal/util"
	"github.com/atelier-hq/workplane/pkg/access"
	"github.com/atelier-hq/workplane/pkg/analytics"
	sprintdb "github.com/atelier-hq/workplane/pkg/db/sprint"
	"github.com/atelier-hq/workplane/pkg/domain"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewAnalyticsMgr)
}

type AnalyticsMgr struct {
	name       string
	resolver   *access.Resolver
	aggregator *analytics.Aggregator
	sprints    sprintdb.DBService
}

func NewAnalyticsMgr(conf *RegisterConfig) Manager {
	return &AnalyticsMgr{
		name:       "analytics",
		resolver:   conf.Resolver,
		aggregator: conf.Aggregator,
		sprints:    conf.Sprints,
	}
}

func (mgr *AnalyticsMgr) GetName() string { return mgr.name }

func (mgr *AnalyticsMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *AnalyticsMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("/sprints/:id/burndown", mgr.SprintBurndown)
	g.GET("/projects/:id/burndown", mgr.ActiveBurndown)
	g.GET("/projects/:id/velocity", mgr.Velocity)
	g.GET("/productivity", mgr.Productivity)
	g.GET("/team", mgr.Team)
}

func (mgr *AnalyticsMgr) RegisterAdmin(_ *gin.RouterGroup) {}

// parsePeriod maps the query parameter to a period, defaulting to 30d.
func parsePeriod(c *gin.Context) (analytics.Period, bool) {
	p := analytics.Period(c.DefaultQuery("period", string(analytics.PeriodMonth)))
	if _, err := p.Duration(); err != nil {
		resputil.BadRequestError(c, "Invalid period")
		return "", false
	}
	return p, true
}

// SprintBurndown godoc
//
//	@Summary		Sprint burndown chart
//	@Description	Daily ideal vs real remaining; stored snapshots win over the synthesized series
//	@Tags			Analytics
//	@Produce		json
//	@Security		Bearer
//	@Param			id	path		int	true	"sprint id"
//	@Success		200	{object}	resputil.Response[[]analytics.BurndownPoint]	"series"
//	@Router			/v1/analytics/sprints/{id}/burndown [get]
func (mgr *AnalyticsMgr) SprintBurndown(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	sprint, err := mgr.sprints.GetByID(c, id)
	if err != nil {
		resputil.DomainError(c, domain.ErrNotFound, "Sprint not found")
		return
	}
	caller := util.GetToken(c).Identity()
	if _, err := mgr.resolver.ResolveProjectAccess(c, caller, sprint.ProjectID); err != nil {
		resputil.DomainError(c, err, "Sprint not found")
		return
	}
	points, err := mgr.aggregator.ComputeBurndown(c, id, time.Now().UTC())
	if err != nil {
		resputil.DomainError(c, err, "Cannot compute burndown")
		return
	}
	resputil.Success(c, points)
}

// ActiveBurndown godoc
//
//	@Summary		Active sprint burndown
//	@Description	Burndown of the project's single ACTIVE sprint
//	@Tags			Analytics
//	@Produce		json
//	@Security		Bearer
//	@Param			id	path		int	true	"project id"
//	@Success		200	{object}	resputil.Response[[]analytics.BurndownPoint]	"series"
//	@Router			/v1/analytics/projects/{id}/burndown [get]
func (mgr *AnalyticsMgr) ActiveBurndown(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	caller := util.GetToken(c).Identity()
	if _, err := mgr.resolver.ResolveProjectAccess(c, caller, id); err != nil {
		resputil.DomainError(c, err, "Project not found")
		return
	}
	points, err := mgr.aggregator.ComputeActiveBurndown(c, id, time.Now().UTC())
	if err != nil {
		resputil.DomainError(c, err, "Cannot compute burndown")
		return
	}
	resputil.Success(c, points)
}

// Velocity godoc
//
//	@Summary		Project velocity
//	@Description	Planned vs completed task counts of recent sprints, oldest first
//	@Tags			Analytics
//	@Produce		json
//	@Security		Bearer
//	@Param			id		path		int	true	"project id"
//	@Param			limit	query		int	false	"sprint count"	default(6)
//	@Success		200		{object}	resputil.Response[[]analytics.VelocityPoint]	"series"
//	@Router			/v1/analytics/projects/{id}/velocity [get]
func (mgr *AnalyticsMgr) Velocity(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	caller := util.GetToken(c).Identity()
	if _, err := mgr.resolver.ResolveProjectAccess(c, caller, id); err != nil {
		resputil.DomainError(c, err, "Project not found")
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, ok := parseIDQuery(c, "limit")
		if !ok {
			return
		}
		limit = int(n)
	}
	points, err := mgr.aggregator.ComputeVelocity(c, id, limit)
	if err != nil {
		resputil.DomainError(c, err, "Cannot compute velocity")
		return
	}
	resputil.Success(c, points)
}

// Productivity godoc
//
//	@Summary		Per-user productivity
//	@Description	Windowed completion stats for every organization user, optionally scoped to a project
//	@Tags			Analytics
//	@Produce		json
//	@Security		Bearer
//	@Param			period		query		string	false	"7d, 30d or 90d"	default(30d)
//	@Param			projectId	query		int		false	"scope to a project"
//	@Success		200			{object}	resputil.Response[[]analytics.UserProductivity]	"per-user stats, best first"
//	@Router			/v1/analytics/productivity [get]
func (mgr *AnalyticsMgr) Productivity(c *gin.Context) {
	period, ok := parsePeriod(c)
	if !ok {
		return
	}
	caller := util.GetToken(c).Identity()
	var projectID *uint
	if raw := c.Query("projectId"); raw != "" {
		id, ok := parseIDQuery(c, "projectId")
		if !ok {
			return
		}
		if _, err := mgr.resolver.ResolveProjectAccess(c, caller, id); err != nil {
			resputil.DomainError(c, err, "Project not found")
			return
		}
		projectID = &id
	}
	stats, err := mgr.aggregator.ComputeProductivity(c, caller.OrganizationID, period, projectID, time.Now().UTC())
	if err != nil {
		resputil.DomainError(c, err, "Cannot compute productivity")
		return
	}
	resputil.Success(c, stats)
}

// Team godoc
//
//	@Summary		Organization rollup
//	@Description	Org-wide totals, completion rate and windowed trend
//	@Tags			Analytics
//	@Produce		json
//	@Security		Bearer
//	@Param			period	query		string	false	"7d, 30d or 90d"	default(30d)
//	@Success		200		{object}	resputil.Response[analytics.TeamAnalytics]	"rollup"
//	@Router			/v1/analytics/team [get]
func (mgr *AnalyticsMgr) Team(c *gin.Context) {
	period, ok := parsePeriod(c)
	if !ok {
		return
	}
	caller := util.GetToken(c).Identity()
	rollup, err := mgr.aggregator.ComputeTeamAnalytics(c, caller.OrganizationID, period, time.Now().UTC())
	if err != nil {
		resputil.DomainError(c, err, "Cannot compute team analytics")
		return
	}
	resputil.Success(c, rollup)
}
