package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/atelier-hq/workplane/dao/model"
	"github.com/atelier-hq/workplane/internal/resputil"
	"github.com/atelier-hq/workplane/internal/util"
	"github.com/atelier-hq/workplane/pkg/access"
	"github.com/atelier-hq/workplane/pkg/alert"
	"github.com/atelier-hq/workplane/pkg/cronjob"
	projectdb "github.com/atelier-hq/workplane/pkg/db/project"
	sprintdb "github.com/atelier-hq/workplane/pkg/db/sprint"
	taskdb "github.com/atelier-hq/workplane/pkg/db/task"
	userdb "github.com/atelier-hq/workplane/pkg/db/user"
	"github.com/atelier-hq/workplane/pkg/domain"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewSprintMgr)
}

type SprintMgr struct {
	name     string
	resolver *access.Resolver
	alerter  alert.AlertInterface
	sprints  sprintdb.DBService
	tasks    taskdb.DBService
	users    userdb.DBService
	projects projectdb.DBService
}

func NewSprintMgr(conf *RegisterConfig) Manager {
	return &SprintMgr{
		name:     "sprints",
		resolver: conf.Resolver,
		alerter:  conf.Alerter,
		sprints:  conf.Sprints,
		tasks:    conf.Tasks,
		users:    conf.Users,
		projects: conf.Projects,
	}
}

func (mgr *SprintMgr) GetName() string { return mgr.name }

func (mgr *SprintMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *SprintMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("", mgr.ListSprints)
	g.POST("", mgr.CreateSprint)
	g.GET(":id", mgr.GetSprint)
	g.PUT(":id", mgr.UpdateSprint)
	g.DELETE(":id", mgr.DeleteSprint)
	g.POST(":id/start", mgr.StartSprint)
	g.POST(":id/complete", mgr.CompleteSprint)
	g.POST(":id/snapshot", mgr.SnapshotMetrics)
	g.GET(":id/tasks", mgr.ListSprintTasks)
}

func (mgr *SprintMgr) RegisterAdmin(_ *gin.RouterGroup) {}

type (
	SprintCreateReq struct {
		ProjectID uint       `json:"projectId" binding:"required"`
		Name      string     `json:"name" binding:"required"`
		StartDate *time.Time `json:"startDate"`
		EndDate   *time.Time `json:"endDate"`
	}

	SprintUpdateReq struct {
		Name      *string    `json:"name"`
		StartDate *time.Time `json:"startDate"`
		EndDate   *time.Time `json:"endDate"`
	}

	SprintResp struct {
		ID        uint               `json:"id"`
		ProjectID uint               `json:"projectId"`
		Name      string             `json:"name"`
		Status    model.SprintStatus `json:"status"`
		StartDate *time.Time         `json:"startDate"`
		EndDate   *time.Time         `json:"endDate"`
	}
)

func sprintResp(s *model.Sprint) SprintResp {
	return SprintResp{
		ID:        s.ID,
		ProjectID: s.ProjectID,
		Name:      s.Name,
		Status:    s.Status,
		StartDate: s.StartDate,
		EndDate:   s.EndDate,
	}
}

// resolveSprint loads a sprint and checks project access for the caller.
func (mgr *SprintMgr) resolveSprint(
	c *gin.Context, id uint, edit bool,
) (*model.Sprint, error) {
	sprint, err := mgr.sprints.GetByID(c, id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	caller := util.GetToken(c).Identity()
	if edit {
		_, err = mgr.resolver.ResolveProjectEditAccess(c, caller, sprint.ProjectID)
	} else {
		_, err = mgr.resolver.ResolveProjectAccess(c, caller, sprint.ProjectID)
	}
	if err != nil {
		return nil, err
	}
	return sprint, nil
}

// ListSprints godoc
//
//	@Summary	List project sprints
//	@Tags		Sprint
//	@Produce	json
//	@Security	Bearer
//	@Param		projectId	query		int	true	"project id"
//	@Success	200			{object}	resputil.Response[[]SprintResp]	"sprints"
//	@Router		/v1/sprints [get]
func (mgr *SprintMgr) ListSprints(c *gin.Context) {
	projectID, ok := parseIDQuery(c, "projectId")
	if !ok {
		return
	}
	caller := util.GetToken(c).Identity()
	if _, err := mgr.resolver.ResolveProjectAccess(c, caller, projectID); err != nil {
		resputil.DomainError(c, err, "Project not found")
		return
	}
	sprints, err := mgr.sprints.ListByProject(c, projectID)
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, lo.Map(sprints, func(s model.Sprint, _ int) SprintResp { return sprintResp(&s) }))
}

// CreateSprint godoc
//
//	@Summary		Create a sprint
//	@Description	New sprints start in PLANNING
//	@Tags			Sprint
//	@Accept			json
//	@Produce		json
//	@Security		Bearer
//	@Param			data	body		SprintCreateReq	true	"sprint data"
//	@Success		200		{object}	resputil.Response[SprintResp]	"created sprint"
//	@Router			/v1/sprints [post]
func (mgr *SprintMgr) CreateSprint(c *gin.Context) {
	var req SprintCreateReq
	if err := c.ShouldBind(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if req.StartDate != nil && req.EndDate != nil && !req.EndDate.After(*req.StartDate) {
		resputil.BadRequestError(c, "End date must be after start date")
		return
	}
	caller := util.GetToken(c).Identity()
	if _, err := mgr.resolver.ResolveProjectEditAccess(c, caller, req.ProjectID); err != nil {
		resputil.DomainError(c, err, "Cannot create sprint")
		return
	}
	sprint := &model.Sprint{
		ProjectID: req.ProjectID,
		Name:      req.Name,
		Status:    model.SprintPlanning,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	if err := mgr.sprints.Create(c, sprint); err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, sprintResp(sprint))
}

// GetSprint godoc
//
//	@Summary	Get a sprint
//	@Tags		Sprint
//	@Produce	json
//	@Security	Bearer
//	@Param		id	path		int	true	"sprint id"
//	@Success	200	{object}	resputil.Response[SprintResp]	"sprint"
//	@Router		/v1/sprints/{id} [get]
func (mgr *SprintMgr) GetSprint(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	sprint, err := mgr.resolveSprint(c, id, false)
	if err != nil {
		resputil.DomainError(c, err, "Sprint not found")
		return
	}
	resputil.Success(c, sprintResp(sprint))
}

// UpdateSprint godoc
//
//	@Summary	Update a sprint
//	@Tags		Sprint
//	@Accept		json
//	@Produce	json
//	@Security	Bearer
//	@Param		id		path		int				true	"sprint id"
//	@Param		data	body		SprintUpdateReq	true	"fields to change"
//	@Success	200		{object}	resputil.Response[SprintResp]	"updated sprint"
//	@Router		/v1/sprints/{id} [put]
func (mgr *SprintMgr) UpdateSprint(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req SprintUpdateReq
	if err := c.ShouldBind(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	sprint, err := mgr.resolveSprint(c, id, true)
	if err != nil {
		resputil.DomainError(c, err, "Cannot edit sprint")
		return
	}
	if req.Name != nil {
		sprint.Name = *req.Name
	}
	if req.StartDate != nil {
		sprint.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		sprint.EndDate = req.EndDate
	}
	if sprint.StartDate != nil && sprint.EndDate != nil && !sprint.EndDate.After(*sprint.StartDate) {
		resputil.BadRequestError(c, "End date must be after start date")
		return
	}
	if err := mgr.sprints.Update(c, sprint); err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, sprintResp(sprint))
}

// DeleteSprint godoc
//
//	@Summary		Delete a sprint
//	@Description	Tasks are detached, not deleted
//	@Tags			Sprint
//	@Produce		json
//	@Security		Bearer
//	@Param			id	path		int	true	"sprint id"
//	@Success	200	{object}	resputil.Response[string]	"deleted"
//	@Router		/v1/sprints/{id} [delete]
func (mgr *SprintMgr) DeleteSprint(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, err := mgr.resolveSprint(c, id, true); err != nil {
		resputil.DomainError(c, err, "Cannot delete sprint")
		return
	}
	if err := mgr.sprints.Delete(c, id); err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, "deleted")
}

// StartSprint godoc
//
//	@Summary		Start a sprint
//	@Description	PLANNING → ACTIVE; dates are required and only one sprint per project may be active
//	@Tags			Sprint
//	@Produce		json
//	@Security		Bearer
//	@Param			id	path		int	true	"sprint id"
//	@Success		200	{object}	resputil.Response[SprintResp]	"started sprint"
//	@Router			/v1/sprints/{id}/start [post]
func (mgr *SprintMgr) StartSprint(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	sprint, err := mgr.resolveSprint(c, id, true)
	if err != nil {
		resputil.DomainError(c, err, "Cannot start sprint")
		return
	}
	if sprint.Status != model.SprintPlanning {
		resputil.BadRequestError(c, "Only a planning sprint can be started")
		return
	}
	if sprint.StartDate == nil || sprint.EndDate == nil {
		resputil.BadRequestError(c, "Start and end dates are required to start a sprint")
		return
	}
	if active, aerr := mgr.sprints.GetActiveForProject(c, sprint.ProjectID); aerr == nil && active.ID != sprint.ID {
		resputil.BadRequestError(c, "Another sprint is already active in this project")
		return
	}
	sprint.Status = model.SprintActive
	if err := mgr.sprints.Update(c, sprint); err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, sprintResp(sprint))
}

// CompleteSprint godoc
//
//	@Summary		Complete a sprint
//	@Description	ACTIVE → COMPLETED; project members are notified
//	@Tags			Sprint
//	@Produce		json
//	@Security		Bearer
//	@Param			id	path		int	true	"sprint id"
//	@Success		200	{object}	resputil.Response[SprintResp]	"completed sprint"
//	@Router			/v1/sprints/{id}/complete [post]
func (mgr *SprintMgr) CompleteSprint(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	sprint, err := mgr.resolveSprint(c, id, true)
	if err != nil {
		resputil.DomainError(c, err, "Cannot complete sprint")
		return
	}
	if sprint.Status != model.SprintActive {
		resputil.BadRequestError(c, "Only an active sprint can be completed")
		return
	}
	sprint.Status = model.SprintCompleted
	if err := mgr.sprints.Update(c, sprint); err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	mgr.notifyCompleted(c, sprint)
	resputil.Success(c, sprintResp(sprint))
}

func (mgr *SprintMgr) notifyCompleted(c *gin.Context, sprint *model.Sprint) {
	rows, err := mgr.projects.ListMembers(c, sprint.ProjectID)
	if err != nil {
		return
	}
	recipients := make([]model.User, 0, len(rows))
	for _, row := range rows {
		if u, uerr := mgr.users.GetByID(c, row.UserID); uerr == nil {
			recipients = append(recipients, *u)
		}
	}
	mgr.alerter.SprintCompleted(c, sprint, recipients)
}

// SnapshotMetrics godoc
//
//	@Summary		Snapshot burndown metrics
//	@Description	Writes today's SprintMetric row for the sprint; idempotent per day
//	@Tags			Sprint
//	@Produce		json
//	@Security		Bearer
//	@Param			id	path		int	true	"sprint id"
//	@Success		200	{object}	resputil.Response[string]	"snapshotted"
//	@Router			/v1/sprints/{id}/snapshot [post]
func (mgr *SprintMgr) SnapshotMetrics(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	sprint, err := mgr.resolveSprint(c, id, true)
	if err != nil {
		resputil.DomainError(c, err, "Cannot snapshot sprint")
		return
	}
	if sprint.Status != model.SprintActive {
		resputil.BadRequestError(c, "Only an active sprint can be snapshotted")
		return
	}
	if sprint.StartDate == nil || sprint.EndDate == nil {
		resputil.BadRequestError(c, "Sprint has no date range")
		return
	}
	total, err := mgr.tasks.CountBySprint(c, id)
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	completed, err := mgr.tasks.CountCompletedBySprint(c, id)
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	now := time.Now().UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	metric := &model.SprintMetric{
		SprintID:       id,
		Date:           day,
		IdealRemaining: cronjob.IdealRemaining(total, *sprint.StartDate, *sprint.EndDate, day),
		RemainingTasks: int(total - completed),
	}
	if err := mgr.sprints.UpsertMetric(c, metric); err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, "snapshotted")
}

// ListSprintTasks godoc
//
//	@Summary	List sprint tasks
//	@Tags		Sprint
//	@Produce	json
//	@Security	Bearer
//	@Param		id	path		int	true	"sprint id"
//	@Success	200	{object}	resputil.Response[[]TaskResp]	"tasks"
//	@Router		/v1/sprints/{id}/tasks [get]
func (mgr *SprintMgr) ListSprintTasks(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, err := mgr.resolveSprint(c, id, false); err != nil {
		resputil.DomainError(c, err, "Sprint not found")
		return
	}
	tasks, err := mgr.tasks.ListBySprint(c, id)
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, lo.Map(tasks, func(t model.Task, _ int) TaskResp { return taskResp(&t) }))
}
