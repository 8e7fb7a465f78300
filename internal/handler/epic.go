package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/atelier-hq/workplane/dao/model"
	"github.com/atelier-hq/workplane/internal/resputil"
	"github.com/atelier-hq/workplane/internal/util"
	"github.com/atelier-hq/workplane/pkg/access"
	epicdb "github.com/atelier-hq/workplane/pkg/db/epic"
	"github.com/atelier-hq/workplane/pkg/domain"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewEpicMgr)
}

type EpicMgr struct {
	name     string
	resolver *access.Resolver
	epics    epicdb.DBService
}

func NewEpicMgr(conf *RegisterConfig) Manager {
	return &EpicMgr{
		name:     "epics",
		resolver: conf.Resolver,
		epics:    conf.Epics,
	}
}

func (mgr *EpicMgr) GetName() string { return mgr.name }

func (mgr *EpicMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *EpicMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("", mgr.ListEpics)
	g.POST("", mgr.CreateEpic)
	g.GET(":id", mgr.GetEpic)
	g.PUT(":id", mgr.UpdateEpic)
	g.DELETE(":id", mgr.DeleteEpic)
	g.GET(":id/progress", mgr.GetProgress)
}

func (mgr *EpicMgr) RegisterAdmin(_ *gin.RouterGroup) {}

type (
	EpicCreateReq struct {
		ProjectID   uint       `json:"projectId" binding:"required"`
		Name        string     `json:"name" binding:"required"`
		Description *string    `json:"description"`
		StartDate   *time.Time `json:"startDate"`
		EndDate     *time.Time `json:"endDate"`
	}

	EpicUpdateReq struct {
		Name        *string           `json:"name"`
		Description *string           `json:"description"`
		Status      *model.EpicStatus `json:"status"`
		StartDate   *time.Time        `json:"startDate"`
		EndDate     *time.Time        `json:"endDate"`
	}

	EpicResp struct {
		ID          uint             `json:"id"`
		ProjectID   uint             `json:"projectId"`
		Name        string           `json:"name"`
		Description *string          `json:"description"`
		Status      model.EpicStatus `json:"status"`
		StartDate   *time.Time       `json:"startDate"`
		EndDate     *time.Time       `json:"endDate"`
	}

	EpicProgressResp struct {
		TotalTasks     int64 `json:"totalTasks"`
		CompletedTasks int64 `json:"completedTasks"`
		Percent        int   `json:"percent"`
	}
)

func epicResp(e *model.Epic) EpicResp {
	return EpicResp{
		ID:          e.ID,
		ProjectID:   e.ProjectID,
		Name:        e.Name,
		Description: e.Description,
		Status:      e.Status,
		StartDate:   e.StartDate,
		EndDate:     e.EndDate,
	}
}

func (mgr *EpicMgr) resolveEpic(c *gin.Context, id uint, edit bool) (*model.Epic, error) {
	epic, err := mgr.epics.GetByID(c, id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	caller := util.GetToken(c).Identity()
	if edit {
		_, err = mgr.resolver.ResolveProjectEditAccess(c, caller, epic.ProjectID)
	} else {
		_, err = mgr.resolver.ResolveProjectAccess(c, caller, epic.ProjectID)
	}
	if err != nil {
		return nil, err
	}
	return epic, nil
}

// ListEpics godoc
//
//	@Summary	List project epics
//	@Tags		Epic
//	@Produce	json
//	@Security	Bearer
//	@Param		projectId	query		int	true	"project id"
//	@Success	200			{object}	resputil.Response[[]EpicResp]	"epics"
//	@Router		/v1/epics [get]
func (mgr *EpicMgr) ListEpics(c *gin.Context) {
	projectID, ok := parseIDQuery(c, "projectId")
	if !ok {
		return
	}
	caller := util.GetToken(c).Identity()
	if _, err := mgr.resolver.ResolveProjectAccess(c, caller, projectID); err != nil {
		resputil.DomainError(c, err, "Project not found")
		return
	}
	epics, err := mgr.epics.ListByProject(c, projectID)
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, lo.Map(epics, func(e model.Epic, _ int) EpicResp { return epicResp(&e) }))
}

// CreateEpic godoc
//
//	@Summary	Create an epic
//	@Tags		Epic
//	@Accept		json
//	@Produce	json
//	@Security	Bearer
//	@Param		data	body		EpicCreateReq	true	"epic data"
//	@Success	200		{object}	resputil.Response[EpicResp]	"created epic"
//	@Router		/v1/epics [post]
func (mgr *EpicMgr) CreateEpic(c *gin.Context) {
	var req EpicCreateReq
	if err := c.ShouldBind(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	caller := util.GetToken(c).Identity()
	if _, err := mgr.resolver.ResolveProjectEditAccess(c, caller, req.ProjectID); err != nil {
		resputil.DomainError(c, err, "Cannot create epic")
		return
	}
	epic := &model.Epic{
		ProjectID:   req.ProjectID,
		Name:        req.Name,
		Description: req.Description,
		Status:      model.EpicOpen,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}
	if err := mgr.epics.Create(c, epic); err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, epicResp(epic))
}

// GetEpic godoc
//
//	@Summary	Get an epic
//	@Tags		Epic
//	@Produce	json
//	@Security	Bearer
//	@Param		id	path		int	true	"epic id"
//	@Success	200	{object}	resputil.Response[EpicResp]	"epic"
//	@Router		/v1/epics/{id} [get]
func (mgr *EpicMgr) GetEpic(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	epic, err := mgr.resolveEpic(c, id, false)
	if err != nil {
		resputil.DomainError(c, err, "Epic not found")
		return
	}
	resputil.Success(c, epicResp(epic))
}

// UpdateEpic godoc
//
//	@Summary	Update an epic
//	@Tags		Epic
//	@Accept		json
//	@Produce	json
//	@Security	Bearer
//	@Param		id		path		int				true	"epic id"
//	@Param		data	body		EpicUpdateReq	true	"fields to change"
//	@Success	200		{object}	resputil.Response[EpicResp]	"updated epic"
//	@Router		/v1/epics/{id} [put]
func (mgr *EpicMgr) UpdateEpic(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req EpicUpdateReq
	if err := c.ShouldBind(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	epic, err := mgr.resolveEpic(c, id, true)
	if err != nil {
		resputil.DomainError(c, err, "Cannot edit epic")
		return
	}
	if req.Name != nil {
		epic.Name = *req.Name
	}
	if req.Description != nil {
		epic.Description = req.Description
	}
	if req.Status != nil {
		epic.Status = *req.Status
	}
	if req.StartDate != nil {
		epic.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		epic.EndDate = req.EndDate
	}
	if err := mgr.epics.Update(c, epic); err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, epicResp(epic))
}

// DeleteEpic godoc
//
//	@Summary		Delete an epic
//	@Description	Tasks are detached, not deleted
//	@Tags			Epic
//	@Produce		json
//	@Security		Bearer
//	@Param			id	path		int	true	"epic id"
//	@Success	200	{object}	resputil.Response[string]	"deleted"
//	@Router		/v1/epics/{id} [delete]
func (mgr *EpicMgr) DeleteEpic(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, err := mgr.resolveEpic(c, id, true); err != nil {
		resputil.DomainError(c, err, "Cannot delete epic")
		return
	}
	if err := mgr.epics.Delete(c, id); err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, "deleted")
}

// GetProgress godoc
//
//	@Summary		Epic progress
//	@Description	Task totals for the epic and the completed percentage
//	@Tags			Epic
//	@Produce		json
//	@Security		Bearer
//	@Param			id	path		int	true	"epic id"
//	@Success		200	{object}	resputil.Response[EpicProgressResp]	"progress"
//	@Router			/v1/epics/{id}/progress [get]
func (mgr *EpicMgr) GetProgress(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, err := mgr.resolveEpic(c, id, false); err != nil {
		resputil.DomainError(c, err, "Epic not found")
		return
	}
	total, completed, err := mgr.epics.TaskCounts(c, id)
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	percent := 0
	if total > 0 {
		percent = int(float64(completed)/float64(total)*100 + 0.5)
	}
	resputil.Success(c, EpicProgressResp{
		TotalTasks:     total,
		CompletedTasks: completed,
		Percent:        percent,
	})
}
