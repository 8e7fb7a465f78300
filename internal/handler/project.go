package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/atelier-hq/workplane/dao/model"
	"github.com/atelier-hq/workplane/internal/resputil"
	"github.com/atelier-hq/workplane/internal/util"
	"github.com/atelier-hq/workplane/pkg/access"
	"github.com/atelier-hq/workplane/pkg/alert"
	projectdb "github.com/atelier-hq/workplane/pkg/db/project"
	userdb "github.com/atelier-hq/workplane/pkg/db/user"
	"github.com/atelier-hq/workplane/pkg/domain"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewProjectMgr)
}

type ProjectMgr struct {
	name     string
	resolver *access.Resolver
	alerter  alert.AlertInterface
	projects projectdb.DBService
	users    userdb.DBService
}

func NewProjectMgr(conf *RegisterConfig) Manager {
	return &ProjectMgr{
		name:     "projects",
		resolver: conf.Resolver,
		alerter:  conf.Alerter,
		projects: conf.Projects,
		users:    conf.Users,
	}
}

func (mgr *ProjectMgr) GetName() string { return mgr.name }

func (mgr *ProjectMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *ProjectMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("", mgr.ListProjects)
	g.POST("", mgr.CreateProject)
	g.GET(":id", mgr.GetProject)
	g.PUT(":id", mgr.UpdateProject)
	g.DELETE(":id", mgr.DeleteProject)
	g.GET(":id/members", mgr.ListMembers)
	g.POST(":id/members", mgr.AddMember)
	g.PUT(":id/members/:userId", mgr.UpdateMemberRole)
	g.DELETE(":id/members/:userId", mgr.RemoveMember)
}

func (mgr *ProjectMgr) RegisterAdmin(_ *gin.RouterGroup) {}

type (
	ProjectCreateReq struct {
		SpaceID     uint    `json:"spaceId" binding:"required"`
		Name        string  `json:"name" binding:"required"`
		Description *string `json:"description"`
	}

	ProjectUpdateReq struct {
		Name        *string       `json:"name"`
		Description *string       `json:"description"`
		Status      *model.Status `json:"status"`
	}

	ProjectMemberReq struct {
		UserID uint             `json:"userId" binding:"required"`
		Role   model.MemberRole `json:"role" binding:"required"`
	}

	ProjectMemberRoleReq struct {
		Role model.MemberRole `json:"role" binding:"required"`
	}

	ProjectResp struct {
		ID          uint         `json:"id"`
		SpaceID     uint         `json:"spaceId"`
		Name        string       `json:"name"`
		Description *string      `json:"description"`
		Status      model.Status `json:"status"`
	}

	ProjectMemberResp struct {
		UserID uint             `json:"userId"`
		Name   string           `json:"name"`
		Email  string           `json:"email"`
		Role   model.MemberRole `json:"role"`
	}
)

func projectResp(p *model.Project) ProjectResp {
	return ProjectResp{
		ID:          p.ID,
		SpaceID:     p.SpaceID,
		Name:        p.Name,
		Description: p.Description,
		Status:      p.Status,
	}
}

// ListProjects godoc
//
//	@Summary		List the caller's projects
//	@Description	Projects where the caller holds a membership, whatever the role
//	@Tags			Project
//	@Produce		json
//	@Security		Bearer
//	@Success		200	{object}	resputil.Response[[]ProjectResp]	"projects"
//	@Router			/v1/projects [get]
func (mgr *ProjectMgr) ListProjects(c *gin.Context) {
	caller := util.GetToken(c).Identity()
	projects, err := mgr.projects.ListForUser(c, caller.UserID)
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, lo.Map(projects, func(p model.Project, _ int) ProjectResp {
		return projectResp(&p)
	}))
}

// CreateProject godoc
//
//	@Summary		Create a project
//	@Description	Requires edit access on the containing space; the caller becomes owner
//	@Tags			Project
//	@Accept			json
//	@Produce		json
//	@Security		Bearer
//	@Param			data	body		ProjectCreateReq	true	"project data"
//	@Success		200		{object}	resputil.Response[ProjectResp]	"created project"
//	@Router			/v1/projects [post]
func (mgr *ProjectMgr) CreateProject(c *gin.Context) {
	var req ProjectCreateReq
	if err := c.ShouldBind(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	caller := util.GetToken(c).Identity()
	res, err := mgr.resolver.ResolveSpaceEditAccess(c, caller, req.SpaceID)
	if err != nil {
		resputil.DomainError(c, err, "Cannot create project in space")
		return
	}
	project := &model.Project{
		OrganizationID: res.Space.OrganizationID,
		SpaceID:        req.SpaceID,
		Name:           req.Name,
		Description:    req.Description,
		Status:         model.StatusActive,
	}
	if err := mgr.projects.Create(c, project, caller.UserID); err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, projectResp(project))
}

// GetProject godoc
//
//	@Summary	Get a project
//	@Tags		Project
//	@Produce	json
//	@Security	Bearer
//	@Param		id	path		int	true	"project id"
//	@Success	200	{object}	resputil.Response[ProjectResp]	"project"
//	@Router		/v1/projects/{id} [get]
func (mgr *ProjectMgr) GetProject(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	caller := util.GetToken(c).Identity()
	res, err := mgr.resolver.ResolveProjectAccess(c, caller, id)
	if err != nil {
		resputil.DomainError(c, err, "Project not found")
		return
	}
	resputil.Success(c, projectResp(res.Project))
}

// UpdateProject godoc
//
//	@Summary		Update a project
//	@Description	Viewers cannot edit
//	@Tags			Project
//	@Accept			json
//	@Produce		json
//	@Security		Bearer
//	@Param			id		path		int					true	"project id"
//	@Param			data	body		ProjectUpdateReq	true	"fields to change"
//	@Success		200		{object}	resputil.Response[ProjectResp]	"updated project"
//	@Router			/v1/projects/{id} [put]
func (mgr *ProjectMgr) UpdateProject(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req ProjectUpdateReq
	if err := c.ShouldBind(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	caller := util.GetToken(c).Identity()
	res, err := mgr.resolver.ResolveProjectEditAccess(c, caller, id)
	if err != nil {
		resputil.DomainError(c, err, "Cannot edit project")
		return
	}
	project := res.Project
	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = req.Description
	}
	if req.Status != nil {
		project.Status = *req.Status
	}
	if err := mgr.projects.Update(c, project); err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, projectResp(project))
}

// DeleteProject godoc
//
//	@Summary		Delete a project
//	@Description	Project owner only
//	@Tags			Project
//	@Produce		json
//	@Security		Bearer
//	@Param			id	path		int	true	"project id"
//	@Success	200	{object}	resputil.Response[string]	"deleted"
//	@Router		/v1/projects/{id} [delete]
func (mgr *ProjectMgr) DeleteProject(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	caller := util.GetToken(c).Identity()
	res, err := mgr.resolver.ResolveProjectAccess(c, caller, id)
	if err != nil {
		resputil.DomainError(c, err, "Project not found")
		return
	}
	if res.Role != model.MemberRoleOwner {
		resputil.DomainError(c, domain.ErrForbidden, "Only the owner can delete a project")
		return
	}
	if err := mgr.projects.Delete(c, id); err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, "deleted")
}

// ListMembers godoc
//
//	@Summary	List project members
//	@Tags		Project
//	@Produce	json
//	@Security	Bearer
//	@Param		id	path		int	true	"project id"
//	@Success	200	{object}	resputil.Response[[]ProjectMemberResp]	"members"
//	@Router		/v1/projects/{id}/members [get]
func (mgr *ProjectMgr) ListMembers(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	caller := util.GetToken(c).Identity()
	if _, err := mgr.resolver.ResolveProjectAccess(c, caller, id); err != nil {
		resputil.DomainError(c, err, "Project not found")
		return
	}
	members, err := mgr.projects.ListMembers(c, id)
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, lo.Map(members, func(m model.ProjectMember, _ int) ProjectMemberResp {
		resp := ProjectMemberResp{UserID: m.UserID, Role: m.Role}
		if u, uerr := mgr.users.GetByID(c, m.UserID); uerr == nil {
			resp.Name = u.Name
			resp.Email = u.Email
		}
		return resp
	}))
}

// AddMember godoc
//
//	@Summary		Add a project member
//	@Description	Project owner/admin, or org admin within the same organization
//	@Tags			Project
//	@Accept			json
//	@Produce		json
//	@Security		Bearer
//	@Param			id		path		int					true	"project id"
//	@Param			data	body		ProjectMemberReq	true	"member data"
//	@Success		200		{object}	resputil.Response[string]	"added"
//	@Router			/v1/projects/{id}/members [post]
func (mgr *ProjectMgr) AddMember(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req ProjectMemberReq
	if err := c.ShouldBind(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	caller := util.GetToken(c).Identity()
	res, err := mgr.resolver.ResolveProjectMemberManageAccess(c, caller, id)
	if err != nil {
		resputil.DomainError(c, err, "Cannot manage project members")
		return
	}
	target, err := mgr.users.GetByID(c, req.UserID)
	if err != nil {
		resputil.DomainError(c, domain.ErrNotFound, "User not found")
		return
	}
	if berr := access.ResolveOrganizationBoundary(caller.OrganizationID, target.OrganizationID); berr != nil {
		resputil.DomainError(c, berr, "User not found")
		return
	}
	member := &model.ProjectMember{ProjectID: id, UserID: req.UserID, Role: req.Role}
	if err := mgr.projects.AddMember(c, member); err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	mgr.alerter.MemberAdded(c, res.Project.Name, target, req.Role)
	resputil.Success(c, "added")
}

// UpdateMemberRole godoc
//
//	@Summary		Change a project member's role
//	@Description	The last owner cannot be demoted
//	@Tags			Project
//	@Accept			json
//	@Produce		json
//	@Security		Bearer
//	@Param			id		path		int						true	"project id"
//	@Param			userId	path		int						true	"user id"
//	@Param			data	body		ProjectMemberRoleReq	true	"new role"
//	@Success		200		{object}	resputil.Response[string]	"updated"
//	@Router			/v1/projects/{id}/members/{userId} [put]
func (mgr *ProjectMgr) UpdateMemberRole(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	var req ProjectMemberRoleReq
	if err := c.ShouldBind(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	caller := util.GetToken(c).Identity()
	if _, err := mgr.resolver.ResolveProjectMemberManageAccess(c, caller, id); err != nil {
		resputil.DomainError(c, err, "Cannot manage project members")
		return
	}
	member, err := mgr.projects.GetMember(c, id, userID)
	if err != nil {
		resputil.DomainError(c, domain.ErrNotFound, "Member not found")
		return
	}
	if req.Role != model.MemberRoleOwner {
		if err := mgr.resolver.EnsureNotLastOwner(c, member); err != nil {
			resputil.DomainError(c, err, "A project must keep at least one owner")
			return
		}
	}
	if err := mgr.projects.UpdateMemberRole(c, id, userID, req.Role); err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, "updated")
}

// RemoveMember godoc
//
//	@Summary		Remove a project member
//	@Description	The last owner cannot be removed
//	@Tags			Project
//	@Produce		json
//	@Security		Bearer
//	@Param			id		path		int	true	"project id"
//	@Param			userId	path		int	true	"user id"
//	@Success		200		{object}	resputil.Response[string]	"removed"
//	@Router			/v1/projects/{id}/members/{userId} [delete]
func (mgr *ProjectMgr) RemoveMember(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	caller := util.GetToken(c).Identity()
	if _, err := mgr.resolver.ResolveProjectMemberManageAccess(c, caller, id); err != nil {
		resputil.DomainError(c, err, "Cannot manage project members")
		return
	}
	member, err := mgr.projects.GetMember(c, id, userID)
	if err != nil {
		resputil.DomainError(c, domain.ErrNotFound, "Member not found")
		return
	}
	if err := mgr.resolver.EnsureNotLastOwner(c, member); err != nil {
		resputil.DomainError(c, err, "A project must keep at least one owner")
		return
	}
	if err := mgr.projects.RemoveMember(c, id, userID); err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, "removed")
}
