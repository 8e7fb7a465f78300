package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/atelier-hq/workplane/dao/model"
	"github.com/atelier-hq/workplane/internal/resputil"
	"github.com/atelier-hq/workplane/internal/util"
	"github.com/atelier-hq/workplane/pkg/access"
	spacedb "github.com/atelier-hq/workplane/pkg/db/space"
	userdb "github.com/atelier-hq/workplane/pkg/db/user"
	"github.com/atelier-hq/workplane/pkg/domain"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewSpaceMgr)
}

type SpaceMgr struct {
	name     string
	resolver *access.Resolver
	spaces   spacedb.DBService
	users    userdb.DBService
}

func NewSpaceMgr(conf *RegisterConfig) Manager {
	return &SpaceMgr{
		name:     "spaces",
		resolver: conf.Resolver,
		spaces:   conf.Spaces,
		users:    conf.Users,
	}
}

func (mgr *SpaceMgr) GetName() string { return mgr.name }

func (mgr *SpaceMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *SpaceMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("", mgr.ListSpaces)
	g.POST("", mgr.CreateSpace)
	g.GET(":id", mgr.GetSpace)
	g.PUT(":id", mgr.UpdateSpace)
	g.DELETE(":id", mgr.DeleteSpace)
	g.GET(":id/members", mgr.ListMembers)
	g.POST(":id/members", mgr.AddMember)
	g.PUT(":id/members/:userId", mgr.UpdateMemberRole)
	g.DELETE(":id/members/:userId", mgr.RemoveMember)
}

func (mgr *SpaceMgr) RegisterAdmin(_ *gin.RouterGroup) {}

type (
	SpaceCreateReq struct {
		Name        string  `json:"name" binding:"required"`
		Description *string `json:"description"`
		IsPublic    bool    `json:"isPublic"`
	}

	SpaceUpdateReq struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		IsPublic    *bool   `json:"isPublic"`
	}

	SpaceMemberReq struct {
		UserID uint             `json:"userId" binding:"required"`
		Role   model.MemberRole `json:"role" binding:"required"`
	}

	SpaceMemberRoleReq struct {
		Role model.MemberRole `json:"role" binding:"required"`
	}

	SpaceResp struct {
		ID          uint    `json:"id"`
		Name        string  `json:"name"`
		Description *string `json:"description"`
		IsPublic    bool    `json:"isPublic"`
	}

	SpaceMemberResp struct {
		UserID uint             `json:"userId"`
		Name   string           `json:"name"`
		Email  string           `json:"email"`
		Role   model.MemberRole `json:"role"`
	}
)

func spaceResp(s *model.Space) SpaceResp {
	return SpaceResp{ID: s.ID, Name: s.Name, Description: s.Description, IsPublic: s.IsPublic}
}

// ListSpaces godoc
//
//	@Summary		List visible spaces
//	@Description	Public spaces of the caller's organization plus spaces the caller is a member of
//	@Tags			Space
//	@Produce		json
//	@Security		Bearer
//	@Success		200	{object}	resputil.Response[[]SpaceResp]	"spaces"
//	@Router			/v1/spaces [get]
func (mgr *SpaceMgr) ListSpaces(c *gin.Context) {
	caller := util.GetToken(c).Identity()
	all, err := mgr.spaces.ListByOrganization(c, caller.OrganizationID)
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	visible := make([]SpaceResp, 0, len(all))
	for i := range all {
		ok, verr := mgr.resolver.ResolveSpaceVisibility(c, caller, &all[i])
		if verr != nil {
			resputil.Error(c, verr.Error(), resputil.NotSpecified)
			return
		}
		if ok {
			visible = append(visible, spaceResp(&all[i]))
		}
	}
	resputil.Success(c, visible)
}

// CreateSpace godoc
//
//	@Summary		Create a space
//	@Description	Creates a space and makes the caller its owner
//	@Tags			Space
//	@Accept			json
//	@Produce		json
//	@Security		Bearer
//	@Param			data	body		SpaceCreateReq	true	"space data"
//	@Success		200		{object}	resputil.Response[SpaceResp]	"created space"
//	@Router			/v1/spaces [post]
func (mgr *SpaceMgr) CreateSpace(c *gin.Context) {
	var req SpaceCreateReq
	if err := c.ShouldBind(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	caller := util.GetToken(c).Identity()
	space := &model.Space{
		OrganizationID: caller.OrganizationID,
		Name:           req.Name,
		Description:    req.Description,
		IsPublic:       req.IsPublic,
	}
	if err := mgr.spaces.Create(c, space, caller.UserID); err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, spaceResp(space))
}

// GetSpace godoc
//
//	@Summary	Get a space
//	@Tags		Space
//	@Produce	json
//	@Security	Bearer
//	@Param		id	path		int	true	"space id"
//	@Success	200	{object}	resputil.Response[SpaceResp]	"space"
//	@Router		/v1/spaces/{id} [get]
func (mgr *SpaceMgr) GetSpace(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	caller := util.GetToken(c).Identity()
	space, err := mgr.spaces.GetByID(c, id)
	if err != nil {
		resputil.DomainError(c, domain.ErrNotFound, "Space not found")
		return
	}
	visible, err := mgr.resolver.ResolveSpaceVisibility(c, caller, space)
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	if !visible {
		resputil.DomainError(c, domain.ErrNotFound, "Space not found")
		return
	}
	resputil.Success(c, spaceResp(space))
}

// UpdateSpace godoc
//
//	@Summary		Update a space
//	@Description	Owner or admin of the space only
//	@Tags			Space
//	@Accept			json
//	@Produce		json
//	@Security		Bearer
//	@Param			id		path		int				true	"space id"
//	@Param			data	body		SpaceUpdateReq	true	"fields to change"
//	@Success		200		{object}	resputil.Response[SpaceResp]	"updated space"
//	@Router			/v1/spaces/{id} [put]
func (mgr *SpaceMgr) UpdateSpace(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req SpaceUpdateReq
	if err := c.ShouldBind(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	caller := util.GetToken(c).Identity()
	res, err := mgr.resolver.ResolveSpaceEditAccess(c, caller, id)
	if err != nil {
		resputil.DomainError(c, err, "Cannot edit space")
		return
	}
	space := res.Space
	if req.Name != nil {
		space.Name = *req.Name
	}
	if req.Description != nil {
		space.Description = req.Description
	}
	if req.IsPublic != nil {
		space.IsPublic = *req.IsPublic
	}
	if err := mgr.spaces.Update(c, space); err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, spaceResp(space))
}

// DeleteSpace godoc
//
//	@Summary		Delete a space
//	@Description	Owner of the space only
//	@Tags			Space
//	@Produce		json
//	@Security		Bearer
//	@Param			id	path		int	true	"space id"
//	@Success		200	{object}	resputil.Response[string]	"deleted"
//	@Router			/v1/spaces/{id} [delete]
func (mgr *SpaceMgr) DeleteSpace(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	caller := util.GetToken(c).Identity()
	res, err := mgr.resolver.ResolveSpaceEditAccess(c, caller, id)
	if err != nil {
		resputil.DomainError(c, err, "Cannot delete space")
		return
	}
	if res.Role != model.MemberRoleOwner {
		resputil.DomainError(c, domain.ErrForbidden, "Only the owner can delete a space")
		return
	}
	if err := mgr.spaces.Delete(c, id); err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, "deleted")
}

// ListMembers godoc
//
//	@Summary	List space members
//	@Tags		Space
//	@Produce	json
//	@Security	Bearer
//	@Param		id	path		int	true	"space id"
//	@Success	200	{object}	resputil.Response[[]SpaceMemberResp]	"members"
//	@Router		/v1/spaces/{id}/members [get]
func (mgr *SpaceMgr) ListMembers(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	caller := util.GetToken(c).Identity()
	space, err := mgr.spaces.GetByID(c, id)
	if err != nil {
		resputil.DomainError(c, domain.ErrNotFound, "Space not found")
		return
	}
	visible, err := mgr.resolver.ResolveSpaceVisibility(c, caller, space)
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	if !visible {
		resputil.DomainError(c, domain.ErrNotFound, "Space not found")
		return
	}
	members, err := mgr.spaces.ListMembers(c, id)
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, lo.Map(members, func(m model.SpaceMember, _ int) SpaceMemberResp {
		resp := SpaceMemberResp{UserID: m.UserID, Role: m.Role}
		if u, uerr := mgr.users.GetByID(c, m.UserID); uerr == nil {
			resp.Name = u.Name
			resp.Email = u.Email
		}
		return resp
	}))
}

// AddMember godoc
//
//	@Summary		Add a space member
//	@Description	Owner or admin of the space only; the user must belong to the same organization
//	@Tags			Space
//	@Accept			json
//	@Produce		json
//	@Security		Bearer
//	@Param			id		path		int				true	"space id"
//	@Param			data	body		SpaceMemberReq	true	"member data"
//	@Success		200		{object}	resputil.Response[string]	"added"
//	@Router			/v1/spaces/{id}/members [post]
func (mgr *SpaceMgr) AddMember(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req SpaceMemberReq
	if err := c.ShouldBind(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	caller := util.GetToken(c).Identity()
	if _, err := mgr.resolver.ResolveSpaceEditAccess(c, caller, id); err != nil {
		resputil.DomainError(c, err, "Cannot manage space members")
		return
	}
	target, err := mgr.users.GetByID(c, req.UserID)
	if err != nil {
		resputil.DomainError(c, domain.ErrNotFound, "User not found")
		return
	}
	if err := access.ResolveOrganizationBoundary(caller.OrganizationID, target.OrganizationID); err != nil {
		resputil.DomainError(c, err, "User not found")
		return
	}
	member := &model.SpaceMember{SpaceID: id, UserID: req.UserID, Role: req.Role}
	if err := mgr.spaces.AddMember(c, member); err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, "added")
}

// UpdateMemberRole godoc
//
//	@Summary		Change a space member's role
//	@Description	Owner or admin of the space only
//	@Tags			Space
//	@Accept			json
//	@Produce		json
//	@Security		Bearer
//	@Param			id		path		int					true	"space id"
//	@Param			userId	path		int					true	"user id"
//	@Param			data	body		SpaceMemberRoleReq	true	"new role"
//	@Success		200		{object}	resputil.Response[string]	"updated"
//	@Router			/v1/spaces/{id}/members/{userId} [put]
func (mgr *SpaceMgr) UpdateMemberRole(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	var req SpaceMemberRoleReq
	if err := c.ShouldBind(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	caller := util.GetToken(c).Identity()
	if _, err := mgr.resolver.ResolveSpaceEditAccess(c, caller, id); err != nil {
		resputil.DomainError(c, err, "Cannot manage space members")
		return
	}
	if _, err := mgr.spaces.GetMember(c, id, userID); err != nil {
		resputil.DomainError(c, domain.ErrNotFound, "Member not found")
		return
	}
	if err := mgr.spaces.UpdateMemberRole(c, id, userID, req.Role); err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, "updated")
}

// RemoveMember godoc
//
//	@Summary		Remove a space member
//	@Description	Owner or admin of the space only
//	@Tags			Space
//	@Produce		json
//	@Security		Bearer
//	@Param			id		path		int	true	"space id"
//	@Param			userId	path		int	true	"user id"
//	@Success		200		{object}	resputil.Response[string]	"removed"
//	@Router			/v1/spaces/{id}/members/{userId} [delete]
func (mgr *SpaceMgr) RemoveMember(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	caller := util.GetToken(c).Identity()
	if _, err := mgr.resolver.ResolveSpaceEditAccess(c, caller, id); err != nil {
		resputil.DomainError(c, err, "Cannot manage space members")
		return
	}
	if _, err := mgr.spaces.GetMember(c, id, userID); err != nil {
		resputil.DomainError(c, domain.ErrNotFound, "Member not found")
		return
	}
	if err := mgr.spaces.RemoveMember(c, id, userID); err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, "removed")
}
