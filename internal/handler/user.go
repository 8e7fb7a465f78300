package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/atelier-hq/workplane/dao/model"
	"github.com/atelier-hq/workplane/internal/resputil"
	"github.com/atelier-hq/workplane/internal/util"
	userdb "github.com/atelier-hq/workplane/pkg/db/user"
	"github.com/atelier-hq/workplane/pkg/domain"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewUserMgr)
}

type UserMgr struct {
	name  string
	users userdb.DBService
}

func NewUserMgr(conf *RegisterConfig) Manager {
	return &UserMgr{
		name:  "users",
		users: conf.Users,
	}
}

func (mgr *UserMgr) GetName() string { return mgr.name }

func (mgr *UserMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *UserMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("", mgr.ListUsers)
	g.GET("/me", mgr.GetCurrentUser)
}

func (mgr *UserMgr) RegisterAdmin(g *gin.RouterGroup) {
	g.PUT(":id/role", mgr.UpdateRole)
	g.PUT(":id/deactivate", mgr.Deactivate)
}

type (
	UserRoleReq struct {
		Role model.Role `json:"role" binding:"required"`
	}

	UserResp struct {
		ID     uint         `json:"id"`
		Name   string       `json:"name"`
		Email  string       `json:"email"`
		Role   model.Role   `json:"role"`
		Status model.Status `json:"status"`
	}
)

func userResp(u *model.User) UserResp {
	return UserResp{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, Status: u.Status}
}

// ListUsers godoc
//
//	@Summary	List organization users
//	@Tags		User
//	@Produce	json
//	@Security	Bearer
//	@Success	200	{object}	resputil.Response[[]UserResp]	"users"
//	@Router		/v1/users [get]
func (mgr *UserMgr) ListUsers(c *gin.Context) {
	caller := util.GetToken(c).Identity()
	users, err := mgr.users.ListByOrganization(c, caller.OrganizationID)
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, lo.Map(users, func(u model.User, _ int) UserResp { return userResp(&u) }))
}

// GetCurrentUser godoc
//
//	@Summary	Current user
//	@Tags		User
//	@Produce	json
//	@Security	Bearer
//	@Success	200	{object}	resputil.Response[UserResp]	"caller's account"
//	@Router		/v1/users/me [get]
func (mgr *UserMgr) GetCurrentUser(c *gin.Context) {
	caller := util.GetToken(c).Identity()
	user, err := mgr.users.GetByID(c, caller.UserID)
	if err != nil {
		resputil.DomainError(c, domain.ErrNotFound, "User not found")
		return
	}
	resputil.Success(c, userResp(user))
}

// UpdateRole godoc
//
//	@Summary		Change a user's organization role
//	@Description	Admins cannot demote themselves below admin
//	@Tags			User
//	@Accept			json
//	@Produce		json
//	@Security		Bearer
//	@Param			id		path		int			true	"user id"
//	@Param			data	body		UserRoleReq	true	"new role"
//	@Success		200		{object}	resputil.Response[UserResp]	"updated user"
//	@Router			/v1/admin/users/{id}/role [put]
func (mgr *UserMgr) UpdateRole(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UserRoleReq
	if err := c.ShouldBind(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if req.Role > model.RoleAdmin {
		resputil.BadRequestError(c, "Unknown role")
		return
	}
	caller := util.GetToken(c).Identity()
	if id == caller.UserID && req.Role != model.RoleAdmin {
		resputil.BadRequestError(c, "Cannot demote yourself")
		return
	}
	user, err := mgr.users.GetByID(c, id)
	if err != nil || user.OrganizationID != caller.OrganizationID {
		resputil.DomainError(c, domain.ErrNotFound, "User not found")
		return
	}
	user.Role = req.Role
	if err := mgr.users.Update(c, user); err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, userResp(user))
}

// Deactivate godoc
//
//	@Summary		Deactivate a user
//	@Description	The user keeps their rows but can no longer log in or pass the auth middleware
//	@Tags			User
//	@Produce		json
//	@Security		Bearer
//	@Param			id	path		int	true	"user id"
//	@Success		200	{object}	resputil.Response[UserResp]	"deactivated user"
//	@Router			/v1/admin/users/{id}/deactivate [put]
func (mgr *UserMgr) Deactivate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	caller := util.GetToken(c).Identity()
	if id == caller.UserID {
		resputil.BadRequestError(c, "Cannot deactivate yourself")
		return
	}
	user, err := mgr.users.GetByID(c, id)
	if err != nil || user.OrganizationID != caller.OrganizationID {
		resputil.DomainError(c, domain.ErrNotFound, "User not found")
		return
	}
	user.Status = model.StatusInactive
	if err := mgr.users.Update(c, user); err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, userResp(user))
}
