package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/crypto/bcrypt"

	"github.com/atelier-hq/workplane/dao/model"
	"github.com/atelier-hq/workplane/internal/resputil"
	"github.com/atelier-hq/workplane/internal/util"
	"github.com/atelier-hq/workplane/pkg/access"
	"github.com/atelier-hq/workplane/pkg/alert"
	invitationdb "github.com/atelier-hq/workplane/pkg/db/invitation"
	userdb "github.com/atelier-hq/workplane/pkg/db/user"
	"github.com/atelier-hq/workplane/pkg/domain"
)

// invitationTTL is how long an invitation token stays usable.
const invitationTTL = 7 * 24 * time.Hour

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewInvitationMgr)
}

type InvitationMgr struct {
	name        string
	resolver    *access.Resolver
	alerter     alert.AlertInterface
	invitations invitationdb.DBService
	users       userdb.DBService
}

func NewInvitationMgr(conf *RegisterConfig) Manager {
	return &InvitationMgr{
		name:        "invitations",
		resolver:    conf.Resolver,
		alerter:     conf.Alerter,
		invitations: conf.Invitations,
		users:       conf.Users,
	}
}

func (mgr *InvitationMgr) GetName() string { return mgr.name }

func (mgr *InvitationMgr) RegisterPublic(g *gin.RouterGroup) {
	g.POST("/accept", mgr.Accept)
}

func (mgr *InvitationMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("", mgr.ListInvitations)
	g.POST("", mgr.CreateInvitation)
	g.DELETE(":id", mgr.RevokeInvitation)
}

func (mgr *InvitationMgr) RegisterAdmin(_ *gin.RouterGroup) {}

type (
	InvitationCreateReq struct {
		Email     string           `json:"email" binding:"required,email"`
		Role      model.MemberRole `json:"role" binding:"required"`
		ProjectID *uint            `json:"projectId"`
	}

	InvitationAcceptReq struct {
		Token    string `json:"token" binding:"required"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}

	InvitationResp struct {
		ID        uint                   `json:"id"`
		Email     string                 `json:"email"`
		Role      model.MemberRole       `json:"role"`
		ProjectID *uint                  `json:"projectId"`
		Status    model.InvitationStatus `json:"status"`
		Token     string                 `json:"token"`
		ExpiresAt time.Time              `json:"expiresAt"`
	}
)

func invitationResp(inv *model.Invitation) InvitationResp {
	return InvitationResp{
		ID:        inv.ID,
		Email:     inv.Email,
		Role:      inv.Role,
		ProjectID: inv.ProjectID,
		Status:    inv.Status,
		Token:     inv.Token,
		ExpiresAt: inv.ExpiresAt,
	}
}

// ListInvitations godoc
//
//	@Summary		List organization invitations
//	@Description	Organization admins only
//	@Tags			Invitation
//	@Produce		json
//	@Security		Bearer
//	@Success		200	{object}	resputil.Response[[]InvitationResp]	"invitations, newest first"
//	@Router			/v1/invitations [get]
func (mgr *InvitationMgr) ListInvitations(c *gin.Context) {
	caller := util.GetToken(c).Identity()
	if !access.CanAdminOverride(caller) {
		resputil.DomainError(c, domain.ErrForbidden, "Admin only")
		return
	}
	invs, err := mgr.invitations.ListByOrganization(c, caller.OrganizationID)
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, lo.Map(invs, func(inv model.Invitation, _ int) InvitationResp {
		return invitationResp(&inv)
	}))
}

// CreateInvitation godoc
//
//	@Summary		Invite a user
//	@Description	Organization admins only; when projectId is set the invitee joins that project on acceptance
//	@Tags			Invitation
//	@Accept			json
//	@Produce		json
//	@Security		Bearer
//	@Param			data	body		InvitationCreateReq	true	"invitation data"
//	@Success		200		{object}	resputil.Response[InvitationResp]	"created invitation"
//	@Router			/v1/invitations [post]
func (mgr *InvitationMgr) CreateInvitation(c *gin.Context) {
	var req InvitationCreateReq
	if err := c.ShouldBind(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	caller := util.GetToken(c).Identity()
	if !access.CanAdminOverride(caller) {
		resputil.DomainError(c, domain.ErrForbidden, "Admin only")
		return
	}
	if req.ProjectID != nil {
		if _, err := mgr.resolver.ResolveProjectMemberManageAccess(c, caller, *req.ProjectID); err != nil {
			resputil.DomainError(c, err, "Project not found")
			return
		}
	}
	if _, err := mgr.users.GetByEmail(c, req.Email); err == nil {
		resputil.BadRequestError(c, "Email already registered")
		return
	}
	inv := &model.Invitation{
		OrganizationID: caller.OrganizationID,
		ProjectID:      req.ProjectID,
		Email:          req.Email,
		Role:           req.Role,
		Token:          uuid.NewString(),
		Status:         model.InvitationPending,
		ExpiresAt:      time.Now().Add(invitationTTL),
		InvitedByID:    caller.UserID,
	}
	if err := mgr.invitations.Create(c, inv); err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	mgr.alerter.InvitationCreated(c, inv, util.GetToken(c).Username)
	resputil.Success(c, invitationResp(inv))
}

// RevokeInvitation godoc
//
//	@Summary		Revoke an invitation
//	@Description	Organization admins only; a revoked token can no longer be accepted
//	@Tags			Invitation
//	@Produce		json
//	@Security		Bearer
//	@Param			id	path		int	true	"invitation id"
//	@Success		200	{object}	resputil.Response[string]	"revoked"
//	@Router			/v1/invitations/{id} [delete]
func (mgr *InvitationMgr) RevokeInvitation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	caller := util.GetToken(c).Identity()
	if !access.CanAdminOverride(caller) {
		resputil.DomainError(c, domain.ErrForbidden, "Admin only")
		return
	}
	invs, err := mgr.invitations.ListByOrganization(c, caller.OrganizationID)
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	inv, found := lo.Find(invs, func(i model.Invitation) bool { return i.ID == id })
	if !found {
		resputil.DomainError(c, domain.ErrNotFound, "Invitation not found")
		return
	}
	if inv.Status != model.InvitationPending {
		resputil.BadRequestError(c, "Only a pending invitation can be revoked")
		return
	}
	inv.Status = model.InvitationDeclined
	if err := mgr.invitations.Update(c, &inv); err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, "revoked")
}

// Accept godoc
//
//	@Summary		Accept an invitation
//	@Description	Public endpoint. Creates the user account and optional project membership atomically
//	@Tags			Invitation
//	@Accept			json
//	@Produce		json
//	@Param			data	body		InvitationAcceptReq	true	"token plus account data for new users"
//	@Success		200		{object}	resputil.Response[string]	"accepted"
//	@Failure		410		{object}	resputil.Response[any]	"expired or already used"
//	@Router			/v1/invitations/accept [post]
func (mgr *InvitationMgr) Accept(c *gin.Context) {
	var req InvitationAcceptReq
	if err := c.ShouldBind(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	inv, err := mgr.invitations.GetByToken(c, req.Token)
	if err != nil {
		resputil.DomainError(c, domain.ErrNotFound, "Invitation not found")
		return
	}
	if inv.Status != model.InvitationPending {
		resputil.Error(c, "Invitation already used", resputil.InvitationNotUsable)
		return
	}
	if time.Now().After(inv.ExpiresAt) {
		inv.Status = model.InvitationExpired
		_ = mgr.invitations.Update(c, inv)
		resputil.Error(c, "Invitation expired", resputil.InvitationNotUsable)
		return
	}

	var newUser *model.User
	var member *model.ProjectMember

	existing, err := mgr.users.GetByEmail(c, inv.Email)
	switch {
	case err == nil:
		if existing.OrganizationID != inv.OrganizationID {
			resputil.Error(c, "Invitation not usable for this account", resputil.InvitationNotUsable)
			return
		}
		if inv.ProjectID != nil {
			member = &model.ProjectMember{ProjectID: *inv.ProjectID, UserID: existing.ID, Role: inv.Role}
		}
	default:
		if req.Name == "" || len(req.Password) < 8 {
			resputil.BadRequestError(c, "Name and a password of at least 8 characters are required")
			return
		}
		hash, herr := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if herr != nil {
			resputil.Error(c, herr.Error(), resputil.NotSpecified)
			return
		}
		password := string(hash)
		newUser = &model.User{
			Name:           req.Name,
			Email:          inv.Email,
			Password:       &password,
			OrganizationID: inv.OrganizationID,
			Role:           model.RoleMember,
			Status:         model.StatusActive,
		}
		if inv.ProjectID != nil {
			// UserID is filled inside the transaction once the user row exists.
			member = &model.ProjectMember{ProjectID: *inv.ProjectID, Role: inv.Role}
		}
	}

	if err := mgr.invitations.Accept(c, inv, newUser, member); err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, "accepted")
}
