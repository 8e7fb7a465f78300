package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/atelier-hq/workplane/dao/model"
	"github.com/atelier-hq/workplane/internal/resputil"
	"github.com/atelier-hq/workplane/internal/util"
	organizationdb "github.com/atelier-hq/workplane/pkg/db/organization"
	userdb "github.com/atelier-hq/workplane/pkg/db/user"
	"github.com/atelier-hq/workplane/pkg/logutils"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewAuthMgr)
}

type AuthMgr struct {
	name          string
	tokenMgr      *util.TokenManager
	users         userdb.DBService
	organizations organizationdb.DBService
}

func NewAuthMgr(conf *RegisterConfig) Manager {
	return &AuthMgr{
		name:          "auth",
		tokenMgr:      util.GetTokenMgr(),
		users:         conf.Users,
		organizations: conf.Organizations,
	}
}

func (mgr *AuthMgr) GetName() string { return mgr.name }

func (mgr *AuthMgr) RegisterPublic(g *gin.RouterGroup) {
	g.POST("/signup", mgr.Signup)
	g.POST("/login", mgr.Login)
	g.POST("/refresh", mgr.RefreshToken)
}

func (mgr *AuthMgr) RegisterProtected(_ *gin.RouterGroup) {}
func (mgr *AuthMgr) RegisterAdmin(_ *gin.RouterGroup)     {}

type (
	SignupReq struct {
		Organization string `json:"organization" binding:"required"`
		Name         string `json:"name" binding:"required"`
		Email        string `json:"email" binding:"required,email"`
		Password     string `json:"password" binding:"required,min=8"`
	}

	LoginReq struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	RefreshReq struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}

	TokenResp struct {
		AccessToken  string          `json:"accessToken"`
		RefreshToken string          `json:"refreshToken"`
		Context      util.JWTMessage `json:"context"`
	}
)

// Signup godoc
//
//	@Summary		Bootstrap an organization
//	@Description	Creates the organization and its first admin user
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			data	body		SignupReq	true	"signup data"
//	@Success		200		{object}	resputil.Response[TokenResp]	"tokens for the new admin"
//	@Failure		400		{object}	resputil.Response[any]	"invalid request"
//	@Router			/v1/auth/signup [post]
func (mgr *AuthMgr) Signup(c *gin.Context) {
	var req SignupReq
	if err := c.ShouldBind(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	if _, err := mgr.users.GetByEmail(c, req.Email); err == nil {
		resputil.BadRequestError(c, "Email already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}

	org := &model.Organization{Name: req.Organization}
	if err := mgr.organizations.Create(c, org); err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}

	password := string(hash)
	user := &model.User{
		Name:           req.Name,
		Email:          req.Email,
		Password:       &password,
		OrganizationID: org.ID,
		Role:           model.RoleAdmin,
		Status:         model.StatusActive,
	}
	if err := mgr.users.Create(c, user); err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}

	mgr.issueTokens(c, user, org.Name)
}

// Login godoc
//
//	@Summary		User login
//	@Description	Validates credentials and returns JWT tokens
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			data	body		LoginReq	true	"credentials"
//	@Success		200		{object}	resputil.Response[TokenResp]	"tokens"
//	@Failure		401		{object}	resputil.Response[any]	"invalid credentials"
//	@Router			/v1/auth/login [post]
func (mgr *AuthMgr) Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBind(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	l := logutils.Log.WithFields(logutils.Fields{"email": req.Email})

	user, err := mgr.users.GetByEmail(c, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resputil.HTTPError(c, http.StatusUnauthorized, "Invalid credentials", resputil.InvalidCredentials)
			return
		}
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	if user.Status != model.StatusActive || user.Password == nil ||
		bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(req.Password)) != nil {
		l.Error("invalid credentials")
		resputil.HTTPError(c, http.StatusUnauthorized, "Invalid credentials", resputil.InvalidCredentials)
		return
	}

	org, err := mgr.organizations.GetByID(c, user.OrganizationID)
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}

	mgr.issueTokens(c, user, org.Name)
}

// RefreshToken godoc
//
//	@Summary		Refresh tokens
//	@Description	Exchanges a valid refresh token for a new pair
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			data	body		RefreshReq	true	"refresh token"
//	@Success		200		{object}	resputil.Response[TokenResp]	"tokens"
//	@Failure		401		{object}	resputil.Response[any]	"invalid token"
//	@Router			/v1/auth/refresh [post]
func (mgr *AuthMgr) RefreshToken(c *gin.Context) {
	var req RefreshReq
	if err := c.ShouldBind(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	msg, err := mgr.tokenMgr.CheckRefreshToken(req.RefreshToken)
	if err != nil {
		resputil.HTTPError(c, http.StatusUnauthorized, "Invalid token", resputil.TokenExpired)
		return
	}

	// Re-read the user so a role change invalidates old refresh tokens.
	user, err := mgr.users.GetByID(c, msg.UserID)
	if err != nil || user.Status != model.StatusActive {
		resputil.HTTPError(c, http.StatusUnauthorized, "Invalid token", resputil.TokenInvalid)
		return
	}

	mgr.issueTokens(c, user, msg.OrgName)
}

func (mgr *AuthMgr) issueTokens(c *gin.Context, user *model.User, orgName string) {
	msg := util.JWTMessage{
		UserID:       user.ID,
		Username:     user.Name,
		OrgID:        user.OrganizationID,
		OrgName:      orgName,
		RolePlatform: user.Role,
	}
	access, refresh, err := mgr.tokenMgr.CreateTokens(&msg)
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, TokenResp{
		AccessToken:  access,
		RefreshToken: refresh,
		Context:      msg,
	})
}
