package util

import (
	"github.com/gin-gonic/gin"

	"github.com/atelier-hq/workplane/dao/model"
	"github.com/atelier-hq/workplane/pkg/access"
)

const (
	UserIDKey   = "x-user-id"
	UsernameKey = "x-user-name"

	OrgIDKey   = "x-org-id"
	OrgNameKey = "x-org-name"

	RolePlatformKey = "x-role-platform"
)

func SetJWTContext(
	c *gin.Context,
	msg JWTMessage,
) {
	c.Set(UserIDKey, msg.UserID)
	c.Set(UsernameKey, msg.Username)

	c.Set(OrgIDKey, msg.OrgID)
	c.Set(OrgNameKey, msg.OrgName)

	c.Set(RolePlatformKey, msg.RolePlatform)
}

func GetToken(ctx *gin.Context) JWTMessage {
	var msg JWTMessage
	msg.UserID = ctx.GetUint(UserIDKey)
	msg.Username = ctx.GetString(UsernameKey)

	msg.OrgID = ctx.GetUint(OrgIDKey)
	msg.OrgName = ctx.GetString(OrgNameKey)

	rolePlatform, _ := ctx.Get(RolePlatformKey)
	msg.RolePlatform, _ = rolePlatform.(model.Role)
	return msg
}

// Identity converts the request token into the explicit caller identity
// the cores take as an argument.
func (m JWTMessage) Identity() access.Identity {
	return access.Identity{
		UserID:         m.UserID,
		OrganizationID: m.OrgID,
		Role:           m.RolePlatform,
	}
}
