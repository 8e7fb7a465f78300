package invitation

import (
	"context"

	"gorm.io/gorm"

	"github.com/atelier-hq/workplane/dao/model"
	"github.com/atelier-hq/workplane/dao/query"
)

type DBService interface {
	Create(ctx context.Context, inv *model.Invitation) error
	Update(ctx context.Context, inv *model.Invitation) error
	GetByToken(ctx context.Context, token string) (*model.Invitation, error)
	ListByOrganization(ctx context.Context, orgID uint) ([]model.Invitation, error)
	// Accept flips the invitation to accepted and applies the acceptance
	// side effects in a single transaction: newUser is created when the
	// invitee has no account yet, member is created when the invitation
	// targets a project. Partial application is not possible; any error
	// rolls back every row.
	Accept(ctx context.Context, inv *model.Invitation, newUser *model.User, member *model.ProjectMember) error
}

type service struct{}

func NewDBService() DBService {
	return &service{}
}

func (s *service) Create(ctx context.Context, inv *model.Invitation) error {
	return query.GetDB().WithContext(ctx).Create(inv).Error
}

func (s *service) Update(ctx context.Context, inv *model.Invitation) error {
	return query.GetDB().WithContext(ctx).Save(inv).Error
}

func (s *service) GetByToken(ctx context.Context, token string) (*model.Invitation, error) {
	var inv model.Invitation
	err := query.GetDB().WithContext(ctx).Where("token = ?", token).First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (s *service) ListByOrganization(ctx context.Context, orgID uint) ([]model.Invitation, error) {
	var invs []model.Invitation
	err := query.GetDB().WithContext(ctx).
		Where("organization_id = ?", orgID).Order("id DESC").Find(&invs).Error
	return invs, err
}

func (s *service) Accept(
	ctx context.Context, inv *model.Invitation, newUser *model.User, member *model.ProjectMember,
) error {
	return query.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if newUser != nil {
			if err := tx.Create(newUser).Error; err != nil {
				return err
			}
			if member != nil {
				member.UserID = newUser.ID
			}
		}
		if member != nil {
			if err := tx.Create(member).Error; err != nil {
				return err
			}
		}
		inv.Status = model.InvitationAccepted
		return tx.Save(inv).Error
	})
}
