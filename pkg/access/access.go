// Package access decides what a caller may see or change. Every
// operation takes the caller identity explicitly; nothing is read from
// ambient request state. Operations are pure read-and-decide: callers
// perform mutations only after a successful resolution.
//
// Policy: the organization boundary is checked before any role check,
// and a cross-tenant lookup reports domain.ErrNotFound rather than
// domain.ErrForbidden so that resource existence never leaks across
// tenants. Within a tenant, missing membership reports ErrForbidden.
package access

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/atelier-hq/workplane/dao/model"
	projectdb "github.com/atelier-hq/workplane/pkg/db/project"
	spacedb "github.com/atelier-hq/workplane/pkg/db/space"
	"github.com/atelier-hq/workplane/pkg/domain"
)

// Identity is the resolved caller passed into every resolution.
type Identity struct {
	UserID         uint
	OrganizationID uint
	Role           model.Role
}

// ProjectResolution is a successful project access decision.
type ProjectResolution struct {
	Project *model.Project
	Role    model.MemberRole
}

// SpaceResolution is a successful space edit-access decision.
type SpaceResolution struct {
	Space *model.Space
	Role  model.MemberRole
}

type Resolver struct {
	projects projectdb.DBService
	spaces   spacedb.DBService
}

func NewResolver(projects projectdb.DBService, spaces spacedb.DBService) *Resolver {
	return &Resolver{projects: projects, spaces: spaces}
}

// ResolveProjectAccess grants read access when the caller holds a
// ProjectMember row, whatever the role. Projects never inherit the
// space's public-access rule, and membership alone governs visibility.
func (r *Resolver) ResolveProjectAccess(
	ctx context.Context, caller Identity, projectID uint,
) (*ProjectResolution, error) {
	if caller.UserID == 0 {
		return nil, domain.ErrUnauthorized
	}
	project, err := r.projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("project %d: %w", projectID, domain.ErrNotFound)
		}
		return nil, err
	}
	member, err := r.projects.GetMember(ctx, projectID, caller.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("project %d: %w", projectID, domain.ErrForbidden)
		}
		return nil, err
	}
	return &ProjectResolution{Project: project, Role: member.Role}, nil
}

// ResolveProjectEditAccess additionally rejects the viewer role.
func (r *Resolver) ResolveProjectEditAccess(
	ctx context.Context, caller Identity, projectID uint,
) (*ProjectResolution, error) {
	res, err := r.ResolveProjectAccess(ctx, caller, projectID)
	if err != nil {
		return nil, err
	}
	if !res.Role.CanEdit() {
		return nil, fmt.Errorf("project %d: viewer role: %w", projectID, domain.ErrForbidden)
	}
	return res, nil
}

// ResolveProjectMemberManageAccess requires owner or admin in the
// project, or the organization admin override.
func (r *Resolver) ResolveProjectMemberManageAccess(
	ctx context.Context, caller Identity, projectID uint,
) (*ProjectResolution, error) {
	res, err := r.ResolveProjectAccess(ctx, caller, projectID)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) && caller.Role == model.RoleAdmin {
			// Org admins manage members of projects they are not in,
			// as long as the project is in their own organization.
			project, gerr := r.projects.GetByID(ctx, projectID)
			if gerr != nil {
				return nil, gerr
			}
			if project.OrganizationID == caller.OrganizationID {
				return &ProjectResolution{Project: project, Role: model.MemberRoleAdmin}, nil
			}
		}
		return nil, err
	}
	if !res.Role.CanManageMembers() && caller.Role != model.RoleAdmin {
		return nil, fmt.Errorf("project %d: member management: %w", projectID, domain.ErrForbidden)
	}
	return res, nil
}

// ResolveSpaceVisibility reports whether the caller may read the space:
// a public space is visible to everyone in its organization, a private
// one only to explicit members.
func (r *Resolver) ResolveSpaceVisibility(
	ctx context.Context, caller Identity, space *model.Space,
) (bool, error) {
	if space.IsPublic && space.OrganizationID == caller.OrganizationID {
		return true, nil
	}
	_, err := r.spaces.GetMember(ctx, space.ID, caller.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ResolveSpaceEditAccess requires an explicit owner or admin membership.
// Public visibility never grants edit rights.
func (r *Resolver) ResolveSpaceEditAccess(
	ctx context.Context, caller Identity, spaceID uint,
) (*SpaceResolution, error) {
	if caller.UserID == 0 {
		return nil, domain.ErrUnauthorized
	}
	space, err := r.spaces.GetByID(ctx, spaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("space %d: %w", spaceID, domain.ErrNotFound)
		}
		return nil, err
	}
	if err := ResolveOrganizationBoundary(caller.OrganizationID, space.OrganizationID); err != nil {
		return nil, err
	}
	member, err := r.spaces.GetMember(ctx, spaceID, caller.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("space %d: %w", spaceID, domain.ErrForbidden)
		}
		return nil, err
	}
	if !member.Role.CanManageMembers() {
		return nil, fmt.Errorf("space %d: role %d: %w", spaceID, member.Role, domain.ErrForbidden)
	}
	return &SpaceResolution{Space: space, Role: member.Role}, nil
}

// EnsureNotLastOwner guards member removal and owner demotion: a
// project must always retain at least one owner.
func (r *Resolver) EnsureNotLastOwner(ctx context.Context, target *model.ProjectMember) error {
	if target.Role != model.MemberRoleOwner {
		return nil
	}
	owners, err := r.projects.CountOwners(ctx, target.ProjectID)
	if err != nil {
		return err
	}
	if owners <= 1 {
		return fmt.Errorf("project %d must keep at least one owner: %w",
			target.ProjectID, domain.ErrBadRequest)
	}
	return nil
}

// ResolveOrganizationBoundary rejects cross-tenant access. Applied
// before any role check whenever the resource's organization is already
// known (epics, sprints, attachments key off organization equality).
func ResolveOrganizationBoundary(callerOrgID, resourceOrgID uint) error {
	if callerOrgID != resourceOrgID {
		return fmt.Errorf("organization mismatch: %w", domain.ErrNotFound)
	}
	return nil
}

// CanAdminOverride reports whether the caller may perform destructive
// actions on another member's child records (attachments, comments).
func CanAdminOverride(caller Identity) bool {
	return caller.Role == model.RoleAdmin
}
