// Constants mirrored in database columns.
// Gin rejects zero values on fields tagged `binding:"required"`, so the
// first constant of every enum starts at iota + 1 to keep the zero value
// out of the valid range.
package model

// Role of a user inside an organization (the platform tenant).
type Role uint8

const (
	RoleReadOnly Role = iota + 1
	RoleMember
	RoleAdmin
)

// MemberRole of a user inside a space or project.
type MemberRole uint8

const (
	MemberRoleViewer MemberRole = iota + 1
	MemberRoleMember
	MemberRoleAdmin
	MemberRoleOwner
)

// CanEdit reports whether the role grants mutation rights.
// Viewer is the only read-only tier.
func (r MemberRole) CanEdit() bool {
	return r >= MemberRoleMember
}

// CanManageMembers reports whether the role may add, update or remove
// other members of the same resource.
func (r MemberRole) CanManageMembers() bool {
	return r >= MemberRoleAdmin
}

// User status
type Status uint8

const (
	StatusPending Status = iota + 1
	StatusActive
	StatusInactive
)

// Task status
type TaskStatus uint8

const (
	TaskPending TaskStatus = iota + 1
	TaskInProgress
	TaskCompleted
)

// Task priority
type TaskPriority uint8

const (
	PriorityLow TaskPriority = iota + 1
	PriorityMedium
	PriorityHigh
	PriorityUrgent
)

// Sprint status
type SprintStatus uint8

const (
	SprintPlanning SprintStatus = iota + 1
	SprintActive
	SprintCompleted
	SprintCancelled
)

// Epic status
type EpicStatus uint8

const (
	EpicOpen EpicStatus = iota + 1
	EpicInProgress
	EpicDone
)

// Invitation status
type InvitationStatus uint8

const (
	InvitationPending InvitationStatus = iota + 1
	InvitationAccepted
	InvitationDeclined
	InvitationExpired
)
