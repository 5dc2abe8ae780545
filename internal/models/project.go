package models

import "time"

type ProjectStatus string

const (
	ProjectStatusPending ProjectStatus = "pending"
	ProjectStatusActive  ProjectStatus = "active"
	// ProjectStatusCompleted is kept for rows written by earlier deployments;
	// no current code path produces it. History listings still match it.
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusClosed    ProjectStatus = "closed"
)

// ProjectAction names a lifecycle operation that may move a project between
// statuses.
type ProjectAction string

const (
	ActionSelectDelegate ProjectAction = "select_delegate"
	ActionCloseAccept    ProjectAction = "close_accept"
)

type transitionKey struct {
	from   ProjectStatus
	action ProjectAction
}

// transitions is the full set of legal lifecycle moves. Anything not in the
// table is rejected with an invalid-status error.
var transitions = map[transitionKey]ProjectStatus{
	{ProjectStatusPending, ActionSelectDelegate}: ProjectStatusActive,
	{ProjectStatusActive, ActionCloseAccept}:     ProjectStatusClosed,
}

// NextStatus returns the status produced by applying action in the given
// state, and whether the transition is allowed.
func NextStatus(from ProjectStatus, action ProjectAction) (ProjectStatus, bool) {
	next, ok := transitions[transitionKey{from, action}]
	return next, ok
}

// Project is work posted by a delegator. DelegateID is set once a quote is
// accepted; from then on delegator and delegate are the two assigned parties.
type Project struct {
	BaseModel
	Title       string        `gorm:"size:100;not null" json:"title"`
	Description string        `gorm:"type:text;not null" json:"description"`
	DelegatorID uint          `gorm:"not null;index" json:"delegator_id"`
	DelegateID  *uint         `gorm:"index" json:"delegate_id"`
	Status      ProjectStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Deadline    *time.Time    `json:"deadline"`

	Delegator User  `gorm:"foreignKey:DelegatorID" json:"-"`
	Delegate  *User `gorm:"foreignKey:DelegateID" json:"-"`
}

// CanTransition reports whether action is legal in the project's current
// status.
func (p *Project) CanTransition(action ProjectAction) bool {
	_, ok := NextStatus(p.Status, action)
	return ok
}

// DeadlineActive reports whether the quoting window is still open at now.
// A project with no deadline is always open while pending.
func (p *Project) DeadlineActive(now time.Time) bool {
	return p.Deadline == nil || now.Before(*p.Deadline)
}

// IsParticipant reports whether userID is the delegator or the assigned
// delegate.
func (p *Project) IsParticipant(userID uint) bool {
	if p.DelegatorID == userID {
		return true
	}
	return p.DelegateID != nil && *p.DelegateID == userID
}

// OtherParty returns the assigned counterpart of userID. The second return
// is false when no delegate is assigned or userID is not a participant.
func (p *Project) OtherParty(userID uint) (uint, bool) {
	if p.DelegateID == nil {
		return 0, false
	}
	switch userID {
	case p.DelegatorID:
		return *p.DelegateID, true
	case *p.DelegateID:
		return p.DelegatorID, true
	}
	return 0, false
}
