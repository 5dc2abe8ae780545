package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextStatus(t *testing.T) {
	tests := []struct {
		name    string
		from    ProjectStatus
		action  ProjectAction
		want    ProjectStatus
		allowed bool
	}{
		{"select on pending", ProjectStatusPending, ActionSelectDelegate, ProjectStatusActive, true},
		{"close accept on active", ProjectStatusActive, ActionCloseAccept, ProjectStatusClosed, true},
		{"select on active", ProjectStatusActive, ActionSelectDelegate, "", false},
		{"close accept on pending", ProjectStatusPending, ActionCloseAccept, "", false},
		{"close accept on closed", ProjectStatusClosed, ActionCloseAccept, "", false},
		{"select on completed", ProjectStatusCompleted, ActionSelectDelegate, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, ok := NextStatus(tt.from, tt.action)
			assert.Equal(t, tt.allowed, ok)
			if tt.allowed {
				assert.Equal(t, tt.want, next)
			}
		})
	}
}

func TestDeadlineActive(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	assert.True(t, (&Project{Deadline: nil}).DeadlineActive(now))
	assert.True(t, (&Project{Deadline: &future}).DeadlineActive(now))
	assert.False(t, (&Project{Deadline: &past}).DeadlineActive(now))
	assert.False(t, (&Project{Deadline: &now}).DeadlineActive(now))
}

func TestIsParticipant(t *testing.T) {
	delegate := uint(7)
	p := &Project{DelegatorID: 3, DelegateID: &delegate}

	assert.True(t, p.IsParticipant(3))
	assert.True(t, p.IsParticipant(7))
	assert.False(t, p.IsParticipant(9))

	unassigned := &Project{DelegatorID: 3}
	assert.True(t, unassigned.IsParticipant(3))
	assert.False(t, unassigned.IsParticipant(7))
}

func TestOtherParty(t *testing.T) {
	delegate := uint(7)
	p := &Project{DelegatorID: 3, DelegateID: &delegate}

	other, ok := p.OtherParty(3)
	assert.True(t, ok)
	assert.Equal(t, uint(7), other)

	other, ok = p.OtherParty(7)
	assert.True(t, ok)
	assert.Equal(t, uint(3), other)

	_, ok = p.OtherParty(9)
	assert.False(t, ok)

	unassigned := &Project{DelegatorID: 3}
	_, ok = unassigned.OtherParty(3)
	assert.False(t, ok)
}

func TestDisplayVersion(t *testing.T) {
	v := 4
	assert.Equal(t, 4, (&ClosureFile{Version: &v}).DisplayVersion())
	assert.Equal(t, 1, (&ClosureFile{}).DisplayVersion())
}
