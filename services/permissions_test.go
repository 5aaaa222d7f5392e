package services

import (
	"testing"

	"github.com/framewave-studio/framewave-portal-api/models"
	"github.com/stretchr/testify/assert"
)

func TestCanCreateProposal(t *testing.T) {
	tests := []struct {
		role    string
		allowed bool
	}{
		{models.RoleSuperAdmin, true},
		{models.RoleProjectManager, false},
		{models.RoleTeamMember, false},
		{models.RoleClient, false},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			user := &models.User{Role: tt.role}
			assert.Equal(t, tt.allowed, CanCreateProposal(user))
		})
	}
}

func TestCanForceEdit(t *testing.T) {
	assert.True(t, CanForceEdit(&models.User{Role: models.RoleSuperAdmin}))
	assert.False(t, CanForceEdit(&models.User{Role: models.RoleProjectManager}))
	assert.False(t, CanForceEdit(&models.User{Role: models.RoleTeamMember}))
	assert.False(t, CanForceEdit(&models.User{Role: models.RoleClient}))
}

func TestCanViewAllInquiries(t *testing.T) {
	assert.True(t, CanViewAllInquiries(&models.User{Role: models.RoleSuperAdmin}))
	assert.True(t, CanViewAllInquiries(&models.User{Role: models.RoleProjectManager}))
	assert.False(t, CanViewAllInquiries(&models.User{Role: models.RoleTeamMember}))
	assert.False(t, CanViewAllInquiries(&models.User{Role: models.RoleClient}))
}

func TestCanViewAllProjects(t *testing.T) {
	assert.True(t, CanViewAllProjects(&models.User{Role: models.RoleSuperAdmin}))
	assert.True(t, CanViewAllProjects(&models.User{Role: models.RoleProjectManager}))
	assert.False(t, CanViewAllProjects(&models.User{Role: models.RoleTeamMember}))
	assert.False(t, CanViewAllProjects(&models.User{Role: models.RoleClient}))
}

func TestCanManageTeam(t *testing.T) {
	assert.True(t, CanManageTeam(&models.User{Role: models.RoleSuperAdmin}))
	assert.True(t, CanManageTeam(&models.User{Role: models.RoleProjectManager}))
	assert.False(t, CanManageTeam(&models.User{Role: models.RoleTeamMember}))
	assert.False(t, CanManageTeam(&models.User{Role: models.RoleClient}))
}

func TestCanAccessInquiry(t *testing.T) {
	ownerID := uint(7)
	otherID := uint(8)

	tests := []struct {
		name     string
		user     *models.User
		inquiry  *models.Inquiry
		expected bool
	}{
		{
			name:     "Staff can access any inquiry",
			user:     &models.User{ID: otherID, Role: models.RoleTeamMember},
			inquiry:  &models.Inquiry{ClientUserID: &ownerID},
			expected: true,
		},
		{
			name:     "Client can access their own inquiry",
			user:     &models.User{ID: ownerID, Role: models.RoleClient},
			inquiry:  &models.Inquiry{ClientUserID: &ownerID},
			expected: true,
		},
		{
			name:     "Client cannot access someone else's inquiry",
			user:     &models.User{ID: otherID, Role: models.RoleClient},
			inquiry:  &models.Inquiry{ClientUserID: &ownerID},
			expected: false,
		},
		{
			name:     "Ownership not enforced when no owner recorded",
			user:     &models.User{ID: otherID, Role: models.RoleClient},
			inquiry:  &models.Inquiry{ClientUserID: nil},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CanAccessInquiry(tt.user, tt.inquiry))
		})
	}
}

func TestCanEditProposal(t *testing.T) {
	admin := &models.User{Role: models.RoleSuperAdmin}
	manager := &models.User{Role: models.RoleProjectManager}
	client := &models.User{Role: models.RoleClient}

	// Normal edits are allowed only during a revision cycle
	assert.True(t, CanEditProposal(admin, models.ProposalStatusChangesRequested, false))
	assert.True(t, CanEditProposal(manager, models.ProposalStatusChangesRequested, false))
	assert.False(t, CanEditProposal(admin, models.ProposalStatusSent, false))
	assert.False(t, CanEditProposal(admin, models.ProposalStatusAccepted, false))
	assert.False(t, CanEditProposal(client, models.ProposalStatusChangesRequested, false))

	// Force edits bypass the lock, but only for super admins
	assert.True(t, CanEditProposal(admin, models.ProposalStatusSent, true))
	assert.True(t, CanEditProposal(admin, models.ProposalStatusAccepted, true))
	assert.False(t, CanEditProposal(manager, models.ProposalStatusSent, true))
	assert.False(t, CanEditProposal(client, models.ProposalStatusSent, true))
}

func TestCanRespondToProposal(t *testing.T) {
	ownerID := uint(7)
	owned := &models.Inquiry{ClientUserID: &ownerID}

	assert.True(t, CanRespondToProposal(&models.User{ID: ownerID, Role: models.RoleClient}, owned))
	assert.False(t, CanRespondToProposal(&models.User{ID: 8, Role: models.RoleClient}, owned))

	// Staff do not respond on behalf of clients
	assert.False(t, CanRespondToProposal(&models.User{ID: ownerID, Role: models.RoleSuperAdmin}, owned))
	assert.False(t, CanRespondToProposal(&models.User{ID: ownerID, Role: models.RoleProjectManager}, owned))
}
