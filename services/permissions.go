package services

import (
	"github.com/framewave-studio/framewave-portal-api/models"
)

// Permission evaluator: stateless predicates keyed by role, entity status
// and ownership. Every controller entry point for a lifecycle mutation calls
// one of these before mutating; none of them has side effects.

// CanCreateProposal reports whether the user may create a proposal
func CanCreateProposal(user *models.User) bool {
	return user.Role == models.RoleSuperAdmin
}

// CanForceEdit reports whether the user may bypass the proposal edit-lock
func CanForceEdit(user *models.User) bool {
	return user.Role == models.RoleSuperAdmin
}

// CanViewAllInquiries reports whether the user sees every inquiry, not just
// their own
func CanViewAllInquiries(user *models.User) bool {
	return user.Role == models.RoleSuperAdmin || user.Role == models.RoleProjectManager
}

// CanViewAllProjects reports whether the user sees every converted project
func CanViewAllProjects(user *models.User) bool {
	return user.Role == models.RoleSuperAdmin || user.Role == models.RoleProjectManager
}

// CanManageTeam reports whether the user may manage team membership
func CanManageTeam(user *models.User) bool {
	return user.Role == models.RoleSuperAdmin || user.Role == models.RoleProjectManager
}

// CanAccessInquiry reports whether the user may view or act on the inquiry.
// Staff always can. Clients can when they own the inquiry; when the inquiry
// has no owner recorded, ownership is not enforced.
func CanAccessInquiry(user *models.User, inquiry *models.Inquiry) bool {
	if user.IsStaff() {
		return true
	}
	if inquiry.ClientUserID == nil {
		return true
	}
	return *inquiry.ClientUserID == user.ID
}

// CanEditProposal evaluates the edit-lock for a proposal in the given
// status. Normal edits are allowed only during a revision cycle; a force
// edit bypasses the lock for privileged roles in any status.
func CanEditProposal(user *models.User, status string, force bool) bool {
	if force {
		return CanForceEdit(user)
	}
	if !user.IsStaff() {
		return false
	}
	return status == models.ProposalStatusChangesRequested
}

// CanRespondToProposal reports whether the user may accept, reject or
// request changes on the proposal belonging to the given inquiry
func CanRespondToProposal(user *models.User, inquiry *models.Inquiry) bool {
	if user.Role != models.RoleClient {
		return false
	}
	return CanAccessInquiry(user, inquiry)
}
