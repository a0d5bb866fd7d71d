package services

import (
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/models"
)

// ReviewerRole selects which status update surface an actor came through.
type ReviewerRole string

const (
	ReviewerInternal ReviewerRole = "internal"
	ReviewerExternal ReviewerRole = "external"
)

func (r ReviewerRole) Valid() bool {
	_, ok := transitionTable[r]
	return ok
}

// ReviewerRoleFor maps an account role to its reviewer surface.
func ReviewerRoleFor(role models.Role) (ReviewerRole, bool) {
	switch role {
	case models.RoleAdmin:
		return ReviewerInternal, true
	case models.RoleExternal:
		return ReviewerExternal, true
	}
	return "", false
}

// transitionTable is the full rule set: the statuses each reviewer role may
// set on a non-terminal report.
var transitionTable = map[ReviewerRole][]models.ReportStatus{
	ReviewerInternal: {
		models.StatusInProgress,
		models.StatusCancelled,
	},
	ReviewerExternal: {
		models.StatusWaitingForUpdate,
		models.StatusUnderReview,
		models.StatusEscalated,
		models.StatusOnHold,
		models.StatusResolved,
		models.StatusClosed,
	},
}

// TransitionTable returns a copy of the role rule set.
func TransitionTable() map[ReviewerRole][]models.ReportStatus {
	out := make(map[ReviewerRole][]models.ReportStatus, len(transitionTable))
	for role, targets := range transitionTable {
		out[role] = append([]models.ReportStatus(nil), targets...)
	}
	return out
}

// AllowedTransitions lists the statuses role may move a report in from to.
// Terminal reports have none; re-setting the current status is not a move.
func AllowedTransitions(role ReviewerRole, from models.ReportStatus) []models.ReportStatus {
	if from.Terminal() {
		return nil
	}
	var allowed []models.ReportStatus
	for _, to := range transitionTable[role] {
		if to != from {
			allowed = append(allowed, to)
		}
	}
	return allowed
}

// CheckTransition returns a *TransitionError unless role may move from to.
func CheckTransition(role ReviewerRole, from, to models.ReportStatus) error {
	allowed := AllowedTransitions(role, from)
	for _, st := range allowed {
		if st == to {
			return nil
		}
	}
	return &TransitionError{Current: from, Requested: to, Allowed: allowed}
}
