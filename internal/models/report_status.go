package models

// ReportStatus is the lifecycle state of a scam report.
type ReportStatus string

const (
	StatusSubmitted        ReportStatus = "Submitted"
	StatusInProgress       ReportStatus = "In Progress"
	StatusWaitingForUpdate ReportStatus = "Waiting for Update"
	StatusUnderReview      ReportStatus = "Under Review"
	StatusEscalated        ReportStatus = "Escalated"
	StatusResolved         ReportStatus = "Resolved"
	StatusClosed           ReportStatus = "Closed"
	StatusOnHold           ReportStatus = "On Hold"
	StatusCancelled        ReportStatus = "Cancelled"
)

// AllReportStatuses lists every status in display order.
var AllReportStatuses = []ReportStatus{
	StatusSubmitted,
	StatusInProgress,
	StatusWaitingForUpdate,
	StatusUnderReview,
	StatusEscalated,
	StatusResolved,
	StatusClosed,
	StatusOnHold,
	StatusCancelled,
}

// ParseReportStatus returns the status matching s exactly.
func ParseReportStatus(s string) (ReportStatus, bool) {
	for _, st := range AllReportStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

func (s ReportStatus) Valid() bool {
	_, ok := ParseReportStatus(string(s))
	return ok
}

// Terminal reports accept no further transitions.
func (s ReportStatus) Terminal() bool {
	switch s {
	case StatusResolved, StatusClosed, StatusCancelled:
		return true
	}
	return false
}

// RequiresComment reports whether entering s must record admin comments.
func (s ReportStatus) RequiresComment() bool {
	return s.Terminal()
}
