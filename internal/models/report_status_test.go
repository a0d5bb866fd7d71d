package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseReportStatus(t *testing.T) {
	for _, st := range AllReportStatuses {
		got, ok := ParseReportStatus(string(st))
		assert.True(t, ok, st)
		assert.Equal(t, st, got)
	}

	for _, bad := range []string{"", "submitted", "Resolved ", "Pending"} {
		_, ok := ParseReportStatus(bad)
		assert.False(t, ok, bad)
	}
}

func TestReportStatus_Terminal(t *testing.T) {
	terminal := map[ReportStatus]bool{
		StatusResolved:  true,
		StatusClosed:    true,
		StatusCancelled: true,
	}
	assert.Len(t, AllReportStatuses, 9)
	for _, st := range AllReportStatuses {
		assert.Equal(t, terminal[st], st.Terminal(), st)
		assert.Equal(t, terminal[st], st.RequiresComment(), st)
	}
}

func TestScamType_Valid(t *testing.T) {
	assert.True(t, ScamPhishing.Valid())
	assert.True(t, ScamType("Other").Valid())
	assert.False(t, ScamType("phishing").Valid())
	assert.False(t, ScamType("").Valid())
}

func TestRole(t *testing.T) {
	assert.True(t, RoleAdmin.Reviewer())
	assert.True(t, RoleExternal.Reviewer())
	assert.False(t, RoleUser.Reviewer())
	assert.False(t, Role("root").Valid())
}
