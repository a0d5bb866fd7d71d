package services

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/repository"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type lifecycleFixture struct {
	db        *gorm.DB
	repo      *repository.ReportRepository
	lifecycle *LifecycleService
	owner     *models.User
}

func newLifecycleFixture(t *testing.T) *lifecycleFixture {
	t.Helper()
	db := testutil.NewDB(t)
	repo := repository.NewReportRepository(db)
	later := testutil.Now.Add(time.Hour)
	return &lifecycleFixture{
		db:        db,
		repo:      repo,
		lifecycle: NewLifecycleService(repo).WithClock(func() time.Time { return later }),
		owner:     testutil.CreateUser(t, db, "victim@example.com", models.RoleUser),
	}
}

func (f *lifecycleFixture) report(t *testing.T, status models.ReportStatus) *models.Report {
	return testutil.CreateReport(t, f.db, f.owner.ID, status)
}

func TestLifecycle_ReviewFlow(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	report := f.report(t, models.StatusSubmitted)

	got, err := f.lifecycle.UpdateStatus(ctx, report.ID, ReviewerExternal, StatusUpdate{Status: "Under Review"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnderReview, got.Status)
	assert.Equal(t, 2, got.Version)
	assert.True(t, got.LastModified.After(report.LastModified))

	got, err = f.lifecycle.UpdateStatus(ctx, report.ID, ReviewerInternal, StatusUpdate{Status: "In Progress"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, got.Status)

	_, err = f.lifecycle.UpdateStatus(ctx, report.ID, ReviewerExternal, StatusUpdate{Status: "Resolved"})
	assert.ErrorIs(t, err, ErrMissingComment)
	unchanged, err := f.repo.GetByID(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, unchanged.Status)
	assert.Equal(t, 3, unchanged.Version)

	got, err = f.lifecycle.UpdateStatus(ctx, report.ID, ReviewerExternal, StatusUpdate{
		Status:  "Resolved",
		Comment: "funds recovered by bank",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, got.Status)
	require.NotNil(t, got.AdminComments)
	assert.Equal(t, "funds recovered by bank", *got.AdminComments)

	_, err = f.lifecycle.UpdateStatus(ctx, report.ID, ReviewerExternal, StatusUpdate{Status: "Under Review"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestLifecycle_SubmitThenResolveDirectly(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	proofs := testutil.NewProofStore()
	intake := NewIntakeService(f.repo, proofs, IntakeConfig{
		MaxProofBytes: testMaxProof,
		ScamDateFloor: time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC),
	}).WithClock(testutil.Clock)

	jpeg := testutil.JPEG(2048)
	report, err := intake.Submit(ctx, SubmitReportInput{
		UserID:      f.owner.ID,
		ScamType:    "Phishing",
		Description: "fake parcel delivery link",
		ScamDate:    "2024-01-10",
		Proof:       &ProofUpload{Filename: "sms.jpg", Size: int64(len(jpeg)), Content: bytes.NewReader(jpeg)},
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, report.Status)

	resolved, err := f.lifecycle.UpdateStatus(ctx, report.ID, ReviewerExternal, StatusUpdate{Status: "Resolved", Comment: "verified"})
	require.NoError(t, err)
	assert.Equal(t, report.ID, resolved.ID)
	assert.Equal(t, models.StatusResolved, resolved.Status)

	_, err = f.lifecycle.UpdateStatus(ctx, report.ID, ReviewerExternal, StatusUpdate{Status: "On Hold"})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	final, err := f.repo.GetByID(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, final.Status)
	assert.Equal(t, "verified", *final.AdminComments)
}

func TestLifecycle_InternalCannotResolve(t *testing.T) {
	f := newLifecycleFixture(t)
	report := f.report(t, models.StatusSubmitted)

	_, err := f.lifecycle.UpdateStatus(context.Background(), report.ID, ReviewerInternal, StatusUpdate{
		Status:  "Resolved",
		Comment: "done",
	})
	var terr *TransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, models.StatusSubmitted, terr.Current)
	assert.ElementsMatch(t, []models.ReportStatus{models.StatusInProgress, models.StatusCancelled}, terr.Allowed)
}

func TestLifecycle_CancelRequiresComment(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	report := f.report(t, models.StatusOnHold)

	_, err := f.lifecycle.UpdateStatus(ctx, report.ID, ReviewerInternal, StatusUpdate{Status: "Cancelled", Comment: "   "})
	assert.ErrorIs(t, err, ErrMissingComment)

	got, err := f.lifecycle.UpdateStatus(ctx, report.ID, ReviewerInternal, StatusUpdate{Status: "Cancelled", Comment: "duplicate"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, got.Status)
}

func TestLifecycle_KeepsCommentWhenNoneSupplied(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	report := f.report(t, models.StatusSubmitted)

	_, err := f.lifecycle.UpdateStatus(ctx, report.ID, ReviewerExternal, StatusUpdate{Status: "Under Review", Comment: "asked bank for logs"})
	require.NoError(t, err)
	got, err := f.lifecycle.UpdateStatus(ctx, report.ID, ReviewerExternal, StatusUpdate{Status: "Escalated"})
	require.NoError(t, err)
	require.NotNil(t, got.AdminComments)
	assert.Equal(t, "asked bank for logs", *got.AdminComments)
}

func TestLifecycle_Rejections(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	report := f.report(t, models.StatusSubmitted)

	t.Run("unknown status", func(t *testing.T) {
		_, err := f.lifecycle.UpdateStatus(ctx, report.ID, ReviewerExternal, StatusUpdate{Status: "Done"})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "status", verr.Field)
	})

	t.Run("missing report", func(t *testing.T) {
		_, err := f.lifecycle.UpdateStatus(ctx, 9999, ReviewerExternal, StatusUpdate{Status: "Under Review"})
		assert.ErrorIs(t, err, ErrReportNotFound)
	})

	t.Run("same status", func(t *testing.T) {
		moved, err := f.lifecycle.UpdateStatus(ctx, report.ID, ReviewerInternal, StatusUpdate{Status: "In Progress"})
		require.NoError(t, err)
		_, err = f.lifecycle.UpdateStatus(ctx, moved.ID, ReviewerInternal, StatusUpdate{Status: "In Progress"})
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("stale version", func(t *testing.T) {
		current, err := f.repo.GetByID(ctx, report.ID)
		require.NoError(t, err)
		_, err = f.lifecycle.UpdateStatus(ctx, report.ID, ReviewerExternal, StatusUpdate{
			Status:          "On Hold",
			ExpectedVersion: current.Version - 1,
		})
		assert.ErrorIs(t, err, ErrConcurrentUpdate)

		got, err := f.lifecycle.UpdateStatus(ctx, report.ID, ReviewerExternal, StatusUpdate{
			Status:          "On Hold",
			ExpectedVersion: current.Version,
		})
		require.NoError(t, err)
		assert.Equal(t, current.Version+1, got.Version)
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := f.lifecycle.UpdateStatus(ctx, report.ID, ReviewerRole("citizen"), StatusUpdate{Status: "Escalated"})
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestLifecycle_ConcurrentUpdatesApplyOnce(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	report := f.report(t, models.StatusSubmitted)

	requests := []struct {
		role ReviewerRole
		req  StatusUpdate
	}{
		{ReviewerExternal, StatusUpdate{Status: "Under Review", ExpectedVersion: 1}},
		{ReviewerInternal, StatusUpdate{Status: "In Progress", ExpectedVersion: 1}},
	}

	errs := make([]error, len(requests))
	var wg sync.WaitGroup
	for i, r := range requests {
		wg.Add(1)
		go func(i int, role ReviewerRole, req StatusUpdate) {
			defer wg.Done()
			_, errs[i] = f.lifecycle.UpdateStatus(ctx, report.ID, role, req)
		}(i, r.role, r.req)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, errors.Is(err, ErrConcurrentUpdate), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)

	final, err := f.repo.GetByID(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, final.Version)
	assert.Contains(t, []models.ReportStatus{models.StatusUnderReview, models.StatusInProgress}, final.Status)
}
