package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/job_board/internal/models"
	"github.com/Skotchmaster/job_board/internal/testdb"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()
	return New(testdb.New(t), time.Second)
}

func seedUser(t *testing.T, r *GormRepo, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email, Username: email, Password: "x", FullName: "Name " + email, RoleID: models.RoleApplicant}
	require.NoError(t, r.CreateUser(context.Background(), u))
	return u
}

func TestJobRows_FoldInputHasOneRowPerChildCombination(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	job := &models.Job{Company: "Acme", Title: "Dev"}
	require.NoError(t, r.CreateJob(ctx, job, JobChildren{
		Qualifications:   []string{"Q1", "Q2"},
		Benefits:         []string{"B1"},
		Responsibilities: []string{"R1", "R2", "R3"},
	}))

	rows, err := r.JobRowsByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 6)
	for _, row := range rows {
		assert.Equal(t, job.ID, row.JobID)
		assert.Equal(t, "Acme", row.Company)
	}
}

func TestJobRows_LimitCountsJobsNotRows(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		require.NoError(t, r.CreateJob(ctx, &models.Job{Company: "Acme", Title: title}, JobChildren{
			Benefits: []string{"B1", "B2", "B3"},
		}))
	}

	rows, err := r.JobRows(ctx, 0, 2)
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, "third", rows[0].Title)
	assert.Equal(t, "second", rows[5].Title)

	rows, err = r.JobRows(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "first", rows[0].Title)
}

func TestUpdateJob_ReplacesChildren(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	job := &models.Job{Company: "Acme", Title: "Dev"}
	require.NoError(t, r.CreateJob(ctx, job, JobChildren{Qualifications: []string{"old"}}))

	err := r.UpdateJob(ctx, job.ID, &models.Job{Company: "Globex", Title: "Ops"}, JobChildren{Benefits: []string{"new"}})
	require.NoError(t, err)

	rows, err := r.JobRowsByID(ctx, job.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Globex", rows[0].Company)
	assert.Nil(t, rows[0].Qualification)
	require.NotNil(t, rows[0].Benefit)
	assert.Equal(t, "new", *rows[0].Benefit)

	err = r.UpdateJob(ctx, 999, &models.Job{Company: "x", Title: "y"}, JobChildren{})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteJob(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	job := &models.Job{Company: "Acme", Title: "Dev"}
	require.NoError(t, r.CreateJob(ctx, job, JobChildren{Qualifications: []string{"Q"}, Benefits: []string{"B"}}))

	require.NoError(t, r.DeleteJob(ctx, job.ID))

	var children int64
	require.NoError(t, r.DB.Model(&models.Qualification{}).Where("job_id = ?", job.ID).Count(&children).Error)
	assert.Zero(t, children)

	assert.ErrorIs(t, r.DeleteJob(ctx, job.ID), gorm.ErrRecordNotFound)
}

func TestReplaceActiveCV_KeepsOneActive(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	u := seedUser(t, r, "a@x.com")

	first, err := r.ReplaceActiveCV(ctx, u.ID, []byte("v1"))
	require.NoError(t, err)
	second, err := r.ReplaceActiveCV(ctx, u.ID, []byte("v2"))
	require.NoError(t, err)

	var active int64
	require.NoError(t, r.DB.Model(&models.CV{}).Where("user_id = ? AND active = ?", u.ID, true).Count(&active).Error)
	assert.EqualValues(t, 1, active)

	cv, err := r.ActiveCV(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, cv.ID)
	assert.Nil(t, cv.CVData)

	_, err = r.ActiveCVWithOwner(ctx, first.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	dl, err := r.ActiveCVWithOwner(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), dl.CVData)
	assert.Equal(t, "Name a@x.com", dl.FullName)
}

func TestDeactivateCVs(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	u := seedUser(t, r, "a@x.com")

	n, err := r.DeactivateCVs(ctx, u.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	cv, err := r.ReplaceActiveCV(ctx, u.ID, []byte("pdf"))
	require.NoError(t, err)

	n, err = r.DeactivateCVs(ctx, u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = r.ActiveCV(ctx, u.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	meta, err := r.CVMeta(ctx, cv.ID)
	require.NoError(t, err)
	assert.False(t, meta.Active)
}

func TestResetToken_ExpiryIsEnforced(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	u := seedUser(t, r, "a@x.com")
	now := time.Now().UTC()

	require.NoError(t, r.SetResetToken(ctx, u.ID, "hash", now.Add(time.Hour)))

	got, err := r.UserByResetToken(ctx, "hash", now)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = r.UserByResetToken(ctx, "hash", now.Add(2*time.Hour))
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, r.ResetPassword(ctx, u.ID, "newhash"))
	_, err = r.UserByResetToken(ctx, "hash", now)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	got, err = r.UserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "newhash", got.Password)
	assert.Nil(t, got.ResetToken)
}

func TestApplicationQueries(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	u := seedUser(t, r, "a@x.com")
	job := &models.Job{Company: "Acme", Title: "Dev"}
	require.NoError(t, r.CreateJob(ctx, job, JobChildren{}))
	cv, err := r.ReplaceActiveCV(ctx, u.ID, []byte("pdf"))
	require.NoError(t, err)

	applied, err := r.HasApplied(ctx, u.ID, job.ID)
	require.NoError(t, err)
	assert.False(t, applied)

	require.NoError(t, r.CreateApplication(ctx, &models.Application{UserID: u.ID, JobID: job.ID, CVID: cv.ID}))

	applied, err = r.HasApplied(ctx, u.ID, job.ID)
	require.NoError(t, err)
	assert.True(t, applied)

	rows, err := r.ApplicationsWithJob(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Dev", rows[0].Title)
	assert.Equal(t, cv.ID, rows[0].CVID)

	overview, err := r.ApplicationsOverview(ctx)
	require.NoError(t, err)
	require.Len(t, overview, 1)
	assert.Equal(t, []byte("pdf"), overview[0].CVData)
	assert.Equal(t, "Name a@x.com", overview[0].FullName)

	ids, err := r.ApplicantUserIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint{u.ID}, ids)
}

func TestDecisionQueries(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	u := seedUser(t, r, "a@x.com")
	job := &models.Job{Company: "Acme", Title: "Dev"}
	require.NoError(t, r.CreateJob(ctx, job, JobChildren{}))

	require.NoError(t, r.DB.Create(&models.ApprovedApplicant{UserID: u.ID, JobID: job.ID, ApprovedAt: time.Now()}).Error)
	require.NoError(t, r.DB.Create(&models.RejectedApplicant{UserID: u.ID, JobID: job.ID, Reason: "late", RejectedAt: time.Now()}).Error)

	ok, err := r.IsApproved(ctx, u.ID, job.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.IsApproved(ctx, u.ID, job.ID+1)
	require.NoError(t, err)
	assert.False(t, ok)

	approved, err := r.ApprovedWithJob(ctx)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, "Acme", approved[0].Company)

	rejected, err := r.RejectedWithJob(ctx)
	require.NoError(t, err)
	require.Len(t, rejected, 1)
	assert.Equal(t, "late", rejected[0].Reason)
	assert.Equal(t, "Name a@x.com", rejected[0].FullName)

	mine, err := r.RejectedByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestSearchJobIDs(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.CreateJob(ctx, &models.Job{Company: "Acme", Title: "Go Developer"}, JobChildren{}))
	require.NoError(t, r.CreateJob(ctx, &models.Job{Company: "Globex", Title: "Designer"}, JobChildren{}))

	total, ids, err := r.SearchJobIDs(ctx, "developer", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, ids, 1)
}
