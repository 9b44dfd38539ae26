package httpserver

import (
	"bytes"
	"image"
	"image/png"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"

	"github.com/Skotchmaster/job_board/internal/export"
	"github.com/Skotchmaster/job_board/internal/models"
	"github.com/Skotchmaster/job_board/internal/transport"
)

func TestRegisterThenLogin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(t, http.MethodPost, "/auth/register", map[string]any{
		"email": "a@x.com", "password": "pw", "full_name": "A",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.doJSON(t, http.MethodPost, "/auth/login", map[string]any{"email": "a@x.com", "password": "pw"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[transport.LoginResponse](t, rec)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "a@x.com", resp.User.Email)
	assert.Equal(t, models.RoleApplicant, resp.User.RoleID)

	rec = env.doJSON(t, http.MethodPost, "/auth/register", map[string]any{"email": "a@x.com", "password": "pw"}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.doJSON(t, http.MethodPost, "/auth/login", map[string]any{"email": "a@x.com", "password": "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.doJSON(t, http.MethodPost, "/auth/login", map[string]any{"email": "nobody@x.com", "password": "pw"}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.doJSON(t, http.MethodPost, "/auth/register", map[string]any{"password": "pw"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "email is required", message(t, rec))
}

func createJob(t *testing.T, env *testEnv, auth map[string]string, title string) uint {
	t.Helper()
	rec := env.doMultipart(t, http.MethodPost, "/jobs/create-job", map[string]string{
		"company":          "Acme",
		"title":            title,
		"type":             "Full-time",
		"daysPosted":       "3",
		"responsibilities": `["R1","R2"]`,
		"qualifications":   `[]`,
		"benefits":         `["B1"]`,
	}, []filePart{{field: "company_image", name: "logo.png", data: []byte("logo")}}, auth)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[transport.JobCreated](t, rec).ID
}

func TestJobLifecycle(t *testing.T) {
	env := newTestEnv(t)
	boss, _ := env.signup(t, "boss@x.com", models.RoleEmployer)
	applicant, _ := env.signup(t, "a@x.com", models.RoleApplicant)

	id := createJob(t, env, boss, "Go Dev")

	rec := env.doJSON(t, http.MethodGet, path("/jobs/jobs/%d", id), nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	job := decode[transport.Job](t, rec)
	assert.Equal(t, []string{"R1", "R2"}, job.Responsibilities)
	assert.Equal(t, []string{}, job.Qualifications)
	assert.Equal(t, []string{"B1"}, job.Benefits)
	require.NotNil(t, job.CompanyImage)
	assert.Equal(t, "bG9nbw==", *job.CompanyImage)
	assert.Contains(t, rec.Body.String(), `"qualifications":[]`)

	rec = env.doMultipart(t, http.MethodPost, "/jobs/create-job", map[string]string{"company": "Acme", "title": "x"}, nil, applicant)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.doJSON(t, http.MethodPut, path("/jobs/update-job/%d", id), transport.JobInput{
		Company: "Acme", Title: "Senior Go Dev", Qualifications: []string{"Q1"},
	}, applicant)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.doJSON(t, http.MethodPut, path("/jobs/update-job/%d", id), transport.JobInput{
		Company: "Acme", Title: "Senior Go Dev", Qualifications: []string{"Q1"},
	}, boss)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.doJSON(t, http.MethodGet, "/jobs/jobs", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	jobs := decode[[]transport.Job](t, rec)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Senior Go Dev", jobs[0].Title)
	assert.Equal(t, []string{"Q1"}, jobs[0].Qualifications)
	assert.Equal(t, []string{}, jobs[0].Responsibilities)

	rec = env.doJSON(t, http.MethodGet, "/jobs/search?q=senior", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[transport.JobSearchResult](t, rec).Data, 1)

	rec = env.doJSON(t, http.MethodDelete, path("/jobs/delete-job/%d", id), nil, boss)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.doJSON(t, http.MethodGet, path("/jobs/jobs/%d", id), nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Job not found", message(t, rec))

	rec = env.doJSON(t, http.MethodGet, "/jobs/jobs/abc", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCVFlow(t *testing.T) {
	env := newTestEnv(t)
	auth, _ := env.signup(t, "ana@x.com", models.RoleApplicant)
	h := withAPIKey(auth)

	rec := env.doMultipart(t, http.MethodPost, "/cv/upload", nil, []filePart{{field: "cv", name: "cv.pdf", data: []byte("%PDF-1.4")}}, auth)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid API key", message(t, rec))

	rec = env.doMultipart(t, http.MethodPost, "/cv/upload", nil, []filePart{{field: "cv", name: "cv.pdf", data: []byte("%PDF-1.4")}}, h)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	cvID := uint(decode[map[string]any](t, rec)["cvId"].(float64))

	rec = env.doJSON(t, http.MethodGet, "/cv/user-cv", nil, h)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, cvID, decode[transport.CVMeta](t, rec).ID)

	rec = env.doJSON(t, http.MethodGet, path("/cv/download-cv/%d", cvID), nil, h)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Test_ana_CV.pdf")
	assert.Equal(t, "%PDF-1.4", rec.Body.String())

	rec = env.doJSON(t, http.MethodDelete, "/cv/delete", nil, h)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.doJSON(t, http.MethodGet, "/cv/user-cv", nil, h)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No CV found", message(t, rec))

	rec = env.doJSON(t, http.MethodDelete, "/cv/delete", nil, h)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestApplyStatusAndReport(t *testing.T) {
	env := newTestEnv(t)
	boss, _ := env.signup(t, "boss@x.com", models.RoleEmployer)
	auth, userID := env.signup(t, "a@x.com", models.RoleApplicant)
	jobID := createJob(t, env, boss, "Go Dev")

	rec := env.doMultipart(t, http.MethodPost, "/cv/upload", nil, []filePart{{field: "cv", name: "cv.pdf", data: []byte("pdf")}}, withAPIKey(auth))
	require.Equal(t, http.StatusCreated, rec.Code)
	cvID := uint(decode[map[string]any](t, rec)["cvId"].(float64))

	apply := transport.ApplyRequest{JobID: jobID, CVID: cvID}
	rec = env.doJSON(t, http.MethodPost, "/applications/apply", apply, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.doJSON(t, http.MethodPost, "/applications/apply", apply, auth)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.doJSON(t, http.MethodPost, "/applications/apply", apply, auth)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.doJSON(t, http.MethodGet, path("/applications/has-applied/%d", jobID), nil, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[map[string]bool](t, rec)["hasApplied"])

	rec = env.doJSON(t, http.MethodGet, path("/applications/applications/%d", userID), nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	apps := decode[[]transport.ApplicationWithStatus](t, rec)
	require.Len(t, apps, 1)
	assert.Equal(t, "applied", apps[0].Status)
	assert.Equal(t, "Go Dev", apps[0].Title)
	require.NotNil(t, apps[0].CV)

	require.NoError(t, env.DB.Create(&models.ApprovedApplicant{
		UserID: userID, JobID: jobID, CVID: cvID, ApprovedAt: time.Now().UTC(),
	}).Error)

	rec = env.doJSON(t, http.MethodGet, path("/applications/applications/%d", userID), nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "passed", decode[[]transport.ApplicationWithStatus](t, rec)[0].Status)

	rec = env.doJSON(t, http.MethodGet, "/approved-applicants/approvedApplicants", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	report := decode[transport.ApprovalReport](t, rec)
	assert.Equal(t, 1, report.Passed)
	assert.Equal(t, 0, report.NotPassed)
	assert.Equal(t, map[string]int{"Go Dev": 1}, report.ByJob)

	rec = env.doJSON(t, http.MethodGet, "/approved-applicants/export", nil, auth)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.doJSON(t, http.MethodGet, "/approved-applicants/export", nil, boss)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.ContentType, rec.Header().Get("Content-Type"))
	wb, err := xlsx.OpenBinary(rec.Body.Bytes())
	require.NoError(t, err)
	cell, err := wb.Sheet["Summary"].Cell(1, 1)
	require.NoError(t, err)
	assert.Equal(t, "1", cell.Value)

	rec = env.doJSON(t, http.MethodGet, "/jobs/applications", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]transport.ApplicationOverview](t, rec), 1)

	rec = env.doJSON(t, http.MethodGet, path("/applications/user/%d", userID), nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Application](t, rec), 1)

	rec = env.doJSON(t, http.MethodGet, path("/applications/rejected/%d", userID), nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]models.RejectedApplicant](t, rec))
}

func TestPasswordResetFlow(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "a@x.com", models.RoleApplicant)

	rec := env.doJSON(t, http.MethodPost, "/auth/forgot-password", map[string]string{"email": "nobody@x.com"}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.doJSON(t, http.MethodPost, "/auth/forgot-password", map[string]string{"email": "a@x.com"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	mail := env.Mailer.last()
	assert.Equal(t, "a@x.com", mail.to)
	require.True(t, strings.HasPrefix(mail.link, "http://front.test/reset-password/"))
	token := strings.TrimPrefix(mail.link, "http://front.test/reset-password/")

	rec = env.doJSON(t, http.MethodPost, "/auth/reset-password/bogus", map[string]string{"newPassword": "new"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.doJSON(t, http.MethodPost, "/auth/reset-password/"+token, map[string]string{"newPassword": "new"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.doJSON(t, http.MethodPost, "/auth/login", map[string]string{"email": "a@x.com", "password": "new"}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.doJSON(t, http.MethodPost, "/auth/reset-password/"+token, map[string]string{"newPassword": "again"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func TestProfileImage(t *testing.T) {
	env := newTestEnv(t)
	auth, userID := env.signup(t, "a@x.com", models.RoleApplicant)
	_, otherID := env.signup(t, "b@x.com", models.RoleApplicant)
	img := pngBytes(t)

	rec := env.doMultipart(t, http.MethodPost, path("/users/upload-image/%d", otherID), nil,
		[]filePart{{field: "profile_image", name: "me.png", data: img}}, auth)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.doMultipart(t, http.MethodPost, path("/users/upload-image/%d", userID), nil,
		[]filePart{{field: "profile_image", name: "me.gif", data: img}}, auth)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.doMultipart(t, http.MethodPost, path("/users/upload-image/%d", userID), nil,
		[]filePart{{field: "profile_image", name: "me.png", data: img}}, auth)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.doJSON(t, http.MethodGet, path("/users/profile-image/%d", userID), nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, img, rec.Body.Bytes())

	rec = env.doJSON(t, http.MethodGet, path("/users/profile-image/%d", otherID), nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSystemRoutes(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(t, http.MethodGet, "/", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.doJSON(t, http.MethodGet, "/status", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.doJSON(t, http.MethodGet, "/health/ready", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
