package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/job_board/internal/middleware"
)

type Deps struct {
	Gate        *middleware.Gate
	System      *SystemHTTP
	Auth        *AuthHTTP
	Password    *PasswordHTTP
	Jobs        *JobHTTP
	Application *ApplicationHTTP
	Report      *ReportHTTP
	CV          *CVHTTP
	Users       *UserHTTP
}

type Route struct {
	Method  string
	Path    string
	Handler echo.HandlerFunc
	Policy  middleware.Policy
}

var (
	public   = middleware.Policy{}
	bearer   = middleware.Policy{Access: middleware.Authenticated}
	employer = middleware.Policy{Access: middleware.Employer}
	cvAccess = middleware.Policy{APIKey: true, Access: middleware.Authenticated}
)

// Routes is the full authorization table. Every endpoint the server exposes is listed here.
func Routes(d *Deps) []Route {
	return []Route{
		{http.MethodGet, "/", d.System.Root, public},
		{http.MethodGet, "/status", d.System.Status, public},
		{http.MethodGet, "/health/live", d.System.Live, public},
		{http.MethodGet, "/health/ready", d.System.Ready, public},

		{http.MethodPost, "/auth/register", d.Auth.Register, public},
		{http.MethodPost, "/auth/login", d.Auth.Login, public},
		{http.MethodPost, "/auth/forgot-password", d.Password.ForgotPassword, public},
		{http.MethodPost, "/auth/reset-password/:token", d.Password.ResetPassword, public},

		{http.MethodGet, "/jobs/jobs", d.Jobs.ListJobs, public},
		{http.MethodGet, "/jobs/jobs/:id", d.Jobs.GetJob, public},
		{http.MethodGet, "/jobs/search", d.Jobs.SearchJobs, public},
		{http.MethodGet, "/jobs/applications", d.Jobs.Applications, public},
		{http.MethodPost, "/jobs/create-job", d.Jobs.CreateJob, employer},
		{http.MethodPut, "/jobs/update-job/:id", d.Jobs.UpdateJob, employer},
		{http.MethodDelete, "/jobs/delete-job/:id", d.Jobs.DeleteJob, employer},
		{http.MethodPost, "/jobs/apply-job", d.Application.Apply, bearer},

		{http.MethodPost, "/applications/apply", d.Application.Apply, bearer},
		{http.MethodGet, "/applications/has-applied/:jobId", d.Application.HasApplied, bearer},
		{http.MethodGet, "/applications/user/:user_id", d.Application.ByUser, public},
		{http.MethodGet, "/applications/applications/:userId", d.Application.WithStatus, public},
		{http.MethodGet, "/applications/rejected/:userId", d.Application.Rejected, public},

		{http.MethodGet, "/approved-applicants/approvedApplicants", d.Report.ApprovalReport, public},
		{http.MethodGet, "/approved-applicants/export", d.Report.Export, employer},

		{http.MethodPost, "/cv/upload", d.CV.Upload, cvAccess},
		{http.MethodGet, "/cv/user-cv", d.CV.UserCV, cvAccess},
		{http.MethodGet, "/cv/download-cv/:cvId", d.CV.Download, cvAccess},
		{http.MethodDelete, "/cv/delete", d.CV.Delete, cvAccess},

		{http.MethodPost, "/users/upload-image/:id", d.Users.UploadImage, middleware.Policy{Access: middleware.Authenticated, Owner: "id"}},
		{http.MethodGet, "/users/profile-image/:id", d.Users.ProfileImage, public},
	}
}

func Register(e *echo.Echo, d *Deps) {
	for _, r := range Routes(d) {
		e.Add(r.Method, r.Path, r.Handler, d.Gate.Enforce(r.Policy))
	}
}
