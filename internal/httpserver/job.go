package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/job_board/internal/service"
	"github.com/Skotchmaster/job_board/internal/transport"
	"github.com/Skotchmaster/job_board/internal/util"
	"github.com/Skotchmaster/job_board/pkg/logging"
)

const maxCompanyImageSize = 5 << 20

type JobHTTP struct {
	Svc *service.JobService
	// ListLimit is the default page size for job listings.
	ListLimit int
}

func (h *JobHTTP) pageParams(c echo.Context) (int, int) {
	def := h.ListLimit
	if def <= 0 {
		def = util.MaxPageSize
	}
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), def)
	return page, size
}

func (h *JobHTTP) ListJobs(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "job.list_jobs")

	page, size := h.pageParams(c)
	jobs, err := h.Svc.ListJobs(ctx, page, size)
	if err != nil {
		return failed(l, "list_jobs_failed", err, "Error fetching jobs")
	}

	l.Info("list_jobs_success", "count", len(jobs))
	return c.JSON(http.StatusOK, jobs)
}

func (h *JobHTTP) GetJob(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "job.get_job")

	id, err := parseID(c, "id")
	if err != nil {
		l.Warn("get_job_failed", "status", 400, "reason", "bad id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	job, err := h.Svc.GetJob(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("get_job_failed", "status", 404, "reason", "job not found", "job_id", id)
			return echo.NewHTTPError(http.StatusNotFound, "Job not found")
		}
		return failed(l, "get_job_failed", err, "Error fetching job details")
	}

	return c.JSON(http.StatusOK, job)
}

func (h *JobHTTP) SearchJobs(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "job.search_jobs")

	page, size := h.pageParams(c)
	res, err := h.Svc.SearchJobs(ctx, strings.TrimSpace(c.QueryParam("q")), page, size)
	if err != nil {
		return failed(l, "search_jobs_failed", err, "Error searching jobs")
	}

	l.Info("search_jobs_success", "total", res.Meta.Total)
	return c.JSON(http.StatusOK, res)
}

// CreateJob reads a multipart form. The list fields arrive as JSON-encoded
// arrays; repeated form values are accepted too.
func (h *JobHTTP) CreateJob(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "job.create_job")

	in, err := jobInputFromForm(c)
	if err != nil {
		l.Warn("create_job_failed", "status", 400, "reason", "invalid form", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	image, err := optionalFile(c, "company_image", maxCompanyImageSize)
	if err != nil {
		l.Warn("create_job_failed", "status", 400, "reason", "invalid company image", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	id, err := h.Svc.CreateJob(ctx, in, image)
	if err != nil {
		return failed(l, "create_job_failed", err, "Error creating job")
	}

	l.Info("create_job_success", "job_id", id)
	return c.JSON(http.StatusCreated, transport.JobCreated{ID: id, Message: "Job created successfully"})
}

func (h *JobHTTP) UpdateJob(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "job.update_job")

	id, err := parseID(c, "id")
	if err != nil {
		l.Warn("update_job_failed", "status", 400, "reason", "bad id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var in transport.JobInput
	if err := json.NewDecoder(c.Request().Body).Decode(&in); err != nil {
		l.Warn("update_job_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.UpdateJob(ctx, id, in); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("update_job_failed", "status", 404, "reason", "job not found", "job_id", id)
			return echo.NewHTTPError(http.StatusNotFound, "Job not found")
		}
		return failed(l, "update_job_failed", err, "Error updating job")
	}

	l.Info("update_job_success", "job_id", id)
	return c.JSON(http.StatusOK, messageResponse{Message: "Job updated successfully"})
}

func (h *JobHTTP) DeleteJob(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "job.delete_job")

	id, err := parseID(c, "id")
	if err != nil {
		l.Warn("delete_job_failed", "status", 400, "reason", "bad id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.Svc.DeleteJob(ctx, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("delete_job_failed", "status", 404, "reason", "job not found", "job_id", id)
			return echo.NewHTTPError(http.StatusNotFound, "Job not found")
		}
		return failed(l, "delete_job_failed", err, "Error deleting job")
	}

	l.Info("delete_job_success", "job_id", id)
	return c.JSON(http.StatusOK, messageResponse{Message: "Job deleted successfully"})
}

func (h *JobHTTP) Applications(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "job.applications")

	rows, err := h.Svc.ApplicationsOverview(ctx)
	if err != nil {
		return failed(l, "applications_overview_failed", err, "Error fetching applications")
	}
	return c.JSON(http.StatusOK, rows)
}

func jobInputFromForm(c echo.Context) (transport.JobInput, error) {
	in := transport.JobInput{
		Company:     c.FormValue("company"),
		Type:        c.FormValue("type"),
		Title:       c.FormValue("title"),
		Location:    c.FormValue("location"),
		SalaryRange: c.FormValue("salaryRange"),
		Description: c.FormValue("description"),
	}

	if raw := strings.TrimSpace(c.FormValue("daysPosted")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return in, fmt.Errorf("daysPosted must be an integer")
		}
		in.DaysPosted = n
	}

	var err error
	if in.Qualifications, err = formList(c, "qualifications"); err != nil {
		return in, err
	}
	if in.Benefits, err = formList(c, "benefits"); err != nil {
		return in, err
	}
	if in.Responsibilities, err = formList(c, "responsibilities"); err != nil {
		return in, err
	}
	return in, nil
}

func formList(c echo.Context, name string) ([]string, error) {
	form, err := c.MultipartForm()
	var values []string
	if err == nil && form != nil {
		values = form.Value[name]
	} else if v := c.FormValue(name); v != "" {
		values = []string{v}
	}

	if len(values) == 1 && strings.HasPrefix(strings.TrimSpace(values[0]), "[") {
		var out []string
		if err := json.Unmarshal([]byte(values[0]), &out); err != nil {
			return nil, fmt.Errorf("%s must be a JSON array of strings", name)
		}
		return out, nil
	}
	return values, nil
}

func optionalFile(c echo.Context, field string, max int64) ([]byte, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	return readUpload(fh, field, max)
}

func readUpload(fh *multipart.FileHeader, field string, max int64) ([]byte, error) {
	if fh.Size > max {
		return nil, fmt.Errorf("%s is larger than %d bytes", field, max)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, max))
}
