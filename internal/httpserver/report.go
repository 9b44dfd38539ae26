package httpserver

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/job_board/internal/export"
	"github.com/Skotchmaster/job_board/internal/service"
	"github.com/Skotchmaster/job_board/pkg/logging"
)

type ReportHTTP struct {
	Svc *service.ReportService
}

func (h *ReportHTTP) ApprovalReport(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "report.approval")

	report, err := h.Svc.ApprovalReport(ctx)
	if err != nil {
		return failed(l, "approval_report_failed", err, "Error comparing data")
	}

	l.Info("approval_report_success", "passed", report.Passed, "not_passed", report.NotPassed)
	return c.JSON(http.StatusOK, report)
}

func (h *ReportHTTP) Export(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "report.export")

	report, err := h.Svc.ApprovalReport(ctx)
	if err != nil {
		return failed(l, "export_report_failed", err, "Error exporting report")
	}

	var buf bytes.Buffer
	if err := export.WriteApprovalReport(&buf, report); err != nil {
		l.Error("export_report_failed", "status", 500, "reason", "cannot render workbook", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error exporting report")
	}

	filename := fmt.Sprintf("approval_report_%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))

	l.Info("export_report_success", "bytes", buf.Len())
	return c.Blob(http.StatusOK, export.ContentType, buf.Bytes())
}
