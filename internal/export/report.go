package export

import (
	"fmt"
	"io"
	"sort"

	"github.com/tealeg/xlsx/v3"

	"github.com/Skotchmaster/job_board/internal/transport"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const timeLayout = "2006-01-02 15:04:05"

// WriteApprovalReport renders the report as a workbook with one sheet per section.
func WriteApprovalReport(w io.Writer, r *transport.ApprovalReport) error {
	file := xlsx.NewFile()

	summary, err := file.AddSheet("Summary")
	if err != nil {
		return fmt.Errorf("export: add sheet: %w", err)
	}
	header(summary, "Metric", "Count")
	countRow(summary, "passed", r.Passed)
	countRow(summary, "notPassed", r.NotPassed)

	if err := countSheet(file, "ByJob", "Title", r.ByJob); err != nil {
		return err
	}
	if err := countSheet(file, "ByCompany", "Company", r.ByCompany); err != nil {
		return err
	}
	if err := countSheet(file, "RejectedByJob", "Title", r.RejectedByJob); err != nil {
		return err
	}
	if err := countSheet(file, "RejectedByCompany", "Company", r.RejectedByCompany); err != nil {
		return err
	}

	approved, err := file.AddSheet("Approved")
	if err != nil {
		return fmt.Errorf("export: add sheet: %w", err)
	}
	header(approved, "ID", "User ID", "Job ID", "CV ID", "Title", "Company", "Approved At")
	for _, a := range r.ApprovedApplicants {
		row := approved.AddRow()
		row.AddCell().SetInt(int(a.ID))
		row.AddCell().SetInt(int(a.UserID))
		row.AddCell().SetInt(int(a.JobID))
		row.AddCell().SetInt(int(a.CVID))
		row.AddCell().Value = a.Title
		row.AddCell().Value = a.Company
		row.AddCell().Value = a.ApprovedAt.Format(timeLayout)
	}

	rejected, err := file.AddSheet("Rejected")
	if err != nil {
		return fmt.Errorf("export: add sheet: %w", err)
	}
	header(rejected, "ID", "User ID", "Full Name", "Job ID", "CV ID", "Title", "Company", "Reason", "Rejected At")
	for _, a := range r.RejectedApplicants {
		row := rejected.AddRow()
		row.AddCell().SetInt(int(a.ID))
		row.AddCell().SetInt(int(a.UserID))
		row.AddCell().Value = a.FullName
		row.AddCell().SetInt(int(a.JobID))
		row.AddCell().SetInt(int(a.CVID))
		row.AddCell().Value = a.Title
		row.AddCell().Value = a.Company
		row.AddCell().Value = a.Reason
		row.AddCell().Value = a.RejectedAt.Format(timeLayout)
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

func header(sheet *xlsx.Sheet, names ...string) {
	row := sheet.AddRow()
	for _, n := range names {
		row.AddCell().Value = n
	}
}

func countRow(sheet *xlsx.Sheet, label string, n int) {
	row := sheet.AddRow()
	row.AddCell().Value = label
	row.AddCell().SetInt(n)
}

func countSheet(file *xlsx.File, name, keyHeader string, counts map[string]int) error {
	sheet, err := file.AddSheet(name)
	if err != nil {
		return fmt.Errorf("export: add sheet %s: %w", name, err)
	}
	header(sheet, keyHeader, "Count")

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		countRow(sheet, k, counts[k])
	}
	return nil
}
