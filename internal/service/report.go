package service

import (
	"context"

	"github.com/Skotchmaster/job_board/internal/repo"
	"github.com/Skotchmaster/job_board/internal/transport"
)

type ReportService struct {
	Repo *repo.GormRepo
}

func (s *ReportService) ApprovalReport(ctx context.Context) (*transport.ApprovalReport, error) {
	applicants, err := s.Repo.ApplicantUserIDs(ctx)
	if err != nil {
		return nil, err
	}
	approved, err := s.Repo.ApprovedWithJob(ctx)
	if err != nil {
		return nil, err
	}
	rejected, err := s.Repo.RejectedWithJob(ctx)
	if err != nil {
		return nil, err
	}
	return BuildReport(applicants, approved, rejected), nil
}

// BuildReport tallies approvals and rejections by job title and by company
// name. Tallies are keyed by those strings, not by job id, so two postings
// with the same title share one bucket.
func BuildReport(applicantUserIDs []uint, approved []repo.ApprovedRow, rejected []repo.RejectedRow) *transport.ApprovalReport {
	approvedUsers := make(map[uint]struct{}, len(approved))
	for _, a := range approved {
		approvedUsers[a.UserID] = struct{}{}
	}

	passed := 0
	for _, uid := range applicantUserIDs {
		if _, ok := approvedUsers[uid]; ok {
			passed++
		}
	}

	report := &transport.ApprovalReport{
		Passed:             passed,
		NotPassed:          len(applicantUserIDs) - passed,
		ByJob:              make(map[string]int),
		ByCompany:          make(map[string]int),
		ApprovedApplicants: make([]transport.ApprovedApplicant, 0, len(approved)),
		RejectedApplicants: make([]transport.RejectedApplicant, 0, len(rejected)),
		RejectedByJob:      make(map[string]int),
		RejectedByCompany:  make(map[string]int),
	}

	for _, a := range approved {
		report.ByJob[a.Title]++
		report.ByCompany[a.Company]++
		report.ApprovedApplicants = append(report.ApprovedApplicants, transport.ApprovedApplicant{
			ID:         a.ID,
			UserID:     a.UserID,
			JobID:      a.JobID,
			CVID:       a.CVID,
			ApprovedAt: a.ApprovedAt,
			Title:      a.Title,
			Company:    a.Company,
		})
	}
	for _, r := range rejected {
		report.RejectedByJob[r.Title]++
		report.RejectedByCompany[r.Company]++
		report.RejectedApplicants = append(report.RejectedApplicants, transport.RejectedApplicant{
			ID:         r.ID,
			UserID:     r.UserID,
			JobID:      r.JobID,
			CVID:       r.CVID,
			RejectedAt: r.RejectedAt,
			Reason:     r.Reason,
			FullName:   r.FullName,
			Title:      r.Title,
			Company:    r.Company,
		})
	}
	return report
}
