package service

import (
	"encoding/base64"

	"github.com/Skotchmaster/job_board/internal/repo"
	"github.com/Skotchmaster/job_board/internal/transport"
)

type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{}), items: []string{}}
}

func (s *orderedSet) add(v *string) {
	if v == nil {
		return
	}
	if _, ok := s.seen[*v]; ok {
		return
	}
	s.seen[*v] = struct{}{}
	s.items = append(s.items, *v)
}

type jobAcc struct {
	job                               transport.Job
	quals, benefits, responsibilities *orderedSet
}

// FoldJobRows collapses join rows into one record per job, keeping the order
// in which jobs first appear. Child values are deduplicated; empty categories
// come out as empty slices.
func FoldJobRows(rows []repo.JobRow) []transport.Job {
	order := make([]uint, 0)
	byID := make(map[uint]*jobAcc)

	for i := range rows {
		row := &rows[i]
		acc, ok := byID[row.JobID]
		if !ok {
			acc = &jobAcc{
				job: transport.Job{
					ID:           row.JobID,
					Company:      row.Company,
					Type:         row.Type,
					Title:        row.Title,
					Location:     row.Location,
					SalaryRange:  row.SalaryRange,
					Description:  row.Description,
					DaysPosted:   row.DaysPosted,
					CreatedAt:    row.CreatedAt,
					CompanyImage: encodeImage(row.CompanyImage),
				},
				quals:            newOrderedSet(),
				benefits:         newOrderedSet(),
				responsibilities: newOrderedSet(),
			}
			byID[row.JobID] = acc
			order = append(order, row.JobID)
		}
		acc.quals.add(row.Qualification)
		acc.benefits.add(row.Benefit)
		acc.responsibilities.add(row.Responsibility)
	}

	out := make([]transport.Job, 0, len(order))
	for _, id := range order {
		acc := byID[id]
		acc.job.Qualifications = acc.quals.items
		acc.job.Benefits = acc.benefits.items
		acc.job.Responsibilities = acc.responsibilities.items
		out = append(out, acc.job)
	}
	return out
}

func encodeImage(b []byte) *string {
	if len(b) == 0 {
		return nil
	}
	s := base64.StdEncoding.EncodeToString(b)
	return &s
}
