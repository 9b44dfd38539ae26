package service

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/job_board/internal/models"
	"github.com/Skotchmaster/job_board/internal/repo"
	"github.com/Skotchmaster/job_board/internal/search"
	"github.com/Skotchmaster/job_board/internal/transport"
	"github.com/Skotchmaster/job_board/internal/util"
	"github.com/Skotchmaster/job_board/pkg/logging"
	"github.com/Skotchmaster/job_board/pkg/validator"
)

type JobIndexer interface {
	IndexJob(ctx context.Context, doc search.JobDocument) error
	DeleteJob(ctx context.Context, id uint) error
	Search(ctx context.Context, q string, from, size int) (int64, []uint, error)
}

type JobService struct {
	Repo   *repo.GormRepo
	Events EventPublisher
	// Index is optional; without it search runs against the database.
	Index JobIndexer
}

func (s *JobService) ListJobs(ctx context.Context, page, size int) ([]transport.Job, error) {
	offset, limit := util.Calculate(page, size)
	rows, err := s.Repo.JobRows(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	return FoldJobRows(rows), nil
}

func (s *JobService) GetJob(ctx context.Context, id uint) (*transport.Job, error) {
	rows, err := s.Repo.JobRowsByID(ctx, id)
	if err != nil {
		return nil, err
	}
	jobs := FoldJobRows(rows)
	if len(jobs) == 0 {
		return nil, fmt.Errorf("%w: job %d not found", ErrNotFound, id)
	}
	return &jobs[0], nil
}

func (s *JobService) CreateJob(ctx context.Context, in transport.JobInput, companyImage []byte) (uint, error) {
	if err := validator.Struct(in); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	job := jobFromInput(in)
	job.CompanyImage = companyImage
	if err := s.Repo.CreateJob(ctx, job, childrenFromInput(in)); err != nil {
		return 0, err
	}

	s.index(ctx, job)
	publish(ctx, s.Events, job.ID, map[string]any{
		"type":    EventJobCreated,
		"jobID":   job.ID,
		"title":   job.Title,
		"company": job.Company,
	})
	return job.ID, nil
}

func (s *JobService) UpdateJob(ctx context.Context, id uint, in transport.JobInput) error {
	if err := validator.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	job := jobFromInput(in)
	if err := s.Repo.UpdateJob(ctx, id, job, childrenFromInput(in)); err != nil {
		return notFound(err, "job")
	}

	job.ID = id
	s.index(ctx, job)
	publish(ctx, s.Events, id, map[string]any{
		"type":    EventJobUpdated,
		"jobID":   id,
		"title":   job.Title,
		"company": job.Company,
	})
	return nil
}

func (s *JobService) DeleteJob(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteJob(ctx, id); err != nil {
		return notFound(err, "job")
	}

	if s.Index != nil {
		if err := s.Index.DeleteJob(ctx, id); err != nil {
			logging.FromContext(ctx).Error("unindex_job_failed", "job_id", id, "error", err)
		}
	}
	publish(ctx, s.Events, id, map[string]any{
		"type":  EventJobDeleted,
		"jobID": id,
	})
	return nil
}

// SearchJobs prefers the search index and falls back to a LIKE query when the
// index is absent or failing.
func (s *JobService) SearchJobs(ctx context.Context, q string, page, size int) (*transport.JobSearchResult, error) {
	if q == "" {
		return nil, fmt.Errorf("%w: q is required", ErrValidation)
	}
	offset, limit := util.Calculate(page, size)

	var (
		total int64
		ids   []uint
		err   error
	)
	if s.Index != nil {
		total, ids, err = s.Index.Search(ctx, q, offset, limit)
		if err != nil {
			logging.FromContext(ctx).Warn("search_index_failed", "reason", "falling back to database", "error", err)
		}
	}
	if s.Index == nil || err != nil {
		total, ids, err = s.Repo.SearchJobIDs(ctx, q, offset, limit)
		if err != nil {
			return nil, err
		}
	}

	rows, err := s.Repo.JobRowsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	jobs := orderByIDs(FoldJobRows(rows), ids)

	if page < 1 {
		page = 1
	}
	return &transport.JobSearchResult{
		Data: jobs,
		Meta: transport.Page{
			Page:       page,
			Size:       limit,
			Total:      total,
			TotalPages: (total + int64(limit) - 1) / int64(limit),
			HasPrev:    page > 1,
			HasNext:    int64(offset+limit) < total,
		},
	}, nil
}

func (s *JobService) ApplicationsOverview(ctx context.Context) ([]transport.ApplicationOverview, error) {
	rows, err := s.Repo.ApplicationsOverview(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]transport.ApplicationOverview, 0, len(rows))
	for _, r := range rows {
		out = append(out, transport.ApplicationOverview{
			ID:           r.ID,
			UserID:       r.UserID,
			JobID:        r.JobID,
			AppliedAt:    r.AppliedAt,
			CVID:         r.CVID,
			FullName:     r.FullName,
			ProfileImage: encodeImage(r.ProfileImage),
			Title:        r.Title,
			SalaryRange:  r.SalaryRange,
			Company:      r.Company,
			CVData:       r.CVData,
		})
	}
	return out, nil
}

func (s *JobService) index(ctx context.Context, job *models.Job) {
	if s.Index == nil {
		return
	}
	err := s.Index.IndexJob(ctx, search.JobDocument{
		ID:          job.ID,
		Title:       job.Title,
		Company:     job.Company,
		Location:    job.Location,
		Type:        job.Type,
		Description: job.Description,
	})
	if err != nil {
		logging.FromContext(ctx).Error("index_job_failed", "job_id", job.ID, "error", err)
	}
}

func jobFromInput(in transport.JobInput) *models.Job {
	return &models.Job{
		Company:     in.Company,
		Type:        in.Type,
		Title:       in.Title,
		Location:    in.Location,
		SalaryRange: in.SalaryRange,
		Description: in.Description,
		DaysPosted:  in.DaysPosted,
	}
}

func childrenFromInput(in transport.JobInput) repo.JobChildren {
	return repo.JobChildren{
		Qualifications:   in.Qualifications,
		Benefits:         in.Benefits,
		Responsibilities: in.Responsibilities,
	}
}

// orderByIDs restores search ranking, which the SQL fold does not preserve.
func orderByIDs(jobs []transport.Job, ids []uint) []transport.Job {
	byID := make(map[uint]transport.Job, len(jobs))
	for _, j := range jobs {
		byID[j.ID] = j
	}
	out := make([]transport.Job, 0, len(ids))
	for _, id := range ids {
		if j, ok := byID[id]; ok {
			out = append(out, j)
		}
	}
	return out
}
