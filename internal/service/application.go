package service

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/job_board/internal/models"
	"github.com/Skotchmaster/job_board/internal/repo"
	"github.com/Skotchmaster/job_board/internal/transport"
	"github.com/Skotchmaster/job_board/pkg/validator"
)

type ApplicationService struct {
	Repo   *repo.GormRepo
	Events EventPublisher
	// Concurrency caps in-flight lookups per status request. Zero means DefaultLookupConcurrency.
	Concurrency int
}

// Apply checks for an existing application and then inserts. The two steps are
// not atomic: concurrent requests from the same user for the same job can both
// pass the check. There is no unique index on (user_id, job_id) backing it.
func (s *ApplicationService) Apply(ctx context.Context, userID uint, req transport.ApplyRequest) (*models.Application, error) {
	if err := validator.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	applied, err := s.Repo.HasApplied(ctx, userID, req.JobID)
	if err != nil {
		return nil, err
	}
	if applied {
		return nil, fmt.Errorf("%w: already applied to job %d", ErrConflict, req.JobID)
	}

	app := &models.Application{UserID: userID, JobID: req.JobID, CVID: req.CVID}
	if err := s.Repo.CreateApplication(ctx, app); err != nil {
		return nil, err
	}

	publish(ctx, s.Events, app.ID, map[string]any{
		"type":          EventApplicationCreated,
		"applicationID": app.ID,
		"userID":        userID,
		"jobID":         req.JobID,
		"cvID":          req.CVID,
	})
	return app, nil
}

func (s *ApplicationService) HasApplied(ctx context.Context, userID, jobID uint) (bool, error) {
	return s.Repo.HasApplied(ctx, userID, jobID)
}

func (s *ApplicationService) ByUser(ctx context.Context, userID uint) ([]models.Application, error) {
	return s.Repo.ApplicationsByUser(ctx, userID)
}

func (s *ApplicationService) Rejected(ctx context.Context, userID uint) ([]models.RejectedApplicant, error) {
	return s.Repo.RejectedByUser(ctx, userID)
}
