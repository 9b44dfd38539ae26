package service

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/Skotchmaster/job_board/internal/models"
	"github.com/Skotchmaster/job_board/internal/transport"
	"github.com/Skotchmaster/job_board/pkg/logging"
)

const (
	StatusPassed       = "passed"
	StatusApplied      = "applied"
	StatusUploadedOnly = "uploaded CV only"
)

const DefaultLookupConcurrency = 8

type lookupResult struct {
	cv       *models.CV
	approved bool
}

// ResolveStatus derives a status for one application. The first matching rule wins.
func ResolveStatus(hasApplication, approved bool) string {
	switch {
	case approved:
		return StatusPassed
	case hasApplication:
		return StatusApplied
	default:
		return StatusUploadedOnly
	}
}

// StatusesForUser returns each of the user's applications with its derived
// status. CV and approval lookups run concurrently and are matched back by
// application id. A missing CV leaves the cv field empty.
func (s *ApplicationService) StatusesForUser(ctx context.Context, userID uint) ([]transport.ApplicationWithStatus, error) {
	apps, err := s.Repo.ApplicationsWithJob(ctx, userID)
	if err != nil {
		return nil, err
	}

	limit := s.Concurrency
	if limit <= 0 {
		limit = DefaultLookupConcurrency
	}

	var mu sync.Mutex
	results := make(map[uint]*lookupResult, len(apps))
	for _, app := range apps {
		results[app.ID] = &lookupResult{}
	}

	l := logging.FromContext(ctx)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, app := range apps {
		app := app
		g.Go(func() error {
			cv, err := s.Repo.CVMeta(gctx, app.CVID)
			if err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					l.Warn("status_cv_lookup_failed", "application_id", app.ID, "cv_id", app.CVID, "error", err)
				}
				return nil
			}
			mu.Lock()
			results[app.ID].cv = cv
			mu.Unlock()
			return nil
		})
		g.Go(func() error {
			approved, err := s.Repo.IsApproved(gctx, userID, app.JobID)
			if err != nil {
				return err
			}
			mu.Lock()
			results[app.ID].approved = approved
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]transport.ApplicationWithStatus, 0, len(apps))
	for _, app := range apps {
		res := results[app.ID]
		item := transport.ApplicationWithStatus{
			ID:        app.ID,
			UserID:    app.UserID,
			JobID:     app.JobID,
			AppliedAt: app.AppliedAt,
			CVID:      app.CVID,
			Title:     app.Title,
			Company:   app.Company,
			Status:    ResolveStatus(true, res.approved),
		}
		if res.cv != nil {
			item.CV = &transport.CVMeta{ID: res.cv.ID, UploadedAt: res.cv.UploadedAt, Active: res.cv.Active}
		}
		out = append(out, item)
	}
	return out, nil
}
