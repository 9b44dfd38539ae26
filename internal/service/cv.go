package service

import (
	"context"
	"fmt"
	"regexp"

	"github.com/Skotchmaster/job_board/internal/models"
	"github.com/Skotchmaster/job_board/internal/repo"
)

type CVService struct {
	Repo   *repo.GormRepo
	Events EventPublisher
}

type CVFile struct {
	Data     []byte
	Filename string
}

func (s *CVService) Upload(ctx context.Context, userID uint, data []byte) (*models.CV, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: cv file is empty", ErrValidation)
	}

	cv, err := s.Repo.ReplaceActiveCV(ctx, userID, data)
	if err != nil {
		return nil, err
	}

	publish(ctx, s.Events, cv.ID, map[string]any{
		"type":   EventCVUploaded,
		"cvID":   cv.ID,
		"userID": userID,
		"size":   len(data),
	})
	return cv, nil
}

func (s *CVService) Active(ctx context.Context, userID uint) (*models.CV, error) {
	cv, err := s.Repo.ActiveCV(ctx, userID)
	if err != nil {
		return nil, notFound(err, "cv")
	}
	return cv, nil
}

// Download only serves CVs that are still active.
func (s *CVService) Download(ctx context.Context, cvID uint) (*CVFile, error) {
	rec, err := s.Repo.ActiveCVWithOwner(ctx, cvID)
	if err != nil {
		return nil, notFound(err, "cv")
	}
	return &CVFile{Data: rec.CVData, Filename: CVFilename(rec.FullName)}, nil
}

func (s *CVService) Delete(ctx context.Context, userID uint) error {
	n, err := s.Repo.DeactivateCVs(ctx, userID)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: no active cv", ErrNotFound)
	}

	publish(ctx, s.Events, userID, map[string]any{
		"type":   EventCVDeleted,
		"userID": userID,
	})
	return nil
}

var (
	whitespace = regexp.MustCompile(`\s+`)
	nonWord    = regexp.MustCompile(`[^A-Za-z0-9_]`)
)

// CVFilename turns "Ana María Ruiz" into "Ana_Mara_Ruiz_CV.pdf".
func CVFilename(fullName string) string {
	name := whitespace.ReplaceAllString(fullName, "_")
	name = nonWord.ReplaceAllString(name, "")
	if name == "" {
		name = "candidate"
	}
	return name + "_CV.pdf"
}
