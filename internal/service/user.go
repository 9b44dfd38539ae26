package service

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/Skotchmaster/job_board/internal/repo"
)

const MaxProfileImageSize = 5 << 20

var allowedImageExt = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

type UserService struct {
	Repo *repo.GormRepo
}

// SetProfileImage accepts jpeg and png only; both the extension and the sniffed
// content type must agree.
func (s *UserService) SetProfileImage(ctx context.Context, userID uint, filename string, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: image is empty", ErrValidation)
	}
	if len(data) > MaxProfileImageSize {
		return fmt.Errorf("%w: image is larger than %d bytes", ErrValidation, MaxProfileImageSize)
	}
	want, ok := allowedImageExt[strings.ToLower(filepath.Ext(filename))]
	if !ok || http.DetectContentType(data) != want {
		return fmt.Errorf("%w: only jpeg, jpg and png images are allowed", ErrValidation)
	}

	if err := s.Repo.SetProfileImage(ctx, userID, data); err != nil {
		return notFound(err, "user")
	}
	return nil
}

// ProfileImage returns the stored bytes and their sniffed content type.
func (s *UserService) ProfileImage(ctx context.Context, userID uint) ([]byte, string, error) {
	img, err := s.Repo.ProfileImage(ctx, userID)
	if err != nil {
		return nil, "", notFound(err, "user")
	}
	if len(img) == 0 {
		return nil, "", fmt.Errorf("%w: profile image not found", ErrNotFound)
	}
	return img, http.DetectContentType(img), nil
}
