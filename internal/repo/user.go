package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/job_board/internal/models"
)

func (r *GormRepo) EmailTaken(ctx context.Context, email string) (bool, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) CreateUser(ctx context.Context, user *models.User) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	return db.Create(user).Error
}

func (r *GormRepo) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) UserByID(ctx context.Context, id uint) (*models.User, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var user models.User
	if err := db.Omit("profile_image").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) SetResetToken(ctx context.Context, userID uint, tokenHash string, expiry time.Time) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	return db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]any{
		"reset_token":        tokenHash,
		"reset_token_expiry": expiry,
	}).Error
}

// UserByResetToken only matches tokens whose expiry is still after now.
func (r *GormRepo) UserByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var user models.User
	err := db.Omit("profile_image").
		Where("reset_token = ? AND reset_token_expiry > ?", tokenHash, now).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) ResetPassword(ctx context.Context, userID uint, passwordHash string) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	return db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]any{
		"password":           passwordHash,
		"reset_token":        gorm.Expr("NULL"),
		"reset_token_expiry": gorm.Expr("NULL"),
	}).Error
}

func (r *GormRepo) SetProfileImage(ctx context.Context, userID uint, image []byte) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	res := db.Model(&models.User{}).Where("id = ?", userID).Update("profile_image", image)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) ProfileImage(ctx context.Context, userID uint) ([]byte, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var user models.User
	if err := db.Select("id", "profile_image").First(&user, userID).Error; err != nil {
		return nil, err
	}
	return user.ProfileImage, nil
}
