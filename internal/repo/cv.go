package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/job_board/internal/models"
)

// ReplaceActiveCV deactivates the user's current CV and stores the new one as active.
func (r *GormRepo) ReplaceActiveCV(ctx context.Context, userID uint, data []byte) (*models.CV, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	cv := models.CV{UserID: userID, CVData: data, Active: true}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.CV{}).
			Where("user_id = ? AND active = ?", userID, true).
			Update("active", false).Error; err != nil {
			return err
		}
		return tx.Create(&cv).Error
	})
	if err != nil {
		return nil, err
	}
	return &cv, nil
}

// ActiveCV returns metadata only; cv_data is not loaded.
func (r *GormRepo) ActiveCV(ctx context.Context, userID uint) (*models.CV, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var cv models.CV
	err := db.Select("id", "user_id", "uploaded_at", "active").
		Where("user_id = ? AND active = ?", userID, true).
		Order("uploaded_at DESC").Order("id DESC").
		First(&cv).Error
	if err != nil {
		return nil, err
	}
	return &cv, nil
}

// CVMeta looks a CV up by id regardless of its active flag.
func (r *GormRepo) CVMeta(ctx context.Context, id uint) (*models.CV, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var cv models.CV
	if err := db.Select("id", "user_id", "uploaded_at", "active").First(&cv, id).Error; err != nil {
		return nil, err
	}
	return &cv, nil
}

type CVDownload struct {
	CVData   []byte
	FullName string
}

func (r *GormRepo) ActiveCVWithOwner(ctx context.Context, id uint) (*CVDownload, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var rows []CVDownload
	err := db.Table("cvs AS c").
		Select("c.cv_data, u.full_name").
		Joins("INNER JOIN users u ON u.id = c.user_id").
		Where("c.id = ? AND c.active = ?", id, true).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

// DeactivateCVs soft-deletes every CV of the user and reports how many were active.
func (r *GormRepo) DeactivateCVs(ctx context.Context, userID uint) (int64, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	res := db.Model(&models.CV{}).
		Where("user_id = ? AND active = ?", userID, true).
		Update("active", false)
	return res.RowsAffected, res.Error
}
