package repo

import (
	"context"
	"time"

	"github.com/Skotchmaster/job_board/internal/models"
)

func (r *GormRepo) IsApproved(ctx context.Context, userID, jobID uint) (bool, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var count int64
	err := db.Model(&models.ApprovedApplicant{}).
		Where("user_id = ? AND job_id = ?", userID, jobID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) RejectedByUser(ctx context.Context, userID uint) ([]models.RejectedApplicant, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	out := make([]models.RejectedApplicant, 0)
	err := db.Where("user_id = ?", userID).Order("id ASC").Find(&out).Error
	return out, err
}

type ApprovedRow struct {
	ID         uint      `json:"id"`
	UserID     uint      `json:"user_id"`
	JobID      uint      `json:"job_id"`
	CVID       uint      `gorm:"column:cv_id" json:"cv_id"`
	ApprovedAt time.Time `json:"approved_at"`
	Title      string    `json:"title"`
	Company    string    `json:"company"`
}

type RejectedRow struct {
	ID         uint      `json:"id"`
	UserID     uint      `json:"user_id"`
	JobID      uint      `json:"job_id"`
	CVID       uint      `gorm:"column:cv_id" json:"cv_id"`
	RejectedAt time.Time `json:"rejected_at"`
	Reason     string    `json:"reason"`
	FullName   string    `json:"full_name"`
	Title      string    `json:"title"`
	Company    string    `json:"company"`
}

func (r *GormRepo) ApprovedWithJob(ctx context.Context) ([]ApprovedRow, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	rows := make([]ApprovedRow, 0)
	err := db.Table("approved_applicants AS aa").
		Select("aa.id, aa.user_id, aa.job_id, aa.cv_id, aa.approved_at, j.title, j.company").
		Joins("INNER JOIN jobs j ON aa.job_id = j.id").
		Order("aa.id ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *GormRepo) RejectedWithJob(ctx context.Context) ([]RejectedRow, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	rows := make([]RejectedRow, 0)
	err := db.Table("rejected_applicants AS ra").
		Select("ra.id, ra.user_id, ra.job_id, ra.cv_id, ra.rejected_at, ra.reason, u.full_name, j.title, j.company").
		Joins("INNER JOIN users u ON ra.user_id = u.id").
		Joins("INNER JOIN jobs j ON ra.job_id = j.id").
		Order("ra.id ASC").
		Scan(&rows).Error
	return rows, err
}
