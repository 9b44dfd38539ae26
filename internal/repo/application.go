package repo

import (
	"context"
	"time"

	"github.com/Skotchmaster/job_board/internal/models"
)

func (r *GormRepo) HasApplied(ctx context.Context, userID, jobID uint) (bool, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var count int64
	err := db.Model(&models.Application{}).
		Where("user_id = ? AND job_id = ?", userID, jobID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) CreateApplication(ctx context.Context, app *models.Application) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	return db.Create(app).Error
}

func (r *GormRepo) ApplicationsByUser(ctx context.Context, userID uint) ([]models.Application, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	apps := make([]models.Application, 0)
	err := db.Where("user_id = ?", userID).Order("id ASC").Find(&apps).Error
	return apps, err
}

type UserApplicationRow struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	JobID     uint      `json:"job_id"`
	AppliedAt time.Time `json:"applied_at"`
	CVID      uint      `gorm:"column:cv_id" json:"cv_id"`
	Title     string    `json:"title"`
	Company   string    `json:"company"`
}

func (r *GormRepo) ApplicationsWithJob(ctx context.Context, userID uint) ([]UserApplicationRow, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	rows := make([]UserApplicationRow, 0)
	err := db.Table("applications AS a").
		Select("a.id, a.user_id, a.job_id, a.applied_at, a.cv_id, j.title, j.company").
		Joins("INNER JOIN jobs j ON a.job_id = j.id").
		Where("a.user_id = ?", userID).
		Order("a.id ASC").
		Scan(&rows).Error
	return rows, err
}

type ApplicationOverviewRow struct {
	ID           uint      `json:"id"`
	UserID       uint      `json:"user_id"`
	JobID        uint      `json:"job_id"`
	AppliedAt    time.Time `json:"applied_at"`
	CVID         uint      `gorm:"column:cv_id" json:"cv_id"`
	FullName     string    `json:"full_name"`
	ProfileImage []byte    `json:"-"`
	Title        string    `json:"title"`
	SalaryRange  string    `json:"salaryRange"`
	Company      string    `json:"company"`
	CVData       []byte    `gorm:"column:cv_data" json:"-"`
}

func (r *GormRepo) ApplicationsOverview(ctx context.Context) ([]ApplicationOverviewRow, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	rows := make([]ApplicationOverviewRow, 0)
	err := db.Table("applications AS a").
		Select(`a.id, a.user_id, a.job_id, a.applied_at, a.cv_id,
			u.full_name, u.profile_image, j.title, j.salary_range, j.company, c.cv_data`).
		Joins("INNER JOIN users u ON a.user_id = u.id").
		Joins("INNER JOIN jobs j ON a.job_id = j.id").
		Joins("INNER JOIN cvs c ON a.cv_id = c.id").
		Order("a.id ASC").
		Scan(&rows).Error
	return rows, err
}

// ApplicantUserIDs lists user_id for every application backed by a stored CV.
func (r *GormRepo) ApplicantUserIDs(ctx context.Context) ([]uint, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	ids := make([]uint, 0)
	err := db.Table("applications AS a").
		Joins("INNER JOIN cvs c ON a.cv_id = c.id").
		Order("a.id ASC").
		Pluck("a.user_id", &ids).Error
	return ids, err
}
