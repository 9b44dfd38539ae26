package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/job_board/internal/models"
)

// JobRow is one row of the jobs ⟕ qualifications ⟕ benefits ⟕ responsibilities join.
// A job with several children in more than one category appears many times.
type JobRow struct {
	JobID          uint
	Company        string
	Type           string
	Title          string
	Location       string
	SalaryRange    string
	Description    string
	DaysPosted     int
	CompanyImage   []byte
	CreatedAt      time.Time
	Qualification  *string
	Benefit        *string
	Responsibility *string
}

type JobChildren struct {
	Qualifications   []string
	Benefits         []string
	Responsibilities []string
}

const jobRowColumns = `
	j.id AS job_id, j.company, j.type, j.title, j.location, j.salary_range,
	j.description, j.days_posted, j.company_image, j.created_at,
	q.qualification, b.benefit, r.responsibility`

const jobChildJoins = `
	LEFT JOIN qualifications q ON q.job_id = j.id
	LEFT JOIN benefits b ON b.job_id = j.id
	LEFT JOIN responsibilities r ON r.job_id = j.id`

// JobRows pages over jobs first so the limit counts jobs, not join rows.
func (r *GormRepo) JobRows(ctx context.Context, offset, limit int) ([]JobRow, error) {
	ids, err := r.pageJobIDs(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	return r.JobRowsByIDs(ctx, ids)
}

func (r *GormRepo) pageJobIDs(ctx context.Context, offset, limit int) ([]uint, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var ids []uint
	err := db.Model(&models.Job{}).
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *GormRepo) JobRowsByID(ctx context.Context, id uint) ([]JobRow, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var rows []JobRow
	err := db.Raw(`SELECT `+jobRowColumns+`
		FROM jobs j`+jobChildJoins+`
		WHERE j.id = ?
		ORDER BY q.id, b.id, r.id`, id).
		Scan(&rows).Error
	return rows, err
}

func (r *GormRepo) JobRowsByIDs(ctx context.Context, ids []uint) ([]JobRow, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	db, cancel := r.conn(ctx)
	defer cancel()

	var rows []JobRow
	err := db.Raw(`SELECT `+jobRowColumns+`
		FROM jobs j`+jobChildJoins+`
		WHERE j.id IN ?
		ORDER BY j.created_at DESC, j.id DESC, q.id, b.id, r.id`, ids).
		Scan(&rows).Error
	return rows, err
}

func (r *GormRepo) CountJobs(ctx context.Context) (int64, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var total int64
	err := db.Model(&models.Job{}).Count(&total).Error
	return total, err
}

func (r *GormRepo) SearchJobIDs(ctx context.Context, q string, offset, limit int) (int64, []uint, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	pattern := "%" + q + "%"
	where := "LOWER(title) LIKE LOWER(?) OR LOWER(company) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)"

	var total int64
	if err := db.Model(&models.Job{}).Where(where, pattern, pattern, pattern).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var ids []uint
	err := db.Model(&models.Job{}).
		Where(where, pattern, pattern, pattern).
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, nil, err
	}
	return total, ids, nil
}

func (r *GormRepo) CreateJob(ctx context.Context, job *models.Job, children JobChildren) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(job).Error; err != nil {
			return err
		}
		return insertJobChildren(tx, job.ID, children)
	})
}

// UpdateJob replaces the job's columns and all of its child rows in one transaction.
func (r *GormRepo) UpdateJob(ctx context.Context, id uint, job *models.Job, children JobChildren) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	return db.Transaction(func(tx *gorm.DB) error {
		var existing models.Job
		if err := tx.Select("id").First(&existing, id).Error; err != nil {
			return err
		}

		err := tx.Model(&models.Job{}).Where("id = ?", id).
			Select("company", "type", "title", "location", "salary_range", "description", "days_posted").
			Updates(job).Error
		if err != nil {
			return err
		}
		if err := deleteJobChildren(tx, id); err != nil {
			return err
		}
		return insertJobChildren(tx, id, children)
	})
}

func (r *GormRepo) DeleteJob(ctx context.Context, id uint) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	return db.Transaction(func(tx *gorm.DB) error {
		if err := deleteJobChildren(tx, id); err != nil {
			return err
		}
		res := tx.Delete(&models.Job{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func insertJobChildren(tx *gorm.DB, jobID uint, children JobChildren) error {
	if len(children.Qualifications) > 0 {
		rows := make([]models.Qualification, 0, len(children.Qualifications))
		for _, v := range children.Qualifications {
			rows = append(rows, models.Qualification{JobID: jobID, Qualification: v})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
	}
	if len(children.Benefits) > 0 {
		rows := make([]models.Benefit, 0, len(children.Benefits))
		for _, v := range children.Benefits {
			rows = append(rows, models.Benefit{JobID: jobID, Benefit: v})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
	}
	if len(children.Responsibilities) > 0 {
		rows := make([]models.Responsibility, 0, len(children.Responsibilities))
		for _, v := range children.Responsibilities {
			rows = append(rows, models.Responsibility{JobID: jobID, Responsibility: v})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
	}
	return nil
}

func deleteJobChildren(tx *gorm.DB, jobID uint) error {
	for _, child := range []any{&models.Qualification{}, &models.Benefit{}, &models.Responsibility{}} {
		if err := tx.Where("job_id = ?", jobID).Delete(child).Error; err != nil {
			return err
		}
	}
	return nil
}
