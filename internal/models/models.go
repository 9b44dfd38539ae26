package models

import (
	"time"
)

const (
	RoleApplicant = 1
	RoleEmployer  = 2
)

type User struct {
	ID               uint       `gorm:"primaryKey;autoIncrement"        json:"id"`
	Email            string     `gorm:"uniqueIndex;not null"            json:"email"`
	Username         string     `gorm:"not null"                        json:"username"`
	Password         string     `gorm:"column:password;not null"        json:"-"`
	FullName         string     `gorm:"column:full_name"                json:"full_name"`
	RoleID           int        `gorm:"column:role_id;not null;default:1" json:"role_id"`
	ProfileImage     []byte     `gorm:"column:profile_image"            json:"-"`
	ResetToken       *string    `gorm:"column:reset_token;index"        json:"-"`
	ResetTokenExpiry *time.Time `gorm:"column:reset_token_expiry"       json:"-"`
}

type Job struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"  json:"id"`
	Company      string    `gorm:"not null"                  json:"company"`
	Type         string    `json:"type"`
	Title        string    `gorm:"not null"                  json:"title"`
	Location     string    `json:"location"`
	SalaryRange  string    `gorm:"column:salary_range"       json:"salaryRange"`
	Description  string    `json:"description"`
	DaysPosted   int       `gorm:"column:days_posted"        json:"daysPosted"`
	CompanyImage []byte    `gorm:"column:company_image"      json:"-"`
	CreatedAt    time.Time `gorm:"index"                     json:"created_at"`
}

type Qualification struct {
	ID            uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	JobID         uint   `gorm:"index;not null"           json:"job_id"`
	Qualification string `gorm:"not null"                 json:"qualification"`
}

type Benefit struct {
	ID      uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	JobID   uint   `gorm:"index;not null"           json:"job_id"`
	Benefit string `gorm:"not null"                 json:"benefit"`
}

type Responsibility struct {
	ID             uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	JobID          uint   `gorm:"index;not null"           json:"job_id"`
	Responsibility string `gorm:"not null"                 json:"responsibility"`
}

// CV rows are never deleted. At most one row per user has Active set.
type CV struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"     json:"id"`
	UserID     uint      `gorm:"index;not null"               json:"user_id"`
	CVData     []byte    `gorm:"column:cv_data;not null"      json:"-"`
	UploadedAt time.Time `gorm:"column:uploaded_at;autoCreateTime" json:"uploaded_at"`
	Active     bool      `gorm:"not null;default:true"        json:"active"`
}

func (CV) TableName() string { return "cvs" }

type Application struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"         json:"id"`
	UserID    uint      `gorm:"index;not null"                   json:"user_id"`
	JobID     uint      `gorm:"index;not null"                   json:"job_id"`
	CVID      uint      `gorm:"column:cv_id;not null"            json:"cv_id"`
	AppliedAt time.Time `gorm:"column:applied_at;autoCreateTime" json:"applied_at"`
}

type ApprovedApplicant struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint      `gorm:"index;not null"           json:"user_id"`
	JobID      uint      `gorm:"index;not null"           json:"job_id"`
	CVID       uint      `gorm:"column:cv_id"             json:"cv_id"`
	ApprovedAt time.Time `gorm:"column:approved_at"       json:"approved_at"`
}

type RejectedApplicant struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint      `gorm:"index;not null"           json:"user_id"`
	JobID      uint      `gorm:"index;not null"           json:"job_id"`
	CVID       uint      `gorm:"column:cv_id"             json:"cv_id"`
	RejectedAt time.Time `gorm:"column:rejected_at"       json:"rejected_at"`
	Reason     string    `json:"reason"`
}

// All lists every table for AutoMigrate.
func All() []any {
	return []any{
		&User{}, &Job{}, &Qualification{}, &Benefit{}, &Responsibility{},
		&CV{}, &Application{}, &ApprovedApplicant{}, &RejectedApplicant{},
	}
}
