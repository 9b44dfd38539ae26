package transport

import "time"

type RegisterRequest struct {
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"  validate:"required"`
	FullName string `json:"full_name"`
	RoleID   int    `json:"role_id"   validate:"omitempty,oneof=1 2"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UserView struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	RoleID   int    `json:"role_id"`
}

type LoginResponse struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword" validate:"required"`
}

// JobInput is shared by the multipart create form and the JSON update body.
type JobInput struct {
	Company          string   `json:"company"     validate:"required"`
	Type             string   `json:"type"`
	Title            string   `json:"title"       validate:"required"`
	Location         string   `json:"location"`
	SalaryRange      string   `json:"salaryRange"`
	Description      string   `json:"description"`
	DaysPosted       int      `json:"daysPosted"  validate:"min=0"`
	Qualifications   []string `json:"qualifications"`
	Benefits         []string `json:"benefits"`
	Responsibilities []string `json:"responsibilities"`
}

type Job struct {
	ID               uint      `json:"id"`
	Company          string    `json:"company"`
	Type             string    `json:"type"`
	Title            string    `json:"title"`
	Location         string    `json:"location"`
	SalaryRange      string    `json:"salaryRange"`
	Description      string    `json:"description"`
	DaysPosted       int       `json:"daysPosted"`
	CreatedAt        time.Time `json:"created_at"`
	CompanyImage     *string   `json:"companyImage"`
	Qualifications   []string  `json:"qualifications"`
	Benefits         []string  `json:"benefits"`
	Responsibilities []string  `json:"responsibilities"`
}

type JobCreated struct {
	ID      uint   `json:"id"`
	Message string `json:"message"`
}

type ApplicationOverview struct {
	ID           uint      `json:"id"`
	UserID       uint      `json:"user_id"`
	JobID        uint      `json:"job_id"`
	AppliedAt    time.Time `json:"applied_at"`
	CVID         uint      `json:"cv_id"`
	FullName     string    `json:"full_name"`
	ProfileImage *string   `json:"profile_image"`
	Title        string    `json:"title"`
	SalaryRange  string    `json:"salaryRange"`
	Company      string    `json:"company"`
	CVData       []byte    `json:"cv_data"`
}

type ApplyRequest struct {
	JobID uint `json:"job_id" validate:"required"`
	CVID  uint `json:"cv_id"  validate:"required"`
}

type CVMeta struct {
	ID         uint      `json:"id"`
	UploadedAt time.Time `json:"uploaded_at"`
	Active     bool      `json:"active"`
}

type ApplicationWithStatus struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	JobID     uint      `json:"job_id"`
	AppliedAt time.Time `json:"applied_at"`
	CVID      uint      `json:"cv_id"`
	Title     string    `json:"title"`
	Company   string    `json:"company"`
	CV        *CVMeta   `json:"cv"`
	Status    string    `json:"status"`
}

type ApprovedApplicant struct {
	ID         uint      `json:"id"`
	UserID     uint      `json:"user_id"`
	JobID      uint      `json:"job_id"`
	CVID       uint      `json:"cv_id"`
	ApprovedAt time.Time `json:"approved_at"`
	Title      string    `json:"title"`
	Company    string    `json:"company"`
}

type RejectedApplicant struct {
	ID         uint      `json:"id"`
	UserID     uint      `json:"user_id"`
	JobID      uint      `json:"job_id"`
	CVID       uint      `json:"cv_id"`
	RejectedAt time.Time `json:"rejected_at"`
	Reason     string    `json:"reason"`
	FullName   string    `json:"full_name"`
	Title      string    `json:"title"`
	Company    string    `json:"company"`
}

type ApprovalReport struct {
	Passed             int                 `json:"passed"`
	NotPassed          int                 `json:"notPassed"`
	ByJob              map[string]int      `json:"byJob"`
	ByCompany          map[string]int      `json:"byCompany"`
	ApprovedApplicants []ApprovedApplicant `json:"approvedApplicants"`
	RejectedApplicants []RejectedApplicant `json:"rejectedApplicants"`
	RejectedByJob      map[string]int      `json:"rejectedByJob"`
	RejectedByCompany  map[string]int      `json:"rejectedByCompany"`
}

type Page struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

type JobSearchResult struct {
	Data []Job `json:"data"`
	Meta Page  `json:"meta"`
}
