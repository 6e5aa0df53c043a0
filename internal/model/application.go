package model

import (
	"time"

	"github.com/google/uuid"
)

// Application represents a job application record. The resume reference is
// copied from the applicant's profile at submission time and never updated
// afterwards, so it is a snapshot of what was actually submitted.
type Application struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"type:text" json:"name" binding:"required"`
	Email       string `gorm:"type:text" json:"email" binding:"required,email"`
	Phone       string `gorm:"type:text" json:"phone" binding:"required"`
	Address     string `gorm:"type:text" json:"address" binding:"required"`
	CoverLetter string `gorm:"type:text" json:"cover_letter" binding:"required"`

	// ApplicantID references User.ID of the submitting job seeker
	ApplicantID uuid.UUID `gorm:"type:uuid;not null;index" json:"applicant_id"`
	Applicant   User      `gorm:"foreignKey:ApplicantID;references:ID" json:"-"`

	// EmployerID is denormalized from the job's owner for query convenience
	EmployerID uuid.UUID `gorm:"type:uuid;not null;index" json:"employer_id"`

	// JobID references Job.ID
	JobID uint `gorm:"not null;index" json:"job_id" binding:"required"`
	Job   Job  `gorm:"foreignKey:JobID;references:ID" json:"-"`

	Resume    ResumeRef `gorm:"embedded;embeddedPrefix:resume_" json:"resume"`
	AppliedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP" json:"applied_at"`
}
