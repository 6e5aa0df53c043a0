// Package model contain gorm model for recording data to database
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	// RoleJobSeeker is role for users that browse and apply to job postings
	RoleJobSeeker = "Job Seeker"
	// RoleEmployer is role for users that create and manage job postings
	RoleEmployer = "Employer"
)

// ResumeRef is an object storage reference to an uploaded resume file.
// It is embedded on the user profile and snapshotted into applications.
type ResumeRef struct {
	ObjectName string `gorm:"type:text" json:"object_name"`
	URL        string `gorm:"type:text" json:"url"`
}

// IsZero reports whether no resume has been uploaded yet.
func (r ResumeRef) IsZero() bool {
	return r.ObjectName == "" && r.URL == ""
}

// EditableUserInfo is the part of a user profile that profile update may overwrite.
// Role, email, and password are deliberately outside this block.
type EditableUserInfo struct {
	Name     string         `gorm:"type:text" json:"name"`
	Phone    string         `gorm:"type:text" json:"phone"`
	Skillset pq.StringArray `gorm:"type:text[]" json:"skillset"`
}

// User is gorm model for an account, either job seeker or employer
type User struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	EditableUserInfo
	Email     string    `gorm:"type:text;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"type:text" json:"-"`
	Role      string    `gorm:"type:text;not null;<-:create" json:"role"`
	Resume    ResumeRef `gorm:"embedded;embeddedPrefix:resume_" json:"resume"`
	CreatedAt time.Time `json:"created_at"`
}
