package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	// ExperienceEntry marks entry level job postings
	ExperienceEntry = "Entry"
	// ExperienceMid marks mid level job postings
	ExperienceMid = "Mid"
	// ExperienceSenior marks senior level job postings
	ExperienceSenior = "Senior"
)

// EditableJobInfo is part of job posting that can be edited
type EditableJobInfo struct {
	Title           string         `gorm:"type:text" json:"title"`
	Company         string         `gorm:"type:text" json:"company"`
	Description     string         `gorm:"type:text" json:"description"`
	Category        string         `gorm:"type:text" json:"category"`
	Country         string         `gorm:"type:text" json:"country"`
	City            string         `gorm:"type:text" json:"city"`
	Location        string         `gorm:"type:text" json:"location"`
	SkillsRequired  pq.StringArray `gorm:"type:text[]" json:"skills_required"`
	ExperienceLevel string         `gorm:"type:text" json:"experience_level"`
	// Salary is either a fixed figure or a from/to range. All optional,
	// stored verbatim; any presentation scaling is a frontend concern.
	FixedSalary *int64 `gorm:"type:bigint" json:"fixed_salary,omitempty"`
	SalaryFrom  *int64 `gorm:"type:bigint" json:"salary_from,omitempty"`
	SalaryTo    *int64 `gorm:"type:bigint" json:"salary_to,omitempty"`
	// TimeLeftToExpire is the posting's active window in days after PostedOn.
	TimeLeftToExpire int `gorm:"not null" json:"time_left_to_expire"`
}

// Validate checks required fields and enum values for a job posting.
func (e *EditableJobInfo) Validate() error {
	missing := []string{}
	required := map[string]string{
		"title":       e.Title,
		"company":     e.Company,
		"description": e.Description,
		"category":    e.Category,
		"country":     e.Country,
		"city":        e.City,
		"location":    e.Location,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required field(s): %s", strings.Join(missing, ", "))
	}
	if !Contains([]string{ExperienceEntry, ExperienceMid, ExperienceSenior}, e.ExperienceLevel) {
		return fmt.Errorf("experience_level must be one of 'Entry', 'Mid', or 'Senior'")
	}
	if e.TimeLeftToExpire <= 0 {
		return fmt.Errorf("time_left_to_expire must be a positive number of days")
	}
	return nil
}

// Job is gorm model for store job posting data in DB
type Job struct {
	ID         uint      `gorm:"primaryKey;autoIncrement;->" json:"id"`
	PostedByID uuid.UUID `gorm:"type:uuid;not null;index;<-:create" json:"posted_by"`
	PostedBy   User      `gorm:"foreignKey:PostedByID;references:ID" json:"-"`
	EditableJobInfo
	PostedOn     time.Time     `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;<-:create" json:"posted_on"`
	Applications []Application `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"-"`
	SavedBy      []JobSave     `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"-"`
}

// ExpiresOn returns the instant the posting's active window closes.
func (j *Job) ExpiresOn() time.Time {
	return j.PostedOn.AddDate(0, 0, j.TimeLeftToExpire)
}

// IsExpired reports whether the posting is past its active window at the
// given instant. Expiry is never persisted; it is recomputed on every read
// so a posting can't report a stale state between writes.
func (j *Job) IsExpired(now time.Time) bool {
	return now.After(j.ExpiresOn())
}

// JobSave is a bookmark row linking a job seeker to a posting they saved.
type JobSave struct {
	ID      uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	JobID   uint      `gorm:"not null;index;uniqueIndex:idx_job_saved_by" json:"job_id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_job_saved_by" json:"user_id"`
	SavedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP" json:"saved_at"`
}

// JobResponse is the response struct for a job posting with derived expiry state.
type JobResponse struct {
	ID         uint      `json:"id"`
	PostedByID uuid.UUID `json:"posted_by"`
	EditableJobInfo
	PostedOn time.Time `json:"posted_on"`
	Expired  bool      `json:"expired"`
}

// ToJobResponse converts Job to JobResponse, deriving the expired flag at
// the given instant.
func (j *Job) ToJobResponse(now time.Time) (JobResponse, error) {
	var resp JobResponse

	b, err := json.Marshal(j)
	if err != nil {
		return resp, err
	}
	if err := json.Unmarshal(b, &resp); err != nil {
		return resp, err
	}

	resp.Expired = j.IsExpired(now)
	return resp, nil
}

// JobListResponse is the paginated listing envelope.
type JobListResponse struct {
	Success    bool          `json:"success"`
	Jobs       []JobResponse `json:"jobs"`
	Count      int64         `json:"count"`
	Page       int           `json:"page"`
	TotalPages int64         `json:"total_pages"`
}

// Contains checks membership of s in slice. Local copy so model has no
// dependency back onto utilities.
func Contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
