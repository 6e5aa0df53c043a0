// Package job provides HTTP handlers for job posting related operations.
package job

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Sanya-exe/Job-Connect/internal/database"
	"github.com/Sanya-exe/Job-Connect/internal/model"
	"github.com/Sanya-exe/Job-Connect/internal/utilities"
)

// JobController handles job posting related endpoints
type JobController struct {
	DB *database.Service
	// EnforceOwnership restricts edit/delete to the posting's own
	// employer when true. Kept configurable because the behavior of the
	// original system was ambiguous on purpose.
	EnforceOwnership bool
}

// NewJobController creates a new instance of JobController
func NewJobController(db *database.Service, enforceOwnership bool) *JobController {
	return &JobController{
		DB:               db,
		EnforceOwnership: enforceOwnership,
	}
}

// CreateJobHandler handles the creation of a new job posting by an employer.
// @Summary Create job posting based on given json structure
// @Description Only employers have access to this endpoint
// @Tags Job
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Job body model.EditableJobInfo true "Input job posting information"
// @Success 201 {object} model.JobResponse "Successfully create job posting"
// @Failure 400 {object} utilities.ErrorResponse "Invalid job posting struct"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as employer"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /job/post [post]
func (jc *JobController) CreateJobHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Message: err.Error()})
		return
	}

	// construct job posting from request
	job := model.Job{}
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&job.EditableJobInfo); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Message: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	if err := job.EditableJobInfo.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Message: err.Error()})
		return
	}

	// creator becomes the owning employer
	job.PostedByID = user.ID
	if err := jc.DB.Create(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Message: fmt.Sprint("Failed to create job posting: ", err),
		})
		return
	}

	resp, err := job.ToJobResponse(time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Message: fmt.Sprint("Failed to process job posting: ", err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetAllJobs fetches job postings newest-first with offset/limit pagination.
// Expired postings are included; their expired flag is derived fresh on
// this read, never served from a stored column.
// @Summary Get paginated job postings, newest first
// @Description Public endpoint; page and limit default to 1 and 10
// @Tags Job
// @Produce json
// @Param page query integer false "1-based page number"
// @Param limit query integer false "Page size"
// @Success 200 {object} model.JobListResponse "Page of job postings"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /job/getall [get]
func (jc *JobController) GetAllJobs(c *gin.Context) {

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}

	var total int64
	if err := jc.DB.Model(&model.Job{}).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Message: fmt.Sprint("Failed to count job postings: ", err.Error()),
		})
		return
	}

	var rawJobs []model.Job
	result := jc.DB.
		Order(clause.OrderByColumn{Column: clause.Column{Name: "posted_on"}, Desc: true}).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&rawJobs)
	if err := result.Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Message: fmt.Sprint("Failed to fetch job postings: ", err.Error()),
		})
		return
	}

	now := time.Now()
	jobs := []model.JobResponse{}
	for _, rawJob := range rawJobs {
		resp, err := rawJob.ToJobResponse(now)
		if err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Message: fmt.Sprint("Failed to process job posting: ", err.Error()),
			})
			return
		}
		jobs = append(jobs, resp)
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)

	c.JSON(http.StatusOK, model.JobListResponse{
		Success:    true,
		Jobs:       jobs,
		Count:      total,
		Page:       page,
		TotalPages: totalPages,
	})
}

// GetMyJobs lists the postings owned by the calling employer.
// @Summary Get own job postings
// @Tags Job
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} model.JobListResponse "Own job postings"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as employer"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /job/getmyjobs [get]
func (jc *JobController) GetMyJobs(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Message: err.Error()})
		return
	}

	var rawJobs []model.Job
	if err := jc.DB.
		Where("posted_by_id = ?", user.ID).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "posted_on"}, Desc: true}).
		Find(&rawJobs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Message: fmt.Sprint("Failed to fetch job postings: ", err.Error()),
		})
		return
	}

	now := time.Now()
	jobs := []model.JobResponse{}
	for _, rawJob := range rawJobs {
		resp, err := rawJob.ToJobResponse(now)
		if err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Message: fmt.Sprint("Failed to process job posting: ", err.Error()),
			})
			return
		}
		jobs = append(jobs, resp)
	}

	c.JSON(http.StatusOK, model.JobListResponse{
		Success:    true,
		Jobs:       jobs,
		Count:      int64(len(jobs)),
		Page:       1,
		TotalPages: 1,
	})
}

// GetJobByID fetches a job posting by its ID and returns it with its
// derived expiry state.
// @Summary Get job posting by ID
// @Tags Job
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired job posting"
// @Success 200 {object} model.JobResponse "Return the job posting with the specified ID"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Job posting not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /job/{id} [get]
func (jc *JobController) GetJobByID(c *gin.Context) {
	id := c.Param("id")

	job := model.Job{}
	if err := jc.DB.Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Message: "Job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Message: fmt.Sprintf("Failed to retrieve job posting: %s", err.Error()),
		})
		return
	}

	resp, err := job.ToJobResponse(time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Message: fmt.Sprint("Failed to process job posting: ", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// EditJob allows an employer to update a job posting with a partial merge.
// @Summary Edit job posting based on given json structure
// @Description When ownership is enforced only the posting's own employer may edit
// @Tags Job
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired job posting"
// @Param Job body model.EditableJobInfo true "Input job posting information"
// @Success 200 {object} model.JobResponse "Successfully update job posting"
// @Failure 400 {object} utilities.ErrorResponse "Invalid job posting struct"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not have permission to edit"
// @Failure 404 {object} utilities.ErrorResponse "Job posting not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /job/update/{id} [patch]
func (jc *JobController) EditJob(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Message: err.Error()})
		return
	}

	id := c.Param("id")

	job := model.Job{}
	if err := jc.DB.Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Message: "Job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Message: fmt.Sprintf("Failed to retrieve job posting: %s", err.Error()),
		})
		return
	}

	if jc.EnforceOwnership && job.PostedByID != user.ID {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Message: "You are not allowed to edit this job posting",
		})
		return
	}

	// Bind incoming JSON into the editable block only, so ownership and
	// posting time cannot be overwritten.
	updated := model.Job{}
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&updated.EditableJobInfo); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Message: fmt.Sprintf("Failed to parse request body: %s", err.Error()),
		})
		return
	}

	utilities.MergeNonEmpty(&job.EditableJobInfo, &updated.EditableJobInfo)

	if err := job.EditableJobInfo.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Message: err.Error()})
		return
	}

	if err := jc.DB.Model(&job).Updates(job.EditableJobInfo).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Message: fmt.Sprintf("Failed to update job posting: %s", err.Error()),
		})
		return
	}

	// Reload the posting to return the latest data
	if err := jc.DB.Where("id = ?", job.ID).First(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Message: fmt.Sprintf("Failed to retrieve updated job posting: %s", err.Error()),
		})
		return
	}

	resp, err := job.ToJobResponse(time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Message: fmt.Sprint("Failed to process job posting: ", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DeleteJob allows an employer to delete a job posting.
// @Summary Delete given job posting ID
// @Description When ownership is enforced only the posting's own employer may delete
// @Tags Job
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired job posting"
// @Success 200 {object} utilities.MessageResponse "Successfully delete job posting"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not have permission to delete this posting"
// @Failure 404 {object} utilities.ErrorResponse "Job posting not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /job/delete/{id} [delete]
func (jc *JobController) DeleteJob(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Message: err.Error()})
		return
	}

	id := c.Param("id")

	job := model.Job{}
	if err := jc.DB.Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Message: "Job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Message: fmt.Sprintf("Failed to retrieve job posting: %s", err.Error()),
		})
		return
	}

	if jc.EnforceOwnership && job.PostedByID != user.ID {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Message: "You are not allowed to delete this job posting",
		})
		return
	}

	if err := jc.DB.Delete(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Message: fmt.Sprintf("Failed to delete job posting: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, utilities.Message("Job posting deleted"))
}

// SaveJob toggles a bookmark on a job posting for the calling job seeker.
// @Summary Toggle bookmark on a job posting
// @Tags Job
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired job posting"
// @Success 200 {object} utilities.MessageResponse "Bookmark toggled"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as job seeker"
// @Failure 404 {object} utilities.ErrorResponse "Job posting not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /job/save/{id} [post]
func (jc *JobController) SaveJob(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Message: err.Error()})
		return
	}

	id := c.Param("id")

	job := model.Job{}
	if err := jc.DB.Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Message: "Job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Message: fmt.Sprintf("Failed to retrieve job posting: %s", err.Error()),
		})
		return
	}

	existing := model.JobSave{}
	err = jc.DB.Where("job_id = ? AND user_id = ?", job.ID, user.ID).First(&existing).Error
	switch {
	case err == nil:
		if err := jc.DB.Delete(&existing).Error; err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Message: fmt.Sprintf("Failed to remove bookmark: %s", err.Error()),
			})
			return
		}
		c.JSON(http.StatusOK, utilities.Message("Job removed from saved jobs"))

	case errors.Is(err, gorm.ErrRecordNotFound):
		save := model.JobSave{JobID: job.ID, UserID: user.ID}
		if err := jc.DB.Create(&save).Error; err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Message: fmt.Sprintf("Failed to save job: %s", err.Error()),
			})
			return
		}
		c.JSON(http.StatusOK, utilities.Message("Job saved"))

	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Message: fmt.Sprintf("Failed to check saved jobs: %s", err.Error()),
		})
	}
}
