// Package application provides HTTP handlers for job application operations.
package application

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/Sanya-exe/Job-Connect/internal/database"
	"github.com/Sanya-exe/Job-Connect/internal/mailer"
	"github.com/Sanya-exe/Job-Connect/internal/model"
	"github.com/Sanya-exe/Job-Connect/internal/utilities"
)

// ApplicationController handles job application related endpoints
type ApplicationController struct {
	DB   *database.Service
	Mail mailer.Sender
	// EnforceOwnership restricts withdrawal to the application's own
	// applicant when true.
	EnforceOwnership bool
}

// NewApplicationController creates a new instance of ApplicationController.
// mail may be nil, which disables confirmation email entirely.
func NewApplicationController(db *database.Service, mail mailer.Sender, enforceOwnership bool) *ApplicationController {
	return &ApplicationController{
		DB:               db,
		Mail:             mail,
		EnforceOwnership: enforceOwnership,
	}
}

// SubmitHandler handles the creation of a new job application by a job
// seeker. The applicant must already have a profile resume; its reference
// is copied into the application as a snapshot. A confirmation email is
// dispatched best-effort after the application is durable.
// @Summary Create job application
// @Description Only job seekers with a profile resume can access this endpoint
// @Tags Application
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param application body model.Application true "Application information"
// @Success 201 {object} model.Application "Successfully applied to job posting"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body, missing profile resume, or duplicate application"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as job seeker"
// @Failure 404 {object} utilities.ErrorResponse "Job posting not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /application/post [post]
func (ac *ApplicationController) SubmitHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Message: err.Error()})
		return
	}

	// Extract application detail from request body
	application := model.Application{}
	if err := c.ShouldBindJSON(&application); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Message: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	// The target job must exist; the employer reference is denormalized
	// from its owner.
	job := model.Job{}
	if err := ac.DB.Where("id = ?", application.JobID).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Message: "Job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Message: fmt.Sprintf("Failed to retrieve job posting: %s", err.Error()),
		})
		return
	}

	// Applications never carry their own file; the profile resume is
	// required and copied by reference.
	if user.Resume.IsZero() {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Message: "Please upload a resume on your profile before applying",
		})
		return
	}

	// Reject duplicate applications for the same (applicant, job) pair.
	existing := model.Application{}
	if err := ac.DB.
		Where("applicant_id = ? AND job_id = ?", user.ID, application.JobID).
		First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Message: "You have already applied to this job posting",
		})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Message: "Failed to check existing application",
		})
		return
	}

	application.ApplicantID = user.ID
	application.EmployerID = job.PostedByID
	application.Resume = user.Resume

	if err := ac.DB.Create(&application).Error; err != nil {
		var pgErr *pgconn.PgError
		// Foreign key violation means the job disappeared between read and write
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
				Message: fmt.Sprintf("Invalid job reference: %s", err.Error()),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Message: fmt.Sprintf("Failed to create application: %s", err.Error()),
		})
		return
	}

	// Confirmation email is best-effort; delivery failure never rolls
	// back or fails the submission.
	if ac.Mail != nil {
		subject := fmt.Sprintf("Application received: %s at %s", job.Title, job.Company)
		body := fmt.Sprintf(
			"Hi %s,\n\nYour application for %s at %s has been submitted.\n\nGood luck!\n",
			application.Name, job.Title, job.Company,
		)
		if err := ac.Mail.Send(application.Email, subject, body); err != nil {
			log.Printf("failed to send application confirmation to %s: %v", application.Email, err)
		}
	}

	c.JSON(http.StatusCreated, application)
}

// GetMyApplications lists the applications submitted by the calling job seeker.
// @Summary List own applications
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.Application "Own applications"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as job seeker"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /application/jobseeker/getall [get]
func (ac *ApplicationController) GetMyApplications(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Message: err.Error()})
		return
	}

	applications := []model.Application{}
	if err := ac.DB.
		Where("applicant_id = ?", user.ID).
		Order("applied_at DESC").
		Find(&applications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Message: fmt.Sprintf("Failed to fetch applications: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "applications": applications})
}

// WithdrawHandler deletes an application by id.
// @Summary Withdraw an application
// @Description When ownership is enforced only the application's own applicant may withdraw
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of application to withdraw"
// @Success 200 {object} utilities.MessageResponse "Application withdrawn"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Application belongs to another user"
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /application/delete/{id} [delete]
func (ac *ApplicationController) WithdrawHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Message: err.Error()})
		return
	}

	id := c.Param("id")

	application := model.Application{}
	if err := ac.DB.Where("id = ?", id).First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Message: "Application not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Message: fmt.Sprintf("Failed to retrieve application: %s", err.Error()),
		})
		return
	}

	if ac.EnforceOwnership && application.ApplicantID != user.ID {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Message: "You are not allowed to withdraw this application",
		})
		return
	}

	if err := ac.DB.Delete(&application).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Message: fmt.Sprintf("Failed to delete application: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, utilities.Message("Application withdrawn"))
}
