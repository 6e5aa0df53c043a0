// Package user provides HTTP handlers for profile related operations.
package user

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Sanya-exe/Job-Connect/internal/database"
	"github.com/Sanya-exe/Job-Connect/internal/model"
	"github.com/Sanya-exe/Job-Connect/internal/storage"
	"github.com/Sanya-exe/Job-Connect/internal/utilities"
)

const resumeObjectPrefix = "resumes"

var allowedResumeExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

// UserController handles profile related endpoints
type UserController struct {
	DB      *database.Service
	Storage storage.Client
}

// NewUserController creates a new instance of UserController
func NewUserController(db *database.Service, storage storage.Client) *UserController {
	return &UserController{
		DB:      db,
		Storage: storage,
	}
}

// GetMyProfile returns the authenticated user's own profile.
// @Summary Retrieve own profile
// @Tags User
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} model.User "Own profile"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Router /user/me [get]
func (uc *UserController) GetMyProfile(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// UpdateProfile merges non-empty editable fields into the caller's own
// profile. Role, email, and password cannot be changed here.
// @Summary Edit own profile fields
// @Description The id path parameter must be the caller's own user id
// @Tags User
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "Own user id"
// @Param profile body model.EditableUserInfo true "Fields to overwrite"
// @Success 200 {object} model.User "Updated profile"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body or id"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Attempt to update another user"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /user/update/{id} [patch]
func (uc *UserController) UpdateProfile(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Message: err.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Message: "Invalid user id"})
		return
	}

	if id != user.ID {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Message: "You are not allowed to update another user's profile",
		})
		return
	}

	edited := model.EditableUserInfo{}
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&edited); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Message: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	utilities.MergeNonEmpty(&user.EditableUserInfo, &edited)

	if err := uc.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Message: fmt.Sprintf("Failed to update user information: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// UploadResume replaces the caller's profile resume. The new object is
// uploaded and the reference persisted before the old object is deleted,
// so a partial failure can orphan the old file but never lose the
// reference to a live one.
// @Summary Upload profile resume
// @Description Only file that smaller than 10 MB with .pdf, .doc, or .docx extension is permitted
// @Tags User
// @Accept mpfd
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param resume formData file true "Upload your resume file"
// @Success 200 {object} model.User "Successfully upload resume"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 413 {object} utilities.ErrorResponse "File size is larger than 10 MB"
// @Failure 415 {object} utilities.ErrorResponse "File extension is not allowed"
// @Failure 500 {object} utilities.ErrorResponse "Storage or database error"
// @Failure 503 {object} utilities.ErrorResponse "Object storage not configured"
// @Router /user/upload-resume [post]
func (uc *UserController) UploadResume(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Message: err.Error()})
		return
	}

	if uc.Storage == nil {
		c.JSON(http.StatusServiceUnavailable, utilities.ErrorResponse{
			Message: "Resume storage is not configured",
		})
		return
	}

	rawFile, err := c.FormFile("resume")
	var maxBytesError *http.MaxBytesError
	if errors.As(err, &maxBytesError) {
		c.JSON(http.StatusRequestEntityTooLarge, utilities.ErrorResponse{
			Message: err.Error(),
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Message: fmt.Sprintf("Failed to retrieve file: %s", err.Error()),
		})
		return
	}

	extension := strings.ToLower(filepath.Ext(rawFile.Filename))
	if !allowedResumeExtensions[extension] {
		c.JSON(http.StatusUnsupportedMediaType, utilities.ErrorResponse{
			Message: fmt.Sprintf("Unsupported file extension: %s", extension),
		})
		return
	}

	f, err := rawFile.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Message: "Cannot open file"})
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("failed to close uploaded file: %v", err)
		}
	}()

	fileBytes, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Message: "Cannot read file"})
		return
	}

	objectName := fmt.Sprintf("%s/%s%s", resumeObjectPrefix, uuid.NewString(), extension)
	if err := uc.Storage.UploadFile(objectName, bytes.NewReader(fileBytes)); err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Message: fmt.Sprintf("Failed to store resume: %s", err.Error()),
		})
		return
	}

	oldResume := user.Resume
	user.Resume = model.ResumeRef{
		ObjectName: objectName,
		URL:        uc.Storage.ObjectURL(objectName),
	}

	if err := uc.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Message: fmt.Sprintf("Failed to update user information: %s", err.Error()),
		})
		return
	}

	// The old object is removed only after the new reference is durable.
	if !oldResume.IsZero() {
		if err := uc.Storage.DeleteFile(oldResume.ObjectName); err != nil {
			log.Printf("failed to delete replaced resume %s: %v", oldResume.ObjectName, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}
