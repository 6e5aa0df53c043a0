package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Sanya-exe/Job-Connect/internal/database"
	"github.com/Sanya-exe/Job-Connect/internal/model"
	"github.com/Sanya-exe/Job-Connect/internal/utilities"
)

// AccessTokenCookie is the cookie mirroring the bearer token on login.
const AccessTokenCookie = "token"

// LocalAuthHandler holds DB reference for credential handler methods.
type LocalAuthHandler struct {
	DB *database.Service
}

// NewLocalAuthHandler creates a new instance of LocalAuthHandler with the provided database connection.
func NewLocalAuthHandler(db *database.Service) *LocalAuthHandler {
	return &LocalAuthHandler{
		DB: db,
	}
}

type registerInfo struct {
	Name     string   `json:"name" binding:"required"`
	Email    string   `json:"email" binding:"required,email"`
	Phone    string   `json:"phone" binding:"required"`
	Password string   `json:"password" binding:"required"`
	Role     string   `json:"role" binding:"required"`
	Skillset []string `json:"skillset"`
}

type loginInfo struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func validateRegisterInfo(info registerInfo) error {
	if len(info.Name) < 3 || len(info.Name) > 30 {
		return errors.New("Name must be between 3 and 30 characters")
	}
	for _, r := range info.Phone {
		if !unicode.IsDigit(r) {
			return errors.New("Phone must contain digits only")
		}
	}
	if len(info.Password) < 8 {
		return errors.New("Password should longer or equal to 8 characters")
	}
	switch info.Role {
	case model.RoleJobSeeker:
		if len(info.Skillset) == 0 {
			return errors.New("Job seekers must provide a non-empty skillset")
		}
	case model.RoleEmployer:
		if len(info.Skillset) > 0 {
			return errors.New("Employers must not provide a skillset")
		}
	default:
		return fmt.Errorf("Role '%s' not allowed, must be '%s' or '%s'", info.Role, model.RoleJobSeeker, model.RoleEmployer)
	}
	return nil
}

// RegisterHandler handles registration by receiving identity fields, role,
// and skillset. Skillset rules depend on role: required non-empty for job
// seekers, must be absent for employers.
// @Summary Register an account with email, password, and role
// @Description Email must not already exist and password must longer or equal to 8 characters long
// @Tags Auth
// @Accept json
// @Produce json
// @Param Info body registerInfo true "role can be only 'Job Seeker' or 'Employer'"
// @Success 201 {object} model.AuthResponse "Account created"
// @Failure 400 {object} utilities.ErrorResponse "Info provided not met the condition"
// @Failure 500 {object} utilities.ErrorResponse "Database or password hashing error"
// @Router /user/register [post]
func (lh *LocalAuthHandler) RegisterHandler(c *gin.Context) {
	var info registerInfo

	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Message: "Name, email, phone, password, and role must be provided",
		})
		return
	}

	if err := validateRegisterInfo(info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Message: err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(info.Email))

	var existing model.User
	err := lh.DB.Where("email = ?", email).First(&existing).Error

	switch {
	case err == nil:
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Message: "Email already registered",
		})
		return

	case errors.Is(err, gorm.ErrRecordNotFound):
		// Do nothing

	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Message: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	hashedPassword, err := utilities.HashPassword(info.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Message: fmt.Sprintf("Failed hash password: %s", err.Error()),
		})
		return
	}

	user := model.User{
		EditableUserInfo: model.EditableUserInfo{
			Name:     info.Name,
			Phone:    info.Phone,
			Skillset: info.Skillset,
		},
		Email:    email,
		Password: hashedPassword,
		Role:     info.Role,
	}

	if err := lh.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Message: fmt.Sprintf("Failed to create user: %s", err.Error()),
		})
		return
	}

	accessToken, _, err := GenerateStandardToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Message: fmt.Sprintf("Failed to generate access token: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, model.AuthResponse{
		Success:     true,
		User:        user,
		AccessToken: accessToken,
	})
}

// LoginHandler handles login by receiving email and password. On success
// the access token is returned in the body and mirrored into an httpOnly
// cookie.
// @Summary Login with email and password
// @Description Email must exist and password match
// @Tags Auth
// @Accept json
// @Produce json
// @Param Info body loginInfo true "Credentials for login"
// @Success 200 {object} model.AuthResponse "Logged in"
// @Failure 400 {object} utilities.ErrorResponse "Info provided not met the condition"
// @Failure 401 {object} utilities.ErrorResponse "Email not exist or password incorrect"
// @Failure 500 {object} utilities.ErrorResponse "Database or password hashing error"
// @Router /user/login [post]
func (lh *LocalAuthHandler) LoginHandler(c *gin.Context) {
	var info loginInfo

	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Message: "Email or password is not provided",
		})
		return
	}

	var user model.User
	err := lh.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(info.Email))).First(&user).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{
			Message: "Email or password is incorrect",
		})
		return

	case err == nil:
		// Do nothing

	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Message: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	if user.Password == "" || !utilities.VerifyPassword(info.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{
			Message: "Email or password is incorrect",
		})
		return
	}

	accessToken, expiresAt, err := GenerateStandardToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Message: fmt.Sprintf("Failed to generate access token: %s", err.Error()),
		})
		return
	}

	maxAge := int(time.Until(expiresAt).Seconds())
	c.SetCookie(AccessTokenCookie, accessToken, maxAge, "/", "", false, true)

	c.JSON(http.StatusOK, model.AuthResponse{
		Success:     true,
		User:        user,
		AccessToken: accessToken,
	})
}
