package server

import (
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	"github.com/Sanya-exe/Job-Connect/internal/auth"
	"github.com/Sanya-exe/Job-Connect/internal/controller/application"
	"github.com/Sanya-exe/Job-Connect/internal/controller/job"
	"github.com/Sanya-exe/Job-Connect/internal/controller/user"
	"github.com/Sanya-exe/Job-Connect/internal/middleware"
	"github.com/Sanya-exe/Job-Connect/internal/model"
)

// enforceOwnership reads the ownership policy switch. Defaults to true:
// mutations are restricted to the owning identity unless explicitly
// disabled.
func enforceOwnership() bool {
	raw := os.Getenv("ENFORCE_OWNERSHIP")
	if raw == "" {
		return true
	}
	enforce, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return enforce
}

// RegisterRoutes will register each http endpoint routes to bound Server instance
func (s *Server) RegisterRoutes() http.Handler {
	r := gin.Default()

	allowOriginsStr := os.Getenv("ALLOW_ORIGIN")
	allowOrigins := strings.Split(allowOriginsStr, ",")

	lAuth := auth.NewLocalAuthHandler(s.DB)
	logout := auth.NewLogoutController(s.Blacklist)
	userController := user.NewUserController(s.DB, s.Storage)
	jobController := job.NewJobController(s.DB, enforceOwnership())
	applicationController := application.NewApplicationController(s.DB, s.Mail, enforceOwnership())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(middleware.EnvRateLimitMiddleware())

	r.GET("/health", s.healthHandler)

	v1 := r.Group("/api/v1")
	{
		userRoute := v1.Group("/user")
		{
			userRoute.POST("register", lAuth.RegisterHandler)
			userRoute.POST("login", lAuth.LoginHandler)
			userRoute.GET("logout", logout.LogoutHandler)
		}

		// Listing is public; everything else under /job requires auth.
		v1.GET("/job/getall", jobController.GetAllJobs)

		needAuth := v1.Group("")
		{
			needAuth.Use(middleware.JwtBlacklistCheck(s.Blacklist), middleware.RequireAuth(s.DB))

			needAuth.GET("/user/me", userController.GetMyProfile)
			needAuth.PATCH("/user/update/:id", userController.UpdateProfile)
			needAuth.POST("/user/upload-resume", middleware.SizeLimit(10<<20), userController.UploadResume)

			needAuth.GET("/job/:id", jobController.GetJobByID)

			needEmployer := needAuth.Group("")
			{
				needEmployer.Use(middleware.CheckRole(model.RoleEmployer))
				needEmployer.POST("/job/post", jobController.CreateJobHandler)
				needEmployer.GET("/job/getmyjobs", jobController.GetMyJobs)
				needEmployer.PATCH("/job/update/:id", jobController.EditJob)
				needEmployer.DELETE("/job/delete/:id", jobController.DeleteJob)
			}

			needSeeker := needAuth.Group("")
			{
				needSeeker.Use(middleware.CheckRole(model.RoleJobSeeker))
				needSeeker.POST("/job/save/:id", jobController.SaveJob)
				needSeeker.POST("/application/post", applicationController.SubmitHandler)
				needSeeker.GET("/application/jobseeker/getall", applicationController.GetMyApplications)
				needSeeker.DELETE("/application/delete/:id", applicationController.WithdrawHandler)
			}
		}
	}

	return r
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.DB.Health())
}
