package application

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"

	"github.com/Sanya-exe/Job-Connect/internal/auth"
	"github.com/Sanya-exe/Job-Connect/internal/database"
	"github.com/Sanya-exe/Job-Connect/internal/middleware"
	"github.com/Sanya-exe/Job-Connect/internal/model"
	"github.com/Sanya-exe/Job-Connect/internal/testutil"
)

var testDB *database.Service
var testTeardown func(context.Context, ...testcontainers.TerminateOption) error

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	var err error
	testTeardown, testDB, err = database.GetTestDB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start test db: %v\n", err)
		os.Exit(1)
	}

	m.Run()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := testTeardown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "teardown error: %v\n", err)
	}
}

// recordingSender captures outgoing mail instead of dialing SMTP.
type recordingSender struct {
	mu   sync.Mutex
	sent []struct{ To, Subject, Body string }
	fail bool
}

func (r *recordingSender) Send(to, subject, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return fmt.Errorf("smtp unreachable")
	}
	r.sent = append(r.sent, struct{ To, Subject, Body string }{to, subject, body})
	return nil
}

func applicationRouter(mail *recordingSender, enforceOwnership bool) *gin.Engine {
	r := gin.New()
	ac := NewApplicationController(testDB, mail, enforceOwnership)

	needAuth := r.Group("/", middleware.RequireAuth(testDB))
	needSeeker := needAuth.Group("/", middleware.CheckRole(model.RoleJobSeeker))
	needSeeker.POST("/application/post", ac.SubmitHandler)
	needSeeker.GET("/application/jobseeker/getall", ac.GetMyApplications)
	needSeeker.DELETE("/application/delete/:id", ac.WithdrawHandler)

	return r
}

func seekerToken(t *testing.T, email string) string {
	t.Helper()
	token, err := auth.GetAccessToken(t, testDB, email, database.TestSeedPassword)
	assert.NoError(t, err)
	return token
}

func applicationPayload(jobID uint) gin.H {
	return gin.H{
		"name":         "Alice Seeker",
		"email":        "seeker1@example.com",
		"phone":        "0100000001",
		"address":      "1 Test Lane, Bangkok",
		"cover_letter": "I build Go services.",
		"job_id":       jobID,
	}
}

func TestSubmitWithoutProfileResume(t *testing.T) {
	mail := &recordingSender{}
	r := applicationRouter(mail, true)

	// second seeker never uploaded a resume
	token := seekerToken(t, database.TestUserSeeker2.Email)

	rec, resp := testutil.MakeJSONRequest(applicationPayload(database.TestJob1.ID), token, r, "/application/post", http.MethodPost)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Please upload a resume on your profile before applying", resp["message"])

	// rejection must leave no row behind
	var count int64
	testDB.Model(&model.Application{}).Where("applicant_id = ?", database.TestUserSeeker2.ID).Count(&count)
	assert.Equal(t, int64(0), count)
	assert.Empty(t, mail.sent)
}

func TestSubmitApplication(t *testing.T) {
	mail := &recordingSender{}
	r := applicationRouter(mail, true)
	token := seekerToken(t, database.TestUserSeeker1.Email)

	rec, resp := testutil.MakeJSONRequest(applicationPayload(database.TestJob1.ID), token, r, "/application/post", http.MethodPost)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, database.TestUserSeeker1.ID.String(), resp["applicant_id"])
	assert.Equal(t, database.TestUserEmployer1.ID.String(), resp["employer_id"])

	// resume snapshot comes from the profile, not the request
	resume, ok := resp["resume"].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, database.TestUserSeeker1.Resume.ObjectName, resume["object_name"])

	assert.Len(t, mail.sent, 1)
	assert.Equal(t, "seeker1@example.com", mail.sent[0].To)
	assert.Contains(t, mail.sent[0].Subject, database.TestJob1.Title)
}

func TestSubmitDuplicateApplication(t *testing.T) {
	mail := &recordingSender{}
	r := applicationRouter(mail, true)
	token := seekerToken(t, database.TestUserSeeker1.Email)

	// first submission in TestSubmitApplication already exists
	rec, resp := testutil.MakeJSONRequest(applicationPayload(database.TestJob1.ID), token, r, "/application/post", http.MethodPost)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "You have already applied to this job posting", resp["message"])
	assert.Empty(t, mail.sent)
}

func TestSubmitJobNotFound(t *testing.T) {
	r := applicationRouter(&recordingSender{}, true)
	token := seekerToken(t, database.TestUserSeeker1.Email)

	rec, resp := testutil.MakeJSONRequest(applicationPayload(999999), token, r, "/application/post", http.MethodPost)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Job not found", resp["message"])
}

func TestSubmitMissingContactFields(t *testing.T) {
	r := applicationRouter(&recordingSender{}, true)
	token := seekerToken(t, database.TestUserSeeker1.Email)

	payload := applicationPayload(database.TestJob3.ID)
	delete(payload, "cover_letter")

	rec, _ := testutil.MakeJSONRequest(payload, token, r, "/application/post", http.MethodPost)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitSurvivesMailFailure(t *testing.T) {
	mail := &recordingSender{fail: true}
	r := applicationRouter(mail, true)
	token := seekerToken(t, database.TestUserSeeker1.Email)

	rec, _ := testutil.MakeJSONRequest(applicationPayload(database.TestJob3.ID), token, r, "/application/post", http.MethodPost)

	// delivery failure never fails the submission
	assert.Equal(t, http.StatusCreated, rec.Code)

	var count int64
	testDB.Model(&model.Application{}).
		Where("applicant_id = ? AND job_id = ?", database.TestUserSeeker1.ID, database.TestJob3.ID).
		Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSnapshotSurvivesResumeReplacement(t *testing.T) {
	var app model.Application
	assert.NoError(t, testDB.
		Where("applicant_id = ? AND job_id = ?", database.TestUserSeeker1.ID, database.TestJob1.ID).
		First(&app).Error)
	originalObject := app.Resume.ObjectName

	// replace the profile resume after the fact
	var seeker model.User
	assert.NoError(t, testDB.Where("id = ?", database.TestUserSeeker1.ID).First(&seeker).Error)
	seeker.Resume = model.ResumeRef{
		ObjectName: "resumes/replacement.pdf",
		URL:        "https://storage.googleapis.com/test-bucket/resumes/replacement.pdf",
	}
	assert.NoError(t, testDB.Save(&seeker).Error)
	t.Cleanup(func() {
		seeker.Resume = database.TestUserSeeker1.Resume
		testDB.Save(&seeker)
	})

	assert.NoError(t, testDB.Where("id = ?", app.ID).First(&app).Error)
	assert.Equal(t, originalObject, app.Resume.ObjectName, "submitted snapshot must not follow profile updates")
}

func TestGetMyApplications(t *testing.T) {
	r := applicationRouter(&recordingSender{}, true)
	token := seekerToken(t, database.TestUserSeeker1.Email)

	rec, resp := testutil.MakeJSONRequest(nil, token, r, "/application/jobseeker/getall", http.MethodGet)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, resp["success"])

	apps, ok := resp["applications"].([]interface{})
	assert.True(t, ok)
	assert.NotEmpty(t, apps)
	for _, raw := range apps {
		a := raw.(map[string]interface{})
		assert.Equal(t, database.TestUserSeeker1.ID.String(), a["applicant_id"])
	}
}

func TestWithdrawNotOwnForbidden(t *testing.T) {
	r := applicationRouter(&recordingSender{}, true)

	var app model.Application
	assert.NoError(t, testDB.
		Where("applicant_id = ?", database.TestUserSeeker1.ID).
		First(&app).Error)

	// the other seeker may not withdraw it
	token := seekerToken(t, database.TestUserSeeker2.Email)
	endpoint := fmt.Sprintf("/application/delete/%d", app.ID)
	rec, _ := testutil.MakeJSONRequest(nil, token, r, endpoint, http.MethodDelete)

	assert.Equal(t, http.StatusForbidden, rec.Code)

	var still model.Application
	assert.NoError(t, testDB.Where("id = ?", app.ID).First(&still).Error)
}

func TestWithdrawOwnApplication(t *testing.T) {
	r := applicationRouter(&recordingSender{}, true)
	token := seekerToken(t, database.TestUserSeeker1.Email)

	var app model.Application
	assert.NoError(t, testDB.
		Where("applicant_id = ? AND job_id = ?", database.TestUserSeeker1.ID, database.TestJob3.ID).
		First(&app).Error)

	endpoint := fmt.Sprintf("/application/delete/%d", app.ID)
	rec, resp := testutil.MakeJSONRequest(nil, token, r, endpoint, http.MethodDelete)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Application withdrawn", resp["message"])

	var gone model.Application
	err := testDB.Where("id = ?", app.ID).First(&gone).Error
	assert.Error(t, err)
}

func TestWithdrawNotFound(t *testing.T) {
	r := applicationRouter(&recordingSender{}, true)
	token := seekerToken(t, database.TestUserSeeker1.Email)

	rec, resp := testutil.MakeJSONRequest(nil, token, r, "/application/delete/999999", http.MethodDelete)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Application not found", resp["message"])
}
