package database

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	m "github.com/Sanya-exe/Job-Connect/internal/model"
	"github.com/Sanya-exe/Job-Connect/internal/utilities"
)

var testDBInstance *Service
var teardown func(context.Context, ...testcontainers.TerminateOption) error

// Exported test users & postings
var (
	TestUserSeeker1   m.User // has a profile resume
	TestUserSeeker2   m.User // has no profile resume
	TestUserEmployer1 m.User
	TestUserEmployer2 m.User

	// TestSeedPassword is the plain password shared by all seeded users
	TestSeedPassword = "SeedPass123!"

	// Exported seeded job postings
	TestJob1 m.Job // active, fixed salary
	TestJob2 m.Job // posted 8 days ago with a 7 day window, expired
	TestJob3 m.Job // active, salary range
)

// GetTestDB starts a PostgreSQL test container and returns a teardown function,
// the DB instance, and any error encountered during setup.
func GetTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, *Service, error) {

	if testDBInstance != nil && teardown != nil {
		return teardown, testDBInstance, nil
	}

	var (
		dbName = "database"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:latest",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), nat.Port("5432/tcp"))
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	config := &Config{
		useConstr: true,
		Constr:    fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", dbHost, dbPort.Port(), dbUser, dbPwd, dbName),
	}

	db, err := New(config)
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	if err := seedTestData(db); err != nil {
		_ = dbContainer.Terminate(context.Background())
		return nil, nil, err
	}

	testDBInstance = db
	teardown = dbContainer.Terminate

	return dbContainer.Terminate, db, nil
}

// seedTestData inserts sample seeker and employer users plus job postings if empty.
func seedTestData(db *Service) error {
	var userCount int64
	if err := db.Model(&m.User{}).Count(&userCount).Error; err != nil {
		return err
	}
	if userCount > 0 {
		return loadTestData(db)
	}

	hashedPwd, errHash := utilities.HashPassword(TestSeedPassword)
	if errHash != nil {
		return errHash
	}

	users := []m.User{
		{
			ID: uuid.New(),
			EditableUserInfo: m.EditableUserInfo{
				Name:     "Alice Seeker",
				Phone:    "0100000001",
				Skillset: pq.StringArray{"Go", "SQL"},
			},
			Email:    "seeker1@example.com",
			Password: hashedPwd,
			Role:     m.RoleJobSeeker,
			Resume: m.ResumeRef{
				ObjectName: "resumes/seed-alice.pdf",
				URL:        "https://storage.googleapis.com/test-bucket/resumes/seed-alice.pdf",
			},
		},
		{
			ID: uuid.New(),
			EditableUserInfo: m.EditableUserInfo{
				Name:     "Bob Seeker",
				Phone:    "0100000002",
				Skillset: pq.StringArray{"React", "CSS"},
			},
			Email:    "seeker2@example.com",
			Password: hashedPwd,
			Role:     m.RoleJobSeeker,
		},
		{
			ID: uuid.New(),
			EditableUserInfo: m.EditableUserInfo{
				Name:  "Acme HR",
				Phone: "0200000001",
			},
			Email:    "employer1@example.com",
			Password: hashedPwd,
			Role:     m.RoleEmployer,
		},
		{
			ID: uuid.New(),
			EditableUserInfo: m.EditableUserInfo{
				Name:  "Globex HR",
				Phone: "0200000002",
			},
			Email:    "employer2@example.com",
			Password: hashedPwd,
			Role:     m.RoleEmployer,
		},
	}

	if err := db.Create(&users).Error; err != nil {
		return err
	}

	for _, u := range users {
		switch u.Email {
		case "seeker1@example.com":
			TestUserSeeker1 = u
		case "seeker2@example.com":
			TestUserSeeker2 = u
		case "employer1@example.com":
			TestUserEmployer1 = u
		case "employer2@example.com":
			TestUserEmployer2 = u
		}
	}

	fixed := int64(800000)
	from, to := int64(400000), int64(700000)

	jobs := []m.Job{
		{
			PostedByID: TestUserEmployer1.ID,
			EditableJobInfo: m.EditableJobInfo{
				Title:            "Backend Engineer",
				Company:          "Acme",
				Description:      "Build Go services and database layers.",
				Category:         "Software",
				Country:          "Thailand",
				City:             "Bangkok",
				Location:         "Sukhumvit Rd, Bangkok",
				SkillsRequired:   pq.StringArray{"go", "postgres"},
				ExperienceLevel:  m.ExperienceMid,
				FixedSalary:      &fixed,
				TimeLeftToExpire: 30,
			},
			PostedOn: time.Now(),
		},
		{
			PostedByID: TestUserEmployer1.ID,
			EditableJobInfo: m.EditableJobInfo{
				Title:            "Frontend Developer",
				Company:          "Acme",
				Description:      "Component library work in React.",
				Category:         "Software",
				Country:          "Thailand",
				City:             "Bangkok",
				Location:         "Sukhumvit Rd, Bangkok",
				SkillsRequired:   pq.StringArray{"react", "typescript"},
				ExperienceLevel:  m.ExperienceEntry,
				TimeLeftToExpire: 7,
			},
			PostedOn: time.Now().AddDate(0, 0, -8),
		},
		{
			PostedByID: TestUserEmployer2.ID,
			EditableJobInfo: m.EditableJobInfo{
				Title:            "Data Analyst",
				Company:          "Globex",
				Description:      "Dashboards and data cleansing.",
				Category:         "Analytics",
				Country:          "Thailand",
				City:             "Chiang Mai",
				Location:         "Nimman Rd, Chiang Mai",
				SkillsRequired:   pq.StringArray{"sql", "statistics"},
				ExperienceLevel:  m.ExperienceSenior,
				SalaryFrom:       &from,
				SalaryTo:         &to,
				TimeLeftToExpire: 60,
			},
			PostedOn: time.Now(),
		},
	}

	if err := db.Create(&jobs).Error; err != nil {
		return err
	}
	TestJob1 = jobs[0]
	TestJob2 = jobs[1]
	TestJob3 = jobs[2]

	return nil
}

// loadTestData populates exported variables when records already exist.
func loadTestData(db *Service) error {
	var users []m.User
	if err := db.Where("email IN ?", []string{
		"seeker1@example.com", "seeker2@example.com", "employer1@example.com", "employer2@example.com",
	}).Find(&users).Error; err != nil {
		return err
	}
	for _, u := range users {
		switch u.Email {
		case "seeker1@example.com":
			TestUserSeeker1 = u
		case "seeker2@example.com":
			TestUserSeeker2 = u
		case "employer1@example.com":
			TestUserEmployer1 = u
		case "employer2@example.com":
			TestUserEmployer2 = u
		}
	}

	var jobs []m.Job
	if err := db.Order("id ASC").Limit(3).Find(&jobs).Error; err == nil {
		if len(jobs) > 0 {
			TestJob1 = jobs[0]
		}
		if len(jobs) > 1 {
			TestJob2 = jobs[1]
		}
		if len(jobs) > 2 {
			TestJob3 = jobs[2]
		}
	}

	return nil
}
