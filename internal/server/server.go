// Package server contain implementation of go-gin-server and each route handlers
package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"

	"github.com/Sanya-exe/Job-Connect/internal/auth"
	"github.com/Sanya-exe/Job-Connect/internal/database"
	"github.com/Sanya-exe/Job-Connect/internal/mailer"
	"github.com/Sanya-exe/Job-Connect/internal/storage"
)

// Server holds every long-lived dependency handlers need. Dependencies are
// constructed once here and handed to controllers, never reached through
// package globals.
type Server struct {
	DB        *database.Service
	Storage   storage.Client
	Mail      mailer.Sender
	Blacklist auth.JwtBlacklistStore
}

// NewServer construct new http.Server instance with every dependency wired
func NewServer() (*http.Server, error) {
	port, _ := strconv.Atoi(os.Getenv("PORT"))
	if port == 0 {
		port = 8080
	}

	db, err := database.Main()
	if err != nil {
		return nil, fmt.Errorf("database failed to initialize: %w", err)
	}

	storageClient, err := storage.NewClientFromEnv()
	if err != nil {
		return nil, fmt.Errorf("storage client failed to initialize: %w", err)
	}
	if storageClient == nil {
		log.Println("STORAGE_BUCKET not set, resume upload disabled")
	}

	var mail mailer.Sender
	if smtp := mailer.NewSMTPSenderFromEnv(); smtp != nil {
		mail = smtp
	} else {
		log.Println("SMTP_HOST not set, confirmation email disabled")
	}

	s := &Server{
		DB:        db,
		Storage:   storageClient,
		Mail:      mail,
		Blacklist: auth.NewInMemoryBlacklistStore(),
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server, nil
}
