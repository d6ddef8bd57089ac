// Package server provides the public entry point for initializing the
// Insights & Workflows API service: config, telemetry, store, completion
// client, handlers, and router, composed in one place.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/insights-workflows/api-service/internal/api"
	"github.com/insights-workflows/api-service/internal/api/handlers"
	"github.com/insights-workflows/api-service/internal/auth"
	"github.com/insights-workflows/api-service/internal/completion"
	"github.com/insights-workflows/api-service/internal/config"
	"github.com/insights-workflows/api-service/internal/store"
	"github.com/insights-workflows/api-service/internal/telemetry"
	"github.com/insights-workflows/api-service/pkg/models"
)

// Server holds the initialized API service.
type Server struct {
	// Handler is the HTTP handler with all routes and middleware.
	Handler http.Handler

	// Store is the data store (DynamoDB in production, in-memory locally).
	Store store.Store

	// Port is the port the server should listen on.
	Port int

	// ShutdownFunc should be called on graceful shutdown to flush telemetry.
	ShutdownFunc func(context.Context) error
}

// New initializes the service from environment configuration.
func New(ctx context.Context) (*Server, error) {
	return NewWithConfig(ctx, config.Load())
}

// NewWithConfig initializes the service with an explicit configuration.
func NewWithConfig(ctx context.Context, cfg *config.Config) (*Server, error) {
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	shutdown, err := telemetry.Init(cfg.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	dataStore, err := newStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := seedWorkflows(ctx, dataStore); err != nil {
		log.Warn().Err(err).Msg("Workflow seeding failed")
	}

	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
	completions := completion.NewOpenAIClient(cfg.OpenAI)

	h := handlers.New(dataStore, completions, tokens, cfg.Auth.SessionTTL)
	h.BcryptCost = cfg.Auth.BcryptCost
	router := api.NewRouter(cfg, h)

	return &Server{
		Handler:      router,
		Store:        dataStore,
		Port:         cfg.Port,
		ShutdownFunc: shutdown,
	}, nil
}

func newStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	if cfg.Database.AccessKeyID == "" {
		log.Info().Msg("No AWS credentials configured, using in-memory store")
		return store.NewMemoryStore(), nil
	}

	ds, err := store.NewDynamoStore(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init dynamodb store: %w", err)
	}
	log.Info().
		Str("region", cfg.Database.Region).
		Str("users_table", cfg.Database.UsersTable).
		Msg("DynamoDB store initialized")
	return ds, nil
}

// seedWorkflows makes sure the workflow templates the dashboard ships
// with exist in the store. Existing entries are overwritten so template
// edits roll out on deploy.
func seedWorkflows(ctx context.Context, s store.Store) error {
	seeds := []models.Workflow{
		{
			ID:          "1",
			Name:        "Customer Onboarding",
			Description: "Automate customer welcome and setup process",
			Status:      models.WorkflowActive,
			LastRun:     "2 hours ago",
			Steps:       5,
		},
		{
			ID:          "2",
			Name:        "Data Analysis Pipeline",
			Description: "Process and analyze customer data for insights",
			Status:      models.WorkflowActive,
			LastRun:     "1 day ago",
			Steps:       8,
		},
		{
			ID:          "3",
			Name:        "Email Campaign Manager",
			Description: "Create and schedule email marketing campaigns",
			Status:      models.WorkflowDraft,
			Steps:       4,
		},
		{
			ID:          "4",
			Name:        "Support Ticket Triage",
			Description: "Automatically categorize and assign support tickets",
			Status:      models.WorkflowActive,
			LastRun:     "Just now",
			Steps:       3,
		},
	}
	for i := range seeds {
		if err := s.PutWorkflow(ctx, &seeds[i]); err != nil {
			return err
		}
	}
	return nil
}
