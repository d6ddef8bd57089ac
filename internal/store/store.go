// Package store provides the storage interface and implementations for the
// Insights & Workflows API service. Production runs against DynamoDB; an
// in-memory implementation with the same semantics backs local dev and tests.
package store

import (
	"context"
	"errors"

	"github.com/insights-workflows/api-service/pkg/models"
)

// Store is the primary storage interface. All handler code depends on this
// interface, making it easy to swap between in-memory (tests) and DynamoDB
// (production) implementations.
type Store interface {
	UserStore
	CatalogStore
	WorkflowStore

	// Ping checks if the backing store is reachable.
	Ping(ctx context.Context) error

	// Close releases all resources held by the store.
	Close() error
}

// ── User Store ──────────────────────────────────────────────

// UserStore manages user records and their embedded agents and chat logs.
//
// AppendAgent/IncrementAgentCount and AppendChatTurns are deliberately
// separate single-item updates with no transaction or conditional guard:
// that matches the deployed data and keeps each call a one-shot write.
// Concurrent requests for the same user can therefore lose updates.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, uGuid string) (*models.User, error)
	// GetUserByEmail resolves a user through the email secondary index.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	SetSessionToken(ctx context.Context, uGuid, token string) error
	SetLoggedBefore(ctx context.Context, uGuid string, logged bool) error

	// ListUserAgents returns the user's embedded agents (chat logs included),
	// with legacy agent ids normalized. Empty slice when the user has none.
	ListUserAgents(ctx context.Context, uGuid string) ([]models.Agent, error)
	// AppendAgent appends one agent to the user's list, initializing the
	// list when absent.
	AppendAgent(ctx context.Context, uGuid string, agent models.Agent) error
	IncrementAgentCount(ctx context.Context, uGuid string) error

	// AppendChatTurns appends turns to the chat log of the agent at the
	// given position in the user's list.
	AppendChatTurns(ctx context.Context, uGuid string, agentIndex int, turns []models.ChatTurn) error
}

// ── Catalog Store ───────────────────────────────────────────

// CatalogStore is the read-mostly global agent catalog; Put exists for
// seeding and back-office tooling only.
type CatalogStore interface {
	GetCatalogAgent(ctx context.Context, id string) (*models.CatalogAgent, error)
	PutCatalogAgent(ctx context.Context, agent *models.CatalogAgent) error
}

// ── Workflow Store ──────────────────────────────────────────

// WorkflowStore serves the workflow templates the dashboard browses.
type WorkflowStore interface {
	ListWorkflows(ctx context.Context) ([]models.Workflow, error)
	GetWorkflow(ctx context.Context, id string) (*models.Workflow, error)
	PutWorkflow(ctx context.Context, wf *models.Workflow) error
}

// ── Errors ──────────────────────────────────────────────────

// ErrNotFound is returned when a requested entity does not exist.
type ErrNotFound struct {
	Entity string
	Key    string
}

func (e *ErrNotFound) Error() string {
	return e.Entity + " not found: " + e.Key
}

// ErrDuplicateEmail is returned when a registration collides with an
// existing account. DynamoDB cannot enforce this on insert (the email is
// only a secondary index), so the check is best-effort and racy.
var ErrDuplicateEmail = errors.New("email already registered")
