// Package store — in-memory Store implementation.
// Used when DynamoDB credentials are not configured (local dev, tests).
// It mirrors the DynamoDB semantics, including the deliberately
// non-transactional agent-append / counter-increment pair.
package store

import (
	"context"
	"sync"

	"github.com/insights-workflows/api-service/pkg/models"
)

// MemoryStore implements Store with mutex-guarded maps.
type MemoryStore struct {
	mu        sync.RWMutex
	users     map[string]*models.User         // key: uGuid
	byEmail   map[string]string               // key: email → uGuid
	catalog   map[string]*models.CatalogAgent // key: id
	workflows map[string]*models.Workflow     // key: id
	wfOrder   []string                        // insertion order for listing
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[string]*models.User),
		byEmail:   make(map[string]string),
		catalog:   make(map[string]*models.CatalogAgent),
		workflows: make(map[string]*models.Workflow),
	}
}

func (m *MemoryStore) Ping(context.Context) error { return nil }
func (m *MemoryStore) Close() error               { return nil }

// ── Users ───────────────────────────────────────────────────

func (m *MemoryStore) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byEmail[user.Email]; exists {
		return ErrDuplicateEmail
	}
	cp := cloneUser(user)
	m.users[user.UGuid] = cp
	m.byEmail[user.Email] = user.UGuid
	return nil
}

func (m *MemoryStore) GetUser(_ context.Context, uGuid string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[uGuid]
	if !ok {
		return nil, &ErrNotFound{Entity: "user", Key: uGuid}
	}
	out := cloneUser(u)
	normalizeAgents(out.Agents)
	return out, nil
}

func (m *MemoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	uGuid, ok := m.byEmail[email]
	if !ok {
		return nil, &ErrNotFound{Entity: "user", Key: email}
	}
	out := cloneUser(m.users[uGuid])
	normalizeAgents(out.Agents)
	return out, nil
}

func (m *MemoryStore) SetSessionToken(_ context.Context, uGuid, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[uGuid]
	if !ok {
		return &ErrNotFound{Entity: "user", Key: uGuid}
	}
	u.SessionToken = token
	return nil
}

func (m *MemoryStore) SetLoggedBefore(_ context.Context, uGuid string, logged bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[uGuid]
	if !ok {
		return &ErrNotFound{Entity: "user", Key: uGuid}
	}
	u.LoggedBefore = logged
	return nil
}

func (m *MemoryStore) ListUserAgents(_ context.Context, uGuid string) ([]models.Agent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[uGuid]
	if !ok {
		return nil, &ErrNotFound{Entity: "user", Key: uGuid}
	}
	agents := cloneAgents(u.Agents)
	normalizeAgents(agents)
	return agents, nil
}

func (m *MemoryStore) AppendAgent(_ context.Context, uGuid string, agent models.Agent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[uGuid]
	if !ok {
		return &ErrNotFound{Entity: "user", Key: uGuid}
	}
	u.Agents = append(u.Agents, agent)
	return nil
}

func (m *MemoryStore) IncrementAgentCount(_ context.Context, uGuid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[uGuid]
	if !ok {
		return &ErrNotFound{Entity: "user", Key: uGuid}
	}
	u.AgentCount++
	return nil
}

func (m *MemoryStore) AppendChatTurns(_ context.Context, uGuid string, agentIndex int, turns []models.ChatTurn) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[uGuid]
	if !ok {
		return &ErrNotFound{Entity: "user", Key: uGuid}
	}
	if agentIndex < 0 || agentIndex >= len(u.Agents) {
		return &ErrNotFound{Entity: "agent", Key: uGuid}
	}
	u.Agents[agentIndex].Chat = append(u.Agents[agentIndex].Chat, turns...)
	return nil
}

// ── Catalog ─────────────────────────────────────────────────

func (m *MemoryStore) GetCatalogAgent(_ context.Context, id string) (*models.CatalogAgent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.catalog[id]
	if !ok {
		return nil, &ErrNotFound{Entity: "catalog agent", Key: id}
	}
	cp := *a
	return &cp, nil
}

func (m *MemoryStore) PutCatalogAgent(_ context.Context, agent *models.CatalogAgent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *agent
	m.catalog[agent.ID] = &cp
	return nil
}

// ── Workflows ───────────────────────────────────────────────

func (m *MemoryStore) ListWorkflows(context.Context) ([]models.Workflow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Workflow, 0, len(m.wfOrder))
	for _, id := range m.wfOrder {
		out = append(out, *m.workflows[id])
	}
	return out, nil
}

func (m *MemoryStore) GetWorkflow(_ context.Context, id string) (*models.Workflow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	wf, ok := m.workflows[id]
	if !ok {
		return nil, &ErrNotFound{Entity: "workflow", Key: id}
	}
	cp := *wf
	return &cp, nil
}

func (m *MemoryStore) PutWorkflow(_ context.Context, wf *models.Workflow) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.workflows[wf.ID]; !exists {
		m.wfOrder = append(m.wfOrder, wf.ID)
	}
	cp := *wf
	m.workflows[wf.ID] = &cp
	return nil
}

// ── Helpers ─────────────────────────────────────────────────

func cloneUser(u *models.User) *models.User {
	cp := *u
	cp.Agents = cloneAgents(u.Agents)
	cp.TrainingInfo = append([]string(nil), u.TrainingInfo...)
	cp.WorkflowRunID = append([]string(nil), u.WorkflowRunID...)
	return &cp
}

func cloneAgents(agents []models.Agent) []models.Agent {
	out := make([]models.Agent, len(agents))
	for i, a := range agents {
		out[i] = a
		out[i].Chat = append([]models.ChatTurn(nil), a.Chat...)
	}
	return out
}

func normalizeAgents(agents []models.Agent) {
	for i := range agents {
		agents[i].Normalize()
	}
}
