package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/insights-workflows/api-service/internal/store"
	"github.com/insights-workflows/api-service/pkg/models"
)

func newTestStore(t *testing.T) *store.MemoryStore {
	t.Helper()
	s := store.NewMemoryStore()
	t.Cleanup(func() { s.Close() })
	return s
}

func seedUser(t *testing.T, s *store.MemoryStore, uGuid string) {
	t.Helper()
	err := s.CreateUser(context.Background(), &models.User{
		UGuid:     uGuid,
		Name:      "Ana",
		Email:     uGuid + "@example.com",
		CreatedAt: models.NowISO(),
		Agents:    []models.Agent{},
	})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
}

// ─── Users ───────────────────────────────────────────────────

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "u1")

	got, err := s.GetUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if got.Email != "u1@example.com" {
		t.Errorf("GetUser().Email = %q, want %q", got.Email, "u1@example.com")
	}

	if _, err := s.GetUser(ctx, "missing"); err == nil {
		t.Fatal("GetUser() on missing user, want error")
	} else if _, ok := err.(*store.ErrNotFound); !ok {
		t.Errorf("GetUser() error = %T, want *store.ErrNotFound", err)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "u1")

	err := s.CreateUser(ctx, &models.User{UGuid: "u2", Email: "u1@example.com"})
	if !errors.Is(err, store.ErrDuplicateEmail) {
		t.Errorf("CreateUser() error = %v, want ErrDuplicateEmail", err)
	}
}

func TestGetUserByEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "u1")

	got, err := s.GetUserByEmail(ctx, "u1@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail() error = %v", err)
	}
	if got.UGuid != "u1" {
		t.Errorf("GetUserByEmail().UGuid = %q, want %q", got.UGuid, "u1")
	}

	if _, err := s.GetUserByEmail(ctx, "nobody@example.com"); err == nil {
		t.Fatal("GetUserByEmail() on unknown email, want error")
	}
}

func TestSetSessionToken(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "u1")

	if err := s.SetSessionToken(ctx, "u1", "tok-123"); err != nil {
		t.Fatalf("SetSessionToken() error = %v", err)
	}
	got, _ := s.GetUser(ctx, "u1")
	if got.SessionToken != "tok-123" {
		t.Errorf("SessionToken = %q, want %q", got.SessionToken, "tok-123")
	}
}

func TestSetLoggedBefore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "u1")

	if err := s.SetLoggedBefore(ctx, "u1", true); err != nil {
		t.Fatalf("SetLoggedBefore() error = %v", err)
	}
	got, _ := s.GetUser(ctx, "u1")
	if !got.LoggedBefore {
		t.Error("LoggedBefore = false, want true")
	}
}

// ─── Agents ──────────────────────────────────────────────────

func TestAppendAgent_OrderAndCount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "u1")

	for _, id := range []string{"a1", "a2"} {
		if err := s.AppendAgent(ctx, "u1", models.Agent{ID: id, Name: "Agent " + id}); err != nil {
			t.Fatalf("AppendAgent(%s) error = %v", id, err)
		}
		if err := s.IncrementAgentCount(ctx, "u1"); err != nil {
			t.Fatalf("IncrementAgentCount() error = %v", err)
		}
	}

	agents, err := s.ListUserAgents(ctx, "u1")
	if err != nil {
		t.Fatalf("ListUserAgents() error = %v", err)
	}
	if len(agents) != 2 {
		t.Fatalf("ListUserAgents() returned %d agents, want 2", len(agents))
	}
	if agents[0].ID != "a1" || agents[1].ID != "a2" {
		t.Errorf("agent order = [%s %s], want [a1 a2]", agents[0].ID, agents[1].ID)
	}

	u, _ := s.GetUser(ctx, "u1")
	if u.AgentCount != 2 {
		t.Errorf("AgentCount = %d, want 2", u.AgentCount)
	}
}

func TestListUserAgents_LegacyIDNormalized(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "u1")
	if err := s.AppendAgent(ctx, "u1", models.Agent{LegacyID: "old-7", Name: "Legacy"}); err != nil {
		t.Fatalf("AppendAgent() error = %v", err)
	}

	agents, _ := s.ListUserAgents(ctx, "u1")
	if agents[0].ID != "old-7" {
		t.Errorf("normalized ID = %q, want %q", agents[0].ID, "old-7")
	}
}

func TestAppendChatTurns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "u1")
	s.AppendAgent(ctx, "u1", models.Agent{ID: "a1", Chat: []models.ChatTurn{}})

	turns := []models.ChatTurn{
		{ID: "1", Role: models.RoleUser, Content: "hi"},
		{ID: "2", Role: models.RoleAssistant, Content: "hello"},
	}
	if err := s.AppendChatTurns(ctx, "u1", 0, turns); err != nil {
		t.Fatalf("AppendChatTurns() error = %v", err)
	}

	agents, _ := s.ListUserAgents(ctx, "u1")
	if len(agents[0].Chat) != 2 {
		t.Fatalf("chat length = %d, want 2", len(agents[0].Chat))
	}
	if agents[0].Chat[1].Role != models.RoleAssistant {
		t.Errorf("second turn role = %q, want %q", agents[0].Chat[1].Role, models.RoleAssistant)
	}

	if err := s.AppendChatTurns(ctx, "u1", 5, turns); err == nil {
		t.Error("AppendChatTurns() with out-of-range index, want error")
	}
}

// ─── Catalog & workflows ─────────────────────────────────────

func TestCatalogAgentRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	agent := &models.CatalogAgent{ID: "cat-1", Name: "Researcher"}
	if err := s.PutCatalogAgent(ctx, agent); err != nil {
		t.Fatalf("PutCatalogAgent() error = %v", err)
	}

	got, err := s.GetCatalogAgent(ctx, "cat-1")
	if err != nil {
		t.Fatalf("GetCatalogAgent() error = %v", err)
	}
	if got.Name != "Researcher" {
		t.Errorf("GetCatalogAgent().Name = %q, want %q", got.Name, "Researcher")
	}

	if _, err := s.GetCatalogAgent(ctx, "missing"); err == nil {
		t.Error("GetCatalogAgent() on missing id, want error")
	}
}

func TestWorkflows_ListInsertionOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"w3", "w1", "w2"} {
		if err := s.PutWorkflow(ctx, &models.Workflow{ID: id, Status: models.WorkflowActive}); err != nil {
			t.Fatalf("PutWorkflow(%s) error = %v", id, err)
		}
	}

	workflows, err := s.ListWorkflows(ctx)
	if err != nil {
		t.Fatalf("ListWorkflows() error = %v", err)
	}
	if len(workflows) != 3 {
		t.Fatalf("ListWorkflows() returned %d, want 3", len(workflows))
	}
	if workflows[0].ID != "w3" || workflows[2].ID != "w2" {
		t.Errorf("workflow order = [%s %s %s], want [w3 w1 w2]",
			workflows[0].ID, workflows[1].ID, workflows[2].ID)
	}

	// Re-put keeps position
	if err := s.PutWorkflow(ctx, &models.Workflow{ID: "w3", Status: models.WorkflowDraft}); err != nil {
		t.Fatalf("PutWorkflow() re-put error = %v", err)
	}
	workflows, _ = s.ListWorkflows(ctx)
	if len(workflows) != 3 || workflows[0].Status != models.WorkflowDraft {
		t.Errorf("re-put changed list shape: len=%d first=%v", len(workflows), workflows[0].Status)
	}
}
