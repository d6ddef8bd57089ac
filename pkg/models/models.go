// Package models defines the storage and wire types shared by the
// Insights & Workflows API service: users, their embedded agents and
// chat logs, the read-only agent catalog, and workflow templates.
package models

import "time"

// ── User ─────────────────────────────────────────────────────

// User is the full user record as persisted in the users table.
// Agents and chat logs are embedded rather than referenced; the only
// integrity rule is that agent ids are unique within one user's list.
type User struct {
	UGuid         string   `json:"uGuid" dynamodbav:"uGuid"`
	Name          string   `json:"name" dynamodbav:"name"`
	Email         string   `json:"email" dynamodbav:"email"`
	PasswordHash  string   `json:"-" dynamodbav:"passwordHash"`
	CreatedAt     string   `json:"createdAt" dynamodbav:"createdAt"`
	TrainingInfo  []string `json:"trainingInfo" dynamodbav:"trainingInfo"`
	WorkflowCount int      `json:"workflowCount" dynamodbav:"workflowCount"`
	WorkflowRunID []string `json:"workflowRunId" dynamodbav:"workflowRunId"`
	SocketID      string   `json:"socketId" dynamodbav:"socketId"`
	AgentCount    int      `json:"agentCount" dynamodbav:"agentCount"`
	Agents        []Agent  `json:"agents" dynamodbav:"agents"`
	LoggedBefore  bool     `json:"loggedBefore" dynamodbav:"loggedBefore"`
	SessionToken  string   `json:"-" dynamodbav:"sessionToken"`
}

// View returns the redacted user shape sent to the browser after login.
// The password hash and the stored session token never leave the server.
func (u *User) View() UserView {
	return UserView{
		UGuid:        u.UGuid,
		Name:         u.Name,
		Email:        u.Email,
		CreatedAt:    u.CreatedAt,
		LoggedBefore: u.LoggedBefore,
	}
}

// UserView is the client-facing projection of a User.
type UserView struct {
	UGuid        string `json:"uGuid"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	CreatedAt    string `json:"createdAt"`
	LoggedBefore bool   `json:"loggedBefore"`
}

// NowISO formats the current UTC time the way user records store it.
func NowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// ── Agent ────────────────────────────────────────────────────

// Agent is a chatbot persona embedded in its owning user's record.
//
// LegacyID ("agentID") is a schema-migration artifact: records written by
// an earlier client stored the identifier under that name. The store
// normalizes it into ID at read time so handlers only ever see ID.
type Agent struct {
	ID           string     `json:"id" dynamodbav:"id"`
	LegacyID     string     `json:"agentID,omitempty" dynamodbav:"agentID,omitempty"`
	Name         string     `json:"name" dynamodbav:"name"`
	Description  string     `json:"description" dynamodbav:"description"`
	Instructions string     `json:"instructions" dynamodbav:"instructions"`
	Avatar       string     `json:"avatar" dynamodbav:"avatar"`
	Chat         []ChatTurn `json:"chat" dynamodbav:"chat"`
}

// Normalize applies the legacy-id migration: when only the old field is
// populated, its value becomes the canonical ID.
func (a *Agent) Normalize() {
	if a.ID == "" && a.LegacyID != "" {
		a.ID = a.LegacyID
	}
}

// AgentSummary is the list-view shape returned by the agents listing:
// identity and presentation fields only, no chat log.
type AgentSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Avatar      string `json:"avatar"`
}

// Summary projects the agent to its list-view shape.
func (a *Agent) Summary() AgentSummary {
	return AgentSummary{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		Avatar:      a.Avatar,
	}
}

// ── Chat ─────────────────────────────────────────────────────

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatTurn is one entry in an agent's append-only chat log. The id is a
// stringified sequence number derived from the prior message count.
type ChatTurn struct {
	ID      string `json:"id" dynamodbav:"id"`
	Role    string `json:"role" dynamodbav:"role"`
	Content string `json:"content" dynamodbav:"content"`
}

// ── Catalog ──────────────────────────────────────────────────

// CatalogAgent is an entry in the global agent catalog (a separate table
// from per-user agents); browsed by id, never mutated through the API.
type CatalogAgent struct {
	ID           string `json:"id" dynamodbav:"id"`
	Name         string `json:"name" dynamodbav:"name"`
	Description  string `json:"description" dynamodbav:"description"`
	Instructions string `json:"instructions" dynamodbav:"instructions"`
	Avatar       string `json:"avatar" dynamodbav:"avatar"`
}

// ── Workflows ────────────────────────────────────────────────

type WorkflowStatus string

const (
	WorkflowActive   WorkflowStatus = "active"
	WorkflowDraft    WorkflowStatus = "draft"
	WorkflowArchived WorkflowStatus = "archived"
)

// Workflow is a named, parameterized form template browsed on the
// dashboard. The backend serves the template metadata; nothing here is
// ever evaluated server-side.
type Workflow struct {
	ID          string         `json:"id" dynamodbav:"id"`
	Name        string         `json:"name" dynamodbav:"name"`
	Description string         `json:"description" dynamodbav:"description"`
	Status      WorkflowStatus `json:"status" dynamodbav:"status"`
	LastRun     string         `json:"lastRun,omitempty" dynamodbav:"lastRun,omitempty"`
	Steps       int            `json:"steps" dynamodbav:"steps"`
}
