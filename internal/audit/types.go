// Package audit emits structured events for the consent lifecycle:
// issuance, revocation, and delegation decisions. Events make the
// delegation graph reconstructable after the fact without ever
// carrying token strings or key material.
package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	// TokenIssued is emitted when a consent token is issued.
	TokenIssued EventType = "token.issued"
	// TokenRevoked is emitted when a token is explicitly revoked.
	TokenRevoked EventType = "token.revoked"
	// DelegationIssued is emitted when a trust link is granted.
	DelegationIssued EventType = "delegation.issued"
	// DelegationDenied is emitted when a delegation request asks for
	// more authority than the grantor holds.
	DelegationDenied EventType = "delegation.denied"
)

// Event is a single audit record. CredentialID is the credential's jti
// claim, an opaque identifier, never the serialized credential.
type Event struct {
	ID           string    `json:"id"`
	Type         EventType `json:"type"`
	Timestamp    int64     `json:"timestamp"`
	UserID       string    `json:"user_id,omitempty"`
	AgentID      string    `json:"agent_id,omitempty"`
	GranteeID    string    `json:"grantee_id,omitempty"`
	Scopes       []string  `json:"scopes,omitempty"`
	CredentialID string    `json:"credential_id,omitempty"`
}

// NewEvent creates an event of the given type stamped with a fresh ID
// and the current time in epoch milliseconds.
func NewEvent(t EventType) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      t,
		Timestamp: time.Now().UnixMilli(),
	}
}

// ToJSON serializes the event for transport.
func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}
