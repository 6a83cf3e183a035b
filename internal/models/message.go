package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Role identifies the author of a chat message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ParseRole validates a role string
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleAssistant:
		return Role(s), nil
	default:
		return "", fmt.Errorf("invalid message role %q", s)
	}
}

// UnmarshalJSON rejects roles outside the two known values
func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	role, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = role
	return nil
}

// Message is a single turn in a conversation. The timestamp is advisory;
// slice order is conversation order.
type Message struct {
	Role      Role       `json:"role"`
	Content   string     `json:"content"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// Validate checks a message for persistence
func (m Message) Validate() error {
	if _, err := ParseRole(string(m.Role)); err != nil {
		return err
	}
	if strings.TrimSpace(m.Content) == "" {
		return fmt.Errorf("message content must not be empty")
	}
	return nil
}

// ChatHistory is the per-user conversation document. Writes merge rather
// than replace; the store keeps a single row per user.
type ChatHistory struct {
	UserID    string    `gorm:"primaryKey;type:uuid" json:"userId"`
	Messages  []Message `gorm:"serializer:json" json:"messages"`
	UpdatedAt time.Time `json:"updated_at"`
}
