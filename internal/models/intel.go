package models

import (
	json "github.com/goccy/go-json"
)

// IntelStorageKey is the storage key every intel record lives under.
const IntelStorageKey = "intel-items"

// IntelItem is one reported piece of intel. Content holds the encoded
// payload of the handler named by Type.
type IntelItem struct {
	ID         string          `json:"id"`
	GuildID    string          `json:"guildId"`
	Type       string          `json:"type"`
	Timestamp  string          `json:"timestamp"`
	ReportedBy string          `json:"reportedBy,omitempty"`
	Content    json.RawMessage `json:"content"`
}

func (IntelItem) StorageKey() string { return IntelStorageKey }

func (i IntelItem) Tenant() string { return i.GuildID }

func (i IntelItem) Identifier() string { return i.ID }

func (i IntelItem) ISOTimestamp() string { return i.Timestamp }
