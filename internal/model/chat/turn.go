package chat

import "time"

// Role identifies the author of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"

	// roleLegacyModel is an older tag for assistant turns that may still
	// exist in persisted history. Accepted on read, never written.
	roleLegacyModel Role = "model"
)

// Normalize maps legacy role tags onto the canonical set.
func (r Role) Normalize() Role {
	if r == roleLegacyModel {
		return RoleAssistant
	}
	return r
}

// Valid reports whether the role belongs to the closed canonical set.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Turn is one persisted message in the conversation log. Turns are
// append-only: once written they are never edited or reordered, and they
// are removed only by a bulk clear.
type Turn struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}
