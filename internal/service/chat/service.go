// Package chat sequences the store and the completion gateway for each
// client request.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sparklabs/sparkchat/internal/model/chat"
	"github.com/sparklabs/sparkchat/internal/store"
)

// ErrEmptyMessage rejects blank submissions before anything is written.
var ErrEmptyMessage = errors.New("message is required")

// Completer is the slice of the AI gateway the orchestrator needs.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Service coordinates the conversation log and the completion gateway.
// Both collaborators are injected so tests can substitute fakes.
type Service struct {
	store store.Store
	ai    Completer
}

// NewService wires the orchestrator to its store and gateway.
func NewService(s store.Store, ai Completer) *Service {
	return &Service{store: s, ai: ai}
}

// History returns the full conversation log, oldest first.
func (s *Service) History(ctx context.Context) ([]chat.Turn, error) {
	return s.store.ListAll(ctx)
}

// Submit persists the user's message, obtains one completion, persists the
// reply, and returns both stored turns.
//
// The steps run strictly in sequence. If the gateway call or the second
// append fails, the already-persisted user turn is not rolled back: a user
// message with no matching reply is an accepted inconsistency, not a bug.
func (s *Service) Submit(ctx context.Context, message string) (chat.Turn, chat.Turn, error) {
	if strings.TrimSpace(message) == "" {
		return chat.Turn{}, chat.Turn{}, ErrEmptyMessage
	}

	userTurn, err := s.store.Append(ctx, chat.Turn{
		Role: chat.RoleUser,
		Text: message,
	})
	if err != nil {
		return chat.Turn{}, chat.Turn{}, fmt.Errorf("failed to store user turn: %w", err)
	}

	reply, err := s.ai.Complete(ctx, message)
	if err != nil {
		return chat.Turn{}, chat.Turn{}, fmt.Errorf("failed to generate reply: %w", err)
	}

	replyTurn, err := s.store.Append(ctx, chat.Turn{
		Role: chat.RoleAssistant,
		Text: reply,
	})
	if err != nil {
		return chat.Turn{}, chat.Turn{}, fmt.Errorf("failed to store assistant turn: %w", err)
	}

	return userTurn, replyTurn, nil
}

// Clear removes every turn. Repeated calls converge on the same empty log.
func (s *Service) Clear(ctx context.Context) error {
	return s.store.ClearAll(ctx)
}
