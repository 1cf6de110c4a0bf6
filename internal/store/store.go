// Package store persists the conversation log.
package store

import (
	"context"
	"errors"

	"github.com/sparklabs/sparkchat/internal/model/chat"
)

// ErrInvalidTurn is returned when a turn fails the append preconditions
// (empty text or a role outside the canonical set).
var ErrInvalidTurn = errors.New("invalid turn")

// Store is the durable, ordered, append-only conversation log.
type Store interface {
	// Append persists one turn, assigning id and timestamp when absent,
	// and returns the stored turn with those fields populated.
	Append(ctx context.Context, turn chat.Turn) (chat.Turn, error)

	// ListAll returns every turn ordered by timestamp ascending, ties
	// broken by insertion order. An empty log yields an empty slice.
	ListAll(ctx context.Context) ([]chat.Turn, error)

	// ClearAll removes every turn in a single statement. An append racing
	// the clear may survive it; callers accept that.
	ClearAll(ctx context.Context) error
}
