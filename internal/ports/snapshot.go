package ports

import "context"

// SnapshotStore persists final board renders for replay and history views.
type SnapshotStore interface {
	// SaveFinalBoard stores the rendered board for a finished match.
	SaveFinalBoard(ctx context.Context, matchID string, svg []byte, metadata map[string]interface{}) error
}
