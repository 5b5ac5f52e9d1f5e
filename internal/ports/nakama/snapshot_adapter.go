package nakama

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"blokus/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

const snapshotCollection = "match_snapshots"

// NakamaSnapshotAdapter persists final board renders in Nakama storage under a
// system-owned collection keyed by match id.
type NakamaSnapshotAdapter struct {
	nk runtime.NakamaModule
}

// NewNakamaSnapshotAdapter creates a new snapshot adapter.
func NewNakamaSnapshotAdapter(nk runtime.NakamaModule) *NakamaSnapshotAdapter {
	return &NakamaSnapshotAdapter{nk: nk}
}

// SaveFinalBoard stores the rendered board for a finished match.
func (a *NakamaSnapshotAdapter) SaveFinalBoard(ctx context.Context, matchID string, svg []byte, metadata map[string]interface{}) error {
	record := map[string]interface{}{
		"svg":      string(svg),
		"saved_at": time.Now().UTC().Format(time.RFC3339),
		"metadata": metadata,
	}
	value, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot record: %w", err)
	}

	_, err = a.nk.StorageWrite(ctx, []*runtime.StorageWrite{
		{
			Collection:     snapshotCollection,
			Key:            matchID,
			Value:          string(value),
			PermissionRead: runtime.STORAGE_PERMISSION_PUBLIC_READ,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to write snapshot for match %s: %w", matchID, err)
	}
	return nil
}

var _ ports.SnapshotStore = (*NakamaSnapshotAdapter)(nil)
