package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"auction-engine/internal/auctionerrors"
	"auction-engine/internal/models"
)

// SnapshotStore defines durable storage for auction snapshots
type SnapshotStore interface {
	Save(ctx context.Context, snap models.Snapshot) error
	LoadAll(ctx context.Context) ([]models.Snapshot, error)
	Delete(ctx context.Context, auctionID string) error
}

// MemoryRepo is a concurrency-safe in-memory implementation of SnapshotStore.
// Snapshots are kept encoded, the same way the MySQL store keeps them.
type MemoryRepo struct {
	mu        sync.RWMutex
	snapshots map[string][]byte // key: auctionID -> value: encoded snapshot
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{snapshots: make(map[string][]byte)}
}

// Save stores snap, replacing any earlier snapshot of the same auction
func (r *MemoryRepo) Save(_ context.Context, snap models.Snapshot) error {
	payload, err := encode(snap)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots[snap.Auction.AuctionID] = payload
	return nil
}

// LoadAll returns every stored snapshot, oldest auction first
func (r *MemoryRepo) LoadAll(_ context.Context) ([]models.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Snapshot, 0, len(r.snapshots))
	for id, payload := range r.snapshots {
		snap, err := decode(payload)
		if err != nil {
			return nil, fmt.Errorf("load snapshot %s: %w", id, err)
		}
		out = append(out, snap)
	}
	sortSnapshots(out)
	return out, nil
}

// Delete removes the snapshot of auctionID
func (r *MemoryRepo) Delete(_ context.Context, auctionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.snapshots[auctionID]; !ok {
		return fmt.Errorf("delete snapshot %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}
	delete(r.snapshots, auctionID)
	return nil
}

func encode(snap models.Snapshot) ([]byte, error) {
	if snap.Auction.AuctionID == "" {
		return nil, fmt.Errorf("encode snapshot: %w - missing auction id", auctionerrors.ErrInvalidConfig)
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot %s: %w", snap.Auction.AuctionID, err)
	}
	return payload, nil
}

func decode(payload []byte) (models.Snapshot, error) {
	var snap models.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return models.Snapshot{}, err
	}
	return snap, nil
}

func sortSnapshots(snaps []models.Snapshot) {
	sort.Slice(snaps, func(i, j int) bool {
		ai, aj := snaps[i].Auction, snaps[j].Auction
		if ai.CreatedAt.Equal(aj.CreatedAt) {
			return ai.AuctionID < aj.AuctionID
		}
		return ai.CreatedAt.Before(aj.CreatedAt)
	})
}
