// Package registry keeps every live auction session, addressable by id or by
// its short join code.
package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"auction-engine/internal/auctionerrors"
	"auction-engine/internal/metrics"
	"auction-engine/internal/models"
	"auction-engine/internal/session"
	"auction-engine/utils"
)

// DefaultCodeAttempts bounds how many codes Create draws before giving up
const DefaultCodeAttempts = 10

// AuctionCloser ends the event streams of a deleted auction
type AuctionCloser interface {
	CloseAuction(auctionID string)
}

// forgetter is implemented by persisters that can drop a deleted auction
type forgetter interface {
	Forget(auctionID string)
}

// Registry is a concurrency-safe map of sessions
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
	codes    map[string]string // code -> auction id

	opts     session.Options
	closer   AuctionCloser
	attempts int
	newCode  func() string
}

// New creates an empty registry. Sessions it creates share opts.
func New(opts session.Options, closer AuctionCloser, codeAttempts int) *Registry {
	if codeAttempts <= 0 {
		codeAttempts = DefaultCodeAttempts
	}
	return &Registry{
		sessions: make(map[string]*session.Session),
		codes:    make(map[string]string),
		opts:     opts,
		closer:   closer,
		attempts: codeAttempts,
		newCode:  utils.GenerateCode,
	}
}

// SetCodeGenerator replaces the join code source
func (r *Registry) SetCodeGenerator(gen func() string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.newCode = gen
}

// Create builds a new pending auction with a fresh id and an unused code
func (r *Registry) Create(cfg models.AuctionConfig) (*session.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	code := ""
	for i := 0; i < r.attempts; i++ {
		candidate := strings.ToUpper(r.newCode())
		if _, taken := r.codes[candidate]; !taken {
			code = candidate
			break
		}
	}
	if code == "" {
		return nil, fmt.Errorf("registry: %w - after %d attempts", auctionerrors.ErrCodeExhausted, r.attempts)
	}

	s, err := session.New(utils.GenerateID(), code, cfg, r.opts)
	if err != nil {
		return nil, err
	}
	r.sessions[s.ID()] = s
	r.codes[code] = s.ID()
	metrics.ActiveSessions.Set(float64(len(r.sessions)))

	if r.opts.Persister != nil {
		r.opts.Persister.Enqueue(s.Snapshot())
	}

	utils.Info("registry: auction created", map[string]any{
		"auction_id": s.ID(),
		"code":       code,
		"creator_id": cfg.CreatorID,
	})
	return s, nil
}

// Get returns the session for auctionID
func (r *Registry) Get(auctionID string) (*session.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[auctionID]
	if !ok {
		return nil, fmt.Errorf("registry: %w - %s", auctionerrors.ErrAuctionNotFound, auctionID)
	}
	return s, nil
}

// GetByCode returns the session whose join code matches, ignoring case
func (r *Registry) GetByCode(code string) (*session.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.codes[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return nil, fmt.Errorf("registry: %w - code %s", auctionerrors.ErrAuctionNotFound, code)
	}
	return r.sessions[id], nil
}

// Delete removes auctionID on behalf of its creator and closes its streams
func (r *Registry) Delete(auctionID, actorID string) error {
	s, err := r.Get(auctionID)
	if err != nil {
		return err
	}
	if err := s.Delete(actorID); err != nil {
		return err
	}

	r.mu.Lock()
	delete(r.sessions, auctionID)
	delete(r.codes, s.Code())
	metrics.ActiveSessions.Set(float64(len(r.sessions)))
	r.mu.Unlock()

	s.Close()
	if r.closer != nil {
		r.closer.CloseAuction(auctionID)
	}
	if f, ok := r.opts.Persister.(forgetter); ok {
		f.Forget(auctionID)
	}
	return nil
}

// Restore loads persisted sessions. Snapshots that do not rebuild are logged
// and skipped; the count of restored sessions is returned.
func (r *Registry) Restore(snaps []models.Snapshot) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	restored := 0
	for _, snap := range snaps {
		if _, exists := r.sessions[snap.Auction.AuctionID]; exists {
			continue
		}
		s, err := session.Restore(snap, r.opts)
		if err != nil {
			utils.Error("registry: skipping snapshot", map[string]any{
				"auction_id": snap.Auction.AuctionID,
				"error":      err.Error(),
			})
			continue
		}
		r.sessions[s.ID()] = s
		r.codes[strings.ToUpper(s.Code())] = s.ID()
		restored++
	}
	metrics.ActiveSessions.Set(float64(len(r.sessions)))
	return restored
}

// All returns every session, oldest first
func (r *Registry) All() []*session.Session {
	r.mu.RLock()
	out := make([]*session.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	r.mu.RUnlock()

	created := make(map[*session.Session]models.Auction, len(out))
	for _, s := range out {
		a, _ := s.Auction()
		created[s] = a
	}
	sort.Slice(out, func(i, j int) bool {
		ai, aj := created[out[i]], created[out[j]]
		if ai.CreatedAt.Equal(aj.CreatedAt) {
			return ai.AuctionID < aj.AuctionID
		}
		return ai.CreatedAt.Before(aj.CreatedAt)
	})
	return out
}

// Len is the number of live sessions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Close stops every session's countdown
func (r *Registry) Close() {
	for _, s := range r.All() {
		s.Close()
	}
}
