package session

import (
	"fmt"

	"auction-engine/internal/auctionerrors"
	"auction-engine/internal/bidbook"
	"auction-engine/internal/ledger"
	"auction-engine/internal/models"
	"auction-engine/internal/sequencer"

	"github.com/shopspring/decimal"
)

// Snapshot captures the session for persistence
func (s *Session) Snapshot() models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() models.Snapshot {
	bidders := s.biddersLocked()
	return models.Snapshot{
		Auction:    s.auctionLocked(),
		Bidders:    bidders,
		Bids:       s.book.All(),
		ClosedLots: s.book.ClosedLots(),
		RefundKeys: s.ledger.RefundKeys(),
		Deadline:   s.seq.Deadline(),
		LotPhase:   string(s.seq.Phase()),
		NextSeq:    s.book.NextSeq(),
		TakenAt:    s.opts.Clock.Now().UTC(),
	}
}

// Restore rebuilds a session from a snapshot. An active auction resumes its
// countdown from the persisted deadline.
func Restore(snap models.Snapshot, opts Options) (*Session, error) {
	opts = opts.withDefaults()
	a := snap.Auction
	if a.AuctionID == "" {
		return nil, fmt.Errorf("session: %w - snapshot has no auction id", auctionerrors.ErrInvalidConfig)
	}
	if len(a.Lots) > 0 && (a.CurrentLotIndex < 0 || a.CurrentLotIndex >= len(a.Lots)) {
		return nil, fmt.Errorf("session: %w - lot index %d out of range", auctionerrors.ErrInvalidConfig, a.CurrentLotIndex)
	}

	order := make([]string, 0, len(snap.Bidders))
	balances := make(map[string]decimal.Decimal, len(snap.Bidders))
	bidders := make(map[string]*models.Bidder, len(snap.Bidders))
	for _, b := range snap.Bidders {
		b := b
		order = append(order, b.BidderID)
		balances[b.BidderID] = b.Balance
		bidders[b.BidderID] = &b
	}

	s := &Session{
		opts:    opts,
		auction: a,
		bidders: bidders,
		ledger:  ledger.Restore(a.BidderBudget, order, balances, snap.RefundKeys),
		book:    bidbook.Restore(a.AuctionID, a.BidIncrement, a.MaxLotsPerBidder, snap.Bids, snap.ClosedLots, snap.NextSeq),
		seq:     sequencer.Restore(len(a.Lots), opts.BidWindow, a.CurrentLotIndex, snap.Deadline, sequencer.Phase(snap.LotPhase)),
	}
	s.auction.Lots = append([]models.Lot(nil), a.Lots...)

	if a.Status == models.StatusActive {
		s.mu.Lock()
		s.startTimerLocked()
		s.mu.Unlock()
	}
	return s, nil
}
