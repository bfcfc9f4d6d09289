package session

import (
	"fmt"
	"time"

	"auction-engine/internal/auctionerrors"
	"auction-engine/internal/models"
)

// State is everything a reconnecting client needs to redraw the auction
type State struct {
	Auction   models.Auction  `json:"auction"`
	Phase     string          `json:"lot_phase"`
	Deadline  time.Time       `json:"deadline"`
	Remaining time.Duration   `json:"remaining"`
	Bidders   []models.Bidder `json:"bidders"`
}

// Auction returns a copy of the auction record
func (s *Session) Auction() (models.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.deleted {
		return models.Auction{}, s.goneErr()
	}
	return s.auctionLocked(), nil
}

func (s *Session) auctionLocked() models.Auction {
	a := s.auction
	a.Lots = append([]models.Lot(nil), s.auction.Lots...)
	return a
}

// State returns the auction together with the countdown and bidder list
func (s *Session) State() (State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.deleted {
		return State{}, s.goneErr()
	}
	return State{
		Auction:   s.auctionLocked(),
		Phase:     string(s.seq.Phase()),
		Deadline:  s.seq.Deadline(),
		Remaining: s.seq.Remaining(s.opts.Clock.Now()),
		Bidders:   s.biddersLocked(),
	}, nil
}

// Lot returns one lot by id
func (s *Session) Lot(lotID string) (models.Lot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.deleted {
		return models.Lot{}, s.goneErr()
	}
	idx, err := s.lotIndexLocked(lotID)
	if err != nil {
		return models.Lot{}, err
	}
	return s.auction.Lots[idx], nil
}

// Highest returns the leading bid on lotID
func (s *Session) Highest(lotID string) (models.Bid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.lotIndexLocked(lotID); err != nil {
		return models.Bid{}, err
	}
	bid, ok := s.book.Highest(lotID)
	if !ok {
		return models.Bid{}, fmt.Errorf("session: %w - %s", auctionerrors.ErrNoBids, lotID)
	}
	return bid, nil
}

// History returns the bids on lotID, most recent first
func (s *Session) History(lotID string) ([]models.Bid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.lotIndexLocked(lotID); err != nil {
		return nil, err
	}
	return s.book.History(lotID), nil
}

// Balance returns bidderID's balance in this auction
func (s *Session) Balance(bidderID string) (models.Bidder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bidders[bidderID]
	if !ok {
		return models.Bidder{}, fmt.Errorf("session: %w - %s", auctionerrors.ErrBidderNotFound, bidderID)
	}
	return copyBidder(b), nil
}

// Bidders lists every bidder in join order
func (s *Session) Bidders() []models.Bidder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.biddersLocked()
}

func (s *Session) biddersLocked() []models.Bidder {
	out := make([]models.Bidder, 0, len(s.bidders))
	for _, id := range s.ledger.Bidders() {
		out = append(out, copyBidder(s.bidders[id]))
	}
	return out
}

// Won returns the lots userID bought in this auction
func (s *Session) Won(userID string) []models.TeamEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []models.TeamEntry
	for _, l := range s.auction.Lots {
		if l.Status != models.LotSold || l.WinnerID != userID {
			continue
		}
		entries = append(entries, models.TeamEntry{
			AuctionID:   s.auction.AuctionID,
			AuctionName: s.auction.Name,
			LotID:       l.LotID,
			LotName:     l.Name,
			Image:       l.Image,
			Amount:      l.SoldAmount,
		})
	}
	return entries
}
