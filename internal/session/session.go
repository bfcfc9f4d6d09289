// Package session implements the live auction state machine. Every mutating
// call on a Session runs under its write lock, one at a time, so the ledger,
// the bid book and the countdown always move together.
package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"auction-engine/internal/auctionerrors"
	"auction-engine/internal/bidbook"
	"auction-engine/internal/ledger"
	"auction-engine/internal/metrics"
	"auction-engine/internal/models"
	"auction-engine/internal/sequencer"
	"auction-engine/utils"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
)

// Defaults carried over from the original auction app
var (
	DefaultBudget    = decimal.NewFromInt(5000)
	DefaultIncrement = decimal.NewFromInt(1)
)

const (
	DefaultMaxLots      = 3
	DefaultTickInterval = time.Second
)

// Publisher receives events after each committed change
type Publisher interface {
	Publish(ev models.Event)
}

// Persister receives a snapshot after each committed change. Enqueue must not
// block; the write happens off the session lock.
type Persister interface {
	Enqueue(snap models.Snapshot)
}

// Options are the collaborators and timings shared by sessions
type Options struct {
	Clock        clockwork.Clock
	Publisher    Publisher
	Persister    Persister
	BidWindow    time.Duration
	TickInterval time.Duration
}

func (o Options) withDefaults() Options {
	if o.Clock == nil {
		o.Clock = clockwork.NewRealClock()
	}
	if o.BidWindow <= 0 {
		o.BidWindow = sequencer.DefaultWindow
	}
	if o.TickInterval <= 0 {
		o.TickInterval = DefaultTickInterval
	}
	return o
}

// Session owns one auction with its lots, bidders and bids
type Session struct {
	mu      sync.RWMutex
	opts    Options
	auction models.Auction
	bidders map[string]*models.Bidder
	ledger  *ledger.Ledger
	book    *bidbook.BidBook
	seq     *sequencer.Sequencer
	deleted bool

	stop chan struct{}
	done chan struct{}
}

// New validates cfg and builds a pending session
func New(auctionID, code string, cfg models.AuctionConfig, opts Options) (*Session, error) {
	opts = opts.withDefaults()
	cfg, err := normalizeConfig(cfg)
	if err != nil {
		return nil, err
	}

	auction := models.Auction{
		AuctionID:        auctionID,
		Code:             code,
		Name:             cfg.Name,
		Description:      cfg.Description,
		CreatorID:        cfg.CreatorID,
		CreatorName:      cfg.CreatorName,
		BasePrice:        cfg.BasePrice,
		BidderBudget:     cfg.BidderBudget,
		BidIncrement:     cfg.BidIncrement,
		MaxLotsPerBidder: cfg.MaxLotsPerBidder,
		IsPublic:         cfg.IsPublic,
		Status:           models.StatusPending,
		Lots:             buildLots(cfg.Lots, cfg.BasePrice),
		CreatedAt:        opts.Clock.Now().UTC(),
	}

	return &Session{
		opts:    opts,
		auction: auction,
		bidders: make(map[string]*models.Bidder),
		ledger:  ledger.New(auction.BidderBudget),
		book:    bidbook.New(auctionID, auction.BidIncrement, auction.MaxLotsPerBidder),
		seq:     sequencer.New(len(auction.Lots), opts.BidWindow),
	}, nil
}

func normalizeConfig(cfg models.AuctionConfig) (models.AuctionConfig, error) {
	cfg.Name = strings.TrimSpace(cfg.Name)
	switch {
	case cfg.Name == "":
		return cfg, fmt.Errorf("session: %w - name is required", auctionerrors.ErrInvalidConfig)
	case cfg.CreatorID == "":
		return cfg, fmt.Errorf("session: %w - creator is required", auctionerrors.ErrInvalidConfig)
	case !cfg.BasePrice.IsPositive():
		return cfg, fmt.Errorf("session: %w - base price must be positive", auctionerrors.ErrInvalidConfig)
	case cfg.BidderBudget.IsNegative():
		return cfg, fmt.Errorf("session: %w - bidder budget cannot be negative", auctionerrors.ErrInvalidConfig)
	case cfg.BidIncrement.IsNegative():
		return cfg, fmt.Errorf("session: %w - bid increment cannot be negative", auctionerrors.ErrInvalidConfig)
	case cfg.MaxLotsPerBidder < 0:
		return cfg, fmt.Errorf("session: %w - max lots per bidder cannot be negative", auctionerrors.ErrInvalidConfig)
	}
	if cfg.BidderBudget.IsZero() {
		cfg.BidderBudget = DefaultBudget
	}
	if cfg.BidIncrement.IsZero() {
		cfg.BidIncrement = DefaultIncrement
	}
	if cfg.MaxLotsPerBidder == 0 {
		cfg.MaxLotsPerBidder = DefaultMaxLots
	}
	if err := validateLots(cfg.Lots); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validateLots(lots []models.LotConfig) error {
	for i, l := range lots {
		if strings.TrimSpace(l.Name) == "" {
			return fmt.Errorf("session: %w - lot %d has no name", auctionerrors.ErrInvalidConfig, i)
		}
		if l.BasePrice.IsNegative() {
			return fmt.Errorf("session: %w - lot %q has a negative base price", auctionerrors.ErrInvalidConfig, l.Name)
		}
	}
	return nil
}

func buildLots(cfgs []models.LotConfig, fallback decimal.Decimal) []models.Lot {
	lots := make([]models.Lot, 0, len(cfgs))
	for _, c := range cfgs {
		base := c.BasePrice
		inherits := base.IsZero()
		if inherits {
			base = fallback
		}
		lots = append(lots, models.Lot{
			LotID:        utils.GenerateID(),
			Name:         strings.TrimSpace(c.Name),
			Description:  c.Description,
			Image:        c.Image,
			BasePrice:    base,
			InheritsBase: inherits,
			Status:       models.LotPending,
		})
	}
	return lots
}

// ID returns the auction id
func (s *Session) ID() string {
	return s.auction.AuctionID
}

// Code returns the human auction code
func (s *Session) Code() string {
	return s.auction.Code
}

// Join registers bidderID in the auction. The first join seeds the balance
// with the auction budget; later joins return the existing position.
func (s *Session) Join(bidderID, name string) (models.Bidder, bool, error) {
	if bidderID == "" {
		return models.Bidder{}, false, fmt.Errorf("session: %w - missing bidder id", auctionerrors.ErrInvalidBid)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.deleted {
		return models.Bidder{}, false, s.goneErr()
	}

	bal, joined := s.ledger.Join(bidderID)
	if !joined {
		return copyBidder(s.bidders[bidderID]), false, nil
	}

	if name == "" {
		name = bidderID
	}
	b := &models.Bidder{
		BidderID: bidderID,
		Name:     name,
		Balance:  bal,
		JoinedAt: s.opts.Clock.Now().UTC(),
	}
	s.bidders[bidderID] = b
	s.persistLocked()

	utils.Info("session: bidder joined", map[string]any{
		"auction_id": s.auction.AuctionID,
		"bidder_id":  bidderID,
		"balance":    bal.String(),
	})
	return copyBidder(b), true, nil
}

// Start opens the auction with the first lot in play
func (s *Session) Start(actorID string) error {
	defer metrics.Time("start")()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authorizeLocked(actorID); err != nil {
		return err
	}
	if s.auction.Status != models.StatusPending {
		return fmt.Errorf("session: %w - auction is %s", auctionerrors.ErrInvalidState, s.auction.Status)
	}

	now := s.opts.Clock.Now()
	if err := s.seq.Begin(now); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	s.auction.Status = models.StatusActive
	s.auction.CurrentLotIndex = 0
	s.startTimerLocked()

	lot := s.auction.Lots[0]
	s.publishLocked(models.Event{
		Type:     models.EventAuctionStarted,
		LotID:    lot.LotID,
		LotIndex: 0,
		Lot:      &lot,
		Deadline: s.seq.Deadline(),
	}, now)
	s.persistLocked()

	utils.Info("session: auction started", map[string]any{
		"auction_id": s.auction.AuctionID,
		"lots":       len(s.auction.Lots),
	})
	return nil
}

// PlaceBid submits amount for lotID on behalf of bidderID. Only the lot in
// play accepts bids, and only while its countdown is running.
func (s *Session) PlaceBid(bidderID, lotID string, amount decimal.Decimal) (models.Bid, error) {
	defer metrics.Time("place_bid")()

	s.mu.Lock()
	defer s.mu.Unlock()

	bid, err := s.placeBidLocked(bidderID, lotID, amount)
	metrics.ObserveBid(err)
	if err != nil {
		utils.Warn("session: bid rejected", map[string]any{
			"auction_id": s.auction.AuctionID,
			"lot_id":     lotID,
			"bidder_id":  bidderID,
			"amount":     amount.String(),
			"error":      err.Error(),
		})
		return models.Bid{}, err
	}
	return bid, nil
}

func (s *Session) placeBidLocked(bidderID, lotID string, amount decimal.Decimal) (models.Bid, error) {
	if s.deleted {
		return models.Bid{}, s.goneErr()
	}
	if s.auction.Status != models.StatusActive {
		return models.Bid{}, fmt.Errorf("session: %w - auction is %s", auctionerrors.ErrInvalidState, s.auction.Status)
	}

	idx, err := s.lotIndexLocked(lotID)
	if err != nil {
		return models.Bid{}, err
	}
	lot := s.auction.Lots[idx]
	now := s.opts.Clock.Now()

	if lot.Status != models.LotPending || s.book.Closed(lotID) {
		return models.Bid{}, fmt.Errorf("session: %w - %s is already %s", auctionerrors.ErrLotClosed, lot.Name, lot.Status)
	}
	if idx != s.seq.Index() {
		return models.Bid{}, fmt.Errorf("session: %w - %s is not the lot in play", auctionerrors.ErrInvalidState, lot.Name)
	}
	if s.seq.Phase() != sequencer.PhaseOpen || !now.Before(s.seq.Deadline()) {
		return models.Bid{}, fmt.Errorf("session: %w - bidding time for %s is over", auctionerrors.ErrLotClosed, lot.Name)
	}

	bidder, ok := s.bidders[bidderID]
	if !ok {
		return models.Bid{}, fmt.Errorf("session: %w - %s must join before bidding", auctionerrors.ErrBidderNotFound, bidderID)
	}

	bid, err := s.book.Place(bidbook.PlaceRequest{
		LotID:      lotID,
		BidderID:   bidderID,
		BidderName: bidder.Name,
		Amount:     amount,
		Floor:      lot.BasePrice,
		LotsWon:    s.lotsHeldLocked(bidderID, lotID),
		At:         now,
	}, s.ledger)
	if err != nil {
		return models.Bid{}, fmt.Errorf("session: %w", err)
	}
	bidder.Balance = s.mustBalance(bidderID)

	s.publishLocked(models.Event{
		Type:       models.EventBidAccepted,
		LotID:      lotID,
		LotIndex:   idx,
		BidderID:   bidderID,
		BidderName: bidder.Name,
		Amount:     bid.Amount,
		Deadline:   s.seq.Deadline(),
	}, now)

	// ties under a zero increment are recorded but do not lead, so they
	// leave the countdown alone
	if highest, _ := s.book.Highest(lotID); highest.BidID == bid.BidID && s.seq.Extend(now) {
		s.publishLocked(models.Event{
			Type:     models.EventTimerReset,
			LotID:    lotID,
			LotIndex: idx,
			Deadline: s.seq.Deadline(),
		}, now)
	}
	s.persistLocked()
	return bid, nil
}

// Advance moves the auction to the next lot
func (s *Session) Advance(actorID string) (models.Lot, error) {
	return s.move(actorID, "advance", func(now time.Time) (int, error) { return s.seq.Advance(now) })
}

// Retreat moves the auction back to the previous lot
func (s *Session) Retreat(actorID string) (models.Lot, error) {
	return s.move(actorID, "retreat", func(now time.Time) (int, error) { return s.seq.Retreat(now) })
}

func (s *Session) move(actorID, op string, step func(time.Time) (int, error)) (models.Lot, error) {
	defer metrics.Time(op)()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authorizeLocked(actorID); err != nil {
		return models.Lot{}, err
	}
	if s.auction.Status != models.StatusActive {
		return models.Lot{}, fmt.Errorf("session: %w - auction is %s", auctionerrors.ErrInvalidState, s.auction.Status)
	}
	now := s.opts.Clock.Now()
	if _, err := step(now); err != nil {
		return models.Lot{}, fmt.Errorf("session: %w", err)
	}
	lot := s.enterLotLocked(now)
	s.persistLocked()
	return lot, nil
}

// enterLotLocked syncs the auction with the sequencer after a move and
// announces the new lot. Lots that are already resolved do not run a countdown.
func (s *Session) enterLotLocked(now time.Time) models.Lot {
	idx := s.seq.Index()
	s.auction.CurrentLotIndex = idx
	lot := s.auction.Lots[idx]
	if lot.Status != models.LotPending {
		s.seq.Close()
	}
	s.publishLocked(models.Event{
		Type:     models.EventLotAdvanced,
		LotID:    lot.LotID,
		LotIndex: idx,
		Lot:      &lot,
		Deadline: s.seq.Deadline(),
	}, now)
	return lot
}

// FinalizeLot resolves lotID as sold to its highest bidder, or unsold when
// nobody bid. Finalizing a resolved lot returns it unchanged.
func (s *Session) FinalizeLot(actorID, lotID string) (models.Lot, error) {
	defer metrics.Time("finalize_lot")()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authorizeLocked(actorID); err != nil {
		return models.Lot{}, err
	}
	idx, err := s.lotIndexLocked(lotID)
	if err != nil {
		return models.Lot{}, err
	}
	if s.auction.Lots[idx].Status != models.LotPending {
		return s.auction.Lots[idx], nil
	}
	if s.auction.Status != models.StatusActive {
		return models.Lot{}, fmt.Errorf("session: %w - auction is %s", auctionerrors.ErrInvalidState, s.auction.Status)
	}

	lot := s.finalizeLocked(idx, "manual", s.opts.Clock.Now())
	s.persistLocked()
	return lot, nil
}

// finalizeLocked closes the lot to new bids, records the outcome and refunds
// every losing bidder their best bid on it, once per bidder.
func (s *Session) finalizeLocked(idx int, trigger string, now time.Time) models.Lot {
	lot := &s.auction.Lots[idx]
	if lot.Status != models.LotPending {
		return *lot
	}

	s.book.Close(lot.LotID)
	if idx == s.seq.Index() {
		s.seq.Close()
	}

	ev := models.Event{
		Type:     models.EventLotFinalized,
		LotID:    lot.LotID,
		LotIndex: idx,
	}

	highest, ok := s.book.Highest(lot.LotID)
	if !ok {
		lot.Status = models.LotUnsold
	} else {
		winner, found := s.bidders[highest.BidderID]
		if !found {
			panic(fmt.Sprintf("session: winning bidder %s of lot %s never joined", highest.BidderID, lot.LotID))
		}
		lot.Status = models.LotSold
		lot.WinnerID = winner.BidderID
		lot.WinnerName = winner.Name
		lot.SoldAmount = highest.Amount
		winner.LotsWon = append(winner.LotsWon, lot.LotID)

		for _, best := range s.book.BidderHighest(lot.LotID) {
			if best.BidderID == winner.BidderID {
				continue
			}
			key := ledger.RefundKey(lot.LotID, best.BidderID)
			if _, err := s.ledger.RefundOnce(key, best.BidderID, best.Amount); err != nil {
				panic(fmt.Sprintf("session: refund %s failed: %v", key, err))
			}
			if b, ok := s.bidders[best.BidderID]; ok {
				b.Balance = s.mustBalance(best.BidderID)
			}
		}

		ev.BidderID = winner.BidderID
		ev.BidderName = winner.Name
		ev.Amount = highest.Amount
	}

	ev.Outcome = lot.Status
	resolved := *lot
	ev.Lot = &resolved
	s.publishLocked(ev, now)
	metrics.LotsFinalized.WithLabelValues(string(lot.Status), trigger).Inc()

	utils.Info("session: lot finalized", map[string]any{
		"auction_id": s.auction.AuctionID,
		"lot_id":     lot.LotID,
		"outcome":    string(lot.Status),
		"winner_id":  lot.WinnerID,
		"amount":     lot.SoldAmount.String(),
		"trigger":    trigger,
	})
	return resolved
}

// Tick runs the countdown. When the lot in play expires it is finalized and
// the next lot, if any, is put in play.
func (s *Session) Tick(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.deleted || s.auction.Status != models.StatusActive {
		return
	}
	if !s.seq.Tick(now) {
		return
	}

	idx := s.seq.Index()
	s.finalizeLocked(idx, "expiry", now)
	if idx+1 < len(s.auction.Lots) {
		if _, err := s.seq.Advance(now); err != nil {
			panic(fmt.Sprintf("session: auto-advance from lot %d: %v", idx, err))
		}
		s.enterLotLocked(now)
	}
	s.persistLocked()
}

// End resolves every outstanding lot and closes the auction for good
func (s *Session) End(actorID string) error {
	defer metrics.Time("end")()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authorizeLocked(actorID); err != nil {
		return err
	}
	if s.auction.Status != models.StatusActive {
		return fmt.Errorf("session: %w - auction is %s", auctionerrors.ErrInvalidState, s.auction.Status)
	}

	now := s.opts.Clock.Now()
	for i := range s.auction.Lots {
		s.finalizeLocked(i, "end", now)
	}
	s.auction.Status = models.StatusEnded
	s.seq.Close()
	s.stopTimerLocked()

	s.publishLocked(models.Event{Type: models.EventAuctionEnded, LotIndex: s.auction.CurrentLotIndex}, now)
	s.persistLocked()

	utils.Info("session: auction ended", map[string]any{"auction_id": s.auction.AuctionID})
	return nil
}

// Delete marks the session gone and stops its countdown. The registry drops it
// afterwards; further calls report the auction as not found.
func (s *Session) Delete(actorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authorizeLocked(actorID); err != nil {
		return err
	}
	s.deleted = true
	s.stopTimerLocked()
	s.publishLocked(models.Event{Type: models.EventAuctionDeleted}, s.opts.Clock.Now())

	utils.Info("session: auction deleted", map[string]any{"auction_id": s.auction.AuctionID})
	return nil
}

// UpdateSettings applies a creator's edits. Money rules and the lot list are
// frozen once the auction starts; name, description and visibility are not.
func (s *Session) UpdateSettings(actorID string, patch models.SettingsPatch) (models.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authorizeLocked(actorID); err != nil {
		return models.Auction{}, err
	}
	if patch.TouchesMoney() && s.auction.Status != models.StatusPending {
		return models.Auction{}, fmt.Errorf("session: %w - lots and budgets can only change before the auction starts", auctionerrors.ErrInvalidState)
	}

	next := s.auction
	if patch.Name != nil {
		next.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		next.Description = *patch.Description
	}
	if patch.IsPublic != nil {
		next.IsPublic = *patch.IsPublic
	}
	if patch.BasePrice != nil {
		next.BasePrice = *patch.BasePrice
	}
	if patch.BidderBudget != nil {
		next.BidderBudget = *patch.BidderBudget
	}
	if patch.BidIncrement != nil {
		next.BidIncrement = *patch.BidIncrement
	}
	if patch.MaxLotsPerBidder != nil {
		next.MaxLotsPerBidder = *patch.MaxLotsPerBidder
	}

	if _, err := normalizeConfig(models.AuctionConfig{
		Name:             next.Name,
		CreatorID:        next.CreatorID,
		BasePrice:        next.BasePrice,
		BidderBudget:     next.BidderBudget,
		BidIncrement:     next.BidIncrement,
		MaxLotsPerBidder: next.MaxLotsPerBidder,
		Lots:             patch.Lots,
	}); err != nil {
		return models.Auction{}, err
	}
	if !next.BidderBudget.IsPositive() || !next.BidIncrement.IsPositive() || next.MaxLotsPerBidder == 0 {
		return models.Auction{}, fmt.Errorf("session: %w - budget, increment and lot cap must be positive", auctionerrors.ErrInvalidConfig)
	}
	if patch.Lots != nil {
		next.Lots = buildLots(patch.Lots, next.BasePrice)
		next.CurrentLotIndex = 0
	} else if patch.BasePrice != nil {
		next.Lots = append([]models.Lot(nil), s.auction.Lots...)
		for i := range next.Lots {
			if next.Lots[i].InheritsBase {
				next.Lots[i].BasePrice = next.BasePrice
			}
		}
	}

	if !next.BidderBudget.Equal(s.auction.BidderBudget) {
		s.ledger.ResetBudget(next.BidderBudget)
		for id, b := range s.bidders {
			b.Balance = s.mustBalance(id)
		}
	}
	s.book.SetRules(next.BidIncrement, next.MaxLotsPerBidder)
	s.seq.SetCount(len(next.Lots))
	s.auction = next
	s.persistLocked()

	return s.auctionLocked(), nil
}

// lotsHeldLocked counts the lots bidderID has won plus the unresolved lots,
// other than exceptLotID, that they lead.
func (s *Session) lotsHeldLocked(bidderID, exceptLotID string) int {
	held := 0
	for _, l := range s.auction.Lots {
		switch {
		case l.Status == models.LotSold && l.WinnerID == bidderID:
			held++
		case l.Status == models.LotPending && l.LotID != exceptLotID:
			if highest, ok := s.book.Highest(l.LotID); ok && highest.BidderID == bidderID {
				held++
			}
		}
	}
	return held
}

func (s *Session) authorizeLocked(actorID string) error {
	if s.deleted {
		return s.goneErr()
	}
	if actorID == "" || actorID != s.auction.CreatorID {
		return fmt.Errorf("session: %w", auctionerrors.ErrUnauthorized)
	}
	return nil
}

func (s *Session) goneErr() error {
	return fmt.Errorf("session: %w - %s", auctionerrors.ErrAuctionNotFound, s.auction.AuctionID)
}

func (s *Session) lotIndexLocked(lotID string) (int, error) {
	for i, l := range s.auction.Lots {
		if l.LotID == lotID {
			return i, nil
		}
	}
	return -1, fmt.Errorf("session: %w - %s", auctionerrors.ErrLotNotFound, lotID)
}

func (s *Session) mustBalance(bidderID string) decimal.Decimal {
	bal, err := s.ledger.Balance(bidderID)
	if err != nil {
		panic(fmt.Sprintf("session: bidder %s missing from ledger: %v", bidderID, err))
	}
	return bal
}

func (s *Session) publishLocked(ev models.Event, now time.Time) {
	if s.opts.Publisher == nil {
		return
	}
	ev.AuctionID = s.auction.AuctionID
	ev.AuctionName = s.auction.Name
	ev.Timestamp = now.UTC()
	s.opts.Publisher.Publish(ev)
}

func (s *Session) persistLocked() {
	if s.opts.Persister == nil || s.deleted {
		return
	}
	s.opts.Persister.Enqueue(s.snapshotLocked())
}

func (s *Session) startTimerLocked() {
	if s.stop != nil {
		return
	}
	stop := make(chan struct{})
	done := make(chan struct{})
	s.stop, s.done = stop, done

	ticker := s.opts.Clock.NewTicker(s.opts.TickInterval)
	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.Chan():
				s.Tick(s.opts.Clock.Now())
			}
		}
	}()
}

// stopTimerLocked signals the countdown goroutine without waiting for it; it
// may be blocked on the lock we hold.
func (s *Session) stopTimerLocked() {
	if s.stop == nil {
		return
	}
	close(s.stop)
	s.stop = nil
}

// Close stops the countdown and waits for it to exit
func (s *Session) Close() {
	s.mu.Lock()
	s.stopTimerLocked()
	done := s.done
	s.mu.Unlock()

	if done != nil {
		<-done
	}
}

func copyBidder(b *models.Bidder) models.Bidder {
	out := *b
	out.LotsWon = append([]string(nil), b.LotsWon...)
	return out
}
