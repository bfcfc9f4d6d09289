// Package bidbook keeps the append-only bid record of an auction, one book per lot.
package bidbook

import (
	"fmt"
	"sort"
	"time"

	"auction-engine/internal/auctionerrors"
	"auction-engine/internal/models"
	"auction-engine/utils"

	"github.com/shopspring/decimal"
)

// Funds is the balance check a bid must pass before it is recorded.
type Funds interface {
	Reserve(bidderID string, delta decimal.Decimal) (decimal.Decimal, error)
}

// PlaceRequest is a bid as submitted to the book
type PlaceRequest struct {
	LotID      string
	BidderID   string
	BidderName string
	Amount     decimal.Decimal
	Floor      decimal.Decimal // lot base price
	LotsWon    int
	At         time.Time
}

type lotBook struct {
	bids     []models.Bid
	highest  int // index into bids, -1 when empty
	byBidder map[string]decimal.Decimal
	closed   bool
}

func newLotBook() *lotBook {
	return &lotBook{highest: -1, byBidder: make(map[string]decimal.Decimal)}
}

// BidBook holds every bid of one auction. Like the ledger it relies on the
// session for serialization.
type BidBook struct {
	auctionID string
	increment decimal.Decimal
	maxLots   int
	lots      map[string]*lotBook
	nextSeq   uint64
}

// New creates an empty book. maxLots <= 0 disables the per-bidder cap.
func New(auctionID string, increment decimal.Decimal, maxLots int) *BidBook {
	return &BidBook{
		auctionID: auctionID,
		increment: increment,
		maxLots:   maxLots,
		lots:      make(map[string]*lotBook),
		nextSeq:   1,
	}
}

// Restore replays persisted bids in Seq order and closes the given lots.
func Restore(auctionID string, increment decimal.Decimal, maxLots int, bids []models.Bid, closedLots []string, nextSeq uint64) *BidBook {
	b := New(auctionID, increment, maxLots)
	ordered := append([]models.Bid(nil), bids...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Seq < ordered[j].Seq })
	for _, bid := range ordered {
		b.commit(b.lot(bid.LotID), bid)
		if bid.Seq >= b.nextSeq {
			b.nextSeq = bid.Seq + 1
		}
	}
	if nextSeq > b.nextSeq {
		b.nextSeq = nextSeq
	}
	for _, id := range closedLots {
		b.lot(id).closed = true
	}
	return b
}

// SetRules changes the increment and cap for future bids
func (b *BidBook) SetRules(increment decimal.Decimal, maxLots int) {
	b.increment = increment
	b.maxLots = maxLots
}

// MinimumBid is the lowest amount the next bid on lotID may carry
func (b *BidBook) MinimumBid(lotID string, floor decimal.Decimal) decimal.Decimal {
	lb := b.lots[lotID]
	if lb == nil || lb.highest < 0 {
		return floor
	}
	return decimal.Max(lb.bids[lb.highest].Amount.Add(b.increment), floor)
}

// Place validates a bid, reserves the bidder's incremental delta through funds
// and only then appends it. Any rejection leaves the book untouched.
func (b *BidBook) Place(req PlaceRequest, funds Funds) (models.Bid, error) {
	if req.LotID == "" || req.BidderID == "" {
		return models.Bid{}, fmt.Errorf("bidbook: %w - missing lot or bidder", auctionerrors.ErrInvalidBid)
	}
	if !req.Amount.IsPositive() {
		return models.Bid{}, fmt.Errorf("bidbook: %w - non-positive bid amount", auctionerrors.ErrInvalidBid)
	}

	lb := b.lots[req.LotID]
	if lb != nil && lb.closed {
		return models.Bid{}, fmt.Errorf("bidbook: %w - lot %s is no longer taking bids", auctionerrors.ErrLotClosed, req.LotID)
	}
	if b.maxLots > 0 && req.LotsWon >= b.maxLots {
		return models.Bid{}, fmt.Errorf("bidbook: %w - already won %d of %d lots", auctionerrors.ErrLotCapReached, req.LotsWon, b.maxLots)
	}

	minimum := b.MinimumBid(req.LotID, req.Floor)
	if req.Amount.LessThan(minimum) {
		return models.Bid{}, fmt.Errorf("bidbook: %w - bid must be at least %s", auctionerrors.ErrBidTooLow, minimum.String())
	}

	previous := decimal.Zero
	if lb != nil {
		previous = lb.byBidder[req.BidderID]
	}
	delta := req.Amount.Sub(previous)
	if !delta.IsPositive() {
		return models.Bid{}, fmt.Errorf("bidbook: %w - bid must be higher than your previous bid of %s", auctionerrors.ErrBidTooLow, previous.String())
	}

	if _, err := funds.Reserve(req.BidderID, delta.Neg()); err != nil {
		return models.Bid{}, fmt.Errorf("bidbook: reserve %s for %s: %w", delta.String(), req.BidderID, err)
	}

	bid := models.Bid{
		BidID:      utils.GenerateBidID(req.At),
		AuctionID:  b.auctionID,
		LotID:      req.LotID,
		BidderID:   req.BidderID,
		BidderName: req.BidderName,
		Amount:     req.Amount,
		Seq:        b.nextSeq,
		CreatedAt:  req.At.UTC(),
	}
	b.nextSeq++
	b.commit(b.lot(req.LotID), bid)
	return bid, nil
}

func (b *BidBook) lot(lotID string) *lotBook {
	lb, ok := b.lots[lotID]
	if !ok {
		lb = newLotBook()
		b.lots[lotID] = lb
	}
	return lb
}

func (b *BidBook) commit(lb *lotBook, bid models.Bid) {
	lb.bids = append(lb.bids, bid)
	idx := len(lb.bids) - 1
	if lb.highest < 0 || outranks(bid, lb.bids[lb.highest]) {
		lb.highest = idx
	}
	if prev, ok := lb.byBidder[bid.BidderID]; !ok || bid.Amount.GreaterThan(prev) {
		lb.byBidder[bid.BidderID] = bid.Amount
	}
}

// outranks orders bids by amount descending, then submission order ascending
func outranks(a, b models.Bid) bool {
	if !a.Amount.Equal(b.Amount) {
		return a.Amount.GreaterThan(b.Amount)
	}
	return a.Seq < b.Seq
}

// Highest returns the winning bid on lotID so far
func (b *BidBook) Highest(lotID string) (models.Bid, bool) {
	lb := b.lots[lotID]
	if lb == nil || lb.highest < 0 {
		return models.Bid{}, false
	}
	return lb.bids[lb.highest], true
}

// History returns the bids on lotID, most recent first
func (b *BidBook) History(lotID string) []models.Bid {
	lb := b.lots[lotID]
	if lb == nil {
		return nil
	}
	out := make([]models.Bid, 0, len(lb.bids))
	for i := len(lb.bids) - 1; i >= 0; i-- {
		out = append(out, lb.bids[i])
	}
	return out
}

// BidderHighest returns each bidder's best bid on lotID, ordered by the
// bidder's first appearance on the lot.
func (b *BidBook) BidderHighest(lotID string) []models.Bid {
	lb := b.lots[lotID]
	if lb == nil {
		return nil
	}
	best := make(map[string]models.Bid, len(lb.byBidder))
	order := make([]string, 0, len(lb.byBidder))
	for _, bid := range lb.bids {
		cur, seen := best[bid.BidderID]
		if !seen {
			order = append(order, bid.BidderID)
		}
		if !seen || outranks(bid, cur) {
			best[bid.BidderID] = bid
		}
	}
	out := make([]models.Bid, 0, len(order))
	for _, id := range order {
		out = append(out, best[id])
	}
	return out
}

// Close stops lotID from accepting bids
func (b *BidBook) Close(lotID string) {
	b.lot(lotID).closed = true
}

// Closed reports whether lotID stopped accepting bids
func (b *BidBook) Closed(lotID string) bool {
	lb := b.lots[lotID]
	return lb != nil && lb.closed
}

// ClosedLots lists every closed lot id
func (b *BidBook) ClosedLots() []string {
	var ids []string
	for id, lb := range b.lots {
		if lb.closed {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// All returns every bid in submission order
func (b *BidBook) All() []models.Bid {
	var all []models.Bid
	for _, lb := range b.lots {
		all = append(all, lb.bids...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Seq < all[j].Seq })
	return all
}

// NextSeq is the sequence number the next accepted bid will get
func (b *BidBook) NextSeq() uint64 {
	return b.nextSeq
}
