// Package ledger tracks per-bidder balances inside one auction.
//
// A Ledger is not safe for concurrent use. The owning session serializes every
// call, which is what makes Reserve a single atomic check-and-adjust.
package ledger

import (
	"fmt"

	"auction-engine/internal/auctionerrors"

	"github.com/shopspring/decimal"
)

// Ledger holds the balances of every bidder who joined an auction
type Ledger struct {
	budget   decimal.Decimal
	balances map[string]decimal.Decimal
	order    []string
	refunds  map[string]struct{}
}

// New creates a ledger that seeds each joining bidder with budget
func New(budget decimal.Decimal) *Ledger {
	return &Ledger{
		budget:   budget,
		balances: make(map[string]decimal.Decimal),
		refunds:  make(map[string]struct{}),
	}
}

// Restore rebuilds a ledger from persisted balances and applied refund keys.
// order fixes the iteration order of Bidders.
func Restore(budget decimal.Decimal, order []string, balances map[string]decimal.Decimal, refundKeys []string) *Ledger {
	l := New(budget)
	for _, id := range order {
		bal, ok := balances[id]
		if !ok {
			continue
		}
		l.balances[id] = bal
		l.order = append(l.order, id)
	}
	for _, k := range refundKeys {
		l.refunds[k] = struct{}{}
	}
	return l
}

// Join registers bidderID with the default budget. A repeat join leaves the
// balance untouched; joined reports whether this call added the bidder.
func (l *Ledger) Join(bidderID string) (balance decimal.Decimal, joined bool) {
	if bal, ok := l.balances[bidderID]; ok {
		return bal, false
	}
	l.balances[bidderID] = l.budget
	l.order = append(l.order, bidderID)
	return l.budget, true
}

// Reserve adjusts a balance by delta (negative debits, positive credits) only
// if the result stays non-negative. A rejected call changes nothing.
func (l *Ledger) Reserve(bidderID string, delta decimal.Decimal) (decimal.Decimal, error) {
	bal, ok := l.balances[bidderID]
	if !ok {
		return decimal.Zero, fmt.Errorf("ledger: %w - %s has not joined", auctionerrors.ErrBidderNotFound, bidderID)
	}
	mustBeNonNegative(bidderID, bal)

	next := bal.Add(delta)
	if next.IsNegative() {
		return bal, fmt.Errorf("ledger: %w - not enough funds, %s available", auctionerrors.ErrInsufficientFunds, bal.String())
	}
	l.balances[bidderID] = next
	return next, nil
}

// RefundOnce credits amount to bidderID the first time key is seen. Later
// calls with the same key are no-ops and report applied=false.
func (l *Ledger) RefundOnce(key, bidderID string, amount decimal.Decimal) (applied bool, err error) {
	if _, done := l.refunds[key]; done {
		return false, nil
	}
	if amount.IsNegative() {
		return false, fmt.Errorf("ledger: %w - negative refund %s", auctionerrors.ErrInvalidBid, amount.String())
	}
	if _, err := l.Reserve(bidderID, amount); err != nil {
		return false, err
	}
	l.refunds[key] = struct{}{}
	return true, nil
}

// Balance returns the current balance of bidderID
func (l *Ledger) Balance(bidderID string) (decimal.Decimal, error) {
	bal, ok := l.balances[bidderID]
	if !ok {
		return decimal.Zero, fmt.Errorf("ledger: %w - %s has not joined", auctionerrors.ErrBidderNotFound, bidderID)
	}
	return bal, nil
}

// Joined reports whether bidderID has joined
func (l *Ledger) Joined(bidderID string) bool {
	_, ok := l.balances[bidderID]
	return ok
}

// Budget is the balance a new bidder starts with
func (l *Ledger) Budget() decimal.Decimal {
	return l.budget
}

// ResetBudget changes the default budget and re-seeds every joined bidder with
// it. Only valid before any money has moved.
func (l *Ledger) ResetBudget(budget decimal.Decimal) {
	l.budget = budget
	for id := range l.balances {
		l.balances[id] = budget
	}
}

// Bidders returns bidder ids in join order
func (l *Ledger) Bidders() []string {
	return append([]string(nil), l.order...)
}

// Total is the sum of every balance
func (l *Ledger) Total() decimal.Decimal {
	total := decimal.Zero
	for _, bal := range l.balances {
		total = total.Add(bal)
	}
	return total
}

// RefundKeys returns the keys of refunds already applied
func (l *Ledger) RefundKeys() []string {
	keys := make([]string, 0, len(l.refunds))
	for k := range l.refunds {
		keys = append(keys, k)
	}
	return keys
}

// RefundKey is the idempotency key for refunding bidderID on lotID
func RefundKey(lotID, bidderID string) string {
	return lotID + "/" + bidderID
}

func mustBeNonNegative(bidderID string, bal decimal.Decimal) {
	if bal.IsNegative() {
		panic(fmt.Sprintf("ledger: balance of %s is negative (%s); writes were not serialized", bidderID, bal.String()))
	}
}
