package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventType names a state change pushed to subscribers
type EventType string

const (
	EventAuctionStarted EventType = "auction_started"
	EventBidAccepted    EventType = "bid_accepted"
	EventTimerReset     EventType = "timer_reset"
	EventLotAdvanced    EventType = "lot_advanced"
	EventLotFinalized   EventType = "lot_finalized"
	EventAuctionEnded   EventType = "auction_ended"
	EventAuctionDeleted EventType = "auction_deleted"
)

// Event is a single notification about an auction
type Event struct {
	Type        EventType       `json:"type"`
	AuctionID   string          `json:"auction_id"`
	AuctionName string          `json:"auction_name,omitempty"`
	LotID       string          `json:"lot_id,omitempty"`
	LotIndex    int             `json:"lot_index"`
	BidderID    string          `json:"bidder_id,omitempty"`
	BidderName  string          `json:"bidder_name,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Deadline    time.Time       `json:"deadline,omitempty"`
	Outcome     LotStatus       `json:"outcome,omitempty"`
	Lot         *Lot            `json:"lot,omitempty"`
	Timestamp   time.Time       `json:"timestamp"`
}
