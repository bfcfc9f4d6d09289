package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuctionStatus is the lifecycle state of an auction; it only moves forward.
type AuctionStatus string

const (
	StatusPending AuctionStatus = "pending"
	StatusActive  AuctionStatus = "active"
	StatusEnded   AuctionStatus = "ended"
)

// LotStatus is the resolution of a single lot.
type LotStatus string

const (
	LotPending LotStatus = "pending"
	LotSold    LotStatus = "sold"
	LotUnsold  LotStatus = "unsold"
)

// User represents an account known to the identity directory
type User struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Verified bool   `json:"verified"`
}

// Lot represents a player up for auction
type Lot struct {
	LotID       string          `json:"lot_id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Image       string          `json:"image,omitempty"`
	BasePrice   decimal.Decimal `json:"base_price"`
	Status      LotStatus       `json:"status"`
	// InheritsBase marks a lot priced from the auction default; it follows
	// default price edits made before the start.
	InheritsBase bool            `json:"inherits_base,omitempty"`
	WinnerID     string          `json:"winner_id,omitempty"`
	WinnerName   string          `json:"winner_name,omitempty"`
	SoldAmount   decimal.Decimal `json:"sold_amount"`
}

// Auction is the configuration and progress of one auction session
type Auction struct {
	AuctionID        string          `json:"auction_id"`
	Code             string          `json:"code"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	CreatorID        string          `json:"creator_id"`
	CreatorName      string          `json:"creator_name"`
	BasePrice        decimal.Decimal `json:"base_price"`
	BidderBudget     decimal.Decimal `json:"bidder_budget"`
	BidIncrement     decimal.Decimal `json:"bid_increment"`
	MaxLotsPerBidder int             `json:"max_lots_per_bidder"`
	IsPublic         bool            `json:"is_public"`
	Status           AuctionStatus   `json:"status"`
	Lots             []Lot           `json:"lots"`
	CurrentLotIndex  int             `json:"current_lot_index"`
	CreatedAt        time.Time       `json:"created_at"`
}

// Bidder is a participant's position within one auction
type Bidder struct {
	BidderID string          `json:"bidder_id"`
	Name     string          `json:"name"`
	Balance  decimal.Decimal `json:"balance"`
	LotsWon  []string        `json:"lots_won"`
	JoinedAt time.Time       `json:"joined_at"`
}

// Bid represents a bidder's offer on a lot. Seq is the submission order within
// the auction and breaks ties between equal amounts.
type Bid struct {
	BidID      string          `json:"bid_id"`
	AuctionID  string          `json:"auction_id"`
	LotID      string          `json:"lot_id"`
	BidderID   string          `json:"bidder_id"`
	BidderName string          `json:"bidder_name"`
	Amount     decimal.Decimal `json:"amount"`
	Seq        uint64          `json:"seq"`
	CreatedAt  time.Time       `json:"created_at"`
}

// LotConfig describes a lot at auction creation. A zero BasePrice falls back
// to the auction default.
type LotConfig struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Image       string          `json:"image,omitempty"`
	BasePrice   decimal.Decimal `json:"base_price"`
}

// AuctionConfig is what a creator submits to open a new auction
type AuctionConfig struct {
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	CreatorID        string          `json:"creator_id"`
	CreatorName      string          `json:"creator_name"`
	BasePrice        decimal.Decimal `json:"base_price"`
	BidderBudget     decimal.Decimal `json:"bidder_budget"`
	BidIncrement     decimal.Decimal `json:"bid_increment"`
	MaxLotsPerBidder int             `json:"max_lots_per_bidder"`
	IsPublic         bool            `json:"is_public"`
	Lots             []LotConfig     `json:"lots"`
}

// SettingsPatch carries a creator's edits; nil fields are left unchanged.
type SettingsPatch struct {
	Name             *string          `json:"name,omitempty"`
	Description      *string          `json:"description,omitempty"`
	BasePrice        *decimal.Decimal `json:"base_price,omitempty"`
	BidderBudget     *decimal.Decimal `json:"bidder_budget,omitempty"`
	BidIncrement     *decimal.Decimal `json:"bid_increment,omitempty"`
	MaxLotsPerBidder *int             `json:"max_lots_per_bidder,omitempty"`
	IsPublic         *bool            `json:"is_public,omitempty"`
	Lots             []LotConfig      `json:"lots,omitempty"`
}

// TouchesMoney reports whether the patch changes anything other than the
// descriptive fields and visibility.
func (p SettingsPatch) TouchesMoney() bool {
	return p.BasePrice != nil || p.BidderBudget != nil || p.BidIncrement != nil ||
		p.MaxLotsPerBidder != nil || p.Lots != nil
}

// Snapshot is the durable form of a session
type Snapshot struct {
	Auction    Auction   `json:"auction"`
	Bidders    []Bidder  `json:"bidders"`
	Bids       []Bid     `json:"bids"`
	ClosedLots []string  `json:"closed_lots"`
	RefundKeys []string  `json:"refund_keys"`
	Deadline   time.Time `json:"deadline"`
	LotPhase   string    `json:"lot_phase"`
	NextSeq    uint64    `json:"next_seq"`
	TakenAt    time.Time `json:"taken_at"`
}

// TeamEntry is a lot a user won, as shown on their team page.
type TeamEntry struct {
	AuctionID   string          `json:"auction_id"`
	AuctionName string          `json:"auction_name"`
	LotID       string          `json:"lot_id"`
	LotName     string          `json:"lot_name"`
	Image       string          `json:"image,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
}
