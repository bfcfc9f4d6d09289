package helpers

// Request DTOs
type LotRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	BasePrice   float64 `json:"base_price" binding:"gte=0"`
}

type CreateAuctionRequest struct {
	Name             string       `json:"name" binding:"required"`
	Description      string       `json:"description"`
	CreatorID        string       `json:"creator_id" binding:"required"`
	CreatorName      string       `json:"creator_name"`
	BasePrice        float64      `json:"base_price" binding:"required,gt=0"`
	BidderBudget     float64      `json:"bidder_budget" binding:"gte=0"`
	BidIncrement     float64      `json:"bid_increment" binding:"gte=0"`
	MaxLotsPerBidder int          `json:"max_lots_per_bidder" binding:"gte=0"`
	IsPublic         bool         `json:"is_public"`
	Lots             []LotRequest `json:"lots" binding:"dive"`
}

type UpdateSettingsRequest struct {
	ActorID          string       `json:"actor_id" binding:"required"`
	Name             *string      `json:"name"`
	Description      *string      `json:"description"`
	BasePrice        *float64     `json:"base_price" binding:"omitempty,gt=0"`
	BidderBudget     *float64     `json:"bidder_budget" binding:"omitempty,gt=0"`
	BidIncrement     *float64     `json:"bid_increment" binding:"omitempty,gt=0"`
	MaxLotsPerBidder *int         `json:"max_lots_per_bidder" binding:"omitempty,gt=0"`
	IsPublic         *bool        `json:"is_public"`
	Lots             []LotRequest `json:"lots" binding:"omitempty,dive"`
}

type JoinAuctionRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// ActorRequest carries the user performing a creator-only operation
type ActorRequest struct {
	ActorID string `json:"actor_id" binding:"required"`
}

type PlaceBidRequest struct {
	LotID  string  `json:"lot_id" binding:"required"`
	UserID string  `json:"user_id" binding:"required"`
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

type RegisterUserRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Username string `json:"username"`
	Verified bool   `json:"verified"`
}

// Response DTOs
type LotResponse struct {
	LotID       string  `json:"lot_id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Image       string  `json:"image,omitempty"`
	BasePrice   float64 `json:"base_price"`
	Status      string  `json:"status"`
	WinnerID    string  `json:"winner_id,omitempty"`
	WinnerName  string  `json:"winner_name,omitempty"`
	SoldAmount  float64 `json:"sold_amount,omitempty"`
}

type AuctionResponse struct {
	AuctionID        string        `json:"auction_id"`
	Code             string        `json:"code"`
	Name             string        `json:"name"`
	Description      string        `json:"description"`
	CreatorID        string        `json:"creator_id"`
	CreatorName      string        `json:"creator_name"`
	BasePrice        float64       `json:"base_price"`
	BidderBudget     float64       `json:"bidder_budget"`
	BidIncrement     float64       `json:"bid_increment"`
	MaxLotsPerBidder int           `json:"max_lots_per_bidder"`
	IsPublic         bool          `json:"is_public"`
	Status           string        `json:"status"`
	CurrentLotIndex  int           `json:"current_lot_index"`
	Lots             []LotResponse `json:"lots"`
	CreatedAt        string        `json:"created_at"`
}

type BidderResponse struct {
	BidderID string   `json:"bidder_id"`
	Name     string   `json:"name"`
	Balance  float64  `json:"balance"`
	LotsWon  []string `json:"lots_won"`
	JoinedAt string   `json:"joined_at"`
}

type StateResponse struct {
	Auction     AuctionResponse  `json:"auction"`
	LotPhase    string           `json:"lot_phase"`
	Deadline    string           `json:"deadline,omitempty"`
	RemainingMS int64            `json:"remaining_ms"`
	Bidders     []BidderResponse `json:"bidders"`
}

type BidResponse struct {
	BidID      string  `json:"bid_id"`
	AuctionID  string  `json:"auction_id"`
	LotID      string  `json:"lot_id"`
	BidderID   string  `json:"bidder_id"`
	BidderName string  `json:"bidder_name"`
	Amount     float64 `json:"amount"`
	Seq        uint64  `json:"seq"`
	CreatedAt  string  `json:"created_at"`
}

type TeamEntryResponse struct {
	AuctionID   string  `json:"auction_id"`
	AuctionName string  `json:"auction_name"`
	LotID       string  `json:"lot_id"`
	LotName     string  `json:"lot_name"`
	Image       string  `json:"image,omitempty"`
	Amount      float64 `json:"amount"`
}

type UserResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Verified bool   `json:"verified"`
}

// EventResponse is one pushed event, as written to SSE and WebSocket clients
type EventResponse struct {
	Type        string       `json:"type"`
	AuctionID   string       `json:"auction_id"`
	AuctionName string       `json:"auction_name,omitempty"`
	LotID       string       `json:"lot_id,omitempty"`
	LotIndex    int          `json:"lot_index"`
	BidderID    string       `json:"bidder_id,omitempty"`
	BidderName  string       `json:"bidder_name,omitempty"`
	Amount      float64      `json:"amount,omitempty"`
	Deadline    string       `json:"deadline,omitempty"`
	Outcome     string       `json:"outcome,omitempty"`
	Lot         *LotResponse `json:"lot,omitempty"`
	Timestamp   string       `json:"timestamp"`
}

// StreamMessage wraps everything sent over a WebSocket
type StreamMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}
