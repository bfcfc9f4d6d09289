package auctionerrors

import (
	"errors"
	"fmt"
)

// Lookup errors
var (
	ErrNotFound        = errors.New("not found")
	ErrAuctionNotFound = fmt.Errorf("auction %w", ErrNotFound)
	ErrLotNotFound     = fmt.Errorf("lot %w", ErrNotFound)
	ErrBidderNotFound  = fmt.Errorf("bidder %w", ErrNotFound)
	ErrNoBids          = errors.New("no bids found for lot")
)

// Lifecycle and authorization errors
var (
	ErrInvalidState  = errors.New("operation not valid in current auction state")
	ErrUnauthorized  = errors.New("only the auction creator may do this")
	ErrNotVerified   = errors.New("user is not verified")
	ErrInvalidConfig = errors.New("invalid auction configuration")
	ErrCodeExhausted = errors.New("could not allocate a unique auction code")
)

// Bid rejections
var (
	ErrInvalidBid        = errors.New("invalid bid")
	ErrBidTooLow         = errors.New("bid amount too low")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrLotCapReached     = errors.New("lot cap reached")
	ErrLotClosed         = errors.New("lot closed")
)

// Reason returns a short machine-readable code for a rejection, or "" when err
// is not one of the bid rejections.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrBidTooLow):
		return "bid_too_low"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrLotCapReached):
		return "lot_cap_reached"
	case errors.Is(err, ErrLotClosed):
		return "lot_closed"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, ErrInvalidBid):
		return "invalid_bid"
	case errors.Is(err, ErrNotVerified):
		return "not_verified"
	default:
		return ""
	}
}
