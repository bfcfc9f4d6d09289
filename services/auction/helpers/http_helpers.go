package helpers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"auction-engine/internal/auctionerrors"
	"auction-engine/internal/models"
	"auction-engine/internal/session"
	"auction-engine/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, auctionerrors.ErrAuctionNotFound):
		return http.StatusNotFound, "auction not found"
	case errors.Is(err, auctionerrors.ErrLotNotFound):
		return http.StatusNotFound, "lot not found"
	case errors.Is(err, auctionerrors.ErrBidderNotFound):
		return http.StatusNotFound, "bidder not found"
	case errors.Is(err, auctionerrors.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, auctionerrors.ErrNoBids):
		return http.StatusNotFound, "no bids found for lot"
	case errors.Is(err, auctionerrors.ErrInvalidBid):
		return http.StatusBadRequest, "invalid bid details"
	case errors.Is(err, auctionerrors.ErrInvalidConfig):
		return http.StatusBadRequest, "invalid auction configuration"
	case errors.Is(err, auctionerrors.ErrBidTooLow):
		return http.StatusConflict, "bid amount too low"
	case errors.Is(err, auctionerrors.ErrInsufficientFunds):
		return http.StatusPaymentRequired, "insufficient funds"
	case errors.Is(err, auctionerrors.ErrLotCapReached):
		return http.StatusConflict, "lot cap reached"
	case errors.Is(err, auctionerrors.ErrLotClosed):
		return http.StatusConflict, "lot is closed"
	case errors.Is(err, auctionerrors.ErrInvalidState):
		return http.StatusConflict, "operation not allowed in current auction state"
	case errors.Is(err, auctionerrors.ErrUnauthorized):
		return http.StatusForbidden, "only the auction creator may do this"
	case errors.Is(err, auctionerrors.ErrNotVerified):
		return http.StatusForbidden, "user is not verified"
	case errors.Is(err, auctionerrors.ErrCodeExhausted):
		return http.StatusServiceUnavailable, "could not allocate an auction code"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// RespondError writes the mapped error. Bid rejections also carry their reason.
func RespondError(c *gin.Context, handlerName string, err error, ctx map[string]any) {
	status, message := MapErrorToHTTP(err)
	if reason := auctionerrors.Reason(err); reason != "" {
		utils.JSONRejection(c, status, fmt.Errorf("%s: %w", message, err), message, reason)
	} else {
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
	}

	if ctx == nil {
		ctx = map[string]any{}
	}
	ctx["handler"] = handlerName
	ctx["error"] = err.Error()
	if status >= http.StatusInternalServerError {
		utils.Error(handlerName+": request failed", ctx)
		return
	}
	utils.Warn(handlerName+": request rejected", ctx)
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}

// Amount converts a JSON number into money, rounded to cents
func Amount(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

func optionalAmount(v *float64) *decimal.Decimal {
	if v == nil {
		return nil
	}
	d := Amount(*v)
	return &d
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// ToLotConfigs converts lot requests
func ToLotConfigs(reqs []LotRequest) []models.LotConfig {
	if reqs == nil {
		return nil
	}
	out := make([]models.LotConfig, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, models.LotConfig{
			Name:        r.Name,
			Description: r.Description,
			Image:       r.Image,
			BasePrice:   Amount(r.BasePrice),
		})
	}
	return out
}

// ToAuctionConfig converts a create request
func (r CreateAuctionRequest) ToAuctionConfig() models.AuctionConfig {
	return models.AuctionConfig{
		Name:             r.Name,
		Description:      r.Description,
		CreatorID:        r.CreatorID,
		CreatorName:      r.CreatorName,
		BasePrice:        Amount(r.BasePrice),
		BidderBudget:     Amount(r.BidderBudget),
		BidIncrement:     Amount(r.BidIncrement),
		MaxLotsPerBidder: r.MaxLotsPerBidder,
		IsPublic:         r.IsPublic,
		Lots:             ToLotConfigs(r.Lots),
	}
}

// ToPatch converts a settings request
func (r UpdateSettingsRequest) ToPatch() models.SettingsPatch {
	return models.SettingsPatch{
		Name:             r.Name,
		Description:      r.Description,
		BasePrice:        optionalAmount(r.BasePrice),
		BidderBudget:     optionalAmount(r.BidderBudget),
		BidIncrement:     optionalAmount(r.BidIncrement),
		MaxLotsPerBidder: r.MaxLotsPerBidder,
		IsPublic:         r.IsPublic,
		Lots:             ToLotConfigs(r.Lots),
	}
}

func ToLotResponse(l models.Lot) LotResponse {
	return LotResponse{
		LotID:       l.LotID,
		Name:        l.Name,
		Description: l.Description,
		Image:       l.Image,
		BasePrice:   l.BasePrice.InexactFloat64(),
		Status:      string(l.Status),
		WinnerID:    l.WinnerID,
		WinnerName:  l.WinnerName,
		SoldAmount:  l.SoldAmount.InexactFloat64(),
	}
}

func ToAuctionResponse(a models.Auction) AuctionResponse {
	lots := make([]LotResponse, 0, len(a.Lots))
	for _, l := range a.Lots {
		lots = append(lots, ToLotResponse(l))
	}
	return AuctionResponse{
		AuctionID:        a.AuctionID,
		Code:             a.Code,
		Name:             a.Name,
		Description:      a.Description,
		CreatorID:        a.CreatorID,
		CreatorName:      a.CreatorName,
		BasePrice:        a.BasePrice.InexactFloat64(),
		BidderBudget:     a.BidderBudget.InexactFloat64(),
		BidIncrement:     a.BidIncrement.InexactFloat64(),
		MaxLotsPerBidder: a.MaxLotsPerBidder,
		IsPublic:         a.IsPublic,
		Status:           string(a.Status),
		CurrentLotIndex:  a.CurrentLotIndex,
		Lots:             lots,
		CreatedAt:        formatTime(a.CreatedAt),
	}
}

func ToBidderResponse(b models.Bidder) BidderResponse {
	won := b.LotsWon
	if won == nil {
		won = []string{}
	}
	return BidderResponse{
		BidderID: b.BidderID,
		Name:     b.Name,
		Balance:  b.Balance.InexactFloat64(),
		LotsWon:  won,
		JoinedAt: formatTime(b.JoinedAt),
	}
}

func ToBidderResponses(bidders []models.Bidder) []BidderResponse {
	out := make([]BidderResponse, 0, len(bidders))
	for _, b := range bidders {
		out = append(out, ToBidderResponse(b))
	}
	return out
}

func ToStateResponse(s session.State) StateResponse {
	return StateResponse{
		Auction:     ToAuctionResponse(s.Auction),
		LotPhase:    s.Phase,
		Deadline:    formatTime(s.Deadline),
		RemainingMS: s.Remaining.Milliseconds(),
		Bidders:     ToBidderResponses(s.Bidders),
	}
}

func ToBidResponse(b models.Bid) BidResponse {
	return BidResponse{
		BidID:      b.BidID,
		AuctionID:  b.AuctionID,
		LotID:      b.LotID,
		BidderID:   b.BidderID,
		BidderName: b.BidderName,
		Amount:     b.Amount.InexactFloat64(),
		Seq:        b.Seq,
		CreatedAt:  formatTime(b.CreatedAt),
	}
}

func ToBidResponses(bids []models.Bid) []BidResponse {
	out := make([]BidResponse, 0, len(bids))
	for _, b := range bids {
		out = append(out, ToBidResponse(b))
	}
	return out
}

func ToTeamResponse(entries []models.TeamEntry) []TeamEntryResponse {
	out := make([]TeamEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, TeamEntryResponse{
			AuctionID:   e.AuctionID,
			AuctionName: e.AuctionName,
			LotID:       e.LotID,
			LotName:     e.LotName,
			Image:       e.Image,
			Amount:      e.Amount.InexactFloat64(),
		})
	}
	return out
}

func ToUserResponse(u models.User) UserResponse {
	return UserResponse{UserID: u.UserID, Username: u.Username, Verified: u.Verified}
}

func ToEventResponse(ev models.Event) EventResponse {
	resp := EventResponse{
		Type:        string(ev.Type),
		AuctionID:   ev.AuctionID,
		AuctionName: ev.AuctionName,
		LotID:       ev.LotID,
		LotIndex:    ev.LotIndex,
		BidderID:    ev.BidderID,
		BidderName:  ev.BidderName,
		Amount:      ev.Amount.InexactFloat64(),
		Deadline:    formatTime(ev.Deadline),
		Outcome:     string(ev.Outcome),
		Timestamp:   formatTime(ev.Timestamp),
	}
	if ev.Lot != nil {
		lot := ToLotResponse(*ev.Lot)
		resp.Lot = &lot
	}
	return resp
}
