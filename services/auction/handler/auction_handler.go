package handler

import (
	"context"
	"errors"
	"net/http"

	"auction-engine/internal/models"
	"auction-engine/internal/notifier"
	"auction-engine/internal/session"
	"auction-engine/services/auction/helpers"
	"auction-engine/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

var errMissingActor = errors.New("actor_id query parameter is required")

type AuctionServiceInterface interface {
	CreateAuction(cfg models.AuctionConfig) (models.Auction, error)
	GetAuction(auctionID string) (session.State, error)
	GetAuctionByCode(code string) (session.State, error)
	JoinAuction(ctx context.Context, auctionID, userID string) (models.Bidder, error)
	PlaceBid(ctx context.Context, auctionID, lotID, userID string, amount decimal.Decimal) (models.Bid, error)
	StartAuction(auctionID, actorID string) (session.State, error)
	AdvanceLot(auctionID, actorID string) (models.Lot, error)
	PreviousLot(auctionID, actorID string) (models.Lot, error)
	FinalizeLot(auctionID, lotID, actorID string) (models.Lot, error)
	EndAuction(auctionID, actorID string) (session.State, error)
	DeleteAuction(auctionID, actorID string) error
	UpdateSettings(auctionID, actorID string, patch models.SettingsPatch) (models.Auction, error)
	Subscribe(auctionID string) (*notifier.Subscription, session.State, error)
	Bids(auctionID, lotID string) ([]models.Bid, error)
	Highest(auctionID, lotID string) (models.Bid, error)
	Bidders(auctionID string) ([]models.Bidder, error)
	Bidder(auctionID, userID string) (models.Bidder, error)
	Team(userID string) ([]models.TeamEntry, error)
	RegisterUser(user models.User) (models.User, error)
}

type AuctionHandler struct {
	service AuctionServiceInterface
}

func NewAuctionHandler(service AuctionServiceInterface) *AuctionHandler {
	return &AuctionHandler{service: service}
}

// CreateAuctionHandler handles POST /auctions
func (h *AuctionHandler) CreateAuctionHandler(c *gin.Context) {
	var req helpers.CreateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateAuctionHandler", err)
		return
	}

	auction, err := h.service.CreateAuction(req.ToAuctionConfig())
	if err != nil {
		helpers.RespondError(c, "CreateAuctionHandler", err, map[string]any{"creator_id": req.CreatorID})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.ToAuctionResponse(auction), "auction created successfully")
	helpers.LogSuccess("CreateAuctionHandler", "auction created successfully", map[string]any{
		"auction_id": auction.AuctionID,
		"code":       auction.Code,
		"lots":       len(auction.Lots),
	})
}

// GetAuctionHandler handles GET /auctions/:auction_id
func (h *AuctionHandler) GetAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	state, err := h.service.GetAuction(auctionID)
	if err != nil {
		helpers.RespondError(c, "GetAuctionHandler", err, map[string]any{"auction_id": auctionID})
		return
	}
	utils.JSONResponse(c, http.StatusOK, helpers.ToStateResponse(state), "auction retrieved successfully")
}

// GetAuctionByCodeHandler handles GET /auctions/code/:code
func (h *AuctionHandler) GetAuctionByCodeHandler(c *gin.Context) {
	code := c.Param("code")
	state, err := h.service.GetAuctionByCode(code)
	if err != nil {
		helpers.RespondError(c, "GetAuctionByCodeHandler", err, map[string]any{"code": code})
		return
	}
	utils.JSONResponse(c, http.StatusOK, helpers.ToStateResponse(state), "auction retrieved successfully")
}

// UpdateSettingsHandler handles PATCH /auctions/:auction_id
func (h *AuctionHandler) UpdateSettingsHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	var req helpers.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "UpdateSettingsHandler", err)
		return
	}

	auction, err := h.service.UpdateSettings(auctionID, req.ActorID, req.ToPatch())
	if err != nil {
		helpers.RespondError(c, "UpdateSettingsHandler", err, map[string]any{"auction_id": auctionID, "actor_id": req.ActorID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToAuctionResponse(auction), "auction settings updated")
	helpers.LogSuccess("UpdateSettingsHandler", "auction settings updated", map[string]any{"auction_id": auctionID})
}

// DeleteAuctionHandler handles DELETE /auctions/:auction_id?actor_id=
func (h *AuctionHandler) DeleteAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	actorID := c.Query("actor_id")
	if actorID == "" {
		utils.JSONError(c, http.StatusBadRequest, errMissingActor, "invalid request payload")
		return
	}

	if err := h.service.DeleteAuction(auctionID, actorID); err != nil {
		helpers.RespondError(c, "DeleteAuctionHandler", err, map[string]any{"auction_id": auctionID, "actor_id": actorID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{"auction_id": auctionID}, "auction deleted successfully")
	helpers.LogSuccess("DeleteAuctionHandler", "auction deleted successfully", map[string]any{"auction_id": auctionID})
}

// JoinAuctionHandler handles POST /auctions/:auction_id/join
func (h *AuctionHandler) JoinAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	var req helpers.JoinAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "JoinAuctionHandler", err)
		return
	}

	bidder, err := h.service.JoinAuction(c.Request.Context(), auctionID, req.UserID)
	if err != nil {
		helpers.RespondError(c, "JoinAuctionHandler", err, map[string]any{"auction_id": auctionID, "user_id": req.UserID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToBidderResponse(bidder), "joined auction successfully")
	helpers.LogSuccess("JoinAuctionHandler", "joined auction successfully", map[string]any{
		"auction_id": auctionID,
		"user_id":    req.UserID,
		"balance":    bidder.Balance.String(),
	})
}

// PlaceBidHandler handles POST /auctions/:auction_id/bids
func (h *AuctionHandler) PlaceBidHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	bid, err := h.service.PlaceBid(c.Request.Context(), auctionID, req.LotID, req.UserID, helpers.Amount(req.Amount))
	if err != nil {
		helpers.RespondError(c, "PlaceBidHandler", err, map[string]any{
			"auction_id": auctionID,
			"lot_id":     req.LotID,
			"user_id":    req.UserID,
			"amount":     req.Amount,
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.ToBidResponse(bid), "bid recorded successfully")
	helpers.LogSuccess("PlaceBidHandler", "bid recorded successfully", map[string]any{
		"bid_id":     bid.BidID,
		"auction_id": auctionID,
		"lot_id":     bid.LotID,
		"user_id":    bid.BidderID,
		"amount":     bid.Amount.String(),
	})
}

// StartAuctionHandler handles POST /auctions/:auction_id/start
func (h *AuctionHandler) StartAuctionHandler(c *gin.Context) {
	h.stateTransition(c, "StartAuctionHandler", "auction started", h.service.StartAuction)
}

// EndAuctionHandler handles POST /auctions/:auction_id/end
func (h *AuctionHandler) EndAuctionHandler(c *gin.Context) {
	h.stateTransition(c, "EndAuctionHandler", "auction ended", h.service.EndAuction)
}

// AdvanceLotHandler handles POST /auctions/:auction_id/next
func (h *AuctionHandler) AdvanceLotHandler(c *gin.Context) {
	h.lotTransition(c, "AdvanceLotHandler", h.service.AdvanceLot)
}

// PreviousLotHandler handles POST /auctions/:auction_id/previous
func (h *AuctionHandler) PreviousLotHandler(c *gin.Context) {
	h.lotTransition(c, "PreviousLotHandler", h.service.PreviousLot)
}

// FinalizeLotHandler handles POST /auctions/:auction_id/lots/:lot_id/finalize
func (h *AuctionHandler) FinalizeLotHandler(c *gin.Context) {
	lotID := c.Param("lot_id")
	h.lotTransition(c, "FinalizeLotHandler", func(auctionID, actorID string) (models.Lot, error) {
		return h.service.FinalizeLot(auctionID, lotID, actorID)
	})
}

func (h *AuctionHandler) stateTransition(c *gin.Context, name, message string, op func(auctionID, actorID string) (session.State, error)) {
	auctionID := c.Param("auction_id")
	var req helpers.ActorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, name, err)
		return
	}

	state, err := op(auctionID, req.ActorID)
	if err != nil {
		helpers.RespondError(c, name, err, map[string]any{"auction_id": auctionID, "actor_id": req.ActorID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToStateResponse(state), message)
	helpers.LogSuccess(name, message, map[string]any{"auction_id": auctionID, "status": string(state.Auction.Status)})
}

func (h *AuctionHandler) lotTransition(c *gin.Context, name string, op func(auctionID, actorID string) (models.Lot, error)) {
	auctionID := c.Param("auction_id")
	var req helpers.ActorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, name, err)
		return
	}

	lot, err := op(auctionID, req.ActorID)
	if err != nil {
		helpers.RespondError(c, name, err, map[string]any{"auction_id": auctionID, "actor_id": req.ActorID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToLotResponse(lot), "lot updated successfully")
	helpers.LogSuccess(name, "lot updated successfully", map[string]any{
		"auction_id": auctionID,
		"lot_id":     lot.LotID,
		"lot_status": string(lot.Status),
	})
}

// GetBidsHandler handles GET /auctions/:auction_id/lots/:lot_id/bids
func (h *AuctionHandler) GetBidsHandler(c *gin.Context) {
	auctionID, lotID := c.Param("auction_id"), c.Param("lot_id")
	bids, err := h.service.Bids(auctionID, lotID)
	if err != nil {
		helpers.RespondError(c, "GetBidsHandler", err, map[string]any{"auction_id": auctionID, "lot_id": lotID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToBidResponses(bids), "bids retrieved successfully")
	helpers.LogSuccess("GetBidsHandler", "bids retrieved successfully", map[string]any{
		"lot_id": lotID,
		"count":  len(bids),
	})
}

// GetHighestBidHandler handles GET /auctions/:auction_id/lots/:lot_id/highest
func (h *AuctionHandler) GetHighestBidHandler(c *gin.Context) {
	auctionID, lotID := c.Param("auction_id"), c.Param("lot_id")
	bid, err := h.service.Highest(auctionID, lotID)
	if err != nil {
		helpers.RespondError(c, "GetHighestBidHandler", err, map[string]any{"auction_id": auctionID, "lot_id": lotID})
		return
	}
	utils.JSONResponse(c, http.StatusOK, helpers.ToBidResponse(bid), "highest bid retrieved successfully")
}

// GetBiddersHandler handles GET /auctions/:auction_id/bidders
func (h *AuctionHandler) GetBiddersHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	bidders, err := h.service.Bidders(auctionID)
	if err != nil {
		helpers.RespondError(c, "GetBiddersHandler", err, map[string]any{"auction_id": auctionID})
		return
	}
	utils.JSONResponse(c, http.StatusOK, helpers.ToBidderResponses(bidders), "bidders retrieved successfully")
}

// GetBidderHandler handles GET /auctions/:auction_id/bidders/:user_id
func (h *AuctionHandler) GetBidderHandler(c *gin.Context) {
	auctionID, userID := c.Param("auction_id"), c.Param("user_id")
	bidder, err := h.service.Bidder(auctionID, userID)
	if err != nil {
		helpers.RespondError(c, "GetBidderHandler", err, map[string]any{"auction_id": auctionID, "user_id": userID})
		return
	}
	utils.JSONResponse(c, http.StatusOK, helpers.ToBidderResponse(bidder), "bidder retrieved successfully")
}

// GetTeamHandler handles GET /users/:user_id/team
func (h *AuctionHandler) GetTeamHandler(c *gin.Context) {
	userID := c.Param("user_id")
	team, err := h.service.Team(userID)
	if err != nil {
		helpers.RespondError(c, "GetTeamHandler", err, map[string]any{"user_id": userID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToTeamResponse(team), "team retrieved successfully")
	helpers.LogSuccess("GetTeamHandler", "team retrieved successfully", map[string]any{
		"user_id": userID,
		"lots":    len(team),
	})
}

// RegisterUserHandler handles POST /users
func (h *AuctionHandler) RegisterUserHandler(c *gin.Context) {
	var req helpers.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "RegisterUserHandler", err)
		return
	}

	user, err := h.service.RegisterUser(models.User{UserID: req.UserID, Username: req.Username, Verified: req.Verified})
	if err != nil {
		helpers.RespondError(c, "RegisterUserHandler", err, map[string]any{"user_id": req.UserID})
		return
	}
	utils.JSONResponse(c, http.StatusCreated, helpers.ToUserResponse(user), "user registered successfully")
}
