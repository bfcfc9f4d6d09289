package auction

import (
	"context"
	"fmt"
	"strings"

	"auction-engine/internal/auctionerrors"
	"auction-engine/internal/identity"
	"auction-engine/internal/models"
	"auction-engine/internal/notifier"
	"auction-engine/internal/registry"
	"auction-engine/internal/session"
	"auction-engine/utils"

	"github.com/shopspring/decimal"
)

// AuctionService is the entry point transports call into. It resolves
// auctions, applies the verification gate and delegates to the session.
type AuctionService struct {
	registry *registry.Registry
	events   *notifier.Notifier
	accounts identity.Accounts
}

// NewAuctionService creates a new AuctionService instance
func NewAuctionService(reg *registry.Registry, events *notifier.Notifier, accounts identity.Accounts) *AuctionService {
	return &AuctionService{
		registry: reg,
		events:   events,
		accounts: accounts,
	}
}

// CreateAuction registers a new pending auction
func (s *AuctionService) CreateAuction(cfg models.AuctionConfig) (models.Auction, error) {
	if cfg.CreatorName == "" {
		cfg.CreatorName = s.displayName(cfg.CreatorID)
	}
	sess, err := s.registry.Create(cfg)
	if err != nil {
		return models.Auction{}, fmt.Errorf("service: create auction: %w", err)
	}
	return sess.Auction()
}

// GetAuction returns the full state of an auction
func (s *AuctionService) GetAuction(auctionID string) (session.State, error) {
	sess, err := s.registry.Get(auctionID)
	if err != nil {
		return session.State{}, err
	}
	return sess.State()
}

// GetAuctionByCode returns the state of the auction with the given join code
func (s *AuctionService) GetAuctionByCode(code string) (session.State, error) {
	if len(strings.TrimSpace(code)) != utils.CodeLength {
		return session.State{}, fmt.Errorf("service: %w - malformed code %q", auctionerrors.ErrAuctionNotFound, code)
	}
	sess, err := s.registry.GetByCode(code)
	if err != nil {
		return session.State{}, err
	}
	return sess.State()
}

// JoinAuction makes a verified user a bidder. Joining twice is harmless.
func (s *AuctionService) JoinAuction(ctx context.Context, auctionID, userID string) (models.Bidder, error) {
	if userID == "" {
		return models.Bidder{}, fmt.Errorf("service: %w - empty user ID", auctionerrors.ErrInvalidBid)
	}
	sess, err := s.registry.Get(auctionID)
	if err != nil {
		return models.Bidder{}, err
	}
	if err := s.requireVerified(ctx, userID); err != nil {
		return models.Bidder{}, err
	}

	bidder, _, err := sess.Join(userID, s.displayName(userID))
	return bidder, err
}

// PlaceBid submits a bid from a verified user
func (s *AuctionService) PlaceBid(ctx context.Context, auctionID, lotID, userID string, amount decimal.Decimal) (models.Bid, error) {
	if lotID == "" || userID == "" {
		return models.Bid{}, fmt.Errorf("service: %w - missing lotID or userID", auctionerrors.ErrInvalidBid)
	}
	if !amount.IsPositive() {
		return models.Bid{}, fmt.Errorf("service: %w - non-positive bid amount", auctionerrors.ErrInvalidBid)
	}
	sess, err := s.registry.Get(auctionID)
	if err != nil {
		return models.Bid{}, err
	}
	if err := s.requireVerified(ctx, userID); err != nil {
		return models.Bid{}, err
	}
	return sess.PlaceBid(userID, lotID, amount)
}

// StartAuction opens bidding on the first lot
func (s *AuctionService) StartAuction(auctionID, actorID string) (session.State, error) {
	sess, err := s.registry.Get(auctionID)
	if err != nil {
		return session.State{}, err
	}
	if err := sess.Start(actorID); err != nil {
		return session.State{}, err
	}
	return sess.State()
}

// AdvanceLot puts the next lot in play
func (s *AuctionService) AdvanceLot(auctionID, actorID string) (models.Lot, error) {
	sess, err := s.registry.Get(auctionID)
	if err != nil {
		return models.Lot{}, err
	}
	return sess.Advance(actorID)
}

// PreviousLot puts the previous lot back in play
func (s *AuctionService) PreviousLot(auctionID, actorID string) (models.Lot, error) {
	sess, err := s.registry.Get(auctionID)
	if err != nil {
		return models.Lot{}, err
	}
	return sess.Retreat(actorID)
}

// FinalizeLot resolves a lot now instead of waiting for its countdown
func (s *AuctionService) FinalizeLot(auctionID, lotID, actorID string) (models.Lot, error) {
	sess, err := s.registry.Get(auctionID)
	if err != nil {
		return models.Lot{}, err
	}
	return sess.FinalizeLot(actorID, lotID)
}

// EndAuction resolves the remaining lots and closes the auction
func (s *AuctionService) EndAuction(auctionID, actorID string) (session.State, error) {
	sess, err := s.registry.Get(auctionID)
	if err != nil {
		return session.State{}, err
	}
	if err := sess.End(actorID); err != nil {
		return session.State{}, err
	}
	return sess.State()
}

// DeleteAuction removes the auction with its bids and closes its streams
func (s *AuctionService) DeleteAuction(auctionID, actorID string) error {
	return s.registry.Delete(auctionID, actorID)
}

// UpdateSettings applies a creator's edits
func (s *AuctionService) UpdateSettings(auctionID, actorID string, patch models.SettingsPatch) (models.Auction, error) {
	sess, err := s.registry.Get(auctionID)
	if err != nil {
		return models.Auction{}, err
	}
	return sess.UpdateSettings(actorID, patch)
}

// Subscribe opens an event stream together with the state it starts from.
// The subscription is taken first so no event falls between the two.
func (s *AuctionService) Subscribe(auctionID string) (*notifier.Subscription, session.State, error) {
	sess, err := s.registry.Get(auctionID)
	if err != nil {
		return nil, session.State{}, err
	}
	sub := s.events.Subscribe(auctionID)
	state, err := sess.State()
	if err != nil {
		sub.Close()
		return nil, session.State{}, err
	}
	return sub, state, nil
}

// Bids returns the bids on a lot, most recent first
func (s *AuctionService) Bids(auctionID, lotID string) ([]models.Bid, error) {
	sess, err := s.registry.Get(auctionID)
	if err != nil {
		return nil, err
	}
	return sess.History(lotID)
}

// Highest returns the leading bid on a lot
func (s *AuctionService) Highest(auctionID, lotID string) (models.Bid, error) {
	sess, err := s.registry.Get(auctionID)
	if err != nil {
		return models.Bid{}, err
	}
	return sess.Highest(lotID)
}

// Bidders lists an auction's bidders in join order
func (s *AuctionService) Bidders(auctionID string) ([]models.Bidder, error) {
	sess, err := s.registry.Get(auctionID)
	if err != nil {
		return nil, err
	}
	return sess.Bidders(), nil
}

// Bidder returns one bidder's balance and won lots
func (s *AuctionService) Bidder(auctionID, userID string) (models.Bidder, error) {
	sess, err := s.registry.Get(auctionID)
	if err != nil {
		return models.Bidder{}, err
	}
	return sess.Balance(userID)
}

// Team returns every lot userID has bought, across all auctions
func (s *AuctionService) Team(userID string) ([]models.TeamEntry, error) {
	if userID == "" {
		return nil, fmt.Errorf("service: %w - empty user ID", auctionerrors.ErrInvalidBid)
	}
	var team []models.TeamEntry
	for _, sess := range s.registry.All() {
		team = append(team, sess.Won(userID)...)
	}
	return team, nil
}

// RegisterUser adds or updates a user in the account directory
func (s *AuctionService) RegisterUser(user models.User) (models.User, error) {
	return s.accounts.Register(user)
}

func (s *AuctionService) requireVerified(ctx context.Context, userID string) error {
	ok, err := s.accounts.IsVerified(ctx, userID)
	if err != nil {
		return fmt.Errorf("service: verify user %s: %w", userID, err)
	}
	if !ok {
		return fmt.Errorf("service: %w - %s", auctionerrors.ErrNotVerified, userID)
	}
	return nil
}

func (s *AuctionService) displayName(userID string) string {
	if u, err := s.accounts.Lookup(userID); err == nil && u.Username != "" {
		return u.Username
	}
	return userID
}
