package auction

import (
	"context"
	"errors"
	"testing"
	"time"

	"auction-engine/internal/auctionerrors"
	"auction-engine/internal/identity"
	"auction-engine/internal/models"
	"auction-engine/internal/notifier"
	"auction-engine/internal/registry"
	"auction-engine/internal/session"

	"github.com/golang/mock/gomock"
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, accounts identity.Accounts) (*AuctionService, clockwork.FakeClock) {
	t.Helper()

	clock := clockwork.NewFakeClock()
	events := notifier.New(16)
	reg := registry.New(session.Options{
		Clock:        clock,
		Publisher:    events,
		TickInterval: time.Hour,
	}, events, 0)
	t.Cleanup(reg.Close)
	return NewAuctionService(reg, events, accounts), clock
}

func auctionConfig() models.AuctionConfig {
	return models.AuctionConfig{
		Name:         "Premier draft",
		CreatorID:    "owner",
		BasePrice:    decimal.NewFromInt(100),
		BidderBudget: decimal.NewFromInt(1000),
		Lots:         []models.LotConfig{{Name: "Striker"}, {Name: "Keeper"}},
	}
}

// startedAuction creates and starts an auction that alice and bob have joined
func startedAuction(t *testing.T, svc *AuctionService) session.State {
	t.Helper()

	a, err := svc.CreateAuction(auctionConfig())
	require.NoError(t, err)
	for _, u := range []string{"alice", "bob"} {
		_, err := svc.JoinAuction(context.Background(), a.AuctionID, u)
		require.NoError(t, err)
	}
	state, err := svc.StartAuction(a.AuctionID, "owner")
	require.NoError(t, err)
	return state
}

func TestAuctionService_CreateAndLookup(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t, identity.New("owner"))

	a, err := svc.CreateAuction(auctionConfig())
	require.NoError(t, err)
	require.Equal(t, models.StatusPending, a.Status)
	require.Equal(t, "owner", a.CreatorName)

	byID, err := svc.GetAuction(a.AuctionID)
	require.NoError(t, err)
	require.Equal(t, a.Code, byID.Auction.Code)

	byCode, err := svc.GetAuctionByCode(a.Code)
	require.NoError(t, err)
	require.Equal(t, a.AuctionID, byCode.Auction.AuctionID)

	_, err = svc.GetAuctionByCode("ABC")
	require.ErrorIs(t, err, auctionerrors.ErrNotFound)
	_, err = svc.GetAuction("missing")
	require.ErrorIs(t, err, auctionerrors.ErrAuctionNotFound)

	_, err = svc.CreateAuction(models.AuctionConfig{Name: "no price", CreatorID: "owner"})
	require.ErrorIs(t, err, auctionerrors.ErrInvalidConfig)
}

func TestAuctionService_PlaceBid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	accounts := identity.NewMockAccounts(ctrl)
	accounts.EXPECT().Lookup(gomock.Any()).Return(models.User{}, auctionerrors.ErrNotFound).AnyTimes()
	accounts.EXPECT().IsVerified(gomock.Any(), "alice").Return(true, nil).AnyTimes()
	accounts.EXPECT().IsVerified(gomock.Any(), "bob").Return(true, nil)

	svc, _ := newService(t, accounts)
	state := startedAuction(t, svc)
	auctionID := state.Auction.AuctionID
	lotID := state.Auction.Lots[0].LotID

	tests := []struct {
		name          string
		auctionID     string
		lotID         string
		userID        string
		amount        int64
		mockSetup     func()
		expectedError error
		errContains   string
	}{
		{
			name:      "valid_bid",
			auctionID: auctionID, lotID: lotID, userID: "alice", amount: 150,
			mockSetup: func() {},
		},
		{
			name:      "empty_lotID",
			auctionID: auctionID, lotID: "", userID: "alice", amount: 150,
			mockSetup:     func() {},
			expectedError: auctionerrors.ErrInvalidBid,
		},
		{
			name:      "zero_amount",
			auctionID: auctionID, lotID: lotID, userID: "alice", amount: 0,
			mockSetup:     func() {},
			expectedError: auctionerrors.ErrInvalidBid,
		},
		{
			name:      "unknown_auction",
			auctionID: "missing", lotID: lotID, userID: "alice", amount: 150,
			mockSetup:     func() {},
			expectedError: auctionerrors.ErrAuctionNotFound,
		},
		{
			name:      "unverified_user",
			auctionID: auctionID, lotID: lotID, userID: "mallory", amount: 500,
			mockSetup: func() {
				accounts.EXPECT().IsVerified(gomock.Any(), "mallory").Return(false, nil)
			},
			expectedError: auctionerrors.ErrNotVerified,
		},
		{
			name:      "identity_lookup_fails",
			auctionID: auctionID, lotID: lotID, userID: "trent", amount: 500,
			mockSetup: func() {
				accounts.EXPECT().IsVerified(gomock.Any(), "trent").Return(false, errors.New("account service down"))
			},
			errContains: "account service down",
		},
		{
			name:      "too_low",
			auctionID: auctionID, lotID: lotID, userID: "alice", amount: 150,
			mockSetup:     func() {},
			expectedError: auctionerrors.ErrBidTooLow,
		},
	}

	// run in order: later cases depend on the bid the first one places
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.mockSetup()

			bid, err := svc.PlaceBid(context.Background(), tc.auctionID, tc.lotID, tc.userID, decimal.NewFromInt(tc.amount))
			switch {
			case tc.errContains != "":
				require.ErrorContains(t, err, tc.errContains)
			case tc.expectedError != nil:
				require.ErrorIs(t, err, tc.expectedError)
			default:
				require.NoError(t, err)
				require.Equal(t, tc.userID, bid.BidderID)
				require.NotEmpty(t, bid.BidID)
			}
		})
	}

	highest, err := svc.Highest(auctionID, lotID)
	require.NoError(t, err)
	require.True(t, decimal.NewFromInt(150).Equal(highest.Amount))
}

func TestAuctionService_JoinRequiresVerification(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t, identity.New("alice"))
	a, err := svc.CreateAuction(auctionConfig())
	require.NoError(t, err)

	_, err = svc.JoinAuction(context.Background(), a.AuctionID, "bob")
	require.ErrorIs(t, err, auctionerrors.ErrNotVerified)

	_, err = svc.RegisterUser(models.User{UserID: "bob", Username: "Bobby", Verified: true})
	require.NoError(t, err)

	bidder, err := svc.JoinAuction(context.Background(), a.AuctionID, "bob")
	require.NoError(t, err)
	require.Equal(t, "Bobby", bidder.Name)
	require.True(t, decimal.NewFromInt(1000).Equal(bidder.Balance))

	again, err := svc.JoinAuction(context.Background(), a.AuctionID, "bob")
	require.NoError(t, err)
	require.Equal(t, bidder.JoinedAt, again.JoinedAt)

	_, err = svc.JoinAuction(context.Background(), a.AuctionID, "")
	require.ErrorIs(t, err, auctionerrors.ErrInvalidBid)
}

func TestAuctionService_FullAuction(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t, identity.New("alice", "bob"))
	state := startedAuction(t, svc)
	auctionID := state.Auction.AuctionID
	striker := state.Auction.Lots[0].LotID
	keeper := state.Auction.Lots[1].LotID
	ctx := context.Background()

	sub, initial, err := svc.Subscribe(auctionID)
	require.NoError(t, err)
	defer sub.Close()
	require.Equal(t, models.StatusActive, initial.Auction.Status)

	_, err = svc.PlaceBid(ctx, auctionID, striker, "alice", decimal.NewFromInt(300))
	require.NoError(t, err)
	_, err = svc.PlaceBid(ctx, auctionID, striker, "bob", decimal.NewFromInt(400))
	require.NoError(t, err)

	_, err = svc.FinalizeLot(auctionID, striker, "alice")
	require.ErrorIs(t, err, auctionerrors.ErrUnauthorized)
	lot, err := svc.FinalizeLot(auctionID, striker, "owner")
	require.NoError(t, err)
	require.Equal(t, "bob", lot.WinnerID)

	next, err := svc.AdvanceLot(auctionID, "owner")
	require.NoError(t, err)
	require.Equal(t, keeper, next.LotID)
	prev, err := svc.PreviousLot(auctionID, "owner")
	require.NoError(t, err)
	require.Equal(t, striker, prev.LotID)

	ended, err := svc.EndAuction(auctionID, "owner")
	require.NoError(t, err)
	require.Equal(t, models.StatusEnded, ended.Auction.Status)

	bids, err := svc.Bids(auctionID, striker)
	require.NoError(t, err)
	require.Len(t, bids, 2)
	require.Equal(t, "bob", bids[0].BidderID)

	alice, err := svc.Bidder(auctionID, "alice")
	require.NoError(t, err)
	require.True(t, decimal.NewFromInt(1000).Equal(alice.Balance))

	bidders, err := svc.Bidders(auctionID)
	require.NoError(t, err)
	require.Len(t, bidders, 2)

	team, err := svc.Team("bob")
	require.NoError(t, err)
	require.Len(t, team, 1)
	require.Equal(t, "Striker", team[0].LotName)

	var seen []models.EventType
	for len(sub.Events()) > 0 {
		ev := <-sub.Events()
		seen = append(seen, ev.Type)
	}
	require.Contains(t, seen, models.EventBidAccepted)
	require.Contains(t, seen, models.EventLotFinalized)
	require.Equal(t, models.EventAuctionEnded, seen[len(seen)-1])
}

func TestAuctionService_DeleteClosesStreams(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t, identity.New())
	a, err := svc.CreateAuction(auctionConfig())
	require.NoError(t, err)

	sub, _, err := svc.Subscribe(a.AuctionID)
	require.NoError(t, err)

	require.ErrorIs(t, svc.DeleteAuction(a.AuctionID, "intruder"), auctionerrors.ErrUnauthorized)
	require.NoError(t, svc.DeleteAuction(a.AuctionID, "owner"))

	ev, ok := <-sub.Events()
	require.True(t, ok)
	require.Equal(t, models.EventAuctionDeleted, ev.Type)
	_, ok = <-sub.Events()
	require.False(t, ok, "stream closes after deletion")

	_, err = svc.GetAuction(a.AuctionID)
	require.ErrorIs(t, err, auctionerrors.ErrNotFound)
	_, _, err = svc.Subscribe(a.AuctionID)
	require.ErrorIs(t, err, auctionerrors.ErrNotFound)
}

func TestAuctionService_UpdateSettings(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t, identity.New())
	a, err := svc.CreateAuction(auctionConfig())
	require.NoError(t, err)

	name := "Renamed"
	updated, err := svc.UpdateSettings(a.AuctionID, "owner", models.SettingsPatch{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Name)

	_, err = svc.UpdateSettings("missing", "owner", models.SettingsPatch{Name: &name})
	require.ErrorIs(t, err, auctionerrors.ErrAuctionNotFound)
}

func TestAuctionService_Team(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t, identity.New())
	_, err := svc.Team("")
	require.ErrorIs(t, err, auctionerrors.ErrInvalidBid)

	team, err := svc.Team("nobody")
	require.NoError(t, err)
	require.Empty(t, team)
}
