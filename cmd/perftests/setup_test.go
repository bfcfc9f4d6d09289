package perftests

import (
	"context"
	"fmt"
	"testing"
	"time"

	auction "auction-engine/internal/auctionService"
	"auction-engine/internal/identity"
	"auction-engine/internal/models"
	"auction-engine/internal/notifier"
	"auction-engine/internal/registry"
	"auction-engine/internal/session"

	"github.com/shopspring/decimal"
)

// benchAuction is a started auction with joined bidders
type benchAuction struct {
	svc       *auction.AuctionService
	auctionID string
	lotIDs    []string
	users     []string
}

// setupAuction creates a started auction with numLots lots and numUsers
// bidders, each with a budget large enough never to run dry.
func setupAuction(b *testing.B, numLots, numUsers int) *benchAuction {
	b.Helper()

	users := make([]string, numUsers)
	for i := range users {
		users[i] = fmt.Sprintf("user_%d", i)
	}

	events := notifier.New(notifier.DefaultBuffer)
	reg := registry.New(session.Options{
		Publisher:    events,
		BidWindow:    time.Hour,
		TickInterval: time.Minute,
	}, events, 0)
	b.Cleanup(reg.Close)
	svc := auction.NewAuctionService(reg, events, identity.New(users...))

	lots := make([]models.LotConfig, numLots)
	for i := range lots {
		lots[i] = models.LotConfig{Name: fmt.Sprintf("lot_%d", i)}
	}
	a, err := svc.CreateAuction(models.AuctionConfig{
		Name:             "benchmark",
		CreatorID:        "owner",
		BasePrice:        decimal.NewFromInt(50),
		BidderBudget:     decimal.NewFromInt(1 << 40),
		MaxLotsPerBidder: numLots,
		Lots:             lots,
	})
	if err != nil {
		b.Fatalf("failed to create auction: %v", err)
	}

	ctx := context.Background()
	for _, u := range users {
		if _, err := svc.JoinAuction(ctx, a.AuctionID, u); err != nil {
			b.Fatalf("failed to join: %v", err)
		}
	}
	if _, err := svc.StartAuction(a.AuctionID, "owner"); err != nil {
		b.Fatalf("failed to start auction: %v", err)
	}

	ids := make([]string, len(a.Lots))
	for i, l := range a.Lots {
		ids[i] = l.LotID
	}
	return &benchAuction{svc: svc, auctionID: a.AuctionID, lotIDs: ids, users: users}
}
