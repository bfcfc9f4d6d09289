package integrationtests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	auction "auction-engine/internal/auctionService"
	"auction-engine/internal/identity"
	"auction-engine/internal/notifier"
	"auction-engine/internal/registry"
	"auction-engine/internal/repository"
	"auction-engine/internal/server"
	"auction-engine/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

const testBidWindow = 15 * time.Second

// testEnv is a fully wired engine on a fake clock with in-memory storage
type testEnv struct {
	Router   *gin.Engine
	Clock    clockwork.FakeClock
	Store    *repository.MemoryRepo
	Writer   *repository.SnapshotWriter
	Registry *registry.Registry
}

// SetupTestRouter wires the engine the way main does, with verified users seeded.
func SetupTestRouter(t *testing.T, verified ...string) *testEnv {
	return setupWithStore(t, repository.NewMemoryRepo(), verified...)
}

func setupWithStore(t *testing.T, store *repository.MemoryRepo, verified ...string) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clock := clockwork.NewFakeClock()
	writer := repository.NewSnapshotWriter(store, time.Second)
	events := notifier.New(notifier.DefaultBuffer)
	reg := registry.New(session.Options{
		Clock:        clock,
		Publisher:    events,
		Persister:    writer,
		BidWindow:    testBidWindow,
		TickInterval: time.Second,
	}, events, 0)
	t.Cleanup(reg.Close)

	snaps, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	reg.Restore(snaps)

	svc := auction.NewAuctionService(reg, events, identity.New(verified...))
	return &testEnv{
		Router:   server.SetupRouter(svc),
		Clock:    clock,
		Store:    store,
		Writer:   writer,
		Registry: reg,
	}
}

// ExecuteRequestAndParse executes an HTTP request on the given router and parses the response envelope
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	var err error

	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	case string:
		reqBody = []byte(v)
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
	}
	return resp, w
}

// data returns the envelope's data object
func data(t *testing.T, resp map[string]any) map[string]any {
	t.Helper()
	d, ok := resp["data"].(map[string]any)
	require.True(t, ok, "response has no data object: %v", resp)
	return d
}

// createAuction creates an auction owned by "owner" and returns its id and code
func (e *testEnv) createAuction(t *testing.T, overrides map[string]any) (string, string) {
	t.Helper()

	body := map[string]any{
		"name":          "Premier draft",
		"creator_id":    "owner",
		"base_price":    100,
		"bidder_budget": 1000,
		"lots": []map[string]any{
			{"name": "Striker", "image": "striker.png"},
			{"name": "Keeper"},
			{"name": "Winger"},
		},
	}
	for k, v := range overrides {
		body[k] = v
	}

	resp, w := ExecuteRequestAndParse(t, e.Router, http.MethodPost, "/auctions", body)
	require.Equal(t, http.StatusCreated, w.Code, "create: %v", resp)
	d := data(t, resp)
	return d["auction_id"].(string), d["code"].(string)
}

func (e *testEnv) join(t *testing.T, auctionID string, users ...string) {
	t.Helper()
	for _, u := range users {
		resp, w := ExecuteRequestAndParse(t, e.Router, http.MethodPost, "/auctions/"+auctionID+"/join", map[string]any{"user_id": u})
		require.Equal(t, http.StatusOK, w.Code, "join %s: %v", u, resp)
	}
}

func (e *testEnv) start(t *testing.T, auctionID string) map[string]any {
	t.Helper()
	resp, w := ExecuteRequestAndParse(t, e.Router, http.MethodPost, "/auctions/"+auctionID+"/start", map[string]any{"actor_id": "owner"})
	require.Equal(t, http.StatusOK, w.Code, "start: %v", resp)
	return data(t, resp)
}

func (e *testEnv) bid(t *testing.T, auctionID, lotID, userID string, amount float64) (map[string]any, int) {
	t.Helper()
	resp, w := ExecuteRequestAndParse(t, e.Router, http.MethodPost, "/auctions/"+auctionID+"/bids", map[string]any{
		"lot_id":  lotID,
		"user_id": userID,
		"amount":  amount,
	})
	return resp, w.Code
}

func (e *testEnv) balance(t *testing.T, auctionID, userID string) float64 {
	t.Helper()
	resp, w := ExecuteRequestAndParse(t, e.Router, http.MethodGet, "/auctions/"+auctionID+"/bidders/"+userID, nil)
	require.Equal(t, http.StatusOK, w.Code, "bidder %s: %v", userID, resp)
	return data(t, resp)["balance"].(float64)
}

func (e *testEnv) lot(t *testing.T, auctionID string, index int) map[string]any {
	t.Helper()
	resp, w := ExecuteRequestAndParse(t, e.Router, http.MethodGet, "/auctions/"+auctionID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	lots := data(t, resp)["auction"].(map[string]any)["lots"].([]any)
	return lots[index].(map[string]any)
}
