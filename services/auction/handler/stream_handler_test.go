package handler

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"auction-engine/internal/auctionerrors"
	"auction-engine/internal/models"
	"auction-engine/internal/notifier"
	"auction-engine/internal/session"
	"auction-engine/services/auction/helpers"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func streamRouter(t *testing.T) (*gin.Engine, *MockAuctionServiceInterface) {
	ctrl := gomock.NewController(t)
	m := NewMockAuctionServiceInterface(ctrl)
	h := NewAuctionHandler(m)

	router := gin.New()
	router.GET("/auctions/:auction_id/events", h.StreamEventsHandler)
	router.GET("/auctions/:auction_id/ws", h.WebSocketHandler)
	return router, m
}

func streamState() session.State {
	a := sampleAuction(time.Now().UTC())
	a.AuctionID = "a1"
	a.Status = models.StatusActive
	return session.State{Auction: a, Phase: "open"}
}

func TestStreamEventsHandler(t *testing.T) {
	t.Parallel()

	router, m := streamRouter(t)
	n := notifier.New(8)
	sub := n.Subscribe("a1")
	m.EXPECT().Subscribe("a1").Return(sub, streamState(), nil)

	// buffered events are still delivered after the auction's streams close
	n.Publish(models.Event{Type: models.EventBidAccepted, AuctionID: "a1", LotID: "lot-1", BidderID: "alice", Amount: decimal.NewFromInt(150)})
	n.CloseAuction("a1")

	srv := httptest.NewServer(router)
	defer srv.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(srv.URL + "/auctions/a1/events")
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := string(raw)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")
	require.Contains(t, body, "event:state")
	require.Contains(t, body, "event:bid_accepted")
	require.Contains(t, body, `"bidder_id":"alice"`)
	require.Less(t, strings.Index(body, "event:state"), strings.Index(body, "event:bid_accepted"))
}

func TestStreamEventsHandler_UnknownAuction(t *testing.T) {
	t.Parallel()

	router, m := streamRouter(t)
	m.EXPECT().Subscribe("missing").Return(nil, session.State{}, auctionerrors.ErrAuctionNotFound)

	status, resp := doRequest(t, router, http.MethodGet, "/auctions/missing/events", nil)
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "auction not found", resp["message"])
}

func TestWebSocketHandler(t *testing.T) {
	t.Parallel()

	router, m := streamRouter(t)
	n := notifier.New(8)
	sub := n.Subscribe("a1")
	m.EXPECT().Subscribe("a1").Return(sub, streamState(), nil)

	srv := httptest.NewServer(router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/auctions/a1/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var first helpers.StreamMessage
	require.NoError(t, conn.ReadJSON(&first))
	require.Equal(t, "state", first.Type)

	n.Publish(models.Event{Type: models.EventTimerReset, AuctionID: "a1", LotID: "lot-1"})

	var second struct {
		Type string                `json:"type"`
		Data helpers.EventResponse `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&second))
	require.Equal(t, "timer_reset", second.Type)
	require.Equal(t, "lot-1", second.Data.LotID)

	n.CloseAuction("a1")
	_, _, err = conn.ReadMessage()
	require.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}

func TestWebSocketHandler_RejectsPlainHTTP(t *testing.T) {
	t.Parallel()

	router, m := streamRouter(t)
	n := notifier.New(8)
	sub := n.Subscribe("a1")
	m.EXPECT().Subscribe("a1").Return(sub, streamState(), nil)

	req := httptest.NewRequest(http.MethodGet, "/auctions/a1/ws", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Zero(t, n.Count("a1"))
}
