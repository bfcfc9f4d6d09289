package handler

import (
	"io"
	"net/http"
	"time"

	"auction-engine/internal/models"
	"auction-engine/services/auction/helpers"
	"auction-engine/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const wsWriteTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// StreamEventsHandler handles GET /auctions/:auction_id/events as server-sent
// events. The first event is the full state; a closed stream means the client
// must fetch state again.
func (h *AuctionHandler) StreamEventsHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	sub, state, err := h.service.Subscribe(auctionID)
	if err != nil {
		helpers.RespondError(c, "StreamEventsHandler", err, map[string]any{"auction_id": auctionID})
		return
	}
	defer sub.Close()

	utils.Info("StreamEventsHandler: client subscribed", map[string]any{
		"auction_id":      auctionID,
		"subscription_id": sub.ID,
	})

	c.SSEvent("state", helpers.ToStateResponse(state))
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-sub.Events():
			if !ok {
				return false
			}
			c.SSEvent(string(ev.Type), helpers.ToEventResponse(ev))
			return ev.Type != models.EventAuctionDeleted
		case <-c.Request.Context().Done():
			return false
		}
	})

	utils.Info("StreamEventsHandler: stream closed", map[string]any{
		"auction_id":      auctionID,
		"subscription_id": sub.ID,
	})
}

// WebSocketHandler handles GET /auctions/:auction_id/ws. Messages are
// StreamMessage envelopes; the first carries the full state.
func (h *AuctionHandler) WebSocketHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	sub, state, err := h.service.Subscribe(auctionID)
	if err != nil {
		helpers.RespondError(c, "WebSocketHandler", err, map[string]any{"auction_id": auctionID})
		return
	}
	defer sub.Close()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.Warn("WebSocketHandler: upgrade failed", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}
	defer conn.Close()

	// the read side only notices the client going away
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(msg helpers.StreamMessage) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(msg); err != nil {
			utils.Debug("WebSocketHandler: write failed", map[string]any{"auction_id": auctionID, "error": err.Error()})
			return false
		}
		return true
	}

	if !send(helpers.StreamMessage{Type: "state", Data: helpers.ToStateResponse(state)}) {
		return
	}
	for {
		select {
		case ev, ok := <-sub.Events():
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "stream ended"),
					time.Now().Add(wsWriteTimeout))
				return
			}
			if !send(helpers.StreamMessage{Type: string(ev.Type), Data: helpers.ToEventResponse(ev)}) {
				return
			}
		case <-gone:
			return
		}
	}
}
