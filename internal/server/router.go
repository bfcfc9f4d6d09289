package server

import (
	"net/http"

	auction "auction-engine/internal/auctionService"
	"auction-engine/internal/metrics"
	handler "auction-engine/services/auction/handler"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(auctionService *auction.AuctionService) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	auctionHandler := handler.NewAuctionHandler(auctionService)

	router.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	auctions := router.Group("/auctions")
	{
		auctions.POST("", auctionHandler.CreateAuctionHandler)
		auctions.GET("/code/:code", auctionHandler.GetAuctionByCodeHandler)
		auctions.GET("/:auction_id", auctionHandler.GetAuctionHandler)
		auctions.PATCH("/:auction_id", auctionHandler.UpdateSettingsHandler)
		auctions.DELETE("/:auction_id", auctionHandler.DeleteAuctionHandler)

		auctions.POST("/:auction_id/join", auctionHandler.JoinAuctionHandler)
		auctions.POST("/:auction_id/start", auctionHandler.StartAuctionHandler)
		auctions.POST("/:auction_id/next", auctionHandler.AdvanceLotHandler)
		auctions.POST("/:auction_id/previous", auctionHandler.PreviousLotHandler)
		auctions.POST("/:auction_id/end", auctionHandler.EndAuctionHandler)

		auctions.POST("/:auction_id/bids", auctionHandler.PlaceBidHandler)
		auctions.GET("/:auction_id/bidders", auctionHandler.GetBiddersHandler)
		auctions.GET("/:auction_id/bidders/:user_id", auctionHandler.GetBidderHandler)

		auctions.POST("/:auction_id/lots/:lot_id/finalize", auctionHandler.FinalizeLotHandler)
		auctions.GET("/:auction_id/lots/:lot_id/bids", auctionHandler.GetBidsHandler)
		auctions.GET("/:auction_id/lots/:lot_id/highest", auctionHandler.GetHighestBidHandler)

		auctions.GET("/:auction_id/events", auctionHandler.StreamEventsHandler)
		auctions.GET("/:auction_id/ws", auctionHandler.WebSocketHandler)
	}

	users := router.Group("/users")
	{
		users.POST("", auctionHandler.RegisterUserHandler)
		users.GET("/:user_id/team", auctionHandler.GetTeamHandler)
	}

	return router
}
