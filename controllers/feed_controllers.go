package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/qr-table-order/feed"
	"github.com/yeremiapane/qr-table-order/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type FeedController struct {
	Hub *feed.Hub
}

func NewFeedController(hub *feed.Hub) *FeedController {
	return &FeedController{Hub: hub}
}

// AdminFeed upgrades the request and keeps the connection registered until
// the client goes away.
func (fc *FeedController) AdminFeed(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Printf("Admin feed upgrade failed: %v", err)
		return
	}

	fc.Hub.Register(ws)
	utils.InfoLogger.Printf("Admin feed client connected from %s", c.ClientIP())

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	fc.Hub.Unregister(ws)
}
