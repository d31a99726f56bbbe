package websocket

import (
	"net/http"
	"time"

	"carefoundation/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Config struct {
	ReadBufferSize  int
	WriteBufferSize int
	PingInterval    time.Duration
	PongTimeout     time.Duration
	AllowedOrigins  []string
}

func (c Config) withDefaults() Config {
	if c.PongTimeout <= 0 {
		c.PongTimeout = 60 * time.Second
	}
	if c.PingInterval <= 0 || c.PingInterval >= c.PongTimeout {
		c.PingInterval = (c.PongTimeout * 9) / 10
	}
	return c
}

type Handler struct {
	hub      *Hub
	cfg      Config
	upgrader websocket.Upgrader
	logger   *logger.Logger
}

func NewHandler(hub *Hub, cfg Config, log *logger.Logger) *Handler {
	cfg = cfg.withDefaults()
	return &Handler{
		hub: hub,
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin:     originChecker(cfg.AllowedOrigins),
		},
		logger: log,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, origin := range allowed {
		if origin == "*" {
			return func(*http.Request) bool { return true }
		}
		set[origin] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set[origin]
	}
}

// HandleWebSocket upgrades an authenticated request and subscribes the caller to its
// personal room, plus the admin room for admins.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	userID, ok := c.Get("user_id")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	oid, ok := userID.(primitive.ObjectID)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}
	role := c.GetString("user_role")

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	client := NewClient(h.hub, conn, oid, role, h.cfg)
	h.hub.register <- client

	go client.writePump()
	go client.readPump()
}
