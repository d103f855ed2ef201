package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/apperr"
	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/middleware"
	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/realtime"
	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/utils"
)

// NotificationSocket streams realtime events (tutor status changes) to the
// signed-in user.
type NotificationSocket struct {
	Hub        *realtime.Hub
	JWTSecret  string
	CookieName string
	Log        *zap.Logger
}

func NewNotificationSocket(hub *realtime.Hub, secret, cookieName string, log *zap.Logger) *NotificationSocket {
	return &NotificationSocket{Hub: hub, JWTSecret: secret, CookieName: cookieName, Log: log}
}

func (h *NotificationSocket) Routes(app fiber.Router) {
	app.Get("/ws/notifications", h.Upgrade, websocket.New(h.Serve))
}

// Upgrade authenticates the handshake. Browsers cannot set headers on a
// websocket request so the token may also arrive as ?token=.
func (h *NotificationSocket) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	tok := c.Query("token")
	if tok == "" {
		tok = middleware.TokenFromRequest(c, h.CookieName)
	}
	if tok == "" {
		return apperr.Unauthorized("Unauthorized")
	}
	claims, err := utils.ParseJWT(h.JWTSecret, tok)
	if err != nil {
		return apperr.Unauthorized("Invalid token")
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return apperr.Unauthorized("Invalid token")
	}
	c.Locals(middleware.LocalUserID, id)
	return c.Next()
}

func (h *NotificationSocket) Serve(c *websocket.Conn) {
	userID, ok := c.Locals(middleware.LocalUserID).(uuid.UUID)
	if !ok {
		_ = c.Close()
		return
	}

	client := realtime.NewClient(userID)
	if !h.Hub.RegisterClient(client) {
		_ = c.Close()
		return
	}
	h.Log.Debug("ws connected", zap.String("userId", userID.String()))
	defer func() {
		h.Hub.UnregisterClient(client)
		h.Log.Debug("ws disconnected", zap.String("userId", userID.String()))
	}()

	go func() {
		for msg := range client.Send {
			if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.Log.Debug("ws write failed", zap.Error(err))
				return
			}
		}
		_ = c.Close()
	}()

	// Inbound frames are only keepalives.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}
