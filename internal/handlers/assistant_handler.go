package handlers

import (
	"context"

	"github.com/atakamran/liftlegends-sub000/internal/middleware"
	"github.com/atakamran/liftlegends-sub000/internal/models"
	"github.com/atakamran/liftlegends-sub000/internal/session"
	assistantws "github.com/atakamran/liftlegends-sub000/internal/websocket"
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type assistantApplicationService interface {
	Ask(ctx context.Context, sess *session.Session, question string) (*models.AssistantReply, error)
}

type AssistantHandler struct {
	service assistantApplicationService
	hub     *assistantws.Hub
}

func NewAssistantHandler(service assistantApplicationService, hub *assistantws.Hub) *AssistantHandler {
	return &AssistantHandler{service: service, hub: hub}
}

func (h *AssistantHandler) Ask(c *fiber.Ctx) error {
	var req askRequest
	if err := decodeJSON(c, &req); err != nil {
		return invalidBody(c)
	}

	reply, err := h.service.Ask(c.Context(), middleware.SessionFrom(c), req.Message)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "reply": reply})
}

// WebSocketUpgrade runs after auth and the feature gate, so the session is
// already in the locals that the websocket connection inherits.
func (h *AssistantHandler) WebSocketUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fail(c, fiber.StatusUpgradeRequired, "upgrade_required", "WebSocket upgrade required")
	}
	return c.Next()
}

func (h *AssistantHandler) HandleWebSocket(conn *websocket.Conn) {
	sess, ok := conn.Locals(middleware.SessionKey).(*session.Session)
	if !ok || !sess.Valid() {
		_ = conn.Close()
		return
	}

	client := assistantws.NewClient(h.hub, conn, assistantws.ClientKey(sess))
	h.hub.Register(client)
	go client.WritePump()
	client.ReadPump(h.service, sess)
}
