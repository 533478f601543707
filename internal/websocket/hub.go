package assistantws

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/atakamran/liftlegends-sub000/internal/models"
	"github.com/atakamran/liftlegends-sub000/internal/services"
	"github.com/atakamran/liftlegends-sub000/internal/session"
	websocket "github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// Hub fans assistant replies out to every open connection of the same
// account, so a reply asked from one device shows up on the others.
type Hub struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan envelope
	direct     chan directMessage
	done       chan struct{}
	stopOnce   sync.Once
	logger     *zap.Logger
}

type Client struct {
	hub  *Hub
	conn *websocket.Conn
	key  string
	send chan []byte

	// ctx lives as long as the connection; questions in flight are
	// abandoned once it is cancelled.
	ctx    context.Context
	cancel context.CancelFunc
}

type asker interface {
	Ask(ctx context.Context, sess *session.Session, question string) (*models.AssistantReply, error)
}

type Message struct {
	Type      string                `json:"type"`
	Topic     models.AssistantTopic `json:"topic,omitempty"`
	Question  string                `json:"question,omitempty"`
	Content   string                `json:"content"`
	Timestamp string                `json:"timestamp"`
}

type envelope struct {
	key     string
	message Message
}

type directMessage struct {
	client  *Client
	payload []byte
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan envelope, 64),
		direct:     make(chan directMessage, 16),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// ClientKey scopes connections to one identity on one backend.
func ClientKey(sess *session.Session) string {
	return sess.BackendName() + ":" + sess.UserID()
}

func NewClient(hub *Hub, conn *websocket.Conn, key string) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		hub:    hub,
		conn:   conn,
		key:    key,
		send:   make(chan []byte, 32),
		ctx:    ctx,
		cancel: cancel,
	}
}

// release is called by the hub goroutine only.
func (c *Client) release() {
	c.cancel()
	close(c.send)
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			set, ok := h.clients[client.key]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.key] = set
			}
			set[client] = struct{}{}
		case client := <-h.unregister:
			h.drop(client)
		case env := <-h.broadcast:
			h.deliver(env)
		case msg := <-h.direct:
			h.sendDirect(msg)
		case <-h.done:
			for _, set := range h.clients {
				for client := range set {
					client.release()
				}
			}
			h.clients = make(map[string]map[*Client]struct{})
			return
		}
	}
}

// Stop ends Run and closes every client's send channel. It is safe to call
// more than once.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.release()
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish queues message for every connection under key.
func (h *Hub) Publish(key string, message Message) {
	select {
	case h.broadcast <- envelope{key: key, message: message}:
	case <-h.done:
	}
}

func (h *Hub) drop(client *Client) {
	set, ok := h.clients[client.key]
	if !ok {
		return
	}
	if _, exists := set[client]; exists {
		delete(set, client)
		client.release()
	}
	if len(set) == 0 {
		delete(h.clients, client.key)
	}
}

// sendDirect writes to one client only if it is still registered; the
// hub goroutine is the only one that closes send channels.
func (h *Hub) sendDirect(msg directMessage) {
	if _, ok := h.clients[msg.client.key][msg.client]; !ok {
		return
	}
	select {
	case msg.client.send <- msg.payload:
	default:
		h.drop(msg.client)
	}
}

func (h *Hub) deliver(env envelope) {
	encoded, err := json.Marshal(env.message)
	if err != nil {
		h.logger.Error("assistant hub encode message", zap.Error(err))
		return
	}

	set, ok := h.clients[env.key]
	if !ok {
		return
	}
	for client := range set {
		select {
		case client.send <- encoded:
		default:
			delete(set, client)
			client.release()
		}
	}
	if len(set) == 0 {
		delete(h.clients, env.key)
	}
}

// ReadPump answers each incoming question until the connection closes.
func (c *Client) ReadPump(service asker, sess *session.Session) {
	defer func() {
		c.cancel()
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var incoming struct {
			Type    string `json:"type"`
			Content string `json:"content"`
		}
		if err := json.Unmarshal(payload, &incoming); err != nil {
			c.writeError("invalid message payload")
			continue
		}
		if incoming.Type != "message" {
			c.writeError("unsupported message type")
			continue
		}

		reply, err := service.Ask(c.ctx, sess, incoming.Content)
		if err != nil {
			if errors.Is(err, services.ErrValidation) {
				c.writeError("message must be between 1 and 1000 characters")
				continue
			}
			if c.ctx.Err() != nil {
				return
			}
			c.hub.logger.Warn("assistant reply failed",
				zap.String("backend", sess.BackendName()),
				zap.String("user_id", sess.UserID()),
				zap.Error(err))
			c.writeError("failed to answer message")
			continue
		}

		c.hub.Publish(c.key, Message{
			Type:      "reply",
			Topic:     reply.Topic,
			Question:  reply.Question,
			Content:   reply.Answer,
			Timestamp: reply.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
}

func (c *Client) WritePump() {
	defer func() {
		c.cancel()
		_ = c.conn.Close()
	}()

	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

func (c *Client) writeError(message string) {
	payload, err := json.Marshal(Message{
		Type:      "error",
		Content:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}
	select {
	case c.hub.direct <- directMessage{client: c, payload: payload}:
	case <-c.hub.done:
	}
}
