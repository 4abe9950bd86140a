package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/circlehub/circlehub-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const redisPubSubChannel = "live-events"

// Registry tracks live connections by user identity. A lookup miss is not
// an error: offline parties catch up on their next fetch. The in-process
// Hub is the default implementation; a shared pub/sub layer behind the same
// interface is what multi-instance deployments swap in.
type Registry interface {
	Register(client *Client)
	Unregister(client *Client)
	Lookup(userID string) (*Client, bool)
	SendToUser(userID string, eventType string, payload interface{})
	SendToUsers(userIDs []string, eventType string, payload interface{})
	Broadcast(eventType string, payload interface{})
}

// PresenceStore persists presence changes so REST reads agree with live
// connection state. Satisfied by repository.UserRepository.
type PresenceStore interface {
	SetPresence(id string, online bool, lastSeen time.Time) error
}

// Hub manages live connections and fans events out to them. At most one
// connection per identity: registering replaces and closes any prior one.
type Hub struct {
	clients map[string]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan *targetedEvent

	mu          sync.RWMutex
	presence    PresenceStore
	redisClient *redis.Client
	ctx         context.Context
	cancel      context.CancelFunc
}

// targetedEvent routes an event to one user, several, or everyone
// (both Targets nil and All false means: single target in Target).
type targetedEvent struct {
	Target  string
	Targets []string
	All     bool
	Event   *Event
}

// NewHub creates a new Hub. redisClient may be nil for single-instance
// deployments; presence may be nil in tests.
func NewHub(presence PresenceStore, redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:     make(map[string]*Client),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan *targetedEvent, 256),
		presence:    presence,
		redisClient: redisClient,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Register adds a client to the hub, replacing any prior connection for
// the same identity, and announces the user online.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client. The user only goes offline if this client
// is still the one on record; a replaced connection's late disconnect is
// ignored.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Lookup returns the live connection for a user, if any
func (h *Hub) Lookup(userID string) (*Client, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	client, ok := h.clients[userID]
	return client, ok
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	if h.redisClient != nil {
		go h.subscribeRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if prior, ok := h.clients[client.userID]; ok && prior != client {
				// The replaced connection's read loop may still be mid-handler
				// and about to reply; shutdown only signals, never closes send.
				prior.shutdown()
			} else if !ok {
				liveConnections.Inc()
			}
			h.clients[client.userID] = client
			h.mu.Unlock()
			h.setPresence(client.userID, true)
			h.publishPresence(client.userID, true)

		case client := <-h.unregister:
			h.mu.Lock()
			current, ok := h.clients[client.userID]
			stillCurrent := ok && current == client
			if stillCurrent {
				delete(h.clients, client.userID)
				client.shutdown()
				liveConnections.Dec()
			}
			h.mu.Unlock()
			if stillCurrent {
				h.setPresence(client.userID, false)
				h.publishPresence(client.userID, false)
			}

		case msg := <-h.broadcast:
			h.deliverLocal(msg)

		case <-h.ctx.Done():
			return
		}
	}
}

// deliverLocal fans an event out to the connections this instance holds
func (h *Hub) deliverLocal(msg *targetedEvent) {
	data, err := json.Marshal(msg.Event)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	send := func(client *Client) {
		select {
		case client.send <- data:
			eventsDelivered.WithLabelValues(msg.Event.Type).Inc()
		default:
			// Slow consumer; drop the frame rather than block the hub.
			eventsDropped.Inc()
		}
	}

	switch {
	case msg.All:
		for _, client := range h.clients {
			send(client)
		}
	case msg.Targets != nil:
		for _, id := range msg.Targets {
			if client, ok := h.clients[id]; ok {
				send(client)
			}
		}
	default:
		if client, ok := h.clients[msg.Target]; ok {
			send(client)
		}
	}
}

// SendToUser delivers an event to one user's connection (local + Redis
// publish for other instances). A miss means the user is offline or
// elsewhere; they will see the state on next fetch.
func (h *Hub) SendToUser(userID string, eventType string, payload interface{}) {
	h.dispatch(&targetedEvent{Target: userID, Event: &Event{Type: eventType, Payload: payload}})
}

// SendToUsers delivers an event to each listed user's connection
func (h *Hub) SendToUsers(userIDs []string, eventType string, payload interface{}) {
	if len(userIDs) == 0 {
		return
	}
	h.dispatch(&targetedEvent{Targets: userIDs, Event: &Event{Type: eventType, Payload: payload}})
}

// Broadcast delivers an event to every live connection
func (h *Hub) Broadcast(eventType string, payload interface{}) {
	h.dispatch(&targetedEvent{All: true, Event: &Event{Type: eventType, Payload: payload}})
}

func (h *Hub) dispatch(msg *targetedEvent) {
	select {
	case h.broadcast <- msg:
	case <-h.ctx.Done():
		return
	}

	if h.redisClient != nil {
		data, err := json.Marshal(redisMessage{
			Target:  msg.Target,
			Targets: msg.Targets,
			All:     msg.All,
			Event:   msg.Event,
		})
		if err == nil {
			h.redisClient.Publish(h.ctx, redisPubSubChannel, data) //nolint:errcheck
		}
	}
}

func (h *Hub) setPresence(userID string, online bool) {
	if h.presence == nil {
		return
	}
	if err := h.presence.SetPresence(userID, online, time.Now()); err != nil {
		logger.Get().Warn().Err(err).Str("user_id", userID).Msg("persist presence failed")
	}
}

func (h *Hub) publishPresence(userID string, online bool) {
	// Presence goes to everyone else; the user's own connection does not
	// need its own status.
	evt := &Event{Type: EvUserStatus, Payload: PresencePayload{UserID: userID, Online: online}}
	h.deliverLocalExcept(userID, evt)

	if h.redisClient != nil {
		data, err := json.Marshal(redisMessage{All: true, Except: userID, Event: evt})
		if err == nil {
			h.redisClient.Publish(h.ctx, redisPubSubChannel, data) //nolint:errcheck
		}
	}
}

func (h *Hub) deliverLocalExcept(exceptUserID string, evt *Event) {
	data, err := json.Marshal(evt)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, client := range h.clients {
		if id == exceptUserID {
			continue
		}
		select {
		case client.send <- data:
		default:
		}
	}
}

type redisMessage struct {
	Target  string   `json:"target,omitempty"`
	Targets []string `json:"targets,omitempty"`
	All     bool     `json:"all,omitempty"`
	Except  string   `json:"except,omitempty"`
	Event   *Event   `json:"event"`
}

// subscribeRedis listens for events published by other instances
func (h *Hub) subscribeRedis() {
	pubsub := h.redisClient.Subscribe(h.ctx, redisPubSubChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var rm redisMessage
			if err := json.Unmarshal([]byte(msg.Payload), &rm); err != nil {
				continue
			}
			if rm.All && rm.Except != "" {
				h.deliverLocalExcept(rm.Except, rm.Event)
				continue
			}
			// Local delivery only; never re-publish.
			h.deliverLocal(&targetedEvent{
				Target:  rm.Target,
				Targets: rm.Targets,
				All:     rm.All,
				Event:   rm.Event,
			})
		case <-h.ctx.Done():
			return
		}
	}
}

// Stop gracefully shuts down the hub
func (h *Hub) Stop() {
	h.cancel()
}
