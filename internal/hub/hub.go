package hub

import (
	"context"
	"net/http"
	"sync"

	"github.com/Rishu1724/TextMeIfYouCan/internal/event"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type inboundMessage struct {
	event  event.WsEvent
	client *Client
}

// Hub owns the relay's moving parts: the registry, a worker pool
// draining the inbound queue into the gateway, and the
// register/unregister loop. All registry mutation funnels through the
// run loop or lock-guarded registry methods, so handlers stay short and
// never block each other.
type Hub struct {
	registry RoomRegistry
	gateway  *Gateway
	logger   *zap.Logger

	register   chan *Client
	unregister chan *Client
	inbound    chan inboundMessage

	upgrader websocket.Upgrader

	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	stopOnce sync.Once
}

func NewHub(registry RoomRegistry, gateway *Gateway, allowedOrigins []string, logger *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	h := &Hub{
		registry:   registry,
		gateway:    gateway,
		logger:     logger,
		register:   make(chan *Client, 1024),
		unregister: make(chan *Client, 1024),
		inbound:    make(chan inboundMessage, 4096), // buffer for burst handling
		ctx:        ctx,
		cancel:     cancel,
	}

	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			_, ok := origins[r.Header.Get("Origin")]
			return ok
		},
	}

	// run manager loop
	go h.run()

	// start worker loop
	for i := 0; i < workerPoolSize; i++ {
		h.wg.Add(1)
		go func() {
			defer h.wg.Done()
			for {
				select {
				case <-h.ctx.Done():
					return
				case in := <-h.inbound:
					h.gateway.Dispatch(h.ctx, in.event, in.client)
				}
			}
		}()
	}

	return h
}

func (h *Hub) run() {
	for {
		select {
		case <-h.ctx.Done():
			return
		case c := <-h.register:
			h.registry.Register(c)
		case c := <-h.unregister:
			h.registry.Unregister(c)
			c.close()
			h.logger.Info("client removed",
				zap.String("client_id", c.id),
				zap.String("user_id", c.userID),
			)
		}
	}
}

// ServeWS upgrades the HTTP request and binds the verified user
// identity to the new connection. The caller must have authenticated
// the request; userID is trusted from here on.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	newClient(userID, conn, h, h.logger)
}

// Stop shuts the relay down: closes every client connection and waits
// for the workers to exit. Safe to call more than once. The inbound
// channel is left open; workers and readers stop on the cancelled
// context, so a reader mid-handoff can never hit a closed channel.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		h.cancel()

		for _, sub := range h.registry.Subscribers() {
			if c, ok := sub.(*Client); ok {
				c.close()
			}
		}

		h.wg.Wait()
	})
}

// Registry exposes the room registry for the monitor service.
func (h *Hub) Registry() RoomRegistry { return h.registry }
