// Package stream serves the map surface to browsers over WebSocket. Every
// client gets the full drawn state on connect followed by live surface
// changes; gestures coming back are turned into dispatcher commands.
package stream

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"

	"github.com/eastwood-fallfest/festmap/internal/controller"
	"github.com/eastwood-fallfest/festmap/internal/dispatcher"
	"github.com/eastwood-fallfest/festmap/internal/surface"
	"github.com/eastwood-fallfest/festmap/pkg/streaming"
)

// Source tags dispatcher events coming from websocket clients.
const Source = "websocket"

// Dispatcher runs commands on behalf of clients.
type Dispatcher interface {
	Dispatch(e dispatcher.Event) (any, error)
}

// Surface is what the hub streams. surface.Memory implements it.
type Surface interface {
	Subscribe(fn surface.Observer) func()
	Snapshot() []surface.Change
}

// Options configure a Hub.
type Options struct {
	Festival   string
	Surface    Surface
	Dispatcher Dispatcher
	Logger     *slog.Logger
	// CheckOrigin defaults to allowing every origin.
	CheckOrigin func(r *http.Request) bool
}

// Hub fans surface changes out to every connected client.
type Hub struct {
	opts     Options
	log      *slog.Logger
	upgrader ws.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool

	unsubscribe func()
}

// NewHub subscribes to the surface and returns a hub ready to serve.
func NewHub(opts Options) *Hub {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	checkOrigin := opts.CheckOrigin
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	h := &Hub{
		opts:     opts,
		log:      opts.Logger.With("component", "stream"),
		upgrader: ws.Upgrader{CheckOrigin: checkOrigin},
		clients:  make(map[*client]struct{}),
	}
	h.unsubscribe = opts.Surface.Subscribe(h.onChange)
	return h
}

// ServeHTTP upgrades the request and runs the client until it disconnects.
// The optional "session" query parameter identifies the visitor; a new id
// is issued when it is missing.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	session := r.URL.Query().Get("session")
	if session == "" {
		session = uuid.NewString()
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := newClient(conn, session, h.log.With("session", session))
	if !h.register(c) {
		c.close()
		return
	}
	defer h.unregister(c)

	go c.writeLoop()
	c.readLoop(h.handle)
}

// register adds c and queues the hello and the current surface state. The
// hub lock keeps live changes from being queued ahead of the snapshot.
func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}

	changes := h.opts.Surface.Snapshot()
	hello := streaming.HelloPayload{Festival: h.opts.Festival, Session: c.session}
	if len(changes) > 0 && changes[0].Kind == surface.ChangeView {
		hello.Center = changes[0].LatLng
		hello.Zoom = changes[0].Zoom
	}
	c.sendEnvelope(streaming.TypeHello, hello)
	for _, change := range changes {
		c.sendEnvelope(streaming.TypeChange, change)
	}

	h.clients[c] = struct{}{}
	h.log.Info("client connected", "session", c.session, "clients", len(h.clients))
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()

	if ok {
		c.close()
		h.log.Info("client disconnected", "session", c.session, "clients", n)
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast sends one envelope to every client. It never blocks.
func (h *Hub) Broadcast(typ string, payload any) {
	env, err := streaming.NewEnvelope(typ, payload)
	if err != nil {
		h.log.Error("encoding broadcast", "type", typ, "error", err)
		return
	}
	data, err := json.Marshal(env)
	if err != nil {
		h.log.Error("encoding broadcast", "type", typ, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.send(data)
	}
}

// onChange runs on the surface's notifying goroutine, which may be inside a
// controller call. It only queues.
func (h *Hub) onChange(change surface.Change) {
	h.Broadcast(streaming.TypeChange, change)
}

// Close unsubscribes from the surface and disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()

	h.unsubscribe()
	for _, c := range clients {
		c.close()
	}
	h.log.Info("stream hub closed", "clients", len(clients))
}

// handle turns one incoming envelope into a dispatcher command and answers
// with an ack or an error.
func (h *Hub) handle(c *client, env streaming.Envelope) {
	command, payload, err := h.command(c, env)
	if err != nil {
		c.sendEnvelope(streaming.TypeError, streaming.ErrorMessage{For: env.Type, Error: err.Error()})
		return
	}

	result, err := h.opts.Dispatcher.Dispatch(dispatcher.Event{
		Command: command,
		Payload: payload,
		Source:  Source,
	})
	if err != nil {
		c.log.Debug("client command failed", "type", env.Type, "error", err)
		c.sendEnvelope(streaming.TypeError, streaming.ErrorMessage{For: env.Type, Error: err.Error()})
		return
	}
	c.sendEnvelope(streaming.TypeAck, streaming.AckMessage{For: env.Type, Result: result})
}

func (h *Hub) command(c *client, env streaming.Envelope) (string, json.RawMessage, error) {
	switch env.Type {
	case streaming.TypeMarkerClick, streaming.TypeMarkerHover, streaming.TypeMarkerDragEnd:
		var g streaming.GesturePayload
		if err := env.Decode(&g); err != nil {
			return "", nil, err
		}
		raw, err := json.Marshal(controller.GestureArgs{Session: c.session, Type: env.Type, GesturePayload: g})
		return controller.CmdGesture, raw, err

	case streaming.TypePopupAction:
		var a streaming.PopupActionPayload
		if err := env.Decode(&a); err != nil {
			return "", nil, err
		}
		raw, err := json.Marshal(a)
		return controller.CmdPopupAction, raw, err
	}
	return "", nil, fmt.Errorf("unknown message type %q", env.Type)
}
