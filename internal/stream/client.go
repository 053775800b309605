package stream

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"

	"github.com/eastwood-fallfest/festmap/pkg/streaming"
)

const (
	sendChSize     = 1024
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 64 * 1024
)

// client is one browser connection with a single write goroutine.
type client struct {
	conn    *ws.Conn
	session string
	sendCh  chan []byte
	done    chan struct{}
	once    sync.Once
	log     *slog.Logger
}

func newClient(conn *ws.Conn, session string, logger *slog.Logger) *client {
	return &client{
		conn:    conn,
		session: session,
		sendCh:  make(chan []byte, sendChSize),
		done:    make(chan struct{}),
		log:     logger,
	}
}

// send queues data for the write loop. Non-blocking; drops if the client
// is too slow.
func (c *client) send(data []byte) {
	select {
	case <-c.done:
	case c.sendCh <- data:
	default:
		c.log.Warn("client send channel full, dropping message")
	}
}

func (c *client) sendEnvelope(typ string, payload any) {
	env, err := streaming.NewEnvelope(typ, payload)
	if err != nil {
		c.log.Error("encoding message", "type", typ, "error", err)
		return
	}
	data, err := json.Marshal(env)
	if err != nil {
		c.log.Error("encoding message", "type", typ, "error", err)
		return
	}
	c.send(data)
}

// writeLoop drains sendCh and pings the browser until the client closes.
func (c *client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case data := <-c.sendCh:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.Warn("websocket SetWriteDeadline error", "error", err)
				c.close()
				return
			}
			if err := c.conn.WriteMessage(ws.TextMessage, data); err != nil {
				c.log.Debug("websocket write error", "error", err)
				c.close()
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(ws.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				c.log.Debug("websocket ping failed", "error", err)
				c.close()
				return
			}
		}
	}
}

// readLoop decodes envelopes and hands them to handle until the connection
// fails or the client is closed.
func (c *client) readLoop(handle func(*client, streaming.Envelope)) {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			default:
				if ws.IsUnexpectedCloseError(err, ws.CloseNormalClosure, ws.CloseGoingAway) {
					c.log.Warn("websocket read error", "error", err)
				}
			}
			return
		}

		var env streaming.Envelope
		if err := json.Unmarshal(message, &env); err != nil {
			c.sendEnvelope(streaming.TypeError, streaming.ErrorMessage{Error: "malformed message"})
			continue
		}
		handle(c, env)
	}
}

// close sends a close frame and releases the connection. Safe to call more
// than once.
func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.WriteControl(
			ws.CloseMessage,
			ws.FormatCloseMessage(ws.CloseNormalClosure, ""),
			time.Now().Add(writeWait),
		)
		_ = c.conn.Close()
	})
}
