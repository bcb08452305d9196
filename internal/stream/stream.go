// Package stream implements the push channel over a websocket to the
// hub's composite watch endpoint. It is the only package that knows
// the wire transport; the core consumes it through core.Stream and
// core.StreamDialer.
package stream

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/otterscale/watchmux/internal/config"
	"github.com/otterscale/watchmux/internal/core"
)

// closeGrace bounds how long Close waits for the close handshake
// control frame to be written.
const closeGrace = time.Second

// Dialer opens websocket push channels against the hub.
type Dialer struct {
	base      *url.URL
	apiPrefix string
	ws        *websocket.Dialer
	log       *slog.Logger
}

// NewDialer builds a Dialer from the process configuration. The
// configured http(s) server URL is rewritten to the ws(s) scheme.
func NewDialer(conf *config.Config) (*Dialer, error) {
	base, err := url.Parse(conf.ClientServerURL())
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}

	switch base.Scheme {
	case "http":
		base.Scheme = "ws"
	case "https":
		base.Scheme = "wss"
	case "ws", "wss":
	default:
		return nil, fmt.Errorf("unsupported server url scheme %q", base.Scheme)
	}

	return &Dialer{
		base:      base,
		apiPrefix: conf.ClientAPIPrefix(),
		ws: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: conf.ClientHandshakeTimeout(),
		},
		log: slog.Default().With("component", "stream"),
	}, nil
}

var _ core.StreamDialer = (*Dialer)(nil)

// Dial opens one channel carrying all endpoints of the query, encoded
// as repeated "watch" query parameters on the composite watch URL.
func (d *Dialer) Dial(ctx context.Context, endpoints []string) (core.Stream, error) {
	if len(endpoints) == 0 {
		return nil, fmt.Errorf("empty watch query")
	}

	u := *d.base
	u.Path = path.Join(u.Path, d.apiPrefix, "watch")

	q := url.Values{}
	for _, e := range endpoints {
		q.Add("watch", e)
	}
	u.RawQuery = q.Encode()

	ws, resp, err := d.ws.DialContext(ctx, u.String(), nil)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
			return nil, fmt.Errorf("dial watch stream: %w (status %d)", err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial watch stream: %w", err)
	}

	conn := newConn(ws)
	d.log.Debug("watch stream dialed", "stream", conn.ID(), "endpoints", len(endpoints))
	return conn, nil
}

// Conn is one live websocket channel. Messages are pumped into a
// buffered channel in arrival order; the terminal error (nil for a
// clean peer close) is delivered on Done after Messages closes.
type Conn struct {
	id        string
	ws        *websocket.Conn
	msgs      chan []byte
	done      chan error
	closeOnce sync.Once
}

func newConn(ws *websocket.Conn) *Conn {
	c := &Conn{
		id:   uuid.NewString(),
		ws:   ws,
		msgs: make(chan []byte, 16),
		done: make(chan error, 1),
	}
	go c.readPump()
	return c
}

var _ core.Stream = (*Conn)(nil)

func (c *Conn) ID() string {
	return c.id
}

func (c *Conn) Messages() <-chan []byte {
	return c.msgs
}

func (c *Conn) Done() <-chan error {
	return c.done
}

// Close tears the channel down: a best-effort close frame, then the
// underlying socket. Safe to call multiple times; the read pump exits
// on the resulting read error.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		deadline := time.Now().Add(closeGrace)
		_ = c.ws.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			deadline,
		)
		_ = c.ws.Close()
	})
	return nil
}

// readPump owns the msgs channel: it is the only sender and closes it
// on exit, followed by the terminal error on done.
func (c *Conn) readPump() {
	defer close(c.done)
	defer close(c.msgs)

	for {
		msgType, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.done <- nil
			} else {
				c.done <- err
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		c.msgs <- data
	}
}
