package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/compose"
	cerrors "github.com/vango-dev/compose/internal/errors"
	"github.com/vango-dev/compose/pkg/component"
	"github.com/vango-dev/compose/pkg/dom"
	"github.com/vango-dev/compose/pkg/reactive"
)

// Message types exchanged on a live connection.
const (
	// MessageMount (client -> server) mounts or replaces the component.
	MessageMount = "mount"

	// MessageHTML (server -> client) carries the current markup.
	MessageHTML = "html"

	// MessageError (server -> client) reports a failed mount.
	MessageError = "error"
)

// Message is the JSON frame of the live protocol.
type Message struct {
	Type    string         `json:"type"`
	Name    string         `json:"name,omitempty"`
	Params  map[string]any `json:"params,omitempty"`
	HTML    string         `json:"html,omitempty"`
	Code    string         `json:"code,omitempty"`
	Message string         `json:"message,omitempty"`
}

// live is one WebSocket connection's component tree. All of its state is
// owned by the goroutine running queue; the read loop only dispatches.
type live struct {
	conn    *websocket.Conn
	queue   *reactive.Queue
	session *compose.Session
	config  *ServerConfig
	metrics *serverMetrics
	logger  *slog.Logger
	cancel  context.CancelFunc

	target  *dom.Node
	root    *reactive.Signal[any]
	binding *component.Binding
	sent    string
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		s.metrics.wsError("upgrade")
		return
	}
	conn.SetReadLimit(s.config.MaxMessageSize)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Every mount message remounts, even when it repeats the last one.
	root := reactive.NewSignal[any](nil).WithEquals(func(any, any) bool { return false })

	l := &live{
		conn:    conn,
		queue:   reactive.NewQueue(s.logger),
		config:  s.config,
		metrics: s.metrics,
		logger:  s.logger.With("remote", r.RemoteAddr),
		cancel:  cancel,
		target:  dom.El("div"),
		root:    root,
	}
	l.session = s.engine.Session(l.queue, l.fail, liveObserver{l: l})

	l.logger.Debug("live session opened")
	s.metrics.sessionOpened()
	defer s.metrics.sessionClosed()
	go l.readLoop()

	_ = l.queue.Run(ctx)
	l.close()
	l.logger.Debug("live session closed")
}

// readLoop decodes client messages and hands them to the queue.
func (l *live) readLoop() {
	defer l.cancel()
	for {
		var msg Message
		if err := l.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				l.logger.Warn("read error", "error", err)
				l.metrics.wsError("read")
			}
			return
		}

		switch msg.Type {
		case MessageMount:
			l.queue.Dispatch(func() { l.mount(msg.Name, msg.Params) })
		default:
			l.logger.Warn("unknown message type", "type", msg.Type)
		}
	}
}

// mount points the tree at a new component. The first successful mount
// creates the binding; later ones change its bound value.
func (l *live) mount(name string, params map[string]any) {
	l.root.Set(component.Descriptor{Name: name, Params: params})
	if l.binding != nil {
		return
	}
	b, err := l.session.Mount(l.target, func() any { return l.root.Get() }, nil)
	if err != nil {
		l.fail(err)
		return
	}
	l.binding = b
}

// push sends the current markup if it changed since the last push.
func (l *live) push() {
	html, err := l.session.HTML(l.target.Children()...)
	if err != nil {
		l.fail(err)
		return
	}
	if html == l.sent {
		return
	}
	if l.send(Message{Type: MessageHTML, HTML: html}) {
		l.sent = html
	}
}

// fail reports err to the client.
func (l *live) fail(err error) {
	msg := Message{Type: MessageError, Message: err.Error()}
	var ce *cerrors.ComposeError
	if errors.As(err, &ce) {
		msg.Code = ce.Code
	}
	l.send(msg)
}

func (l *live) send(msg Message) bool {
	l.conn.SetWriteDeadline(time.Now().Add(l.config.WriteTimeout))
	if err := l.conn.WriteJSON(msg); err != nil {
		l.logger.Warn("write error", "error", err)
		l.metrics.wsError("write")
		l.cancel()
		return false
	}
	return true
}

func (l *live) close() {
	if l.binding != nil {
		l.binding.Dispose()
	}
	dom.Clean(l.target)
	l.conn.Close()
}

// liveObserver pushes markup after every successful mount in the tree,
// nested ones included.
type liveObserver struct {
	component.NopObserver
	l *live
}

func (o liveObserver) Mounted(string, uint64, time.Duration) {
	o.l.queue.Dispatch(o.l.push)
}
