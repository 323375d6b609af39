package stream

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

const (
	writeWait    = 5 * time.Second
	sendBuffer   = 16
	maxCommandSz = 4096
)

// CommandCounter is told the outcome of every command. The telemetry
// collector satisfies it.
type CommandCounter interface {
	Command(op, result string)
}

type Options struct {
	// Rate and Burst bound commands per connection. Excess commands are
	// dropped.
	Rate  rate.Limit
	Burst int

	// Queue is the number of commands held for the frame goroutine.
	Queue int

	Logger  *slog.Logger
	Counter CommandCounter
}

func DefaultOptions() Options {
	return Options{Rate: 20, Burst: 40, Queue: 256}
}

// message is the envelope for everything written to a client.
type message struct {
	Type   string        `json:"type"`
	Frame  *dynamo.Frame `json:"frame,omitempty"`
	Result *Result       `json:"result,omitempty"`
}

type client struct {
	conn    *websocket.Conn
	send    chan []byte
	limiter *rate.Limiter
	addr    string
}

// Hub fans frames out to connected clients and queues their commands. It
// implements dynamo.Observer.
type Hub struct {
	opts     Options
	log      *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]struct{}

	commands chan Command
}

func NewHub(opts Options) *Hub {
	def := DefaultOptions()
	if opts.Rate <= 0 {
		opts.Rate = def.Rate
	}
	if opts.Burst <= 0 {
		opts.Burst = def.Burst
	}
	if opts.Queue <= 0 {
		opts.Queue = def.Queue
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Hub{
		opts: opts,
		log:  log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients:  make(map[*client]struct{}),
		commands: make(chan Command, opts.Queue),
	}
}

// Clients reports how many connections are open.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// OnFrame encodes f once and offers it to every client. Clients whose
// buffer is full miss the frame.
func (h *Hub) OnFrame(f *dynamo.Frame) {
	data, err := json.Marshal(message{Type: "frame", Frame: f})
	if err != nil {
		h.log.Error("encode frame", "seq", f.Seq, "err", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.log.Debug("frame dropped", "client", c.addr, "seq", f.Seq)
		}
	}
}

// Drain applies every queued command to eng without blocking and returns
// how many ran. Call it from the frame goroutine.
func (h *Hub) Drain(eng *dynamo.Engine) int {
	n := 0
	for {
		select {
		case c := <-h.commands:
			r := Apply(eng, c)
			h.count(c.Op, r)
			if !r.OK {
				h.log.Debug("command failed", "op", c.Op, "id", c.ID, "err", r.Error)
			}
			h.reply(c.client, r)
			n++
		default:
			return n
		}
	}
}

func (h *Hub) count(op string, r Result) {
	if h.opts.Counter == nil {
		return
	}
	if r.OK {
		h.opts.Counter.Command(op, "ok")
	} else {
		h.opts.Counter.Command(op, "error")
	}
}

func (h *Hub) reply(c *client, r Result) {
	if c == nil {
		return
	}
	data, err := json.Marshal(message{Type: "result", Result: &r})
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// Submit queues a command from outside a connection. It reports false when
// the queue is full.
func (h *Hub) Submit(c Command) bool {
	select {
	case h.commands <- c:
		return true
	default:
		return false
	}
}

// ServeHTTP upgrades the request and serves the connection until it closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	c := &client{
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		limiter: rate.NewLimiter(h.opts.Rate, h.opts.Burst),
		addr:    r.RemoteAddr,
	}
	h.register(c)
	h.log.Info("client connected", "remote", c.addr)

	done := make(chan struct{})
	go h.writePump(c, done)
	h.readPump(c)

	h.unregister(c)
	<-done
	h.log.Info("client disconnected", "remote", c.addr)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) readPump(c *client) {
	defer c.conn.Close()
	c.conn.SetReadLimit(maxCommandSz)
	for {
		var cmd Command
		if err := c.conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn("read failed", "remote", c.addr, "err", err)
			}
			return
		}
		if !c.limiter.Allow() {
			h.log.Warn("command rate limited", "remote", c.addr, "op", cmd.Op)
			if h.opts.Counter != nil {
				h.opts.Counter.Command(cmd.Op, "limited")
			}
			continue
		}
		cmd.client = c
		select {
		case h.commands <- cmd:
		default:
			h.log.Warn("command queue full", "remote", c.addr, "op", cmd.Op)
			if h.opts.Counter != nil {
				h.opts.Counter.Command(cmd.Op, "limited")
			}
		}
	}
}

func (h *Hub) writePump(c *client, done chan<- struct{}) {
	defer close(done)
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.Debug("write failed", "remote", c.addr, "err", err)
			c.conn.Close()
			// Keep draining so unregister never blocks on a full buffer.
			for range c.send {
			}
			return
		}
	}
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}
