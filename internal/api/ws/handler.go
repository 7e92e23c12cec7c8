package ws

import (
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/PhoneSim/backend/internal/domain/events"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/shared/types"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	subscriberBuf  = 256
)

// Frame types
const (
	TypeSystem   = "system"
	TypeChange   = "change"
	TypeSnapshot = "snapshot"
	TypePong     = "pong"
	TypeError    = "error"
)

// Handler streams store and navigation changes to WebSocket clients
type Handler struct {
	bus      *events.Bus
	snapshot func() interface{}
	metrics  *monitoring.Metrics
	log      *logging.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates a stream handler. With no origins every origin may connect.
func NewHandler(bus *events.Bus, logger *logging.Logger, origins ...string) *Handler {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	_, allowAll := allowed["*"]

	return &Handler{
		bus: bus,
		log: logger.Named("ws"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				if len(allowed) == 0 || allowAll {
					return true
				}
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

// WithSnapshot answers "snapshot" requests with fn's result
func (h *Handler) WithSnapshot(fn func() interface{}) *Handler {
	h.snapshot = fn
	return h
}

// WithMetrics adds metrics collection
func (h *Handler) WithMetrics(metrics *monitoring.Metrics) *Handler {
	h.metrics = metrics
	return h
}

// HandleConnection upgrades the request and streams changes until the
// client goes away. ?ns=ride. limits the stream to one namespace.
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	h.metrics.IncWSConnections()
	defer h.metrics.DecWSConnections()

	namespace := c.Query("ns")
	changes, unsubscribe := h.bus.Subscribe(namespace, subscriberBuf)
	defer unsubscribe()

	h.log.Debug("Stream connected", zap.String("remote", c.ClientIP()), zap.String("ns", namespace))

	requests := make(chan types.WSMessage, 8)
	done := make(chan struct{})
	stop := make(chan struct{})
	defer close(stop)
	go h.readLoop(conn, requests, done, stop)

	if err := h.send(conn, types.WSMessage{Type: TypeSystem, Payload: gin.H{"message": "connected", "ns": namespace}}); err != nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case change, ok := <-changes:
			if !ok {
				return
			}
			if err := h.send(conn, frameFor(change)); err != nil {
				return
			}
		case req := <-requests:
			if err := h.answer(conn, req); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop owns the read side; all writes stay on the handler goroutine
func (h *Handler) readLoop(conn *websocket.Conn, requests chan<- types.WSMessage, done, stop chan struct{}) {
	defer close(done)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("WebSocket read error", zap.Error(err))
			}
			return
		}

		var msg types.WSMessage
		if err := sonic.Unmarshal(raw, &msg); err != nil {
			msg = types.WSMessage{Type: "invalid"}
		}
		h.metrics.RecordWSMessage("in", msg.Type)
		select {
		case requests <- msg:
		case <-stop:
			return
		}
	}
}

func (h *Handler) answer(conn *websocket.Conn, req types.WSMessage) error {
	switch req.Type {
	case "ping":
		return h.send(conn, types.WSMessage{Type: TypePong})
	case "snapshot":
		if h.snapshot == nil {
			return h.sendError(conn, "snapshots are not available")
		}
		return h.send(conn, types.WSMessage{Type: TypeSnapshot, Payload: h.snapshot()})
	default:
		return h.sendError(conn, "unknown message type")
	}
}

func (h *Handler) send(conn *websocket.Conn, msg types.WSMessage) error {
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().Unix()
	}
	data, err := sonic.Marshal(msg)
	if err != nil {
		h.log.Error("Failed to encode frame", zap.String("type", msg.Type), zap.Error(err))
		return nil
	}

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return err
	}
	kind := msg.Type
	if msg.Kind != "" {
		kind = msg.Kind
	}
	h.metrics.RecordWSMessage("out", kind)
	return nil
}

func (h *Handler) sendError(conn *websocket.Conn, message string) error {
	return h.send(conn, types.WSMessage{Type: TypeError, Payload: gin.H{"message": message}})
}

// frameFor converts a change into a stream frame
func frameFor(c events.Change) types.WSMessage {
	entity := c.Kind
	if i := strings.IndexByte(c.Kind, '.'); i >= 0 {
		entity = c.Kind[:i]
	}
	ts := c.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	return types.WSMessage{
		Type:      TypeChange,
		Kind:      c.Kind,
		Entity:    entity,
		Payload:   gin.H{"id": c.EntityID, "data": c.Payload},
		Timestamp: ts.Unix(),
	}
}
