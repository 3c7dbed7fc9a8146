package ws

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/kiliankoe/quizcast/internal/display"
	"github.com/rs/zerolog/log"
)

type ConnCtx struct {
	Role string // "sender" | "display"
}

// Server is the Socket.IO boundary. Game senders push state messages in,
// display clients get rendered snapshots out. It feeds the session as both
// its publish sink and its layout source.
type Server struct {
	mu       sync.Mutex
	session  *display.Session
	senders  map[string]socketio.Conn // socketID -> Conn
	displays map[string]socketio.Conn
	spacing  int // entry spacing reported by a display, 0 until measured
}

func New() *Server {
	return &Server{
		senders:  make(map[string]socketio.Conn),
		displays: make(map[string]socketio.Conn),
	}
}

func (srv *Server) SetSession(sess *display.Session) { srv.session = sess }

// PublishState pushes a snapshot to every connected display.
func (srv *Server) PublishState(snap display.Snapshot) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	for _, c := range srv.displays {
		c.Emit("display:state", snap)
	}
}

// EntrySpacing returns the leaderboard row spacing last reported by a
// display, or 0 when none has reported yet.
func (srv *Server) EntrySpacing() int {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	return srv.spacing
}

// attachSender registers a sender connection and acknowledges it with a
// single receiver_ready carrying the session ID.
func (srv *Server) attachSender(s socketio.Conn) map[string]any {
	s.SetContext(&ConnCtx{Role: "sender"})
	srv.mu.Lock()
	srv.senders[s.ID()] = s
	srv.mu.Unlock()
	log.Info().Str("sid", s.ID()).Msg("sender:attach")
	s.Emit("receiver_ready", map[string]any{"sessionId": srv.session.ID})
	return map[string]any{"sessionId": srv.session.ID}
}

// attachDisplay registers a display connection and catches it up with the
// current snapshot immediately.
func (srv *Server) attachDisplay(s socketio.Conn) map[string]any {
	s.SetContext(&ConnCtx{Role: "display"})
	srv.mu.Lock()
	srv.displays[s.ID()] = s
	srv.mu.Unlock()
	log.Info().Str("sid", s.ID()).Msg("display:attach")
	s.Emit("display:state", srv.session.Snapshot())
	return map[string]any{"sessionId": srv.session.ID}
}

func (srv *Server) recordMetrics(s socketio.Conn, entrySpacing int) map[string]any {
	srv.mu.Lock()
	srv.spacing = entrySpacing
	srv.mu.Unlock()
	log.Debug().Str("sid", s.ID()).Int("entrySpacing", entrySpacing).Msg("display:metrics")
	return map[string]any{"ok": true}
}

// dropConn removes the connection from its role registry. It reports true
// when the dropped connection was the last remaining sender.
func (srv *Server) dropConn(s socketio.Conn) bool {
	ctx, ok := s.Context().(*ConnCtx)
	if !ok {
		return false
	}
	srv.mu.Lock()
	defer srv.mu.Unlock()
	switch ctx.Role {
	case "sender":
		delete(srv.senders, s.ID())
		return len(srv.senders) == 0
	case "display":
		delete(srv.displays, s.ID())
	}
	return false
}

// handleDisconnect ends the session when the last sender detaches. Display
// disconnects only deregister.
func (srv *Server) handleDisconnect(s socketio.Conn, reason string) {
	lastSender := srv.dropConn(s)
	log.Info().Str("sid", s.ID()).Str("reason", reason).Msg("socket disconnected")
	if lastSender {
		log.Info().Msg("last sender disconnected, ending session")
		srv.session.SenderLost()
	}
}

// Mount attaches Socket.IO server with handlers to the given Gin engine.
func (srv *Server) Mount(r *gin.Engine) *socketio.Server {
	io := socketio.NewServer(nil)

	io.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext(&ConnCtx{})
		log.Info().Str("sid", s.ID()).Msg("socket connected")
		return nil
	})

	io.OnEvent("/", "sender:attach", func(s socketio.Conn) map[string]any {
		return srv.attachSender(s)
	})

	// game:event carries one opaque state message from the sender.
	io.OnEvent("/", "game:event", func(s socketio.Conn, raw json.RawMessage) map[string]any {
		srv.session.Handle(raw)
		return map[string]any{"ok": true}
	})

	io.OnEvent("/", "display:attach", func(s socketio.Conn) map[string]any {
		return srv.attachDisplay(s)
	})

	// display:metrics reports measured geometry from the rendered page.
	io.OnEvent("/", "display:metrics", func(s socketio.Conn, payload struct {
		EntrySpacing int `json:"entrySpacing"`
	}) map[string]any {
		return srv.recordMetrics(s, payload.EntrySpacing)
	})

	io.OnError("/", func(s socketio.Conn, e error) {
		log.Error().Str("sid", s.ID()).Err(e).Msg("socket error")
	})
	io.OnDisconnect("/", srv.handleDisconnect)

	go io.Serve()

	// Mount to router
	r.GET("/socket.io/*any", gin.WrapH(io))
	r.POST("/socket.io/*any", gin.WrapH(io))

	// Basic CORS preflight for Socket.IO POST
	r.OPTIONS("/socket.io/*any", func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Status(http.StatusNoContent)
	})

	return io
}
