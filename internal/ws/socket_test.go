package ws

import (
	"net"
	"net/http"
	"net/url"
	"testing"

	"github.com/benbjohnson/clock"
	socketio "github.com/googollee/go-socket.io"
	"github.com/kiliankoe/quizcast/internal/display"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	id    string
	ctx   interface{}
	emits []string
}

var _ socketio.Conn = (*fakeConn)(nil)

func (c *fakeConn) ID() string                           { return c.id }
func (c *fakeConn) Close() error                         { return nil }
func (c *fakeConn) URL() url.URL                         { return url.URL{} }
func (c *fakeConn) LocalAddr() net.Addr                  { return nil }
func (c *fakeConn) RemoteAddr() net.Addr                 { return nil }
func (c *fakeConn) RemoteHeader() http.Header            { return nil }
func (c *fakeConn) Context() interface{}                 { return c.ctx }
func (c *fakeConn) SetContext(v interface{})             { c.ctx = v }
func (c *fakeConn) Namespace() string                    { return "/" }
func (c *fakeConn) Emit(eventName string, v ...interface{}) {
	c.emits = append(c.emits, eventName)
}
func (c *fakeConn) Join(room string)  {}
func (c *fakeConn) Leave(room string) {}
func (c *fakeConn) LeaveAll()         {}
func (c *fakeConn) Rooms() []string   { return nil }

func (c *fakeConn) emitted(event string) int {
	n := 0
	for _, e := range c.emits {
		if e == event {
			n++
		}
	}
	return n
}

func newTestServer() (*Server, *display.Session) {
	srv := New()
	sess := display.NewSession(display.Options{
		Clock:  clock.NewMock(),
		Logger: zerolog.Nop(),
		Sink:   srv,
		Layout: srv,
	})
	srv.SetSession(sess)
	return srv, sess
}

func TestSenderAttachAcksExactlyOnce(t *testing.T) {
	srv, sess := newTestServer()
	c1 := &fakeConn{id: "s1"}
	ack := srv.attachSender(c1)
	require.Equal(t, 1, c1.emitted("receiver_ready"))
	require.Equal(t, sess.ID, ack["sessionId"])

	c2 := &fakeConn{id: "s2"}
	srv.attachSender(c2)
	require.Equal(t, 1, c1.emitted("receiver_ready"), "ack goes only to the attaching sender")
	require.Equal(t, 1, c2.emitted("receiver_ready"))
}

func TestLastSenderDetachEndsSession(t *testing.T) {
	srv, sess := newTestServer()
	c1 := &fakeConn{id: "s1"}
	c2 := &fakeConn{id: "s2"}
	srv.attachSender(c1)
	srv.attachSender(c2)

	srv.handleDisconnect(c1, "transport close")
	require.NotEqual(t, display.ScreenEnd, sess.CurrentScreen(), "one sender still attached")

	srv.handleDisconnect(c2, "transport close")
	require.Equal(t, display.ScreenEnd, sess.CurrentScreen())
}

func TestDisplayDisconnectKeepsSessionAlive(t *testing.T) {
	srv, sess := newTestServer()
	srv.attachSender(&fakeConn{id: "s1"})
	d := &fakeConn{id: "d1"}
	srv.attachDisplay(d)
	require.Equal(t, 1, d.emitted("display:state"), "display is caught up on attach")

	srv.handleDisconnect(d, "transport close")
	require.NotEqual(t, display.ScreenEnd, sess.CurrentScreen())
}

func TestUnattachedDisconnectIsIgnored(t *testing.T) {
	srv, sess := newTestServer()
	srv.attachSender(&fakeConn{id: "s1"})

	// A connection that never attached has no role and must not count as
	// a sender going away.
	srv.handleDisconnect(&fakeConn{id: "x"}, "transport close")
	require.NotEqual(t, display.ScreenEnd, sess.CurrentScreen())
}

func TestDisplaysReceivePublishedState(t *testing.T) {
	srv, sess := newTestServer()
	srv.attachSender(&fakeConn{id: "s1"})
	d1 := &fakeConn{id: "d1"}
	d2 := &fakeConn{id: "d2"}
	srv.attachDisplay(d1)
	srv.attachDisplay(d2)

	sess.Handle([]byte(`{"type":"end"}`))
	require.Equal(t, 2, d1.emitted("display:state"), "attach snapshot plus one publish")
	require.Equal(t, 2, d2.emitted("display:state"))
}

func TestRecordMetricsBacksEntrySpacing(t *testing.T) {
	srv, _ := newTestServer()
	require.Zero(t, srv.EntrySpacing())

	srv.recordMetrics(&fakeConn{id: "d1"}, 120)
	require.Equal(t, 120, srv.EntrySpacing())
}
