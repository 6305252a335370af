package echo

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"lanbench/jsonmodel"
)

// drainBufferSize bounds the per-session receive buffer; payloads are
// discarded, never accumulated.
const drainBufferSize = 32 * 1024

// Server drains inbound TCP streams and discards them. The full close it
// performs after reading a peer's stream to EOF is the completion signal
// the transfer client waits for.
type Server struct {
	listener net.Listener
	started  time.Time
	wg       sync.WaitGroup

	accepted    atomic.Int64
	active      atomic.Int64
	drained     atomic.Int64
	lastSession atomic.Value // session id string
}

// session is the per-connection state. Nothing about it survives the
// connection; the id only correlates log lines and the status endpoint.
type session struct {
	id     string
	remote net.Addr
	start  time.Time
	bytes  int64
}

func newSession(remote net.Addr) *session {
	return &session{
		id:     uuid.NewString(),
		remote: remote,
		start:  time.Now(),
	}
}

func Listen(port int) (*Server, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))

	if err != nil {
		return nil, errors.Wrapf(err, "binding port %d", port)
	}

	return &Server{listener: listener, started: time.Now()}, nil
}

func (srv *Server) Addr() net.Addr {
	return srv.listener.Addr()
}

// Serve accepts connections until ctx is cancelled, draining each one in
// its own goroutine. A failed session never stops the accept loop.
func (srv *Server) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = srv.listener.Close()
	}()

	for {
		conn, err := srv.listener.Accept()

		if err != nil {
			if ctx.Err() != nil {
				srv.wg.Wait()
				return nil
			}

			return errors.Wrap(err, "accepting connection")
		}

		srv.wg.Add(1)
		go srv.drain(conn)
	}
}

func (srv *Server) drain(conn net.Conn) {
	defer srv.wg.Done()
	defer conn.Close()

	sess := newSession(conn.RemoteAddr())

	srv.accepted.Add(1)
	srv.active.Add(1)
	srv.lastSession.Store(sess.id)

	defer srv.active.Add(-1)
	defer func() {
		srv.drained.Add(sess.bytes)
	}()

	log.Printf("session %s: connection from %s", sess.id, sess.remote)

	buf := make([]byte, drainBufferSize)

	for {
		n, err := conn.Read(buf)
		sess.bytes += int64(n)

		if err == io.EOF {
			break
		}

		if err != nil {
			log.Printf("session %s: abandoned after %d bytes - %v", sess.id, sess.bytes, err)
			return
		}
	}

	log.Printf("session %s: drained %d bytes in %v", sess.id, sess.bytes, time.Since(sess.start))
}

// Status snapshots the cumulative counters for the status endpoint.
func (srv *Server) Status() *jsonmodel.StatusResponse {
	res := &jsonmodel.StatusResponse{
		Accepted:     srv.accepted.Load(),
		Active:       srv.active.Load(),
		BytesDrained: srv.drained.Load(),
		UptimeSec:    int64(time.Since(srv.started).Seconds()),
	}

	if last, ok := srv.lastSession.Load().(string); ok {
		res.LastSession = last
	}

	return res
}
