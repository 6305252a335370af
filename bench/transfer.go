package bench

import (
	"context"
	"io"
	"net"
	"os"
	"time"

	"github.com/pkg/errors"
)

// transfer streams the file to the echo server and waits for the server's
// close. The caller's stopwatch around this call therefore covers both the
// send and the server-side drain, which is the wall-clock cost of moving
// the file across the LAN.
func transfer(ctx context.Context, addr, path string, timeout time.Duration) error {
	dialer := net.Dialer{Timeout: timeout}

	conn, err := dialer.DialContext(ctx, "tcp", addr)

	if err != nil {
		return errors.Wrapf(err, "connecting to %s", addr)
	}

	defer conn.Close()

	file, err := os.Open(path)

	if err != nil {
		return errors.Wrapf(err, "opening %s", path)
	}

	defer file.Close()

	buf := make([]byte, chunkSize)

	if _, err := io.CopyBuffer(conn, file, buf); err != nil {
		return errors.Wrapf(err, "sending %s to %s", path, addr)
	}

	// half-close: tells the server the stream is complete
	tcpConn, ok := conn.(*net.TCPConn)

	if !ok {
		return errors.Errorf("unexpected connection type %T", conn)
	}

	if err := tcpConn.CloseWrite(); err != nil {
		return errors.Wrap(err, "half-closing connection")
	}

	// block until the server has drained everything and closed its side
	if _, err := io.CopyBuffer(io.Discard, conn, buf); err != nil {
		return errors.Wrapf(err, "awaiting close from %s", addr)
	}

	return nil
}
