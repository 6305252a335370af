package echo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"lanbench/jsonmodel"

	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T) *Server {
	t.Helper()

	srv, err := Listen(0)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)
		_ = srv.Serve(ctx)
	}()

	t.Cleanup(func() {
		cancel()
		<-done
	})

	return srv
}

func dialServer(t *testing.T, srv *Server) *net.TCPConn {
	t.Helper()

	addr := fmt.Sprintf("127.0.0.1:%d", srv.Addr().(*net.TCPAddr).Port)

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)

	return conn.(*net.TCPConn)
}

// TestServer_DrainsExactByteCount testing that every sent byte is counted
// and the server's close arrives after the drain, including the empty
// stream
func TestServer_DrainsExactByteCount(t *testing.T) {
	t.Parallel()

	sizes := []int{0, 1, 1024, 1<<20 + 37}

	for _, size := range sizes {
		size := size
		t.Run(fmt.Sprintf("%d_bytes", size), func(t *testing.T) {
			t.Parallel()

			srv := startServer(t)
			conn := dialServer(t, srv)

			defer conn.Close()

			payload := bytes.Repeat([]byte{0xA5}, size)

			_, err := conn.Write(payload)
			require.NoError(t, err)

			require.NoError(t, conn.CloseWrite())

			// nothing comes back; the read unblocks on the server's close
			echoed, err := io.ReadAll(conn)
			require.NoError(t, err)
			require.Empty(t, echoed)

			status := srv.Status()
			require.Equal(t, int64(size), status.BytesDrained)
			require.Equal(t, int64(1), status.Accepted)
			require.Equal(t, int64(0), status.Active)
			require.NotEmpty(t, status.LastSession)
		})
	}
}

// TestServer_ConcurrentSessionsAreIsolated testing that interleaved
// connections keep independent byte counts
func TestServer_ConcurrentSessionsAreIsolated(t *testing.T) {
	t.Parallel()

	srv := startServer(t)

	sizes := []int{3 * 1024, 17 * 1024, 64 * 1024}

	var wg sync.WaitGroup

	for _, size := range sizes {
		wg.Add(1)

		go func(size int) {
			defer wg.Done()

			conn := dialServer(t, srv)
			defer conn.Close()

			payload := bytes.Repeat([]byte{0x42}, size)

			// two writes with a pause so the sessions interleave
			_, err := conn.Write(payload[:size/2])
			require.NoError(t, err)

			time.Sleep(20 * time.Millisecond)

			_, err = conn.Write(payload[size/2:])
			require.NoError(t, err)

			require.NoError(t, conn.CloseWrite())

			_, err = io.ReadAll(conn)
			require.NoError(t, err)
		}(size)
	}

	wg.Wait()

	total := int64(0)

	for _, size := range sizes {
		total += int64(size)
	}

	status := srv.Status()
	require.Equal(t, total, status.BytesDrained)
	require.Equal(t, int64(len(sizes)), status.Accepted)
	require.Equal(t, int64(0), status.Active)
}

// TestServer_SurvivesAbortedSession testing that a reset connection is
// abandoned without affecting later sessions
func TestServer_SurvivesAbortedSession(t *testing.T) {
	t.Parallel()

	srv := startServer(t)

	// first connection dies with a RST mid-stream
	aborted := dialServer(t, srv)

	_, err := aborted.Write(bytes.Repeat([]byte{0x01}, 10))
	require.NoError(t, err)

	require.NoError(t, aborted.SetLinger(0))
	require.NoError(t, aborted.Close())

	require.Eventually(t, func() bool {
		return srv.Status().Active == 0
	}, time.Second, 10*time.Millisecond)

	// a fresh connection still completes a full drain
	conn := dialServer(t, srv)
	defer conn.Close()

	payload := bytes.Repeat([]byte{0x02}, 2048)

	_, err = conn.Write(payload)
	require.NoError(t, err)
	require.NoError(t, conn.CloseWrite())

	_, err = io.ReadAll(conn)
	require.NoError(t, err)

	status := srv.Status()
	require.Equal(t, int64(2), status.Accepted)
	require.GreaterOrEqual(t, status.BytesDrained, int64(len(payload)))
}

// TestServer_ServeStopsOnCancel testing graceful shutdown
func TestServer_ServeStopsOnCancel(t *testing.T) {
	t.Parallel()

	srv, err := Listen(0)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)

	go func() {
		done <- srv.Serve(ctx)
	}()

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Serve did not stop after cancellation")
	}
}

// TestStatusEndpoint testing the JSON counters endpoint
func TestStatusEndpoint(t *testing.T) {
	t.Parallel()

	srv := startServer(t)

	conn := dialServer(t, srv)

	_, err := conn.Write([]byte("ping"))
	require.NoError(t, err)
	require.NoError(t, conn.CloseWrite())

	_, err = io.ReadAll(conn)
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	handler := CreateStatusEndpoint(srv)

	// GET returns the counters
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest("GET", "/status", nil))

	require.Equal(t, 200, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var status jsonmodel.StatusResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
	require.Equal(t, int64(1), status.Accepted)
	require.Equal(t, int64(4), status.BytesDrained)

	// anything but GET is rejected
	rec = httptest.NewRecorder()
	handler(rec, httptest.NewRequest("POST", "/status", nil))
	require.Equal(t, 405, rec.Code)
}
