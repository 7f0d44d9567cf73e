// Package server binds a cache.Engine to a TCP listener, serializing
// every request through one shared mutex and logging a periodic stats
// snapshot the way the teacher's janitor ticked over its TTL sweep.
package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/go-logr/logr"

	"github.com/boundedcache/boundedcache/internal/cache"
	"github.com/boundedcache/boundedcache/internal/logging"
	"github.com/boundedcache/boundedcache/internal/protocol"
)

/*
Server owns the single mutex that makes cache.Engine safe to share
across connections.

------------------------------------------------------------------------------
WHY THE LOCK LIVES HERE, NOT IN cache.Engine
------------------------------------------------------------------------------

cache.Engine is a plain mutator with no synchronization of its own. Server
wraps every Put/Get in mu, held only across the engine call itself —
never across socket reads or writes, so one slow client can't stall
every other connection's cache access.

------------------------------------------------------------------------------
STATS LOGGING
------------------------------------------------------------------------------

A background goroutine wakes on a ticker and logs a stats snapshot,
structurally the same lifecycle the teacher's startEviction ran: a
ticker, a stop channel, a select loop, a deferred ticker.Stop(). The
only thing that changed is what happens on each tick — there, expiring
entries; here, reading and logging a Stats snapshot.
*/
type Server struct {
	listener net.Listener
	engine   *cache.Engine
	mu       sync.Mutex
	log      logr.Logger

	statsInterval time.Duration
	stop          chan struct{}
	wg            sync.WaitGroup
}

// Option configures a Server at construction time.
type Option func(*Server)

// WithStatsInterval sets how often the stats-logging goroutine ticks.
// A zero or negative interval disables it entirely.
func WithStatsInterval(d time.Duration) Option {
	return func(s *Server) { s.statsInterval = d }
}

// WithLogger overrides the no-op default logger.
func WithLogger(log logr.Logger) Option {
	return func(s *Server) { s.log = log }
}

// New binds a listener on addr and wraps engine for concurrent access.
func New(addr string, engine *cache.Engine, opts ...Option) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", addr, err)
	}

	s := &Server{
		listener: ln,
		engine:   engine,
		log:      logr.Discard(),
		stop:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Addr returns the bound local address, useful when addr was ":0".
func (s *Server) Addr() net.Addr { return s.listener.Addr() }

// Serve accepts connections until ctx is canceled or the listener is
// closed. Each connection is handled in its own goroutine and run to
// completion before Serve returns to its caller.
func (s *Server) Serve(ctx context.Context) error {
	if s.statsInterval > 0 {
		s.startStatsLogger()
	}

	go func() {
		<-ctx.Done()
		_ = s.listener.Close()
	}()

	var connWG sync.WaitGroup
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			connWG.Wait()
			s.shutdownStatsLogger()
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accepting connection: %w", err)
		}

		connWG.Add(1)
		go func() {
			defer connWG.Done()
			s.handleConn(conn)
		}()
	}
}

/*
handleConn services a connection as a pipeline of request/response
exchanges, not a single one-shot request (spec §4.4, §5: "within a
single connection, responses are emitted in request-receipt order").
It decodes, dispatches, and encodes in a loop — the Go translation of
the reference server's tokio_proto::pipeline::ServerProto binding in
cache-server/src/proto.rs — until the peer closes its write side
(io.EOF / io.ErrUnexpectedEOF) or a frame turns out malformed, either of
which ends the connection. The client's one-request-per-connection
behavior (cache-client/src/lib.rs's send_request, dial-write-half close-
read-close) is a property of that particular client, not a constraint
this server imposes on every caller.

A panic inside dispatch — the Go analogue of the reference server's
poisoned-lock fatal exit — is recovered here instead of crashing the
process: the offending connection is logged and closed, every other
connection keeps running.
*/
func (s *Server) handleConn(conn net.Conn) {
	remote := conn.RemoteAddr().String()
	defer conn.Close()

	defer func() {
		if r := recover(); r != nil {
			s.log.Error(fmt.Errorf("%v", r), "connection handler panicked, closing connection", "remote", remote)
		}
	}()

	reader := bufio.NewReader(conn)
	for {
		req, err := protocol.ReadRequest(reader)
		if err != nil {
			logReadError(s.log, remote, err)
			return
		}

		resp := s.dispatch(req)

		if err := protocol.WriteResponse(conn, resp); err != nil {
			logging.Warn(s.log, "writing response failed", "remote", remote, "error", err.Error())
			return
		}
	}
}

func logReadError(log logr.Logger, remote string, err error) {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		logging.Debug(log, "connection closed before a complete frame arrived", "remote", remote)
		return
	}
	if errors.Is(err, protocol.ErrMalformedFrame) {
		logging.Warn(log, "malformed request frame", "remote", remote, "error", err.Error())
		return
	}
	logging.Warn(log, "reading request failed", "remote", remote, "error", err.Error())
}

// dispatch runs req against the engine under mu and builds the
// matching response. The lock is held only for the engine call, never
// across the connection's I/O.
func (s *Server) dispatch(req protocol.Request) protocol.Response {
	switch req.Command {
	case protocol.CommandPut:
		func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.engine.Put(req.Key, req.Value)
		}()
		return protocol.Response{Result: protocol.ResultSuccess}

	case protocol.CommandGet:
		var value []byte
		var ok bool
		func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			value, ok = s.engine.Get(req.Key)
		}()
		if !ok {
			return protocol.NotFoundResponse()
		}
		return protocol.Response{Result: protocol.ResultSuccess, Data: value}

	default:
		return protocol.Response{Result: protocol.ResultFailure, Data: []byte("unsupported command")}
	}
}

func (s *Server) startStatsLogger() {
	ticker := time.NewTicker(s.statsInterval)
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.mu.Lock()
				stats := s.engine.Stats()
				totalBytes := s.engine.TotalBytes()
				s.mu.Unlock()

				s.log.Info("cache stats",
					"hits", stats.Hits,
					"misses", stats.Misses,
					"evictions", stats.Evictions,
					"oversized", stats.Oversized,
					"totalBytes", totalBytes,
					"capacity", s.engine.Capacity(),
				)
			case <-s.stop:
				return
			}
		}
	}()
}

func (s *Server) shutdownStatsLogger() {
	if s.statsInterval <= 0 {
		return
	}
	select {
	case <-s.stop:
		// already closed
	default:
		close(s.stop)
	}
	s.wg.Wait()
}

// Close closes the listener, unblocking Serve's Accept loop.
func (s *Server) Close() error {
	return s.listener.Close()
}
