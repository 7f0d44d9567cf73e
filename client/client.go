// Package client is the one-shot TCP client for a boundedcache server:
// connect, write a request, half-close the write side, read exactly one
// response, disconnect. It mirrors the Rust reference's cache-client
// crate (CacheClient.send_request), translating its
// connect/write_all/shutdown(Write)/read_to_end pipeline into Go's
// blocking net.Conn and bufio.Reader.
package client

import (
	"bufio"
	"fmt"
	"net"
	"time"

	"github.com/pkg/errors"

	"github.com/boundedcache/boundedcache/internal/protocol"
)

// Cacheable is anything that can be stored and retrieved by key,
// matching the reference client's Cacheable trait: a key to address
// the cache by, a byte representation to store, and a way to
// rehydrate a response's bytes back into the caller's type.
type Cacheable interface {
	Key() string
	Value() []byte
	ValueFromBytes(data []byte) Cacheable
}

// ErrNotFound is returned by Get when the server reports a cache miss.
var ErrNotFound = errors.New("client: key not found")

// ErrTransport identifies a failure in dialing, writing, or reading a
// request/response, as distinct from the server rejecting the request
// itself (ErrNotFound, or a non-success Put result). Callers can
// errors.Is(err, ErrTransport) to tell connectivity failures apart from
// cache-level outcomes.
var ErrTransport = errors.New("client: transport error")

// Client dials addr fresh for every request; boundedcache connections
// are one-shot, so there is no persistent socket or connection pool to
// manage.
type Client struct {
	addr    string
	dialer  net.Dialer
	timeout time.Duration
}

// Option configures a Client at construction time.
type Option func(*Client)

// WithDialTimeout bounds how long New's connections may take to
// establish. Zero (the default) means no timeout.
func WithDialTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// New returns a Client that dials addr for every Get/Put.
func New(addr string, opts ...Option) *Client {
	c := &Client{addr: addr}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get fetches item.Key() and, on a hit, returns item rehydrated via
// ValueFromBytes. On a miss it returns ErrNotFound.
func (c *Client) Get(item Cacheable) (Cacheable, error) {
	resp, err := c.sendRequest(protocol.Request{
		Command: protocol.CommandGet,
		Key:     item.Key(),
	})
	if err != nil {
		return nil, err
	}
	if resp.Result != protocol.ResultSuccess {
		return nil, ErrNotFound
	}
	return item.ValueFromBytes(resp.Data), nil
}

// Put stores item under item.Key(). The server acknowledges a PUT with
// an empty-bodied success response, so on success Put simply returns
// item unchanged; a non-success result carries the failure reason in
// its data.
func (c *Client) Put(item Cacheable) (Cacheable, error) {
	resp, err := c.sendRequest(protocol.Request{
		Command: protocol.CommandPut,
		Key:     item.Key(),
		Value:   item.Value(),
	})
	if err != nil {
		return nil, err
	}
	if resp.Result != protocol.ResultSuccess {
		return nil, errors.Errorf("client: put failed: %s", resp.Data)
	}
	return item, nil
}

// sendRequest performs the full one-shot round trip: dial, write,
// half-close, read, close.
func (c *Client) sendRequest(req protocol.Request) (protocol.Response, error) {
	conn, err := c.dial()
	if err != nil {
		return protocol.Response{}, wrapTransport(fmt.Sprintf("dialing %s", c.addr), err)
	}
	defer conn.Close()

	if err := protocol.WriteRequest(conn, req); err != nil {
		return protocol.Response{}, wrapTransport("writing request", err)
	}

	if halfCloser, ok := conn.(interface{ CloseWrite() error }); ok {
		if err := halfCloser.CloseWrite(); err != nil {
			return protocol.Response{}, wrapTransport("half-closing write side", err)
		}
	}

	resp, err := protocol.ReadResponse(bufio.NewReader(conn))
	if err != nil {
		return protocol.Response{}, wrapTransport("reading response", err)
	}
	return resp, nil
}

func (c *Client) dial() (net.Conn, error) {
	if c.timeout <= 0 {
		return net.Dial("tcp", c.addr)
	}
	return net.DialTimeout("tcp", c.addr, c.timeout)
}

// wrapTransport annotates err with msg while keeping it errors.Is-able
// as both ErrTransport and the original cause.
func wrapTransport(msg string, err error) error {
	return fmt.Errorf("client: %s: %w: %w", msg, ErrTransport, err)
}
