// File: client.go
// Title: WebSocket Executor Client
// Description: Implements the engine's executor boundary over a JSON
//              websocket protocol. Each call is one correlated
//              request/response pair; a single read pump resolves pending
//              calls by id, and a keepalive loop pings the host. All
//              pending calls fail when the connection drops.
// Author: msto63
// Version: v0.1.0
// Created: 2026-08-20
// Modified: 2026-08-20
//
// Change History:
// - 2026-08-20 v0.1.0: Initial implementation

package ws

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/msto63/hostcmd/action"
	hcerror "github.com/msto63/hostcmd/core/error"
	hclog "github.com/msto63/hostcmd/core/log"
)

// Wire frame types
const (
	typeBatch = "batch"
	typeGet   = "get"
)

// request is the wire frame sent to the host
type request struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Commands  []action.Command       `json:"commands,omitempty"`
	Reference action.Descriptor      `json:"reference,omitempty"`
	Options   map[string]interface{} `json:"options,omitempty"`
}

// response is the wire frame received from the host. For batch calls
// Results and Errors are position-aligned with the request commands; an
// empty string means the command succeeded. Error reports whole-call
// failure.
type response struct {
	ID      string              `json:"id"`
	Results []action.Descriptor `json:"results,omitempty"`
	Errors  []string            `json:"errors,omitempty"`
	Result  action.Descriptor   `json:"result,omitempty"`
	Error   string              `json:"error,omitempty"`
}

// ClientOptions configures the websocket client
type ClientOptions struct {
	// Address is the host endpoint, e.g. "ws://127.0.0.1:9780/automation"
	// (required)
	Address string

	// DialTimeout bounds the websocket handshake (default 10s)
	DialTimeout time.Duration

	// WriteTimeout bounds each frame write (default 10s)
	WriteTimeout time.Duration

	// PingInterval is the keepalive period; 0 disables keepalives
	PingInterval time.Duration

	// Logger for transport operations (optional)
	Logger *hclog.Logger
}

// Client is a websocket connection to the host executor. It satisfies
// the engine's Executor boundary and is safe for concurrent use.
type Client struct {
	conn   *websocket.Conn
	logger *hclog.Logger

	writeTimeout time.Duration

	writeMutex sync.Mutex // gorilla allows one concurrent frame writer

	mutex    sync.Mutex
	pending  map[string]chan *response
	closeErr error
	closed   bool

	done      chan struct{}
	closeOnce sync.Once
}

// Dial connects to the host executor endpoint
func Dial(opts ClientOptions) (*Client, error) {
	if opts.Address == "" {
		return nil, hcerror.New("Address is required").
			WithCode(hcerror.CodeValidation).
			WithOperation("ws.Dial")
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = 10 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 10 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = hclog.GetDefault()
	}

	dialer := websocket.Dialer{HandshakeTimeout: opts.DialTimeout}
	conn, _, err := dialer.Dial(opts.Address, nil)
	if err != nil {
		return nil, hcerror.Wrap(err, "failed to connect to host").
			WithCode(hcerror.CodeTransport).
			WithOperation("ws.Dial").
			WithDetail("address", opts.Address)
	}

	client := &Client{
		conn:         conn,
		logger:       opts.Logger.WithField("component", "ws-client"),
		writeTimeout: opts.WriteTimeout,
		pending:      make(map[string]chan *response),
		done:         make(chan struct{}),
	}

	client.logger.Debug("connected", hclog.Fields{"address": opts.Address})

	go client.readPump()
	if opts.PingInterval > 0 {
		go client.pingLoop(opts.PingInterval)
	}

	return client, nil
}

// ExecuteBatch sends a batch frame and waits for its response
func (c *Client) ExecuteBatch(ctx context.Context, commands []action.Command, options action.Options) ([]action.Descriptor, []error, error) {
	resp, err := c.roundTrip(ctx, request{
		Type:     typeBatch,
		Commands: commands,
		Options:  options.Wire(),
	})
	if err != nil {
		return nil, nil, err
	}
	if resp.Error != "" {
		return nil, nil, hcerror.New(resp.Error).
			WithCode(hcerror.CodeTransport).
			WithOperation("ws.ExecuteBatch")
	}

	cmdErrs := make([]error, len(commands))
	for i := range cmdErrs {
		if i < len(resp.Errors) && resp.Errors[i] != "" {
			cmdErrs[i] = hcerror.New(resp.Errors[i]).
				WithCode(hcerror.CodeCommandFailed)
		}
	}

	results := resp.Results
	if results == nil {
		results = make([]action.Descriptor, len(commands))
	}

	return results, cmdErrs, nil
}

// ExecuteGet sends a get frame and waits for its response
func (c *Client) ExecuteGet(ctx context.Context, reference action.Descriptor, options action.Options) (action.Descriptor, error) {
	resp, err := c.roundTrip(ctx, request{
		Type:      typeGet,
		Reference: reference,
		Options:   options.Wire(),
	})
	if err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, hcerror.New(resp.Error).
			WithCode(hcerror.CodeTransport).
			WithOperation("ws.ExecuteGet")
	}
	return resp.Result, nil
}

// roundTrip registers a pending call, writes the frame, and waits for
// the correlated response, the context, or connection loss.
func (c *Client) roundTrip(ctx context.Context, req request) (*response, error) {
	req.ID = uuid.NewString()

	ch := make(chan *response, 1)

	c.mutex.Lock()
	if c.closed {
		err := c.closeErr
		c.mutex.Unlock()
		return nil, err
	}
	c.pending[req.ID] = ch
	c.mutex.Unlock()

	defer func() {
		c.mutex.Lock()
		delete(c.pending, req.ID)
		c.mutex.Unlock()
	}()

	if err := c.writeFrame(req); err != nil {
		return nil, err
	}

	select {
	case resp, ok := <-ch:
		if !ok {
			c.mutex.Lock()
			err := c.closeErr
			c.mutex.Unlock()
			return nil, err
		}
		return resp, nil
	case <-ctx.Done():
		return nil, hcerror.Wrap(ctx.Err(), "call canceled").
			WithCode(hcerror.CodeTransport).
			WithOperation("ws.roundTrip").
			WithDetail("id", req.ID)
	}
}

// writeFrame serializes one frame under the writer lock
func (c *Client) writeFrame(req request) error {
	c.writeMutex.Lock()
	defer c.writeMutex.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	if err := c.conn.WriteJSON(req); err != nil {
		return hcerror.Wrap(err, "failed to write frame").
			WithCode(hcerror.CodeTransport).
			WithOperation("ws.writeFrame")
	}
	return nil
}

// readPump resolves pending calls until the connection fails, then
// fails everything still pending
func (c *Client) readPump() {
	for {
		var resp response
		if err := c.conn.ReadJSON(&resp); err != nil {
			c.failPending(err)
			return
		}

		c.mutex.Lock()
		ch, ok := c.pending[resp.ID]
		if ok {
			delete(c.pending, resp.ID)
		}
		c.mutex.Unlock()

		if !ok {
			c.logger.Warn("dropping uncorrelated response", hclog.Fields{
				"id": resp.ID,
			})
			continue
		}

		ch <- &resp
	}
}

// failPending marks the client closed and wakes every waiter with a
// connection-closed error
func (c *Client) failPending(cause error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.closeErr = hcerror.Wrap(cause, "connection to host lost").
		WithCode(hcerror.CodeConnectionClosed).
		WithOperation("ws.readPump")

	failed := len(c.pending)
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}

	c.logger.WarnWithErr("connection lost", cause, hclog.Fields{
		"pending": failed,
	})
}

// pingLoop sends keepalive pings until the client closes
func (c *Client) pingLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.writeMutex.Lock()
			err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.writeTimeout))
			c.writeMutex.Unlock()
			if err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// Close shuts the connection down. Safe to call more than once.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)

		c.writeMutex.Lock()
		c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(c.writeTimeout))
		c.writeMutex.Unlock()

		err = c.conn.Close()

		c.mutex.Lock()
		if !c.closed {
			c.closed = true
			c.closeErr = hcerror.New("client closed").
				WithCode(hcerror.CodeConnectionClosed).
				WithOperation("ws.Close")
			for id, ch := range c.pending {
				close(ch)
				delete(c.pending, id)
			}
		}
		c.mutex.Unlock()

		c.logger.Debug("connection closed")
	})
	return err
}
