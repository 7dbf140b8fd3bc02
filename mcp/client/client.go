// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package client

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// State is a phase of the worker lifecycle.
type State int

const (
	StateNotStarted State = iota
	StateStarting
	StateReady
	StateShuttingDown
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateStarting:
		return "starting"
	case StateReady:
		return "ready"
	case StateShuttingDown:
		return "shutting_down"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

const (
	// DefaultStartTimeout bounds the wait for the initialize response.
	DefaultStartTimeout = 10 * time.Second

	// DefaultStopTimeout bounds the wait for clean worker exit before the
	// process is killed.
	DefaultStopTimeout = 10 * time.Second

	// maxLineSize caps one response line. Query results carry chunk text,
	// so lines can get large.
	maxLineSize = 16 * 1024 * 1024
)

// Client manages one worker over a Transport.
type Client struct {
	transport    Transport
	logger       *slog.Logger
	startTimeout time.Duration
	stopTimeout  time.Duration

	stateMu sync.Mutex
	state   State

	nextID atomic.Int64

	// callMu holds the write-to-response window of each request, keeping
	// the shared line stream free of interleaved requests.
	callMu sync.Mutex

	waitersMu sync.Mutex
	waiters   map[int64]chan *response

	// readDone is closed when the read loop exits, which means no further
	// responses will ever arrive.
	readDone chan struct{}

	serverInfo InitializeResult
}

// Option configures a Client.
type Option func(*Client)

// WithStartTimeout overrides the bound on waiting for initialize.
func WithStartTimeout(d time.Duration) Option {
	return func(c *Client) { c.startTimeout = d }
}

// WithStopTimeout overrides the grace period before force kill.
func WithStopTimeout(d time.Duration) Option {
	return func(c *Client) { c.stopTimeout = d }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a client over the given transport. The worker is not
// started until Start.
func NewClient(transport Transport, opts ...Option) (*Client, error) {
	if transport == nil {
		return nil, ErrTransportRequired
	}

	c := &Client{
		transport:    transport,
		logger:       slog.Default(),
		startTimeout: DefaultStartTimeout,
		stopTimeout:  DefaultStopTimeout,
		state:        StateNotStarted,
		waiters:      make(map[int64]chan *response),
		readDone:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// State reports the current lifecycle phase.
func (c *Client) State() State {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	return c.state
}

// ServerInfo reports the initialize result. Only meaningful once Ready.
func (c *Client) ServerInfo() InitializeResult {
	return c.serverInfo
}

func (c *Client) transition(from, to State) bool {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	if c.state != from {
		return false
	}
	c.state = to
	return true
}

func (c *Client) setState(to State) {
	c.stateMu.Lock()
	c.state = to
	c.stateMu.Unlock()
}

// Start launches the worker, performs the initialize exchange, and waits
// up to the start timeout for the worker to answer. On timeout the worker
// is killed and ErrStartTimeout is returned.
func (c *Client) Start(ctx context.Context) error {
	if !c.transition(StateNotStarted, StateStarting) {
		return ErrAlreadyStarted
	}

	if err := c.transport.Start(ctx); err != nil {
		c.setState(StateStopped)
		return fmt.Errorf("starting transport: %w", err)
	}

	go c.readLoop()

	initCtx, cancel := context.WithTimeout(ctx, c.startTimeout)
	defer cancel()

	params := initializeParams{
		ProtocolVersion: protocolVersion,
		Capabilities:    map[string]any{},
		ClientInfo:      clientInfo{Name: "docmem-client", Version: "0.1.0"},
	}
	var result InitializeResult
	if err := c.roundTrip(initCtx, "initialize", params, &result); err != nil {
		_ = c.transport.Kill()
		c.setState(StateStopped)
		if initCtx.Err() != nil && ctx.Err() == nil {
			return ErrStartTimeout
		}
		return fmt.Errorf("initializing worker: %w", err)
	}

	if err := c.notify("notifications/initialized", nil); err != nil {
		_ = c.transport.Kill()
		c.setState(StateStopped)
		return fmt.Errorf("confirming initialization: %w", err)
	}

	c.serverInfo = result
	c.setState(StateReady)
	c.logger.Info("worker ready",
		"server", result.ServerInfo.Name,
		"version", result.ServerInfo.Version,
		"protocol", result.ProtocolVersion)
	return nil
}

// Call invokes a named operation on the worker and decodes its result into
// result, which may be nil when the caller does not need it. A worker-side
// error surfaces as *RPCError.
func (c *Client) Call(ctx context.Context, method string, params any, result any) error {
	if c.State() != StateReady {
		return ErrNotReady
	}
	return c.roundTrip(ctx, method, params, result)
}

// CallTool invokes a registered tool by name with the given arguments.
func (c *Client) CallTool(ctx context.Context, name string, arguments any, result any) error {
	params := map[string]any{
		"name":      name,
		"arguments": arguments,
	}
	return c.Call(ctx, "tools/call", params, result)
}

// Stop shuts the worker down. It signals the worker, waits up to the stop
// timeout for clean exit, and kills it if the grace period lapses. Stop
// always completes within the configured bound and is safe to call once
// regardless of worker health.
func (c *Client) Stop() error {
	if !c.transition(StateReady, StateShuttingDown) {
		// A worker that never got past Starting still needs tearing down.
		if !c.transition(StateStarting, StateShuttingDown) {
			return nil
		}
	}

	if err := c.transport.Signal(); err != nil {
		c.logger.Warn("signaling worker failed, killing", "error", err)
		_ = c.transport.Kill()
	}

	select {
	case <-c.transport.Done():
	case <-time.After(c.stopTimeout):
		c.logger.Warn("worker did not exit within grace period, killing",
			"timeout", c.stopTimeout)
		_ = c.transport.Kill()
		<-c.transport.Done()
	}

	c.setState(StateStopped)
	return nil
}

// roundTrip writes one request and waits for its response. The call mutex
// is held from write until the response, a cancellation, or loss of the
// read loop, so requests never interleave on the wire.
func (c *Client) roundTrip(ctx context.Context, method string, params any, result any) error {
	id := c.nextID.Add(1)

	ch := make(chan *response, 1)
	c.waitersMu.Lock()
	c.waiters[id] = ch
	c.waitersMu.Unlock()

	defer func() {
		c.waitersMu.Lock()
		delete(c.waiters, id)
		c.waitersMu.Unlock()
	}()

	line, err := json.Marshal(request{
		JSONRPC: jsonrpcVersion,
		ID:      id,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	c.callMu.Lock()
	defer c.callMu.Unlock()

	if _, err := c.transport.Writer().Write(append(line, '\n')); err != nil {
		return fmt.Errorf("writing request: %w", err)
	}

	select {
	case resp := <-ch:
		if resp.Error != nil {
			return resp.Error
		}
		if result != nil && resp.Result != nil {
			if err := json.Unmarshal(resp.Result, result); err != nil {
				return fmt.Errorf("decoding result: %w", err)
			}
		}
		return nil
	case <-ctx.Done():
		// The worker may still answer later; the read loop will discard
		// the orphaned response.
		return ctx.Err()
	case <-c.readDone:
		return ErrStopped
	}
}

// notify writes a notification, a request without an identifier that gets
// no response.
func (c *Client) notify(method string, params any) error {
	line, err := json.Marshal(struct {
		JSONRPC string `json:"jsonrpc"`
		Method  string `json:"method"`
		Params  any    `json:"params,omitempty"`
	}{JSONRPC: jsonrpcVersion, Method: method, Params: params})
	if err != nil {
		return fmt.Errorf("encoding notification: %w", err)
	}

	c.callMu.Lock()
	defer c.callMu.Unlock()
	if _, err := c.transport.Writer().Write(append(line, '\n')); err != nil {
		return fmt.Errorf("writing notification: %w", err)
	}
	return nil
}

// readLoop consumes response lines until the transport's read side ends.
// Malformed lines and responses with no registered waiter are logged and
// dropped, never fatal.
func (c *Client) readLoop() {
	defer close(c.readDone)

	scanner := bufio.NewScanner(c.transport.Reader())
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var resp response
		if err := json.Unmarshal(line, &resp); err != nil {
			c.logger.Warn("discarding malformed response line", "error", err)
			continue
		}
		if resp.ID == 0 {
			// Server-initiated notification. Nothing registers for these.
			continue
		}

		c.waitersMu.Lock()
		ch, ok := c.waiters[resp.ID]
		if ok {
			delete(c.waiters, resp.ID)
		}
		c.waitersMu.Unlock()

		if !ok {
			c.logger.Debug("discarding response with no waiter", "id", resp.ID)
			continue
		}
		ch <- &resp
	}

	if err := scanner.Err(); err != nil {
		c.logger.Warn("worker read loop ended", "error", err)
	}
}
