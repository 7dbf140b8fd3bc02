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
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
)

// Transport is the bidirectional connection to a worker process.
//
// Writer carries requests, Reader carries responses. Signal asks the worker
// to exit cleanly; Kill terminates it unconditionally. Done is closed once
// the worker has exited, however that came about.
type Transport interface {
	Start(ctx context.Context) error
	Writer() io.Writer
	Reader() io.Reader
	Signal() error
	Kill() error
	Done() <-chan struct{}
}

// CommandTransport runs the worker as a subprocess, speaking the protocol
// over its stdin and stdout. Stderr is inherited so worker logs stay
// visible.
type CommandTransport struct {
	name string
	args []string

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
	done   chan struct{}
}

var _ Transport = (*CommandTransport)(nil)

// NewCommandTransport prepares a transport that will run the given command.
// The process is not started until Start.
func NewCommandTransport(name string, args ...string) *CommandTransport {
	return &CommandTransport{
		name: name,
		args: args,
		done: make(chan struct{}),
	}
}

// Start launches the worker process and wires its pipes. The context bounds
// process startup only; the running worker is torn down by Signal or Kill,
// not by context cancellation.
func (t *CommandTransport) Start(_ context.Context) error {
	cmd := exec.Command(t.name, t.args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("opening stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("opening stdout pipe: %w", err)
	}
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting worker %q: %w", t.name, err)
	}

	t.cmd = cmd
	t.stdin = stdin
	t.stdout = stdout

	go func() {
		_ = cmd.Wait()
		close(t.done)
	}()

	return nil
}

func (t *CommandTransport) Writer() io.Writer { return t.stdin }
func (t *CommandTransport) Reader() io.Reader { return t.stdout }

// Signal closes the worker's stdin and sends SIGTERM, asking it to exit.
func (t *CommandTransport) Signal() error {
	if t.cmd == nil || t.cmd.Process == nil {
		return nil
	}
	_ = t.stdin.Close()
	if err := t.cmd.Process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signaling worker: %w", err)
	}
	return nil
}

// Kill terminates the worker unconditionally.
func (t *CommandTransport) Kill() error {
	if t.cmd == nil || t.cmd.Process == nil {
		return nil
	}
	if err := t.cmd.Process.Kill(); err != nil {
		return fmt.Errorf("killing worker: %w", err)
	}
	return nil
}

// Done is closed when the worker process has exited.
func (t *CommandTransport) Done() <-chan struct{} { return t.done }
