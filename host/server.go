package host

import (
	"context"
	"fmt"
	"sync"
)

// CommandFunc is a registered command's implementation: it receives the
// argument vector that followed the command name and returns a reply or
// an error.
type CommandFunc func(ctx context.Context, args []string) (any, error)

// CommandSpec mirrors the metadata a real KV host records about a
// registered command: whether it may write, and the key-position triple
// used to tell cluster-aware clients which argument is the routing key.
// CL.THROTTLE registers with Write=true, FirstKey=LastKey=KeyStep=1.
type CommandSpec struct {
	Write              bool
	FirstKey, LastKey, KeyStep int
}

type registration struct {
	spec CommandSpec
	fn   CommandFunc
}

// Server is an in-process single-threaded command dispatcher: every
// Dispatch call is serialised behind one mutex, the same guarantee a real
// KV host's event loop gives each command handler. The GCRA evaluator's
// retry loop relies on this: against this Server it always succeeds on
// its first attempt, because no other Dispatch call can interleave.
type Server struct {
	ks *Keyspace

	mu       sync.Mutex
	commands map[string]registration
}

// NewServer returns a Server bound to a fresh Keyspace.
func NewServer() *Server {
	return &Server{
		ks:       NewKeyspace(),
		commands: make(map[string]registration),
	}
}

// Keyspace returns the server's keyspace, for building a store.Store
// adapter over it.
func (s *Server) Keyspace() *Keyspace { return s.ks }

// RegisterCommand adds name to the dispatch table. Registering the same
// name twice replaces the previous registration, matching a real host's
// module-reload behavior.
func (s *Server) RegisterCommand(name string, spec CommandSpec, fn CommandFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands[name] = registration{spec: spec, fn: fn}
}

// ErrUnknownCommand is returned by Dispatch when name was never
// registered.
type ErrUnknownCommand struct{ Name string }

func (e *ErrUnknownCommand) Error() string {
	return fmt.Sprintf("host: unknown command %q", e.Name)
}

// Dispatch serialises execution of the named command against this
// Server's keyspace: no two Dispatch calls, even for different commands
// or different keys, ever run concurrently.
func (s *Server) Dispatch(ctx context.Context, name string, args []string) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, ok := s.commands[name]
	if !ok {
		return nil, &ErrUnknownCommand{Name: name}
	}
	return reg.fn(ctx, args)
}
