// Package server wires the CL.THROTTLE command surface (package command)
// to an embedded in-process host (package host), the way the reference
// implementation's module-load hook registers its command against the
// real host it's loaded into.
package server

import (
	"context"

	"github.com/ajiwo/throttle/command"
	"github.com/ajiwo/throttle/host"
)

// throttleCommand is the name CL.THROTTLE registers under.
const throttleCommand = "CL.THROTTLE"

// Embedded is a self-contained host running entirely in this process: its
// own keyspace, its own single-threaded dispatcher, and CL.THROTTLE
// already registered against an in-host storage adapter. Good for
// embedding the limiter directly into a Go program with no external
// dependency.
type Embedded struct {
	srv *host.Server
}

// NewEmbedded builds an Embedded host with CL.THROTTLE registered.
func NewEmbedded() *Embedded {
	srv := host.NewServer()
	adapter := host.NewAdapter(srv.Keyspace())

	srv.RegisterCommand(throttleCommand, host.CommandSpec{
		Write: true, FirstKey: 1, LastKey: 1, KeyStep: 1,
	}, func(ctx context.Context, args []string) (any, error) {
		return command.Throttle(ctx, adapter, args)
	})

	return &Embedded{srv: srv}
}

// Throttle dispatches a CL.THROTTLE call with the given argument vector
// (key, max_burst, count_per_period, period_seconds[, quantity]) and
// returns the formatted reply.
func (e *Embedded) Throttle(ctx context.Context, args []string) (command.Reply, error) {
	reply, err := e.srv.Dispatch(ctx, throttleCommand, args)
	if err != nil {
		return command.Reply{}, err
	}
	return reply.(command.Reply), nil
}
