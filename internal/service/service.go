// Package service wraps suture supervision for the long running parts of a
// softx session (MCP server, config watcher, presentation loop).
package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/thejerf/suture/v4"
)

// New returns a supervisor that reports its events to logger.
func New(name string, logger *slog.Logger) *suture.Supervisor {
	if logger == nil {
		logger = slog.Default()
	}
	return suture.New(name, suture.Spec{
		EventHook: EventHook(logger),
	})
}

func EventHook(logger *slog.Logger) suture.EventHook {
	return func(ei suture.Event) {
		switch e := ei.(type) {
		case suture.EventStopTimeout:
			logger.Info("Service failed to terminate in a timely manner", slog.String("supervisor", e.SupervisorName), slog.String("service", e.ServiceName))
		case suture.EventServicePanic:
			logger.Warn("Caught a service panic, which shouldn't happen")
			logger.Info(e.Stacktrace, slog.String("panic", e.PanicMsg))
		case suture.EventServiceTerminate:
			logger.Error("Service failed", slog.Any("error", e.Err), slog.String("supervisor", e.SupervisorName), slog.String("service", e.ServiceName))
			b, _ := json.Marshal(e)
			logger.Debug(string(b))
		case suture.EventBackoff:
			logger.Debug("Too many service failures - entering the backoff state", slog.String("supervisor", e.SupervisorName))
		case suture.EventResume:
			logger.Debug("Exiting backoff state", slog.String("supervisor", e.SupervisorName))
		default:
			logger.Warn("Unknown suture supervisor event type", "type", int(e.Type()))
		}
	}
}

// Service forces the use of the String method
type Service interface {
	String() string
	suture.Service
}

func Add(super *suture.Supervisor, service Service) suture.ServiceToken {
	return super.Add(sanitizeService{Service: service})
}

type sanitizeService struct {
	Service
}

func (s sanitizeService) Serve(ctx context.Context) error {
	return SanitizeError(ctx, s.Service.Serve(ctx))
}

// SanitizeError keeps suture from treating a service error as a context error
// unless the supervisor context really is done. Suture stops restarting a
// service that returns a context error.
func SanitizeError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !(errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return err
	}

	var newErrs [3]error

	if errors.Is(err, suture.ErrDoNotRestart) {
		newErrs[0] = suture.ErrDoNotRestart
	}

	if errors.Is(err, suture.ErrTerminateSupervisorTree) {
		newErrs[1] = suture.ErrTerminateSupervisorTree
	}

	newErrs[2] = errors.New(err.Error())

	return errors.Join(newErrs[:]...)
}

// Func adapts a named function to Service.
type Func struct {
	name string
	fn   func(ctx context.Context) error
}

func NewFunc(name string, fn func(ctx context.Context) error) Func {
	return Func{
		name: name,
		fn:   fn,
	}
}

func (s Func) String() string {
	return s.name
}

func (s Func) Serve(ctx context.Context) error {
	return s.fn(ctx)
}
