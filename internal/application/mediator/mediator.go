// Package mediator routes commands and queries to the handler registered for
// their concrete type, through a chain of middleware.
package mediator

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// Request is a command or query. Handlers are looked up by its dynamic type.
type Request interface{}

type Response interface{}

type RequestHandler interface {
	Handle(ctx context.Context, request Request) (Response, error)
}

type HandlerFunc func(ctx context.Context, request Request) (Response, error)

// Middleware wraps every Send. It calls next to continue the chain.
type Middleware func(ctx context.Context, request Request, next HandlerFunc) (Response, error)

// ErrNoHandler is returned by Send for an unregistered request type
var ErrNoHandler = errors.New("no handler registered")

type Mediator interface {
	Send(ctx context.Context, request Request) (Response, error)
	Register(requestType reflect.Type, handler RequestHandler) error
	Use(middleware Middleware)
}

type mediator struct {
	mu       sync.RWMutex
	handlers map[reflect.Type]RequestHandler
	chain    []Middleware
}

func NewMediator() Mediator {
	return &mediator{handlers: map[reflect.Type]RequestHandler{}}
}

// Register binds handler to requestType. Each type takes one handler.
func (m *mediator) Register(requestType reflect.Type, handler RequestHandler) error {
	switch {
	case requestType == nil:
		return errors.New("mediator: nil request type")
	case handler == nil:
		return fmt.Errorf("mediator: nil handler for %s", requestType)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.handlers[requestType]; taken {
		return fmt.Errorf("mediator: %s already has a handler", requestType)
	}
	m.handlers[requestType] = handler
	return nil
}

// Use appends a middleware; the first registered runs outermost
func (m *mediator) Use(middleware Middleware) {
	m.mu.Lock()
	m.chain = append(m.chain, middleware)
	m.mu.Unlock()
}

func (m *mediator) Send(ctx context.Context, request Request) (Response, error) {
	if request == nil {
		return nil, errors.New("mediator: nil request")
	}
	requestType := reflect.TypeOf(request)

	m.mu.RLock()
	handler, ok := m.handlers[requestType]
	chain := m.chain[:len(m.chain):len(m.chain)]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w for %s", ErrNoHandler, requestType)
	}

	call := HandlerFunc(handler.Handle)
	for i := len(chain) - 1; i >= 0; i-- {
		call = wrap(chain[i], call)
	}
	return call(ctx, request)
}

func wrap(mw Middleware, next HandlerFunc) HandlerFunc {
	return func(ctx context.Context, request Request) (Response, error) {
		return mw(ctx, request, next)
	}
}

// SendAs sends request and asserts the response type
func SendAs[R Response](ctx context.Context, m Mediator, request Request) (R, error) {
	var zero R
	resp, err := m.Send(ctx, request)
	if err != nil {
		return zero, err
	}
	typed, ok := resp.(R)
	if !ok {
		return zero, fmt.Errorf("mediator: %T answered %T, want %T", request, resp, zero)
	}
	return typed, nil
}

// RegisterHandler registers handler for the request type T
func RegisterHandler[T Request](m Mediator, handler RequestHandler) error {
	var zero T
	return m.Register(reflect.TypeOf(zero), handler)
}
