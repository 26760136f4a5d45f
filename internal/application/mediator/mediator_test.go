package mediator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/orbit-go/internal/application/mediator"
)

type ping struct{ N int }

type pingHandler struct{}

func (pingHandler) Handle(_ context.Context, request mediator.Request) (mediator.Response, error) {
	return request.(*ping).N + 1, nil
}

func TestMediator_SendDispatchesByType(t *testing.T) {
	m := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*ping](m, pingHandler{}))

	resp, err := m.Send(context.Background(), &ping{N: 1})

	require.NoError(t, err)
	assert.Equal(t, 2, resp)
}

func TestMediator_RejectsDuplicateAndUnknown(t *testing.T) {
	m := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*ping](m, pingHandler{}))

	assert.Error(t, mediator.RegisterHandler[*ping](m, pingHandler{}))
	_, err := m.Send(context.Background(), struct{}{})
	assert.ErrorIs(t, err, mediator.ErrNoHandler)
	_, err = m.Send(context.Background(), nil)
	assert.Error(t, err)
}

func TestMediator_MiddlewareOrder(t *testing.T) {
	m := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*ping](m, pingHandler{}))
	var calls []string
	trace := func(name string) mediator.Middleware {
		return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
			calls = append(calls, name)
			return next(ctx, request)
		}
	}
	m.Use(trace("outer"))
	m.Use(trace("inner"))

	_, err := m.Send(context.Background(), &ping{})

	require.NoError(t, err)
	assert.Equal(t, []string{"outer", "inner"}, calls)
}

func TestSendAs_TypedResponse(t *testing.T) {
	m := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*ping](m, pingHandler{}))

	n, err := mediator.SendAs[int](context.Background(), m, &ping{N: 41})
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	_, err = mediator.SendAs[string](context.Background(), m, &ping{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want string")

	_, err = mediator.SendAs[int](context.Background(), m, &struct{}{})
	assert.ErrorIs(t, err, mediator.ErrNoHandler)
}
