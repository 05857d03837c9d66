package datasets

import (
	"context"

	"github.com/autom8ter/machine/v4"
)

// Stream broadcasts messages to subscribers of a channel
type Stream[T any] interface {
	// Broadcast publishes the message to every subscriber of the channel
	Broadcast(ctx context.Context, channel string, msg T)
	// Pull blocks, calling fn on every message published to the channel until fn returns false or the context is cancelled
	Pull(ctx context.Context, channel string, fn func(T) (bool, error)) error
}

type defaultStream[T any] struct {
	machine machine.Machine
}

func newStream[T any](m machine.Machine) Stream[T] {
	return defaultStream[T]{machine: m}
}

func (d defaultStream[T]) Broadcast(ctx context.Context, channel string, msg T) {
	d.machine.Publish(ctx, machine.Message{
		Channel: channel,
		Body:    msg,
	})
}

func (d defaultStream[T]) Pull(ctx context.Context, channel string, fn func(T) (bool, error)) error {
	return d.machine.Subscribe(ctx, channel, func(ctx context.Context, msg machine.Message) (bool, error) {
		body, ok := msg.Body.(T)
		if !ok {
			return true, nil
		}
		return fn(body)
	})
}
