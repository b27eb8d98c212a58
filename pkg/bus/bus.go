package bus

import (
	"fmt"

	"github.com/rs/xid"
	"github.com/rs/zerolog"
)

// Bus routes requests to the single consumer bound at an address and carries
// the reply back through a one-shot future.
type Bus struct {
	name        string
	consumers   SyncMap[string, *Consumer]
	codec       Codec
	logger      zerolog.Logger
	middlewares []Middleware
}

type Option func(b *Bus)

func WithCodec(codec Codec) Option {
	return func(b *Bus) {
		b.codec = codec
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(b *Bus) {
		b.logger = logger
	}
}

// WithMiddleware wraps the handler of every consumer created on the bus.
// Middlewares run in the order given.
func WithMiddleware(middlewares ...Middleware) Option {
	return func(b *Bus) {
		b.middlewares = append(b.middlewares, middlewares...)
	}
}

func New(name string, opts ...Option) *Bus {
	if name == "" {
		name = "bus-" + xid.New().String()
	}
	b := &Bus{
		name:      name,
		consumers: NewSyncMap[string, *Consumer](),
		codec:     JSONCodec{},
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.With().Str("bus", name).Logger()
	return b
}

func (b *Bus) Name() string {
	return b.name
}

func (b *Bus) Codec() Codec {
	return b.codec
}

// Addresses lists the addresses with an active consumer.
func (b *Bus) Addresses() []string {
	return b.consumers.Keys()
}

// Request encodes body and delivers it to the consumer at address. It never
// blocks: the returned future resolves once, with the reply or with a Failure.
func (b *Bus) Request(address string, body any, opts ...DeliveryOption) *Future[Reply] {
	reply := NewFuture[Reply]()
	options := newDeliveryOptions(opts)
	data, err := b.codec.Marshal(body)
	if err != nil {
		reply.Fail(fmt.Errorf("encode request for %s: %w", address, err))
		return reply
	}
	m := &Message{
		ID:      xid.New().String(),
		Address: address,
		Headers: options.Headers,
		Body:    data,
		codec:   b.codec,
		reply:   reply,
	}
	consumer, ok := b.consumers.Get(address)
	if !ok || !consumer.enqueue(m) {
		b.logger.Debug().Str("address", address).Str("id", m.ID).Msg("no handlers")
		reply.Fail(NoHandlers(address))
		return reply
	}
	b.logger.Debug().
		Str("address", address).
		Str("action", m.Action()).
		Str("id", m.ID).
		Msg("sent request")
	return reply
}
