package bus

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

type State int32

const (
	Unregistered State = iota
	Registering
	Active
	Unregistering
)

func (s State) String() string {
	switch s {
	case Unregistered:
		return "unregistered"
	case Registering:
		return "registering"
	case Active:
		return "active"
	case Unregistering:
		return "unregistering"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Handler processes one message and must settle its reply before returning.
type Handler func(m *Message)

// Consumer is the endpoint bound at an address. Messages are handled one at a
// time, in arrival order, on the consumer's own goroutine.
type Consumer struct {
	bus     *Bus
	address string
	handler Handler
	logger  zerolog.Logger

	lock    sync.Mutex
	state   State
	queue   []*Message
	wake    chan struct{}
	stopped chan struct{}
}

// Consumer creates an unregistered consumer for address. The bus middlewares
// wrap handler; Register makes it reachable.
func (b *Bus) Consumer(address string, handler Handler) *Consumer {
	c := &Consumer{
		bus:     b,
		address: address,
		logger:  b.logger.With().Str("component", "consumer").Str("address", address).Logger(),
	}
	c.handler = Chain(b.middlewares...)(c.guard(handler))
	return c
}

func (c *Consumer) Address() string {
	return c.address
}

func (c *Consumer) State() State {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.state
}

func (c *Consumer) setState(s State) {
	c.lock.Lock()
	c.state = s
	c.lock.Unlock()
}

// Register binds the consumer to its address. The returned future fails with
// ErrAlreadyRegistered when the address is taken or the consumer is not in the
// Unregistered state.
func (c *Consumer) Register() *Future[struct{}] {
	done := NewFuture[struct{}]()
	c.lock.Lock()
	if c.state != Unregistered {
		state := c.state
		c.lock.Unlock()
		done.Fail(fmt.Errorf("%w: consumer for %s is %s", ErrAlreadyRegistered, c.address, state))
		return done
	}
	c.state = Registering
	c.lock.Unlock()
	go func() {
		c.lock.Lock()
		c.wake = make(chan struct{}, 1)
		c.stopped = make(chan struct{})
		c.lock.Unlock()
		if !c.bus.consumers.PutIfAbsent(c.address, c) {
			c.setState(Unregistered)
			c.logger.Warn().Msg("address already bound")
			done.Fail(fmt.Errorf("%w: %s", ErrAlreadyRegistered, c.address))
			return
		}
		c.setState(Active)
		go c.loop()
		recordConsumer(c.address, true)
		c.logger.Info().Msg("registered")
		done.Complete(struct{}{})
	}()
	return done
}

// Unregister unbinds the consumer, finishes the messages already queued and
// then completes. It fails with ErrNotRegistered unless the consumer is Active.
func (c *Consumer) Unregister() *Future[struct{}] {
	done := NewFuture[struct{}]()
	c.lock.Lock()
	if c.state != Active {
		state := c.state
		c.lock.Unlock()
		done.Fail(fmt.Errorf("%w: consumer for %s is %s", ErrNotRegistered, c.address, state))
		return done
	}
	c.state = Unregistering
	stopped := c.stopped
	c.lock.Unlock()
	c.bus.consumers.Delete(c.address)
	c.signal()
	go func() {
		<-stopped
		c.setState(Unregistered)
		recordConsumer(c.address, false)
		c.logger.Info().Msg("unregistered")
		done.Complete(struct{}{})
	}()
	return done
}

func (c *Consumer) enqueue(m *Message) bool {
	c.lock.Lock()
	if c.state != Active {
		c.lock.Unlock()
		return false
	}
	c.queue = append(c.queue, m)
	c.lock.Unlock()
	c.signal()
	return true
}

func (c *Consumer) signal() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// next pops the oldest queued message. With an empty queue it reports whether
// the loop should stop.
func (c *Consumer) next() (*Message, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if len(c.queue) > 0 {
		m := c.queue[0]
		c.queue[0] = nil
		c.queue = c.queue[1:]
		return m, false
	}
	return nil, c.state == Unregistering
}

func (c *Consumer) loop() {
	defer close(c.stopped)
	for {
		<-c.wake
		for {
			m, stopping := c.next()
			if m == nil {
				if stopping {
					return
				}
				break
			}
			c.process(m)
		}
	}
}

func (c *Consumer) process(m *Message) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error().Interface("panic", r).Str("id", m.ID).Msg("middleware panicked")
			m.reply.TryFail(NewFailure(CodeInternal, fmt.Sprint(r)))
		}
		if m.reply.TryFail(ErrNoReply) {
			c.logger.Warn().Str("id", m.ID).Str("action", m.Action()).Msg("middleware dropped the message")
		}
	}()
	c.handler(m)
}

// guard turns a handler panic or a missing reply into a CodeInternal failure
// before the surrounding middlewares observe the outcome.
func (c *Consumer) guard(handler Handler) Handler {
	return func(m *Message) {
		defer func() {
			if r := recover(); r != nil {
				c.logger.Error().Interface("panic", r).Str("id", m.ID).Str("action", m.Action()).Msg("handler panicked")
				m.reply.TryFail(NewFailure(CodeInternal, fmt.Sprint(r)))
			}
			if m.reply.TryFail(ErrNoReply) {
				c.logger.Warn().Str("id", m.ID).Str("action", m.Action()).Msg("handler returned without replying")
			}
		}()
		handler(m)
	}
}
