package bus

import (
	"fmt"
	"strconv"
)

// ActionHeader is the out-of-band header that selects the operation a request invokes.
const ActionHeader = "action"

type Headers map[string]string

func (h Headers) Get(key string) string {
	return h[key]
}

type DeliveryOptions struct {
	Headers Headers
}

type DeliveryOption func(o *DeliveryOptions)

func WithAction(action string) DeliveryOption {
	return WithHeader(ActionHeader, action)
}

func WithHeader(key, value string) DeliveryOption {
	return func(o *DeliveryOptions) {
		o.Headers[key] = value
	}
}

func newDeliveryOptions(opts []DeliveryOption) DeliveryOptions {
	o := DeliveryOptions{Headers: make(Headers)}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Reply is a successful answer to a Message. Failures never produce a Reply;
// the reply future fails with a Failure instead.
type Reply struct {
	ID      string
	Headers Headers
	Body    []byte
	codec   Codec
}

func (r Reply) Decode(v any) error {
	return r.codec.Unmarshal(r.Body, v)
}

// Message is an inbound request as seen by a consumer. It owns the one-shot
// reply slot of the exchange: exactly one of Reply, Fail or FailWith wins.
type Message struct {
	ID      string
	Address string
	Headers Headers
	Body    []byte
	codec   Codec
	reply   *Future[Reply]
}

func (m *Message) Action() string {
	return m.Headers.Get(ActionHeader)
}

func (m *Message) Decode(v any) error {
	return m.codec.Unmarshal(m.Body, v)
}

func (m *Message) Reply(v any, opts ...DeliveryOption) error {
	if m.reply.IsDone() {
		return ErrAlreadyReplied
	}
	body, err := m.codec.Marshal(v)
	if err != nil {
		failure := NewFailure(CodeInternal, fmt.Sprintf("encode reply: %v", err))
		if !m.reply.TryFail(failure) {
			return ErrAlreadyReplied
		}
		return failure
	}
	reply := Reply{
		ID:      m.ID,
		Headers: newDeliveryOptions(opts).Headers,
		Body:    body,
		codec:   m.codec,
	}
	if !m.reply.TryComplete(reply) {
		return ErrAlreadyReplied
	}
	return nil
}

func (m *Message) Fail(code int, message string) error {
	if !m.reply.TryFail(NewFailure(code, message)) {
		return ErrAlreadyReplied
	}
	return nil
}

// FailWith replies with err mapped through FailureFrom.
func (m *Message) FailWith(err error) error {
	if !m.reply.TryFail(FailureFrom(err)) {
		return ErrAlreadyReplied
	}
	return nil
}

func (m *Message) Replied() bool {
	return m.reply.IsDone()
}

// Status describes the outcome for logs and metrics: "pending", "ok", or the
// failure code.
func (m *Message) Status() string {
	if !m.reply.IsDone() {
		return "pending"
	}
	_, err := m.reply.Result()
	if err == nil {
		return "ok"
	}
	return strconv.Itoa(FailureFrom(err).Code)
}
