package bus

import (
	"errors"
	"testing"
)

type adderAsync interface {
	Add(a, b int) *Future[int]
}

type adderProxy Instance

func (p adderProxy) Add(a, b int) *Future[int] {
	return Call[int](Instance(p), "add", addParams{A: a, B: b})
}

func init() {
	RegisterProxy[adderAsync](func(i Instance) any {
		return adderProxy(i)
	})
}

func TestGetAndCall(t *testing.T) {
	b := New("")
	register(t, Bind(b, "adder", adder))
	proxy, err := Get[adderAsync](b, "adder")
	if err != nil {
		t.Fatal(err)
	}
	sum, err := await(t, proxy.Add(20, 22))
	if err != nil || sum != 42 {
		t.Errorf("Add() = %d, %v; want 42, nil", sum, err)
	}
}

func TestCallKeepsFailureCode(t *testing.T) {
	b := New("")
	register(t, Bind(b, "adder", adder))
	_, err := await(t, Call[int](NewInstance(b, "adder"), "nope", nil))
	var f Failure
	if !errors.As(err, &f) || f != ErrUnknownAction {
		t.Errorf("error = %v, want %v", err, ErrUnknownAction)
	}
}

func TestCallCarriesInstanceHeaders(t *testing.T) {
	b := New("")
	register(t, b.Consumer("headers", func(m *Message) {
		m.Reply(m.Headers.Get("tenant") + "/" + m.Action())
	}))
	got, err := await(t, Call[string](NewInstance(b, "headers", WithHeader("tenant", "t1")), "ping", nil))
	if err != nil || got != "t1/ping" {
		t.Errorf("Call() = %q, %v", got, err)
	}
}

func TestGetUnknownProxy(t *testing.T) {
	type unknownAsync interface{ Nothing() }
	_, err := Get[unknownAsync](New(""), "x")
	if !errors.Is(err, ErrProxyTypeNotFound) {
		t.Errorf("Get() error = %v, want %v", err, ErrProxyTypeNotFound)
	}
}
