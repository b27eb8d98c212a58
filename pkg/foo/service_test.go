package foo

import (
	"errors"
	"testing"

	"github.com/orangootan/busproxy/pkg/bus"
)

func TestService(t *testing.T) {
	repository := NewInMemoryRepository()
	s := NewService(repository)
	created, err := s.Create("id", "bar")
	if err != nil || created != (Foo{ID: "id", Bar: "bar"}) {
		t.Fatalf("Create() = %v, %v", created, err)
	}
	found, err := s.Find("id")
	if err != nil || found != created {
		t.Errorf("Find() = %v, %v", found, err)
	}
	if _, err := s.Find("other"); !errors.Is(err, ErrFooNotFound) {
		t.Errorf("Find(other) error = %v, want %v", err, ErrFooNotFound)
	}
}

func TestDecodeServiceCall(t *testing.T) {
	decodeID := func(params any) error {
		switch p := params.(type) {
		case *serviceCreateCall:
			p.Id, p.Bar = "1", "b"
		case *serviceFindCall:
			p.Id = "1"
		}
		return nil
	}
	tests := []struct {
		action string
		want   serviceCall
		err    error
	}{
		{action: "save", want: serviceCreateCall{Id: "1", Bar: "b"}},
		{action: "create", want: serviceCreateCall{Id: "1", Bar: "b"}},
		{action: "find", want: serviceFindCall{Id: "1"}},
		{action: "Find", err: bus.ErrUnknownAction},
	}
	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			call, err := decodeServiceCall(tt.action, decodeID)
			if !errors.Is(err, tt.err) {
				t.Fatalf("error = %v, want %v", err, tt.err)
			}
			if call != tt.want {
				t.Errorf("call = %#v, want %#v", call, tt.want)
			}
		})
	}
}

func TestServiceHandlerSkipsServiceOnUnknownAction(t *testing.T) {
	repository := NewInMemoryRepository()
	handler := ServiceHandler(NewService(repository))
	decoded := false
	_, err := handler("drop", func(params any) error {
		decoded = true
		return nil
	})
	if !errors.Is(err, bus.ErrUnknownAction) {
		t.Errorf("error = %v, want %v", err, bus.ErrUnknownAction)
	}
	if decoded || repository.Len() != 0 {
		t.Errorf("unknown action reached the body or the store")
	}
}
