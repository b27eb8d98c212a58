package bus

import (
	"errors"
	"testing"
)

type addParams struct {
	A int `json:"a"`
	B int `json:"b"`
}

func adder(action string, decode func(params any) error) (any, error) {
	switch action {
	case "add":
		var p addParams
		if err := decode(&p); err != nil {
			return nil, err
		}
		return p.A + p.B, nil
	case "fail":
		return nil, errors.New("broken")
	default:
		return nil, ErrUnknownAction
	}
}

func TestBind(t *testing.T) {
	tests := []struct {
		name   string
		action string
		body   any
		want   int
		code   int
	}{
		{name: "ok", action: "add", body: addParams{A: 2, B: 3}, want: 5},
		{name: "unknown action", action: "sub", body: addParams{}, code: CodeBadRequest},
		{name: "malformed body", action: "add", body: "not an object", code: CodeBadRequest},
		{name: "internal", action: "fail", body: nil, code: CodeInternal},
	}
	b := New("")
	register(t, Bind(b, "adder", adder))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, err := await(t, b.Request("adder", tt.body, WithAction(tt.action)))
			if tt.code != 0 {
				if !HasCode(err, tt.code) {
					t.Errorf("error = %v, want code %d", err, tt.code)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			var got int
			if err := reply.Decode(&got); err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("result = %d, want %d", got, tt.want)
			}
		})
	}
}
