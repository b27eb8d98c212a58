package bus

import (
	"testing"
)

type sample struct {
	ID   string `json:"id"`
	Tags []string
}

func TestCodecs(t *testing.T) {
	for _, name := range []string{"json", "gob"} {
		t.Run(name, func(t *testing.T) {
			codec, err := CodecByName(name)
			if err != nil {
				t.Fatal(err)
			}
			if codec.Name() != name {
				t.Errorf("Name() = %q, want %q", codec.Name(), name)
			}
			data, err := codec.Marshal(sample{ID: "a", Tags: []string{"x", "y"}})
			if err != nil {
				t.Fatal(err)
			}
			var got sample
			if err := codec.Unmarshal(data, &got); err != nil {
				t.Fatal(err)
			}
			if got.ID != "a" || len(got.Tags) != 2 || got.Tags[1] != "y" {
				t.Errorf("decoded %+v", got)
			}
		})
	}
}

func TestCodecByName(t *testing.T) {
	codec, err := CodecByName("")
	if err != nil || codec.Name() != "json" {
		t.Errorf("CodecByName(\"\") = %v, %v; want json", codec, err)
	}
	if _, err := CodecByName("xml"); err == nil {
		t.Error("CodecByName(\"xml\") succeeded")
	}
}

func TestJSONWireShape(t *testing.T) {
	data, err := JSONCodec{}.Marshal(struct {
		ID  string `json:"id"`
		Bar string `json:"bar"`
	}{"1", "b"})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"id":"1","bar":"b"}` {
		t.Errorf("Marshal() = %s", data)
	}
}
